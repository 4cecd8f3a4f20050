package tui

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"repackdex/internal/catalog"
	"repackdex/internal/config"
)

type Theme struct {
	border      lipgloss.Style
	title       lipgloss.Style
	label       lipgloss.Style
	tabActive   lipgloss.Style
	tabInactive lipgloss.Style
	row         lipgloss.Style
	rowSelected lipgloss.Style
	head        lipgloss.Style
	footer      lipgloss.Style
	ok          lipgloss.Style
	bad         lipgloss.Style
}

func defaultTheme() Theme {
	b := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	return Theme{
		border:      b.BorderForeground(lipgloss.Color("63")),
		title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81")),
		label:       lipgloss.NewStyle().Faint(true),
		tabActive:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("219")),
		tabInactive: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		row:         lipgloss.NewStyle(),
		rowSelected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		head:        lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true),
		footer:      lipgloss.NewStyle().Faint(true),
		ok:          lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		bad:         lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

func themePresets() []Theme {
	dark := defaultTheme()
	light := Theme{
		border:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).BorderForeground(lipgloss.Color("240")),
		title:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62")),
		label:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		tabActive:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("162")),
		tabInactive: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		row:         lipgloss.NewStyle(),
		rowSelected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("162")),
		head:        lipgloss.NewStyle().Foreground(lipgloss.Color("162")).Bold(true),
		footer:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		ok:          lipgloss.NewStyle().Foreground(lipgloss.Color("22")),
		bad:         lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
	}
	return []Theme{dark, light}
}

func themeNames() []string { return []string{"dark", "light"} }

func themeIndexByName(name string) int {
	for i, n := range themeNames() {
		if strings.EqualFold(n, name) {
			return i
		}
	}
	return 0
}

// String utilities

func truncateMiddle(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max < 7 {
		return s[:max]
	}
	left := (max - 3) / 2
	right := max - 3 - left
	return s[:left] + "..." + s[len(s)-right:]
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max < 4 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// visibleFacets is the sidebar's view of the facet list: the controller's
// facets narrowed by the quick-filter input, best fuzzy match first.
func (m *Model) visibleFacets() []catalog.CategoryFacet {
	facets := m.ctrl.Snapshot().Facets
	return filterFacets(facets, m.catInput.Value())
}

func filterFacets(facets []catalog.CategoryFacet, q string) []catalog.CategoryFacet {
	q = strings.TrimSpace(q)
	if q == "" {
		return facets
	}
	names := make([]string, len(facets))
	for i, f := range facets {
		names[i] = f.Name
	}
	ranks := fuzzy.RankFindNormalizedFold(q, names)
	sort.Sort(ranks)
	out := make([]catalog.CategoryFacet, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, facets[r.OriginalIndex])
	}
	return out
}

// Last-seen marker

const lastSeenFile = "last_seen"

func readLastSeen(cfg *config.Config) (time.Time, bool) {
	b, err := os.ReadFile(filepath.Join(cfg.General.DataRoot, lastSeenFile))
	if err != nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(string(b)))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func writeLastSeen(cfg *config.Config, t time.Time) error {
	if err := os.MkdirAll(cfg.General.DataRoot, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cfg.General.DataRoot, lastSeenFile), []byte(t.Format(time.RFC3339)+"\n"), 0o644)
}

// Desktop integration

func copyToClipboard(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("empty")
	}
	run := func(name string, args ...string) error {
		cmd := exec.Command(name, args...)
		cmd.Stdin = strings.NewReader(s)
		return cmd.Run()
	}
	switch runtime.GOOS {
	case "darwin":
		return run("pbcopy")
	case "linux":
		if _, err := exec.LookPath("wl-copy"); err == nil {
			return run("wl-copy")
		}
		if _, err := exec.LookPath("xclip"); err == nil {
			return run("xclip", "-selection", "clipboard")
		}
	}
	return fmt.Errorf("no clipboard utility found")
}

func openInBrowser(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return fmt.Errorf("empty url")
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Run()
	case "linux":
		if _, err := exec.LookPath("xdg-open"); err == nil {
			return exec.Command("xdg-open", url).Run()
		}
	}
	return fmt.Errorf("cannot open browser on %s", runtime.GOOS)
}
