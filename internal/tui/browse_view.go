package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"repackdex/internal/catalog"
	"repackdex/internal/keymap"
)

func (m *Model) renderBrowse() string {
	if m.view == keymap.ViewDetail {
		return m.renderGameDetail()
	}

	sidebarW := 28
	listW := m.w - sidebarW - 8
	if listW < 40 {
		listW = 40
	}
	side := m.th.border.Width(sidebarW).Render(m.renderSidebar())
	list := m.th.border.Width(listW).Render(m.renderFilterBar() + "\n" + m.renderGameList(listW))
	return lipgloss.JoinHorizontal(lipgloss.Top, side, list)
}

// renderFilterBar shows the search box plus whichever structured filters are
// active. Search and structured filters never appear together.
func (m *Model) renderFilterBar() string {
	if m.searchInput.Focused() || m.ctrl.Filters().Searching() {
		return m.th.label.Render("Search: ") + m.searchInput.View()
	}

	f := m.ctrl.Filters()
	var parts []string
	if n := len(f.Categories()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d categories", n))
	}
	if b := f.SizeBucket(); b != "" {
		parts = append(parts, b)
	}
	if t := f.TimeFilter(); t.String() != "" {
		parts = append(parts, t.String())
	}
	if f.StatusTag() == "new" {
		parts = append(parts, "NEW only")
	}
	if len(parts) == 0 {
		return m.th.label.Render("All games")
	}
	return m.th.label.Render("Filters: ") + strings.Join(parts, " • ")
}

func (m *Model) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString(m.th.head.Render("Categories") + "\n")

	if m.ctrl.Filters().Searching() {
		sb.WriteString(m.th.label.Render("(hidden while searching)"))
		return sb.String()
	}
	if m.catInput.Focused() || m.catInput.Value() != "" {
		sb.WriteString(m.catInput.View() + "\n")
	}

	facets := m.visibleFacets()
	if len(facets) == 0 {
		sb.WriteString(m.th.label.Render("(none)"))
		return sb.String()
	}

	filters := m.ctrl.Filters()
	maxRows := m.h - 10
	if maxRows < 5 {
		maxRows = 5
	}
	for i, f := range facets {
		if i >= maxRows {
			sb.WriteString(m.th.label.Render(fmt.Sprintf("… %d more", len(facets)-i)))
			break
		}
		cursor := "  "
		style := m.th.row
		if m.focused == keymap.PanelCategories && i == m.catCursor {
			cursor = "▶ "
			style = m.th.rowSelected
		}
		mark := "[ ]"
		if filters.HasCategory(f.ID) {
			mark = "[x]"
		}
		sb.WriteString(style.Render(fmt.Sprintf("%s%s %s (%d)", cursor, mark, truncate(f.Name, 16), f.GameCount)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (m *Model) renderGameList(width int) string {
	snap := m.ctrl.Snapshot()
	var sb strings.Builder

	if snap.Loading {
		sb.WriteString(m.th.label.Render("Loading…") + "\n")
	}
	if len(snap.Items) == 0 {
		sb.WriteString(m.th.label.Render("No games match the current filters."))
		return sb.String()
	}

	titleW := width - 30
	if titleW < 20 {
		titleW = 20
	}
	maxRows := m.h - 10
	if maxRows < 5 {
		maxRows = 5
	}
	start := 0
	if snap.SelectedIndex >= maxRows {
		start = snap.SelectedIndex - maxRows + 1
	}
	for i := start; i < len(snap.Items) && i < start+maxRows; i++ {
		g := snap.Items[i]
		style := m.th.row
		cursor := "  "
		if i == snap.SelectedIndex {
			style = m.th.rowSelected
			cursor = "▶ "
		}
		line := cursor
		if g.IsNew {
			line += m.th.ok.Render("NEW ")
		}
		line += fmt.Sprintf("%-*s  %-9s  %s", titleW, truncate(g.Title, titleW), gameSize(g), g.Date)
		sb.WriteString(style.Render(line) + "\n")
	}
	sb.WriteString("\n" + m.th.footer.Render(fmt.Sprintf("%d of %d", snap.SelectedIndex+1, len(snap.Items))))
	return sb.String()
}

func gameSize(g catalog.Game) string {
	if g.RepackSize != "" {
		return g.RepackSize
	}
	if g.SizeMB > 0 {
		return humanize.IBytes(uint64(g.SizeMB) * 1024 * 1024)
	}
	return "?"
}

func (m *Model) renderGameDetail() string {
	snap := m.ctrl.Snapshot()
	if snap.Detail == nil {
		return m.th.border.Render(m.th.label.Render("No selection"))
	}
	d := snap.Detail

	var sb strings.Builder
	title := d.Title
	if d.IsNew {
		title += " " + m.th.ok.Render("NEW")
	}
	sb.WriteString(m.th.head.Render(title) + "\n\n")

	field := func(label, value string) {
		if value == "" {
			return
		}
		sb.WriteString(m.th.label.Render(label+": ") + value + "\n")
	}
	field("Company", d.Company)
	field("Genres", d.GenresTags)
	field("Languages", d.Languages)
	field("Original size", d.OriginalSize)
	field("Repack size", gameSize(d.Game))
	field("Released", d.Date)
	field("Page", d.URL)

	if len(d.Categories) > 0 {
		names := make([]string, len(d.Categories))
		for i, c := range d.Categories {
			names[i] = c.Name
		}
		sb.WriteString("\n" + m.th.head.Render("Categories") + "\n")
		sb.WriteString(strings.Join(names, ", ") + "\n")
	}

	sb.WriteString("\n" + m.th.head.Render("Magnet links") + "\n")
	if len(d.MagnetLinks) == 0 {
		sb.WriteString(m.th.label.Render("(none)") + "\n")
	}
	for _, ml := range d.MagnetLinks {
		sb.WriteString(fmt.Sprintf("%-12s %s\n", ml.Source, truncateMiddle(ml.Magnet, m.w-20)))
	}

	return m.th.border.Width(m.w - 4).Render(sb.String())
}
