package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"repackdex/internal/browse"
	"repackdex/internal/catalog"
	"repackdex/internal/config"
	"repackdex/internal/keymap"
	"repackdex/internal/logging"
	"repackdex/internal/testutil"
)

func setupTestModel(t *testing.T) (*Model, *catalog.DB) {
	t.Helper()

	db := testutil.SetupCatalog(t)
	testutil.SeedGames(t, db, []testutil.SeedGame{
		{Title: "Alpha Quest", SizeMB: 500, Categories: []string{"RPG", "Indie"}},
		{Title: "Beta Strike", SizeMB: 5000, Categories: []string{"Action"}},
		{Title: "Gamma Siege", SizeMB: 30000, Date: testutil.DaysAgo(t, db, 90), Categories: []string{"Strategy", "RPG"}},
	})

	cfg := config.Default()
	cfg.General.DataRoot = t.TempDir()
	cfg.Features.Popular = true
	cfg.Features.Downloads = true
	cfg.ApplyDefaults()

	m := New(cfg, db, logging.New("error", false)).(*Model)
	m.w, m.h = 120, 40
	drain(t, m, m.Init())
	return m, db
}

// drain executes commands synchronously and feeds resulting messages back
// into Update, so tests observe the post-apply state deterministically.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		return
	}
	msg := cmd()
	if msg == nil {
		return
	}
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			drain(t, m, c)
		}
		return
	}
	if _, ok := msg.(tea.QuitMsg); ok {
		return
	}
	_, next := m.Update(msg)
	drain(t, m, next)
}

func press(t *testing.T, m *Model, key string) {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		msg = tea.KeyMsg{Type: tea.KeySpace}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	drain(t, m, cmd)
}

func typeText(t *testing.T, m *Model, text string) {
	t.Helper()
	for _, r := range text {
		press(t, m, string(r))
	}
}

func TestInitLoadsBaseline(t *testing.T) {
	m, _ := setupTestModel(t)

	snap := m.ctrl.Snapshot()
	if len(snap.Items) != 3 {
		t.Fatalf("expected 3 games after init, got %d", len(snap.Items))
	}
	if snap.Detail == nil {
		t.Fatal("expected detail for the initial selection")
	}
	if len(snap.Facets) == 0 {
		t.Fatal("expected baseline facets")
	}
	if !m.statsKnown {
		t.Fatal("expected stats to load during init")
	}
}

func TestTabCycling(t *testing.T) {
	m, _ := setupTestModel(t)

	want := []keymap.Page{keymap.PagePopular, keymap.PageDownloads, keymap.PageSettings, keymap.PageBrowse}
	for _, p := range want {
		press(t, m, "tab")
		if m.page != p {
			t.Fatalf("expected page %s, got %s", p, m.page)
		}
	}

	press(t, m, "shift+tab")
	if m.page != keymap.PageSettings {
		t.Fatalf("expected settings after shift+tab, got %s", m.page)
	}

	press(t, m, "1")
	if m.page != keymap.PageBrowse {
		t.Fatalf("expected browse after 1, got %s", m.page)
	}
	press(t, m, "3")
	if m.page != keymap.PageDownloads {
		t.Fatalf("expected downloads after 3, got %s", m.page)
	}
}

func TestListNavigationClamps(t *testing.T) {
	m, _ := setupTestModel(t)

	press(t, m, "j")
	press(t, m, "j")
	if got := m.ctrl.Snapshot().SelectedIndex; got != 2 {
		t.Fatalf("expected index 2, got %d", got)
	}
	press(t, m, "j")
	if got := m.ctrl.Snapshot().SelectedIndex; got != 2 {
		t.Fatalf("expected clamp at 2, got %d", got)
	}
	press(t, m, "k")
	press(t, m, "k")
	press(t, m, "k")
	if got := m.ctrl.Snapshot().SelectedIndex; got != 0 {
		t.Fatalf("expected clamp at 0, got %d", got)
	}
}

func TestSelectionTracksDetail(t *testing.T) {
	m, _ := setupTestModel(t)

	press(t, m, "j")
	snap := m.ctrl.Snapshot()
	if snap.Detail == nil || snap.Detail.ID != snap.Items[1].ID {
		t.Fatal("expected detail to follow the selection")
	}
}

func TestDetailViewOpenClose(t *testing.T) {
	m, _ := setupTestModel(t)

	press(t, m, "enter")
	if m.view != keymap.ViewDetail {
		t.Fatalf("expected detail view, got %s", m.view)
	}
	if !strings.Contains(m.View(), "Magnet links") {
		t.Fatal("expected detail rendering")
	}

	press(t, m, "esc")
	if m.view != keymap.ViewList {
		t.Fatalf("expected list view after esc, got %s", m.view)
	}
}

func TestSearchTypingFiltersLive(t *testing.T) {
	m, _ := setupTestModel(t)

	press(t, m, "/")
	if !m.searchInput.Focused() {
		t.Fatal("expected search input focus after /")
	}
	typeText(t, m, "alpha")

	snap := m.ctrl.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].Title != "Alpha Quest" {
		t.Fatalf("expected only Alpha Quest, got %v", snap.Items)
	}
	if len(snap.Facets) != 0 {
		t.Fatal("expected facets suppressed while searching")
	}

	press(t, m, "esc")
	if m.searchInput.Focused() {
		t.Fatal("expected search blur after esc")
	}
	snap = m.ctrl.Snapshot()
	if len(snap.Items) != 3 {
		t.Fatalf("expected full list restored, got %d", len(snap.Items))
	}
	if len(snap.Facets) == 0 {
		t.Fatal("expected facets restored after search cleared")
	}
}

func TestSearchSuppressesListKeys(t *testing.T) {
	m, _ := setupTestModel(t)

	press(t, m, "/")
	press(t, m, "j")
	if got := m.ctrl.Snapshot().SelectedIndex; got != 0 {
		t.Fatalf("j while typing must not move selection, index %d", got)
	}
	if m.searchInput.Value() != "j" {
		t.Fatalf("expected j typed into search, got %q", m.searchInput.Value())
	}
}

func TestSlashFocusesSearchWhileFilteringCategories(t *testing.T) {
	m, _ := setupTestModel(t)

	press(t, m, "h")
	press(t, m, "f")
	if !m.catInput.Focused() {
		t.Fatal("expected category quick-filter focused")
	}

	press(t, m, "s")
	press(t, m, "/")
	if !m.searchInput.Focused() {
		t.Fatal("/ must focus search even while typing in the quick-filter")
	}
	if m.catInput.Focused() {
		t.Error("quick-filter should blur when search takes focus")
	}
	if got := m.catInput.Value(); got != "s" {
		t.Errorf("quick-filter value = %q, want %q", got, "s")
	}
}

func TestCategoryToggleFromSidebar(t *testing.T) {
	m, _ := setupTestModel(t)

	press(t, m, "h")
	if m.focused != keymap.PanelCategories {
		t.Fatalf("expected categories focus, got %s", m.focused)
	}

	// Facets order by count desc then name: RPG(2), Action(1), Indie(1), Strategy(1).
	press(t, m, " ")
	f := m.ctrl.Filters()
	if len(f.Categories()) != 1 {
		t.Fatalf("expected 1 selected category, got %d", len(f.Categories()))
	}
	snap := m.ctrl.Snapshot()
	if len(snap.Items) != 2 {
		t.Fatalf("expected 2 RPG games, got %d", len(snap.Items))
	}

	press(t, m, " ")
	if len(m.ctrl.Filters().Categories()) != 0 {
		t.Fatal("expected toggle off")
	}
}

func TestSizeBucketCycling(t *testing.T) {
	m, _ := setupTestModel(t)

	press(t, m, "s")
	if got := m.ctrl.Filters().SizeBucket(); got != "< 1 GB" {
		t.Fatalf("expected first bucket, got %q", got)
	}
	snap := m.ctrl.Snapshot()
	if len(snap.Items) != 1 || snap.Items[0].Title != "Alpha Quest" {
		t.Fatalf("expected only the sub-GB game, got %v", snap.Items)
	}
	if !strings.Contains(m.View(), "< 1 GB") {
		t.Fatal("expected active bucket in the filter bar")
	}

	// Stepping through the rest of the vocabulary lands back on none.
	for i := 0; i < len(browse.SizeBuckets); i++ {
		press(t, m, "s")
	}
	if got := m.ctrl.Filters().SizeBucket(); got != "" {
		t.Fatalf("expected bucket cleared after full cycle, got %q", got)
	}
}

func TestTimeFilterCycling(t *testing.T) {
	m, _ := setupTestModel(t)

	press(t, m, "t")
	if m.ctrl.Filters().TimeFilter().String() != "Today" {
		t.Fatal("expected Today after first t")
	}
	snap := m.ctrl.Snapshot()
	if len(snap.Items) != 2 {
		t.Fatalf("expected the 2 recent games, got %d", len(snap.Items))
	}

	press(t, m, "t")
	press(t, m, "t")
	press(t, m, "t")
	if m.ctrl.Filters().TimeFilter().String() != "" {
		t.Fatal("expected time filter cleared after full cycle")
	}
}

func TestNewTagNarrowing(t *testing.T) {
	m, db := setupTestModel(t)

	db.SetLastSeen(time.Now().Add(24 * time.Hour))
	press(t, m, "n")
	if m.ctrl.Filters().StatusTag() != "new" {
		t.Fatal("expected new tag set")
	}
	if got := len(m.ctrl.Snapshot().Items); got != 0 {
		t.Fatalf("nothing is newer than the future mark, got %d items", got)
	}

	db.SetLastSeen(time.Now().Add(-24 * time.Hour))
	press(t, m, "n")
	press(t, m, "n")
	if got := len(m.ctrl.Snapshot().Items); got != 3 {
		t.Fatalf("expected all games flagged new, got %d", got)
	}
}

func TestResetClearsEverything(t *testing.T) {
	m, _ := setupTestModel(t)

	press(t, m, "s")
	press(t, m, "t")
	press(t, m, "r")

	f := m.ctrl.Filters()
	if f.SizeBucket() != "" || f.TimeFilter().String() != "" || len(f.Categories()) != 0 {
		t.Fatal("expected filters cleared")
	}
	if got := len(m.ctrl.Snapshot().Items); got != 3 {
		t.Fatalf("expected full list after reset, got %d", got)
	}
}

func TestDownloadsPageLoads(t *testing.T) {
	m, db := setupTestModel(t)
	testutil.SeedDownload(t, db, 1, "Alpha Quest", "downloading", 0.5)

	press(t, m, "3")
	if len(m.downloads) != 1 {
		t.Fatalf("expected 1 download row, got %d", len(m.downloads))
	}
	if !strings.Contains(m.View(), "Alpha Quest") {
		t.Fatal("expected download row rendered")
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := setupTestModel(t)

	press(t, m, "?")
	if !m.showHelp {
		t.Fatal("expected help shown")
	}
	if !strings.Contains(m.View(), "Key bindings") {
		t.Fatal("expected help rendering")
	}
	press(t, m, "?")
	if m.showHelp {
		t.Fatal("expected help hidden")
	}
}

func TestQuitKeys(t *testing.T) {
	m, _ := setupTestModel(t)

	for _, msg := range []tea.Msg{
		tea.KeyMsg{Type: tea.KeyCtrlC},
		tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")},
	} {
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Fatal("expected quit command")
		}
	}
}

func TestWindowResize(t *testing.T) {
	m, _ := setupTestModel(t)

	_, _ = m.Update(tea.WindowSizeMsg{Width: 200, Height: 50})
	if m.w != 200 || m.h != 50 {
		t.Fatalf("expected 200x50, got %dx%d", m.w, m.h)
	}
}
