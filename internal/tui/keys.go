package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"repackdex/internal/browse"
	"repackdex/internal/keymap"
)

// buildDispatcher registers every key binding. Resolution order is the
// dispatcher's: globals first, then the (page, view) table, then tab
// navigation, first match wins.
func (m *Model) buildDispatcher() *keymap.Dispatcher {
	d := keymap.NewDispatcher()

	typing := func(c keymap.Context) bool { return c.IsTyping }
	listFocus := func(c keymap.Context) bool { return c.Focused == keymap.PanelList }
	catFocus := func(c keymap.Context) bool { return c.Focused == keymap.PanelCategories }

	d.Global(
		keymap.Binding{Key: "ctrl+c", WhileTyping: true, Do: func() { m.queue(tea.Quit) }, Help: "quit"},
		keymap.Binding{Key: "q", Do: func() { m.queue(tea.Quit) }, Help: "quit"},
		keymap.Binding{Key: "esc", WhileTyping: true, Do: m.escape, Help: "back"},
		keymap.Binding{Key: "enter", WhileTyping: true, Guard: typing, Do: m.commitInput},
		keymap.Binding{Key: "?", Do: func() { m.showHelp = !m.showHelp }, Help: "help"},
		keymap.Binding{Key: "/", WhileTyping: true, Do: m.focusSearch, Help: "search"},
	)

	d.Bind(keymap.PageBrowse, keymap.ViewList,
		keymap.Binding{Key: "up", Guard: listFocus, Do: func() { m.moveSelection(-1) }},
		keymap.Binding{Key: "k", Guard: listFocus, Do: func() { m.moveSelection(-1) }, Help: "up"},
		keymap.Binding{Key: "down", Guard: listFocus, Do: func() { m.moveSelection(1) }},
		keymap.Binding{Key: "j", Guard: listFocus, Do: func() { m.moveSelection(1) }, Help: "down"},
		keymap.Binding{Key: "enter", Guard: listFocus, Do: m.openDetail, Help: "details"},
		keymap.Binding{Key: "up", Guard: catFocus, Do: func() { m.moveCatCursor(-1) }},
		keymap.Binding{Key: "k", Guard: catFocus, Do: func() { m.moveCatCursor(-1) }},
		keymap.Binding{Key: "down", Guard: catFocus, Do: func() { m.moveCatCursor(1) }},
		keymap.Binding{Key: "j", Guard: catFocus, Do: func() { m.moveCatCursor(1) }},
		keymap.Binding{Key: "enter", Guard: catFocus, Do: m.toggleCategoryAtCursor},
		keymap.Binding{Key: " ", Guard: catFocus, Do: m.toggleCategoryAtCursor, Help: "toggle category"},
		keymap.Binding{Key: "left", Do: func() { m.focused = keymap.PanelCategories }},
		keymap.Binding{Key: "h", Do: func() { m.focused = keymap.PanelCategories }, Help: "categories"},
		keymap.Binding{Key: "right", Do: func() { m.focused = keymap.PanelList }},
		keymap.Binding{Key: "l", Do: func() { m.focused = keymap.PanelList }, Help: "list"},
		keymap.Binding{Key: "f", Guard: catFocus, Do: func() { m.catInput.Focus() }, Help: "filter categories"},
		keymap.Binding{Key: "s", Do: m.cycleSizeBucket, Help: "size filter"},
		keymap.Binding{Key: "t", Do: m.cycleTimeFilter, Help: "time filter"},
		keymap.Binding{Key: "n", Do: m.toggleNewTag, Help: "new only"},
		keymap.Binding{Key: "r", Do: m.clearFilters, Help: "reset filters"},
	)

	d.Bind(keymap.PageBrowse, keymap.ViewDetail,
		keymap.Binding{Key: "up", Do: func() { m.moveSelection(-1) }},
		keymap.Binding{Key: "k", Do: func() { m.moveSelection(-1) }},
		keymap.Binding{Key: "down", Do: func() { m.moveSelection(1) }},
		keymap.Binding{Key: "j", Do: func() { m.moveSelection(1) }},
		keymap.Binding{Key: "C", Do: m.copyMagnet, Help: "copy magnet"},
		keymap.Binding{Key: "U", Do: m.copyURL, Help: "copy url"},
		keymap.Binding{Key: "O", Do: m.openURL, Help: "open page"},
	)

	d.Bind(keymap.PagePopular, keymap.ViewList,
		keymap.Binding{Key: "r", Do: func() { m.queue(m.loadPopularCmd()) }, Help: "refresh"},
		keymap.Binding{Key: "p", Do: m.togglePopularPeriod, Help: "month/year"},
	)

	d.Bind(keymap.PageDownloads, keymap.ViewList,
		keymap.Binding{Key: "r", Do: func() { m.queue(m.loadDownloadsCmd()) }, Help: "refresh"},
	)

	d.Bind(keymap.PageSettings, keymap.ViewList,
		keymap.Binding{Key: "t", Do: m.cycleTheme, Help: "theme"},
	)

	d.Nav(
		keymap.Binding{Key: "tab", Do: func() { m.setPage(m.cycle.Next(m.page)) }, Help: "next tab"},
		keymap.Binding{Key: "shift+tab", Do: func() { m.setPage(m.cycle.Prev(m.page)) }, Help: "prev tab"},
	)
	for i, p := range m.cycle.Pages() {
		page := p
		d.Nav(keymap.Binding{Key: digit(i + 1), Do: func() { m.setPage(page) }})
	}

	return d
}

func digit(n int) string { return string(rune('0' + n)) }

func (m *Model) escape() {
	switch {
	case m.searchInput.Focused():
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.ctrl.SetSearchQuery("")
		m.focused = keymap.PanelList
		m.queue(m.requestApply())
	case m.catInput.Focused():
		m.catInput.Blur()
		m.catInput.SetValue("")
		m.clampCatCursor()
	case m.showHelp:
		m.showHelp = false
	case m.view == keymap.ViewDetail:
		m.view = keymap.ViewList
	}
}

func (m *Model) commitInput() {
	switch {
	case m.searchInput.Focused():
		m.searchInput.Blur()
		m.focused = keymap.PanelList
	case m.catInput.Focused():
		m.catInput.Blur()
	}
}

func (m *Model) focusSearch() {
	m.catInput.Blur()
	m.searchInput.Focus()
	m.focused = keymap.PanelSearch
}

func (m *Model) moveSelection(delta int) {
	m.ctrl.MoveSelection(context.Background(), delta)
}

func (m *Model) openDetail() {
	if _, ok := m.ctrl.SelectedGame(); ok {
		m.view = keymap.ViewDetail
	}
}

func (m *Model) moveCatCursor(delta int) {
	m.catCursor += delta
	m.clampCatCursor()
}

func (m *Model) toggleCategoryAtCursor() {
	facets := m.visibleFacets()
	if m.catCursor < 0 || m.catCursor >= len(facets) {
		return
	}
	m.ctrl.ToggleCategory(facets[m.catCursor].ID)
	m.queue(m.requestApply())
}

// cycleSizeBucket steps none -> first bucket -> ... -> last -> none.
func (m *Model) cycleSizeBucket() {
	cur := m.ctrl.Filters().SizeBucket()
	next := ""
	if cur == "" {
		next = browse.SizeBuckets[0]
	} else {
		for i, b := range browse.SizeBuckets {
			if b == cur && i+1 < len(browse.SizeBuckets) {
				next = browse.SizeBuckets[i+1]
			}
		}
	}
	m.ctrl.SetSizeBucket(next)
	m.queue(m.requestApply())
}

func (m *Model) cycleTimeFilter() {
	cur := m.ctrl.Filters().TimeFilter()
	m.ctrl.SetTimeFilter(browse.TimeFilter((int(cur) + 1) % 4))
	m.queue(m.requestApply())
}

func (m *Model) toggleNewTag() {
	if m.ctrl.Filters().StatusTag() == "new" {
		m.ctrl.SetStatusTag("")
	} else {
		m.ctrl.SetStatusTag("new")
	}
	m.queue(m.requestApply())
}

func (m *Model) clearFilters() {
	m.ctrl.ClearFilters()
	m.searchInput.SetValue("")
	m.catInput.SetValue("")
	m.catCursor = 0
	m.queue(m.requestApply())
}

func (m *Model) copyMagnet() {
	snap := m.ctrl.Snapshot()
	if snap.Detail == nil || len(snap.Detail.MagnetLinks) == 0 {
		m.addToast("no magnet link")
		return
	}
	if err := copyToClipboard(snap.Detail.MagnetLinks[0].Magnet); err != nil {
		m.addToast("copy failed: " + err.Error())
		return
	}
	m.addToast("magnet copied")
}

func (m *Model) copyURL() {
	snap := m.ctrl.Snapshot()
	if snap.Detail == nil || snap.Detail.URL == "" {
		m.addToast("no url")
		return
	}
	if err := copyToClipboard(snap.Detail.URL); err != nil {
		m.addToast("copy failed: " + err.Error())
		return
	}
	m.addToast("url copied")
}

func (m *Model) openURL() {
	snap := m.ctrl.Snapshot()
	if snap.Detail == nil || snap.Detail.URL == "" {
		m.addToast("no url")
		return
	}
	if err := openInBrowser(snap.Detail.URL); err != nil {
		m.addToast("open failed: " + err.Error())
	}
}

func (m *Model) togglePopularPeriod() {
	if m.popularPeriod == "month" {
		m.popularPeriod = "year"
	} else {
		m.popularPeriod = "month"
	}
	m.queue(m.loadPopularCmd())
}

func (m *Model) cycleTheme() {
	presets := themePresets()
	names := themeNames()
	i := (themeIndexByName(m.cfg.UI.Theme) + 1) % len(presets)
	m.cfg.UI.Theme = names[i]
	m.th = presets[i]
	m.addToast("theme: " + names[i])
}
