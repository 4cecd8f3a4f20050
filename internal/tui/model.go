package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"repackdex/internal/browse"
	"repackdex/internal/catalog"
	"repackdex/internal/config"
	"repackdex/internal/keymap"
	"repackdex/internal/logging"
)

type applyRequestedMsg struct{}

type appliedMsg struct{}

type popularLoadedMsg struct {
	rows []catalog.PopularRepack
	err  error
}

type downloadsLoadedMsg struct {
	rows []catalog.DownloadRow
	err  error
}

type statsLoadedMsg struct {
	stats catalog.Stats
	err   error
}

// Model is the bubbletea root. It owns presentation state only; filter and
// result state lives in the browse controller, which the views read through
// snapshots.
type Model struct {
	cfg  *config.Config
	db   *catalog.DB
	log  *logging.Logger
	ctrl *browse.Controller

	keys  *keymap.Dispatcher
	cycle keymap.Cycle
	deb   *browse.Debouncer
	send  func(tea.Msg)

	th   Theme
	w, h int

	page    keymap.Page
	view    keymap.View
	focused keymap.Panel

	searchInput textinput.Model
	catInput    textinput.Model
	catCursor   int

	popular       []catalog.PopularRepack
	popularPeriod string
	downloads     []catalog.DownloadRow
	stats         catalog.Stats
	statsKnown    bool

	showHelp bool
	toasts   []string
	err      error

	// pending collects commands queued by key bindings during one Update.
	pending []tea.Cmd
}

// New builds the root model. The returned model is usable directly in tests;
// Run wires the debounce callback to the live program.
func New(cfg *config.Config, db *catalog.DB, log *logging.Logger) tea.Model {
	search := textinput.New()
	search.Placeholder = "Search titles..."
	search.CharLimit = 120

	catFilter := textinput.New()
	catFilter.Placeholder = "Filter categories..."
	catFilter.CharLimit = 60

	m := &Model{
		cfg:           cfg,
		db:            db,
		log:           log,
		ctrl:          browse.New(db, log, cfg.Browse.PageSize, nil),
		th:            themePresets()[themeIndexByName(cfg.UI.Theme)],
		page:          keymap.PageBrowse,
		view:          keymap.ViewList,
		focused:       keymap.PanelList,
		searchInput:   search,
		catInput:      catFilter,
		popularPeriod: "month",
		cycle:         keymap.NewCycle(keymap.PageSequence(cfg.Features.Popular, cfg.Features.Downloads)...),
	}
	m.deb = browse.NewDebouncer(time.Duration(cfg.Browse.DebounceMS)*time.Millisecond, func() {
		if m.send != nil {
			m.send(applyRequestedMsg{})
		}
	})
	m.keys = m.buildDispatcher()
	return m
}

// Run starts the interactive program and blocks until it exits. The last-seen
// marker read here drives the NEW badge: games crawled after the previous
// session are flagged, and the marker is advanced when the session ends.
func Run(cfg *config.Config, db *catalog.DB, log *logging.Logger) error {
	if mark, ok := readLastSeen(cfg); ok {
		db.SetLastSeen(mark)
	}
	m := New(cfg, db, log).(*Model)
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.send = p.Send
	defer m.deb.Stop()
	_, err := p.Run()
	if werr := writeLastSeen(cfg, time.Now()); werr != nil {
		log.Warnf("last-seen marker: %v", werr)
	}
	return err
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.applyCmd(), m.loadStatsCmd())
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case applyRequestedMsg:
		return m, m.applyCmd()

	case appliedMsg:
		m.clampCatCursor()
		return m, nil

	case popularLoadedMsg:
		if msg.err != nil {
			m.addToast("popular load failed: " + msg.err.Error())
			return m, nil
		}
		m.popular = msg.rows
		return m, nil

	case downloadsLoadedMsg:
		if msg.err != nil {
			m.addToast("downloads load failed: " + msg.err.Error())
			return m, nil
		}
		m.downloads = msg.rows
		return m, nil

	case statsLoadedMsg:
		if msg.err == nil {
			m.stats = msg.stats
			m.statsKnown = true
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.pending = nil
	ctx := keymap.Context{
		Page:     m.page,
		View:     m.view,
		Focused:  m.focused,
		IsTyping: m.typing(),
	}
	if m.keys.Dispatch(msg.String(), ctx) {
		cmds := m.pending
		m.pending = nil
		return m, tea.Batch(cmds...)
	}

	// Unhandled keys feed whichever text input is focused. Search re-queries
	// live through the debounce gate; the category quick-filter narrows the
	// sidebar client-side only.
	if m.searchInput.Focused() {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		m.ctrl.SetSearchQuery(m.searchInput.Value())
		return m, tea.Batch(cmd, m.requestApply())
	}
	if m.catInput.Focused() {
		var cmd tea.Cmd
		m.catInput, cmd = m.catInput.Update(msg)
		m.clampCatCursor()
		return m, cmd
	}
	return m, nil
}

func (m *Model) typing() bool {
	return m.searchInput.Focused() || m.catInput.Focused()
}

func (m *Model) queue(cmd tea.Cmd) {
	if cmd != nil {
		m.pending = append(m.pending, cmd)
	}
}

// requestApply routes a filter change into a re-query. In the live program
// the debouncer coalesces bursts and wakes the update loop through Send; in
// tests (no program attached) the command runs the apply directly.
func (m *Model) requestApply() tea.Cmd {
	if m.send != nil {
		m.deb.Trigger()
		return nil
	}
	return m.applyCmd()
}

func (m *Model) applyCmd() tea.Cmd {
	return func() tea.Msg {
		m.ctrl.ApplyAllFilters(context.Background())
		return appliedMsg{}
	}
}

func (m *Model) loadPopularCmd() tea.Cmd {
	period := m.popularPeriod
	return func() tea.Msg {
		rows, err := m.db.PopularRepacks(context.Background(), period, 50)
		return popularLoadedMsg{rows: rows, err: err}
	}
}

func (m *Model) loadDownloadsCmd() tea.Cmd {
	return func() tea.Msg {
		rows, err := m.db.ListDownloads(context.Background())
		return downloadsLoadedMsg{rows: rows, err: err}
	}
}

func (m *Model) loadStatsCmd() tea.Cmd {
	return func() tea.Msg {
		st, err := m.db.Stats(context.Background())
		return statsLoadedMsg{stats: st, err: err}
	}
}

func (m *Model) setPage(p keymap.Page) {
	m.page = p
	m.view = keymap.ViewList
	m.focused = keymap.PanelList
	m.showHelp = false
	switch p {
	case keymap.PagePopular:
		m.queue(m.loadPopularCmd())
	case keymap.PageDownloads:
		m.queue(m.loadDownloadsCmd())
	case keymap.PageSettings:
		m.queue(m.loadStatsCmd())
	}
}

func (m *Model) addToast(s string) {
	m.toasts = append(m.toasts, s)
	if len(m.toasts) > 3 {
		m.toasts = m.toasts[len(m.toasts)-3:]
	}
}

func (m *Model) clampCatCursor() {
	n := len(m.visibleFacets())
	if m.catCursor >= n {
		m.catCursor = n - 1
	}
	if m.catCursor < 0 {
		m.catCursor = 0
	}
}
