package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"repackdex/internal/keymap"
)

var pageLabels = map[keymap.Page]string{
	keymap.PageBrowse:    "Browse",
	keymap.PagePopular:   "Popular",
	keymap.PageDownloads: "Downloads",
	keymap.PageSettings:  "Settings",
}

func (m *Model) View() string {
	if m.w == 0 {
		m.w = 120
	}
	if m.h == 0 {
		m.h = 30
	}

	header := m.renderHeader()
	if m.showHelp {
		return lipgloss.JoinVertical(lipgloss.Left, header, m.renderHelp())
	}

	var body string
	switch m.page {
	case keymap.PagePopular:
		body = m.renderPopular()
	case keymap.PageDownloads:
		body = m.renderDownloads()
	case keymap.PageSettings:
		body = m.renderSettings()
	default:
		body = m.renderBrowse()
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.renderFooter())
}

func (m *Model) renderHeader() string {
	title := m.th.title.Render("repackdex")
	var tabs []string
	for i, p := range m.cycle.Pages() {
		style := m.th.tabInactive
		if p == m.page {
			style = m.th.tabActive
		}
		tabs = append(tabs, style.Render(fmt.Sprintf("%d %s", i+1, pageLabels[p])))
	}
	return m.th.border.Render(title + "  " + strings.Join(tabs, "  "))
}

func (m *Model) renderFooter() string {
	hints := "tab switch • ? help • q quit"
	switch m.page {
	case keymap.PageBrowse:
		if m.view == keymap.ViewDetail {
			hints = "j/k next/prev • C copy magnet • U copy url • O open • esc back • " + hints
		} else {
			hints = "/ search • h/l panels • s size • t time • n new • r reset • " + hints
		}
	case keymap.PagePopular:
		hints = "p month/year • r refresh • " + hints
	case keymap.PageDownloads:
		hints = "r refresh • " + hints
	case keymap.PageSettings:
		hints = "t theme • " + hints
	}
	line := m.th.footer.Render(hints)
	if len(m.toasts) > 0 {
		line += "  " + m.th.ok.Render(m.toasts[len(m.toasts)-1])
	}
	return m.th.border.Render(line)
}

func (m *Model) renderHelp() string {
	var sb strings.Builder
	sb.WriteString(m.th.head.Render("Key bindings") + "\n\n")
	for _, b := range m.keys.Bindings(m.page, m.view) {
		if b.Help == "" {
			continue
		}
		sb.WriteString(fmt.Sprintf("  %-12s %s\n", b.Key, b.Help))
	}
	sb.WriteString("\n" + m.th.footer.Render("Press ? or esc to close"))
	return m.th.border.Render(sb.String())
}
