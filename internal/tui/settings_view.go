package tui

import (
	"fmt"
	"strings"
)

func (m *Model) renderSettings() string {
	var sb strings.Builder
	sb.WriteString(m.th.head.Render("Settings") + "\n\n")

	field := func(label, value string) {
		sb.WriteString(m.th.label.Render(fmt.Sprintf("%-14s", label)) + value + "\n")
	}
	field("Data root", m.cfg.General.DataRoot)
	field("Database", m.db.Path)
	field("Page size", fmt.Sprintf("%d", m.cfg.Browse.PageSize))
	field("Debounce", fmt.Sprintf("%dms", m.cfg.Browse.DebounceMS))
	field("Theme", m.cfg.UI.Theme)
	field("Popular tab", onOff(m.cfg.Features.Popular))
	field("Downloads tab", onOff(m.cfg.Features.Downloads))

	sb.WriteString("\n" + m.th.head.Render("Catalog") + "\n")
	if m.statsKnown {
		field("Games", fmt.Sprintf("%d", m.stats.TotalGames))
		field("Magnet links", fmt.Sprintf("%d", m.stats.TotalMagnets))
	} else {
		sb.WriteString(m.th.label.Render("(loading)") + "\n")
	}

	return m.th.border.Width(m.w - 4).Render(sb.String())
}

func onOff(b bool) string {
	if b {
		return "enabled"
	}
	return "disabled"
}
