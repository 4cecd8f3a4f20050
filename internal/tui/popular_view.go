package tui

import (
	"fmt"
	"strings"
)

func (m *Model) renderPopular() string {
	var sb strings.Builder
	label := "Popular this month"
	if m.popularPeriod == "year" {
		label = "Popular this year"
	}
	sb.WriteString(m.th.head.Render(label) + "\n\n")

	if len(m.popular) == 0 {
		sb.WriteString(m.th.label.Render("No popularity data yet."))
		return m.th.border.Width(m.w - 4).Render(sb.String())
	}

	for _, p := range m.popular {
		line := fmt.Sprintf("%3d. %s", p.Rank, truncate(p.Title, m.w-24))
		if p.RepackID != 0 {
			line += "  " + m.th.ok.Render("in catalog")
		}
		sb.WriteString(line + "\n")
	}
	return m.th.border.Width(m.w - 4).Render(sb.String())
}
