package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"repackdex/internal/catalog"
)

func (m *Model) renderDownloads() string {
	var sb strings.Builder
	sb.WriteString(m.th.head.Render("Downloads") + "\n\n")

	if len(m.downloads) == 0 {
		sb.WriteString(m.th.label.Render("No downloads."))
		return m.th.border.Width(m.w - 4).Render(sb.String())
	}

	sb.WriteString(m.th.head.Render(fmt.Sprintf("%-12s %-9s %-11s %-8s %-9s %s",
		"STATUS", "PROGRESS", "SPEED", "ETA", "PEERS", "TITLE")))
	sb.WriteString("\n")
	for _, r := range m.downloads {
		status := r.Status
		style := m.th.row
		switch r.Status {
		case "error":
			style = m.th.bad
		case "completed", "seeding":
			style = m.th.ok
		}
		line := fmt.Sprintf("%-12s %-9s %-11s %-8s %-9s %s",
			status,
			fmt.Sprintf("%.1f%%", r.Progress*100),
			humanize.Bytes(uint64(r.DownloadSpeed))+"/s",
			downloadETA(r),
			fmt.Sprintf("%d/%d", r.Seeds, r.Peers),
			truncate(r.GameTitle, 50))
		sb.WriteString(style.Render(line) + "\n")
		if r.Status == "error" && r.ErrorMessage != "" {
			sb.WriteString(m.th.bad.Render("  "+truncate(r.ErrorMessage, m.w-10)) + "\n")
		}
	}
	return m.th.border.Width(m.w - 4).Render(sb.String())
}

func downloadETA(r catalog.DownloadRow) string {
	if r.ETASeconds <= 0 || r.Status == "completed" || r.Status == "seeding" {
		return "-"
	}
	return (time.Duration(r.ETASeconds) * time.Second).String()
}
