package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m mainLoopModel) updateStats(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "esc":
		m.screen = screenIncidents
		m.status = ""
		m.errMsg = ""
		m.loading = true
		return m, m.cmdLoadIncidents()
	}
	return m, nil
}

func (m mainLoopModel) viewStats() string {
	if m.loading {
		return renderPage("PERFORMANCE", "Loading...", "esc: back")
	}
	if m.errMsg != "" {
		return renderPage("PERFORMANCE", "Error: "+m.errMsg, "esc: back")
	}

	out := "[ OVERVIEW ]\n"
	out += fmt.Sprintf("Total: %d   Open: %d   In progress: %d   Resolved: %d\n",
		m.overview.Total, m.overview.Open, m.overview.InProgress, m.overview.Resolved)
	out += fmt.Sprintf("Resolution rate: %d%%   High-priority resolved: %d\n\n",
		m.overview.ResolutionRate, m.overview.HighPriorityResolved)

	out += "[ DEVELOPERS ]\n"
	if len(m.devStats) == 0 {
		out += "No approved developers.\n"
	} else {
		out += fmt.Sprintf("%-20s │ %-8s │ %-8s │ %-11s │ %-9s │ %s\n",
			"Developer", "Assigned", "Resolved", "In progress", "High res.", "Efficiency")
		for _, row := range m.devStats {
			out += fmt.Sprintf("%-20s │ %-8d │ %-8d │ %-11d │ %-9d │ %d%%\n",
				fitText(row.Developer.FullName, 20),
				row.Assigned, row.Resolved, row.InProgress, row.HighPriorityResolved, row.Efficiency)
		}
	}
	out += "\n"

	out += "[ TESTERS ]\n"
	if len(m.testStats) == 0 {
		out += "No approved testers.\n"
	} else {
		out += fmt.Sprintf("%-20s │ %-8s │ %-9s │ %-8s │ %s\n",
			"Tester", "Reported", "High rep.", "Resolved", "Discovery")
		for _, row := range m.testStats {
			out += fmt.Sprintf("%-20s │ %-8d │ %-9d │ %-8d │ %d%%\n",
				fitText(row.Tester.FullName, 20),
				row.Reported, row.HighPriorityReported, row.ResolvedOfReported, row.DiscoveryWeight)
		}
	}

	return renderPage("PERFORMANCE", strings.TrimRight(out, "\n"), "esc: back")
}

func (m mainLoopModel) updateGallery(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "esc":
		m.screen = screenIncidents
		m.status = ""
		m.errMsg = ""
		m.loading = true
		return m, m.cmdLoadIncidents()
	case "left", "h":
		if m.galleryIdx > 0 {
			m.galleryIdx--
		}
	case "right", "l":
		if m.galleryIdx < len(m.gallery)-1 {
			m.galleryIdx++
		}
	}
	return m, nil
}

func (m mainLoopModel) viewGallery() string {
	if m.loading {
		return renderPage("RESOLVED GALLERY", "Loading...", "esc: back")
	}
	if m.errMsg != "" {
		return renderPage("RESOLVED GALLERY", "Error: "+m.errMsg, "esc: back")
	}
	if len(m.gallery) == 0 {
		return renderPage("RESOLVED GALLERY", "Nothing has been resolved yet.", "esc: back")
	}

	incident := m.gallery[m.galleryIdx]

	out := fmt.Sprintf("Incident #%d of %d resolved\n\n", m.galleryIdx+1, len(m.gallery))
	out += "Title    : " + incident.Title + "\n"
	out += "Priority : " + string(incident.Priority) + "\n"
	out += "Reporter : " + incident.TesterName + "\n"
	out += "Fixed by : " + valueOrDash(incident.DeveloperName) + "\n\n"

	left := codePaneStyle.Render("FAILING\n\n" + highlightCode(codeOrNone(incident.FailingCode)))
	right := codePaneStyle.Render("FIXED\n\n" + highlightCode(codeOrNone(incident.FixedCode)))
	out += lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	return renderPage("RESOLVED GALLERY", strings.TrimRight(out, "\n"), "←/→: previous/next │ esc: back")
}

func codeOrNone(code string) string {
	if strings.TrimSpace(code) == "" {
		return "(no code sample)"
	}
	return code
}

func (m mainLoopModel) cmdLoadStats() tea.Cmd {
	ctx := m.ctx
	svc := m.services.ReportService
	actor := m.user

	return func() tea.Msg {
		overview, err := svc.Overview(ctx, actor)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		developers, err := svc.DeveloperPerformance(ctx, actor)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		testers, err := svc.TesterPerformance(ctx, actor)
		if err != nil {
			return statsLoadedMsg{err: err}
		}
		return statsLoadedMsg{overview: overview, developers: developers, testers: testers}
	}
}

func (m mainLoopModel) cmdLoadGallery() tea.Cmd {
	ctx := m.ctx
	svc := m.services.ReportService
	actor := m.user

	return func() tea.Msg {
		incidents, err := svc.ResolvedGallery(ctx, actor)
		return galleryLoadedMsg{incidents: incidents, err: err}
	}
}
