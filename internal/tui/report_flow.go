package tui

import (
	"strings"

	"github.com/bugdesk/bugdesk/internal/service"
	"github.com/bugdesk/bugdesk/models"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *mainLoopModel) startReportFlow() {
	title := textinput.New()
	title.Placeholder = "short summary"
	title.CharLimit = 120
	title.Width = 50
	title.Focus()

	m.reportTitleInput = title
	m.reportPriorityIdx = 1 // Medium
	m.reportErr = ""
	m.reportSaving = false
	m.reportDraft = service.IncidentDraft{}
	m.reportStage = reportStageMeta
	m.status = ""
	m.errMsg = ""
}

func (m *mainLoopModel) resetReportFlow() {
	m.reportStage = reportStageNone
	m.reportErr = ""
	m.reportSaving = false
	m.reportDraft = service.IncidentDraft{}
}

func (m mainLoopModel) updateReportFlow(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.reportStage {
	case reportStageMeta:
		return m.updateReportMeta(msg)
	case reportStageDescription:
		return m.updateReportDescription(msg)
	case reportStageCode:
		return m.updateReportCode(msg)
	case reportStageFiles:
		return m.updateReportFiles(msg)
	default:
		return m, nil
	}
}

func (m mainLoopModel) updateReportMeta(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.resetReportFlow()
			return m, nil
		case "up":
			if m.reportPriorityIdx < len(reportPriorities)-1 {
				m.reportPriorityIdx++
			}
			return m, nil
		case "down":
			if m.reportPriorityIdx > 0 {
				m.reportPriorityIdx--
			}
			return m, nil
		case "enter":
			title := strings.TrimSpace(m.reportTitleInput.Value())
			if title == "" {
				m.reportErr = "title is required"
				return m, nil
			}

			m.reportDraft.Title = title
			m.reportDraft.Priority = reportPriorities[m.reportPriorityIdx]
			m.reportErr = ""
			m.reportStage = reportStageDescription
			m.initReportDescArea()
			return m, textarea.Blink
		}
	}

	var cmd tea.Cmd
	m.reportTitleInput, cmd = m.reportTitleInput.Update(msg)
	return m, cmd
}

func (m *mainLoopModel) initReportDescArea() {
	area := textarea.New()
	area.Placeholder = "what happened, steps to reproduce, expected vs actual"
	area.SetWidth(60)
	area.SetHeight(8)
	area.Focus()
	m.reportDescArea = area
}

func (m mainLoopModel) updateReportDescription(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.resetReportFlow()
			return m, nil
		case "ctrl+s":
			description := strings.TrimSpace(m.reportDescArea.Value())
			if description == "" {
				m.reportErr = "description is required"
				return m, nil
			}

			m.reportDraft.Description = description
			m.reportErr = ""
			m.reportStage = reportStageCode
			m.initReportCodeArea()
			return m, textarea.Blink
		}
	}

	var cmd tea.Cmd
	m.reportDescArea, cmd = m.reportDescArea.Update(msg)
	return m, cmd
}

func (m *mainLoopModel) initReportCodeArea() {
	area := textarea.New()
	area.Placeholder = "failing code sample (optional)"
	area.SetWidth(60)
	area.SetHeight(10)
	area.Focus()
	m.reportCodeArea = area
}

func (m mainLoopModel) updateReportCode(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.resetReportFlow()
			return m, nil
		case "ctrl+s":
			m.reportDraft.FailingCode = strings.TrimRight(m.reportCodeArea.Value(), "\n")
			m.reportErr = ""
			m.reportStage = reportStageFiles
			m.initReportFilesInput()
			return m, textinput.Blink
		}
	}

	var cmd tea.Cmd
	m.reportCodeArea, cmd = m.reportCodeArea.Update(msg)
	return m, cmd
}

func (m *mainLoopModel) initReportFilesInput() {
	files := textinput.New()
	files.Placeholder = "/path/one.log, /path/two.png (optional)"
	files.Width = 60
	files.Focus()
	m.reportFilesInput = files
}

func (m mainLoopModel) updateReportFiles(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.resetReportFlow()
			return m, nil
		case "enter":
			if m.reportSaving {
				return m, nil
			}

			paths := splitAttachmentPaths(m.reportFilesInput.Value())
			m.reportErr = ""
			m.reportSaving = true
			return m, m.cmdReport(m.reportDraft, paths)
		}
	}

	var cmd tea.Cmd
	m.reportFilesInput, cmd = m.reportFilesInput.Update(msg)
	return m, cmd
}

func splitAttachmentPaths(raw string) []string {
	parts := strings.Split(raw, ",")
	paths := make([]string, 0, len(parts))
	for _, part := range parts {
		if path := strings.TrimSpace(part); path != "" {
			paths = append(paths, path)
		}
	}
	return paths
}

func (m mainLoopModel) cmdReport(draft service.IncidentDraft, paths []string) tea.Cmd {
	ctx := m.ctx
	reader := m.services.AttachmentReader
	svc := m.services.IncidentService
	reporter := m.user

	return func() tea.Msg {
		if len(paths) > 0 {
			attachments, err := reader.ReadAll(ctx, paths)
			if err != nil {
				return reportDoneMsg{err: err}
			}
			draft.Attachments = attachments
		}

		incident, err := svc.Report(ctx, reporter, draft)
		return reportDoneMsg{incident: incident, err: err}
	}
}

func (m mainLoopModel) viewReportFlow() string {
	switch m.reportStage {
	case reportStageMeta:
		return m.viewReportMeta()
	case reportStageDescription:
		return m.viewReportDescription()
	case reportStageCode:
		return m.viewReportCode()
	case reportStageFiles:
		return m.viewReportFiles()
	default:
		return m.viewIncidents()
	}
}

func (m mainLoopModel) viewReportMeta() string {
	out := "[ BASICS ]\n"
	out += "Title     : [ " + m.reportTitleInput.View() + " ]\n"
	out += "Priority  :"
	for i, priority := range reportPriorities {
		marker := " "
		if i == m.reportPriorityIdx {
			marker = ">"
		}
		out += "  " + marker + string(priority)
	}
	out += "\n"
	out += "Due window: " + dueWindowLabel(reportPriorities[m.reportPriorityIdx]) + "\n"
	if m.reportErr != "" {
		out += "\nError: " + m.reportErr + "\n"
	}

	return renderPage("NEW INCIDENT: BASICS", strings.TrimRight(out, "\n"), "↑/↓: priority │ enter: next │ esc: cancel")
}

func dueWindowLabel(p models.Priority) string {
	switch p {
	case models.PriorityHigh:
		return "1 day"
	case models.PriorityMedium:
		return "3 days"
	default:
		return "7 days"
	}
}

func (m mainLoopModel) viewReportDescription() string {
	out := "[ DESCRIPTION ]\n"
	out += m.reportDescArea.View()
	if m.reportErr != "" {
		out += "\nError: " + m.reportErr + "\n"
	}

	return renderPage("NEW INCIDENT: DESCRIPTION", strings.TrimRight(out, "\n"), "enter: new line │ ctrl+s: next │ esc: cancel")
}

func (m mainLoopModel) viewReportCode() string {
	out := "[ FAILING CODE ]\n"
	out += m.reportCodeArea.View()
	if m.reportErr != "" {
		out += "\nError: " + m.reportErr + "\n"
	}

	return renderPage("NEW INCIDENT: FAILING CODE", strings.TrimRight(out, "\n"), "enter: new line │ ctrl+s: next │ esc: cancel")
}

func (m mainLoopModel) viewReportFiles() string {
	out := "[ ATTACHMENTS ]\n"
	out += "Paths     : [ " + m.reportFilesInput.View() + " ]\n"
	out += "\nComma-separated file paths. All files are read before the\nincident is filed; one unreadable path discards the whole batch.\n"
	if m.reportSaving {
		out += "\nFiling...\n"
	}
	if m.reportErr != "" {
		out += "\nError: " + m.reportErr + "\n"
	}

	return renderPage("NEW INCIDENT: ATTACHMENTS", strings.TrimRight(out, "\n"), "enter: file incident │ esc: cancel")
}
