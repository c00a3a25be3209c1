package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/bugdesk/bugdesk/models"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

func (m mainLoopModel) updateDetail(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	incident := m.detailIncident

	switch keyMsg.String() {
	case "esc":
		m.detail = false
		m.status = ""
		m.errMsg = ""
		return m, nil
	case "a":
		if incident.AssignableBy(m.user) {
			return m, m.cmdLoadDevelopers()
		}
	case "f":
		if incident.ResolvableBy(m.user) {
			m.startResolving()
			return m, textarea.Blink
		}
	case "c":
		code := incident.FailingCode
		if strings.TrimSpace(code) == "" {
			m.status = "Nothing to copy"
			return m, nil
		}
		if err := clipboard.WriteAll(code); err != nil {
			m.errMsg = fmt.Sprintf("Copy failed: %v", err)
			return m, nil
		}
		m.status = "Failing code copied"
	case "x":
		if len(incident.Attachments) == 0 {
			m.status = "No attachments to export"
			return m, nil
		}
		return m, m.cmdExportAttachments(incident)
	}

	return m, nil
}

func (m mainLoopModel) viewDetail() string {
	incident := m.detailIncident
	out := ""

	if m.status != "" {
		out += "OK: " + m.status + "\n\n"
	}
	if m.errMsg != "" {
		out += "Error: " + m.errMsg + "\n\n"
	}

	out += "Title      : " + incident.Title + "\n"
	out += "Status     : " + string(incident.Status) + "\n"
	out += "Priority   : " + string(incident.Priority) + "\n"
	out += "Reporter   : " + incident.TesterName + "\n"
	out += "Assignee   : " + valueOrDash(incident.DeveloperName) + "\n"
	out += "Created    : " + formatDate(incident.CreatedAt) + "\n"
	out += "Due        : " + formatDate(incident.DueDate)
	if incident.Overdue(time.Now()) {
		out += "  OVERDUE"
	}
	out += "\n\n"

	out += "Description:\n" + incident.Description + "\n"

	if strings.TrimSpace(incident.FailingCode) != "" {
		out += "\nFailing code:\n"
		out += codePaneStyle.Render(highlightCode(incident.FailingCode)) + "\n"
	}
	if strings.TrimSpace(incident.FixedCode) != "" {
		out += "\nFixed code:\n"
		out += codePaneStyle.Render(highlightCode(incident.FixedCode)) + "\n"
	}

	if len(incident.Attachments) > 0 {
		out += "\nAttachments:\n"
		for i, attachment := range incident.Attachments {
			out += fmt.Sprintf("  %d. %s (%s, %d bytes)\n", i+1, attachment.Name, attachment.Type, attachment.Size)
		}
	}

	hotkeys := ""
	if incident.AssignableBy(m.user) {
		hotkeys += "a: assign │ "
	}
	if incident.ResolvableBy(m.user) {
		hotkeys += "f: resolve │ "
	}
	if strings.TrimSpace(incident.FailingCode) != "" {
		hotkeys += "c: copy code │ "
	}
	if len(incident.Attachments) > 0 {
		hotkeys += "x: export files │ "
	}
	hotkeys += "esc: back"

	title := fmt.Sprintf("INCIDENT #%d", incident.ID)
	return renderPage(title, strings.TrimRight(out, "\n"), hotkeys)
}

func (m mainLoopModel) updateAssigning(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "esc":
		m.assigning = false
		return m, nil
	case "up", "k":
		if m.developerIdx > 0 {
			m.developerIdx--
		}
	case "down", "j":
		if m.developerIdx < len(m.developers)-1 {
			m.developerIdx++
		}
	case "enter":
		developer := m.developers[m.developerIdx]
		return m, m.cmdAssign(m.detailIncident.ID, developer.ID)
	}
	return m, nil
}

func (m mainLoopModel) viewAssigning() string {
	out := fmt.Sprintf("Assign incident #%d to:\n\n", m.detailIncident.ID)
	for i, developer := range m.developers {
		cursor := " "
		if i == m.developerIdx {
			cursor = ">"
		}
		out += fmt.Sprintf("%s %s (%s)\n", cursor, developer.FullName, valueOrDash(developer.Designation))
	}
	if m.errMsg != "" {
		out += "\nError: " + m.errMsg + "\n"
	}

	return renderPage("ASSIGN DEVELOPER", strings.TrimRight(out, "\n"), "enter: assign │ ↑/↓: navigate │ esc: cancel")
}

func (m *mainLoopModel) startResolving() {
	area := textarea.New()
	area.Placeholder = "paste the fixed code (may be left empty)"
	area.SetWidth(60)
	area.SetHeight(10)
	area.Focus()

	m.resolveArea = area
	m.resolving = true
	m.errMsg = ""
}

func (m mainLoopModel) updateResolving(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.resolving = false
			return m, nil
		case "ctrl+s":
			return m, m.cmdResolve(m.detailIncident.ID, m.resolveArea.Value())
		}
	}

	var cmd tea.Cmd
	m.resolveArea, cmd = m.resolveArea.Update(msg)
	return m, cmd
}

func (m mainLoopModel) viewResolving() string {
	out := fmt.Sprintf("Resolving incident #%d. The incident becomes final.\n\n", m.detailIncident.ID)
	out += "Fixed code:\n"
	out += m.resolveArea.View()
	if m.errMsg != "" {
		out += "\nError: " + m.errMsg + "\n"
	}

	return renderPage("RESOLVE INCIDENT", strings.TrimRight(out, "\n"), "enter: new line │ ctrl+s: resolve │ esc: cancel")
}

func (m mainLoopModel) cmdLoadDevelopers() tea.Cmd {
	ctx := m.ctx
	svc := m.services.IncidentService

	return func() tea.Msg {
		developers, err := svc.AssignableDevelopers(ctx)
		return developersLoadedMsg{developers: developers, err: err}
	}
}

func (m mainLoopModel) cmdAssign(incidentID, developerID int64) tea.Cmd {
	ctx := m.ctx
	svc := m.services.IncidentService
	actor := m.user

	return func() tea.Msg {
		incident, err := svc.Assign(ctx, actor, incidentID, developerID)
		return assignDoneMsg{incident: incident, err: err}
	}
}

func (m mainLoopModel) cmdResolve(incidentID int64, fixedCode string) tea.Cmd {
	ctx := m.ctx
	svc := m.services.IncidentService
	actor := m.user

	return func() tea.Msg {
		incident, err := svc.Resolve(ctx, actor, incidentID, fixedCode)
		return resolveDoneMsg{incident: incident, err: err}
	}
}

func (m mainLoopModel) cmdExportAttachments(incident models.Incident) tea.Cmd {
	reader := m.services.AttachmentReader
	attachments := incident.Attachments

	return func() tea.Msg {
		count := 0
		for _, attachment := range attachments {
			if _, err := reader.Export(attachment, "."); err != nil {
				return exportDoneMsg{count: count, err: err}
			}
			count++
		}
		return exportDoneMsg{count: count}
	}
}
