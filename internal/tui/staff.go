package tui

import (
	"fmt"
	"strings"

	"github.com/bugdesk/bugdesk/models"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

var approveRoles = []models.Role{models.RoleTester, models.RoleDeveloper}

func (m mainLoopModel) updateStaff(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "esc":
		m.screen = screenIncidents
		m.status = ""
		m.errMsg = ""
		m.loading = true
		return m, m.cmdLoadIncidents()
	case "up", "k":
		if m.staffIdx > 0 {
			m.staffIdx--
		}
	case "down", "j":
		if m.staffIdx < len(m.staff)-1 {
			m.staffIdx++
		}
	case "a":
		member, ok := m.currentStaff()
		if !ok {
			m.status = "No staff"
			return m, nil
		}
		if member.IsApproved {
			m.status = member.FullName + " is already approved"
			return m, nil
		}
		m.startApproving(member)
		return m, textinput.Blink
	case "r":
		member, ok := m.currentStaff()
		if !ok {
			m.status = "No staff"
			return m, nil
		}
		if !member.IsApproved {
			m.status = "Approve " + member.FullName + " first"
			return m, nil
		}
		return m, m.cmdChangeRole(member.ID, otherRole(member.Role))
	case "d":
		member, ok := m.currentStaff()
		if !ok {
			m.status = "No staff"
			return m, nil
		}
		if !member.IsApproved {
			m.status = "Only approved accounts can be removed"
			return m, nil
		}
		m.confirmingDelete = true
		return m, nil
	}

	return m, nil
}

func (m mainLoopModel) currentStaff() (models.User, bool) {
	if len(m.staff) == 0 || m.staffIdx < 0 || m.staffIdx >= len(m.staff) {
		return models.User{}, false
	}
	return m.staff[m.staffIdx], true
}

func otherRole(role models.Role) models.Role {
	if role == models.RoleTester {
		return models.RoleDeveloper
	}
	return models.RoleTester
}

func (m mainLoopModel) viewStaff() string {
	out := ""

	if m.status != "" {
		out += "OK: " + m.status + "\n\n"
	}
	if m.errMsg != "" {
		out += "Error: " + m.errMsg + "\n\n"
	}

	switch {
	case m.loading:
		out += "Loading..."
	case len(m.staff) == 0:
		out += "Nobody has signed up yet."
	default:
		out += fmt.Sprintf("  %-5s│ %-20s │ %-9s │ %-18s │ %s\n",
			"ID", "Name", "Role", "Designation", "Approved")
		for i, member := range m.staff {
			cursor := " "
			if i == m.staffIdx {
				cursor = ">"
			}
			approved := "no"
			if member.IsApproved {
				approved = "yes"
			}
			out += fmt.Sprintf(
				"%s #%-4d│ %-20s │ %-9s │ %-18s │ %s\n",
				cursor,
				member.ID,
				fitText(member.FullName, 20),
				member.Role,
				fitText(valueOrDash(member.Designation), 18),
				approved,
			)
		}
	}

	return renderPage(
		"STAFF DIRECTORY",
		strings.TrimRight(out, "\n"),
		"a: approve │ r: switch role │ d: remove │ ↑/↓: navigate │ esc: back",
	)
}

func (m *mainLoopModel) startApproving(member models.User) {
	designation := textinput.New()
	designation.Placeholder = "designation (empty for the role default)"
	designation.Width = 40
	designation.Focus()

	m.approveInput = designation
	m.approveRoleIdx = roleIndex(member.Role)
	m.approving = true
	m.status = ""
	m.errMsg = ""
}

func roleIndex(role models.Role) int {
	for i, candidate := range approveRoles {
		if candidate == role {
			return i
		}
	}
	return 0
}

func (m mainLoopModel) updateApproving(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.approving = false
			return m, nil
		case "up", "down":
			m.approveRoleIdx = (m.approveRoleIdx + 1) % len(approveRoles)
			return m, nil
		case "enter":
			member, ok := m.currentStaff()
			if !ok {
				m.approving = false
				return m, nil
			}
			role := approveRoles[m.approveRoleIdx]
			designation := strings.TrimSpace(m.approveInput.Value())
			return m, m.cmdApprove(member.ID, role, designation)
		}
	}

	var cmd tea.Cmd
	m.approveInput, cmd = m.approveInput.Update(msg)
	return m, cmd
}

func (m mainLoopModel) viewApproving() string {
	member, _ := m.currentStaff()

	out := "Approving " + member.FullName + "\n\n"
	out += "Role        :"
	for i, role := range approveRoles {
		marker := " "
		if i == m.approveRoleIdx {
			marker = ">"
		}
		out += "  " + marker + string(role)
	}
	out += "\n"
	out += "Designation : [ " + m.approveInput.View() + " ]\n"
	if m.errMsg != "" {
		out += "\nError: " + m.errMsg + "\n"
	}

	return renderPage("APPROVE ACCOUNT", strings.TrimRight(out, "\n"), "↑/↓: role │ enter: approve │ esc: cancel")
}

func (m mainLoopModel) updateConfirmingDelete(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "y":
		member, ok := m.currentStaff()
		if !ok {
			m.confirmingDelete = false
			return m, nil
		}
		return m, m.cmdDeleteStaff(member.ID, member.FullName)
	case "n", "esc":
		m.confirmingDelete = false
	}
	return m, nil
}

func (m mainLoopModel) viewConfirmingDelete() string {
	member, _ := m.currentStaff()
	content := "Remove \"" + member.FullName + "\"?\n\n"
	content += "y yes    n no"
	return overlayBoxStyle.Render(content)
}

func (m mainLoopModel) cmdLoadStaff() tea.Cmd {
	ctx := m.ctx
	svc := m.services.StaffService
	actor := m.user

	return func() tea.Msg {
		staff, err := svc.ListStaff(ctx, actor)
		return staffLoadedMsg{staff: staff, err: err}
	}
}

func (m mainLoopModel) cmdApprove(userID int64, role models.Role, designation string) tea.Cmd {
	ctx := m.ctx
	svc := m.services.StaffService
	actor := m.user

	return func() tea.Msg {
		approved, err := svc.Approve(ctx, actor, userID, role, designation)
		if err != nil {
			return staffChangedMsg{err: err}
		}
		return staffChangedMsg{status: fmt.Sprintf("%s approved as %s", approved.FullName, approved.Role)}
	}
}

func (m mainLoopModel) cmdChangeRole(userID int64, role models.Role) tea.Cmd {
	ctx := m.ctx
	svc := m.services.StaffService
	actor := m.user

	return func() tea.Msg {
		changed, err := svc.ChangeRole(ctx, actor, userID, role)
		if err != nil {
			return staffChangedMsg{err: err}
		}
		return staffChangedMsg{status: fmt.Sprintf("%s is now a %s", changed.FullName, changed.Role)}
	}
}

func (m mainLoopModel) cmdDeleteStaff(userID int64, fullName string) tea.Cmd {
	ctx := m.ctx
	svc := m.services.StaffService
	actor := m.user

	return func() tea.Msg {
		if err := svc.Delete(ctx, actor, userID); err != nil {
			return staffChangedMsg{err: err}
		}
		return staffChangedMsg{status: fullName + " removed"}
	}
}
