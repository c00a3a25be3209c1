package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bugdesk/bugdesk/internal/service"
	"github.com/bugdesk/bugdesk/models"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type screen int

const (
	screenIncidents screen = iota
	screenStaff
	screenStats
	screenGallery
	screenPending
)

type reportStage int

const (
	reportStageNone reportStage = iota
	reportStageMeta
	reportStageDescription
	reportStageCode
	reportStageFiles
)

type mainLoopModel struct {
	ctx      context.Context
	services *service.Services
	user     models.User

	screen  screen
	loading bool
	status  string
	errMsg  string
	logout  bool

	incidents   []models.Incident
	idx         int
	mineOnly    bool
	searching   bool
	searchInput textinput.Model
	query       string

	detail         bool
	detailIncident models.Incident

	assigning    bool
	developers   []models.User
	developerIdx int

	resolving   bool
	resolveArea textarea.Model

	reportStage       reportStage
	reportTitleInput  textinput.Model
	reportPriorityIdx int
	reportDescArea    textarea.Model
	reportCodeArea    textarea.Model
	reportFilesInput  textinput.Model
	reportErr         string
	reportSaving      bool
	reportDraft       service.IncidentDraft

	staff            []models.User
	staffIdx         int
	approving        bool
	approveRoleIdx   int
	approveInput     textinput.Model
	confirmingDelete bool

	overview  service.Overview
	devStats  []service.DeveloperStats
	testStats []service.TesterStats

	gallery    []models.Incident
	galleryIdx int
}

type incidentsLoadedMsg struct {
	incidents []models.Incident
	err       error
}

type detailLoadedMsg struct {
	incident models.Incident
	err      error
}

type reportDoneMsg struct {
	incident models.Incident
	err      error
}

type developersLoadedMsg struct {
	developers []models.User
	err        error
}

type assignDoneMsg struct {
	incident models.Incident
	err      error
}

type resolveDoneMsg struct {
	incident models.Incident
	err      error
}

type staffLoadedMsg struct {
	staff []models.User
	err   error
}

type staffChangedMsg struct {
	status string
	err    error
}

type statsLoadedMsg struct {
	overview   service.Overview
	developers []service.DeveloperStats
	testers    []service.TesterStats
	err        error
}

type galleryLoadedMsg struct {
	incidents []models.Incident
	err       error
}

type exportDoneMsg struct {
	count int
	err   error
}

var reportPriorities = []models.Priority{models.PriorityLow, models.PriorityMedium, models.PriorityHigh}

func newMainLoopModel(ctx context.Context, services *service.Services, user models.User) mainLoopModel {
	search := textinput.New()
	search.Placeholder = "title, description or #id"
	search.CharLimit = 64
	search.Width = 40

	m := mainLoopModel{
		ctx:         ctx,
		services:    services,
		user:        user,
		searchInput: search,
		loading:     true,
	}

	// pending accounts only get the waiting screen and logout
	if !user.IsApproved && user.Role != models.RoleManager {
		m.screen = screenPending
		m.loading = false
	}

	return m
}

func (m mainLoopModel) Init() tea.Cmd {
	if m.screen == screenPending {
		return nil
	}
	return m.cmdLoadIncidents()
}

func (m mainLoopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case incidentsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.incidents = msg.incidents
		if m.idx >= len(m.incidents) {
			m.idx = len(m.incidents) - 1
		}
		if m.idx < 0 {
			m.idx = 0
		}
		return m, nil

	case detailLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Open failed: %v", msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.detail = true
		m.detailIncident = msg.incident
		return m, nil

	case reportDoneMsg:
		m.reportSaving = false
		if msg.err != nil {
			m.reportErr = msg.err.Error()
			return m, nil
		}
		m.resetReportFlow()
		m.status = fmt.Sprintf("Incident #%d reported", msg.incident.ID)
		m.errMsg = ""
		m.loading = true
		return m, m.cmdLoadIncidents()

	case developersLoadedMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Load developers failed: %v", msg.err)
			return m, nil
		}
		if len(msg.developers) == 0 {
			m.status = "No approved developers to assign"
			return m, nil
		}
		m.developers = msg.developers
		m.developerIdx = 0
		m.assigning = true
		return m, nil

	case assignDoneMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Assign failed: %v", msg.err)
			m.assigning = false
			return m, nil
		}
		m.assigning = false
		m.detailIncident = msg.incident
		m.status = fmt.Sprintf("Assigned to %s", msg.incident.DeveloperName)
		m.errMsg = ""
		m.loading = true
		return m, m.cmdLoadIncidents()

	case resolveDoneMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Resolve failed: %v", msg.err)
			m.resolving = false
			return m, nil
		}
		m.resolving = false
		m.detailIncident = msg.incident
		m.status = fmt.Sprintf("Incident #%d resolved", msg.incident.ID)
		m.errMsg = ""
		m.loading = true
		return m, m.cmdLoadIncidents()

	case staffLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.staff = msg.staff
		if m.staffIdx >= len(m.staff) {
			m.staffIdx = len(m.staff) - 1
		}
		if m.staffIdx < 0 {
			m.staffIdx = 0
		}
		return m, nil

	case staffChangedMsg:
		m.approving = false
		m.confirmingDelete = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.status = msg.status
		m.errMsg = ""
		m.loading = true
		return m, m.cmdLoadStaff()

	case statsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.overview = msg.overview
		m.devStats = msg.developers
		m.testStats = msg.testers
		return m, nil

	case galleryLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = msg.err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.gallery = msg.incidents
		m.galleryIdx = 0
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.errMsg = fmt.Sprintf("Export failed: %v", msg.err)
			return m, nil
		}
		m.status = fmt.Sprintf("Exported %d file(s)", msg.count)
		m.errMsg = ""
		return m, nil
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateActiveInput(msg)
	}

	if keyMsg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.reportStage != reportStageNone {
		return m.updateReportFlow(msg)
	}
	if m.resolving {
		return m.updateResolving(msg)
	}
	if m.assigning {
		return m.updateAssigning(keyMsg)
	}
	if m.confirmingDelete {
		return m.updateConfirmingDelete(keyMsg)
	}
	if m.approving {
		return m.updateApproving(msg)
	}
	if m.detail {
		return m.updateDetail(keyMsg)
	}

	switch m.screen {
	case screenPending:
		return m.updatePending(keyMsg)
	case screenStaff:
		return m.updateStaff(keyMsg)
	case screenStats:
		return m.updateStats(keyMsg)
	case screenGallery:
		return m.updateGallery(keyMsg)
	default:
		return m.updateIncidents(msg, keyMsg)
	}
}

// updateActiveInput forwards non-key messages (cursor blinks) to whichever
// text widget is currently on screen.
func (m mainLoopModel) updateActiveInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.reportStage != reportStageNone {
		return m.updateReportFlow(msg)
	}
	if m.resolving {
		return m.updateResolving(msg)
	}
	if m.approving {
		return m.updateApproving(msg)
	}
	if m.searching {
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m mainLoopModel) updatePending(keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch keyMsg.String() {
	case "q":
		return m, tea.Quit
	case "l":
		m.logout = true
		return m, tea.Quit
	}
	return m, nil
}

func (m mainLoopModel) updateIncidents(msg tea.Msg, keyMsg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch keyMsg.String() {
		case "esc":
			m.searching = false
			m.searchInput.Blur()
			m.searchInput.SetValue("")
			m.query = ""
			m.loading = true
			return m, m.cmdLoadIncidents()
		case "enter":
			m.searching = false
			m.searchInput.Blur()
			m.query = strings.TrimSpace(m.searchInput.Value())
			m.loading = true
			return m, m.cmdLoadIncidents()
		}

		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		return m, cmd
	}

	switch keyMsg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.idx > 0 {
			m.idx--
		}
	case "down", "j":
		if m.idx < len(m.incidents)-1 {
			m.idx++
		}
	case "/":
		m.searching = true
		m.searchInput.SetValue(m.query)
		m.searchInput.Focus()
		return m, textinput.Blink
	case "tab":
		if m.user.Role.CanResolveIncidents() {
			m.mineOnly = !m.mineOnly
			m.loading = true
			return m, m.cmdLoadIncidents()
		}
	case "enter":
		incident, ok := m.current()
		if !ok {
			m.status = "No incidents"
			return m, nil
		}
		m.loading = true
		return m, m.cmdLoadDetail(incident.ID)
	case "r":
		if m.user.Role.CanReportIncidents() {
			m.startReportFlow()
			return m, textinput.Blink
		}
	case "u":
		if m.user.Role.CanManageStaff() {
			m.screen = screenStaff
			m.loading = true
			return m, m.cmdLoadStaff()
		}
	case "p":
		if m.user.Role.CanManageStaff() {
			m.screen = screenStats
			m.loading = true
			return m, m.cmdLoadStats()
		}
	case "g":
		if m.user.Role.CanManageStaff() {
			m.screen = screenGallery
			m.loading = true
			return m, m.cmdLoadGallery()
		}
	case "l":
		m.logout = true
		return m, tea.Quit
	}

	return m, nil
}

func (m mainLoopModel) current() (models.Incident, bool) {
	if len(m.incidents) == 0 || m.idx < 0 || m.idx >= len(m.incidents) {
		return models.Incident{}, false
	}
	return m.incidents[m.idx], true
}

func (m mainLoopModel) cmdLoadIncidents() tea.Cmd {
	ctx := m.ctx
	svc := m.services.IncidentService
	user := m.user
	mineOnly := m.mineOnly
	query := m.query

	return func() tea.Msg {
		if mineOnly {
			incidents, err := svc.MyAssignments(ctx, user)
			return incidentsLoadedMsg{incidents: incidents, err: err}
		}
		incidents, err := svc.Search(ctx, query)
		return incidentsLoadedMsg{incidents: incidents, err: err}
	}
}

func (m mainLoopModel) cmdLoadDetail(id int64) tea.Cmd {
	ctx := m.ctx
	svc := m.services.IncidentService
	viewer := m.user

	return func() tea.Msg {
		incident, err := svc.GetIncident(ctx, viewer, id)
		return detailLoadedMsg{incident: incident, err: err}
	}
}

func (m mainLoopModel) View() string {
	if m.reportStage != reportStageNone {
		return m.viewReportFlow()
	}
	if m.resolving {
		return m.viewResolving()
	}
	if m.assigning {
		return m.viewAssigning()
	}
	if m.confirmingDelete {
		return m.viewConfirmingDelete()
	}
	if m.approving {
		return m.viewApproving()
	}
	if m.detail {
		return m.viewDetail()
	}

	switch m.screen {
	case screenPending:
		return m.viewPending()
	case screenStaff:
		return m.viewStaff()
	case screenStats:
		return m.viewStats()
	case screenGallery:
		return m.viewGallery()
	default:
		return m.viewIncidents()
	}
}

func (m mainLoopModel) viewPending() string {
	data := "Hello, " + m.user.FullName + "!\n\n"
	data += "Your account is waiting for manager approval.\n"
	data += "Come back once the manager has assigned you a role."

	return renderPage("PENDING APPROVAL", data, "l: sign out │ q: quit")
}

func (m mainLoopModel) viewIncidents() string {
	out := ""

	if m.status != "" {
		out += "OK: " + m.status + "\n\n"
	}
	if m.errMsg != "" {
		out += "Error: " + m.errMsg + "\n\n"
	}

	if m.searching {
		out += "Search: [" + m.searchInput.View() + "]\n\n"
	} else if m.query != "" {
		out += "Search: " + m.query + " (press / to change, enter on empty to clear)\n\n"
	}

	scope := "ALL INCIDENTS"
	if m.mineOnly {
		scope = "MY ASSIGNMENTS"
	}

	switch {
	case m.loading:
		out += "Loading..."
	case len(m.incidents) == 0:
		out += "No incidents found."
	default:
		out += fmt.Sprintf("  %-5s│ %-28s │ %-8s │ %-11s │ %-18s │ %s\n",
			"ID", "Title", "Priority", "Status", "Assignee", "Due")
		for i, incident := range m.incidents {
			cursor := " "
			if i == m.idx {
				cursor = ">"
			}
			due := formatDate(incident.DueDate)
			if incident.Overdue(time.Now()) {
				due += " !"
			}
			out += fmt.Sprintf(
				"%s #%-4d│ %-28s │ %-8s │ %-11s │ %-18s │ %s\n",
				cursor,
				incident.ID,
				fitText(incident.Title, 28),
				incident.Priority,
				incident.Status,
				fitText(valueOrDash(incident.DeveloperName), 18),
				due,
			)
		}
	}

	hotkeys := "enter: open │ /: search │ ↑/↓: navigate"
	if m.user.Role.CanReportIncidents() {
		hotkeys += " │ r: report"
	}
	if m.user.Role.CanResolveIncidents() {
		hotkeys += " │ tab: mine/all"
	}
	if m.user.Role.CanManageStaff() {
		hotkeys += " │ u: staff │ p: performance │ g: gallery"
	}
	hotkeys += " │ l: sign out"

	return renderPage(scope, strings.TrimRight(out, "\n"), hotkeys)
}
