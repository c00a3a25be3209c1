package tui

import (
	"context"
	"errors"

	"github.com/bugdesk/bugdesk/internal/logger"
	"github.com/bugdesk/bugdesk/internal/service"
	"github.com/bugdesk/bugdesk/models"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrUserQuit is returned by LoginFlow when the user closes the program
// instead of signing in.
var ErrUserQuit = errors.New("quit by user")

// TUI owns the two terminal programs of the application: the login flow and
// the main loop.
type TUI struct {
	services  *service.Services
	buildInfo models.AppBuildInfo
}

func New(services *service.Services, buildInfo models.AppBuildInfo, _ *logger.Logger) (*TUI, error) {
	return &TUI{services: services, buildInfo: buildInfo}, nil
}

// LoginFlow runs the portal menu, sign-in and signup pages until a user is
// authenticated. Returns [ErrUserQuit] when the user exits instead.
func (t *TUI) LoginFlow(ctx context.Context) (models.User, error) {
	pages := map[string]tea.Model{
		"menu":          NewMenuModel(),
		"staff-login":   NewLoginModel(ctx, t.services.AuthService, service.StaffPortal),
		"manager-login": NewLoginModel(ctx, t.services.AuthService, service.ManagerPortal),
		"signup":        NewSignupModel(ctx, t.services.AuthService),
	}

	root := NewRootModel(pages, "menu", t.buildInfo)
	finalModel, runErr := tea.NewProgram(root, tea.WithAltScreen()).Run()
	if runErr != nil {
		return models.User{}, runErr
	}

	result, ok := finalModel.(RootModel)
	if !ok {
		return models.User{}, tea.ErrProgramKilled
	}
	if result.quitByUser || !result.loggedIn {
		return models.User{}, ErrUserQuit
	}

	return result.user, nil
}

// MainLoop runs the incident workspace for an authenticated user. Returns
// logout=true when the user signed out rather than quit.
func (t *TUI) MainLoop(ctx context.Context, user models.User) (logout bool, err error) {
	model := newMainLoopModel(ctx, t.services, user)
	finalModel, runErr := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if runErr != nil {
		return false, runErr
	}

	result, ok := finalModel.(mainLoopModel)
	if !ok {
		return false, tea.ErrProgramKilled
	}
	return result.logout, nil
}
