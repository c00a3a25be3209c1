package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/bugdesk/bugdesk/internal/logger"
	"github.com/bugdesk/bugdesk/internal/service"
	"github.com/bugdesk/bugdesk/internal/tui"
)

type App struct {
	services *service.Services
	tui      *tui.TUI
	logger   *logger.Logger
}

func NewApp(services *service.Services, ui *tui.TUI, log *logger.Logger) (*App, error) {
	if services == nil || ui == nil {
		return nil, errors.New("app: services and tui are required")
	}
	return &App{services: services, tui: ui, logger: log}, nil
}

// Run restores the saved session or walks the login flow, then hands control
// to the main loop. Signing out clears the session and starts over; quitting
// ends the process.
func (a *App) Run() error {
	ctx := context.Background()

	user, err := a.services.AuthService.RestoreSession(ctx)
	if err != nil {
		if !errors.Is(err, service.ErrNoActiveSession) {
			return fmt.Errorf("restore session: %w", err)
		}

		user, err = a.tui.LoginFlow(ctx)
		if err != nil {
			if errors.Is(err, tui.ErrUserQuit) {
				return nil
			}
			return err
		}
	}

	a.logger.Info().
		Str("func", "*App.Run").
		Int64("user_id", user.ID).
		Str("role", string(user.Role)).
		Msg("session established")

	logout, err := a.tui.MainLoop(ctx, user)
	if err != nil {
		return err
	}
	if logout {
		if err := a.services.AuthService.Logout(ctx); err != nil {
			return fmt.Errorf("logout: %w", err)
		}
		return a.Run()
	}

	return nil
}
