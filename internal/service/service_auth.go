package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bugdesk/bugdesk/internal/logger"
	"github.com/bugdesk/bugdesk/internal/store"
	"github.com/bugdesk/bugdesk/models"
)

const minPasswordLength = 4

type authService struct {
	storages *store.Storages
	logger   *logger.Logger
}

// NewAuthService constructs an [AuthService] over the given storages.
func NewAuthService(storages *store.Storages, logger *logger.Logger) AuthService {
	return &authService{storages: storages, logger: logger}
}

func (a *authService) Signup(ctx context.Context, fullName string, password string) (models.User, error) {
	log := logger.FromContext(ctx)

	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return models.User{}, ErrRequiredFieldsMissing
	}
	if len(password) < minPasswordLength {
		return models.User{}, ErrWeakPassword
	}

	users, err := a.storages.UserRepository.GetAllUsers(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("signup: load users: %w", err)
	}
	for _, existing := range users {
		if strings.EqualFold(existing.FullName, fullName) {
			return models.User{}, ErrDuplicateAccount
		}
	}

	username, err := a.uniqueUsername(ctx, fullName)
	if err != nil {
		return models.User{}, fmt.Errorf("signup: derive username: %w", err)
	}

	user := models.User{
		FullName:   fullName,
		Username:   username,
		Email:      models.DeriveEmail(fullName),
		Role:       models.RoleTester,
		Password:   password,
		IsApproved: false,
		CreatedAt:  time.Now(),
	}

	created, err := a.storages.UserRepository.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrUsernameAlreadyExists) {
			return models.User{}, ErrDuplicateAccount
		}
		return models.User{}, fmt.Errorf("signup: create user: %w", err)
	}

	log.Info().Str("func", "*authService.Signup").Int64("user_id", created.ID).Msg("account created, pending approval")
	return created, nil
}

// uniqueUsername derives the username from the full name and appends the
// first free numeric suffix when the plain form is taken (alice_johnson,
// alice_johnson2, alice_johnson3, ...).
func (a *authService) uniqueUsername(ctx context.Context, fullName string) (string, error) {
	base := models.DeriveUsername(fullName)

	candidate := base
	for suffix := 2; ; suffix++ {
		taken, err := a.storages.UserRepository.UsernameExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + strconv.Itoa(suffix)
	}
}

func (a *authService) Login(ctx context.Context, identifier string, password string, portal Portal) (models.User, error) {
	log := logger.FromContext(ctx)

	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return models.User{}, ErrAccountNotFound
	}

	users, err := a.storages.UserRepository.GetAllUsers(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("login: load users: %w", err)
	}

	var account *models.User
	for i := range users {
		if users[i].MatchesIdentifier(identifier) {
			account = &users[i]
			break
		}
	}
	if account == nil {
		return models.User{}, ErrAccountNotFound
	}

	if portal == ManagerPortal && !account.Role.CanManageStaff() {
		return models.User{}, ErrAccessDenied
	}

	// a record with no stored password accepts any input
	if account.Password != "" && account.Password != password {
		return models.User{}, ErrInvalidCredentials
	}

	if err := a.storages.SessionRepository.SaveSession(ctx, account.ID); err != nil {
		return models.User{}, fmt.Errorf("login: save session: %w", err)
	}

	log.Info().Str("func", "*authService.Login").Int64("user_id", account.ID).Str("portal", string(portal)).Msg("logged in")
	return *account, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.storages.SessionRepository.DeleteSession(ctx); err != nil {
		return fmt.Errorf("logout: delete session: %w", err)
	}
	return nil
}

func (a *authService) RestoreSession(ctx context.Context) (models.User, error) {
	log := logger.FromContext(ctx)

	session, err := a.storages.SessionRepository.GetSession(ctx)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return models.User{}, ErrNoActiveSession
		}
		return models.User{}, fmt.Errorf("restore session: %w", err)
	}

	user, err := a.storages.UserRepository.GetUser(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// stale session pointing at a deleted account
			if delErr := a.storages.SessionRepository.DeleteSession(ctx); delErr != nil {
				log.Err(delErr).Str("func", "*authService.RestoreSession").Msg("error discarding stale session")
			}
			return models.User{}, ErrNoActiveSession
		}
		return models.User{}, fmt.Errorf("restore session: load user: %w", err)
	}

	log.Info().Str("func", "*authService.RestoreSession").Int64("user_id", user.ID).Msg("session restored")
	return user, nil
}
