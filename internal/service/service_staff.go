package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/bugdesk/bugdesk/internal/config"
	"github.com/bugdesk/bugdesk/internal/logger"
	"github.com/bugdesk/bugdesk/internal/store"
	"github.com/bugdesk/bugdesk/models"
)

type staffService struct {
	storages *store.Storages
	defaults config.Defaults
	logger   *logger.Logger
}

// NewStaffService constructs a [StaffService]. The defaults carry the
// designation strings handed out on approval when none is entered.
func NewStaffService(storages *store.Storages, defaults config.Defaults, logger *logger.Logger) StaffService {
	return &staffService{storages: storages, defaults: defaults, logger: logger}
}

func (s *staffService) ListStaff(ctx context.Context, actor models.User) ([]models.User, error) {
	if !actor.Role.CanManageStaff() {
		return nil, ErrAccessDenied
	}

	users, err := s.storages.UserRepository.GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}

	staff := make([]models.User, 0, len(users))
	for _, user := range users {
		if user.Role == models.RoleManager {
			continue
		}
		staff = append(staff, user)
	}

	return staff, nil
}

func (s *staffService) Approve(ctx context.Context, actor models.User, userID int64, role models.Role, designation string) (models.User, error) {
	log := logger.FromContext(ctx)

	target, err := s.mutableTarget(ctx, actor, userID)
	if err != nil {
		return models.User{}, err
	}
	if !role.StaffAssignable() {
		return models.User{}, ErrRoleNotAssignable
	}

	designation = strings.TrimSpace(designation)
	if designation == "" {
		designation = s.defaultDesignation(role)
	}

	target.Role = role
	target.Designation = designation
	target.IsApproved = true

	updated, err := s.storages.UserRepository.UpdateUser(ctx, target)
	if err != nil {
		return models.User{}, fmt.Errorf("approve user: %w", err)
	}

	log.Info().
		Str("func", "*staffService.Approve").
		Int64("user_id", userID).
		Str("role", string(role)).
		Msg("account approved")
	return updated, nil
}

func (s *staffService) ChangeRole(ctx context.Context, actor models.User, userID int64, role models.Role) (models.User, error) {
	log := logger.FromContext(ctx)

	target, err := s.mutableTarget(ctx, actor, userID)
	if err != nil {
		return models.User{}, err
	}
	if !role.StaffAssignable() {
		return models.User{}, ErrRoleNotAssignable
	}
	if !target.IsApproved {
		return models.User{}, ErrUserNotApproved
	}

	if target.Role == role {
		return target, nil
	}

	target.Role = role
	target.Designation = s.defaultDesignation(role)

	updated, err := s.storages.UserRepository.UpdateUser(ctx, target)
	if err != nil {
		return models.User{}, fmt.Errorf("change role: %w", err)
	}

	log.Info().
		Str("func", "*staffService.ChangeRole").
		Int64("user_id", userID).
		Str("role", string(role)).
		Msg("role changed")
	return updated, nil
}

func (s *staffService) Delete(ctx context.Context, actor models.User, userID int64) error {
	log := logger.FromContext(ctx)

	target, err := s.mutableTarget(ctx, actor, userID)
	if err != nil {
		return err
	}
	if !target.IsApproved {
		return ErrUserNotApproved
	}

	if err := s.storages.UserRepository.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	log.Info().Str("func", "*staffService.Delete").Int64("user_id", userID).Msg("account deleted")
	return nil
}

// mutableTarget loads the target account and applies the shared guards:
// only a manager may act, and manager accounts are never mutable.
func (s *staffService) mutableTarget(ctx context.Context, actor models.User, userID int64) (models.User, error) {
	if !actor.Role.CanManageStaff() {
		return models.User{}, ErrAccessDenied
	}

	target, err := s.storages.UserRepository.GetUser(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("load target user: %w", err)
	}
	if target.Role == models.RoleManager {
		return models.User{}, ErrAccessDenied
	}

	return target, nil
}

func (s *staffService) defaultDesignation(role models.Role) string {
	if role == models.RoleDeveloper {
		return s.defaults.DeveloperDesignation
	}
	return s.defaults.TesterDesignation
}
