package tui

import (
	"errors"

	"github.com/bugdesk/bugdesk/internal/service"
)

func humanizeAuthError(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		return "No account matches that name"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Wrong password"
	case errors.Is(err, service.ErrAccessDenied):
		return "This portal is for the manager only"
	case errors.Is(err, service.ErrDuplicateAccount):
		return "An account with that name already exists"
	case errors.Is(err, service.ErrWeakPassword):
		return "Password must be at least 4 characters"
	case errors.Is(err, service.ErrRequiredFieldsMissing):
		return "All fields are required"
	}

	return err.Error()
}
