package store

import (
	"context"

	"github.com/bugdesk/bugdesk/models"
)

// UserRepository is the low-level store for staff accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (models.User, error)
	GetUser(ctx context.Context, id int64) (models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
	DeleteUser(ctx context.Context, id int64) error
	UsernameExists(ctx context.Context, username string) (bool, error)
}

// IncidentFilter narrows a SearchIncidents query. Zero-value fields do not
// constrain the result; incidents always come back newest first.
type IncidentFilter struct {
	// Query is free text matched case-insensitively against title and
	// description; a numeric query also matches the incident id exactly.
	Query string

	Status      models.Status
	DeveloperID *int64
	TesterID    *int64
}

// IncidentRepository is the low-level store for incidents and their
// attachments. List queries skip attachment content; GetIncident loads it.
type IncidentRepository interface {
	CreateIncident(ctx context.Context, incident models.Incident) (models.Incident, error)
	GetIncident(ctx context.Context, id int64) (models.Incident, error)
	GetAllIncidents(ctx context.Context) ([]models.Incident, error)
	SearchIncidents(ctx context.Context, filter IncidentFilter) ([]models.Incident, error)
	AssignDeveloper(ctx context.Context, incidentID int64, developerID int64, developerName string) error
	UpdateStatus(ctx context.Context, incidentID int64, status models.Status) error
	ResolveIncident(ctx context.Context, incidentID int64, fixedCode string) error
}

// SessionRepository persists the single login session.
type SessionRepository interface {
	SaveSession(ctx context.Context, userID int64) error
	GetSession(ctx context.Context) (models.Session, error)
	DeleteSession(ctx context.Context) error
}
