package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bugdesk/bugdesk/internal/logger"
	"github.com/bugdesk/bugdesk/internal/store"
	"github.com/bugdesk/bugdesk/models"
)

type incidentService struct {
	storages *store.Storages
	logger   *logger.Logger
}

// NewIncidentService constructs an [IncidentService] over the given storages.
func NewIncidentService(storages *store.Storages, logger *logger.Logger) IncidentService {
	return &incidentService{storages: storages, logger: logger}
}

func (s *incidentService) Report(ctx context.Context, reporter models.User, draft IncidentDraft) (models.Incident, error) {
	log := logger.FromContext(ctx)

	if !reporter.Role.CanReportIncidents() || !reporter.IsApproved {
		return models.Incident{}, ErrAccessDenied
	}

	title := strings.TrimSpace(draft.Title)
	description := strings.TrimSpace(draft.Description)
	if title == "" || description == "" {
		return models.Incident{}, ErrRequiredFieldsMissing
	}
	if !draft.Priority.Valid() {
		return models.Incident{}, ErrInvalidPriority
	}

	now := time.Now()
	incident := models.Incident{
		Title:       title,
		Description: description,
		Priority:    draft.Priority,
		Status:      models.StatusOpen,
		FailingCode: draft.FailingCode,
		Attachments: draft.Attachments,
		TesterID:    reporter.ID,
		TesterName:  reporter.FullName,
		CreatedAt:   now,
		DueDate:     models.DueDateFor(draft.Priority, now),
	}

	created, err := s.storages.IncidentRepository.CreateIncident(ctx, incident)
	if err != nil {
		return models.Incident{}, fmt.Errorf("report incident: %w", err)
	}

	log.Info().
		Str("func", "*incidentService.Report").
		Int64("incident_id", created.ID).
		Str("priority", string(created.Priority)).
		Msg("incident reported")
	return created, nil
}

func (s *incidentService) GetIncident(ctx context.Context, viewer models.User, id int64) (models.Incident, error) {
	log := logger.FromContext(ctx)

	incident, err := s.storages.IncidentRepository.GetIncident(ctx, id)
	if err != nil {
		return models.Incident{}, fmt.Errorf("get incident: %w", err)
	}

	// the assigned developer opening an Open incident starts work on it
	if incident.Status == models.StatusOpen && viewer.Role.CanResolveIncidents() && incident.AssignedTo(viewer.ID) {
		if err := s.storages.IncidentRepository.UpdateStatus(ctx, id, models.StatusInProgress); err != nil {
			return models.Incident{}, fmt.Errorf("start work: %w", err)
		}
		incident.Status = models.StatusInProgress

		log.Info().
			Str("func", "*incidentService.GetIncident").
			Int64("incident_id", id).
			Int64("developer_id", viewer.ID).
			Msg("work started")
	}

	return incident, nil
}

func (s *incidentService) Assign(ctx context.Context, actor models.User, incidentID int64, developerID int64) (models.Incident, error) {
	log := logger.FromContext(ctx)

	incident, err := s.storages.IncidentRepository.GetIncident(ctx, incidentID)
	if err != nil {
		return models.Incident{}, fmt.Errorf("assign: load incident: %w", err)
	}
	if incident.Status == models.StatusResolved {
		return models.Incident{}, ErrIncidentResolved
	}
	if !incident.AssignableBy(actor) {
		return models.Incident{}, ErrAccessDenied
	}

	developer, err := s.storages.UserRepository.GetUser(ctx, developerID)
	if err != nil {
		return models.Incident{}, fmt.Errorf("assign: load developer: %w", err)
	}
	if !developer.Role.CanResolveIncidents() || !developer.IsApproved {
		return models.Incident{}, ErrDeveloperNotEligible
	}

	if err := s.storages.IncidentRepository.AssignDeveloper(ctx, incidentID, developer.ID, developer.FullName); err != nil {
		return models.Incident{}, fmt.Errorf("assign developer: %w", err)
	}

	incident.DeveloperID = &developer.ID
	incident.DeveloperName = developer.FullName
	incident.Status = models.StatusOpen

	log.Info().
		Str("func", "*incidentService.Assign").
		Int64("incident_id", incidentID).
		Int64("developer_id", developerID).
		Msg("incident assigned")
	return incident, nil
}

func (s *incidentService) Resolve(ctx context.Context, actor models.User, incidentID int64, fixedCode string) (models.Incident, error) {
	log := logger.FromContext(ctx)

	incident, err := s.storages.IncidentRepository.GetIncident(ctx, incidentID)
	if err != nil {
		return models.Incident{}, fmt.Errorf("resolve: load incident: %w", err)
	}
	if incident.Status == models.StatusResolved {
		return models.Incident{}, ErrIncidentResolved
	}
	if !actor.Role.CanResolveIncidents() {
		return models.Incident{}, ErrAccessDenied
	}
	if !incident.AssignedTo(actor.ID) {
		return models.Incident{}, ErrNotAssignedDeveloper
	}

	if err := s.storages.IncidentRepository.ResolveIncident(ctx, incidentID, fixedCode); err != nil {
		return models.Incident{}, fmt.Errorf("resolve incident: %w", err)
	}

	incident.FixedCode = fixedCode
	incident.Status = models.StatusResolved

	log.Info().
		Str("func", "*incidentService.Resolve").
		Int64("incident_id", incidentID).
		Msg("incident resolved")
	return incident, nil
}

func (s *incidentService) Search(ctx context.Context, query string) ([]models.Incident, error) {
	incidents, err := s.storages.IncidentRepository.SearchIncidents(ctx, store.IncidentFilter{Query: query})
	if err != nil {
		return nil, fmt.Errorf("search incidents: %w", err)
	}
	return incidents, nil
}

func (s *incidentService) MyAssignments(ctx context.Context, developer models.User) ([]models.Incident, error) {
	incidents, err := s.storages.IncidentRepository.SearchIncidents(ctx, store.IncidentFilter{DeveloperID: &developer.ID})
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return incidents, nil
}

func (s *incidentService) AssignableDevelopers(ctx context.Context) ([]models.User, error) {
	users, err := s.storages.UserRepository.GetAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list developers: %w", err)
	}

	developers := make([]models.User, 0, len(users))
	for _, user := range users {
		if user.Role.CanResolveIncidents() && user.IsApproved {
			developers = append(developers, user)
		}
	}
	return developers, nil
}
