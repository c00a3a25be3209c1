package service

import (
	"context"
	"fmt"
	"math"

	"github.com/bugdesk/bugdesk/internal/logger"
	"github.com/bugdesk/bugdesk/internal/store"
	"github.com/bugdesk/bugdesk/models"
)

type reportService struct {
	storages *store.Storages
	logger   *logger.Logger
}

// NewReportService constructs a [ReportService] over the given storages.
func NewReportService(storages *store.Storages, logger *logger.Logger) ReportService {
	return &reportService{storages: storages, logger: logger}
}

func (s *reportService) Overview(ctx context.Context, actor models.User) (Overview, error) {
	if !actor.Role.CanManageStaff() {
		return Overview{}, ErrAccessDenied
	}

	incidents, err := s.storages.IncidentRepository.GetAllIncidents(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("overview: %w", err)
	}

	overview := Overview{Total: len(incidents)}
	for _, incident := range incidents {
		switch incident.Status {
		case models.StatusOpen:
			overview.Open++
		case models.StatusInProgress:
			overview.InProgress++
		case models.StatusResolved:
			overview.Resolved++
			if incident.Priority == models.PriorityHigh {
				overview.HighPriorityResolved++
			}
		}
	}
	overview.ResolutionRate = percentage(overview.Resolved, overview.Total)

	return overview, nil
}

func (s *reportService) DeveloperPerformance(ctx context.Context, actor models.User) ([]DeveloperStats, error) {
	if !actor.Role.CanManageStaff() {
		return nil, ErrAccessDenied
	}

	users, incidents, err := s.loadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("developer performance: %w", err)
	}

	var stats []DeveloperStats
	for _, user := range users {
		if !user.Role.CanResolveIncidents() || !user.IsApproved {
			continue
		}

		row := DeveloperStats{Developer: user}
		for _, incident := range incidents {
			if !incident.AssignedTo(user.ID) {
				continue
			}
			row.Assigned++
			switch incident.Status {
			case models.StatusResolved:
				row.Resolved++
				if incident.Priority == models.PriorityHigh {
					row.HighPriorityResolved++
				}
			case models.StatusInProgress:
				row.InProgress++
			}
		}
		row.Efficiency = percentage(row.Resolved, row.Assigned)
		stats = append(stats, row)
	}

	return stats, nil
}

func (s *reportService) TesterPerformance(ctx context.Context, actor models.User) ([]TesterStats, error) {
	if !actor.Role.CanManageStaff() {
		return nil, ErrAccessDenied
	}

	users, incidents, err := s.loadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("tester performance: %w", err)
	}

	var stats []TesterStats
	for _, user := range users {
		if !user.Role.CanReportIncidents() || !user.IsApproved {
			continue
		}

		row := TesterStats{Tester: user}
		for _, incident := range incidents {
			if incident.TesterID != user.ID {
				continue
			}
			row.Reported++
			if incident.Priority == models.PriorityHigh {
				row.HighPriorityReported++
			}
			if incident.Status == models.StatusResolved {
				row.ResolvedOfReported++
			}
		}
		row.DiscoveryWeight = percentage(row.Reported, len(incidents))
		stats = append(stats, row)
	}

	return stats, nil
}

func (s *reportService) ResolvedGallery(ctx context.Context, actor models.User) ([]models.Incident, error) {
	if !actor.Role.CanManageStaff() {
		return nil, ErrAccessDenied
	}

	incidents, err := s.storages.IncidentRepository.SearchIncidents(ctx, store.IncidentFilter{Status: models.StatusResolved})
	if err != nil {
		return nil, fmt.Errorf("resolved gallery: %w", err)
	}

	return incidents, nil
}

func (s *reportService) loadAll(ctx context.Context) ([]models.User, []models.Incident, error) {
	users, err := s.storages.UserRepository.GetAllUsers(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load users: %w", err)
	}
	incidents, err := s.storages.IncidentRepository.GetAllIncidents(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load incidents: %w", err)
	}
	return users, incidents, nil
}

// percentage returns part of total as a whole rounded percent, 0 when total
// is zero.
func percentage(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}
