package service

import (
	"context"
	"sort"
	"strings"

	"github.com/bugdesk/bugdesk/internal/config"
	"github.com/bugdesk/bugdesk/internal/logger"
	"github.com/bugdesk/bugdesk/internal/store"
	"github.com/bugdesk/bugdesk/models"
)

// In-memory repository fakes shared by the service tests. They mimic the
// SQLite repositories closely enough for workflow semantics: sequential ids,
// newest-first incident listings, sentinel errors on missing rows.

type fakeUserRepo struct {
	users  map[int64]models.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]models.User), nextID: 1}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user models.User) (models.User, error) {
	for _, existing := range f.users {
		if existing.Username == user.Username {
			return models.User{}, store.ErrUsernameAlreadyExists
		}
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetUser(_ context.Context, id int64) (models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return models.User{}, store.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetAllUsers(_ context.Context) ([]models.User, error) {
	ids := make([]int64, 0, len(f.users))
	for id := range f.users {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		users = append(users, f.users[id])
	}
	return users, nil
}

func (f *fakeUserRepo) UpdateUser(_ context.Context, user models.User) (models.User, error) {
	stored, ok := f.users[user.ID]
	if !ok {
		return models.User{}, store.ErrUserNotFound
	}
	stored.Role = user.Role
	stored.Designation = user.Designation
	stored.Department = user.Department
	stored.Skills = user.Skills
	stored.IsApproved = user.IsApproved
	f.users[user.ID] = stored
	return stored, nil
}

func (f *fakeUserRepo) DeleteUser(_ context.Context, id int64) error {
	if _, ok := f.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) UsernameExists(_ context.Context, username string) (bool, error) {
	for _, user := range f.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

type fakeIncidentRepo struct {
	incidents map[int64]models.Incident
	nextID    int64
}

func newFakeIncidentRepo() *fakeIncidentRepo {
	return &fakeIncidentRepo{incidents: make(map[int64]models.Incident), nextID: 1}
}

func (f *fakeIncidentRepo) CreateIncident(_ context.Context, incident models.Incident) (models.Incident, error) {
	incident.ID = f.nextID
	f.nextID++
	f.incidents[incident.ID] = incident
	return incident, nil
}

func (f *fakeIncidentRepo) GetIncident(_ context.Context, id int64) (models.Incident, error) {
	incident, ok := f.incidents[id]
	if !ok {
		return models.Incident{}, store.ErrIncidentNotFound
	}
	return incident, nil
}

func (f *fakeIncidentRepo) GetAllIncidents(ctx context.Context) ([]models.Incident, error) {
	return f.SearchIncidents(ctx, store.IncidentFilter{})
}

func (f *fakeIncidentRepo) SearchIncidents(_ context.Context, filter store.IncidentFilter) ([]models.Incident, error) {
	ids := make([]int64, 0, len(f.incidents))
	for id := range f.incidents {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	var incidents []models.Incident
	for _, id := range ids {
		incident := f.incidents[id]
		if strings.TrimSpace(filter.Query) != "" && !incident.MatchesSearch(filter.Query) {
			continue
		}
		if filter.Status != "" && incident.Status != filter.Status {
			continue
		}
		if filter.DeveloperID != nil && !incident.AssignedTo(*filter.DeveloperID) {
			continue
		}
		if filter.TesterID != nil && incident.TesterID != *filter.TesterID {
			continue
		}
		incidents = append(incidents, incident)
	}
	return incidents, nil
}

func (f *fakeIncidentRepo) AssignDeveloper(_ context.Context, incidentID int64, developerID int64, developerName string) error {
	incident, ok := f.incidents[incidentID]
	if !ok {
		return store.ErrIncidentNotFound
	}
	incident.DeveloperID = &developerID
	incident.DeveloperName = developerName
	incident.Status = models.StatusOpen
	f.incidents[incidentID] = incident
	return nil
}

func (f *fakeIncidentRepo) UpdateStatus(_ context.Context, incidentID int64, status models.Status) error {
	incident, ok := f.incidents[incidentID]
	if !ok {
		return store.ErrIncidentNotFound
	}
	incident.Status = status
	f.incidents[incidentID] = incident
	return nil
}

func (f *fakeIncidentRepo) ResolveIncident(_ context.Context, incidentID int64, fixedCode string) error {
	incident, ok := f.incidents[incidentID]
	if !ok {
		return store.ErrIncidentNotFound
	}
	incident.FixedCode = fixedCode
	incident.Status = models.StatusResolved
	f.incidents[incidentID] = incident
	return nil
}

type fakeSessionRepo struct {
	session *models.Session
}

func (f *fakeSessionRepo) SaveSession(_ context.Context, userID int64) error {
	f.session = &models.Session{UserID: userID}
	return nil
}

func (f *fakeSessionRepo) GetSession(_ context.Context) (models.Session, error) {
	if f.session == nil {
		return models.Session{}, store.ErrSessionNotFound
	}
	return *f.session, nil
}

func (f *fakeSessionRepo) DeleteSession(_ context.Context) error {
	f.session = nil
	return nil
}

func newTestStorages() *store.Storages {
	return &store.Storages{
		UserRepository:     newFakeUserRepo(),
		IncidentRepository: newFakeIncidentRepo(),
		SessionRepository:  &fakeSessionRepo{},
	}
}

func testDefaults() config.Defaults {
	return config.Defaults{
		TesterDesignation:    "Standard Tester",
		DeveloperDesignation: "General Developer",
	}
}

func nopLogger() *logger.Logger {
	return logger.Nop()
}
