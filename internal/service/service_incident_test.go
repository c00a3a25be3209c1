package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bugdesk/bugdesk/models"
)

func newTestIncidentSvc(t *testing.T) (IncidentService, *fakeIncidentRepo, *fakeUserRepo) {
	t.Helper()
	storages := newTestStorages()
	svc := NewIncidentService(storages, nopLogger())
	return svc, storages.IncidentRepository.(*fakeIncidentRepo), storages.UserRepository.(*fakeUserRepo)
}

func approvedTester() models.User {
	return models.User{ID: 2, FullName: "Alice Johnson", Role: models.RoleTester, IsApproved: true}
}

func approvedDeveloper(users *fakeUserRepo, t *testing.T) models.User {
	t.Helper()
	return seedUser(t, users, models.User{
		FullName: "Bob Stone", Username: "bob_stone",
		Role: models.RoleDeveloper, IsApproved: true,
	})
}

func reportIncident(t *testing.T, svc IncidentService, priority models.Priority) models.Incident {
	t.Helper()
	incident, err := svc.Report(context.Background(), approvedTester(), IncidentDraft{
		Title:       "Crash on login",
		Description: "App crashes after submitting credentials",
		Priority:    priority,
	})
	require.NoError(t, err)
	return incident
}

func TestReport_CreatesOpenIncident(t *testing.T) {
	svc, _, _ := newTestIncidentSvc(t)

	incident := reportIncident(t, svc, models.PriorityHigh)

	assert.Equal(t, models.StatusOpen, incident.Status)
	assert.Nil(t, incident.DeveloperID)
	assert.Equal(t, int64(2), incident.TesterID)
	assert.WithinDuration(t, incident.CreatedAt.Add(24*time.Hour), incident.DueDate, time.Second)
}

func TestReport_DueDatePerPriority(t *testing.T) {
	svc, _, _ := newTestIncidentSvc(t)

	medium := reportIncident(t, svc, models.PriorityMedium)
	assert.WithinDuration(t, medium.CreatedAt.Add(72*time.Hour), medium.DueDate, time.Second)

	low := reportIncident(t, svc, models.PriorityLow)
	assert.WithinDuration(t, low.CreatedAt.Add(168*time.Hour), low.DueDate, time.Second)
}

func TestReport_RequiredFields(t *testing.T) {
	svc, incidents, _ := newTestIncidentSvc(t)

	_, err := svc.Report(context.Background(), approvedTester(), IncidentDraft{
		Title:    "  ",
		Priority: models.PriorityLow,
	})
	assert.ErrorIs(t, err, ErrRequiredFieldsMissing)
	assert.Empty(t, incidents.incidents, "refused report must not create a record")
}

func TestReport_OnlyTesters(t *testing.T) {
	svc, _, _ := newTestIncidentSvc(t)

	developer := models.User{ID: 4, Role: models.RoleDeveloper, IsApproved: true}
	_, err := svc.Report(context.Background(), developer, IncidentDraft{
		Title: "t", Description: "d", Priority: models.PriorityLow,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestReport_InvalidPriority(t *testing.T) {
	svc, _, _ := newTestIncidentSvc(t)

	_, err := svc.Report(context.Background(), approvedTester(), IncidentDraft{
		Title: "t", Description: "d", Priority: "Urgent",
	})
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestAssign_ManagerAssignsDeveloper(t *testing.T) {
	svc, _, users := newTestIncidentSvc(t)
	developer := approvedDeveloper(users, t)
	incident := reportIncident(t, svc, models.PriorityMedium)

	assigned, err := svc.Assign(context.Background(), manager(), incident.ID, developer.ID)
	require.NoError(t, err)

	require.NotNil(t, assigned.DeveloperID)
	assert.Equal(t, developer.ID, *assigned.DeveloperID)
	assert.Equal(t, "Bob Stone", assigned.DeveloperName)
	assert.Equal(t, models.StatusOpen, assigned.Status)
}

func TestAssign_ReassignResetsInProgressToOpen(t *testing.T) {
	svc, incidents, users := newTestIncidentSvc(t)
	developer := approvedDeveloper(users, t)
	other := seedUser(t, users, models.User{
		FullName: "Carol Reed", Username: "carol_reed",
		Role: models.RoleDeveloper, IsApproved: true,
	})
	incident := reportIncident(t, svc, models.PriorityMedium)

	_, err := svc.Assign(context.Background(), manager(), incident.ID, developer.ID)
	require.NoError(t, err)
	require.NoError(t, incidents.UpdateStatus(context.Background(), incident.ID, models.StatusInProgress))

	reassigned, err := svc.Assign(context.Background(), manager(), incident.ID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, reassigned.Status, "reassignment forces the status back to Open")
}

func TestAssign_ReportingTesterOnlyWhileOpen(t *testing.T) {
	svc, incidents, users := newTestIncidentSvc(t)
	developer := approvedDeveloper(users, t)
	incident := reportIncident(t, svc, models.PriorityMedium)

	_, err := svc.Assign(context.Background(), approvedTester(), incident.ID, developer.ID)
	require.NoError(t, err, "the reporting tester may assign an Open incident")

	require.NoError(t, incidents.UpdateStatus(context.Background(), incident.ID, models.StatusInProgress))
	_, err = svc.Assign(context.Background(), approvedTester(), incident.ID, developer.ID)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestAssign_ResolvedIsImmutable(t *testing.T) {
	svc, incidents, users := newTestIncidentSvc(t)
	developer := approvedDeveloper(users, t)
	incident := reportIncident(t, svc, models.PriorityMedium)
	require.NoError(t, incidents.ResolveIncident(context.Background(), incident.ID, ""))

	_, err := svc.Assign(context.Background(), manager(), incident.ID, developer.ID)
	assert.ErrorIs(t, err, ErrIncidentResolved)
}

func TestAssign_RejectsIneligibleDeveloper(t *testing.T) {
	svc, _, users := newTestIncidentSvc(t)
	pending := seedUser(t, users, models.User{
		FullName: "Dave Hill", Username: "dave_hill",
		Role: models.RoleDeveloper,
	})
	tester := seedUser(t, users, models.User{
		FullName: "Eve Park", Username: "eve_park",
		Role: models.RoleTester, IsApproved: true,
	})
	incident := reportIncident(t, svc, models.PriorityMedium)

	_, err := svc.Assign(context.Background(), manager(), incident.ID, pending.ID)
	assert.ErrorIs(t, err, ErrDeveloperNotEligible, "unapproved developer")

	_, err = svc.Assign(context.Background(), manager(), incident.ID, tester.ID)
	assert.ErrorIs(t, err, ErrDeveloperNotEligible, "testers cannot be assigned")
}

func TestGetIncident_AssignedDeveloperStartsWork(t *testing.T) {
	svc, _, users := newTestIncidentSvc(t)
	developer := approvedDeveloper(users, t)
	incident := reportIncident(t, svc, models.PriorityMedium)

	_, err := svc.Assign(context.Background(), manager(), incident.ID, developer.ID)
	require.NoError(t, err)

	viewed, err := svc.GetIncident(context.Background(), developer, incident.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, viewed.Status)

	// a second open keeps the status
	again, err := svc.GetIncident(context.Background(), developer, incident.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, again.Status)
}

func TestGetIncident_OtherViewersDoNotStartWork(t *testing.T) {
	svc, _, users := newTestIncidentSvc(t)
	developer := approvedDeveloper(users, t)
	incident := reportIncident(t, svc, models.PriorityMedium)

	_, err := svc.Assign(context.Background(), manager(), incident.ID, developer.ID)
	require.NoError(t, err)

	viewed, err := svc.GetIncident(context.Background(), manager(), incident.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, viewed.Status)

	viewed, err = svc.GetIncident(context.Background(), approvedTester(), incident.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusOpen, viewed.Status)
}

func TestResolve_AssignedDeveloper(t *testing.T) {
	svc, _, users := newTestIncidentSvc(t)
	developer := approvedDeveloper(users, t)
	incident := reportIncident(t, svc, models.PriorityMedium)

	_, err := svc.Assign(context.Background(), manager(), incident.ID, developer.ID)
	require.NoError(t, err)

	resolved, err := svc.Resolve(context.Background(), developer, incident.ID, "if user == nil { return }")
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, resolved.Status)
	assert.Equal(t, "if user == nil { return }", resolved.FixedCode)
}

func TestResolve_EmptyFixedCodeAllowed(t *testing.T) {
	svc, _, users := newTestIncidentSvc(t)
	developer := approvedDeveloper(users, t)
	incident := reportIncident(t, svc, models.PriorityMedium)

	_, err := svc.Assign(context.Background(), manager(), incident.ID, developer.ID)
	require.NoError(t, err)

	resolved, err := svc.Resolve(context.Background(), developer, incident.ID, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusResolved, resolved.Status)
}

func TestResolve_OtherDeveloperDenied(t *testing.T) {
	svc, _, users := newTestIncidentSvc(t)
	developer := approvedDeveloper(users, t)
	other := seedUser(t, users, models.User{
		FullName: "Carol Reed", Username: "carol_reed",
		Role: models.RoleDeveloper, IsApproved: true,
	})
	incident := reportIncident(t, svc, models.PriorityMedium)

	_, err := svc.Assign(context.Background(), manager(), incident.ID, developer.ID)
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), other, incident.ID, "")
	assert.ErrorIs(t, err, ErrNotAssignedDeveloper)
}

func TestResolve_ResolvedIsTerminal(t *testing.T) {
	svc, _, users := newTestIncidentSvc(t)
	developer := approvedDeveloper(users, t)
	incident := reportIncident(t, svc, models.PriorityMedium)

	_, err := svc.Assign(context.Background(), manager(), incident.ID, developer.ID)
	require.NoError(t, err)
	_, err = svc.Resolve(context.Background(), developer, incident.ID, "fix")
	require.NoError(t, err)

	_, err = svc.Resolve(context.Background(), developer, incident.ID, "another fix")
	assert.ErrorIs(t, err, ErrIncidentResolved)
}

func TestSearch_NewestFirstAndFreeText(t *testing.T) {
	svc, _, _ := newTestIncidentSvc(t)

	first := reportIncident(t, svc, models.PriorityLow)
	second, err := svc.Report(context.Background(), approvedTester(), IncidentDraft{
		Title:       "Payment page blank",
		Description: "White screen on checkout",
		Priority:    models.PriorityHigh,
	})
	require.NoError(t, err)

	all, err := svc.Search(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID, "newest first")
	assert.Equal(t, first.ID, all[1].ID)

	matched, err := svc.Search(context.Background(), "checkout")
	require.NoError(t, err)
	require.Len(t, matched, 1)
	assert.Equal(t, second.ID, matched[0].ID)
}

func TestMyAssignments(t *testing.T) {
	svc, _, users := newTestIncidentSvc(t)
	developer := approvedDeveloper(users, t)

	assigned := reportIncident(t, svc, models.PriorityMedium)
	reportIncident(t, svc, models.PriorityLow) // stays unassigned

	_, err := svc.Assign(context.Background(), manager(), assigned.ID, developer.ID)
	require.NoError(t, err)

	mine, err := svc.MyAssignments(context.Background(), developer)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, assigned.ID, mine[0].ID)
}

func TestAssignableDevelopers_OnlyApproved(t *testing.T) {
	svc, _, users := newTestIncidentSvc(t)

	approved := approvedDeveloper(users, t)
	seedUser(t, users, models.User{FullName: "Pending Dev", Username: "pending_dev", Role: models.RoleDeveloper})
	seedUser(t, users, models.User{FullName: "Alice Johnson", Username: "alice_johnson", Role: models.RoleTester, IsApproved: true})

	developers, err := svc.AssignableDevelopers(context.Background())
	require.NoError(t, err)

	require.Len(t, developers, 1)
	assert.Equal(t, approved.ID, developers[0].ID)
}
