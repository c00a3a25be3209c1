package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bugdesk/bugdesk/models"
)

func newTestAuthSvc(t *testing.T) (AuthService, *fakeUserRepo, *fakeSessionRepo) {
	t.Helper()
	storages := newTestStorages()
	svc := NewAuthService(storages, nopLogger())
	return svc, storages.UserRepository.(*fakeUserRepo), storages.SessionRepository.(*fakeSessionRepo)
}

func seedUser(t *testing.T, repo *fakeUserRepo, user models.User) models.User {
	t.Helper()
	created, err := repo.CreateUser(context.Background(), user)
	require.NoError(t, err)
	return created
}

func TestSignup_CreatesPendingTester(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)

	created, err := svc.Signup(context.Background(), "Alice Johnson", "secret")
	require.NoError(t, err)

	assert.Equal(t, "alice_johnson", created.Username)
	assert.Equal(t, "alicejohnson@example.com", created.Email)
	assert.Equal(t, models.RoleTester, created.Role)
	assert.False(t, created.IsApproved, "fresh signups wait for approval")

	stored, err := users.GetUser(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret", stored.Password)
}

func TestSignup_WeakPassword(t *testing.T) {
	svc, _, _ := newTestAuthSvc(t)

	_, err := svc.Signup(context.Background(), "Alice Johnson", "abc")
	assert.ErrorIs(t, err, ErrWeakPassword)
}

func TestSignup_EmptyFullName(t *testing.T) {
	svc, _, _ := newTestAuthSvc(t)

	_, err := svc.Signup(context.Background(), "   ", "secret")
	assert.ErrorIs(t, err, ErrRequiredFieldsMissing)
}

func TestSignup_DuplicateFullNameCaseInsensitive(t *testing.T) {
	svc, _, _ := newTestAuthSvc(t)

	_, err := svc.Signup(context.Background(), "Alice Johnson", "secret")
	require.NoError(t, err)

	_, err = svc.Signup(context.Background(), "ALICE johnson", "secret")
	assert.ErrorIs(t, err, ErrDuplicateAccount)
}

func TestSignup_UsernameCollisionGetsSuffix(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)

	seedUser(t, users, models.User{FullName: "Existing", Username: "alice_johnson"})

	created, err := svc.Signup(context.Background(), "Alice Johnson", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice_johnson2", created.Username)
}

func TestLogin_ByUsernameAndFullName(t *testing.T) {
	svc, users, sessions := newTestAuthSvc(t)
	seedUser(t, users, models.User{
		FullName: "Alice Johnson", Username: "alice_johnson",
		Role: models.RoleTester, Password: "secret",
	})

	byUsername, err := svc.Login(context.Background(), "alice_johnson", "secret", StaffPortal)
	require.NoError(t, err)
	assert.Equal(t, "Alice Johnson", byUsername.FullName)

	byName, err := svc.Login(context.Background(), "alice johnson", "secret", StaffPortal)
	require.NoError(t, err)
	assert.Equal(t, byUsername.ID, byName.ID)

	require.NotNil(t, sessions.session)
	assert.Equal(t, byUsername.ID, sessions.session.UserID)
}

func TestLogin_UnknownIdentifier(t *testing.T) {
	svc, _, _ := newTestAuthSvc(t)

	_, err := svc.Login(context.Background(), "nobody", "secret", StaffPortal)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, users, sessions := newTestAuthSvc(t)
	seedUser(t, users, models.User{
		FullName: "Alice Johnson", Username: "alice_johnson",
		Role: models.RoleTester, Password: "secret",
	})

	_, err := svc.Login(context.Background(), "alice_johnson", "wrong", StaffPortal)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Nil(t, sessions.session, "failed login must not persist a session")
}

func TestLogin_PasswordlessRecordAcceptsAnyInput(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	seedUser(t, users, models.User{
		FullName: "Legacy User", Username: "legacy_user",
		Role: models.RoleTester,
	})

	_, err := svc.Login(context.Background(), "legacy_user", "anything", StaffPortal)
	assert.NoError(t, err)
}

func TestLogin_ManagerPortalRejectsStaff(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	seedUser(t, users, models.User{
		FullName: "Alice Johnson", Username: "alice_johnson",
		Role: models.RoleTester, Password: "secret",
	})

	_, err := svc.Login(context.Background(), "alice_johnson", "secret", ManagerPortal)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestLogin_ManagerPortalAcceptsManager(t *testing.T) {
	svc, users, _ := newTestAuthSvc(t)
	seedUser(t, users, models.User{
		FullName: "System Manager", Username: "admin",
		Role: models.RoleManager, Password: "admin123", IsApproved: true,
	})

	manager, err := svc.Login(context.Background(), "admin", "admin123", ManagerPortal)
	require.NoError(t, err)
	assert.Equal(t, models.RoleManager, manager.Role)
}

func TestLogout_ClearsSession(t *testing.T) {
	svc, users, sessions := newTestAuthSvc(t)
	seedUser(t, users, models.User{
		FullName: "Alice Johnson", Username: "alice_johnson",
		Role: models.RoleTester, Password: "secret",
	})

	_, err := svc.Login(context.Background(), "alice_johnson", "secret", StaffPortal)
	require.NoError(t, err)
	require.NotNil(t, sessions.session)

	require.NoError(t, svc.Logout(context.Background()))
	assert.Nil(t, sessions.session)
}

func TestRestoreSession_Success(t *testing.T) {
	svc, users, sessions := newTestAuthSvc(t)
	user := seedUser(t, users, models.User{
		FullName: "Alice Johnson", Username: "alice_johnson",
		Role: models.RoleTester, Password: "secret",
	})
	require.NoError(t, sessions.SaveSession(context.Background(), user.ID))

	restored, err := svc.RestoreSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, user.ID, restored.ID)
}

func TestRestoreSession_NoSession(t *testing.T) {
	svc, _, _ := newTestAuthSvc(t)

	_, err := svc.RestoreSession(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveSession)
}

func TestRestoreSession_StaleSessionDiscarded(t *testing.T) {
	svc, _, sessions := newTestAuthSvc(t)
	require.NoError(t, sessions.SaveSession(context.Background(), 404))

	_, err := svc.RestoreSession(context.Background())
	assert.ErrorIs(t, err, ErrNoActiveSession)
	assert.Nil(t, sessions.session, "stale session must be discarded")
}
