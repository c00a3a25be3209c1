package service

import (
	"context"

	"github.com/bugdesk/bugdesk/models"
)

// Portal selects the login surface. The staff portal accepts testers and
// developers; the manager portal accepts only the manager.
type Portal string

const (
	StaffPortal   Portal = "staff"
	ManagerPortal Portal = "manager"
)

// AuthService defines the contract for account creation, authentication and
// the persisted login session.
type AuthService interface {
	// Signup creates a new unapproved Tester account from a full name and
	// password. The username and email are derived from the full name; a
	// derived username that is already taken gets a numeric suffix.
	// Returns ErrRequiredFieldsMissing, ErrWeakPassword or
	// ErrDuplicateAccount on invalid input.
	Signup(ctx context.Context, fullName string, password string) (models.User, error)

	// Login authenticates an identifier (exact username or case-insensitive
	// full name) against the given portal and persists the session.
	// An account whose stored password is empty accepts any input.
	// Returns ErrAccountNotFound, ErrAccessDenied or ErrInvalidCredentials.
	Login(ctx context.Context, identifier string, password string, portal Portal) (models.User, error)

	// Logout clears the persisted session.
	Logout(ctx context.Context) error

	// RestoreSession re-establishes the saved session at startup. A session
	// whose user no longer exists is discarded.
	// Returns ErrNoActiveSession when there is nothing to restore.
	RestoreSession(ctx context.Context) (models.User, error)
}

// StaffService defines the manager-only contract for administering staff
// accounts. Manager accounts themselves are never listed or mutated.
type StaffService interface {
	// ListStaff returns all non-manager accounts in insertion order.
	ListStaff(ctx context.Context, actor models.User) ([]models.User, error)

	// Approve marks an account approved with the given role and
	// designation. An empty designation falls back to the configured
	// per-role default.
	Approve(ctx context.Context, actor models.User, userID int64, role models.Role, designation string) (models.User, error)

	// ChangeRole switches an approved account between Tester and Developer.
	ChangeRole(ctx context.Context, actor models.User, userID int64, role models.Role) (models.User, error)

	// Delete removes an approved non-manager account.
	// Returns ErrUserNotApproved for accounts still pending approval.
	Delete(ctx context.Context, actor models.User, userID int64) error
}

// IncidentDraft is the input of IncidentService.Report.
type IncidentDraft struct {
	Title       string
	Description string
	Priority    models.Priority
	FailingCode string
	Attachments []models.Attachment
}

// IncidentService defines the workflow engine: reporting, assignment, the
// implicit start-work transition, resolution and the list views.
type IncidentService interface {
	// Report files a new Open incident for an approved tester. The due date
	// is computed from the priority, the developer starts unassigned.
	Report(ctx context.Context, reporter models.User, draft IncidentDraft) (models.Incident, error)

	// GetIncident loads one incident with attachments for the viewer. When
	// the viewer is the assigned developer and the incident is Open it
	// moves to In-Progress before being returned.
	GetIncident(ctx context.Context, viewer models.User, id int64) (models.Incident, error)

	// Assign sets an approved developer on a non-Resolved incident and
	// forces the status back to Open. Managers may assign any incident;
	// the reporting tester only while the incident is still Open.
	Assign(ctx context.Context, actor models.User, incidentID int64, developerID int64) (models.Incident, error)

	// Resolve stores the fixed code (which may be empty) and moves the
	// incident to its terminal Resolved status. Only the currently
	// assigned developer may resolve.
	Resolve(ctx context.Context, actor models.User, incidentID int64, fixedCode string) (models.Incident, error)

	// Search returns incidents matching a free-text query, newest first.
	// An empty query returns everything.
	Search(ctx context.Context, query string) ([]models.Incident, error)

	// MyAssignments returns the incidents currently assigned to the
	// developer, newest first.
	MyAssignments(ctx context.Context, developer models.User) ([]models.Incident, error)

	// AssignableDevelopers returns the approved developers an incident can
	// be assigned to, in insertion order.
	AssignableDevelopers(ctx context.Context) ([]models.User, error)
}

// Overview holds the manager dashboard cards.
type Overview struct {
	Total                int
	Open                 int
	InProgress           int
	Resolved             int
	ResolutionRate       int
	HighPriorityResolved int
}

// DeveloperStats holds the per-developer performance row.
type DeveloperStats struct {
	Developer            models.User
	Assigned             int
	Resolved             int
	InProgress           int
	HighPriorityResolved int
	Efficiency           int
}

// TesterStats holds the per-tester performance row.
type TesterStats struct {
	Tester               models.User
	Reported             int
	HighPriorityReported int
	ResolvedOfReported   int
	DiscoveryWeight      int
}

// ReportService defines the manager-only analytics and audit views. All
// figures are recomputed from the store on every call.
type ReportService interface {
	// Overview returns the dashboard cards: counts per status, the overall
	// resolution rate and the number of resolved high-priority incidents.
	Overview(ctx context.Context, actor models.User) (Overview, error)

	// DeveloperPerformance returns one row per approved developer.
	// Efficiency is resolved/assigned as a rounded percentage.
	DeveloperPerformance(ctx context.Context, actor models.User) ([]DeveloperStats, error)

	// TesterPerformance returns one row per approved tester. Discovery
	// weight is the tester's share of all incidents as a rounded
	// percentage.
	TesterPerformance(ctx context.Context, actor models.User) ([]TesterStats, error)

	// ResolvedGallery returns every Resolved incident, newest first, for
	// the read-only failing/fixed code review.
	ResolvedGallery(ctx context.Context, actor models.User) ([]models.Incident, error)
}

// AttachmentReader ingests report attachments from disk and exports them
// back.
type AttachmentReader interface {
	// ReadAll reads every path concurrently and returns the attachments in
	// input order. If any read fails nothing is returned: the batch is
	// all-or-nothing.
	ReadAll(ctx context.Context, paths []string) ([]models.Attachment, error)

	// Export decodes the attachment and writes it into dir under its
	// original name, returning the written path.
	Export(attachment models.Attachment, dir string) (string, error)
}
