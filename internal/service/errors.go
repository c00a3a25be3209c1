package service

import "errors"

// Authentication errors. The TUI matches these with [errors.Is] to show the
// right message on the login and signup screens.
var (
	// ErrAccountNotFound is returned by Login when no account matches the
	// identifier.
	ErrAccountNotFound = errors.New("account not found")

	// ErrAccessDenied is returned when the acting user's role does not
	// permit the operation, including a non-manager trying the manager
	// portal.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidCredentials is returned by Login when the stored password
	// does not match the input.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateAccount is returned by Signup when an account with the
	// same full name already exists.
	ErrDuplicateAccount = errors.New("account already exists")

	// ErrWeakPassword is returned by Signup when the password is shorter
	// than four characters.
	ErrWeakPassword = errors.New("password is too weak")

	// ErrNoActiveSession is returned by RestoreSession when no usable
	// session is stored.
	ErrNoActiveSession = errors.New("no active session")
)

// Workflow errors.
var (
	// ErrRequiredFieldsMissing is returned when a mandatory free-text field
	// (full name, title, description) is empty.
	ErrRequiredFieldsMissing = errors.New("required fields are missing")

	// ErrInvalidPriority is returned by Report when the priority is not one
	// of Low, Medium, High.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrIncidentResolved is returned when an operation targets a Resolved
	// incident. Resolved is terminal.
	ErrIncidentResolved = errors.New("incident is already resolved")

	// ErrNotAssignedDeveloper is returned by Resolve when the acting
	// developer is not the incident's current assignee.
	ErrNotAssignedDeveloper = errors.New("incident is assigned to another developer")

	// ErrDeveloperNotEligible is returned by Assign when the target user is
	// not an approved developer.
	ErrDeveloperNotEligible = errors.New("user is not an approved developer")

	// ErrRoleNotAssignable is returned by staff operations when the
	// requested role is not Tester or Developer.
	ErrRoleNotAssignable = errors.New("role is not assignable")

	// ErrUserNotApproved is returned when an operation requires an approved
	// account, e.g. deleting a still-pending signup.
	ErrUserNotApproved = errors.New("user is not approved")
)
