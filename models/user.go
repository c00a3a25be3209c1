package models

import (
	"strings"
	"time"
)

// User represents a staff account. Accounts are created through signup with
// role Tester and isApproved=false, and become functional only after a
// manager approves them.
//
// The password is stored as the user typed it. This mirrors the original
// product behaviour and is a known weakness of the tool: bugdesk is a
// single-user local application and the credential gates nothing beyond the
// login screen. An account with an empty password accepts any input at login
// (legacy/bootstrap allowance).
type User struct {
	// ID is the unique numeric identifier assigned by the store.
	ID int64 `json:"id"`

	// FullName is the display name entered at signup. Duplicate full names
	// are rejected case-insensitively.
	FullName string `json:"fullName"`

	// Username is mechanically derived from FullName; see DeriveUsername.
	Username string `json:"username"`

	// Email is mechanically derived from FullName; see DeriveEmail.
	Email string `json:"email"`

	Role Role `json:"role"`

	// Designation, Department and Skills are free-text professional
	// metadata. Designation receives a configurable per-role default when a
	// manager approves the account without supplying one.
	Designation string `json:"designation,omitempty"`
	Department  string `json:"department,omitempty"`
	Skills      string `json:"skills,omitempty"`

	Password string `json:"password,omitempty"`

	// IsApproved gates functional access. An authenticated non-manager with
	// IsApproved=false is held on the pending screen until a manager
	// approves the account.
	IsApproved bool `json:"isApproved"`

	CreatedAt time.Time `json:"createdAt"`
}

// DeriveUsername lowercases the full name and substitutes underscores for
// spaces: "Alice Johnson" -> "alice_johnson". Collisions between distinct
// full names are possible and are resolved at signup by appending a numeric
// suffix.
func DeriveUsername(fullName string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(fullName)), " ", "_")
}

// DeriveEmail lowercases the full name, strips spaces and appends the fixed
// local domain: "Alice Johnson" -> "alicejohnson@example.com".
func DeriveEmail(fullName string) string {
	local := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(fullName)), " ", "")
	return local + "@example.com"
}

// MatchesIdentifier reports whether the login identifier refers to this
// account: exact username match or case-insensitive full-name match.
func (u User) MatchesIdentifier(identifier string) bool {
	identifier = strings.TrimSpace(identifier)
	return u.Username == identifier || strings.EqualFold(u.FullName, identifier)
}

// TableName returns the name of the database table associated with the User
// model.
func (u User) TableName() string {
	return "users"
}
