package models

import (
	"strconv"
	"strings"
	"time"
)

// Priority of an incident. Fixed at creation, never edited afterwards.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Valid reports whether p is one of the three known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// DueOffset returns the resolution window granted for the priority.
func (p Priority) DueOffset() time.Duration {
	switch p {
	case PriorityHigh:
		return 24 * time.Hour
	case PriorityMedium:
		return 3 * 24 * time.Hour
	default:
		return 7 * 24 * time.Hour
	}
}

// Status of an incident in the workflow. Resolved is terminal.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In-Progress"
	StatusResolved   Status = "Resolved"
)

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// Incident is a reported defect moving through Open -> In-Progress ->
// Resolved. Title, description, priority, reporter and createdAt/dueDate are
// fixed at creation; only assignment, status and fixedCode change afterwards,
// and nothing changes once the incident is Resolved.
type Incident struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Status      Status   `json:"status"`

	// FailingCode is the optional code sample attached by the reporter.
	FailingCode string `json:"failingCode,omitempty"`

	// FixedCode is written exactly once, by resolution.
	FixedCode string `json:"fixedCode,omitempty"`

	Attachments []Attachment `json:"attachments,omitempty"`

	TesterID   int64  `json:"testerId"`
	TesterName string `json:"testerName"`

	// DeveloperID is nil until a manager or the reporting tester assigns the
	// incident.
	DeveloperID   *int64 `json:"developerId,omitempty"`
	DeveloperName string `json:"developerName,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	DueDate   time.Time `json:"dueDate"`
}

// DueDateFor computes the resolution deadline for an incident created at the
// given time: High +1 day, Medium +3 days, Low +7 days.
func DueDateFor(p Priority, createdAt time.Time) time.Time {
	return createdAt.Add(p.DueOffset())
}

// Overdue reports whether the incident is past its due date and still
// unresolved.
func (i Incident) Overdue(now time.Time) bool {
	return i.Status != StatusResolved && now.After(i.DueDate)
}

// AssignedTo reports whether the incident is currently assigned to the given
// developer.
func (i Incident) AssignedTo(developerID int64) bool {
	return i.DeveloperID != nil && *i.DeveloperID == developerID
}

// MatchesSearch reports whether the incident matches a free-text query:
// case-insensitive substring over title and description, or an exact match on
// the numeric id.
func (i Incident) MatchesSearch(query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	lower := strings.ToLower(query)
	if strings.Contains(strings.ToLower(i.Title), lower) ||
		strings.Contains(strings.ToLower(i.Description), lower) {
		return true
	}
	return strconv.FormatInt(i.ID, 10) == strings.TrimPrefix(lower, "#")
}

// AssignableBy reports whether the user may (re)assign this incident.
// Managers may assign any incident that is not Resolved; the reporting tester
// may assign only while the incident is still Open.
func (i Incident) AssignableBy(u User) bool {
	if i.Status == StatusResolved {
		return false
	}
	if u.Role == RoleManager {
		return true
	}
	return u.Role == RoleTester && u.ID == i.TesterID && i.Status == StatusOpen
}

// ResolvableBy reports whether the user may resolve this incident: the
// currently assigned developer, while the incident is not already Resolved.
func (i Incident) ResolvableBy(u User) bool {
	return i.Status != StatusResolved && u.Role.CanResolveIncidents() && i.AssignedTo(u.ID)
}

// TableName returns the name of the database table associated with the
// Incident model.
func (i Incident) TableName() string {
	return "incidents"
}
