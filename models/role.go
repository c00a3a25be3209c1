package models

// Role is the closed set of account roles. Every user carries exactly one
// role; the Manager role is seeded at install time and is never assignable
// through the application.
type Role string

const (
	RoleTester    Role = "Tester"
	RoleDeveloper Role = "Developer"
	RoleManager   Role = "Manager"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleTester, RoleDeveloper, RoleManager:
		return true
	}
	return false
}

// CanReportIncidents reports whether the role may file new incidents.
func (r Role) CanReportIncidents() bool {
	return r == RoleTester
}

// CanResolveIncidents reports whether the role may resolve incidents assigned
// to it.
func (r Role) CanResolveIncidents() bool {
	return r == RoleDeveloper
}

// CanManageStaff reports whether the role may approve, reassign, and delete
// staff accounts.
func (r Role) CanManageStaff() bool {
	return r == RoleManager
}

// StaffAssignable reports whether the role may be handed out by a manager in
// the personnel directory. Manager is deliberately excluded.
func (r Role) StaffAssignable() bool {
	return r == RoleTester || r == RoleDeveloper
}
