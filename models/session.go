package models

import "time"

// Session is the single persisted login. At most one row exists; its absence
// routes the application to the login surface at startup.
type Session struct {
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

// TableName returns the name of the database table associated with the
// Session model.
func (s Session) TableName() string {
	return "session"
}
