package models

import "time"

// ScheduleRule is a weekly recurring slot for a group or an individual
// client. One rule implies one occurrence per matching weekday.
type ScheduleRule struct {
	ID              string    `db:"id" json:"id"`
	UserID          string    `db:"user_id" json:"user_id"`
	Weekday         int       `db:"weekday" json:"weekday"`
	Hour            int       `db:"hour" json:"hour"`
	Minute          int       `db:"minute" json:"minute"`
	DurationMinutes int       `db:"duration_minutes" json:"durationMinutes"`
	GroupID         *string   `db:"group_id" json:"group_id,omitempty"`
	ClientID        *string   `db:"client_id" json:"client_id,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// SubjectType reports whether the rule targets a group or a client.
func (r ScheduleRule) SubjectType() string {
	if r.GroupID != nil && *r.GroupID != "" {
		return EventTypeGroup
	}
	return EventTypeClient
}

// SubjectID returns the group or client id the rule targets.
func (r ScheduleRule) SubjectID() string {
	if r.GroupID != nil && *r.GroupID != "" {
		return *r.GroupID
	}
	if r.ClientID != nil {
		return *r.ClientID
	}
	return ""
}
