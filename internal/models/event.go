package models

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Event subject kinds.
const (
	EventTypeGroup  = "group"
	EventTypeClient = "client"
)

// eventIDTimeLayout renders the occurrence instant inside an event id.
const eventIDTimeLayout = "200601021504"

// EventIDPattern matches canonical occurrence identifiers.
var EventIDPattern = regexp.MustCompile(`^(group|client)_[A-Za-z0-9_-]+_\d{12}_\d+$`)

// Event is a single calendar occurrence, either generated from a schedule
// rule or persisted as an explicit edit/cancellation override.
type Event struct {
	ID              string    `db:"id" json:"id"`
	Type            string    `db:"-" json:"type"`
	Cancelled       bool      `db:"cancelled" json:"cancelled"`
	From            time.Time `db:"from_time" json:"from"`
	DurationMinutes int       `db:"duration_minutes" json:"durationMinutes"`
	GroupID         *string   `db:"group_id" json:"group_id,omitempty"`
	ClientID        *string   `db:"client_id" json:"client_id,omitempty"`
}

// TypeFromSubject derives the event type from which subject id is set.
func (e Event) TypeFromSubject() string {
	if e.GroupID != nil && *e.GroupID != "" {
		return EventTypeGroup
	}
	return EventTypeClient
}

// EventKey fully determines an occurrence's identity. It is transient:
// derived during materialization and never stored.
type EventKey struct {
	Type            string
	SubjectID       string
	From            time.Time
	DurationMinutes int
}

// WeekdayMismatchError reports an attempt to place a schedule rule on a date
// whose weekday does not match the rule.
type WeekdayMismatchError struct {
	Date time.Time
	Rule ScheduleRule
}

func (e *WeekdayMismatchError) Error() string {
	return fmt.Sprintf("date %s (weekday %d) does not match schedule rule %s (weekday %d)",
		e.Date.Format("2006-01-02"), ISOWeekday(e.Date), e.Rule.ID, e.Rule.Weekday)
}

// NewEventKey derives the occurrence key for a rule on a concrete date.
// The date's weekday must match the rule's weekday; callers are expected to
// pre-filter, so a mismatch signals a broken invariant.
func NewEventKey(date time.Time, rule ScheduleRule) (EventKey, error) {
	if ISOWeekday(date) != rule.Weekday {
		return EventKey{}, &WeekdayMismatchError{Date: date, Rule: rule}
	}

	key := EventKey{
		Type:            rule.SubjectType(),
		SubjectID:       rule.SubjectID(),
		DurationMinutes: rule.DurationMinutes,
		From: time.Date(date.Year(), date.Month(), date.Day(),
			rule.Hour, rule.Minute, 0, 0, date.Location()),
	}
	return key, nil
}

// ID formats the canonical occurrence identifier. Same rule and same
// calendar day always yield the same string.
func (k EventKey) ID() string {
	return fmt.Sprintf("%s_%s_%s_%d", k.Type, k.SubjectID, k.From.Format(eventIDTimeLayout), k.DurationMinutes)
}

// Event builds the default, non-cancelled occurrence for the key.
func (k EventKey) Event() Event {
	event := Event{
		ID:              k.ID(),
		Type:            k.Type,
		Cancelled:       false,
		From:            k.From,
		DurationMinutes: k.DurationMinutes,
	}
	subjectID := k.SubjectID
	if k.Type == EventTypeGroup {
		event.GroupID = &subjectID
	} else {
		event.ClientID = &subjectID
	}
	return event
}

// eventIDParts splits a canonical id into type, subject, instant and duration.
var eventIDParts = regexp.MustCompile(`^(group|client)_([A-Za-z0-9_-]+)_(\d{12})_(\d+)$`)

// ParseEventID recovers the occurrence key encoded in a canonical id.
// The instant is interpreted in the provided location.
func ParseEventID(id string, loc *time.Location) (EventKey, error) {
	parts := eventIDParts.FindStringSubmatch(id)
	if parts == nil {
		return EventKey{}, fmt.Errorf("malformed event id %q", id)
	}
	from, err := time.ParseInLocation(eventIDTimeLayout, parts[3], loc)
	if err != nil {
		return EventKey{}, fmt.Errorf("malformed event id %q: %w", id, err)
	}
	duration, err := strconv.Atoi(parts[4])
	if err != nil {
		return EventKey{}, fmt.Errorf("malformed event id %q: %w", id, err)
	}
	return EventKey{
		Type:            parts[1],
		SubjectID:       parts[2],
		From:            from,
		DurationMinutes: duration,
	}, nil
}

// ISOWeekday returns the ISO-8601 day of week (Monday=1 .. Sunday=7).
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}
