package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func mondayRule() ScheduleRule {
	return ScheduleRule{
		ID:              "r1",
		UserID:          "u1",
		Weekday:         1,
		Hour:            9,
		Minute:          0,
		DurationMinutes: 60,
		GroupID:         strPtr("G1"),
	}
}

func TestNewEventKeyDeterministicID(t *testing.T) {
	// 2026-03-02 is a Monday.
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	key, err := NewEventKey(date, mondayRule())
	require.NoError(t, err)
	assert.Equal(t, "group_G1_202603020900_60", key.ID())

	again, err := NewEventKey(date, mondayRule())
	require.NoError(t, err)
	assert.Equal(t, key.ID(), again.ID())
	assert.Regexp(t, EventIDPattern, key.ID())
}

func TestNewEventKeyClientRule(t *testing.T) {
	rule := mondayRule()
	rule.GroupID = nil
	rule.ClientID = strPtr("c-77")
	rule.Weekday = 7
	rule.Hour = 18
	rule.Minute = 30

	// 2026-03-08 is a Sunday.
	date := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)
	key, err := NewEventKey(date, rule)
	require.NoError(t, err)
	assert.Equal(t, "client_c-77_202603081830_60", key.ID())

	event := key.Event()
	assert.Equal(t, EventTypeClient, event.Type)
	require.NotNil(t, event.ClientID)
	assert.Equal(t, "c-77", *event.ClientID)
	assert.Nil(t, event.GroupID)
	assert.False(t, event.Cancelled)
}

func TestNewEventKeyWeekdayMismatch(t *testing.T) {
	// 2026-03-03 is a Tuesday; the rule fires on Mondays.
	date := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	_, err := NewEventKey(date, mondayRule())
	require.Error(t, err)
	var mismatch *WeekdayMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 2, ISOWeekday(mismatch.Date))
	assert.Equal(t, 1, mismatch.Rule.Weekday)
}

func TestEventKeyStartTime(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	rule := mondayRule()
	rule.Hour = 14
	rule.Minute = 45
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, loc)

	key, err := NewEventKey(date, rule)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 14, 45, 0, 0, loc), key.From)
}

func TestParseEventIDRoundTrip(t *testing.T) {
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	key, err := NewEventKey(date, mondayRule())
	require.NoError(t, err)

	parsed, err := ParseEventID(key.ID(), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, key, parsed)
}

func TestParseEventIDMalformed(t *testing.T) {
	for _, id := range []string{
		"",
		"group_G1",
		"lesson_G1_202603020900_60",
		"group_G1_2026030209_60",
		"group_G1_202603020900_",
	} {
		_, err := ParseEventID(id, time.UTC)
		assert.Error(t, err, "id %q", id)
	}
}

func TestTypeFromSubject(t *testing.T) {
	assert.Equal(t, EventTypeGroup, Event{GroupID: strPtr("G1")}.TypeFromSubject())
	assert.Equal(t, EventTypeClient, Event{ClientID: strPtr("c1")}.TypeFromSubject())
	assert.Equal(t, EventTypeClient, Event{}.TypeFromSubject())
}

func TestISOWeekday(t *testing.T) {
	// 2026-03-02 through 2026-03-08 cover Monday through Sunday.
	for i := 0; i < 7; i++ {
		d := time.Date(2026, 3, 2+i, 0, 0, 0, 0, time.UTC)
		assert.Equal(t, i+1, ISOWeekday(d))
	}
}
