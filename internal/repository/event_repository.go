package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutor-crm-api/internal/models"
)

// EventRepository persists explicitly edited or cancelled occurrences.
// Generated occurrences are never written here; rows only exist once a
// user touches a concrete occurrence.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs an event repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// ListBetween returns every persisted event whose start lies strictly
// between from and to, cancelled rows included. Cancellation is applied
// during the merge, not here.
func (r *EventRepository) ListBetween(ctx context.Context, from, to time.Time) ([]models.Event, error) {
	const query = `SELECT id, cancelled, from_time, duration_minutes, group_id, client_id
FROM events WHERE from_time > $1 AND from_time < $2`
	var events []models.Event
	if err := r.db.SelectContext(ctx, &events, query, from, to); err != nil {
		return nil, fmt.Errorf("list events between: %w", err)
	}
	for i := range events {
		events[i].Type = events[i].TypeFromSubject()
	}
	return events, nil
}

// FindByID fetches a persisted event by its canonical occurrence id.
func (r *EventRepository) FindByID(ctx context.Context, id string) (*models.Event, error) {
	const query = `SELECT id, cancelled, from_time, duration_minutes, group_id, client_id
FROM events WHERE id = $1`
	var event models.Event
	if err := r.db.GetContext(ctx, &event, query, id); err != nil {
		return nil, err
	}
	event.Type = event.TypeFromSubject()
	return &event, nil
}

// Upsert stores an override under its occurrence id, replacing any
// previous override for the same occurrence.
func (r *EventRepository) Upsert(ctx context.Context, event *models.Event) error {
	const query = `INSERT INTO events (id, cancelled, from_time, duration_minutes, group_id, client_id)
VALUES (:id, :cancelled, :from_time, :duration_minutes, :group_id, :client_id)
ON CONFLICT (id) DO UPDATE SET cancelled = EXCLUDED.cancelled, from_time = EXCLUDED.from_time,
duration_minutes = EXCLUDED.duration_minutes, group_id = EXCLUDED.group_id, client_id = EXCLUDED.client_id`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("upsert event: %w", err)
	}
	return nil
}
