package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutor-crm-api/internal/models"
)

// ScheduleRepository provides persistence for weekly schedule rules.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListByUser returns the user's rules ordered by weekday, then time of day.
func (r *ScheduleRepository) ListByUser(ctx context.Context, userID string) ([]models.ScheduleRule, error) {
	const query = `SELECT id, user_id, weekday, hour, minute, duration_minutes, group_id, client_id, created_at, updated_at
FROM schedules WHERE user_id = $1 ORDER BY weekday ASC, hour ASC, minute ASC`
	var rules []models.ScheduleRule
	if err := r.db.SelectContext(ctx, &rules, query, userID); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return rules, nil
}

// FindByID loads a schedule rule by id.
func (r *ScheduleRepository) FindByID(ctx context.Context, id string) (*models.ScheduleRule, error) {
	const query = `SELECT id, user_id, weekday, hour, minute, duration_minutes, group_id, client_id, created_at, updated_at
FROM schedules WHERE id = $1`
	var rule models.ScheduleRule
	if err := r.db.GetContext(ctx, &rule, query, id); err != nil {
		return nil, err
	}
	return &rule, nil
}

// Create inserts a schedule rule.
func (r *ScheduleRepository) Create(ctx context.Context, rule *models.ScheduleRule) error {
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now
	const query = `INSERT INTO schedules (id, user_id, weekday, hour, minute, duration_minutes, group_id, client_id, created_at, updated_at)
VALUES (:id, :user_id, :weekday, :hour, :minute, :duration_minutes, :group_id, :client_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, rule); err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}
	return nil
}

// Update modifies a schedule rule.
func (r *ScheduleRepository) Update(ctx context.Context, rule *models.ScheduleRule) error {
	rule.UpdatedAt = time.Now().UTC()
	const query = `UPDATE schedules SET weekday = :weekday, hour = :hour, minute = :minute,
duration_minutes = :duration_minutes, group_id = :group_id, client_id = :client_id, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, rule); err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return nil
}

// Delete removes a schedule rule.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM schedules WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}
