package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutor-crm-api/internal/models"
)

// ClientRepository provides read access to the tutor's client roster.
type ClientRepository struct {
	db *sqlx.DB
}

// NewClientRepository constructs a client repository.
func NewClientRepository(db *sqlx.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

// CountActive returns the number of active clients for the user.
func (r *ClientRepository) CountActive(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM clients WHERE user_id = $1 AND active = TRUE`
	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count active clients: %w", err)
	}
	return count, nil
}

// ListByUser returns the user's clients ordered by name.
func (r *ClientRepository) ListByUser(ctx context.Context, userID string) ([]models.Client, error) {
	const query = `SELECT id, user_id, name, active, created_at, updated_at FROM clients WHERE user_id = $1 ORDER BY name ASC`
	var clients []models.Client
	if err := r.db.SelectContext(ctx, &clients, query, userID); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}
