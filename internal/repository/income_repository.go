package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// IncomeRepository aggregates recorded payments.
type IncomeRepository struct {
	db *sqlx.DB
}

// NewIncomeRepository constructs an income repository.
func NewIncomeRepository(db *sqlx.DB) *IncomeRepository {
	return &IncomeRepository{db: db}
}

// incomeAggregate scans the SUM/COUNT projection.
type incomeAggregate struct {
	Amount float64 `db:"amount"`
	Count  int     `db:"count"`
}

// SumForPeriod returns the total amount and number of incomes recorded for
// the user with paid_at inside [from, to).
func (r *IncomeRepository) SumForPeriod(ctx context.Context, userID string, from, to time.Time) (float64, int, error) {
	const query = `SELECT COALESCE(SUM(amount), 0) AS amount, COUNT(*) AS count
FROM incomes WHERE user_id = $1 AND paid_at >= $2 AND paid_at < $3`
	var agg incomeAggregate
	if err := r.db.GetContext(ctx, &agg, query, userID, from, to); err != nil {
		return 0, 0, fmt.Errorf("sum incomes: %w", err)
	}
	return agg.Amount, agg.Count, nil
}
