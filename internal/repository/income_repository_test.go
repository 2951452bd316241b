package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncomeRepositorySumForPeriod(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewIncomeRepository(db)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	rows := sqlmock.NewRows([]string{"amount", "count"}).AddRow(1250.50, 8)
	mock.ExpectQuery(regexp.QuoteMeta("FROM incomes WHERE user_id = $1 AND paid_at >= $2 AND paid_at < $3")).
		WithArgs("u1", from, to).
		WillReturnRows(rows)

	amount, count, err := repo.SumForPeriod(context.Background(), "u1", from, to)
	require.NoError(t, err)
	assert.Equal(t, 1250.50, amount)
	assert.Equal(t, 8, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncomeRepositorySumForPeriodEmptyMonth(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewIncomeRepository(db)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)
	rows := sqlmock.NewRows([]string{"amount", "count"}).AddRow(0.0, 0)
	mock.ExpectQuery(regexp.QuoteMeta("FROM incomes WHERE user_id = $1 AND paid_at >= $2 AND paid_at < $3")).
		WithArgs("u1", from, to).
		WillReturnRows(rows)

	amount, count, err := repo.SumForPeriod(context.Background(), "u1", from, to)
	require.NoError(t, err)
	assert.Zero(t, amount)
	assert.Zero(t, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
