package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-crm-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEventRepositoryListBetween(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "cancelled", "from_time", "duration_minutes", "group_id", "client_id"}).
		AddRow("group_G1_202603020900_60", false, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), 60, "G1", nil).
		AddRow("client_c1_202603031000_45", true, time.Date(2026, 3, 3, 10, 0, 0, 0, time.UTC), 45, nil, "c1")
	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE from_time > $1 AND from_time < $2")).
		WithArgs(from, to).
		WillReturnRows(rows)

	events, err := repo.ListBetween(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventTypeGroup, events[0].Type)
	assert.Equal(t, models.EventTypeClient, events[1].Type)
	assert.True(t, events[1].Cancelled, "cancelled rows are returned, the merge filters them")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	rows := sqlmock.NewRows([]string{"id", "cancelled", "from_time", "duration_minutes", "group_id", "client_id"}).
		AddRow("group_G1_202603020900_60", false, time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), 60, "G1", nil)
	mock.ExpectQuery(regexp.QuoteMeta("FROM events WHERE id = $1")).
		WithArgs("group_G1_202603020900_60").
		WillReturnRows(rows)

	event, err := repo.FindByID(context.Background(), "group_G1_202603020900_60")
	require.NoError(t, err)
	assert.Equal(t, models.EventTypeGroup, event.Type)
	assert.Equal(t, 60, event.DurationMinutes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec("INSERT INTO events").
		WithArgs("group_G1_202603020900_60", true, sqlmock.AnyArg(), 60, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	group := "G1"
	err := repo.Upsert(context.Background(), &models.Event{
		ID:              "group_G1_202603020900_60",
		Cancelled:       true,
		From:            time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		GroupID:         &group,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
