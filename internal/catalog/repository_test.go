package catalog

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
)

var columns = []string{"id", "name", "description", "day_of_week", "start_time", "capacity", "trainer_name", "created_at"}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestCreateClass(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`INSERT INTO group_classes.*`).
		WithArgs("Yoga", "", 1, "10:00", 8, nil).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, "Yoga", "", 1, "10:00", 8, nil, time.Now()))

	c, err := repo.Create(context.Background(), Class{Name: "Yoga", DayOfWeek: time.Monday, StartTime: "10:00", Capacity: 8})
	assert.NoError(t, err)
	assert.Equal(t, 1, c.ID)
	assert.Equal(t, time.Monday, c.DayOfWeek)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListClasses(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM group_classes ORDER BY day_of_week, start_time`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(1, "Yoga", "", 1, "10:00", 8, nil, time.Now()).
			AddRow(2, "Pilates", "", 3, "10:00", 8, "Olga", time.Now()))

	classes, err := repo.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, classes, 2)
	assert.Equal(t, "Olga", *classes[1].TrainerName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListClassesByDay(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM group_classes WHERE day_of_week = \$1 ORDER BY start_time`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(5, "Stretching", "", 5, "10:00", 8, nil, time.Now()))

	classes, err := repo.ListByDay(context.Background(), time.Friday)
	assert.NoError(t, err)
	assert.Len(t, classes, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetClassNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT .* FROM group_classes WHERE id = \$1`).
		WithArgs(42).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), 42)
	assert.ErrorIs(t, err, ErrClassNotFound)
}

func TestUpdateClass(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`UPDATE group_classes SET .* WHERE id = \$1`).
		WithArgs(3, "Pilates", "core", 3, "11:00", 10, nil).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(3, "Pilates", "core", 3, "11:00", 10, nil, time.Now()))

	c, err := repo.Update(context.Background(), Class{ID: 3, Name: "Pilates", Description: "core", DayOfWeek: time.Wednesday, StartTime: "11:00", Capacity: 10})
	assert.NoError(t, err)
	assert.Equal(t, 10, c.Capacity)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteClass(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM group_classes WHERE id = \$1`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Delete(context.Background(), 3))

	mock.ExpectExec(`DELETE FROM group_classes WHERE id = \$1`).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 4), ErrClassNotFound)
}

func TestCountClasses(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM group_classes`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	n, err := repo.Count(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 6, n)
}
