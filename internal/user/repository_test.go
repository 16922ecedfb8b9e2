package user

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "login", "password_hash", "name", "role", "phone", "email", "created_at"}

func setupUserMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

func TestCreateAndFindUser(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (login, password_hash, name, role, phone, email)")).
		WithArgs("anna", "hash", "Anna", RoleMember, nil, nil).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "anna", "hash", "Anna", "member", nil, nil, now))

	u, err := repo.Create(ctx, User{Login: "anna", PasswordHash: "hash", Name: "Anna", Role: RoleMember})
	require.NoError(t, err)
	require.Equal(t, 1, u.ID)
	require.Nil(t, u.Phone)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE login = $1")).
		WithArgs("anna").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "anna", "hash", "Anna", "member", "+7 900", nil, now))

	fu, err := repo.FindByLogin(ctx, "anna")
	require.NoError(t, err)
	require.Equal(t, "Anna", fu.Name)
	require.Equal(t, "+7 900", *fu.Phone)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE login = $1)")).
		WithArgs("anna").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.LoginExists(ctx, "anna")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserDuplicateLogin(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := repo.Create(context.Background(), User{Login: "user", PasswordHash: "h", Name: "U", Role: RoleMember})
	assert.ErrorIs(t, err, ErrLoginTaken)
}

func TestFindUserByIDNotFound(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListAndUpdateUser(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	ctx := context.Background()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users ORDER BY id")).
		WillReturnRows(sqlmock.NewRows(userColumns).
			AddRow(1, "user", "h1", "Client", "member", nil, nil, now).
			AddRow(2, "staff", "h2", "Staff", "staff", nil, nil, now))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, RoleStaff, users[1].Role)

	email := "client@club.test"
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET name = $2, phone = $3, email = $4, password_hash = $5 WHERE id = $1")).
		WithArgs(1, "Client", nil, &email, "h1").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "user", "h1", "Client", "member", nil, email, now))

	updated, err := repo.Update(ctx, User{ID: 1, Name: "Client", Email: &email, PasswordHash: "h1"})
	require.NoError(t, err)
	assert.Equal(t, email, *updated.Email)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(ctx, 1))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
		WithArgs(2).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(ctx, 2), ErrUserNotFound)
}
