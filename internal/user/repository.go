package user

import (
	"context"
	"database/sql"
	"errors"

	"formfitness/internal/db"

	"github.com/jmoiron/sqlx"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrLoginTaken   = errors.New("login already taken")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u User) (*User, error) {
	query := `
		INSERT INTO users (login, password_hash, name, role, phone, email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, login, password_hash, name, role, phone, email, created_at
	`

	var created User
	err := r.db.GetContext(ctx, &created, query, u.Login, u.PasswordHash, u.Name, u.Role, u.Phone, u.Email)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrLoginTaken
		}
		return nil, err
	}

	return &created, nil
}

func (r *repository) FindByLogin(ctx context.Context, login string) (*User, error) {
	query := `
		SELECT id, login, password_hash, name, role, phone, email, created_at
		FROM users
		WHERE login = $1
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, login)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	query := `
		SELECT id, login, password_hash, name, role, phone, email, created_at
		FROM users
		WHERE id = $1
	`

	var u User
	err := r.db.GetContext(ctx, &u, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &u, nil
}

func (r *repository) LoginExists(ctx context.Context, login string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE login = $1)`, login)
}

func (r *repository) List(ctx context.Context) ([]User, error) {
	query := `
		SELECT id, login, password_hash, name, role, phone, email, created_at
		FROM users
		ORDER BY id
	`

	users := []User{}
	if err := r.db.SelectContext(ctx, &users, query); err != nil {
		return nil, err
	}

	return users, nil
}

func (r *repository) Update(ctx context.Context, u User) (*User, error) {
	query := `
		UPDATE users
		SET name = $2, phone = $3, email = $4, password_hash = $5
		WHERE id = $1
		RETURNING id, login, password_hash, name, role, phone, email, created_at
	`

	var updated User
	err := r.db.GetContext(ctx, &updated, query, u.ID, u.Name, u.Phone, u.Email, u.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	return &updated, nil
}

func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}

	return nil
}
