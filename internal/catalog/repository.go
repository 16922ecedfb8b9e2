package catalog

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

var ErrClassNotFound = errors.New("class not found")

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const classColumns = `id, name, description, day_of_week, start_time, capacity, trainer_name, created_at`

func (r *repository) List(ctx context.Context) ([]Class, error) {
	query := `
		SELECT ` + classColumns + `
		FROM group_classes
		ORDER BY day_of_week, start_time
	`

	classes := []Class{}
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *repository) ListByDay(ctx context.Context, day time.Weekday) ([]Class, error) {
	query := `
		SELECT ` + classColumns + `
		FROM group_classes
		WHERE day_of_week = $1
		ORDER BY start_time
	`

	classes := []Class{}
	if err := r.db.SelectContext(ctx, &classes, query, int(day)); err != nil {
		return nil, err
	}
	return classes, nil
}

func (r *repository) Get(ctx context.Context, id int) (*Class, error) {
	query := `
		SELECT ` + classColumns + `
		FROM group_classes
		WHERE id = $1
	`

	var c Class
	if err := r.db.GetContext(ctx, &c, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) Create(ctx context.Context, c Class) (*Class, error) {
	query := `
		INSERT INTO group_classes (name, description, day_of_week, start_time, capacity, trainer_name)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + classColumns

	var created Class
	err := r.db.GetContext(ctx, &created, query, c.Name, c.Description, int(c.DayOfWeek), c.StartTime, c.Capacity, c.TrainerName)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (r *repository) Update(ctx context.Context, c Class) (*Class, error) {
	query := `
		UPDATE group_classes
		SET name = $2, description = $3, day_of_week = $4, start_time = $5, capacity = $6, trainer_name = $7
		WHERE id = $1
		RETURNING ` + classColumns

	var updated Class
	err := r.db.GetContext(ctx, &updated, query, c.ID, c.Name, c.Description, int(c.DayOfWeek), c.StartTime, c.Capacity, c.TrainerName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClassNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// Delete removes the class. Its bookings go with it through ON DELETE CASCADE.
func (r *repository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM group_classes WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrClassNotFound
	}
	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM group_classes`)
	return n, err
}
