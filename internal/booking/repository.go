package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"formfitness/internal/db"

	"github.com/jmoiron/sqlx"
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const bookingColumns = `id, user_id, class_id, date, created_at`

func (r *repository) Count(ctx context.Context, classID int, date time.Time) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM bookings
		WHERE class_id = $1 AND date = $2
	`, classID, date)
	return count, err
}

func (r *repository) Exists(ctx context.Context, userID, classID int, date time.Time) (bool, error) {
	return db.Exists(ctx, r.db, `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE user_id = $1 AND class_id = $2 AND date = $3
		)
	`, userID, classID, date)
}

func (r *repository) Create(ctx context.Context, b Booking, capacity int) (*Booking, error) {
	var created Booking

	err := db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		// serializes bookers of the same class
		var classID int
		err := tx.GetContext(ctx, &classID, `SELECT id FROM group_classes WHERE id = $1 FOR UPDATE`, b.ClassID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrClassNotFound
			}
			return err
		}

		booked, err := db.Exists(ctx, tx, `
			SELECT EXISTS(
				SELECT 1 FROM bookings
				WHERE user_id = $1 AND class_id = $2 AND date = $3
			)
		`, b.UserID, b.ClassID, b.Date)
		if err != nil {
			return err
		}
		if booked {
			return ErrAlreadyBooked
		}

		var count int
		err = tx.GetContext(ctx, &count, `
			SELECT COUNT(*)
			FROM bookings
			WHERE class_id = $1 AND date = $2
		`, b.ClassID, b.Date)
		if err != nil {
			return err
		}
		if count >= capacity {
			return ErrClassFull
		}

		return tx.GetContext(ctx, &created, `
			INSERT INTO bookings (user_id, class_id, date)
			VALUES ($1, $2, $3)
			RETURNING `+bookingColumns,
			b.UserID, b.ClassID, b.Date,
		)
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return nil, ErrAlreadyBooked
		}
		return nil, err
	}

	return &created, nil
}

func (r *repository) Delete(ctx context.Context, userID, classID int, date time.Time) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM bookings
		WHERE user_id = $1 AND class_id = $2 AND date = $3
	`, userID, classID, date)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int) ([]Booking, error) {
	bookings := []Booking{}
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE user_id = $1
		ORDER BY date DESC, id DESC
	`, userID)
	return bookings, err
}

func (r *repository) ListUpcomingByUser(ctx context.Context, userID int, from time.Time) ([]Booking, error) {
	bookings := []Booking{}
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE user_id = $1 AND date >= $2
		ORDER BY date, id
	`, userID, from)
	return bookings, err
}

func (r *repository) ListAll(ctx context.Context) ([]Booking, error) {
	bookings := []Booking{}
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT `+bookingColumns+`
		FROM bookings
		ORDER BY id
	`)
	return bookings, err
}

func (r *repository) ListForClass(ctx context.Context, classID int, date time.Time) ([]Booking, error) {
	bookings := []Booking{}
	err := r.db.SelectContext(ctx, &bookings, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE class_id = $1 AND date = $2
		ORDER BY created_at, id
	`, classID, date)
	return bookings, err
}

type classCount struct {
	ClassID  int `db:"class_id"`
	Bookings int `db:"bookings"`
}

func (r *repository) CountByClass(ctx context.Context, from, to time.Time) (map[int]int, error) {
	var rows []classCount
	err := r.db.SelectContext(ctx, &rows, `
		SELECT class_id, COUNT(*) AS bookings
		FROM bookings
		WHERE date BETWEEN $1 AND $2
		GROUP BY class_id
		ORDER BY class_id
	`, from, to)
	if err != nil {
		return nil, err
	}

	out := make(map[int]int, len(rows))
	for _, row := range rows {
		out[row.ClassID] = row.Bookings
	}
	return out, nil
}

func (r *repository) DeleteByUser(ctx context.Context, userID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE user_id = $1`, userID)
	return err
}

func (r *repository) DeleteByClass(ctx context.Context, classID int) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE class_id = $1`, classID)
	return err
}
