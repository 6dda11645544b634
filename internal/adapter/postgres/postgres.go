// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mealmate/internal/domain"

	"github.com/lib/pq"
)

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
	now func() time.Time
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.MealRepository = (*DB)(nil)
var _ domain.WorkoutRepository = (*DB)(nil)

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	s, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}

	d := newDB(s)
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

func newDB(s *sql.DB) *DB {
	return &DB{sql: s, now: func() time.Time { return time.Now().UTC() }}
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		username TEXT NOT NULL,
		email TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		nickname TEXT NOT NULL DEFAULT '',
		age INTEGER,
		gender TEXT NOT NULL DEFAULT '',
		height DOUBLE PRECISION,
		weight DOUBLE PRECISION,
		target_weight DOUBLE PRECISION,
		activity_level TEXT NOT NULL DEFAULT '',
		daily_calorie_goal INTEGER,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);`,
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username ON users(username);",
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email);",
	`CREATE TABLE IF NOT EXISTS meals (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		food_name TEXT NOT NULL,
		calories INTEGER NOT NULL CHECK (calories > 0),
		protein DOUBLE PRECISION,
		carbs DOUBLE PRECISION,
		fat DOUBLE PRECISION,
		fiber DOUBLE PRECISION,
		sugar DOUBLE PRECISION,
		sodium DOUBLE PRECISION,
		quantity INTEGER NOT NULL,
		unit TEXT NOT NULL DEFAULT '',
		meal_type TEXT NOT NULL,
		meal_date DATE NOT NULL,
		meal_time TIMESTAMPTZ,
		memo TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);`,
	"CREATE INDEX IF NOT EXISTS idx_meals_user_date ON meals(user_id, meal_date);",
	"CREATE INDEX IF NOT EXISTS idx_meals_date ON meals(meal_date);",
	`CREATE TABLE IF NOT EXISTS workouts (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		exercise_name TEXT NOT NULL,
		exercise_type TEXT NOT NULL,
		duration INTEGER NOT NULL,
		calories_burned INTEGER NOT NULL,
		distance DOUBLE PRECISION,
		sets INTEGER,
		reps INTEGER,
		weight DOUBLE PRECISION,
		intensity INTEGER CHECK (intensity BETWEEN 1 AND 10),
		workout_date DATE NOT NULL,
		workout_time TIMESTAMPTZ,
		memo TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);`,
	"CREATE INDEX IF NOT EXISTS idx_workouts_user_date ON workouts(user_id, workout_date);",
	"CREATE INDEX IF NOT EXISTS idx_workouts_date ON workouts(workout_date);",
}

func (d *DB) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// mapError translates constraint violations into domain errors.
func mapError(err error, what string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", what, domain.ErrDuplicate)
		case "23503":
			return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
		}
	}
	return err
}

func nullTime(dt *domain.DateTime) sql.NullTime {
	if dt == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: dt.Time, Valid: true}
}

func fromNullTime(nt sql.NullTime) *domain.DateTime {
	if !nt.Valid {
		return nil
	}
	return &domain.DateTime{Time: nt.Time}
}

func fromNullFloat(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	v := nf.Float64
	return &v
}

func fromNullInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	v := int(ni.Int64)
	return &v
}

func rowsAffected(res sql.Result, err error) (bool, error) {
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
