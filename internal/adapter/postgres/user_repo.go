package postgres

import (
	"context"
	"database/sql"
	"errors"

	"mealmate/internal/domain"
)

const userColumns = `id, username, email, password_hash, nickname, age, gender, height, weight,
	target_weight, activity_level, daily_calorie_goal, created_at, updated_at`

func scanUser(r rowScanner) (*domain.User, error) {
	var (
		u                 domain.User
		age, goal         sql.NullInt64
		height, weight, t sql.NullFloat64
	)
	err := r.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Nickname, &age, &u.Gender,
		&height, &weight, &t, &u.ActivityLevel, &goal, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.Age = fromNullInt(age)
	u.Height = fromNullFloat(height)
	u.Weight = fromNullFloat(weight)
	u.TargetWeight = fromNullFloat(t)
	u.DailyCalorieGoal = fromNullInt(goal)
	return &u, nil
}

func (d *DB) queryUser(ctx context.Context, where string, arg any) (*domain.User, error) {
	u, err := scanUser(d.sql.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// CreateUser inserts a new user.
func (d *DB) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	now := d.now()
	out, err := scanUser(d.sql.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash, nickname, age, gender, height, weight,
			target_weight, activity_level, daily_calorie_goal, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $12)
		RETURNING `+userColumns,
		u.Username, u.Email, u.PasswordHash, u.Nickname, u.Age, u.Gender, u.Height, u.Weight,
		u.TargetWeight, u.ActivityLevel, u.DailyCalorieGoal, now,
	))
	if err != nil {
		return nil, mapError(err, "user "+u.Username)
	}
	return out, nil
}

// GetUserByID retrieves a user by ID.
func (d *DB) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	return d.queryUser(ctx, "id = $1", id)
}

// GetUserByEmail retrieves a user by email.
func (d *DB) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return d.queryUser(ctx, "email = $1", email)
}

// GetUserByLogin retrieves a user whose username or email equals login.
func (d *DB) GetUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	return d.queryUser(ctx, "username = $1 OR email = $1 ORDER BY id LIMIT 1", login)
}

// ListUsers returns all users ordered by id.
func (d *DB) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

// UpdateUser overwrites a user's mutable columns. It returns nil if no such
// user exists.
func (d *DB) UpdateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	out, err := scanUser(d.sql.QueryRowContext(ctx,
		`UPDATE users SET username = $2, email = $3, password_hash = $4, nickname = $5, age = $6,
			gender = $7, height = $8, weight = $9, target_weight = $10, activity_level = $11,
			daily_calorie_goal = $12, updated_at = $13
		WHERE id = $1
		RETURNING `+userColumns,
		u.ID, u.Username, u.Email, u.PasswordHash, u.Nickname, u.Age, u.Gender, u.Height, u.Weight,
		u.TargetWeight, u.ActivityLevel, u.DailyCalorieGoal, d.now(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapError(err, "user "+u.Username)
	}
	return out, nil
}

// DeleteUser removes a user. Meals and workouts go with it via ON DELETE
// CASCADE.
func (d *DB) DeleteUser(ctx context.Context, id int64) (bool, error) {
	return rowsAffected(d.sql.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id))
}

// EmailExists reports whether a user has email.
func (d *DB) EmailExists(ctx context.Context, email string) (bool, error) {
	var ok bool
	err := d.sql.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)", email).Scan(&ok)
	return ok, err
}

// UsernameExists reports whether a user has username.
func (d *DB) UsernameExists(ctx context.Context, username string) (bool, error) {
	var ok bool
	err := d.sql.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", username).Scan(&ok)
	return ok, err
}
