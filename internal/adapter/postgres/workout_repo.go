package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mealmate/internal/domain"
)

const workoutSelect = `SELECT w.id, w.user_id, u.username, w.exercise_name, w.exercise_type, w.duration,
	w.calories_burned, w.distance, w.sets, w.reps, w.weight, w.intensity, w.workout_date,
	w.workout_time, w.memo, w.created_at, w.updated_at
FROM workouts w JOIN users u ON u.id = w.user_id`

const workoutOrder = " ORDER BY w.workout_time DESC NULLS LAST, w.id DESC"

func scanWorkout(r rowScanner) (*domain.Workout, error) {
	var (
		w                     domain.Workout
		distance, weight      sql.NullFloat64
		sets, reps, intensity sql.NullInt64
		workoutTime           sql.NullTime
	)
	err := r.Scan(&w.ID, &w.UserID, &w.UserName, &w.ExerciseName, &w.ExerciseType, &w.Duration,
		&w.CaloriesBurned, &distance, &sets, &reps, &weight, &intensity, &w.WorkoutDate,
		&workoutTime, &w.Memo, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	w.Distance = fromNullFloat(distance)
	w.Sets = fromNullInt(sets)
	w.Reps = fromNullInt(reps)
	w.Weight = fromNullFloat(weight)
	w.Intensity = fromNullInt(intensity)
	w.WorkoutTime = fromNullTime(workoutTime)
	return &w, nil
}

func (d *DB) queryWorkouts(ctx context.Context, where string, args ...any) ([]domain.Workout, error) {
	q := workoutSelect
	if where != "" {
		q += " WHERE " + where
	}
	rows, err := d.sql.QueryContext(ctx, q+workoutOrder, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.Workout, 0)
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *w)
	}
	return out, rows.Err()
}

// CreateWorkout inserts a workout and returns it with its owner's username.
func (d *DB) CreateWorkout(ctx context.Context, w *domain.Workout) (*domain.Workout, error) {
	now := d.now()
	var id int64
	err := d.sql.QueryRowContext(ctx,
		`INSERT INTO workouts (user_id, exercise_name, exercise_type, duration, calories_burned,
			distance, sets, reps, weight, intensity, workout_date, workout_time, memo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
		RETURNING id`,
		w.UserID, w.ExerciseName, w.ExerciseType, w.Duration, w.CaloriesBurned,
		w.Distance, w.Sets, w.Reps, w.Weight, w.Intensity, w.WorkoutDate, nullTime(w.WorkoutTime), w.Memo, now,
	).Scan(&id)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("user %d", w.UserID))
	}
	return d.GetWorkout(ctx, id)
}

// GetWorkout retrieves a workout by ID.
func (d *DB) GetWorkout(ctx context.Context, id int64) (*domain.Workout, error) {
	w, err := scanWorkout(d.sql.QueryRowContext(ctx, workoutSelect+" WHERE w.id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return w, err
}

// ListWorkouts returns every workout, newest first.
func (d *DB) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	return d.queryWorkouts(ctx, "")
}

// ListWorkoutsByUser returns a user's workouts, newest first.
func (d *DB) ListWorkoutsByUser(ctx context.Context, userID int64) ([]domain.Workout, error) {
	return d.queryWorkouts(ctx, "w.user_id = $1", userID)
}

// ListWorkoutsByDate returns the workouts on a calendar day.
func (d *DB) ListWorkoutsByDate(ctx context.Context, day domain.Date) ([]domain.Workout, error) {
	return d.queryWorkouts(ctx, "w.workout_date = $1", day)
}

// ListWorkoutsByUserAndDate returns a user's workouts on a calendar day.
func (d *DB) ListWorkoutsByUserAndDate(ctx context.Context, userID int64, day domain.Date) ([]domain.Workout, error) {
	return d.queryWorkouts(ctx, "w.user_id = $1 AND w.workout_date = $2", userID, day)
}

// SearchWorkoutsByExerciseName matches a case-insensitive substring of the
// exercise name.
func (d *DB) SearchWorkoutsByExerciseName(ctx context.Context, userID int64, query string) ([]domain.Workout, error) {
	return d.queryWorkouts(ctx, "w.user_id = $1 AND w.exercise_name ILIKE '%' || $2 || '%'", userID, escapeLike(query))
}

// UpdateWorkout overwrites a workout's columns except its owner. It returns
// nil if no such workout exists.
func (d *DB) UpdateWorkout(ctx context.Context, w *domain.Workout) (*domain.Workout, error) {
	ok, err := rowsAffected(d.sql.ExecContext(ctx,
		`UPDATE workouts SET exercise_name = $2, exercise_type = $3, duration = $4,
			calories_burned = $5, distance = $6, sets = $7, reps = $8, weight = $9, intensity = $10,
			workout_date = $11, workout_time = $12, memo = $13, updated_at = $14
		WHERE id = $1`,
		w.ID, w.ExerciseName, w.ExerciseType, w.Duration, w.CaloriesBurned, w.Distance, w.Sets,
		w.Reps, w.Weight, w.Intensity, w.WorkoutDate, nullTime(w.WorkoutTime), w.Memo, d.now(),
	))
	if err != nil || !ok {
		return nil, err
	}
	return d.GetWorkout(ctx, w.ID)
}

// DeleteWorkout removes a workout by ID.
func (d *DB) DeleteWorkout(ctx context.Context, id int64) (bool, error) {
	return rowsAffected(d.sql.ExecContext(ctx, "DELETE FROM workouts WHERE id = $1", id))
}

// WorkoutCaloriesForDay sums a user's burned calories on a calendar day.
func (d *DB) WorkoutCaloriesForDay(ctx context.Context, userID int64, day domain.Date) (float64, error) {
	var total float64
	err := d.sql.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(calories_burned), 0) FROM workouts WHERE user_id = $1 AND workout_date = $2",
		userID, day,
	).Scan(&total)
	return total, err
}

// WorkoutCaloriesAverage averages a user's burned calories per workout over
// an inclusive date range.
func (d *DB) WorkoutCaloriesAverage(ctx context.Context, userID int64, from, to domain.Date) (float64, error) {
	var avg float64
	err := d.sql.QueryRowContext(ctx,
		"SELECT COALESCE(AVG(calories_burned), 0) FROM workouts WHERE user_id = $1 AND workout_date BETWEEN $2 AND $3",
		userID, from, to,
	).Scan(&avg)
	return avg, err
}

// WorkoutDurationForDay sums a user's exercise minutes on a calendar day.
func (d *DB) WorkoutDurationForDay(ctx context.Context, userID int64, day domain.Date) (int, error) {
	var total int
	err := d.sql.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(duration), 0) FROM workouts WHERE user_id = $1 AND workout_date = $2",
		userID, day,
	).Scan(&total)
	return total, err
}

func escapeLike(s string) string {
	r := make([]rune, 0, len(s))
	for _, c := range s {
		if c == '%' || c == '_' || c == '\\' {
			r = append(r, '\\')
		}
		r = append(r, c)
	}
	return string(r)
}
