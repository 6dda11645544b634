package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"mealmate/internal/domain"
)

const mealSelect = `SELECT m.id, m.user_id, u.username, m.food_name, m.calories, m.protein, m.carbs,
	m.fat, m.fiber, m.sugar, m.sodium, m.quantity, m.unit, m.meal_type, m.meal_date, m.meal_time,
	m.memo, m.created_at, m.updated_at
FROM meals m JOIN users u ON u.id = m.user_id`

const mealOrder = " ORDER BY m.meal_time DESC NULLS LAST, m.id DESC"

func scanMeal(r rowScanner) (*domain.Meal, error) {
	var (
		m                                         domain.Meal
		protein, carbs, fat, fiber, sugar, sodium sql.NullFloat64
		mealTime                                  sql.NullTime
	)
	err := r.Scan(&m.ID, &m.UserID, &m.UserName, &m.FoodName, &m.Calories, &protein, &carbs,
		&fat, &fiber, &sugar, &sodium, &m.Quantity, &m.Unit, &m.MealType, &m.MealDate, &mealTime,
		&m.Memo, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	m.Protein = fromNullFloat(protein)
	m.Carbs = fromNullFloat(carbs)
	m.Fat = fromNullFloat(fat)
	m.Fiber = fromNullFloat(fiber)
	m.Sugar = fromNullFloat(sugar)
	m.Sodium = fromNullFloat(sodium)
	m.MealTime = fromNullTime(mealTime)
	return &m, nil
}

func (d *DB) queryMeals(ctx context.Context, where string, args ...any) ([]domain.Meal, error) {
	q := mealSelect
	if where != "" {
		q += " WHERE " + where
	}
	rows, err := d.sql.QueryContext(ctx, q+mealOrder, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.Meal, 0)
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// CreateMeal inserts a meal and returns it with its owner's username.
func (d *DB) CreateMeal(ctx context.Context, m *domain.Meal) (*domain.Meal, error) {
	now := d.now()
	var id int64
	err := d.sql.QueryRowContext(ctx,
		`INSERT INTO meals (user_id, food_name, calories, protein, carbs, fat, fiber, sugar, sodium,
			quantity, unit, meal_type, meal_date, meal_time, memo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $16)
		RETURNING id`,
		m.UserID, m.FoodName, m.Calories, m.Protein, m.Carbs, m.Fat, m.Fiber, m.Sugar, m.Sodium,
		m.Quantity, m.Unit, m.MealType, m.MealDate, nullTime(m.MealTime), m.Memo, now,
	).Scan(&id)
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("user %d", m.UserID))
	}
	return d.GetMeal(ctx, id)
}

// GetMeal retrieves a meal by ID.
func (d *DB) GetMeal(ctx context.Context, id int64) (*domain.Meal, error) {
	m, err := scanMeal(d.sql.QueryRowContext(ctx, mealSelect+" WHERE m.id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return m, err
}

// ListMeals returns every meal, newest first.
func (d *DB) ListMeals(ctx context.Context) ([]domain.Meal, error) {
	return d.queryMeals(ctx, "")
}

// ListMealsByUser returns a user's meals, newest first.
func (d *DB) ListMealsByUser(ctx context.Context, userID int64) ([]domain.Meal, error) {
	return d.queryMeals(ctx, "m.user_id = $1", userID)
}

// ListMealsByDate returns the meals on a calendar day.
func (d *DB) ListMealsByDate(ctx context.Context, day domain.Date) ([]domain.Meal, error) {
	return d.queryMeals(ctx, "m.meal_date = $1", day)
}

// ListMealsByUserAndDate returns a user's meals on a calendar day.
func (d *DB) ListMealsByUserAndDate(ctx context.Context, userID int64, day domain.Date) ([]domain.Meal, error) {
	return d.queryMeals(ctx, "m.user_id = $1 AND m.meal_date = $2", userID, day)
}

// UpdateMeal overwrites a meal's columns except its owner. It returns nil if
// no such meal exists.
func (d *DB) UpdateMeal(ctx context.Context, m *domain.Meal) (*domain.Meal, error) {
	ok, err := rowsAffected(d.sql.ExecContext(ctx,
		`UPDATE meals SET food_name = $2, calories = $3, protein = $4, carbs = $5, fat = $6,
			fiber = $7, sugar = $8, sodium = $9, quantity = $10, unit = $11, meal_type = $12,
			meal_date = $13, meal_time = $14, memo = $15, updated_at = $16
		WHERE id = $1`,
		m.ID, m.FoodName, m.Calories, m.Protein, m.Carbs, m.Fat, m.Fiber, m.Sugar, m.Sodium,
		m.Quantity, m.Unit, m.MealType, m.MealDate, nullTime(m.MealTime), m.Memo, d.now(),
	))
	if err != nil || !ok {
		return nil, err
	}
	return d.GetMeal(ctx, m.ID)
}

// DeleteMeal removes a meal by ID.
func (d *DB) DeleteMeal(ctx context.Context, id int64) (bool, error) {
	return rowsAffected(d.sql.ExecContext(ctx, "DELETE FROM meals WHERE id = $1", id))
}

// MealCaloriesForDay sums a user's calories on a calendar day.
func (d *DB) MealCaloriesForDay(ctx context.Context, userID int64, day domain.Date) (float64, error) {
	var total float64
	err := d.sql.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(calories), 0) FROM meals WHERE user_id = $1 AND meal_date = $2",
		userID, day,
	).Scan(&total)
	return total, err
}

// MealCaloriesAverage averages a user's calories per meal over an inclusive
// date range.
func (d *DB) MealCaloriesAverage(ctx context.Context, userID int64, from, to domain.Date) (float64, error) {
	var avg float64
	err := d.sql.QueryRowContext(ctx,
		"SELECT COALESCE(AVG(calories), 0) FROM meals WHERE user_id = $1 AND meal_date BETWEEN $2 AND $3",
		userID, from, to,
	).Scan(&avg)
	return avg, err
}
