// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"mealmate/internal/domain"
)

// DB implements an in-memory database storage.
type DB struct {
	mu       sync.Mutex
	users    map[int64]*domain.User
	meals    map[int64]*domain.Meal
	workouts map[int64]*domain.Workout

	userIDCounter    int64
	mealIDCounter    int64
	workoutIDCounter int64

	now func() time.Time
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{
		users:    make(map[int64]*domain.User),
		meals:    make(map[int64]*domain.Meal),
		workouts: make(map[int64]*domain.Workout),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.MealRepository = (*DB)(nil)
var _ domain.WorkoutRepository = (*DB)(nil)

// --- UserRepository ---

// CreateUser stores a new user, rejecting a taken username or email.
func (db *DB) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.checkUnique(0, u.Username, u.Email); err != nil {
		return nil, err
	}
	db.userIDCounter++
	stored := *u
	stored.ID = db.userIDCounter
	stored.CreatedAt = db.now()
	stored.UpdatedAt = stored.CreatedAt
	db.users[stored.ID] = &stored

	out := stored
	return &out, nil
}

// GetUserByID returns the user with id, or nil if absent.
func (db *DB) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if u, ok := db.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, nil
}

// GetUserByEmail returns the user registered under email, or nil if absent.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Email == email {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

// GetUserByLogin returns the user whose username or email equals login.
// When several match, the oldest user wins.
func (db *DB) GetUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var found *domain.User
	for _, u := range db.users {
		if u.Username != login && u.Email != login {
			continue
		}
		if found == nil || u.ID < found.ID {
			found = u
		}
	}
	if found == nil {
		return nil, nil
	}
	out := *found
	return &out, nil
}

// ListUsers returns all users ordered by id.
func (db *DB) ListUsers(ctx context.Context) ([]domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.User, 0, len(db.users))
	for _, u := range db.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateUser overwrites a stored user. It returns nil if the user is absent.
func (db *DB) UpdateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	cur, ok := db.users[u.ID]
	if !ok {
		return nil, nil
	}
	if err := db.checkUnique(u.ID, u.Username, u.Email); err != nil {
		return nil, err
	}
	stored := *u
	stored.CreatedAt = cur.CreatedAt
	stored.UpdatedAt = db.now()
	db.users[u.ID] = &stored

	out := stored
	return &out, nil
}

// DeleteUser removes a user along with its meals and workouts.
func (db *DB) DeleteUser(ctx context.Context, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.users[id]; !ok {
		return false, nil
	}
	delete(db.users, id)
	for mid, m := range db.meals {
		if m.UserID == id {
			delete(db.meals, mid)
		}
	}
	for wid, w := range db.workouts {
		if w.UserID == id {
			delete(db.workouts, wid)
		}
	}
	return true, nil
}

// EmailExists reports whether any user has email.
func (db *DB) EmailExists(ctx context.Context, email string) (bool, error) {
	u, err := db.GetUserByEmail(ctx, email)
	return u != nil, err
}

// UsernameExists reports whether any user has username.
func (db *DB) UsernameExists(ctx context.Context, username string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// checkUnique must be called with db.mu held.
func (db *DB) checkUnique(selfID int64, username, email string) error {
	for id, u := range db.users {
		if id == selfID {
			continue
		}
		if u.Username == username {
			return fmt.Errorf("username %s: %w", username, domain.ErrDuplicate)
		}
		if u.Email == email {
			return fmt.Errorf("email %s: %w", email, domain.ErrDuplicate)
		}
	}
	return nil
}

// --- MealRepository ---

// CreateMeal stores a meal for an existing user.
func (db *DB) CreateMeal(ctx context.Context, m *domain.Meal) (*domain.Meal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.users[m.UserID]; !ok {
		return nil, fmt.Errorf("user %d: %w", m.UserID, domain.ErrNotFound)
	}
	db.mealIDCounter++
	stored := *m
	stored.ID = db.mealIDCounter
	stored.CreatedAt = db.now()
	stored.UpdatedAt = stored.CreatedAt
	db.meals[stored.ID] = &stored
	return db.mealOut(&stored), nil
}

// GetMeal returns the meal with id, or nil if absent.
func (db *DB) GetMeal(ctx context.Context, id int64) (*domain.Meal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if m, ok := db.meals[id]; ok {
		return db.mealOut(m), nil
	}
	return nil, nil
}

// ListMeals returns every meal, newest first.
func (db *DB) ListMeals(ctx context.Context) ([]domain.Meal, error) {
	return db.filterMeals(func(*domain.Meal) bool { return true }), nil
}

// ListMealsByUser returns the meals of userID, newest first.
func (db *DB) ListMealsByUser(ctx context.Context, userID int64) ([]domain.Meal, error) {
	return db.filterMeals(func(m *domain.Meal) bool { return m.UserID == userID }), nil
}

// ListMealsByDate returns the meals eaten on day, newest first.
func (db *DB) ListMealsByDate(ctx context.Context, day domain.Date) ([]domain.Meal, error) {
	return db.filterMeals(func(m *domain.Meal) bool { return m.MealDate.Equal(day) }), nil
}

// ListMealsByUserAndDate returns the meals userID ate on day, newest first.
func (db *DB) ListMealsByUserAndDate(ctx context.Context, userID int64, day domain.Date) ([]domain.Meal, error) {
	return db.filterMeals(func(m *domain.Meal) bool {
		return m.UserID == userID && m.MealDate.Equal(day)
	}), nil
}

// UpdateMeal overwrites a stored meal. It returns nil if the meal is absent.
func (db *DB) UpdateMeal(ctx context.Context, m *domain.Meal) (*domain.Meal, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	cur, ok := db.meals[m.ID]
	if !ok {
		return nil, nil
	}
	stored := *m
	stored.UserID = cur.UserID
	stored.CreatedAt = cur.CreatedAt
	stored.UpdatedAt = db.now()
	db.meals[m.ID] = &stored
	return db.mealOut(&stored), nil
}

// DeleteMeal removes the meal with id.
func (db *DB) DeleteMeal(ctx context.Context, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.meals[id]; !ok {
		return false, nil
	}
	delete(db.meals, id)
	return true, nil
}

// MealCaloriesForDay sums the calories userID ate on day.
func (db *DB) MealCaloriesForDay(ctx context.Context, userID int64, day domain.Date) (float64, error) {
	sum, _ := db.mealCalories(userID, day, day)
	return sum, nil
}

// MealCaloriesAverage averages calories per meal for userID over the
// inclusive range, returning 0 when there are no meals.
func (db *DB) MealCaloriesAverage(ctx context.Context, userID int64, from, to domain.Date) (float64, error) {
	sum, n := db.mealCalories(userID, from, to)
	if n == 0 {
		return 0, nil
	}
	return sum / float64(n), nil
}

func (db *DB) mealCalories(userID int64, from, to domain.Date) (float64, int) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var sum float64
	var n int
	for _, m := range db.meals {
		if m.UserID == userID && m.MealDate.Within(from, to) {
			sum += float64(m.Calories)
			n++
		}
	}
	return sum, n
}

func (db *DB) filterMeals(keep func(*domain.Meal) bool) []domain.Meal {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.Meal, 0)
	for _, m := range db.meals {
		if keep(m) {
			out = append(out, *db.mealOut(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].MealTime, out[j].MealTime, out[i].ID, out[j].ID)
	})
	return out
}

// mealOut must be called with db.mu held.
func (db *DB) mealOut(m *domain.Meal) *domain.Meal {
	out := *m
	if u, ok := db.users[m.UserID]; ok {
		out.UserName = u.Username
	}
	return &out
}

// --- WorkoutRepository ---

// CreateWorkout stores a workout for an existing user.
func (db *DB) CreateWorkout(ctx context.Context, w *domain.Workout) (*domain.Workout, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.users[w.UserID]; !ok {
		return nil, fmt.Errorf("user %d: %w", w.UserID, domain.ErrNotFound)
	}
	db.workoutIDCounter++
	stored := *w
	stored.ID = db.workoutIDCounter
	stored.CreatedAt = db.now()
	stored.UpdatedAt = stored.CreatedAt
	db.workouts[stored.ID] = &stored
	return db.workoutOut(&stored), nil
}

// GetWorkout returns the workout with id, or nil if absent.
func (db *DB) GetWorkout(ctx context.Context, id int64) (*domain.Workout, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if w, ok := db.workouts[id]; ok {
		return db.workoutOut(w), nil
	}
	return nil, nil
}

// ListWorkouts returns every workout, newest first.
func (db *DB) ListWorkouts(ctx context.Context) ([]domain.Workout, error) {
	return db.filterWorkouts(func(*domain.Workout) bool { return true }), nil
}

// ListWorkoutsByUser returns the workouts of userID, newest first.
func (db *DB) ListWorkoutsByUser(ctx context.Context, userID int64) ([]domain.Workout, error) {
	return db.filterWorkouts(func(w *domain.Workout) bool { return w.UserID == userID }), nil
}

// ListWorkoutsByDate returns the workouts done on day, newest first.
func (db *DB) ListWorkoutsByDate(ctx context.Context, day domain.Date) ([]domain.Workout, error) {
	return db.filterWorkouts(func(w *domain.Workout) bool { return w.WorkoutDate.Equal(day) }), nil
}

// ListWorkoutsByUserAndDate returns the workouts userID did on day.
func (db *DB) ListWorkoutsByUserAndDate(ctx context.Context, userID int64, day domain.Date) ([]domain.Workout, error) {
	return db.filterWorkouts(func(w *domain.Workout) bool {
		return w.UserID == userID && w.WorkoutDate.Equal(day)
	}), nil
}

// SearchWorkoutsByExerciseName matches query against exercise names,
// ignoring case.
func (db *DB) SearchWorkoutsByExerciseName(ctx context.Context, userID int64, query string) ([]domain.Workout, error) {
	q := strings.ToLower(query)
	return db.filterWorkouts(func(w *domain.Workout) bool {
		return w.UserID == userID && strings.Contains(strings.ToLower(w.ExerciseName), q)
	}), nil
}

// UpdateWorkout overwrites a stored workout. It returns nil if the workout
// is absent.
func (db *DB) UpdateWorkout(ctx context.Context, w *domain.Workout) (*domain.Workout, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	cur, ok := db.workouts[w.ID]
	if !ok {
		return nil, nil
	}
	stored := *w
	stored.UserID = cur.UserID
	stored.CreatedAt = cur.CreatedAt
	stored.UpdatedAt = db.now()
	db.workouts[w.ID] = &stored
	return db.workoutOut(&stored), nil
}

// DeleteWorkout removes the workout with id.
func (db *DB) DeleteWorkout(ctx context.Context, id int64) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.workouts[id]; !ok {
		return false, nil
	}
	delete(db.workouts, id)
	return true, nil
}

// WorkoutCaloriesForDay sums the calories userID burned on day.
func (db *DB) WorkoutCaloriesForDay(ctx context.Context, userID int64, day domain.Date) (float64, error) {
	kcal, _, _ := db.workoutTotals(userID, day, day)
	return kcal, nil
}

// WorkoutCaloriesAverage averages burned calories per workout for userID
// over the inclusive range, returning 0 when there are no workouts.
func (db *DB) WorkoutCaloriesAverage(ctx context.Context, userID int64, from, to domain.Date) (float64, error) {
	kcal, _, n := db.workoutTotals(userID, from, to)
	if n == 0 {
		return 0, nil
	}
	return kcal / float64(n), nil
}

// WorkoutDurationForDay sums the minutes userID exercised on day.
func (db *DB) WorkoutDurationForDay(ctx context.Context, userID int64, day domain.Date) (int, error) {
	_, minutes, _ := db.workoutTotals(userID, day, day)
	return minutes, nil
}

func (db *DB) workoutTotals(userID int64, from, to domain.Date) (float64, int, int) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var kcal float64
	var minutes, n int
	for _, w := range db.workouts {
		if w.UserID == userID && w.WorkoutDate.Within(from, to) {
			kcal += float64(w.CaloriesBurned)
			minutes += w.Duration
			n++
		}
	}
	return kcal, minutes, n
}

func (db *DB) filterWorkouts(keep func(*domain.Workout) bool) []domain.Workout {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]domain.Workout, 0)
	for _, w := range db.workouts {
		if keep(w) {
			out = append(out, *db.workoutOut(w))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].WorkoutTime, out[j].WorkoutTime, out[i].ID, out[j].ID)
	})
	return out
}

// workoutOut must be called with db.mu held.
func (db *DB) workoutOut(w *domain.Workout) *domain.Workout {
	out := *w
	if u, ok := db.users[w.UserID]; ok {
		out.UserName = u.Username
	}
	return &out
}

// newerFirst orders by time descending with missing times last, then by id
// descending.
func newerFirst(a, b *domain.DateTime, aID, bID int64) bool {
	switch {
	case a != nil && b != nil && !a.Equal(b.Time):
		return a.After(b.Time)
	case a != nil && b == nil:
		return true
	case a == nil && b != nil:
		return false
	}
	return aID > bID
}
