package app

import (
	"context"
	"errors"

	"mealmate/internal/domain"
)

type mockUserRepo struct {
	createFn        func(ctx context.Context, u *domain.User) (*domain.User, error)
	getByIDFn       func(ctx context.Context, id int64) (*domain.User, error)
	getByEmailFn    func(ctx context.Context, email string) (*domain.User, error)
	getByLoginFn    func(ctx context.Context, login string) (*domain.User, error)
	listFn          func(ctx context.Context) ([]domain.User, error)
	updateFn        func(ctx context.Context, u *domain.User) (*domain.User, error)
	deleteFn        func(ctx context.Context, id int64) (bool, error)
	emailExistsFn   func(ctx context.Context, email string) (bool, error)
	usernameExistFn func(ctx context.Context, username string) (bool, error)
}

func (m *mockUserRepo) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, u)
	}
	out := *u
	out.ID = 1
	return &out, nil
}

func (m *mockUserRepo) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, nil
}

func (m *mockUserRepo) GetUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	if m.getByLoginFn != nil {
		return m.getByLoginFn(ctx, login)
	}
	return nil, nil
}

func (m *mockUserRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockUserRepo) UpdateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, u)
	}
	out := *u
	return &out, nil
}

func (m *mockUserRepo) DeleteUser(ctx context.Context, id int64) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return false, nil
}

func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	if m.emailExistsFn != nil {
		return m.emailExistsFn(ctx, email)
	}
	return false, nil
}

func (m *mockUserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	if m.usernameExistFn != nil {
		return m.usernameExistFn(ctx, username)
	}
	return false, nil
}

type mockMealRepo struct {
	createFn  func(ctx context.Context, m *domain.Meal) (*domain.Meal, error)
	getFn     func(ctx context.Context, id int64) (*domain.Meal, error)
	updateFn  func(ctx context.Context, m *domain.Meal) (*domain.Meal, error)
	deleteFn  func(ctx context.Context, id int64) (bool, error)
	byUserFn  func(ctx context.Context, userID int64) ([]domain.Meal, error)
	dayFn     func(ctx context.Context, userID int64, day domain.Date) (float64, error)
	averageFn func(ctx context.Context, userID int64, from, to domain.Date) (float64, error)
}

func (m *mockMealRepo) CreateMeal(ctx context.Context, meal *domain.Meal) (*domain.Meal, error) {
	if m.createFn != nil {
		return m.createFn(ctx, meal)
	}
	out := *meal
	out.ID = 1
	return &out, nil
}

func (m *mockMealRepo) GetMeal(ctx context.Context, id int64) (*domain.Meal, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockMealRepo) ListMeals(context.Context) ([]domain.Meal, error) { return nil, nil }

func (m *mockMealRepo) ListMealsByUser(ctx context.Context, userID int64) ([]domain.Meal, error) {
	if m.byUserFn != nil {
		return m.byUserFn(ctx, userID)
	}
	return nil, nil
}

func (m *mockMealRepo) ListMealsByDate(context.Context, domain.Date) ([]domain.Meal, error) {
	return nil, nil
}

func (m *mockMealRepo) ListMealsByUserAndDate(context.Context, int64, domain.Date) ([]domain.Meal, error) {
	return nil, nil
}

func (m *mockMealRepo) UpdateMeal(ctx context.Context, meal *domain.Meal) (*domain.Meal, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, meal)
	}
	out := *meal
	return &out, nil
}

func (m *mockMealRepo) DeleteMeal(ctx context.Context, id int64) (bool, error) {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return false, nil
}

func (m *mockMealRepo) MealCaloriesForDay(ctx context.Context, userID int64, day domain.Date) (float64, error) {
	if m.dayFn != nil {
		return m.dayFn(ctx, userID, day)
	}
	return 0, nil
}

func (m *mockMealRepo) MealCaloriesAverage(ctx context.Context, userID int64, from, to domain.Date) (float64, error) {
	if m.averageFn != nil {
		return m.averageFn(ctx, userID, from, to)
	}
	return 0, nil
}

type mockWorkoutRepo struct {
	createFn   func(ctx context.Context, w *domain.Workout) (*domain.Workout, error)
	getFn      func(ctx context.Context, id int64) (*domain.Workout, error)
	searchFn   func(ctx context.Context, userID int64, query string) ([]domain.Workout, error)
	dayFn      func(ctx context.Context, userID int64, day domain.Date) (float64, error)
	averageFn  func(ctx context.Context, userID int64, from, to domain.Date) (float64, error)
	durationFn func(ctx context.Context, userID int64, day domain.Date) (int, error)
}

func (m *mockWorkoutRepo) CreateWorkout(ctx context.Context, w *domain.Workout) (*domain.Workout, error) {
	if m.createFn != nil {
		return m.createFn(ctx, w)
	}
	out := *w
	out.ID = 1
	return &out, nil
}

func (m *mockWorkoutRepo) GetWorkout(ctx context.Context, id int64) (*domain.Workout, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return nil, nil
}

func (m *mockWorkoutRepo) ListWorkouts(context.Context) ([]domain.Workout, error) { return nil, nil }

func (m *mockWorkoutRepo) ListWorkoutsByUser(context.Context, int64) ([]domain.Workout, error) {
	return nil, nil
}

func (m *mockWorkoutRepo) ListWorkoutsByDate(context.Context, domain.Date) ([]domain.Workout, error) {
	return nil, nil
}

func (m *mockWorkoutRepo) ListWorkoutsByUserAndDate(context.Context, int64, domain.Date) ([]domain.Workout, error) {
	return nil, nil
}

func (m *mockWorkoutRepo) SearchWorkoutsByExerciseName(ctx context.Context, userID int64, query string) ([]domain.Workout, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, userID, query)
	}
	return nil, nil
}

func (m *mockWorkoutRepo) UpdateWorkout(_ context.Context, w *domain.Workout) (*domain.Workout, error) {
	out := *w
	return &out, nil
}

func (m *mockWorkoutRepo) DeleteWorkout(context.Context, int64) (bool, error) { return false, nil }

func (m *mockWorkoutRepo) WorkoutCaloriesForDay(ctx context.Context, userID int64, day domain.Date) (float64, error) {
	if m.dayFn != nil {
		return m.dayFn(ctx, userID, day)
	}
	return 0, nil
}

func (m *mockWorkoutRepo) WorkoutCaloriesAverage(ctx context.Context, userID int64, from, to domain.Date) (float64, error) {
	if m.averageFn != nil {
		return m.averageFn(ctx, userID, from, to)
	}
	return 0, nil
}

func (m *mockWorkoutRepo) WorkoutDurationForDay(ctx context.Context, userID int64, day domain.Date) (int, error) {
	if m.durationFn != nil {
		return m.durationFn(ctx, userID, day)
	}
	return 0, nil
}

// stubTokens issues "token-<email>" and accepts only tokens it issued.
type stubTokens struct{}

func (stubTokens) CreateToken(email string) (string, error) {
	if email == "" {
		return "", errors.New("empty subject")
	}
	return "token-" + email, nil
}

func (stubTokens) ValidateToken(token string) bool {
	return len(token) > len("token-") && token[:len("token-")] == "token-"
}

func (s stubTokens) Subject(token string) (string, error) {
	if !s.ValidateToken(token) {
		return "", ErrInvalidToken
	}
	return token[len("token-"):], nil
}

func existingUser(id int64) func(context.Context, int64) (*domain.User, error) {
	return func(_ context.Context, got int64) (*domain.User, error) {
		if got != id {
			return nil, nil
		}
		return &domain.User{ID: id, Username: "alice", Email: "alice@example.com"}, nil
	}
}

func intPtr(v int) *int { return &v }
