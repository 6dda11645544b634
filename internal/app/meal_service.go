package app

import (
	"context"
	"fmt"
	"strings"

	"mealmate/internal/domain"
	"mealmate/internal/logger"
)

// MealInput holds every writable meal field. Updates overwrite all of them.
type MealInput struct {
	FoodName string           `json:"foodName" validate:"required,max=100"`
	Calories int              `json:"calories" validate:"required,gt=0"`
	Protein  *float64         `json:"protein" validate:"omitempty,gte=0"`
	Carbs    *float64         `json:"carbs" validate:"omitempty,gte=0"`
	Fat      *float64         `json:"fat" validate:"omitempty,gte=0"`
	Fiber    *float64         `json:"fiber" validate:"omitempty,gte=0"`
	Sugar    *float64         `json:"sugar" validate:"omitempty,gte=0"`
	Sodium   *float64         `json:"sodium" validate:"omitempty,gte=0"`
	Quantity int              `json:"quantity" validate:"required,gt=0"`
	Unit     string           `json:"unit" validate:"max=20"`
	MealType string           `json:"mealType" validate:"required,max=20"`
	MealDate domain.Date      `json:"mealDate"`
	MealTime *domain.DateTime `json:"mealTime"`
	Memo     string           `json:"memo" validate:"max=500"`
}

// CreateMealRequest is the body of a meal creation call.
type CreateMealRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
	MealInput
}

// MealService encapsulates meal-tracking use cases.
type MealService struct {
	meals domain.MealRepository
	users domain.UserRepository
}

// NewMealService creates a MealService backed by the given repositories.
func NewMealService(meals domain.MealRepository, users domain.UserRepository) *MealService {
	return &MealService{meals: meals, users: users}
}

func (in *MealInput) validate() error {
	in.FoodName = strings.TrimSpace(in.FoodName)
	in.MealType = strings.TrimSpace(in.MealType)
	verr, err := check(in)
	if err != nil {
		return err
	}
	if in.MealDate.IsZero() {
		if in.MealTime != nil {
			in.MealDate = in.MealTime.Date()
		} else {
			verr.add("mealDate", "is required")
		}
	}
	return verr.orNil()
}

func (in *MealInput) apply(m *domain.Meal) {
	m.FoodName = in.FoodName
	m.Calories = in.Calories
	m.Protein = in.Protein
	m.Carbs = in.Carbs
	m.Fat = in.Fat
	m.Fiber = in.Fiber
	m.Sugar = in.Sugar
	m.Sodium = in.Sodium
	m.Quantity = in.Quantity
	m.Unit = in.Unit
	m.MealType = in.MealType
	m.MealDate = in.MealDate
	m.MealTime = in.MealTime
	m.Memo = in.Memo
}

// Create validates and stores a meal for an existing user.
func (s *MealService) Create(ctx context.Context, req CreateMealRequest) (*domain.Meal, error) {
	verr, err := check(req)
	if err != nil {
		return nil, err
	}
	if err := verr.merge(req.MealInput.validate()); err != nil {
		return nil, err
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	user, err := requireUser(ctx, s.users, req.UserID)
	if err != nil {
		return nil, err
	}
	m := &domain.Meal{UserID: user.ID, UserName: user.Username}
	req.MealInput.apply(m)
	created, err := s.meals.CreateMeal(ctx, m)
	if err != nil {
		return nil, err
	}
	logger.Info("meal %d created for user %d", created.ID, user.ID)
	return created, nil
}

// Get returns the meal with the given id.
func (s *MealService) Get(ctx context.Context, id int64) (*domain.Meal, error) {
	m, err := s.meals.GetMeal(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("meal %d: %w", id, domain.ErrNotFound)
	}
	return m, nil
}

// List returns every meal.
func (s *MealService) List(ctx context.Context) ([]domain.Meal, error) {
	return s.meals.ListMeals(ctx)
}

// ListByUser returns the meals of an existing user.
func (s *MealService) ListByUser(ctx context.Context, userID int64) ([]domain.Meal, error) {
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	return s.meals.ListMealsByUser(ctx, userID)
}

// ListByDate returns every user's meals on day.
func (s *MealService) ListByDate(ctx context.Context, day domain.Date) ([]domain.Meal, error) {
	return s.meals.ListMealsByDate(ctx, day)
}

// ListByUserAndDate returns one user's meals on day.
func (s *MealService) ListByUserAndDate(ctx context.Context, userID int64, day domain.Date) ([]domain.Meal, error) {
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	return s.meals.ListMealsByUserAndDate(ctx, userID, day)
}

// Update overwrites every writable field of meal id.
func (s *MealService) Update(ctx context.Context, id int64, in MealInput) (*domain.Meal, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(m)
	updated, err := s.meals.UpdateMeal(ctx, m)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("meal %d: %w", id, domain.ErrNotFound)
	}
	logger.Info("meal %d updated", id)
	return updated, nil
}

// Delete removes meal id.
func (s *MealService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.meals.DeleteMeal(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("meal %d: %w", id, domain.ErrNotFound)
	}
	logger.Info("meal %d deleted", id)
	return nil
}

// TotalCalories sums the calories a user ate on day.
func (s *MealService) TotalCalories(ctx context.Context, userID int64, day domain.Date) (float64, error) {
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return 0, err
	}
	return s.meals.MealCaloriesForDay(ctx, userID, day)
}

// AverageCalories averages calories per meal over [from, to]. An empty
// range yields 0.
func (s *MealService) AverageCalories(ctx context.Context, userID int64, from, to domain.Date) (float64, error) {
	if err := checkRange(from, to); err != nil {
		return 0, err
	}
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return 0, err
	}
	return s.meals.MealCaloriesAverage(ctx, userID, from, to)
}

func requireUser(ctx context.Context, users domain.UserRepository, id int64) (*domain.User, error) {
	u, err := users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return u, nil
}

func checkRange(from, to domain.Date) error {
	verr := &ValidationError{}
	if from.IsZero() {
		verr.add("startDate", "is required")
	}
	if to.IsZero() {
		verr.add("endDate", "is required")
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		verr.add("endDate", "must not be before startDate")
	}
	return verr.orNil()
}
