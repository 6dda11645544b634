package domain

import (
	"context"
	"time"
)

// Meal is a single food intake record owned by one user.
type Meal struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	UserName  string    `json:"userName"`
	FoodName  string    `json:"foodName"`
	Calories  int       `json:"calories"`
	Protein   *float64  `json:"protein"`
	Carbs     *float64  `json:"carbs"`
	Fat       *float64  `json:"fat"`
	Fiber     *float64  `json:"fiber"`
	Sugar     *float64  `json:"sugar"`
	Sodium    *float64  `json:"sodium"`
	Quantity  int       `json:"quantity"`
	Unit      string    `json:"unit"`
	MealType  string    `json:"mealType"`
	MealDate  Date      `json:"mealDate"`
	MealTime  *DateTime `json:"mealTime"`
	Memo      string    `json:"memo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// MealRepository is the port for meal persistence.
type MealRepository interface {
	CreateMeal(ctx context.Context, m *Meal) (*Meal, error)
	GetMeal(ctx context.Context, id int64) (*Meal, error)
	ListMeals(ctx context.Context) ([]Meal, error)
	ListMealsByUser(ctx context.Context, userID int64) ([]Meal, error)
	ListMealsByDate(ctx context.Context, day Date) ([]Meal, error)
	ListMealsByUserAndDate(ctx context.Context, userID int64, day Date) ([]Meal, error)
	UpdateMeal(ctx context.Context, m *Meal) (*Meal, error)
	DeleteMeal(ctx context.Context, id int64) (bool, error)
	MealCaloriesForDay(ctx context.Context, userID int64, day Date) (float64, error)
	// MealCaloriesAverage averages calories over meals dated within
	// [from, to]; it returns 0 when there are none.
	MealCaloriesAverage(ctx context.Context, userID int64, from, to Date) (float64, error)
}
