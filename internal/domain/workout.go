package domain

import (
	"context"
	"time"
)

// Workout is a single exercise session owned by one user.
type Workout struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"userId"`
	UserName       string    `json:"userName"`
	ExerciseName   string    `json:"exerciseName"`
	ExerciseType   string    `json:"exerciseType"`
	Duration       int       `json:"duration"`
	CaloriesBurned int       `json:"caloriesBurned"`
	Distance       *float64  `json:"distance"`
	Sets           *int      `json:"sets"`
	Reps           *int      `json:"reps"`
	Weight         *float64  `json:"weight"`
	Intensity      *int      `json:"intensity"`
	WorkoutDate    Date      `json:"workoutDate"`
	WorkoutTime    *DateTime `json:"workoutTime"`
	Memo           string    `json:"memo"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// WorkoutRepository is the port for workout persistence.
type WorkoutRepository interface {
	CreateWorkout(ctx context.Context, w *Workout) (*Workout, error)
	GetWorkout(ctx context.Context, id int64) (*Workout, error)
	ListWorkouts(ctx context.Context) ([]Workout, error)
	ListWorkoutsByUser(ctx context.Context, userID int64) ([]Workout, error)
	ListWorkoutsByDate(ctx context.Context, day Date) ([]Workout, error)
	ListWorkoutsByUserAndDate(ctx context.Context, userID int64, day Date) ([]Workout, error)
	// SearchWorkoutsByExerciseName matches a case-insensitive substring of
	// the exercise name.
	SearchWorkoutsByExerciseName(ctx context.Context, userID int64, query string) ([]Workout, error)
	UpdateWorkout(ctx context.Context, w *Workout) (*Workout, error)
	DeleteWorkout(ctx context.Context, id int64) (bool, error)
	WorkoutCaloriesForDay(ctx context.Context, userID int64, day Date) (float64, error)
	WorkoutCaloriesAverage(ctx context.Context, userID int64, from, to Date) (float64, error)
	WorkoutDurationForDay(ctx context.Context, userID int64, day Date) (int, error)
}
