package app

import (
	"context"
	"fmt"
	"strings"

	"mealmate/internal/domain"
	"mealmate/internal/logger"
)

// WorkoutInput holds every writable workout field. Updates overwrite all of
// them.
type WorkoutInput struct {
	ExerciseName   string           `json:"exerciseName" validate:"required,max=100"`
	ExerciseType   string           `json:"exerciseType" validate:"required,max=50"`
	Duration       int              `json:"duration" validate:"required,gt=0"`
	CaloriesBurned int              `json:"caloriesBurned" validate:"required,gt=0"`
	Distance       *float64         `json:"distance" validate:"omitempty,gte=0"`
	Sets           *int             `json:"sets" validate:"omitempty,gt=0"`
	Reps           *int             `json:"reps" validate:"omitempty,gt=0"`
	Weight         *float64         `json:"weight" validate:"omitempty,gte=0"`
	Intensity      *int             `json:"intensity" validate:"omitempty,gte=1,lte=10"`
	WorkoutDate    domain.Date      `json:"workoutDate"`
	WorkoutTime    *domain.DateTime `json:"workoutTime"`
	Memo           string           `json:"memo" validate:"max=500"`
}

// CreateWorkoutRequest is the body of a workout creation call.
type CreateWorkoutRequest struct {
	UserID int64 `json:"userId" validate:"required,gt=0"`
	WorkoutInput
}

// WorkoutService encapsulates workout-tracking use cases.
type WorkoutService struct {
	workouts domain.WorkoutRepository
	users    domain.UserRepository
}

// NewWorkoutService creates a WorkoutService backed by the given repositories.
func NewWorkoutService(workouts domain.WorkoutRepository, users domain.UserRepository) *WorkoutService {
	return &WorkoutService{workouts: workouts, users: users}
}

func (in *WorkoutInput) validate() error {
	in.ExerciseName = strings.TrimSpace(in.ExerciseName)
	in.ExerciseType = strings.TrimSpace(in.ExerciseType)
	verr, err := check(in)
	if err != nil {
		return err
	}
	if in.WorkoutDate.IsZero() {
		if in.WorkoutTime != nil {
			in.WorkoutDate = in.WorkoutTime.Date()
		} else {
			verr.add("workoutDate", "is required")
		}
	}
	return verr.orNil()
}

func (in *WorkoutInput) apply(w *domain.Workout) {
	w.ExerciseName = in.ExerciseName
	w.ExerciseType = in.ExerciseType
	w.Duration = in.Duration
	w.CaloriesBurned = in.CaloriesBurned
	w.Distance = in.Distance
	w.Sets = in.Sets
	w.Reps = in.Reps
	w.Weight = in.Weight
	w.Intensity = in.Intensity
	w.WorkoutDate = in.WorkoutDate
	w.WorkoutTime = in.WorkoutTime
	w.Memo = in.Memo
}

// Create validates and stores a workout for an existing user.
func (s *WorkoutService) Create(ctx context.Context, req CreateWorkoutRequest) (*domain.Workout, error) {
	verr, err := check(req)
	if err != nil {
		return nil, err
	}
	if err := verr.merge(req.WorkoutInput.validate()); err != nil {
		return nil, err
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	user, err := requireUser(ctx, s.users, req.UserID)
	if err != nil {
		return nil, err
	}
	w := &domain.Workout{UserID: user.ID, UserName: user.Username}
	req.WorkoutInput.apply(w)
	created, err := s.workouts.CreateWorkout(ctx, w)
	if err != nil {
		return nil, err
	}
	logger.Info("workout %d created for user %d", created.ID, user.ID)
	return created, nil
}

// Get returns the workout with the given id.
func (s *WorkoutService) Get(ctx context.Context, id int64) (*domain.Workout, error) {
	w, err := s.workouts.GetWorkout(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, fmt.Errorf("workout %d: %w", id, domain.ErrNotFound)
	}
	return w, nil
}

// List returns every workout.
func (s *WorkoutService) List(ctx context.Context) ([]domain.Workout, error) {
	return s.workouts.ListWorkouts(ctx)
}

// ListByUser returns the workouts of an existing user.
func (s *WorkoutService) ListByUser(ctx context.Context, userID int64) ([]domain.Workout, error) {
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	return s.workouts.ListWorkoutsByUser(ctx, userID)
}

// ListByDate returns every user's workouts on day.
func (s *WorkoutService) ListByDate(ctx context.Context, day domain.Date) ([]domain.Workout, error) {
	return s.workouts.ListWorkoutsByDate(ctx, day)
}

// ListByUserAndDate returns one user's workouts on day.
func (s *WorkoutService) ListByUserAndDate(ctx context.Context, userID int64, day domain.Date) ([]domain.Workout, error) {
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	return s.workouts.ListWorkoutsByUserAndDate(ctx, userID, day)
}

// SearchByExercise returns a user's workouts whose exercise name contains
// query, ignoring case.
func (s *WorkoutService) SearchByExercise(ctx context.Context, userID int64, query string) ([]domain.Workout, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fieldError("workoutType", "is required")
	}
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return nil, err
	}
	return s.workouts.SearchWorkoutsByExerciseName(ctx, userID, query)
}

// Update overwrites every writable field of workout id.
func (s *WorkoutService) Update(ctx context.Context, id int64, in WorkoutInput) (*domain.Workout, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	w, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	in.apply(w)
	updated, err := s.workouts.UpdateWorkout(ctx, w)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("workout %d: %w", id, domain.ErrNotFound)
	}
	logger.Info("workout %d updated", id)
	return updated, nil
}

// Delete removes workout id.
func (s *WorkoutService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.workouts.DeleteWorkout(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("workout %d: %w", id, domain.ErrNotFound)
	}
	logger.Info("workout %d deleted", id)
	return nil
}

// TotalCaloriesBurned sums the calories a user burned on day.
func (s *WorkoutService) TotalCaloriesBurned(ctx context.Context, userID int64, day domain.Date) (float64, error) {
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return 0, err
	}
	return s.workouts.WorkoutCaloriesForDay(ctx, userID, day)
}

// AverageCaloriesBurned averages burned calories per workout over
// [from, to]. An empty range yields 0.
func (s *WorkoutService) AverageCaloriesBurned(ctx context.Context, userID int64, from, to domain.Date) (float64, error) {
	if err := checkRange(from, to); err != nil {
		return 0, err
	}
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return 0, err
	}
	return s.workouts.WorkoutCaloriesAverage(ctx, userID, from, to)
}

// TotalDuration sums the minutes a user exercised on day.
func (s *WorkoutService) TotalDuration(ctx context.Context, userID int64, day domain.Date) (int, error) {
	if _, err := requireUser(ctx, s.users, userID); err != nil {
		return 0, err
	}
	return s.workouts.WorkoutDurationForDay(ctx, userID, day)
}
