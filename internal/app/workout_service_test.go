package app

import (
	"context"
	"errors"
	"testing"

	"mealmate/internal/domain"
)

func runInput() WorkoutInput {
	return WorkoutInput{
		ExerciseName:   "Morning Run",
		ExerciseType:   "cardio",
		Duration:       30,
		CaloriesBurned: 250,
		WorkoutDate:    domain.NewDate(2024, 1, 1),
	}
}

func TestWorkoutService_Create(t *testing.T) {
	svc := NewWorkoutService(&mockWorkoutRepo{}, &mockUserRepo{getByIDFn: existingUser(1)})
	w, err := svc.Create(context.Background(), CreateWorkoutRequest{UserID: 1, WorkoutInput: runInput()})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if w.UserName != "alice" || w.CaloriesBurned != 250 {
		t.Errorf("unexpected workout %+v", w)
	}

	if _, err := svc.Create(context.Background(), CreateWorkoutRequest{UserID: 2, WorkoutInput: runInput()}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestWorkoutService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(in *WorkoutInput)
		field string
	}{
		{"no name", func(in *WorkoutInput) { in.ExerciseName = "" }, "exerciseName"},
		{"zero duration", func(in *WorkoutInput) { in.Duration = 0 }, "duration"},
		{"intensity too high", func(in *WorkoutInput) { in.Intensity = intPtr(11) }, "intensity"},
		{"no date", func(in *WorkoutInput) { in.WorkoutDate = domain.Date{} }, "workoutDate"},
	}
	svc := NewWorkoutService(&mockWorkoutRepo{}, &mockUserRepo{getByIDFn: existingUser(1)})
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := runInput()
			tc.edit(&in)
			_, err := svc.Create(context.Background(), CreateWorkoutRequest{UserID: 1, WorkoutInput: in})
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := verr.Fields[tc.field]; !ok {
				t.Errorf("expected error on %q, got %v", tc.field, verr.Fields)
			}
		})
	}
}

func TestWorkoutService_SearchByExercise(t *testing.T) {
	var gotQuery string
	workouts := &mockWorkoutRepo{
		searchFn: func(_ context.Context, _ int64, q string) ([]domain.Workout, error) {
			gotQuery = q
			return []domain.Workout{{ID: 1, ExerciseName: "Morning Run"}}, nil
		},
	}
	svc := NewWorkoutService(workouts, &mockUserRepo{getByIDFn: existingUser(1)})

	out, err := svc.SearchByExercise(context.Background(), 1, " run ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if gotQuery != "run" || len(out) != 1 {
		t.Errorf("unexpected search %q -> %v", gotQuery, out)
	}
	if _, err := svc.SearchByExercise(context.Background(), 1, ""); err == nil {
		t.Error("expected error for empty query")
	}
}

func TestWorkoutService_Aggregates(t *testing.T) {
	workouts := &mockWorkoutRepo{
		dayFn:      func(context.Context, int64, domain.Date) (float64, error) { return 400, nil },
		durationFn: func(context.Context, int64, domain.Date) (int, error) { return 45, nil },
	}
	svc := NewWorkoutService(workouts, &mockUserRepo{getByIDFn: existingUser(1)})
	ctx := context.Background()
	day := domain.NewDate(2024, 1, 1)

	if kcal, err := svc.TotalCaloriesBurned(ctx, 1, day); err != nil || kcal != 400 {
		t.Errorf("expected 400, got %v (%v)", kcal, err)
	}
	if mins, err := svc.TotalDuration(ctx, 1, day); err != nil || mins != 45 {
		t.Errorf("expected 45, got %v (%v)", mins, err)
	}
	if _, err := svc.TotalDuration(ctx, 9, day); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
