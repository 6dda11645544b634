package memory

import (
	"context"
	"errors"
	"testing"

	"mealmate/internal/domain"
)

func seedUser(t *testing.T, db *DB, name string) *domain.User {
	t.Helper()
	u, err := db.CreateUser(context.Background(), &domain.User{Username: name, Email: name + "@example.com", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return u
}

func TestUserRepository(t *testing.T) {
	db := New()
	ctx := context.Background()

	u := seedUser(t, db, "alice")
	if u.ID == 0 || u.CreatedAt.IsZero() {
		t.Errorf("expected id and timestamps, got %+v", u)
	}

	// Uniqueness
	if _, err := db.CreateUser(ctx, &domain.User{Username: "alice", Email: "other@example.com"}); !errors.Is(err, domain.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for username, got %v", err)
	}
	if _, err := db.CreateUser(ctx, &domain.User{Username: "other", Email: "alice@example.com"}); !errors.Is(err, domain.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate for email, got %v", err)
	}

	// Lookups
	for _, login := range []string{"alice", "alice@example.com"} {
		got, err := db.GetUserByLogin(ctx, login)
		if err != nil || got == nil || got.ID != u.ID {
			t.Errorf("GetUserByLogin(%q) = %v, %v", login, got, err)
		}
	}
	if got, _ := db.GetUserByID(ctx, 999); got != nil {
		t.Error("expected nil for unknown id")
	}
	if ok, _ := db.EmailExists(ctx, "alice@example.com"); !ok {
		t.Error("expected email to exist")
	}
	if ok, _ := db.UsernameExists(ctx, "bob"); ok {
		t.Error("expected username bob to be free")
	}

	// Update
	u.Nickname = "al"
	updated, err := db.UpdateUser(ctx, u)
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.Nickname != "al" || !updated.CreatedAt.Equal(u.CreatedAt) {
		t.Errorf("unexpected update %+v", updated)
	}
	if got, _ := db.UpdateUser(ctx, &domain.User{ID: 999}); got != nil {
		t.Error("expected nil when updating unknown user")
	}
}

func TestGetUserByLoginPrefersOldest(t *testing.T) {
	db := New()
	ctx := context.Background()

	first, err := db.CreateUser(ctx, &domain.User{Username: "shared@example.com", Email: "first@example.com"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := db.CreateUser(ctx, &domain.User{Username: "second", Email: "shared@example.com"}); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	for i := 0; i < 20; i++ {
		got, err := db.GetUserByLogin(ctx, "shared@example.com")
		if err != nil || got == nil || got.ID != first.ID {
			t.Fatalf("GetUserByLogin = %v, %v; want id %d", got, err, first.ID)
		}
	}
}

func TestMealRepository(t *testing.T) {
	db := New()
	ctx := context.Background()
	u := seedUser(t, db, "alice")
	day := domain.NewDate(2024, 1, 1)

	early, _ := domain.ParseDateTime("2024-01-01T08:00:00Z")
	late, _ := domain.ParseDateTime("2024-01-01T19:00:00Z")
	inputs := []domain.Meal{
		{UserID: u.ID, FoodName: "Rice", Calories: 300, MealDate: day},
		{UserID: u.ID, FoodName: "Eggs", Calories: 200, MealDate: day, MealTime: &early},
		{UserID: u.ID, FoodName: "Soup", Calories: 100, MealDate: day, MealTime: &late},
		{UserID: u.ID, FoodName: "Cake", Calories: 500, MealDate: domain.NewDate(2024, 1, 3)},
	}
	for i := range inputs {
		if _, err := db.CreateMeal(ctx, &inputs[i]); err != nil {
			t.Fatalf("CreateMeal: %v", err)
		}
	}

	if _, err := db.CreateMeal(ctx, &domain.Meal{UserID: 999, FoodName: "x"}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown user, got %v", err)
	}

	meals, _ := db.ListMealsByUserAndDate(ctx, u.ID, day)
	if len(meals) != 3 {
		t.Fatalf("expected 3 meals on day, got %d", len(meals))
	}
	if meals[0].FoodName != "Soup" || meals[1].FoodName != "Eggs" || meals[2].FoodName != "Rice" {
		t.Errorf("unexpected order %s, %s, %s", meals[0].FoodName, meals[1].FoodName, meals[2].FoodName)
	}
	if meals[0].UserName != "alice" {
		t.Errorf("expected userName alice, got %q", meals[0].UserName)
	}

	total, _ := db.MealCaloriesForDay(ctx, u.ID, day)
	if total != 600 {
		t.Errorf("expected 600 kcal, got %v", total)
	}
	avg, _ := db.MealCaloriesAverage(ctx, u.ID, day, domain.NewDate(2024, 1, 3))
	if avg != 275 {
		t.Errorf("expected average 275, got %v", avg)
	}
	avg, _ = db.MealCaloriesAverage(ctx, u.ID, domain.NewDate(2023, 1, 1), domain.NewDate(2023, 1, 2))
	if avg != 0 {
		t.Errorf("expected 0 for empty range, got %v", avg)
	}

	// Update keeps the owner
	m := meals[2]
	m.UserID = 999
	m.Calories = 350
	updated, err := db.UpdateMeal(ctx, &m)
	if err != nil || updated == nil {
		t.Fatalf("UpdateMeal: %v", err)
	}
	if updated.UserID != u.ID || updated.Calories != 350 {
		t.Errorf("unexpected update %+v", updated)
	}

	ok, _ := db.DeleteMeal(ctx, m.ID)
	if !ok {
		t.Error("expected delete to succeed")
	}
	if ok, _ := db.DeleteMeal(ctx, m.ID); ok {
		t.Error("second delete should report false")
	}
}

func TestWorkoutRepository(t *testing.T) {
	db := New()
	ctx := context.Background()
	u := seedUser(t, db, "alice")
	other := seedUser(t, db, "bob")
	day := domain.NewDate(2024, 1, 1)

	for _, w := range []domain.Workout{
		{UserID: u.ID, ExerciseName: "Morning Run", Duration: 30, CaloriesBurned: 250, WorkoutDate: day},
		{UserID: u.ID, ExerciseName: "Bench Press", Duration: 20, CaloriesBurned: 150, WorkoutDate: day},
		{UserID: other.ID, ExerciseName: "Trail RUN", Duration: 60, CaloriesBurned: 600, WorkoutDate: day},
	} {
		w := w
		if _, err := db.CreateWorkout(ctx, &w); err != nil {
			t.Fatalf("CreateWorkout: %v", err)
		}
	}

	found, _ := db.SearchWorkoutsByExerciseName(ctx, u.ID, "RUN")
	if len(found) != 1 || found[0].ExerciseName != "Morning Run" {
		t.Errorf("unexpected search result %+v", found)
	}

	kcal, _ := db.WorkoutCaloriesForDay(ctx, u.ID, day)
	mins, _ := db.WorkoutDurationForDay(ctx, u.ID, day)
	if kcal != 400 || mins != 50 {
		t.Errorf("expected 400 kcal / 50 min, got %v / %v", kcal, mins)
	}
	avg, _ := db.WorkoutCaloriesAverage(ctx, u.ID, day, day)
	if avg != 200 {
		t.Errorf("expected average 200, got %v", avg)
	}

	all, _ := db.ListWorkoutsByDate(ctx, day)
	if len(all) != 3 {
		t.Errorf("expected 3 workouts on day, got %d", len(all))
	}
}

func TestDeleteUserCascades(t *testing.T) {
	db := New()
	ctx := context.Background()
	u := seedUser(t, db, "alice")
	keep := seedUser(t, db, "bob")
	day := domain.NewDate(2024, 1, 1)

	db.CreateMeal(ctx, &domain.Meal{UserID: u.ID, FoodName: "Rice", Calories: 300, MealDate: day})
	db.CreateMeal(ctx, &domain.Meal{UserID: keep.ID, FoodName: "Rice", Calories: 300, MealDate: day})
	db.CreateWorkout(ctx, &domain.Workout{UserID: u.ID, ExerciseName: "Run", WorkoutDate: day})

	ok, err := db.DeleteUser(ctx, u.ID)
	if err != nil || !ok {
		t.Fatalf("DeleteUser: %v, %v", ok, err)
	}
	meals, _ := db.ListMeals(ctx)
	if len(meals) != 1 || meals[0].UserID != keep.ID {
		t.Errorf("expected only bob's meal to remain, got %+v", meals)
	}
	workouts, _ := db.ListWorkouts(ctx)
	if len(workouts) != 0 {
		t.Errorf("expected workouts to be deleted, got %d", len(workouts))
	}
	if ok, _ := db.DeleteUser(ctx, u.ID); ok {
		t.Error("second delete should report false")
	}
}
