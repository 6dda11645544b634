package app

import (
	"context"
	"time"

	"mealmate/internal/domain"
)

// maxSummaryDays bounds the window of a daily summary.
const maxSummaryDays = 366

// SummaryService builds per-day energy balance reports from meals and
// workouts.
type SummaryService struct {
	users    domain.UserRepository
	meals    domain.MealRepository
	workouts domain.WorkoutRepository
	now      func() time.Time
}

// NewSummaryService creates a SummaryService backed by the given repositories.
func NewSummaryService(users domain.UserRepository, meals domain.MealRepository, workouts domain.WorkoutRepository) *SummaryService {
	return &SummaryService{users: users, meals: meals, workouts: workouts, now: time.Now}
}

// DaySummary is a single day returned by Daily.
type DaySummary struct {
	Day             domain.Date `json:"day"`
	CaloriesIn      float64     `json:"caloriesIn"`
	CaloriesBurned  float64     `json:"caloriesBurned"`
	DurationMinutes int         `json:"durationMinutes"`
	NetCalories     float64     `json:"netCalories"`
	// Remaining is the user's daily goal minus net calories, or nil when no
	// goal is set.
	Remaining *float64 `json:"remaining"`
}

// Daily returns one summary per day for the last days days, oldest first and
// ending today.
func (s *SummaryService) Daily(ctx context.Context, userID int64, days int) ([]DaySummary, error) {
	if days < 1 {
		return nil, fieldError("days", "must be at least 1")
	}
	if days > maxSummaryDays {
		days = maxSummaryDays
	}
	user, err := requireUser(ctx, s.users, userID)
	if err != nil {
		return nil, err
	}

	today := s.now().In(time.Local)
	out := make([]DaySummary, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := domain.DateOf(today.AddDate(0, 0, -i))

		in, err := s.meals.MealCaloriesForDay(ctx, userID, day)
		if err != nil {
			return nil, err
		}
		burned, err := s.workouts.WorkoutCaloriesForDay(ctx, userID, day)
		if err != nil {
			return nil, err
		}
		minutes, err := s.workouts.WorkoutDurationForDay(ctx, userID, day)
		if err != nil {
			return nil, err
		}

		sum := DaySummary{
			Day:             day,
			CaloriesIn:      in,
			CaloriesBurned:  burned,
			DurationMinutes: minutes,
			NetCalories:     in - burned,
		}
		if user.DailyCalorieGoal != nil {
			r := float64(*user.DailyCalorieGoal) - sum.NetCalories
			sum.Remaining = &r
		}
		out = append(out, sum)
	}
	return out, nil
}
