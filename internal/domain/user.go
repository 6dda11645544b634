// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// User is a registered account together with its health profile.
type User struct {
	ID               int64     `json:"id"`
	Username         string    `json:"username"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Nickname         string    `json:"nickname"`
	Age              *int      `json:"age"`
	Gender           string    `json:"gender"`
	Height           *float64  `json:"height"`
	Weight           *float64  `json:"weight"`
	TargetWeight     *float64  `json:"targetWeight"`
	ActivityLevel    string    `json:"activityLevel"`
	DailyCalorieGoal *int      `json:"dailyCalorieGoal"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// UserRepository defines the port for user persistence operations.
// Lookups return (nil, nil) when no row matches.
type UserRepository interface {
	CreateUser(ctx context.Context, u *User) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByLogin(ctx context.Context, usernameOrEmail string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, u *User) (*User, error)
	// DeleteUser removes the user and every meal and workout it owns.
	DeleteUser(ctx context.Context, id int64) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
}
