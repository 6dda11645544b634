package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"

	"mealmate/internal/domain"
	"mealmate/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest is the body of a registration call.
type RegisterRequest struct {
	Username         string   `json:"username" validate:"required,max=50"`
	Email            string   `json:"email" validate:"required,email,max=100"`
	Password         string   `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirm  string   `json:"passwordConfirm" validate:"omitempty,eqfield=Password"`
	Nickname         string   `json:"nickname" validate:"max=30"`
	Age              *int     `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender           string   `json:"gender" validate:"max=10"`
	Height           *float64 `json:"height" validate:"omitempty,gt=0"`
	Weight           *float64 `json:"weight" validate:"omitempty,gt=0"`
	TargetWeight     *float64 `json:"targetWeight" validate:"omitempty,gt=0"`
	ActivityLevel    string   `json:"activityLevel" validate:"max=20"`
	DailyCalorieGoal *int     `json:"dailyCalorieGoal" validate:"omitempty,gt=0"`
}

// LoginRequest is the body of a login call.
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
}

// UpdateUserRequest overwrites every mutable profile field. A blank email
// keeps the current one.
type UpdateUserRequest struct {
	Email            string   `json:"email" validate:"omitempty,email,max=100"`
	Nickname         string   `json:"nickname" validate:"max=30"`
	Age              *int     `json:"age" validate:"omitempty,gte=0,lte=150"`
	Gender           string   `json:"gender" validate:"max=10"`
	Height           *float64 `json:"height" validate:"omitempty,gt=0"`
	Weight           *float64 `json:"weight" validate:"omitempty,gt=0"`
	TargetWeight     *float64 `json:"targetWeight" validate:"omitempty,gt=0"`
	ActivityLevel    string   `json:"activityLevel" validate:"max=20"`
	DailyCalorieGoal *int     `json:"dailyCalorieGoal" validate:"omitempty,gt=0"`
}

// UserResponse is a user as returned by the API, carrying a token after
// registration or login.
type UserResponse struct {
	domain.User
	Token string `json:"token,omitempty"`
}

// UserService handles registration, authentication and profile management.
type UserService struct {
	repo     domain.UserRepository
	tokens   TokenProvider
	hashCost int
}

// NewUserService creates a UserService backed by the given repository and
// token provider.
func NewUserService(repo domain.UserRepository, tokens TokenProvider) *UserService {
	return &UserService{repo: repo, tokens: tokens, hashCost: bcrypt.DefaultCost}
}

// Register creates a user with a hashed password and returns it with a
// fresh token.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)
	verr, err := check(req)
	if err != nil {
		return nil, err
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	exists, err := s.repo.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("email %s: %w", req.Email, domain.ErrDuplicate)
	}
	exists, err = s.repo.UsernameExists(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("username %s: %w", req.Username, domain.ErrDuplicate)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.CreateUser(ctx, &domain.User{
		Username:         req.Username,
		Email:            req.Email,
		PasswordHash:     string(hash),
		Nickname:         req.Nickname,
		Age:              req.Age,
		Gender:           req.Gender,
		Height:           req.Height,
		Weight:           req.Weight,
		TargetWeight:     req.TargetWeight,
		ActivityLevel:    req.ActivityLevel,
		DailyCalorieGoal: req.DailyCalorieGoal,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("user %d registered (%s)", user.ID, user.Email)
	return s.withToken(user)
}

// Login checks credentials for a username or email and issues a token.
func (s *UserService) Login(ctx context.Context, req LoginRequest) (*UserResponse, error) {
	req.UsernameOrEmail = strings.TrimSpace(req.UsernameOrEmail)
	verr, err := check(req)
	if err != nil {
		return nil, err
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByLogin(ctx, req.UsernameOrEmail)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", req.UsernameOrEmail, domain.ErrNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	logger.Info("user %d logged in", user.ID)
	return s.withToken(user)
}

// LoginWithEmail issues a token for an identity already verified elsewhere
// (e.g. via SSO), provisioning an account on first use.
func (s *UserService) LoginWithEmail(ctx context.Context, email string) (*UserResponse, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fieldError("email", "is required")
	}
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(secret), s.hashCost)
		if err != nil {
			return nil, err
		}
		user, err = s.repo.CreateUser(ctx, &domain.User{Username: email, Email: email, PasswordHash: string(hash)})
		if err != nil {
			return nil, err
		}
		logger.Info("user %d provisioned from sso (%s)", user.ID, email)
	}
	return s.withToken(user)
}

// Get returns the user with the given id.
func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	return user, nil
}

// GetByEmail returns the user registered under email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
	}
	return user, nil
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListUsers(ctx)
}

// Update overwrites the profile of user id.
func (s *UserService) Update(ctx context.Context, id int64, req UpdateUserRequest) (*domain.User, error) {
	req.Email = strings.TrimSpace(req.Email)
	verr, err := check(req)
	if err != nil {
		return nil, err
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Email != "" && req.Email != user.Email {
		exists, err := s.repo.EmailExists(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("email %s: %w", req.Email, domain.ErrDuplicate)
		}
		user.Email = req.Email
	}
	user.Nickname = req.Nickname
	user.Age = req.Age
	user.Gender = req.Gender
	user.Height = req.Height
	user.Weight = req.Weight
	user.TargetWeight = req.TargetWeight
	user.ActivityLevel = req.ActivityLevel
	user.DailyCalorieGoal = req.DailyCalorieGoal

	updated, err := s.repo.UpdateUser(ctx, user)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	logger.Info("user %d updated", id)
	return updated, nil
}

// Delete removes user id together with its meals and workouts.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.DeleteUser(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("user %d: %w", id, domain.ErrNotFound)
	}
	logger.Info("user %d deleted", id)
	return nil
}

// EmailExists reports whether email is already registered.
func (s *UserService) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.repo.EmailExists(ctx, strings.TrimSpace(email))
}

// CheckToken reports whether token is valid and, if so, its email.
func (s *UserService) CheckToken(token string) (string, bool) {
	if !s.tokens.ValidateToken(token) {
		return "", false
	}
	email, err := s.tokens.Subject(token)
	if err != nil {
		return "", false
	}
	return email, true
}

// UserFromToken resolves the user named by a valid token's subject.
func (s *UserService) UserFromToken(ctx context.Context, token string) (*domain.User, error) {
	email, ok := s.CheckToken(token)
	if !ok {
		return nil, ErrInvalidToken
	}
	return s.GetByEmail(ctx, email)
}

// UpdateProfile overwrites the profile of the user named by token.
func (s *UserService) UpdateProfile(ctx context.Context, token string, req UpdateUserRequest) (*domain.User, error) {
	user, err := s.UserFromToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.Update(ctx, user.ID, req)
}

func (s *UserService) withToken(user *domain.User) (*UserResponse, error) {
	token, err := s.tokens.CreateToken(user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &UserResponse{User: *user, Token: token}, nil
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
