package adapthttp

import (
	"net/http"
	"strings"

	"mealmate/internal/app"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// Options configures the optional parts of the HTTP surface.
type Options struct {
	// WebDir, when set, is served as a single-page frontend at "/".
	WebDir      string
	CORSOrigins []string
	OIDC        OIDCConfig
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	users    *app.UserService
	meals    *app.MealService
	workouts *app.WorkoutService
	summary  *app.SummaryService
	opts     Options
}

// New creates a Server wired to the given application services.
func New(us *app.UserService, ms *app.MealService, ws *app.WorkoutService, ss *app.SummaryService, opts Options) *Server {
	return &Server{users: us, meals: ms, workouts: ws, summary: ss, opts: opts}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	root := mux.NewRouter()
	root.NotFoundHandler = s.notFound()
	root.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)
	api := func(path string, h http.HandlerFunc, method string) {
		root.HandleFunc("/api"+path, h).Methods(method)
	}

	api("/health", s.handleHealth, http.MethodGet)

	// Users. Literal segments are registered before {id}.
	api("/users/register", s.handleRegister, http.MethodPost)
	api("/users/login", s.handleLogin, http.MethodPost)
	api("/users/check-email", s.handleCheckEmail, http.MethodGet)
	api("/users/token/validate", s.handleValidateToken, http.MethodGet)
	api("/users/email/{email}", s.handleUserByEmail, http.MethodGet)
	api("/users", s.handleListUsers, http.MethodGet)
	api("/users/{id:[0-9]+}", s.handleGetUser, http.MethodGet)
	api("/users/{id:[0-9]+}", s.handleUpdateUser, http.MethodPut)
	api("/users/{id:[0-9]+}", s.handleDeleteUser, http.MethodDelete)
	api("/users/{id:[0-9]+}/summary", s.handleSummary, http.MethodGet)
	api("/user/profile", s.handleGetProfile, http.MethodGet)
	api("/user/profile", s.handleUpdateProfile, http.MethodPut)

	// Meals
	api("/meals", s.handleCreateMeal, http.MethodPost)
	api("/meals", s.handleListMeals, http.MethodGet)
	api("/meals/{id:[0-9]+}", s.handleGetMeal, http.MethodGet)
	api("/meals/{id:[0-9]+}", s.handleUpdateMeal, http.MethodPut)
	api("/meals/{id:[0-9]+}", s.handleDeleteMeal, http.MethodDelete)
	api("/meals/user/{userId:[0-9]+}", s.handleMealsByUser, http.MethodGet)
	api("/meals/date/{date}", s.handleMealsByDate, http.MethodGet)
	api("/meals/user/{userId:[0-9]+}/date/{date}", s.handleMealsByUserAndDate, http.MethodGet)
	api("/meals/user/{userId:[0-9]+}/date/{date}/calories", s.handleMealCalories, http.MethodGet)
	api("/meals/user/{userId:[0-9]+}/average-calories", s.handleMealAverage, http.MethodGet)

	// Workouts
	api("/workouts", s.handleCreateWorkout, http.MethodPost)
	api("/workouts", s.handleListWorkouts, http.MethodGet)
	api("/workouts/{id:[0-9]+}", s.handleGetWorkout, http.MethodGet)
	api("/workouts/{id:[0-9]+}", s.handleUpdateWorkout, http.MethodPut)
	api("/workouts/{id:[0-9]+}", s.handleDeleteWorkout, http.MethodDelete)
	api("/workouts/user/{userId:[0-9]+}", s.handleWorkoutsByUser, http.MethodGet)
	api("/workouts/date/{date}", s.handleWorkoutsByDate, http.MethodGet)
	api("/workouts/user/{userId:[0-9]+}/date/{date}", s.handleWorkoutsByUserAndDate, http.MethodGet)
	api("/workouts/user/{userId:[0-9]+}/type/{workoutType}", s.handleWorkoutsByType, http.MethodGet)
	api("/workouts/user/{userId:[0-9]+}/date/{date}/calories", s.handleWorkoutCalories, http.MethodGet)
	api("/workouts/user/{userId:[0-9]+}/date/{date}/duration", s.handleWorkoutDuration, http.MethodGet)
	api("/workouts/user/{userId:[0-9]+}/average-calories", s.handleWorkoutAverage, http.MethodGet)

	// SSO
	api("/auth/config", s.handleConfig, http.MethodGet)
	api("/auth/sso/login", s.handleSSOLogin, http.MethodGet)
	api("/auth/sso/callback", s.handleSSOCallback, http.MethodGet)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: true,
	})

	return withRequestID(loggingMiddleware(c.Handler(withNoCache(root))))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "Server is healthy")
}

// notFound answers unmatched API paths with JSON and hands everything else
// to the frontend when one is configured.
func (s *Server) notFound() http.Handler {
	var spa http.Handler
	if s.opts.WebDir != "" {
		spa = spaFromDisk(s.opts.WebDir)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if spa != nil && r.URL.Path != "/api" && !strings.HasPrefix(r.URL.Path, "/api/") {
			spa.ServeHTTP(w, r)
			return
		}
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "not found"})
	})
}

func handleMethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
}
