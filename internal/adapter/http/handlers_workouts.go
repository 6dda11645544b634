package adapthttp

import (
	"net/http"

	"mealmate/internal/app"
	"mealmate/internal/domain"

	"github.com/gorilla/mux"
)

func (s *Server) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var req app.CreateWorkoutRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	workout, err := s.workouts.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

func (s *Server) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := s.workouts.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	workout, err := s.workouts.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var in app.WorkoutInput
	if err := parseJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	workout, err := s.workouts.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workout)
}

func (s *Server) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := s.workouts.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWorkoutsByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	workouts, err := s.workouts.ListByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleWorkoutsByDate(w http.ResponseWriter, r *http.Request) {
	day, err := pathDate(r, "date")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	workouts, err := s.workouts.ListByDate(r.Context(), day)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleWorkoutsByUserAndDate(w http.ResponseWriter, r *http.Request) {
	userID, day, err := userDayParams(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	workouts, err := s.workouts.ListByUserAndDate(r.Context(), userID, day)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleWorkoutsByType(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	workouts, err := s.workouts.SearchByExercise(r.Context(), userID, mux.Vars(r)["workoutType"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, workouts)
}

func (s *Server) handleWorkoutCalories(w http.ResponseWriter, r *http.Request) {
	userID, day, err := userDayParams(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	total, err := s.workouts.TotalCaloriesBurned(r.Context(), userID, day)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, total)
}

func (s *Server) handleWorkoutDuration(w http.ResponseWriter, r *http.Request) {
	userID, day, err := userDayParams(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	total, err := s.workouts.TotalDuration(r.Context(), userID, day)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, total)
}

func (s *Server) handleWorkoutAverage(w http.ResponseWriter, r *http.Request) {
	userID, from, to, err := rangeParams(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	avg, err := s.workouts.AverageCaloriesBurned(r.Context(), userID, from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, avg)
}

func userDayParams(r *http.Request) (int64, domain.Date, error) {
	userID, err := pathID(r, "userId")
	if err != nil {
		return 0, domain.Date{}, err
	}
	day, err := pathDate(r, "date")
	return userID, day, err
}

func rangeParams(r *http.Request) (int64, domain.Date, domain.Date, error) {
	userID, err := pathID(r, "userId")
	if err != nil {
		return 0, domain.Date{}, domain.Date{}, err
	}
	from, err := queryDate(r, "startDate")
	if err != nil {
		return 0, domain.Date{}, domain.Date{}, err
	}
	to, err := queryDate(r, "endDate")
	if err != nil {
		return 0, domain.Date{}, domain.Date{}, err
	}
	return userID, from, to, nil
}
