package adapthttp

import (
	"net/http"

	"mealmate/internal/app"
)

func (s *Server) handleCreateMeal(w http.ResponseWriter, r *http.Request) {
	var req app.CreateMealRequest
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	meal, err := s.meals.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, meal)
}

func (s *Server) handleListMeals(w http.ResponseWriter, r *http.Request) {
	meals, err := s.meals.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meals)
}

func (s *Server) handleGetMeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	meal, err := s.meals.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meal)
}

func (s *Server) handleUpdateMeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	var in app.MealInput
	if err := parseJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	meal, err := s.meals.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meal)
}

func (s *Server) handleDeleteMeal(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if err := s.meals.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMealsByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	meals, err := s.meals.ListByUser(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meals)
}

func (s *Server) handleMealsByDate(w http.ResponseWriter, r *http.Request) {
	day, err := pathDate(r, "date")
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	meals, err := s.meals.ListByDate(r.Context(), day)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meals)
}

func (s *Server) handleMealsByUserAndDate(w http.ResponseWriter, r *http.Request) {
	userID, day, err := userDayParams(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	meals, err := s.meals.ListByUserAndDate(r.Context(), userID, day)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, meals)
}

func (s *Server) handleMealCalories(w http.ResponseWriter, r *http.Request) {
	userID, day, err := userDayParams(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	total, err := s.meals.TotalCalories(r.Context(), userID, day)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, total)
}

func (s *Server) handleMealAverage(w http.ResponseWriter, r *http.Request) {
	userID, from, to, err := rangeParams(r)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	avg, err := s.meals.AverageCalories(r.Context(), userID, from, to)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, avg)
}
