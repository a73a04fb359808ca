package diary

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/fdg312/eatpal/internal/auth"
	"github.com/fdg312/eatpal/internal/nutrition"
)

// Handlers handles HTTP requests for the diary.
type Handlers struct {
	service *Service
}

// NewHandlers creates new diary handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleGetEntry handles GET /v1/diary/entry?date=2006-01-02. Without a date
// it returns the entry for the user's current diary date.
func (h *Handlers) HandleGetEntry(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)

	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		day, err := nutrition.ParseDay(dateStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be formatted as YYYY-MM-DD")
			return
		}
		writeJSON(w, http.StatusOK, h.service.EntryFor(r.Context(), userID, day))
		return
	}

	writeJSON(w, http.StatusOK, h.service.CurrentEntry(r.Context(), userID))
}

// HandleSetDate handles PUT /v1/diary/date
func (h *Handlers) HandleSetDate(w http.ResponseWriter, r *http.Request) {
	var req SetDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}
	day, err := nutrition.ParseDay(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date", "date must be formatted as YYYY-MM-DD")
		return
	}

	writeJSON(w, http.StatusOK, h.service.SetDate(r.Context(), requestUserID(r), day))
}

// HandleNavigate handles POST /v1/diary/navigate
func (h *Handlers) HandleNavigate(w http.ResponseWriter, r *http.Request) {
	var req NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	var forward bool
	switch strings.ToLower(req.Direction) {
	case "next", "forward":
		forward = true
	case "prev", "previous", "back":
		forward = false
	default:
		writeError(w, http.StatusBadRequest, "invalid_direction", "direction must be \"next\" or \"prev\"")
		return
	}

	writeJSON(w, http.StatusOK, h.service.Navigate(r.Context(), requestUserID(r), forward))
}

// HandleAddFood handles POST /v1/diary/food
func (h *Handlers) HandleAddFood(w http.ResponseWriter, r *http.Request) {
	var req AddFoodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	item := FoodItem{
		FoodID:      req.FoodID,
		Name:        req.Name,
		Calories:    req.Calories,
		Category:    req.Category,
		ServingSize: req.ServingSize,
		Amount:      req.Amount,
	}

	writeJSON(w, http.StatusCreated, h.service.AddFood(r.Context(), requestUserID(r), item))
}

// HandleRemoveFood handles DELETE /v1/diary/food/{id}
func (h *Handlers) HandleRemoveFood(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "item id is required")
		return
	}

	writeJSON(w, http.StatusOK, h.service.RemoveFood(r.Context(), requestUserID(r), id))
}

// HandleAddExercise handles POST /v1/diary/exercise
func (h *Handlers) HandleAddExercise(w http.ResponseWriter, r *http.Request) {
	var req AddExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	burned := req.CaloriesBurned
	if burned == 0 && req.CaloriesPerHour > 0 {
		burned = ExerciseCalories(req.CaloriesPerHour, req.DurationMin)
	}

	item := ExerciseItem{
		Name:           req.Name,
		DurationMin:    req.DurationMin,
		CaloriesBurned: burned,
	}

	writeJSON(w, http.StatusCreated, h.service.AddExercise(r.Context(), requestUserID(r), item))
}

// HandleRemoveExercise handles DELETE /v1/diary/exercise/{id}
func (h *Handlers) HandleRemoveExercise(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "item id is required")
		return
	}

	writeJSON(w, http.StatusOK, h.service.RemoveExercise(r.Context(), requestUserID(r), id))
}

// HandleSetWater handles PUT /v1/diary/water
func (h *Handlers) HandleSetWater(w http.ResponseWriter, r *http.Request) {
	var req WaterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	writeJSON(w, http.StatusOK, h.service.SetWater(r.Context(), requestUserID(r), req.AmountOz))
}

// requestUserID resolves the authenticated user, or "default" when auth is
// disabled and no token was sent.
func requestUserID(r *http.Request) string {
	userID, ok := auth.GetUserID(r.Context())
	if !ok || userID == "" {
		return "default"
	}
	return userID
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
