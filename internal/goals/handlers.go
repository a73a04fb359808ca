package goals

import (
	"encoding/json"
	"net/http"

	"github.com/fdg312/eatpal/internal/auth"
)

// GoalResponse is the payload for GET/PUT /v1/goal.
type GoalResponse struct {
	Goal int `json:"goal"`
}

// UpdateGoalRequest is the payload for PUT /v1/goal.
type UpdateGoalRequest struct {
	Goal int `json:"goal"`
}

// Handlers handles HTTP requests for the calorie goal.
type Handlers struct {
	service *Service
}

// NewHandlers creates new goal handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleGet handles GET /v1/goal
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	goal := h.service.CurrentGoal(r.Context(), requestUserID(r))
	writeJSON(w, http.StatusOK, GoalResponse{Goal: goal})
}

// HandleUpdate handles PUT /v1/goal
func (h *Handlers) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}
	if req.Goal <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_goal", "goal must be a positive number of calories")
		return
	}

	if err := h.service.SetGoal(r.Context(), requestUserID(r), req.Goal); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to save goal")
		return
	}

	writeJSON(w, http.StatusOK, GoalResponse{Goal: req.Goal})
}

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
