package goals

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fdg312/eatpal/internal/auth"
	"github.com/fdg312/eatpal/internal/storage/memory"
)

func setupTestHandlers() *Handlers {
	return NewHandlers(NewService(memory.New().GetGoalsStorage(), 0))
}

func doGoal(t *testing.T, h http.HandlerFunc, method string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body := &bytes.Buffer{}
	if payload != nil {
		if err := json.NewEncoder(body).Encode(payload); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, "/v1/goal", body)
	req = req.WithContext(auth.WithUserID(req.Context(), "user-1"))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHandleGetDefaultsTo2039(t *testing.T) {
	h := setupTestHandlers()

	rec := doGoal(t, h.HandleGet, http.MethodGet, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp GoalResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Goal != DefaultCalorieGoal {
		t.Fatalf("expected default %d, got %d", DefaultCalorieGoal, resp.Goal)
	}
}

func TestHandleUpdateAndGet(t *testing.T) {
	h := setupTestHandlers()

	rec := doGoal(t, h.HandleUpdate, http.MethodPut, UpdateGoalRequest{Goal: 1800})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doGoal(t, h.HandleGet, http.MethodGet, nil)
	var resp GoalResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Goal != 1800 {
		t.Fatalf("expected 1800, got %d", resp.Goal)
	}
}

func TestHandleUpdateRejectsNonPositive(t *testing.T) {
	h := setupTestHandlers()

	for _, goal := range []int{0, -100} {
		rec := doGoal(t, h.HandleUpdate, http.MethodPut, UpdateGoalRequest{Goal: goal})
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("goal %d: expected 400, got %d", goal, rec.Code)
		}
	}
}

type failingGoals struct{}

func (failingGoals) GetCalorieGoal(ctx context.Context, userID string) (int, bool, error) {
	return 0, false, errors.New("connection refused")
}

func (failingGoals) UpsertCalorieGoal(ctx context.Context, userID string, goal int) error {
	return errors.New("connection refused")
}

func TestCurrentGoalSurvivesStorageFailure(t *testing.T) {
	svc := NewService(failingGoals{}, 2200)
	if got := svc.CurrentGoal(context.Background(), "user-1"); got != 2200 {
		t.Fatalf("expected default on storage failure, got %d", got)
	}
}
