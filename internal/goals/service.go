package goals

import (
	"context"
	"fmt"
	"log"

	"github.com/fdg312/eatpal/internal/storage"
)

// DefaultCalorieGoal is used until a user sets their own.
const DefaultCalorieGoal = 2039

// Service holds the per-user daily calorie goal. The policy itself accepts
// any stored value; the >0 validation lives at the HTTP boundary.
type Service struct {
	storage     storage.GoalsStorage
	defaultGoal int
}

// NewService creates a goal service. defaultGoal <= 0 falls back to
// DefaultCalorieGoal.
func NewService(st storage.GoalsStorage, defaultGoal int) *Service {
	if defaultGoal <= 0 {
		defaultGoal = DefaultCalorieGoal
	}
	return &Service{storage: st, defaultGoal: defaultGoal}
}

// CurrentGoal returns the user's goal, or the default when none is stored.
// Storage failures also yield the default: the diary must keep deriving
// totals even when the goal row is unreachable.
func (s *Service) CurrentGoal(ctx context.Context, userID string) int {
	goal, ok, err := s.storage.GetCalorieGoal(ctx, userID)
	if err != nil {
		log.Printf("goals: load goal for %s failed: %v", userID, err)
		return s.defaultGoal
	}
	if !ok {
		return s.defaultGoal
	}
	return goal
}

// SetGoal stores the user's goal.
func (s *Service) SetGoal(ctx context.Context, userID string, goal int) error {
	if err := s.storage.UpsertCalorieGoal(ctx, userID, goal); err != nil {
		return fmt.Errorf("failed to save calorie goal: %w", err)
	}
	return nil
}
