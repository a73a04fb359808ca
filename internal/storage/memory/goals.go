package memory

import (
	"context"
	"sync"
)

// GoalsMemoryStorage — in-memory storage для калорийных целей
type GoalsMemoryStorage struct {
	mu    sync.RWMutex
	goals map[string]int // userID -> calories
}

// NewGoalsMemoryStorage создаёт новое in-memory хранилище
func NewGoalsMemoryStorage() *GoalsMemoryStorage {
	return &GoalsMemoryStorage{
		goals: make(map[string]int),
	}
}

// GetCalorieGoal возвращает цель пользователя. bool=false — цель не задана.
func (s *GoalsMemoryStorage) GetCalorieGoal(ctx context.Context, userID string) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	goal, ok := s.goals[userID]
	return goal, ok, nil
}

// UpsertCalorieGoal создаёт или обновляет цель пользователя
func (s *GoalsMemoryStorage) UpsertCalorieGoal(ctx context.Context, userID string, calories int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.goals[userID] = calories
	return nil
}
