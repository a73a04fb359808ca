package memory

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/eatpal/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("user not found")
)

// MemoryStorage — in-memory реализация Storage и DiaryStorage
type MemoryStorage struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]storage.User
	byEmail map[string]uuid.UUID
	diary   *DiaryMemoryStorage
	goals   *GoalsMemoryStorage
	catalog *CatalogMemoryStorage
	reports *ReportsMemoryStorage
}

// New создаёт новый пустой MemoryStorage
func New() *MemoryStorage {
	return &MemoryStorage{
		users:   make(map[uuid.UUID]storage.User),
		byEmail: make(map[string]uuid.UUID),
		diary:   NewDiaryMemoryStorage(),
		goals:   NewGoalsMemoryStorage(),
		catalog: NewCatalogMemoryStorage(),
		reports: NewReportsMemoryStorage(),
	}
}

func (m *MemoryStorage) CreateUser(ctx context.Context, user *storage.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	email := strings.ToLower(user.Email)
	if _, ok := m.byEmail[email]; ok {
		return storage.ErrEmailTaken
	}

	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	m.users[user.ID] = *user
	m.byEmail[email] = user.ID

	return nil
}

func (m *MemoryStorage) GetUser(ctx context.Context, id uuid.UUID) (*storage.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	return &u, nil
}

func (m *MemoryStorage) GetUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}

	u := m.users[id]
	return &u, nil
}

func (m *MemoryStorage) Close() error {
	// no-op для memory
	return nil
}

// DiaryStorage methods - делегируем к встроенному diary storage

func (m *MemoryStorage) UpsertDay(ctx context.Context, userID string, date string, payload []byte) error {
	return m.diary.UpsertDay(ctx, userID, date, payload)
}

func (m *MemoryStorage) GetDay(ctx context.Context, userID string, date string) ([]byte, error) {
	return m.diary.GetDay(ctx, userID, date)
}

func (m *MemoryStorage) ListDays(ctx context.Context, userID string, from, to string) ([]storage.DiaryDayRow, error) {
	return m.diary.ListDays(ctx, userID, from, to)
}

// GetDiaryStorage returns the diary storage
func (m *MemoryStorage) GetDiaryStorage() *DiaryMemoryStorage {
	return m.diary
}

// GoalsStorage methods - delegate to embedded goals storage

func (m *MemoryStorage) GetCalorieGoal(ctx context.Context, userID string) (int, bool, error) {
	return m.goals.GetCalorieGoal(ctx, userID)
}

func (m *MemoryStorage) UpsertCalorieGoal(ctx context.Context, userID string, calories int) error {
	return m.goals.UpsertCalorieGoal(ctx, userID, calories)
}

// GetGoalsStorage returns the goals storage
func (m *MemoryStorage) GetGoalsStorage() *GoalsMemoryStorage {
	return m.goals
}

// GetCatalogStorage returns the catalog storage
func (m *MemoryStorage) GetCatalogStorage() *CatalogMemoryStorage {
	return m.catalog
}

// GetReportsStorage returns the reports storage
func (m *MemoryStorage) GetReportsStorage() *ReportsMemoryStorage {
	return m.reports
}
