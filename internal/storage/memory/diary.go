package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/eatpal/internal/storage"
)

// DiaryMemoryStorage — in-memory storage для дневника питания
type DiaryMemoryStorage struct {
	mu sync.RWMutex
	// userID -> date (YYYY-MM-DD) -> row
	days map[string]map[string]*storage.DiaryDayRow
}

// NewDiaryMemoryStorage создаёт новое in-memory хранилище
func NewDiaryMemoryStorage() *DiaryMemoryStorage {
	return &DiaryMemoryStorage{
		days: make(map[string]map[string]*storage.DiaryDayRow),
	}
}

// UpsertDay сохраняет запись за день (upsert по user_id, date)
func (s *DiaryMemoryStorage) UpsertDay(ctx context.Context, userID string, date string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byDate, ok := s.days[userID]
	if !ok {
		byDate = make(map[string]*storage.DiaryDayRow)
		s.days[userID] = byDate
	}

	now := time.Now()
	if row, exists := byDate[date]; exists {
		row.Payload = payload
		row.UpdatedAt = now
		return nil
	}

	byDate[date] = &storage.DiaryDayRow{
		UserID:    userID,
		Date:      date,
		Payload:   payload,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

// GetDay возвращает payload за день, nil если записи нет
func (s *DiaryMemoryStorage) GetDay(ctx context.Context, userID string, date string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.days[userID][date]
	if !ok {
		return nil, nil
	}

	return row.Payload, nil
}

// ListDays возвращает записи за период [from, to], отсортированные по дате
func (s *DiaryMemoryStorage) ListDays(ctx context.Context, userID string, from, to string) ([]storage.DiaryDayRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rows []storage.DiaryDayRow
	for date, row := range s.days[userID] {
		// Dates formatted as YYYY-MM-DD compare correctly as strings
		if date >= from && date <= to {
			rows = append(rows, *row)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].Date < rows[j].Date
	})

	return rows, nil
}
