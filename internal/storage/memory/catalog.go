package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/eatpal/internal/storage"
)

// CatalogMemoryStorage — in-memory storage для избранного, недавних продуктов и фото
type CatalogMemoryStorage struct {
	mu        sync.RWMutex
	favorites map[string]map[string]struct{} // userID -> foodID set
	recents   map[string]map[string]time.Time
	photos    map[string]*storage.FoodPhoto // key: "userID:foodID"
}

// NewCatalogMemoryStorage создаёт новое in-memory хранилище
func NewCatalogMemoryStorage() *CatalogMemoryStorage {
	return &CatalogMemoryStorage{
		favorites: make(map[string]map[string]struct{}),
		recents:   make(map[string]map[string]time.Time),
		photos:    make(map[string]*storage.FoodPhoto),
	}
}

// AddFavorite отмечает продукт как избранный (идемпотентно)
func (s *CatalogMemoryStorage) AddFavorite(ctx context.Context, userID string, foodID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.favorites[userID]
	if !ok {
		set = make(map[string]struct{})
		s.favorites[userID] = set
	}
	set[foodID] = struct{}{}
	return nil
}

// RemoveFavorite снимает отметку избранного (идемпотентно)
func (s *CatalogMemoryStorage) RemoveFavorite(ctx context.Context, userID string, foodID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.favorites[userID], foodID)
	return nil
}

// ListFavorites возвращает id избранных продуктов пользователя
func (s *CatalogMemoryStorage) ListFavorites(ctx context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set := s.favorites[userID]
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// MarkRecent записывает время добавления продукта в дневник, перезаписывая прошлое
func (s *CatalogMemoryStorage) MarkRecent(ctx context.Context, userID string, foodID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byFood, ok := s.recents[userID]
	if !ok {
		byFood = make(map[string]time.Time)
		s.recents[userID] = byFood
	}
	byFood[foodID] = at
	return nil
}

// ListRecents возвращает id продуктов, самые свежие первыми
func (s *CatalogMemoryStorage) ListRecents(ctx context.Context, userID string, limit int) ([]storage.RecentFood, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byFood := s.recents[userID]
	recents := make([]storage.RecentFood, 0, len(byFood))
	for id, at := range byFood {
		recents = append(recents, storage.RecentFood{FoodID: id, AddedAt: at})
	}

	sort.Slice(recents, func(i, j int) bool {
		return recents[i].AddedAt.After(recents[j].AddedAt)
	})

	if limit > 0 && len(recents) > limit {
		recents = recents[:limit]
	}

	return recents, nil
}

// SetFoodPhoto сохраняет ссылку на фото продукта
func (s *CatalogMemoryStorage) SetFoodPhoto(ctx context.Context, userID string, foodID string, photo *storage.FoodPhoto) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	key := photoKey(userID, foodID)
	if existing, ok := s.photos[key]; ok {
		photo.CreatedAt = existing.CreatedAt
	} else {
		photo.CreatedAt = now
	}
	photo.UpdatedAt = now
	photo.UserID = userID
	photo.FoodID = foodID

	s.photos[key] = photo
	return nil
}

// GetFoodPhoto возвращает фото продукта, nil если фото нет
func (s *CatalogMemoryStorage) GetFoodPhoto(ctx context.Context, userID string, foodID string) (*storage.FoodPhoto, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	photo, ok := s.photos[photoKey(userID, foodID)]
	if !ok {
		return nil, nil
	}

	return photo, nil
}

func photoKey(userID, foodID string) string {
	return fmt.Sprintf("%s:%s", userID, foodID)
}
