package catalog

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/eatpal/internal/blob"
	"github.com/fdg312/eatpal/internal/nutrition"
	"github.com/fdg312/eatpal/internal/nutritionix"
	"github.com/fdg312/eatpal/internal/storage"
)

// Ключ кэша для "популярных" продуктов (пустой поисковый запрос).
const popularCacheKey = "popular"

// RemoteLookup is the slice of the Nutritionix client the catalog needs.
type RemoteLookup interface {
	SearchInstant(ctx context.Context, query string) (*nutritionix.SearchResponse, error)
	ItemByID(ctx context.Context, id string) (*nutritionix.ItemResponse, error)
}

// Service answers "what foods match this query" and "what are this food's
// full facts" by composing three sources with a strict precedence: in-memory
// caches, the remote lookup, and the built-in fallback table. Favorites,
// recency and photos live in CatalogStorage so they survive restarts.
type Service struct {
	remote      RemoteLookup
	storage     storage.CatalogStorage
	blobStore   blob.Store // nil => photos inline in storage
	recentLimit int

	mu           sync.RWMutex
	searchCache  map[string][]nutrition.FoodRecord
	detailsCache map[string]nutrition.FoodRecord
}

// NewService creates a catalog service. blobStore may be nil; photo bytes are
// then kept inline in the catalog storage instead of an object store.
func NewService(remote RemoteLookup, st storage.CatalogStorage, blobStore blob.Store, recentLimit int) *Service {
	if recentLimit <= 0 {
		recentLimit = 20
	}
	return &Service{
		remote:       remote,
		storage:      st,
		blobStore:    blobStore,
		recentLimit:  recentLimit,
		searchCache:  make(map[string][]nutrition.FoodRecord),
		detailsCache: make(map[string]nutrition.FoodRecord),
	}
}

// Search resolves a query to food records. An empty query means "popular
// foods". Results are cached verbatim under the literal query string; a
// remote failure falls back to filtering the built-in table and is never
// cached, so a transient outage does not poison future attempts.
func (s *Service) Search(ctx context.Context, query string) []nutrition.FoodRecord {
	key := query
	if query == "" {
		key = popularCacheKey
	}

	s.mu.RLock()
	cached, ok := s.searchCache[key]
	s.mu.RUnlock()
	if ok {
		return cached
	}

	resp, err := s.remote.SearchInstant(ctx, query)
	if err != nil {
		log.Printf("catalog: remote search %q failed: %v", query, err)
		if query == "" {
			return FallbackFoods()
		}
		return FilterByName(fallbackFoods, query)
	}

	results := s.processSearchResults(resp)

	s.mu.Lock()
	s.searchCache[key] = results
	s.mu.Unlock()

	return results
}

// processSearchResults converts a search response to records, common foods
// first. Instant search often omits macros for common (generic) foods;
// rather than show zeros those records borrow nutrition and serving sizes
// from a fallback-table entry with a plausibly matching name.
func (s *Service) processSearchResults(resp *nutritionix.SearchResponse) []nutrition.FoodRecord {
	results := make([]nutrition.FoodRecord, 0, len(resp.Common)+len(resp.Branded))
	for _, item := range resp.Common {
		rec := item.FoodRecord(nutritionix.CategoryCommon)
		if rec.Per100g.MacrosEmpty() {
			if fb, ok := MatchByName(fallbackFoods, rec.Name); ok {
				rec = rec.WithFacts(fb.Per100g, fb.ServingSizes)
			}
		}
		results = append(results, rec)
	}
	for _, item := range resp.Branded {
		results = append(results, item.FoodRecord(nutritionix.CategoryBranded))
	}
	return results
}

// GetDetails resolves a food id to its full record: details cache, then the
// remote item lookup (cached on success), then previously cached search
// results, then the fallback table. Returns false when nothing matches.
func (s *Service) GetDetails(ctx context.Context, id string) (nutrition.FoodRecord, bool) {
	s.mu.RLock()
	rec, ok := s.detailsCache[id]
	s.mu.RUnlock()
	if ok {
		return rec, true
	}

	resp, err := s.remote.ItemByID(ctx, id)
	if err == nil {
		rec = resp.FoodRecord()
		s.mu.Lock()
		s.detailsCache[id] = rec
		s.mu.Unlock()
		return rec, true
	}
	log.Printf("catalog: remote item lookup %q failed: %v", id, err)

	if rec, ok = s.lookupCachedSearch(id); ok {
		return rec, true
	}
	return MatchByID(fallbackFoods, id)
}

// lookupCachedSearch scans the search caches for a record with the given id.
func (s *Service) lookupCachedSearch(id string) (nutrition.FoodRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, records := range s.searchCache {
		for _, rec := range records {
			if rec.ID == id {
				return rec, true
			}
		}
	}
	return nutrition.FoodRecord{}, false
}

// AddFavorite marks a food id as a favorite for the user.
func (s *Service) AddFavorite(ctx context.Context, userID, foodID string) error {
	return s.storage.AddFavorite(ctx, userID, foodID)
}

// RemoveFavorite unmarks a food id. Removing an absent id is a no-op.
func (s *Service) RemoveFavorite(ctx context.Context, userID, foodID string) error {
	return s.storage.RemoveFavorite(ctx, userID, foodID)
}

// IsFavorite reports whether the user has favorited the food id.
func (s *Service) IsFavorite(ctx context.Context, userID, foodID string) (bool, error) {
	ids, err := s.storage.ListFavorites(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, id := range ids {
		if id == foodID {
			return true, nil
		}
	}
	return false, nil
}

// Favorites returns favorited records among those the catalog has already
// seen through search. A favorited id that was never searched stays
// invisible here until some search surfaces it again.
func (s *Service) Favorites(ctx context.Context, userID string) ([]nutrition.FoodRecord, error) {
	ids, err := s.storage.ListFavorites(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []nutrition.FoodRecord
	seen := make(map[string]bool)
	for _, records := range s.searchCache {
		for _, rec := range records {
			if want[rec.ID] && !seen[rec.ID] {
				seen[rec.ID] = true
				out = append(out, rec)
			}
		}
	}
	return out, nil
}

// MarkAddedToDiary records "this food was just logged" for the recency list.
// A repeat logging overwrites the prior timestamp.
func (s *Service) MarkAddedToDiary(ctx context.Context, userID, foodID string) error {
	return s.storage.MarkRecent(ctx, userID, foodID, time.Now().UTC())
}

// Recents returns the most recently logged foods, newest first, resolved
// against the caches and the fallback table only. Never calls the remote.
func (s *Service) Recents(ctx context.Context, userID string) ([]nutrition.FoodRecord, error) {
	recent, err := s.storage.ListRecents(ctx, userID, s.recentLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recents: %w", err)
	}

	var out []nutrition.FoodRecord
	for _, r := range recent {
		s.mu.RLock()
		rec, ok := s.detailsCache[r.FoodID]
		s.mu.RUnlock()
		if !ok {
			rec, ok = s.lookupCachedSearch(r.FoodID)
		}
		if !ok {
			rec, ok = MatchByID(fallbackFoods, r.FoodID)
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

// UploadPhoto stores a photo for a food record. With an object store the
// bytes go to S3 and only the key is kept; without one the bytes are kept
// inline in the catalog storage.
func (s *Service) UploadPhoto(ctx context.Context, userID, foodID, contentType string, data []byte) (*storage.FoodPhoto, error) {
	photo := &storage.FoodPhoto{
		UserID:      userID,
		FoodID:      foodID,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
	}

	if s.blobStore == nil {
		photo.Data = data
	} else {
		objectKey := fmt.Sprintf("food-photos/%s/%s%s", userID, foodID, extensionFor(contentType))
		if _, err := s.blobStore.PutObject(ctx, objectKey, data, contentType); err != nil {
			return nil, fmt.Errorf("failed to upload photo: %w", err)
		}
		photo.ObjectKey = &objectKey
	}

	if err := s.storage.SetFoodPhoto(ctx, userID, foodID, photo); err != nil {
		return nil, fmt.Errorf("failed to save photo metadata: %w", err)
	}
	return photo, nil
}

// GetPhoto returns the photo for a food. In object-store mode data is nil
// and url carries a presigned link; in inline mode url is empty and the
// bytes come straight from storage. A missing photo returns (nil, "", nil).
func (s *Service) GetPhoto(ctx context.Context, userID, foodID string, presignTTL int) (photo *storage.FoodPhoto, url string, err error) {
	photo, err = s.storage.GetFoodPhoto(ctx, userID, foodID)
	if err != nil || photo == nil {
		return nil, "", err
	}

	if photo.ObjectKey != nil && s.blobStore != nil {
		url, err = s.blobStore.PresignGet(ctx, *photo.ObjectKey, presignTTL)
		if err != nil {
			return nil, "", fmt.Errorf("failed to presign photo url: %w", err)
		}
		photo.Data = nil
	}
	return photo, url, nil
}

func extensionFor(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
