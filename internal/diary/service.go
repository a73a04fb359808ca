package diary

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/fdg312/eatpal/internal/nutrition"
	"github.com/fdg312/eatpal/internal/storage"
	"github.com/google/uuid"
)

// GoalSource supplies the daily calorie goal used when deriving totals.
type GoalSource interface {
	CurrentGoal(ctx context.Context, userID string) int
}

// RecencyMarker records "this catalog food was just logged". Optional.
type RecencyMarker interface {
	MarkAddedToDiary(ctx context.Context, userID, foodID string) error
}

// Service keeps one diary entry per (user, calendar date). Entries live in
// memory and are mirrored to storage fire-and-forget after every mutation;
// the in-memory copy stays authoritative. Each user has a current-date
// pointer that mutations operate on.
type Service struct {
	storage storage.DiaryStorage
	goals   GoalSource
	recency RecencyMarker // may be nil

	mu       sync.Mutex
	entries  map[string]map[nutrition.Day]*Entry
	current  map[string]nutrition.Day
	hydrated map[string]map[nutrition.Day]bool
	subs     map[string][]chan Snapshot

	// now is swappable in tests
	now func() time.Time
}

// NewService creates a diary service. recency may be nil.
func NewService(st storage.DiaryStorage, goals GoalSource, recency RecencyMarker) *Service {
	return &Service{
		storage:  st,
		goals:    goals,
		recency:  recency,
		entries:  make(map[string]map[nutrition.Day]*Entry),
		current:  make(map[string]nutrition.Day),
		hydrated: make(map[string]map[nutrition.Day]bool),
		subs:     make(map[string][]chan Snapshot),
		now:      time.Now,
	}
}

// CurrentDate returns the user's current diary date, initializing it to
// today on first access.
func (s *Service) CurrentDate(userID string) nutrition.Day {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentDateLocked(userID)
}

func (s *Service) currentDateLocked(userID string) nutrition.Day {
	day, ok := s.current[userID]
	if !ok {
		day = nutrition.DayOf(s.now())
		s.current[userID] = day
	}
	return day
}

// SetDate moves the user's current-date pointer and returns that day's
// snapshot. The entry is lazily created; setting a date never fails.
func (s *Service) SetDate(ctx context.Context, userID string, day nutrition.Day) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current[userID] = day
	entry := s.entryLocked(ctx, userID, day)
	return s.snapshotLocked(ctx, userID, entry)
}

// Navigate moves the current date one calendar day forward or back.
func (s *Service) Navigate(ctx context.Context, userID string, forward bool) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	day := s.currentDateLocked(userID)
	if forward {
		day = day.Next()
	} else {
		day = day.Prev()
	}
	s.current[userID] = day
	entry := s.entryLocked(ctx, userID, day)
	return s.snapshotLocked(ctx, userID, entry)
}

// CurrentEntry returns the snapshot for the user's current date.
func (s *Service) CurrentEntry(ctx context.Context, userID string) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.entryLocked(ctx, userID, s.currentDateLocked(userID))
	return s.snapshotLocked(ctx, userID, entry)
}

// EntryFor returns the snapshot for an arbitrary date without moving the
// current-date pointer.
func (s *Service) EntryFor(ctx context.Context, userID string, day nutrition.Day) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry := s.entryLocked(ctx, userID, day)
	return s.snapshotLocked(ctx, userID, entry)
}

// AddFood appends a food item to the current entry. A missing item id is
// assigned; when the item references a catalog record its recency is marked.
func (s *Service) AddFood(ctx context.Context, userID string, item FoodItem) Snapshot {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Amount == 0 {
		item.Amount = 1
	}

	snap := s.mutate(ctx, userID, func(e *Entry) {
		e.FoodItems = append(e.FoodItems, item)
	})

	if s.recency != nil && item.FoodID != "" {
		if err := s.recency.MarkAddedToDiary(ctx, userID, item.FoodID); err != nil {
			log.Printf("diary: mark recent %s failed: %v", item.FoodID, err)
		}
	}
	return snap
}

// RemoveFood removes a food item by id. Removing an absent id is a no-op.
func (s *Service) RemoveFood(ctx context.Context, userID, itemID string) Snapshot {
	return s.mutate(ctx, userID, func(e *Entry) {
		// fresh slice: published snapshots keep the old backing array
		kept := make([]FoodItem, 0, len(e.FoodItems))
		for _, f := range e.FoodItems {
			if f.ID != itemID {
				kept = append(kept, f)
			}
		}
		e.FoodItems = kept
	})
}

// AddExercise appends an exercise to the current entry.
func (s *Service) AddExercise(ctx context.Context, userID string, item ExerciseItem) Snapshot {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	return s.mutate(ctx, userID, func(e *Entry) {
		e.Exercises = append(e.Exercises, item)
	})
}

// RemoveExercise removes an exercise by id. Removing an absent id is a no-op.
func (s *Service) RemoveExercise(ctx context.Context, userID, itemID string) Snapshot {
	return s.mutate(ctx, userID, func(e *Entry) {
		kept := make([]ExerciseItem, 0, len(e.Exercises))
		for _, x := range e.Exercises {
			if x.ID != itemID {
				kept = append(kept, x)
			}
		}
		e.Exercises = kept
	})
}

// SetWater sets the day's water intake in fluid ounces, clamped at zero.
func (s *Service) SetWater(ctx context.Context, userID string, amountOz int) Snapshot {
	if amountOz < 0 {
		amountOz = 0
	}
	return s.mutate(ctx, userID, func(e *Entry) {
		e.WaterOz = amountOz
	})
}

// Subscribe returns a channel receiving a snapshot after every mutation of
// the user's diary, plus a cancel func. A slow receiver only ever misses
// intermediate snapshots, never the latest one.
func (s *Service) Subscribe(userID string) (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)
	s.mu.Lock()
	s.subs[userID] = append(s.subs[userID], ch)
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		subs := s.subs[userID]
		for i, c := range subs {
			if c == ch {
				s.subs[userID] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
	return ch, cancel
}

// mutate applies fn to the user's current entry, recomputes totals,
// publishes the snapshot and kicks off the storage mirror.
func (s *Service) mutate(ctx context.Context, userID string, fn func(*Entry)) Snapshot {
	s.mu.Lock()
	day := s.currentDateLocked(userID)
	entry := s.entryLocked(ctx, userID, day)
	fn(entry)
	snap := s.snapshotLocked(ctx, userID, entry)
	s.publishLocked(userID, snap)
	s.mu.Unlock()

	s.persist(userID, snap.Entry)
	return snap
}

// entryLocked returns the entry for (user, day), hydrating from storage on
// first access. A stored copy replaces the fresh placeholder only when it
// actually carries data.
func (s *Service) entryLocked(ctx context.Context, userID string, day nutrition.Day) *Entry {
	byDay, ok := s.entries[userID]
	if !ok {
		byDay = make(map[nutrition.Day]*Entry)
		s.entries[userID] = byDay
	}
	entry, ok := byDay[day]
	if !ok {
		entry = &Entry{Date: day}
		byDay[day] = entry
	}

	hyd, ok := s.hydrated[userID]
	if !ok {
		hyd = make(map[nutrition.Day]bool)
		s.hydrated[userID] = hyd
	}
	if !hyd[day] {
		hyd[day] = true
		if stored := s.loadStored(ctx, userID, day); stored != nil && !stored.IsEmpty() {
			*entry = *stored
		}
	}
	return entry
}

func (s *Service) loadStored(ctx context.Context, userID string, day nutrition.Day) *Entry {
	payload, err := s.storage.GetDay(ctx, userID, day.String())
	if err != nil {
		log.Printf("diary: load %s/%s failed: %v", userID, day, err)
		return nil
	}
	if payload == nil {
		return nil
	}
	var stored Entry
	if err := json.Unmarshal(payload, &stored); err != nil {
		log.Printf("diary: corrupt entry %s/%s: %v", userID, day, err)
		return nil
	}
	stored.Date = day
	return &stored
}

// persist mirrors the entry to storage in the background. Failures are
// logged and swallowed; the in-memory state stays authoritative.
func (s *Service) persist(userID string, entry Entry) {
	payload, err := json.Marshal(entry)
	if err != nil {
		log.Printf("diary: marshal entry %s/%s failed: %v", userID, entry.Date, err)
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.storage.UpsertDay(ctx, userID, entry.Date.String(), payload); err != nil {
			log.Printf("diary: save entry %s/%s failed: %v", userID, entry.Date, err)
		}
	}()
}

func (s *Service) snapshotLocked(ctx context.Context, userID string, entry *Entry) Snapshot {
	goal := s.goals.CurrentGoal(ctx, userID)
	return Snapshot{
		Date:   entry.Date,
		Entry:  *entry,
		Totals: DeriveTotals(*entry, goal),
	}
}

func (s *Service) publishLocked(userID string, snap Snapshot) {
	for _, ch := range s.subs[userID] {
		select {
		case ch <- snap:
		default:
			// drop the stale snapshot, replace with the fresh one
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}
