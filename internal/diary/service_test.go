package diary

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/fdg312/eatpal/internal/nutrition"
	"github.com/fdg312/eatpal/internal/storage/memory"
)

type fixedGoal int

func (g fixedGoal) CurrentGoal(ctx context.Context, userID string) int { return int(g) }

type recorderMarker struct {
	mu  sync.Mutex
	ids []string
}

func (m *recorderMarker) MarkAddedToDiary(ctx context.Context, userID, foodID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ids = append(m.ids, foodID)
	return nil
}

func newTestDiary(goal int) (*Service, *memory.DiaryMemoryStorage) {
	st := memory.New().GetDiaryStorage()
	svc := NewService(st, fixedGoal(goal), nil)
	svc.now = func() time.Time {
		return time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	}
	return svc, st
}

func TestScenarioGoalFoodExercise(t *testing.T) {
	svc, _ := newTestDiary(2000)
	ctx := context.Background()
	const user = "user-1"

	snap := svc.AddFood(ctx, user, FoodItem{Name: "Burrito", Calories: 500, Category: nutrition.MealBreakfast})
	if snap.Totals.Eaten != 500 || snap.Totals.Remaining != 1500 {
		t.Fatalf("after food: %+v", snap.Totals)
	}

	snap = svc.AddExercise(ctx, user, ExerciseItem{Name: "Running", DurationMin: 20, CaloriesBurned: 200})
	if snap.Totals.Eaten != 500 || snap.Totals.Burned != 200 || snap.Totals.Remaining != 1700 {
		t.Fatalf("after exercise: %+v", snap.Totals)
	}

	foodID := snap.Entry.FoodItems[0].ID
	snap = svc.RemoveFood(ctx, user, foodID)
	if snap.Totals.Eaten != 0 || snap.Totals.Burned != 200 || snap.Totals.Remaining != 2200 {
		t.Fatalf("after removal: %+v", snap.Totals)
	}
}

func TestDeriveTotals(t *testing.T) {
	entry := Entry{
		FoodItems: []FoodItem{{Calories: 300}, {Calories: 450}},
		Exercises: []ExerciseItem{{CaloriesBurned: 120}},
	}
	got := DeriveTotals(entry, 2039)
	want := Totals{Goal: 2039, Eaten: 750, Burned: 120, Remaining: 1409}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	// Overeating drives remaining negative, never clamps.
	got = DeriveTotals(Entry{FoodItems: []FoodItem{{Calories: 3000}}}, 2000)
	if got.Remaining != -1000 {
		t.Fatalf("expected -1000 remaining, got %d", got.Remaining)
	}
}

func TestExerciseCalories(t *testing.T) {
	if got := ExerciseCalories(600, 30); got != 300 {
		t.Fatalf("expected 300, got %d", got)
	}
	if got := ExerciseCalories(600, 0); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestRemoveAbsentIDIsNoOp(t *testing.T) {
	svc, _ := newTestDiary(2000)
	ctx := context.Background()
	const user = "user-1"

	svc.AddFood(ctx, user, FoodItem{Name: "Toast", Calories: 120, Category: nutrition.MealBreakfast})
	snap := svc.RemoveFood(ctx, user, "no-such-id")
	if len(snap.Entry.FoodItems) != 1 || snap.Totals.Eaten != 120 {
		t.Fatalf("expected untouched entry, got %+v", snap)
	}

	snap = svc.RemoveExercise(ctx, user, "no-such-id")
	if len(snap.Entry.Exercises) != 0 {
		t.Fatalf("expected no exercises, got %+v", snap.Entry)
	}
}

func TestDateIsolation(t *testing.T) {
	svc, _ := newTestDiary(2000)
	ctx := context.Background()
	const user = "user-1"

	svc.AddFood(ctx, user, FoodItem{Name: "Toast", Calories: 120, Category: nutrition.MealBreakfast})

	snap := svc.Navigate(ctx, user, true)
	if len(snap.Entry.FoodItems) != 0 || snap.Totals.Eaten != 0 {
		t.Fatalf("next day must start empty, got %+v", snap)
	}

	snap = svc.Navigate(ctx, user, false)
	if snap.Totals.Eaten != 120 {
		t.Fatalf("navigating back must restore the entry, got %+v", snap)
	}
}

func TestNavigationAcrossBoundaries(t *testing.T) {
	svc, _ := newTestDiary(2000)
	ctx := context.Background()
	const user = "user-1"

	svc.SetDate(ctx, user, nutrition.Day{Year: 2024, Month: time.December, Day: 31})
	snap := svc.Navigate(ctx, user, true)
	if snap.Date != (nutrition.Day{Year: 2025, Month: time.January, Day: 1}) {
		t.Fatalf("expected 2025-01-01, got %s", snap.Date)
	}

	svc.SetDate(ctx, user, nutrition.Day{Year: 2024, Month: time.March, Day: 1})
	snap = svc.Navigate(ctx, user, false)
	if snap.Date != (nutrition.Day{Year: 2024, Month: time.February, Day: 29}) {
		t.Fatalf("expected leap day, got %s", snap.Date)
	}
}

func TestWaterClampedAtZero(t *testing.T) {
	svc, _ := newTestDiary(2000)
	ctx := context.Background()
	const user = "user-1"

	snap := svc.SetWater(ctx, user, 24)
	if snap.Entry.WaterOz != 24 {
		t.Fatalf("expected 24 oz, got %d", snap.Entry.WaterOz)
	}
	snap = svc.SetWater(ctx, user, -8)
	if snap.Entry.WaterOz != 0 {
		t.Fatalf("expected clamp to 0, got %d", snap.Entry.WaterOz)
	}
}

func TestUserIsolation(t *testing.T) {
	svc, _ := newTestDiary(2000)
	ctx := context.Background()

	svc.AddFood(ctx, "alice", FoodItem{Name: "Cake", Calories: 400, Category: nutrition.MealSnack})
	snap := svc.CurrentEntry(ctx, "bob")
	if snap.Totals.Eaten != 0 {
		t.Fatalf("expected empty diary for bob, got %+v", snap.Totals)
	}
}

func TestPersistenceMirror(t *testing.T) {
	svc, st := newTestDiary(2000)
	ctx := context.Background()
	const user = "user-1"

	snap := svc.AddFood(ctx, user, FoodItem{Name: "Toast", Calories: 120, Category: nutrition.MealBreakfast})

	// The mirror is async; poll briefly.
	deadline := time.Now().Add(2 * time.Second)
	var payload []byte
	for time.Now().Before(deadline) {
		var err error
		payload, err = st.GetDay(ctx, user, snap.Date.String())
		if err != nil {
			t.Fatalf("GetDay: %v", err)
		}
		if payload != nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if payload == nil {
		t.Fatal("entry never reached storage")
	}

	var stored Entry
	if err := json.Unmarshal(payload, &stored); err != nil {
		t.Fatalf("unmarshal stored entry: %v", err)
	}
	if len(stored.FoodItems) != 1 || stored.FoodItems[0].Name != "Toast" {
		t.Fatalf("unexpected stored entry: %+v", stored)
	}
}

func TestHydrationFromStorage(t *testing.T) {
	st := memory.New().GetDiaryStorage()
	ctx := context.Background()
	const user = "user-1"
	day := nutrition.Day{Year: 2025, Month: time.March, Day: 10}

	stored := Entry{
		Date:      day,
		FoodItems: []FoodItem{{ID: "f1", Name: "Oatmeal", Calories: 150, Category: nutrition.MealBreakfast}},
		WaterOz:   16,
	}
	payload, err := json.Marshal(stored)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := st.UpsertDay(ctx, user, day.String(), payload); err != nil {
		t.Fatalf("UpsertDay: %v", err)
	}

	svc := NewService(st, fixedGoal(2000), nil)
	snap := svc.EntryFor(ctx, user, day)
	if snap.Totals.Eaten != 150 || snap.Entry.WaterOz != 16 {
		t.Fatalf("expected hydrated entry, got %+v", snap)
	}
}

func TestHydrationSkipsEmptyStoredEntry(t *testing.T) {
	st := memory.New().GetDiaryStorage()
	ctx := context.Background()
	const user = "user-1"
	day := nutrition.Day{Year: 2025, Month: time.March, Day: 10}

	payload, _ := json.Marshal(Entry{Date: day})
	if err := st.UpsertDay(ctx, user, day.String(), payload); err != nil {
		t.Fatalf("UpsertDay: %v", err)
	}

	svc := NewService(st, fixedGoal(2000), nil)

	// The placeholder survives; mutating it right away must not be lost to
	// a late overwrite from the empty stored copy.
	snap := svc.SetDate(ctx, user, day)
	if !snap.Entry.IsEmpty() {
		t.Fatalf("expected empty entry, got %+v", snap.Entry)
	}
	snap = svc.SetWater(ctx, user, 8)
	if snap.Entry.WaterOz != 8 {
		t.Fatalf("expected water kept, got %+v", snap.Entry)
	}
}

func TestSubscribePublishesSnapshots(t *testing.T) {
	svc, _ := newTestDiary(2000)
	ctx := context.Background()
	const user = "user-1"

	ch, cancel := svc.Subscribe(user)
	defer cancel()

	svc.AddFood(ctx, user, FoodItem{Name: "Toast", Calories: 120, Category: nutrition.MealBreakfast})

	select {
	case snap := <-ch:
		if snap.Totals.Eaten != 120 {
			t.Fatalf("unexpected snapshot: %+v", snap.Totals)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}

	// A slow subscriber sees the latest snapshot, not the first one.
	svc.SetWater(ctx, user, 8)
	svc.SetWater(ctx, user, 16)
	select {
	case snap := <-ch:
		if snap.Entry.WaterOz != 16 {
			t.Fatalf("expected the latest snapshot, got %+v", snap.Entry)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}
}

func TestAddFoodMarksRecency(t *testing.T) {
	st := memory.New().GetDiaryStorage()
	marker := &recorderMarker{}
	svc := NewService(st, fixedGoal(2000), marker)
	ctx := context.Background()

	svc.AddFood(ctx, "user-1", FoodItem{FoodID: "banana_fallback", Name: "Banana", Calories: 105, Category: nutrition.MealSnack})
	svc.AddFood(ctx, "user-1", FoodItem{Name: "Mystery Stew", Calories: 300, Category: nutrition.MealDinner})

	marker.mu.Lock()
	defer marker.mu.Unlock()
	if len(marker.ids) != 1 || marker.ids[0] != "banana_fallback" {
		t.Fatalf("expected only the catalog-backed item marked, got %v", marker.ids)
	}
}
