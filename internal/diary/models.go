package diary

import (
	"fmt"

	"github.com/fdg312/eatpal/internal/nutrition"
)

// FoodItem — съеденный продукт в дневнике. Калории и порция уже
// пересчитаны на фактическое количество при добавлении.
type FoodItem struct {
	ID          string  `json:"id"`
	FoodID      string  `json:"food_id,omitempty"` // catalog record the item came from
	Name        string  `json:"name"`
	Calories    int     `json:"calories"`
	Category    string  `json:"category"` // meal slot: Breakfast/Lunch/Dinner/Snack
	ServingSize string  `json:"serving_size"`
	Amount      float64 `json:"amount"`
}

// ExerciseItem — выполненное упражнение.
type ExerciseItem struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	DurationMin    int    `json:"duration_min"`
	CaloriesBurned int    `json:"calories_burned"`
}

// Entry is everything logged for one calendar date. Water is tracked in
// fluid ounces. Items keep insertion order and are never deduplicated.
type Entry struct {
	Date      nutrition.Day  `json:"date"`
	FoodItems []FoodItem     `json:"food_items"`
	Exercises []ExerciseItem `json:"exercises"`
	WaterOz   int            `json:"water_oz"`
}

// IsEmpty reports whether the entry carries no logged data at all.
func (e Entry) IsEmpty() bool {
	return len(e.FoodItems) == 0 && len(e.Exercises) == 0 && e.WaterOz == 0
}

// Totals — производные суммы за день. Никогда не хранятся, всегда
// пересчитываются из записи.
type Totals struct {
	Goal      int `json:"goal"`
	Eaten     int `json:"eaten"`
	Burned    int `json:"burned"`
	Remaining int `json:"remaining"`
}

// DeriveTotals computes the daily totals from scratch:
// eaten is the sum of food calories, burned the sum of exercise calories,
// remaining = goal - eaten + burned. Remaining may go negative.
func DeriveTotals(e Entry, goal int) Totals {
	eaten := 0
	for _, f := range e.FoodItems {
		eaten += f.Calories
	}
	burned := 0
	for _, x := range e.Exercises {
		burned += x.CaloriesBurned
	}
	return Totals{
		Goal:      goal,
		Eaten:     eaten,
		Burned:    burned,
		Remaining: goal - eaten + burned,
	}
}

// ExerciseCalories converts an hourly burn rate to the calories burned over
// the given duration in minutes.
func ExerciseCalories(caloriesPerHour, durationMin int) int {
	return caloriesPerHour * durationMin / 60
}

// Snapshot is the published view of a diary day: the entry plus its totals.
type Snapshot struct {
	Date   nutrition.Day `json:"date"`
	Entry  Entry         `json:"entry"`
	Totals Totals        `json:"totals"`
}

// AddFoodRequest is the payload for POST /v1/diary/food.
type AddFoodRequest struct {
	FoodID      string  `json:"food_id,omitempty"`
	Name        string  `json:"name"`
	Calories    int     `json:"calories"`
	Category    string  `json:"category"`
	ServingSize string  `json:"serving_size"`
	Amount      float64 `json:"amount"`
}

// Validate checks the request at the API boundary.
func (r AddFoodRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.Calories < 0 {
		return fmt.Errorf("calories must not be negative")
	}
	if !nutrition.ValidMealCategory(r.Category) {
		return fmt.Errorf("category must be one of Breakfast, Lunch, Dinner, Snack")
	}
	if r.Amount < 0 {
		return fmt.Errorf("amount must not be negative")
	}
	return nil
}

// AddExerciseRequest is the payload for POST /v1/diary/exercise. When
// calories_burned is zero and calories_per_hour is set, the burn is computed
// from the duration.
type AddExerciseRequest struct {
	Name            string `json:"name"`
	DurationMin     int    `json:"duration_min"`
	CaloriesBurned  int    `json:"calories_burned"`
	CaloriesPerHour int    `json:"calories_per_hour,omitempty"`
}

// Validate checks the request at the API boundary.
func (r AddExerciseRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.DurationMin < 0 {
		return fmt.Errorf("duration_min must not be negative")
	}
	if r.CaloriesBurned < 0 || r.CaloriesPerHour < 0 {
		return fmt.Errorf("calories must not be negative")
	}
	return nil
}

// WaterRequest is the payload for PUT /v1/diary/water.
type WaterRequest struct {
	AmountOz int `json:"amount_oz"`
}

// SetDateRequest is the payload for PUT /v1/diary/date.
type SetDateRequest struct {
	Date string `json:"date"`
}

// NavigateRequest is the payload for POST /v1/diary/navigate.
type NavigateRequest struct {
	Direction string `json:"direction"` // "next" or "prev"
}
