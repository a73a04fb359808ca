package nutrition

import (
	"strings"
	"time"
)

// Meal categories form a closed set; anything else is rejected at the API boundary.
const (
	MealBreakfast = "Breakfast"
	MealLunch     = "Lunch"
	MealDinner    = "Dinner"
	MealSnack     = "Snack"
)

// ValidMealCategory reports whether category is one of the four meal slots.
func ValidMealCategory(category string) bool {
	switch category {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return true
	}
	return false
}

// Facts — разбивка нутриентов. В FoodRecord значения нормализованы на 100 г;
// на записи дневника они уже масштабированы к съеденному количеству.
type Facts struct {
	ProteinG      float64            `json:"protein_g"`
	CarbsG        float64            `json:"carbs_g"`
	FatG          float64            `json:"fat_g"`
	FiberG        float64            `json:"fiber_g"`
	SugarG        float64            `json:"sugar_g"`
	SodiumMg      float64            `json:"sodium_mg"`
	CholesterolMg float64            `json:"cholesterol_mg"`
	Micros        map[string]float64 `json:"micros,omitempty"`
}

// MacrosEmpty reports whether the macro fields carry no information.
// Used to decide when a search result needs a fallback-table backfill.
func (f Facts) MacrosEmpty() bool {
	return f.ProteinG == 0 && f.CarbsG == 0
}

// Scale returns the facts multiplied by grams/100. Micros are copied, never shared.
func (f Facts) Scale(grams float64) Facts {
	m := grams / 100.0
	scaled := Facts{
		ProteinG:      f.ProteinG * m,
		CarbsG:        f.CarbsG * m,
		FatG:          f.FatG * m,
		FiberG:        f.FiberG * m,
		SugarG:        f.SugarG * m,
		SodiumMg:      f.SodiumMg * m,
		CholesterolMg: f.CholesterolMg * m,
	}
	if len(f.Micros) > 0 {
		scaled.Micros = make(map[string]float64, len(f.Micros))
		for k, v := range f.Micros {
			scaled.Micros[k] = v * m
		}
	}
	return scaled
}

// ServingSize — именованная порция и её вес в граммах.
type ServingSize struct {
	Name  string  `json:"name"`
	Grams float64 `json:"grams"`
}

// FoodRecord describes a food's nutrition per 100 g, independent of any logging
// event. Records are immutable once constructed: "updating" nutrition means
// deriving a new record (see WithFacts), never mutating in place.
type FoodRecord struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	CaloriesPer100g int           `json:"calories_per_100g"`
	ServingSizes    []ServingSize `json:"serving_sizes"`
	Per100g         Facts         `json:"per_100g"`
	Category        string        `json:"category"`
	PhotoURL        string        `json:"photo_url,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// WithFacts derives a new record with the given nutrition and the extra serving
// sizes prepended to the existing ones. The receiver is left untouched.
func (r FoodRecord) WithFacts(facts Facts, extraServings []ServingSize) FoodRecord {
	derived := r
	derived.Per100g = facts
	if len(extraServings) > 0 {
		servings := make([]ServingSize, 0, len(extraServings)+len(r.ServingSizes))
		servings = append(servings, extraServings...)
		servings = append(servings, r.ServingSizes...)
		derived.ServingSizes = servings
	}
	return derived
}

// ResolveServing looks up a serving size by name (case-insensitive).
// When the name is absent the first serving size is used — every record is
// required to carry at least one, and neither the remote lookup nor the
// fallback table specifies any other default.
func (r FoodRecord) ResolveServing(name string) ServingSize {
	for _, s := range r.ServingSizes {
		if strings.EqualFold(s.Name, name) {
			return s
		}
	}
	if len(r.ServingSizes) > 0 {
		return r.ServingSizes[0]
	}
	return ServingSize{Name: "portion", Grams: 100}
}

// CaloriesFor returns the calorie total for the given logged weight.
func (r FoodRecord) CaloriesFor(grams float64) int {
	return int(float64(r.CaloriesPer100g) * grams / 100.0)
}

// FactsFor returns the nutrition already scaled to the given logged weight.
func (r FoodRecord) FactsFor(grams float64) Facts {
	return r.Per100g.Scale(grams)
}
