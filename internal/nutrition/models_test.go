package nutrition

import (
	"testing"
	"time"
)

func TestFactsScale(t *testing.T) {
	f := Facts{
		ProteinG: 31, CarbsG: 0, FatG: 3.6,
		SodiumMg: 74, CholesterolMg: 85,
		Micros: map[string]float64{"Potassium": 256},
	}
	half := f.Scale(50)
	if half.ProteinG != 15.5 {
		t.Errorf("ProteinG = %v, want 15.5", half.ProteinG)
	}
	if half.SodiumMg != 37 {
		t.Errorf("SodiumMg = %v, want 37", half.SodiumMg)
	}
	if half.Micros["Potassium"] != 128 {
		t.Errorf("Potassium = %v, want 128", half.Micros["Potassium"])
	}
	// Scaling must not share the micros map with the source.
	half.Micros["Potassium"] = 0
	if f.Micros["Potassium"] != 256 {
		t.Errorf("source micros mutated: %v", f.Micros["Potassium"])
	}
}

func TestFactsMacrosEmpty(t *testing.T) {
	if !(Facts{}).MacrosEmpty() {
		t.Error("zero facts should report empty macros")
	}
	if (Facts{ProteinG: 1}).MacrosEmpty() {
		t.Error("facts with protein should not report empty macros")
	}
	if (Facts{CarbsG: 2}).MacrosEmpty() {
		t.Error("facts with carbs should not report empty macros")
	}
}

func TestFoodRecordCaloriesFor(t *testing.T) {
	r := FoodRecord{CaloriesPer100g: 165}
	if got := r.CaloriesFor(120); got != 198 {
		t.Errorf("CaloriesFor(120) = %d, want 198", got)
	}
	if got := r.CaloriesFor(100); got != 165 {
		t.Errorf("CaloriesFor(100) = %d, want 165", got)
	}
}

func TestFoodRecordResolveServing(t *testing.T) {
	r := FoodRecord{ServingSizes: []ServingSize{
		{Name: "piece", Grams: 120},
		{Name: "slice", Grams: 30},
	}}
	if got := r.ResolveServing("Slice"); got.Grams != 30 {
		t.Errorf("ResolveServing(Slice) = %+v, want slice/30", got)
	}
	// Unknown name falls back to the first listed serving.
	if got := r.ResolveServing("bucket"); got.Name != "piece" || got.Grams != 120 {
		t.Errorf("ResolveServing(bucket) = %+v, want piece/120", got)
	}
}

func TestFoodRecordWithFactsImmutable(t *testing.T) {
	base := FoodRecord{
		ID:           "42",
		Name:         "Oats",
		ServingSizes: []ServingSize{{Name: "portion", Grams: 100}},
	}
	derived := base.WithFacts(Facts{ProteinG: 17}, []ServingSize{{Name: "cup", Grams: 240}})

	if base.Per100g.ProteinG != 0 {
		t.Error("base record mutated by WithFacts")
	}
	if len(base.ServingSizes) != 1 {
		t.Errorf("base servings grew to %d", len(base.ServingSizes))
	}
	if derived.Per100g.ProteinG != 17 {
		t.Errorf("derived protein = %v, want 17", derived.Per100g.ProteinG)
	}
	if len(derived.ServingSizes) != 2 || derived.ServingSizes[0].Name != "cup" {
		t.Errorf("derived servings = %+v, want cup prepended", derived.ServingSizes)
	}
}

func TestValidMealCategory(t *testing.T) {
	for _, c := range []string{MealBreakfast, MealLunch, MealDinner, MealSnack} {
		if !ValidMealCategory(c) {
			t.Errorf("ValidMealCategory(%q) = false", c)
		}
	}
	if ValidMealCategory("Brunch") {
		t.Error("ValidMealCategory(Brunch) = true")
	}
}

func TestDayNavigation(t *testing.T) {
	d := Day{Year: 2024, Month: time.December, Day: 31}
	next := d.Next()
	if next != (Day{Year: 2025, Month: time.January, Day: 1}) {
		t.Errorf("Next across year = %v", next)
	}
	if next.Prev() != d {
		t.Errorf("Prev(Next(d)) = %v, want %v", next.Prev(), d)
	}

	leap := Day{Year: 2024, Month: time.February, Day: 28}
	if leap.Next() != (Day{Year: 2024, Month: time.February, Day: 29}) {
		t.Errorf("leap day skipped: %v", leap.Next())
	}
}

func TestDayString(t *testing.T) {
	d := Day{Year: 2024, Month: time.March, Day: 7}
	if d.String() != "2024-03-07" {
		t.Errorf("String() = %q", d.String())
	}
	parsed, err := ParseDay("2024-03-07")
	if err != nil {
		t.Fatalf("ParseDay: %v", err)
	}
	if parsed != d {
		t.Errorf("ParseDay = %v, want %v", parsed, d)
	}
	if _, err := ParseDay("07.03.2024"); err == nil {
		t.Error("ParseDay accepted wrong format")
	}
}
