package nutritionix

import (
	"time"

	"github.com/fdg312/eatpal/internal/nutrition"
)

// Per-item categories assigned from the search result list the item came from.
const (
	CategoryCommon  = "Common"
	CategoryBranded = "Branded"
)

// FoodRecord converts an instant-search hit into a catalog record with
// nutrition normalized per 100 g. Hits without any macro data (typical for
// common foods) get an empty Facts block that the catalog backfills later.
func (i SearchItem) FoodRecord(category string) nutrition.FoodRecord {
	id := i.NixItemID
	if id == "" {
		id = fallbackID(i.FoodName)
	}

	caloriesPer100g := 0
	if i.ServingWeightGrams > 0 {
		caloriesPer100g = int(i.Calories * 100 / i.ServingWeightGrams)
	}

	var facts nutrition.Facts
	if i.Protein != nil || i.TotalFat != nil || i.TotalCarbs != nil {
		multiplier := 1.0
		if i.ServingWeightGrams > 0 {
			multiplier = 100.0 / i.ServingWeightGrams
		}
		facts = nutrition.Facts{
			ProteinG: deref(i.Protein) * multiplier,
			CarbsG:   deref(i.TotalCarbs) * multiplier,
			FatG:     deref(i.TotalFat) * multiplier,
			FiberG:   deref(i.Fiber) * multiplier,
			SugarG:   deref(i.Sugars) * multiplier,
			// The API reports sodium in grams here
			SodiumMg: deref(i.Sodium) * multiplier * 1000,
		}
	}

	photoURL := ""
	if i.Photo != nil {
		photoURL = i.Photo.Thumb
	}

	return nutrition.FoodRecord{
		ID:              id,
		Name:            i.FoodName,
		CaloriesPer100g: caloriesPer100g,
		ServingSizes: []nutrition.ServingSize{
			{Name: i.ServingUnit, Grams: i.ServingWeightGrams},
		},
		Per100g:   facts,
		Category:  category,
		PhotoURL:  photoURL,
		CreatedAt: time.Now(),
	}
}

// FoodRecords flattens a search response into catalog records, common first.
func (r *SearchResponse) FoodRecords() []nutrition.FoodRecord {
	records := make([]nutrition.FoodRecord, 0, len(r.Common)+len(r.Branded))
	for _, item := range r.Common {
		records = append(records, item.FoodRecord(CategoryCommon))
	}
	for _, item := range r.Branded {
		records = append(records, item.FoodRecord(CategoryBranded))
	}
	return records
}

// FoodRecord converts an item-details response into a catalog record.
// The primary serving comes first, followed by common household servings
// unless they would duplicate the primary one.
func (r *ItemResponse) FoodRecord() nutrition.FoodRecord {
	servings := []nutrition.ServingSize{
		{Name: r.ServingSizeUnit, Grams: r.ServingWeightGrams},
	}
	if r.ServingSizeUnit != "cup" && r.ServingWeightGrams != 240 {
		servings = append(servings, nutrition.ServingSize{Name: "cup", Grams: 240})
	}
	if r.ServingSizeUnit != "piece" && r.ServingWeightGrams != 100 {
		servings = append(servings, nutrition.ServingSize{Name: "piece", Grams: 100})
	}
	if r.ServingSizeUnit != "tbsp" && r.ServingWeightGrams != 15 {
		servings = append(servings, nutrition.ServingSize{Name: "tbsp", Grams: 15})
	}

	multiplier := 1.0
	if r.ServingWeightGrams > 0 {
		multiplier = 100.0 / r.ServingWeightGrams
	}

	micros := make(map[string]float64)
	for name, value := range map[string]float64{
		"Potassium": r.Potassium,
		"Calcium":   r.Calcium,
		"Iron":      r.Iron,
		"Vitamin A": r.VitaminA,
		"Vitamin C": r.VitaminC,
	} {
		if value > 0 {
			micros[name] = value * multiplier
		}
	}
	if len(micros) == 0 {
		micros = nil
	}

	caloriesPer100g := 0
	if r.ServingWeightGrams > 0 {
		caloriesPer100g = int(r.Calories * 100 / r.ServingWeightGrams)
	}

	category := r.BrandName
	if category == "" {
		category = "Food"
	}

	return nutrition.FoodRecord{
		ID:              r.ItemID,
		Name:            r.ItemName,
		CaloriesPer100g: caloriesPer100g,
		ServingSizes:    servings,
		Per100g: nutrition.Facts{
			ProteinG: r.Protein * multiplier,
			CarbsG:   r.TotalCarbs * multiplier,
			FatG:     r.TotalFat * multiplier,
			FiberG:   r.Fiber * multiplier,
			SugarG:   r.Sugars * multiplier,
			// Sodium and cholesterol arrive in grams, store mg
			SodiumMg:      r.Sodium * 1000 * multiplier,
			CholesterolMg: r.Cholesterol * 1000 * multiplier,
			Micros:        micros,
		},
		Category:  category,
		CreatedAt: time.Now(),
	}
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
