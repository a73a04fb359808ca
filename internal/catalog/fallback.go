package catalog

import (
	"github.com/fdg312/eatpal/internal/nutrition"
	"github.com/fdg312/eatpal/internal/nutritionix"
)

// fallbackFoods — офлайновая таблица продуктов с полными нутриентами.
// Используется, когда Nutritionix недоступен или отдаёт пустые макросы.
// Порядок записей значим: при неоднозначном совпадении побеждает первая.
var fallbackFoods = []nutrition.FoodRecord{
	// High protein
	{
		ID:              "chicken_breast_fallback",
		Name:            "Chicken Breast",
		CaloriesPer100g: 165,
		Category:        nutritionix.CategoryCommon,
		ServingSizes: []nutrition.ServingSize{
			{Name: "piece", Grams: 120},
			{Name: "slice", Grams: 30},
			{Name: "oz", Grams: 28},
			{Name: "portion", Grams: 100},
		},
		Per100g: nutrition.Facts{
			ProteinG: 31.0, CarbsG: 0, FatG: 3.6,
			FiberG: 0, SugarG: 0, SodiumMg: 74, CholesterolMg: 85,
			Micros: map[string]float64{
				"Potassium": 256, "Calcium": 15, "Iron": 0.9,
			},
		},
	},
	{
		ID:              "salmon_fallback",
		Name:            "Salmon",
		CaloriesPer100g: 208,
		Category:        nutritionix.CategoryCommon,
		ServingSizes: []nutrition.ServingSize{
			{Name: "fillet", Grams: 150},
			{Name: "slice", Grams: 40},
			{Name: "oz", Grams: 28},
			{Name: "portion", Grams: 100},
		},
		Per100g: nutrition.Facts{
			ProteinG: 25.4, CarbsG: 0, FatG: 12.4,
			FiberG: 0, SugarG: 0, SodiumMg: 59, CholesterolMg: 70,
			Micros: map[string]float64{
				"Potassium": 363, "Calcium": 12, "Iron": 0.8, "Vitamin A": 58,
			},
		},
	},
	{
		ID:              "tofu_fallback",
		Name:            "Tofu",
		CaloriesPer100g: 76,
		Category:        nutritionix.CategoryCommon,
		ServingSizes: []nutrition.ServingSize{
			{Name: "cube", Grams: 60},
			{Name: "slice", Grams: 30},
			{Name: "block", Grams: 120},
			{Name: "portion", Grams: 100},
		},
		Per100g: nutrition.Facts{
			ProteinG: 8.1, CarbsG: 1.9, FatG: 4.8,
			FiberG: 0.3, SugarG: 0.6, SodiumMg: 7, CholesterolMg: 0,
			Micros: map[string]float64{
				"Calcium": 350, "Iron": 5.4, "Potassium": 121,
			},
		},
	},
	{
		ID:              "egg_fallback",
		Name:            "Egg",
		CaloriesPer100g: 155,
		Category:        nutritionix.CategoryCommon,
		ServingSizes: []nutrition.ServingSize{
			{Name: "large", Grams: 50},
			{Name: "medium", Grams: 44},
			{Name: "small", Grams: 38},
		},
		Per100g: nutrition.Facts{
			ProteinG: 13.0, CarbsG: 1.1, FatG: 11.0,
			FiberG: 0, SugarG: 1.1, SodiumMg: 124, CholesterolMg: 373,
			Micros: map[string]float64{
				"Vitamin A": 140, "Calcium": 50, "Iron": 1.2, "Potassium": 126,
			},
		},
	},

	// High carb
	{
		ID:              "brown_rice_fallback",
		Name:            "Brown Rice",
		CaloriesPer100g: 111,
		Category:        nutritionix.CategoryCommon,
		ServingSizes: []nutrition.ServingSize{
			{Name: "cup", Grams: 195},
			{Name: "bowl", Grams: 150},
			{Name: "tbsp", Grams: 15},
			{Name: "portion", Grams: 100},
		},
		Per100g: nutrition.Facts{
			ProteinG: 2.6, CarbsG: 23.0, FatG: 0.9,
			FiberG: 1.8, SugarG: 0.4, SodiumMg: 5, CholesterolMg: 0,
			Micros: map[string]float64{
				"Iron": 0.4, "Potassium": 43, "Calcium": 10,
			},
		},
	},
	{
		ID:              "quinoa_fallback",
		Name:            "Quinoa",
		CaloriesPer100g: 120,
		Category:        nutritionix.CategoryCommon,
		ServingSizes: []nutrition.ServingSize{
			{Name: "cup", Grams: 185},
			{Name: "bowl", Grams: 150},
			{Name: "tbsp", Grams: 20},
			{Name: "portion", Grams: 100},
		},
		Per100g: nutrition.Facts{
			ProteinG: 4.4, CarbsG: 22.0, FatG: 1.9,
			FiberG: 2.8, SugarG: 0.9, SodiumMg: 7, CholesterolMg: 0,
			Micros: map[string]float64{
				"Iron": 1.5, "Potassium": 172, "Calcium": 17,
			},
		},
	},
	{
		ID:              "sweet_potato_fallback",
		Name:            "Sweet Potato",
		CaloriesPer100g: 86,
		Category:        nutritionix.CategoryCommon,
		ServingSizes: []nutrition.ServingSize{
			{Name: "medium", Grams: 130},
			{Name: "large", Grams: 180},
			{Name: "cup cubed", Grams: 133},
			{Name: "portion", Grams: 100},
		},
		Per100g: nutrition.Facts{
			ProteinG: 1.6, CarbsG: 20.1, FatG: 0.1,
			FiberG: 3.0, SugarG: 4.2, SodiumMg: 54, CholesterolMg: 0,
			Micros: map[string]float64{
				"Vitamin A": 709, "Vitamin C": 2.4, "Potassium": 337, "Calcium": 30, "Iron": 0.6,
			},
		},
	},
	{
		ID:              "oats_fallback",
		Name:            "Oats",
		CaloriesPer100g: 389,
		Category:        nutritionix.CategoryCommon,
		ServingSizes: []nutrition.ServingSize{
			{Name: "cup", Grams: 81},
			{Name: "bowl", Grams: 60},
			{Name: "tbsp", Grams: 10},
			{Name: "portion", Grams: 100},
		},
		Per100g: nutrition.Facts{
			ProteinG: 16.9, CarbsG: 66.3, FatG: 6.9,
			FiberG: 10.6, SugarG: 0, SodiumMg: 2, CholesterolMg: 0,
			Micros: map[string]float64{
				"Iron": 4.7, "Potassium": 429, "Calcium": 54,
			},
		},
	},

	// High fiber
	{
		ID:              "broccoli_fallback",
		Name:            "Broccoli",
		CaloriesPer100g: 34,
		Category:        nutritionix.CategoryCommon,
		ServingSizes: []nutrition.ServingSize{
			{Name: "cup", Grams: 91},
			{Name: "floret", Grams: 12},
			{Name: "stalk", Grams: 150},
			{Name: "portion", Grams: 100},
		},
		Per100g: nutrition.Facts{
			ProteinG: 2.8, CarbsG: 7.0, FatG: 0.4,
			FiberG: 2.6, SugarG: 1.5, SodiumMg: 33, CholesterolMg: 0,
			Micros: map[string]float64{
				"Vitamin C": 89.2, "Vitamin A": 31, "Potassium": 316, "Calcium": 47, "Iron": 0.7,
			},
		},
	},
	{
		ID:              "apple_fallback",
		Name:            "Apple",
		CaloriesPer100g: 52,
		Category:        nutritionix.CategoryCommon,
		ServingSizes: []nutrition.ServingSize{
			{Name: "medium", Grams: 182},
			{Name: "large", Grams: 223},
			{Name: "slice", Grams: 22},
			{Name: "cup sliced", Grams: 125},
		},
		Per100g: nutrition.Facts{
			ProteinG: 0.3, CarbsG: 14.0, FatG: 0.2,
			FiberG: 2.4, SugarG: 10.4, SodiumMg: 1, CholesterolMg: 0,
			Micros: map[string]float64{
				"Vitamin C": 4.6, "Potassium": 107, "Calcium": 6,
			},
		},
	},
	{
		ID:              "banana_fallback",
		Name:            "Banana",
		CaloriesPer100g: 89,
		Category:        nutritionix.CategoryCommon,
		ServingSizes: []nutrition.ServingSize{
			{Name: "medium", Grams: 118},
			{Name: "large", Grams: 136},
			{Name: "slice", Grams: 9},
			{Name: "cup sliced", Grams: 150},
		},
		Per100g: nutrition.Facts{
			ProteinG: 1.1, CarbsG: 23.0, FatG: 0.3,
			FiberG: 2.6, SugarG: 12.2, SodiumMg: 1, CholesterolMg: 0,
			Micros: map[string]float64{
				"Vitamin C": 8.7, "Potassium": 358, "Calcium": 5, "Iron": 0.3,
			},
		},
	},
	{
		ID:              "avocado_fallback",
		Name:            "Avocado",
		CaloriesPer100g: 160,
		Category:        nutritionix.CategoryCommon,
		ServingSizes: []nutrition.ServingSize{
			{Name: "medium", Grams: 150},
			{Name: "half", Grams: 75},
			{Name: "slice", Grams: 25},
			{Name: "cup cubed", Grams: 150},
		},
		Per100g: nutrition.Facts{
			ProteinG: 2.0, CarbsG: 8.5, FatG: 14.7,
			FiberG: 6.7, SugarG: 0.7, SodiumMg: 7, CholesterolMg: 0,
			Micros: map[string]float64{
				"Vitamin C": 10, "Potassium": 485, "Calcium": 12, "Iron": 0.6, "Vitamin A": 7,
			},
		},
	},
	{
		ID:              "black_beans_fallback",
		Name:            "Black Beans",
		CaloriesPer100g: 132,
		Category:        nutritionix.CategoryCommon,
		ServingSizes: []nutrition.ServingSize{
			{Name: "cup", Grams: 172},
			{Name: "half cup", Grams: 86},
			{Name: "tbsp", Grams: 15},
			{Name: "portion", Grams: 100},
		},
		Per100g: nutrition.Facts{
			ProteinG: 8.9, CarbsG: 23.0, FatG: 0.5,
			FiberG: 8.7, SugarG: 0.3, SodiumMg: 2, CholesterolMg: 0,
			Micros: map[string]float64{
				"Iron": 2.1, "Potassium": 355, "Calcium": 27,
			},
		},
	},
	{
		ID:              "spinach_fallback",
		Name:            "Spinach",
		CaloriesPer100g: 23,
		Category:        nutritionix.CategoryCommon,
		ServingSizes: []nutrition.ServingSize{
			{Name: "cup", Grams: 30},
			{Name: "handful", Grams: 25},
			{Name: "bunch", Grams: 120},
			{Name: "portion", Grams: 100},
		},
		Per100g: nutrition.Facts{
			ProteinG: 2.9, CarbsG: 3.6, FatG: 0.4,
			FiberG: 2.2, SugarG: 0.4, SodiumMg: 79, CholesterolMg: 0,
			Micros: map[string]float64{
				"Vitamin A": 469, "Vitamin C": 28.1, "Iron": 2.7, "Potassium": 558, "Calcium": 99,
			},
		},
	},
	{
		ID:              "almonds_fallback",
		Name:            "Almonds",
		CaloriesPer100g: 579,
		Category:        nutritionix.CategoryCommon,
		ServingSizes: []nutrition.ServingSize{
			{Name: "ounce", Grams: 28},
			{Name: "cup", Grams: 143},
			{Name: "piece", Grams: 1.2},
			{Name: "handful", Grams: 30},
		},
		Per100g: nutrition.Facts{
			ProteinG: 21.2, CarbsG: 21.6, FatG: 49.9,
			FiberG: 12.5, SugarG: 4.4, SodiumMg: 1, CholesterolMg: 0,
			Micros: map[string]float64{
				"Calcium": 269, "Iron": 3.7, "Potassium": 733,
			},
		},
	},
}

// FallbackFoods returns the built-in offline food table.
func FallbackFoods() []nutrition.FoodRecord {
	out := make([]nutrition.FoodRecord, len(fallbackFoods))
	copy(out, fallbackFoods)
	return out
}
