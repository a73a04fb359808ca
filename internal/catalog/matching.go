package catalog

import (
	"strings"

	"github.com/fdg312/eatpal/internal/nutrition"
)

// Чистые функции нечёткого сопоставления с офлайновой таблицей.
// Везде действует одно правило: при нескольких кандидатах побеждает
// первый по порядку таблицы.

// FilterByName returns the foods whose name contains query,
// compared case-insensitively.
func FilterByName(foods []nutrition.FoodRecord, query string) []nutrition.FoodRecord {
	q := strings.ToLower(query)
	var out []nutrition.FoodRecord
	for _, f := range foods {
		if strings.Contains(strings.ToLower(f.Name), q) {
			out = append(out, f)
		}
	}
	return out
}

// MatchByName finds the food whose name plausibly refers to the same thing as
// name: an exact case-insensitive match wins over substring containment, and
// containment is checked in both directions.
func MatchByName(foods []nutrition.FoodRecord, name string) (nutrition.FoodRecord, bool) {
	n := strings.ToLower(name)
	for _, f := range foods {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}
	for _, f := range foods {
		fn := strings.ToLower(f.Name)
		if strings.Contains(n, fn) || strings.Contains(fn, n) {
			return f, true
		}
	}
	return nutrition.FoodRecord{}, false
}

// MatchByID resolves an opaque food id against the table: exact id match
// first, then a name that contains the id string, then an id that contains
// the space-stripped name. The last rule catches ids derived from names,
// e.g. id "sweetpotato42" vs name "Sweet Potato".
func MatchByID(foods []nutrition.FoodRecord, id string) (nutrition.FoodRecord, bool) {
	lowID := strings.ToLower(id)
	for _, f := range foods {
		if f.ID == id {
			return f, true
		}
	}
	for _, f := range foods {
		if strings.Contains(strings.ToLower(f.Name), lowID) {
			return f, true
		}
	}
	for _, f := range foods {
		squashed := strings.ToLower(strings.ReplaceAll(f.Name, " ", ""))
		if squashed != "" && strings.Contains(lowID, squashed) {
			return f, true
		}
	}
	return nutrition.FoodRecord{}, false
}
