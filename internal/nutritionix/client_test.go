package nutritionix

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSearchInstantParsesResponse(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/search/instant" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("detailed") != "true" {
			t.Error("expected detailed=true")
		}
		if r.Header.Get("x-app-id") != "id" || r.Header.Get("x-app-key") != "key" {
			t.Error("missing credential headers")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "common": [
    {"food_name": "banana", "serving_qty": 1, "serving_unit": "medium", "serving_weight_grams": 118, "nf_calories": 105, "photo": {"thumb": "https://img/banana.jpg"}}
  ],
  "branded": [
    {"food_name": "Protein Bar", "serving_unit": "bar", "serving_weight_grams": 50, "nix_item_id": "abc123", "nf_calories": 200, "nf_protein": 10, "nf_total_fat": 5, "nf_total_carbohydrate": 22, "nf_sodium": 0.12}
  ]
}`))
	}))
	defer ts.Close()

	c := &Client{AppID: "id", AppKey: "key", BaseURL: ts.URL, HTTPClient: ts.Client()}

	resp, err := c.SearchInstant(context.Background(), "banana")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(resp.Common) != 1 || len(resp.Branded) != 1 {
		t.Fatalf("unexpected result counts: common=%d branded=%d", len(resp.Common), len(resp.Branded))
	}

	records := resp.FoodRecords()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	banana := records[0]
	if banana.Category != CategoryCommon {
		t.Errorf("banana category = %q", banana.Category)
	}
	// 105 kcal per 118 g -> 88 kcal per 100 g (truncated)
	if banana.CaloriesPer100g != 88 {
		t.Errorf("banana calories per 100g = %d, want 88", banana.CaloriesPer100g)
	}
	if !banana.Per100g.MacrosEmpty() {
		t.Error("banana without nf_ fields should have empty macros")
	}
	if banana.PhotoURL != "https://img/banana.jpg" {
		t.Errorf("banana photo = %q", banana.PhotoURL)
	}
	// No nix_item_id: a stable derived id is expected
	if banana.ID == "" {
		t.Error("banana id should not be empty")
	}

	bar := records[1]
	if bar.ID != "abc123" {
		t.Errorf("bar id = %q", bar.ID)
	}
	// 10 g protein per 50 g serving -> 20 g per 100 g
	if math.Abs(bar.Per100g.ProteinG-20) > 1e-9 {
		t.Errorf("bar protein per 100g = %v, want 20", bar.Per100g.ProteinG)
	}
	// 0.12 g sodium per 50 g -> 240 mg per 100 g
	if math.Abs(bar.Per100g.SodiumMg-240) > 1e-9 {
		t.Errorf("bar sodium per 100g = %v, want 240", bar.Per100g.SodiumMg)
	}
}

func TestItemByIDParsesResponse(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1_1/item" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.URL.Query().Get("id") != "abc123" {
			t.Errorf("unexpected id %q", r.URL.Query().Get("id"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "item_id": "abc123",
  "item_name": "Protein Bar",
  "brand_name": "BarCo",
  "nf_calories": 200,
  "nf_protein": 10,
  "nf_total_fat": 5,
  "nf_total_carbohydrate": 22,
  "nf_sodium": 0.12,
  "nf_cholesterol": 0.005,
  "nf_potassium": 90,
  "nf_calcium": 0,
  "nf_serving_size_qty": 1,
  "nf_serving_size_unit": "bar",
  "nf_serving_weight_grams": 50
}`))
	}))
	defer ts.Close()

	c := &Client{AppID: "id", AppKey: "key", BaseURL: ts.URL, HTTPClient: ts.Client()}

	item, err := c.ItemByID(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("item: %v", err)
	}

	record := item.FoodRecord()
	if record.ID != "abc123" || record.Name != "Protein Bar" {
		t.Fatalf("unexpected record identity: %+v", record)
	}
	if record.Category != "BarCo" {
		t.Errorf("category = %q, want brand name", record.Category)
	}
	if record.CaloriesPer100g != 400 {
		t.Errorf("calories per 100g = %d, want 400", record.CaloriesPer100g)
	}
	// 0.005 g cholesterol per 50 g -> 10 mg per 100 g
	if math.Abs(record.Per100g.CholesterolMg-10) > 1e-9 {
		t.Errorf("cholesterol per 100g = %v, want 10", record.Per100g.CholesterolMg)
	}
	// Potassium 90 per 50 g -> 180 per 100 g; zero-valued calcium is dropped
	if math.Abs(record.Per100g.Micros["Potassium"]-180) > 1e-9 {
		t.Errorf("potassium = %v, want 180", record.Per100g.Micros["Potassium"])
	}
	if _, ok := record.Per100g.Micros["Calcium"]; ok {
		t.Error("zero calcium should be dropped from micros")
	}

	// Primary serving first, then household servings that do not duplicate it
	if record.ServingSizes[0].Name != "bar" || record.ServingSizes[0].Grams != 50 {
		t.Errorf("primary serving = %+v", record.ServingSizes[0])
	}
	if len(record.ServingSizes) != 4 {
		t.Errorf("serving count = %d, want 4 (bar, cup, piece, tbsp)", len(record.ServingSizes))
	}
}

func TestClientErrors(t *testing.T) {
	t.Parallel()

	t.Run("MissingCredentials", func(t *testing.T) {
		c := &Client{}
		if _, err := c.SearchInstant(context.Background(), "apple"); err == nil {
			t.Fatal("expected error for missing credentials")
		}
	})

	t.Run("ServerError", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer ts.Close()

		c := &Client{AppID: "id", AppKey: "key", BaseURL: ts.URL, HTTPClient: ts.Client()}
		if _, err := c.SearchInstant(context.Background(), "apple"); err == nil {
			t.Fatal("expected error for 500 response")
		}
	})
}
