// Package nutritionix implements a minimal client for the Nutritionix
// track API (instant search + v1_1 item details).
package nutritionix

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://trackapi.nutritionix.com"

type Client struct {
	AppID      string
	AppKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// SearchResponse — ответ GET /v2/search/instant
type SearchResponse struct {
	Common  []SearchItem `json:"common"`
	Branded []SearchItem `json:"branded"`
}

type PhotoInfo struct {
	Thumb   string `json:"thumb"`
	Highres string `json:"highres"`
}

// SearchItem is a single instant-search hit. Branded hits carry full
// nf_* nutrition when detailed=true; common hits usually do not.
type SearchItem struct {
	FoodName           string     `json:"food_name"`
	ServingQty         float64    `json:"serving_qty"`
	ServingUnit        string     `json:"serving_unit"`
	ServingWeightGrams float64    `json:"serving_weight_grams"`
	Photo              *PhotoInfo `json:"photo"`
	NixItemID          string     `json:"nix_item_id"`
	Calories           float64    `json:"nf_calories"`
	TotalFat           *float64   `json:"nf_total_fat"`
	Protein            *float64   `json:"nf_protein"`
	TotalCarbs         *float64   `json:"nf_total_carbohydrate"`
	Fiber              *float64   `json:"nf_dietary_fiber"`
	Sugars             *float64   `json:"nf_sugars"`
	Sodium             *float64   `json:"nf_sodium"`
}

// ItemResponse — ответ GET /v1_1/item
type ItemResponse struct {
	ItemID             string  `json:"item_id"`
	ItemName           string  `json:"item_name"`
	BrandName          string  `json:"brand_name"`
	Calories           float64 `json:"nf_calories"`
	TotalFat           float64 `json:"nf_total_fat"`
	SaturatedFat       float64 `json:"nf_saturated_fat"`
	Cholesterol        float64 `json:"nf_cholesterol"`
	Sodium             float64 `json:"nf_sodium"`
	TotalCarbs         float64 `json:"nf_total_carbohydrate"`
	Fiber              float64 `json:"nf_dietary_fiber"`
	Sugars             float64 `json:"nf_sugars"`
	Protein            float64 `json:"nf_protein"`
	Potassium          float64 `json:"nf_potassium"`
	Calcium            float64 `json:"nf_calcium"`
	Iron               float64 `json:"nf_iron"`
	VitaminA           float64 `json:"nf_vitamin_a"`
	VitaminC           float64 `json:"nf_vitamin_c"`
	ServingSizeQty     float64 `json:"nf_serving_size_qty"`
	ServingSizeUnit    string  `json:"nf_serving_size_unit"`
	ServingWeightGrams float64 `json:"nf_serving_weight_grams"`
}

// SearchInstant queries /v2/search/instant with detailed nutrition enabled.
func (c *Client) SearchInstant(ctx context.Context, query string) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("detailed", "true")

	var resp SearchResponse
	if err := c.get(ctx, "/v2/search/instant", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ItemByID queries /v1_1/item for full nutrition of a branded item.
func (c *Client) ItemByID(ctx context.Context, id string) (*ItemResponse, error) {
	params := url.Values{}
	params.Set("id", id)

	var resp ItemResponse
	if err := c.get(ctx, "/v1_1/item", params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if strings.TrimSpace(c.AppID) == "" || strings.TrimSpace(c.AppKey) == "" {
		return fmt.Errorf("missing Nutritionix credentials")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}

	reqURL := fmt.Sprintf("%s%s?%s", baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create Nutritionix request: %w", err)
	}
	req.Header.Set("x-app-id", c.AppID)
	req.Header.Set("x-app-key", c.AppKey)

	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute Nutritionix request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read Nutritionix response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("Nutritionix request failed with status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode Nutritionix response: %w", err)
	}
	return nil
}

// fallbackID derives a stable id for common foods without a nix_item_id.
func fallbackID(name string) string {
	h := fnv.New32a()
	h.Write([]byte(name))
	return fmt.Sprintf("%d", h.Sum32())
}
