package catalog

import "github.com/fdg312/eatpal/internal/nutrition"

// SearchFoodsResponse is the payload for GET /v1/foods/search.
type SearchFoodsResponse struct {
	Items []nutrition.FoodRecord `json:"items"`
	Total int                    `json:"total"`
}

// FoodDetailResponse is a full record plus the caller's favorite flag.
type FoodDetailResponse struct {
	nutrition.FoodRecord
	IsFavorite bool `json:"is_favorite"`
}

// FavoriteResponse confirms a favorite mutation.
type FavoriteResponse struct {
	FoodID   string `json:"food_id"`
	Favorite bool   `json:"favorite"`
}

// PhotoUploadResponse confirms a stored food photo.
type PhotoUploadResponse struct {
	FoodID      string `json:"food_id"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	URL         string `json:"url,omitempty"`
}
