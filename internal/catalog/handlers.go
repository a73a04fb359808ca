package catalog

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/fdg312/eatpal/internal/auth"
	"github.com/fdg312/eatpal/internal/config"
	"github.com/fdg312/eatpal/internal/nutrition"
)

// Handlers handles HTTP requests for the food catalog.
type Handlers struct {
	service *Service
	config  *config.Config
}

// NewHandlers creates new catalog handlers.
func NewHandlers(service *Service, cfg *config.Config) *Handlers {
	return &Handlers{service: service, config: cfg}
}

// HandleSearch handles GET /v1/foods/search?q=
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	items := h.service.Search(r.Context(), query)
	if items == nil {
		items = []nutrition.FoodRecord{}
	}

	writeJSON(w, http.StatusOK, SearchFoodsResponse{Items: items, Total: len(items)})
}

// HandleGetDetails handles GET /v1/foods/{id}
func (h *Handlers) HandleGetDetails(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "food id is required")
		return
	}

	rec, ok := h.service.GetDetails(r.Context(), id)
	if !ok {
		writeError(w, http.StatusNotFound, "food_not_found", "Food not found")
		return
	}

	fav, err := h.service.IsFavorite(r.Context(), requestUserID(r), rec.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to check favorite")
		return
	}

	writeJSON(w, http.StatusOK, FoodDetailResponse{FoodRecord: rec, IsFavorite: fav})
}

// HandleAddFavorite handles PUT /v1/foods/{id}/favorite
func (h *Handlers) HandleAddFavorite(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "food id is required")
		return
	}

	if err := h.service.AddFavorite(r.Context(), requestUserID(r), id); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to add favorite")
		return
	}

	writeJSON(w, http.StatusOK, FavoriteResponse{FoodID: id, Favorite: true})
}

// HandleRemoveFavorite handles DELETE /v1/foods/{id}/favorite
func (h *Handlers) HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "food id is required")
		return
	}

	if err := h.service.RemoveFavorite(r.Context(), requestUserID(r), id); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to remove favorite")
		return
	}

	writeJSON(w, http.StatusOK, FavoriteResponse{FoodID: id, Favorite: false})
}

// HandleListFavorites handles GET /v1/foods/favorites
func (h *Handlers) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Favorites(r.Context(), requestUserID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list favorites")
		return
	}
	if items == nil {
		items = []nutrition.FoodRecord{}
	}

	writeJSON(w, http.StatusOK, SearchFoodsResponse{Items: items, Total: len(items)})
}

// HandleListRecents handles GET /v1/foods/recent
func (h *Handlers) HandleListRecents(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Recents(r.Context(), requestUserID(r))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to list recent foods")
		return
	}
	if items == nil {
		items = []nutrition.FoodRecord{}
	}

	writeJSON(w, http.StatusOK, SearchFoodsResponse{Items: items, Total: len(items)})
}

// HandleUploadPhoto handles POST /v1/foods/{id}/photo (multipart upload)
func (h *Handlers) HandleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "food id is required")
		return
	}

	maxBytes := int64(h.config.UploadMaxMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse multipart form")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing_file", "File is required")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if !h.mimeAllowed(contentType) {
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "Unsupported image type")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Failed to read file")
		return
	}

	photo, err := h.service.UploadPhoto(r.Context(), requestUserID(r), id, contentType, data)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to store photo")
		return
	}

	writeJSON(w, http.StatusCreated, PhotoUploadResponse{
		FoodID:      photo.FoodID,
		ContentType: photo.ContentType,
		SizeBytes:   photo.SizeBytes,
	})
}

// HandleGetPhoto handles GET /v1/foods/{id}/photo. Inline photos are served
// directly; object-store photos redirect to a presigned URL.
func (h *Handlers) HandleGetPhoto(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "food id is required")
		return
	}

	photo, url, err := h.service.GetPhoto(r.Context(), requestUserID(r), id, h.config.Blob.S3.PresignTTLSeconds)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to fetch photo")
		return
	}
	if photo == nil {
		writeError(w, http.StatusNotFound, "photo_not_found", "Photo not found")
		return
	}

	if url != "" {
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	w.Header().Set("Content-Type", photo.ContentType)
	w.WriteHeader(http.StatusOK)
	w.Write(photo.Data)
}

func (h *Handlers) mimeAllowed(contentType string) bool {
	for _, allowed := range strings.Split(h.config.UploadAllowedMime, ",") {
		if strings.EqualFold(strings.TrimSpace(allowed), contentType) {
			return true
		}
	}
	return false
}

// requestUserID resolves the authenticated user, or "default" when auth is
// disabled and no token was sent.
func requestUserID(r *http.Request) string {
	userID, ok := auth.GetUserID(r.Context())
	if !ok || userID == "" {
		return "default"
	}
	return userID
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
