package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/fdg312/eatpal/internal/auth"
	"github.com/fdg312/eatpal/internal/config"
	"github.com/fdg312/eatpal/internal/storage/memory"
)

func setupTestHandlers(remote *fakeRemote) *Handlers {
	cfg := &config.Config{
		UploadMaxMB:       10,
		UploadAllowedMime: "image/jpeg,image/png,image/webp",
	}
	svc := NewService(remote, memory.New().GetCatalogStorage(), nil, 20)
	return NewHandlers(svc, cfg)
}

func authedRequest(method, target string, body *bytes.Buffer) *http.Request {
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(auth.WithUserID(req.Context(), "user-1"))
}

func TestHandleSearch(t *testing.T) {
	h := setupTestHandlers(&fakeRemote{searchResp: brandedSearchResponse("Protein Bar", "nix123")})

	req := authedRequest(http.MethodGet, "/v1/foods/search?q=bar", nil)
	rec := httptest.NewRecorder()
	h.HandleSearch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp SearchFoodsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || resp.Items[0].ID != "nix123" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestHandleGetDetails(t *testing.T) {
	h := setupTestHandlers(&fakeRemote{itemErr: errors.New("item lookup down")})

	t.Run("OfflineTableHit", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/v1/foods/oats_fallback", nil)
		req.SetPathValue("id", "oats_fallback")
		rec := httptest.NewRecorder()
		h.HandleGetDetails(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var resp FoodDetailResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Name != "Oats" || resp.IsFavorite {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		req := authedRequest(http.MethodGet, "/v1/foods/zzz-9000", nil)
		req.SetPathValue("id", "zzz-9000")
		rec := httptest.NewRecorder()
		h.HandleGetDetails(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestHandleFavoriteFlow(t *testing.T) {
	h := setupTestHandlers(&fakeRemote{searchResp: brandedSearchResponse("Protein Bar", "nix123")})

	// Seed the search cache so the favorite can resolve to a record.
	searchReq := authedRequest(http.MethodGet, "/v1/foods/search?q=bar", nil)
	h.HandleSearch(httptest.NewRecorder(), searchReq)

	addReq := authedRequest(http.MethodPost, "/v1/foods/nix123/favorite", nil)
	addReq.SetPathValue("id", "nix123")
	rec := httptest.NewRecorder()
	h.HandleAddFavorite(rec, addReq)
	if rec.Code != http.StatusOK {
		t.Fatalf("add favorite: expected 200, got %d", rec.Code)
	}

	listReq := authedRequest(http.MethodGet, "/v1/foods/favorites", nil)
	rec = httptest.NewRecorder()
	h.HandleListFavorites(rec, listReq)
	var resp SearchFoodsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 1 || resp.Items[0].ID != "nix123" {
		t.Fatalf("expected favorited record, got %+v", resp)
	}

	delReq := authedRequest(http.MethodDelete, "/v1/foods/nix123/favorite", nil)
	delReq.SetPathValue("id", "nix123")
	rec = httptest.NewRecorder()
	h.HandleRemoveFavorite(rec, delReq)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove favorite: expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.HandleListFavorites(rec, authedRequest(http.MethodGet, "/v1/foods/favorites", nil))
	resp = SearchFoodsResponse{}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 0 {
		t.Fatalf("expected empty favorites, got %+v", resp)
	}
}

func multipartPhoto(t *testing.T, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="photo.jpg"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	part.Write(data)
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestHandlePhotoUploadAndFetch(t *testing.T) {
	h := setupTestHandlers(&fakeRemote{})
	photoBytes := []byte("jpeg bytes")

	body, formType := multipartPhoto(t, "image/jpeg", photoBytes)
	upReq := authedRequest(http.MethodPost, "/v1/foods/nix123/photo", body)
	upReq.Header.Set("Content-Type", formType)
	upReq.SetPathValue("id", "nix123")
	rec := httptest.NewRecorder()
	h.HandleUploadPhoto(rec, upReq)
	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	getReq := authedRequest(http.MethodGet, "/v1/foods/nix123/photo", nil)
	getReq.SetPathValue("id", "nix123")
	rec = httptest.NewRecorder()
	h.HandleGetPhoto(rec, getReq)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetch: expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "image/jpeg" {
		t.Fatalf("expected image/jpeg, got %q", got)
	}
	if !bytes.Equal(rec.Body.Bytes(), photoBytes) {
		t.Fatal("expected stored bytes back")
	}
}

func TestHandlePhotoUploadRejectsUnsupportedType(t *testing.T) {
	h := setupTestHandlers(&fakeRemote{})

	body, formType := multipartPhoto(t, "application/pdf", []byte("%PDF"))
	req := authedRequest(http.MethodPost, "/v1/foods/nix123/photo", body)
	req.Header.Set("Content-Type", formType)
	req.SetPathValue("id", "nix123")
	rec := httptest.NewRecorder()
	h.HandleUploadPhoto(rec, req)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", rec.Code)
	}
}

func TestHandleGetPhotoNotFound(t *testing.T) {
	h := setupTestHandlers(&fakeRemote{})

	req := authedRequest(http.MethodGet, "/v1/foods/nope/photo", nil)
	req.SetPathValue("id", "nope")
	rec := httptest.NewRecorder()
	h.HandleGetPhoto(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
