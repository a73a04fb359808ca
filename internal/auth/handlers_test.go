package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/eatpal/internal/config"
	"github.com/fdg312/eatpal/internal/storage/memory"
)

func setupTestService() *Service {
	cfg := &config.Config{
		AuthMode:      "password",
		AuthEnabled:   true,
		JWTSecret:     "test-secret-key-for-testing-only",
		JWTIssuer:     "eatpal-test",
		JWTTTLMinutes: 60,
	}

	return NewService(cfg, memory.New())
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestHandleRegister(t *testing.T) {
	service := setupTestService()
	handler := NewHandlers(service)

	t.Run("Success", func(t *testing.T) {
		w := postJSON(t, handler.HandleRegister, "/v1/auth/register", RegisterRequest{
			Email:    "user@example.com",
			Password: "correct-horse",
			Name:     "Test User",
		})

		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d. Body: %s", w.Code, w.Body.String())
		}

		var resp AuthResponse
		json.NewDecoder(w.Body).Decode(&resp)

		if resp.AccessToken == "" {
			t.Error("expected access_token not empty")
		}
		if resp.UserID == "" {
			t.Error("expected user_id not empty")
		}
		if resp.TokenType != "Bearer" {
			t.Errorf("expected token_type Bearer, got %q", resp.TokenType)
		}

		// Token must verify back to the same user
		sub, err := service.VerifyJWT(resp.AccessToken)
		if err != nil {
			t.Fatalf("VerifyJWT: %v", err)
		}
		if sub != resp.UserID {
			t.Errorf("token sub = %q, want %q", sub, resp.UserID)
		}
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		w := postJSON(t, handler.HandleRegister, "/v1/auth/register", RegisterRequest{
			Email:    "user@example.com",
			Password: "another-password",
		})

		if w.Code != http.StatusConflict {
			t.Fatalf("expected status 409, got %d. Body: %s", w.Code, w.Body.String())
		}
	})

	t.Run("ShortPassword", func(t *testing.T) {
		w := postJSON(t, handler.HandleRegister, "/v1/auth/register", RegisterRequest{
			Email:    "short@example.com",
			Password: "1234",
		})

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("MissingEmail", func(t *testing.T) {
		w := postJSON(t, handler.HandleRegister, "/v1/auth/register", RegisterRequest{
			Password: "correct-horse",
		})

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", w.Code)
		}
	})
}

func TestHandleLogin(t *testing.T) {
	service := setupTestService()
	handler := NewHandlers(service)

	postJSON(t, handler.HandleRegister, "/v1/auth/register", RegisterRequest{
		Email:    "login@example.com",
		Password: "correct-horse",
	})

	t.Run("Success", func(t *testing.T) {
		w := postJSON(t, handler.HandleLogin, "/v1/auth/login", LoginRequest{
			Email:    "login@example.com",
			Password: "correct-horse",
		})

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
		}

		var resp AuthResponse
		json.NewDecoder(w.Body).Decode(&resp)
		if resp.AccessToken == "" {
			t.Error("expected access_token not empty")
		}
	})

	t.Run("CaseInsensitiveEmail", func(t *testing.T) {
		w := postJSON(t, handler.HandleLogin, "/v1/auth/login", LoginRequest{
			Email:    "Login@Example.COM",
			Password: "correct-horse",
		})

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		w := postJSON(t, handler.HandleLogin, "/v1/auth/login", LoginRequest{
			Email:    "login@example.com",
			Password: "wrong-password",
		})

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		w := postJSON(t, handler.HandleLogin, "/v1/auth/login", LoginRequest{
			Email:    "nobody@example.com",
			Password: "correct-horse",
		})

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", w.Code)
		}
	})
}

func TestHandleDevAuth(t *testing.T) {
	service := setupTestService()
	handler := NewHandlers(service)

	req := httptest.NewRequest("POST", "/v1/auth/dev", nil)
	w := httptest.NewRecorder()
	handler.HandleDevAuth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp DevAuthResponse
	json.NewDecoder(w.Body).Decode(&resp)

	sub, err := service.VerifyJWT(resp.AccessToken)
	if err != nil {
		t.Fatalf("VerifyJWT: %v", err)
	}
	if sub != "dev-user" {
		t.Errorf("token sub = %q, want dev-user", sub)
	}
}

func TestMiddlewareRequireAuth(t *testing.T) {
	service := setupTestService()
	cfg := &config.Config{
		AuthMode:      "password",
		AuthEnabled:   true,
		AuthRequired:  true,
		JWTSecret:     "test-secret-key-for-testing-only",
		JWTIssuer:     "eatpal-test",
		JWTTTLMinutes: 60,
	}
	mw := NewMiddleware(cfg, service)

	var gotUserID string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("NoToken", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/diary/entry", nil)
		w := httptest.NewRecorder()
		mw.RequireAuth(next).ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("ValidToken", func(t *testing.T) {
		token, err := service.generateJWTWithTTL("user-42", time.Minute)
		if err != nil {
			t.Fatal(err)
		}

		req := httptest.NewRequest("GET", "/v1/diary/entry", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		mw.RequireAuth(next).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		if gotUserID != "user-42" {
			t.Errorf("user id in context = %q, want user-42", gotUserID)
		}
	})

	t.Run("PublicPathBypassesAuth", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/healthz", nil)
		w := httptest.NewRecorder()
		mw.RequireAuth(next).ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
	})
}
