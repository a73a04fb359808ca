package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fdg312/eatpal/internal/auth"
	"github.com/fdg312/eatpal/internal/blob"
	"github.com/fdg312/eatpal/internal/catalog"
	"github.com/fdg312/eatpal/internal/config"
	"github.com/fdg312/eatpal/internal/diary"
	"github.com/fdg312/eatpal/internal/goals"
	"github.com/fdg312/eatpal/internal/nutritionix"
	"github.com/fdg312/eatpal/internal/reports"
	"github.com/fdg312/eatpal/internal/storage"
	"github.com/fdg312/eatpal/internal/storage/memory"
	"github.com/fdg312/eatpal/internal/storage/postgres"
)

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Storage
	authMiddleware *auth.Middleware
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) *Server {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	// Инициализируем storage
	s.initStorage()

	// Регистрируем маршруты
	s.routes()
	return s
}

// initStorage инициализирует storage (Memory или Postgres)
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("Используется in-memory storage")
		s.storage = memory.New()
	} else {
		log.Println("Подключение к PostgreSQL...")
		ctx := context.Background()
		pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
		if err != nil {
			log.Printf("Ошибка подключения к PostgreSQL: %v", err)
			log.Println("Fallback на in-memory storage")
			s.storage = memory.New()
		} else {
			log.Println("PostgreSQL подключен успешно")
			s.storage = pgStorage
		}
	}
}

// routes регистрирует маршруты
func (s *Server) routes() {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth API (no auth required)
	authService := auth.NewService(s.config, s.storage)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/register - email+password registration
	s.mux.HandleFunc("POST /v1/auth/register", authHandler.HandleRegister)

	// POST /v1/auth/login - email+password login
	s.mux.HandleFunc("POST /v1/auth/login", authHandler.HandleLogin)

	// POST /v1/auth/dev - local dev token
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Blob stores (food photos follow BLOB_MODE, reports may override)
	photosBlobStore, reportsBlobStore := s.initBlobStores()

	// Food catalog API
	remote := &nutritionix.Client{
		AppID:   s.config.NutritionixAppID,
		AppKey:  s.config.NutritionixAppKey,
		BaseURL: s.config.NutritionixBaseURL,
		HTTPClient: &http.Client{
			Timeout: time.Duration(s.config.NutritionixTimeoutSeconds) * time.Second,
		},
	}
	catalogService := catalog.NewService(remote, s.getCatalogStorage(), photosBlobStore, s.config.RecentFoodsLimit)
	catalogHandler := catalog.NewHandlers(catalogService, s.config)

	// GET /v1/foods/search?q= - search foods (empty query = popular)
	s.mux.HandleFunc("GET /v1/foods/search", catalogHandler.HandleSearch)

	// GET /v1/foods/favorites - list favorite foods
	s.mux.HandleFunc("GET /v1/foods/favorites", catalogHandler.HandleListFavorites)

	// GET /v1/foods/recent - recently logged foods
	s.mux.HandleFunc("GET /v1/foods/recent", catalogHandler.HandleListRecents)

	// GET /v1/foods/{id} - food details
	s.mux.HandleFunc("GET /v1/foods/{id}", catalogHandler.HandleGetDetails)

	// PUT /v1/foods/{id}/favorite - mark favorite
	s.mux.HandleFunc("PUT /v1/foods/{id}/favorite", catalogHandler.HandleAddFavorite)

	// DELETE /v1/foods/{id}/favorite - unmark favorite
	s.mux.HandleFunc("DELETE /v1/foods/{id}/favorite", catalogHandler.HandleRemoveFavorite)

	// POST /v1/foods/{id}/photo - upload food photo
	s.mux.HandleFunc("POST /v1/foods/{id}/photo", catalogHandler.HandleUploadPhoto)

	// GET /v1/foods/{id}/photo - download food photo
	s.mux.HandleFunc("GET /v1/foods/{id}/photo", catalogHandler.HandleGetPhoto)

	// Calorie goal API
	goalsService := goals.NewService(s.getGoalsStorage(), s.config.DefaultCalorieGoal)
	goalsHandler := goals.NewHandlers(goalsService)

	// GET /v1/goal - current calorie goal
	s.mux.HandleFunc("GET /v1/goal", goalsHandler.HandleGet)

	// PUT /v1/goal - update calorie goal
	s.mux.HandleFunc("PUT /v1/goal", goalsHandler.HandleUpdate)

	// Diary API
	diaryService := diary.NewService(s.getDiaryStorage(), goalsService, catalogService)
	diaryHandler := diary.NewHandlers(diaryService)

	// GET /v1/diary/entry - current (or ?date=) entry with totals
	s.mux.HandleFunc("GET /v1/diary/entry", diaryHandler.HandleGetEntry)

	// PUT /v1/diary/date - jump to a date
	s.mux.HandleFunc("PUT /v1/diary/date", diaryHandler.HandleSetDate)

	// POST /v1/diary/navigate - step to next/prev day
	s.mux.HandleFunc("POST /v1/diary/navigate", diaryHandler.HandleNavigate)

	// POST /v1/diary/food - log food
	s.mux.HandleFunc("POST /v1/diary/food", diaryHandler.HandleAddFood)

	// DELETE /v1/diary/food/{id} - remove logged food
	s.mux.HandleFunc("DELETE /v1/diary/food/{id}", diaryHandler.HandleRemoveFood)

	// POST /v1/diary/exercise - log exercise
	s.mux.HandleFunc("POST /v1/diary/exercise", diaryHandler.HandleAddExercise)

	// DELETE /v1/diary/exercise/{id} - remove logged exercise
	s.mux.HandleFunc("DELETE /v1/diary/exercise/{id}", diaryHandler.HandleRemoveExercise)

	// PUT /v1/diary/water - set water for the day
	s.mux.HandleFunc("PUT /v1/diary/water", diaryHandler.HandleSetWater)

	// Reports API
	reportsService := reports.NewService(
		s.getReportsStorage(),
		s.getDiaryStorage(),
		goalsService,
		reportsBlobStore,
		s.config.ReportsMaxRangeDays,
		s.config.Blob.S3.PresignTTLSeconds,
		s.config.Blob.S3.PublicBaseURL,
		s.config.Blob.S3.PreferPublicURL,
	)
	reportsHandler := reports.NewHandlers(reportsService)

	// POST /v1/reports - create report
	s.mux.HandleFunc("POST /v1/reports", reportsHandler.HandleCreate)

	// GET /v1/reports - list reports
	s.mux.HandleFunc("GET /v1/reports", reportsHandler.HandleList)

	// GET /v1/reports/{id}/download - download report
	s.mux.HandleFunc("GET /v1/reports/{id}/download", reportsHandler.HandleDownload)

	// DELETE /v1/reports/{id} - delete report
	s.mux.HandleFunc("DELETE /v1/reports/{id}", reportsHandler.HandleDelete)
}

// getDiaryStorage returns the diary storage based on storage type
func (s *Server) getDiaryStorage() storage.DiaryStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetDiaryStorage()
	case *postgres.PostgresStorage:
		return st.GetDiaryStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// getGoalsStorage returns the goals storage based on storage type
func (s *Server) getGoalsStorage() storage.GoalsStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetGoalsStorage()
	case *postgres.PostgresStorage:
		return st.GetGoalsStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// getCatalogStorage returns the catalog storage based on storage type
func (s *Server) getCatalogStorage() storage.CatalogStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetCatalogStorage()
	case *postgres.PostgresStorage:
		return st.GetCatalogStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// getReportsStorage returns the reports storage based on storage type
func (s *Server) getReportsStorage() storage.ReportsStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetReportsStorage()
	case *postgres.PostgresStorage:
		return st.GetReportsStorage()
	default:
		log.Fatal("unknown storage type")
		return nil
	}
}

// initBlobStores initializes blob stores for food photos and reports.
// Photos always follow BLOB_MODE, reports may override via REPORTS_MODE.
func (s *Server) initBlobStores() (photosStore blob.Store, reportsStore blob.Store) {
	// Initialize photos blob store
	photosCfg := s.config.Blob
	photosCfg.ReportsModeSet = false
	photosCfg.ReportsMode = photosCfg.Mode

	log.Printf("INFO blob: initializing photos store (BLOB_MODE=%s)", photosCfg.Mode)
	baseStore, baseMode, err := blob.NewBlobStore(photosCfg, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize photos store: %v", err)
	}
	log.Printf("INFO blob: photos blob mode: %s", baseMode)

	// Initialize reports blob store (may override)
	effectiveReportsMode := s.config.Blob.EffectiveReportsMode()
	if !s.config.Blob.ReportsModeSet || effectiveReportsMode == s.config.Blob.Mode {
		log.Printf("INFO blob: reports blob mode: %s (same as photos)", baseMode)
		return baseStore, baseStore
	}

	log.Printf("INFO blob: initializing reports store (REPORTS_MODE=%s, override from BLOB_MODE=%s)", effectiveReportsMode, s.config.Blob.Mode)
	reportsCfg := s.config.Blob
	reportsCfg.Mode = effectiveReportsMode
	reportsCfg.ReportsModeSet = false
	reportsCfg.ReportsMode = effectiveReportsMode

	reportsBlobStore, reportsMode, err := blob.NewBlobStore(reportsCfg, log.Default())
	if err != nil {
		log.Fatalf("FATAL blob: failed to initialize reports store: %v", err)
	}

	// If override resolves to same mode, reuse the base store/client.
	if reportsMode == baseMode {
		log.Printf("INFO blob: reports blob mode: %s (resolved to same as photos, reusing store)", reportsMode)
		return baseStore, baseStore
	}

	log.Printf("INFO blob: reports blob mode: %s (separate store)", reportsMode)
	return baseStore, reportsBlobStore
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	// Build middleware chain (outermost first): CORS → Rate Limit → Auth → Router
	var handler http.Handler = s.mux
	if s.authMiddleware != nil && s.config.AuthMode != "none" {
		if s.config.AuthRequired {
			handler = s.authMiddleware.RequireAuth(handler)
		} else {
			handler = s.authMiddleware.OptionalAuth(handler)
		}
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)

	log.Printf("Сервер запущен на http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Diary API: http://localhost%s/v1/diary/entry\n", addr)

	return http.ListenAndServe(addr, handler)
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
