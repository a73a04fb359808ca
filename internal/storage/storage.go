package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrEmailTaken возвращается при попытке регистрации уже занятого email.
var ErrEmailTaken = errors.New("email already registered")

// User представляет учётную запись пользователя
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Storage — интерфейс для работы с пользователями
type Storage interface {
	// CreateUser создаёт нового пользователя
	CreateUser(ctx context.Context, user *User) error

	// GetUser возвращает пользователя по ID
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)

	// GetUserByEmail возвращает пользователя по email
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// Close закрывает соединение (для Postgres)
	Close() error
}

// DiaryStorage — интерфейс для хранения дневника питания
type DiaryStorage interface {
	// UpsertDay сохраняет запись дневника за день (upsert по user_id, date)
	UpsertDay(ctx context.Context, userID string, date string, payload []byte) error

	// GetDay возвращает запись дневника за день. nil payload — записи нет.
	GetDay(ctx context.Context, userID string, date string) ([]byte, error)

	// ListDays возвращает записи дневника за период
	ListDays(ctx context.Context, userID string, from, to string) ([]DiaryDayRow, error)
}

// DiaryDayRow — строка из diary_days
type DiaryDayRow struct {
	UserID    string
	Date      string // YYYY-MM-DD
	Payload   []byte // JSON
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GoalsStorage — интерфейс для калорийной цели пользователя
type GoalsStorage interface {
	// GetCalorieGoal возвращает цель пользователя. bool=false означает not found.
	GetCalorieGoal(ctx context.Context, userID string) (int, bool, error)

	// UpsertCalorieGoal создаёт или обновляет цель пользователя
	UpsertCalorieGoal(ctx context.Context, userID string, calories int) error
}

// CatalogStorage manages per-user food catalog state: favorites, recently
// logged foods and custom food photos.
type CatalogStorage interface {
	// AddFavorite marks a food as favorite (idempotent)
	AddFavorite(ctx context.Context, userID string, foodID string) error

	// RemoveFavorite unmarks a food as favorite (idempotent)
	RemoveFavorite(ctx context.Context, userID string, foodID string) error

	// ListFavorites returns the favorite food ids for a user
	ListFavorites(ctx context.Context, userID string) ([]string, error)

	// MarkRecent records that a food was added to the diary at the given time,
	// overwriting any earlier timestamp for the same food
	MarkRecent(ctx context.Context, userID string, foodID string, at time.Time) error

	// ListRecents returns food ids ordered by most recent first
	ListRecents(ctx context.Context, userID string, limit int) ([]RecentFood, error)

	// SetFoodPhoto stores the photo reference for a food
	SetFoodPhoto(ctx context.Context, userID string, foodID string, photo *FoodPhoto) error

	// GetFoodPhoto returns the photo reference for a food. nil — нет фото.
	GetFoodPhoto(ctx context.Context, userID string, foodID string) (*FoodPhoto, error)
}

// RecentFood — продукт, недавно добавленный в дневник
type RecentFood struct {
	FoodID  string
	AddedAt time.Time
}

// FoodPhoto — ссылка на пользовательское фото продукта
type FoodPhoto struct {
	UserID      string
	FoodID      string
	ObjectKey   *string // S3 object key (NULL for memory mode)
	ContentType string
	SizeBytes   int64
	Data        []byte // Only used in memory mode (not stored in DB)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ReportsStorage — интерфейс для работы с отчётами
type ReportsStorage interface {
	// CreateReport создаёт новый отчёт (metadata + optional data for memory mode)
	CreateReport(ctx context.Context, report *ReportMeta) error

	// GetReport возвращает отчёт по ID
	GetReport(ctx context.Context, id uuid.UUID) (*ReportMeta, error)

	// ListReports возвращает список отчётов пользователя с пагинацией
	ListReports(ctx context.Context, userID string, limit, offset int) ([]ReportMeta, error)

	// DeleteReport удаляет отчёт (metadata и данные)
	DeleteReport(ctx context.Context, id uuid.UUID) error
}

// ReportMeta — метаданные отчёта
type ReportMeta struct {
	ID        uuid.UUID
	UserID    string
	Format    string  // "pdf" or "csv"
	FromDate  string  // YYYY-MM-DD
	ToDate    string  // YYYY-MM-DD
	ObjectKey *string // S3 object key (NULL for memory mode)
	SizeBytes int64
	Status    string // "ready" or "failed"
	Error     *string
	CreatedAt time.Time
	UpdatedAt time.Time
	Data      []byte // Only used in memory mode (not stored in DB)
}
