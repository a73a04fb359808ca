package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/fdg312/eatpal/internal/storage"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound = errors.New("user not found")
)

// PostgresStorage — Postgres реализация Storage и DiaryStorage
type PostgresStorage struct {
	pool    *pgxpool.Pool
	diary   *PostgresDiaryStorage
	goals   *PostgresGoalsStorage
	catalog *PostgresCatalogStorage
	reports *PostgresReportsStorage
}

// New создаёт PostgresStorage и проверяет соединение
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	return &PostgresStorage{
		pool:    pool,
		diary:   NewPostgresDiaryStorage(pool),
		goals:   NewPostgresGoalsStorage(pool),
		catalog: NewPostgresCatalogStorage(pool),
		reports: NewPostgresReportsStorage(pool),
	}, nil
}

func (p *PostgresStorage) CreateUser(ctx context.Context, user *storage.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (id, email, password_hash, name, created_at, updated_at)
		VALUES ($1, lower($2), $3, $4, $5, $6)
		ON CONFLICT (email) DO NOTHING
	`

	result, err := p.pool.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return storage.ErrEmailTaken
	}

	return nil
}

func (p *PostgresStorage) GetUser(ctx context.Context, id uuid.UUID) (*storage.User, error) {
	query := `
		SELECT id, email, password_hash, name, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	var user storage.User
	err := p.pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (p *PostgresStorage) GetUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	query := `
		SELECT id, email, password_hash, name, created_at, updated_at
		FROM users
		WHERE email = lower($1)
	`

	var user storage.User
	err := p.pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

// DiaryStorage methods - делегируем к встроенному diary storage

func (p *PostgresStorage) UpsertDay(ctx context.Context, userID string, date string, payload []byte) error {
	return p.diary.UpsertDay(ctx, userID, date, payload)
}

func (p *PostgresStorage) GetDay(ctx context.Context, userID string, date string) ([]byte, error) {
	return p.diary.GetDay(ctx, userID, date)
}

func (p *PostgresStorage) ListDays(ctx context.Context, userID string, from, to string) ([]storage.DiaryDayRow, error) {
	return p.diary.ListDays(ctx, userID, from, to)
}

// GetDiaryStorage returns the diary storage
func (p *PostgresStorage) GetDiaryStorage() *PostgresDiaryStorage {
	return p.diary
}

// GoalsStorage methods - delegate to embedded goals storage

func (p *PostgresStorage) GetCalorieGoal(ctx context.Context, userID string) (int, bool, error) {
	return p.goals.GetCalorieGoal(ctx, userID)
}

func (p *PostgresStorage) UpsertCalorieGoal(ctx context.Context, userID string, calories int) error {
	return p.goals.UpsertCalorieGoal(ctx, userID, calories)
}

// GetGoalsStorage returns the goals storage
func (p *PostgresStorage) GetGoalsStorage() *PostgresGoalsStorage {
	return p.goals
}

// GetCatalogStorage returns the catalog storage
func (p *PostgresStorage) GetCatalogStorage() *PostgresCatalogStorage {
	return p.catalog
}

// GetReportsStorage returns the reports storage
func (p *PostgresStorage) GetReportsStorage() *PostgresReportsStorage {
	return p.reports
}
