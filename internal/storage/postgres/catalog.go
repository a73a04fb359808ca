package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fdg312/eatpal/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresCatalogStorage — Postgres storage для избранного, недавних продуктов и фото
type PostgresCatalogStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresCatalogStorage создаёт новое Postgres хранилище
func NewPostgresCatalogStorage(pool *pgxpool.Pool) *PostgresCatalogStorage {
	return &PostgresCatalogStorage{pool: pool}
}

// AddFavorite отмечает продукт как избранный (идемпотентно)
func (s *PostgresCatalogStorage) AddFavorite(ctx context.Context, userID string, foodID string) error {
	query := `
		INSERT INTO favorite_foods (user_id, food_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT DO NOTHING
	`

	_, err := s.pool.Exec(ctx, query, userID, foodID)
	if err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}

	return nil
}

// RemoveFavorite снимает отметку избранного (идемпотентно)
func (s *PostgresCatalogStorage) RemoveFavorite(ctx context.Context, userID string, foodID string) error {
	query := `DELETE FROM favorite_foods WHERE user_id = $1 AND food_id = $2`

	_, err := s.pool.Exec(ctx, query, userID, foodID)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}

	return nil
}

// ListFavorites возвращает id избранных продуктов пользователя
func (s *PostgresCatalogStorage) ListFavorites(ctx context.Context, userID string) ([]string, error) {
	query := `
		SELECT food_id
		FROM favorite_foods
		WHERE user_id = $1
		ORDER BY food_id ASC
	`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan favorite: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// MarkRecent записывает время добавления продукта в дневник (upsert по user_id, food_id)
func (s *PostgresCatalogStorage) MarkRecent(ctx context.Context, userID string, foodID string, at time.Time) error {
	query := `
		INSERT INTO recent_foods (user_id, food_id, added_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, food_id)
		DO UPDATE SET added_at = EXCLUDED.added_at
	`

	_, err := s.pool.Exec(ctx, query, userID, foodID, at)
	if err != nil {
		return fmt.Errorf("failed to mark recent: %w", err)
	}

	return nil
}

// ListRecents возвращает id продуктов, самые свежие первыми
func (s *PostgresCatalogStorage) ListRecents(ctx context.Context, userID string, limit int) ([]storage.RecentFood, error) {
	query := `
		SELECT food_id, added_at
		FROM recent_foods
		WHERE user_id = $1
		ORDER BY added_at DESC
		LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recents: %w", err)
	}
	defer rows.Close()

	var recents []storage.RecentFood
	for rows.Next() {
		var r storage.RecentFood
		if err := rows.Scan(&r.FoodID, &r.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recent: %w", err)
		}
		recents = append(recents, r)
	}

	return recents, rows.Err()
}

// SetFoodPhoto сохраняет ссылку на фото продукта (upsert по user_id, food_id)
func (s *PostgresCatalogStorage) SetFoodPhoto(ctx context.Context, userID string, foodID string, photo *storage.FoodPhoto) error {
	query := `
		INSERT INTO food_photos (user_id, food_id, object_key, content_type, size_bytes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (user_id, food_id)
		DO UPDATE SET object_key = EXCLUDED.object_key,
			content_type = EXCLUDED.content_type,
			size_bytes = EXCLUDED.size_bytes,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := s.pool.QueryRow(ctx, query,
		userID,
		foodID,
		photo.ObjectKey,
		photo.ContentType,
		photo.SizeBytes,
	).Scan(&photo.CreatedAt, &photo.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to set food photo: %w", err)
	}

	photo.UserID = userID
	photo.FoodID = foodID
	return nil
}

// GetFoodPhoto возвращает фото продукта, nil если фото нет
func (s *PostgresCatalogStorage) GetFoodPhoto(ctx context.Context, userID string, foodID string) (*storage.FoodPhoto, error) {
	query := `
		SELECT user_id, food_id, object_key, content_type, size_bytes, created_at, updated_at
		FROM food_photos
		WHERE user_id = $1 AND food_id = $2
	`

	var photo storage.FoodPhoto
	err := s.pool.QueryRow(ctx, query, userID, foodID).Scan(
		&photo.UserID,
		&photo.FoodID,
		&photo.ObjectKey,
		&photo.ContentType,
		&photo.SizeBytes,
		&photo.CreatedAt,
		&photo.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get food photo: %w", err)
	}

	return &photo, nil
}
