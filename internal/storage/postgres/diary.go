package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/fdg312/eatpal/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresDiaryStorage — Postgres storage для дневника питания
type PostgresDiaryStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresDiaryStorage создаёт новое Postgres хранилище
func NewPostgresDiaryStorage(pool *pgxpool.Pool) *PostgresDiaryStorage {
	return &PostgresDiaryStorage{pool: pool}
}

// UpsertDay сохраняет запись за день (upsert по user_id, date)
func (s *PostgresDiaryStorage) UpsertDay(ctx context.Context, userID string, date string, payload []byte) error {
	query := `
		INSERT INTO diary_days (user_id, date, payload, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (user_id, date)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`

	_, err := s.pool.Exec(ctx, query, userID, date, payload)
	if err != nil {
		return fmt.Errorf("failed to upsert diary day: %w", err)
	}

	return nil
}

// GetDay возвращает payload за день, nil если записи нет
func (s *PostgresDiaryStorage) GetDay(ctx context.Context, userID string, date string) ([]byte, error) {
	query := `
		SELECT payload
		FROM diary_days
		WHERE user_id = $1 AND date = $2
	`

	var payload []byte
	err := s.pool.QueryRow(ctx, query, userID, date).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		// Записи за этот день ещё нет
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get diary day: %w", err)
	}

	return payload, nil
}

// ListDays возвращает записи за период [from, to]
func (s *PostgresDiaryStorage) ListDays(ctx context.Context, userID string, from, to string) ([]storage.DiaryDayRow, error) {
	query := `
		SELECT user_id, date, payload, created_at, updated_at
		FROM diary_days
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := s.pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list diary days: %w", err)
	}
	defer rows.Close()

	var result []storage.DiaryDayRow
	for rows.Next() {
		var row storage.DiaryDayRow
		if err := rows.Scan(
			&row.UserID,
			&row.Date,
			&row.Payload,
			&row.CreatedAt,
			&row.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan diary day: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
