package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresGoalsStorage — Postgres storage для калорийных целей
type PostgresGoalsStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresGoalsStorage создаёт новое Postgres хранилище
func NewPostgresGoalsStorage(pool *pgxpool.Pool) *PostgresGoalsStorage {
	return &PostgresGoalsStorage{pool: pool}
}

// GetCalorieGoal возвращает цель пользователя. bool=false — цель не задана.
func (s *PostgresGoalsStorage) GetCalorieGoal(ctx context.Context, userID string) (int, bool, error) {
	query := `
		SELECT calories
		FROM calorie_goals
		WHERE user_id = $1
	`

	var calories int
	err := s.pool.QueryRow(ctx, query, userID).Scan(&calories)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get calorie goal: %w", err)
	}

	return calories, true, nil
}

// UpsertCalorieGoal создаёт или обновляет цель пользователя
func (s *PostgresGoalsStorage) UpsertCalorieGoal(ctx context.Context, userID string, calories int) error {
	query := `
		INSERT INTO calorie_goals (user_id, calories, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id)
		DO UPDATE SET calories = EXCLUDED.calories, updated_at = NOW()
	`

	_, err := s.pool.Exec(ctx, query, userID, calories)
	if err != nil {
		return fmt.Errorf("failed to upsert calorie goal: %w", err)
	}

	return nil
}
