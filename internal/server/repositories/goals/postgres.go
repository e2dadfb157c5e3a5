package goals

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/dbx"
	"github.com/dmitrijs2005/fittrack/internal/server/models"
)

const goalColumns = `id, user_id, goal_type, target_value, current_value, start_date, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGoal(s scanner) (models.Goal, error) {
	var (
		g         models.Goal
		goalType  string
		updatedAt sql.NullTime
	)
	if err := s.Scan(&g.ID, &g.UserID, &goalType, &g.TargetValue, &g.CurrentValue, &g.StartDate, &updatedAt); err != nil {
		return g, err
	}
	g.GoalType = models.GoalType(goalType)
	if updatedAt.Valid {
		g.UpdatedAt = &updatedAt.Time
	}
	return g, nil
}

// Create inserts goal with a zero current value. StartDate is used when
// set, otherwise the database clock decides.
func (r *PostgresRepository) Create(ctx context.Context, goal *models.Goal) (*models.Goal, error) {
	query :=
		`INSERT INTO goals (user_id, goal_type, target_value, current_value, start_date)
		 VALUES ($1, $2, $3, 0, COALESCE($4, now()))
		 RETURNING ` + goalColumns

	var start sql.NullTime
	if !goal.StartDate.IsZero() {
		start = sql.NullTime{Time: goal.StartDate, Valid: true}
	}

	g, err := scanGoal(r.db.QueryRowContext(ctx, query, goal.UserID, string(goal.GoalType), goal.TargetValue, start))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &g, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID int64) ([]models.Goal, error) {
	query :=
		`SELECT ` + goalColumns + ` FROM goals
		 WHERE user_id = $1
		 ORDER BY start_date DESC, id DESC
		 `
	return r.list(ctx, query, userID)
}

// ListIncomplete returns the goals whose current value is still below target.
func (r *PostgresRepository) ListIncomplete(ctx context.Context, userID int64) ([]models.Goal, error) {
	query :=
		`SELECT ` + goalColumns + ` FROM goals
		 WHERE user_id = $1 AND current_value < target_value
		 ORDER BY start_date DESC, id DESC
		 `
	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.Goal, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Goal, 0)
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) LockShared(ctx context.Context, userID, goalID int64) error {
	query :=
		`SELECT id FROM goals
		 WHERE id = $1 AND user_id = $2
		 FOR SHARE
		 `

	var id int64
	if err := r.db.QueryRowContext(ctx, query, goalID, userID).Scan(&id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return common.ErrNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) LockForUpdate(ctx context.Context, userID, goalID int64) (*models.Goal, error) {
	query :=
		`SELECT ` + goalColumns + ` FROM goals
		 WHERE id = $1 AND user_id = $2
		 FOR UPDATE
		 `

	g, err := scanGoal(r.db.QueryRowContext(ctx, query, goalID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &g, nil
}

func (r *PostgresRepository) SetCurrentValue(ctx context.Context, goalID int64, value float64, at time.Time) error {
	query :=
		`UPDATE goals SET current_value = $2, updated_at = $3
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, goalID, value, at)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, goalID int64) error {
	query :=
		`DELETE FROM goals
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, goalID, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
