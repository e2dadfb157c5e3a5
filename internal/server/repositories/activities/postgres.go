package activities

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/dbx"
	"github.com/dmitrijs2005/fittrack/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts activity. A zero Date means "now" on the database clock.
func (r *PostgresRepository) Create(ctx context.Context, activity *models.Activity) (*models.Activity, error) {
	query :=
		`INSERT INTO activities (user_id, activity_type, calories_burnt, distance, duration, date)
		 VALUES ($1, $2, $3, $4, $5, COALESCE($6, now()))
		 RETURNING id, date
		 `

	var date any
	if !activity.Date.IsZero() {
		date = activity.Date
	}

	a := *activity
	err := r.db.QueryRowContext(ctx, query,
		a.UserID, a.ActivityType, a.CaloriesBurnt, a.Distance, a.Duration, date).
		Scan(&a.ID, &a.Date)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &a, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.Activity, error) {
	query :=
		`SELECT id, user_id, activity_type, calories_burnt, distance, duration, date FROM activities
		 WHERE user_id = $1
		 ORDER BY date DESC, id DESC
		 `
	return r.list(ctx, query, userID)
}

// ListByGoal returns the activities linked to goalID. Filtering on userID as
// well keeps another user's goal id from leaking anything.
func (r *PostgresRepository) ListByGoal(ctx context.Context, userID, goalID int64) ([]models.Activity, error) {
	query :=
		`SELECT a.id, a.user_id, a.activity_type, a.calories_burnt, a.distance, a.duration, a.date
		 FROM activities a
		 JOIN achieves ach ON ach.activity_id = a.id
		 WHERE ach.goal_id = $1 AND a.user_id = $2
		 ORDER BY a.date DESC, a.id DESC
		 `
	return r.list(ctx, query, goalID, userID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.Activity, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Activity, 0)
	for rows.Next() {
		var a models.Activity
		if err := rows.Scan(&a.ID, &a.UserID, &a.ActivityType, &a.CaloriesBurnt, &a.Distance, &a.Duration, &a.Date); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) SumForGoal(ctx context.Context, goalID int64, goalType models.GoalType) (float64, error) {
	column, err := goalType.Column()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	// column comes from a closed switch, never from input.
	query :=
		`SELECT COALESCE(SUM(a.` + column + `), 0)
		 FROM activities a
		 JOIN achieves ach ON ach.activity_id = a.id
		 WHERE ach.goal_id = $1
		 `

	var total float64
	if err := r.db.QueryRowContext(ctx, query, goalID).Scan(&total); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return total, nil
}

// DeleteByIDs removes the listed activities. The ids travel as one bigint[]
// parameter so the statement stays within the bind-parameter limit however
// many activities a goal has.
func (r *PostgresRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// Totals aggregates the user's activities dated in [from, to).
func (r *PostgresRepository) Totals(ctx context.Context, userID int64, from, to time.Time) (models.ActivityTotals, error) {
	query :=
		`SELECT COUNT(*),
		        COALESCE(SUM(calories_burnt), 0),
		        COALESCE(SUM(distance), 0),
		        COALESCE(SUM(duration), 0)
		 FROM activities
		 WHERE user_id = $1 AND date >= $2 AND date < $3
		 `

	var t models.ActivityTotals
	if err := r.db.QueryRowContext(ctx, query, userID, from, to).
		Scan(&t.Count, &t.CaloriesBurnt, &t.Distance, &t.Duration); err != nil {
		return models.ActivityTotals{}, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}
