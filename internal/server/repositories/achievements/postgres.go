package achievements

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fittrack/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Link(ctx context.Context, goalID, activityID int64) error {
	query :=
		`INSERT INTO achieves (goal_id, activity_id)
		 VALUES ($1, $2)
		 `

	if _, err := r.db.ExecContext(ctx, query, goalID, activityID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListActivityIDs(ctx context.Context, goalID int64) ([]int64, error) {
	query :=
		`SELECT activity_id FROM achieves
		 WHERE goal_id = $1
		 ORDER BY activity_id
		 `

	rows, err := r.db.QueryContext(ctx, query, goalID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}

func (r *PostgresRepository) DeleteByGoal(ctx context.Context, goalID int64) (int64, error) {
	query :=
		`DELETE FROM achieves
		 WHERE goal_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, goalID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
