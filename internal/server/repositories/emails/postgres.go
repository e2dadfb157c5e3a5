package emails

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fittrack/internal/dbx"
	"github.com/dmitrijs2005/fittrack/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID int64, address string) (*models.Email, error) {
	query :=
		`INSERT INTO emails (user_id, address)
		 VALUES ($1, $2)
		 RETURNING id
		 `

	e := &models.Email{UserID: userID, Address: address}
	if err := r.db.QueryRowContext(ctx, query, userID, address).Scan(&e.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return e, nil
}

// ListByUser returns the user's addresses in registration order.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]models.Email, error) {
	query :=
		`SELECT id, user_id, address FROM emails
		 WHERE user_id = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Email, 0)
	for rows.Next() {
		var e models.Email
		if err := rows.Scan(&e.ID, &e.UserID, &e.Address); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
