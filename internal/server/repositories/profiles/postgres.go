package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

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

// Upsert relies on xmax being zero only for freshly inserted rows to tell
// an insert from an update.
func (r *PostgresRepository) Upsert(ctx context.Context, userID int64, in models.ProfileInput) (*models.Profile, bool, error) {
	query :=
		`INSERT INTO profiles (user_id, height, weight, difficulty_level)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id) DO UPDATE
		 SET height = EXCLUDED.height,
		     weight = EXCLUDED.weight,
		     difficulty_level = EXCLUDED.difficulty_level,
		     updated_at = now()
		 RETURNING user_id, height, weight, difficulty_level, avatar_key, updated_at, (xmax = 0) AS created
		 `

	var (
		p       models.Profile
		level   string
		avatar  sql.NullString
		created bool
	)
	err := r.db.QueryRowContext(ctx, query, userID, in.Height, in.Weight, string(in.DifficultyLevel)).
		Scan(&p.UserID, &p.Height, &p.Weight, &level, &avatar, &p.UpdatedAt, &created)
	if err != nil {
		return nil, false, fmt.Errorf("db error: %w", err)
	}

	fill(&p, level, avatar)
	return &p, created, nil
}

func (r *PostgresRepository) Get(ctx context.Context, userID int64) (*models.Profile, error) {
	query :=
		`SELECT user_id, height, weight, difficulty_level, avatar_key, updated_at FROM profiles
		 WHERE user_id = $1
		 `

	var (
		p      models.Profile
		level  string
		avatar sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, userID).
		Scan(&p.UserID, &p.Height, &p.Weight, &level, &avatar, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	fill(&p, level, avatar)
	return &p, nil
}

// SetAvatarKey records the object key of the user's avatar. It fails with
// common.ErrNotFound when the user has no profile yet.
func (r *PostgresRepository) SetAvatarKey(ctx context.Context, userID int64, key string) error {
	query :=
		`UPDATE profiles SET avatar_key = $2, updated_at = now()
		 WHERE user_id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, userID, key)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func fill(p *models.Profile, level string, avatar sql.NullString) {
	p.DifficultyLevel = models.DifficultyLevel(level)
	if avatar.Valid {
		p.AvatarKey = &avatar.String
		p.HasAvatar = true
	}
}
