package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/dbx"
	"github.com/dmitrijs2005/fittrack/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE raised on a duplicate username.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts user and fills in its ID and CreatedAt. A duplicate
// username yields common.ErrConflict.
func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (first_name, last_name, username, password_hash, dob, age, gender)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.FirstName, user.LastName, user.UserName, user.PasswordHash, user.DOB, user.Age, user.Gender).
		Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: username %q is taken", common.ErrConflict, user.UserName)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetUserByLogin(ctx context.Context, userName string) (*models.User, error) {
	query :=
		`SELECT id, first_name, last_name, username, password_hash, dob, age, gender, created_at FROM users
		 WHERE username = $1
		 `

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, userName).Scan(
		&user.ID, &user.FirstName, &user.LastName, &user.UserName, &user.PasswordHash,
		&user.DOB, &user.Age, &user.Gender, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// GetDetails returns the public view of a user with the first registered
// e-mail, or nil Email when the user has none.
func (r *PostgresRepository) GetDetails(ctx context.Context, userID int64) (*models.UserDetails, error) {
	query :=
		`SELECT u.id, u.first_name, u.last_name, u.username, u.dob, u.age, u.gender, e.address
		 FROM users u
		 LEFT JOIN LATERAL (
		     SELECT address FROM emails WHERE user_id = u.id ORDER BY id LIMIT 1
		 ) e ON true
		 WHERE u.id = $1
		 `

	var (
		d     models.UserDetails
		dob   sql.NullTime
		email sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&d.ID, &d.FirstName, &d.LastName, &d.UserName, &dob, &d.Age, &d.Gender, &email)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if dob.Valid {
		d.DOB = dob.Time.Format(models.DateLayout)
	}
	if email.Valid {
		d.Email = &email.String
	}

	return &d, nil
}
