package goals

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, goal *models.Goal) (*models.Goal, error)
	List(ctx context.Context, userID int64) ([]models.Goal, error)
	ListIncomplete(ctx context.Context, userID int64) ([]models.Goal, error)
	// LockShared takes a share lock on the goal if userID owns it. Must run
	// inside a transaction; returns common.ErrNotFound otherwise.
	LockShared(ctx context.Context, userID, goalID int64) error
	// LockForUpdate takes an exclusive lock on the goal if userID owns it
	// and returns it. Must run inside a transaction.
	LockForUpdate(ctx context.Context, userID, goalID int64) (*models.Goal, error)
	SetCurrentValue(ctx context.Context, goalID int64, value float64, at time.Time) error
	Delete(ctx context.Context, userID, goalID int64) error
}
