package profiles

import (
	"context"

	"github.com/dmitrijs2005/fittrack/internal/server/models"
)

type Repository interface {
	// Upsert creates or replaces the profile of userID in a single statement.
	// created is true when no profile existed before.
	Upsert(ctx context.Context, userID int64, in models.ProfileInput) (profile *models.Profile, created bool, err error)
	Get(ctx context.Context, userID int64) (*models.Profile, error)
	SetAvatarKey(ctx context.Context, userID int64, key string) error
}
