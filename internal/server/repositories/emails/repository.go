package emails

import (
	"context"

	"github.com/dmitrijs2005/fittrack/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, userID int64, address string) (*models.Email, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Email, error)
}
