package activities

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, activity *models.Activity) (*models.Activity, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Activity, error)
	ListByGoal(ctx context.Context, userID, goalID int64) ([]models.Activity, error)
	// SumForGoal sums the column selected by goalType over the activities
	// linked to goalID. No linked activities sum to 0.
	SumForGoal(ctx context.Context, goalID int64, goalType models.GoalType) (float64, error)
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
	Totals(ctx context.Context, userID int64, from, to time.Time) (models.ActivityTotals, error)
}
