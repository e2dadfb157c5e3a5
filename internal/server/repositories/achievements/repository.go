// Package achievements stores the links between goals and the activities
// that count towards them (the achieves table).
package achievements

import "context"

type Repository interface {
	Link(ctx context.Context, goalID, activityID int64) error
	ListActivityIDs(ctx context.Context, goalID int64) ([]int64, error)
	DeleteByGoal(ctx context.Context, goalID int64) (int64, error)
}
