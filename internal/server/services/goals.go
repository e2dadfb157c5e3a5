package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/dbx"
	"github.com/dmitrijs2005/fittrack/internal/server/models"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/repomanager"
)

// ReportWindow is the span covered by WeeklyReport.
const ReportWindow = 7 * 24 * time.Hour

// RecomputeRecorder is told about every successful goal recompute.
type RecomputeRecorder interface {
	GoalRecomputed(goalType string)
}

type noopRecorder struct{}

func (noopRecorder) GoalRecomputed(string) {}

// GoalService owns goals, activities and the progress of the former as the
// sum of the latter.
type GoalService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	recorder    RecomputeRecorder
	now         func() time.Time
}

func NewGoalService(db *sql.DB, repomanager repomanager.RepositoryManager, recorder RecomputeRecorder) *GoalService {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &GoalService{
		db:          db,
		repomanager: repomanager,
		recorder:    recorder,
		now:         time.Now,
	}
}

// CreateGoal starts a new goal with zero progress.
func (s *GoalService) CreateGoal(ctx context.Context, userID int64, in models.GoalInput) (*models.Goal, error) {
	if !in.GoalType.Valid() {
		return nil, fmt.Errorf("%w: unknown goal type %q", common.ErrValidation, string(in.GoalType))
	}
	if err := checkPositive("target_value", in.TargetValue, MaxMeasurement); err != nil {
		return nil, err
	}

	g, err := s.repomanager.Goals(s.db).Create(ctx, &models.Goal{
		UserID:      userID,
		GoalType:    in.GoalType,
		TargetValue: in.TargetValue,
		StartDate:   s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating goal: %w", err)
	}
	return g, nil
}

// CreateActivity logs an activity against one of the user's goals. The
// ownership check, the insert and the link happen in one transaction, so a
// failure leaves neither an activity nor a link behind. Progress is not
// recomputed here.
func (s *GoalService) CreateActivity(ctx context.Context, userID int64, in models.ActivityInput) (*models.Activity, error) {
	activity, err := validateActivity(userID, in)
	if err != nil {
		return nil, err
	}
	activity.Date = s.now()

	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.Activity, error) {
		if err := s.repomanager.Goals(tx).LockShared(ctx, userID, in.GoalID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, fmt.Errorf("%w: goal not found or does not belong to user", common.ErrNotFound)
			}
			return nil, fmt.Errorf("error verifying goal ownership: %w", err)
		}

		a, err := s.repomanager.Activities(tx).Create(ctx, activity)
		if err != nil {
			return nil, fmt.Errorf("error creating activity: %w", err)
		}

		if err := s.repomanager.Achievements(tx).Link(ctx, in.GoalID, a.ID); err != nil {
			return nil, fmt.Errorf("error linking activity to goal: %w", err)
		}
		return a, nil
	})
}

// RecomputeGoal sets the goal's current value to the sum of the column its
// type selects over all linked activities and returns that value. The goal
// row stays locked until the new value is written, so concurrent recomputes
// of one goal run one after another and each sees a full sum.
func (s *GoalService) RecomputeGoal(ctx context.Context, userID, goalID int64) (float64, error) {
	var goalType models.GoalType

	value, err := dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (float64, error) {
		g, err := s.repomanager.Goals(tx).LockForUpdate(ctx, userID, goalID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return 0, fmt.Errorf("%w: no goal found for user", common.ErrNotFound)
			}
			return 0, fmt.Errorf("error loading goal: %w", err)
		}
		if !g.GoalType.Valid() {
			return 0, fmt.Errorf("%w: invalid goal type %q", common.ErrValidation, string(g.GoalType))
		}
		goalType = g.GoalType

		total, err := s.repomanager.Activities(tx).SumForGoal(ctx, goalID, g.GoalType)
		if err != nil {
			return 0, fmt.Errorf("error calculating goal progress: %w", err)
		}

		if err := s.repomanager.Goals(tx).SetCurrentValue(ctx, goalID, total, s.now()); err != nil {
			return 0, fmt.Errorf("error updating goal: %w", err)
		}
		return total, nil
	})
	if err != nil {
		return 0, err
	}

	s.recorder.GoalRecomputed(string(goalType))
	return value, nil
}

// ListGoals returns the user's goals, newest first.
func (s *GoalService) ListGoals(ctx context.Context, userID int64) ([]models.Goal, error) {
	goals, err := s.repomanager.Goals(s.db).List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving goals: %w", err)
	}
	return goals, nil
}

// ListGoalActivities returns the activities linked to goalID, newest first.
// A goal that is gone or belongs to someone else simply has no activities.
func (s *GoalService) ListGoalActivities(ctx context.Context, userID, goalID int64) ([]models.Activity, error) {
	if goalID <= 0 {
		return nil, fmt.Errorf("%w: goal_id is required", common.ErrValidation)
	}
	list, err := s.repomanager.Activities(s.db).ListByGoal(ctx, userID, goalID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving activities: %w", err)
	}
	return list, nil
}

// ListActivities returns all of the user's activities, newest first.
func (s *GoalService) ListActivities(ctx context.Context, userID int64) ([]models.Activity, error) {
	list, err := s.repomanager.Activities(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving activities: %w", err)
	}
	return list, nil
}

// DeleteGoal removes the goal together with its links and the activities
// logged against it, all in one transaction.
func (s *GoalService) DeleteGoal(ctx context.Context, userID, goalID int64) error {
	if goalID <= 0 {
		return fmt.Errorf("%w: goal_id is required", common.ErrValidation)
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		goals := s.repomanager.Goals(tx)
		if _, err := goals.LockForUpdate(ctx, userID, goalID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return fmt.Errorf("%w: goal not found", common.ErrNotFound)
			}
			return fmt.Errorf("error loading goal: %w", err)
		}

		links := s.repomanager.Achievements(tx)
		ids, err := links.ListActivityIDs(ctx, goalID)
		if err != nil {
			return fmt.Errorf("error fetching activities for deletion: %w", err)
		}
		if _, err := links.DeleteByGoal(ctx, goalID); err != nil {
			return fmt.Errorf("error deleting goal associations: %w", err)
		}
		if _, err := s.repomanager.Activities(tx).DeleteByIDs(ctx, ids); err != nil {
			return fmt.Errorf("error deleting activities: %w", err)
		}
		if err := goals.Delete(ctx, userID, goalID); err != nil {
			return fmt.Errorf("error deleting goal: %w", err)
		}
		return nil
	})
}

// WeeklyReport totals the user's activities over the ReportWindow ending at
// now and lists the goals not yet reached.
func (s *GoalService) WeeklyReport(ctx context.Context, userID int64, now time.Time) (*models.WeeklyReport, error) {
	from := now.Add(-ReportWindow)

	totals, err := s.repomanager.Activities(s.db).Totals(ctx, userID, from, now)
	if err != nil {
		return nil, fmt.Errorf("error computing weekly totals: %w", err)
	}

	pending, err := s.repomanager.Goals(s.db).ListIncomplete(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error retrieving goals: %w", err)
	}

	report := &models.WeeklyReport{
		From:         from,
		To:           now,
		Totals:       totals,
		PendingGoals: make([]models.GoalProgress, 0, len(pending)),
	}
	for _, g := range pending {
		report.PendingGoals = append(report.PendingGoals, models.GoalProgress{Goal: g, Percent: g.Progress()})
	}
	return report, nil
}

func validateActivity(userID int64, in models.ActivityInput) (*models.Activity, error) {
	switch {
	case in.GoalID <= 0:
		return nil, fmt.Errorf("%w: goal ID is required", common.ErrValidation)
	case strings.TrimSpace(in.ActivityType) == "":
		return nil, fmt.Errorf("%w: activity type is required", common.ErrValidation)
	case in.CaloriesBurnt == nil:
		return nil, fmt.Errorf("%w: calories burnt is required", common.ErrValidation)
	case in.Distance == nil:
		return nil, fmt.Errorf("%w: distance is required", common.ErrValidation)
	case in.Duration == nil:
		return nil, fmt.Errorf("%w: duration is required", common.ErrValidation)
	}
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"calories_burnt", *in.CaloriesBurnt},
		{"distance", *in.Distance},
		{"duration", *in.Duration},
	} {
		if err := checkNonNegative(f.name, f.value, MaxMeasurement); err != nil {
			return nil, err
		}
	}

	return &models.Activity{
		UserID:        userID,
		ActivityType:  strings.TrimSpace(in.ActivityType),
		CaloriesBurnt: *in.CaloriesBurnt,
		Distance:      *in.Distance,
		Duration:      *in.Duration,
	}, nil
}
