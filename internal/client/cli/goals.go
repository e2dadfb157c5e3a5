package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/server/models"
)

func (a *App) Goals(ctx context.Context) error {
	goals, err := a.api.Goals(ctx)
	if err != nil {
		return err
	}
	printGoals(a.out, goals)
	return nil
}

func (a *App) AddGoal(ctx context.Context) error {
	names := make([]string, len(models.GoalTypes))
	for i, t := range models.GoalTypes {
		names[i] = string(t)
	}

	gt, err := getSimpleText(a.reader, fmt.Sprintf("Goal type (%s)", strings.Join(names, ", ")), a.out)
	if err != nil {
		return err
	}
	target, err := GetFloat(a.reader, "Target value", a.out)
	if err != nil {
		return err
	}

	g, err := a.api.CreateGoal(ctx, models.GoalInput{GoalType: models.GoalType(gt), TargetValue: target})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Goal #%d created\n", g.ID)
	return nil
}

// AddActivity logs an activity against a goal and then recomputes the goal,
// since creating an activity does not update progress by itself.
func (a *App) AddActivity(ctx context.Context) error {
	goalID, err := GetID(a.reader, "Goal id", a.out)
	if err != nil {
		return err
	}
	kind, err := getSimpleText(a.reader, "Activity type (e.g. running, cycling)", a.out)
	if err != nil {
		return err
	}

	in := models.ActivityInput{GoalID: goalID, ActivityType: kind}
	nums := []struct {
		prompt string
		dst    **float64
	}{
		{"Calories burnt", &in.CaloriesBurnt},
		{"Distance (km)", &in.Distance},
		{"Duration (minutes)", &in.Duration},
	}
	for _, n := range nums {
		v, err := GetFloat(a.reader, n.prompt+" [0]", a.out)
		if err != nil && !errors.Is(err, errEmptyInput) {
			return err
		}
		*n.dst = &v
	}

	act, err := a.api.CreateActivity(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Activity #%d logged\n", act.ID)

	v, err := a.api.RecomputeGoal(ctx, goalID)
	if err != nil {
		return fmt.Errorf("activity saved but goal progress not updated: %w", err)
	}
	fmt.Fprintf(a.out, "Goal #%d progress: %s\n", goalID, formatValue(v))
	return nil
}

// Activities lists the activities of one goal, or all of them when no goal
// id is given.
func (a *App) Activities(ctx context.Context) error {
	goalID, err := GetID(a.reader, "Goal id (empty for all)", a.out)
	if err != nil && !errors.Is(err, errEmptyInput) {
		return err
	}

	var list []models.Activity
	if goalID == 0 {
		list, err = a.api.Activities(ctx)
	} else {
		list, err = a.api.GoalActivities(ctx, goalID)
	}
	if err != nil {
		return err
	}
	printActivities(a.out, list)
	return nil
}

func (a *App) Recompute(ctx context.Context) error {
	goalID, err := GetID(a.reader, "Goal id", a.out)
	if err != nil {
		return err
	}
	v, err := a.api.RecomputeGoal(ctx, goalID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Goal #%d progress: %s\n", goalID, formatValue(v))
	return nil
}

func (a *App) DeleteGoal(ctx context.Context) error {
	goalID, err := GetID(a.reader, "Goal id", a.out)
	if err != nil {
		return err
	}
	ok, err := Confirm(a.reader, fmt.Sprintf("Delete goal #%d and its activities?", goalID), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.api.DeleteGoal(ctx, goalID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Goal #%d deleted\n", goalID)
	return nil
}

func (a *App) Report(ctx context.Context) error {
	r, err := a.api.WeeklyReport(ctx)
	if err != nil {
		return err
	}
	printReport(a.out, r, time.Local)
	return nil
}
