package models

import (
	"fmt"
	"time"
)

type GoalType string

const (
	GoalWeightLoss       GoalType = "weight_loss"
	GoalRunningDistance  GoalType = "running_distance"
	GoalExerciseDuration GoalType = "exercise_duration"
	GoalDailyStep        GoalType = "daily_step"
)

// GoalTypes lists every known goal type in a stable order.
var GoalTypes = []GoalType{GoalWeightLoss, GoalRunningDistance, GoalExerciseDuration, GoalDailyStep}

func (t GoalType) Valid() bool {
	_, err := t.Column()
	return err == nil
}

// Column returns the activities column whose sum makes up progress
// towards a goal of this type.
func (t GoalType) Column() (string, error) {
	switch t {
	case GoalWeightLoss:
		return "calories_burnt", nil
	case GoalRunningDistance, GoalDailyStep:
		return "distance", nil
	case GoalExerciseDuration:
		return "duration", nil
	}
	return "", fmt.Errorf("unknown goal type %q", string(t))
}

type Goal struct {
	ID           int64      `json:"goal_id"`
	UserID       int64      `json:"user_id"`
	GoalType     GoalType   `json:"goal_type"`
	TargetValue  float64    `json:"target_value"`
	CurrentValue float64    `json:"current_value"`
	StartDate    time.Time  `json:"start_date"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

// Completed reports whether progress has reached the target.
func (g Goal) Completed() bool {
	return g.CurrentValue >= g.TargetValue
}

// Progress returns current/target as a percentage, capped at 100.
func (g Goal) Progress() float64 {
	if g.TargetValue <= 0 {
		return 0
	}
	p := g.CurrentValue / g.TargetValue * 100
	if p > 100 {
		return 100
	}
	return p
}

type GoalInput struct {
	GoalType    GoalType `json:"goal_type"`
	TargetValue float64  `json:"target_value"`
}
