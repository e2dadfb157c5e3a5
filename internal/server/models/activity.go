package models

import "time"

// Activity is a single logged workout. Activities are never updated.
type Activity struct {
	ID            int64     `json:"activity_id"`
	UserID        int64     `json:"user_id"`
	ActivityType  string    `json:"activity_type"`
	CaloriesBurnt float64   `json:"calories_burnt"`
	Distance      float64   `json:"distance"`
	Duration      float64   `json:"duration"`
	Date          time.Time `json:"date"`
}

// ActivityInput carries a create-activity request. Numeric fields are
// pointers so that an omitted field can be told apart from zero.
type ActivityInput struct {
	GoalID        int64    `json:"goal_id"`
	ActivityType  string   `json:"activity_type"`
	CaloriesBurnt *float64 `json:"calories_burnt"`
	Distance      *float64 `json:"distance"`
	Duration      *float64 `json:"duration"`
}

// ActivityTotals aggregates a set of activities.
type ActivityTotals struct {
	Count         int     `json:"count"`
	CaloriesBurnt float64 `json:"calories_burnt"`
	Distance      float64 `json:"distance"`
	Duration      float64 `json:"duration"`
}

// GoalProgress is a goal together with its completion percentage.
type GoalProgress struct {
	Goal
	Percent float64 `json:"percent"`
}

// WeeklyReport summarises the seven days ending at To.
type WeeklyReport struct {
	From         time.Time      `json:"from"`
	To           time.Time      `json:"to"`
	Totals       ActivityTotals `json:"totals"`
	PendingGoals []GoalProgress `json:"pending_goals"`
}
