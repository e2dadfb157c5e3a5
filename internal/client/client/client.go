package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/server/models"
)

// GoalView is a goal as listed by the API, with its completion flag.
type GoalView struct {
	models.Goal
	Completed bool `json:"completed"`
}

type Client interface {
	SetSession(token string, expiresAt time.Time)
	Session() (string, time.Time)
	Ping(ctx context.Context) error

	Signup(ctx context.Context, in models.RegisterInput) (*models.UserDetails, error)
	Signin(ctx context.Context, username, password string) (*models.UserDetails, error)
	Logout(ctx context.Context) error
	Check(ctx context.Context) (*models.UserDetails, error)

	Profile(ctx context.Context) (*models.Profile, error)
	SaveProfile(ctx context.Context, in models.ProfileInput) (*models.Profile, bool, error)
	UserDetails(ctx context.Context) (*models.UserDetails, error)
	AvatarUploadURL(ctx context.Context) (string, error)
	AvatarDownloadURL(ctx context.Context) (string, error)
	UploadAvatar(ctx context.Context, data []byte, contentType string) error

	CreateGoal(ctx context.Context, in models.GoalInput) (*GoalView, error)
	Goals(ctx context.Context) ([]GoalView, error)
	RecomputeGoal(ctx context.Context, goalID int64) (float64, error)
	DeleteGoal(ctx context.Context, goalID int64) error
	CreateActivity(ctx context.Context, in models.ActivityInput) (*models.Activity, error)
	GoalActivities(ctx context.Context, goalID int64) ([]models.Activity, error)
	Activities(ctx context.Context) ([]models.Activity, error)
	WeeklyReport(ctx context.Context) (*models.WeeklyReport, error)
}
