package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/logging"
	"github.com/dmitrijs2005/fittrack/internal/server/auth"
	"github.com/dmitrijs2005/fittrack/internal/server/metrics"
	"github.com/dmitrijs2005/fittrack/internal/server/models"
	"github.com/dmitrijs2005/fittrack/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const goodToken = "good-token"

type fakeAuth struct {
	register     func(models.RegisterInput) (*models.UserDetails, *services.SessionToken, error)
	authenticate func(username, password string) (*models.UserDetails, *services.SessionToken, error)
	invalidate   func(token string) error
	invalidated  []string
}

func (f *fakeAuth) Register(_ context.Context, in models.RegisterInput) (*models.UserDetails, *services.SessionToken, error) {
	return f.register(in)
}

func (f *fakeAuth) Authenticate(_ context.Context, u, p string) (*models.UserDetails, *services.SessionToken, error) {
	return f.authenticate(u, p)
}

func (f *fakeAuth) VerifySession(_ context.Context, token string) (*auth.Session, error) {
	if token != goodToken {
		return nil, errors.Join(common.ErrUnauthenticated, common.ErrInvalidToken)
	}
	return &auth.Session{UserID: 7, TokenID: "jti-7", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeAuth) InvalidateSession(_ context.Context, token string) error {
	f.invalidated = append(f.invalidated, token)
	if f.invalidate != nil {
		return f.invalidate(token)
	}
	return nil
}

func (f *fakeAuth) Check(_ context.Context, userID int64) (*models.UserDetails, error) {
	return &models.UserDetails{ID: userID, UserName: "alice"}, nil
}

type fakeProfiles struct {
	profile  *models.Profile
	existed  bool
	err      error
	upload   string
	download string
}

func (f *fakeProfiles) CreateOrUpdate(_ context.Context, userID int64, in models.ProfileInput) (*models.Profile, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	created := !f.existed
	f.existed = true
	f.profile = &models.Profile{UserID: userID, Height: in.Height, Weight: in.Weight, DifficultyLevel: in.DifficultyLevel}
	return f.profile, created, nil
}

func (f *fakeProfiles) Get(context.Context, int64) (*models.Profile, error) {
	if f.profile == nil {
		return nil, common.ErrNotFound
	}
	return f.profile, nil
}

func (f *fakeProfiles) GetUserDetails(_ context.Context, userID int64) (*models.UserDetails, error) {
	return &models.UserDetails{ID: userID, UserName: "alice"}, nil
}

func (f *fakeProfiles) AvatarUploadURL(context.Context, int64) (string, error) {
	return f.upload, f.err
}

func (f *fakeProfiles) AvatarDownloadURL(context.Context, int64) (string, error) {
	if f.download == "" {
		return "", common.ErrNotFound
	}
	return f.download, nil
}

type fakeGoals struct {
	goals      []models.Goal
	activities []models.Activity
	err        error
	recomputed []int64
	reportAt   time.Time
}

func (f *fakeGoals) CreateGoal(_ context.Context, userID int64, in models.GoalInput) (*models.Goal, error) {
	if f.err != nil {
		return nil, f.err
	}
	g := models.Goal{ID: int64(len(f.goals) + 1), UserID: userID, GoalType: in.GoalType, TargetValue: in.TargetValue}
	f.goals = append(f.goals, g)
	return &g, nil
}

func (f *fakeGoals) CreateActivity(_ context.Context, userID int64, in models.ActivityInput) (*models.Activity, error) {
	if f.err != nil {
		return nil, f.err
	}
	a := models.Activity{ID: 11, UserID: userID, ActivityType: in.ActivityType}
	f.activities = append(f.activities, a)
	return &a, nil
}

func (f *fakeGoals) RecomputeGoal(_ context.Context, _ int64, goalID int64) (float64, error) {
	f.recomputed = append(f.recomputed, goalID)
	return 3.5, f.err
}

func (f *fakeGoals) ListGoals(context.Context, int64) ([]models.Goal, error) {
	return f.goals, f.err
}

func (f *fakeGoals) ListGoalActivities(context.Context, int64, int64) ([]models.Activity, error) {
	return []models.Activity{}, f.err
}

func (f *fakeGoals) ListActivities(context.Context, int64) ([]models.Activity, error) {
	return f.activities, f.err
}

func (f *fakeGoals) DeleteGoal(context.Context, int64, int64) error {
	return f.err
}

func (f *fakeGoals) WeeklyReport(_ context.Context, _ int64, now time.Time) (*models.WeeklyReport, error) {
	f.reportAt = now
	return &models.WeeklyReport{To: now, PendingGoals: []models.GoalProgress{}}, f.err
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

type testAPI struct {
	router   *gin.Engine
	auth     *fakeAuth
	profiles *fakeProfiles
	goals    *fakeGoals
	db       *fakePinger
	metrics  *metrics.Metrics
}

func newTestAPI(t *testing.T, opts Options) *testAPI {
	t.Helper()
	api := &testAPI{
		auth:     &fakeAuth{},
		profiles: &fakeProfiles{},
		goals:    &fakeGoals{},
		db:       &fakePinger{},
		metrics:  metrics.New(),
	}
	h := NewHandler(api.auth, api.profiles, api.goals, api.db, logging.Nop{}, opts)
	api.router = NewRouter(h, api.metrics)
	return api
}

// do sends a request, optionally authenticated with the good session cookie.
func (a *testAPI) do(t *testing.T, method, path, body string, authed bool) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.AddCookie(&http.Cookie{Name: SessionCookie, Value: goodToken})
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func sessionCookieOf(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	return nil
}
