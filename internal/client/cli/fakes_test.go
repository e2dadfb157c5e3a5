package cli

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/client/client"
	"github.com/dmitrijs2005/fittrack/internal/client/config"
	"github.com/dmitrijs2005/fittrack/internal/client/session"
	"github.com/dmitrijs2005/fittrack/internal/server/models"
	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

type fakeAPI struct {
	token     string
	expiresAt time.Time

	pingErr error

	signupIn  models.RegisterInput
	signinArg [2]string
	user      *models.UserDetails
	authErr   error
	logoutErr error

	profile     *models.Profile
	profileErr  error
	savedIn     models.ProfileInput
	created     bool
	downloadURL string
	uploaded    []byte
	uploadCT    string

	goals        []client.GoalView
	goalIn       models.GoalInput
	activityIn   models.ActivityInput
	activities   []models.Activity
	activitiesOf int64
	recomputed   []int64
	recomputeVal float64
	recomputeErr error
	deleted      int64
	report       *models.WeeklyReport
	err          error
}

var _ client.Client = (*fakeAPI)(nil)

func (f *fakeAPI) SetSession(token string, exp time.Time) { f.token, f.expiresAt = token, exp }
func (f *fakeAPI) Session() (string, time.Time)          { return f.token, f.expiresAt }
func (f *fakeAPI) Ping(ctx context.Context) error         { return f.pingErr }

func (f *fakeAPI) issue() {
	f.token = "tok-" + f.user.UserName
	f.expiresAt = time.Now().Add(time.Hour)
}

func (f *fakeAPI) Signup(ctx context.Context, in models.RegisterInput) (*models.UserDetails, error) {
	f.signupIn = in
	if f.authErr != nil {
		return nil, f.authErr
	}
	f.user = &models.UserDetails{ID: 1, UserName: in.UserName, FirstName: in.FirstName, LastName: in.LastName}
	f.issue()
	return f.user, nil
}

func (f *fakeAPI) Signin(ctx context.Context, username, password string) (*models.UserDetails, error) {
	f.signinArg = [2]string{username, password}
	if f.authErr != nil {
		return nil, f.authErr
	}
	f.user = &models.UserDetails{ID: 1, UserName: username}
	f.issue()
	return f.user, nil
}

func (f *fakeAPI) Logout(ctx context.Context) error {
	f.token = ""
	return f.logoutErr
}

func (f *fakeAPI) Check(ctx context.Context) (*models.UserDetails, error) { return f.user, f.err }

func (f *fakeAPI) Profile(ctx context.Context) (*models.Profile, error) {
	return f.profile, f.profileErr
}

func (f *fakeAPI) SaveProfile(ctx context.Context, in models.ProfileInput) (*models.Profile, bool, error) {
	f.savedIn = in
	if f.err != nil {
		return nil, false, f.err
	}
	return &models.Profile{Height: in.Height, Weight: in.Weight, DifficultyLevel: in.DifficultyLevel}, f.created, nil
}

func (f *fakeAPI) UserDetails(ctx context.Context) (*models.UserDetails, error) {
	return f.user, f.err
}

func (f *fakeAPI) AvatarUploadURL(ctx context.Context) (string, error) { return "http://s3/up", f.err }

func (f *fakeAPI) AvatarDownloadURL(ctx context.Context) (string, error) {
	return f.downloadURL, f.err
}

func (f *fakeAPI) UploadAvatar(ctx context.Context, data []byte, ct string) error {
	f.uploaded, f.uploadCT = data, ct
	return f.err
}

func (f *fakeAPI) CreateGoal(ctx context.Context, in models.GoalInput) (*client.GoalView, error) {
	f.goalIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &client.GoalView{Goal: models.Goal{ID: 3, GoalType: in.GoalType, TargetValue: in.TargetValue}}, nil
}

func (f *fakeAPI) Goals(ctx context.Context) ([]client.GoalView, error) { return f.goals, f.err }

func (f *fakeAPI) RecomputeGoal(ctx context.Context, goalID int64) (float64, error) {
	f.recomputed = append(f.recomputed, goalID)
	return f.recomputeVal, f.recomputeErr
}

func (f *fakeAPI) DeleteGoal(ctx context.Context, goalID int64) error {
	f.deleted = goalID
	return f.err
}

func (f *fakeAPI) CreateActivity(ctx context.Context, in models.ActivityInput) (*models.Activity, error) {
	f.activityIn = in
	if f.err != nil {
		return nil, f.err
	}
	return &models.Activity{ID: 9, ActivityType: in.ActivityType}, nil
}

func (f *fakeAPI) GoalActivities(ctx context.Context, goalID int64) ([]models.Activity, error) {
	f.activitiesOf = goalID
	return f.activities, f.err
}

func (f *fakeAPI) Activities(ctx context.Context) ([]models.Activity, error) {
	f.activitiesOf = -1
	return f.activities, f.err
}

func (f *fakeAPI) WeeklyReport(ctx context.Context) (*models.WeeklyReport, error) {
	return f.report, f.err
}

type fakeStore struct {
	saved    *session.Session
	lastUser string
	cleared  bool
	loadErr  error
	closed   bool
}

func (s *fakeStore) Save(ctx context.Context, sess session.Session) error {
	s.saved = &sess
	s.lastUser = sess.UserName
	return nil
}

func (s *fakeStore) Load(ctx context.Context) (*session.Session, error) {
	return s.saved, s.loadErr
}

func (s *fakeStore) Clear(ctx context.Context) error {
	s.saved = nil
	s.cleared = true
	return nil
}

func (s *fakeStore) LastUserName(ctx context.Context) (string, error) { return s.lastUser, nil }

func (s *fakeStore) Close() error {
	s.closed = true
	return nil
}

type testApp struct {
	*App
	api   *fakeAPI
	store *fakeStore
	out   *bytes.Buffer
}

// newTestApp builds an App whose prompts read the given input lines.
func newTestApp(t *testing.T, input ...string) *testApp {
	t.Helper()
	silencePrint(t)

	orig := getPassword
	getPassword = func(w io.Writer) ([]byte, error) {
		return []byte("secret1"), nil
	}
	t.Cleanup(func() { getPassword = orig })

	api := &fakeAPI{}
	store := &fakeStore{}
	out := &bytes.Buffer{}
	cfg := &config.Config{}
	cfg.LoadDefaults()

	a := &App{config: cfg, api: api, store: store, reader: lines(append(input, "")...), out: out}
	return &testApp{App: a, api: api, store: store, out: out}
}

func (ta *testApp) signedIn(name string) *testApp {
	ta.api.user = &models.UserDetails{ID: 1, UserName: name}
	ta.api.issue()
	ta.userName = name
	return ta
}
