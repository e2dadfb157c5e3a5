package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/dbx"
	"github.com/dmitrijs2005/fittrack/internal/server/models"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/achievements"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/activities"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/emails"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/goals"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

// memStore is an in-memory stand-in for the database shared by all fake
// repositories of one test. Transactions are driven by sqlmock; the store
// itself does not roll back.
type memStore struct {
	mu sync.Mutex

	nextID     int64
	users      map[int64]*models.User
	emails     []models.Email
	profiles   map[int64]*models.Profile
	goals      map[int64]*models.Goal
	activities map[int64]*models.Activity
	links      map[int64]int64 // activity id -> goal id

	createUserErr error
	createMailErr error
	linkErr       error
	sumErr        error
	listErr       error
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[int64]*models.User{},
		profiles:   map[int64]*models.Profile{},
		goals:      map[int64]*models.Goal{},
		activities: map[int64]*models.Activity{},
		links:      map[int64]int64{},
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

type fakeRepoManager struct{ st *memStore }

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository               { return fakeUsers{m.st} }
func (m *fakeRepoManager) Emails(dbx.DBTX) emails.Repository             { return fakeEmails{m.st} }
func (m *fakeRepoManager) Profiles(dbx.DBTX) profiles.Repository         { return fakeProfiles{m.st} }
func (m *fakeRepoManager) Goals(dbx.DBTX) goals.Repository               { return fakeGoals{m.st} }
func (m *fakeRepoManager) Activities(dbx.DBTX) activities.Repository     { return fakeActivities{m.st} }
func (m *fakeRepoManager) Achievements(dbx.DBTX) achievements.Repository { return fakeLinks{m.st} }

// --- users ---

type fakeUsers struct{ st *memStore }

func (f fakeUsers) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if f.st.createUserErr != nil {
		return nil, f.st.createUserErr
	}
	for _, other := range f.st.users {
		if other.UserName == u.UserName {
			return nil, common.ErrConflict
		}
	}
	u.ID = f.st.id()
	u.CreatedAt = time.Now()
	cp := *u
	f.st.users[u.ID] = &cp
	return u, nil
}

func (f fakeUsers) GetUserByLogin(ctx context.Context, login string) (*models.User, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	for _, u := range f.st.users {
		if u.UserName == login {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f fakeUsers) GetDetails(ctx context.Context, userID int64) (*models.UserDetails, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	u, ok := f.st.users[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	d := &models.UserDetails{
		ID: u.ID, FirstName: u.FirstName, LastName: u.LastName, UserName: u.UserName,
		DOB: u.DOB.Format(models.DateLayout), Age: u.Age, Gender: u.Gender,
	}
	for _, e := range f.st.emails {
		if e.UserID == userID {
			addr := e.Address
			d.Email = &addr
			break
		}
	}
	return d, nil
}

// --- emails ---

type fakeEmails struct{ st *memStore }

func (f fakeEmails) Create(ctx context.Context, userID int64, address string) (*models.Email, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if f.st.createMailErr != nil {
		return nil, f.st.createMailErr
	}
	e := models.Email{ID: f.st.id(), UserID: userID, Address: address}
	f.st.emails = append(f.st.emails, e)
	return &e, nil
}

func (f fakeEmails) ListByUser(ctx context.Context, userID int64) ([]models.Email, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	out := make([]models.Email, 0)
	for _, e := range f.st.emails {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

// --- profiles ---

type fakeProfiles struct{ st *memStore }

func (f fakeProfiles) Upsert(ctx context.Context, userID int64, in models.ProfileInput) (*models.Profile, bool, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	p, exists := f.st.profiles[userID]
	if !exists {
		p = &models.Profile{UserID: userID}
		f.st.profiles[userID] = p
	}
	p.Height, p.Weight, p.DifficultyLevel, p.UpdatedAt = in.Height, in.Weight, in.DifficultyLevel, time.Now()
	cp := *p
	return &cp, !exists, nil
}

func (f fakeProfiles) Get(ctx context.Context, userID int64) (*models.Profile, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	p, ok := f.st.profiles[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f fakeProfiles) SetAvatarKey(ctx context.Context, userID int64, key string) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	p, ok := f.st.profiles[userID]
	if !ok {
		return common.ErrNotFound
	}
	p.AvatarKey = &key
	p.HasAvatar = true
	return nil
}

// --- goals ---

type fakeGoals struct{ st *memStore }

func (f fakeGoals) Create(ctx context.Context, g *models.Goal) (*models.Goal, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	cp := *g
	cp.ID = f.st.id()
	cp.CurrentValue = 0
	f.st.goals[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f fakeGoals) sorted(userID int64, keep func(*models.Goal) bool) []models.Goal {
	out := make([]models.Goal, 0)
	for _, g := range f.st.goals {
		if g.UserID == userID && keep(g) {
			out = append(out, *g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].StartDate.After(out[j].StartDate)
	})
	return out
}

func (f fakeGoals) List(ctx context.Context, userID int64) ([]models.Goal, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if f.st.listErr != nil {
		return nil, f.st.listErr
	}
	return f.sorted(userID, func(*models.Goal) bool { return true }), nil
}

func (f fakeGoals) ListIncomplete(ctx context.Context, userID int64) ([]models.Goal, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	return f.sorted(userID, func(g *models.Goal) bool { return g.CurrentValue < g.TargetValue }), nil
}

func (f fakeGoals) owned(userID, goalID int64) (*models.Goal, error) {
	g, ok := f.st.goals[goalID]
	if !ok || g.UserID != userID {
		return nil, common.ErrNotFound
	}
	return g, nil
}

func (f fakeGoals) LockShared(ctx context.Context, userID, goalID int64) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	_, err := f.owned(userID, goalID)
	return err
}

func (f fakeGoals) LockForUpdate(ctx context.Context, userID, goalID int64) (*models.Goal, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	g, err := f.owned(userID, goalID)
	if err != nil {
		return nil, err
	}
	cp := *g
	return &cp, nil
}

func (f fakeGoals) SetCurrentValue(ctx context.Context, goalID int64, value float64, at time.Time) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	g, ok := f.st.goals[goalID]
	if !ok {
		return common.ErrNotFound
	}
	g.CurrentValue = value
	g.UpdatedAt = &at
	return nil
}

func (f fakeGoals) Delete(ctx context.Context, userID, goalID int64) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if _, err := f.owned(userID, goalID); err != nil {
		return err
	}
	delete(f.st.goals, goalID)
	return nil
}

// --- activities ---

type fakeActivities struct{ st *memStore }

func (f fakeActivities) Create(ctx context.Context, a *models.Activity) (*models.Activity, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	cp := *a
	cp.ID = f.st.id()
	if cp.Date.IsZero() {
		cp.Date = time.Now()
	}
	f.st.activities[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f fakeActivities) sorted(keep func(*models.Activity) bool) []models.Activity {
	out := make([]models.Activity, 0)
	for _, a := range f.st.activities {
		if keep(a) {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].ID > out[j].ID
		}
		return out[i].Date.After(out[j].Date)
	})
	return out
}

func (f fakeActivities) ListByUser(ctx context.Context, userID int64) ([]models.Activity, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	return f.sorted(func(a *models.Activity) bool { return a.UserID == userID }), nil
}

func (f fakeActivities) ListByGoal(ctx context.Context, userID, goalID int64) ([]models.Activity, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	return f.sorted(func(a *models.Activity) bool {
		g, linked := f.st.links[a.ID]
		return linked && g == goalID && a.UserID == userID
	}), nil
}

func (f fakeActivities) SumForGoal(ctx context.Context, goalID int64, goalType models.GoalType) (float64, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if f.st.sumErr != nil {
		return 0, f.st.sumErr
	}
	column, err := goalType.Column()
	if err != nil {
		return 0, err
	}
	var total float64
	for actID, g := range f.st.links {
		if g != goalID {
			continue
		}
		a := f.st.activities[actID]
		switch column {
		case "calories_burnt":
			total += a.CaloriesBurnt
		case "distance":
			total += a.Distance
		case "duration":
			total += a.Duration
		}
	}
	return total, nil
}

func (f fakeActivities) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	var n int64
	for _, id := range ids {
		if _, ok := f.st.activities[id]; ok {
			delete(f.st.activities, id)
			n++
		}
	}
	return n, nil
}

func (f fakeActivities) Totals(ctx context.Context, userID int64, from, to time.Time) (models.ActivityTotals, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	var t models.ActivityTotals
	for _, a := range f.st.activities {
		if a.UserID != userID || a.Date.Before(from) || !a.Date.Before(to) {
			continue
		}
		t.Count++
		t.CaloriesBurnt += a.CaloriesBurnt
		t.Distance += a.Distance
		t.Duration += a.Duration
	}
	return t, nil
}

// --- achieves ---

type fakeLinks struct{ st *memStore }

func (f fakeLinks) Link(ctx context.Context, goalID, activityID int64) error {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	if f.st.linkErr != nil {
		return f.st.linkErr
	}
	f.st.links[activityID] = goalID
	return nil
}

func (f fakeLinks) ListActivityIDs(ctx context.Context, goalID int64) ([]int64, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	ids := make([]int64, 0)
	for act, g := range f.st.links {
		if g == goalID {
			ids = append(ids, act)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (f fakeLinks) DeleteByGoal(ctx context.Context, goalID int64) (int64, error) {
	f.st.mu.Lock()
	defer f.st.mu.Unlock()
	var n int64
	for act, g := range f.st.links {
		if g == goalID {
			delete(f.st.links, act)
			n++
		}
	}
	return n, nil
}
