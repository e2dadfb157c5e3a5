package goals

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cols = []string{"id", "user_id", "goal_type", "target_value", "current_value", "start_date", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+goals\s*\(user_id,\s*goal_type,\s*target_value,\s*current_value,\s*start_date\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*0,\s*COALESCE\(\$4,\s*now\(\)\)\)\s*RETURNING\s+id`).
		WithArgs(int64(1), "running_distance", 10.0, sql.NullTime{}).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(3), int64(1), "running_distance", 10.0, 0.0, now, nil))

	g, err := repo.Create(context.Background(), &models.Goal{UserID: 1, GoalType: models.GoalRunningDistance, TargetValue: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(3), g.ID)
	assert.Equal(t, models.GoalRunningDistance, g.GoalType)
	assert.Equal(t, 0.0, g.CurrentValue)
	assert.Nil(t, g.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+goals`).WillReturnError(errors.New("check violation"))

	_, err := repo.Create(context.Background(), &models.Goal{UserID: 1, GoalType: "bogus", TargetValue: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: check violation")
}

func TestList_OrderedByStartDateDesc(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	later := time.Now()
	earlier := later.Add(-time.Hour)
	mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+goals\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+start_date\s+DESC`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(int64(2), int64(1), "weight_loss", 500.0, 100.0, later, later).
			AddRow(int64(1), int64(1), "daily_step", 10.0, 0.0, earlier, nil))

	list, err := repo.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)
	require.NotNil(t, list[0].UpdatedAt)
	assert.Nil(t, list[1].UpdatedAt)
}

func TestList_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`FROM\s+goals`).WillReturnRows(sqlmock.NewRows(cols))

	list, err := repo.List(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestListIncomplete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)FROM\s+goals\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+current_value\s*<\s*target_value`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(1), int64(1), "daily_step", 10.0, 6.0, time.Now(), nil))

	list, err := repo.ListIncomplete(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Completed())
}

func TestLockShared(t *testing.T) {
	q := `(?s)^SELECT\s+id\s+FROM\s+goals\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s+FOR\s+SHARE`

	t.Run("owned", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectQuery(q).WithArgs(int64(5), int64(1)).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(5)))
		require.NoError(t, repo.LockShared(context.Background(), 1, 5))
	})

	t.Run("foreign or missing", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectQuery(q).WithArgs(int64(5), int64(2)).WillReturnError(sql.ErrNoRows)
		assert.ErrorIs(t, repo.LockShared(context.Background(), 2, 5), common.ErrNotFound)
	})
}

func TestLockForUpdate(t *testing.T) {
	q := `(?s)^SELECT\s+id,.*FROM\s+goals\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s+FOR\s+UPDATE`

	t.Run("owned", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectQuery(q).WithArgs(int64(5), int64(1)).
			WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(5), int64(1), "exercise_duration", 60.0, 0.0, time.Now(), nil))

		g, err := repo.LockForUpdate(context.Background(), 1, 5)
		require.NoError(t, err)
		assert.Equal(t, models.GoalExerciseDuration, g.GoalType)
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectQuery(q).WillReturnError(sql.ErrNoRows)

		_, err := repo.LockForUpdate(context.Background(), 1, 5)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestSetCurrentValue(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Now()
	mock.ExpectExec(`(?s)^UPDATE\s+goals\s+SET\s+current_value\s*=\s*\$2,\s*updated_at\s*=\s*\$3\s+WHERE\s+id\s*=\s*\$1`).
		WithArgs(int64(5), 400.0, at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetCurrentValue(context.Background(), 5, 400, at))
}

func TestDelete(t *testing.T) {
	q := `(?s)^DELETE\s+FROM\s+goals\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`

	t.Run("deleted", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectExec(q).WithArgs(int64(5), int64(1)).WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, repo.Delete(context.Background(), 1, 5))
	})

	t.Run("zero rows", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectExec(q).WithArgs(int64(5), int64(1)).WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.Delete(context.Background(), 1, 5), common.ErrNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectExec(q).WillReturnError(errors.New("boom"))
		err := repo.Delete(context.Background(), 1, 5)
		require.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrNotFound)
	})
}
