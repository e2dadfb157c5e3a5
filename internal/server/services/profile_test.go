package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/common"
	sc "github.com/dmitrijs2005/fittrack/internal/server/config"
	"github.com/dmitrijs2005/fittrack/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProfileService(t *testing.T, st *memStore) *ProfileService {
	t.Helper()
	db, _ := newSQLMockDB(t)
	cfg := &sc.Config{
		S3Region:          "us-east-1",
		S3RootUser:        "minioadmin",
		S3RootPassword:    "minioadmin",
		S3BaseEndpoint:    "http://127.0.0.1:9000",
		S3Bucket:          "avatars",
		AvatarURLValidity: time.Minute,
	}
	return NewProfileService(db, &fakeRepoManager{st: st}, cfg)
}

func TestCreateOrUpdate_CreatedThenUpdated(t *testing.T) {
	st := newMemStore()
	s := newProfileService(t, st)

	p, created, err := s.CreateOrUpdate(context.Background(), 1, models.ProfileInput{Height: 180, Weight: 80, DifficultyLevel: models.DifficultyBeginner})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 80.0, p.Weight)

	p, created, err = s.CreateOrUpdate(context.Background(), 1, models.ProfileInput{Height: 180, Weight: 78, DifficultyLevel: models.DifficultyIntermediate})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, 78.0, p.Weight)
	assert.Equal(t, models.DifficultyIntermediate, p.DifficultyLevel)
}

func TestCreateOrUpdate_Validation(t *testing.T) {
	s := newProfileService(t, newMemStore())

	for name, in := range map[string]models.ProfileInput{
		"zero height":   {Height: 0, Weight: 80, DifficultyLevel: models.DifficultyBeginner},
		"negative":      {Height: 180, Weight: -1, DifficultyLevel: models.DifficultyBeginner},
		"height 10000":  {Height: 10000, Weight: 80, DifficultyLevel: models.DifficultyBeginner},
		"weight 1e6":    {Height: 180, Weight: 1e6, DifficultyLevel: models.DifficultyBeginner},
		"tiny weight":   {Height: 180, Weight: 0.004, DifficultyLevel: models.DifficultyBeginner},
		"unknown level": {Height: 180, Weight: 80, DifficultyLevel: "Expert"},
		"lowercase":     {Height: 180, Weight: 80, DifficultyLevel: "beginner"},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := s.CreateOrUpdate(context.Background(), 1, in)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestCreateOrUpdate_UpperBoundAllowed(t *testing.T) {
	s := newProfileService(t, newMemStore())

	p, created, err := s.CreateOrUpdate(context.Background(), 1, models.ProfileInput{
		Height: MaxBodyMeasurement, Weight: MaxBodyMeasurement, DifficultyLevel: models.DifficultyBeginner,
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, MaxBodyMeasurement, p.Height)
}

func TestGetProfile(t *testing.T) {
	st := newMemStore()
	s := newProfileService(t, st)

	_, err := s.Get(context.Background(), 1)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, _, err = s.CreateOrUpdate(context.Background(), 1, models.ProfileInput{Height: 170, Weight: 60, DifficultyLevel: models.DifficultyAdvanced})
	require.NoError(t, err)

	p, err := s.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 170.0, p.Height)
}

func TestGetUserDetails(t *testing.T) {
	st := newMemStore()
	st.users[1] = &models.User{ID: 1, FirstName: "Bob", UserName: "bob", DOB: time.Date(2000, 5, 6, 0, 0, 0, 0, time.UTC), Age: 24}
	s := newProfileService(t, st)

	d, err := s.GetUserDetails(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "2000-05-06", d.DOB)
	assert.Nil(t, d.Email)

	_, err = s.GetUserDetails(context.Background(), 2)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
