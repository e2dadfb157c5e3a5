package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fittrack/internal/common"
	sc "github.com/dmitrijs2005/fittrack/internal/server/config"
	"github.com/dmitrijs2005/fittrack/internal/server/models"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/repomanager"
)

// ProfileService manages the one-per-user profile and the user details view.
type ProfileService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewProfileService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *ProfileService {
	return &ProfileService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

// CreateOrUpdate stores the user's profile. created reports whether the
// profile did not exist before.
func (s *ProfileService) CreateOrUpdate(ctx context.Context, userID int64, in models.ProfileInput) (*models.Profile, bool, error) {
	if err := checkPositive("height", in.Height, MaxBodyMeasurement); err != nil {
		return nil, false, err
	}
	if err := checkPositive("weight", in.Weight, MaxBodyMeasurement); err != nil {
		return nil, false, err
	}
	if !in.DifficultyLevel.Valid() {
		return nil, false, fmt.Errorf("%w: difficulty_level must be one of %s, %s, %s", common.ErrValidation,
			models.DifficultyBeginner, models.DifficultyIntermediate, models.DifficultyAdvanced)
	}

	p, created, err := s.repomanager.Profiles(s.db).Upsert(ctx, userID, in)
	if err != nil {
		return nil, false, fmt.Errorf("error saving profile: %w", err)
	}
	return p, created, nil
}

func (s *ProfileService) Get(ctx context.Context, userID int64) (*models.Profile, error) {
	p, err := s.repomanager.Profiles(s.db).Get(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: profile not found", common.ErrNotFound)
		}
		return nil, fmt.Errorf("error loading profile: %w", err)
	}
	return p, nil
}

func (s *ProfileService) GetUserDetails(ctx context.Context, userID int64) (*models.UserDetails, error) {
	d, err := s.repomanager.Users(s.db).GetDetails(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: user not found", common.ErrNotFound)
		}
		return nil, fmt.Errorf("error loading user details: %w", err)
	}
	return d, nil
}
