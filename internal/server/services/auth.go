// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, sign-in and the lifecycle of the
// session tokens handed out to clients.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/cryptox"
	"github.com/dmitrijs2005/fittrack/internal/dbx"
	"github.com/dmitrijs2005/fittrack/internal/server/auth"
	"github.com/dmitrijs2005/fittrack/internal/server/config"
	"github.com/dmitrijs2005/fittrack/internal/server/models"
	"github.com/dmitrijs2005/fittrack/internal/server/repositories/repomanager"
)

// Password length bounds accepted at signup. bcrypt refuses inputs longer
// than 72 bytes.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// SessionToken is a signed session token and the moment it stops being valid.
type SessionToken struct {
	Token     string
	ExpiresAt time.Time
}

// AuthService provides authentication-related operations:
// - Register: create users with their e-mail addresses
// - Authenticate: verify credentials and mint a session token
// - VerifySession / InvalidateSession: check and end sessions
type AuthService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	revocations     auth.RevocationStore
	jwtSecret       []byte
	sessionValidity time.Duration
	hashCost        int
}

// NewAuthService constructs an AuthService using repositories and server config.
// A nil revocation store disables server-side logout.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, revocations auth.RevocationStore) *AuthService {
	if revocations == nil {
		revocations = auth.NoopRevocationStore{}
	}
	return &AuthService{
		db:              db,
		repomanager:     m,
		revocations:     revocations,
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
		hashCost:        cryptox.DefaultCost,
	}
}

// Register validates in, stores the user and all of its e-mail addresses in
// one transaction and opens a session for the new user.
func (s *AuthService) Register(ctx context.Context, in models.RegisterInput) (*models.UserDetails, *SessionToken, error) {
	user, emails, err := validateRegistration(in)
	if err != nil {
		return nil, nil, err
	}

	_, err = s.repomanager.Users(s.db).GetUserByLogin(ctx, user.UserName)
	switch {
	case err == nil:
		return nil, nil, fmt.Errorf("%w: username %q is taken", common.ErrConflict, user.UserName)
	case !errors.Is(err, common.ErrNotFound):
		return nil, nil, fmt.Errorf("error checking username: %w", err)
	}

	password := []byte(in.Password)
	user.PasswordHash, err = cryptox.HashPassword(password, s.hashCost)
	common.WipeByteArray(password)
	if err != nil {
		return nil, nil, fmt.Errorf("error hashing password: %w", err)
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Users(tx).Create(ctx, user); err != nil {
			return err
		}
		emailRepo := s.repomanager.Emails(tx)
		for _, address := range emails {
			if _, err := emailRepo.Create(ctx, user.ID, address); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("error creating user: %w", err)
	}

	token, err := s.issue(user.ID)
	if err != nil {
		return nil, nil, err
	}

	return detailsOf(user, emails[0]), token, nil
}

// Authenticate checks username and password. An unknown username yields
// common.ErrNotFound and a wrong password common.ErrUnauthenticated.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.UserDetails, *SessionToken, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, nil, fmt.Errorf("%w: username and password are required", common.ErrValidation)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: user %q does not exist", common.ErrNotFound, username)
		}
		return nil, nil, fmt.Errorf("error loading user: %w", err)
	}

	candidate := []byte(password)
	err = cryptox.CheckPassword(user.PasswordHash, candidate)
	common.WipeByteArray(candidate)
	if err != nil {
		if errors.Is(err, cryptox.ErrMismatch) {
			return nil, nil, fmt.Errorf("%w: password is incorrect", common.ErrUnauthenticated)
		}
		return nil, nil, fmt.Errorf("error checking password: %w", err)
	}

	details, err := repo.GetDetails(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("error loading user details: %w", err)
	}

	token, err := s.issue(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return details, token, nil
}

// VerifySession parses token and checks it was not revoked. Any failure is
// reported as common.ErrUnauthenticated.
func (s *AuthService) VerifySession(ctx context.Context, token string) (*auth.Session, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: no session token", common.ErrUnauthenticated)
	}

	session, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, errors.Join(common.ErrUnauthenticated, err)
	}

	revoked, err := s.revocations.IsRevoked(ctx, session.TokenID)
	if err != nil {
		return nil, errors.Join(common.ErrUnauthenticated, fmt.Errorf("error checking revocation: %w", err))
	}
	if revoked {
		return nil, errors.Join(common.ErrUnauthenticated, common.ErrTokenRevoked)
	}

	return session, nil
}

// InvalidateSession ends the session behind token. Tokens that do not parse
// are ignored; the returned error only reports a failing revocation store.
func (s *AuthService) InvalidateSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	session, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, session.TokenID, time.Until(session.ExpiresAt)); err != nil {
		return fmt.Errorf("error revoking session: %w", err)
	}
	return nil
}

// Check returns the details of the user owning the current session.
func (s *AuthService) Check(ctx context.Context, userID int64) (*models.UserDetails, error) {
	d, err := s.repomanager.Users(s.db).GetDetails(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: user no longer exists", common.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("error loading user details: %w", err)
	}
	return d, nil
}

// --- helpers below ---

func (s *AuthService) issue(userID int64) (*SessionToken, error) {
	token, _, err := auth.GenerateToken(userID, s.jwtSecret, s.sessionValidity)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}
	return &SessionToken{Token: token, ExpiresAt: time.Now().Add(s.sessionValidity)}, nil
}

func validateRegistration(in models.RegisterInput) (*models.User, []string, error) {
	user := &models.User{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		UserName:  strings.TrimSpace(in.UserName),
		Age:       in.Age,
		Gender:    strings.TrimSpace(in.Gender),
	}

	if user.FirstName == "" || user.LastName == "" || user.UserName == "" ||
		in.Password == "" || strings.TrimSpace(in.DOB) == "" || user.Gender == "" {
		return nil, nil, fmt.Errorf("%w: all fields must be entered", common.ErrValidation)
	}
	if user.Age <= 0 {
		return nil, nil, fmt.Errorf("%w: age must be positive", common.ErrValidation)
	}
	if len(in.Password) < MinPasswordLength {
		return nil, nil, fmt.Errorf("%w: password must be at least %d characters long", common.ErrValidation, MinPasswordLength)
	}
	if len(in.Password) > MaxPasswordLength {
		return nil, nil, fmt.Errorf("%w: password must be at most %d bytes long", common.ErrValidation, MaxPasswordLength)
	}

	dob, err := time.Parse(models.DateLayout, strings.TrimSpace(in.DOB))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: dob must be formatted as YYYY-MM-DD", common.ErrValidation)
	}
	user.DOB = dob

	if len(in.Emails) == 0 {
		return nil, nil, fmt.Errorf("%w: at least one e-mail is required", common.ErrValidation)
	}
	emails := make([]string, 0, len(in.Emails))
	for _, raw := range in.Emails {
		addr, err := mail.ParseAddress(strings.TrimSpace(raw))
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid e-mail %q", common.ErrValidation, raw)
		}
		emails = append(emails, addr.Address)
	}

	return user, emails, nil
}

func detailsOf(u *models.User, email string) *models.UserDetails {
	return &models.UserDetails{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		UserName:  u.UserName,
		DOB:       u.DOB.Format(models.DateLayout),
		Age:       u.Age,
		Gender:    u.Gender,
		Email:     &email,
	}
}
