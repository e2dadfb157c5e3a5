// Package session keeps the CLI's login between runs: the session token,
// its expiry and the last username, stored in a local SQLite database.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/client/migrations"
	"github.com/dmitrijs2005/fittrack/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fittrack/internal/dbx"
	"github.com/dmitrijs2005/fittrack/internal/filex"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

const (
	DBFileName = "session.db"

	keyUserName  = "username"
	keyToken     = "session_token"
	keyExpiresAt = "session_expires_at"
)

// Session is a stored login.
type Session struct {
	UserName  string
	Token     string
	ExpiresAt time.Time
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// Open creates dir if needed and opens (and migrates) the session database
// inside it.
func Open(ctx context.Context, dir string) (*Store, error) {
	path, err := filex.EnsureSubdDir(dir)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", filepath.Join(path, DBFileName))
	if err != nil {
		return nil, fmt.Errorf("error opening session db: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("error migrating session db: %w", err)
	}
	return NewStore(db), nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) repo(db dbx.DBTX) metadata.Repository {
	return metadata.NewSQLiteRepository(db)
}

// Save replaces the stored session.
func (s *Store) Save(ctx context.Context, sess Session) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Set(ctx, keyUserName, sess.UserName); err != nil {
			return err
		}
		if err := r.Set(ctx, keyToken, sess.Token); err != nil {
			return err
		}
		return r.Set(ctx, keyExpiresAt, sess.ExpiresAt.UTC().Format(time.RFC3339))
	})
}

// Load returns the stored session, or nil when there is none or it has
// expired. An expired session is dropped.
func (s *Store) Load(ctx context.Context) (*Session, error) {
	r := s.repo(s.db)

	token, ok, err := r.Get(ctx, keyToken)
	if err != nil || !ok || token == "" {
		return nil, err
	}

	sess := &Session{Token: token}
	if sess.UserName, _, err = r.Get(ctx, keyUserName); err != nil {
		return nil, err
	}

	raw, ok, err := r.Get(ctx, keyExpiresAt)
	if err != nil {
		return nil, err
	}
	if ok {
		if sess.ExpiresAt, err = time.Parse(time.RFC3339, raw); err != nil {
			return nil, fmt.Errorf("corrupt session expiry %q: %w", raw, err)
		}
		if !sess.ExpiresAt.After(s.now()) {
			return nil, s.Clear(ctx)
		}
	}
	return sess, nil
}

// Clear forgets the token but keeps the last username as a sign-in hint.
func (s *Store) Clear(ctx context.Context) error {
	return s.repo(s.db).Delete(ctx, keyToken, keyExpiresAt)
}

// LastUserName returns the username of the most recent sign-in, if any.
func (s *Store) LastUserName(ctx context.Context) (string, error) {
	v, _, err := s.repo(s.db).Get(ctx, keyUserName)
	return v, err
}

func (s *Store) Close() error {
	return s.db.Close()
}
