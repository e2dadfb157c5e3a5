package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/client/client"
	"github.com/dmitrijs2005/fittrack/internal/client/config"
	"github.com/dmitrijs2005/fittrack/internal/client/session"
	"github.com/dmitrijs2005/fittrack/internal/common"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// sessionStore is the part of *session.Store the CLI needs.
type sessionStore interface {
	Save(ctx context.Context, s session.Session) error
	Load(ctx context.Context) (*session.Session, error)
	Clear(ctx context.Context) error
	LastUserName(ctx context.Context) (string, error)
	Close() error
}

type App struct {
	config   *config.Config
	api      client.Client
	store    sessionStore
	userName string
	reader   *bufio.Reader
	out      io.Writer

	mu   sync.RWMutex
	mode Mode
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	store, err := session.Open(ctx, c.SessionDir)
	if err != nil {
		log.Printf("error opening session store: %s", err.Error())
		return nil, err
	}

	a := &App{
		config: c,
		api:    client.NewHTTPClient(c.ServerURL, c.RequestTimeout),
		store:  store,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	if err := a.restoreSession(ctx); err != nil {
		log.Printf("stored session ignored: %s", err.Error())
	}
	return a, nil
}

// restoreSession loads a still valid session saved by an earlier run.
func (a *App) restoreSession(ctx context.Context) error {
	s, err := a.store.Load(ctx)
	if err != nil || s == nil {
		return err
	}
	a.api.SetSession(s.Token, s.ExpiresAt)
	a.userName = s.UserName
	return nil
}

// persistSession saves the session the server just issued.
func (a *App) persistSession(ctx context.Context, userName string) error {
	token, exp := a.api.Session()
	if token == "" {
		return errors.New("server did not issue a session")
	}
	a.userName = userName
	return a.store.Save(ctx, session.Session{UserName: userName, Token: token, ExpiresAt: exp})
}

// dropSession forgets the session locally, keeping the username hint.
func (a *App) dropSession(ctx context.Context) error {
	a.api.SetSession("", time.Time{})
	a.userName = ""
	return a.store.Clear(ctx)
}

func (a *App) isLoggedIn() bool {
	token, _ := a.api.Session()
	return token != ""
}

// reportError prints a command failure. A rejected session is dropped so the
// prompt reflects that the user has to sign in again.
func (a *App) reportError(ctx context.Context, err error) {
	switch {
	case errors.Is(err, common.ErrUnauthenticated) && a.isLoggedIn():
		_ = a.dropSession(ctx)
		printlnFn("Session expired, please sign in again")
	case errors.Is(err, client.ErrUnavailable):
		a.setMode(ModeOffline)
		printlnFn("Server unavailable:", a.config.ServerURL)
	default:
		printlnFn("Error:", err)
	}
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) getMode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.mode
}

// StartOnlineStatusWatcher pings the server every interval and keeps the
// mode shown in the prompt current. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.api.Ping(pctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// requireLogin is used by one-shot commands.
func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		return fmt.Errorf("%w: run fitcli and sign in first", client.ErrNoSession)
	}
	return nil
}

func (a *App) Close() error {
	return a.store.Close()
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()
	a.Root(ctx)
}
