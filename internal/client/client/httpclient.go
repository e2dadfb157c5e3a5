package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/fittrack/internal/common"
	"github.com/dmitrijs2005/fittrack/internal/netx"
	"github.com/dmitrijs2005/fittrack/internal/server/models"
)

type HTTPClient struct {
	baseURL string
	http    *http.Client
	now     func() time.Time

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

var _ Client = (*HTTPClient)(nil)

func (c *HTTPClient) SetSession(token string, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token, c.expiresAt = token, expiresAt
}

// Session returns the current token and its expiry; the token is empty
// when signed out.
func (c *HTTPClient) Session() (string, time.Time) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.expiresAt
}

// captureSession picks up a session cookie set or cleared by the server.
func (c *HTTPClient) captureSession(resp *http.Response) {
	for _, ck := range resp.Cookies() {
		if ck.Name != common.SessionCookieName {
			continue
		}
		if ck.Value == "" || ck.MaxAge < 0 {
			c.SetSession("", time.Time{})
			continue
		}
		exp := ck.Expires
		if ck.MaxAge > 0 {
			exp = c.now().Add(time.Duration(ck.MaxAge) * time.Second)
		}
		c.SetSession(ck.Value, exp)
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, _ := c.Session(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.captureSession(resp)

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var er struct {
			Message string `json:"message"`
			TraceID string `json:"trace_id"`
		}
		if json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&er) == nil {
			apiErr.Message, apiErr.TraceID = er.Message, er.TraceID
		}
		if apiErr.TraceID == "" {
			apiErr.TraceID = resp.Header.Get(common.TraceIDHeaderName)
		}
		return resp.StatusCode, apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz", nil, nil)
	return err
}

type userResponse struct {
	User *models.UserDetails `json:"user"`
}

func (c *HTTPClient) Signup(ctx context.Context, in models.RegisterInput) (*models.UserDetails, error) {
	var out userResponse
	if _, err := c.do(ctx, http.MethodPost, "/auth/signup", in, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) Signin(ctx context.Context, username, password string) (*models.UserDetails, error) {
	in := map[string]string{"username": username, "password": password}
	var out userResponse
	if _, err := c.do(ctx, http.MethodPost, "/auth/signin", in, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

// Logout revokes the session on the server and forgets it locally even
// when the server cannot be reached.
func (c *HTTPClient) Logout(ctx context.Context) error {
	if token, _ := c.Session(); token == "" {
		return nil
	}
	_, err := c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
	c.SetSession("", time.Time{})
	return err
}

func (c *HTTPClient) Check(ctx context.Context) (*models.UserDetails, error) {
	var out userResponse
	if _, err := c.do(ctx, http.MethodGet, "/auth/check", nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.Profile, error) {
	var p models.Profile
	if _, err := c.do(ctx, http.MethodGet, "/api/profile", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SaveProfile creates or replaces the profile and reports whether it was
// newly created.
func (c *HTTPClient) SaveProfile(ctx context.Context, in models.ProfileInput) (*models.Profile, bool, error) {
	var out struct {
		Profile *models.Profile `json:"profile"`
	}
	status, err := c.do(ctx, http.MethodPut, "/api/profile", in, &out)
	if err != nil {
		return nil, false, err
	}
	return out.Profile, status == http.StatusCreated, nil
}

func (c *HTTPClient) UserDetails(ctx context.Context) (*models.UserDetails, error) {
	var d models.UserDetails
	if _, err := c.do(ctx, http.MethodGet, "/api/user/details", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *HTTPClient) AvatarUploadURL(ctx context.Context) (string, error) {
	var out struct {
		URL string `json:"upload_url"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/profile/avatar", nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

func (c *HTTPClient) AvatarDownloadURL(ctx context.Context) (string, error) {
	var out struct {
		URL string `json:"download_url"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/api/profile/avatar", nil, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// UploadAvatar asks for a presigned URL and PUTs the image to it.
func (c *HTTPClient) UploadAvatar(ctx context.Context, data []byte, contentType string) error {
	url, err := c.AvatarUploadURL(ctx)
	if err != nil {
		return err
	}
	if err := netx.UploadWithClient(ctx, c.http, url, data, contentType); err != nil {
		return fmt.Errorf("avatar upload: %w", err)
	}
	return nil
}

type goalIDRequest struct {
	GoalID int64 `json:"goal_id"`
}

func (c *HTTPClient) CreateGoal(ctx context.Context, in models.GoalInput) (*GoalView, error) {
	var out struct {
		Goal *GoalView `json:"goal"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/goals/createGoal", in, &out); err != nil {
		return nil, err
	}
	if out.Goal == nil {
		return nil, errors.New("empty goal in response")
	}
	return out.Goal, nil
}

func (c *HTTPClient) Goals(ctx context.Context) ([]GoalView, error) {
	var out struct {
		Goals []GoalView `json:"goals"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/api/goals/viewGoal", nil, &out); err != nil {
		return nil, err
	}
	return out.Goals, nil
}

func (c *HTTPClient) RecomputeGoal(ctx context.Context, goalID int64) (float64, error) {
	var out struct {
		CurrentValue float64 `json:"current_value"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/goals/updateGoal", goalIDRequest{goalID}, &out); err != nil {
		return 0, err
	}
	return out.CurrentValue, nil
}

func (c *HTTPClient) DeleteGoal(ctx context.Context, goalID int64) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/goals/deleteGoal", goalIDRequest{goalID}, nil)
	return err
}

func (c *HTTPClient) CreateActivity(ctx context.Context, in models.ActivityInput) (*models.Activity, error) {
	var out struct {
		Activity *models.Activity `json:"activity"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/goals/createActivity", in, &out); err != nil {
		return nil, err
	}
	if out.Activity == nil {
		return nil, errors.New("empty activity in response")
	}
	return out.Activity, nil
}

func (c *HTTPClient) GoalActivities(ctx context.Context, goalID int64) ([]models.Activity, error) {
	var out struct {
		Activities []models.Activity `json:"activities"`
	}
	if _, err := c.do(ctx, http.MethodPost, "/api/goals/viewActivity", goalIDRequest{goalID}, &out); err != nil {
		return nil, err
	}
	return out.Activities, nil
}

func (c *HTTPClient) Activities(ctx context.Context) ([]models.Activity, error) {
	var out struct {
		Activities []models.Activity `json:"activities"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/api/goals/allActivities", nil, &out); err != nil {
		return nil, err
	}
	return out.Activities, nil
}

func (c *HTTPClient) WeeklyReport(ctx context.Context) (*models.WeeklyReport, error) {
	var r models.WeeklyReport
	if _, err := c.do(ctx, http.MethodGet, "/api/goals/weeklyReport", nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}
