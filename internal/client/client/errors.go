package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/fittrack/internal/common"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrRateLimited = errors.New("too many requests")
	ErrNoSession   = errors.New("not signed in")
)

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	Status  int
	Message string
	TraceID string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if e.TraceID != "" {
		return fmt.Sprintf("%s (status %d, trace %s)", msg, e.Status, e.TraceID)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.Status)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest:
		return common.ErrValidation
	case http.StatusUnauthorized:
		return common.ErrUnauthenticated
	case http.StatusForbidden:
		return common.ErrForbidden
	case http.StatusNotFound:
		return common.ErrNotFound
	case http.StatusConflict:
		return common.ErrConflict
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusServiceUnavailable:
		return ErrUnavailable
	}
	if e.Status >= 500 {
		return common.ErrInternal
	}
	return nil
}
