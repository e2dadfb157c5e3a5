// Package metadata is the CLI's local key/value table.
package metadata

import (
	"context"
)

// Repository stores string values by key. Get reports a missing key as
// ok == false, not as an error.
type Repository interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
	Clear(ctx context.Context) error
}
