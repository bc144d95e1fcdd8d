// Package kv holds the local key-value persistence used for posts, the draft
// and session flags.
//
// Writers overwrite whole values. There is no locking between processes: the
// last Set wins and readers never learn that a value changed under them.
package kv

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("kv: key not found")

type Store interface {
	// Get returns ErrNotFound when the key was never set or was deleted.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete is a no-op for missing keys.
	Delete(ctx context.Context, key string) error
}
