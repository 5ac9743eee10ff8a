// Package kv is the persistent key-value contract the controller saves progress through,
// with a filesystem backend (hackpadfs) and a SQLite backend.
package kv

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// Store loads and saves opaque values by key. Load reports ok=false for a missing key
// without an error.
type Store interface {
	Load(ctx context.Context, key string) (value []byte, ok bool, err error)
	Save(ctx context.Context, key string, value []byte) error
}

// ErrInvalidKey is returned for keys that are empty or contain path separators.
var ErrInvalidKey = errors.New("invalid key")

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
