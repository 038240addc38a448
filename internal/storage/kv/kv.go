// Package kv defines the record store every backend implements: an opaque
// key space with JSON values, point reads, prefix scans and write
// transactions serialized per lock key.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	dErrors "sovereign/pkg/domain-errors"
	"sovereign/pkg/platform/sentinel"
)

// DefaultTimeout bounds a transaction whose context carries no deadline.
const DefaultTimeout = 5 * time.Second

// Entry is one key/value pair returned by Scan.
type Entry struct {
	Key   string
	Value []byte
}

// Reader reads committed state plus, inside Update, the transaction's own writes.
type Reader interface {
	// Get returns sentinel.ErrNotFound when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	// Scan returns every entry whose key starts with prefix, ordered by key.
	Scan(ctx context.Context, prefix string) ([]Entry, error)
}

// Txn is the write side of an Update.
type Txn interface {
	Reader
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Store runs transactions. Update calls holding the same lock key never
// interleave; writes become visible only if fn returns nil.
type Store interface {
	Update(ctx context.Context, lockKey string, fn func(ctx context.Context, txn Txn) error) error
	View(ctx context.Context, fn func(ctx context.Context, r Reader) error) error
	Close() error
}

// WithDeadline applies DefaultTimeout when ctx has no deadline and rejects an
// already-finished context.
func WithDeadline(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := ctx.Err(); err != nil {
		return ctx, func() {}, dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}, nil
	}
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	return ctx, cancel, nil
}

// LockTimeout converts a context error raised while waiting for a lock.
func LockTimeout(lockKey string, err error) error {
	return dErrors.Wrap(err, dErrors.CodeTimeout, fmt.Sprintf("timed out waiting for lock %q", lockKey))
}

// GetJSON decodes the value at key into a T.
func GetJSON[T any](ctx context.Context, r Reader, key string) (T, error) {
	var out T
	raw, err := r.Get(ctx, key)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode %s: %w", key, err)
	}
	return out, nil
}

// PutJSON encodes v and stores it at key.
func PutJSON(ctx context.Context, txn Txn, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return txn.Put(ctx, key, raw)
}

// ScanJSON decodes every value under prefix.
func ScanJSON[T any](ctx context.Context, r Reader, prefix string) ([]T, error) {
	entries, err := r.Scan(ctx, prefix)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(entries))
	for _, e := range entries {
		var v T
		if err := json.Unmarshal(e.Value, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", e.Key, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Exists reports whether key is present.
func Exists(ctx context.Context, r Reader, key string) (bool, error) {
	_, err := r.Get(ctx, key)
	if errors.Is(err, sentinel.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
