// Package memory is the in-process kv backend used by tests and single-node
// deployments without persistence.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"sovereign/internal/storage/kv"
	"sovereign/pkg/platform/sentinel"
)

type Store struct {
	locks *kv.KeyLocks

	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

func New() *Store {
	return &Store{
		locks: kv.NewKeyLocks(),
		data:  make(map[string][]byte),
	}
}

func (s *Store) Update(ctx context.Context, lockKey string, fn func(ctx context.Context, txn kv.Txn) error) error {
	ctx, cancel, err := kv.WithDeadline(ctx)
	defer cancel()
	if err != nil {
		return err
	}
	release, err := s.locks.Acquire(ctx, lockKey)
	if err != nil {
		return err
	}
	defer release()

	if s.isClosed() {
		return sentinel.ErrClosed
	}

	txn := &txn{store: s, staged: make(map[string][]byte)}
	if err := fn(ctx, txn); err != nil {
		return err
	}
	return s.commit(txn)
}

func (s *Store) View(ctx context.Context, fn func(ctx context.Context, r kv.Reader) error) error {
	ctx, cancel, err := kv.WithDeadline(ctx)
	defer cancel()
	if err != nil {
		return err
	}
	if s.isClosed() {
		return sentinel.ErrClosed
	}
	return fn(ctx, &txn{store: s})
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) isClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

func (s *Store) commit(t *txn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return sentinel.ErrClosed
	}
	for k, v := range t.staged {
		if v == nil {
			delete(s.data, k)
			continue
		}
		s.data[k] = v
	}
	return nil
}

// txn stages writes; a nil staged value marks a delete.
type txn struct {
	store  *Store
	staged map[string][]byte
}

func (t *txn) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := t.staged[key]; ok {
		if v == nil {
			return nil, sentinel.ErrNotFound
		}
		return clone(v), nil
	}
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()
	v, ok := t.store.data[key]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(v), nil
}

func (t *txn) Scan(_ context.Context, prefix string) ([]kv.Entry, error) {
	merged := make(map[string][]byte)
	t.store.mu.RLock()
	for k, v := range t.store.data {
		if strings.HasPrefix(k, prefix) {
			merged[k] = v
		}
	}
	t.store.mu.RUnlock()
	for k, v := range t.staged {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if v == nil {
			delete(merged, k)
		} else {
			merged[k] = v
		}
	}

	out := make([]kv.Entry, 0, len(merged))
	for k, v := range merged {
		out = append(out, kv.Entry{Key: k, Value: clone(v)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (t *txn) Put(_ context.Context, key string, value []byte) error {
	if t.staged == nil {
		return sentinel.ErrClosed
	}
	t.staged[key] = clone(value)
	return nil
}

func (t *txn) Delete(_ context.Context, key string) error {
	if t.staged == nil {
		return sentinel.ErrClosed
	}
	t.staged[key] = nil
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
