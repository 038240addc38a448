// Package badger is the embedded, on-disk kv backend. Without a data
// directory it runs badger in memory.
package badger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"

	"sovereign/internal/storage/kv"
	dErrors "sovereign/pkg/domain-errors"
	"sovereign/pkg/platform/sentinel"
)

const gcInterval = 5 * time.Minute

type Store struct {
	db     *badger.DB
	locks  *kv.KeyLocks
	logger *slog.Logger

	dataDir   string
	gcEnabled bool
	gcTicker  *time.Ticker
	gcStop    chan struct{}
	gcWg      sync.WaitGroup
}

type Option func(*Store)

// WithDataDir persists data under dir. An empty dir keeps everything in memory.
func WithDataDir(dir string) Option {
	return func(s *Store) {
		s.dataDir = dir
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithGC toggles the periodic value-log garbage collector.
func WithGC(enabled bool) Option {
	return func(s *Store) {
		s.gcEnabled = enabled
	}
}

func New(opts ...Option) (*Store, error) {
	s := &Store{
		locks:     kv.NewKeyLocks(),
		gcEnabled: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var badgerOpts badger.Options
	if s.dataDir == "" {
		badgerOpts = badger.DefaultOptions("").
			WithInMemory(true)
		s.gcEnabled = false
	} else {
		if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data dir: %w", err)
		}
		badgerOpts = badger.DefaultOptions(s.dataDir).
			WithCompression(options.Snappy)
	}
	badgerOpts = badgerOpts.
		WithLogger(NewLogger(s.logger)).
		WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	s.db = db

	if s.gcEnabled {
		s.gcTicker = time.NewTicker(gcInterval)
		s.gcStop = make(chan struct{})
		s.gcWg.Add(1)
		go s.runGC()
	}
	return s, nil
}

func (s *Store) runGC() {
	defer s.gcWg.Done()
	for {
		select {
		case <-s.gcTicker.C:
			for {
				err := s.db.RunValueLogGC(0.5)
				if err == nil {
					continue
				}
				if !errors.Is(err, badger.ErrNoRewrite) {
					s.logger.Warn("value log GC failed", "component", "storage", "error", err)
				}
				break
			}
		case <-s.gcStop:
			return
		}
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

	err = s.db.Update(func(btx *badger.Txn) error {
		return fn(ctx, &txn{tx: btx})
	})
	return translate(err)
}

func (s *Store) View(ctx context.Context, fn func(ctx context.Context, r kv.Reader) error) error {
	ctx, cancel, err := kv.WithDeadline(ctx)
	defer cancel()
	if err != nil {
		return err
	}
	return translate(s.db.View(func(btx *badger.Txn) error {
		return fn(ctx, &txn{tx: btx})
	}))
}

func (s *Store) Close() error {
	if s.gcTicker != nil {
		s.gcTicker.Stop()
		close(s.gcStop)
		s.gcWg.Wait()
		s.gcTicker = nil
	}
	return s.db.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, badger.ErrConflict):
		return dErrors.Wrap(sentinel.ErrConflict, dErrors.CodeConflict, "concurrent update, retry")
	case errors.Is(err, badger.ErrDBClosed):
		return sentinel.ErrClosed
	default:
		return err
	}
}

type txn struct {
	tx *badger.Txn
}

func (t *txn) Get(_ context.Context, key string) ([]byte, error) {
	item, err := t.tx.Get([]byte(key))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return item.ValueCopy(nil)
}

func (t *txn) Scan(_ context.Context, prefix string) ([]kv.Entry, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefix)
	it := t.tx.NewIterator(opts)
	defer it.Close()

	var out []kv.Entry
	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		v, err := item.ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		out = append(out, kv.Entry{Key: string(item.KeyCopy(nil)), Value: v})
	}
	return out, nil
}

func (t *txn) Put(_ context.Context, key string, value []byte) error {
	return t.tx.Set([]byte(key), value)
}

func (t *txn) Delete(_ context.Context, key string) error {
	return t.tx.Delete([]byte(key))
}
