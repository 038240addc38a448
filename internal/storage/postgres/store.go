// Package postgres is the shared kv backend. Each Update runs in one
// transaction that first takes a transaction-scoped advisory lock on the
// lock key, so every replica serializes on the same sovereign.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sovereign/internal/storage/kv"
	"sovereign/pkg/platform/sentinel"
	txcontext "sovereign/pkg/platform/tx"
)

type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against dsn and pings it.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnLifetime = time.Hour
	cfg.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Update(ctx context.Context, lockKey string, fn func(ctx context.Context, txn kv.Txn) error) error {
	ctx, cancel, err := kv.WithDeadline(ctx)
	defer cancel()
	if err != nil {
		return err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return translate(ctx, lockKey, err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
		return translate(ctx, lockKey, err)
	}

	ctx = txcontext.WithTx(ctx, tx)
	if err := fn(ctx, &txn{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return translate(ctx, lockKey, err)
	}
	return nil
}

func (s *Store) View(ctx context.Context, fn func(ctx context.Context, r kv.Reader) error) error {
	ctx, cancel, err := kv.WithDeadline(ctx)
	defer cancel()
	if err != nil {
		return err
	}
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return translate(ctx, "", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()
	return fn(ctx, &txn{tx: tx})
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func translate(ctx context.Context, lockKey string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return kv.LockTimeout(lockKey, ctxErr)
	}
	if errors.Is(err, pgx.ErrTxClosed) {
		return sentinel.ErrClosed
	}
	return err
}

type txn struct {
	tx pgx.Tx
}

func (t *txn) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := t.tx.QueryRow(ctx, `SELECT value FROM records WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (t *txn) Scan(ctx context.Context, prefix string) ([]kv.Entry, error) {
	rows, err := t.tx.Query(ctx,
		`SELECT key, value FROM records WHERE starts_with(key, $1) ORDER BY key COLLATE "C"`, prefix)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", prefix, err)
	}
	defer rows.Close()

	var out []kv.Entry
	for rows.Next() {
		var e kv.Entry
		if err := rows.Scan(&e.Key, &e.Value); err != nil {
			return nil, fmt.Errorf("scan %s: %w", prefix, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("scan %s: %w", prefix, err)
	}
	return out, nil
}

func (t *txn) Put(ctx context.Context, key string, value []byte) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO records (key, value, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (t *txn) Delete(ctx context.Context, key string) error {
	if _, err := t.tx.Exec(ctx, `DELETE FROM records WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
