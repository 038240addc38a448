// Package kvtest holds the behavioural suite every kv backend must pass.
package kvtest

import (
	"context"
	"errors"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"sovereign/internal/storage/kv"
	"sovereign/pkg/platform/sentinel"
)

// Suite exercises a kv.Store. NewStore is called once per test.
type Suite struct {
	suite.Suite
	NewStore func() kv.Store

	store kv.Store
	ctx   context.Context
}

func (s *Suite) SetupTest() {
	s.ctx = context.Background()
	s.store = s.NewStore()
}

func (s *Suite) TearDownTest() {
	s.Require().NoError(s.store.Close())
}

func (s *Suite) put(key, value string) {
	s.Require().NoError(s.store.Update(s.ctx, key, func(ctx context.Context, txn kv.Txn) error {
		return txn.Put(ctx, key, []byte(value))
	}))
}

func (s *Suite) get(key string) ([]byte, error) {
	var out []byte
	err := s.store.View(s.ctx, func(ctx context.Context, r kv.Reader) error {
		v, err := r.Get(ctx, key)
		out = v
		return err
	})
	return out, err
}

// =============================================================================
// Point reads and writes
// =============================================================================

func (s *Suite) TestGetMissing() {
	_, err := s.get("absent")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *Suite) TestPutGetDelete() {
	s.put("sovereign/a", `{"v":1}`)

	v, err := s.get("sovereign/a")
	s.Require().NoError(err)
	s.JSONEq(`{"v":1}`, string(v))

	s.Require().NoError(s.store.Update(s.ctx, "sovereign/a", func(ctx context.Context, txn kv.Txn) error {
		return txn.Delete(ctx, "sovereign/a")
	}))
	_, err = s.get("sovereign/a")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *Suite) TestReadYourWrites() {
	s.Require().NoError(s.store.Update(s.ctx, "k", func(ctx context.Context, txn kv.Txn) error {
		if err := txn.Put(ctx, "k", []byte(`"staged"`)); err != nil {
			return err
		}
		v, err := txn.Get(ctx, "k")
		if err != nil {
			return err
		}
		s.Equal(`"staged"`, string(v))
		return nil
	}))
}

// =============================================================================
// Atomicity
// =============================================================================

func (s *Suite) TestFailedUpdateLeavesNoTrace() {
	s.put("deposit/s/alice", `1`)

	boom := errors.New("boom")
	err := s.store.Update(s.ctx, "sovereign/s", func(ctx context.Context, txn kv.Txn) error {
		if err := txn.Put(ctx, "deposit/s/alice", []byte(`2`)); err != nil {
			return err
		}
		if err := txn.Put(ctx, "deposit/s/bob", []byte(`3`)); err != nil {
			return err
		}
		return boom
	})
	s.ErrorIs(err, boom)

	v, err := s.get("deposit/s/alice")
	s.Require().NoError(err)
	s.Equal(`1`, string(v))
	_, err = s.get("deposit/s/bob")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

// =============================================================================
// Prefix scans
// =============================================================================

func (s *Suite) TestScanIsOrderedAndPrefixBound() {
	s.put("deposit/s1/carol", `3`)
	s.put("deposit/s1/alice", `1`)
	s.put("deposit/s10/zed", `9`)
	s.put("deposit/s1/bob", `2`)

	var keys []string
	s.Require().NoError(s.store.View(s.ctx, func(ctx context.Context, r kv.Reader) error {
		entries, err := r.Scan(ctx, "deposit/s1/")
		for _, e := range entries {
			keys = append(keys, e.Key)
		}
		return err
	}))
	s.Equal([]string{"deposit/s1/alice", "deposit/s1/bob", "deposit/s1/carol"}, keys)
}

func (s *Suite) TestScanSeesStagedWrites() {
	s.put("vote/s/1/a", `1`)
	s.Require().NoError(s.store.Update(s.ctx, "sovereign/s", func(ctx context.Context, txn kv.Txn) error {
		if err := txn.Put(ctx, "vote/s/1/b", []byte(`2`)); err != nil {
			return err
		}
		if err := txn.Delete(ctx, "vote/s/1/a"); err != nil {
			return err
		}
		entries, err := txn.Scan(ctx, "vote/s/1/")
		if err != nil {
			return err
		}
		s.Require().Len(entries, 1)
		s.Equal("vote/s/1/b", entries[0].Key)
		return nil
	}))
}

// =============================================================================
// Serialization per lock key
// =============================================================================

func (s *Suite) TestSameLockKeySerializes() {
	s.put("counter", `0`)

	var inside atomic.Int32
	var overlap atomic.Bool
	g, ctx := errgroup.WithContext(s.ctx)
	for range 8 {
		g.Go(func() error {
			return s.store.Update(ctx, "sovereign/x", func(ctx context.Context, txn kv.Txn) error {
				if inside.Add(1) > 1 {
					overlap.Store(true)
				}
				defer inside.Add(-1)

				raw, err := txn.Get(ctx, "counter")
				if err != nil {
					return err
				}
				n, err := strconv.Atoi(string(raw))
				if err != nil {
					return err
				}
				time.Sleep(2 * time.Millisecond)
				return txn.Put(ctx, "counter", []byte(strconv.Itoa(n+1)))
			})
		})
	}
	s.Require().NoError(g.Wait())
	s.False(overlap.Load(), "updates under one lock key must not overlap")

	v, err := s.get("counter")
	s.Require().NoError(err)
	s.Equal("8", string(v))
}
