package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"sovereign/internal/storage/kv"
	"sovereign/internal/storage/kv/kvtest"
)

func TestBadgerInMemorySuite(t *testing.T) {
	suite.Run(t, &kvtest.Suite{NewStore: func() kv.Store {
		store, err := New()
		require.NoError(t, err)
		return store
	}})
}

func TestBadgerOnDiskSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := New(WithDataDir(dir), WithGC(false))
	require.NoError(t, err)
	require.NoError(t, store.Update(ctx, "protocol", func(ctx context.Context, txn kv.Txn) error {
		return txn.Put(ctx, "protocol/config", []byte(`{"paused":false}`))
	}))
	require.NoError(t, store.Close())

	store, err = New(WithDataDir(dir), WithGC(false))
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.View(ctx, func(ctx context.Context, r kv.Reader) error {
		v, err := r.Get(ctx, "protocol/config")
		if err != nil {
			return err
		}
		require.JSONEq(t, `{"paused":false}`, string(v))
		return nil
	}))
}
