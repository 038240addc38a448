package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "sovereign/internal/jwt_token"
	"sovereign/internal/platform/config"
	pservice "sovereign/internal/protocol/service"
	"sovereign/internal/sovereign/adapters/simulated"
	id "sovereign/pkg/domain"
	"sovereign/pkg/platform/audit/publishers/logsink"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "none.env")))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "sovereignd dev (none)\n", out)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("SOVEREIGN_HTTP_JWT_SIGNING_KEY", "cli-test-key")

	t.Run("issues a token for the participant", func(t *testing.T) {
		out, err := execute(t, "token", "alice", "--ttl", "5m")
		require.NoError(t, err)

		claims, err := jwttoken.NewJWTService("cli-test-key", "sovereignd", "sovereign-api").
			ValidateToken(strings.TrimSpace(out))
		require.NoError(t, err)
		assert.Equal(t, "alice", claims.Subject)
	})

	t.Run("rejects an invalid participant", func(t *testing.T) {
		_, err := execute(t, "token", "bad/name")
		assert.Error(t, err)
	})

	t.Run("rejects a non-positive ttl", func(t *testing.T) {
		_, err := execute(t, "token", "alice", "--ttl", "0s")
		assert.Error(t, err)
	})
}

func TestMigrateRequiresPostgres(t *testing.T) {
	_, err := execute(t, "migrate", "up")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres driver")
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		st, err := openStore(ctx, config.StorageConfig{Driver: config.DriverMemory}, discardLogger())
		require.NoError(t, err)
		assert.NoError(t, st.Close())
	})

	t.Run("badger", func(t *testing.T) {
		st, err := openStore(ctx, config.StorageConfig{Driver: config.DriverBadger, BadgerDir: t.TempDir()}, discardLogger())
		require.NoError(t, err)
		assert.NoError(t, st.Close())
	})
}

func TestOpenEventSinkDefaultsToLog(t *testing.T) {
	sink, closeSink, err := openEventSink(context.Background(), config.EventsConfig{Sink: config.SinkLog},
		discardLogger(), clockwork.NewFakeClock(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer closeSink()
	assert.IsType(t, &logsink.Sink{}, sink)
}

func TestOpenRateLimiterInMemory(t *testing.T) {
	cfg := config.Default().RateLimit
	limiter, closeLimiter, err := openRateLimiter(context.Background(), cfg,
		discardLogger(), clockwork.NewFakeClock(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer closeLimiter()
	assert.NotNil(t, limiter)
}

func TestBootstrapProtocol(t *testing.T) {
	ctx := context.Background()
	st, err := openStore(ctx, config.StorageConfig{Driver: config.DriverMemory}, discardLogger())
	require.NoError(t, err)
	protocol := pservice.New(st, pservice.WithLogger(discardLogger()))

	t.Run("skipped without an authority", func(t *testing.T) {
		require.NoError(t, bootstrapProtocol(ctx, protocol, config.ProtocolConfig{}, discardLogger()))
		_, err := protocol.Get(ctx)
		assert.Error(t, err)
	})

	t.Run("initializes from config", func(t *testing.T) {
		cfg := config.ProtocolConfig{Authority: "ops", Treasury: "treasury", CurrencyToken: "USDC"}
		require.NoError(t, bootstrapProtocol(ctx, protocol, cfg, discardLogger()))

		pc, err := protocol.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, id.ParticipantID("ops"), pc.Authority)
		assert.Equal(t, "USDC", pc.CurrencyToken)
	})
}

func TestSeedBalances(t *testing.T) {
	cfg := config.Default()
	cfg.Simulation.Balances = map[string]uint64{"alice": 1_000, "bob": 5}
	ledger := simulated.NewLedger()

	require.NoError(t, seedBalances(ledger, cfg, discardLogger()))
	assert.Equal(t, uint64(1_000), ledger.Balance("USDC", "alice"))
	assert.Equal(t, uint64(5), ledger.Balance("USDC", "bob"))
}
