package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	jwttoken "sovereign/internal/jwt_token"
	"sovereign/internal/platform/config"
	"sovereign/internal/platform/httpserver"
	platformmetrics "sovereign/internal/platform/metrics"
	redisclient "sovereign/internal/platform/redis"
	"sovereign/internal/platform/tracing"
	pmodels "sovereign/internal/protocol/models"
	pservice "sovereign/internal/protocol/service"
	ratelimitmetrics "sovereign/internal/ratelimit/metrics"
	ratelimit "sovereign/internal/ratelimit/middleware"
	"sovereign/internal/ratelimit/store/bucket"
	"sovereign/internal/sovereign/adapters/simulated"
	"sovereign/internal/sovereign/handler"
	"sovereign/internal/sovereign/metrics"
	"sovereign/internal/sovereign/service"
	"sovereign/internal/storage/badger"
	"sovereign/internal/storage/kv"
	"sovereign/internal/storage/memory"
	"sovereign/internal/storage/postgres"
	id "sovereign/pkg/domain"
	audit "sovereign/pkg/platform/audit"
	"sovereign/pkg/platform/audit/publisher"
	"sovereign/pkg/platform/audit/publishers/guarded"
	"sovereign/pkg/platform/audit/publishers/kafka"
	"sovereign/pkg/platform/audit/publishers/logsink"
	"sovereign/pkg/platform/audit/publishers/redisstream"
	"sovereign/pkg/platform/circuit"
)

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Short:   "Run the HTTP API",
		Args:    cobra.NoArgs,
		PreRunE: loadConfig,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())
			log, err := commonRun(cfg)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config, log *slog.Logger) error {
	clock := clockwork.NewRealClock()

	shutdownTracing, err := tracing.Setup(cfg.Tracing.Enabled, programName, version, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn("tracing shutdown failed", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := platformmetrics.New(reg)
	httpMetrics.SetBuildInfo(version, commit)

	st, err := openStore(ctx, cfg.Storage, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn("store close failed", "error", err)
		}
	}()

	sink, closeSink, err := openEventSink(ctx, cfg.Events, log, clock, reg)
	if err != nil {
		return err
	}
	defer closeSink()

	pub := publisher.NewPublisher(sink,
		publisher.WithAsyncBuffer(cfg.Events.Buffer),
		publisher.WithLogger(log),
		publisher.WithClock(clock),
	)
	// Drain buffered events before the sink and store go away.
	defer pub.Close()

	protocol := pservice.New(st,
		pservice.WithLogger(log),
		pservice.WithPublisher(pub),
		pservice.WithClock(clock),
	)
	if err := bootstrapProtocol(ctx, protocol, cfg.Protocol, log); err != nil {
		return err
	}

	ledger := simulated.NewLedger()
	if err := seedBalances(ledger, cfg, log); err != nil {
		return err
	}
	lifecycle := service.New(st, simulated.NewVenue(ledger), simulated.NewCertificates(), ledger,
		service.WithLogger(log),
		service.WithPublisher(pub),
		service.WithMetrics(metrics.New(reg)),
		service.WithClock(clock),
	)

	if cfg.UsingDevSigningKey() {
		log.Warn("using the development JWT signing key")
	}
	jwt := jwttoken.NewJWTService(cfg.HTTP.JWTSigningKey, cfg.HTTP.JWTIssuer, cfg.HTTP.JWTAudience)

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:         log,
		Clock:          clock,
		Metrics:        httpMetrics,
		Gatherer:       reg,
		RequestTimeout: cfg.HTTP.RequestTimeout,
	})
	var handlerOpts []handler.Option
	if cfg.RateLimit.Enabled {
		limiter, closeLimiter, err := openRateLimiter(ctx, cfg.RateLimit, log, clock, reg)
		if err != nil {
			return err
		}
		defer closeLimiter()
		handlerOpts = append(handlerOpts, handler.WithMiddleware(limiter.RateLimitCaller))
	}
	handler.New(lifecycle, protocol, jwttoken.NewJWTServiceAdapter(jwt), log, handlerOpts...).Register(router)

	srv := httpserver.New(cfg.HTTP.Addr, router)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpserver.Serve(gctx, srv, cfg.HTTP.ShutdownTimeout, log)
	})
	return g.Wait()
}

func openStore(ctx context.Context, cfg config.StorageConfig, log *slog.Logger) (kv.Store, error) {
	switch cfg.Driver {
	case config.DriverBadger:
		st, err := badger.New(
			badger.WithDataDir(cfg.BadgerDir),
			badger.WithLogger(log),
			badger.WithGC(true),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to open badger store: %w", err)
		}
		log.Info("storage ready", "driver", cfg.Driver, "dir", cfg.BadgerDir)
		return st, nil
	case config.DriverPostgres:
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, log, cfg.PostgresDSN, postgres.Up); err != nil {
				return nil, err
			}
		}
		st, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		log.Info("storage ready", "driver", cfg.Driver)
		return st, nil
	default:
		log.Info("storage ready", "driver", config.DriverMemory)
		return memory.New(), nil
	}
}

// openEventSink returns the configured sink. Remote sinks fall back to the
// log sink while their breaker is open.
func openEventSink(
	ctx context.Context,
	cfg config.EventsConfig,
	log *slog.Logger,
	clock clockwork.Clock,
	reg prometheus.Registerer,
) (audit.Sink, func(), error) {
	fallback := logsink.New(log)

	var (
		primary audit.Sink
		closer  func()
	)
	switch cfg.Sink {
	case config.SinkKafka:
		sink, err := kafka.New(cfg.Brokers, cfg.Topic)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create kafka sink: %w", err)
		}
		if err := sink.EnsureTopic(ctx, cfg.Partitions, -1); err != nil {
			sink.Close()
			return nil, nil, fmt.Errorf("failed to ensure kafka topic: %w", err)
		}
		primary, closer = sink, sink.Close
	case config.SinkRedis:
		client, err := redisclient.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		sink, err := redisstream.New(client, cfg.Redis.Stream, redisstream.WithMaxLen(cfg.Redis.MaxLen))
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		primary, closer = sink, func() { _ = client.Close() }
	default:
		log.Info("events ready", "sink", config.SinkLog)
		return fallback, func() {}, nil
	}

	breaker := circuit.New(cfg.Sink,
		circuit.WithFailureThreshold(cfg.BreakerFailures),
		circuit.WithCooldown(cfg.BreakerCooldown, clock.Now),
	)
	log.Info("events ready", "sink", cfg.Sink)
	return guarded.New(primary, fallback, breaker,
		guarded.WithLogger(log),
		guarded.WithMetrics(guarded.NewMetrics(reg)),
	), closer, nil
}

// openRateLimiter builds the per-caller limiter over the configured bucket
// store.
func openRateLimiter(
	ctx context.Context,
	cfg config.RateLimitConfig,
	log *slog.Logger,
	clock clockwork.Clock,
	reg prometheus.Registerer,
) (*ratelimit.Middleware, func(), error) {
	var (
		store  ratelimit.BucketStore
		closer = func() {}
	)
	switch cfg.Store {
	case config.RateLimitStoreRedis:
		client, err := redisclient.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		store = bucket.NewRedis(client, clock)
		closer = func() { _ = client.Close() }
	default:
		store = bucket.NewInMemoryBucketStore(clock)
	}
	log.Info("rate limit ready", "store", cfg.Store, "requests", cfg.Requests, "window", cfg.Window)
	return ratelimit.New(store, cfg.Requests, cfg.Window,
		ratelimit.WithLogger(log),
		ratelimit.WithMetrics(ratelimitmetrics.New(reg)),
	), closer, nil
}

func bootstrapProtocol(ctx context.Context, protocol *pservice.Service, cfg config.ProtocolConfig, log *slog.Logger) error {
	if cfg.Authority == "" {
		log.Info("protocol bootstrap skipped, initialize through the admin API")
		return nil
	}
	authority, err := id.ParseParticipantID(cfg.Authority)
	if err != nil {
		return err
	}
	treasury, err := id.ParseParticipantID(cfg.Treasury)
	if err != nil {
		return err
	}
	pc, err := protocol.Initialize(ctx, pmodels.InitParams{
		Authority:     authority,
		Treasury:      treasury,
		CurrencyToken: cfg.CurrencyToken,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize protocol: %w", err)
	}
	log.Info("protocol ready", "authority", pc.Authority.String(), "currency_token", pc.CurrencyToken)
	return nil
}

func seedBalances(ledger *simulated.Ledger, cfg *config.Config, log *slog.Logger) error {
	for name, amount := range cfg.Simulation.Balances {
		account, err := id.ParseParticipantID(name)
		if err != nil {
			return err
		}
		if err := ledger.Mint(cfg.Protocol.CurrencyToken, account, amount); err != nil {
			return fmt.Errorf("failed to seed %s: %w", name, err)
		}
		log.Debug("seeded balance", "account", name, "token", cfg.Protocol.CurrencyToken, "amount", amount)
	}
	return nil
}
