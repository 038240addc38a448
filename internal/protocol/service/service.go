// Package service is the administrative surface over the protocol config.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"sovereign/internal/protocol/models"
	"sovereign/internal/protocol/store"
	"sovereign/internal/storage/kv"
	id "sovereign/pkg/domain"
	"sovereign/pkg/platform/audit"
	"sovereign/pkg/requestcontext"
)

type Service struct {
	store     kv.Store
	logger    *slog.Logger
	publisher audit.Emitter
	clock     clockwork.Clock
	tracer    trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithPublisher(p audit.Emitter) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

func New(st kv.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		logger: slog.Default(),
		clock:  clockwork.NewRealClock(),
		tracer: otel.Tracer("sovereign/protocol"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize creates the singleton with defaults. Calling it again returns
// the existing config unchanged.
func (s *Service) Initialize(ctx context.Context, p models.InitParams) (*models.Config, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var out *models.Config
	created := false
	err := s.run(ctx, "protocol.initialize", func(ctx context.Context, txn kv.Txn) error {
		exists, err := kv.Exists(ctx, txn, store.ConfigKey)
		if err != nil {
			return err
		}
		if exists {
			out, err = store.Load(ctx, txn)
			return err
		}
		cfg, err := models.NewConfig(p, s.now(ctx))
		if err != nil {
			return err
		}
		if err := store.Save(ctx, txn, cfg); err != nil {
			return err
		}
		out, created = cfg, true
		return nil
	})
	if err != nil {
		return nil, err
	}
	if created {
		s.logAudit(ctx, audit.EventProtocolInitialized, p.Authority,
			"treasury", p.Treasury.String(), "currency_token", p.CurrencyToken)
	}
	return out, nil
}

// Get returns the current config.
func (s *Service) Get(ctx context.Context) (*models.Config, error) {
	var out *models.Config
	err := s.store.View(ctx, func(ctx context.Context, r kv.Reader) error {
		cfg, err := store.Load(ctx, r)
		out = cfg
		return err
	})
	return out, err
}

func (s *Service) UpdateFees(ctx context.Context, caller id.ParticipantID, u models.FeeUpdate) (*models.Config, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, "protocol.update_fees", caller, audit.EventProtocolFeesUpdated,
		func(cfg *models.Config, now time.Time) error {
			cfg.ApplyFees(u, now)
			return nil
		})
}

func (s *Service) TransferAuthority(ctx context.Context, caller, to id.ParticipantID) (*models.Config, error) {
	return s.mutate(ctx, "protocol.transfer_authority", caller, audit.EventAuthorityTransferred,
		func(cfg *models.Config, now time.Time) error {
			return cfg.TransferAuthority(to, now)
		}, "new_authority", to.String())
}

func (s *Service) Pause(ctx context.Context, caller id.ParticipantID) (*models.Config, error) {
	return s.mutate(ctx, "protocol.pause", caller, audit.EventProtocolPaused,
		func(cfg *models.Config, now time.Time) error {
			return cfg.SetPaused(true, now)
		})
}

func (s *Service) Unpause(ctx context.Context, caller id.ParticipantID) (*models.Config, error) {
	return s.mutate(ctx, "protocol.unpause", caller, audit.EventProtocolUnpaused,
		func(cfg *models.Config, now time.Time) error {
			return cfg.SetPaused(false, now)
		})
}

func (s *Service) SetActivityThreshold(ctx context.Context, caller id.ParticipantID, threshold uint64) (*models.Config, error) {
	return s.mutate(ctx, "protocol.set_activity_threshold", caller, audit.EventActivityThresholdSet,
		func(cfg *models.Config, now time.Time) error {
			return cfg.SetActivityThreshold(threshold, now)
		}, "threshold", threshold)
}

func (s *Service) RenounceActivityThreshold(ctx context.Context, caller id.ParticipantID) (*models.Config, error) {
	return s.mutate(ctx, "protocol.renounce_activity_threshold", caller, audit.EventActivityThresholdRenounced,
		func(cfg *models.Config, now time.Time) error {
			return cfg.RenounceActivityThreshold(now)
		})
}

func (s *Service) UpdateInactivityWindow(ctx context.Context, caller id.ParticipantID, window time.Duration) (*models.Config, error) {
	return s.mutate(ctx, "protocol.update_inactivity_window", caller, audit.EventInactivityWindowUpdated,
		func(cfg *models.Config, now time.Time) error {
			return cfg.SetInactivityWindow(window, now)
		}, "window", window.String())
}

func (s *Service) UpdateProposalInactivityPeriod(ctx context.Context, caller id.ParticipantID, period time.Duration) (*models.Config, error) {
	return s.mutate(ctx, "protocol.update_proposal_inactivity_period", caller, audit.EventProposalInactivityUpdated,
		func(cfg *models.Config, now time.Time) error {
			return cfg.SetProposalInactivityPeriod(period, now)
		}, "period", period.String())
}

// mutate loads the config, checks the caller is the authority, applies fn
// and saves, all under the protocol lock.
func (s *Service) mutate(
	ctx context.Context,
	op string,
	caller id.ParticipantID,
	event audit.EventType,
	fn func(cfg *models.Config, now time.Time) error,
	attrs ...any,
) (*models.Config, error) {
	var out *models.Config
	err := s.run(ctx, op, func(ctx context.Context, txn kv.Txn) error {
		cfg, err := store.Load(ctx, txn)
		if err != nil {
			return err
		}
		if err := cfg.Authorize(caller); err != nil {
			return err
		}
		if err := fn(cfg, s.now(ctx)); err != nil {
			return err
		}
		if err := store.Save(ctx, txn, cfg); err != nil {
			return err
		}
		out = cfg
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logAudit(ctx, event, caller, attrs...)
	return out, nil
}

func (s *Service) run(ctx context.Context, op string, fn func(ctx context.Context, txn kv.Txn) error) error {
	ctx, span := s.tracer.Start(ctx, op)
	defer span.End()

	err := s.store.Update(ctx, store.LockKey, fn)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(attribute.String("op", op))
	return nil
}

func (s *Service) now(ctx context.Context) time.Time {
	if t, ok := requestcontext.Time(ctx); ok {
		return t
	}
	return s.clock.Now()
}

func (s *Service) logAudit(ctx context.Context, event audit.EventType, actor id.ParticipantID, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event), "actor", actor.String(), "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(event), args...)
	}
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Emit(ctx, audit.Event{
		Type:      event,
		Actor:     actor.String(),
		RequestID: requestcontext.RequestID(ctx),
	})
}
