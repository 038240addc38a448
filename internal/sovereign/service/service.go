// Package service is the sovereign lifecycle: every operation loads the
// sovereign under its lock, checks the state table, calls collaborators,
// and commits all writes together or undoes the collaborator effects.
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

	pmodels "sovereign/internal/protocol/models"
	pstore "sovereign/internal/protocol/store"
	"sovereign/internal/sovereign/metrics"
	"sovereign/internal/sovereign/models"
	"sovereign/internal/sovereign/ports"
	"sovereign/internal/sovereign/store"
	"sovereign/internal/storage/kv"
	id "sovereign/pkg/domain"
	dErrors "sovereign/pkg/domain-errors"
	"sovereign/pkg/platform/audit"
	"sovereign/pkg/requestcontext"
)

type Service struct {
	store     kv.Store
	venue     ports.Venue
	certs     ports.CertificateIssuer
	tokens    ports.TokenService
	logger    *slog.Logger
	publisher audit.Emitter
	metrics   *metrics.Metrics
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

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

func New(st kv.Store, venue ports.Venue, certs ports.CertificateIssuer, tokens ports.TokenService, opts ...Option) *Service {
	s := &Service{
		store:  st,
		venue:  venue,
		certs:  certs,
		tokens: tokens,
		logger: slog.Default(),
		clock:  clockwork.NewRealClock(),
		tracer: otel.Tracer("sovereign/lifecycle"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// op is the state of one operation while its transaction is open.
type op struct {
	s    *Service
	name string
	ctx  context.Context
	txn  kv.Txn
	cfg  *pmodels.Config
	now  time.Time

	sov    *models.Sovereign
	escrow *models.CreatorEscrow

	journal journal
	events  []audit.Event
	flows   map[string]uint64
}

// atomic runs fn in one transaction under lockKey. Collaborator effects
// recorded on the op are undone when fn or the commit fails; events are
// published only after a successful commit.
func (s *Service) atomic(ctx context.Context, name, lockKey string, sid id.SovereignID, fn func(o *op) error) error {
	ctx, span := s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("sovereign_id", sid.String()),
	))
	defer span.End()
	start := s.clock.Now()

	var o *op
	err := s.store.Update(ctx, lockKey, func(txCtx context.Context, txn kv.Txn) error {
		cfg, err := pstore.Load(txCtx, txn)
		if err != nil {
			return err
		}
		o = &op{s: s, name: name, ctx: txCtx, txn: txn, cfg: cfg, now: s.now(ctx), flows: map[string]uint64{}}
		return fn(o)
	})
	code := "ok"
	if err != nil {
		code = string(dErrors.CodeOf(err))
		if o != nil {
			o.journal.rollback(context.WithoutCancel(ctx), o)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.metrics.ObserveOperation(name, code, s.clock.Since(start))
	if err != nil {
		return err
	}
	o.committed(ctx)
	return nil
}

// execute is atomic for an existing sovereign: it loads the sovereign under
// its lock and saves it, and the escrow when loaded, after fn succeeds.
func (s *Service) execute(ctx context.Context, name string, sid id.SovereignID, fn func(o *op) error) (*models.Sovereign, error) {
	var out *models.Sovereign
	err := s.atomic(ctx, name, store.LockKey(sid), sid, func(o *op) error {
		sov, err := store.GetSovereign(o.ctx, o.txn, sid)
		if err != nil {
			return err
		}
		o.sov = sov
		before := sov.State
		if err := fn(o); err != nil {
			return err
		}
		if err := o.save(); err != nil {
			return err
		}
		if o.sov.State != before {
			o.transitioned(before)
		}
		out = o.sov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (o *op) save() error {
	if err := store.SaveSovereign(o.ctx, o.txn, o.sov); err != nil {
		return err
	}
	if o.escrow != nil {
		return store.SaveEscrow(o.ctx, o.txn, o.escrow)
	}
	return nil
}

// loadEscrow returns the sovereign's escrow, reading it once per operation.
func (o *op) loadEscrow() (*models.CreatorEscrow, error) {
	if o.escrow != nil {
		return o.escrow, nil
	}
	e, err := store.GetEscrow(o.ctx, o.txn, o.sov.ID)
	if err != nil {
		return nil, err
	}
	o.escrow = e
	return e, nil
}

func (o *op) requireNotPaused() error { return o.cfg.RequireNotPaused() }

// emit queues an event for publication after commit.
func (o *op) emit(event audit.EventType, actor id.ParticipantID, amounts map[string]uint64) {
	o.events = append(o.events, audit.Event{
		Type:        event,
		SovereignID: o.sov.ID.String(),
		Actor:       actor.String(),
		Amounts:     amounts,
		RequestID:   requestcontext.RequestID(o.ctx),
		Timestamp:   o.now,
	})
}

// flow counts base currency for the moved-currency metric.
func (o *op) flow(name string, amount uint64) { o.flows[name] += amount }

func (o *op) transitioned(from models.State) {
	o.s.metrics.IncTransition(o.sov.State.String())
	o.s.logger.InfoContext(o.ctx, "sovereign state changed",
		"sovereign_id", o.sov.ID.String(),
		"from", from.String(),
		"to", o.sov.State.String(),
		"operation", o.name,
	)
}

func (o *op) committed(ctx context.Context) {
	for flow, amount := range o.flows {
		o.s.metrics.AddCurrency(flow, amount)
	}
	for _, e := range o.events {
		o.s.logAudit(ctx, e)
	}
}

func (s *Service) now(ctx context.Context) time.Time {
	if t, ok := requestcontext.Time(ctx); ok {
		return t
	}
	return s.clock.Now()
}

func (s *Service) logAudit(ctx context.Context, e audit.Event) {
	args := []any{
		"event", string(e.Type),
		"sovereign_id", e.SovereignID,
		"actor", e.Actor,
		"log_type", "audit",
	}
	if e.RequestID != "" {
		args = append(args, "request_id", e.RequestID)
	}
	for k, v := range e.Amounts {
		args = append(args, k, v)
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, string(e.Type), args...)
	}
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Emit(ctx, e); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "audit event not published",
			"event", string(e.Type),
			"sovereign_id", e.SovereignID,
			"error", err,
		)
	}
}

// view runs a read-only query.
func (s *Service) view(ctx context.Context, fn func(ctx context.Context, r kv.Reader) error) error {
	return s.store.View(ctx, fn)
}
