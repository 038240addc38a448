package guarded

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	audit "sovereign/pkg/platform/audit"
	"sovereign/pkg/platform/audit/store/memory"
	"sovereign/pkg/platform/circuit"
)

type switchSink struct {
	err   error
	calls int
}

func (s *switchSink) Append(context.Context, audit.Event) error {
	s.calls++
	return s.err
}

type GuardedSinkSuite struct {
	suite.Suite
	primary  *switchSink
	fallback *memory.InMemoryStore
	now      time.Time
	metrics  *Metrics
	sink     *Sink
}

func TestGuardedSinkSuite(t *testing.T) {
	suite.Run(t, new(GuardedSinkSuite))
}

func (s *GuardedSinkSuite) SetupTest() {
	s.primary = &switchSink{}
	s.fallback = memory.NewInMemoryStore()
	s.now = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.metrics = NewMetrics(prometheus.NewRegistry())
	breaker := circuit.New("events",
		circuit.WithFailureThreshold(2),
		circuit.WithCooldown(time.Minute, func() time.Time { return s.now }),
	)
	s.sink = New(s.primary, s.fallback, breaker,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
	)
}

func (s *GuardedSinkSuite) emit() {
	s.Require().NoError(s.sink.Append(context.Background(), audit.Event{SovereignID: "s", Type: audit.EventDepositMade}))
}

func (s *GuardedSinkSuite) fallbackCount() int {
	events, err := s.fallback.ListBySovereign(context.Background(), "s")
	s.Require().NoError(err)
	return len(events)
}

// =============================================================================
// Delivery
// =============================================================================

func (s *GuardedSinkSuite) TestHealthyPrimary() {
	s.emit()
	s.Equal(1, s.primary.calls)
	s.Equal(0, s.fallbackCount())
	s.InDelta(1, testutil.ToFloat64(s.metrics.Delivered), 0)
}

func (s *GuardedSinkSuite) TestFailedEventGoesToFallback() {
	s.primary.err = errors.New("broker unreachable")
	s.emit()
	s.Equal(1, s.fallbackCount())
	s.InDelta(0, testutil.ToFloat64(s.metrics.CircuitState), 0)
}

// =============================================================================
// Circuit transitions
// =============================================================================

func (s *GuardedSinkSuite) TestOpenCircuitSkipsPrimaryUntilCooldown() {
	s.primary.err = errors.New("broker unreachable")
	s.emit()
	s.emit()
	s.InDelta(1, testutil.ToFloat64(s.metrics.CircuitState), 0)

	s.emit()
	s.Equal(2, s.primary.calls, "open circuit must not call primary")
	s.Equal(3, s.fallbackCount())

	s.Run("trial after cooldown closes the circuit", func() {
		s.primary.err = nil
		s.now = s.now.Add(time.Minute)
		s.emit()
		s.Equal(3, s.primary.calls)
		s.InDelta(0, testutil.ToFloat64(s.metrics.CircuitState), 0)
	})
}
