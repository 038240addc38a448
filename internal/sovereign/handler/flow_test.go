package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	jwttoken "sovereign/internal/jwt_token"
	"sovereign/internal/platform/httpserver"
	platformmetrics "sovereign/internal/platform/metrics"
	pservice "sovereign/internal/protocol/service"
	"sovereign/internal/sovereign/adapters/simulated"
	"sovereign/internal/sovereign/metrics"
	"sovereign/internal/sovereign/models"
	"sovereign/internal/sovereign/service"
	"sovereign/internal/storage/memory"
	"sovereign/pkg/bps"
	id "sovereign/pkg/domain"
	httptestutil "sovereign/pkg/testutil"
)

// FlowSuite drives a sovereign from creation to recovery over HTTP against
// the in-process collaborators.
type FlowSuite struct {
	suite.Suite
	clock       *clockwork.FakeClock
	jwt         *jwttoken.JWTService
	ledger      *simulated.Ledger
	httpMetrics *platformmetrics.Metrics
	router      http.Handler
}

func TestFlowSuite(t *testing.T) {
	suite.Run(t, new(FlowSuite))
}

func (s *FlowSuite) SetupTest() {
	clock := clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	s.clock = clock
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()

	st := memory.New()
	s.ledger = simulated.NewLedger()
	protocol := pservice.New(st, pservice.WithLogger(logger), pservice.WithClock(clock))
	lifecycle := service.New(st, simulated.NewVenue(s.ledger), simulated.NewCertificates(), s.ledger,
		service.WithLogger(logger),
		service.WithClock(clock),
		service.WithMetrics(metrics.New(reg)),
	)

	s.jwt = jwttoken.NewJWTService("test-signing-key", "sovereignd", "sovereign-api")
	s.httpMetrics = platformmetrics.New(reg)
	router := httpserver.NewRouter(httpserver.RouterConfig{
		Logger:   logger,
		Clock:    clock,
		Metrics:  s.httpMetrics,
		Gatherer: reg,
	})
	New(lifecycle, protocol, jwttoken.NewJWTServiceAdapter(s.jwt), logger).Register(router)
	s.router = router

	for _, p := range []id.ParticipantID{"creator", "alice", "bob"} {
		s.Require().NoError(s.ledger.Mint("USDC", p, 1_000))
	}
}

func (s *FlowSuite) do(method, path string, caller id.ParticipantID, body any) *httptest.ResponseRecorder {
	req := httptestutil.NewJSONRequest(s.T(), method, path, body)
	token, err := s.jwt.GenerateAccessToken(caller, time.Hour)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+token)
	return httptestutil.DoRequest(s.router, req)
}

// launch initializes the protocol and opens a sovereign with a target of 100
// and a creation charge of 10, of which 5 is non-refundable.
func (s *FlowSuite) launch() string {
	rr := s.do(http.MethodPost, "/v1/protocol/initialize", "ops", InitializeRequest{Treasury: "treasury", CurrencyToken: "USDC"})
	httptestutil.AssertStatusOK(s.T(), rr)

	rr = s.do(http.MethodPost, "/v1/protocol/fees", "ops", map[string]any{
		"creation_fee_bps": 1000,
		"min_fee":          5,
		"min_bond_target":  100,
		"min_deposit":      1,
	})
	httptestutil.AssertStatusOK(s.T(), rr)

	rr = s.do(http.MethodPost, "/v1/sovereigns", "creator", CreateRequest{
		LaunchKind:   models.LaunchNewToken,
		TokenSupply:  1_000_000,
		Target:       100,
		BondDuration: "168h",
		FeeMode:      models.FeeModeRecoveryBoost,
	})
	httptestutil.AssertStatus(s.T(), rr, http.StatusCreated)
	sov := httptestutil.UnmarshalResponse[models.Sovereign](s.T(), rr)
	return "/v1/sovereigns/" + sov.ID.String()
}

func (s *FlowSuite) TestFundraiseToRecovery() {
	base := s.launch()

	rr := s.do(http.MethodPost, base+"/deposits", "alice", AmountRequest{Amount: 60})
	httptestutil.AssertStatusOK(s.T(), rr)
	rr = s.do(http.MethodPost, base+"/deposits", "bob", AmountRequest{Amount: 60})
	httptestutil.AssertStatusOK(s.T(), rr)
	dep := httptestutil.UnmarshalResponse[service.DepositResult](s.T(), rr)
	s.Equal(uint64(40), dep.Accepted)
	s.Equal(uint64(20), dep.Refunded)

	rr = s.do(http.MethodPost, base+"/finalize", "bob", nil)
	httptestutil.AssertStatusOK(s.T(), rr)
	s.Equal(models.StateRecovery, httptestutil.UnmarshalResponse[models.Sovereign](s.T(), rr).State)

	rr = s.do(http.MethodGet, base+"/deposits/alice", "bob", nil)
	httptestutil.AssertStatusOK(s.T(), rr)
	record := httptestutil.UnmarshalResponse[models.DepositRecord](s.T(), rr)
	s.Equal(bps.Rate(6000), record.ShareBps)
	s.NotEmpty(record.CertificateRef)

	rr = s.do(http.MethodPost, base+"/deposits", "alice", AmountRequest{Amount: 1})
	httptestutil.AssertStatus(s.T(), rr, http.StatusConflict)

	s.Equal(uint64(10), s.ledger.Balance("USDC", "treasury"))
	s.Equal(float64(1), testutil.ToFloat64(
		s.httpMetrics.RequestsTotal.WithLabelValues(http.MethodPost, "/v1/sovereigns/{id}/finalize", "200")))
}

func (s *FlowSuite) TestUnfundedSovereignRefunds() {
	base := s.launch()
	t := s.T()

	httptestutil.Given(t, "an investor deposit below the target", func(t *testing.T) {
		rr := s.do(http.MethodPost, base+"/deposits", "alice", AmountRequest{Amount: 30})
		httptestutil.AssertStatusOK(t, rr)
	})

	httptestutil.When(t, "the deadline has not passed", func(t *testing.T) {
		rr := s.do(http.MethodPost, base+"/fail", "bob", nil)
		httptestutil.AssertStatusAndError(t, rr, http.StatusTooEarly, "timing_error")
	})

	s.clock.Advance(169 * time.Hour)

	httptestutil.When(t, "anyone marks it failed after the deadline", func(t *testing.T) {
		rr := s.do(http.MethodPost, base+"/fail", "bob", nil)
		httptestutil.AssertStatusOK(t, rr)
		httptestutil.AssertJSONContains(t, rr, "state", string(models.StateFailed))
	})

	httptestutil.Then(t, "the investor is refunded exactly once", func(t *testing.T) {
		rr := s.do(http.MethodPost, base+"/refund", "alice", nil)
		httptestutil.AssertStatusOK(t, rr)
		s.Equal(uint64(1_000), s.ledger.Balance("USDC", "alice"))

		rr = s.do(http.MethodPost, base+"/refund", "alice", nil)
		httptestutil.AssertStatus(t, rr, http.StatusConflict)
	})

	httptestutil.Then(t, "the creator recovers all but the minimum fee", func(t *testing.T) {
		rr := s.do(http.MethodPost, base+"/creator/failed-withdrawal", "creator", nil)
		httptestutil.AssertStatusOK(t, rr)
		out := httptestutil.UnmarshalResponse[service.FailedWithdrawal](t, rr)
		s.Equal(uint64(5), out.CreationCharge)
		s.Equal(uint64(1_000_000), out.Tokens)

		s.Equal(uint64(995), s.ledger.Balance("USDC", "creator"))
		s.Equal(uint64(5), s.ledger.Balance("USDC", "treasury"))
	})
}

func (s *FlowSuite) TestOperationalEndpoints() {
	s.Run("healthz needs no token", func() {
		rr := httptestutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		httptestutil.AssertStatusOK(s.T(), rr)
	})

	s.Run("metrics exposes http instruments", func() {
		s.do(http.MethodGet, "/v1/protocol", "ops", nil)

		rr := httptestutil.DoRequest(s.router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		httptestutil.AssertStatusOK(s.T(), rr)
		s.True(strings.Contains(rr.Body.String(), "sovereign_http_requests_total"))
	})

	s.Run("request id is echoed", func() {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil).WithContext(context.Background())
		req.Header.Set("X-Request-ID", "req-123")
		rr := httptestutil.DoRequest(s.router, req)
		s.Equal("req-123", rr.Header().Get("X-Request-ID"))
	})
}
