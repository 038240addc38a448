package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"
	"golang.org/x/sync/errgroup"

	pmodels "sovereign/internal/protocol/models"
	pservice "sovereign/internal/protocol/service"
	"sovereign/internal/sovereign/adapters/simulated"
	"sovereign/internal/sovereign/metrics"
	"sovereign/internal/sovereign/models"
	"sovereign/internal/storage/memory"
	"sovereign/pkg/bps"
	id "sovereign/pkg/domain"
	dErrors "sovereign/pkg/domain-errors"
	"sovereign/pkg/platform/audit"
	auditmemory "sovereign/pkg/platform/audit/store/memory"
	"sovereign/pkg/platform/audit/publisher"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const (
	usdc                       = "USDC"
	authority id.ParticipantID = "ops"
	treasury  id.ParticipantID = "treasury"
	creator   id.ParticipantID = "creator"
	alice     id.ParticipantID = "alice"
	bob       id.ParticipantID = "bob"
	carol     id.ParticipantID = "carol"
	dave      id.ParticipantID = "dave"

	supply     uint64 = 1_000_000
	bondPeriod        = 7 * 24 * time.Hour
	day               = 24 * time.Hour
)

func ptr[T any](v T) *T { return &v }

type LifecycleSuite struct {
	suite.Suite
	ctx      context.Context
	clock    *clockwork.FakeClock
	ledger   *simulated.Ledger
	venue    *simulated.Venue
	certs    *simulated.Certificates
	events   *auditmemory.InMemoryStore
	metrics  *metrics.Metrics
	store    *memory.Store
	protocol *pservice.Service
	svc      *Service
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}

func (s *LifecycleSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clockwork.NewFakeClockAt(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	s.ledger = simulated.NewLedger()
	s.venue = simulated.NewVenue(s.ledger)
	s.certs = simulated.NewCertificates()
	s.events = auditmemory.NewInMemoryStore()
	s.metrics = metrics.New(prometheus.NewRegistry())

	st := memory.New()
	s.store = st
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.protocol = pservice.New(st, pservice.WithLogger(logger), pservice.WithClock(s.clock))
	_, err := s.protocol.Initialize(s.ctx, pmodels.InitParams{Authority: authority, Treasury: treasury, CurrencyToken: usdc})
	s.Require().NoError(err)
	_, err = s.protocol.UpdateFees(s.ctx, authority, pmodels.FeeUpdate{
		CreationFeeBps: ptr(bps.Rate(1000)),
		MinFee:         ptr(uint64(5)),
		GovernanceFee:  ptr(uint64(2)),
		MinBondTarget:  ptr(uint64(100)),
		MinDeposit:     ptr(uint64(1)),
	})
	s.Require().NoError(err)

	s.svc = New(st, s.venue, s.certs, s.ledger,
		WithLogger(logger),
		WithClock(s.clock),
		WithMetrics(s.metrics),
		WithPublisher(publisher.NewPublisher(s.events)),
	)
	for _, p := range []id.ParticipantID{creator, alice, bob, carol, dave} {
		s.Require().NoError(s.ledger.Mint(usdc, p, 1_000))
	}
}

func (s *LifecycleSuite) create(target uint64) *models.Sovereign {
	return s.createWith(models.CreateParams{
		Creator:      creator,
		LaunchKind:   models.LaunchNewToken,
		TokenSupply:  supply,
		Target:       target,
		BondDuration: bondPeriod,
		FeeMode:      models.FeeModeRecoveryBoost,
	})
}

func (s *LifecycleSuite) createWith(p models.CreateParams) *models.Sovereign {
	sov, err := s.svc.Create(s.ctx, p)
	s.Require().NoError(err)
	return sov
}

func (s *LifecycleSuite) deposit(sid id.SovereignID, who id.ParticipantID, amount uint64) *DepositResult {
	res, err := s.svc.Deposit(s.ctx, sid, who, amount)
	s.Require().NoError(err)
	return res
}

// funded creates a sovereign of target 100, takes the given deposits and
// finalizes it.
func (s *LifecycleSuite) funded(deposits map[id.ParticipantID]uint64) *models.Sovereign {
	sov := s.create(100)
	for who, amount := range deposits {
		s.deposit(sov.ID, who, amount)
	}
	sov, err := s.svc.Finalize(s.ctx, sov.ID, creator)
	s.Require().NoError(err)
	return sov
}

func (s *LifecycleSuite) balance(token string, who id.ParticipantID) uint64 {
	return s.ledger.Balance(token, who)
}

func (s *LifecycleSuite) trade(sov *models.Sovereign, currency, tokens uint64) {
	s.Require().NoError(s.venue.SimulateTrade(sov.PositionRef, currency, tokens))
}

func (s *LifecycleSuite) claimFees(sid id.SovereignID) *Harvest {
	h, err := s.svc.ClaimFees(s.ctx, sid, alice)
	s.Require().NoError(err)
	return h
}

func (s *LifecycleSuite) deposits(sid id.SovereignID) map[id.ParticipantID]*models.DepositRecord {
	records, err := s.svc.ListDeposits(s.ctx, sid)
	s.Require().NoError(err)
	out := make(map[id.ParticipantID]*models.DepositRecord, len(records))
	for _, r := range records {
		out[r.Depositor] = r
	}
	return out
}

func (s *LifecycleSuite) eventTypes(sid id.SovereignID) []audit.EventType {
	events, err := s.events.ListBySovereign(s.ctx, sid.String())
	s.Require().NoError(err)
	out := make([]audit.EventType, 0, len(events))
	for _, e := range events {
		out = append(out, e.Type)
	}
	return out
}

func (s *LifecycleSuite) requireCode(err error, code dErrors.Code) {
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, code), "want %s, got %v", code, err)
}

// =============================================================================
// Create
// =============================================================================

func (s *LifecycleSuite) TestCreateNewToken() {
	sov := s.create(100)

	s.Equal(models.StateBonding, sov.State)
	s.Equal(uint64(10), sov.CreationCharge, "10% of target beats the minimum fee")
	s.Equal(uint64(5), sov.NonRefundableFee)
	s.Equal(uint64(1), sov.EscrowCap)
	s.Equal(supply, sov.TokenSupplied)
	s.Equal(s.clock.Now().Add(bondPeriod), sov.Deadline)
	s.Equal(uint64(10), s.balance(usdc, sov.Vault()))
	s.Equal(supply, s.balance(sov.TokenRef, sov.Vault()))
	s.Equal(uint64(990), s.balance(usdc, creator))

	cfg, err := s.protocol.Get(s.ctx)
	s.Require().NoError(err)
	s.Equal(uint64(1), cfg.SovereignCount)
	s.Equal([]audit.EventType{audit.EventSovereignCreated}, s.eventTypes(sov.ID))
}

func (s *LifecycleSuite) TestCreateValidation() {
	s.Run("target below protocol minimum", func() {
		_, err := s.svc.Create(s.ctx, models.CreateParams{
			Creator: creator, LaunchKind: models.LaunchNewToken, TokenSupply: supply,
			Target: 99, BondDuration: bondPeriod, FeeMode: models.FeeModeFairLaunch,
		})
		s.requireCode(err, dErrors.CodeValidation)
	})

	s.Run("creator cannot pay the charge", func() {
		_, err := s.svc.Create(s.ctx, models.CreateParams{
			Creator: "pauper", LaunchKind: models.LaunchNewToken, TokenSupply: supply,
			Target: 100, BondDuration: bondPeriod, FeeMode: models.FeeModeFairLaunch,
		})
		s.requireCode(err, dErrors.CodeExternalCall)

		list, err := s.svc.List(s.ctx)
		s.Require().NoError(err)
		s.Empty(list)
	})

	s.Run("base currency as the token", func() {
		_, err := s.svc.Create(s.ctx, models.CreateParams{
			Creator: creator, LaunchKind: models.LaunchExistingToken, TokenRef: usdc, TokenDeposit: 500,
			Target: 100, BondDuration: bondPeriod, FeeMode: models.FeeModeFairLaunch,
		})
		s.requireCode(err, dErrors.CodeValidation)
	})
}

func (s *LifecycleSuite) TestCreateExistingToken() {
	s.Require().NoError(s.ledger.Mint("MEME", creator, supply))
	params := models.CreateParams{
		Creator:      creator,
		LaunchKind:   models.LaunchExistingToken,
		TokenRef:     "MEME",
		TokenDeposit: 200_000,
		Target:       100,
		BondDuration: bondPeriod,
		FeeMode:      models.FeeModeFairLaunch,
	}

	s.Run("deposit below minimum supply share", func() {
		_, err := s.svc.Create(s.ctx, params)
		s.requireCode(err, dErrors.CodeValidation)
		s.Equal(supply, s.balance("MEME", creator))
		s.Equal(uint64(1_000), s.balance(usdc, creator))
	})

	s.Run("deposit meeting the minimum", func() {
		params.TokenDeposit = 400_000
		sov := s.createWith(params)
		s.Equal("MEME", sov.TokenRef)
		s.Equal(uint64(400_000), sov.TokenSupplied)
		s.Equal(uint64(400_000), s.balance("MEME", sov.Vault()))
		s.Equal(uint64(600_000), s.balance("MEME", creator))
	})
}

// =============================================================================
// Bonding
// =============================================================================

func (s *LifecycleSuite) TestDepositCapsAtTarget() {
	sov := s.create(100)
	s.deposit(sov.ID, alice, 80)

	res := s.deposit(sov.ID, bob, 50)
	s.Equal(uint64(20), res.Accepted)
	s.Equal(uint64(30), res.Refunded)
	s.Equal(uint64(100), res.Sovereign.TotalRaised)
	s.Equal(uint64(2), res.Sovereign.DepositorCount)
	s.Equal(uint64(980), s.balance(usdc, bob), "only the accepted part leaves the depositor")

	_, err := s.svc.Deposit(s.ctx, sov.ID, carol, 10)
	s.requireCode(err, dErrors.CodeState)
}

func (s *LifecycleSuite) TestRepeatDepositsShareOneRecord() {
	sov := s.create(100)
	s.deposit(sov.ID, alice, 10)
	res := s.deposit(sov.ID, alice, 15)

	s.Equal(uint64(1), res.Sovereign.DepositorCount)
	rec, err := s.svc.GetDeposit(s.ctx, sov.ID, alice)
	s.Require().NoError(err)
	s.Equal(uint64(25), rec.Amount)
}

func (s *LifecycleSuite) TestCreatorDepositFillsEscrow() {
	sov := s.create(100)

	res := s.deposit(sov.ID, creator, 5)
	s.True(res.Escrow)
	s.Equal(uint64(1), res.Accepted)
	s.Equal(uint64(4), res.Refunded)
	s.Equal(uint64(0), res.Sovereign.TotalRaised, "escrow never counts toward the target")

	_, err := s.svc.Deposit(s.ctx, sov.ID, creator, 1)
	s.requireCode(err, dErrors.CodeValidation)

	escrow, err := s.svc.GetEscrow(s.ctx, sov.ID)
	s.Require().NoError(err)
	s.Equal(uint64(1), escrow.Amount)
	_, err = s.svc.GetDeposit(s.ctx, sov.ID, creator)
	s.requireCode(err, dErrors.CodeNotFound)
}

func (s *LifecycleSuite) TestMinimumDepositWaivedForLastGap() {
	_, err := s.protocol.UpdateFees(s.ctx, authority, pmodels.FeeUpdate{MinDeposit: ptr(uint64(10))})
	s.Require().NoError(err)
	sov := s.create(100)
	s.deposit(sov.ID, alice, 95)

	_, err = s.svc.Deposit(s.ctx, sov.ID, bob, 3)
	s.requireCode(err, dErrors.CodeValidation)

	res := s.deposit(sov.ID, bob, 8)
	s.Equal(uint64(5), res.Accepted)
	s.Equal(uint64(3), res.Refunded)
	s.True(res.Sovereign.TargetMet())
}

func (s *LifecycleSuite) TestDepositRejections() {
	sov := s.create(100)

	s.Run("zero amount", func() {
		_, err := s.svc.Deposit(s.ctx, sov.ID, alice, 0)
		s.requireCode(err, dErrors.CodeValidation)
	})

	s.Run("unfunded depositor leaves nothing behind", func() {
		_, err := s.svc.Deposit(s.ctx, sov.ID, "pauper", 10)
		s.requireCode(err, dErrors.CodeExternalCall)

		_, err = s.svc.GetDeposit(s.ctx, sov.ID, "pauper")
		s.requireCode(err, dErrors.CodeNotFound)
		got, err := s.svc.Get(s.ctx, sov.ID)
		s.Require().NoError(err)
		s.Zero(got.TotalRaised)
		s.Zero(got.DepositorCount)
	})

	s.Run("unknown sovereign", func() {
		_, err := s.svc.Deposit(s.ctx, id.NewSovereignID(), alice, 10)
		s.requireCode(err, dErrors.CodeNotFound)
	})

	s.Run("after the deadline", func() {
		s.clock.Advance(bondPeriod)
		_, err := s.svc.Deposit(s.ctx, sov.ID, alice, 10)
		s.requireCode(err, dErrors.CodeTiming)
	})
}

func (s *LifecycleSuite) TestWithdraw() {
	sov := s.create(100)
	s.deposit(sov.ID, alice, 50)

	got, err := s.svc.Withdraw(s.ctx, sov.ID, alice, 20)
	s.Require().NoError(err)
	s.Equal(uint64(30), got.TotalRaised)
	s.Equal(uint64(970), s.balance(usdc, alice))

	_, err = s.svc.Withdraw(s.ctx, sov.ID, alice, 31)
	s.requireCode(err, dErrors.CodeValidation)

	got, err = s.svc.Withdraw(s.ctx, sov.ID, alice, 30)
	s.Require().NoError(err)
	s.Zero(got.TotalRaised)
	s.Zero(got.DepositorCount)
	s.Equal(uint64(1_000), s.balance(usdc, alice))
	_, err = s.svc.GetDeposit(s.ctx, sov.ID, alice)
	s.requireCode(err, dErrors.CodeNotFound)
}

func (s *LifecycleSuite) TestPauseGatesEntryPoints() {
	sov := s.create(100)
	s.deposit(sov.ID, alice, 50)
	_, err := s.protocol.Pause(s.ctx, authority)
	s.Require().NoError(err)

	_, err = s.svc.Deposit(s.ctx, sov.ID, bob, 10)
	s.requireCode(err, dErrors.CodeState)
	_, err = s.svc.Create(s.ctx, models.CreateParams{
		Creator: creator, LaunchKind: models.LaunchNewToken, TokenSupply: supply,
		Target: 100, BondDuration: bondPeriod, FeeMode: models.FeeModeFairLaunch,
	})
	s.requireCode(err, dErrors.CodeState)

	_, err = s.svc.Withdraw(s.ctx, sov.ID, alice, 50)
	s.Require().NoError(err, "withdrawals stay open while paused")

	_, err = s.protocol.Unpause(s.ctx, authority)
	s.Require().NoError(err)
	s.deposit(sov.ID, bob, 10)
}

func (s *LifecycleSuite) TestConcurrentDepositsNeverOverfill() {
	sov := s.create(100)
	var (
		mu       sync.Mutex
		accepted uint64
	)
	g := new(errgroup.Group)
	for i := range 10 {
		who := id.ParticipantID("investor-" + string(rune('a'+i)))
		s.Require().NoError(s.ledger.Mint(usdc, who, 100))
		g.Go(func() error {
			res, err := s.svc.Deposit(s.ctx, sov.ID, who, 30)
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeState) {
					return nil
				}
				return err
			}
			mu.Lock()
			accepted += res.Accepted
			mu.Unlock()
			return nil
		})
	}
	s.Require().NoError(g.Wait())

	got, err := s.svc.Get(s.ctx, sov.ID)
	s.Require().NoError(err)
	s.Equal(uint64(100), accepted)
	s.Equal(uint64(100), got.TotalRaised)
	s.Equal(uint64(110), s.balance(usdc, sov.Vault()), "raised plus the creation charge")

	var sum uint64
	for _, r := range s.deposits(sov.ID) {
		sum += r.Amount
	}
	s.Equal(uint64(100), sum)
}

// =============================================================================
// Finalize and failure
// =============================================================================

func (s *LifecycleSuite) TestFinalize() {
	sov := s.create(100)

	_, err := s.svc.Finalize(s.ctx, sov.ID, creator)
	s.requireCode(err, dErrors.CodeState)

	s.deposit(sov.ID, alice, 50)
	s.deposit(sov.ID, bob, 30)
	s.deposit(sov.ID, carol, 20)
	sov, err = s.svc.Finalize(s.ctx, sov.ID, creator)
	s.Require().NoError(err)

	s.Equal(models.StateRecovery, sov.State)
	s.Equal(uint64(100), sov.RecoveryTarget)
	s.True(sov.PoolRestricted)
	s.True(s.venue.Restricted(sov.PositionRef))
	c, t := s.venue.Reserves(sov.PositionRef)
	s.Equal(uint64(100), c)
	s.Equal(supply, t)
	s.Equal(uint64(10), s.balance(usdc, treasury))
	s.Zero(s.balance(usdc, sov.Vault()))

	records := s.deposits(sov.ID)
	s.Equal(bps.Rate(5000), records[alice].ShareBps)
	s.Equal(bps.Rate(3000), records[bob].ShareBps)
	s.Equal(bps.Rate(2000), records[carol].ShareBps)
	for who, r := range records {
		owner, ok := s.certs.Owner(r.CertificateRef)
		s.True(ok)
		s.Equal(who, owner)
	}

	_, err = s.svc.Finalize(s.ctx, sov.ID, creator)
	s.requireCode(err, dErrors.CodeState)
	s.Equal(float64(1), testutil.ToFloat64(s.metrics.Transitions.WithLabelValues("recovery")))
}

func (s *LifecycleSuite) TestFinalizeSpendsEscrow() {
	sov := s.create(100)
	s.deposit(sov.ID, creator, 1)
	s.deposit(sov.ID, alice, 100)

	sov, err := s.svc.Finalize(s.ctx, sov.ID, creator)
	s.Require().NoError(err)

	escrow, err := s.svc.GetEscrow(s.ctx, sov.ID)
	s.Require().NoError(err)
	s.Equal(uint64(9_900), escrow.PurchasedTokens)
	s.True(escrow.TokensLocked)
	s.Equal(uint64(101), sov.PositionCurrency)
	s.Equal(uint64(990_100), sov.PositionTokens)
	s.Equal(uint64(9_900), s.balance(sov.TokenRef, sov.Vault()))
}

func (s *LifecycleSuite) TestFinalizeRollsBackOnVenueFailure() {
	sov := s.create(100)
	s.deposit(sov.ID, creator, 1)
	s.deposit(sov.ID, alice, 60)
	s.deposit(sov.ID, bob, 40)
	s.venue.FailNext("Swap", simulated.ErrSlippage)

	_, err := s.svc.Finalize(s.ctx, sov.ID, creator)
	s.requireCode(err, dErrors.CodeExternalCall)

	got, err := s.svc.Get(s.ctx, sov.ID)
	s.Require().NoError(err)
	s.Equal(models.StateBonding, got.State)
	s.Empty(got.PositionRef)
	s.Equal(uint64(111), s.balance(usdc, sov.Vault()))
	s.Equal(supply, s.balance(sov.TokenRef, sov.Vault()))
	s.Zero(s.balance(usdc, treasury))
	for _, ref := range []string{"cert-1", "cert-2"} {
		ok, err := s.certs.VerifyOwnership(s.ctx, ref, alice)
		s.Require().NoError(err)
		s.False(ok, "certificate %s is burned", ref)
	}
	for _, r := range s.deposits(sov.ID) {
		s.Empty(r.CertificateRef)
		s.Zero(r.ShareBps)
	}
	s.Equal(float64(2), testutil.ToFloat64(s.metrics.Compensations.WithLabelValues("mint_certificate", "ok")))

	got, err = s.svc.Finalize(s.ctx, sov.ID, creator)
	s.Require().NoError(err, "a retry succeeds")
	s.Equal(models.StateRecovery, got.State)
}

func (s *LifecycleSuite) TestFailedSovereign() {
	sov := s.create(100)
	s.deposit(sov.ID, creator, 1)
	s.deposit(sov.ID, alice, 25)
	s.deposit(sov.ID, bob, 15)

	_, err := s.svc.MarkFailed(s.ctx, sov.ID, alice)
	s.requireCode(err, dErrors.CodeTiming)

	s.clock.Advance(bondPeriod)
	sov, err = s.svc.MarkFailed(s.ctx, sov.ID, alice)
	s.Require().NoError(err)
	s.Equal(models.StateFailed, sov.State)
	s.Equal(uint64(5), s.balance(usdc, treasury))

	s.Run("investors get their exact deposit once", func() {
		rec, err := s.svc.Refund(s.ctx, sov.ID, alice)
		s.Require().NoError(err)
		s.True(rec.RefundClaimed)
		s.Equal(uint64(1_000), s.balance(usdc, alice))

		_, err = s.svc.Refund(s.ctx, sov.ID, alice)
		s.requireCode(err, dErrors.CodeState)

		_, err = s.svc.Refund(s.ctx, sov.ID, bob)
		s.Require().NoError(err)
		s.Equal(uint64(1_000), s.balance(usdc, bob))
	})

	s.Run("creator recovers escrow, refundable charge and tokens", func() {
		_, err := s.svc.CreatorWithdrawFailed(s.ctx, sov.ID, alice)
		s.requireCode(err, dErrors.CodeUnauthorized)

		out, err := s.svc.CreatorWithdrawFailed(s.ctx, sov.ID, creator)
		s.Require().NoError(err)
		s.Equal(FailedWithdrawal{Escrow: 1, CreationCharge: 5, Tokens: supply}, *out)
		s.Equal(uint64(995), s.balance(usdc, creator))
		s.Equal(supply, s.balance(sov.TokenRef, creator))
		s.Zero(s.balance(usdc, sov.Vault()))

		_, err = s.svc.CreatorWithdrawFailed(s.ctx, sov.ID, creator)
		s.requireCode(err, dErrors.CodeState)
	})

	s.Run("no other operation is legal", func() {
		_, err := s.svc.Deposit(s.ctx, sov.ID, carol, 10)
		s.requireCode(err, dErrors.CodeState)
		_, err = s.svc.Finalize(s.ctx, sov.ID, creator)
		s.requireCode(err, dErrors.CodeState)
	})
}

// =============================================================================
// Recovery and fees
// =============================================================================

func (s *LifecycleSuite) TestRecoveryCompletes() {
	sov := s.funded(map[id.ParticipantID]uint64{alice: 50, bob: 30, carol: 20})

	s.trade(sov, 60, 0)
	h := s.claimFees(sov.ID)
	s.False(h.RecoveryCompleted)
	s.Equal(models.StateRecovery, h.Sovereign.State)
	s.Equal(uint64(60), h.Sovereign.TotalCurrencyFeesDistributed)

	s.Run("depositors withdraw their share", func() {
		out, err := s.svc.WithdrawDepositorFees(s.ctx, sov.ID, alice, alice)
		s.Require().NoError(err)
		s.Equal(uint64(30), out.Currency)
		s.Equal(uint64(980), s.balance(usdc, alice))

		_, err = s.svc.WithdrawDepositorFees(s.ctx, sov.ID, alice, alice)
		s.requireCode(err, dErrors.CodeValidation)

		_, err = s.svc.WithdrawDepositorFees(s.ctx, sov.ID, bob, alice)
		s.requireCode(err, dErrors.CodeUnauthorized)
	})

	s.trade(sov, 40, 0)
	h = s.claimFees(sov.ID)
	s.True(h.RecoveryCompleted)
	s.Equal(models.StateActive, h.Sovereign.State)
	s.True(h.Sovereign.RecoveryComplete)
	s.False(h.Sovereign.PoolRestricted)
	s.False(s.venue.Restricted(sov.PositionRef))

	out, err := s.svc.WithdrawDepositorFees(s.ctx, sov.ID, alice, alice)
	s.Require().NoError(err)
	s.Equal(uint64(20), out.Currency)

	s.Equal([]audit.EventType{
		audit.EventSovereignCreated,
		audit.EventDepositMade,
		audit.EventDepositMade,
		audit.EventDepositMade,
		audit.EventSovereignFinalized,
		audit.EventFeesClaimed,
		audit.EventInvestorFeesWithdrawn,
		audit.EventFeesClaimed,
		audit.EventRecoveryCompleted,
		audit.EventPoolRestrictionLift,
		audit.EventInvestorFeesWithdrawn,
	}, s.eventTypes(sov.ID))
}

func (s *LifecycleSuite) TestCertificateFollowsItsHolder() {
	sov := s.funded(map[id.ParticipantID]uint64{alice: 60, bob: 40})
	rec := s.deposits(sov.ID)[alice]
	s.Require().NoError(s.certs.Transfer(rec.CertificateRef, alice, dave))
	s.trade(sov, 50, 0)
	s.claimFees(sov.ID)

	_, err := s.svc.WithdrawDepositorFees(s.ctx, sov.ID, alice, alice)
	s.requireCode(err, dErrors.CodeUnauthorized)

	out, err := s.svc.WithdrawDepositorFees(s.ctx, sov.ID, alice, dave)
	s.Require().NoError(err)
	s.Equal(uint64(30), out.Currency)
	s.Equal(uint64(1_030), s.balance(usdc, dave))
}

func (s *LifecycleSuite) TestCreatorRevenueAfterRecovery() {
	sov := s.createWith(models.CreateParams{
		Creator:         creator,
		LaunchKind:      models.LaunchNewToken,
		TokenSupply:     supply,
		Target:          100,
		BondDuration:    bondPeriod,
		FeeMode:         models.FeeModeCreatorRevenue,
		FeeThresholdBps: 2000,
	})
	s.deposit(sov.ID, alice, 100)
	sov, err := s.svc.Finalize(s.ctx, sov.ID, creator)
	s.Require().NoError(err)

	s.trade(sov, 100, 0)
	h := s.claimFees(sov.ID)
	s.True(h.RecoveryCompleted)
	s.Zero(h.Split.CreatorCurrency, "recovery pays investors everything")

	_, err = s.svc.WithdrawCreatorFees(s.ctx, sov.ID, creator)
	s.requireCode(err, dErrors.CodeValidation)

	s.trade(sov, 50, 1_000)
	h = s.claimFees(sov.ID)
	s.Equal(uint64(10), h.Split.CreatorCurrency)
	s.Equal(uint64(200), h.Split.CreatorTokens)
	s.Equal(uint64(140), h.Sovereign.TotalCurrencyFeesDistributed)

	_, err = s.svc.WithdrawCreatorFees(s.ctx, sov.ID, alice)
	s.requireCode(err, dErrors.CodeUnauthorized)

	paid, err := s.svc.WithdrawCreatorFees(s.ctx, sov.ID, creator)
	s.Require().NoError(err)
	s.Equal(FeeWithdrawal{Currency: 10, Tokens: 200}, *paid)
	s.Equal(uint64(1_000), s.balance(usdc, creator), "charge paid, fee share back")
	s.Equal(uint64(200), s.balance(sov.TokenRef, creator))

	_, err = s.svc.ClaimSellTax(s.ctx, sov.ID, creator)
	s.requireCode(err, dErrors.CodeValidation)

	out, err := s.svc.WithdrawDepositorFees(s.ctx, sov.ID, alice, alice)
	s.Require().NoError(err)
	s.Equal(FeeWithdrawal{Currency: 140, Tokens: 800}, *out)
}

func (s *LifecycleSuite) TestCreatorFeeControls() {
	sov := s.createWith(models.CreateParams{
		Creator:      creator,
		LaunchKind:   models.LaunchNewToken,
		TokenSupply:  supply,
		Target:       100,
		BondDuration: bondPeriod,
		SellFeeBps:   200,
		FeeMode:      models.FeeModeFairLaunch,
	})

	_, err := s.svc.UpdateSellFee(s.ctx, sov.ID, alice, 100)
	s.requireCode(err, dErrors.CodeUnauthorized)
	_, err = s.svc.UpdateSellFee(s.ctx, sov.ID, creator, 250)
	s.requireCode(err, dErrors.CodeValidation)

	got, err := s.svc.UpdateSellFee(s.ctx, sov.ID, creator, 100)
	s.Require().NoError(err)
	s.Equal(bps.Rate(100), got.SellFeeBps)

	got, err = s.svc.RenounceSellFee(s.ctx, sov.ID, creator)
	s.Require().NoError(err)
	s.True(got.SellFeeRenounced)
	s.Zero(got.SellFeeBps)

	_, err = s.svc.UpdateSellFee(s.ctx, sov.ID, creator, 0)
	s.requireCode(err, dErrors.CodeState)
	s.Contains(s.eventTypes(sov.ID), audit.EventSellFeeRenounced)
}

// launchWithSellFee finalizes a new_token sovereign funded by alice alone and
// hands alice 1000 tokens of investor fees to trade with.
func (s *LifecycleSuite) launchWithSellFee(mode models.FeeMode, fee bps.Rate) *models.Sovereign {
	sov := s.createWith(models.CreateParams{
		Creator:         creator,
		LaunchKind:      models.LaunchNewToken,
		TokenSupply:     supply,
		Target:          100,
		BondDuration:    bondPeriod,
		SellFeeBps:      fee,
		FeeMode:         mode,
		FeeThresholdBps: 2000,
	})
	s.deposit(sov.ID, alice, 100)
	sov, err := s.svc.Finalize(s.ctx, sov.ID, creator)
	s.Require().NoError(err)

	s.trade(sov, 0, 1_000)
	s.claimFees(sov.ID)
	out, err := s.svc.WithdrawDepositorFees(s.ctx, sov.ID, alice, alice)
	s.Require().NoError(err)
	s.Equal(uint64(1_000), out.Tokens, "vault payouts carry no transfer fee")
	return sov
}

func (s *LifecycleSuite) TestTransferFeesHarvestedForCreator() {
	sov := s.launchWithSellFee(models.FeeModeCreatorRevenue, 200)

	s.Require().NoError(s.ledger.Transfer(s.ctx, sov.TokenRef, alice, bob, 500))
	s.Equal(uint64(490), s.balance(sov.TokenRef, bob))
	s.Equal(uint64(10), s.ledger.Withheld(sov.TokenRef))

	got, err := s.svc.HarvestTransferFees(s.ctx, sov.ID, bob)
	s.Require().NoError(err)
	s.Equal(uint64(10), got.TotalTransferFeesHarvested)
	s.Zero(s.ledger.Withheld(sov.TokenRef))
	s.Equal(uint64(10), s.balance(sov.TokenRef, sov.Vault()))

	_, err = s.svc.HarvestTransferFees(s.ctx, sov.ID, bob)
	s.requireCode(err, dErrors.CodeValidation)

	escrow, err := s.svc.GetEscrow(s.ctx, sov.ID)
	s.Require().NoError(err)
	s.Equal(uint64(10), escrow.SellTaxAccrued)

	_, err = s.svc.ClaimSellTax(s.ctx, sov.ID, creator)
	s.requireCode(err, dErrors.CodeState)

	s.trade(sov, 100, 0)
	s.True(s.claimFees(sov.ID).RecoveryCompleted)
	taxed, err := s.svc.ClaimSellTax(s.ctx, sov.ID, creator)
	s.Require().NoError(err)
	s.Equal(uint64(10), taxed)
	s.Equal(uint64(10), s.balance(sov.TokenRef, creator))
	s.Contains(s.eventTypes(sov.ID), audit.EventTransferFeesHarvested)
}

func (s *LifecycleSuite) TestTransferFeesHarvestedForInvestors() {
	sov := s.launchWithSellFee(models.FeeModeRecoveryBoost, 300)

	s.Require().NoError(s.ledger.Transfer(s.ctx, sov.TokenRef, alice, bob, 1_000))
	_, err := s.svc.HarvestTransferFees(s.ctx, sov.ID, carol)
	s.Require().NoError(err)

	escrow, err := s.svc.GetEscrow(s.ctx, sov.ID)
	s.Require().NoError(err)
	s.Zero(escrow.SellTaxAccrued, "recovery_boost keeps transfer fees with investors until active")

	out, err := s.svc.WithdrawDepositorFees(s.ctx, sov.ID, alice, alice)
	s.Require().NoError(err)
	s.Equal(uint64(30), out.Tokens)

	s.Run("a lowered sell fee reaches the token", func() {
		_, err := s.svc.UpdateSellFee(s.ctx, sov.ID, creator, 100)
		s.Require().NoError(err)
		s.Require().NoError(s.ledger.Transfer(s.ctx, sov.TokenRef, bob, carol, 970))
		s.Equal(uint64(9), s.ledger.Withheld(sov.TokenRef))
	})

	s.Run("existing_token launches carry no transfer fee", func() {
		s.Require().NoError(s.ledger.Mint("EXT", creator, 5_000))
		ext := s.createWith(models.CreateParams{
			Creator:      creator,
			LaunchKind:   models.LaunchExistingToken,
			TokenRef:     "EXT",
			TokenDeposit: 5_000,
			Target:       100,
			BondDuration: bondPeriod,
			FeeMode:      models.FeeModeFairLaunch,
		})
		s.deposit(ext.ID, bob, 100)
		_, err := s.svc.Finalize(s.ctx, ext.ID, creator)
		s.Require().NoError(err)
		_, err = s.svc.HarvestTransferFees(s.ctx, ext.ID, bob)
		s.requireCode(err, dErrors.CodeValidation)
	})
}

// =============================================================================
// Governance
// =============================================================================

func (s *LifecycleSuite) TestGovernanceUnwind() {
	sov := s.funded(map[id.ParticipantID]uint64{alice: 40, bob: 15, carol: 15, dave: 30})

	_, err := s.svc.ProposeUnwind(s.ctx, sov.ID, alice)
	s.requireCode(err, dErrors.CodeTiming)

	s.clock.Advance(7 * day)
	_, err = s.svc.ProposeUnwind(s.ctx, sov.ID, creator)
	s.requireCode(err, dErrors.CodeUnauthorized)

	p, err := s.svc.ProposeUnwind(s.ctx, sov.ID, alice)
	s.Require().NoError(err)
	s.Equal(id.ProposalID(1), p.ID)
	s.Equal(uint64(12), s.balance(usdc, treasury), "creation charge plus governance fee")

	_, err = s.svc.ProposeUnwind(s.ctx, sov.ID, bob)
	s.requireCode(err, dErrors.CodeState)

	s.Run("votes", func() {
		_, err := s.svc.Vote(s.ctx, sov.ID, p.ID, alice, alice, true)
		s.Require().NoError(err)
		_, err = s.svc.Vote(s.ctx, sov.ID, p.ID, alice, alice, true)
		s.requireCode(err, dErrors.CodeState)
		_, err = s.svc.Vote(s.ctx, sov.ID, p.ID, bob, carol, true)
		s.requireCode(err, dErrors.CodeUnauthorized)
		_, err = s.svc.Vote(s.ctx, sov.ID, p.ID, bob, bob, true)
		s.Require().NoError(err)
		got, err := s.svc.Vote(s.ctx, sov.ID, p.ID, carol, carol, false)
		s.Require().NoError(err)
		s.Equal(uint64(5_500), got.VotesFor)
		s.Equal(uint64(1_500), got.VotesAgainst)
	})

	_, err = s.svc.FinalizeVote(s.ctx, sov.ID, p.ID, alice)
	s.requireCode(err, dErrors.CodeTiming)

	s.clock.Advance(models.VotingPeriod)
	p, err = s.svc.FinalizeVote(s.ctx, sov.ID, p.ID, alice)
	s.Require().NoError(err)
	s.Equal(models.ProposalPassed, p.Status)

	got, err := s.svc.Get(s.ctx, sov.ID)
	s.Require().NoError(err)
	s.Equal(models.StateUnwinding, got.State)

	_, err = s.svc.Vote(s.ctx, sov.ID, p.ID, dave, dave, false)
	s.requireCode(err, dErrors.CodeState)
	again, err := s.svc.FinalizeVote(s.ctx, sov.ID, p.ID, alice)
	s.Require().NoError(err)
	s.Equal(models.ProposalPassed, again.Status)

	_, err = s.svc.ExecuteUnwind(s.ctx, sov.ID, bob)
	s.requireCode(err, dErrors.CodeTiming)

	s.clock.Advance(models.TimelockPeriod)
	got, err = s.svc.ExecuteUnwind(s.ctx, sov.ID, bob)
	s.Require().NoError(err)
	s.Equal(models.StateUnwound, got.State)
	s.Equal(uint64(5), got.Unwind.Fee)
	s.Equal(uint64(95), got.Unwind.InvestorPool)
	s.Equal(uint64(17), s.balance(usdc, treasury))

	executed, err := s.svc.GetProposal(s.ctx, sov.ID, p.ID)
	s.Require().NoError(err)
	s.Equal(models.ProposalExecuted, executed.Status)

	s.Run("investors claim their share of the pool", func() {
		want := map[id.ParticipantID]uint64{alice: 38, bob: 14, carol: 14, dave: 28}
		for who, payout := range want {
			claim, err := s.svc.ClaimInvestorUnwind(s.ctx, sov.ID, who, who)
			s.Require().NoError(err)
			s.Equal(payout, claim.Payout, "payout for %s", who)
		}
		s.Equal(uint64(996), s.balance(usdc, alice))

		_, err := s.svc.ClaimInvestorUnwind(s.ctx, sov.ID, alice, alice)
		s.requireCode(err, dErrors.CodeState)

		final, err := s.svc.Get(s.ctx, sov.ID)
		s.Require().NoError(err)
		s.Equal(uint64(94), final.Unwind.InvestorClaimed)
		s.LessOrEqual(final.Unwind.InvestorClaimed, final.Unwind.InvestorPool)
	})

	s.Run("creator claims the token proceeds once", func() {
		_, err := s.svc.ClaimCreatorUnwind(s.ctx, sov.ID, alice)
		s.requireCode(err, dErrors.CodeUnauthorized)

		tokens, err := s.svc.ClaimCreatorUnwind(s.ctx, sov.ID, creator)
		s.Require().NoError(err)
		s.Equal(supply, tokens)
		_, err = s.svc.ClaimCreatorUnwind(s.ctx, sov.ID, creator)
		s.requireCode(err, dErrors.CodeState)
	})
}

func (s *LifecycleSuite) TestFailedVoteClearsProposal() {
	sov := s.funded(map[id.ParticipantID]uint64{alice: 40, bob: 60})
	s.clock.Advance(7 * day)
	p, err := s.svc.ProposeUnwind(s.ctx, sov.ID, alice)
	s.Require().NoError(err)
	_, err = s.svc.Vote(s.ctx, sov.ID, p.ID, alice, alice, true)
	s.Require().NoError(err)

	s.clock.Advance(models.VotingPeriod)
	p, err = s.svc.FinalizeVote(s.ctx, sov.ID, p.ID, alice)
	s.Require().NoError(err)
	s.Equal(models.ProposalFailed, p.Status, "4000 bps is short of quorum")

	got, err := s.svc.Get(s.ctx, sov.ID)
	s.Require().NoError(err)
	s.Equal(models.StateRecovery, got.State)
	s.False(got.HasActiveProposal)

	_, err = s.svc.ExecuteUnwind(s.ctx, sov.ID, alice)
	s.requireCode(err, dErrors.CodeState)

	next, err := s.svc.ProposeUnwind(s.ctx, sov.ID, bob)
	s.Require().NoError(err)
	s.Equal(id.ProposalID(2), next.ID)
}

func (s *LifecycleSuite) TestRecoveryCancelsOpenProposal() {
	sov := s.funded(map[id.ParticipantID]uint64{alice: 60, bob: 40})
	s.clock.Advance(7 * day)
	p, err := s.svc.ProposeUnwind(s.ctx, sov.ID, alice)
	s.Require().NoError(err)
	_, err = s.svc.Vote(s.ctx, sov.ID, p.ID, alice, alice, true)
	s.Require().NoError(err)

	s.trade(sov, 100, 0)
	h := s.claimFees(sov.ID)
	s.True(h.RecoveryCompleted)
	s.Equal(models.StateActive, h.Sovereign.State)
	s.False(h.Sovereign.HasActiveProposal)
	s.Zero(h.Sovereign.ActiveProposal)

	cancelled, err := s.svc.GetProposal(s.ctx, sov.ID, p.ID)
	s.Require().NoError(err)
	s.Equal(models.ProposalCancelled, cancelled.Status)
	s.Equal(uint64(6_000), cancelled.VotesFor)

	s.clock.Advance(models.VotingPeriod)
	again, err := s.svc.FinalizeVote(s.ctx, sov.ID, p.ID, alice)
	s.Require().NoError(err, "a cancelled proposal is returned as decided")
	s.Equal(models.ProposalCancelled, again.Status)

	_, err = s.svc.InitiateActivityCheck(s.ctx, sov.ID, bob)
	s.Require().NoError(err)
	s.Contains(s.eventTypes(sov.ID), audit.EventProposalCancelled)
}

// passedProposal takes sov through a passing vote and its timelock.
func (s *LifecycleSuite) passedProposal(sov *models.Sovereign) {
	s.clock.Advance(7 * day)
	p, err := s.svc.ProposeUnwind(s.ctx, sov.ID, alice)
	s.Require().NoError(err)
	_, err = s.svc.Vote(s.ctx, sov.ID, p.ID, alice, alice, true)
	s.Require().NoError(err)
	s.clock.Advance(models.VotingPeriod)
	_, err = s.svc.FinalizeVote(s.ctx, sov.ID, p.ID, alice)
	s.Require().NoError(err)
	s.clock.Advance(models.TimelockPeriod)
}

func (s *LifecycleSuite) TestUnwindFeeOwedWhenTreasuryTransferFails() {
	sov := s.funded(map[id.ParticipantID]uint64{alice: 100})
	s.passedProposal(sov)
	s.Equal(uint64(12), s.balance(usdc, treasury))

	s.ledger.FailNext("Transfer", errors.New("treasury account frozen"))
	got, err := s.svc.ExecuteUnwind(s.ctx, sov.ID, bob)
	s.Require().NoError(err, "the unwind commits without the treasury transfer")
	s.Equal(models.StateUnwound, got.State)
	s.Equal(uint64(5), got.Unwind.TreasuryOwed)
	s.Zero(got.Unwind.TreasuryPaid)
	s.Equal(uint64(12), s.balance(usdc, treasury))

	claim, err := s.svc.ClaimInvestorUnwind(s.ctx, sov.ID, alice, alice)
	s.Require().NoError(err)
	s.Equal(uint64(95), claim.Payout)

	settled, err := s.svc.SettleUnwindFee(s.ctx, sov.ID, bob)
	s.Require().NoError(err)
	s.Zero(settled.TreasuryDue())
	s.Equal(uint64(17), s.balance(usdc, treasury))
	s.Zero(s.balance(usdc, sov.Vault()))

	_, err = s.svc.SettleUnwindFee(s.ctx, sov.ID, bob)
	s.requireCode(err, dErrors.CodeState)
	s.Contains(s.eventTypes(sov.ID), audit.EventUnwindFeeSettled)
}

func (s *LifecycleSuite) TestUnwindRecoversProceedsFromClosedPosition() {
	sov := s.funded(map[id.ParticipantID]uint64{alice: 100})
	s.trade(sov, 40, 0)
	s.claimFees(sov.ID)
	s.passedProposal(sov)

	// An earlier attempt closed the position and then failed to commit.
	_, _, err := s.venue.DecreaseLiquidityAndClose(s.ctx, sov.Vault(), sov.PositionRef)
	s.Require().NoError(err)
	_, err = s.svc.ExecuteUnwind(s.ctx, sov.ID, bob)
	s.Require().NoError(err)

	got, err := s.svc.Get(s.ctx, sov.ID)
	s.Require().NoError(err)
	s.Equal(models.StateUnwound, got.State)
	s.Equal(uint64(100), got.Unwind.Currency, "collected fees are not mistaken for proceeds")
	s.Equal(supply, got.Unwind.Tokens)
	s.Equal(uint64(95), got.Unwind.InvestorPool)
	s.Zero(got.TreasuryDue())

	claim, err := s.svc.ClaimInvestorUnwind(s.ctx, sov.ID, alice, alice)
	s.Require().NoError(err)
	s.Equal(uint64(95), claim.Payout)
	s.Equal(uint64(40), claim.FeeCurrency)
	s.Zero(s.balance(usdc, sov.Vault()))
}

// =============================================================================
// Activity checks
// =============================================================================

func (s *LifecycleSuite) TestActivityCheckCancelledByTrading() {
	sov := s.funded(map[id.ParticipantID]uint64{alice: 100})
	s.trade(sov, 100, 0)
	s.claimFees(sov.ID)

	_, err := s.svc.InitiateActivityCheck(s.ctx, sov.ID, bob)
	s.Require().NoError(err)
	_, err = s.svc.InitiateActivityCheck(s.ctx, sov.ID, bob)
	s.requireCode(err, dErrors.CodeState)

	s.trade(sov, 1_000, 0)
	_, err = s.svc.ExecuteActivityCheck(s.ctx, sov.ID, bob)
	s.requireCode(err, dErrors.CodeTiming)

	s.clock.Advance(90 * day)
	res, err := s.svc.ExecuteActivityCheck(s.ctx, sov.ID, bob)
	s.Require().NoError(err)
	s.False(res.Outcome.Inactive)
	s.Equal(uint64(1_000), res.Outcome.GrowthA)
	s.Equal(models.StateActive, res.Sovereign.State)
	s.False(res.Sovereign.ActivityCheck.Initiated)

	_, err = s.svc.InitiateActivityCheck(s.ctx, sov.ID, bob)
	s.requireCode(err, dErrors.CodeTiming)
	s.clock.Advance(models.ActivityCooldown)
	_, err = s.svc.InitiateActivityCheck(s.ctx, sov.ID, bob)
	s.Require().NoError(err)
}

func (s *LifecycleSuite) TestCreatorCancelsActivityCheck() {
	sov := s.funded(map[id.ParticipantID]uint64{alice: 100})
	s.trade(sov, 100, 0)
	s.claimFees(sov.ID)

	_, err := s.svc.CancelActivityCheck(s.ctx, sov.ID, creator)
	s.requireCode(err, dErrors.CodeState)

	_, err = s.svc.InitiateActivityCheck(s.ctx, sov.ID, bob)
	s.Require().NoError(err)
	s.clock.Advance(day)

	_, err = s.svc.CancelActivityCheck(s.ctx, sov.ID, bob)
	s.requireCode(err, dErrors.CodeUnauthorized)

	got, err := s.svc.CancelActivityCheck(s.ctx, sov.ID, creator)
	s.Require().NoError(err)
	s.False(got.ActivityCheck.Initiated)
	s.Equal(s.clock.Now(), got.ActivityCheck.LastCancelledAt)
	s.Equal(s.clock.Now(), got.LastActivityAt)

	_, err = s.svc.ExecuteActivityCheck(s.ctx, sov.ID, bob)
	s.requireCode(err, dErrors.CodeState)
	_, err = s.svc.InitiateActivityCheck(s.ctx, sov.ID, bob)
	s.requireCode(err, dErrors.CodeTiming)
	s.Contains(s.eventTypes(sov.ID), audit.EventActivityCheckCancelled)
}

// =============================================================================
// Purchased tokens
// =============================================================================

func (s *LifecycleSuite) TestPurchasedTokensClaimedBeforeUnwind() {
	sov := s.create(100)
	s.deposit(sov.ID, creator, 1)
	s.deposit(sov.ID, alice, 100)
	sov, err := s.svc.Finalize(s.ctx, sov.ID, creator)
	s.Require().NoError(err)

	s.trade(sov, 100, 0)
	s.claimFees(sov.ID)

	purchased, err := s.svc.ClaimPurchasedTokens(s.ctx, sov.ID, creator)
	s.Require().NoError(err)
	s.Equal(uint64(9_900), purchased)
	_, err = s.svc.ClaimPurchasedTokens(s.ctx, sov.ID, creator)
	s.requireCode(err, dErrors.CodeState)

	_, err = s.svc.InitiateActivityCheck(s.ctx, sov.ID, bob)
	s.Require().NoError(err)
	s.clock.Advance(90 * day)
	res, err := s.svc.ExecuteActivityCheck(s.ctx, sov.ID, bob)
	s.Require().NoError(err)
	s.True(res.Outcome.Inactive)
	s.Equal(models.StateUnwound, res.Sovereign.State)
	s.Equal("inactivity", res.Sovereign.Unwind.Trigger)
	s.Equal(uint64(96), res.Sovereign.Unwind.InvestorPool)

	tokens, err := s.svc.ClaimCreatorUnwind(s.ctx, sov.ID, creator)
	s.Require().NoError(err)
	s.Equal(uint64(990_100), tokens, "purchased tokens are not paid twice")
	s.Equal(supply, s.balance(sov.TokenRef, creator))

	claim, err := s.svc.ClaimInvestorUnwind(s.ctx, sov.ID, alice, alice)
	s.Require().NoError(err)
	s.Equal(uint64(96), claim.Payout)
	s.Equal(uint64(100), claim.FeeCurrency, "unclaimed fees are swept with the payout")
	s.Zero(s.balance(usdc, sov.Vault()))
	s.Zero(s.balance(sov.TokenRef, sov.Vault()))

	ok, err := s.certs.VerifyOwnership(s.ctx, claim.Certificate, alice)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *LifecycleSuite) TestPurchasedTokensPaidWithCreatorUnwind() {
	sov := s.create(100)
	s.deposit(sov.ID, creator, 1)
	s.deposit(sov.ID, alice, 100)
	sov, err := s.svc.Finalize(s.ctx, sov.ID, creator)
	s.Require().NoError(err)

	s.clock.Advance(7 * day)
	p, err := s.svc.ProposeUnwind(s.ctx, sov.ID, alice)
	s.Require().NoError(err)
	_, err = s.svc.Vote(s.ctx, sov.ID, p.ID, alice, alice, true)
	s.Require().NoError(err)
	s.clock.Advance(models.VotingPeriod)
	_, err = s.svc.FinalizeVote(s.ctx, sov.ID, p.ID, alice)
	s.Require().NoError(err)
	s.clock.Advance(models.TimelockPeriod)
	_, err = s.svc.ExecuteUnwind(s.ctx, sov.ID, alice)
	s.Require().NoError(err)

	tokens, err := s.svc.ClaimCreatorUnwind(s.ctx, sov.ID, creator)
	s.Require().NoError(err)
	s.Equal(supply, tokens)

	_, err = s.svc.ClaimPurchasedTokens(s.ctx, sov.ID, creator)
	s.requireCode(err, dErrors.CodeState)
	s.Equal(supply, s.balance(sov.TokenRef, creator))
}

// =============================================================================
// Audit publishing
// =============================================================================

type rejectingEmitter struct{}

func (rejectingEmitter) Emit(context.Context, audit.Event) error {
	return errors.New("audit sink unavailable")
}

func (s *LifecycleSuite) TestUnpublishedAuditEventIsLogged() {
	var logs bytes.Buffer
	svc := New(s.store, s.venue, s.certs, s.ledger,
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
		WithClock(s.clock),
		WithPublisher(rejectingEmitter{}),
	)

	_, err := svc.Create(s.ctx, models.CreateParams{
		Creator:      creator,
		LaunchKind:   models.LaunchNewToken,
		TokenSupply:  supply,
		Target:       100,
		BondDuration: bondPeriod,
		FeeMode:      models.FeeModeRecoveryBoost,
	})
	s.Require().NoError(err, "publishing failures never fail the operation")
	s.Contains(logs.String(), "level=WARN msg=\"audit event not published\" event=sovereign_created")
	s.Contains(logs.String(), "audit sink unavailable")
}
