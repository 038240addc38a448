package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sovereign/internal/sovereign/models"
	dErrors "sovereign/pkg/domain-errors"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func recovering(raised uint64) *models.Sovereign {
	return &models.Sovereign{
		State:          models.StateRecovery,
		FeeMode:        models.FeeModeCreatorRevenue,
		TotalRaised:    raised,
		RecoveryTarget: raised,
		PoolRestricted: true,
	}
}

func TestSplitFees(t *testing.T) {
	t.Run("recovery pays investors everything", func(t *testing.T) {
		s := recovering(100)
		s.FeeThresholdBps = 4000
		split, err := s.SplitFees(60, 10)
		require.NoError(t, err)
		assert.Equal(t, uint64(60), split.InvestorCurrency)
		assert.Equal(t, uint64(10), split.InvestorTokens)
		assert.Zero(t, split.CreatorCurrency)
	})

	t.Run("creator revenue in active routes the threshold share", func(t *testing.T) {
		s := recovering(100)
		s.State = models.StateActive
		s.FeeThresholdBps = 2500
		split, err := s.SplitFees(100, 40)
		require.NoError(t, err)
		assert.Equal(t, uint64(25), split.CreatorCurrency)
		assert.Equal(t, uint64(75), split.InvestorCurrency)
		assert.Equal(t, uint64(10), split.CreatorTokens)
		assert.Equal(t, uint64(30), split.InvestorTokens)
	})

	t.Run("recovery boost and fair launch keep everything with investors", func(t *testing.T) {
		for _, mode := range []models.FeeMode{models.FeeModeRecoveryBoost, models.FeeModeFairLaunch} {
			s := recovering(100)
			s.State = models.StateActive
			s.FeeMode = mode
			s.FeeThresholdBps = 5000
			split, err := s.SplitFees(100, 40)
			require.NoError(t, err)
			assert.Equal(t, uint64(100), split.InvestorCurrency, mode)
			assert.Zero(t, split.CreatorTokens, mode)
		}
	})
}

func TestRecordFeeDistributionCompletesOnce(t *testing.T) {
	s := recovering(100)

	done, err := s.RecordFeeDistribution(60, t0)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, models.StateRecovery, s.State)

	done, err = s.RecordFeeDistribution(39, t0)
	require.NoError(t, err)
	assert.False(t, done)

	done, err = s.RecordFeeDistribution(1, t0)
	require.NoError(t, err)
	assert.True(t, done)
	assert.True(t, s.RecoveryComplete)
	assert.Equal(t, models.StateActive, s.State)

	done, err = s.RecordFeeDistribution(500, t0)
	require.NoError(t, err)
	assert.False(t, done, "recovery completes exactly once")
	assert.True(t, s.RecoveryComplete)
	assert.Equal(t, uint64(600), s.TotalCurrencyFeesDistributed)
}

func TestApplyFeesAdvancesActivityOnCurrencyOnly(t *testing.T) {
	s := recovering(100)
	later := t0.Add(time.Hour)

	require.NoError(t, s.ApplyFees(models.FeeSplit{Tokens: 5, InvestorTokens: 5}, t0))
	assert.True(t, s.LastActivityAt.IsZero())
	assert.Equal(t, uint64(5), s.CumulativeInvestorTokens)

	require.NoError(t, s.ApplyFees(models.FeeSplit{Currency: 7, InvestorCurrency: 7}, later))
	assert.Equal(t, later, s.LastActivityAt)
	assert.Equal(t, uint64(7), s.TotalCurrencyFeesCollected)
}

func TestComputeUnwind(t *testing.T) {
	s := recovering(1000)

	t.Run("pool capped at principal, surplus to treasury", func(t *testing.T) {
		p, err := s.ComputeUnwind(2000, 50, 500, "governance", t0)
		require.NoError(t, err)
		assert.Equal(t, uint64(100), p.Fee)
		assert.Equal(t, uint64(1000), p.InvestorPool)
		assert.Equal(t, uint64(900), p.Surplus)
		assert.Equal(t, uint64(50), p.CreatorTokenPool)
		assert.Equal(t, uint64(1000), p.TreasuryOwed, "fee plus surplus")
	})

	t.Run("shortfall leaves no surplus", func(t *testing.T) {
		p, err := s.ComputeUnwind(800, 0, 500, "activity", t0)
		require.NoError(t, err)
		assert.Equal(t, uint64(40), p.Fee)
		assert.Equal(t, uint64(760), p.InvestorPool)
		assert.Zero(t, p.Surplus)
		assert.Equal(t, uint64(40), p.TreasuryOwed)
	})
}

func TestTreasuryEntitlement(t *testing.T) {
	s := recovering(100)
	assert.Zero(t, s.TreasuryDue())
	assert.True(t, dErrors.HasCode(s.CanUnwind(), dErrors.CodeState), "recovery unwinds only through a passed vote")

	s.State = models.StateActive
	require.NoError(t, s.CanUnwind())
	p, err := s.ComputeUnwind(120, 0, 500, "activity", t0)
	require.NoError(t, err)
	require.NoError(t, s.CompleteUnwind(p, t0))
	assert.True(t, dErrors.HasCode(s.CanUnwind(), dErrors.CodeState))

	assert.Equal(t, uint64(20), s.TreasuryDue())
	err = s.RecordTreasuryPayment(21, t0)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	require.NoError(t, s.RecordTreasuryPayment(20, t0))
	assert.Zero(t, s.TreasuryDue())
	err = s.RecordTreasuryPayment(1, t0)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestTransferFeeRouting(t *testing.T) {
	cases := []struct {
		mode  models.FeeMode
		state models.State
		want  bool
	}{
		{models.FeeModeCreatorRevenue, models.StateRecovery, true},
		{models.FeeModeCreatorRevenue, models.StateActive, true},
		{models.FeeModeRecoveryBoost, models.StateRecovery, false},
		{models.FeeModeRecoveryBoost, models.StateActive, true},
		{models.FeeModeFairLaunch, models.StateActive, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.mode)+"/"+string(tc.state), func(t *testing.T) {
			s := recovering(100)
			s.FeeMode, s.State = tc.mode, tc.state
			assert.Equal(t, tc.want, s.TransferFeesToCreator())
		})
	}

	s := recovering(100)
	require.NoError(t, s.ApplyTransferFees(30, false, t0))
	require.NoError(t, s.ApplyTransferFees(12, true, t0))
	assert.Equal(t, uint64(42), s.TotalTransferFeesHarvested)
	assert.Equal(t, uint64(30), s.CumulativeInvestorTokens, "only investor routing feeds the index")
}

func TestVaultLiabilities(t *testing.T) {
	s := recovering(100)
	s.CumulativeInvestorCurrency = 80
	s.CumulativeInvestorTokens = 300
	records := []*models.DepositRecord{
		{CurrencyFeesClaimed: 30, TokenFeesClaimed: 100},
		{CurrencyFeesClaimed: 10},
	}
	escrow := models.NewCreatorEscrow(s.ID, t0)
	escrow.RecordPurchase(500, t0)
	require.NoError(t, escrow.Accrue(5, 20, t0))

	currency, tokens, err := models.VaultLiabilities(s, escrow, records)
	require.NoError(t, err)
	assert.Equal(t, uint64(45), currency)
	assert.Equal(t, uint64(720), tokens)
}

func TestCompleteUnwindGuards(t *testing.T) {
	s := recovering(100)
	p, err := s.ComputeUnwind(100, 10, 0, "activity", t0)
	require.NoError(t, err)

	err = s.CompleteUnwind(p, t0)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation), "recovery cannot jump to unwound")

	s.State = models.StateActive
	s.ActivityCheck.Begin(1, 2, t0)
	require.NoError(t, s.CompleteUnwind(p, t0))
	assert.Equal(t, models.StateUnwound, s.State)
	assert.False(t, s.ActivityCheck.Initiated)
	assert.Zero(t, s.ActivityCheck.SnapshotA)

	require.NoError(t, s.RecordInvestorUnwindClaim(60, t0))
	err = s.RecordInvestorUnwindClaim(41, t0)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}
