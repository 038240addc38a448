package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sovereign/internal/sovereign/models"
	id "sovereign/pkg/domain"
	dErrors "sovereign/pkg/domain-errors"
)

func TestEscrowAcceptCapsAtLimit(t *testing.T) {
	e := models.NewCreatorEscrow(id.NewSovereignID(), t0)

	got, err := e.Accept(70, 100, t0)
	require.NoError(t, err)
	assert.Equal(t, uint64(70), got)

	got, err = e.Accept(70, 100, t0)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), got)

	_, err = e.Accept(1, 100, t0)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Equal(t, uint64(100), e.Amount)
}

func TestPurchasedTokensPaidExactlyOnce(t *testing.T) {
	const purchased, lpTokens = 500, 9000

	t.Run("post-recovery claim then unwind", func(t *testing.T) {
		e := models.NewCreatorEscrow(id.NewSovereignID(), t0)
		e.RecordPurchase(purchased, t0)

		_, err := e.ClaimPurchased(t0)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeState), "locked until recovery")

		e.Unlock(t0)
		first, err := e.ClaimPurchased(t0)
		require.NoError(t, err)
		second, err := e.ClaimUnwind(lpTokens, t0)
		require.NoError(t, err)

		assert.Equal(t, uint64(purchased+lpTokens), first+second)
		_, err = e.ClaimPurchased(t0)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeState))
	})

	t.Run("unwind then post-recovery claim", func(t *testing.T) {
		e := models.NewCreatorEscrow(id.NewSovereignID(), t0)
		e.RecordPurchase(purchased, t0)

		first, err := e.ClaimUnwind(lpTokens, t0)
		require.NoError(t, err)
		_, err = e.ClaimPurchased(t0)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeState))

		assert.Equal(t, uint64(purchased+lpTokens), first)
		_, err = e.ClaimUnwind(lpTokens, t0)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeState))
	})
}

func TestCreatorFeeBalances(t *testing.T) {
	e := models.NewCreatorEscrow(id.NewSovereignID(), t0)

	_, _, err := e.TakeCreatorFees(t0)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	_, err = e.TakeSellTax(t0)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	require.NoError(t, e.Accrue(25, 10, t0))
	require.NoError(t, e.Accrue(5, 0, t0))
	require.NoError(t, e.AccrueSellTax(7, t0))

	currency, tokens, err := e.TakeCreatorFees(t0)
	require.NoError(t, err)
	assert.Equal(t, uint64(30), currency)
	assert.Equal(t, uint64(10), tokens, "position token share is not sell tax")

	tax, err := e.TakeSellTax(t0)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), tax)

	_, err = e.TakeSellTax(t0)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	_, _, err = e.TakeCreatorFees(t0)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestEscrowOutstanding(t *testing.T) {
	e := models.NewCreatorEscrow(id.NewSovereignID(), t0)
	e.RecordPurchase(50, t0)
	require.NoError(t, e.Accrue(4, 6, t0))
	require.NoError(t, e.AccrueSellTax(3, t0))

	currency, tokens := e.Outstanding()
	assert.Equal(t, uint64(4), currency)
	assert.Equal(t, uint64(59), tokens)

	e.Unlock(t0)
	_, err := e.ClaimPurchased(t0)
	require.NoError(t, err)
	_, err = e.TakeSellTax(t0)
	require.NoError(t, err)

	currency, tokens = e.Outstanding()
	assert.Equal(t, uint64(4), currency)
	assert.Equal(t, uint64(6), tokens)
}
