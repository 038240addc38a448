// Package ports defines the collaborators a sovereign calls out to: the
// liquidity venue, the certificate issuer and the token service. Every call
// happens inside one sovereign operation; failures surface as
// external_call_error and trigger compensation.
package ports

import (
	"context"
	"errors"

	id "sovereign/pkg/domain"
)

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

// ErrPositionClosed is wrapped by venues when a call names a position that
// was already closed.
var ErrPositionClosed = errors.New("position is closed")

// Pair names the two tokens a position holds.
type Pair struct {
	Currency string
	Token    string
}

// Venue is the concentrated-liquidity pool the raised funds are placed in.
// Funds move from and to the owner account given on each call.
type Venue interface {
	// OpenPosition pulls both amounts from owner and returns the position ref.
	OpenPosition(ctx context.Context, owner id.ParticipantID, pair Pair, currencyAmount, tokenAmount uint64) (string, error)

	// IncreaseLiquidity adds to an existing position.
	IncreaseLiquidity(ctx context.Context, owner id.ParticipantID, positionRef string, currencyAmount, tokenAmount uint64) error

	// CollectFees pays accrued fees to owner.
	CollectFees(ctx context.Context, owner id.ParticipantID, positionRef string) (currencyFees, tokenFees uint64, err error)

	// DecreaseLiquidityAndClose pays out everything the position holds and closes it.
	DecreaseLiquidityAndClose(ctx context.Context, owner id.ParticipantID, positionRef string) (currencyAmount, tokenAmount uint64, err error)

	// ReadCumulativeFeeGrowth returns two monotonically non-decreasing counters.
	ReadCumulativeFeeGrowth(ctx context.Context, positionRef string) (counterA, counterB uint64, err error)

	// SetRestricted toggles whether third parties may provide liquidity to the pool.
	SetRestricted(ctx context.Context, positionRef string, restricted bool) error

	// Swap sells amountIn of currency for tokens, failing below minAmountOut.
	Swap(ctx context.Context, owner id.ParticipantID, positionRef string, amountIn, minAmountOut uint64) (uint64, error)
}

// CertificateMetadata is attached to an ownership certificate at mint.
type CertificateMetadata struct {
	SovereignID id.SovereignID
	Depositor   id.ParticipantID
	Amount      uint64
	ShareBps    uint16
}

// CertificateIssuer mints the transferable certificates that carry a
// depositor's share and vote.
type CertificateIssuer interface {
	MintCertificate(ctx context.Context, owner id.ParticipantID, meta CertificateMetadata) (string, error)
	VerifyOwnership(ctx context.Context, certificateRef string, claimant id.ParticipantID) (bool, error)
	Burn(ctx context.Context, certificateRef string) error
}

// TokenService holds every balance, the base currency included.
type TokenService interface {
	// CreateToken mints supply to owner and returns the new token ref.
	CreateToken(ctx context.Context, owner id.ParticipantID, supply uint64) (string, error)
	Transfer(ctx context.Context, tokenRef string, from, to id.ParticipantID, amount uint64) error
	TotalSupply(ctx context.Context, tokenRef string) (uint64, error)
	BalanceOf(ctx context.Context, tokenRef string, account id.ParticipantID) (uint64, error)

	// SetTransferFee withholds feeBps of every later transfer of tokenRef.
	// Transfers from or to authority are exempt, and only authority may
	// harvest what was withheld.
	SetTransferFee(ctx context.Context, tokenRef string, feeBps uint16, authority id.ParticipantID) error

	// HarvestWithheld moves every withheld fee of tokenRef to authority and
	// returns the amount moved.
	HarvestWithheld(ctx context.Context, tokenRef string, authority id.ParticipantID) (uint64, error)
}
