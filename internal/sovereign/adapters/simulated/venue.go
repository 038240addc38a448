package simulated

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"sovereign/internal/sovereign/ports"
	"sovereign/pkg/bps"
	id "sovereign/pkg/domain"
	"sovereign/pkg/platform/sentinel"
)

var _ ports.Venue = (*Venue)(nil)

// ErrSlippage is returned by Swap when the output falls below the minimum.
var ErrSlippage = errors.New("swap output below minimum")

type position struct {
	owner      id.ParticipantID
	pair       ports.Pair
	currency   uint64
	tokens     uint64
	feeC       uint64
	feeT       uint64
	growthA    uint64
	growthB    uint64
	restricted bool
	closed     bool
}

// Venue is a full-range constant-product pool per position. Reserves and
// uncollected fees are held by a per-position ledger account.
type Venue struct {
	mu        sync.Mutex
	ledger    *Ledger
	positions map[string]*position
	seq       uint64
	failures  map[string]error
}

func NewVenue(ledger *Ledger) *Venue {
	return &Venue{
		ledger:    ledger,
		positions: make(map[string]*position),
		failures:  make(map[string]error),
	}
}

func account(ref string) id.ParticipantID { return id.ParticipantID("venue:" + ref) }

// FailNext makes the next call to method return err.
func (v *Venue) FailNext(method string, err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.failures[method] = err
}

func (v *Venue) injected(method string) error {
	err, ok := v.failures[method]
	if !ok {
		return nil
	}
	delete(v.failures, method)
	return err
}

// SimulateTrade accrues trading fees on a position and advances its growth
// counters, as outside trading would.
func (v *Venue) SimulateTrade(ref string, feeCurrency, feeTokens uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	p, err := v.lookup(ref)
	if err != nil {
		return err
	}
	v.ledger.mu.Lock()
	defer v.ledger.mu.Unlock()
	if err := v.ledger.mintLocked(p.pair.Currency, account(ref), feeCurrency); err != nil {
		return err
	}
	if err := v.ledger.mintLocked(p.pair.Token, account(ref), feeTokens); err != nil {
		return err
	}
	p.feeC += feeCurrency
	p.feeT += feeTokens
	p.growthA += feeCurrency
	p.growthB += feeTokens
	return nil
}

// Restricted reports the pool's restriction flag.
func (v *Venue) Restricted(ref string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	p, ok := v.positions[ref]
	return ok && p.restricted
}

// Reserves returns the position's current reserves.
func (v *Venue) Reserves(ref string) (currency, tokens uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if p, ok := v.positions[ref]; ok {
		return p.currency, p.tokens
	}
	return 0, 0
}

func (v *Venue) lookup(ref string) (*position, error) {
	p, ok := v.positions[ref]
	if !ok {
		return nil, fmt.Errorf("position %s: %w", ref, sentinel.ErrNotFound)
	}
	if p.closed {
		return nil, fmt.Errorf("position %s: %w", ref, ports.ErrPositionClosed)
	}
	return p, nil
}

func (v *Venue) owned(ref string, owner id.ParticipantID) (*position, error) {
	p, err := v.lookup(ref)
	if err != nil {
		return nil, err
	}
	if p.owner != owner {
		return nil, fmt.Errorf("position %s is not owned by %s", ref, owner)
	}
	return p, nil
}

func (v *Venue) OpenPosition(ctx context.Context, owner id.ParticipantID, pair ports.Pair, currencyAmount, tokenAmount uint64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.injected("OpenPosition"); err != nil {
		return "", err
	}
	if currencyAmount == 0 || tokenAmount == 0 {
		return "", fmt.Errorf("open position: both amounts must be positive")
	}
	v.seq++
	ref := fmt.Sprintf("pos-%d", v.seq)

	v.ledger.mu.Lock()
	defer v.ledger.mu.Unlock()
	if err := v.ledger.transferLocked(pair.Currency, owner, account(ref), currencyAmount); err != nil {
		return "", err
	}
	if err := v.ledger.transferLocked(pair.Token, owner, account(ref), tokenAmount); err != nil {
		_ = v.ledger.transferLocked(pair.Currency, account(ref), owner, currencyAmount)
		return "", err
	}
	v.positions[ref] = &position{owner: owner, pair: pair, currency: currencyAmount, tokens: tokenAmount}
	return ref, nil
}

func (v *Venue) IncreaseLiquidity(ctx context.Context, owner id.ParticipantID, ref string, currencyAmount, tokenAmount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	p, err := v.owned(ref, owner)
	if err != nil {
		return err
	}
	v.ledger.mu.Lock()
	defer v.ledger.mu.Unlock()
	if err := v.ledger.transferLocked(p.pair.Currency, owner, account(ref), currencyAmount); err != nil {
		return err
	}
	if err := v.ledger.transferLocked(p.pair.Token, owner, account(ref), tokenAmount); err != nil {
		_ = v.ledger.transferLocked(p.pair.Currency, account(ref), owner, currencyAmount)
		return err
	}
	p.currency += currencyAmount
	p.tokens += tokenAmount
	return nil
}

func (v *Venue) CollectFees(ctx context.Context, owner id.ParticipantID, ref string) (uint64, uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.injected("CollectFees"); err != nil {
		return 0, 0, err
	}
	p, err := v.owned(ref, owner)
	if err != nil {
		return 0, 0, err
	}
	feeC, feeT := p.feeC, p.feeT
	if err := v.payout(p, ref, feeC, feeT); err != nil {
		return 0, 0, err
	}
	p.feeC, p.feeT = 0, 0
	return feeC, feeT, nil
}

func (v *Venue) DecreaseLiquidityAndClose(ctx context.Context, owner id.ParticipantID, ref string) (uint64, uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.injected("DecreaseLiquidityAndClose"); err != nil {
		return 0, 0, err
	}
	p, err := v.owned(ref, owner)
	if err != nil {
		return 0, 0, err
	}
	currency := p.currency + p.feeC
	tokens := p.tokens + p.feeT
	if err := v.payout(p, ref, currency, tokens); err != nil {
		return 0, 0, err
	}
	*p = position{owner: p.owner, pair: p.pair, growthA: p.growthA, growthB: p.growthB, closed: true}
	return currency, tokens, nil
}

func (v *Venue) payout(p *position, ref string, currency, tokens uint64) error {
	v.ledger.mu.Lock()
	defer v.ledger.mu.Unlock()
	if err := v.ledger.transferLocked(p.pair.Currency, account(ref), p.owner, currency); err != nil {
		return err
	}
	if err := v.ledger.transferLocked(p.pair.Token, account(ref), p.owner, tokens); err != nil {
		_ = v.ledger.transferLocked(p.pair.Currency, p.owner, account(ref), currency)
		return err
	}
	return nil
}

func (v *Venue) ReadCumulativeFeeGrowth(ctx context.Context, ref string) (uint64, uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.injected("ReadCumulativeFeeGrowth"); err != nil {
		return 0, 0, err
	}
	p, ok := v.positions[ref]
	if !ok {
		return 0, 0, fmt.Errorf("position %s: %w", ref, sentinel.ErrNotFound)
	}
	return p.growthA, p.growthB, nil
}

func (v *Venue) SetRestricted(ctx context.Context, ref string, restricted bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.injected("SetRestricted"); err != nil {
		return err
	}
	p, err := v.lookup(ref)
	if err != nil {
		return err
	}
	p.restricted = restricted
	return nil
}

// Swap sells currency into the pool at the constant-product price
// out = tokens*in/(currency+in).
func (v *Venue) Swap(ctx context.Context, owner id.ParticipantID, ref string, amountIn, minAmountOut uint64) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if err := v.injected("Swap"); err != nil {
		return 0, err
	}
	p, err := v.lookup(ref)
	if err != nil {
		return 0, err
	}
	reserve, err := bps.Add(p.currency, amountIn)
	if err != nil {
		return 0, err
	}
	out, err := bps.MulDiv(p.tokens, amountIn, reserve)
	if err != nil {
		return 0, err
	}
	if out < minAmountOut {
		return 0, fmt.Errorf("got %d want at least %d: %w", out, minAmountOut, ErrSlippage)
	}

	v.ledger.mu.Lock()
	defer v.ledger.mu.Unlock()
	if err := v.ledger.transferLocked(p.pair.Currency, owner, account(ref), amountIn); err != nil {
		return 0, err
	}
	if err := v.ledger.transferLocked(p.pair.Token, account(ref), owner, out); err != nil {
		_ = v.ledger.transferLocked(p.pair.Currency, account(ref), owner, amountIn)
		return 0, err
	}
	p.currency = reserve
	p.tokens -= out
	return out, nil
}
