// Package simulated provides in-process collaborators for local runs and
// tests: a token ledger, a constant-product venue built on it, and a
// certificate registry.
package simulated

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"sovereign/internal/sovereign/ports"
	"sovereign/pkg/bps"
	id "sovereign/pkg/domain"
	"sovereign/pkg/platform/sentinel"
)

var _ ports.TokenService = (*Ledger)(nil)

// transferFee withholds a share of each transfer until its authority
// harvests it. Withheld amounts belong to no account but stay in supply.
type transferFee struct {
	rate      bps.Rate
	authority id.ParticipantID
	withheld  uint64
}

// Ledger keeps balances for every token, the base currency included.
type Ledger struct {
	mu       sync.Mutex
	supply   map[string]uint64
	balances map[string]map[id.ParticipantID]uint64
	fees     map[string]*transferFee
	failures map[string]error
}

func NewLedger() *Ledger {
	return &Ledger{
		supply:   make(map[string]uint64),
		balances: make(map[string]map[id.ParticipantID]uint64),
		fees:     make(map[string]*transferFee),
		failures: make(map[string]error),
	}
}

// FailNext makes the next call to method return err. Only calls through the
// TokenService methods are affected, not the venue's internal moves.
func (l *Ledger) FailNext(method string, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[method] = err
}

func (l *Ledger) injected(method string) error {
	err, ok := l.failures[method]
	if !ok {
		return nil
	}
	delete(l.failures, method)
	return err
}

// Mint creates amount of tokenRef in to's account, registering the token on
// first use. Tests fund participants with it.
func (l *Ledger) Mint(tokenRef string, to id.ParticipantID, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.mintLocked(tokenRef, to, amount)
}

func (l *Ledger) mintLocked(tokenRef string, to id.ParticipantID, amount uint64) error {
	supply, err := bps.Add(l.supply[tokenRef], amount)
	if err != nil {
		return err
	}
	accounts, ok := l.balances[tokenRef]
	if !ok {
		accounts = make(map[id.ParticipantID]uint64)
		l.balances[tokenRef] = accounts
	}
	balance, err := bps.Add(accounts[to], amount)
	if err != nil {
		return err
	}
	l.supply[tokenRef] = supply
	accounts[to] = balance
	return nil
}

func (l *Ledger) CreateToken(ctx context.Context, owner id.ParticipantID, supply uint64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if supply == 0 {
		return "", fmt.Errorf("create token: supply must be positive")
	}
	ref := "tok-" + uuid.NewString()
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.mintLocked(ref, owner, supply); err != nil {
		return "", err
	}
	return ref, nil
}

func (l *Ledger) Transfer(ctx context.Context, tokenRef string, from, to id.ParticipantID, amount uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.injected("Transfer"); err != nil {
		return err
	}
	return l.transferLocked(tokenRef, from, to, amount)
}

func (l *Ledger) transferLocked(tokenRef string, from, to id.ParticipantID, amount uint64) error {
	accounts, ok := l.balances[tokenRef]
	if !ok {
		return fmt.Errorf("token %s: %w", tokenRef, sentinel.ErrNotFound)
	}
	if amount == 0 || from == to {
		return nil
	}
	if accounts[from] < amount {
		return fmt.Errorf("transfer %d %s from %s: %w", amount, tokenRef, from, sentinel.ErrInsufficientFunds)
	}
	withheld, err := l.withhold(tokenRef, from, to, amount)
	if err != nil {
		return err
	}
	credited, err := bps.Add(accounts[to], amount-withheld)
	if err != nil {
		return err
	}
	accounts[from] -= amount
	accounts[to] = credited
	if withheld > 0 {
		l.fees[tokenRef].withheld += withheld
	}
	return nil
}

// withhold is the fee owed on a transfer. Moves touching the authority pay
// nothing.
func (l *Ledger) withhold(tokenRef string, from, to id.ParticipantID, amount uint64) (uint64, error) {
	fee, ok := l.fees[tokenRef]
	if !ok || fee.rate == 0 || from == fee.authority || to == fee.authority {
		return 0, nil
	}
	return bps.Apply(amount, fee.rate)
}

func (l *Ledger) SetTransferFee(ctx context.Context, tokenRef string, feeBps uint16, authority id.ParticipantID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.injected("SetTransferFee"); err != nil {
		return err
	}
	if _, ok := l.balances[tokenRef]; !ok {
		return fmt.Errorf("token %s: %w", tokenRef, sentinel.ErrNotFound)
	}
	rate := bps.Rate(feeBps)
	if !rate.Valid() {
		return fmt.Errorf("transfer fee %d bps above 100%%", feeBps)
	}
	fee, ok := l.fees[tokenRef]
	if !ok {
		fee = &transferFee{authority: authority}
		l.fees[tokenRef] = fee
	}
	if fee.authority != authority {
		return fmt.Errorf("token %s: transfer fee authority is %s", tokenRef, fee.authority)
	}
	fee.rate = rate
	return nil
}

func (l *Ledger) HarvestWithheld(ctx context.Context, tokenRef string, authority id.ParticipantID) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.injected("HarvestWithheld"); err != nil {
		return 0, err
	}
	fee, ok := l.fees[tokenRef]
	if !ok {
		return 0, nil
	}
	if fee.authority != authority {
		return 0, fmt.Errorf("token %s: %s may not harvest withheld fees", tokenRef, authority)
	}
	amount := fee.withheld
	if amount == 0 {
		return 0, nil
	}
	balance, err := bps.Add(l.balances[tokenRef][authority], amount)
	if err != nil {
		return 0, err
	}
	l.balances[tokenRef][authority] = balance
	fee.withheld = 0
	return amount, nil
}

// Withheld reports the fees of tokenRef awaiting harvest.
func (l *Ledger) Withheld(tokenRef string) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if fee, ok := l.fees[tokenRef]; ok {
		return fee.withheld
	}
	return 0
}

func (l *Ledger) TotalSupply(ctx context.Context, tokenRef string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	supply, ok := l.supply[tokenRef]
	if !ok {
		return 0, fmt.Errorf("token %s: %w", tokenRef, sentinel.ErrNotFound)
	}
	return supply, nil
}

func (l *Ledger) BalanceOf(ctx context.Context, tokenRef string, account id.ParticipantID) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[tokenRef][account], nil
}

// Balance is BalanceOf without a context, for assertions.
func (l *Ledger) Balance(tokenRef string, account id.ParticipantID) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[tokenRef][account]
}
