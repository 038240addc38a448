package service

import (
	"context"

	"sovereign/internal/sovereign/ports"
	"sovereign/pkg/bps"
	id "sovereign/pkg/domain"
	dErrors "sovereign/pkg/domain-errors"
)

type effect struct {
	name string
	undo func(ctx context.Context) error
}

// journal records collaborator effects with their inverses. Effects without
// an inverse are not recorded and must come last in their operation.
type journal struct {
	effects []effect
}

func (j *journal) record(name string, undo func(ctx context.Context) error) {
	j.effects = append(j.effects, effect{name: name, undo: undo})
}

// rollback undoes recorded effects newest first. Failures are logged and do
// not stop the remaining compensations.
func (j *journal) rollback(ctx context.Context, o *op) {
	for i := len(j.effects) - 1; i >= 0; i-- {
		e := j.effects[i]
		err := e.undo(ctx)
		o.s.metrics.IncCompensation(e.name, err == nil)
		if err != nil {
			o.s.logger.ErrorContext(ctx, "compensation failed",
				"operation", o.name,
				"sovereign_id", o.sovereignID(),
				"effect", e.name,
				"error", err,
			)
			continue
		}
		o.s.logger.InfoContext(ctx, "compensation applied",
			"operation", o.name,
			"sovereign_id", o.sovereignID(),
			"effect", e.name,
		)
	}
	j.effects = nil
}

func (o *op) sovereignID() string {
	if o.sov == nil {
		return ""
	}
	return o.sov.ID.String()
}

func external(err error, msg string) error {
	return dErrors.Wrap(err, dErrors.CodeExternalCall, msg)
}

// transfer moves amount of tokenRef and records the reverse transfer.
func (o *op) transfer(tokenRef string, from, to id.ParticipantID, amount uint64) error {
	if amount == 0 {
		return nil
	}
	if err := o.s.tokens.Transfer(o.ctx, tokenRef, from, to, amount); err != nil {
		return external(err, "token transfer failed")
	}
	o.journal.record("transfer", func(ctx context.Context) error {
		return o.s.tokens.Transfer(ctx, tokenRef, to, from, amount)
	})
	return nil
}

// pay moves base currency.
func (o *op) pay(from, to id.ParticipantID, amount uint64) error {
	return o.transfer(o.cfg.CurrencyToken, from, to, amount)
}

// createToken has no inverse; callers order it last.
func (o *op) createToken(owner id.ParticipantID, supply uint64) (string, error) {
	ref, err := o.s.tokens.CreateToken(o.ctx, owner, supply)
	if err != nil {
		return "", external(err, "token creation failed")
	}
	return ref, nil
}

// setTransferFee records restoring the previous rate as its inverse.
func (o *op) setTransferFee(fee, previous bps.Rate) error {
	tokenRef, vault := o.sov.TokenRef, o.sov.Vault()
	if err := o.s.tokens.SetTransferFee(o.ctx, tokenRef, uint16(fee), vault); err != nil {
		return external(err, "updating token transfer fee failed")
	}
	o.journal.record("set_transfer_fee", func(ctx context.Context) error {
		return o.s.tokens.SetTransferFee(ctx, tokenRef, uint16(previous), vault)
	})
	return nil
}

// harvestWithheld has no inverse; callers order it last.
func (o *op) harvestWithheld() (uint64, error) {
	amount, err := o.s.tokens.HarvestWithheld(o.ctx, o.sov.TokenRef, o.sov.Vault())
	if err != nil {
		return 0, external(err, "harvesting transfer fees failed")
	}
	return amount, nil
}

func (o *op) totalSupply(tokenRef string) (uint64, error) {
	supply, err := o.s.tokens.TotalSupply(o.ctx, tokenRef)
	if err != nil {
		return 0, external(err, "reading token supply failed")
	}
	return supply, nil
}

func (o *op) balanceOf(tokenRef string, account id.ParticipantID) (uint64, error) {
	balance, err := o.s.tokens.BalanceOf(o.ctx, tokenRef, account)
	if err != nil {
		return 0, external(err, "reading token balance failed")
	}
	return balance, nil
}

// openPosition records closing the position as its inverse; closing pays
// everything back to the vault.
func (o *op) openPosition(currency, tokens uint64) (string, error) {
	vault := o.sov.Vault()
	pair := ports.Pair{Currency: o.cfg.CurrencyToken, Token: o.sov.TokenRef}
	ref, err := o.s.venue.OpenPosition(o.ctx, vault, pair, currency, tokens)
	if err != nil {
		return "", external(err, "opening liquidity position failed")
	}
	o.journal.record("open_position", func(ctx context.Context) error {
		_, _, err := o.s.venue.DecreaseLiquidityAndClose(ctx, vault, ref)
		return err
	})
	return ref, nil
}

func (o *op) setRestricted(restricted bool) error {
	if err := o.s.venue.SetRestricted(o.ctx, o.sov.PositionRef, restricted); err != nil {
		return external(err, "updating pool restriction failed")
	}
	ref := o.sov.PositionRef
	o.journal.record("set_restricted", func(ctx context.Context) error {
		return o.s.venue.SetRestricted(ctx, ref, !restricted)
	})
	return nil
}

// swap has no inverse; callers order it last.
func (o *op) swap(amountIn, minOut uint64) (uint64, error) {
	out, err := o.s.venue.Swap(o.ctx, o.sov.Vault(), o.sov.PositionRef, amountIn, minOut)
	if err != nil {
		return 0, external(err, "escrow purchase failed")
	}
	if out < minOut {
		return 0, dErrors.Newf(dErrors.CodeExternalCall, "venue returned %d tokens, below minimum %d", out, minOut)
	}
	return out, nil
}

// collectFees has no inverse.
func (o *op) collectFees() (uint64, uint64, error) {
	c, t, err := o.s.venue.CollectFees(o.ctx, o.sov.Vault(), o.sov.PositionRef)
	if err != nil {
		return 0, 0, external(err, "collecting fees failed")
	}
	return c, t, nil
}

// closePosition has no inverse; callers order it last among collaborator
// effects.
func (o *op) closePosition() (uint64, uint64, error) {
	c, t, err := o.s.venue.DecreaseLiquidityAndClose(o.ctx, o.sov.Vault(), o.sov.PositionRef)
	if err != nil {
		return 0, 0, external(err, "closing liquidity position failed")
	}
	return c, t, nil
}

func (o *op) readFeeGrowth() (uint64, uint64, error) {
	a, b, err := o.s.venue.ReadCumulativeFeeGrowth(o.ctx, o.sov.PositionRef)
	if err != nil {
		return 0, 0, external(err, "reading fee growth failed")
	}
	return a, b, nil
}

// mintCertificate records burning as its inverse.
func (o *op) mintCertificate(owner id.ParticipantID, meta ports.CertificateMetadata) (string, error) {
	ref, err := o.s.certs.MintCertificate(o.ctx, owner, meta)
	if err != nil {
		return "", external(err, "minting certificate failed")
	}
	o.journal.record("mint_certificate", func(ctx context.Context) error {
		return o.s.certs.Burn(ctx, ref)
	})
	return ref, nil
}

// requireHolder checks claimant holds certificateRef.
func (o *op) requireHolder(certificateRef string, claimant id.ParticipantID) error {
	if certificateRef == "" {
		return dErrors.New(dErrors.CodeState, "deposit has no certificate yet")
	}
	ok, err := o.s.certs.VerifyOwnership(o.ctx, certificateRef, claimant)
	if err != nil {
		return external(err, "verifying certificate ownership failed")
	}
	if !ok {
		return dErrors.New(dErrors.CodeUnauthorized, "caller does not hold the ownership certificate")
	}
	return nil
}

// burn has no inverse; callers order it last.
func (o *op) burn(certificateRef string) error {
	if err := o.s.certs.Burn(o.ctx, certificateRef); err != nil {
		return external(err, "burning certificate failed")
	}
	return nil
}
