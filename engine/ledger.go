package engine

import (
	sdkmath "cosmossdk.io/math"

	"reward-engine/types"
)

// The stake position ledger: per-account locked positions and the weighted
// multiplier they imply. Callers must be settled against every active
// stream before any of these mutate weighting.

// weightedMultiplier is the amount-weighted average of the account's
// position multipliers, floor-divided. An account with no positions is
// neutral (1.0x).
func (a *accountState) weightedMultiplier() sdkmath.Int {
	if len(a.Positions) == 0 {
		return types.NeutralMultiplier
	}
	num := sdkmath.ZeroInt()
	den := sdkmath.ZeroInt()
	for _, p := range a.Positions {
		num = num.Add(p.Amount.Mul(p.Multiplier))
		den = den.Add(p.Amount)
	}
	if den.IsZero() {
		return types.NeutralMultiplier
	}
	return num.Quo(den)
}

// weightedPrincipal is the account's principal scaled by its aggregate
// multiplier, in raw principal units.
func (a *accountState) weightedPrincipal() sdkmath.Int {
	return a.Principal.Mul(a.weightedMultiplier()).Quo(types.Scale)
}

// openPosition appends a position and moves global totals from the
// account's old weighting to its new one.
func (s *memState) openPosition(account string, amount sdkmath.Int, lockDuration int64, multiplier sdkmath.Int, now int64) {
	acct := s.account(account)
	oldWeighted := acct.weightedPrincipal()

	acct.Positions = append(acct.Positions, types.StakePosition{
		Amount:       amount,
		LockDuration: lockDuration,
		StartTime:    now,
		UnlockTime:   now + lockDuration,
		Multiplier:   multiplier,
	})
	acct.Principal = acct.Principal.Add(amount)

	s.Global.TotalPrincipal = s.Global.TotalPrincipal.Add(amount)
	s.Global.TotalWeighted = s.Global.TotalWeighted.Sub(oldWeighted).Add(acct.weightedPrincipal())
}

// closePosition removes position index by swapping with the last element
// and truncating. Remaining position order is not preserved and previously
// fetched indices are invalid after this returns. The unlocked amount is
// returned for payout.
func (s *memState) closePosition(account string, index int, now int64) (sdkmath.Int, error) {
	acct, ok := s.Accounts[account]
	if !ok || index < 0 || index >= len(acct.Positions) {
		return sdkmath.Int{}, types.ErrInvalidPositionIndex
	}
	pos := acct.Positions[index]
	if now < pos.UnlockTime {
		return sdkmath.Int{}, types.ErrStakeStillLocked
	}
	if acct.Principal.LT(pos.Amount) {
		return sdkmath.Int{}, types.ErrInsufficientPrincipal
	}

	oldWeighted := acct.weightedPrincipal()

	last := len(acct.Positions) - 1
	acct.Positions[index] = acct.Positions[last]
	acct.Positions = acct.Positions[:last]
	acct.Principal = acct.Principal.Sub(pos.Amount)

	s.Global.TotalPrincipal = s.Global.TotalPrincipal.Sub(pos.Amount)
	s.Global.TotalWeighted = s.Global.TotalWeighted.Sub(oldWeighted).Add(acct.weightedPrincipal())
	return pos.Amount, nil
}
