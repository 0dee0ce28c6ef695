package engine

import (
	sdkmath "cosmossdk.io/math"
)

// Reward settlement: zeroing claimable amounts. The pending balance is
// zeroed before any transfer is issued, so a re-entrant transfer callback
// finds nothing left to pay.

// claimStream zeroes and returns the account's pending amount for token.
// Accounts or checkpoints that never touched the stream claim zero.
func (s *memState) claimStream(account, token string) sdkmath.Int {
	acct, ok := s.Accounts[account]
	if !ok {
		return sdkmath.ZeroInt()
	}
	cp, ok := acct.Checkpoints[token]
	if !ok || !cp.Pending.IsPositive() {
		return sdkmath.ZeroInt()
	}
	amount := cp.Pending
	cp.Pending = sdkmath.ZeroInt()
	return amount
}
