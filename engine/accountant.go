package engine

import (
	sdkmath "cosmossdk.io/math"

	"reward-engine/types"
)

// The accrual accountant: a per-stream reward-per-unit accumulator in the
// style of a stability-pool index. The accumulator advances only when a
// stream is settled; between settlements, earned amounts are implied by
// (accPerUnit - paidPerUnit) at the account's weighted principal.

// accrualTime caps accrual at the stream's period end.
func accrualTime(s *types.RewardStream, now int64) int64 {
	if now < s.PeriodEnd {
		return now
	}
	return s.PeriodEnd
}

// accPerUnit returns the accumulator advanced to now. With zero weighted
// principal no distribution can occur and the accumulator is unchanged;
// funds simply wait for the next staker.
func accPerUnit(s *types.RewardStream, totalWeighted sdkmath.Int, now int64) sdkmath.Int {
	if totalWeighted.IsZero() {
		return s.AccPerUnit
	}
	elapsed := accrualTime(s, now) - s.LastUpdate
	if elapsed <= 0 {
		return s.AccPerUnit
	}
	// rate is already scaled, so the product stays scaled after the
	// floor division by raw weighted principal.
	return s.AccPerUnit.Add(s.Rate.MulRaw(elapsed).Quo(totalWeighted))
}

// settleStream locks accumulation in up to now.
func settleStream(s *types.RewardStream, totalWeighted sdkmath.Int, now int64) {
	s.AccPerUnit = accPerUnit(s, totalWeighted, now)
	s.LastUpdate = accrualTime(s, now)
}

// settleAll settles every stream and, when an account is given, freezes
// that account's earned-so-far amounts into its checkpoints at the
// account's current (pre-mutation) weighting. Deactivated streams carry a
// zero rate, so settling them only reconciles checkpoints against the
// frozen accumulator. This runs as the first stage of every state-changing
// operation.
func settleAll(st *memState, account string, now int64) {
	var acct *accountState
	weighted := sdkmath.ZeroInt()
	if account != "" {
		acct = st.account(account)
		weighted = acct.weightedPrincipal()
	}
	for _, token := range st.Order {
		s := st.Streams[token]
		settleStream(s, st.Global.TotalWeighted, now)
		if acct != nil {
			cp := acct.checkpoint(account, token)
			delta := weighted.Mul(s.AccPerUnit.Sub(cp.PaidPerUnit)).Quo(types.Scale)
			cp.Pending = cp.Pending.Add(delta)
			cp.PaidPerUnit = s.AccPerUnit
		}
	}
}

// earned computes an account's claimable amount for one stream without
// mutating anything: frozen pending plus the accrual implied since the
// checkpoint. Deactivated streams have a zero rate, so their implied
// accrual stops at the removal settlement.
func earned(s *types.RewardStream, acct *accountState, totalWeighted sdkmath.Int, now int64) sdkmath.Int {
	paid := sdkmath.ZeroInt()
	pending := sdkmath.ZeroInt()
	if cp, ok := acct.Checkpoints[s.Token]; ok {
		paid = cp.PaidPerUnit
		pending = cp.Pending
	}
	acc := accPerUnit(s, totalWeighted, now)
	return pending.Add(acct.weightedPrincipal().Mul(acc.Sub(paid)).Quo(types.Scale))
}

// setStreamRate installs a new rate for a fresh period of the given
// duration. If the current period has not expired, the undistributed
// leftover is blended into the new rate. The custody balance must cover the
// full committed payout; falling short is an error, never a clamp.
//
// Every division floors, so repeated short extensions can shed dust; the
// sufficiency check uses the floored rate, so the stream never commits more
// than custody holds.
func setStreamRate(s *types.RewardStream, reward sdkmath.Int, duration int64, now int64, available sdkmath.Int) error {
	scaled := reward.Mul(types.Scale)
	var rate sdkmath.Int
	if now >= s.PeriodEnd {
		rate = scaled.QuoRaw(duration)
	} else {
		leftover := s.Rate.MulRaw(s.PeriodEnd - now)
		rate = scaled.Add(leftover).QuoRaw(duration)
	}

	required := rate.MulRaw(duration).Quo(types.Scale)
	if available.LT(required) {
		return types.ErrRewardRateExceedsBalance
	}

	s.Rate = rate
	s.PeriodEnd = now + duration
	s.LastUpdate = now
	s.TotalDistributed = s.TotalDistributed.Add(reward)
	return nil
}
