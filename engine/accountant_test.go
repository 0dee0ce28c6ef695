package engine

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"reward-engine/types"
)

func scaledRate(perSecond int64) sdkmath.Int {
	return types.Scale.MulRaw(perSecond)
}

func activeStream(t *testing.T, now int64, perSecond, duration int64) *types.RewardStream {
	t.Helper()
	s := types.NewRewardStream("rwd", now)
	reward := sdkmath.NewInt(perSecond * duration)
	err := setStreamRate(s, reward, duration, now, reward)
	require.NoError(t, err)
	require.Equal(t, scaledRate(perSecond).String(), s.Rate.String())
	return s
}

func TestAccPerUnitZeroWeightedPrincipal(t *testing.T) {
	s := activeStream(t, 1000, 10, 1000)

	acc := accPerUnit(s, sdkmath.ZeroInt(), 1500)
	require.True(t, acc.IsZero(), "no distribution can occur with zero weighted principal")

	settleStream(s, sdkmath.ZeroInt(), 1500)
	require.True(t, s.AccPerUnit.IsZero())
}

func TestAccPerUnitAdvances(t *testing.T) {
	s := activeStream(t, 1000, 10, 1000)
	total := sdkmath.NewInt(100)

	// 50s at 10/s over 100 weighted units: 5 whole units each.
	acc := accPerUnit(s, total, 1050)
	require.Equal(t, types.Scale.MulRaw(5).String(), acc.String())
}

func TestAccrualCapsAtPeriodEnd(t *testing.T) {
	s := activeStream(t, 1000, 10, 100)
	total := sdkmath.NewInt(100)

	atEnd := accPerUnit(s, total, 1100)
	past := accPerUnit(s, total, 5000)
	require.Equal(t, atEnd.String(), past.String())

	settleStream(s, total, 5000)
	require.Equal(t, int64(1100), s.LastUpdate)
}

func TestSettleIdempotent(t *testing.T) {
	s := activeStream(t, 1000, 10, 1000)
	total := sdkmath.NewInt(100)

	settleStream(s, total, 1200)
	acc := s.AccPerUnit
	last := s.LastUpdate

	settleStream(s, total, 1200)
	require.Equal(t, acc.String(), s.AccPerUnit.String())
	require.Equal(t, last, s.LastUpdate)
}

func TestAccumulatorMonotonic(t *testing.T) {
	s := activeStream(t, 1000, 7, 10000)
	total := sdkmath.NewInt(333)

	prev := s.AccPerUnit
	for _, now := range []int64{1001, 1500, 1500, 4000, 11000, 12000} {
		settleStream(s, total, now)
		require.True(t, s.AccPerUnit.GTE(prev), "accumulator decreased at t=%d", now)
		prev = s.AccPerUnit
	}
}

func TestSetRateFreshPeriod(t *testing.T) {
	s := types.NewRewardStream("rwd", 1000)
	reward := sdkmath.NewInt(604800 * 10)

	err := setStreamRate(s, reward, 604800, 1000, reward)
	require.NoError(t, err)
	require.Equal(t, scaledRate(10).String(), s.Rate.String())
	require.Equal(t, int64(1000+604800), s.PeriodEnd)
	require.Equal(t, int64(1000), s.LastUpdate)
	require.Equal(t, reward.String(), s.TotalDistributed.String())
}

func TestSetRateBlendsLeftover(t *testing.T) {
	// rate 10/s, 3 days left in the current period, top up 864000 for a
	// fresh 4-day period: (864000 + 3*86400*10) / (4*86400) = 10/s.
	now := int64(1000)
	s := activeStream(t, now, 10, 7*86400)

	atBlend := now + 4*86400
	available := sdkmath.NewInt(10_000_000)
	err := setStreamRate(s, sdkmath.NewInt(864000), 4*86400, atBlend, available)
	require.NoError(t, err)
	require.Equal(t, scaledRate(10).String(), s.Rate.String())
	require.Equal(t, atBlend+4*86400, s.PeriodEnd)
}

func TestSetRateAfterExpiryIgnoresOldRate(t *testing.T) {
	now := int64(1000)
	s := activeStream(t, now, 10, 100)

	afterExpiry := now + 200
	err := setStreamRate(s, sdkmath.NewInt(500), 100, afterExpiry, sdkmath.NewInt(500))
	require.NoError(t, err)
	require.Equal(t, scaledRate(5).String(), s.Rate.String())
}

func TestSetRateInsufficientBalance(t *testing.T) {
	s := types.NewRewardStream("rwd", 1000)

	err := setStreamRate(s, sdkmath.NewInt(1000), 100, 1000, sdkmath.NewInt(999))
	require.ErrorIs(t, err, types.ErrRewardRateExceedsBalance)
	require.True(t, s.Rate.IsZero(), "failed setRate must not change the stream")
	require.Equal(t, int64(0), s.PeriodEnd)
}

func TestStreamStatus(t *testing.T) {
	s := types.NewRewardStream("rwd", 1000)
	require.Equal(t, types.StreamEmpty, s.Status(1000))

	require.NoError(t, setStreamRate(s, sdkmath.NewInt(1000), 100, 1000, sdkmath.NewInt(1000)))
	require.Equal(t, types.StreamActive, s.Status(1050))
	require.Equal(t, types.StreamExpired, s.Status(1100))

	s.Active = false
	require.Equal(t, types.StreamRemoved, s.Status(1050))
}

func TestSettleAllFreezesAccountEarnings(t *testing.T) {
	st := newMemState()
	_, err := st.addStream("rwd", "stake", 1000)
	require.NoError(t, err)
	require.NoError(t, setStreamRate(st.Streams["rwd"], sdkmath.NewInt(10000), 1000, 1000, sdkmath.NewInt(10000)))

	st.openPosition("alice", sdkmath.NewInt(100), 0, types.NeutralMultiplier, 1000)

	// 100s at 10/s, alice owns all weight: 1000 earned.
	settleAll(st, "alice", 1100)
	cp := st.Accounts["alice"].Checkpoints["rwd"]
	require.Equal(t, "1000", cp.Pending.String())
	require.Equal(t, st.Streams["rwd"].AccPerUnit.String(), cp.PaidPerUnit.String())

	// Settling again with no time elapsed changes nothing.
	settleAll(st, "alice", 1100)
	require.Equal(t, "1000", cp.Pending.String())
}

func TestEarnedWithoutCheckpoint(t *testing.T) {
	st := newMemState()
	st.openPosition("alice", sdkmath.NewInt(100), 0, types.NeutralMultiplier, 900)

	// Stream added after alice staked: her checkpoint does not exist yet,
	// so accrual counts from the stream's inception.
	_, err := st.addStream("rwd", "stake", 1000)
	require.NoError(t, err)
	require.NoError(t, setStreamRate(st.Streams["rwd"], sdkmath.NewInt(10000), 1000, 1000, sdkmath.NewInt(10000)))

	amount := earned(st.Streams["rwd"], st.Accounts["alice"], st.Global.TotalWeighted, 1100)
	require.Equal(t, "1000", amount.String())
}
