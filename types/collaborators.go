package types

import (
	"time"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
)

// Clock is the engine's only source of time, in unix seconds. Must be
// non-decreasing across calls.
type Clock interface {
	Now() int64
}

type SystemClock struct{}

func (SystemClock) Now() int64 {
	return time.Now().Unix()
}

// AssetLedger is the custody collaborator. The engine invokes it only after
// its own state is fully updated; any failure aborts the enclosing
// operation with a full rollback.
type AssetLedger interface {
	// TransferIn moves coin from the holder into custody.
	TransferIn(from string, coin sdk.Coin) error
	// TransferOut moves coin from custody to the holder.
	TransferOut(to string, coin sdk.Coin) error
	// BalanceOf reports a holder's balance in the given denom.
	BalanceOf(holder string, denom string) sdk.Coin
}

// AccessControl gates privileged operations. The engine exposes them but
// does not decide who is privileged.
type AccessControl interface {
	Allowed(caller string, op string) bool
}

// Privileged operation names passed to AccessControl.
const (
	OpSetRate      = "setRate"
	OpAddStream    = "addStream"
	OpRemoveStream = "removeStream"
)

// EventSink observes state transitions. Purely informational; it must not
// call back into the engine.
type EventSink interface {
	Staked(account string, amount sdkmath.Int, lockDuration int64)
	Withdrawn(account string, amount sdkmath.Int)
	RewardPaid(account string, reward sdk.Coin)
	RewardStreamAdded(token string)
	RewardStreamRemoved(token string)
	RewardRateUpdated(token string, rate sdkmath.Int, periodEnd int64)
}
