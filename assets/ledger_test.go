package assets

import (
	"testing"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/stretchr/testify/require"

	"reward-engine/types"
)

func coin(denom string, amount int64) sdk.Coin {
	return sdk.NewCoin(denom, sdkmath.NewInt(amount))
}

func TestTransferRoundTrip(t *testing.T) {
	l := NewLedger("custody")
	l.Mint("alice", coin("stake", 100))

	require.NoError(t, l.TransferIn("alice", coin("stake", 60)))
	require.Equal(t, "40", l.BalanceOf("alice", "stake").Amount.String())
	require.Equal(t, "60", l.BalanceOf("custody", "stake").Amount.String())

	require.NoError(t, l.TransferOut("bob", coin("stake", 25)))
	require.Equal(t, "25", l.BalanceOf("bob", "stake").Amount.String())
	require.Equal(t, "35", l.BalanceOf("custody", "stake").Amount.String())
}

func TestTransferInsufficientBalance(t *testing.T) {
	l := NewLedger("custody")
	l.Mint("alice", coin("stake", 10))

	err := l.TransferIn("alice", coin("stake", 11))
	require.ErrorIs(t, err, types.ErrInsufficientPrincipal)
	require.Equal(t, "10", l.BalanceOf("alice", "stake").Amount.String())
	require.True(t, l.BalanceOf("custody", "stake").Amount.IsZero())
}

func TestZeroTransferFromUnknownHolder(t *testing.T) {
	l := NewLedger("custody")

	require.NoError(t, l.TransferIn("ghost", coin("stake", 0)))
	require.NoError(t, l.TransferOut("ghost", coin("stake", 0)))
	require.True(t, l.BalanceOf("ghost", "stake").Amount.IsZero())
	require.True(t, l.BalanceOf("custody", "stake").Amount.IsZero())
}
