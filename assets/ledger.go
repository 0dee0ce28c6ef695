package assets

import (
	"fmt"
	"sync"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"reward-engine/types"
)

// Ledger is an in-process asset custody collaborator: per-holder, per-denom
// balances with a designated custody account the engine transfers against.
type Ledger struct {
	mu       sync.Mutex
	custody  string
	balances map[string]map[string]sdkmath.Int // holder -> denom -> amount
}

func NewLedger(custody string) *Ledger {
	return &Ledger{
		custody:  custody,
		balances: map[string]map[string]sdkmath.Int{},
	}
}

// Mint credits a holder out of thin air; used for seeding reward budgets
// and test balances.
func (l *Ledger) Mint(holder string, coin sdk.Coin) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.credit(holder, coin.Denom, coin.Amount)
}

func (l *Ledger) TransferIn(from string, coin sdk.Coin) error {
	return l.move(from, l.custody, coin)
}

func (l *Ledger) TransferOut(to string, coin sdk.Coin) error {
	return l.move(l.custody, to, coin)
}

func (l *Ledger) BalanceOf(holder string, denom string) sdk.Coin {
	l.mu.Lock()
	defer l.mu.Unlock()
	return sdk.NewCoin(denom, l.balance(holder, denom))
}

func (l *Ledger) move(from, to string, coin sdk.Coin) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	have := l.balance(from, coin.Denom)
	if have.LT(coin.Amount) {
		return fmt.Errorf("holder %s has %s%s, needs %s: %w", from, have, coin.Denom, coin, types.ErrInsufficientPrincipal)
	}
	l.debit(from, coin.Denom, coin.Amount)
	l.credit(to, coin.Denom, coin.Amount)
	return nil
}

func (l *Ledger) debit(holder, denom string, amount sdkmath.Int) {
	denoms, ok := l.balances[holder]
	if !ok {
		denoms = map[string]sdkmath.Int{}
		l.balances[holder] = denoms
	}
	current, ok := denoms[denom]
	if !ok {
		current = sdkmath.ZeroInt()
	}
	denoms[denom] = current.Sub(amount)
}

func (l *Ledger) balance(holder, denom string) sdkmath.Int {
	denoms, ok := l.balances[holder]
	if !ok {
		return sdkmath.ZeroInt()
	}
	amount, ok := denoms[denom]
	if !ok {
		return sdkmath.ZeroInt()
	}
	return amount
}

func (l *Ledger) credit(holder, denom string, amount sdkmath.Int) {
	denoms, ok := l.balances[holder]
	if !ok {
		denoms = map[string]sdkmath.Int{}
		l.balances[holder] = denoms
	}
	current, ok := denoms[denom]
	if !ok {
		current = sdkmath.ZeroInt()
	}
	denoms[denom] = current.Add(amount)
}

var _ types.AssetLedger = (*Ledger)(nil)
