package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"reward-engine/db"
	"reward-engine/types"
)

// Config carries the engine's lock-period table and asset wiring. Lock
// periods are seconds; multipliers are scaled (1.0x == types.Scale) and
// must pair with the periods index for index.
type Config struct {
	PrincipalDenom string
	Custody        string
	LockPeriods    []int64
	Multipliers    []sdkmath.Int
}

func (c Config) validate() error {
	if c.PrincipalDenom == "" || c.Custody == "" {
		return errors.New("principal denom and custody account are required")
	}
	if len(c.LockPeriods) == 0 || len(c.LockPeriods) != len(c.Multipliers) {
		return errors.New("lock period table and multiplier table must align")
	}
	for i, m := range c.Multipliers {
		if m.IsNil() || m.LT(types.Scale) {
			return fmt.Errorf("multiplier %d below 1.0x", i)
		}
		if c.LockPeriods[i] < 0 {
			return fmt.Errorf("lock period %d negative", i)
		}
	}
	return nil
}

// Engine is the reward-accrual core: a serialized state machine over the
// streams, positions and checkpoints. Every public mutation settles accrual
// first, mutates state second, and touches the asset ledger last; any
// failure restores the pre-operation state in full.
type Engine struct {
	mu           sync.Mutex
	transferring atomic.Bool

	cfg    Config
	st     *memState
	ldb    *db.LDB
	clock  types.Clock
	assets types.AssetLedger
	acl    types.AccessControl
	events types.EventSink
}

// NewEngine builds an engine over the given collaborators, reloading any
// state previously persisted in ldb.
func NewEngine(cfg Config, ldb *db.LDB, assets types.AssetLedger, acl types.AccessControl, events types.EventSink, clock types.Clock) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = types.SystemClock{}
	}
	st, err := loadState(ldb)
	if err != nil {
		return nil, err
	}
	return &Engine{
		cfg:    cfg,
		st:     st,
		ldb:    ldb,
		clock:  clock,
		assets: assets,
		acl:    acl,
		events: events,
	}, nil
}

type transfer struct {
	in    bool
	party string
	coin  sdk.Coin
}

type opResult struct {
	transfers []transfer
	claims    []sdk.Coin
	history   []types.DbRecord
	emit      func(sink types.EventSink)
}

// run is the single pipeline every mutation goes through: reentrancy check,
// lock, settle-first, mutate, external transfers, claim payouts, persist,
// events. The settle stage cannot be skipped and transfers always follow
// the mutation, so checks-effects-interactions ordering holds by
// construction.
//
// Rollback is scoped to what has not yet left the engine. A mutate or
// principal-transfer error restores the pre-operation snapshot in full.
// Claim payouts are each independently atomic: a failed payout restores
// only the pending balances not yet paid, and amounts that already went
// out stay zeroed. Once any asset has moved, a persist failure keeps the
// in-memory state authoritative instead of resurrecting paid balances.
func (e *Engine) run(account string, mutate func(now int64, st *memState, res *opResult) error) error {
	if e.transferring.Load() {
		return types.ErrReentrantCall
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()
	snap := e.st.clone()
	res := &opResult{}

	settleAll(e.st, account, now)
	if err := mutate(now, e.st, res); err != nil {
		e.st = snap
		return err
	}
	if err := e.execTransfers(res.transfers); err != nil {
		e.st = snap
		return fmt.Errorf("%w: %v", types.ErrTransferFailed, err)
	}
	claimErr := e.payClaims(account, now, res)
	moved := len(res.transfers) > 0 || len(res.claims) > 0

	if err := e.persist(account, res.history); err != nil {
		if !moved {
			e.st = snap
		}
		return err
	}
	if res.emit != nil && e.events != nil {
		res.emit(e.events)
	}
	if claimErr != nil {
		return fmt.Errorf("%w: %v", types.ErrTransferFailed, claimErr)
	}
	return nil
}

func (e *Engine) execTransfers(ts []transfer) error {
	if len(ts) == 0 {
		return nil
	}
	e.transferring.Store(true)
	defer e.transferring.Store(false)
	for _, t := range ts {
		var err error
		if t.in {
			err = e.assets.TransferIn(t.party, t.coin)
		} else {
			err = e.assets.TransferOut(t.party, t.coin)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// payClaims pays each queued claim in turn. Every pending balance was
// zeroed during the mutate stage, so a re-entrant transfer callback finds
// nothing left to pay. A failed transfer restores the pending balances of
// the failed claim and every claim after it, truncates res.claims to the
// paid prefix, and returns the failure; payouts already made stand.
func (e *Engine) payClaims(account string, now int64, res *opResult) error {
	if len(res.claims) == 0 {
		return nil
	}
	e.transferring.Store(true)
	defer e.transferring.Store(false)
	for i, coin := range res.claims {
		if err := e.assets.TransferOut(account, coin); err != nil {
			acct := e.st.account(account)
			for _, unpaid := range res.claims[i:] {
				cp := acct.checkpoint(account, unpaid.Denom)
				cp.Pending = cp.Pending.Add(unpaid.Amount)
			}
			res.claims = res.claims[:i]
			return err
		}
		paid := coin
		res.history = append(res.history, &types.RewardRecord{
			Account: account,
			Token:   paid.Denom,
			Amount:  paid.Amount.String(),
			Time:    now,
		})
		prev := res.emit
		res.emit = func(sink types.EventSink) {
			if prev != nil {
				prev(sink)
			}
			sink.RewardPaid(account, paid)
		}
	}
	return nil
}

// Stake opens a locked position for account. The lock index selects the
// configured period and multiplier; principal moves into custody only after
// the position and totals are recorded.
func (e *Engine) Stake(account string, amount sdkmath.Int, lockIndex int) error {
	if account == "" {
		return types.ErrInvalidAccount
	}
	return e.run(account, func(now int64, st *memState, res *opResult) error {
		if amount.IsNil() || !amount.IsPositive() {
			return types.ErrInvalidAmount
		}
		if lockIndex < 0 || lockIndex >= len(e.cfg.LockPeriods) {
			return types.ErrInvalidLockIndex
		}
		lock := e.cfg.LockPeriods[lockIndex]
		st.openPosition(account, amount, lock, e.cfg.Multipliers[lockIndex], now)

		res.transfers = append(res.transfers, transfer{in: true, party: account, coin: sdk.NewCoin(e.cfg.PrincipalDenom, amount)})
		res.history = append(res.history, &types.StakeRecord{
			Account: account,
			Amount:  amount.String(),
			Denom:   e.cfg.PrincipalDenom,
			Action:  types.ActionStake,
			Time:    now,
		})
		res.emit = func(sink types.EventSink) {
			sink.Staked(account, amount, lock)
		}
		return nil
	})
}

// Withdraw closes an unlocked position and returns its principal. Position
// indices are invalidated by any prior removal on the same account; fetch
// them again through Positions before calling.
func (e *Engine) Withdraw(account string, positionIndex int) error {
	return e.run(account, func(now int64, st *memState, res *opResult) error {
		amount, err := st.closePosition(account, positionIndex, now)
		if err != nil {
			return err
		}

		res.transfers = append(res.transfers, transfer{party: account, coin: sdk.NewCoin(e.cfg.PrincipalDenom, amount)})
		res.history = append(res.history, &types.StakeRecord{
			Account: account,
			Amount:  amount.String(),
			Denom:   e.cfg.PrincipalDenom,
			Action:  types.ActionWithdraw,
			Time:    now,
		})
		res.emit = func(sink types.EventSink) {
			sink.Withdrawn(account, amount)
		}
		return nil
	})
}

// ClaimReward pays out the account's pending balance on one stream. A zero
// pending balance is a successful no-op. The pending amount is zeroed
// before the transfer is issued.
func (e *Engine) ClaimReward(account, token string) error {
	return e.run(account, func(now int64, st *memState, res *opResult) error {
		if _, ok := st.Streams[token]; !ok {
			return types.ErrInvalidRewardToken
		}
		queueClaim(st, account, token, res)
		return nil
	})
}

// ClaimAll pays out every registered stream with a pending balance,
// including expired and deactivated ones. Each stream's payout is on its
// own: a transfer failure part way through leaves earlier payouts standing
// and the unpaid pending balances intact.
func (e *Engine) ClaimAll(account string) error {
	return e.run(account, func(now int64, st *memState, res *opResult) error {
		for _, token := range st.Order {
			queueClaim(st, account, token, res)
		}
		return nil
	})
}

func queueClaim(st *memState, account, token string, res *opResult) {
	amount := st.claimStream(account, token)
	if !amount.IsPositive() {
		return
	}
	res.claims = append(res.claims, sdk.NewCoin(token, amount))
}

// AddRewardStream registers a new reward asset in the Empty state.
// Privileged.
func (e *Engine) AddRewardStream(caller, token string) error {
	if e.acl != nil && !e.acl.Allowed(caller, types.OpAddStream) {
		return types.ErrUnauthorized
	}
	return e.run("", func(now int64, st *memState, res *opResult) error {
		if _, err := st.addStream(token, e.cfg.PrincipalDenom, now); err != nil {
			return err
		}
		res.emit = func(sink types.EventSink) {
			sink.RewardStreamAdded(token)
		}
		return nil
	})
}

// RemoveRewardStream deactivates a stream. Checkpoints and pending rewards
// survive; they remain payable only while custody still holds the asset.
// Privileged.
func (e *Engine) RemoveRewardStream(caller, token string) error {
	if e.acl != nil && !e.acl.Allowed(caller, types.OpRemoveStream) {
		return types.ErrUnauthorized
	}
	return e.run("", func(now int64, st *memState, res *opResult) error {
		if _, err := st.removeStream(token); err != nil {
			return err
		}
		res.emit = func(sink types.EventSink) {
			sink.RewardStreamRemoved(token)
		}
		return nil
	})
}

// SetRewardRate commits reward to the stream over duration seconds,
// blending any unexpired leftover into the new rate. Custody must already
// hold enough of the token to cover the committed payout. Privileged.
func (e *Engine) SetRewardRate(caller, token string, reward sdkmath.Int, duration int64) error {
	if e.acl != nil && !e.acl.Allowed(caller, types.OpSetRate) {
		return types.ErrUnauthorized
	}
	return e.run("", func(now int64, st *memState, res *opResult) error {
		s, ok := st.Streams[token]
		if !ok || !s.Active {
			return types.ErrInvalidRewardToken
		}
		if reward.IsNil() || !reward.IsPositive() || duration <= 0 {
			return types.ErrInvalidAmount
		}
		available := e.assets.BalanceOf(e.cfg.Custody, token).Amount
		if err := setStreamRate(s, reward, duration, now, available); err != nil {
			return err
		}
		res.emit = func(sink types.EventSink) {
			sink.RewardRateUpdated(token, s.Rate, s.PeriodEnd)
		}
		return nil
	})
}

// Earned reports the account's claimable amount on one stream as of now,
// without settling.
func (e *Engine) Earned(account, token string) (sdkmath.Int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.st.Streams[token]
	if !ok {
		return sdkmath.Int{}, types.ErrInvalidRewardToken
	}
	acct, ok := e.st.Accounts[account]
	if !ok {
		return sdkmath.ZeroInt(), nil
	}
	return earned(s, acct, e.st.Global.TotalWeighted, e.clock.Now()), nil
}

// Pending reports the account's claimable amounts across every registered
// stream, zero entries omitted.
func (e *Engine) Pending(account string) []sdk.Coin {
	e.mu.Lock()
	defer e.mu.Unlock()
	acct, ok := e.st.Accounts[account]
	if !ok {
		return nil
	}
	now := e.clock.Now()
	var coins []sdk.Coin
	for _, token := range e.st.Order {
		amount := earned(e.st.Streams[token], acct, e.st.Global.TotalWeighted, now)
		if amount.IsPositive() {
			coins = append(coins, sdk.NewCoin(token, amount))
		}
	}
	return coins
}

// Positions returns a copy of the account's open positions.
func (e *Engine) Positions(account string) []types.StakePosition {
	e.mu.Lock()
	defer e.mu.Unlock()
	acct, ok := e.st.Accounts[account]
	if !ok {
		return nil
	}
	out := make([]types.StakePosition, len(acct.Positions))
	copy(out, acct.Positions)
	return out
}

func (e *Engine) PrincipalOf(account string) sdkmath.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	acct, ok := e.st.Accounts[account]
	if !ok {
		return sdkmath.ZeroInt()
	}
	return acct.Principal
}

func (e *Engine) WeightedMultiplier(account string) sdkmath.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	acct, ok := e.st.Accounts[account]
	if !ok {
		return types.NeutralMultiplier
	}
	return acct.weightedMultiplier()
}

func (e *Engine) TotalPrincipal() sdkmath.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.Global.TotalPrincipal
}

func (e *Engine) TotalWeighted() sdkmath.Int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.Global.TotalWeighted
}

// Streams returns clones of every registered stream in settlement order.
func (e *Engine) Streams() []*types.RewardStream {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*types.RewardStream, 0, len(e.st.Order))
	for _, token := range e.st.Order {
		out = append(out, e.st.Streams[token].Clone())
	}
	return out
}
