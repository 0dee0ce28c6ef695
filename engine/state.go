package engine

import (
	sdkmath "cosmossdk.io/math"

	"reward-engine/types"
)

// accountState is the in-memory view of one account: raw principal, open
// positions and per-stream checkpoints. Checkpoints are materialized lazily
// the first time the account is settled against a stream, so per-account
// storage is bounded by the number of registered streams.
type accountState struct {
	Principal   sdkmath.Int
	Positions   []types.StakePosition
	Checkpoints map[string]*types.AccountCheckpoint
}

func newAccountState() *accountState {
	return &accountState{
		Principal:   sdkmath.ZeroInt(),
		Positions:   []types.StakePosition{},
		Checkpoints: map[string]*types.AccountCheckpoint{},
	}
}

// checkpoint returns the account's checkpoint for token, creating it at a
// zero paid-per-unit so accrual since the stream's inception is credited on
// the first settlement (with the account's weight at that time).
func (a *accountState) checkpoint(account, token string) *types.AccountCheckpoint {
	cp, ok := a.Checkpoints[token]
	if !ok {
		cp = types.NewAccountCheckpoint(account, token, sdkmath.ZeroInt())
		a.Checkpoints[token] = cp
	}
	return cp
}

func (a *accountState) clone() *accountState {
	c := &accountState{
		Principal:   a.Principal,
		Positions:   make([]types.StakePosition, len(a.Positions)),
		Checkpoints: make(map[string]*types.AccountCheckpoint, len(a.Checkpoints)),
	}
	copy(c.Positions, a.Positions)
	for token, cp := range a.Checkpoints {
		c.Checkpoints[token] = cp.Clone()
	}
	return c
}

// memState is the authoritative engine state. Every public operation
// mutates it under the engine lock and either commits fully or is rolled
// back to a pre-operation clone.
type memState struct {
	Streams      map[string]*types.RewardStream
	Order        []string
	Accounts     map[string]*accountState
	AccountOrder []string
	Global       types.GlobalState
}

func newMemState() *memState {
	return &memState{
		Streams:  map[string]*types.RewardStream{},
		Accounts: map[string]*accountState{},
		Global: types.GlobalState{
			TotalPrincipal: sdkmath.ZeroInt(),
			TotalWeighted:  sdkmath.ZeroInt(),
		},
	}
}

// account returns the state for name, creating it on first use.
func (s *memState) account(name string) *accountState {
	acct, ok := s.Accounts[name]
	if !ok {
		acct = newAccountState()
		s.Accounts[name] = acct
		s.AccountOrder = append(s.AccountOrder, name)
	}
	return acct
}

func (s *memState) clone() *memState {
	c := &memState{
		Streams:      make(map[string]*types.RewardStream, len(s.Streams)),
		Order:        make([]string, len(s.Order)),
		Accounts:     make(map[string]*accountState, len(s.Accounts)),
		AccountOrder: make([]string, len(s.AccountOrder)),
		Global:       s.Global,
	}
	copy(c.Order, s.Order)
	copy(c.AccountOrder, s.AccountOrder)
	for token, stream := range s.Streams {
		c.Streams[token] = stream.Clone()
	}
	for name, acct := range s.Accounts {
		c.Accounts[name] = acct.clone()
	}
	return c
}
