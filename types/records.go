package types

import (
	"fmt"

	sdkmath "cosmossdk.io/math"
)

// Scale is the fixed-point scale shared by rates, accumulators and
// multipliers: 1.0 == 10^18. Every division floors.
var Scale = sdkmath.NewIntWithDecimal(1, 18)

// NeutralMultiplier is 1.0x, applied to accounts with no locked positions.
var NeutralMultiplier = Scale

type StreamStatus uint8

const (
	StreamEmpty StreamStatus = iota
	StreamActive
	StreamExpired
	StreamRemoved
)

type DbRecord interface {
	Key() string
}

type DbRecordAutoId interface {
	DbRecord
	Prefix() string
	SetId(uint64)
}

// RewardStream is one reward asset's independent rate/accumulator/period
// state. Streams are never deleted, only deactivated, so accounting for
// outstanding claims stays valid.
type RewardStream struct {
	Token            string
	Rate             sdkmath.Int // scaled reward units per second
	AccPerUnit       sdkmath.Int // scaled reward per weighted principal unit
	LastUpdate       int64
	PeriodEnd        int64
	TotalDistributed sdkmath.Int
	Active           bool
}

func NewRewardStream(token string, now int64) *RewardStream {
	return &RewardStream{
		Token:            token,
		Rate:             sdkmath.ZeroInt(),
		AccPerUnit:       sdkmath.ZeroInt(),
		LastUpdate:       now,
		PeriodEnd:        0,
		TotalDistributed: sdkmath.ZeroInt(),
		Active:           true,
	}
}

func (s *RewardStream) Key() string {
	return fmt.Sprintf("RewardStream_%s", s.Token)
}

func (s *RewardStream) Status(now int64) StreamStatus {
	if !s.Active {
		return StreamRemoved
	}
	if s.Rate.IsZero() && s.PeriodEnd == 0 {
		return StreamEmpty
	}
	if now >= s.PeriodEnd {
		return StreamExpired
	}
	return StreamActive
}

func (s *RewardStream) Clone() *RewardStream {
	c := *s
	return &c
}

// StreamList is the registry's persisted token order.
type StreamList struct {
	Tokens []string
}

func (l *StreamList) Key() string {
	return "RewardStreamList"
}

// AccountCheckpoint records, per (account, stream), the accumulator value
// last observed for the account and the frozen earned amount not yet
// claimed. Pending only grows between settlements and is zeroed by claims.
type AccountCheckpoint struct {
	Account     string
	Token       string
	PaidPerUnit sdkmath.Int
	Pending     sdkmath.Int
}

func NewAccountCheckpoint(account, token string, paidPerUnit sdkmath.Int) *AccountCheckpoint {
	return &AccountCheckpoint{
		Account:     account,
		Token:       token,
		PaidPerUnit: paidPerUnit,
		Pending:     sdkmath.ZeroInt(),
	}
}

func (c *AccountCheckpoint) Key() string {
	return fmt.Sprintf("Checkpoint_%s_%s", c.Account, c.Token)
}

func (c *AccountCheckpoint) Clone() *AccountCheckpoint {
	n := *c
	return &n
}

// StakePosition is one time-locked deposit. Positions are removed by
// swapping with the last element; indices held across a removal on the
// same account are invalid and must be re-fetched.
type StakePosition struct {
	Amount       sdkmath.Int
	LockDuration int64
	StartTime    int64
	UnlockTime   int64
	Multiplier   sdkmath.Int // scaled, 1.0x == Scale
}

// PositionList carries an account's principal and its open positions.
// Invariant: Principal equals the sum of position amounts.
type PositionList struct {
	Account   string
	Principal sdkmath.Int
	Positions []StakePosition
}

func NewPositionList(account string) *PositionList {
	return &PositionList{
		Account:   account,
		Principal: sdkmath.ZeroInt(),
		Positions: []StakePosition{},
	}
}

func (p *PositionList) Key() string {
	return fmt.Sprintf("PositionList_%s", p.Account)
}

// GlobalState tracks engine-wide totals. TotalWeighted is the sum over
// accounts of principal scaled by each account's aggregate lock multiplier.
type GlobalState struct {
	TotalPrincipal sdkmath.Int
	TotalWeighted  sdkmath.Int
}

func (g *GlobalState) Key() string {
	return "GlobalState"
}

// AccountList records every account that ever interacted with the engine,
// used to rebuild state on restart.
type AccountList struct {
	Accounts []string
}

func (a *AccountList) Key() string {
	return "AccountList"
}
