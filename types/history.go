package types

import (
	"fmt"
	"time"
)

type StakeAction uint8

const (
	ActionStake StakeAction = iota
	ActionWithdraw
)

// StakeRecord is the per-account deposit/withdraw history.
type StakeRecord struct {
	ID      uint64
	Account string
	Amount  string
	Denom   string
	Action  StakeAction
	Time    int64
}

func (r *StakeRecord) Key() string {
	return fmt.Sprintf("StakeRecord_%s_%d", r.Account, r.ID)
}

func (r *StakeRecord) Prefix() string {
	return fmt.Sprintf("StakeRecord_%s", r.Account)
}

func (r *StakeRecord) SetId(id uint64) {
	r.ID = id
}

// RewardRecord is the per-account claim history.
type RewardRecord struct {
	ID      uint64
	Account string
	Token   string
	Amount  string
	Time    int64
}

// Key nests the token so claims against different streams keep separate
// auto-increment counters. Listing with an empty Token matches every
// stream's records for the account.
func (r *RewardRecord) Key() string {
	return fmt.Sprintf("RewardRecord_%s_%s_%d", r.Account, r.Token, r.ID)
}

func (r *RewardRecord) Prefix() string {
	return fmt.Sprintf("RewardRecord_%s_%s", r.Account, r.Token)
}

func (r *RewardRecord) SetId(id uint64) {
	r.ID = id
}

// PrincipalHistory is the periodic total-principal snapshot written by the
// cron job.
type PrincipalHistory struct {
	ID     uint64
	Amount string
	Time   time.Time
}

func (p *PrincipalHistory) Key() string {
	return fmt.Sprintf("PrincipalHistory_%d", p.ID)
}

func (p *PrincipalHistory) Prefix() string {
	return "PrincipalHistory_"
}

func (p *PrincipalHistory) SetId(id uint64) {
	p.ID = id
}
