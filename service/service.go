package service

import (
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/shopspring/decimal"

	"reward-engine/db"
	"reward-engine/engine"
	"reward-engine/types"
	"reward-engine/util"
)

const secondsPerYear = 365 * 24 * 3600

type IService interface {
	GetStreams() []*types.RewardStream
	GetPositions(account string) []types.StakePosition
	GetPending(account string) []sdk.Coin
	GetGlobalState() (*types.GlobalState, error)
	GetStakeHistory(account string, limit, offset int, asc bool) ([]*types.StakeRecord, int, error)
	GetRewardHistory(account string, limit, offset int) ([]*types.RewardRecord, int, error)
	GetPrincipalHistory(limit, offset int) ([]*types.PrincipalHistory, int, error)
	GetStreamAPR(token string) (decimal.Decimal, error)

	Stake(account, amount string, lockIndex int) error
	Withdraw(account string, positionIndex int) error
	Claim(account, token string) error
	ClaimAll(account string) error
	AddStream(caller, token string) error
	RemoveStream(caller, token string) error
	SetRewardRate(caller, token, reward string, duration int64) error
}

type Service struct {
	ldb *db.LDB
	eng *engine.Engine
}

func NewService(ldb *db.LDB, eng *engine.Engine) *Service {
	return &Service{ldb: ldb, eng: eng}
}

func (s *Service) GetStreams() []*types.RewardStream {
	return s.eng.Streams()
}

func (s *Service) GetPositions(account string) []types.StakePosition {
	return s.eng.Positions(account)
}

func (s *Service) GetPending(account string) []sdk.Coin {
	return s.eng.Pending(account)
}

func (s *Service) GetGlobalState() (*types.GlobalState, error) {
	global := &types.GlobalState{
		TotalPrincipal: s.eng.TotalPrincipal(),
		TotalWeighted:  s.eng.TotalWeighted(),
	}
	return global, nil
}

func (s *Service) GetStakeHistory(account string, limit, offset int, asc bool) ([]*types.StakeRecord, int, error) {
	recordsIFace, total, err := s.ldb.GetAllRecordsWithAutoId(&types.StakeRecord{Account: account}, limit, offset, asc)
	records := []*types.StakeRecord{}
	if err != nil {
		return nil, total, err
	}
	for _, record := range recordsIFace {
		if stakeRecord, ok := record.(*types.StakeRecord); ok {
			records = append(records, stakeRecord)
		}
	}
	return records, total, nil
}

func (s *Service) GetRewardHistory(account string, limit, offset int) ([]*types.RewardRecord, int, error) {
	recordsIFace, total, err := s.ldb.GetAllRecordsWithAutoId(&types.RewardRecord{Account: account}, limit, offset, false)
	records := []*types.RewardRecord{}
	if err != nil {
		return nil, total, err
	}
	for _, record := range recordsIFace {
		if rewardRecord, ok := record.(*types.RewardRecord); ok {
			records = append(records, rewardRecord)
		}
	}
	return records, total, nil
}

func (s *Service) GetPrincipalHistory(limit, offset int) ([]*types.PrincipalHistory, int, error) {
	recordsIFace, total, err := s.ldb.GetAllRecordsWithAutoId(&types.PrincipalHistory{}, limit, offset, false)
	records := []*types.PrincipalHistory{}
	if err != nil {
		return nil, total, err
	}
	for _, record := range recordsIFace {
		if history, ok := record.(*types.PrincipalHistory); ok {
			records = append(records, history)
		}
	}
	return records, total, nil
}

// GetStreamAPR estimates the stream's annual payout relative to total
// weighted principal, in percent. Zero while nothing is staked.
func (s *Service) GetStreamAPR(token string) (decimal.Decimal, error) {
	var stream *types.RewardStream
	for _, candidate := range s.eng.Streams() {
		if candidate.Token == token {
			stream = candidate
			break
		}
	}
	if stream == nil {
		return decimal.Zero, types.ErrInvalidRewardToken
	}

	totalWeighted := s.eng.TotalWeighted()
	if totalWeighted.IsZero() {
		return decimal.Zero, nil
	}

	ratePerSecond := util.ToNumeric(stream.Rate.BigInt()).
		Div(util.ToNumeric(types.Scale.BigInt()))
	yearly := ratePerSecond.Mul(decimal.NewFromInt(secondsPerYear))
	return yearly.Div(util.ToNumeric(totalWeighted.BigInt())).Mul(decimal.NewFromInt(100)), nil
}

func (s *Service) Stake(account, amount string, lockIndex int) error {
	value, ok := sdkmathIntFromString(amount)
	if !ok {
		return types.ErrInvalidAmount
	}
	return s.eng.Stake(account, value, lockIndex)
}

func (s *Service) Withdraw(account string, positionIndex int) error {
	return s.eng.Withdraw(account, positionIndex)
}

func (s *Service) Claim(account, token string) error {
	return s.eng.ClaimReward(account, token)
}

func (s *Service) ClaimAll(account string) error {
	return s.eng.ClaimAll(account)
}

func (s *Service) AddStream(caller, token string) error {
	return s.eng.AddRewardStream(caller, token)
}

func (s *Service) RemoveStream(caller, token string) error {
	return s.eng.RemoveRewardStream(caller, token)
}

func (s *Service) SetRewardRate(caller, token, reward string, duration int64) error {
	value, ok := sdkmathIntFromString(reward)
	if !ok {
		return types.ErrInvalidAmount
	}
	return s.eng.SetRewardRate(caller, token, value, duration)
}
