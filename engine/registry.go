package engine

import (
	sdkmath "cosmossdk.io/math"

	"reward-engine/types"
)

// The stream registry: which reward assets exist and in what order they are
// settled. Streams are never erased; removal only deactivates, so
// checkpoints and pending rewards stay claimable.

func (s *memState) addStream(token string, principalDenom string, now int64) (*types.RewardStream, error) {
	if token == principalDenom {
		return nil, types.ErrInvalidRewardToken
	}
	if _, exists := s.Streams[token]; exists {
		return nil, types.ErrDuplicateRewardToken
	}
	stream := types.NewRewardStream(token, now)
	s.Streams[token] = stream
	s.Order = append(s.Order, token)
	return stream, nil
}

// removeStream deactivates the stream. The caller must have settled it
// first so the accumulator is frozen at now; zeroing the rate keeps it
// frozen no matter when the next settlement pass runs. Unclaimed pending
// amounts survive, but they are only payable while custody still holds the
// asset.
func (s *memState) removeStream(token string) (*types.RewardStream, error) {
	stream, ok := s.Streams[token]
	if !ok || !stream.Active {
		return nil, types.ErrInvalidRewardToken
	}
	stream.Active = false
	stream.Rate = sdkmath.ZeroInt()
	return stream, nil
}
