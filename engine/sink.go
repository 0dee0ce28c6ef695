package engine

import (
	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"reward-engine/logger"
	"reward-engine/types"
)

// LogSink writes engine events to the process log.
type LogSink struct{}

func (LogSink) Staked(account string, amount sdkmath.Int, lockDuration int64) {
	logger.Logger.Infof("staked account:%s amount:%s lock:%ds", account, amount, lockDuration)
}

func (LogSink) Withdrawn(account string, amount sdkmath.Int) {
	logger.Logger.Infof("withdrawn account:%s amount:%s", account, amount)
}

func (LogSink) RewardPaid(account string, reward sdk.Coin) {
	logger.Logger.Infof("reward paid account:%s reward:%s", account, reward)
}

func (LogSink) RewardStreamAdded(token string) {
	logger.Logger.Infof("reward stream added token:%s", token)
}

func (LogSink) RewardStreamRemoved(token string) {
	logger.Logger.Infof("reward stream removed token:%s", token)
}

func (LogSink) RewardRateUpdated(token string, rate sdkmath.Int, periodEnd int64) {
	logger.Logger.Infof("reward rate updated token:%s rate:%s periodEnd:%d", token, rate, periodEnd)
}

// AdminSet is a static allow-list AccessControl: listed callers may invoke
// any privileged operation.
type AdminSet map[string]struct{}

func NewAdminSet(admins []string) AdminSet {
	set := AdminSet{}
	for _, a := range admins {
		set[a] = struct{}{}
	}
	return set
}

func (s AdminSet) Allowed(caller string, _ string) bool {
	_, ok := s[caller]
	return ok
}

var _ types.EventSink = LogSink{}
var _ types.AccessControl = AdminSet{}
