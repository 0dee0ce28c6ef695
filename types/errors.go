package types

import "errors"

var (
	ErrInvalidAccount           = errors.New("account must not be empty")
	ErrInvalidAmount            = errors.New("amount must be positive")
	ErrInvalidLockIndex         = errors.New("lock index out of range")
	ErrInvalidRewardToken       = errors.New("reward token not registered")
	ErrDuplicateRewardToken     = errors.New("reward token already registered")
	ErrStakeStillLocked         = errors.New("position is still locked")
	ErrInvalidPositionIndex     = errors.New("position index out of range")
	ErrInsufficientPrincipal    = errors.New("insufficient principal")
	ErrRewardRateExceedsBalance = errors.New("reward rate exceeds custody balance")
	ErrTransferFailed           = errors.New("asset transfer failed")
	ErrReentrantCall            = errors.New("reentrant call")
	ErrUnauthorized             = errors.New("caller not authorized")
)
