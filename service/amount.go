package service

import (
	sdkmath "cosmossdk.io/math"
)

func sdkmathIntFromString(s string) (sdkmath.Int, bool) {
	value, ok := sdkmath.NewIntFromString(s)
	if !ok || !value.IsPositive() {
		return sdkmath.Int{}, false
	}
	return value, true
}
