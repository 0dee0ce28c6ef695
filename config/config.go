package config

var Cfg Conf

// LockTier pairs a lock duration with its reward multiplier. Multiplier is
// a decimal string ("1.0", "1.5"); zero seconds means no lock.
type LockTier struct {
	Seconds    int64  `yaml:"seconds"`
	Multiplier string `yaml:"multiplier"`
}

// SeedBalance pre-funds a holder in the asset ledger at startup, typically
// the custody account's reward budget.
type SeedBalance struct {
	Holder string `yaml:"holder"`
	Denom  string `yaml:"denom"`
	Amount string `yaml:"amount"`
}

type Conf struct {
	Port           int           `yaml:"port"`
	DbPath         string        `yaml:"db_path"`
	PrincipalDenom string        `yaml:"principal_denom"`
	Custody        string        `yaml:"custody"`
	Admins         []string      `yaml:"admins"`
	LockTiers      []LockTier    `yaml:"lock_tiers"`
	SeedBalances   []SeedBalance `yaml:"seed_balances"`
}
