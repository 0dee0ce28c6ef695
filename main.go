package main

import (
	"flag"
	"fmt"
	"net/http"

	sdkmath "cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/shopspring/decimal"

	"reward-engine/assets"
	"reward-engine/config"
	"reward-engine/cornjob"
	"reward-engine/db"
	"reward-engine/engine"
	"reward-engine/logger"
	"reward-engine/router"
	"reward-engine/service"
	"reward-engine/util"
)

var (
	configFlag = flag.String("config", "config.yaml", "Config file")
)

func main() {
	flag.Parse()
	util.LoadConfig(*configFlag, &config.Cfg)
	cfg := &config.Cfg

	ldb, err := db.NewLdb(cfg.DbPath)
	if err != nil {
		logger.Logger.Fatalf("open db %s : %v", cfg.DbPath, err)
	}

	ledger := assets.NewLedger(cfg.Custody)
	for _, seed := range cfg.SeedBalances {
		amount, ok := sdkmath.NewIntFromString(seed.Amount)
		if !ok {
			logger.Logger.Fatalf("bad seed balance amount %s", seed.Amount)
		}
		ledger.Mint(seed.Holder, sdk.NewCoin(seed.Denom, amount))
	}

	engineCfg, err := engineConfig(cfg)
	if err != nil {
		logger.Logger.Fatal(err)
	}

	eng, err := engine.NewEngine(engineCfg, ldb, ledger, engine.NewAdminSet(cfg.Admins), engine.LogSink{}, nil)
	if err != nil {
		logger.Logger.Fatal(err)
	}

	go cornjob.CronJobInit(ldb, eng)

	newService := service.NewService(ldb, eng)
	r := router.Init(newService)
	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	if err := srv.ListenAndServe(); err != nil {
		logger.Logger.Fatalf("listen addr:%s,err:%v", addr, err)
	}
}

// engineConfig converts the yaml lock-tier table into the engine's scaled
// multiplier form.
func engineConfig(cfg *config.Conf) (engine.Config, error) {
	periods := make([]int64, 0, len(cfg.LockTiers))
	multipliers := make([]sdkmath.Int, 0, len(cfg.LockTiers))
	for _, tier := range cfg.LockTiers {
		m, err := decimal.NewFromString(tier.Multiplier)
		if err != nil {
			return engine.Config{}, fmt.Errorf("bad multiplier %q: %v", tier.Multiplier, err)
		}
		scaled := m.Mul(decimal.New(1, 18))
		periods = append(periods, tier.Seconds)
		multipliers = append(multipliers, sdkmath.NewIntFromBigInt(scaled.BigInt()))
	}
	return engine.Config{
		PrincipalDenom: cfg.PrincipalDenom,
		Custody:        cfg.Custody,
		LockPeriods:    periods,
		Multipliers:    multipliers,
	}, nil
}
