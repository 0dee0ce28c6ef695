package cornjob

import (
	"context"
	"time"

	"github.com/syndtr/goleveldb/leveldb"

	"reward-engine/db"
	"reward-engine/engine"
	"reward-engine/logger"
	"reward-engine/types"
	"reward-engine/util/cron"
)

// PrincipalSnapshotJob records the engine's total principal once a day so
// the history endpoint can chart deposits over time.
type PrincipalSnapshotJob struct {
	ldb *db.LDB
	eng *engine.Engine
}

func CronJobInit(ldb *db.LDB, eng *engine.Engine) {
	c := cron.NewCron()
	c.Register("principal snapshot", "0 0 0 * * *", NewPrincipalSnapshotJob(ldb, eng).saveSnapshot)
	c.Run()
}

func NewPrincipalSnapshotJob(ldb *db.LDB, eng *engine.Engine) *PrincipalSnapshotJob {
	return &PrincipalSnapshotJob{ldb: ldb, eng: eng}
}

func (t *PrincipalSnapshotJob) saveSnapshot(ctx context.Context) error {
	history := &types.PrincipalHistory{
		Amount: t.eng.TotalPrincipal().String(),
		Time:   time.Now(),
	}
	err := t.ldb.Transaction(
		func(l *db.LDB, batch *leveldb.Batch) error {
			return db.StoreRecord(l.DB, batch, history)
		})
	if err != nil {
		logger.Logger.Errorf("principal snapshot job transaction : %v", err)
	}
	return err
}
