package db

import (
	"path/filepath"
	"strconv"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"
	"github.com/syndtr/goleveldb/leveldb"

	"reward-engine/types"
)

func openTestDb(t *testing.T) *LDB {
	t.Helper()
	ldb, err := NewLdb(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	t.Cleanup(func() { ldb.Close() })
	return ldb
}

func TestStoreAndGetRecord(t *testing.T) {
	ldb := openTestDb(t)

	stored := &types.GlobalState{
		TotalPrincipal: sdkmath.NewInt(1000),
		TotalWeighted:  sdkmath.NewInt(1500),
	}
	err := ldb.Transaction(func(l *LDB, batch *leveldb.Batch) error {
		return StoreRecord(l.DB, batch, stored)
	})
	require.NoError(t, err)

	got, err := ldb.GetRecordByType(&types.GlobalState{})
	require.NoError(t, err)
	require.NotNil(t, got)
	state := got.(*types.GlobalState)
	require.Equal(t, "1000", state.TotalPrincipal.String())
	require.Equal(t, "1500", state.TotalWeighted.String())
}

func TestGetRecordByTypeAbsent(t *testing.T) {
	ldb := openTestDb(t)

	got, err := ldb.GetRecordByType(&types.GlobalState{})
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestAutoIncrementIds(t *testing.T) {
	ldb := openTestDb(t)

	for i := 0; i < 3; i++ {
		record := &types.StakeRecord{
			Account: "alice",
			Amount:  strconv.Itoa((i + 1) * 100),
			Denom:   "stake",
			Action:  types.ActionStake,
			Time:    int64(1000 + i),
		}
		err := ldb.Transaction(func(l *LDB, batch *leveldb.Batch) error {
			return StoreRecord(l.DB, batch, record)
		})
		require.NoError(t, err)
		require.Equal(t, uint64(i+1), record.ID)
	}
}

func TestGetAllRecordsPagination(t *testing.T) {
	ldb := openTestDb(t)

	for i := 0; i < 5; i++ {
		record := &types.StakeRecord{
			Account: "alice",
			Amount:  strconv.Itoa((i + 1) * 100),
			Denom:   "stake",
			Action:  types.ActionStake,
			Time:    int64(1000 + i),
		}
		err := ldb.Transaction(func(l *LDB, batch *leveldb.Batch) error {
			return StoreRecord(l.DB, batch, record)
		})
		require.NoError(t, err)
	}
	// Records under another account must not leak into the prefix scan.
	other := &types.StakeRecord{Account: "bob", Amount: "1", Denom: "stake", Action: types.ActionStake, Time: 999}
	err := ldb.Transaction(func(l *LDB, batch *leveldb.Batch) error {
		return StoreRecord(l.DB, batch, other)
	})
	require.NoError(t, err)

	query := &types.StakeRecord{Account: "alice"}

	records, total, err := ldb.GetAllRecordsWithAutoId(query, 2, 0, true)
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Len(t, records, 2)
	require.Equal(t, "100", records[0].(*types.StakeRecord).Amount)
	require.Equal(t, "200", records[1].(*types.StakeRecord).Amount)

	records, total, err = ldb.GetAllRecordsWithAutoId(query, 2, 2, true)
	require.NoError(t, err)
	require.Equal(t, 5, total)
	require.Len(t, records, 2)
	require.Equal(t, "300", records[0].(*types.StakeRecord).Amount)

	records, _, err = ldb.GetAllRecordsWithAutoId(query, 10, 4, true)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "500", records[0].(*types.StakeRecord).Amount)

	records, _, err = ldb.GetAllRecordsWithAutoId(query, 5, 0, false)
	require.NoError(t, err)
	require.Len(t, records, 5)
	require.Equal(t, "500", records[0].(*types.StakeRecord).Amount)
	require.Equal(t, "100", records[4].(*types.StakeRecord).Amount)
}

func TestGetAllRecordsBadArgs(t *testing.T) {
	ldb := openTestDb(t)
	query := &types.StakeRecord{Account: "alice"}

	_, _, err := ldb.GetAllRecordsWithAutoId(query, 0, 0, true)
	require.Error(t, err)
	_, _, err = ldb.GetAllRecordsWithAutoId(query, 10, -1, true)
	require.Error(t, err)
}

func TestTransactionRollsBackOnError(t *testing.T) {
	ldb := openTestDb(t)

	err := ldb.Transaction(func(l *LDB, batch *leveldb.Batch) error {
		if err := StoreRecord(l.DB, batch, &types.GlobalState{
			TotalPrincipal: sdkmath.NewInt(1),
			TotalWeighted:  sdkmath.NewInt(1),
		}); err != nil {
			return err
		}
		return leveldb.ErrNotFound
	})
	require.Error(t, err)

	got, err := ldb.GetRecordByType(&types.GlobalState{})
	require.NoError(t, err)
	require.Nil(t, got)
}
