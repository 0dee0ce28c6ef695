package engine

import (
	"github.com/syndtr/goleveldb/leveldb"

	"reward-engine/db"
	"reward-engine/types"
)

// persist writes every record an operation touched in one batch: streams
// and registry order, global totals, the affected account's positions and
// checkpoints, and any history rows.
func (e *Engine) persist(account string, history []types.DbRecord) error {
	return e.ldb.Transaction(func(l *db.LDB, batch *leveldb.Batch) error {
		for _, token := range e.st.Order {
			if err := db.StoreRecord(l.DB, batch, e.st.Streams[token]); err != nil {
				return err
			}
		}
		if err := db.StoreRecord(l.DB, batch, &types.StreamList{Tokens: e.st.Order}); err != nil {
			return err
		}
		if err := db.StoreRecord(l.DB, batch, &e.st.Global); err != nil {
			return err
		}

		if account != "" {
			acct := e.st.Accounts[account]
			list := &types.PositionList{
				Account:   account,
				Principal: acct.Principal,
				Positions: acct.Positions,
			}
			if err := db.StoreRecord(l.DB, batch, list); err != nil {
				return err
			}
			for _, cp := range acct.Checkpoints {
				if err := db.StoreRecord(l.DB, batch, cp); err != nil {
					return err
				}
			}
			if err := db.StoreRecord(l.DB, batch, &types.AccountList{Accounts: e.st.AccountOrder}); err != nil {
				return err
			}
		}

		for _, h := range history {
			if err := db.StoreRecord(l.DB, batch, h); err != nil {
				return err
			}
		}
		return nil
	})
}

// loadState rebuilds the in-memory state from persisted records. A fresh
// database yields an empty state.
func loadState(ldb *db.LDB) (*memState, error) {
	st := newMemState()

	rec, err := ldb.GetRecordByType(&types.StreamList{})
	if err != nil {
		return nil, err
	}
	if list, ok := rec.(*types.StreamList); ok {
		for _, token := range list.Tokens {
			streamRec, err := ldb.GetRecordByType(&types.RewardStream{Token: token})
			if err != nil {
				return nil, err
			}
			if stream, ok := streamRec.(*types.RewardStream); ok {
				st.Streams[token] = stream
				st.Order = append(st.Order, token)
			}
		}
	}

	rec, err = ldb.GetRecordByType(&types.GlobalState{})
	if err != nil {
		return nil, err
	}
	if global, ok := rec.(*types.GlobalState); ok {
		st.Global = *global
	}

	rec, err = ldb.GetRecordByType(&types.AccountList{})
	if err != nil {
		return nil, err
	}
	accounts, ok := rec.(*types.AccountList)
	if !ok {
		return st, nil
	}
	for _, name := range accounts.Accounts {
		acct := st.account(name)
		listRec, err := ldb.GetRecordByType(&types.PositionList{Account: name})
		if err != nil {
			return nil, err
		}
		if list, ok := listRec.(*types.PositionList); ok {
			acct.Principal = list.Principal
			acct.Positions = list.Positions
		}
		for _, token := range st.Order {
			cpRec, err := ldb.GetRecordByType(&types.AccountCheckpoint{Account: name, Token: token})
			if err != nil {
				return nil, err
			}
			if cp, ok := cpRec.(*types.AccountCheckpoint); ok {
				acct.Checkpoints[token] = cp
			}
		}
	}
	return st, nil
}
