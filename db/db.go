package db

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"reward-engine/logger"
	"reward-engine/types"
)

type LDB struct {
	DB   *leveldb.DB
	lock sync.RWMutex
}

// NewLdb opens (or creates) the record store at path.
func NewLdb(path string) (*LDB, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, err
	}
	return &LDB{DB: db}, nil
}

func (l *LDB) Close() error {
	return l.DB.Close()
}

// Transaction collects writes into a batch and commits them atomically.
func (l *LDB) Transaction(fc func(l *LDB, batch *leveldb.Batch) error) error {
	batch := new(leveldb.Batch)
	l.lock.Lock()
	defer l.lock.Unlock()
	err := fc(l, batch)
	if err != nil {
		return err
	}

	return l.DB.Write(batch, nil)
}

// GetRecordByType returns the stored record with the same key as the given
// one, or nil when absent.
func (l *LDB) GetRecordByType(record types.DbRecord) (interface{}, error) {
	key := []byte(record.Key())
	data, err := l.DB.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	recordPtr := reflect.New(reflect.TypeOf(record).Elem()).Interface()
	err = json.Unmarshal(data, recordPtr)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal record: %v", err)
	}

	return recordPtr, nil
}

// GetAllRecordsWithAutoId pages through every record sharing the given
// record's prefix.
func (l *LDB) GetAllRecordsWithAutoId(record types.DbRecordAutoId, limit, offset int, ascending bool) ([]interface{}, int, error) {
	if limit <= 0 {
		return nil, 0, fmt.Errorf("limit must be greater than 0")
	}
	if offset < 0 {
		return nil, 0, fmt.Errorf("offset cannot be negative")
	}

	var records []interface{}
	prefix := []byte(record.Prefix())

	l.lock.RLock()
	defer l.lock.RUnlock()

	iter := l.DB.NewIterator(util.BytesPrefix(prefix), nil)
	total := 0
	for iter.Next() {
		total++
	}
	if err := iter.Error(); err != nil {
		iter.Release()
		logger.Logger.Errorf("iterator error during total count: %v", err)
		return nil, 0, err
	}
	iter.Release()

	iter = l.DB.NewIterator(util.BytesPrefix(prefix), nil)
	defer iter.Release()

	var valid bool
	if ascending {
		valid = iter.First()
	} else {
		valid = iter.Last()
	}

	count := 0
	skipped := 0
	for valid {
		if skipped < offset {
			skipped++
		} else {
			if count >= limit {
				break
			}

			recordType := reflect.TypeOf(record).Elem()
			newRecord := reflect.New(recordType).Interface()
			if err := json.Unmarshal(iter.Value(), newRecord); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal record: %v", err)
			}

			records = append(records, newRecord)
			count++
		}

		if ascending {
			valid = iter.Next()
		} else {
			valid = iter.Prev()
		}
	}

	if err := iter.Error(); err != nil {
		logger.Logger.Errorf("iterator error: %v", err)
		return nil, 0, err
	}
	return records, total, nil
}

func getNextID(db *leveldb.DB, recordType string) (uint64, error) {
	key := autoIncrementKey(recordType)

	data, err := db.Get([]byte(key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return 1, nil
		}
		return 0, err
	}

	return binary.BigEndian.Uint64(data) + 1, nil
}

func autoIncrementKey(recordType string) string {
	return fmt.Sprintf("auto_increment_%s", recordType)
}

func storeRecordWithAutoID(db *leveldb.DB, batch *leveldb.Batch, record types.DbRecordAutoId) error {
	nextID, err := getNextID(db, record.Prefix())
	if err != nil {
		return err
	}

	record.SetId(nextID)

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	batch.Put([]byte(record.Key()), data)

	idData := make([]byte, 8)
	binary.BigEndian.PutUint64(idData, nextID)
	batch.Put([]byte(autoIncrementKey(record.Prefix())), idData)
	return nil
}

// StoreRecord queues the record into the batch, assigning the next
// auto-increment ID when the record type carries one.
func StoreRecord(db *leveldb.DB, batch *leveldb.Batch, record types.DbRecord) error {
	if recordAuto, ok := record.(types.DbRecordAutoId); ok {
		return storeRecordWithAutoID(db, batch, recordAuto)
	}

	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	batch.Put([]byte(record.Key()), data)
	return nil
}
