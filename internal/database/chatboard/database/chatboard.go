package database

import (
	"encoding/json"
	"fmt"

	"github.com/Shiro291/studio-sub000/internal/byteutil"
	"github.com/Shiro291/studio-sub000/internal/cache"
	"github.com/Shiro291/studio-sub000/internal/database"
	"github.com/Shiro291/studio-sub000/internal/database/chatboard/model"
	bolt "go.etcd.io/bbolt"
)

var ErrNotFound = fmt.Errorf("not found")

const bucket = "chat_boards"

func New(db *database.DB, cache cache.Cache) *DB {
	return &DB{sDB: db, cache: cache}
}

type DB struct {
	sDB *database.DB

	cache cache.Cache
}

type fetchFn func(key int64) ([]byte, error)

func (db *DB) cachedValue(key int64, fn fetchFn) (model.ChatBoard, error) {
	if db.cache != nil {
		if v, ok := db.cache.Get(key); ok {
			return v.(model.ChatBoard), nil
		}
	}

	var cb model.ChatBoard
	bytes, err := fn(key)
	if err != nil {
		return cb, fmt.Errorf("fetch: %w", err)
	}

	if len(bytes) == 0 {
		return cb, ErrNotFound
	}

	if err := json.Unmarshal(bytes, &cb); err != nil {
		return cb, fmt.Errorf("unmarshal: %w", err)
	}

	if db.cache != nil {
		db.cache.Add(key, cb)
	}

	return cb, nil
}

func (db *DB) Fetch(chatID int64) (model.ChatBoard, error) {
	cb, err := db.cachedValue(chatID, func(key int64) ([]byte, error) {
		var bytes []byte
		if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
			b := tx.Bucket([]byte(bucket))
			if b == nil {
				return nil
			}
			if v := b.Get(byteutil.EncodeInt64ToBytes(key)); v != nil {
				bytes = make([]byte, len(v))
				copy(bytes, v)
			}
			return nil
		}); err != nil {
			return nil, fmt.Errorf("view transaction: %w", err)
		}

		return bytes, nil
	})
	if err != nil {
		return cb, fmt.Errorf("cached value: %w", err)
	}

	return cb, nil
}

// FetchAll returns every stored chat board in chat id order.
func (db *DB) FetchAll() ([]model.ChatBoard, error) {
	var list []model.ChatBoard
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			var cb model.ChatBoard
			if err := json.Unmarshal(v, &cb); err != nil {
				return fmt.Errorf("unmarshal chat board %x: %w", k, err)
			}
			list = append(list, cb)
			return nil
		})
	}); err != nil {
		return nil, fmt.Errorf("view transaction: %w", err)
	}

	return list, nil
}

func (db *DB) Store(cb model.ChatBoard) error {
	bytes, err := json.Marshal(cb)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	pk := byteutil.EncodeInt64ToBytes(cb.ChatID)
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}

		if err := b.Put(pk, bytes); err != nil {
			return fmt.Errorf("put to bucket: %w", err)
		}

		return nil
	}); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	if db.cache != nil {
		db.cache.Add(cb.ChatID, cb)
	}

	return nil
}

func (db *DB) Delete(chatID int64) error {
	if db.cache != nil {
		db.cache.Delete(chatID)
	}

	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.Delete(byteutil.EncodeInt64ToBytes(chatID))
	}); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	return nil
}
