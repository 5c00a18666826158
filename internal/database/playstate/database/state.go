package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Shiro291/studio-sub000/internal/cache"
	"github.com/Shiro291/studio-sub000/internal/database"
	"github.com/Shiro291/studio-sub000/internal/database/playstate/model"
	bolt "go.etcd.io/bbolt"
)

const bucket = "play_states"

var ErrNotFound = fmt.Errorf("not found")

func New(db *database.DB, cache cache.Cache) *DB {
	return &DB{sDB: db, cache: cache}
}

// DB stores play states by storage key. It satisfies game.Store.
type DB struct {
	sDB *database.DB

	cache cache.Cache
}

// Fetch returns ErrNotFound for a missing key.
func (db *DB) Fetch(key string) (model.State, error) {
	if db.cache != nil {
		if v, ok := db.cache.Get(key); ok {
			return v.(model.State), nil
		}
	}

	var bytes []byte
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return ErrNotFound
		}
		if v := b.Get([]byte(key)); v != nil {
			bytes = make([]byte, len(v))
			copy(bytes, v)
		}
		return nil
	}); err != nil {
		return model.State{}, fmt.Errorf("view transaction: %w", err)
	}

	if len(bytes) == 0 {
		return model.State{}, ErrNotFound
	}

	var s model.State
	if err := json.Unmarshal(bytes, &s); err != nil {
		return model.State{}, fmt.Errorf("unmarshal %s: %w", key, err)
	}

	if db.cache != nil {
		db.cache.Add(key, s)
	}

	return s, nil
}

func (db *DB) Get(key string) (model.State, bool, error) {
	s, err := db.Fetch(key)
	switch {
	case err == nil:
		return s, true, nil
	case errors.Is(err, ErrNotFound):
		return model.State{}, false, nil
	default:
		return model.State{}, false, err
	}
}

func (db *DB) Put(key string, s model.State) error {
	bytes, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(bucket))
		if err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
		if err := b.Put([]byte(key), bytes); err != nil {
			return fmt.Errorf("put to bucket: %w", err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	if db.cache != nil {
		db.cache.Add(key, s)
	}

	return nil
}

func (db *DB) Delete(key string) error {
	if db.cache != nil {
		db.cache.Delete(key)
	}

	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(key))
	}); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	return nil
}

// Sweep removes the states saved before the given time and returns how many
// were removed.
func (db *DB) Sweep(before time.Time) (int, error) {
	var stale []string
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucket))
		if b == nil {
			return nil
		}

		if err := b.ForEach(func(k, v []byte) error {
			var s model.State
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("unmarshal %s: %w", k, err)
			}
			if s.SavedAt.Before(before) {
				stale = append(stale, string(k))
			}
			return nil
		}); err != nil {
			return err
		}

		for _, k := range stale {
			if err := b.Delete([]byte(k)); err != nil {
				return fmt.Errorf("delete %s: %w", k, err)
			}
		}
		return nil
	}); err != nil {
		return 0, fmt.Errorf("update transaction: %w", err)
	}

	if db.cache != nil {
		for _, k := range stale {
			db.cache.Delete(k)
		}
	}

	return len(stale), nil
}
