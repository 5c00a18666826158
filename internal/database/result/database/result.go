package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Shiro291/studio-sub000/internal/byteutil"
	"github.com/Shiro291/studio-sub000/internal/cache"
	"github.com/Shiro291/studio-sub000/internal/database"
	"github.com/Shiro291/studio-sub000/internal/database/result/model"
	bolt "go.etcd.io/bbolt"
)

const prefix = "result"

var (
	pLen        = len(prefix)
	ErrNotFound = fmt.Errorf("not found")
)

func New(db *database.DB, cache cache.Cache) *DB {
	return &DB{sDB: db, cache: cache}
}

// DB keeps finished games in one bucket per chat.
type DB struct {
	sDB *database.DB

	cache cache.Cache
}

func (db *DB) BytesBucket(chatID int64) []byte {
	b := make([]byte, pLen+8)
	copy(b, prefix)
	copy(b[pLen:], byteutil.EncodeInt64ToBytes(chatID))
	return b
}

func (db *DB) SerialBucket(chatID int64) string {
	return fmt.Sprintf("%s%d", prefix, chatID)
}

// FetchSummary aggregates every result of a chat.
func (db *DB) FetchSummary(chatID int64) (model.Summary, error) {
	summary := model.Summary{Wins: map[string]int{}}
	results, err := db.FetchByChatID(chatID)
	if err != nil {
		return summary, fmt.Errorf("fetch by chat id: %w", err)
	}

	var sumWinner int
	var last time.Time
	for _, r := range results {
		summary.Games++
		if r.Winner != "" {
			summary.Wins[r.Winner]++
			sumWinner += r.WinnerScore
		}
		for _, p := range r.Players {
			if p.Score > summary.BestScore {
				summary.BestScore = p.Score
				summary.BestPlayer = p.Name
			}
		}
		if r.FinishedAt.After(last) {
			last = r.FinishedAt
			summary.LastBoard = r.BoardName
		}
	}

	if summary.Games > 0 {
		summary.AvgWinnerScore = sumWinner / summary.Games
	}

	return summary, nil
}

// FetchByChatID returns ErrNotFound when the chat never finished a game.
func (db *DB) FetchByChatID(chatID int64) ([]model.Result, error) {
	var list []model.Result
	bBucket := db.BytesBucket(chatID)
	sBucket := db.SerialBucket(chatID)
	if db.cache != nil {
		if v, ok := db.cache.Get(sBucket); ok {
			return v.([]model.Result), nil
		}
	}

	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bBucket)
		if b == nil {
			return ErrNotFound
		}

		if err := b.ForEach(func(k, v []byte) error {
			var r model.Result
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("json unmarshal: %w", err)
			}
			list = append(list, r)
			return nil
		}); err != nil {
			return fmt.Errorf("bucket for each: %w", err)
		}

		return nil
	}); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("view transaction: %w", err)
	}

	if db.cache != nil {
		db.cache.Add(sBucket, list)
	}

	return list, nil
}

func (db *DB) Add(r model.Result) error {
	tx, err := db.sDB.DB.Begin(true)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}

	defer tx.Rollback() //nolint

	b, err := tx.CreateBucketIfNotExists(db.BytesBucket(r.ChatID))
	if err != nil {
		return fmt.Errorf("can not create bucket %d: %w", r.ChatID, err)
	}

	binaryID, err := r.ID.MarshalBinary()
	if err != nil {
		return fmt.Errorf("uuid binary: %w", err)
	}

	bytes, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	if err := b.Put(binaryID, bytes); err != nil {
		return fmt.Errorf("put to bucket: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	if db.cache != nil {
		db.cache.Delete(db.SerialBucket(r.ChatID))
	}

	return nil
}
