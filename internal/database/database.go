// Package database opens the bbolt file shared by the stores under it.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/Shiro291/studio-sub000/internal/logging"
	bolt "go.etcd.io/bbolt"
)

type Config struct {
	FilePath    string        `envconfig:"TILEQUEST_DB_FILE" default:"tilequest.db"`
	OpenTimeout time.Duration `envconfig:"TILEQUEST_DB_OPEN_TIMEOUT" default:"5s"`
}

type DB struct {
	DB *bolt.DB
}

func NewFromEnv(ctx context.Context, config *Config) (*DB, error) {
	logger := logging.FromContext(ctx)
	logger.Infof("opening db %s", config.FilePath)

	db, err := bolt.Open(config.FilePath, 0600, &bolt.Options{Timeout: config.OpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("open db %s: %w", config.FilePath, err)
	}

	return &DB{DB: db}, nil
}

func (db *DB) Close(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	logger.Infof("closing db")

	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}

	return nil
}
