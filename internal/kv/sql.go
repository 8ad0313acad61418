package kv

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// record is one key-value row.
type record struct {
	Key       string `gorm:"column:record_key;primaryKey;size:255"`
	Value     string
	UpdatedAt time.Time
}

// TableName names the gorm table.
func (record) TableName() string { return "kv_records" }

// SQLStore keeps records in a SQLite table through gorm.
type SQLStore struct {
	db *gorm.DB
}

// OpenSQLite opens (or creates) a SQLite database at path. An empty path uses a shared
// in-memory database.
func OpenSQLite(path string) (*SQLStore, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("kv: open sqlite %q: %w", path, err)
	}
	if err := db.AutoMigrate(&record{}); err != nil {
		return nil, fmt.Errorf("kv: migrate: %w", err)
	}
	return &SQLStore{db: db}, nil
}

// Get implements Store.
func (s *SQLStore) Get(key string) (string, bool, error) {
	var r record
	err := s.db.Where("record_key = ?", key).Take(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv: get %q: %w", key, err)
	}
	return r.Value, true, nil
}

// Set implements Store.
func (s *SQLStore) Set(key, value string) error {
	err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&record{Key: key, Value: value}).Error
	if err != nil {
		return fmt.Errorf("kv: set %q: %w", key, err)
	}
	return nil
}

// Remove implements Store.
func (s *SQLStore) Remove(key string) error {
	if err := s.db.Where("record_key = ?", key).Delete(&record{}).Error; err != nil {
		return fmt.Errorf("kv: remove %q: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
