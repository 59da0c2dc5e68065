// Package gormstore provides a gorm key-value storage implementation.
//
// GORMStore stores, retrieves and deletes raw data keyed by a string.
// A record may carry an expiration time, and the store supports periodic
// cleanup of expired records. Paired with the sqlite driver it is the
// durable local store that keeps a client session across restarts.
package gormstore

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// GORMStore is a gorm backed storage for key-value data.
type GORMStore struct {
	db *gorm.DB
}

// record represents a single stored value, containing the data
// and its expiration time. A nil ExpiresAt never expires.
type record struct {
	ID        string `gorm:"primaryKey;size:255"`
	Data      []byte
	ExpiresAt *time.Time `gorm:"index"`
}

func (record) TableName() string {
	return "kv_records"
}

// New creates and returns a new GORMStore instance.
// If the kv_records table doesn't exist it is created.
func New(db *gorm.DB) (*GORMStore, error) {
	s := &GORMStore{db: db}
	return s, db.AutoMigrate(&record{})
}

// Open opens (or creates) the sqlite database at path and returns a
// GORMStore backed by it.
func Open(path string) (*GORMStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	return New(db)
}

// Get retrieves the data associated with the given key. Returns
// the data, a boolean indicating whether the key was found and
// not expired, and an error.
func (s *GORMStore) Get(key string) ([]byte, bool, error) {
	rec := &record{}
	tx := s.db.Where("id = ? AND (expires_at IS NULL OR expires_at >= ?)", key, time.Now()).Limit(1).Find(rec)
	if tx.Error != nil || tx.RowsAffected == 0 {
		return nil, false, tx.Error
	}

	return rec.Data, true, nil
}

// Set stores the data under the given key with an expiration time. If
// a record with the same key already exists, it is overwritten. A zero
// expiresAt keeps the record until it is deleted.
func (s *GORMStore) Set(key string, data []byte, expiresAt time.Time) error {
	rec := &record{ID: key, Data: data}
	if !expiresAt.IsZero() {
		rec.ExpiresAt = &expiresAt
	}

	tx := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expires_at"}),
	}).Create(rec)
	return tx.Error
}

// Delete removes the data associated with the given key.
func (s *GORMStore) Delete(key string) error {
	tx := s.db.Delete(&record{}, "id = ?", key)
	return tx.Error
}

// PeriodicCleanUp runs a loop that periodically deletes expired records.
// The cleanup runs every interval duration until a value is received on
// the stop channel, at which point the loop returns.
//
// Example usage:
//
//	stop := make(chan struct{})
//	go store.PeriodicCleanUp(time.Minute, stop)
//	...
//	close(stop) // stop the cleanup
func (s *GORMStore) PeriodicCleanUp(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.deleteExpired()
		case <-stop:
			return
		}
	}
}

// deleteExpired removes all expired records.
func (s *GORMStore) deleteExpired() {
	tx := s.db.Delete(&record{}, "expires_at IS NOT NULL AND expires_at < ?", time.Now())
	if tx.Error != nil {
		log.Print(tx.Error)
	}
}
