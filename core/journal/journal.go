package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"scribey-companion/core/extract"
	"scribey-companion/core/queue"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds configuration for the queue journal.
type Config struct {
	// Enabled toggles journaling. When false the queue is memory-only.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Path is the sqlite database file.
	Path string `mapstructure:"path" default:"scribey-queue.db"`
}

// Record is the persisted form of a queue item. The snapshot rides along as
// JSON; the queue owns its shape.
type Record struct {
	ID         string `gorm:"primaryKey"`
	SourcePath string
	EnqueuedAt time.Time
	Failures   int
	Payload    []byte
}

// TableName pins the table name independent of gorm's pluralization.
func (Record) TableName() string {
	return "queued_snapshots"
}

// Store implements queue.Journal on top of gorm.
type Store struct {
	db *gorm.DB
}

// Open opens (creating if necessary) the sqlite journal at cfg.Path.
func Open(cfg Config) (*Store, error) {
	// gorm's own logging is suppressed; journal problems surface through
	// the application logger at the call sites.
	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	if err := db.AutoMigrate(&Record{}); err != nil {
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing gorm connection without migrating. Used by
// tests.
func NewWithDB(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Append persists a queued item.
func (s *Store) Append(item *queue.Item) error {
	payload, err := json.Marshal(item.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	record := Record{
		ID:         item.ID,
		SourcePath: item.SourcePath,
		EnqueuedAt: item.EnqueuedAt,
		Failures:   item.Failures,
		Payload:    payload,
	}
	return s.db.Create(&record).Error
}

// Remove deletes a delivered or dropped item.
func (s *Store) Remove(id string) error {
	return s.db.Delete(&Record{}, "id = ?", id).Error
}

// LoadPending returns all journaled items, oldest first, for queue restore.
func (s *Store) LoadPending() ([]*queue.Item, error) {
	var records []Record
	if err := s.db.Order("enqueued_at").Find(&records).Error; err != nil {
		return nil, err
	}

	items := make([]*queue.Item, 0, len(records))
	for _, record := range records {
		var snapshot extract.AddonSnapshot
		if err := json.Unmarshal(record.Payload, &snapshot); err != nil {
			// A corrupt payload is unrecoverable; drop it from the journal
			// rather than wedging startup.
			_ = s.Remove(record.ID)
			continue
		}
		items = append(items, &queue.Item{
			ID:         record.ID,
			Snapshot:   &snapshot,
			SourcePath: record.SourcePath,
			EnqueuedAt: record.EnqueuedAt,
			Failures:   record.Failures,
		})
	}
	return items, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
