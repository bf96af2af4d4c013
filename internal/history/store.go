package history

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/handiism/spotify-dl/internal/model"
)

// Entry is one recorded job outcome.
type Entry struct {
	JobID     string `gorm:"primaryKey;type:varchar(36)"`
	Locator   string `gorm:"index:idx_locator"`
	Title     string
	Artist    string
	Album     string
	Outcome   string `gorm:"index:idx_outcome"`
	MatchURL  string
	Path      string
	Error     string
	CreatedAt time.Time `gorm:"index:idx_created"`
}

// Store persists entries through gorm.
type Store struct {
	db *gorm.DB
}

// Open opens (or creates) the database at path and migrates the schema.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}
	// Workers record concurrently; a single connection serializes writes.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Entry{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Record stores the result of one job.
func (s *Store) Record(ctx context.Context, locator string, r model.Result) error {
	if s == nil || s.db == nil {
		return errors.New("history store is closed")
	}

	entry := Entry{
		JobID:    r.Job.ID,
		Locator:  locator,
		Title:    r.Job.Track.Title,
		Artist:   r.Job.Track.Artist,
		Album:    r.Job.Track.Album,
		Outcome:  r.Outcome.String(),
		MatchURL: r.MatchURL,
		Path:     r.Path,
	}
	if r.Err != nil {
		entry.Error = r.Err.Error()
	}

	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("recording %s: %w", r.Job.ID, err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	var entries []Entry
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	return entries, nil
}

// CountByOutcome returns how many entries have each outcome.
func (s *Store) CountByOutcome(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Outcome string
		Count   int64
	}
	err := s.db.WithContext(ctx).
		Model(&Entry{}).
		Select("outcome, count(*) as count").
		Group("outcome").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting history: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Outcome] = r.Count
	}
	return counts, nil
}
