package history

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Store records and lists sync runs.
type Store interface {
	AutoMigrate() error
	Record(ctx context.Context, run *SyncRun) error
	List(ctx context.Context, filter Filter) ([]SyncRun, error)
}

// NewStore returns a gorm store, or a NopStore when db is nil.
func NewStore(db *gorm.DB) Store {
	if db == nil {
		return NopStore{}
	}
	return &GormStore{db: db}
}

// GormStore keeps runs in the sync_runs table.
type GormStore struct {
	db *gorm.DB
}

func (s *GormStore) AutoMigrate() error {
	if err := s.db.AutoMigrate(&SyncRun{}); err != nil {
		return fmt.Errorf("failed to migrate sync_runs: %w", err)
	}
	return nil
}

// Record inserts the run, or updates it when the ID already exists.
func (s *GormStore) Record(ctx context.Context, run *SyncRun) error {
	if err := s.db.WithContext(ctx).Save(run).Error; err != nil {
		return fmt.Errorf("failed to record sync run %s: %w", run.ID, err)
	}
	return nil
}

// List returns the most recent runs first.
func (s *GormStore) List(ctx context.Context, filter Filter) ([]SyncRun, error) {
	q := s.db.WithContext(ctx).Model(&SyncRun{})
	if filter.VenueID != "" {
		q = q.Where("venue_id = ?", filter.VenueID)
	}
	if filter.Kind != "" {
		q = q.Where("kind = ?", filter.Kind)
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}

	var runs []SyncRun
	if err := q.Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("failed to list sync runs: %w", err)
	}
	return runs, nil
}

// NopStore discards runs.
type NopStore struct{}

func (NopStore) AutoMigrate() error                                    { return nil }
func (NopStore) Record(ctx context.Context, run *SyncRun) error        { return nil }
func (NopStore) List(ctx context.Context, _ Filter) ([]SyncRun, error) { return []SyncRun{}, nil }
