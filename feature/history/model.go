package history

import "time"

const (
	StatusPlanned = "planned"
	StatusApplied = "applied"
	StatusFailed  = "failed"
)

// SyncRun is one reconciliation of a kind in a venue.
type SyncRun struct {
	ID         string     `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	Kind       string     `gorm:"column:kind;type:varchar(32);index:idx_sync_runs_venue_kind" json:"kind"`
	VenueID    string     `gorm:"column:venue_id;type:varchar(64);index:idx_sync_runs_venue_kind" json:"venueId"`
	DryRun     bool       `gorm:"column:dry_run" json:"dryRun"`
	Status     string     `gorm:"column:status;type:varchar(16)" json:"status"`
	Server     int        `gorm:"column:server_count" json:"server"`
	Created    int        `gorm:"column:create_count" json:"create"`
	Updated    int        `gorm:"column:update_count" json:"update"`
	Deleted    int        `gorm:"column:delete_count" json:"delete"`
	Unchanged  int        `gorm:"column:unchanged_count" json:"unchanged"`
	Executed   int        `gorm:"column:executed_count" json:"executed"`
	Error      string     `gorm:"column:error;type:text" json:"error,omitempty"`
	ReportKey  string     `gorm:"column:report_key;type:varchar(255)" json:"reportKey,omitempty"`
	StartedAt  time.Time  `gorm:"column:started_at" json:"startedAt"`
	FinishedAt *time.Time `gorm:"column:finished_at" json:"finishedAt,omitempty"`
}

// TableName pins the table name.
func (SyncRun) TableName() string {
	return "sync_runs"
}

// Filter narrows a listing. Zero values match everything.
type Filter struct {
	VenueID string
	Kind    string
	Limit   int
}

// DefaultLimit caps listings without an explicit limit.
const DefaultLimit = 50
