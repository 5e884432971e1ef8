package integrity

import (
	"context"

	"mapwize-api/core/storage"
	"mapwize-api/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	client  storage.Client
	bucket  string
	region  string
	folders []string
	logger  *zap.Logger
	db      *gorm.DB
	venues  checks.VenueLister
}

// NewService creates a new integrity service. client, db and venues may be nil
// when the matching component is disabled; their checks then report an error.
func NewService(client storage.Client, cfg storage.Config, logger *zap.Logger, db *gorm.DB, venues checks.VenueLister) *Service {
	return &Service{
		client:  client,
		bucket:  cfg.Bucket,
		region:  cfg.Region,
		folders: checks.RequiredFolders(cfg),
		logger:  logger,
		db:      db,
		venues:  venues,
	}
}

// CheckStructure returns a list of missing folders.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	return checks.CheckStructure(ctx, s.client, s.bucket, s.folders)
}

// FixStructure creates the bucket when needed and the missing folders.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.client, s.bucket, s.region, s.logger, missing)
}

// CheckServer compares the history tables with their models.
func (s *Service) CheckServer() (*checks.ServerReport, error) {
	return checks.CheckServerIntegrity(s.db)
}

// FixServer migrates the history tables.
func (s *Service) FixServer() error {
	return checks.FixServer(s.db)
}

// CheckAPI verifies the Mapwize credentials with a venue listing.
func (s *Service) CheckAPI(ctx context.Context) (*checks.APIReport, error) {
	return checks.CheckAPI(ctx, s.venues)
}

// StructureReport is the outcome of the structure check inside a Report.
type StructureReport struct {
	Missing []string `json:"missing"`
	Error   string   `json:"error,omitempty"`
}

// Report gathers every check. A check that could not run carries its error instead of a result.
type Report struct {
	Structure   StructureReport      `json:"structure"`
	Server      *checks.ServerReport `json:"server,omitempty"`
	ServerError string               `json:"serverError,omitempty"`
	API         *checks.APIReport    `json:"api,omitempty"`
	APIError    string               `json:"apiError,omitempty"`
}

// Healthy reports whether every check ran and found nothing to fix.
func (r *Report) Healthy() bool {
	return r.Structure.Error == "" && len(r.Structure.Missing) == 0 &&
		r.Server != nil && r.Server.Matched &&
		r.API != nil && r.API.Reachable
}

// RunAll runs every check without fixing anything.
func (s *Service) RunAll(ctx context.Context) *Report {
	report := &Report{Structure: StructureReport{Missing: []string{}}}

	if missing, err := s.CheckStructure(ctx); err != nil {
		report.Structure.Error = err.Error()
	} else {
		report.Structure.Missing = missing
	}

	if srv, err := s.CheckServer(); err != nil {
		report.ServerError = err.Error()
	} else {
		report.Server = srv
	}

	if api, err := s.CheckAPI(ctx); err != nil {
		report.APIError = err.Error()
	} else {
		report.API = api
	}

	return report
}
