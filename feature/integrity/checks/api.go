package checks

import (
	"context"
	"fmt"
	"time"

	"mapwize-api/core/models"
)

// VenueLister is the part of the Mapwize client the API check needs.
type VenueLister interface {
	List(ctx context.Context) ([]models.Venue, error)
}

// APIReport is the result of an API reachability check.
type APIReport struct {
	Reachable bool     `json:"reachable"`
	Venues    int      `json:"venues"`
	Names     []string `json:"names"`
	Latency   string   `json:"latency"`
	Error     string   `json:"error,omitempty"`
}

// CheckAPI lists the organization venues with the configured credentials.
// An unreachable API is reported, not returned as an error.
func CheckAPI(ctx context.Context, venues VenueLister) (*APIReport, error) {
	if venues == nil {
		return nil, fmt.Errorf("api client is not configured")
	}

	start := time.Now()
	list, err := venues.List(ctx)
	report := &APIReport{Latency: time.Since(start).String(), Names: []string{}}
	if err != nil {
		report.Error = err.Error()
		return report, nil
	}

	report.Reachable = true
	report.Venues = len(list)
	for _, v := range list {
		report.Names = append(report.Names, v.Name)
	}
	return report, nil
}
