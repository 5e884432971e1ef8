package checks

import (
	"context"
	"errors"
	"testing"

	"mapwize-api/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVenues struct {
	venues []models.Venue
	err    error
}

func (s stubVenues) List(ctx context.Context) ([]models.Venue, error) {
	return s.venues, s.err
}

func TestCheckAPI(t *testing.T) {
	report, err := CheckAPI(context.Background(), stubVenues{venues: []models.Venue{{Name: "HQ"}, {Name: "Lab"}}})
	require.NoError(t, err)
	assert.True(t, report.Reachable)
	assert.Equal(t, 2, report.Venues)
	assert.Equal(t, []string{"HQ", "Lab"}, report.Names)
	assert.NotEmpty(t, report.Latency)
}

func TestCheckAPI_Unreachable(t *testing.T) {
	report, err := CheckAPI(context.Background(), stubVenues{err: errors.New("HTTP 401")})
	require.NoError(t, err)
	assert.False(t, report.Reachable)
	assert.Equal(t, "HTTP 401", report.Error)
}

func TestCheckAPI_NotConfigured(t *testing.T) {
	_, err := CheckAPI(context.Background(), nil)
	assert.Error(t, err)
}
