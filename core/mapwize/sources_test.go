package mapwize

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"mapwize-api/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitRasterSourceSetupJob(t *testing.T) {
	tests := []struct {
		name      string
		states    []string
		attempts  int
		want      bool
		wantErr   error
		wantPolls int32
	}{
		{name: "completed", states: []string{"active", "active", "completed"}, attempts: 5, want: true, wantPolls: 3},
		{name: "failed", states: []string{"waiting", "failed"}, attempts: 5, want: false, wantPolls: 2},
		{name: "exhausted", states: []string{"active"}, attempts: 3, wantErr: ErrPollExhausted, wantPolls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var polls atomic.Int32
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/venues/v1/sources/raster/r1/setup", r.URL.Path)
				n := int(polls.Add(1)) - 1
				if n >= len(tt.states) {
					n = len(tt.states) - 1
				}
				writeJSON(t, w, models.Job{JobID: "j1", State: tt.states[n]})
			})

			ok, err := c.WaitRasterSourceSetupJob(context.Background(), "v1", "r1", PollOptions{
				Interval:    time.Millisecond,
				MaxAttempts: tt.attempts,
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, tt.wantPolls, polls.Load())
		})
	}
}

func TestWaitRasterSourceSetupJob_ContextCanceled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, models.Job{State: "active"})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.WaitRasterSourceSetupJob(ctx, "v1", "r1", PollOptions{Interval: time.Hour, MaxAttempts: 10})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestWaitRasterSourceSetupJob_PropagatesFetchError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	_, err := c.WaitRasterSourceSetupJob(context.Background(), "v1", "r1", PollOptions{Interval: time.Millisecond, MaxAttempts: 3})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
}

func TestSources_Paths(t *testing.T) {
	var got []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		entry := r.Method + " " + r.URL.Path
		if q := r.URL.Query(); q.Get("cascade") != "" || q.Get("raw") != "" {
			entry += " cascade=" + q.Get("cascade") + " raw=" + q.Get("raw")
		}
		got = append(got, entry)
		if strings.HasSuffix(r.URL.Path, "/sources") {
			writeJSON(t, w, []models.Record{})
			return
		}
		writeJSON(t, w, map[string]string{"_id": "s1", "jobId": "j1"})
	})
	ctx := context.Background()

	_, err := c.Sources(ctx, "v1")
	require.NoError(t, err)
	_, err = c.CreatePlaceSource(ctx, "v1", "Imported")
	require.NoError(t, err)
	_, err = c.GetPlaceSourceData(ctx, "v1", "s1")
	require.NoError(t, err)
	job, err := c.RunPlaceSourceSetupJob(ctx, "v1", "s1")
	require.NoError(t, err)
	assert.Equal(t, "j1", job.JobID)
	require.NoError(t, c.DeletePlaceSource(ctx, "v1", "s1"))
	_, err = c.UpdateAutocadSourceConfig(ctx, "v1", "a1", map[string]any{"layers": []string{}})
	require.NoError(t, err)
	_, err = c.RunRasterSourceJob(ctx, "v1", "r1")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"GET /v1/venues/v1/sources",
		"POST /v1/venues/v1/sources/place",
		"GET /v1/venues/v1/sources/place/s1/data cascade= raw=true",
		"POST /v1/venues/v1/sources/place/s1/setup",
		"DELETE /v1/venues/v1/sources/place/s1 cascade=true raw=",
		"PUT /v1/venues/v1/sources/autocad/a1/config",
		"POST /v1/venues/v1/sources/raster/r1/run",
	}, got)
}

func TestSetRasterSourcePNG(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/venues/v1/sources/raster/r1/file", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "image.png", header.Filename)
		writeJSON(t, w, models.Job{JobID: "j9"})
	})

	job, err := c.SetRasterSourcePNG(context.Background(), "v1", "r1", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "j9", job.JobID)
}
