package mapwize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"mapwize-api/core/models"

	"go.uber.org/zap"
)

func sourcePath(venueID, kind, sourceID, suffix string) string {
	p := "venues/" + url.PathEscape(venueID) + "/sources"
	if kind != "" {
		p += "/" + kind
	}
	if sourceID != "" {
		p += "/" + url.PathEscape(sourceID)
	}
	if suffix != "" {
		p += "/" + suffix
	}
	return p
}

func (c *Client) record(ctx context.Context, method, path string, query url.Values, in any) (models.Record, error) {
	var out models.Record
	if err := c.call(ctx, method, path, query, in, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) job(ctx context.Context, method, path string) (models.Job, error) {
	var job models.Job
	err := c.call(ctx, method, path, nil, nil, &job)
	return job, err
}

// Sources lists every source of a venue.
func (c *Client) Sources(ctx context.Context, venueID string) ([]models.Record, error) {
	var out []models.Record
	if err := c.call(ctx, http.MethodGet, sourcePath(venueID, "", "", ""), nil, nil, &out); err != nil {
		return nil, fmt.Errorf("failed to list sources of venue %s: %w", venueID, err)
	}
	return out, nil
}

// CreatePlaceSource creates an empty place source.
func (c *Client) CreatePlaceSource(ctx context.Context, venueID, name string) (models.Record, error) {
	return c.record(ctx, http.MethodPost, sourcePath(venueID, "place", "", ""), nil, map[string]string{"name": name})
}

// GetPlaceSource fetches a place source.
func (c *Client) GetPlaceSource(ctx context.Context, venueID, sourceID string) (models.Record, error) {
	return c.record(ctx, http.MethodGet, sourcePath(venueID, "place", sourceID, ""), nil, nil)
}

// RenamePlaceSource changes the name of a place source.
func (c *Client) RenamePlaceSource(ctx context.Context, venueID, sourceID, name string) (models.Record, error) {
	return c.record(ctx, http.MethodPut, sourcePath(venueID, "place", sourceID, ""), nil, map[string]string{"name": name})
}

// DeletePlaceSource deletes a place source and everything generated from it.
func (c *Client) DeletePlaceSource(ctx context.Context, venueID, sourceID string) error {
	return c.call(ctx, http.MethodDelete, sourcePath(venueID, "place", sourceID, ""), url.Values{"cascade": {"true"}}, nil, nil)
}

// GetPlaceSourceData fetches the raw data of a place source.
func (c *Client) GetPlaceSourceData(ctx context.Context, venueID, sourceID string) (models.Record, error) {
	return c.record(ctx, http.MethodGet, sourcePath(venueID, "place", sourceID, "data"), url.Values{"raw": {"true"}}, nil)
}

// UpdatePlaceSourceData replaces the raw data of a place source.
func (c *Client) UpdatePlaceSourceData(ctx context.Context, venueID, sourceID string, data any) (models.Record, error) {
	return c.record(ctx, http.MethodPost, sourcePath(venueID, "place", sourceID, "data"), url.Values{"raw": {"true"}}, data)
}

// RunPlaceSourceSetupJob launches the setup job of a place source.
func (c *Client) RunPlaceSourceSetupJob(ctx context.Context, venueID, sourceID string) (models.Job, error) {
	return c.job(ctx, http.MethodPost, sourcePath(venueID, "place", sourceID, "setup"))
}

// GetPlaceSourceSetupJob fetches the setup job status of a place source.
func (c *Client) GetPlaceSourceSetupJob(ctx context.Context, venueID, sourceID string) (models.Job, error) {
	return c.job(ctx, http.MethodGet, sourcePath(venueID, "place", sourceID, "setup"))
}

// GetPlaceSourceParams fetches the parameters extracted by the setup job.
func (c *Client) GetPlaceSourceParams(ctx context.Context, venueID, sourceID string) (models.Record, error) {
	return c.record(ctx, http.MethodGet, sourcePath(venueID, "place", sourceID, "params"), nil, nil)
}

// GetPlaceSourceConfig fetches the configuration of a place source.
func (c *Client) GetPlaceSourceConfig(ctx context.Context, venueID, sourceID string) (models.Record, error) {
	return c.record(ctx, http.MethodGet, sourcePath(venueID, "place", sourceID, "config"), nil, nil)
}

// UpdatePlaceSourceConfig replaces the configuration of a place source.
func (c *Client) UpdatePlaceSourceConfig(ctx context.Context, venueID, sourceID string, config any) (models.Record, error) {
	return c.record(ctx, http.MethodPut, sourcePath(venueID, "place", sourceID, "config"), nil, config)
}

// RunPlaceSourceJob launches the run job of a place source.
func (c *Client) RunPlaceSourceJob(ctx context.Context, venueID, sourceID string) (models.Job, error) {
	return c.job(ctx, http.MethodPost, sourcePath(venueID, "place", sourceID, "run"))
}

// GetPlaceSourceJob fetches the run job status of a place source.
func (c *Client) GetPlaceSourceJob(ctx context.Context, venueID, sourceID string) (models.Job, error) {
	return c.job(ctx, http.MethodGet, sourcePath(venueID, "place", sourceID, "run"))
}

// GetAutocadSourceConfig fetches the configuration of an autocad source.
func (c *Client) GetAutocadSourceConfig(ctx context.Context, venueID, sourceID string) (models.Record, error) {
	return c.record(ctx, http.MethodGet, sourcePath(venueID, "autocad", sourceID, "config"), nil, nil)
}

// UpdateAutocadSourceConfig replaces the configuration of an autocad source.
func (c *Client) UpdateAutocadSourceConfig(ctx context.Context, venueID, sourceID string, config any) (models.Record, error) {
	return c.record(ctx, http.MethodPut, sourcePath(venueID, "autocad", sourceID, "config"), nil, config)
}

// CreateRasterSource creates a raster source.
func (c *Client) CreateRasterSource(ctx context.Context, venueID string, source models.Record) (models.Record, error) {
	return c.record(ctx, http.MethodPost, sourcePath(venueID, "raster", "", ""), nil, source)
}

// GetRasterSource fetches a raster source.
func (c *Client) GetRasterSource(ctx context.Context, venueID, sourceID string) (models.Record, error) {
	return c.record(ctx, http.MethodGet, sourcePath(venueID, "raster", sourceID, ""), nil, nil)
}

// UpdateRasterSource replaces a raster source.
func (c *Client) UpdateRasterSource(ctx context.Context, venueID, sourceID string, source models.Record) (models.Record, error) {
	return c.record(ctx, http.MethodPut, sourcePath(venueID, "raster", sourceID, ""), nil, source)
}

// DeleteRasterSource deletes a raster source and everything generated from it.
func (c *Client) DeleteRasterSource(ctx context.Context, venueID, sourceID string) error {
	return c.call(ctx, http.MethodDelete, sourcePath(venueID, "raster", sourceID, ""), url.Values{"cascade": {"true"}}, nil, nil)
}

// GetRasterSourcePNG downloads the image of a raster source.
func (c *Client) GetRasterSourcePNG(ctx context.Context, venueID, sourceID string) ([]byte, error) {
	return c.do(ctx, request{method: http.MethodGet, path: sourcePath(venueID, "raster", sourceID, "file")})
}

// SetRasterSourcePNG uploads the image of a raster source.
func (c *Client) SetRasterSourcePNG(ctx context.Context, venueID, sourceID string, image io.Reader) (models.Job, error) {
	var job models.Job
	body, contentType, err := multipartFile("image.png", image, nil)
	if err != nil {
		return job, err
	}
	data, err := c.do(ctx, request{
		method:      http.MethodPost,
		path:        sourcePath(venueID, "raster", sourceID, "file"),
		body:        body,
		contentType: contentType,
	})
	if err != nil {
		return job, fmt.Errorf("failed to upload raster source %s image: %w", sourceID, err)
	}
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &job); err != nil {
			return job, fmt.Errorf("failed to decode raster upload response: %w", err)
		}
	}
	return job, nil
}

// RunRasterSourceSetupJob launches the setup job of a raster source.
func (c *Client) RunRasterSourceSetupJob(ctx context.Context, venueID, sourceID string) (models.Job, error) {
	return c.job(ctx, http.MethodPost, sourcePath(venueID, "raster", sourceID, "setup"))
}

// GetRasterSourceSetupJob fetches the setup job status of a raster source.
func (c *Client) GetRasterSourceSetupJob(ctx context.Context, venueID, sourceID string) (models.Job, error) {
	return c.job(ctx, http.MethodGet, sourcePath(venueID, "raster", sourceID, "setup"))
}

// GetRasterSourcePreviewPNG downloads the preview rendered by the setup job.
func (c *Client) GetRasterSourcePreviewPNG(ctx context.Context, venueID, sourceID string) ([]byte, error) {
	return c.do(ctx, request{method: http.MethodGet, path: sourcePath(venueID, "raster", sourceID, "previewPNG")})
}

// GetRasterSourceParams fetches the parameters extracted by the setup job.
func (c *Client) GetRasterSourceParams(ctx context.Context, venueID, sourceID string) (models.Record, error) {
	return c.record(ctx, http.MethodGet, sourcePath(venueID, "raster", sourceID, "params"), nil, nil)
}

// GetRasterSourceConfig fetches the configuration of a raster source.
func (c *Client) GetRasterSourceConfig(ctx context.Context, venueID, sourceID string) (models.Record, error) {
	return c.record(ctx, http.MethodGet, sourcePath(venueID, "raster", sourceID, "config"), nil, nil)
}

// UpdateRasterSourceConfig replaces the configuration of a raster source.
func (c *Client) UpdateRasterSourceConfig(ctx context.Context, venueID, sourceID string, config any) (models.Record, error) {
	return c.record(ctx, http.MethodPut, sourcePath(venueID, "raster", sourceID, "config"), nil, config)
}

// RunRasterSourceJob launches the run job of a raster source.
func (c *Client) RunRasterSourceJob(ctx context.Context, venueID, sourceID string) (models.Job, error) {
	return c.job(ctx, http.MethodPost, sourcePath(venueID, "raster", sourceID, "run"))
}

// GetRasterSourceJob fetches the run job status of a raster source.
func (c *Client) GetRasterSourceJob(ctx context.Context, venueID, sourceID string) (models.Job, error) {
	return c.job(ctx, http.MethodGet, sourcePath(venueID, "raster", sourceID, "run"))
}

// PollOptions bounds a job poll.
type PollOptions struct {
	// Interval between two checks (default: 1s).
	Interval time.Duration

	// MaxAttempts is the maximum number of checks (default: 60).
	MaxAttempts int
}

// WaitRasterSourceSetupJob polls the setup job of a raster source until it completes
// (true) or fails (false). Each check is awaited before the next one is scheduled.
// It returns ErrPollExhausted when MaxAttempts checks found the job still running.
func (c *Client) WaitRasterSourceSetupJob(ctx context.Context, venueID, sourceID string, opts PollOptions) (bool, error) {
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 60
	}

	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		job, err := c.GetRasterSourceSetupJob(ctx, venueID, sourceID)
		if err != nil {
			return false, fmt.Errorf("failed to get setup job of raster source %s: %w", sourceID, err)
		}
		c.logger.Debug("Raster source setup job",
			zap.String("source_id", sourceID),
			zap.String("state", job.State),
			zap.Int("attempt", attempt))

		if job.Terminal() {
			return job.State == models.JobStateCompleted, nil
		}
		if attempt == opts.MaxAttempts {
			break
		}

		timer := time.NewTimer(opts.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false, ctx.Err()
		case <-timer.C:
		}
	}
	return false, fmt.Errorf("raster source %s setup after %d attempts: %w", sourceID, opts.MaxAttempts, ErrPollExhausted)
}
