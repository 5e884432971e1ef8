package models

// Venue is a mapped physical site.
type Venue struct {
	ID          string         `json:"_id,omitempty"`
	Name        string         `json:"name"`
	Alias       string         `json:"alias,omitempty"`
	Owner       string         `json:"owner,omitempty"`
	IsPublished *bool          `json:"isPublished,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
}

// GetID returns the venue identifier.
func (v Venue) GetID() string { return v.ID }

// Corner is a geographic corner used to georeference an uploaded layer image.
type Corner struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ImageCorners holds the four corners of a layer image, in upload order.
type ImageCorners struct {
	TopLeft     Corner
	TopRight    Corner
	BottomLeft  Corner
	BottomRight Corner
}

// Job is the status of a source setup or run job.
type Job struct {
	JobID string `json:"jobId,omitempty"`
	State string `json:"state,omitempty"`
}

// Job states reported by the API.
const (
	JobStateCompleted = "completed"
	JobStateFailed    = "failed"
)

// Terminal reports whether the job reached a definitive state.
func (j Job) Terminal() bool {
	return j.State == JobStateCompleted || j.State == JobStateFailed
}
