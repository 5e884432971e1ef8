package models

import (
	"fmt"
	"strings"

	"mapwize-api/core/utils"
)

// Kind identifies a reconcilable resource kind.
type Kind string

const (
	KindLayer     Kind = "layer"
	KindPlace     Kind = "place"
	KindPlaceList Kind = "placeList"
	KindConnector Kind = "connector"
	KindBeacon    Kind = "beacon"
	KindTemplate  Kind = "template"
)

// Kinds lists every reconcilable kind in a stable order.
var Kinds = []Kind{KindLayer, KindPlace, KindPlaceList, KindConnector, KindBeacon, KindTemplate}

// ParseKind resolves a kind from user input. It accepts singular and plural forms
// in any case ("places", "PlaceList", "placelists").
func ParseKind(s string) (Kind, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.TrimSuffix(normalized, "s")
	for _, k := range Kinds {
		if strings.ToLower(string(k)) == normalized {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown resource kind %q", s)
}

// Base carries the fields shared by every venue-scoped object.
type Base struct {
	// ID is the server-assigned identifier, empty until persisted.
	ID string `json:"_id,omitempty"`
	// Name is the natural key within a venue.
	Name string `json:"name"`
	// Owner is the organization that owns the object.
	Owner string `json:"owner,omitempty"`
	// VenueID is the venue the object belongs to.
	VenueID string `json:"venueId,omitempty"`
}

// Meta exposes the shared fields for in-place updates.
func (b *Base) Meta() *Base { return b }

// GetID returns the server identifier.
func (b Base) GetID() string { return b.ID }

// GetName returns the object name.
func (b Base) GetName() string { return b.Name }

// Translation is a per-language override block.
type Translation struct {
	ID         string `json:"_id,omitempty"`
	Language   string `json:"language"`
	Title      string `json:"title,omitempty"`
	Subtitle   string `json:"subtitle,omitempty"`
	Details    string `json:"details,omitempty"`
	HasDetails *bool  `json:"hasDetails,omitempty"`

	Extra map[string]any `json:"-"`
}

// Record is a loosely typed JSON object for resources without a dedicated type.
type Record map[string]any

// GetID returns the "_id" field when present.
func (r Record) GetID() string {
	id, _ := r["_id"].(string)
	return id
}

// String returns the value stored under key formatted as a string, or "" when absent.
func (r Record) String(key string) string {
	return utils.ToString(r[key])
}

// Bool returns a pointer to b. Handy for optional fields in literals.
func Bool(b bool) *bool { return &b }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }

// String returns a pointer to s.
func String(s string) *string { return &s }
