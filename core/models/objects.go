package models

// Layer is an overlay image layer on a venue floor.
type Layer struct {
	Base
	Alias       string   `json:"alias,omitempty"`
	Floor       *float64 `json:"floor,omitempty"`
	IsPublished *bool    `json:"isPublished,omitempty"`
	Universes   []string `json:"universes,omitempty"`

	// Extra holds fields without a typed counterpart; they are sent back as received.
	Extra map[string]any `json:"-"`
}

// Place is a mapped location (room, shop, desk...) inside a venue.
type Place struct {
	Base
	PlaceTypeID  string         `json:"placeTypeId,omitempty"`
	Alias        string         `json:"alias,omitempty"`
	Floor        *float64       `json:"floor,omitempty"`
	Geometry     map[string]any `json:"geometry,omitempty"`
	Marker       map[string]any `json:"marker,omitempty"`
	Entrance     map[string]any `json:"entrance,omitempty"`
	Order        *float64       `json:"order,omitempty"`
	IsPublished  *bool          `json:"isPublished,omitempty"`
	IsSearchable *bool          `json:"isSearchable,omitempty"`
	IsVisible    *bool          `json:"isVisible,omitempty"`
	IsClickable  *bool          `json:"isClickable,omitempty"`
	Style        map[string]any `json:"style,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
	Universes    []string       `json:"universes,omitempty"`
	Translations []Translation  `json:"translations,omitempty"`

	// Extra holds fields without a typed counterpart; they are sent back as received.
	Extra map[string]any `json:"-"`
}

// PlaceList is a named, ordered group of places.
type PlaceList struct {
	Base
	Alias        string         `json:"alias,omitempty"`
	PlaceIDs     []string       `json:"placeIds,omitempty"`
	IsPublished  *bool          `json:"isPublished,omitempty"`
	IsSearchable *bool          `json:"isSearchable,omitempty"`
	Data         map[string]any `json:"data,omitempty"`
	Icon         string         `json:"icon,omitempty"`
	Universes    []string       `json:"universes,omitempty"`
	Translations []Translation  `json:"translations,omitempty"`

	// Extra holds fields without a typed counterpart; they are sent back as received.
	Extra map[string]any `json:"-"`
}

// Connector links floors (elevator, stairs, escalator).
type Connector struct {
	Base
	Type         string   `json:"type,omitempty"`
	Direction    string   `json:"direction,omitempty"`
	IsAccessible *bool    `json:"isAccessible,omitempty"`
	WaitTime     *float64 `json:"waitTime,omitempty"`
	TimePerFloor *float64 `json:"timePerFloor,omitempty"`
	IsActive     *bool    `json:"isActive,omitempty"`
	Icon         *string  `json:"icon,omitempty"`

	// Extra holds fields without a typed counterpart; they are sent back as received.
	Extra map[string]any `json:"-"`
}

// Beacon is a positioning beacon installed in a venue.
type Beacon struct {
	Base
	Type        string         `json:"type,omitempty"`
	Location    map[string]any `json:"location,omitempty"`
	Floor       *float64       `json:"floor,omitempty"`
	IsPublished *bool          `json:"isPublished,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`

	// Extra holds fields without a typed counterpart; they are sent back as received.
	Extra map[string]any `json:"-"`
}

// Template is a place template shared by places of the same type.
type Template struct {
	Base
	Description    string         `json:"description,omitempty"`
	URL            string         `json:"url,omitempty"`
	PlaceTypeID    string         `json:"placeTypeId,omitempty"`
	IsPublished    *bool          `json:"isPublished,omitempty"`
	IsSearchable   *bool          `json:"isSearchable,omitempty"`
	IsVisible      *bool          `json:"isVisible,omitempty"`
	IsClickable    *bool          `json:"isClickable,omitempty"`
	Style          map[string]any `json:"style,omitempty"`
	Tags           []string       `json:"tags,omitempty"`
	SearchKeywords []string       `json:"searchKeywords,omitempty"`
	Data           map[string]any `json:"data,omitempty"`
	Universes      []string       `json:"universes,omitempty"`
	Translations   []Translation  `json:"translations,omitempty"`

	// Extra holds fields without a typed counterpart; they are sent back as received.
	Extra map[string]any `json:"-"`
}
