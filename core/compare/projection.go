package compare

import (
	"encoding/json"
	"reflect"
	"sort"

	"mapwize-api/core/models"
	"mapwize-api/core/utils"
)

// Projection is the canonical, identifier-free form of an object.
type Projection map[string]any

// fields accumulates picked values, skipping absent ones.
type fields map[string]any

func (f fields) pick(key string, v any) {
	if present(v) {
		f[key] = v
	}
}

func (f fields) defaults(key string, v any) {
	if _, ok := f[key]; !ok {
		f[key] = v
	}
}

// present reports whether v counts as a set field. Nil pointers, maps and slices and
// empty strings are absent.
func present(v any) bool {
	if v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// universeSet turns the universes field into a membership set.
func (f fields) universeSet() {
	list, _ := f["universes"].([]string)
	set := make(map[string]bool, len(list))
	for _, u := range list {
		set[u] = true
	}
	f["universes"] = set
}

// translationsByLanguage keys translations by language with volatile fields removed.
// Duplicated languages resolve to the last entry.
func (f fields) translationsByLanguage(list []models.Translation, dropHasDetails bool) {
	byLang := make(map[string]models.Translation, len(list))
	for _, t := range list {
		t.ID = ""
		t.Extra = nil
		if dropHasDetails {
			t.HasDetails = nil
		}
		byLang[t.Language] = t
	}
	f["translations"] = byLang
}

// canonical re-encodes the projection so deep equality does not depend on Go types.
func (f fields) canonical() Projection {
	data, err := json.Marshal(map[string]any(f))
	if err != nil {
		// Only unencodable values (NaN, channels) land here; the raw map still compares
		// correctly against itself.
		return Projection(f)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return Projection(f)
	}
	return Projection(out)
}

// ProjectLayer returns the comparable projection of a layer.
func ProjectLayer(l models.Layer) Projection {
	f := fields{}
	f.pick("owner", l.Owner)
	f.pick("venueId", l.VenueID)
	f.pick("name", l.Name)
	f.pick("alias", l.Alias)
	f.pick("floor", l.Floor)
	f.pick("isPublished", l.IsPublished)
	f.pick("universes", l.Universes)

	f.defaults("alias", utils.Slugify(l.Name))
	f.defaults("isPublished", false)
	f.defaults("universes", []string{})
	f.universeSet()
	return f.canonical()
}

// ProjectPlace returns the comparable projection of a place.
func ProjectPlace(p models.Place) Projection {
	f := fields{}
	f.pick("owner", p.Owner)
	f.pick("venueId", p.VenueID)
	f.pick("placeTypeId", p.PlaceTypeID)
	f.pick("name", p.Name)
	f.pick("alias", p.Alias)
	f.pick("floor", p.Floor)
	f.pick("geometry", p.Geometry)
	f.pick("marker", p.Marker)
	f.pick("entrance", p.Entrance)
	f.pick("order", p.Order)
	f.pick("isPublished", p.IsPublished)
	f.pick("isSearchable", p.IsSearchable)
	f.pick("isVisible", p.IsVisible)
	f.pick("isClickable", p.IsClickable)
	f.pick("style", p.Style)
	f.pick("data", p.Data)
	f.pick("universes", p.Universes)

	f.defaults("alias", utils.Slugify(p.Name))
	f.defaults("order", 0)
	f.defaults("isPublished", false)
	f.defaults("isSearchable", true)
	f.defaults("isVisible", true)
	f.defaults("isClickable", true)
	f.defaults("style", map[string]any{})
	f.defaults("data", map[string]any{})
	f.defaults("universes", []string{})
	f.universeSet()
	f.translationsByLanguage(p.Translations, true)
	return f.canonical()
}

// ProjectPlaceList returns the comparable projection of a place list.
func ProjectPlaceList(pl models.PlaceList) Projection {
	f := fields{}
	f.pick("owner", pl.Owner)
	f.pick("venueId", pl.VenueID)
	f.pick("name", pl.Name)
	f.pick("alias", pl.Alias)
	f.pick("placeIds", pl.PlaceIDs)
	f.pick("isPublished", pl.IsPublished)
	f.pick("isSearchable", pl.IsSearchable)
	f.pick("data", pl.Data)
	f.pick("icon", pl.Icon)
	f.pick("universes", pl.Universes)

	f.defaults("alias", utils.Slugify(pl.Name))
	f.defaults("isPublished", false)
	f.defaults("isSearchable", true)
	f.defaults("data", map[string]any{})
	f.defaults("universes", []string{})
	f.universeSet()
	f.translationsByLanguage(pl.Translations, false)
	return f.canonical()
}

// ProjectConnector returns the comparable projection of a connector.
func ProjectConnector(c models.Connector) Projection {
	f := fields{}
	f.pick("owner", c.Owner)
	f.pick("venueId", c.VenueID)
	f.pick("name", c.Name)
	f.pick("type", c.Type)
	f.pick("direction", c.Direction)
	f.pick("isAccessible", c.IsAccessible)
	f.pick("waitTime", c.WaitTime)
	f.pick("timePerFloor", c.TimePerFloor)
	f.pick("isActive", c.IsActive)
	f.pick("icon", c.Icon)

	f.defaults("isAccessible", true)
	f.defaults("waitTime", 0)
	f.defaults("timePerFloor", 0)
	f.defaults("isActive", true)
	f.defaults("icon", nil)
	return f.canonical()
}

// ProjectBeacon returns the comparable projection of a beacon.
func ProjectBeacon(b models.Beacon) Projection {
	f := fields{}
	f.pick("name", b.Name)
	f.pick("owner", b.Owner)
	f.pick("venueId", b.VenueID)
	f.pick("type", b.Type)
	f.pick("location", b.Location)
	f.pick("floor", b.Floor)
	f.pick("isPublished", b.IsPublished)
	f.pick("properties", b.Properties)

	f.defaults("isPublished", false)
	f.defaults("properties", map[string]any{})
	return f.canonical()
}

// ProjectTemplate returns the comparable projection of a template.
func ProjectTemplate(t models.Template) Projection {
	f := fields{}
	f.pick("name", t.Name)
	f.pick("owner", t.Owner)
	f.pick("venueId", t.VenueID)
	f.pick("description", t.Description)
	f.pick("url", t.URL)
	f.pick("placeTypeId", t.PlaceTypeID)
	f.pick("isPublished", t.IsPublished)
	f.pick("isSearchable", t.IsSearchable)
	f.pick("isVisible", t.IsVisible)
	f.pick("isClickable", t.IsClickable)
	f.pick("style", t.Style)
	f.pick("tags", t.Tags)
	f.pick("searchKeywords", t.SearchKeywords)
	f.pick("data", t.Data)
	f.pick("universes", t.Universes)

	f.defaults("isPublished", false)
	f.defaults("isSearchable", true)
	f.defaults("isVisible", true)
	f.defaults("isClickable", true)
	f.defaults("style", map[string]any{})
	f.defaults("data", map[string]any{})
	f.defaults("universes", []string{})
	f.defaults("tags", []string{})
	f.universeSet()
	f.translationsByLanguage(t.Translations, false)
	return f.canonical()
}

// Diff lists the top-level keys whose values differ between two projections, sorted.
func Diff(a, b Projection) []string {
	keys := make(map[string]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}

	var changed []string
	for k := range keys {
		av, aok := a[k]
		bv, bok := b[k]
		if aok != bok || !reflect.DeepEqual(av, bv) {
			changed = append(changed, k)
		}
	}
	sort.Strings(changed)
	return changed
}
