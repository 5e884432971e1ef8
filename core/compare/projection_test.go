package compare

import (
	"encoding/json"
	"testing"

	"mapwize-api/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func basePlace() models.Place {
	return models.Place{
		Base:        models.Base{ID: "p1", Name: "Lobby", Owner: "org", VenueID: "venue"},
		PlaceTypeID: "type",
		Floor:       models.Float(0),
		Geometry: map[string]any{
			"type":        "Polygon",
			"coordinates": [][][]float64{{{1, 2}, {3, 4}, {5, 6}, {1, 2}}},
		},
		Universes: []string{"u1", "u2", "u3"},
		Translations: []models.Translation{
			{ID: "t1", Language: "en", Title: "Lobby", HasDetails: models.Bool(false)},
			{ID: "t2", Language: "fr", Title: "Hall"},
		},
	}
}

func TestProjectPlace_OrderIndependence(t *testing.T) {
	a := basePlace()

	b := basePlace()
	b.Universes = []string{"u3", "u1", "u2"}
	b.Translations = []models.Translation{
		{ID: "other", Language: "fr", Title: "Hall"},
		{Language: "en", Title: "Lobby", HasDetails: models.Bool(true)},
	}

	assert.Equal(t, ProjectPlace(a), ProjectPlace(b))
	assert.True(t, EqualPlace(a, b))
}

func TestProjectPlace_IgnoresIdentifier(t *testing.T) {
	a := basePlace()
	b := basePlace()
	b.ID = "another-id"
	assert.True(t, EqualPlace(a, b))
}

func TestProjectPlace_Defaults(t *testing.T) {
	p := models.Place{Base: models.Base{Name: "Meeting Room #2"}}
	proj := ProjectPlace(p)

	assert.Equal(t, "meeting_room_2", proj["alias"])
	assert.Equal(t, false, proj["isPublished"])
	assert.Equal(t, true, proj["isSearchable"])
	assert.Equal(t, true, proj["isVisible"])
	assert.Equal(t, true, proj["isClickable"])
	assert.Equal(t, float64(0), proj["order"])
	assert.Equal(t, map[string]any{}, proj["style"])
	assert.Equal(t, map[string]any{}, proj["data"])
	assert.Equal(t, map[string]any{}, proj["universes"])
	assert.Equal(t, map[string]any{}, proj["translations"])
	assert.NotContains(t, proj, "_id")
	assert.NotContains(t, proj, "geometry")
}

func TestProjectPlace_ExplicitValuesWin(t *testing.T) {
	p := models.Place{
		Base:        models.Base{Name: "Lobby"},
		Alias:       "main_lobby",
		IsPublished: models.Bool(true),
		IsVisible:   models.Bool(false),
	}
	proj := ProjectPlace(p)

	assert.Equal(t, "main_lobby", proj["alias"])
	assert.Equal(t, true, proj["isPublished"])
	assert.Equal(t, false, proj["isVisible"])
}

func TestProjectPlace_TranslationsStripVolatileFields(t *testing.T) {
	p := basePlace()
	proj := ProjectPlace(p)

	translations, ok := proj["translations"].(map[string]any)
	require.True(t, ok)
	en, ok := translations["en"].(map[string]any)
	require.True(t, ok)
	assert.NotContains(t, en, "_id")
	assert.NotContains(t, en, "hasDetails")
	assert.Equal(t, "Lobby", en["title"])
}

func TestProjectPlaceList_KeepsHasDetails(t *testing.T) {
	a := models.PlaceList{
		Base:         models.Base{Name: "Shops"},
		Translations: []models.Translation{{ID: "1", Language: "en", HasDetails: models.Bool(true)}},
	}
	b := a
	b.Translations = []models.Translation{{ID: "2", Language: "en", HasDetails: models.Bool(false)}}

	assert.False(t, EqualPlaceList(a, b))

	b.Translations = []models.Translation{{ID: "3", Language: "en", HasDetails: models.Bool(true)}}
	assert.True(t, EqualPlaceList(a, b))
}

func TestProjectPlaceList_PlaceIDOrderMatters(t *testing.T) {
	a := models.PlaceList{Base: models.Base{Name: "Route"}, PlaceIDs: []string{"a", "b"}}
	b := models.PlaceList{Base: models.Base{Name: "Route"}, PlaceIDs: []string{"b", "a"}}
	assert.False(t, EqualPlaceList(a, b))
}

func TestProjectLayer_DefaultMatchesExplicit(t *testing.T) {
	desired := models.Layer{Base: models.Base{Name: "Floor1", VenueID: "v"}}
	server := models.Layer{
		Base:        models.Base{ID: "l1", Name: "Floor1", VenueID: "v"},
		Alias:       "floor1",
		IsPublished: models.Bool(false),
		Universes:   []string{},
	}
	assert.True(t, EqualLayer(desired, server))

	server.IsPublished = models.Bool(true)
	assert.False(t, EqualLayer(desired, server))
}

func TestProjectLayer_FloorZeroIsNotAbsent(t *testing.T) {
	a := models.Layer{Base: models.Base{Name: "L"}, Floor: models.Float(0)}
	b := models.Layer{Base: models.Base{Name: "L"}}
	assert.False(t, EqualLayer(a, b))
}

func TestProjectConnector_Defaults(t *testing.T) {
	c := models.Connector{Base: models.Base{Name: "Elevator A"}, Type: "elevator"}
	proj := ProjectConnector(c)

	assert.Equal(t, true, proj["isAccessible"])
	assert.Equal(t, float64(0), proj["waitTime"])
	assert.Equal(t, float64(0), proj["timePerFloor"])
	assert.Equal(t, true, proj["isActive"])
	assert.Contains(t, proj, "icon")
	assert.Nil(t, proj["icon"])
	assert.NotContains(t, proj, "alias")
}

func TestProjectBeacon_Defaults(t *testing.T) {
	a := models.Beacon{Base: models.Base{Name: "B1"}, Type: "ibeacon"}
	b := models.Beacon{
		Base:        models.Base{ID: "b1", Name: "B1"},
		Type:        "ibeacon",
		IsPublished: models.Bool(false),
		Properties:  map[string]any{},
	}
	assert.True(t, EqualBeacon(a, b))
	assert.NotNil(t, ProjectBeacon(a)["properties"])
}

func TestProjectTemplate_Defaults(t *testing.T) {
	a := models.Template{Base: models.Base{Name: "Desk"}}
	proj := ProjectTemplate(a)

	assert.Equal(t, []any{}, proj["tags"])
	assert.Equal(t, map[string]any{}, proj["universes"])
	assert.Equal(t, map[string]any{}, proj["translations"])

	b := models.Template{Base: models.Base{Name: "Desk"}, Tags: []string{"x"}}
	assert.False(t, EqualTemplate(a, b))
}

func TestProjection_GoTypesMatchDecodedJSON(t *testing.T) {
	built := basePlace()

	data, err := json.Marshal(built)
	require.NoError(t, err)
	var decoded models.Place
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.True(t, EqualPlace(built, decoded))
}

func TestDiff(t *testing.T) {
	a := ProjectPlace(models.Place{Base: models.Base{Name: "Lobby"}, IsPublished: models.Bool(true)})
	b := ProjectPlace(models.Place{Base: models.Base{Name: "Lobby"}, IsVisible: models.Bool(false)})

	assert.Equal(t, []string{"isPublished", "isVisible"}, Diff(a, b))
	assert.Empty(t, Diff(a, a))

	changes := Changes(ProjectPlace)
	assert.Equal(t, []string{"isPublished", "isVisible"}, changes(
		models.Place{Base: models.Base{Name: "Lobby"}, IsPublished: models.Bool(true)},
		models.Place{Base: models.Base{Name: "Lobby"}, IsVisible: models.Bool(false)},
	))
}

func TestProjectPlace_IgnoresExtraFields(t *testing.T) {
	a := basePlace()
	b := basePlace()
	b.Extra = map[string]any{"icon": "data:image/png;base64,AAA", "tags": []any{"a"}}
	b.Translations[1].Extra = map[string]any{"summary": "Entrance hall"}

	assert.True(t, EqualPlace(a, b))
	assert.NotContains(t, ProjectPlace(b), "icon")
}
