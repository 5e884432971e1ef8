package compare

import (
	"reflect"

	"mapwize-api/core/models"
)

// EqualLayer reports whether two layers have equal content, identifiers excluded.
func EqualLayer(a, b models.Layer) bool {
	return reflect.DeepEqual(ProjectLayer(a), ProjectLayer(b))
}

// EqualPlace reports whether two places have equal content, identifiers excluded.
func EqualPlace(a, b models.Place) bool {
	return reflect.DeepEqual(ProjectPlace(a), ProjectPlace(b))
}

// EqualPlaceList reports whether two place lists have equal content, identifiers excluded.
func EqualPlaceList(a, b models.PlaceList) bool {
	return reflect.DeepEqual(ProjectPlaceList(a), ProjectPlaceList(b))
}

// EqualConnector reports whether two connectors have equal content, identifiers excluded.
func EqualConnector(a, b models.Connector) bool {
	return reflect.DeepEqual(ProjectConnector(a), ProjectConnector(b))
}

// EqualBeacon reports whether two beacons have equal content, identifiers excluded.
func EqualBeacon(a, b models.Beacon) bool {
	return reflect.DeepEqual(ProjectBeacon(a), ProjectBeacon(b))
}

// EqualTemplate reports whether two templates have equal content, identifiers excluded.
func EqualTemplate(a, b models.Template) bool {
	return reflect.DeepEqual(ProjectTemplate(a), ProjectTemplate(b))
}

// Changes returns a function listing the differing projected fields of two objects,
// built from a projection function.
func Changes[T any](project func(T) Projection) func(a, b T) []string {
	return func(a, b T) []string {
		return Diff(project(a), project(b))
	}
}
