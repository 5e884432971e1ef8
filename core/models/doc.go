// Package models holds the Mapwize domain objects exchanged with the REST API.
//
// The six reconcilable kinds (Layer, Place, PlaceList, Connector, Beacon, Template) embed Base,
// which carries the server identifier and the natural key (name). Optional scalar fields are
// pointers so that "absent" and "zero" stay distinguishable; the comparable projection in
// core/compare relies on that to apply defaults.
//
// Resources the engine never reconciles (sources, jobs, route graphs) are exposed as Record,
// a loosely typed JSON object.
package models
