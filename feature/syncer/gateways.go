package syncer

import (
	"time"

	"mapwize-api/core/mapwize"
	"mapwize-api/core/models"
	"mapwize-api/core/reconcile"
)

// Gateways holds one gateway per reconcilable kind.
type Gateways struct {
	Layers     reconcile.Gateway[models.Layer]
	Places     reconcile.Gateway[models.Place]
	PlaceLists reconcile.Gateway[models.PlaceList]
	Connectors reconcile.Gateway[models.Connector]
	Beacons    reconcile.Gateway[models.Beacon]
	Templates  reconcile.Gateway[models.Template]
}

// NewGateways binds every kind to its REST resource.
func NewGateways(c *mapwize.Client) Gateways {
	return Gateways{
		Layers:     c.Layers(),
		Places:     c.Places(),
		PlaceLists: c.PlaceLists(),
		Connectors: c.Connectors(),
		Beacons:    c.Beacons(),
		Templates:  c.Templates(),
	}
}

// Cached wraps every gateway with a list cache of the given ttl.
func (g Gateways) Cached(ttl time.Duration) Gateways {
	return Gateways{
		Layers:     cached(g.Layers, ttl),
		Places:     cached(g.Places, ttl),
		PlaceLists: cached(g.PlaceLists, ttl),
		Connectors: cached(g.Connectors, ttl),
		Beacons:    cached(g.Beacons, ttl),
		Templates:  cached(g.Templates, ttl),
	}
}

func cached[T any](gw reconcile.Gateway[T], ttl time.Duration) reconcile.Gateway[T] {
	if gw == nil {
		return nil
	}
	return reconcile.NewCachedGateway(gw, ttl)
}

// invalidate drops the cached listings of kind.
func (g Gateways) invalidate(kind models.Kind) {
	var gw any
	switch kind {
	case models.KindLayer:
		gw = g.Layers
	case models.KindPlace:
		gw = g.Places
	case models.KindPlaceList:
		gw = g.PlaceLists
	case models.KindConnector:
		gw = g.Connectors
	case models.KindBeacon:
		gw = g.Beacons
	case models.KindTemplate:
		gw = g.Templates
	}
	if inv, ok := gw.(interface{ Invalidate() }); ok {
		inv.Invalidate()
	}
}
