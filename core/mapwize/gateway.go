package mapwize

import (
	"mapwize-api/core/models"
	"mapwize-api/core/reconcile"
)

var (
	_ reconcile.Gateway[models.Layer]     = (*Resource[models.Layer])(nil)
	_ reconcile.Gateway[models.Place]     = (*Resource[models.Place])(nil)
	_ reconcile.Gateway[models.PlaceList] = (*Resource[models.PlaceList])(nil)
	_ reconcile.Gateway[models.Connector] = (*Resource[models.Connector])(nil)
	_ reconcile.Gateway[models.Beacon]    = (*Resource[models.Beacon])(nil)
	_ reconcile.Gateway[models.Template]  = (*Resource[models.Template])(nil)
)
