package mapwize

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"mapwize-api/core/models"
)

// identified is satisfied by every object carrying a server identifier.
type identified interface {
	GetID() string
}

// Resource is a venue-scoped collection, such as places or layers.
type Resource[T identified] struct {
	client    *Client
	path      string
	paginated bool
}

func newResource[T identified](c *Client, path string, paginated bool) *Resource[T] {
	return &Resource[T]{client: c, path: path, paginated: paginated}
}

// List returns every object of the venue, unpublished ones included.
// Paginated collections are fetched page by page until an empty page.
func (r *Resource[T]) List(ctx context.Context, venueID string) ([]T, error) {
	return r.list(ctx, url.Values{"venueId": {venueID}, "isPublished": {"all"}})
}

func (r *Resource[T]) list(ctx context.Context, query url.Values) ([]T, error) {
	if !r.paginated {
		var items []T
		if err := r.client.call(ctx, http.MethodGet, r.path, query, nil, &items); err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", r.path, err)
		}
		return items, nil
	}

	var items []T
	for page := 1; ; page++ {
		query.Set("page", strconv.Itoa(page))
		var batch []T
		if err := r.client.call(ctx, http.MethodGet, r.path, query, nil, &batch); err != nil {
			return nil, fmt.Errorf("failed to list %s page %d: %w", r.path, page, err)
		}
		if len(batch) == 0 {
			return items, nil
		}
		items = append(items, batch...)
	}
}

// Get fetches one object by identifier.
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var obj T
	if err := r.client.call(ctx, http.MethodGet, r.path+"/"+url.PathEscape(id), nil, nil, &obj); err != nil {
		return obj, fmt.Errorf("failed to get %s %s: %w", r.path, id, err)
	}
	return obj, nil
}

// Create persists obj and returns it as stored, identifier included.
func (r *Resource[T]) Create(ctx context.Context, obj T) (T, error) {
	var created T
	if err := r.client.call(ctx, http.MethodPost, r.path, nil, obj, &created); err != nil {
		return created, fmt.Errorf("failed to create %s: %w", r.path, err)
	}
	return created, nil
}

// Update replaces the object identified by obj's ID.
func (r *Resource[T]) Update(ctx context.Context, obj T) error {
	_, err := r.Save(ctx, obj)
	return err
}

// Save replaces the object identified by obj's ID and returns it as stored.
func (r *Resource[T]) Save(ctx context.Context, obj T) (T, error) {
	var saved T
	id := obj.GetID()
	if id == "" {
		return saved, fmt.Errorf("failed to update %s: object has no identifier", r.path)
	}
	if err := r.client.call(ctx, http.MethodPut, r.path+"/"+url.PathEscape(id), nil, obj, &saved); err != nil {
		return saved, fmt.Errorf("failed to update %s %s: %w", r.path, id, err)
	}
	return saved, nil
}

// Delete removes the object with the given identifier.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if err := r.client.call(ctx, http.MethodDelete, r.path+"/"+url.PathEscape(id), nil, nil, nil); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", r.path, id, err)
	}
	return nil
}

// Places is the paginated place collection.
func (c *Client) Places() *Resource[models.Place] {
	return newResource[models.Place](c, "places", true)
}

// PlaceLists is the place list collection.
func (c *Client) PlaceLists() *Resource[models.PlaceList] {
	return newResource[models.PlaceList](c, "placeLists", false)
}

// Layers is the layer collection.
func (c *Client) Layers() *Resource[models.Layer] {
	return newResource[models.Layer](c, "layers", false)
}

// Connectors is the connector collection.
func (c *Client) Connectors() *Resource[models.Connector] {
	return newResource[models.Connector](c, "connectors", false)
}

// Beacons is the beacon collection.
func (c *Client) Beacons() *Resource[models.Beacon] {
	return newResource[models.Beacon](c, "beacons", false)
}

// Templates is the place template collection.
func (c *Client) Templates() *Resource[models.Template] {
	return newResource[models.Template](c, "placeTemplates", false)
}

// RouteGraphs is the route graph collection.
func (c *Client) RouteGraphs() *Resource[models.Record] {
	return newResource[models.Record](c, "routegraphs", false)
}

// UpdateRouteGraphForFloor replaces the route graph of a floor, creating it when the
// floor has none yet.
func (c *Client) UpdateRouteGraphForFloor(ctx context.Context, venueID string, floor float64, graph models.Record) (models.Record, error) {
	graphs := c.RouteGraphs()
	existing, err := graphs.list(ctx, url.Values{
		"venueId": {venueID},
		"floor":   {strconv.FormatFloat(floor, 'f', -1, 64)},
	})
	if err != nil {
		return nil, err
	}

	body := models.Record{}
	for k, v := range graph {
		body[k] = v
	}
	if len(existing) == 0 {
		delete(body, "_id")
		return graphs.Create(ctx, body)
	}
	body["_id"] = existing[0].GetID()
	return graphs.Save(ctx, body)
}

// Collection is an organization-scoped collection, such as universes or venues.
type Collection[T identified] struct {
	Resource[T]
	listQuery url.Values
}

func newCollection[T identified](c *Client, path string, listQuery url.Values) *Collection[T] {
	return &Collection[T]{Resource: Resource[T]{client: c, path: path}, listQuery: listQuery}
}

// List returns every object of the organization.
func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	query := url.Values{}
	for k, v := range c.listQuery {
		query[k] = v
	}
	return c.list(ctx, query)
}

// AccessGroups is the access group collection.
func (c *Client) AccessGroups() *Collection[models.Record] {
	return newCollection[models.Record](c, "accessGroups", nil)
}

// APIKeys is the api key (application) collection.
func (c *Client) APIKeys() *Collection[models.Record] {
	return newCollection[models.Record](c, "applications", nil)
}

// PlaceTypes is the place type collection.
func (c *Client) PlaceTypes() *Collection[models.Record] {
	return newCollection[models.Record](c, "placetypes", nil)
}

// Universes is the universe collection.
func (c *Client) Universes() *Collection[models.Record] {
	return newCollection[models.Record](c, "universes", nil)
}

// Modes is the direction mode collection.
func (c *Client) Modes() *Collection[models.Record] {
	return newCollection[models.Record](c, "modes", url.Values{"isPublished": {"all"}})
}

// Venues is the venue collection.
func (c *Client) Venues() *Collection[models.Venue] {
	return newCollection[models.Venue](c, "venues", url.Values{"isPublished": {"all"}})
}

// CloneVenue copies a venue into another organization under a new name.
func (c *Client) CloneVenue(ctx context.Context, venueID, toOrganizationID, toVenueName string) (models.Record, error) {
	var out models.Record
	body := map[string]string{"toOrganizationId": toOrganizationID, "toVenueName": toVenueName}
	if err := c.call(ctx, http.MethodPost, "venues/"+url.PathEscape(venueID)+"/clone", nil, body, &out); err != nil {
		return nil, fmt.Errorf("failed to clone venue %s: %w", venueID, err)
	}
	return out, nil
}
