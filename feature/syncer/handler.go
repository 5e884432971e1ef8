package syncer

import (
	"encoding/json"
	"errors"
	"strings"

	"mapwize-api/core/lock"
	"mapwize-api/core/logger"
	"mapwize-api/core/models"
	"mapwize-api/core/reconcile"
	"mapwize-api/feature/history"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for sync runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Get("/runs", h.HandleListRuns)
	group.Post("/:venueId/:kind", h.HandleSync)

	app.Get("/venues/:venueId/:kind", h.HandleListObjects)
}

// HandleSync reconciles a kind in a venue.
// @Summary Reconcile Venue Objects
// @Description Converges the server objects of a kind to the posted desired list (JSON array or YAML). Objects missing on the server are created, changed ones updated and extra ones deleted.
// @Tags sync
// @Accept json
// @Produce json
// @Param venueId path string true "Venue ID"
// @Param kind path string true "Kind (layers, places, placeLists, connectors, beacons, templates)"
// @Param dryRun query boolean false "Compute the plan without applying it"
// @Param owner query string false "Only reconcile server objects of this owner"
// @Param duplicates query string false "Duplicate name policy (error, last_wins)"
// @Param concurrency query int false "Operations in flight per batch"
// @Param manifest query string false "Load the desired list from this stored manifest instead of the body"
// @Success 200 {object} Report "Sync Report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 409 {object} map[string]string "Locked"
// @Failure 422 {object} map[string]interface{} "Invalid Objects"
// @Failure 502 {object} map[string]interface{} "Mapwize API Error"
// @Router /sync/{venueId}/{kind} [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	kind, err := models.ParseKind(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var objects json.RawMessage
	if name := c.Query("manifest"); name != "" {
		objects, err = h.service.LoadStoredManifest(c.Context(), kind, name)
	} else {
		objects, err = LoadManifest(kind, c.Body(), bodyFormat(c.Get(fiber.HeaderContentType)))
	}
	if err != nil {
		l.Warn("Failed to load desired objects", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	report, err := h.service.Sync(c.Context(), Request{
		Kind:        kind,
		VenueID:     c.Params("venueId"),
		Objects:     objects,
		DryRun:      c.QueryBool("dryRun", false),
		OwnerFilter: c.Query("owner"),
		Duplicates:  c.Query("duplicates"),
		Concurrency: c.QueryInt("concurrency", 0),
	})
	if err != nil {
		status := statusFor(err)
		if report == nil {
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(status).JSON(fiber.Map{"error": err.Error(), "report": report})
	}

	return c.JSON(report)
}

// HandleListRuns lists recorded runs.
// @Summary List Sync Runs
// @Description Lists recorded sync runs, newest first.
// @Tags sync
// @Produce json
// @Param venueId query string false "Venue ID"
// @Param kind query string false "Kind"
// @Param limit query int false "Maximum number of runs"
// @Success 200 {array} history.SyncRun "Runs"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/runs [get]
func (h *Handler) HandleListRuns(c *fiber.Ctx) error {
	filter := history.Filter{
		VenueID: c.Query("venueId"),
		Limit:   c.QueryInt("limit", history.DefaultLimit),
	}
	if raw := c.Query("kind"); raw != "" {
		kind, err := models.ParseKind(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		filter.Kind = string(kind)
	}

	runs, err := h.service.Runs(c.Context(), filter)
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to list sync runs", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(runs)
}

// HandleListObjects returns the current server objects of a kind.
// @Summary List Venue Objects
// @Description Lists the server objects of a kind in a venue, unpublished ones included.
// @Tags sync
// @Produce json
// @Param venueId path string true "Venue ID"
// @Param kind path string true "Kind"
// @Success 200 {array} map[string]interface{} "Objects"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 502 {object} map[string]string "Mapwize API Error"
// @Router /venues/{venueId}/{kind} [get]
func (h *Handler) HandleListObjects(c *fiber.Ctx) error {
	kind, err := models.ParseKind(c.Params("kind"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	items, err := h.service.List(c.Context(), kind, c.Params("venueId"))
	if err != nil {
		logger.WithRayID(h.service.logger, c).Error("Failed to list venue objects", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(items)
}

func bodyFormat(contentType string) string {
	if strings.Contains(contentType, "yaml") {
		return FormatYAML
	}
	return FormatJSON
}

func statusFor(err error) int {
	var validation *reconcile.ValidationError
	var fetch *reconcile.FetchError
	var execution *reconcile.ExecutionError
	switch {
	case errors.Is(err, ErrBadRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, lock.ErrLocked):
		return fiber.StatusConflict
	case errors.As(err, &validation):
		return fiber.StatusUnprocessableEntity
	case errors.As(err, &fetch), errors.As(err, &execution):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
