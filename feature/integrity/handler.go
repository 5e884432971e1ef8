package integrity

import (
	"fmt"

	"mapwize-api/core/logger"
	"mapwize-api/feature/integrity/checks"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/structure", h.HandleStructureCheck)
	group.Get("/server", h.HandleServerCheck)
	group.Get("/api", h.HandleAPICheck)
}

// HandleIntegrityCheck runs every check.
// @Summary Run All Integrity Checks
// @Description Runs the structure, server and API checks without fixing anything. Answers 200 when all pass and 503 otherwise.
// @Tags integrity
// @Produce json
// @Success 200 {object} Report "Combined Report"
// @Failure 503 {object} Report "Unhealthy"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report := h.service.RunAll(c.Context())
	if !report.Healthy() {
		l.Warn("Integrity checks found problems")
		return c.Status(fiber.StatusServiceUnavailable).JSON(report)
	}
	return c.JSON(report)
}

// HandleStructureCheck checks and optionally fixes structure.
// @Summary Check Structure
// @Description Checks if the manifest and report folders exist in the storage bucket. Optionally fixes missing folders.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Fix missing folders"
// @Success 200 {object} map[string]interface{} "Structure Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/structure [get]
func (h *Handler) HandleStructureCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	missing, err := h.service.CheckStructure(c.Context())
	if err != nil {
		l.Error("Structure check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if len(missing) == 0 || !c.QueryBool("fix", false) {
		return c.JSON(fiber.Map{"status": "checked", "missing": missing})
	}

	l.Info("Creating missing folders", zap.Strings("missing", missing))
	if err := h.service.FixStructure(c.Context(), missing); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   err.Error(),
			"missing": missing,
		})
	}
	return c.JSON(fiber.Map{"status": "fixed", "fixed": missing})
}

// HandleServerCheck checks and optionally migrates the history schema.
// @Summary Check Server Schema
// @Description Checks if the history database schema matches the expected models. Optionally migrates it.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Migrate the history tables"
// @Success 200 {object} checks.ServerReport "Server Check Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/server [get]
func (h *Handler) HandleServerCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Starting server schema check")

	report, err := h.checkServer(c.QueryBool("fix", false), l)
	if err != nil {
		l.Error("Server schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}

// checkServer compares the history schema and, when fix is set, migrates it and
// checks again.
func (h *Handler) checkServer(fix bool, l *zap.Logger) (*checks.ServerReport, error) {
	report, err := h.service.CheckServer()
	if err != nil || report.Matched || !fix {
		return report, err
	}
	l.Info("Migrating history tables")
	if err := h.service.FixServer(); err != nil {
		return nil, fmt.Errorf("failed to migrate history tables: %w", err)
	}
	return h.service.CheckServer()
}

// HandleAPICheck checks the Mapwize API credentials.
// @Summary Check API Access
// @Description Lists the organization venues to verify the API key and organization.
// @Tags integrity
// @Produce json
// @Success 200 {object} checks.APIReport "API Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Failure 502 {object} checks.APIReport "API Unreachable"
// @Router /integrity/api [get]
func (h *Handler) HandleAPICheck(c *fiber.Ctx) error {
	report, err := h.service.CheckAPI(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if !report.Reachable {
		logger.WithRayID(h.service.logger, c).Warn("Mapwize API check failed", zap.String("error", report.Error))
		return c.Status(fiber.StatusBadGateway).JSON(report)
	}
	return c.JSON(report)
}
