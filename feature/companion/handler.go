package companion

import (
	"scribey-companion/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the companion's local API.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the companion routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/companion")
	group.Get("/status", h.HandleStatus)
	group.Get("/queue", h.HandleQueue)
	group.Get("/server", h.HandleServerStatus)
	group.Post("/scan", h.HandleScan)
	group.Post("/sync", h.HandleSync)
	group.Put("/wow-path", h.HandleSetWowPath)
}

// HandleStatus returns the watcher, queue and extraction state.
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}

// HandleQueue returns the upload queue statistics.
func (h *Handler) HandleQueue(c *fiber.Ctx) error {
	return c.JSON(h.service.QueueStats())
}

// HandleServerStatus probes the remote service and reports version and
// latency.
func (h *Handler) HandleServerStatus(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	status, err := h.service.ServerStatus(c.Context())
	if err != nil {
		l.Warn("Server probe failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{
		"version":   status.Version,
		"message":   status.Message,
		"latencyMs": status.Latency.Milliseconds(),
	})
}

// HandleScan re-processes every watched SavedVariables file.
func (h *Handler) HandleScan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	count := h.service.Rescan()
	l.Info("Manual rescan triggered", zap.Int("paths", count))
	return c.JSON(fiber.Map{"rescanned": count})
}

// HandleSync forces a server-side sync of all data.
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.ForceSync(c.Context()); err != nil {
		l.Warn("Force sync failed", zap.Error(err))
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}
	l.Info("Force sync requested")
	return c.JSON(fiber.Map{"status": "ok"})
}

type wowPathRequest struct {
	Path string `json:"path"`
}

// HandleSetWowPath validates and stores a new installation root, restarting
// the watcher against it.
func (h *Handler) HandleSetWowPath(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req wowPathRequest
	if err := c.BodyParser(&req); err != nil || req.Path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing path"})
	}

	if err := h.service.SetWowPath(req.Path); err != nil {
		l.Warn("Installation path rejected", zap.String("path", req.Path), zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	l.Info("Installation path updated", zap.String("path", req.Path))
	return c.JSON(fiber.Map{"status": "ok"})
}
