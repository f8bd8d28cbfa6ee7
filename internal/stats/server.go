package stats

import (
	"time"

	"gatherly/internal/config"
	"gatherly/internal/middleware"
	"gatherly/internal/models"
	"gatherly/internal/statsclient"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Server holds the collector's dependencies and provides its handlers.
type Server struct {
	config *config.Config
	db     *gorm.DB
	svc    *Service
}

// NewServer creates a collector server over an established database.
func NewServer(cfg *config.Config, db *gorm.DB) *Server {
	return &Server{
		config: cfg,
		db:     db,
		svc:    NewService(NewRepository(db), middleware.Logger),
	}
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.StructuredLogger())
}

// SetupRoutes configures the collector's routes
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.HealthCheck)
	app.Post("/hit", s.RecordHit)
	app.Get("/stats", s.GetStats)
}

// HealthCheck reports service liveness
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// RecordHit stores one endpoint visit reported by another service
func (s *Server) RecordHit(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var hit statsclient.Hit
	if err := c.BodyParser(&hit); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	timestamp, err := time.Parse(statsclient.DateTimeLayout, hit.Timestamp)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid timestamp: expected "+statsclient.DateTimeLayout))
	}

	if err := s.svc.RecordHit(ctx, hit.App, hit.URI, hit.IP, timestamp); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// GetStats returns aggregate hit counts over a time window
func (s *Server) GetStats(c *fiber.Ctx) error {
	ctx := c.UserContext()

	start, err := parseRequiredTime(c, "start")
	if err != nil {
		return respondError(c, err)
	}
	end, err := parseRequiredTime(c, "end")
	if err != nil {
		return respondError(c, err)
	}

	var uris []string
	for _, raw := range c.Context().QueryArgs().PeekMulti("uris") {
		uris = append(uris, string(raw))
	}

	result, err := s.svc.Aggregate(ctx, start, end, uris, c.QueryBool("unique", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

func parseRequiredTime(c *fiber.Ctx, param string) (time.Time, error) {
	raw := c.Query(param)
	if raw == "" {
		return time.Time{}, models.NewValidationError(param + " is required")
	}
	t, err := time.Parse(statsclient.DateTimeLayout, raw)
	if err != nil {
		return time.Time{}, models.NewValidationError("Invalid " + param + ": expected " + statsclient.DateTimeLayout)
	}
	return t, nil
}

func respondError(c *fiber.Ctx, err error) error {
	if appErr, ok := err.(*models.AppError); ok {
		switch appErr.Code {
		case models.CodeValidation:
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case models.CodeNotFound:
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		}
		return models.RespondWithError(c, fiber.StatusInternalServerError, appErr)
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}
