package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"gatherly/internal/models"
	"gatherly/internal/statsclient"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

const (
	defaultPageSize = 10
	maxPageSize     = 1000
)

// Paging holds the parsed from/size query parameters.
type Paging struct {
	From int
	Size int
}

// parsePaging extracts the from/size query parameters. On invalid values it
// writes a 400 JSON response and returns errResponseWritten.
func (s *Server) parsePaging(c *fiber.Ctx) (Paging, error) {
	from := c.QueryInt("from", 0)
	size := c.QueryInt("size", defaultPageSize)
	if from < 0 || size <= 0 || size > maxPageSize {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid pagination parameters"))
		return Paging{}, errResponseWritten
	}
	return Paging{From: from, Size: size}, nil
}

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseQueryID extracts a required positive uint query parameter.
func (s *Server) parseQueryID(c *fiber.Ctx, param string) (uint, error) {
	id := c.QueryInt(param, 0)
	if id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+param))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// parseUintList parses a comma-separated list of positive ids, returning
// nil for an absent parameter.
func parseUintList(raw string) ([]uint, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil || id == 0 {
			return nil, models.NewValidationError("Invalid id list: " + raw)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// parseTimeParam parses an optional "2006-01-02 15:04:05" query parameter.
func parseTimeParam(c *fiber.Ctx, param string) (*time.Time, error) {
	raw := c.Query(param)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(statsclient.DateTimeLayout, raw)
	if err != nil {
		return nil, models.NewValidationError("Invalid " + param + ": expected " + statsclient.DateTimeLayout)
	}
	return &t, nil
}

// parseBoolParam parses an optional boolean query parameter.
func parseBoolParam(c *fiber.Ctx, param string) (*bool, error) {
	raw := c.Query(param)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, models.NewValidationError("Invalid " + param)
	}
	return &b, nil
}

// respondError maps an application error onto its HTTP status.
func respondError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case models.CodeNotFound:
			status = fiber.StatusNotFound
		case models.CodeForbidden, models.CodeEditWindowExpired:
			status = fiber.StatusForbidden
		case models.CodeValidation:
			status = fiber.StatusBadRequest
		}
	}
	return models.RespondWithError(c, status, err)
}
