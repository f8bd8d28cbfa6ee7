package server

import (
	"gatherly/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ListOwnRequests lists the user's participation requests across all events
// (requester)
func (s *Server) ListOwnRequests(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	requests, err := s.requestSvc.ListByRequester(ctx, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(requests)
}

// CreateRequest submits a participation request for the event named by the
// eventId query parameter (requester)
func (s *Server) CreateRequest(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	eventID, err := s.parseQueryID(c, "eventId")
	if err != nil {
		return nil
	}

	request, err := s.requestSvc.Create(ctx, userID, eventID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(request)
}

// CancelRequest cancels the user's own participation request (requester)
func (s *Server) CancelRequest(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	requestID, err := s.parseID(c, "requestId")
	if err != nil {
		return nil
	}

	request, err := s.requestSvc.Cancel(ctx, userID, requestID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(request)
}

// ListEventRequests lists participation requests for the user's own event
// (owner)
func (s *Server) ListEventRequests(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	eventID, err := s.parseID(c, "eventId")
	if err != nil {
		return nil
	}

	requests, err := s.requestSvc.ListByEventOwner(ctx, userID, eventID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(requests)
}

// UpdateEventRequests confirms or rejects a batch of pending requests for
// the user's own event (owner)
func (s *Server) UpdateEventRequests(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	eventID, err := s.parseID(c, "eventId")
	if err != nil {
		return nil
	}

	var req models.RequestStatusUpdate
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	result, err := s.requestSvc.UpdateStatuses(ctx, userID, eventID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}
