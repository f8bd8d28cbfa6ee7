package server

import (
	"gatherly/internal/models"
	"gatherly/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateUser registers a new user (admin)
func (s *Server) CreateUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req service.CreateUserInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	user, err := s.userSvc.Create(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// ListUsers returns users by ids, or all users paged (admin)
func (s *Server) ListUsers(c *fiber.Ctx) error {
	ctx := c.UserContext()

	paging, err := s.parsePaging(c)
	if err != nil {
		return nil
	}
	ids, err := parseUintList(c.Query("ids"))
	if err != nil {
		return respondError(c, err)
	}

	users, err := s.userSvc.List(ctx, ids, paging.From, paging.Size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// DeleteUser removes a user by id (admin)
func (s *Server) DeleteUser(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.userSvc.Delete(ctx, userID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
