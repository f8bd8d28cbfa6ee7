package server

import (
	"gatherly/internal/models"
	"gatherly/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateCompilation stores a new curated event selection (admin)
func (s *Server) CreateCompilation(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req service.CreateCompilationInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	compilation, err := s.compilationSvc.Create(ctx, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(compilation)
}

// UpdateCompilation edits a compilation's title, pin flag or membership
// (admin)
func (s *Server) UpdateCompilation(c *fiber.Ctx) error {
	ctx := c.UserContext()

	compID, err := s.parseID(c, "compId")
	if err != nil {
		return nil
	}

	var req service.UpdateCompilationInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	compilation, err := s.compilationSvc.Update(ctx, compID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(compilation)
}

// DeleteCompilation removes a compilation, leaving its events intact (admin)
func (s *Server) DeleteCompilation(c *fiber.Ctx) error {
	ctx := c.UserContext()

	compID, err := s.parseID(c, "compId")
	if err != nil {
		return nil
	}

	if err := s.compilationSvc.Delete(ctx, compID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListCompilations lists compilations, optionally filtered by pin state
// (public)
func (s *Server) ListCompilations(c *fiber.Ctx) error {
	ctx := c.UserContext()

	paging, err := s.parsePaging(c)
	if err != nil {
		return nil
	}
	pinned, err := parseBoolParam(c, "pinned")
	if err != nil {
		return respondError(c, err)
	}

	compilations, err := s.compilationSvc.List(ctx, pinned, paging.From, paging.Size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(compilations)
}

// GetCompilation returns a single compilation by id (public)
func (s *Server) GetCompilation(c *fiber.Ctx) error {
	ctx := c.UserContext()

	compID, err := s.parseID(c, "compId")
	if err != nil {
		return nil
	}

	compilation, err := s.compilationSvc.GetByID(ctx, compID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(compilation)
}
