package server

import (
	"gatherly/internal/models"

	"github.com/gofiber/fiber/v2"
)

type categoryRequest struct {
	Name string `json:"name"`
}

// CreateCategory adds a new event category (admin)
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	category, err := s.categorySvc.Create(ctx, req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// UpdateCategory renames a category (admin)
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	ctx := c.UserContext()

	catID, err := s.parseID(c, "catId")
	if err != nil {
		return nil
	}

	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	category, err := s.categorySvc.Update(ctx, catID, req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(category)
}

// DeleteCategory removes a category (admin)
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	ctx := c.UserContext()

	catID, err := s.parseID(c, "catId")
	if err != nil {
		return nil
	}

	if err := s.categorySvc.Delete(ctx, catID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListCategories returns categories, paged (public)
func (s *Server) ListCategories(c *fiber.Ctx) error {
	ctx := c.UserContext()

	paging, err := s.parsePaging(c)
	if err != nil {
		return nil
	}

	categories, err := s.categorySvc.List(ctx, paging.From, paging.Size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(categories)
}

// GetCategory returns one category (public)
func (s *Server) GetCategory(c *fiber.Ctx) error {
	ctx := c.UserContext()

	catID, err := s.parseID(c, "catId")
	if err != nil {
		return nil
	}

	category, err := s.categorySvc.GetByID(ctx, catID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(category)
}
