package server

import (
	"gatherly/internal/models"

	"github.com/gofiber/fiber/v2"
)

type commentRequest struct {
	Text string `json:"text"`
}

// AdminListComments lists all comments page by page (admin)
func (s *Server) AdminListComments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	paging, err := s.parsePaging(c)
	if err != nil {
		return nil
	}

	comments, err := s.commentSvc.ListByAdmin(ctx, paging.From, paging.Size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// AdminDeleteComment removes any comment regardless of author (admin)
func (s *Server) AdminDeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.commentSvc.DeleteByAdmin(ctx, commentID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListOwnComments lists the user's comments, optionally scoped to one event
// via the eventId query parameter (author)
func (s *Server) ListOwnComments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	var eventID *uint
	if c.Query("eventId") != "" {
		id, err := s.parseQueryID(c, "eventId")
		if err != nil {
			return nil
		}
		eventID = &id
	}

	comments, err := s.commentSvc.ListByAuthor(ctx, userID, eventID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// CreateComment posts a comment on the published event named by the eventId
// query parameter (author)
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	eventID, err := s.parseQueryID(c, "eventId")
	if err != nil {
		return nil
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentSvc.Create(ctx, userID, eventID, req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateComment edits the user's own comment within the edit window (author)
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	var req commentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentSvc.Update(ctx, userID, commentID, req.Text)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// DeleteComment removes the user's own comment (author)
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	if err := s.commentSvc.Delete(ctx, userID, commentID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PublicListComments lists comments for one event (public)
func (s *Server) PublicListComments(c *fiber.Ctx) error {
	ctx := c.UserContext()

	eventID, err := s.parseQueryID(c, "eventId")
	if err != nil {
		return nil
	}
	paging, err := s.parsePaging(c)
	if err != nil {
		return nil
	}

	comments, err := s.commentSvc.ListByEvent(ctx, eventID, paging.From, paging.Size)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// GetComment returns a single comment by id (public)
func (s *Server) GetComment(c *fiber.Ctx) error {
	ctx := c.UserContext()

	commentID, err := s.parseID(c, "commentId")
	if err != nil {
		return nil
	}

	comment, err := s.commentSvc.GetByID(ctx, commentID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}
