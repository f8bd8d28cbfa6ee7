package service

import (
	"context"
	"time"

	"gatherly/internal/models"
	"gatherly/internal/repository"
)

// commentEditWindow is how long a comment stays editable after creation.
const commentEditWindow = 2 * time.Hour

// CommentService manages comments on published events.
type CommentService struct {
	commentRepo repository.CommentRepository
	eventRepo   repository.EventRepository
	userRepo    repository.UserRepository
}

// NewCommentService creates a new comment service.
func NewCommentService(
	commentRepo repository.CommentRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		eventRepo:   eventRepo,
		userRepo:    userRepo,
	}
}

// ListByAdmin lists all comments, paged.
func (s *CommentService) ListByAdmin(ctx context.Context, from, size int) ([]models.Comment, error) {
	return s.commentRepo.List(ctx, size, pageOffset(from, size))
}

// DeleteByAdmin removes any comment.
func (s *CommentService) DeleteByAdmin(ctx context.Context, commentID uint) error {
	if _, err := s.commentRepo.GetByID(ctx, commentID); err != nil {
		return err
	}
	return s.commentRepo.Delete(ctx, commentID)
}

// ListByAuthor lists a user's comments, optionally scoped to one event.
func (s *CommentService) ListByAuthor(ctx context.Context, userID uint, eventID *uint) ([]models.Comment, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	if eventID != nil {
		if _, err := s.eventRepo.GetByID(ctx, *eventID); err != nil {
			return nil, err
		}
		return s.commentRepo.ListByAuthorAndEvent(ctx, userID, *eventID)
	}
	return s.commentRepo.ListByAuthor(ctx, userID)
}

// Create adds a comment to a published event.
func (s *CommentService) Create(ctx context.Context, userID, eventID uint, text string) (*models.Comment, error) {
	if err := checkLength("Comment", text, minCommentLen, maxCommentLen); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.State != models.EventStatePublished {
		return nil, models.NewForbiddenError("Comments are allowed only on published events")
	}

	comment := &models.Comment{
		Text:      text,
		AuthorID:  user.ID,
		EventID:   event.ID,
		CreatedOn: time.Now(),
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Update edits the author's own comment. Edits are allowed only within two
// hours of creation; later attempts fail with an expired edit window.
func (s *CommentService) Update(ctx context.Context, userID, commentID uint, text string) (*models.Comment, error) {
	if err := checkLength("Comment", text, minCommentLen, maxCommentLen); err != nil {
		return nil, err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}

	if !time.Now().Before(comment.CreatedOn.Add(commentEditWindow)) {
		return nil, models.NewEditWindowExpiredError("Two hours have passed since the comment was created")
	}
	if comment.AuthorID != userID {
		return nil, models.NewForbiddenError("User is not the author of the comment")
	}

	now := time.Now()
	comment.Text = text
	comment.EditedOn = &now
	if err := s.commentRepo.Save(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes the author's own comment.
func (s *CommentService) Delete(ctx context.Context, userID, commentID uint) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return models.NewForbiddenError("User is not the author of the comment")
	}

	return s.commentRepo.Delete(ctx, commentID)
}

// ListByEvent lists a published event's comments for public readers.
func (s *CommentService) ListByEvent(ctx context.Context, eventID uint, from, size int) ([]models.Comment, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.commentRepo.ListByEvent(ctx, eventID, size, pageOffset(from, size))
}

// GetByID returns a single comment for public readers.
func (s *CommentService) GetByID(ctx context.Context, commentID uint) (*models.Comment, error) {
	return s.commentRepo.GetByID(ctx, commentID)
}
