package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"gatherly/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommentService(commentRepo *commentRepoStub, eventRepo *eventRepoStub) *CommentService {
	return NewCommentService(commentRepo, eventRepo, noopUserRepo())
}

func TestCommentService_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("only published events take comments", func(t *testing.T) {
		t.Parallel()
		eventRepo := noopEventRepo()
		eventRepo.getByIDFn = func(_ context.Context, id uint) (*models.Event, error) {
			return &models.Event{ID: id, State: models.EventStatePending}, nil
		}
		svc := newTestCommentService(noopCommentRepo(), eventRepo)

		_, err := svc.Create(ctx, 1, 2, "Looking forward to this one")
		assertErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("text length is bounded", func(t *testing.T) {
		t.Parallel()
		svc := newTestCommentService(noopCommentRepo(), noopEventRepo())

		_, err := svc.Create(ctx, 1, 2, "ab")
		assertErrorCode(t, err, models.CodeValidation)

		_, err = svc.Create(ctx, 1, 2, strings.Repeat("x", 7001))
		assertErrorCode(t, err, models.CodeValidation)
	})

	t.Run("stores author, event and creation time", func(t *testing.T) {
		t.Parallel()
		eventRepo := noopEventRepo()
		eventRepo.getByIDFn = func(_ context.Context, id uint) (*models.Event, error) {
			return &models.Event{ID: id, State: models.EventStatePublished}, nil
		}
		commentRepo := noopCommentRepo()
		commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
			c.ID = 3
			return nil
		}
		svc := newTestCommentService(commentRepo, eventRepo)

		comment, err := svc.Create(ctx, 1, 2, "Looking forward to this one")
		require.NoError(t, err)
		assert.Equal(t, uint(1), comment.AuthorID)
		assert.Equal(t, uint(2), comment.EventID)
		assert.False(t, comment.CreatedOn.IsZero())
		assert.Nil(t, comment.EditedOn)
	})
}

func TestCommentService_Update_EditWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	withCreatedOn := func(createdOn time.Time) *commentRepoStub {
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, AuthorID: 1, CreatedOn: createdOn}, nil
		}
		return commentRepo
	}

	t.Run("edit succeeds just inside the window", func(t *testing.T) {
		t.Parallel()
		commentRepo := withCreatedOn(time.Now().Add(-(time.Hour + 59*time.Minute)))
		svc := newTestCommentService(commentRepo, noopEventRepo())

		comment, err := svc.Update(ctx, 1, 2, "Changed my mind about the meeting point")
		require.NoError(t, err)
		assert.Equal(t, "Changed my mind about the meeting point", comment.Text)
		require.NotNil(t, comment.EditedOn)
	})

	t.Run("edit fails just past the window", func(t *testing.T) {
		t.Parallel()
		commentRepo := withCreatedOn(time.Now().Add(-(2*time.Hour + time.Second)))
		svc := newTestCommentService(commentRepo, noopEventRepo())

		_, err := svc.Update(ctx, 1, 2, "Too late now")
		assertErrorCode(t, err, models.CodeEditWindowExpired)
	})

	t.Run("only the author may edit", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, AuthorID: 9, CreatedOn: time.Now()}, nil
		}
		svc := newTestCommentService(commentRepo, noopEventRepo())

		_, err := svc.Update(ctx, 1, 2, "Not my comment")
		assertErrorCode(t, err, models.CodeForbidden)
	})
}

func TestCommentService_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("only the author may delete", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, AuthorID: 9}, nil
		}
		svc := newTestCommentService(commentRepo, noopEventRepo())

		err := svc.Delete(ctx, 1, 2)
		assertErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("deletion has no time window", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, AuthorID: 1, CreatedOn: time.Now().Add(-72 * time.Hour)}, nil
		}
		svc := newTestCommentService(commentRepo, noopEventRepo())

		require.NoError(t, svc.Delete(ctx, 1, 2))
	})
}

func TestCommentService_ListByAuthor_EventScope(t *testing.T) {
	t.Parallel()

	commentRepo := noopCommentRepo()
	scoped := false
	commentRepo.listByAuthorAndEventFn = func(_ context.Context, authorID, eventID uint) ([]models.Comment, error) {
		scoped = true
		assert.Equal(t, uint(1), authorID)
		assert.Equal(t, uint(2), eventID)
		return nil, nil
	}
	svc := newTestCommentService(commentRepo, noopEventRepo())

	eventID := uint(2)
	_, err := svc.ListByAuthor(context.Background(), 1, &eventID)
	require.NoError(t, err)
	assert.True(t, scoped)
}
