package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"gatherly/internal/models"
	"gatherly/internal/repository"
	"gatherly/internal/statsclient"

	"github.com/stretchr/testify/require"
)

// eventRepoStub is a stub for repository.EventRepository.
type eventRepoStub struct {
	createFn              func(context.Context, *models.Event) error
	saveFn                func(context.Context, *models.Event) error
	getByIDFn             func(context.Context, uint) (*models.Event, error)
	getByIDAndInitiatorFn func(context.Context, uint, uint) (*models.Event, error)
	listByInitiatorFn     func(context.Context, uint, int, int) ([]models.Event, error)
	listByIDsFn           func(context.Context, []uint) ([]models.Event, error)
	adminSearchFn         func(context.Context, repository.AdminEventFilter) ([]models.Event, error)
	publicSearchFn        func(context.Context, repository.PublicEventFilter) ([]models.Event, error)
	bumpViewsFn           func(context.Context, []uint) error
}

func (s *eventRepoStub) Create(ctx context.Context, event *models.Event) error {
	return s.createFn(ctx, event)
}
func (s *eventRepoStub) Save(ctx context.Context, event *models.Event) error {
	return s.saveFn(ctx, event)
}
func (s *eventRepoStub) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	return s.getByIDFn(ctx, id)
}
func (s *eventRepoStub) GetByIDAndInitiator(ctx context.Context, id, initiatorID uint) (*models.Event, error) {
	return s.getByIDAndInitiatorFn(ctx, id, initiatorID)
}
func (s *eventRepoStub) ListByInitiator(ctx context.Context, initiatorID uint, limit, offset int) ([]models.Event, error) {
	return s.listByInitiatorFn(ctx, initiatorID, limit, offset)
}
func (s *eventRepoStub) ListByIDs(ctx context.Context, ids []uint) ([]models.Event, error) {
	return s.listByIDsFn(ctx, ids)
}
func (s *eventRepoStub) AdminSearch(ctx context.Context, filter repository.AdminEventFilter) ([]models.Event, error) {
	return s.adminSearchFn(ctx, filter)
}
func (s *eventRepoStub) PublicSearch(ctx context.Context, filter repository.PublicEventFilter) ([]models.Event, error) {
	return s.publicSearchFn(ctx, filter)
}
func (s *eventRepoStub) BumpViews(ctx context.Context, ids []uint) error {
	return s.bumpViewsFn(ctx, ids)
}

func noopEventRepo() *eventRepoStub {
	return &eventRepoStub{
		createFn: func(_ context.Context, _ *models.Event) error { return nil },
		saveFn:   func(_ context.Context, _ *models.Event) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Event, error) {
			return &models.Event{ID: id}, nil
		},
		getByIDAndInitiatorFn: func(_ context.Context, id, initiatorID uint) (*models.Event, error) {
			return &models.Event{ID: id, InitiatorID: initiatorID}, nil
		},
		listByInitiatorFn: func(_ context.Context, _ uint, _, _ int) ([]models.Event, error) { return nil, nil },
		listByIDsFn:       func(_ context.Context, _ []uint) ([]models.Event, error) { return nil, nil },
		adminSearchFn: func(_ context.Context, _ repository.AdminEventFilter) ([]models.Event, error) {
			return nil, nil
		},
		publicSearchFn: func(_ context.Context, _ repository.PublicEventFilter) ([]models.Event, error) {
			return nil, nil
		},
		bumpViewsFn: func(_ context.Context, _ []uint) error { return nil },
	}
}

// requestRepoStub is a stub for repository.RequestRepository.
type requestRepoStub struct {
	createFn                      func(context.Context, *models.Request) error
	saveFn                        func(context.Context, *models.Request) error
	getByIDFn                     func(context.Context, uint) (*models.Request, error)
	listByRequesterFn             func(context.Context, uint) ([]models.Request, error)
	listByEventFn                 func(context.Context, uint) ([]models.Request, error)
	listByIDsFn                   func(context.Context, []uint) ([]models.Request, error)
	listByEventAndStatusFn        func(context.Context, uint, models.RequestStatus) ([]models.Request, error)
	findLiveByEventAndRequesterFn func(context.Context, uint, uint) (*models.Request, error)
	updateStatusesFn              func(context.Context, []uint, models.RequestStatus) error
	confirmedCountsFn             func(context.Context, []uint) (map[uint]int64, error)
}

func (s *requestRepoStub) Create(ctx context.Context, request *models.Request) error {
	return s.createFn(ctx, request)
}
func (s *requestRepoStub) Save(ctx context.Context, request *models.Request) error {
	return s.saveFn(ctx, request)
}
func (s *requestRepoStub) GetByID(ctx context.Context, id uint) (*models.Request, error) {
	return s.getByIDFn(ctx, id)
}
func (s *requestRepoStub) ListByRequester(ctx context.Context, requesterID uint) ([]models.Request, error) {
	return s.listByRequesterFn(ctx, requesterID)
}
func (s *requestRepoStub) ListByEvent(ctx context.Context, eventID uint) ([]models.Request, error) {
	return s.listByEventFn(ctx, eventID)
}
func (s *requestRepoStub) ListByIDs(ctx context.Context, ids []uint) ([]models.Request, error) {
	return s.listByIDsFn(ctx, ids)
}
func (s *requestRepoStub) ListByEventAndStatus(ctx context.Context, eventID uint, status models.RequestStatus) ([]models.Request, error) {
	return s.listByEventAndStatusFn(ctx, eventID, status)
}
func (s *requestRepoStub) FindLiveByEventAndRequester(ctx context.Context, eventID, requesterID uint) (*models.Request, error) {
	return s.findLiveByEventAndRequesterFn(ctx, eventID, requesterID)
}
func (s *requestRepoStub) UpdateStatuses(ctx context.Context, ids []uint, status models.RequestStatus) error {
	return s.updateStatusesFn(ctx, ids, status)
}
func (s *requestRepoStub) ConfirmedCounts(ctx context.Context, eventIDs []uint) (map[uint]int64, error) {
	return s.confirmedCountsFn(ctx, eventIDs)
}

func noopRequestRepo() *requestRepoStub {
	return &requestRepoStub{
		createFn: func(_ context.Context, _ *models.Request) error { return nil },
		saveFn:   func(_ context.Context, _ *models.Request) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Request, error) {
			return &models.Request{ID: id}, nil
		},
		listByRequesterFn: func(_ context.Context, _ uint) ([]models.Request, error) { return nil, nil },
		listByEventFn:     func(_ context.Context, _ uint) ([]models.Request, error) { return nil, nil },
		listByIDsFn:       func(_ context.Context, _ []uint) ([]models.Request, error) { return nil, nil },
		listByEventAndStatusFn: func(_ context.Context, _ uint, _ models.RequestStatus) ([]models.Request, error) {
			return nil, nil
		},
		findLiveByEventAndRequesterFn: func(_ context.Context, _, _ uint) (*models.Request, error) {
			return nil, nil
		},
		updateStatusesFn: func(_ context.Context, _ []uint, _ models.RequestStatus) error { return nil },
		confirmedCountsFn: func(_ context.Context, _ []uint) (map[uint]int64, error) {
			return map[uint]int64{}, nil
		},
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn  func(context.Context, *models.User) error
	getByIDFn func(context.Context, uint) (*models.User, error)
	listFn    func(context.Context, []uint, int, int) ([]models.User, error)
	deleteFn  func(context.Context, uint) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, ids []uint, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, ids, limit, offset)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		createFn: func(_ context.Context, _ *models.User) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		listFn:   func(_ context.Context, _ []uint, _, _ int) ([]models.User, error) { return nil, nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	createFn  func(context.Context, *models.Category) error
	getByIDFn func(context.Context, uint) (*models.Category, error)
	updateFn  func(context.Context, *models.Category) error
	deleteFn  func(context.Context, uint) error
	listFn    func(context.Context, int, int) ([]models.Category, error)
}

func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) Update(ctx context.Context, category *models.Category) error {
	return s.updateFn(ctx, category)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *categoryRepoStub) List(ctx context.Context, limit, offset int) ([]models.Category, error) {
	return s.listFn(ctx, limit, offset)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		createFn: func(_ context.Context, _ *models.Category) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, Name: "concerts"}, nil
		},
		updateFn: func(_ context.Context, _ *models.Category) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
		listFn:   func(_ context.Context, _, _ int) ([]models.Category, error) { return nil, nil },
	}
}

// locationRepoStub is a stub for repository.LocationRepository.
type locationRepoStub struct {
	getOrCreateFn func(context.Context, float64, float64) (*models.Location, error)
}

func (s *locationRepoStub) GetOrCreate(ctx context.Context, lat, lon float64) (*models.Location, error) {
	return s.getOrCreateFn(ctx, lat, lon)
}

func noopLocationRepo() *locationRepoStub {
	return &locationRepoStub{
		getOrCreateFn: func(_ context.Context, lat, lon float64) (*models.Location, error) {
			return &models.Location{ID: 1, Lat: lat, Lon: lon}, nil
		},
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn               func(context.Context, *models.Comment) error
	saveFn                 func(context.Context, *models.Comment) error
	getByIDFn              func(context.Context, uint) (*models.Comment, error)
	deleteFn               func(context.Context, uint) error
	listByAuthorFn         func(context.Context, uint) ([]models.Comment, error)
	listByAuthorAndEventFn func(context.Context, uint, uint) ([]models.Comment, error)
	listByEventFn          func(context.Context, uint, int, int) ([]models.Comment, error)
	listFn                 func(context.Context, int, int) ([]models.Comment, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) Save(ctx context.Context, comment *models.Comment) error {
	return s.saveFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *commentRepoStub) ListByAuthor(ctx context.Context, authorID uint) ([]models.Comment, error) {
	return s.listByAuthorFn(ctx, authorID)
}
func (s *commentRepoStub) ListByAuthorAndEvent(ctx context.Context, authorID, eventID uint) ([]models.Comment, error) {
	return s.listByAuthorAndEventFn(ctx, authorID, eventID)
}
func (s *commentRepoStub) ListByEvent(ctx context.Context, eventID uint, limit, offset int) ([]models.Comment, error) {
	return s.listByEventFn(ctx, eventID, limit, offset)
}
func (s *commentRepoStub) List(ctx context.Context, limit, offset int) ([]models.Comment, error) {
	return s.listFn(ctx, limit, offset)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn: func(_ context.Context, _ *models.Comment) error { return nil },
		saveFn:   func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, CreatedOn: time.Now()}, nil
		},
		deleteFn:       func(_ context.Context, _ uint) error { return nil },
		listByAuthorFn: func(_ context.Context, _ uint) ([]models.Comment, error) { return nil, nil },
		listByAuthorAndEventFn: func(_ context.Context, _, _ uint) ([]models.Comment, error) {
			return nil, nil
		},
		listByEventFn: func(_ context.Context, _ uint, _, _ int) ([]models.Comment, error) { return nil, nil },
		listFn:        func(_ context.Context, _, _ int) ([]models.Comment, error) { return nil, nil },
	}
}

// statsClientStub is a stub for statsclient.StatsClient.
type statsClientStub struct {
	addHitFn func(context.Context, string, string)
	statsFn  func(context.Context, time.Time, time.Time, []string, bool) ([]statsclient.ViewStats, error)
}

func (s *statsClientStub) AddHit(ctx context.Context, uri, ip string) {
	s.addHitFn(ctx, uri, ip)
}
func (s *statsClientStub) Stats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]statsclient.ViewStats, error) {
	return s.statsFn(ctx, start, end, uris, unique)
}

func noopStatsClient() *statsClientStub {
	return &statsClientStub{
		addHitFn: func(_ context.Context, _, _ string) {},
		statsFn: func(_ context.Context, _, _ time.Time, _ []string, _ bool) ([]statsclient.ViewStats, error) {
			return nil, nil
		},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStatsService(requestRepo repository.RequestRepository) *StatsService {
	return NewStatsService(noopStatsClient(), requestRepo, testLogger())
}

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*models.AppError)
	require.True(t, ok, "expected *models.AppError, got %T", err)
	require.Equal(t, code, appErr.Code)
}
