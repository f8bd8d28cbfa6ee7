package service

import (
	"context"

	"gatherly/internal/models"
	"gatherly/internal/repository"
)

// CompilationService manages curated event compilations.
type CompilationService struct {
	compilationRepo repository.CompilationRepository
	events          *EventService
}

// NewCompilationService creates a new compilation service.
func NewCompilationService(compilationRepo repository.CompilationRepository, events *EventService) *CompilationService {
	return &CompilationService{
		compilationRepo: compilationRepo,
		events:          events,
	}
}

// CreateCompilationInput is the payload for creating a compilation.
type CreateCompilationInput struct {
	Title  string `json:"title"`
	Pinned bool   `json:"pinned"`
	Events []uint `json:"events"`
}

// UpdateCompilationInput carries the optional fields of a compilation
// update. A non-nil Events replaces the whole membership set.
type UpdateCompilationInput struct {
	Title  *string `json:"title"`
	Pinned *bool   `json:"pinned"`
	Events []uint  `json:"events"`
}

// Create stores a new compilation. Every referenced event must resolve.
func (s *CompilationService) Create(ctx context.Context, in CreateCompilationInput) (*models.CompilationDetail, error) {
	if err := checkLength("Title", in.Title, minCompTitleLen, maxCompTitleLen); err != nil {
		return nil, err
	}

	var events []models.Event
	if len(in.Events) > 0 {
		var err error
		events, err = s.events.EventsByIDs(ctx, in.Events)
		if err != nil {
			return nil, err
		}
	}

	compilation := &models.Compilation{
		Title:  in.Title,
		Pinned: in.Pinned,
		Events: events,
	}
	if err := s.compilationRepo.Create(ctx, compilation); err != nil {
		return nil, err
	}
	return s.toDetail(ctx, compilation)
}

// Update patches a compilation's title, pinned flag and event set.
func (s *CompilationService) Update(ctx context.Context, compID uint, in UpdateCompilationInput) (*models.CompilationDetail, error) {
	compilation, err := s.compilationRepo.GetByID(ctx, compID)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if err := checkLength("Title", *in.Title, minCompTitleLen, maxCompTitleLen); err != nil {
			return nil, err
		}
		compilation.Title = *in.Title
	}
	if in.Pinned != nil {
		compilation.Pinned = *in.Pinned
	}
	if err := s.compilationRepo.Save(ctx, compilation); err != nil {
		return nil, err
	}

	if in.Events != nil {
		events, err := s.events.EventsByIDs(ctx, in.Events)
		if err != nil {
			return nil, err
		}
		if err := s.compilationRepo.ReplaceEvents(ctx, compilation, events); err != nil {
			return nil, err
		}
	}

	return s.toDetail(ctx, compilation)
}

// Delete removes a compilation; its events survive, only the membership
// rows go away.
func (s *CompilationService) Delete(ctx context.Context, compID uint) error {
	if _, err := s.compilationRepo.GetByID(ctx, compID); err != nil {
		return err
	}
	return s.compilationRepo.Delete(ctx, compID)
}

// List returns compilations, optionally filtered by pinned state.
func (s *CompilationService) List(ctx context.Context, pinned *bool, from, size int) ([]models.CompilationDetail, error) {
	compilations, err := s.compilationRepo.List(ctx, pinned, size, pageOffset(from, size))
	if err != nil {
		return nil, err
	}

	details := make([]models.CompilationDetail, 0, len(compilations))
	for i := range compilations {
		detail, err := s.toDetail(ctx, &compilations[i])
		if err != nil {
			return nil, err
		}
		details = append(details, *detail)
	}
	return details, nil
}

// GetByID returns one compilation with enriched event summaries.
func (s *CompilationService) GetByID(ctx context.Context, compID uint) (*models.CompilationDetail, error) {
	compilation, err := s.compilationRepo.GetByID(ctx, compID)
	if err != nil {
		return nil, err
	}
	return s.toDetail(ctx, compilation)
}

func (s *CompilationService) toDetail(ctx context.Context, compilation *models.Compilation) (*models.CompilationDetail, error) {
	summaries, err := s.events.Summaries(ctx, compilation.Events)
	if err != nil {
		return nil, err
	}
	return &models.CompilationDetail{
		ID:     compilation.ID,
		Title:  compilation.Title,
		Pinned: compilation.Pinned,
		Events: summaries,
	}, nil
}
