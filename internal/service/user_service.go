package service

import (
	"context"
	"strings"

	"gatherly/internal/models"
	"gatherly/internal/repository"
)

// UserService manages the administrator-scoped user CRUD.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput is the payload for registering a user.
type CreateUserInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Create registers a new user.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*models.User, error) {
	if err := checkLength("Name", in.Name, minUserNameLen, maxUserNameLen); err != nil {
		return nil, err
	}
	if err := checkLength("Email", in.Email, minUserEmailLen, maxUserEmailLen); err != nil {
		return nil, err
	}
	if !strings.Contains(in.Email, "@") {
		return nil, models.NewValidationError("Email must be a valid address")
	}

	user := &models.User{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns users by ids, or all users paged when no ids are given.
func (s *UserService) List(ctx context.Context, ids []uint, from, size int) ([]models.User, error) {
	return s.userRepo.List(ctx, ids, size, pageOffset(from, size))
}

// Delete removes a user by id.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.userRepo.Delete(ctx, id)
}
