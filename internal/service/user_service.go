package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edunexus-app/backend/internal/dto"
	"github.com/edunexus-app/backend/internal/model"
	"github.com/edunexus-app/backend/internal/repository"
	"github.com/edunexus-app/backend/pkg/apperror"
)

// UserService backs the admin user-management endpoints.
type UserService interface {
	List(ctx context.Context, filter dto.UserFilter) ([]dto.UserResponse, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	Update(ctx context.Context, id uuid.UUID, input dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) List(ctx context.Context, filter dto.UserFilter) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, PublicUser(u))
	}
	return out, total, nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := PublicUser(user)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, input dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Bio != nil {
		user.Bio = *input.Bio
	}
	if input.AvatarURL != nil {
		user.AvatarURL = *input.AvatarURL
	}
	if input.Role != nil {
		if !model.ValidRole(*input.Role) {
			return nil, fmt.Errorf("%w: unknown role %q", apperror.ErrBadRequest, *input.Role)
		}
		user.Role = *input.Role
	}
	if input.IsVerified != nil {
		user.IsVerified = *input.IsVerified
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	resp := PublicUser(user)
	return &resp, nil
}

func (s *userService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findUser(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *userService) findUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, err
	}
	return user, nil
}
