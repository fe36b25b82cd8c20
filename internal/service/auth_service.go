package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/edunexus-app/backend/internal/dto"
	"github.com/edunexus-app/backend/internal/model"
	"github.com/edunexus-app/backend/internal/repository"
	"github.com/edunexus-app/backend/pkg/apperror"
)

// Unknown email and wrong password produce the same message so the
// response does not leak which part failed.
var errInvalidCredentials = fmt.Errorf("%w: invalid credentials", apperror.ErrUnauthorized)

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, input dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID uuid.UUID) (*model.User, error)
}

type authService struct {
	repo   repository.UserRepository
	tokens *TokenManager
}

func NewAuthService(repo repository.UserRepository, tokens *TokenManager) AuthService {
	return &authService{repo: repo, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, input dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%w: email already in use", apperror.ErrConflict)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role := model.RoleStudent
	if input.Role != "" && model.ValidRole(input.Role) {
		role = input.Role
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Name:         input.Name,
		Email:        email,
		PasswordHash: string(hashed),
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		// Unique index on email catches the race between the existence
		// check above and the insert.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: email already in use", apperror.ErrConflict)
		}
		return nil, err
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Login(ctx context.Context, input dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, errInvalidCredentials
	}

	return s.buildAuthResponse(user)
}

func (s *authService) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", apperror.ErrNotFound)
		}
		return nil, err
	}

	return user, nil
}

func (s *authService) buildAuthResponse(user *model.User) (*dto.AuthResponse, error) {
	token, err := s.tokens.Generate(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token: token,
		User:  PublicUser(user),
	}, nil
}

// PublicUser strips everything the API should not expose.
func PublicUser(user *model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		AvatarURL:  user.AvatarURL,
		Bio:        user.Bio,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}
}
