package service

import (
	"context"
	"errors"

	"doctorsportal/internal/users/repository"
	"doctorsportal/pkg/config"
	apperrors "doctorsportal/pkg/errors"
	"doctorsportal/pkg/logger"
	"doctorsportal/pkg/model"
	"doctorsportal/pkg/sanitizer"
	"doctorsportal/pkg/validation"
)

type TokenIssuer interface {
	Issue(email string) (string, error)
}

// Roles reads roles through the cache and drops cached entries after a write.
type Roles interface {
	Role(ctx context.Context, email string) (string, error)
	Invalidate(ctx context.Context, email string)
}

type UserService interface {
	Upsert(ctx context.Context, email string, profile map[string]any) (*model.UserUpsertResponse, error)
	MakeAdmin(ctx context.Context, email string) (*model.UpsertResult, error)
	IsAdmin(ctx context.Context, email string) (*model.AdminStatus, error)
	List(ctx context.Context) ([]model.User, error)
}

type userService struct {
	repo     repository.UserRepository
	tokens   TokenIssuer
	roles    Roles
	validate *validation.Validator
	log      *logger.Logger
}

func NewUserService(repo repository.UserRepository, tokens TokenIssuer, roles Roles, log *logger.Logger) UserService {
	return &userService{
		repo:     repo,
		tokens:   tokens,
		roles:    roles,
		validate: validation.New(),
		log:      log,
	}
}

type emailParam struct {
	Email string `json:"email" validate:"required,email,max=254"`
}

func (s *userService) normalizeEmail(email string) (string, error) {
	email = sanitizer.NormalizeEmail(email)
	if err := s.validate.Struct(emailParam{Email: email}); err != nil {
		return "", validation.ToAppError(err)
	}
	return email, nil
}

// Upsert writes the profile and issues a fresh access token for email.
func (s *userService) Upsert(ctx context.Context, email string, profile map[string]any) (*model.UserUpsertResponse, error) {
	email, err := s.normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	result, err := s.repo.Upsert(ctx, email, profile)
	if err != nil {
		s.log.Error("Failed to upsert user", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to save user", err)
	}

	token, err := s.tokens.Issue(email)
	if err != nil {
		s.log.Error("Failed to issue access token", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to issue access token", err)
	}

	return &model.UserUpsertResponse{Result: *result, Token: token}, nil
}

func (s *userService) MakeAdmin(ctx context.Context, email string) (*model.UpsertResult, error) {
	email, err := s.normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	result, err := s.repo.SetRole(ctx, email, config.RoleAdmin)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", email)
		}
		s.log.Error("Failed to promote user", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to update user role", err)
	}
	s.roles.Invalidate(ctx, email)

	s.log.Info("User promoted to admin", "email", email)
	return result, nil
}

func (s *userService) IsAdmin(ctx context.Context, email string) (*model.AdminStatus, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return &model.AdminStatus{Admin: false}, nil
	}

	role, err := s.roles.Role(ctx, email)
	if err != nil {
		s.log.Error("Failed to read role", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to verify role", err)
	}
	return &model.AdminStatus{Admin: role == config.RoleAdmin}, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("Failed to list users", "error", err)
		return nil, apperrors.Internal("Failed to retrieve users", err)
	}
	return users, nil
}
