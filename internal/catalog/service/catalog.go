package service

import (
	"context"
	"errors"

	"doctorsportal/internal/catalog/repository"
	apperrors "doctorsportal/pkg/errors"
	"doctorsportal/pkg/logger"
	"doctorsportal/pkg/model"
	"doctorsportal/pkg/sanitizer"
	"doctorsportal/pkg/validation"
)

type CatalogService interface {
	List(ctx context.Context) ([]model.Service, error)
	ListNames(ctx context.Context) ([]model.ServiceName, error)
	Create(ctx context.Context, service *model.Service) error
}

type catalogService struct {
	repo     repository.ServiceRepository
	validate *validation.Validator
	log      *logger.Logger
}

func NewCatalogService(repo repository.ServiceRepository, log *logger.Logger) CatalogService {
	return &catalogService{
		repo:     repo,
		validate: validation.New(),
		log:      log,
	}
}

func (s *catalogService) List(ctx context.Context) ([]model.Service, error) {
	services, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("Failed to list services", "error", err)
		return nil, apperrors.Internal("Failed to retrieve services", err)
	}
	return services, nil
}

func (s *catalogService) ListNames(ctx context.Context) ([]model.ServiceName, error) {
	names, err := s.repo.ListNames(ctx)
	if err != nil {
		s.log.Error("Failed to list service names", "error", err)
		return nil, apperrors.Internal("Failed to retrieve services", err)
	}
	return names, nil
}

func (s *catalogService) Create(ctx context.Context, service *model.Service) error {
	service.Name = sanitizer.TrimAndNormalize(service.Name)
	service.Slots = sanitizer.NormalizeSlots(service.Slots)

	if err := s.validate.Struct(service); err != nil {
		return validation.ToAppError(err)
	}

	if err := s.repo.Create(ctx, service); err != nil {
		if errors.Is(err, repository.ErrDuplicateName) {
			return apperrors.Conflict("Service already exists").WithDetails(map[string]any{"name": service.Name})
		}
		s.log.Error("Failed to create service", "name", service.Name, "error", err)
		return apperrors.Internal("Failed to create service", err)
	}

	s.log.Info("Service created successfully", "id", service.ID, "name", service.Name, "slots", len(service.Slots))
	return nil
}
