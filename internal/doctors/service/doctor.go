package service

import (
	"context"
	"errors"

	"doctorsportal/internal/doctors/repository"
	apperrors "doctorsportal/pkg/errors"
	"doctorsportal/pkg/logger"
	"doctorsportal/pkg/model"
	"doctorsportal/pkg/sanitizer"
	"doctorsportal/pkg/validation"
)

type DoctorService interface {
	List(ctx context.Context) ([]model.Doctor, error)
	Create(ctx context.Context, doctor *model.Doctor) error
	Delete(ctx context.Context, email string) error
}

type doctorService struct {
	repo     repository.DoctorRepository
	validate *validation.Validator
	log      *logger.Logger
}

func NewDoctorService(repo repository.DoctorRepository, log *logger.Logger) DoctorService {
	return &doctorService{
		repo:     repo,
		validate: validation.New(),
		log:      log,
	}
}

func (s *doctorService) List(ctx context.Context) ([]model.Doctor, error) {
	doctors, err := s.repo.List(ctx)
	if err != nil {
		s.log.Error("Failed to list doctors", "error", err)
		return nil, apperrors.Internal("Failed to retrieve doctors", err)
	}
	return doctors, nil
}

func (s *doctorService) Create(ctx context.Context, doctor *model.Doctor) error {
	doctor.Name = sanitizer.NormalizeName(doctor.Name)
	doctor.Email = sanitizer.NormalizeEmail(doctor.Email)
	doctor.Specialty = sanitizer.TrimAndNormalize(doctor.Specialty)
	doctor.Img = sanitizer.NormalizeURL(doctor.Img)

	if err := s.validate.Struct(doctor); err != nil {
		return validation.ToAppError(err)
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperrors.Conflict("Doctor already exists").WithDetails(map[string]any{"email": doctor.Email})
		}
		s.log.Error("Failed to create doctor", "email", doctor.Email, "error", err)
		return apperrors.Internal("Failed to create doctor", err)
	}

	s.log.Info("Doctor created successfully", "id", doctor.ID, "email", doctor.Email)
	return nil
}

func (s *doctorService) Delete(ctx context.Context, email string) error {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return apperrors.InvalidInput("Doctor email cannot be empty")
	}

	if err := s.repo.DeleteByEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFoundWithID("Doctor", email)
		}
		s.log.Error("Failed to delete doctor", "email", email, "error", err)
		return apperrors.Internal("Failed to delete doctor", err)
	}

	s.log.Info("Doctor deleted successfully", "email", email)
	return nil
}
