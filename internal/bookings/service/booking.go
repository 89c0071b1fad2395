package service

import (
	"context"
	"errors"
	"sync"

	bookingserrors "doctorsportal/internal/bookings/errors"
	"doctorsportal/internal/bookings/repository"
	"doctorsportal/internal/bookings/validator"
	"doctorsportal/pkg/config"
	apperrors "doctorsportal/pkg/errors"
	"doctorsportal/pkg/model"
	"doctorsportal/pkg/sanitizer"
	"doctorsportal/pkg/validation"
)

// Notifier is told about every newly stored booking. Implementations must not
// block the caller and must not report delivery failures back.
type Notifier interface {
	BookingCreated(ctx context.Context, booking model.Booking)
}

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) (*model.CreateResult, error)
	ListForRequester(ctx context.Context, email string) ([]model.Booking, error)
	ListAll(ctx context.Context, limit int, offset int64) ([]model.Booking, int64, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	MarkPaid(ctx context.Context, id string, payment *model.BookingPayment) (*model.Booking, error)
	Delete(ctx context.Context, id string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	validator *validator.BookingValidator
	notifier  Notifier
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	validator *validator.BookingValidator,
	notifier Notifier,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		validator: validator,
		notifier:  notifier,
		cfg:       cfg,
	}
}

// Create stores the booking unless the same user already booked the same
// treatment on the same date, in which case the stored booking is returned
// with Success false.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) (*model.CreateResult, error) {
	s.sanitize(booking)
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return nil, validation.ToAppError(err)
	}

	existing, err := s.findConflict(ctx, booking)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &model.CreateResult{Success: false, Booking: existing}, nil
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		if !errors.Is(err, bookingserrors.ErrDuplicate) {
			s.cfg.Log.Error("Failed to create booking", "error", err)
			return nil, apperrors.Internal("Failed to create booking", err)
		}

		// Lost the race against a concurrent identical request.
		winner, findErr := s.repo.FindDuplicate(ctx, booking.Treatment, booking.FormattedDate, booking.UserName)
		if findErr != nil {
			s.cfg.Log.Error("Failed to re-read duplicate booking", "error", findErr)
			return nil, apperrors.Conflict("Booking already exists")
		}
		return &model.CreateResult{Success: false, Booking: winner}, nil
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"treatment", booking.Treatment,
		"formatted_date", booking.FormattedDate,
		"slot", booking.Slot,
	)

	if s.notifier != nil && booking.Email != "" {
		s.notifier.BookingCreated(ctx, *booking)
	}

	return &model.CreateResult{
		Success: true,
		Result:  &model.InsertResult{Acknowledged: true, InsertedID: booking.ID},
	}, nil
}

func (s *bookingService) findConflict(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	existing, err := s.repo.FindDuplicate(ctx, booking.Treatment, booking.FormattedDate, booking.UserName)
	switch {
	case err == nil:
		return existing, nil
	case !errors.Is(err, bookingserrors.ErrNotFound):
		s.cfg.Log.Error("Failed to check for duplicate booking", "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	if !s.cfg.EnforceSlotExclusivity || booking.Slot == "" {
		return nil, nil
	}

	taken, err := s.repo.FindSlotTaken(ctx, booking.Name, booking.FormattedDate, booking.Slot)
	switch {
	case err == nil:
		return taken, nil
	case errors.Is(err, bookingserrors.ErrNotFound):
		return nil, nil
	default:
		s.cfg.Log.Error("Failed to check slot availability", "error", err)
		return nil, apperrors.Internal("Failed to create booking", err)
	}
}

func (s *bookingService) ListForRequester(ctx context.Context, email string) ([]model.Booking, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.InvalidInput("email query parameter is required")
	}

	bookings, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings for requester", "email", email, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) ListAll(ctx context.Context, limit int, offset int64) ([]model.Booking, int64, error) {
	var count int64
	var bookings []model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindAll(ctx, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return bookings, count, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve booking")
	}
	return booking, nil
}

// MarkPaid records the payment and returns the booking as stored afterwards.
func (s *bookingService) MarkPaid(ctx context.Context, id string, payment *model.BookingPayment) (*model.Booking, error) {
	payment.TransactionID = sanitizer.TrimAndNormalize(payment.TransactionID)
	if err := s.validator.ValidatePayment(payment); err != nil {
		return nil, validation.ToAppError(err)
	}

	record := &model.Payment{
		TransactionID: payment.TransactionID,
		Payload:       payment.Payload,
	}
	booking, err := s.repo.MarkPaid(ctx, id, record)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to record payment")
	}

	s.cfg.Log.Info("Booking marked paid",
		"id", id,
		"payment_id", record.ID,
		"transaction_id", record.TransactionID,
	)
	return booking, nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapRepoError(err, id, "Failed to delete booking")
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id)
	return nil
}

func (s *bookingService) mapRepoError(err error, id, message string) error {
	switch {
	case errors.Is(err, bookingserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, bookingserrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	case apperrors.IsAppError(err):
		return err
	default:
		s.cfg.Log.Error(message, "id", id, "error", err)
		return apperrors.Internal(message, err)
	}
}

func (s *bookingService) sanitize(booking *model.Booking) {
	booking.Treatment = sanitizer.TrimAndNormalize(booking.Treatment)
	booking.FormattedDate = sanitizer.TrimAndNormalize(booking.FormattedDate)
	booking.Slot = sanitizer.NormalizeSlot(booking.Slot)
	booking.Name = sanitizer.TrimAndNormalize(booking.Name)
	booking.UserName = sanitizer.NormalizeName(booking.UserName)
	booking.Email = sanitizer.NormalizeEmail(booking.Email)

	if booking.Name == "" {
		booking.Name = booking.Treatment
	}

	phone := sanitizer.TrimAndNormalize(booking.Phone)
	if normalized := sanitizer.NormalizePhone(phone); normalized != "" {
		phone = normalized
	}
	booking.Phone = phone
}
