package service

import (
	"context"
	"strings"

	apperrors "doctorsportal/pkg/errors"
	"doctorsportal/pkg/logger"
	"doctorsportal/pkg/model"
)

// AvailableSlots removes from each service the slots already booked under
// that service's name. Inputs are never mutated and slot order is preserved.
// Bookings naming an unknown service are ignored.
func AvailableSlots(services []model.Service, bookingsOnDate []model.Booking) []model.Service {
	booked := make(map[string]map[string]struct{}, len(services))
	for _, b := range bookingsOnDate {
		slots, ok := booked[b.Name]
		if !ok {
			slots = make(map[string]struct{})
			booked[b.Name] = slots
		}
		slots[b.Slot] = struct{}{}
	}

	result := make([]model.Service, 0, len(services))
	for _, svc := range services {
		available := svc.Clone()
		taken, ok := booked[svc.Name]
		if ok {
			available.Slots = make([]string, 0, len(svc.Slots))
			for _, slot := range svc.Slots {
				if _, isTaken := taken[slot]; !isTaken {
					available.Slots = append(available.Slots, slot)
				}
			}
		}
		result = append(result, available)
	}
	return result
}

type ServiceLister interface {
	List(ctx context.Context) ([]model.Service, error)
}

type BookingsByDate interface {
	FindByDate(ctx context.Context, formattedDate string) ([]model.Booking, error)
}

type AvailabilityService interface {
	Available(ctx context.Context, date string) ([]model.Service, error)
}

type availabilityService struct {
	services ServiceLister
	bookings BookingsByDate
	log      *logger.Logger
}

func NewAvailabilityService(services ServiceLister, bookings BookingsByDate, log *logger.Logger) AvailabilityService {
	return &availabilityService{
		services: services,
		bookings: bookings,
		log:      log,
	}
}

func (s *availabilityService) Available(ctx context.Context, date string) ([]model.Service, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return nil, apperrors.InvalidInput("date query parameter is required")
	}

	services, err := s.services.List(ctx)
	if err != nil {
		s.log.Error("Failed to list services", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to retrieve services", err)
	}

	bookings, err := s.bookings.FindByDate(ctx, date)
	if err != nil {
		s.log.Error("Failed to list bookings for date", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return AvailableSlots(services, bookings), nil
}
