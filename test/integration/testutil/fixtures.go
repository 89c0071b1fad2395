package testutil

import (
	"doctorsportal/pkg/model"
)

var DefaultSlots = []string{
	"08.00 AM - 08.30 AM",
	"08.30 AM - 09.00 AM",
	"09.00 AM - 09.30 AM",
}

func NewService(name string) model.Service {
	return model.Service{
		Name:  name,
		Slots: append([]string(nil), DefaultSlots...),
		Price: 25,
	}
}

type BookingBuilder struct {
	booking model.Booking
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		booking: model.Booking{
			Treatment:     "Teeth Cleaning",
			FormattedDate: "May 5, 2026",
			Slot:          DefaultSlots[0],
			Name:          "Teeth Cleaning",
			UserName:      "Jane Roe",
			Email:         "jane@example.com",
			Phone:         "+14155552671",
			Price:         25,
		},
	}
}

func (b *BookingBuilder) WithTreatment(treatment string) *BookingBuilder {
	b.booking.Treatment = treatment
	b.booking.Name = treatment
	return b
}

func (b *BookingBuilder) WithDate(date string) *BookingBuilder {
	b.booking.FormattedDate = date
	return b
}

func (b *BookingBuilder) WithSlot(slot string) *BookingBuilder {
	b.booking.Slot = slot
	return b
}

func (b *BookingBuilder) WithUser(userName, email string) *BookingBuilder {
	b.booking.UserName = userName
	b.booking.Email = email
	return b
}

func (b *BookingBuilder) WithPhone(phone string) *BookingBuilder {
	b.booking.Phone = phone
	return b
}

func (b *BookingBuilder) Build() model.Booking {
	return b.booking
}
