package model

import (
	"time"
)

// Booking is keyed by (Treatment, FormattedDate, UserName); every other field
// is optional on create.
type Booking struct {
	ID            string    `json:"_id,omitempty" bson:"_id,omitempty"`
	Treatment     string    `json:"treatment" bson:"treatment" validate:"required,min=2,max=100"`
	FormattedDate string    `json:"formattedDate" bson:"formattedDate" validate:"required,max=40"`
	Slot          string    `json:"slot,omitempty" bson:"slot,omitempty" validate:"omitempty,max=50"`
	Name          string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	UserName      string    `json:"userName" bson:"userName" validate:"required,min=1,max=100"`
	Email         string    `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone         string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Price         float64   `json:"price" bson:"price" validate:"gte=0"`
	Paid          bool      `json:"paid" bson:"paid"`
	TransactionID string    `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}

// InsertResult mirrors the acknowledgement the portal front end expects
// under "result" on a successful booking.
type InsertResult struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedID   string `json:"insertedId"`
}

// CreateResult is the body of POST /api/bookings. A duplicate is not an
// error: Success is false and Booking carries the stored booking.
type CreateResult struct {
	Success bool          `json:"success"`
	Result  *InsertResult `json:"result,omitempty"`
	Booking *Booking      `json:"booking,omitempty"`
}

// BookingPayment is the body of PATCH /api/bookings/:id. Payload keeps the
// raw request for the payment record.
type BookingPayment struct {
	TransactionID string         `json:"transactionId" validate:"required,max=255"`
	Payload       map[string]any `json:"-"`
}
