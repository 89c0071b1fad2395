package model

import "time"

// Payment is the audit record written when a booking is marked paid.
type Payment struct {
	ID            string         `json:"_id,omitempty" bson:"_id,omitempty"`
	BookingID     string         `json:"bookingId" bson:"bookingId"`
	TransactionID string         `json:"transactionId" bson:"transactionId"`
	Payload       map[string]any `json:"payload,omitempty" bson:"payload,omitempty"`
	CreatedAt     time.Time      `json:"createdAt" bson:"createdAt"`
}

type PaymentIntentRequest struct {
	Price float64 `json:"price"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}
