package notifications

import (
	"context"
	"errors"
	"sync"
	"time"

	"doctorsportal/pkg/kafka"
	"doctorsportal/pkg/logger"
	"doctorsportal/pkg/middleware"
	"doctorsportal/pkg/model"
)

const (
	EventBookingCreated = "booking.created"
	eventSchemaVersion  = "1"
	eventSource         = "doctorsportal"
)

// BookingCreatedEvent is the payload of a booking.created message.
type BookingCreatedEvent struct {
	Booking   model.Booking `json:"booking"`
	CreatedAt time.Time     `json:"createdAt"`
}

type publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaNotifier hands confirmations to the notifier service through the
// bookings topic, so delivery is retried there instead of lost on failure.
type KafkaNotifier struct {
	producer publisher
	timeout  time.Duration
	log      *logger.Logger
	wg       sync.WaitGroup
}

func NewKafkaNotifier(producer publisher, timeout time.Duration, log *logger.Logger) *KafkaNotifier {
	return &KafkaNotifier{
		producer: producer,
		timeout:  timeout,
		log:      log,
	}
}

func (n *KafkaNotifier) BookingCreated(ctx context.Context, booking model.Booking) {
	requestID := middleware.RequestID(ctx)

	msg, err := kafka.NewMessage().
		WithKey(booking.ID).
		WithEventID("").
		WithEventType(EventBookingCreated).
		WithSchemaVersion(eventSchemaVersion).
		WithSource(eventSource).
		WithCorrelationID(requestID).
		WithValue(BookingCreatedEvent{Booking: booking, CreatedAt: booking.CreatedAt}).
		Build()
	if err != nil {
		n.log.Error("Failed to build booking event", "booking_id", booking.ID, "error", err)
		return
	}

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
		defer cancel()

		if err := n.producer.Publish(pubCtx, msg); err != nil {
			n.log.Error("Failed to publish booking event",
				"request_id", requestID,
				"booking_id", booking.ID,
				"event_id", msg.GetEventID(),
				"error", err,
			)
		}
	}()
}

func (n *KafkaNotifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NewBookingCreatedHandler delivers confirmations for booking.created
// messages. Provider throttling and 5xx answers are retried, everything
// else goes to the DLQ.
func NewBookingCreatedHandler(sender Sender, log *logger.Logger) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		if eventType := msg.GetEventType(); eventType != EventBookingCreated {
			log.Debug("Skipping unrelated event", "event_type", eventType, "event_id", msg.GetEventID())
			return nil
		}

		var event BookingCreatedEvent
		if err := msg.DecodeValue(&event); err != nil {
			return err
		}

		err := sender.SendConfirmation(ctx, event.Booking)
		if err == nil {
			return nil
		}

		var sendErr *SendError
		switch {
		case errors.Is(err, ErrNotConfigured):
			return kafka.NewPermanentError("email sender not configured", err)
		case errors.As(err, &sendErr) && !sendErr.Retryable():
			return kafka.NewPermanentError("confirmation rejected by provider", err)
		default:
			return kafka.NewTransientError("confirmation delivery failed", err)
		}
	}
}
