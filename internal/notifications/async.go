package notifications

import (
	"context"
	"sync"
	"time"

	"doctorsportal/pkg/logger"
	"doctorsportal/pkg/middleware"
	"doctorsportal/pkg/model"
)

// AsyncNotifier sends the confirmation on its own goroutine. Failures are
// logged and dropped.
type AsyncNotifier struct {
	sender  Sender
	timeout time.Duration
	log     *logger.Logger
	wg      sync.WaitGroup
}

func NewAsyncNotifier(sender Sender, timeout time.Duration, log *logger.Logger) *AsyncNotifier {
	return &AsyncNotifier{
		sender:  sender,
		timeout: timeout,
		log:     log,
	}
}

func (n *AsyncNotifier) BookingCreated(ctx context.Context, booking model.Booking) {
	requestID := middleware.RequestID(ctx)

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
		defer cancel()

		if err := n.sender.SendConfirmation(sendCtx, booking); err != nil {
			n.log.Warn("Failed to send booking confirmation",
				"request_id", requestID,
				"booking_id", booking.ID,
				"email", booking.Email,
				"error", err,
			)
		}
	}()
}

// Wait blocks until in-flight sends finish or ctx is done.
func (n *AsyncNotifier) Wait(ctx context.Context) error {
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
