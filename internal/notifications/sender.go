package notifications

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"doctorsportal/pkg/config"
	"doctorsportal/pkg/logger"
	"doctorsportal/pkg/model"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

var ErrNotConfigured = errors.New("email sender not configured")

// SendError carries a non-2xx answer from the mail provider.
type SendError struct {
	StatusCode int
	Body       string
}

func (e *SendError) Error() string {
	return fmt.Sprintf("mail provider returned %d: %s", e.StatusCode, e.Body)
}

// Retryable reports whether the same request may succeed later.
func (e *SendError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

type Sender interface {
	SendConfirmation(ctx context.Context, booking model.Booking) error
}

type mailClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

type sendgridSender struct {
	client mailClient
	from   *mail.Email
	log    *logger.Logger
}

// NewSendGridSender returns a sender that fails with ErrNotConfigured when
// EMAIL_SENDER_KEY or EMAIL_SENDER is missing.
func NewSendGridSender(cfg *config.Config) Sender {
	var client mailClient
	if cfg.EmailSenderKey != "" && cfg.EmailSender != "" {
		client = sendgrid.NewSendClient(cfg.EmailSenderKey)
	}
	return newSender(client, cfg.EmailSenderName, cfg.EmailSender, cfg.Log)
}

func newSender(client mailClient, fromName, fromAddress string, log *logger.Logger) *sendgridSender {
	return &sendgridSender{
		client: client,
		from:   mail.NewEmail(fromName, fromAddress),
		log:    log,
	}
}

func (s *sendgridSender) SendConfirmation(ctx context.Context, booking model.Booking) error {
	if s.client == nil {
		return ErrNotConfigured
	}

	content, err := RenderConfirmation(booking)
	if err != nil {
		return err
	}

	to := mail.NewEmail(booking.UserName, booking.Email)
	message := mail.NewSingleEmail(s.from, content.Subject, to, content.Text, content.HTML)

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send confirmation: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return &SendError{StatusCode: resp.StatusCode, Body: resp.Body}
	}

	s.log.Info("Confirmation email sent",
		"booking_id", booking.ID,
		"to", booking.Email,
		"status", resp.StatusCode,
	)
	return nil
}
