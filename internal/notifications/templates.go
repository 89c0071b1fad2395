package notifications

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"doctorsportal/pkg/model"
)

const confirmationSubject = "Your appointment for %s is confirmed"

var confirmationText = texttemplate.Must(texttemplate.New("text").Parse(
	`Hello {{.UserName}},

Your appointment for {{.Treatment}} is confirmed.

Date: {{.FormattedDate}}
Time: {{.Slot}}
{{- if .Price}}
Price: ${{printf "%.2f" .Price}}
{{- end}}

Please pay before your visit from your dashboard.

Doctors Portal
`))

var confirmationHTML = htmltemplate.Must(htmltemplate.New("html").Parse(`<!DOCTYPE html>
<html>
<body>
  <h3>Hello {{.UserName}},</h3>
  <p>Your appointment for <strong>{{.Treatment}}</strong> is confirmed.</p>
  <table>
    <tr><td>Date</td><td>{{.FormattedDate}}</td></tr>
    <tr><td>Time</td><td>{{.Slot}}</td></tr>
    {{- if .Price}}
    <tr><td>Price</td><td>${{printf "%.2f" .Price}}</td></tr>
    {{- end}}
  </table>
  <p>Please pay before your visit from your dashboard.</p>
  <p>Doctors Portal</p>
</body>
</html>
`))

// Confirmation is a rendered booking confirmation email.
type Confirmation struct {
	Subject string
	Text    string
	HTML    string
}

func RenderConfirmation(booking model.Booking) (Confirmation, error) {
	var text, html bytes.Buffer
	if err := confirmationText.Execute(&text, booking); err != nil {
		return Confirmation{}, fmt.Errorf("failed to render text body: %w", err)
	}
	if err := confirmationHTML.Execute(&html, booking); err != nil {
		return Confirmation{}, fmt.Errorf("failed to render html body: %w", err)
	}

	return Confirmation{
		Subject: fmt.Sprintf(confirmationSubject, booking.Treatment),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
