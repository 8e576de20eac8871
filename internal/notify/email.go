package notify

import (
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailSender delivers notifications through SendGrid.
type EmailSender struct {
	fromName    string
	fromAddress string
	apiKey      string
}

func NewEmailSender(fromName, fromAddress, apiKey string) *EmailSender {
	return &EmailSender{
		fromName:    fromName,
		fromAddress: fromAddress,
		apiKey:      apiKey,
	}
}

func (e *EmailSender) Send(prefs Preferences, n *Notification) error {
	if prefs.Email == "" {
		return fmt.Errorf("no email address for user %s", n.UserID)
	}

	from := mail.NewEmail(e.fromName, e.fromAddress)
	to := mail.NewEmail("", prefs.Email)
	email := mail.NewSingleEmail(from, n.Title, to, n.Body, n.Body)
	client := sendgrid.NewSendClient(e.apiKey)

	response, err := client.Send(email)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}

	log.Printf("Notification %s emailed to %s (status: %d)", n.ID, prefs.Email, response.StatusCode)
	return nil
}
