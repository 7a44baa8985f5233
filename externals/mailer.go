package externals

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"travelbuddy-server/utils/log"
)

func mailFrom() *mail.Email {
	addr := os.Getenv("MAIL_FROM")
	if addr == "" {
		addr = "no-reply@travelbuddy.app"
	}
	return mail.NewEmail("TravelBuddy", addr)
}

// SendEmail delivers a plain-text email through SendGrid. When
// SENDGRID_API_KEY is unset the mail is logged and dropped, which keeps
// local development working without credentials.
func SendEmail(toName, toAddr, subject, body string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		log.Log.WithField("to", toAddr).Infof("mail delivery skipped: %s", subject)
		return nil
	}

	message := mail.NewSingleEmail(mailFrom(), subject, mail.NewEmail(toName, toAddr), body, body)
	client := sendgrid.NewSendClient(apiKey)
	resp, err := client.Send(message)
	if err != nil {
		return errors.Wrap(err, "sendgrid send failed")
	}
	if resp.StatusCode >= 300 {
		return errors.Errorf("sendgrid send failed with status %d", resp.StatusCode)
	}
	return nil
}

// SendContactMail forwards a contact-form submission to the site
// operators. The recipient is CONTACT_RECIPIENT, falling back to
// MAIL_FROM; with neither configured the submission cannot be
// delivered anywhere.
func SendContactMail(name, email, subject, message string) error {
	recipient := os.Getenv("CONTACT_RECIPIENT")
	if recipient == "" {
		recipient = os.Getenv("MAIL_FROM")
	}
	if recipient == "" {
		return errors.New("no contact recipient configured")
	}
	body := fmt.Sprintf("From: %s <%s>\n\n%s", name, email, message)
	return SendEmail("TravelBuddy Support", recipient, "[Contact] "+subject, body)
}
