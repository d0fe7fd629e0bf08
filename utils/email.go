package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends plain-text mail. A Mailer built without an SMTP host is disabled and drops mail.
type Mailer struct {
	from   string
	dialer *gomail.Dialer
}

func NewMailer(host string, port int, user, password, from string) *Mailer {
	if host == "" {
		return &Mailer{}
	}
	return &Mailer{
		from:   from,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

func (m *Mailer) Enabled() bool {
	return m != nil && m.dialer != nil
}

func (m *Mailer) SendEmail(to, subject, body string) error {
	if !m.Enabled() {
		return nil
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}

func WelcomeMail(shopOwner string) (string, string) {
	subject := "Welcome to Quisine"
	body := fmt.Sprintf("Hello %s,\n\nYour shop is ready. Sign in to build your menu and print the table QR codes.\n", shopOwner)
	return subject, body
}
