package libs

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type Mailer struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func NewMailer(host string, port int, user, pass, from, to string) (*Mailer, error) {
	if host == "" || user == "" || pass == "" || to == "" {
		return nil, errors.New("SMTP configuration missing")
	}
	if from == "" {
		from = user
	}

	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
		to:     to,
	}, nil
}

func (m *Mailer) NotifyPasswordChanged(username string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", m.to)
	msg.SetHeader("Subject", "Store admin password changed")
	msg.SetBody("text/plain", passwordChangedBody(username, time.Now().UTC()))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func passwordChangedBody(username string, at time.Time) string {
	return fmt.Sprintf(`Hello,

The password of the store admin account %q was changed on %s.

Existing sessions stay valid until they expire. If you did not make this
change, provision a new password with the create-admin tool right away.
`, username, at.Format("2006-01-02 15:04 MST"))
}
