package smtp

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer sends plain-text mail through a single SMTP relay. Auth is left to
// the relay (typical for an in-cluster postfix or a local mailhog in dev).
type Mailer struct {
	addr string
	from string
}

func New(addr, from string) *Mailer {
	return &Mailer{addr: addr, from: from}
}

func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send mail to %s: %w", to, err)
	}
	return nil
}
