// Package mail sends transactional email over plain SMTP. The pack has
// no dedicated mail dependency, so net/smtp is used directly behind a
// small Sender interface.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers mail through a single SMTP relay.
type SMTPSender struct {
	Addr     string
	From     string
	Username string
	Password string
	Host     string
}

/// NewSMTPSender constructs a sender. addr is host:port; username may be
// empty for unauthenticated relays (Mailpit, local postfix).
func NewSMTPSender(addr, host, from, username, password string) *SMTPSender {
	return &SMTPSender{Addr: addr, Host: host, From: from, Username: username, Password: password}
}

// Send delivers one message. The context is honored only before the
// dial since net/smtp has no context support.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var auth smtp.Auth
	if s.Username != "" {
		auth = smtp.PlainAuth("", s.Username, s.Password, s.Host)
	}
	payload := buildPayload(s.From, msg)
	if err := smtp.SendMail(s.Addr, auth, s.From, []string{msg.To}, payload); err != nil {
		return fmt.Errorf("mail: send to %s: %w", msg.To, err)
	}
	return nil
}

func buildPayload(from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

// LogSender logs instead of delivering; used when SMTP is unset.
type LogSender struct {
	Logger *slog.Logger
}

// Send records the message and drops it.
func (l *LogSender) Send(ctx context.Context, msg Message) error {
	if l.Logger != nil {
		l.Logger.Info("mail suppressed, no SMTP configured",
			slog.String("to", msg.To), slog.String("subject", msg.Subject))
	}
	return nil
}
