package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/irshad/hiring/config"
	"github.com/rs/zerolog/log"
)

// Message is one notification addressed to a candidate.
type Message struct {
	To      string
	Subject string
	Body    string
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// New returns an SMTP notifier when SMTP_HOST is configured and a log notifier otherwise.
func New(cfg *config.Config) Notifier {
	if cfg.SMTP.Host == "" {
		log.Warn().Msg("SMTP_HOST is not set. Notifications will only be logged.")
		return LogNotifier{}
	}
	return NewSMTPNotifier(cfg.SMTP)
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type SMTPNotifier struct {
	addr string
	from string
	auth smtp.Auth
	send sendFunc
}

func NewSMTPNotifier(cfg config.SMTP) *SMTPNotifier {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPNotifier{
		addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		from: cfg.From,
		auth: auth,
		send: smtp.SendMail,
	}
}

func (n *SMTPNotifier) Notify(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("notification has no recipient")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.send(n.addr, n.auth, n.from, []string{msg.To}, buildMessage(n.from, msg)); err != nil {
		return errors.Wrapf(err, "send mail to %s", msg.To)
	}
	log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("Notification sent")
	return nil
}

func buildMessage(from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n\r\n")
	b.WriteString(msg.Body)
	return []byte(b.String())
}

// LogNotifier writes notifications to the log instead of delivering them.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, msg Message) error {
	log.Info().Str("to", msg.To).Str("subject", msg.Subject).Str("body", msg.Body).Msg("Notification (log only)")
	return nil
}
