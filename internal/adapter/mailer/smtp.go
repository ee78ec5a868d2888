// Package mailer delivers outbound email over SMTP.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"

	"github.com/hassan3301/dailycrm/internal/config"
	"github.com/hassan3301/dailycrm/internal/domain"
)

// ErrNotConfigured is returned by Send when no SMTP host is configured.
var ErrNotConfigured = errors.New("mail: smtp server not configured")

// SMTP sends messages through one SMTP server.
type SMTP struct {
	cfg config.MailConfig
	log *slog.Logger
}

// NewSMTP creates an SMTP mailer. With an empty host every Send fails with
// ErrNotConfigured.
func NewSMTP(cfg config.MailConfig, log *slog.Logger) *SMTP {
	return &SMTP{cfg: cfg, log: log.With("adapter", "mailer")}
}

// Send delivers msg.
func (s *SMTP) Send(ctx context.Context, msg domain.OutboundEmail) error {
	if !s.cfg.Enabled() {
		s.log.WarnContext(ctx, "email dropped, smtp not configured", slog.String("to", msg.To))
		return ErrNotConfigured
	}

	m, err := buildMessage(s.cfg.From, msg)
	if err != nil {
		return err
	}

	client, err := mail.NewClient(s.cfg.Host, s.clientOptions()...)
	if err != nil {
		return fmt.Errorf("mail: create client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		s.log.ErrorContext(ctx, "email delivery failed",
			slog.String("to", msg.To),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("mail: deliver: %w", err)
	}

	s.log.InfoContext(ctx, "email sent",
		slog.String("to", msg.To),
		slog.Int("attachments", len(msg.Attachments)),
	)
	return nil
}

func (s *SMTP) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTimeout(s.cfg.Timeout),
	}

	switch s.cfg.TLS {
	case "ssl":
		opts = append(opts, mail.WithSSL())
	case "starttls":
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.NoTLS))
	}

	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}
	return opts
}

func buildMessage(from string, msg domain.OutboundEmail) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("mail: from address %q: %w", from, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("mail: to address %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	for _, a := range msg.Attachments {
		contentType := a.ContentType
		if contentType == "" {
			contentType = string(mail.TypeAppOctetStream)
		}
		if err := m.AttachReader(a.Filename, bytes.NewReader(a.Data),
			mail.WithFileContentType(mail.ContentType(contentType))); err != nil {
			return nil, fmt.Errorf("mail: attach %s: %w", a.Filename, err)
		}
	}
	return m, nil
}
