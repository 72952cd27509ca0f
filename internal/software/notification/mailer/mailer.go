// Package mailer holds the outbound email collaborator implementations.
package mailer

import (
	"context"

	"taxi-trips/internal/general/config"
	"taxi-trips/internal/general/logger"
	"taxi-trips/internal/ports"
)

// LogMailer writes the email to the structured log instead of an SMTP
// connection. It is the default Mailer: the notification pipeline is
// best-effort, and in every non-production environment the log line is the
// deliverable.
type LogMailer struct {
	logger *logger.Logger
	from   string
}

// NewLogMailer constructs the logging mailer using the configured sender.
func NewLogMailer(cfg *config.Config, logger *logger.Logger) ports.Mailer {
	return &LogMailer{logger: logger, from: cfg.SMTP.From}
}

// Send logs the message and reports success.
func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.Info(ctx, "email_sent", "Email dispatched", map[string]any{
		"from":    m.from,
		"to":      to,
		"subject": subject,
		"body":    body,
	})
	return nil
}
