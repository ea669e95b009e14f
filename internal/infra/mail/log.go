package mail

import (
	"context"
	"log/slog"
)

// LogMailer records messages in the log instead of sending them. Used when no SMTP host is configured.
type LogMailer struct {
	cfg    Config
	logger *slog.Logger
}

// NewLogMailer constructs the mailer.
func NewLogMailer(cfg Config, logger *slog.Logger) *LogMailer {
	return &LogMailer{cfg: cfg, logger: logger.With("component", "mail.log")}
}

func (m *LogMailer) Send(_ context.Context, recipientName, address, text string) error {
	env, err := Compose(m.cfg, recipientName, address, text)
	if err != nil {
		return err
	}
	m.logger.Info("email not sent, smtp disabled", "to", env.To, "subject", env.Subject, "body", env.Text)
	return nil
}

var _ Mailer = (*LogMailer)(nil)
