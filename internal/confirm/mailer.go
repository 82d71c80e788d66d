package confirm

import (
	"context"
	"log/slog"
)

// Mailer sends one confirmation email.
type Mailer interface {
	SendConfirmation(ctx context.Context, req Request) error
}

// LogMailer writes requests to the log instead of sending mail.
type LogMailer struct {
	logger *slog.Logger
}

// NewLogMailer creates a LogMailer.
func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger.With("component", "confirm.mailer")}
}

// SendConfirmation logs the request.
func (m *LogMailer) SendConfirmation(ctx context.Context, req Request) error {
	m.logger.InfoContext(ctx, "confirmation email",
		"request_id", req.ID,
		"user_id", req.UserID,
		"email", req.Email,
		"name", req.Name,
		"requested_at", req.RequestedAt,
	)
	return nil
}
