// Package mailer delivers password-reset links.
package mailer

import (
	"errors"

	"github.com/rs/zerolog"
)

// LogMailer writes reset links to the log instead of sending mail. It is
// used in development and wherever no mail transport is configured.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log.With().Str("component", "mailer").Logger()}
}

func (m *LogMailer) SendPasswordReset(to, resetURL string) error {
	if to == "" {
		return errors.New("mailer: empty recipient")
	}
	m.log.Info().Str("to", to).Str("reset_url", resetURL).Msg("password reset link")
	return nil
}
