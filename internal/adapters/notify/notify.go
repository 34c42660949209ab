// Package notify renders user-facing notifications for a headless client.
package notify

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogNotifier implements core.Notifier on top of a zerolog logger.
type LogNotifier struct {
	logger zerolog.Logger
}

// New returns a notifier writing to l. A nil l uses the global logger.
func New(l *zerolog.Logger) *LogNotifier {
	if l == nil {
		l = &log.Logger
	}
	return &LogNotifier{logger: l.With().Str("module", "notify").Logger()}
}

func (n *LogNotifier) Success(msg string) {
	n.logger.Info().Str("kind", "success").Msg(msg)
}

func (n *LogNotifier) Error(msg string) {
	n.logger.Error().Str("kind", "error").Msg(msg)
}
