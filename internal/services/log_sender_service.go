package services

import (
	"context"

	"go.uber.org/zap"
)

// LogSender writes reset codes to the log instead of sending mail. It is
// the fallback when no mail API key is configured, for local development.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) SendResetCode(ctx context.Context, toEmail, code string) error {
	s.log.Info("reset code (mail disabled)", zap.String("to", toEmail), zap.String("code", code))
	return nil
}
