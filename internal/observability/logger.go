package observability

import (
	"log/slog"
	"os"
)

func NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// ServiceLogger adapts slog to the narrow logger interface the application
// services depend on.
type ServiceLogger struct {
	logger *slog.Logger
}

func NewServiceLogger(logger *slog.Logger) *ServiceLogger {
	return &ServiceLogger{logger: logger}
}

func (l *ServiceLogger) Info(msg string) {
	l.logger.Info(msg)
}

func (l *ServiceLogger) Error(msg string) {
	l.logger.Error(msg)
}
