package logging

import "log/slog"

// Logger is the minimal leveled logging interface handed to components that
// should not depend on a concrete backend. Arguments are alternating
// key/value pairs or slog.Attr values, exactly as slog accepts them.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// SlogAdapter satisfies Logger on top of an *slog.Logger.
type SlogAdapter struct {
	logger *slog.Logger
}

// NewSlogAdapter wraps logger; nil falls back to slog.Default().
func NewSlogAdapter(logger *slog.Logger) *SlogAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogAdapter{logger: logger}
}

// DefaultLogger returns a Logger backed by the process default slog logger.
func DefaultLogger() *SlogAdapter {
	return NewSlogAdapter(slog.Default())
}

func (a *SlogAdapter) Debug(msg string, args ...interface{}) { a.logger.Debug(msg, args...) }

func (a *SlogAdapter) Info(msg string, args ...interface{}) { a.logger.Info(msg, args...) }

func (a *SlogAdapter) Warn(msg string, args ...interface{}) { a.logger.Warn(msg, args...) }

func (a *SlogAdapter) Error(msg string, args ...interface{}) { a.logger.Error(msg, args...) }
