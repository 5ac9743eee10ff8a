// Package notify carries user-visible feedback out of the controller.
package notify

import (
	"log/slog"
)

// Sink receives notifications. Countdown creates or updates, in place, the notification
// keyed by id; cancel is attached as its dismiss action.
type Sink interface {
	Info(msg string)
	Success(msg string)
	Error(msg string)
	Countdown(id int, msg string, cancel func())
	Dismiss(id int)
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Info(string)                   {}
func (Discard) Success(string)                {}
func (Discard) Error(string)                  {}
func (Discard) Countdown(int, string, func()) {}
func (Discard) Dismiss(int)                   {}

// LogSink writes notifications to a structured logger.
type LogSink struct {
	log *slog.Logger
}

// NewLogSink returns a sink logging to log, or to slog.Default() when log is nil.
func NewLogSink(log *slog.Logger) *LogSink {
	if log == nil {
		log = slog.Default()
	}
	return &LogSink{log: log.With("component", "notify")}
}

func (s *LogSink) Info(msg string)    { s.log.Info(msg, "level", "info") }
func (s *LogSink) Success(msg string) { s.log.Info(msg, "level", "success") }
func (s *LogSink) Error(msg string)   { s.log.Error(msg) }

func (s *LogSink) Countdown(id int, msg string, _ func()) {
	s.log.Info(msg, "level", "countdown", "hotspot", id)
}

func (s *LogSink) Dismiss(id int) {
	s.log.Debug("countdown dismissed", "hotspot", id)
}

// Multi fans out to every sink in order.
type Multi []Sink

func (m Multi) Info(msg string) {
	for _, s := range m {
		s.Info(msg)
	}
}

func (m Multi) Success(msg string) {
	for _, s := range m {
		s.Success(msg)
	}
}

func (m Multi) Error(msg string) {
	for _, s := range m {
		s.Error(msg)
	}
}

func (m Multi) Countdown(id int, msg string, cancel func()) {
	for _, s := range m {
		s.Countdown(id, msg, cancel)
	}
}

func (m Multi) Dismiss(id int) {
	for _, s := range m {
		s.Dismiss(id)
	}
}
