package logx

import (
	"os"

	charmlog "github.com/charmbracelet/log"
)

// CharmLogger adapts charmbracelet/log to the Logger interface, the
// concrete logger this module wires in place of the teacher's NoOpLogger
// default at the cmd/scribed entry point.
type CharmLogger struct {
	logger *charmlog.Logger
}

// NewCharmLogger returns a CharmLogger writing to stderr with the given
// reported level ("debug", "info", "warn", "error").
func NewCharmLogger(level string) *CharmLogger {
	l := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		ReportCaller:    false,
	})
	if lvl, err := charmlog.ParseLevel(level); err == nil {
		l.SetLevel(lvl)
	}
	return &CharmLogger{logger: l}
}

func (c *CharmLogger) Debug(msg string, args ...interface{}) { c.logger.Debug(msg, args...) }
func (c *CharmLogger) Info(msg string, args ...interface{})  { c.logger.Info(msg, args...) }
func (c *CharmLogger) Warn(msg string, args ...interface{})  { c.logger.Warn(msg, args...) }
func (c *CharmLogger) Error(msg string, args ...interface{}) { c.logger.Error(msg, args...) }
