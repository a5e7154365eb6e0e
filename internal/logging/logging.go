package logging

import (
	"fmt"
	"io"
	"os"

	"mini-voxel/internal/config"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// New builds the engine logger. Text output gets colors only when stdout is
// a terminal.
func New(cfg config.LogConfig) (*logrus.Logger, error) {
	return NewWithOutput(cfg, os.Stdout, term.IsTerminal(int(os.Stdout.Fd())))
}

// NewWithOutput is New writing to out.
func NewWithOutput(cfg config.LogConfig, out io.Writer, tty bool) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	log := logrus.New()
	log.Out = out
	log.Level = level
	switch cfg.Format {
	case "json":
		log.Formatter = &logrus.JSONFormatter{}
	default:
		log.Formatter = &logrus.TextFormatter{
			ForceColors:     tty,
			DisableColors:   !tty,
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
		}
	}
	return log, nil
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	log := logrus.New()
	log.Out = io.Discard
	return log
}
