// Package logging constructs the structured logrus.Logger every other
// package threads by reference, replacing the teacher repo's
// unfinished logger/logger.go stub (which coupled log output directly
// to a NeoPixel device and was never completed). Every component here
// takes a *logrus.Entry rather than reaching for a package-level
// singleton, so tests can inject a discard-output logger freely.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Config controls the logger's format and verbosity.
type Config struct {
	Level  string // one of logrus's level names; defaults to "info"
	JSON   bool   // emit structured JSON lines instead of text
	Output io.Writer
}

// New builds a *logrus.Logger from cfg, falling back to sane defaults
// for zero-value fields.
func New(cfg Config) *logrus.Logger {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	if cfg.JSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	log.SetOutput(out)

	return log
}

// Discard returns a logger with output suppressed, for tests and
// library embeddings that don't want log noise.
func Discard() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}
