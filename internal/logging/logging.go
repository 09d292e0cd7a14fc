// Package logging sets up structured logging the way the teacher's
// logging packages do: a logrus logger, a compact custom text formatter,
// optional file rotation via lumberjack, and an atomic verbose-mode
// toggle read from the environment (internal/logging/verbose.go's
// pattern, generalized from a single global bool to a configurable
// logger instance since this repo is a library, not a CLI singleton).
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var verbose atomic.Bool

func init() {
	v := strings.ToLower(strings.TrimSpace(os.Getenv("RELAY_VERBOSE")))
	verbose.Store(v == "1" || v == "true" || v == "yes")
}

func VerboseEnabled() bool        { return verbose.Load() }
func SetVerboseEnabled(v bool)    { verbose.Store(v) }

// Options configures New.
type Options struct {
	// FilePath, if non-empty, also writes log output to a file rotated
	// through lumberjack, in addition to stderr.
	FilePath   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New builds a logrus.Logger with the compactFormatter and, when
// VerboseEnabled, debug-level output; otherwise info-level.
func New(opts Options) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&compactFormatter{})

	if VerboseEnabled() {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	var out io.Writer = os.Stderr
	if opts.FilePath != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   opts.FilePath,
			MaxSize:    orDefault(opts.MaxSizeMB, 50),
			MaxBackups: orDefault(opts.MaxBackups, 5),
			MaxAge:     orDefault(opts.MaxAgeDays, 30),
			Compress:   opts.Compress,
		})
	}
	log.SetOutput(out)
	return log
}

func orDefault(v, fallback int) int {
	if v <= 0 {
		return fallback
	}
	return v
}

// compactFormatter renders "time LEVEL message key=value ..." on one
// line, the single-line convention the teacher's formatters favor over
// logrus's default multi-field layout.
type compactFormatter struct{}

func (f *compactFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %-5s %s", entry.Time.Format("2006-01-02T15:04:05.000Z07:00"), strings.ToUpper(entry.Level.String()), entry.Message)
	for k, v := range entry.Data {
		fmt.Fprintf(&b, " %s=%v", k, v)
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}
