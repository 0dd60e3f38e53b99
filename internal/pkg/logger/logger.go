package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger implements ports.Logger on top of logrus.
type Logger struct {
	entry *logrus.Logger
}

// New creates a Logger writing to stderr. Debug output is only emitted when verbose is set;
// otherwise only warnings and errors are shown.
func New(verbose bool) *Logger {
	return NewWithWriter(os.Stderr, verbose)
}

// NewWithWriter creates a Logger writing to w.
func NewWithWriter(w io.Writer, verbose bool) *Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: !verbose,
		FullTimestamp:    verbose,
	})
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	} else {
		l.SetLevel(logrus.WarnLevel)
	}
	return &Logger{entry: l}
}

// Discard returns a Logger that drops everything, for tests.
func Discard() *Logger {
	return NewWithWriter(io.Discard, false)
}

func (l *Logger) Debug(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Debug(msg)
}

func (l *Logger) Info(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Info(msg)
}

func (l *Logger) Warn(msg string, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).Warn(msg)
}

func (l *Logger) Error(msg string, err error, fields map[string]interface{}) {
	l.entry.WithFields(logrus.Fields(fields)).WithError(err).Error(msg)
}
