package logger

import (
	"io"

	"github.com/charmbracelet/log"
)

// Or returns l, or a New(prefix) logger when l is nil.
func Or(l *log.Logger, prefix string) *log.Logger {
	if l != nil {
		return l
	}
	return New(prefix)
}

// Discard returns a logger that drops everything; used by tests.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}
