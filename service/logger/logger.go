package logger

import (
	"context"

	"github.com/sirupsen/logrus"
)

type loggerContextKey struct{}

var defaultLogger = logrus.New()

// SetLoggerOptions configures the process-wide default logger.
func SetLoggerOptions(optFn func(logger *logrus.Logger)) {
	optFn(defaultLogger)
}

// NewContextWithFields returns a context whose logger carries the given fields
// in addition to any fields already present on the context.
func NewContextWithFields(ctx context.Context, fields logrus.Fields) context.Context {
	entry := For(ctx).WithFields(fields)
	return context.WithValue(ctx, loggerContextKey{}, entry)
}

// For returns a log entry scoped to ctx. A nil context returns an entry on
// the default logger.
func For(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return logrus.NewEntry(defaultLogger)
	}

	if entry, ok := ctx.Value(loggerContextKey{}).(*logrus.Entry); ok {
		return entry
	}

	return logrus.NewEntry(defaultLogger).WithContext(ctx)
}
