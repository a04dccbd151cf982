package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// logElapsed logs msg with the time since start, e.g. "Ran gz (12ms)".
func logElapsed(l *log.Logger, start time.Time, msg string) {
	l.Infof("%s (%s)", msg, time.Since(start).Round(time.Millisecond))
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext falls back to log.Default() for a context without a
// logger, including a nil one from a command run without ExecuteContext.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
			return l
		}
	}
	return log.Default()
}
