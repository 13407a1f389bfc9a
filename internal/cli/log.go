package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// logTimeFormat renders timestamps as "14:32:01.45".
const logTimeFormat = "15:04:05.00"

// newLogger creates the CLI logger writing to w at level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// progress times one pipeline stage and logs its outcome with the elapsed
// time attached as the "took" field.
type progress struct {
	logger *log.Logger
	level  log.Level
	start  time.Time
}

// newProgress starts timing a stage that reports at info level.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, level: log.InfoLevel, start: time.Now()}
}

// newDebugProgress starts timing a stage that only reports with --verbose.
func newDebugProgress(l *log.Logger) *progress {
	return &progress{logger: l, level: log.DebugLevel, start: time.Now()}
}

// done logs msg with keyvals, e.g. "laid out nodes=42 blocks=17 took=3ms".
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))
	p.logger.Log(p.level, msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for the command's helpers.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when the command ran without setup.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
