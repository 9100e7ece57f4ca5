package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger stamping entries as "HH:MM:SS.cc".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stageTimer logs how long each pipeline stage of a command took. Stages
// are logged at debug level, the total at info level. Not safe for
// concurrent use.
type stageTimer struct {
	logger *log.Logger
	start  time.Time
	last   time.Time
}

func newStageTimer(l *log.Logger) *stageTimer {
	now := time.Now()
	return &stageTimer{logger: l, start: now, last: now}
}

// mark closes the current stage.
func (t *stageTimer) mark(stage string, keyvals ...any) {
	now := time.Now()
	kv := append([]any{"stage", stage, "took", now.Sub(t.last).Round(time.Microsecond)}, keyvals...)
	t.logger.Debug("stage done", kv...)
	t.last = now
}

// done logs msg with the total elapsed time.
func (t *stageTimer) done(msg string, keyvals ...any) {
	kv := append(keyvals, "elapsed", time.Since(t.start).Round(time.Millisecond))
	t.logger.Info(msg, kv...)
}
