package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		log   func(*log.Logger)
		want  bool
	}{
		{"info at info", log.InfoLevel, func(l *log.Logger) { l.Info("loaded") }, true},
		{"debug at info", log.InfoLevel, func(l *log.Logger) { l.Debug("cache hit") }, false},
		{"debug at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("cache hit") }, true},
		{"warn at error", log.ErrorLevel, func(l *log.Logger) { l.Warn("redis unavailable") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.want {
				t.Errorf("wrote output = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(newLogger(&buf, log.InfoLevel))
	p.done("rendered", "files", 2, "cached", false)

	out := buf.String()
	for _, want := range []string{"rendered", "files=2", "cached=false", "took="} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestDebugProgressNeedsVerbose(t *testing.T) {
	var buf bytes.Buffer
	newDebugProgress(newLogger(&buf, log.InfoLevel)).done("laid out", "blocks", 17)
	if buf.Len() != 0 {
		t.Errorf("debug progress logged at info level: %q", buf.String())
	}

	buf.Reset()
	newDebugProgress(newLogger(&buf, log.DebugLevel)).done("laid out", "blocks", 17)
	if !strings.Contains(buf.String(), "blocks=17") {
		t.Errorf("output = %q, want blocks=17", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should yield the default logger")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), l)
	if loggerFromContext(ctx) != l {
		t.Fatal("loggerFromContext did not return the attached logger")
	}
}
