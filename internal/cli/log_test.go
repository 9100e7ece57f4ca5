package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug entry written at info level: %q", buf.String())
	}

	logger.SetLevel(log.DebugLevel)
	logger.Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug entry missing at debug level: %q", buf.String())
	}
}

func TestStageTimer(t *testing.T) {
	var buf bytes.Buffer
	timer := newStageTimer(newLogger(&buf, log.DebugLevel))

	timer.mark("probe", "frames", 6)
	timer.mark("layout", "rows", 3)
	timer.done("layout written", "path", "gallery.layout.json")

	out := buf.String()
	for _, want := range []string{"stage=probe", "frames=6", "stage=layout", "rows=3", "layout written", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("timer output missing %q in:\n%s", want, out)
		}
	}
}

func TestStageTimerMarksHiddenAtInfo(t *testing.T) {
	var buf bytes.Buffer
	timer := newStageTimer(newLogger(&buf, log.InfoLevel))

	timer.mark("probe")
	if strings.Contains(buf.String(), "stage=probe") {
		t.Error("stage marks should only show at debug level")
	}
	timer.done("done")
	if !strings.Contains(buf.String(), "done") {
		t.Error("done() not logged at info level")
	}
}

func TestVerboseFlag(t *testing.T) {
	_, manifest, cfg := setupGallery(t)
	c := newTestCLI()
	root := c.RootCommand()
	root.SetArgs([]string{"--config", cfg, "-v", "probe", manifest})
	if err := root.Execute(); err != nil {
		t.Fatalf("probe -v error: %v", err)
	}
	if got := c.Logger.GetLevel(); got != log.DebugLevel {
		t.Errorf("log level after -v = %v, want debug", got)
	}
}
