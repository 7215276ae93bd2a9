package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/Qendolin/proxy-log-console/pkg/logstore"
)

// captureSink records appended entries.
type captureSink struct {
	entries []logstore.Entry
}

func (s *captureSink) Append(entry logstore.Entry) {
	s.entries = append(s.entries, entry)
}

func newFixedLogger() (*Logger, *bytes.Buffer, *captureSink) {
	logger := NewLogger()
	logger.now = func() time.Time {
		return time.Date(2024, 1, 1, 12, 30, 45, int(678*time.Millisecond), time.UTC)
	}
	buf := &bytes.Buffer{}
	sink := &captureSink{}
	logger.SetWriter(buf)
	logger.SetSink(sink)
	return logger, buf, sink
}

func TestLoggerWritesFormattedLines(t *testing.T) {
	logger, buf, _ := newFixedLogger()
	logger.Warnf("poller", "fetch failed: %v", "boom")

	want := "12:30:45.678 WARN  [poller] fetch failed: boom\n"
	if buf.String() != want {
		t.Errorf("Expected line %q, got %q", want, buf.String())
	}
}

func TestLoggerFeedsSink(t *testing.T) {
	logger, _, sink := newFixedLogger()
	logger.Errorf("auth", "token rejected")

	if len(sink.entries) != 1 {
		t.Fatalf("Expected 1 sink entry, got %d", len(sink.entries))
	}
	entry := sink.entries[0]
	if entry.Level != logstore.LevelError {
		t.Errorf("Expected level ERROR, got %q", entry.Level)
	}
	if entry.Category != "auth" {
		t.Errorf("Expected category auth, got %q", entry.Category)
	}
	if entry.Message != "token rejected" {
		t.Errorf("Expected message %q, got %q", "token rejected", entry.Message)
	}
	if entry.Timestamp != "2024-01-01T12:30:45.678Z" {
		t.Errorf("Unexpected sink timestamp %q", entry.Timestamp)
	}
}

func TestLoggerEventfAttachesPayload(t *testing.T) {
	logger, buf, sink := newFixedLogger()
	logger.Eventf(logstore.LevelInfo, "proxy", map[string]any{"status": 200}, "forwarded %s", "/api")

	if len(sink.entries) != 1 {
		t.Fatalf("Expected 1 sink entry, got %d", len(sink.entries))
	}
	if sink.entries[0].Data["status"] != 200 {
		t.Errorf("Expected payload status 200, got %v", sink.entries[0].Data)
	}
	if strings.Contains(buf.String(), "200") {
		t.Error("Payload must not leak into the textual output line")
	}
}

func TestLoggerDebugGate(t *testing.T) {
	logger, buf, sink := newFixedLogger()

	logger.Debugf("console", "dropped")
	if buf.Len() != 0 || len(sink.entries) != 0 {
		t.Fatal("Debug messages must be dropped while debug is disabled")
	}

	logger.SetDebug(true)
	if !logger.IsDebugEnabled() {
		t.Fatal("Expected debug to be enabled")
	}
	logger.Debugf("console", "emitted")
	if buf.Len() == 0 || len(sink.entries) != 1 {
		t.Error("Debug messages must be emitted while debug is enabled")
	}
}

func TestLoggerWithoutSinkOrWriter(t *testing.T) {
	logger := NewLogger()
	// Must not panic with neither writer nor sink attached.
	logger.Infof("main", "startup")
	logger.SetWriter(nil)
	logger.Infof("main", "still fine")
}

func TestDefaultLoggerHelpers(t *testing.T) {
	old := Default()
	defer SetDefault(old)

	logger, buf, _ := newFixedLogger()
	SetDefault(logger)

	Infof("main", "hello")
	if !strings.Contains(buf.String(), "[main] hello") {
		t.Errorf("Expected default logger output, got %q", buf.String())
	}
	SetDefault(nil) // nil is ignored
	if Default() != logger {
		t.Error("SetDefault(nil) must not replace the default logger")
	}
}
