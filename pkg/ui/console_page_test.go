package ui

import (
	"strings"
	"testing"

	"github.com/Qendolin/proxy-log-console/pkg/console"
	"github.com/Qendolin/proxy-log-console/pkg/logstore"
)

func TestLevelColor(t *testing.T) {
	cases := map[string]string{
		logstore.LevelError: "red",
		logstore.LevelWarn:  "yellow",
		logstore.LevelInfo:  "white",
		logstore.LevelDebug: "gray",
		"TRACE":             "white", // unrecognized levels render default-styled
	}
	for level, want := range cases {
		if got := levelColor(level); got != want {
			t.Errorf("levelColor(%q) = %q, want %q", level, got, want)
		}
	}
}

func TestFormatRowCell(t *testing.T) {
	row := console.Row{
		Entry: logstore.Entry{
			Timestamp: "2024-01-01T00:00:00.000Z",
			Level:     logstore.LevelError,
			Category:  "auth",
			Message:   "failed [badly]",
		},
	}
	text := formatRowCell(row)
	if !strings.Contains(text, "2024-01-01T00:00:00.000Z") {
		t.Errorf("Expected timestamp in cell, got %q", text)
	}
	if !strings.Contains(text, "auth") {
		t.Errorf("Expected category in cell, got %q", text)
	}
	// Brackets in the message must be escaped so tview does not treat them
	// as color tags.
	if strings.Contains(text, "[badly]") {
		t.Errorf("Expected message brackets to be escaped, got %q", text)
	}
}

func TestFormatRowCellDataMarker(t *testing.T) {
	row := console.Row{
		Entry: logstore.Entry{Level: logstore.LevelInfo, Category: "proxy", Message: "m",
			Data: map[string]any{"k": 1}},
	}
	if text := formatRowCell(row); !strings.HasPrefix(text, "[gray]+") {
		t.Errorf("Expected collapsed payload marker, got %q", text)
	}
	row.Expanded = true
	if text := formatRowCell(row); !strings.HasPrefix(text, "[gray]-") {
		t.Errorf("Expected expanded payload marker, got %q", text)
	}
}

func TestPayloadLines(t *testing.T) {
	entry := logstore.Entry{Data: map[string]any{"code": 401, "path": "/login"}}
	lines := payloadLines(entry)
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, `"code": 401`) {
		t.Errorf("Expected pretty-printed payload, got %q", joined)
	}
	if len(lines) < 3 {
		t.Errorf("Expected multi-line payload rendering, got %d lines", len(lines))
	}
}

func TestStringSlicesEqual(t *testing.T) {
	if !stringSlicesEqual(nil, nil) || !stringSlicesEqual([]string{"a"}, []string{"a"}) {
		t.Error("Equal slices must compare equal")
	}
	if stringSlicesEqual([]string{"a"}, []string{"b"}) || stringSlicesEqual([]string{"a"}, nil) {
		t.Error("Different slices must compare unequal")
	}
}
