package console

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Qendolin/proxy-log-console/pkg/logstore"
)

func TestFormatLine(t *testing.T) {
	entry := logstore.Entry{
		Timestamp: "2024-01-01T00:00:00.000Z",
		Level:     logstore.LevelError,
		Category:  "auth",
		Message:   "failed",
		Data:      map[string]any{"code": 401},
	}
	assert.Equal(t,
		`[2024-01-01T00:00:00.000Z] [ERROR] [auth] failed | {"code":401}`,
		FormatLine(entry))
}

func TestFormatLineWithoutData(t *testing.T) {
	entry := logstore.Entry{Timestamp: "T", Level: "L", Category: "C", Message: "M"}
	assert.Equal(t, "[T] [L] [C] M", FormatLine(entry), "no trailing separator without data")
}

func TestFormatLineEmptyTimestamp(t *testing.T) {
	entry := logstore.Entry{Level: logstore.LevelInfo, Category: "proxy", Message: "up"}
	assert.Equal(t, "[-] [INFO] [proxy] up", FormatLine(entry))
}

func TestFormatBlock(t *testing.T) {
	entry := logstore.Entry{
		Timestamp: "2024-01-01T00:00:00.000Z",
		Level:     logstore.LevelError,
		Category:  "auth",
		Message:   "failed",
		Data:      map[string]any{"code": 401},
	}
	want := "[2024-01-01T00:00:00.000Z] [ERROR] [auth]\n" +
		"failed\n" +
		"Data: {\n  \"code\": 401\n}"
	assert.Equal(t, want, FormatBlock(entry))
}

func TestFormatBlockWithoutData(t *testing.T) {
	entry := logstore.Entry{Timestamp: "T", Level: "L", Category: "C", Message: "M"}
	assert.Equal(t, "[T] [L] [C]\nM", FormatBlock(entry))
}

func TestExportText(t *testing.T) {
	assert.Equal(t, "", ExportText(nil), "zero entries yield the empty string")

	entries := []logstore.Entry{
		{Timestamp: "T1", Level: "INFO", Category: "proxy", Message: "one"},
		{Timestamp: "T2", Level: "WARN", Category: "cache", Message: "two"},
	}
	assert.Equal(t,
		"[T1] [INFO] [proxy] one\n[T2] [WARN] [cache] two",
		ExportText(entries))
}

func TestExportFileName(t *testing.T) {
	moment := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	name := ExportFileName(moment)
	assert.Equal(t, "proxy-logs-2024-01-01T00-00-00-000Z.log", name)
	assert.NotContains(t, name, ":")
	// Only the extension separator remains.
	assert.Equal(t, ".log", filepath.Ext(name))
}

func TestWriteExport(t *testing.T) {
	dir := t.TempDir()
	entries := []logstore.Entry{
		{Timestamp: "T", Level: "INFO", Category: "proxy", Message: "one"},
	}
	moment := time.Date(2024, 6, 15, 12, 30, 45, 0, time.UTC)

	path, err := WriteExport(dir, entries, moment)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "proxy-logs-2024-06-15T12-30-45-000Z.log"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[T] [INFO] [proxy] one", string(content))
}
