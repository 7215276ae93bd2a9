package logstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "logs.json5")
	if err := os.WriteFile(path, []byte(content), 0666); err != nil {
		t.Fatalf("Failed to write dump file: %v", err)
	}
	return path
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Array_Form", func(t *testing.T) {
		path := writeDump(t, `[
			{timestamp: "2024-01-01T00:00:00.000Z", level: "ERROR", category: "auth", message: "failed", data: {code: 401}},
			{timestamp: "2024-01-01T00:00:01.000Z", level: "INFO", category: "proxy", message: "ok"},
		]`)
		logs, err := NewFileStore(path).GetLogs(ctx)
		if err != nil {
			t.Fatalf("GetLogs returned an unexpected error: %v", err)
		}
		if len(logs) != 2 {
			t.Fatalf("Expected 2 entries, got %d", len(logs))
		}
		if logs[0].Level != LevelError || logs[0].Category != "auth" {
			t.Errorf("Unexpected first entry: %+v", logs[0])
		}
		if code, ok := logs[0].Data["code"]; !ok || code != float64(401) {
			t.Errorf("Expected data code 401, got %v", logs[0].Data)
		}
	})

	t.Run("Object_Form_With_Comments", func(t *testing.T) {
		path := writeDump(t, `{
			// proxy debug export
			logs: [
				{timestamp: "2024-01-01T00:00:00.000Z", level: "WARN", category: "cache", message: "stale"},
			],
		}`)
		logs, err := NewFileStore(path).GetLogs(ctx)
		if err != nil {
			t.Fatalf("GetLogs returned an unexpected error: %v", err)
		}
		if len(logs) != 1 || logs[0].Level != LevelWarn {
			t.Fatalf("Expected one WARN entry, got %+v", logs)
		}
	})

	t.Run("Missing_File_Is_StoreUnavailable", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "nope.json5"))
		if _, err := store.GetLogs(ctx); !errors.Is(err, ErrStoreUnavailable) {
			t.Errorf("Expected ErrStoreUnavailable, got %v", err)
		}
	})

	t.Run("Garbage_File_Is_StoreUnavailable", func(t *testing.T) {
		path := writeDump(t, "this is not json5 at all {{{{")
		if _, err := NewFileStore(path).GetLogs(ctx); !errors.Is(err, ErrStoreUnavailable) {
			t.Errorf("Expected ErrStoreUnavailable, got %v", err)
		}
	})

	t.Run("ClearLogs_Truncates", func(t *testing.T) {
		path := writeDump(t, `[{timestamp: "", level: "INFO", category: "proxy", message: "x"}]`)
		store := NewFileStore(path)
		if err := store.ClearLogs(ctx); err != nil {
			t.Fatalf("ClearLogs returned an unexpected error: %v", err)
		}
		logs, err := store.GetLogs(ctx)
		if err != nil {
			t.Fatalf("GetLogs after clear returned an unexpected error: %v", err)
		}
		if len(logs) != 0 {
			t.Errorf("Expected empty store after clear, got %d entries", len(logs))
		}
	})

	t.Run("ClearLogs_On_Missing_File_Is_A_NoOp", func(t *testing.T) {
		store := NewFileStore(filepath.Join(t.TempDir(), "gone.json5"))
		if err := store.ClearLogs(ctx); err != nil {
			t.Errorf("Expected clearing a missing file to succeed, got %v", err)
		}
	})
}
