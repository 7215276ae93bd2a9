package console

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Qendolin/proxy-log-console/pkg/logstore"
)

// exportTimeLayout matches the millisecond ISO-8601 form the export name is
// derived from.
const exportTimeLayout = "2006-01-02T15:04:05.000Z"

// ExportFileName derives the export artifact name from the export moment.
// Characters that are not filesystem-safe (":" and ".") are normalized to
// "-", e.g. proxy-logs-2024-01-01T00-00-00-000Z.log.
func ExportFileName(t time.Time) string {
	stamp := t.UTC().Format(exportTimeLayout)
	stamp = strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
	return fmt.Sprintf("proxy-logs-%s.log", stamp)
}

// WriteExport materializes the given entries as a plain-text artifact in dir
// and returns the written path. Entries should be the currently filtered
// view.
func WriteExport(dir string, entries []logstore.Entry, t time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	path := filepath.Join(dir, ExportFileName(t))
	if err := os.WriteFile(path, []byte(ExportText(entries)), 0666); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
