package console

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Qendolin/proxy-log-console/pkg/logstore"
)

// DisplayTimestamp returns the timestamp for rendering. A malformed
// timestamp is shown verbatim; an empty one degrades to "-".
func DisplayTimestamp(entry logstore.Entry) string {
	if entry.Timestamp == "" {
		return "-"
	}
	return entry.Timestamp
}

// FormatLine renders an entry as a single flat line:
//
//	[<timestamp>] [<level>] [<category>] <message> | <json(data)>
//
// The " | ..." suffix is only present when the entry carries a data payload.
func FormatLine(entry logstore.Entry) string {
	line := fmt.Sprintf("[%s] [%s] [%s] %s",
		DisplayTimestamp(entry), entry.Level, entry.Category, entry.Message)
	if entry.HasData() {
		if data, err := json.Marshal(entry.Data); err == nil {
			line += " | " + string(data)
		}
	}
	return line
}

// FormatBlock renders an entry as a multi-line block for single-record copy:
// the prefix fields on a header line, the message on its own line, and a
// pretty-printed payload when present.
func FormatBlock(entry logstore.Entry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] [%s] [%s]\n", DisplayTimestamp(entry), entry.Level, entry.Category)
	b.WriteString(entry.Message)
	if entry.HasData() {
		if data, err := json.MarshalIndent(entry.Data, "", "  "); err == nil {
			b.WriteString("\nData: ")
			b.Write(data)
		}
	}
	return b.String()
}

// ExportText renders the given entries, one FormatLine per line. The caller
// passes the currently filtered view so the export matches what the operator
// sees. Zero entries yield the empty string.
func ExportText(entries []logstore.Entry) string {
	if len(entries) == 0 {
		return ""
	}
	lines := make([]string, len(entries))
	for i, entry := range entries {
		lines[i] = FormatLine(entry)
	}
	return strings.Join(lines, "\n")
}
