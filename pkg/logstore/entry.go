package logstore

// Canonical log levels. The store may deliver other strings; entries with an
// unrecognized level are kept and rendered with default styling.
const (
	LevelError = "ERROR"
	LevelWarn  = "WARN"
	LevelInfo  = "INFO"
	LevelDebug = "DEBUG"
)

// Levels lists the canonical levels in severity order. Used to populate the
// level filter options.
var Levels = []string{LevelError, LevelWarn, LevelInfo, LevelDebug}

// Entry is a single immutable log record as delivered by a store.
type Entry struct {
	// Timestamp is the store's textual timestamp, typically ISO-8601. It may
	// be malformed or empty and must never cause the entry to be rejected.
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Category  string         `json:"category"`
	Message   string         `json:"message"`
	// Data is an optional structured payload; nil when absent.
	Data map[string]any `json:"data,omitempty"`
}

// HasData reports whether the entry carries a structured payload.
func (e Entry) HasData() bool {
	return len(e.Data) > 0
}
