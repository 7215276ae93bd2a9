package logging

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Qendolin/proxy-log-console/pkg/logstore"
)

// entryTimeLayout is the ISO-8601 form stamped onto sink entries.
const entryTimeLayout = "2006-01-02T15:04:05.000Z"

// Sink receives structured diagnostic records. The console's MemoryStore
// implements it, which lets the tool display its own diagnostics.
type Sink interface {
	Append(entry logstore.Entry)
}

// Logger is the operator-invisible diagnostic channel. It writes formatted
// lines to an io.Writer (typically a timestamped log file) and, when a sink
// is attached, structured entries alongside.
type Logger struct {
	mu     sync.Mutex
	writer io.Writer
	sink   Sink
	debug  bool
	now    func() time.Time
}

// NewLogger creates a Logger that discards output until a writer or sink is
// attached.
func NewLogger() *Logger {
	return &Logger{
		writer: io.Discard,
		now:    time.Now,
	}
}

// SetWriter sets the textual output destination.
func (l *Logger) SetWriter(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if w == nil {
		w = io.Discard
	}
	l.writer = w
}

// SetSink attaches a structured sink; nil detaches.
func (l *Logger) SetSink(sink Sink) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sink = sink
}

// SetDebug enables or disables debug-level logging.
func (l *Logger) SetDebug(enable bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = enable
}

// IsDebugEnabled reports whether debug-level messages are emitted.
func (l *Logger) IsDebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

// Eventf logs a message with a structured payload attached to the sink
// entry. The payload does not appear in the textual output line.
func (l *Logger) Eventf(level, category string, data map[string]any, format string, v ...any) {
	l.emit(level, category, data, fmt.Sprintf(format, v...))
}

// Infof logs a formatted informational message under the given category.
func (l *Logger) Infof(category, format string, v ...any) {
	l.emit(logstore.LevelInfo, category, nil, fmt.Sprintf(format, v...))
}

// Warnf logs a formatted warning under the given category.
func (l *Logger) Warnf(category, format string, v ...any) {
	l.emit(logstore.LevelWarn, category, nil, fmt.Sprintf(format, v...))
}

// Errorf logs a formatted error under the given category.
func (l *Logger) Errorf(category, format string, v ...any) {
	l.emit(logstore.LevelError, category, nil, fmt.Sprintf(format, v...))
}

// Debugf logs a formatted debug message under the given category. Dropped
// unless debug logging is enabled.
func (l *Logger) Debugf(category, format string, v ...any) {
	l.emit(logstore.LevelDebug, category, nil, fmt.Sprintf(format, v...))
}

func (l *Logger) emit(level, category string, data map[string]any, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level == logstore.LevelDebug && !l.debug {
		return
	}

	now := l.now().UTC()
	fmt.Fprintf(l.writer, "%s %-5s [%s] %s\n",
		now.Format("15:04:05.000"), level, category, message)
	if l.sink != nil {
		l.sink.Append(logstore.Entry{
			Timestamp: now.Format(entryTimeLayout),
			Level:     level,
			Category:  category,
			Message:   message,
			Data:      data,
		})
	}
}

// ---- Global / Default Logger ----

var defaultLogger = NewLogger()

// SetDefault replaces the default logger instance.
func SetDefault(logger *Logger) {
	if logger != nil {
		defaultLogger = logger
	}
}

// Default returns the default logger instance.
func Default() *Logger {
	return defaultLogger
}

// Infof logs a formatted informational message using the default logger.
func Infof(category, format string, v ...any) {
	defaultLogger.Infof(category, format, v...)
}

// Warnf logs a formatted warning using the default logger.
func Warnf(category, format string, v ...any) {
	defaultLogger.Warnf(category, format, v...)
}

// Errorf logs a formatted error using the default logger.
func Errorf(category, format string, v ...any) {
	defaultLogger.Errorf(category, format, v...)
}

// Debugf logs a formatted debug message using the default logger.
func Debugf(category, format string, v ...any) {
	defaultLogger.Debugf(category, format, v...)
}

// Eventf logs a message with a structured payload using the default logger.
func Eventf(level, category string, data map[string]any, format string, v ...any) {
	defaultLogger.Eventf(level, category, data, format, v...)
}
