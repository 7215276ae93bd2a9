package main

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Qendolin/proxy-log-console/pkg/logstore"
)

// demoEvent is one synthetic proxy log template.
type demoEvent struct {
	level    string
	category string
	message  string
	data     func() map[string]any
}

var demoEvents = []demoEvent{
	{logstore.LevelInfo, "proxy", "forwarded request", func() map[string]any {
		return map[string]any{
			"method":  "GET",
			"path":    fmt.Sprintf("/api/v1/items/%d", rand.Intn(500)),
			"status":  200,
			"elapsed": fmt.Sprintf("%dms", rand.Intn(120)),
		}
	}},
	{logstore.LevelInfo, "cache", "cache hit", nil},
	{logstore.LevelDebug, "cache", "cache miss, fetching upstream", nil},
	{logstore.LevelWarn, "auth", "token close to expiry", func() map[string]any {
		return map[string]any{"expires_in": rand.Intn(300)}
	}},
	{logstore.LevelError, "auth", "error connecting to identity provider", func() map[string]any {
		return map[string]any{"code": 401}
	}},
	{logstore.LevelError, "proxy", "upstream timeout", func() map[string]any {
		return map[string]any{"upstream": "api.internal:8443", "timeout": "5s"}
	}},
	{logstore.LevelInfo, "script", "request script completed", nil},
}

// startDemoProducer feeds synthetic proxy traffic into the store until the
// returned stop function is called. Development convenience only.
func startDemoProducer(store *logstore.MemoryStore) func() {
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(700 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				event := demoEvents[rand.Intn(len(demoEvents))]
				var data map[string]any
				if event.data != nil {
					data = event.data()
				}
				store.Append(logstore.Entry{
					Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
					Level:     event.level,
					Category:  event.category,
					Message:   event.message,
					Data:      data,
				})
			}
		}
	}()
	return func() { close(done) }
}
