package console

import (
	"github.com/atotto/clipboard"

	"github.com/Qendolin/proxy-log-console/pkg/logstore"
)

// CopyEntry places the entry's block rendering on the system clipboard.
// Clipboard failures are best-effort: the error is returned for the caller
// to surface, but nothing in the console treats it as fatal.
func CopyEntry(entry logstore.Entry) error {
	return clipboard.WriteAll(FormatBlock(entry))
}
