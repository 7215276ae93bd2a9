package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Qendolin/proxy-log-console/pkg/config"
	"github.com/Qendolin/proxy-log-console/pkg/console"
	"github.com/Qendolin/proxy-log-console/pkg/logging"
	"github.com/Qendolin/proxy-log-console/pkg/logstore"
	"github.com/Qendolin/proxy-log-console/pkg/ui"
)

func main() {
	args := config.ParseCLIArgs()
	cfg, err := config.Resolve(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// 1. Set up logging first.
	mainLogger := logging.NewLogger()
	if err := os.MkdirAll(cfg.LogDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create log directory: %v\n", err)
		os.Exit(1)
	}
	logFileName := fmt.Sprintf("proxy-log-console-%s.log", time.Now().Format("2006-01-02_15-04-05"))
	logFile, err := os.OpenFile(filepath.Join(cfg.LogDir, logFileName), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()
	mainLogger.SetWriter(logFile)
	mainLogger.SetDebug(cfg.Verbose)
	logging.SetDefault(mainLogger)

	// 2. Build the log store. A JSON5 dump file when -input is given,
	// otherwise the in-memory store fed by this tool's own diagnostics.
	var store logstore.Store
	stopDemo := func() {}
	if cfg.Input != "" {
		store = logstore.NewFileStore(cfg.Input)
		logging.Infof("main", "reading logs from %s", cfg.Input)
	} else {
		memStore := logstore.NewMemoryStore(cfg.MaxEntries)
		mainLogger.SetSink(memStore)
		if cfg.Demo {
			stopDemo = startDemoProducer(memStore)
		}
		store = memStore
	}

	// 3. Wire controller and UI, then run.
	controller := console.NewController(store, mainLogger, cfg.PollInterval)
	app := ui.NewApp(controller, cfg.ExportDir)

	logging.Infof("main", "application starting up")
	if err := app.Run(); err != nil {
		stopDemo()
		logging.Errorf("main", "application exited with error: %v", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	stopDemo()
	logging.Infof("main", "application exited gracefully")
}
