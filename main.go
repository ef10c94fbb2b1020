package main

import (
	"log"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"queuectl/cmd"
	"queuectl/internal/appconfig"
	"queuectl/internal/logging"
	"queuectl/internal/queue"
	"queuectl/internal/store"
)

func main() {
	cfg, err := appconfig.Load()
	if err != nil {
		log.Fatal("failed to load configuration: ", err)
	}

	zapLog, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to build logger: ", err)
	}
	defer zapLog.Sync()

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		zapLog.Fatal("failed to create data directory", zap.Error(err))
	}

	dbPath := filepath.Join(cfg.DataDir, "queue.db")
	st, err := store.Open(dbPath, zapLog)
	if err != nil {
		zapLog.Fatal("failed to open store", zap.Error(err))
	}
	defer st.Close()

	app := &cmd.App{
		Store:        st,
		Queue:        queue.New(st),
		Log:          zapLog,
		DataDir:      cfg.DataDir,
		PollInterval: cfg.PollInterval,
		SingleRun:    cfg.SingleRun,
		Port:         cfg.Port,
	}

	if err := cmd.Execute(app); err != nil {
		zapLog.Error("command failed", zap.Error(err))
		os.Exit(1)
	}
}
