// Package main is the entry point for the gambo room client.
package main

import (
	"fmt"
	"os"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/gambo89/gambo-room/internal/config"
	"github.com/gambo89/gambo-room/internal/game"
	"github.com/gambo89/gambo-room/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== gambo room ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	// Without an assets directory there is nothing to show on the TV or
	// the speaker. Ask for one before giving up.
	if stat, err := os.Stat(cfg.Room.AssetsDir); err != nil || !stat.IsDir() {
		dir, err := dialog.Directory().Title("Select the room assets directory").Browse()
		if err != nil {
			if err != dialog.ErrCancelled {
				fmt.Fprintf(os.Stderr, "Directory dialog error: %v\n", err)
			}
			logger.Error("no assets directory configured")
			os.Exit(1)
		}
		cfg.Room.AssetsDir = dir
	}

	g, err := game.New(cfg)
	if err != nil {
		logger.Error("failed to create room", zap.Error(err))
		os.Exit(1)
	}
	defer g.Close()

	if err := g.Run(); err != nil {
		logger.Error("room error", zap.Error(err))
		os.Exit(1)
	}

	// Persist the (possibly dialog-chosen) settings for the next run.
	if err := cfg.Save(); err != nil {
		logger.Warn("failed to save config", zap.Error(err))
	}

	logger.Info("room closed normally")
}
