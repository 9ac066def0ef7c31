package main

import (
	"fmt"
	"os"

	"github.com/riskibarqy/tournament-ledger/internal/config"
	"github.com/riskibarqy/tournament-ledger/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewConsole(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()

	if err := newCLI(cfg, logger).Run(os.Args); err != nil {
		logger.Error("ledger command failed", "error", err)
		os.Exit(1)
	}
}
