package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"selkit/internal/config"
	"selkit/internal/log"
	"selkit/internal/ui"
)

const defaultLogFile = "selkit.log"

func main() {
	// Parse command line arguments
	var targetDir string
	var debug bool
	flag.StringVar(&targetDir, "dir", "", "Directory holding "+config.FileName)
	flag.StringVar(&targetDir, "d", "", "Directory holding "+config.FileName+" (shorthand)")
	flag.BoolVar(&debug, "debug", false, "Log at debug level")
	flag.Parse()

	if targetDir == "" && flag.NArg() > 0 {
		targetDir = flag.Arg(0)
	}
	if targetDir == "" {
		var err error
		targetDir, err = os.Getwd()
		if err != nil {
			fmt.Printf("Error getting current directory: %v\n", err)
			os.Exit(1)
		}
	}

	absDir, err := filepath.Abs(targetDir)
	if err != nil {
		fmt.Printf("Error resolving path: %v\n", err)
		os.Exit(1)
	}

	configSvc := config.NewConfigService(absDir)
	cfg := loadOrCreateConfig(configSvc)

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil || debug {
		level = log.DebugLevel
	}

	// Set up logging
	var out io.Writer = io.Discard
	logFile, err := os.OpenFile(resolveLogPath(absDir, cfg.LogFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
	} else {
		defer logFile.Close()
		out = logFile
	}
	logger := log.New(log.UseOutput(out), log.UseLevel(level), log.UsePrefix("selkit"))

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	uiModel := ui.NewModel(cfg, logger)
	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithContext(ctx))
	uiModel.SetProgram(p)
	if os.Getenv("SELKIT_E2E_TEST") != "" {
		uiModel.SetReadyMarker("__READY__")
	}

	logger.Info("starting UI", "config", configSvc.Path(), "items", len(cfg.Items), "single", cfg.SingleSelect)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("error running program", "err", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	logger.Info("UI exited normally")
}

// loadOrCreateConfig loads the config from the directory, writing the
// defaults there if none exists yet
func loadOrCreateConfig(configSvc config.ConfigService) *config.Config {
	if _, err := os.Stat(configSvc.Path()); errors.Is(err, os.ErrNotExist) {
		cfg := config.DefaultConfig()
		if err := configSvc.Save(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save config: %v\n", err)
		}
		return cfg
	}

	cfg, err := configSvc.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// resolveLogPath places the log file in dir unless the configured path is
// absolute
func resolveLogPath(dir, configured string) string {
	if configured == "" {
		configured = defaultLogFile
	}
	if filepath.IsAbs(configured) {
		return configured
	}
	return filepath.Join(dir, configured)
}
