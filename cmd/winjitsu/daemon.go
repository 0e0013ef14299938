package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/1broseidon/winjitsu/internal/config"
	"github.com/1broseidon/winjitsu/internal/daemon"
	"github.com/1broseidon/winjitsu/internal/hotkeys"
	"github.com/1broseidon/winjitsu/internal/platform"
)

func runDaemon(args []string, stderr io.Writer) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: winjitsu daemon")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Bind the configured hotkeys and run the matching action on key press.")
		return 0
	}
	if len(args) > 0 {
		fmt.Fprintln(stderr, "daemon takes no arguments")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Usage: winjitsu daemon")
		return 2
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load configuration: %v\n", err)
		return 1
	}
	logger := newLogger(cfg, stderr)

	bindings, err := hotkeys.Bindings(cfg.Hotkeys)
	if err != nil {
		logger.Error("invalid hotkeys", "error", err)
		return 1
	}
	if len(bindings) == 0 {
		logger.Error("no hotkeys configured")
		return 1
	}

	// Key grabs always need a live X connection, whichever backend moves windows.
	xconn, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		logger.Error("failed to connect to display", "error", err)
		return 1
	}
	defer xconn.Disconnect()

	var backend platform.Backend = xconn
	if cfg.Backend != config.BackendX11 {
		var closeBackend func()
		backend, closeBackend, err = openBackend(cfg)
		if err != nil {
			logger.Error("failed to open backend", "backend", cfg.Backend, "error", err)
			return 1
		}
		defer closeBackend()
	}

	runner, err := newRunner(cfg, backend, logger)
	if err != nil {
		logger.Error("failed to create runner", "error", err)
		return 1
	}

	handler := hotkeys.NewHandler(xconn, runner, logger)
	if handler.RegisterAll(bindings) == 0 {
		logger.Error("no hotkey could be bound")
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.CachePruneInterval > 0 {
		store, err := openCache(cfg)
		if err != nil {
			logger.Error("failed to open cache", "error", err)
			return 1
		}
		reconciler := daemon.NewReconciler(daemon.ReconcilerConfig{
			Interval: cfg.CachePruneInterval,
			Logger:   logger,
		}, store, xconn.Windows)
		reconciler.ReconcileNow()
		go reconciler.Run(ctx)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		sig := <-sigCh
		logger.Info("shutting down winjitsu daemon", "signal", sig.String())
		cancel()
		xconn.Quit()
	}()

	logger.Info("winjitsu daemon started", "backend", cfg.Backend, "hotkeys", len(bindings))
	xconn.EventLoop()
	return 0
}
