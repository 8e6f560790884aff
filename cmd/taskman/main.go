// Command taskman is an interactive console to-do list manager.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"taskman/internal/config"
	"taskman/internal/logging"
	"taskman/internal/menu"
	"taskman/internal/todo"
	"taskman/internal/ui"
)

const version = "0.1.0"

func main() {
	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if err := run(ctx, os.Args[1:]); err != nil {
		if ctx.Err() != nil {
			fmt.Fprintf(os.Stderr, "\nInterrupted\n")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskman", flag.ContinueOnError)
	cfg, err := config.Load(fs, args)
	if err != nil {
		return err
	}

	if cfg.ShowVersion {
		fmt.Printf("taskman %s\n", version)
		return nil
	}

	logger := logging.NewFromConfig(os.Stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps)

	store := todo.Open(cfg.TaskFile,
		todo.WithSchema(cfg.SchemaFile),
		todo.WithLogger(logger),
	)

	if cfg.TUI {
		return ui.Run(ctx, store.Path())
	}

	loop := menu.New(store, os.Stdin, os.Stdout, logger)
	return loop.Run(ctx)
}
