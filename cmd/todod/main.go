// Package main is the entry point for the todod server and CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"todod/internal/backend/httpapi"
	"todod/internal/cli"
	"todod/internal/commands"
	"todod/internal/config"
	"todod/internal/service"
)

func main() {
	// Cancel on interrupt; serve shuts down gracefully
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Client commands talk to a running server
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return httpapi.New(cfg.ServerURL())
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
