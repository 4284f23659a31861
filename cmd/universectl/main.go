// Package main provides a CLI for creating and advancing universes.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	universectl "github.com/louisbranch/tickverse/internal/cmd/universectl"
	"github.com/louisbranch/tickverse/internal/platform/config"
)

func main() {
	cfg, err := universectl.ParseConfig(os.Args[1:])
	if errors.Is(err, universectl.ErrHelp) {
		return
	}
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := universectl.Run(ctx, cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
