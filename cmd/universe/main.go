package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	universecmd "github.com/louisbranch/tickverse/internal/cmd/universe"
)

func main() {
	cfg, err := universecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[UNIVERSE] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := universecmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
