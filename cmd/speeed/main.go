// Package main is the entry point for the speeed CLI.
// All the actual logic lives in internal/commands.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/seraprogrammer/speeed/internal/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := commands.Main(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}
