// Datacanvas is a command-line client for the DataCanvas access-key API.
//
// It lists the devices of a project and reads datatable records, printing
// them as a table, JSON or YAML. Credentials come from a YAML config file or
// DATACANVAS_* environment variables.
//
// Usage:
//
//	datacanvas [command] [flags]
//
// See 'datacanvas --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
