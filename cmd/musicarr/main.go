// Package main is the entrypoint of musicarr.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"musicarr/internal/cfg"
	"musicarr/internal/utils/logging"
)

// main is the main entrypoint of the program (duh!).
func main() {
	startTime := time.Now()
	logging.I("musicarr started at: %v", startTime.Format("2006-01-02 15:04:05.00 MST"))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT)
	defer cancel()

	if err := cfg.Execute(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	endTime := time.Now()
	logging.I("musicarr finished at: %v", endTime.Format("2006-01-02 15:04:05.00 MST"))
}
