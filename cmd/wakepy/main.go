// Command wakepy is a thin example entry point over the Mode engine:
// it registers the built-in Methods once, enters keep.presenting (or
// keep.running with -r), holds it until the process receives an
// interrupt, then exits cleanly.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	log "github.com/hashicorp/go-hclog"

	"github.com/wakepy-go/wakepy/dbusadapter"
	"github.com/wakepy-go/wakepy/defaults"
	"github.com/wakepy-go/wakepy/mode"
	"github.com/wakepy-go/wakepy/registry"
)

func main() {
	logger := log.New(&log.LoggerOptions{Name: "wakepy"})

	running := flag.Bool("r", false, "enter keep.running instead of keep.presenting")
	presenting := flag.Bool("p", false, "enter keep.presenting (default)")
	flag.Parse()

	modeName := defaults.KeepPresenting
	if *running && !*presenting {
		modeName = defaults.KeepRunning
	}

	if err := defaults.RegisterDefaultMethods(registry.Default, dbusadapter.NewDefaultAdapter()); err != nil {
		logger.Error("registering default methods", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := mode.Run(ctx, modeName, mode.Config{Logger: logger, OnFail: mode.OnFailError()}, func(ctx context.Context, m *mode.Mode) error {
		logger.Info("mode active", "mode", m.Name(), "method", m.Result().Method)
		<-ctx.Done()
		return nil
	})
	if err != nil {
		logger.Error("wakepy exited with error", "error", err)
		os.Exit(1)
	}
}
