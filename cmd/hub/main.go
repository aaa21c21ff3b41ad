// The hub binary runs the room sensor station: fall detection, button
// event capture, environmental monitoring and the status API the vision
// unit polls.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/aldercare/go-vigil/internal/config"
	"github.com/aldercare/go-vigil/internal/log"
	"github.com/aldercare/go-vigil/pkg/hubapp"
)

func main() {
	cfg := parseFlags()
	log.Init(cfg.LogLevel)

	app := hubapp.New(cfg)
	if err := app.Init(); err != nil {
		log.Error("initialization failed", "error", err)
		os.Exit(1)
	}
	defer app.Shutdown()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx); err != nil {
		log.Error("hub exited with error", "error", err)
		os.Exit(1)
	}
}

func parseFlags() config.HubConfig {
	cfg, err := config.LoadHub()
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	addr := flag.String("addr", "", "status API listen address (overrides config)")
	mock := flag.Bool("mock", false, "use mock hardware instead of the sensor board")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *addr != "" {
		cfg.Addr = *addr
	}
	if *mock {
		cfg.MockHardware = true
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	return cfg
}
