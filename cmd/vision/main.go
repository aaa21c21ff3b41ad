// The vision binary runs the head-mounted unit: object detection
// consumption, proximity alerts, hub status polling, arbitration, spoken
// announcements, session logging and the dashboard API.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/aldercare/go-vigil/internal/config"
	"github.com/aldercare/go-vigil/internal/log"
	"github.com/aldercare/go-vigil/pkg/visionapp"
)

func main() {
	cfg := parseFlags()
	log.Init(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	app := visionapp.New(cfg)
	if err := app.Init(ctx); err != nil {
		log.Error("initialization failed", "error", err)
		os.Exit(1)
	}
	defer app.Shutdown()

	if err := app.Run(ctx); err != nil {
		log.Error("vision unit exited with error", "error", err)
		os.Exit(1)
	}
}

func parseFlags() config.VisionConfig {
	cfg, err := config.LoadVision()
	if err != nil {
		log.Error("configuration error", "error", err)
		os.Exit(1)
	}

	addr := flag.String("addr", "", "dashboard listen address (overrides config)")
	hubURL := flag.String("hub", "", "sensor hub base URL (overrides config)")
	model := flag.String("model", "", "ONNX model path (overrides config)")
	cameraID := flag.Int("camera", cfg.CameraID, "capture device index")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *addr != "" {
		cfg.Addr = *addr
	}
	if *hubURL != "" {
		cfg.HubURL = *hubURL
	}
	if *model != "" {
		cfg.ModelPath = *model
	}
	cfg.CameraID = *cameraID
	if *debug {
		cfg.LogLevel = "debug"
	}
	return cfg
}
