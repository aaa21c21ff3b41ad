// Package visionapp assembles and runs the vision unit: detection
// consumption, proximity alert generation, hub status polling, alert
// arbitration, spoken announcements, session logging and the dashboard.
package visionapp

import (
	"context"
	"fmt"
	"time"

	"github.com/aldercare/go-vigil/internal/config"
	"github.com/aldercare/go-vigil/internal/log"
	"github.com/aldercare/go-vigil/pkg/alert"
	"github.com/aldercare/go-vigil/pkg/announce"
	"github.com/aldercare/go-vigil/pkg/camera"
	"github.com/aldercare/go-vigil/pkg/detect"
	"github.com/aldercare/go-vigil/pkg/proximity"
	"github.com/aldercare/go-vigil/pkg/remote"
	"github.com/aldercare/go-vigil/pkg/sessionlog"
	"github.com/aldercare/go-vigil/pkg/visionapi"
	"github.com/aldercare/go-vigil/pkg/worker"
)

const shutdownTimeout = 5 * time.Second

// App is the assembled vision-unit process.
type App struct {
	cfg config.VisionConfig

	logger    *sessionlog.Logger
	sessionID string

	frames    camera.Source
	detector  detect.Detector
	generator *proximity.Generator

	channel    *announce.Channel
	speaker    announce.Speaker
	arbitrator *alert.Arbitrator
	poller     *remote.Poller
	server     *visionapi.Server
}

// New creates the app around cfg.
func New(cfg config.VisionConfig) *App {
	return &App{cfg: cfg}
}

// Init opens the session log, the camera and detector, and builds the
// pipeline. Camera or model being absent disables local proximity
// alerting with a single startup report; remote polling and the
// dashboard still run.
func (a *App) Init(ctx context.Context) error {
	logger, err := sessionlog.Open(ctx, "file:"+a.cfg.DBPath)
	if err != nil {
		return fmt.Errorf("session log: %w", err)
	}
	a.logger = logger

	a.sessionID, err = logger.StartSession(ctx)
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	log.Info("session started", "session_id", a.sessionID)

	a.openDetection()

	a.generator = proximity.NewGenerator(proximity.Config{
		RelevantClasses: a.cfg.RelevantClasses,
		CriticalRatio:   a.cfg.CriticalRatio,
		WarningRatio:    a.cfg.WarningRatio,
		CenterDeadzone:  a.cfg.CenterDeadzone,
	})

	a.speaker = announce.NewCommandSpeaker(a.cfg.SpeechCommand)
	a.channel = announce.NewChannel(a.speaker, a.cfg.QueueSize)

	a.server = visionapi.NewServer(a.cfg.Addr, a.logger, a.generator, a.sessionID)

	a.arbitrator = alert.NewArbitrator(alert.Config{
		DispatchCap: a.cfg.DispatchCap,
		Windows: alert.Windows{
			ProximityCritical: a.cfg.ProximityCritical,
			ProximityOther:    a.cfg.ProximityOther,
			Fall:              a.cfg.FallCooldown,
			Emergency:         a.cfg.EmergencyCooldown,
			Assistance:        a.cfg.AssistCooldown,
		},
	}, a.channel, a.recorder())

	a.poller = remote.NewPoller(a.cfg.HubURL, a.cfg.PollInterval, a.cfg.PollTimeout, a.arbitrator)
	return nil
}

// openDetection opens the camera and loads the model. Either being
// unavailable is reported once; the pipeline runs without local
// detection.
func (a *App) openDetection() {
	cam, err := camera.OpenWebcam(a.cfg.CameraID)
	if err != nil {
		log.Warn("camera unavailable, proximity alerts disabled", "error", err)
		return
	}

	yoloCfg := detect.DefaultYOLOConfig()
	yoloCfg.ModelPath = a.cfg.ModelPath
	det, err := detect.NewYOLO(yoloCfg)
	if err != nil {
		log.Warn("detector unavailable, proximity alerts disabled", "error", err)
		cam.Close()
		return
	}

	a.frames = cam
	a.detector = det
}

// recorder fans accepted alerts out to the session log and the
// dashboard's websocket feed.
func (a *App) recorder() alert.Recorder {
	durable := sessionlog.NewRecorder(a.logger, a.sessionID)
	return recorderFunc(func(al alert.Alert) {
		durable.RecordAlert(al)
		a.server.PublishAlert(al)
	})
}

type recorderFunc func(alert.Alert)

func (f recorderFunc) RecordAlert(a alert.Alert) { f(a) }

// Run starts every worker and blocks until ctx is cancelled or the
// dashboard fails.
func (a *App) Run(ctx context.Context) error {
	group := worker.NewGroup(ctx)

	group.Go("announcements", a.channel.Run)

	for _, cat := range []remote.Category{
		remote.CategoryFall,
		remote.CategoryEmergency,
		remote.CategoryAssistance,
	} {
		cat := cat
		group.Go("poll-"+string(cat), func(ctx context.Context) {
			a.poller.Run(ctx, cat)
		})
	}

	if a.detector != nil {
		group.Tick("inference", a.cfg.InferenceInterval, a.inferenceCycle)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.server.Start()
	}()

	log.Info("vision unit running", "addr", a.cfg.Addr, "hub", a.cfg.HubURL)

	var err error
	select {
	case <-ctx.Done():
	case err = <-serverErr:
		if err != nil {
			log.Error("dashboard failed", "error", err)
		}
	}

	group.Stop(shutdownTimeout)
	return err
}

// inferenceCycle runs one detect-classify-arbitrate pass.
func (a *App) inferenceCycle(now time.Time) {
	frame, err := a.frames.Frame()
	if err != nil {
		log.Debug("frame grab failed", "error", err)
		return
	}
	result, err := a.detector.Detect(frame)
	if err != nil {
		log.Debug("inference failed", "error", err)
		return
	}

	dets, candidates := a.generator.Process(result, now)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for _, d := range dets {
		if err := a.logger.LogDetection(ctx, a.sessionID, d, now); err != nil {
			log.Debug("detection not persisted", "error", err)
		}
	}

	a.arbitrator.Offer(now, candidates)
}

// Shutdown stops the dashboard, ends the session and releases devices.
func (a *App) Shutdown() {
	if a.server != nil {
		a.server.Shutdown()
	}
	if a.detector != nil {
		a.detector.Close()
	}
	if a.frames != nil {
		a.frames.Close()
	}
	if a.speaker != nil {
		a.speaker.Close()
	}
	if a.logger != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.logger.EndSession(ctx, a.sessionID); err != nil {
			log.Warn("session not closed cleanly", "error", err)
		}
		a.logger.Close()
	}
}
