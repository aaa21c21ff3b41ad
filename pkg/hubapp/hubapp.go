// Package hubapp assembles and runs the sensor hub: IMU sampling and
// fall classification, joystick event capture, environmental sampling,
// LED feedback, the status API and optional caregiver notifiers.
package hubapp

import (
	"context"
	"errors"
	"time"

	"github.com/aldercare/go-vigil/internal/config"
	"github.com/aldercare/go-vigil/internal/log"
	"github.com/aldercare/go-vigil/pkg/alert"
	"github.com/aldercare/go-vigil/pkg/alertstate"
	"github.com/aldercare/go-vigil/pkg/envsense"
	"github.com/aldercare/go-vigil/pkg/fallsense"
	"github.com/aldercare/go-vigil/pkg/hubapi"
	"github.com/aldercare/go-vigil/pkg/imu"
	"github.com/aldercare/go-vigil/pkg/joystick"
	"github.com/aldercare/go-vigil/pkg/ledpanel"
	"github.com/aldercare/go-vigil/pkg/notify"
	"github.com/aldercare/go-vigil/pkg/sensehat"
	"github.com/aldercare/go-vigil/pkg/worker"
)

const shutdownTimeout = 5 * time.Second

// App is the assembled hub process.
type App struct {
	cfg   config.HubConfig
	store *alertstate.Store

	imuDevice imu.Device
	sampler   *imu.Sampler
	joyDevice joystick.Device
	panel     ledpanel.Panel
	hasLED    bool
	envSensor envsense.Sensor

	flasher   *ledpanel.Flasher
	notifiers *notify.Multi
	server    *hubapi.Server
}

// New creates the app around cfg.
func New(cfg config.HubConfig) *App {
	return &App{cfg: cfg, store: alertstate.New()}
}

// Init opens hardware and builds every component. Missing hardware
// disables the dependent feature with a single startup report; only the
// status API is mandatory.
func (a *App) Init() error {
	a.openHardware()

	a.flasher = ledpanel.NewFlasher(a.panel)
	a.notifiers = a.buildNotifiers()

	var diag hubapi.Diagnostics
	if a.imuDevice != nil {
		a.sampler = imu.NewSampler(a.imuDevice, a.cfg.Fall.SampleInterval)
		diag = a.sampler
	}
	a.server = hubapi.NewServer(a.cfg.Addr, a.store, diag)
	return nil
}

// openHardware selects mock or real devices. Each real device that is
// absent is reported once here; the hub keeps running without it.
func (a *App) openHardware() {
	if a.cfg.MockHardware {
		log.Info("mock hardware enabled")
		a.imuDevice = imu.NewMock()
		a.joyDevice = joystick.NewMock()
		a.panel = ledpanel.Null{}
		a.envSensor = envsense.NewMock()
		return
	}

	if dev, err := sensehat.OpenIMU(); err == nil {
		a.imuDevice = dev
	} else {
		log.Warn("inertial sensor unavailable, fall detection disabled", "error", err)
	}
	if dev, err := sensehat.OpenJoystick(); err == nil {
		a.joyDevice = dev
	} else {
		log.Warn("joystick unavailable, button events disabled", "error", err)
	}
	if dev, err := sensehat.OpenLED(); err == nil {
		a.panel = dev
		a.hasLED = true
	} else {
		log.Warn("LED panel unavailable, visual feedback disabled", "error", err)
		a.panel = ledpanel.Null{}
	}
	if dev, err := sensehat.OpenEnv(); err == nil {
		a.envSensor = dev
	} else {
		log.Warn("environment sensor unavailable, climate monitoring disabled", "error", err)
	}
}

func (a *App) buildNotifiers() *notify.Multi {
	var notifiers []notify.Notifier
	if a.cfg.Notify.TelegramToken != "" && a.cfg.Notify.TelegramChatID != "" {
		tg, err := notify.NewTelegram(a.cfg.Notify.TelegramToken, a.cfg.Notify.TelegramChatID)
		if err != nil {
			log.Warn("telegram notifier disabled", "error", err)
		} else {
			notifiers = append(notifiers, tg)
		}
	}
	if a.cfg.Notify.MQTTBroker != "" {
		topic := a.cfg.Notify.MQTTTopic
		if topic == "" {
			topic = "vigil/alerts"
		}
		mq, err := notify.NewMQTT(a.cfg.Notify.MQTTBroker, topic)
		if err != nil {
			log.Warn("mqtt notifier disabled", "error", err)
		} else {
			notifiers = append(notifiers, mq)
		}
	}
	m := notify.NewMulti(notifiers...)
	if m.Len() > 0 {
		log.Info("caregiver notifiers active", "count", m.Len())
	}
	return m
}

// Run starts every worker and blocks until ctx is cancelled or the
// status API fails.
func (a *App) Run(ctx context.Context) error {
	group := worker.NewGroup(ctx)

	if a.sampler != nil {
		classifier := fallsense.New(fallsense.Config{
			FreefallG:       a.cfg.Fall.FreefallG,
			ImpactG:         a.cfg.Fall.ImpactG,
			RotationDPS:     a.cfg.Fall.RotationDPS,
			ConfirmReadings: a.cfg.Fall.ConfirmReadings,
			Cooldown:        a.cfg.Fall.Cooldown,
		})
		group.Go("fall-detection", func(ctx context.Context) {
			a.sampler.Run(ctx, func(r imu.Reading) {
				if ev := classifier.Process(r); ev != nil {
					a.onFall(ev)
				}
			})
		})
	}

	if a.joyDevice != nil {
		monitor := joystick.NewMonitor(a.joyDevice, a.store, a.flasher)
		monitor.OnEmergency = a.onEmergency
		monitor.OnAssistance = a.onAssistance
		group.Go("joystick", monitor.Run)
	}

	if a.envSensor != nil {
		envSampler := envsense.NewSampler(a.envSensor, a.store, envsense.Config{
			Interval:    a.cfg.Env.Interval,
			TempMinF:    a.cfg.Env.TempMinF,
			TempMaxF:    a.cfg.Env.TempMaxF,
			HumidityMin: a.cfg.Env.HumidityMin,
			HumidityMax: a.cfg.Env.HumidityMax,
		})
		group.Go("environment", envSampler.Run)
	}

	if a.hasLED {
		animator := ledpanel.NewAnimator(a.panel, a.store.AnyActive)
		group.Go("led-idle", animator.Run)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.server.Start()
	}()

	log.Info("hub running", "addr", a.cfg.Addr)

	var err error
	select {
	case <-ctx.Done():
	case err = <-serverErr:
		if err != nil {
			log.Error("status API failed", "error", err)
		}
	}

	group.Stop(shutdownTimeout)
	return err
}

// Shutdown stops the API and releases hardware.
func (a *App) Shutdown() {
	if a.server != nil {
		a.server.Shutdown()
	}
	a.notifiers.Close()
	closeAll(a.imuDevice, a.joyDevice, a.envSensor, a.panel)
}

func (a *App) onFall(ev *fallsense.Event) {
	a.store.RecordFall(ev.Timestamp, ev.Acceleration, ev.Rotation)
	log.Info("fall recorded",
		"acceleration", ev.Acceleration, "rotation", ev.Rotation)
	go a.flasher.Flash(ledpanel.FallFlash)
	a.notifiers.Notify(alert.Alert{
		Source:    alert.SourceFall,
		Severity:  alert.SeverityCritical,
		Object:    "fall",
		Text:      "A fall has been detected. Please check on the resident.",
		Timestamp: ev.Timestamp,
	})
}

func (a *App) onEmergency(ts time.Time) {
	a.notifiers.Notify(alert.Alert{
		Source:    alert.SourceEmergency,
		Severity:  alert.SeverityCritical,
		Object:    "emergency",
		Text:      "The emergency button has been pressed.",
		Timestamp: ts,
	})
}

func (a *App) onAssistance(ts time.Time, req joystick.AssistanceType) {
	info := req.Info()
	a.notifiers.Notify(alert.Alert{
		Source:    alert.SourceAssistance,
		Severity:  alert.SeverityWarning,
		Object:    info.Name,
		Text:      info.Message,
		Timestamp: ts,
	})
}

type closer interface{ Close() error }

func closeAll(closers ...closer) {
	for _, c := range closers {
		if c != nil {
			if err := c.Close(); err != nil && !errors.Is(err, imu.ErrUnavailable) {
				log.Debug("close failed", "error", err)
			}
		}
	}
}
