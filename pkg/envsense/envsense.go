// Package envsense samples temperature, humidity and pressure on the hub.
//
// Readings feed the status API only; out-of-range conditions are logged as
// warnings for the caregiver dashboard but never become spoken alerts.
package envsense

import (
	"context"
	"time"

	"github.com/aldercare/go-vigil/internal/log"
	"github.com/aldercare/go-vigil/pkg/alertstate"
)

// Reading is one environmental sample.
type Reading struct {
	TemperatureC float64
	Humidity     float64 // percent
	Pressure     float64 // millibars
}

// Sensor is the environment sensor interface.
type Sensor interface {
	Read() (Reading, error)
	Close() error
}

// Config holds sampling cadence and the comfort envelope used for warnings.
type Config struct {
	Interval    time.Duration
	TempMinF    float64
	TempMaxF    float64
	HumidityMin float64
	HumidityMax float64
}

// DefaultConfig returns the recommended envelope for an indoor care room.
func DefaultConfig() Config {
	return Config{
		Interval:    30 * time.Second,
		TempMinF:    60,
		TempMaxF:    85,
		HumidityMin: 30,
		HumidityMax: 70,
	}
}

// Sampler periodically reads the sensor into the alert state store.
type Sampler struct {
	sensor Sensor
	store  *alertstate.Store
	cfg    Config
}

// NewSampler creates a sampler.
func NewSampler(sensor Sensor, store *alertstate.Store, cfg Config) *Sampler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	return &Sampler{sensor: sensor, store: store, cfg: cfg}
}

// Run samples until ctx is done. Read failures are logged and retried on
// the next tick.
func (s *Sampler) Run(ctx context.Context) {
	// Take an initial sample so the status API has data before the
	// first tick.
	s.sample(time.Now())

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.sample(now)
		}
	}
}

func (s *Sampler) sample(now time.Time) {
	r, err := s.sensor.Read()
	if err != nil {
		log.Warn("environment read failed", "error", err)
		return
	}

	tempF := r.TemperatureC*9/5 + 32
	s.store.SetEnvironment(alertstate.EnvSnapshot{
		TemperatureC: round1(r.TemperatureC),
		TemperatureF: round1(tempF),
		Humidity:     round1(r.Humidity),
		Pressure:     round1(r.Pressure),
		LastUpdate:   now,
	})

	if tempF > s.cfg.TempMaxF {
		log.Warn("high temperature", "temp_f", round1(tempF))
	} else if tempF < s.cfg.TempMinF {
		log.Warn("low temperature", "temp_f", round1(tempF))
	}
	if r.Humidity > s.cfg.HumidityMax {
		log.Warn("high humidity", "humidity", round1(r.Humidity))
	} else if r.Humidity < s.cfg.HumidityMin {
		log.Warn("low humidity", "humidity", round1(r.Humidity))
	}
}

func round1(v float64) float64 {
	if v < 0 {
		return float64(int(v*10-0.5)) / 10
	}
	return float64(int(v*10+0.5)) / 10
}
