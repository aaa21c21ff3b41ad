package envsense

import (
	"errors"
	"testing"
	"time"

	"github.com/aldercare/go-vigil/pkg/alertstate"
)

func TestSampler_UpdatesSnapshot(t *testing.T) {
	store := alertstate.New()
	sensor := NewMock()
	sensor.Set(Reading{TemperatureC: 20, Humidity: 55.26, Pressure: 1008.14})

	s := NewSampler(sensor, store, DefaultConfig())
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	s.sample(now)

	env := store.Environment()
	if env.TemperatureC != 20 {
		t.Errorf("temperature_c: got %v, want 20", env.TemperatureC)
	}
	if env.TemperatureF != 68 {
		t.Errorf("temperature_f: got %v, want 68", env.TemperatureF)
	}
	if env.Humidity != 55.3 {
		t.Errorf("humidity: got %v, want 55.3", env.Humidity)
	}
	if !env.LastUpdate.Equal(now) {
		t.Errorf("last_update: got %v, want %v", env.LastUpdate, now)
	}
}

func TestSampler_ReadFailureKeepsLastSnapshot(t *testing.T) {
	store := alertstate.New()
	sensor := NewMock()
	sensor.Set(Reading{TemperatureC: 22, Humidity: 40, Pressure: 1010})

	s := NewSampler(sensor, store, DefaultConfig())
	s.sample(time.Now())

	sensor.ReadFunc = func() (Reading, error) {
		return Reading{}, errors.New("i2c timeout")
	}
	s.sample(time.Now())

	if got := store.Environment().TemperatureC; got != 22 {
		t.Errorf("snapshot overwritten on failed read: temp %v", got)
	}
}
