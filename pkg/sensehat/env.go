package sensehat

import (
	"github.com/aldercare/go-vigil/pkg/envsense"
)

// Env reads temperature, humidity and pressure from the Sense HAT's
// environmental sensors over IIO sysfs.
type Env struct {
	humidityDir string
	pressureDir string
}

// OpenEnv locates the humidity and pressure IIO devices.
func OpenEnv() (*Env, error) {
	humidity, err := findIIODevice("hts221")
	if err != nil {
		return nil, ErrNotFound
	}
	pressure, err := findIIODevice("lps25h")
	if err != nil {
		return nil, ErrNotFound
	}
	return &Env{humidityDir: humidity, pressureDir: pressure}, nil
}

// Read returns the current environmental sample. Temperature comes from
// the humidity sensor's thermometer; pressure is converted from the
// kernel's kilopascals to millibars.
func (e *Env) Read() (envsense.Reading, error) {
	temp, err := iioValue(e.humidityDir, "temp")
	if err != nil {
		return envsense.Reading{}, err
	}
	humidity, err := iioValue(e.humidityDir, "humidityrelative")
	if err != nil {
		return envsense.Reading{}, err
	}
	pressure, err := iioValue(e.pressureDir, "pressure")
	if err != nil {
		return envsense.Reading{}, err
	}
	return envsense.Reading{
		TemperatureC: temp / 1000, // millidegrees
		Humidity:     humidity / 1000,
		Pressure:     pressure * 10,
	}, nil
}

// Close releases nothing; sysfs reads hold no file handles open.
func (e *Env) Close() error { return nil }
