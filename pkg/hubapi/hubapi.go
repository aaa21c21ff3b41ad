// Package hubapi exposes the sensor hub's alert state over HTTP.
//
// Status endpoints are idempotent GET reads of the alert state store; the
// acknowledge endpoints clear the corresponding active flag and nothing
// else. The vision unit polls these from its remote status poller.
package hubapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/aldercare/go-vigil/internal/log"
	"github.com/aldercare/go-vigil/pkg/alertstate"
	"github.com/aldercare/go-vigil/pkg/imu"
)

// Diagnostics provides the instantaneous IMU reading for /api/sensor_data.
// The imu.Sampler satisfies this; a nil Diagnostics marks the sensor board
// as unavailable.
type Diagnostics interface {
	Latest() (imu.Reading, bool)
}

// Server is the hub's HTTP status server.
type Server struct {
	app   *fiber.App
	addr  string
	store *alertstate.Store
	diag  Diagnostics
}

// NewServer creates the status server. diag may be nil when the sensor
// board is absent; /api/sensor_data then reports 503.
func NewServer(addr string, store *alertstate.Store, diag Diagnostics) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	s := &Server{app: app, addr: addr, store: store, diag: diag}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.app.Group("/api")

	api.Get("/fall_status", s.handleFallStatus)
	api.Get("/fall_acknowledge", s.handleFallAcknowledge)
	api.Get("/emergency_status", s.handleEmergencyStatus)
	api.Get("/emergency_acknowledge", s.handleEmergencyAcknowledge)
	api.Get("/assistance_status", s.handleAssistanceStatus)
	api.Get("/assistance_acknowledge", s.handleAssistanceAcknowledge)
	api.Get("/environmental", s.handleEnvironmental)
	api.Get("/sensor_data", s.handleSensorData)
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	log.Info("hub API listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleFallStatus(c *fiber.Ctx) error {
	return c.JSON(s.store.Fall())
}

func (s *Server) handleEmergencyStatus(c *fiber.Ctx) error {
	return c.JSON(s.store.Emergency())
}

func (s *Server) handleAssistanceStatus(c *fiber.Ctx) error {
	return c.JSON(s.store.Assistance())
}

func (s *Server) handleEnvironmental(c *fiber.Ctx) error {
	return c.JSON(s.store.Environment())
}

func (s *Server) handleFallAcknowledge(c *fiber.Ctx) error {
	s.store.AcknowledgeFall()
	return acknowledged(c)
}

func (s *Server) handleEmergencyAcknowledge(c *fiber.Ctx) error {
	s.store.AcknowledgeEmergency()
	return acknowledged(c)
}

func (s *Server) handleAssistanceAcknowledge(c *fiber.Ctx) error {
	s.store.AcknowledgeAssistance()
	return acknowledged(c)
}

func (s *Server) handleSensorData(c *fiber.Ctx) error {
	if s.diag == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "sensor board not available",
		})
	}
	reading, ok := s.diag.Latest()
	if !ok {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "no sample yet",
		})
	}
	return c.JSON(fiber.Map{
		"acceleration": reading.Accel,
		"gyroscope":    reading.Gyro,
		"orientation":  reading.Orientation,
		"timestamp":    reading.Timestamp.Format(time.RFC3339Nano),
	})
}

func acknowledged(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "acknowledged",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}
