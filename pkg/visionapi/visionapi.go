// Package visionapi exposes the vision unit's dashboard API: session
// history and stats out of the session log, the live scene tally, and a
// websocket feed of accepted alerts.
package visionapi

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/aldercare/go-vigil/internal/log"
	"github.com/aldercare/go-vigil/pkg/alert"
	"github.com/aldercare/go-vigil/pkg/sessionlog"
	"github.com/aldercare/go-vigil/pkg/wshub"
)

// SceneSource provides the most recent cycle's object counts.
// The proximity generator satisfies this.
type SceneSource interface {
	Scene() map[string]int
}

// Server is the dashboard HTTP and websocket server.
type Server struct {
	app  *fiber.App
	addr string

	logger    *sessionlog.Logger
	scene     SceneSource
	alertsHub *wshub.Hub

	sessionID string
	started   time.Time
}

// NewServer creates the dashboard server for one session. scene may be
// nil when detection is disabled; /api/scene then reports an empty tally.
func NewServer(addr string, logger *sessionlog.Logger, scene SceneSource, sessionID string) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	s := &Server{
		app:       app,
		addr:      addr,
		logger:    logger,
		scene:     scene,
		alertsHub: wshub.New("alerts"),
		sessionID: sessionID,
		started:   time.Now(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.app.Group("/api")

	api.Get("/health", s.handleHealth)
	api.Get("/status", s.handleStatus)
	api.Get("/scene", s.handleScene)
	api.Get("/alerts/recent", s.handleRecentAlerts)
	api.Get("/sessions", s.handleSessions)
	api.Get("/sessions/:id", s.handleSession)
	api.Get("/stats/overview", s.handleOverview)

	s.app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	s.app.Get("/ws/alerts", websocket.New(s.handleAlertsWS))
}

// Start runs the broadcast hub and serves until the listener fails or
// Shutdown is called.
func (s *Server) Start() error {
	go s.alertsHub.Run()
	log.Info("dashboard listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// PublishAlert pushes one accepted alert to connected dashboard clients.
func (s *Server) PublishAlert(a alert.Alert) {
	if err := s.alertsHub.BroadcastJSON(fiber.Map{
		"source":    string(a.Source),
		"severity":  a.Severity.String(),
		"object":    a.Object,
		"direction": a.Direction,
		"text":      a.Text,
		"timestamp": a.Timestamp.Format(time.RFC3339Nano),
	}); err != nil {
		log.Warn("alert broadcast failed", "error", err)
	}
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"session_id":     s.sessionID,
		"uptime_seconds": int(time.Since(s.started).Seconds()),
		"ws_clients":     s.alertsHub.ClientCount(),
	})
}

func (s *Server) handleScene(c *fiber.Ctx) error {
	counts := map[string]int{}
	if s.scene != nil {
		counts = s.scene.Scene()
	}
	total := 0
	summary := make([]string, 0, len(counts))
	for class, n := range counts {
		total += n
		summary = append(summary, fmt.Sprintf("%d %s", n, class))
	}
	sort.Strings(summary)

	// Scene summaries are requested on demand, so each one is recorded.
	if err := s.logger.LogScene(c.Context(), s.sessionID,
		strings.Join(summary, ", "), total, time.Now()); err != nil {
		log.Warn("scene summary not persisted", "error", err)
	}

	return c.JSON(fiber.Map{
		"objects": counts,
		"total":   total,
	})
}

func (s *Server) handleRecentAlerts(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	alerts, err := s.logger.RecentAlerts(c.Context(), limit)
	if err != nil {
		return dbError(c, err)
	}
	if alerts == nil {
		alerts = []sessionlog.AlertRow{}
	}
	return c.JSON(alerts)
}

func (s *Server) handleSessions(c *fiber.Ctx) error {
	sessions, err := s.logger.Sessions(c.Context())
	if err != nil {
		return dbError(c, err)
	}
	if sessions == nil {
		sessions = []sessionlog.Session{}
	}
	return c.JSON(sessions)
}

func (s *Server) handleSession(c *fiber.Ctx) error {
	stats, err := s.logger.SessionStats(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "session not found",
		})
	}
	return c.JSON(stats)
}

func (s *Server) handleOverview(c *fiber.Ctx) error {
	o, err := s.logger.Overview(c.Context())
	if err != nil {
		return dbError(c, err)
	}
	return c.JSON(o)
}

func (s *Server) handleAlertsWS(conn *websocket.Conn) {
	client := wshub.NewClient(s.alertsHub, conn)
	client.Run()
}

func dbError(c *fiber.Ctx, err error) error {
	log.Error("dashboard query failed", "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "query failed",
	})
}
