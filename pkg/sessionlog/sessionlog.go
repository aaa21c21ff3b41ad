// Package sessionlog records detections, alerts and scene summaries into
// a SQLite database, grouped by monitoring session.
package sessionlog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/aldercare/go-vigil/pkg/alert"
	"github.com/aldercare/go-vigil/pkg/proximity"
)

const timeLayout = time.RFC3339Nano

// Logger is the durable event log. All methods are safe for concurrent
// use; database/sql serializes access to the single connection pool.
type Logger struct {
	db *sql.DB
}

// Open opens or creates the database at dsn and ensures the schema
// exists. An empty dsn falls back to a local file.
func Open(ctx context.Context, dsn string) (*Logger, error) {
	if strings.TrimSpace(dsn) == "" {
		dsn = "file:vigil.db?_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session log: %w", err)
	}
	l := &Logger{db: db}
	if err := l.init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return l, nil
}

func (l *Logger) init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			start_time TEXT NOT NULL,
			end_time TEXT,
			duration_seconds INTEGER,
			total_detections INTEGER DEFAULT 0,
			total_alerts INTEGER DEFAULT 0,
			critical_alerts INTEGER DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS detections (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			ts TEXT NOT NULL,
			object_type TEXT NOT NULL,
			distance_category TEXT,
			distance_score REAL,
			direction TEXT,
			bbox_x1 INTEGER,
			bbox_y1 INTEGER,
			bbox_x2 INTEGER,
			bbox_y2 INTEGER,
			confidence REAL,
			FOREIGN KEY (session_id) REFERENCES sessions(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_detections_session ON detections(session_id)`,
		`CREATE TABLE IF NOT EXISTS alerts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			ts TEXT NOT NULL,
			source TEXT NOT NULL,
			severity TEXT NOT NULL,
			object_type TEXT NOT NULL,
			direction TEXT,
			alert_text TEXT,
			FOREIGN KEY (session_id) REFERENCES sessions(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_ts ON alerts(ts)`,
		`CREATE TABLE IF NOT EXISTS scene_summaries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			ts TEXT NOT NULL,
			summary_text TEXT NOT NULL,
			object_count INTEGER,
			FOREIGN KEY (session_id) REFERENCES sessions(id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init session log schema: %w", err)
		}
	}
	return nil
}

// Close releases the database handle.
func (l *Logger) Close() error { return l.db.Close() }

// StartSession opens a new session and returns its ID.
func (l *Logger) StartSession(ctx context.Context) (string, error) {
	id := uuid.New().String()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO sessions (id, start_time) VALUES (?, ?)`,
		id, time.Now().UTC().Format(timeLayout))
	if err != nil {
		return "", fmt.Errorf("start session: %w", err)
	}
	return id, nil
}

// EndSession stamps the session's end time and rolls up its totals.
func (l *Logger) EndSession(ctx context.Context, id string) error {
	var startStr string
	err := l.db.QueryRowContext(ctx,
		`SELECT start_time FROM sessions WHERE id = ?`, id).Scan(&startStr)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	start, err := time.Parse(timeLayout, startStr)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	end := time.Now().UTC()

	_, err = l.db.ExecContext(ctx, `
		UPDATE sessions SET
			end_time = ?,
			duration_seconds = ?,
			total_detections = (SELECT COUNT(*) FROM detections WHERE session_id = ?),
			total_alerts = (SELECT COUNT(*) FROM alerts WHERE session_id = ?),
			critical_alerts = (SELECT COUNT(*) FROM alerts WHERE session_id = ? AND severity = 'critical')
		WHERE id = ?`,
		end.Format(timeLayout), int(end.Sub(start).Seconds()), id, id, id, id)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

// LogDetection records one classified detection.
func (l *Logger) LogDetection(ctx context.Context, sessionID string, d proximity.Detection, ts time.Time) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO detections
		(session_id, ts, object_type, distance_category, distance_score,
		 direction, bbox_x1, bbox_y1, bbox_x2, bbox_y2, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sessionID, ts.UTC().Format(timeLayout), d.Class, d.Category.String(),
		d.Score, d.Direction, d.Box.X1, d.Box.Y1, d.Box.X2, d.Box.Y2, d.Confidence)
	if err != nil {
		return fmt.Errorf("log detection: %w", err)
	}
	return nil
}

// LogAlert records one accepted alert.
func (l *Logger) LogAlert(ctx context.Context, sessionID string, a alert.Alert) error {
	ts := a.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO alerts
		(session_id, ts, source, severity, object_type, direction, alert_text)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sessionID, ts.UTC().Format(timeLayout), string(a.Source),
		a.Severity.String(), a.Object, a.Direction, a.Text)
	if err != nil {
		return fmt.Errorf("log alert: %w", err)
	}
	return nil
}

// LogScene records an on-demand scene summary.
func (l *Logger) LogScene(ctx context.Context, sessionID, summary string, objectCount int, ts time.Time) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO scene_summaries (session_id, ts, summary_text, object_count)
		VALUES (?, ?, ?, ?)`,
		sessionID, ts.UTC().Format(timeLayout), summary, objectCount)
	if err != nil {
		return fmt.Errorf("log scene: %w", err)
	}
	return nil
}

// AlertRow is one persisted alert.
type AlertRow struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Severity  string    `json:"severity"`
	Object    string    `json:"object_type"`
	Direction string    `json:"direction"`
	Text      string    `json:"alert_text"`
}

// RecentAlerts returns up to limit alerts, newest first.
func (l *Logger) RecentAlerts(ctx context.Context, limit int) ([]AlertRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, session_id, ts, source, severity, object_type, direction, alert_text
		FROM alerts ORDER BY ts DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent alerts: %w", err)
	}
	defer rows.Close()

	var out []AlertRow
	for rows.Next() {
		var r AlertRow
		var ts string
		if err := rows.Scan(&r.ID, &r.SessionID, &ts, &r.Source, &r.Severity,
			&r.Object, &r.Direction, &r.Text); err != nil {
			return nil, fmt.Errorf("recent alerts: %w", err)
		}
		r.Timestamp, _ = time.Parse(timeLayout, ts)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Session is one session row with its rolled-up totals.
type Session struct {
	ID              string     `json:"id"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	DurationSeconds int64      `json:"duration_seconds"`
	TotalDetections int64      `json:"total_detections"`
	TotalAlerts     int64      `json:"total_alerts"`
	CriticalAlerts  int64      `json:"critical_alerts"`
}

// Sessions lists all sessions, newest first.
func (l *Logger) Sessions(ctx context.Context) ([]Session, error) {
	rows, err := l.db.QueryContext(ctx, `
		SELECT id, start_time, end_time,
		       COALESCE(duration_seconds, 0),
		       COALESCE(total_detections, 0),
		       COALESCE(total_alerts, 0),
		       COALESCE(critical_alerts, 0)
		FROM sessions ORDER BY start_time DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ObjectCount is one class's share of a session's detections.
type ObjectCount struct {
	Object string `json:"object_type"`
	Count  int64  `json:"count"`
}

// SessionStats holds one session plus its object distribution and alert
// timeline.
type SessionStats struct {
	Session            Session       `json:"session"`
	ObjectDistribution []ObjectCount `json:"object_distribution"`
	AlertTimeline      []AlertRow    `json:"alert_timeline"`
}

// SessionStats returns detail for one session.
func (l *Logger) SessionStats(ctx context.Context, id string) (SessionStats, error) {
	row := l.db.QueryRowContext(ctx, `
		SELECT id, start_time, end_time,
		       COALESCE(duration_seconds, 0),
		       COALESCE(total_detections, 0),
		       COALESCE(total_alerts, 0),
		       COALESCE(critical_alerts, 0)
		FROM sessions WHERE id = ?`, id)
	s, err := scanSession(row)
	if err != nil {
		return SessionStats{}, fmt.Errorf("session stats: %w", err)
	}
	stats := SessionStats{Session: s}

	rows, err := l.db.QueryContext(ctx, `
		SELECT object_type, COUNT(*) FROM detections
		WHERE session_id = ? GROUP BY object_type ORDER BY COUNT(*) DESC`, id)
	if err != nil {
		return SessionStats{}, fmt.Errorf("session stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var oc ObjectCount
		if err := rows.Scan(&oc.Object, &oc.Count); err != nil {
			return SessionStats{}, fmt.Errorf("session stats: %w", err)
		}
		stats.ObjectDistribution = append(stats.ObjectDistribution, oc)
	}
	if err := rows.Err(); err != nil {
		return SessionStats{}, err
	}

	arows, err := l.db.QueryContext(ctx, `
		SELECT id, session_id, ts, source, severity, object_type, direction, alert_text
		FROM alerts WHERE session_id = ? ORDER BY ts`, id)
	if err != nil {
		return SessionStats{}, fmt.Errorf("session stats: %w", err)
	}
	defer arows.Close()
	for arows.Next() {
		var r AlertRow
		var ts string
		if err := arows.Scan(&r.ID, &r.SessionID, &ts, &r.Source, &r.Severity,
			&r.Object, &r.Direction, &r.Text); err != nil {
			return SessionStats{}, fmt.Errorf("session stats: %w", err)
		}
		r.Timestamp, _ = time.Parse(timeLayout, ts)
		stats.AlertTimeline = append(stats.AlertTimeline, r)
	}
	return stats, arows.Err()
}

// Overview aggregates totals across every session.
type Overview struct {
	TotalSessions   int64 `json:"total_sessions"`
	TotalDuration   int64 `json:"total_duration_seconds"`
	TotalDetections int64 `json:"total_detections"`
	TotalAlerts     int64 `json:"total_alerts"`
	CriticalAlerts  int64 `json:"total_critical_alerts"`
}

// Overview returns the all-time totals.
func (l *Logger) Overview(ctx context.Context) (Overview, error) {
	var o Overview
	err := l.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(duration_seconds), 0),
		       COALESCE(SUM(total_detections), 0),
		       COALESCE(SUM(total_alerts), 0),
		       COALESCE(SUM(critical_alerts), 0)
		FROM sessions`).Scan(
		&o.TotalSessions, &o.TotalDuration, &o.TotalDetections,
		&o.TotalAlerts, &o.CriticalAlerts)
	if err != nil {
		return Overview{}, fmt.Errorf("overview: %w", err)
	}
	return o, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (Session, error) {
	var s Session
	var start string
	var end sql.NullString
	if err := row.Scan(&s.ID, &start, &end, &s.DurationSeconds,
		&s.TotalDetections, &s.TotalAlerts, &s.CriticalAlerts); err != nil {
		return Session{}, err
	}
	s.StartTime, _ = time.Parse(timeLayout, start)
	if end.Valid {
		t, err := time.Parse(timeLayout, end.String)
		if err == nil {
			s.EndTime = &t
		}
	}
	return s, nil
}
