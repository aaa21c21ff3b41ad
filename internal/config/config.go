// Package config holds runtime configuration for the vigil hub and vision
// unit processes. Defaults are defined in code; a .env file and environment
// variables override individual values, and an optional YAML file
// (VIGIL_CONFIG) can overlay either process's config wholesale.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// HubConfig configures the sensor-hub process.
type HubConfig struct {
	LogLevel string `yaml:"log_level"`
	Addr     string `yaml:"addr"` // status API listen address

	// MockHardware replaces the IMU, joystick, LED panel and environment
	// sensor with in-memory fakes. Used for development off-device.
	MockHardware bool `yaml:"mock_hardware"`

	Fall FallConfig `yaml:"fall"`
	Env  EnvConfig  `yaml:"env"`

	Notify NotifyConfig `yaml:"notify"`
}

// FallConfig holds fall classifier tuning.
type FallConfig struct {
	SampleInterval   time.Duration `yaml:"sample_interval"`   // IMU sampling period
	FreefallG        float64       `yaml:"freefall_g"`        // below this is freefall
	ImpactG          float64       `yaml:"impact_g"`          // above this is impact
	RotationDPS      float64       `yaml:"rotation_dps"`      // above this is rapid rotation
	ConfirmReadings  int           `yaml:"confirm_readings"`  // corroborating samples for impact falls
	Cooldown         time.Duration `yaml:"cooldown"`          // min gap between fall events
}

// EnvConfig holds environmental sampling tuning.
type EnvConfig struct {
	Interval    time.Duration `yaml:"interval"`
	TempMinF    float64       `yaml:"temp_min_f"`
	TempMaxF    float64       `yaml:"temp_max_f"`
	HumidityMin float64       `yaml:"humidity_min"`
	HumidityMax float64       `yaml:"humidity_max"`
}

// NotifyConfig configures optional caregiver notifiers.
// Both are disabled unless their connection settings are present.
type NotifyConfig struct {
	TelegramToken  string `yaml:"telegram_token"`
	TelegramChatID string `yaml:"telegram_chat_id"`
	MQTTBroker     string `yaml:"mqtt_broker"`
	MQTTTopic      string `yaml:"mqtt_topic"`
}

// VisionConfig configures the vision-unit process.
type VisionConfig struct {
	LogLevel string `yaml:"log_level"`
	Addr     string `yaml:"addr"` // dashboard API listen address

	HubURL      string        `yaml:"hub_url"`      // sensor hub base URL
	PollInterval time.Duration `yaml:"poll_interval"` // remote status poll period
	PollTimeout  time.Duration `yaml:"poll_timeout"`  // per-request timeout

	// Detection
	CameraID          int           `yaml:"camera_id"`          // capture device index
	InferenceInterval time.Duration `yaml:"inference_interval"` // detection cycle period
	ModelPath         string        `yaml:"model_path"`         // ONNX model for the gocv backend
	RelevantClasses   []string      `yaml:"relevant_classes"`   // classes eligible for proximity alerts

	// Proximity thresholds
	CriticalRatio  float64 `yaml:"critical_ratio"`  // bbox height / frame height
	WarningRatio   float64 `yaml:"warning_ratio"`
	CenterDeadzone float64 `yaml:"center_deadzone"` // fraction of frame width around center

	// Arbitration
	DispatchCap       int           `yaml:"dispatch_cap"`
	ProximityCritical time.Duration `yaml:"proximity_critical_cooldown"`
	ProximityOther    time.Duration `yaml:"proximity_other_cooldown"`
	FallCooldown      time.Duration `yaml:"fall_cooldown"`
	EmergencyCooldown time.Duration `yaml:"emergency_cooldown"`
	AssistCooldown    time.Duration `yaml:"assist_cooldown"`

	// Announcements
	SpeechCommand string `yaml:"speech_command"` // external TTS binary, e.g. espeak
	QueueSize     int    `yaml:"queue_size"`

	DBPath string `yaml:"db_path"` // session log database
}

// DefaultHub returns the recommended hub configuration.
func DefaultHub() HubConfig {
	return HubConfig{
		LogLevel: "info",
		Addr:     ":5000",
		Fall: FallConfig{
			SampleInterval:  50 * time.Millisecond, // 20 Hz
			FreefallG:       0.6,
			ImpactG:         2.0,
			RotationDPS:     150,
			ConfirmReadings: 2,
			Cooldown:        10 * time.Second,
		},
		Env: EnvConfig{
			Interval:    30 * time.Second,
			TempMinF:    60,
			TempMaxF:    85,
			HumidityMin: 30,
			HumidityMax: 70,
		},
	}
}

// DefaultVision returns the recommended vision-unit configuration.
func DefaultVision() VisionConfig {
	return VisionConfig{
		LogLevel:     "info",
		Addr:         ":5001",
		HubURL:       "http://localhost:5000",
		PollInterval: 2 * time.Second,
		PollTimeout:  time.Second,

		InferenceInterval: 500 * time.Millisecond,
		ModelPath:         "models/yolov8n.onnx",
		RelevantClasses:   []string{"person", "chair", "couch", "bed", "dining table", "door", "car", "bicycle", "dog", "stairs"},

		CriticalRatio:  0.6,
		WarningRatio:   0.4,
		CenterDeadzone: 0.15,

		DispatchCap:       1,
		ProximityCritical: 3 * time.Second,
		ProximityOther:    5 * time.Second,
		FallCooldown:      15 * time.Second,
		EmergencyCooldown: 15 * time.Second,
		AssistCooldown:    20 * time.Second,

		SpeechCommand: "espeak",
		QueueSize:     16,

		DBPath: "vigil_sessions.db",
	}
}

// LoadHub builds the hub config from defaults, an optional YAML file and
// environment variables, in that order of precedence (env wins).
func LoadHub() (HubConfig, error) {
	_ = godotenv.Load()

	cfg := DefaultHub()
	if err := overlayYAML(&cfg); err != nil {
		return cfg, err
	}

	cfg.LogLevel = getEnv("VIGIL_LOG_LEVEL", cfg.LogLevel)
	cfg.Addr = getEnv("VIGIL_HUB_ADDR", cfg.Addr)
	cfg.MockHardware = getEnvBool("VIGIL_MOCK_HARDWARE", cfg.MockHardware)
	cfg.Fall.Cooldown = getEnvDuration("VIGIL_FALL_COOLDOWN", cfg.Fall.Cooldown)
	cfg.Notify.TelegramToken = getEnv("VIGIL_TELEGRAM_TOKEN", cfg.Notify.TelegramToken)
	cfg.Notify.TelegramChatID = getEnv("VIGIL_TELEGRAM_CHAT_ID", cfg.Notify.TelegramChatID)
	cfg.Notify.MQTTBroker = getEnv("VIGIL_MQTT_BROKER", cfg.Notify.MQTTBroker)
	cfg.Notify.MQTTTopic = getEnv("VIGIL_MQTT_TOPIC", cfg.Notify.MQTTTopic)
	return cfg, nil
}

// LoadVision builds the vision-unit config the same way as LoadHub.
func LoadVision() (VisionConfig, error) {
	_ = godotenv.Load()

	cfg := DefaultVision()
	if err := overlayYAML(&cfg); err != nil {
		return cfg, err
	}

	cfg.LogLevel = getEnv("VIGIL_LOG_LEVEL", cfg.LogLevel)
	cfg.Addr = getEnv("VIGIL_VISION_ADDR", cfg.Addr)
	cfg.HubURL = getEnv("VIGIL_HUB_URL", cfg.HubURL)
	cfg.ModelPath = getEnv("VIGIL_MODEL_PATH", cfg.ModelPath)
	cfg.DBPath = getEnv("VIGIL_DB_PATH", cfg.DBPath)
	cfg.SpeechCommand = getEnv("VIGIL_SPEECH_COMMAND", cfg.SpeechCommand)
	cfg.PollInterval = getEnvDuration("VIGIL_POLL_INTERVAL", cfg.PollInterval)
	cfg.DispatchCap = getEnvInt("VIGIL_DISPATCH_CAP", cfg.DispatchCap)
	return cfg, nil
}

// overlayYAML applies the YAML file named by VIGIL_CONFIG, if set.
func overlayYAML(dst any) error {
	path := os.Getenv("VIGIL_CONFIG")
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}
