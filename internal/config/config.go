package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Backend  BackendConfig
	Geocoder GeocoderConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Admin    AdminConfig
	Monitor  MonitorConfig
	Crowd    CrowdConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type LogConfig struct {
	Level slog.Level
}

type BackendConfig struct {
	URL     string
	Timeout time.Duration
}

type GeocoderConfig struct {
	URL     string
	Timeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// Enabled reports whether events should be sent to kafka at all.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

type AdminConfig struct {
	Username           string
	PasswordHash       string
	SessionTTL         time.Duration
	SessionCheck       time.Duration
	LoginAttempts      int
	LoginAttemptWindow time.Duration
}

type MonitorConfig struct {
	AlertInterval    time.Duration
	FootfallInterval time.Duration
}

type CrowdConfig struct {
	High         int64
	Critical     int64
	DefaultState string
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverPort, err := envInt("SERVER_PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	level, err := parseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	backendURL := strings.TrimRight(os.Getenv("BACKEND_URL"), "/")
	if backendURL == "" {
		return nil, fmt.Errorf("%s: missing BACKEND_URL", op)
	}

	backendTimeout, err := envDuration("BACKEND_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	geocoderTimeout, err := envDuration("GEOCODER_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	postgresPort, err := envInt("POSTGRES_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	postgresUser := os.Getenv("POSTGRES_USER")
	if postgresUser == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_USER", op)
	}

	postgresPassword := os.Getenv("POSTGRES_PASSWORD")
	if postgresPassword == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_PASSWORD", op)
	}

	postgresDB := os.Getenv("POSTGRES_DB")
	if postgresDB == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_DB", op)
	}

	redisDB, err := envInt("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	adminCfg, err := adminConfig()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	monitorCfg, err := monitorConfig()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	crowdCfg, err := crowdConfig()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Config{
		Server: ServerConfig{
			Host: envString("SERVER_HOST", "localhost"),
			Port: serverPort,
		},
		Log: LogConfig{Level: level},
		Backend: BackendConfig{
			URL:     backendURL,
			Timeout: backendTimeout,
		},
		Geocoder: GeocoderConfig{
			URL:     envString("GEOCODER_URL", "https://nominatim.openstreetmap.org"),
			Timeout: geocoderTimeout,
		},
		Postgres: PostgresConfig{
			User:     postgresUser,
			Password: postgresPassword,
			Name:     postgresDB,
			Host:     envString("POSTGRES_HOST", "localhost"),
			Port:     postgresPort,
			SSLMode:  envString("POSTGRES_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     envString("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   envString("KAFKA_TOPIC", "tourdash.events"),
		},
		Admin:   adminCfg,
		Monitor: monitorCfg,
		Crowd:   crowdCfg,
	}, nil
}

func adminConfig() (AdminConfig, error) {
	ttl, err := envDuration("SESSION_TTL", 10*time.Minute)
	if err != nil {
		return AdminConfig{}, err
	}
	check, err := envDuration("SESSION_CHECK_INTERVAL", 30*time.Second)
	if err != nil {
		return AdminConfig{}, err
	}
	attempts, err := envInt("ADMIN_LOGIN_ATTEMPTS", 5)
	if err != nil {
		return AdminConfig{}, err
	}
	window, err := envDuration("ADMIN_LOGIN_WINDOW", time.Minute)
	if err != nil {
		return AdminConfig{}, err
	}

	return AdminConfig{
		Username:           os.Getenv("ADMIN_USERNAME"),
		PasswordHash:       os.Getenv("ADMIN_PASSWORD_HASH"),
		SessionTTL:         ttl,
		SessionCheck:       check,
		LoginAttempts:      attempts,
		LoginAttemptWindow: window,
	}, nil
}

func monitorConfig() (MonitorConfig, error) {
	alerts, err := envDuration("ALERT_REFRESH_INTERVAL", 30*time.Second)
	if err != nil {
		return MonitorConfig{}, err
	}
	footfall, err := envDuration("FOOTFALL_REFRESH_INTERVAL", 30*time.Second)
	if err != nil {
		return MonitorConfig{}, err
	}
	return MonitorConfig{AlertInterval: alerts, FootfallInterval: footfall}, nil
}

func crowdConfig() (CrowdConfig, error) {
	high, err := envInt("CROWD_HIGH_THRESHOLD", 15000)
	if err != nil {
		return CrowdConfig{}, err
	}
	critical, err := envInt("CROWD_CRITICAL_THRESHOLD", 25000)
	if err != nil {
		return CrowdConfig{}, err
	}
	if high <= 0 || critical <= high {
		return CrowdConfig{}, fmt.Errorf("invalid crowd thresholds: high=%d critical=%d", high, critical)
	}
	return CrowdConfig{
		High:         int64(high),
		Critical:     int64(critical),
		DefaultState: envString("DEFAULT_STATE", "Rajasthan"),
	}, nil
}

func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) (int, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := strings.TrimSpace(os.Getenv(key))
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
