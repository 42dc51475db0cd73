package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type FanoutMode string

const (
	FanoutInline FanoutMode = "inline"
	FanoutStream FanoutMode = "stream"
)

// AppConfig is everything the binaries read from the environment.
type AppConfig struct {
	Port string

	MongoURI    string
	MongoDB     string
	PostgresURI string
	RedisAddr   string
	GCSBucket   string

	JWTSecret string
	JWTTTL    time.Duration

	FanoutMode        FanoutMode
	FanoutConcurrency int
	FanoutWorkers     int
	ReclaimIdle       time.Duration

	StrictTransitions bool
	LogLevel          string
}

// Load reads the environment and fails fast on missing or malformed values.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:        envOr("PORT", "8080"),
		MongoURI:    os.Getenv("MONGO_URI"),
		MongoDB:     envOr("MONGO_DB", "jobportal"),
		PostgresURI: os.Getenv("POSTGRES_URI"),
		RedisAddr:   firstEnv("REDIS_ADDR", "REDIS_URI", "REDIS_URL"),
		GCSBucket:   os.Getenv("GCS_BUCKET"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		LogLevel:    envOr("LOG_LEVEL", "info"),
	}

	var errs []error
	if cfg.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}

	var err error
	if cfg.JWTTTL, err = durationEnv("JWT_TTL", 24*time.Hour); err != nil {
		errs = append(errs, err)
	}
	if cfg.ReclaimIdle, err = durationEnv("NOTIFY_RECLAIM_IDLE", 5*time.Minute); err != nil {
		errs = append(errs, err)
	}
	if cfg.FanoutConcurrency, err = intEnv("NOTIFY_FANOUT_CONCURRENCY", 16); err != nil {
		errs = append(errs, err)
	}
	if cfg.FanoutWorkers, err = intEnv("NOTIFY_WORKERS", 2); err != nil {
		errs = append(errs, err)
	}
	if cfg.StrictTransitions, err = boolEnv("APPLICATION_STRICT_TRANSITIONS", false); err != nil {
		errs = append(errs, err)
	}

	switch mode := FanoutMode(strings.ToLower(envOr("NOTIFY_FANOUT_MODE", string(FanoutInline)))); mode {
	case FanoutInline, FanoutStream:
		cfg.FanoutMode = mode
	default:
		errs = append(errs, fmt.Errorf("NOTIFY_FANOUT_MODE must be inline or stream, got %q", mode))
	}
	if cfg.FanoutMode == FanoutStream && cfg.RedisAddr == "" {
		errs = append(errs, errors.New("NOTIFY_FANOUT_MODE=stream requires REDIS_ADDR"))
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: must be a positive integer, got %q", key, v)
	}
	return n, nil
}

func boolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: invalid bool %q", key, v)
	}
	return b, nil
}
