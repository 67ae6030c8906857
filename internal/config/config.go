package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	API       APIConfig
	Showcases ShowcasesConfig
	Redis     RedisConfig
	Playback  PlaybackConfig
	Metrics   MetricsConfig
	Tracing   TracingConfig
	Log       LogConfig
}

// APIConfig holds Vimeo API client configuration. The access token is
// a fixed credential; rotation is out of scope.
type APIConfig struct {
	BaseURL     string
	AccessToken string
	ClientID    string
	UserAgent   string
	Timeout     time.Duration
}

// ShowcasesConfig holds the fixed showcase (album) ids shown by the
// app, one per tab.
type ShowcasesConfig struct {
	Main      string
	Secondary string
	Third     string
}

// RedisConfig holds catalog cache configuration.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	TTL      time.Duration
}

// PlaybackConfig holds playback session configuration.
type PlaybackConfig struct {
	ControlsTimeout   time.Duration
	LoadTimeout       time.Duration
	TickInterval      time.Duration
	FallbackStreamURL string
}

// MetricsConfig holds the metrics server configuration.
type MetricsConfig struct {
	Enabled bool
	Port    int
}

// TracingConfig holds Jaeger tracing configuration.
type TracingConfig struct {
	Enabled           bool
	ServiceName       string
	CollectorEndpoint string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
	Output string
}

// Load reads configuration from file and environment variables. A
// missing file is not an error; defaults and environment apply.
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("streamview")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.API.AccessToken == "" {
		return nil, fmt.Errorf("api.accessToken is required")
	}

	return &config, nil
}

// isNotExist reports whether reading failed only because the file is
// absent. viper wraps that differently depending on how the path was
// set, so both shapes are checked.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func setDefaults() {
	// API defaults
	viper.SetDefault("api.baseURL", "https://api.vimeo.com")
	viper.SetDefault("api.accessToken", "")
	viper.SetDefault("api.clientID", "")
	viper.SetDefault("api.userAgent", "StreamingApp/1.0")
	viper.SetDefault("api.timeout", "30s")

	// Showcase defaults
	viper.SetDefault("showcases.main", "18401281")
	viper.SetDefault("showcases.secondary", "18401283")
	viper.SetDefault("showcases.third", "18401278")

	// Redis defaults
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttl", "5m")

	// Playback defaults
	viper.SetDefault("playback.controlsTimeout", "5s")
	viper.SetDefault("playback.loadTimeout", "15s")
	viper.SetDefault("playback.tickInterval", "1s")
	viper.SetDefault("playback.fallbackStreamURL", "https://sample-videos.com/zip/10/mp4/SampleVideo_1280x720_1mb.mp4")

	// Metrics defaults
	viper.SetDefault("metrics.enabled", true)
	viper.SetDefault("metrics.port", 9091)

	// Tracing defaults
	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.serviceName", "streamview")
	viper.SetDefault("tracing.collectorEndpoint", "http://localhost:14268/api/traces")

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")
	viper.SetDefault("log.output", "stdout")
}
