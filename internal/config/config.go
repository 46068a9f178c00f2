// Package config handles loading and validating the talkboard configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for talkboard.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Transports TransportsConfig `mapstructure:"transports"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	TTS        TTSConfig        `mapstructure:"tts"`
	Translate  TranslateConfig  `mapstructure:"translate"`
	History    HistoryConfig    `mapstructure:"history"`
	Suggest    SuggestConfig    `mapstructure:"suggest"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig holds the health check server settings.
type ServerConfig struct {
	HealthPort int `mapstructure:"health_port"`
}

// TransportsConfig holds the configuration for each transport layer.
type TransportsConfig struct {
	HTTP HTTPConfig `mapstructure:"http"`
	GRPC GRPCConfig `mapstructure:"grpc"`
	MCP  MCPConfig  `mapstructure:"mcp"`
}

// HTTPConfig configures the HTTP/WebSocket API.
type HTTPConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// GRPCConfig configures the gRPC health endpoint.
type GRPCConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// MCPConfig toggles the MCP stdio tool server.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig locates the durable key-value store.
// An empty Path keeps everything in memory.
type StorageConfig struct {
	Path string `mapstructure:"path"`
}

// CatalogConfig points at an optional YAML file of custom pictograms.
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// TTSConfig configures the speech orchestrator and its backends.
type TTSConfig struct {
	DefaultLanguage string        `mapstructure:"default_language"` // ISO-639-1
	MaxUtterance    time.Duration `mapstructure:"max_utterance"`    // 0 disables the playback watchdog
	Volume          float64       `mapstructure:"volume"`           // initial volume when nothing is persisted
	Offline         OfflineConfig `mapstructure:"offline"`
	Native          NativeConfig  `mapstructure:"native"`
}

// OfflineConfig configures the on-device synthetic voice.
type OfflineConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	Languages  []string `mapstructure:"languages"` // languages the offline voice is preferred for
	SampleRate int      `mapstructure:"sample_rate"`
}

// NativeConfig configures the platform speech engine.
//
// Engine is "auto", "espeak-ng" or "say". With "auto" the engine is picked
// from the host OS. Binary overrides the executable path.
type NativeConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Engine  string `mapstructure:"engine"`
	Binary  string `mapstructure:"binary"`
	Rate    int    `mapstructure:"rate"` // words per minute at rate factor 1.0
}

// TranslateConfig selects provider priority and credentials.
type TranslateConfig struct {
	Provider string        `mapstructure:"provider"` // "google" (default) or "deepl" tried first
	Timeout  time.Duration `mapstructure:"timeout"`
	Google   GoogleConfig  `mapstructure:"google"`
	DeepL    DeepLConfig   `mapstructure:"deepl"`
}

// GoogleConfig holds Google Cloud Translation v2 settings.
type GoogleConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
}

// DeepLConfig holds DeepL API settings.
type DeepLConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
}

// HistoryConfig caps the usage history.
type HistoryConfig struct {
	MaxEntries int `mapstructure:"max_entries"`
}

// SuggestConfig tunes the next-pictogram suggestions.
type SuggestConfig struct {
	Limit int `mapstructure:"limit"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, text
}

// Load reads the configuration from file, environment variables, and defaults.
// If configFile is non-empty it is used directly; otherwise the standard
// search order applies: ./talkboard.yaml, ./configs/talkboard.yaml, /etc/talkboard/talkboard.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("talkboard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/talkboard")
	}

	// Environment variables: TALKBOARD_TTS_DEFAULT_LANGUAGE, TALKBOARD_TRANSLATE_PROVIDER, etc.
	v.SetEnvPrefix("TALKBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		slog.Info("no config file found, using defaults and environment variables")
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.Translate.Provider = strings.ToLower(strings.TrimSpace(cfg.Translate.Provider))
	cfg.Translate.Google.APIKey = resolveEnvRef(cfg.Translate.Google.APIKey)
	cfg.Translate.DeepL.APIKey = resolveEnvRef(cfg.Translate.DeepL.APIKey)
	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Catalog.Path = expandHome(cfg.Catalog.Path)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.health_port", 8081)
	v.SetDefault("transports.http.enabled", true)
	v.SetDefault("transports.http.port", 8080)
	v.SetDefault("transports.grpc.enabled", false)
	v.SetDefault("transports.grpc.port", 50051)
	v.SetDefault("transports.mcp.enabled", false)
	v.SetDefault("storage.path", "~/.talkboard/talkboard.db")
	v.SetDefault("catalog.path", "")
	v.SetDefault("tts.default_language", "fr")
	v.SetDefault("tts.max_utterance", "60s")
	v.SetDefault("tts.volume", 1.0)
	v.SetDefault("tts.offline.enabled", true)
	v.SetDefault("tts.offline.languages", []string{"mg"})
	v.SetDefault("tts.offline.sample_rate", 22050)
	v.SetDefault("tts.native.enabled", true)
	v.SetDefault("tts.native.engine", "auto")
	v.SetDefault("tts.native.binary", "")
	v.SetDefault("tts.native.rate", 175)
	v.SetDefault("translate.provider", "google")
	v.SetDefault("translate.timeout", "8s")
	v.SetDefault("translate.google.endpoint", "https://translation.googleapis.com/language/translate/v2")
	v.SetDefault("translate.deepl.endpoint", "https://api-free.deepl.com/v2/translate")
	v.SetDefault("history.max_entries", 200)
	v.SetDefault("suggest.limit", 6)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate rejects settings that cannot work at all.
func (c *Config) Validate() error {
	if !c.TTS.Offline.Enabled && !c.TTS.Native.Enabled {
		return fmt.Errorf("config: at least one of tts.offline and tts.native must be enabled")
	}
	if c.TTS.Offline.SampleRate <= 0 {
		return fmt.Errorf("config: tts.offline.sample_rate must be positive, got %d", c.TTS.Offline.SampleRate)
	}
	if c.History.MaxEntries <= 0 {
		return fmt.Errorf("config: history.max_entries must be positive, got %d", c.History.MaxEntries)
	}
	switch strings.ToLower(c.Translate.Provider) {
	case "google", "deepl":
	default:
		return fmt.Errorf("config: unknown translate.provider %q", c.Translate.Provider)
	}
	return nil
}

// resolveEnvRef replaces "${VAR_NAME}" patterns with the corresponding env var value.
func resolveEnvRef(val string) string {
	if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
		envKey := val[2 : len(val)-1]
		if envVal := os.Getenv(envKey); envVal != "" {
			return envVal
		}
	}
	return val
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// SetupLogging configures the global slog logger based on config.
func SetupLogging(cfg LoggingConfig) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	// stdout is reserved for the MCP stdio transport, so logs go to stderr.
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}
