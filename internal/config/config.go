// Package config loads taskflow settings from defaults, an optional YAML
// file, a .env file and TASKFLOW_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/alexanderramin/taskflow/internal/llm"
)

// EnvPrefix is prepended to every environment override, e.g.
// TASKFLOW_LLM_PROVIDER for llm.provider.
const EnvPrefix = "TASKFLOW"

// Config holds all taskflow settings. It is built once by Load and passed
// to the constructors that need it.
type Config struct {
	DB          DBConfig    `mapstructure:"db"`
	Log         LogConfig   `mapstructure:"log"`
	LLMSettings LLMSettings `mapstructure:"llm"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// LLMSettings mirrors llm.Config in file/env friendly form.
type LLMSettings struct {
	Enabled             bool            `mapstructure:"enabled"`
	Provider            string          `mapstructure:"provider"`
	Endpoint            string          `mapstructure:"endpoint"`
	Model               string          `mapstructure:"model"`
	APIKey              string          `mapstructure:"api_key"`
	TimeoutMs           int             `mapstructure:"timeout_ms"`
	PrioritizeTimeoutMs int             `mapstructure:"prioritize_timeout_ms"`
	MaxRetries          int             `mapstructure:"max_retries"`
	LogCalls            bool            `mapstructure:"log_calls"`
	Breaker             BreakerSettings `mapstructure:"breaker"`
}

type BreakerSettings struct {
	Enabled          bool `mapstructure:"enabled"`
	FailureThreshold int  `mapstructure:"failure_threshold"`
	OpenTimeoutMs    int  `mapstructure:"open_timeout_ms"`
	HalfOpenRequests int  `mapstructure:"half_open_requests"`
}

// Load reads configuration. Precedence, highest first:
//  1. TASKFLOW_* environment variables (ANTHROPIC_API_KEY for llm.api_key)
//  2. variables from a .env file in the working directory
//  3. the YAML file at path, or taskflow.yaml in the working directory or
//     ~/.taskflow when path is empty
//  4. built-in defaults
func Load(path string) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("taskflow")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".taskflow"))
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "ANTHROPIC_API_KEY")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := llm.DefaultConfig()

	v.SetDefault("db.path", defaultDBPath())
	v.SetDefault("log.level", "info")

	v.SetDefault("llm.enabled", false)
	v.SetDefault("llm.provider", string(def.Provider))
	v.SetDefault("llm.endpoint", def.Endpoint)
	v.SetDefault("llm.model", def.Model)
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.timeout_ms", def.TimeoutMs)
	v.SetDefault("llm.prioritize_timeout_ms", def.TaskTimeout(llm.TaskPrioritize))
	v.SetDefault("llm.max_retries", def.MaxRetries)
	v.SetDefault("llm.log_calls", false)

	v.SetDefault("llm.breaker.enabled", def.Breaker.Enabled)
	v.SetDefault("llm.breaker.failure_threshold", int(def.Breaker.FailureThreshold))
	v.SetDefault("llm.breaker.open_timeout_ms", def.Breaker.OpenTimeoutMs)
	v.SetDefault("llm.breaker.half_open_requests", int(def.Breaker.HalfOpenRequests))
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "taskflow.db"
	}
	return filepath.Join(home, ".taskflow", "taskflow.db")
}

// Validate rejects settings that would only fail later at first use.
func (c *Config) Validate() error {
	switch llm.Provider(c.LLMSettings.Provider) {
	case llm.ProviderOllama, llm.ProviderAnthropic:
	default:
		return fmt.Errorf("llm.provider: unknown provider %q (want ollama or anthropic)", c.LLMSettings.Provider)
	}
	if c.LLMSettings.TimeoutMs <= 0 {
		return fmt.Errorf("llm.timeout_ms must be positive, got %d", c.LLMSettings.TimeoutMs)
	}
	if c.LLMSettings.PrioritizeTimeoutMs <= 0 {
		return fmt.Errorf("llm.prioritize_timeout_ms must be positive, got %d", c.LLMSettings.PrioritizeTimeoutMs)
	}
	if c.LLMSettings.MaxRetries < 0 {
		return fmt.Errorf("llm.max_retries must not be negative, got %d", c.LLMSettings.MaxRetries)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// LLM converts the settings into the client configuration.
func (c *Config) LLM() llm.Config {
	s := c.LLMSettings
	out := llm.DefaultConfig()
	out.Enabled = s.Enabled
	out.LogCalls = s.LogCalls
	out.Provider = llm.Provider(s.Provider)
	out.Endpoint = s.Endpoint
	out.Model = s.Model
	out.APIKey = s.APIKey
	out.TimeoutMs = s.TimeoutMs
	out.MaxRetries = s.MaxRetries

	task := out.Tasks[llm.TaskPrioritize]
	task.TimeoutMs = s.PrioritizeTimeoutMs
	out.Tasks[llm.TaskPrioritize] = task

	out.Breaker = llm.BreakerConfig{
		Enabled:          s.Breaker.Enabled,
		FailureThreshold: uint32(max(s.Breaker.FailureThreshold, 0)),
		OpenTimeoutMs:    s.Breaker.OpenTimeoutMs,
		HalfOpenRequests: uint32(max(s.Breaker.HalfOpenRequests, 0)),
	}
	return out
}

// LogLevel returns the slog level for log.level. Validate has already
// rejected unknown names, so this falls back to info only for zero configs.
func (c *Config) LogLevel() slog.Level {
	level, err := parseLevel(c.Log.Level)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}
