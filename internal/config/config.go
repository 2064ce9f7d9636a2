package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Endpoint EndpointConfig `mapstructure:"endpoint"`
	UI       UIConfig       `mapstructure:"ui"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
	Server   ServerConfig   `mapstructure:"server"`
}

// EndpointConfig points at the log-search service. A zero Timeout leaves
// requests unbounded.
type EndpointConfig struct {
	URL       string        `mapstructure:"url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

type UIConfig struct {
	Colors          UIColors     `mapstructure:"colors"`
	Labels          LabelsConfig `mapstructure:"labels"`
	Locale          string       `mapstructure:"locale"`
	Timezone        string       `mapstructure:"timezone"`
	TimestampLayout string       `mapstructure:"timestamp_layout"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
	Badge      string `mapstructure:"badge"`
}

type LabelsConfig struct {
	Trigger     string `mapstructure:"trigger"`
	Busy        string `mapstructure:"busy"`
	Placeholder string `mapstructure:"placeholder"`
}

type KeyConfig struct {
	Modifier string      `mapstructure:"modifier"`
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit   string `mapstructure:"quit"`
	Search string `mapstructure:"search"`
	Clear  string `mapstructure:"clear"`
	Back   string `mapstructure:"back"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// ServerConfig configures the development search service started by
// `chronos serve`.
type ServerConfig struct {
	Addr        string  `mapstructure:"addr"`
	DB          string  `mapstructure:"db"`
	IngestRate  float64 `mapstructure:"ingest_rate"`
	IngestBurst int     `mapstructure:"ingest_burst"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Endpoint: EndpointConfig{
			URL:       "http://localhost:8082",
			Timeout:   0,
			UserAgent: "chronos/1.0 (log search client)",
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#FF6B6B",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#1A1A2E",
				Surface:    "#16213E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#EF4444",
				Success:    "#4ADE80",
				Badge:      "#38BDF8",
			},
			Labels: LabelsConfig{
				Trigger:     "Search Logs",
				Busy:        "Searching...",
				Placeholder: "Scanning cluster...",
			},
			Locale:   "en-US",
			Timezone: "Local",
		},
		Keys: KeyConfig{
			Modifier: "ctrl",
			Bindings: KeyBindings{
				Quit:   "c",
				Search: "s",
				Clear:  "l",
				Back:   "esc",
			},
		},
		Log: LogConfig{
			Level: "off",
			File:  filepath.Join(homeDir, ".chronos", "chronos.log"),
		},
		Server: ServerConfig{
			Addr:        ":8082",
			DB:          filepath.Join(homeDir, ".chronos", "events.db"),
			IngestRate:  50,
			IngestBurst: 100,
		},
	}
}

// DefaultPath is the config file location used when none is given.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "chronos", "config.toml")
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	for key, value := range flatten(defaultConfig()) {
		v.SetDefault(key, value)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(filepath.Dir(DefaultPath()))
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("CHRONOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// flatten maps a config onto leaf keys so every setting can be
// overridden from the environment and written back out.
func flatten(cfg *Config) map[string]interface{} {
	return map[string]interface{}{
		"endpoint.url":        cfg.Endpoint.URL,
		"endpoint.timeout":    cfg.Endpoint.Timeout,
		"endpoint.user_agent": cfg.Endpoint.UserAgent,

		"ui.colors.primary":     cfg.UI.Colors.Primary,
		"ui.colors.secondary":   cfg.UI.Colors.Secondary,
		"ui.colors.accent":      cfg.UI.Colors.Accent,
		"ui.colors.background":  cfg.UI.Colors.Background,
		"ui.colors.surface":     cfg.UI.Colors.Surface,
		"ui.colors.text":        cfg.UI.Colors.Text,
		"ui.colors.muted":       cfg.UI.Colors.Muted,
		"ui.colors.error":       cfg.UI.Colors.Error,
		"ui.colors.success":     cfg.UI.Colors.Success,
		"ui.colors.badge":       cfg.UI.Colors.Badge,
		"ui.labels.trigger":     cfg.UI.Labels.Trigger,
		"ui.labels.busy":        cfg.UI.Labels.Busy,
		"ui.labels.placeholder": cfg.UI.Labels.Placeholder,
		"ui.locale":             cfg.UI.Locale,
		"ui.timezone":           cfg.UI.Timezone,
		"ui.timestamp_layout":   cfg.UI.TimestampLayout,

		"keys.modifier":        cfg.Keys.Modifier,
		"keys.bindings.quit":   cfg.Keys.Bindings.Quit,
		"keys.bindings.search": cfg.Keys.Bindings.Search,
		"keys.bindings.clear":  cfg.Keys.Bindings.Clear,
		"keys.bindings.back":   cfg.Keys.Bindings.Back,

		"log.level": cfg.Log.Level,
		"log.file":  cfg.Log.File,

		"server.addr":         cfg.Server.Addr,
		"server.db":           cfg.Server.DB,
		"server.ingest_rate":  cfg.Server.IngestRate,
		"server.ingest_burst": cfg.Server.IngestBurst,
	}
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Log.File = expandPath(cfg.Log.File)
	cfg.Server.DB = expandPath(cfg.Server.DB)
}

func Save(config *Config, path string) error {
	v := viper.New()

	for key, value := range flatten(config) {
		// Durations as strings for TOML readability
		if d, ok := value.(time.Duration); ok {
			value = d.String()
		}
		v.Set(key, value)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
