package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// configDir is the configuration directory path
	// Can be set via SetConfigDir before loading config
	configDir     string
	configDirInit bool
)

// SetConfigDir sets a custom configuration directory
// Must be called before any config loading functions
func SetConfigDir(dir string) {
	configDir = dir
	configDirInit = true
}

// GetConfigDir returns the configuration directory
// Priority: 1. Manually set via SetConfigDir, 2. ./config in current directory
func GetConfigDir() string {
	if !configDirInit {
		// Default to ./config in current working directory
		cwd, err := os.Getwd()
		if err == nil {
			configDir = filepath.Join(cwd, "config")
		}
		configDirInit = true
	}
	return configDir
}

// Config application configuration structure
type Config struct {
	Suggest SuggestConfig `yaml:"suggest"`
	Preview PreviewConfig `yaml:"preview"`
	Icons   IconConfig    `yaml:"icons"`
	Report  ReportConfig  `yaml:"report"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

// SuggestConfig selects the suggestion provider and the search engine used for navigation
type SuggestConfig struct {
	Provider         int               `yaml:"provider"`
	Engine           int               `yaml:"engine"`
	CustomEngineURL  string            `yaml:"custom_engine_url"`
	AlwaysShowResult *bool             `yaml:"always_show_result"`
	TimeoutSeconds   int               `yaml:"timeout_seconds"`
	UserAgent        string            `yaml:"user_agent"`
	Endpoints        map[string]string `yaml:"endpoints,omitempty"`

	// BingAppID is read from the environment or .secrets, never from config.yaml
	BingAppID       string `yaml:"-"`
	BingAppIDSource string `yaml:"-"`
}

// ShowResultAlways reports whether an empty result should produce a fallback entry.
// An absent always_show_result key means true.
func (s SuggestConfig) ShowResultAlways() bool {
	return s.AlwaysShowResult == nil || *s.AlwaysShowResult
}

// PreviewConfig preview image cache configuration
type PreviewConfig struct {
	Dir         string `yaml:"dir"`
	MaxBytes    int64  `yaml:"max_bytes"`
	MaxIconSize int    `yaml:"max_icon_size"`
}

// IconConfig default icons shown next to entries
type IconConfig struct {
	Default string `yaml:"default"`
	Error   string `yaml:"error"`
}

// ReportConfig where error entries send the user
type ReportConfig struct {
	IssueURL string `yaml:"issue_url"`
}

// ServerConfig HTTP surface configuration
type ServerConfig struct {
	Listen      string `yaml:"listen"`
	EnablePprof bool   `yaml:"enable_pprof"`
}

// LogConfig logging configuration
type LogConfig struct {
	Level   string `yaml:"level"`
	MaxDays int    `yaml:"max_days"`
	Console bool   `yaml:"console"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	alwaysShow := true
	return &Config{
		Suggest: SuggestConfig{
			Provider:         0,
			Engine:           0,
			AlwaysShowResult: &alwaysShow,
			TimeoutSeconds:   0,
			UserAgent:        "omnisuggest/0.1",
		},
		Preview: PreviewConfig{
			Dir:         "",
			MaxBytes:    5 << 20,
			MaxIconSize: 256,
		},
		Icons: IconConfig{
			Default: "images/search.png",
			Error:   "images/warn.png",
		},
		Report: ReportConfig{
			IssueURL: "https://github.com/hession/omnisuggest/issues/new",
		},
		Server: ServerConfig{
			Listen: ":8641",
		},
		Log: LogConfig{
			Level:   "info",
			MaxDays: 7,
		},
	}
}

// ConfigDir returns the configuration directory path
func ConfigDir() (string, error) {
	dir := GetConfigDir()
	if dir == "" {
		return "", fmt.Errorf("failed to determine config directory")
	}
	return dir, nil
}

// LogDir returns the log directory path
func LogDir() string {
	dir := GetConfigDir()
	if dir == "" {
		return "logs"
	}
	return filepath.Join(dir, "logs")
}

// ConfigPath returns the configuration file path
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// PreviewDir returns the directory previews are cached in.
// An empty preview.dir resolves to <user cache dir>/omnisuggest/previews.
func (c *Config) PreviewDir() string {
	if c.Preview.Dir != "" {
		return c.Preview.Dir
	}
	base, err := os.UserCacheDir()
	if err != nil || base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, "omnisuggest", "previews")
}

// Load loads configuration from file and merges with secrets
func Load() (*Config, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		// Config file doesn't exist, create default config
		cfg := DefaultConfig()
		if err := Save(cfg); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		cfg.mergeSecrets()
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse config
	cfg := DefaultConfig() // Use default values as base
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.mergeSecrets()

	// Validate config
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) mergeSecrets() {
	// A broken .secrets file is ignored; the environment still applies
	secrets, _ := LoadSecrets()
	if appID, source := secrets.BingAppID(); appID != "" {
		c.Suggest.BingAppID = appID
		c.Suggest.BingAppIDSource = source
	}
}

// Save saves configuration to file
func Save(cfg *Config) error {
	configPath, err := ConfigPath()
	if err != nil {
		return err
	}

	// Ensure config directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Serialize config
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	// Add header comment
	content := "# omnisuggest configuration file\n# For more info: https://github.com/hession/omnisuggest\n\n" + string(data)

	// Write file
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
// Provider and engine indices are not checked: out-of-range values fall back at dispatch.
func (c *Config) Validate() error {
	if c.Suggest.TimeoutSeconds < 0 {
		return fmt.Errorf("config error: suggest.timeout_seconds cannot be negative")
	}
	if strings.TrimSpace(c.Suggest.UserAgent) == "" {
		return fmt.Errorf("config error: suggest.user_agent cannot be empty")
	}
	for name, endpoint := range c.Suggest.Endpoints {
		if strings.TrimSpace(endpoint) == "" {
			return fmt.Errorf("config error: suggest.endpoints.%s cannot be empty", name)
		}
	}

	if c.Preview.MaxBytes <= 0 {
		return fmt.Errorf("config error: preview.max_bytes must be greater than 0")
	}
	if c.Preview.MaxIconSize <= 0 {
		return fmt.Errorf("config error: preview.max_icon_size must be greater than 0")
	}

	if c.Icons.Default == "" {
		return fmt.Errorf("config error: icons.default cannot be empty")
	}
	if c.Icons.Error == "" {
		return fmt.Errorf("config error: icons.error cannot be empty")
	}

	if strings.TrimSpace(c.Server.Listen) == "" {
		return fmt.Errorf("config error: server.listen cannot be empty")
	}

	switch strings.ToLower(strings.TrimSpace(c.Log.Level)) {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("config error: log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}

	return nil
}

// IsBingAppIDConfigured checks if a Bing app id was supplied through the environment or .secrets
func (c *Config) IsBingAppIDConfigured() bool {
	return c.Suggest.BingAppID != ""
}

// String returns string representation of config (hides sensitive info)
func (c *Config) String() string {
	endpoints := "(built-in)"
	if len(c.Suggest.Endpoints) > 0 {
		names := make([]string, 0, len(c.Suggest.Endpoints))
		for name := range c.Suggest.Endpoints {
			names = append(names, name)
		}
		sort.Strings(names)
		endpoints = strings.Join(names, ", ")
	}

	return fmt.Sprintf(`omnisuggest configuration:
  Suggest:
    Provider: %d
    Engine: %d
    Custom Engine URL: %s
    Always Show Result: %v
    Timeout Seconds: %d
    User Agent: %s
    Endpoint Overrides: %s
    Bing App ID: %s
  Preview:
    Dir: %s
    Max Bytes: %d
    Max Icon Size: %d
  Report:
    Issue URL: %s
  Server:
    Listen: %s
    Enable Pprof: %v
  Log:
    Level: %s
    Max Days: %d`,
		c.Suggest.Provider,
		c.Suggest.Engine,
		c.Suggest.CustomEngineURL,
		c.Suggest.ShowResultAlways(),
		c.Suggest.TimeoutSeconds,
		c.Suggest.UserAgent,
		endpoints,
		redactSecret(c.Suggest.BingAppID),
		c.PreviewDir(),
		c.Preview.MaxBytes,
		c.Preview.MaxIconSize,
		c.Report.IssueURL,
		c.Server.Listen,
		c.Server.EnablePprof,
		c.Log.Level,
		c.Log.MaxDays,
	)
}

func redactSecret(value string) string {
	if value == "" {
		return "(not configured)"
	}
	if len(value) > 8 {
		return value[:8] + "..."
	}
	return "***"
}
