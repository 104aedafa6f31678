package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Suggest.Provider != 0 {
		t.Errorf("Expected Provider to be 0, got %d", cfg.Suggest.Provider)
	}

	if cfg.Suggest.Engine != 0 {
		t.Errorf("Expected Engine to be 0, got %d", cfg.Suggest.Engine)
	}

	if !cfg.Suggest.ShowResultAlways() {
		t.Error("Expected AlwaysShowResult to be true")
	}

	if cfg.Suggest.TimeoutSeconds != 0 {
		t.Errorf("Expected TimeoutSeconds to be 0, got %d", cfg.Suggest.TimeoutSeconds)
	}

	if cfg.Preview.MaxBytes != 5*1024*1024 {
		t.Errorf("Expected MaxBytes to be 5 MiB, got %d", cfg.Preview.MaxBytes)
	}

	if cfg.Server.Listen != ":8641" {
		t.Errorf("Expected Listen to be :8641, got %s", cfg.Server.Listen)
	}
}

func TestShowResultAlways(t *testing.T) {
	yes, no := true, false
	tests := []struct {
		name  string
		value *bool
		want  bool
	}{
		{"absent", nil, true},
		{"true", &yes, true},
		{"false", &no, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := SuggestConfig{AlwaysShowResult: tt.value}
			if got := s.ShowResultAlways(); got != tt.want {
				t.Errorf("ShowResultAlways() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "out of range provider is accepted",
			mutate:  func(c *Config) { c.Suggest.Provider = 42 },
			wantErr: false,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Suggest.TimeoutSeconds = -1 },
			wantErr: true,
		},
		{
			name:    "empty user agent",
			mutate:  func(c *Config) { c.Suggest.UserAgent = " " },
			wantErr: true,
		},
		{
			name:    "empty endpoint override",
			mutate:  func(c *Config) { c.Suggest.Endpoints = map[string]string{"bing": ""} },
			wantErr: true,
		},
		{
			name:    "zero max bytes",
			mutate:  func(c *Config) { c.Preview.MaxBytes = 0 },
			wantErr: true,
		},
		{
			name:    "zero icon size",
			mutate:  func(c *Config) { c.Preview.MaxIconSize = 0 },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Log.Level = "chatty" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	t.Setenv(BingAppIDEnv, "")

	// Create temp directory
	tmpDir, err := os.MkdirTemp("", "omnisuggest-test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	// Set config directory for test
	configTestDir := filepath.Join(tmpDir, "config")
	SetConfigDir(configTestDir)

	// Create and save config
	cfg := DefaultConfig()
	cfg.Suggest.Provider = 4
	cfg.Suggest.Engine = 21
	cfg.Suggest.CustomEngineURL = "https://search.example.com/?q="
	cfg.Suggest.BingAppID = "must-not-be-written"

	err = Save(cfg)
	if err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	// Verify file exists
	configPath := filepath.Join(configTestDir, "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Config file not created: %v", err)
	}
	if strings.Contains(string(data), "must-not-be-written") {
		t.Error("Bing app id should not be written to config.yaml")
	}

	// Load config
	loadedCfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if loadedCfg.Suggest.Provider != 4 {
		t.Errorf("Provider mismatch: expected 4, got %d", loadedCfg.Suggest.Provider)
	}
	if loadedCfg.Suggest.CustomEngineURL != cfg.Suggest.CustomEngineURL {
		t.Errorf("Custom engine mismatch: expected %s, got %s", cfg.Suggest.CustomEngineURL, loadedCfg.Suggest.CustomEngineURL)
	}
	if loadedCfg.IsBingAppIDConfigured() {
		t.Error("Bing app id should be empty without a .secrets file")
	}
}

func TestLoad_AbsentKeysKeepDefaults(t *testing.T) {
	configTestDir := filepath.Join(t.TempDir(), "config")
	SetConfigDir(configTestDir)

	if err := os.MkdirAll(configTestDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "suggest:\n  provider: 6\n"
	if err := os.WriteFile(filepath.Join(configTestDir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Suggest.Provider != 6 {
		t.Errorf("Expected provider 6, got %d", cfg.Suggest.Provider)
	}
	if !cfg.Suggest.ShowResultAlways() {
		t.Error("Absent always_show_result should default to true")
	}
	if cfg.Suggest.UserAgent != "omnisuggest/0.1" {
		t.Errorf("Expected default user agent, got %s", cfg.Suggest.UserAgent)
	}
}

func TestLoad_CreatesDefaultConfig(t *testing.T) {
	configTestDir := filepath.Join(t.TempDir(), "config")
	SetConfigDir(configTestDir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Suggest.UserAgent == "" {
		t.Error("Expected default config")
	}
	if _, err := os.Stat(filepath.Join(configTestDir, "config.yaml")); err != nil {
		t.Errorf("Expected config.yaml to be created: %v", err)
	}
}

func TestLoad_BingAppIDFromSecrets(t *testing.T) {
	t.Setenv(BingAppIDEnv, "")
	configTestDir := filepath.Join(t.TempDir(), "config")
	SetConfigDir(configTestDir)

	if err := os.MkdirAll(configTestDir, 0755); err != nil {
		t.Fatal(err)
	}
	secrets := "# comment\nBING_APP_ID = abcdef0123456789\n"
	if err := os.WriteFile(filepath.Join(configTestDir, ".secrets"), []byte(secrets), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Suggest.BingAppID != "abcdef0123456789" {
		t.Errorf("Expected Bing app id from secrets, got %q", cfg.Suggest.BingAppID)
	}
	if cfg.Suggest.BingAppIDSource != SourceSecrets {
		t.Errorf("Expected source %q, got %q", SourceSecrets, cfg.Suggest.BingAppIDSource)
	}
	if !strings.Contains(cfg.String(), "abcdef01...") {
		t.Error("String() should show a redacted Bing app id")
	}
	if strings.Contains(cfg.String(), "abcdef0123456789") {
		t.Error("String() should not show the full Bing app id")
	}
}

func TestLoad_BingAppIDFromEnv(t *testing.T) {
	configTestDir := filepath.Join(t.TempDir(), "config")
	SetConfigDir(configTestDir)

	if err := os.MkdirAll(configTestDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(configTestDir, ".secrets"), []byte("BING_APP_ID=from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(BingAppIDEnv, "from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Suggest.BingAppID != "from-env" {
		t.Errorf("Expected the environment to win, got %q", cfg.Suggest.BingAppID)
	}
	if cfg.Suggest.BingAppIDSource != SourceEnv {
		t.Errorf("Expected source %q, got %q", SourceEnv, cfg.Suggest.BingAppIDSource)
	}
}

func TestParseSecrets(t *testing.T) {
	content := `# comment
BING_APP_ID = plain
export QUOTED="double quoted"
SINGLE='single'
NOVALUE
=orphan
EMPTY=
`
	values, err := parseSecrets(strings.NewReader(content))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		key  string
		want string
	}{
		{"BING_APP_ID", "plain"},
		{"QUOTED", "double quoted"},
		{"SINGLE", "single"},
		{"EMPTY", ""},
	}
	for _, tt := range tests {
		if got := values[tt.key]; got != tt.want {
			t.Errorf("%s = %q, want %q", tt.key, got, tt.want)
		}
	}
	if len(values) != 4 {
		t.Errorf("Expected 4 values, got %d: %v", len(values), values)
	}
}

func TestSecrets_BingAppID(t *testing.T) {
	t.Setenv(BingAppIDEnv, "")

	var missing *Secrets
	if v, source := missing.BingAppID(); v != "" || source != SourceNone {
		t.Errorf("Expected no app id, got %q from %q", v, source)
	}

	s := &Secrets{values: map[string]string{BingAppIDKey: "file-id"}}
	if v, source := s.BingAppID(); v != "file-id" || source != SourceSecrets {
		t.Errorf("Expected file-id from .secrets, got %q from %q", v, source)
	}
}

func TestPreviewDir(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.PreviewDir(); !strings.HasSuffix(got, filepath.Join("omnisuggest", "previews")) {
		t.Errorf("Expected default preview dir under omnisuggest/previews, got %s", got)
	}

	cfg.Preview.Dir = "/tmp/custom-previews"
	if got := cfg.PreviewDir(); got != "/tmp/custom-previews" {
		t.Errorf("Expected configured preview dir, got %s", got)
	}
}

func TestMessagesConfig(t *testing.T) {
	m := DefaultMessagesConfig()
	if got := m.GetMessages().Hint; got != "Start typing to search..." {
		t.Errorf("Expected English hint, got %q", got)
	}

	m.Language = "zh"
	if got := m.GetMessages().FallbackSubtitle; got == "" {
		t.Error("Expected Chinese fallback subtitle")
	}

	m.Language = "fr"
	if got := m.GetMessages().HintSubtitle; got != "Powered by omnisuggest" {
		t.Errorf("Unknown language should fall back to English, got %q", got)
	}

	m.Messages["fr"] = LanguageMessages{Hint: "Commencez à taper..."}
	msgs := m.GetMessages()
	if msgs.Hint != "Commencez à taper..." {
		t.Errorf("Expected French hint, got %q", msgs.Hint)
	}
	if msgs.ErrorPrefix != "ERROR" {
		t.Errorf("Missing fields should be filled from English, got %q", msgs.ErrorPrefix)
	}
}

func TestLoadMessagesConfig(t *testing.T) {
	configTestDir := filepath.Join(t.TempDir(), "config")
	SetConfigDir(configTestDir)

	m, err := LoadMessagesConfig()
	if err != nil {
		t.Fatalf("Failed to load default messages: %v", err)
	}
	if m.Language != "en" {
		t.Errorf("Expected language en, got %s", m.Language)
	}

	if err := os.MkdirAll(configTestDir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "language: zh\n"
	if err := os.WriteFile(filepath.Join(configTestDir, "messages.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m, err = LoadMessagesConfig()
	if err != nil {
		t.Fatalf("Failed to load messages: %v", err)
	}
	if m.Language != "zh" {
		t.Errorf("Expected language zh, got %s", m.Language)
	}
	if m.GetMessages().Hint == DefaultMessagesConfig().Messages["en"].Hint {
		t.Error("Expected Chinese hint")
	}
}
