package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// MessagesConfig user-visible texts, per language
type MessagesConfig struct {
	Language string                      `yaml:"language"`
	Messages map[string]LanguageMessages `yaml:"messages"`
}

// LanguageMessages texts for a specific language
type LanguageMessages struct {
	Hint             string `yaml:"hint"`
	HintSubtitle     string `yaml:"hint_subtitle"`
	FallbackSubtitle string `yaml:"fallback_subtitle"`
	ErrorPrefix      string `yaml:"error_prefix"`
}

// DefaultMessagesConfig returns default messages
func DefaultMessagesConfig() *MessagesConfig {
	return &MessagesConfig{
		Language: "en",
		Messages: map[string]LanguageMessages{
			"en": {
				Hint:             "Start typing to search...",
				HintSubtitle:     "Powered by omnisuggest",
				FallbackSubtitle: "No suggestions found, search with the selected search engine",
				ErrorPrefix:      "ERROR",
			},
			"zh": {
				Hint:             "输入内容开始搜索...",
				HintSubtitle:     "由 omnisuggest 提供",
				FallbackSubtitle: "没有找到建议，使用所选搜索引擎搜索",
				ErrorPrefix:      "ERROR",
			},
		},
	}
}

// MessagesConfigPath returns the messages file path
func MessagesConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "messages.yaml"), nil
}

// LoadMessagesConfig loads messages from file, falling back to defaults when absent
func LoadMessagesConfig() (*MessagesConfig, error) {
	configPath, err := MessagesConfigPath()
	if err != nil {
		return DefaultMessagesConfig(), nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultMessagesConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read messages config: %w", err)
	}

	cfg := DefaultMessagesConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse messages config: %w", err)
	}

	return cfg, nil
}

// GetMessages returns the texts for the configured language.
// Missing fields are filled from English.
func (m *MessagesConfig) GetMessages() LanguageMessages {
	fallback := DefaultMessagesConfig().Messages["en"]
	msgs, ok := m.Messages[m.Language]
	if !ok {
		if msgs, ok = m.Messages["en"]; !ok {
			return fallback
		}
	}
	if msgs.Hint == "" {
		msgs.Hint = fallback.Hint
	}
	if msgs.HintSubtitle == "" {
		msgs.HintSubtitle = fallback.HintSubtitle
	}
	if msgs.FallbackSubtitle == "" {
		msgs.FallbackSubtitle = fallback.FallbackSubtitle
	}
	if msgs.ErrorPrefix == "" {
		msgs.ErrorPrefix = fallback.ErrorPrefix
	}
	return msgs
}
