package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// BingAppIDKey names the Bing app id in .secrets
	BingAppIDKey = "BING_APP_ID"
	// BingAppIDEnv overrides the .secrets value when set
	BingAppIDEnv = "OMNISUGGEST_BING_APP_ID"
)

// Where a secret value came from
const (
	SourceNone    = ""
	SourceEnv     = "env"
	SourceSecrets = ".secrets"
)

// Secrets holds key=value pairs read from the .secrets file
type Secrets struct {
	values map[string]string
}

// SecretsPath returns the secrets file path
func SecretsPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ".secrets"), nil
}

// LoadSecrets reads the .secrets file. A missing file yields empty secrets.
func LoadSecrets() (*Secrets, error) {
	path, err := SecretsPath()
	if err != nil {
		return &Secrets{}, err
	}

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return &Secrets{}, nil
	}
	if err != nil {
		return &Secrets{}, fmt.Errorf("failed to open secrets file: %w", err)
	}
	defer file.Close()

	values, err := parseSecrets(file)
	if err != nil {
		return &Secrets{values: values}, fmt.Errorf("failed to read secrets file: %w", err)
	}
	return &Secrets{values: values}, nil
}

// parseSecrets accepts "KEY=value" lines with an optional "export " prefix
// and optionally quoted values. Comments and malformed lines are ignored.
func parseSecrets(r io.Reader) (map[string]string, error) {
	values := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = unquote(strings.TrimSpace(value))
	}
	return values, scanner.Err()
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// Get returns the value for a key
func (s *Secrets) Get(key string) string {
	if s == nil {
		return ""
	}
	return s.values[key]
}

// BingAppID returns the Bing suggestions app id and where it came from.
// The environment wins over the file.
func (s *Secrets) BingAppID() (string, string) {
	if v := strings.TrimSpace(os.Getenv(BingAppIDEnv)); v != "" {
		return v, SourceEnv
	}
	if v := s.Get(BingAppIDKey); v != "" {
		return v, SourceSecrets
	}
	return "", SourceNone
}
