package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"ventures/internal/config"
)

// UpdateProfile rewrites the CLI config file at path through fn. It works on the raw
// file contents, so env overrides and computed defaults are never written back.
func UpdateProfile(path string, fn func(*config.CLIConfig)) error {
	var cfg config.CLIConfig
	raw, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("read config: %w", err)
	}
	if len(raw) > 0 {
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	fn(&cfg)

	body, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, body, 0o600)
}

func SetRemote(path, baseURL, token string) error {
	return UpdateProfile(path, func(c *config.CLIConfig) {
		c.Remote = true
		c.APIBaseURL = baseURL
		c.APIToken = token
	})
}

func ClearRemote(path string) error {
	return UpdateProfile(path, func(c *config.CLIConfig) {
		c.Remote = false
		c.APIBaseURL = ""
		c.APIToken = ""
	})
}
