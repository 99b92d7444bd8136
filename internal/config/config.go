// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; secrets go to OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"modelbridge/cli/internal/xdg"
)

// Defaults applied when no config file exists.
const (
	DefaultHost           = "127.0.0.1"
	DefaultPort           = 8745
	DefaultTimeoutSeconds = 10
	DefaultRetryAttempts  = 3
	DefaultRetryDelaySec  = 2
	DefaultRenderURL      = "http://127.0.0.1:7860"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	Plugin      PluginConfig `json:"plugin"`
	RenderURL   string       `json:"render_url"`
	Retry       RetryConfig  `json:"retry"`
	ActivityLog string       `json:"activity_log,omitempty"`
}

// PluginConfig holds the TCP endpoint of the modeling-tool plugin.
type PluginConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// RetryConfig holds the caller-level retry policy for the render wrappers.
// The TCP client itself never retries.
type RetryConfig struct {
	Attempts     int `json:"attempts"`
	DelaySeconds int `json:"delay_seconds"`
}

// Timeout returns the plugin socket timeout as a duration.
func (p PluginConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

// Delay returns the retry delay as a duration.
func (r RetryConfig) Delay() time.Duration {
	return time.Duration(r.DelaySeconds) * time.Second
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// defaults returns the documented fallback configuration.
func defaults() Config {
	return Config{
		Plugin: PluginConfig{
			Host:           DefaultHost,
			Port:           DefaultPort,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		RenderURL: DefaultRenderURL,
		Retry: RetryConfig{
			Attempts:     DefaultRetryAttempts,
			DelaySeconds: DefaultRetryDelaySec,
		},
	}
}

// Load reads configuration; a missing file returns defaults.
// MODELBRIDGE_HOST, MODELBRIDGE_PORT and MODELBRIDGE_RENDER_URL override
// whatever the file says.
func Load() (Config, error) {
	c := defaults()
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return applyEnv(c), nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, err
	}
	c = fillZero(c)
	return applyEnv(c), nil
}

// fillZero backfills defaults for fields a hand-edited file left empty.
func fillZero(c Config) Config {
	d := defaults()
	if c.Plugin.Host == "" {
		c.Plugin.Host = d.Plugin.Host
	}
	if c.Plugin.Port == 0 {
		c.Plugin.Port = d.Plugin.Port
	}
	if c.Plugin.TimeoutSeconds == 0 {
		c.Plugin.TimeoutSeconds = d.Plugin.TimeoutSeconds
	}
	if c.RenderURL == "" {
		c.RenderURL = d.RenderURL
	}
	if c.Retry.Attempts == 0 {
		c.Retry.Attempts = d.Retry.Attempts
	}
	if c.Retry.DelaySeconds == 0 {
		c.Retry.DelaySeconds = d.Retry.DelaySeconds
	}
	return c
}

// applyEnv lets environment variables win over the file for one-off runs.
func applyEnv(c Config) Config {
	if v := strings.TrimSpace(os.Getenv("MODELBRIDGE_HOST")); v != "" {
		c.Plugin.Host = v
	}
	if v := strings.TrimSpace(os.Getenv("MODELBRIDGE_PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			c.Plugin.Port = port
		}
	}
	if v := strings.TrimSpace(os.Getenv("MODELBRIDGE_RENDER_URL")); v != "" {
		c.RenderURL = v
	}
	return c
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}
