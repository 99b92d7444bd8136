// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

// withConfigHome points XDG_CONFIG_HOME at a temp dir for the test's duration.
func withConfigHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return filepath.Join(dir, "modelbridge")
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	withConfigHome(t)
	t.Setenv("MODELBRIDGE_HOST", "")
	t.Setenv("MODELBRIDGE_PORT", "")
	t.Setenv("MODELBRIDGE_RENDER_URL", "")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Plugin.Host != DefaultHost {
		t.Errorf("Host = %q, want %q", c.Plugin.Host, DefaultHost)
	}
	if c.Plugin.Port != DefaultPort {
		t.Errorf("Port = %d, want %d", c.Plugin.Port, DefaultPort)
	}
	if c.Plugin.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Errorf("TimeoutSeconds = %d, want %d", c.Plugin.TimeoutSeconds, DefaultTimeoutSeconds)
	}
	if c.Retry.Attempts != DefaultRetryAttempts {
		t.Errorf("Retry.Attempts = %d, want %d", c.Retry.Attempts, DefaultRetryAttempts)
	}
	if c.RenderURL != DefaultRenderURL {
		t.Errorf("RenderURL = %q, want %q", c.RenderURL, DefaultRenderURL)
	}
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	withConfigHome(t)
	t.Setenv("MODELBRIDGE_HOST", "")
	t.Setenv("MODELBRIDGE_PORT", "")
	t.Setenv("MODELBRIDGE_RENDER_URL", "")

	in := Config{
		Plugin:      PluginConfig{Host: "cadbox.local", Port: 9100, TimeoutSeconds: 30},
		RenderURL:   "http://render.local:7860",
		Retry:       RetryConfig{Attempts: 5, DelaySeconds: 1},
		ActivityLog: "/tmp/mb-activity.jsonl",
	}
	if err := Save(in); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	out, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if out != in {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestLoadBackfillsPartialFile(t *testing.T) {
	dir := withConfigHome(t)
	t.Setenv("MODELBRIDGE_HOST", "")
	t.Setenv("MODELBRIDGE_PORT", "")
	t.Setenv("MODELBRIDGE_RENDER_URL", "")

	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	// Hand-edited file with only the host set.
	partial := []byte(`{"plugin": {"host": "10.0.0.5"}}`)
	if err := os.WriteFile(filepath.Join(dir, "config.json"), partial, 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Plugin.Host != "10.0.0.5" {
		t.Errorf("Host = %q, want 10.0.0.5", c.Plugin.Host)
	}
	if c.Plugin.Port != DefaultPort {
		t.Errorf("Port = %d, want default %d", c.Plugin.Port, DefaultPort)
	}
	if c.Retry.DelaySeconds != DefaultRetryDelaySec {
		t.Errorf("DelaySeconds = %d, want default %d", c.Retry.DelaySeconds, DefaultRetryDelaySec)
	}
}

func TestEnvOverrides(t *testing.T) {
	withConfigHome(t)
	t.Setenv("MODELBRIDGE_HOST", "workstation-7")
	t.Setenv("MODELBRIDGE_PORT", "8900")
	t.Setenv("MODELBRIDGE_RENDER_URL", "http://gpu-rig:7860")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Plugin.Host != "workstation-7" {
		t.Errorf("Host = %q, want workstation-7", c.Plugin.Host)
	}
	if c.Plugin.Port != 8900 {
		t.Errorf("Port = %d, want 8900", c.Plugin.Port)
	}
	if c.RenderURL != "http://gpu-rig:7860" {
		t.Errorf("RenderURL = %q, want http://gpu-rig:7860", c.RenderURL)
	}
}

func TestEnvBadPortIgnored(t *testing.T) {
	withConfigHome(t)
	t.Setenv("MODELBRIDGE_HOST", "")
	t.Setenv("MODELBRIDGE_PORT", "not-a-port")
	t.Setenv("MODELBRIDGE_RENDER_URL", "")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Plugin.Port != DefaultPort {
		t.Errorf("Port = %d, want default %d", c.Plugin.Port, DefaultPort)
	}
}
