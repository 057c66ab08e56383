package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
log_level = -4
ball_speed = 45.0
pose_source = "replay"
replay_path = "trace.json"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if c.LogLevel != -4 {
		t.Errorf("Expected log level -4, got %d", c.LogLevel)
	}
	if c.BallSpeed != 45 {
		t.Errorf("Expected ball speed 45, got %v", c.BallSpeed)
	}
	if c.PoseSource != "replay" || c.ReplayPath != "trace.json" {
		t.Errorf("Expected replay source with trace.json, got %q %q", c.PoseSource, c.ReplayPath)
	}
	if c.PaddleHeight != Default().PaddleHeight {
		t.Errorf("Expected untouched key to keep default %d, got %d", Default().PaddleHeight, c.PaddleHeight)
	}
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err == nil {
		t.Fatal("Expected an error for a missing file")
	}
	if c != Default() {
		t.Errorf("Expected defaults on failure, got %+v", c)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("frame_min_y = 0.9\nframe_max_y = 0.5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected inverted frame bounds to be rejected")
	}
}

func TestWriteDefaultRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteDefault(path); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Expected written defaults to load, got %v", err)
	}
	if c != Default() {
		t.Errorf("Expected %+v, got %+v", Default(), c)
	}
}

func TestLoadConfigSetsGlobal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("renderer = \"headless\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	prev := Config
	defer func() { Config = prev }()

	LoadConfig(path)
	if Config.Renderer != "headless" {
		t.Errorf("Expected global renderer headless, got %q", Config.Renderer)
	}
}
