package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	// No config file in the test working directory: defaults apply.
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Port)
	}
	if cfg.Mode != "release" {
		t.Errorf("mode = %q, want release", cfg.Mode)
	}
	if cfg.SendBuffer != 32 {
		t.Errorf("send_buffer = %d, want 32", cfg.SendBuffer)
	}
	if cfg.JoinLimit != 10 || cfg.JoinWindow != 10*time.Second {
		t.Errorf("join limit = %d/%v, want 10/10s", cfg.JoinLimit, cfg.JoinWindow)
	}
	if cfg.ReapInterval != time.Minute || cfg.ReapGrace != 10*time.Minute {
		t.Errorf("reaper = %v/%v, want 1m/10m", cfg.ReapInterval, cfg.ReapGrace)
	}
}
