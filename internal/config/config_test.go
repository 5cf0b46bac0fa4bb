package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	os.Unsetenv("PLAYFIELD_WIDTH")
	os.Unsetenv("TICK_RATE")
	os.Unsetenv("SESSION_EXPIRY_MINUTES")

	cfg := Load()

	if cfg.PlayfieldWidth != 800 {
		t.Errorf("default playfield width = %v, want 800", cfg.PlayfieldWidth)
	}
	if cfg.PlayfieldHeight != 600 {
		t.Errorf("default playfield height = %v, want 600", cfg.PlayfieldHeight)
	}
	if cfg.TickRate != 60 {
		t.Errorf("default tick rate = %d, want 60", cfg.TickRate)
	}
	if cfg.SessionExpiryMinutes != 60 {
		t.Errorf("default session expiry = %d, want 60", cfg.SessionExpiryMinutes)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PLAYFIELD_WIDTH", "1024")
	t.Setenv("TICK_RATE", "30")
	t.Setenv("IDLE_WARNING_SECONDS", "120")

	cfg := Load()

	if cfg.PlayfieldWidth != 1024 {
		t.Errorf("playfield width = %v, want 1024", cfg.PlayfieldWidth)
	}
	if cfg.TickRate != 30 {
		t.Errorf("tick rate = %d, want 30", cfg.TickRate)
	}
	if cfg.IdleWarningSeconds != 120 {
		t.Errorf("idle warning seconds = %d, want 120", cfg.IdleWarningSeconds)
	}
}

func TestGetEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("TICK_RATE", "not-a-number")

	cfg := Load()
	if cfg.TickRate != 60 {
		t.Errorf("tick rate with garbage env = %d, want default 60", cfg.TickRate)
	}
}
