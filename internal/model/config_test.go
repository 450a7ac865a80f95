package model_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/synergysphere/synergysphere/internal/model"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := model.LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want defaults for a missing file", err)
	}
	if cfg.Display.Theme != "default" {
		t.Errorf("theme = %q, want default", cfg.Display.Theme)
	}
	if !cfg.Demo.Enabled {
		t.Error("demo seeding disabled by default config")
	}
	if !cfg.RememberLogin {
		t.Error("remember_login disabled by default config")
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
display:
  theme: dark
  overdue_check_sec: 15
demo:
  enabled: false
  seed: 7
remember_login: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := model.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Display.Theme != "dark" {
		t.Errorf("theme = %q, want dark", cfg.Display.Theme)
	}
	if cfg.Display.OverdueCheckSec != 15 {
		t.Errorf("overdue_check_sec = %d, want 15", cfg.Display.OverdueCheckSec)
	}
	if cfg.Demo.Enabled {
		t.Error("demo.enabled = true, want false")
	}
	if cfg.Demo.Seed != 7 {
		t.Errorf("demo.seed = %d, want 7", cfg.Demo.Seed)
	}
	if cfg.RememberLogin {
		t.Error("remember_login = true, want false")
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	want := &model.AppConfig{
		Display:       model.DisplayConfig{Theme: "dark", OverdueCheckSec: 30},
		Demo:          model.DemoConfig{Enabled: false, Seed: 99},
		RememberLogin: false,
	}

	if err := model.SaveConfig(path, want); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}

	got, err := model.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if got.Display.Theme != want.Display.Theme {
		t.Errorf("theme = %q, want %q", got.Display.Theme, want.Display.Theme)
	}
	if got.Demo.Seed != want.Demo.Seed {
		t.Errorf("demo.seed = %d, want %d", got.Demo.Seed, want.Demo.Seed)
	}
}

func TestOverdueCheckInterval(t *testing.T) {
	cases := []struct {
		sec  int
		want time.Duration
	}{
		{0, time.Minute},
		{-5, time.Minute},
		{30, 30 * time.Second},
	}
	for _, tc := range cases {
		c := model.DisplayConfig{OverdueCheckSec: tc.sec}
		if got := c.OverdueCheckInterval(); got != tc.want {
			t.Errorf("OverdueCheckInterval(%d) = %v, want %v", tc.sec, got, tc.want)
		}
	}
}
