package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/sph/sph"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if got, want := cfg.SimParams(), sph.DefaultParams(); got != want {
		t.Errorf("default physics = %+v, want %+v", got, want)
	}
	if cfg.Derived.WorldW32 != 1920 || cfg.Derived.WorldH32 != 1440 {
		t.Errorf("domain = %vx%v, want 1920x1440", cfg.Derived.WorldW32, cfg.Derived.WorldH32)
	}
	if cfg.Derived.Eps32 != 16 {
		t.Errorf("eps = %v, want 16", cfg.Derived.Eps32)
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	overlay := []byte("physics:\n  gas_constant: 1500\nparticles:\n  max: 100\n")
	if err := os.WriteFile(path, overlay, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Physics.GasConstant != 1500 {
		t.Errorf("gas_constant = %v, want 1500", cfg.Physics.GasConstant)
	}
	if cfg.Particles.Max != 100 {
		t.Errorf("particles.max = %v, want 100", cfg.Particles.Max)
	}
	// Untouched fields keep their defaults
	if cfg.Physics.RestDensity != 300 {
		t.Errorf("rest_density = %v, want default 300", cfg.Physics.RestDensity)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		overlay string
		physics bool
	}{
		{"zero smoothing radius", "physics:\n  smoothing_radius: 0\n", true},
		{"negative dt", "physics:\n  dt: -1\n", true},
		{"zero capacity", "particles:\n  max: 0\n", false},
		{"zero view scale", "world:\n  view_scale: 0\n", false},
		{"zero screen", "screen:\n  width: 0\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.overlay), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if tt.physics && !errors.Is(err, sph.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestWriteYAMLRoundtrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Physics.Viscosity = 123

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Physics.Viscosity != 123 {
		t.Errorf("viscosity = %v, want 123", loaded.Physics.Viscosity)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Cfg()
}
