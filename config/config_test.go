package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("loading defaults: %v", err)
	}

	if cfg.Galaxy.Count != 50000 || cfg.Galaxy.CoreCount != 20000 {
		t.Errorf("expected galaxy counts 50000/20000, got %d/%d", cfg.Galaxy.Count, cfg.Galaxy.CoreCount)
	}
	if cfg.Lens.Rs != 1.5 {
		t.Errorf("expected rs 1.5, got %f", cfg.Lens.Rs)
	}
	if math.Abs(cfg.Derived.PhotonSphere-2.25) > 1e-12 {
		t.Errorf("expected photon sphere 2.25, got %f", cfg.Derived.PhotonSphere)
	}
	if cfg.Timeline.Period != 10 {
		t.Errorf("expected period 10, got %f", cfg.Timeline.Period)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("galaxy:\n  count: 10\nlens:\n  rs: 2\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("loading override: %v", err)
	}

	if cfg.Galaxy.Count != 10 {
		t.Errorf("expected overridden count 10, got %d", cfg.Galaxy.Count)
	}
	if cfg.Galaxy.CoreCount != 20000 {
		t.Errorf("expected default core count to survive, got %d", cfg.Galaxy.CoreCount)
	}
	if cfg.Derived.PhotonSphere != 3 {
		t.Errorf("expected derived photon sphere 3, got %f", cfg.Derived.PhotonSphere)
	}
}

func TestLoadRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad color", "galaxy:\n  inside_color: \"orange\"\n"},
		{"unknown noise", "noise:\n  kind: worley\n"},
		{"zero period", "timeline:\n  period: 0\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tc.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestHexColorParse(t *testing.T) {
	v, err := HexColor("#ff8000").Parse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v[0] != 1 || math.Abs(float64(v[1])-128.0/255.0) > 1e-6 || v[2] != 0 {
		t.Errorf("expected (1, 0.502, 0), got %v", v)
	}

	if got := HexColor("nope").Vec3(); got[0] != 0 || got[1] != 0 || got[2] != 0 {
		t.Errorf("expected black fallback, got %v", got)
	}
}

func TestSnapFrequency(t *testing.T) {
	f := SnapFrequency(10, 10)
	cycles := f * 10 / (2 * math.Pi)
	if math.Abs(cycles-math.Round(cycles)) > 1e-9 {
		t.Errorf("expected whole cycles per period, got %f", cycles)
	}
	if math.Abs(f-10) > 0.5 {
		t.Errorf("snapped frequency %f drifted too far from 10", f)
	}

	if SnapFrequency(3, 0) != 3 {
		t.Error("expected non-positive period to leave frequency unchanged")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("writing: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	if loaded.Quasar.Disk.OuterRadius != cfg.Quasar.Disk.OuterRadius {
		t.Errorf("expected outer radius %f, got %f", cfg.Quasar.Disk.OuterRadius, loaded.Quasar.Disk.OuterRadius)
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
