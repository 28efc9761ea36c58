package viewer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/cosmos/celestial"
	"github.com/pthm-cable/cosmos/config"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Galaxy.Count = 300
	cfg.Galaxy.CoreCount = 100
	cfg.Debris.Count = 200
	cfg.Screen.LensResolution = 24
	cfg.Screen.Width = 240
	cfg.Screen.Height = 135
	cfg.Derived.LensW = 24
	cfg.Derived.LensH = 13
	return cfg
}

func newHeadless(t *testing.T, opts Options) *Viewer {
	t.Helper()
	opts.Headless = true
	v, err := New(testConfig(), opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(v.Unload)
	return v
}

func TestHeadlessSteps(t *testing.T) {
	v := newHeadless(t, Options{Seed: 1, Initial: celestial.SelectSupernova})

	for i := 0; i < 90; i++ {
		if err := v.UpdateHeadless(); err != nil {
			t.Fatal(err)
		}
	}

	if v.Frame() != 90 {
		t.Errorf("expected 90 frames, got %d", v.Frame())
	}
	if got, want := v.Elapsed(), 90.0/60; got < want-1e-9 || got > want+1e-9 {
		t.Errorf("expected elapsed %f, got %f", want, got)
	}
	if v.Current() == nil || v.Current().Kind() != celestial.KindSupernova {
		t.Fatalf("expected supernova, got %v", v.Current())
	}
	if v.LensFrame() != nil {
		t.Error("expected no lensed frame for a supernova")
	}
}

func TestHeadlessLensing(t *testing.T) {
	v := newHeadless(t, Options{Seed: 1, Initial: celestial.SelectBlackHole})

	if err := v.UpdateHeadless(); err != nil {
		t.Fatal(err)
	}
	px := v.LensFrame()
	if len(px) != 24*13 {
		t.Fatalf("expected %d lensed pixels, got %d", 24*13, len(px))
	}

	v.Select(celestial.SelectHouse)
	if err := v.UpdateHeadless(); err != nil {
		t.Fatal(err)
	}
	if v.Current() != nil || v.LensFrame() != nil {
		t.Error("expected house to show nothing")
	}
}

func TestHeadlessSwitching(t *testing.T) {
	v := newHeadless(t, Options{Seed: 5, Initial: celestial.SelectGalaxy})

	for _, s := range celestial.Selections {
		v.Select(s)
		if err := v.UpdateHeadless(); err != nil {
			t.Fatalf("%v: %v", s, err)
		}
		k, ok := s.Kind()
		switch {
		case !ok && v.Current() != nil:
			t.Errorf("%v: expected no object", s)
		case ok && (v.Current() == nil || v.Current().Kind() != k):
			t.Errorf("%v: expected %v on screen", s, k)
		}
	}
}

func TestOutputFiles(t *testing.T) {
	dir := t.TempDir()
	v, err := New(testConfig(), Options{
		Seed:           2,
		Initial:        celestial.SelectPulsar,
		OutputDir:      dir,
		StatsWindowSec: 0.2,
		Headless:       true,
	})
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 60; i++ {
		if err := v.UpdateHeadless(); err != nil {
			t.Fatal(err)
		}
	}
	v.Unload()

	stats, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(stats)), "\n")
	if len(lines) < 4 {
		t.Fatalf("expected a header and several windows, got %d lines", len(lines))
	}
	if !strings.Contains(lines[1], "pulsar") {
		t.Errorf("expected pulsar rows, got %q", lines[1])
	}

	for _, name := range []string{"perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}
