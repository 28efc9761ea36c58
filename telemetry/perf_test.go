package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseAdvance)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseLensing)
		time.Sleep(200 * time.Microsecond)
		pc.EndFrame()
	}

	stats := pc.Stats()

	if stats.AvgFrameDuration <= 0 {
		t.Error("expected positive average frame duration")
	}

	if stats.PhaseAvg[PhaseAdvance] < 100*time.Microsecond {
		t.Errorf("expected advance phase >= 100us, got %v", stats.PhaseAvg[PhaseAdvance])
	}
	if stats.PhaseAvg[PhaseLensing] < 200*time.Microsecond {
		t.Errorf("expected lensing phase >= 200us, got %v", stats.PhaseAvg[PhaseLensing])
	}
	if stats.PhaseAvg[PhaseDraw] != 0 {
		t.Errorf("expected untouched draw phase to be zero, got %v", stats.PhaseAvg[PhaseDraw])
	}

	if stats.MinFrameDuration > stats.AvgFrameDuration || stats.AvgFrameDuration > stats.MaxFrameDuration {
		t.Errorf("expected min <= avg <= max, got %v %v %v",
			stats.MinFrameDuration, stats.AvgFrameDuration, stats.MaxFrameDuration)
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseDraw)
		pc.EndFrame()
	}

	if n := len(pc.Durations()); n != 5 {
		t.Errorf("expected window of 5 durations, got %d", n)
	}

	stats := pc.Stats()
	if stats.FramesPerSecond <= 0 {
		t.Error("expected positive frames per second")
	}
}

func TestPerfCollector_DurationsOldestFirst(t *testing.T) {
	pc := NewPerfCollector(3)
	for i := 0; i < 4; i++ {
		pc.StartFrame()
		time.Sleep(time.Duration(i+1) * time.Millisecond)
		pc.EndFrame()
	}

	d := pc.Durations()
	if len(d) != 3 {
		t.Fatalf("expected 3 durations, got %d", len(d))
	}
	// Frames 2, 3 and 4 remain; sleeps grow each frame.
	if d[0] >= d[2] {
		t.Errorf("expected oldest first, got %v", d)
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartFrame()
		pc.StartPhase(PhaseAdvance)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseSurfaces)
		time.Sleep(2 * time.Millisecond)
		pc.EndFrame()
	}

	stats := pc.Stats()

	fast := stats.PhasePct[PhaseAdvance]
	slow := stats.PhasePct[PhaseSurfaces]
	if slow <= fast {
		t.Errorf("expected surfaces (%v%%) > advance (%v%%)", slow, fast)
	}

	row := stats.ToCSV(42, "pulsar")
	if row.Frame != 42 || row.Selection != "pulsar" {
		t.Errorf("expected frame 42 pulsar, got %d %s", row.Frame, row.Selection)
	}
	if row.SurfacesPct != slow {
		t.Errorf("expected surfaces_pct %v, got %v", slow, row.SurfacesPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	if stats.AvgFrameDuration != 0 {
		t.Error("expected zero avg frame duration for empty collector")
	}
	if stats.PhaseAvg != (PhaseTimes{}) {
		t.Errorf("expected zero phase averages, got %v", stats.PhaseAvg)
	}
	if len(pc.Durations()) != 0 {
		t.Error("expected no durations")
	}
}

func TestPerfCollector_PresentTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	pc.RecordPresent()
	time.Sleep(16 * time.Millisecond)
	pc.RecordPresent()

	stats := pc.Stats()

	if stats.PresentGap < 15*time.Millisecond {
		t.Errorf("expected present gap >= 15ms, got %v", stats.PresentGap)
	}

	// With 16ms frames, expect ~60 FPS (allow range 20-70)
	if stats.FPS < 20 || stats.FPS > 70 {
		t.Errorf("expected FPS between 20-70 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPerfCollector_PhaseReentryAccumulates(t *testing.T) {
	pc := NewPerfCollector(4)

	pc.StartFrame()
	time.Sleep(time.Millisecond) // before any phase
	pc.StartPhase(PhaseSelect)
	time.Sleep(time.Millisecond)
	pc.StartPhase(PhaseAdvance)
	pc.StartPhase(PhaseSelect)
	time.Sleep(time.Millisecond)
	pc.EndFrame()

	stats := pc.Stats()
	if stats.PhaseAvg[PhaseSelect] < 2*time.Millisecond {
		t.Errorf("expected both select spans counted, got %v", stats.PhaseAvg[PhaseSelect])
	}
	if stats.AvgFrameDuration < 3*time.Millisecond {
		t.Errorf("expected frame to include time before the first phase, got %v", stats.AvgFrameDuration)
	}
	if stats.PhaseAvg[PhaseSelect] >= stats.AvgFrameDuration {
		t.Errorf("expected pre-phase time excluded from phases, got %v of %v",
			stats.PhaseAvg[PhaseSelect], stats.AvgFrameDuration)
	}
}

func TestPhaseNames(t *testing.T) {
	want := []string{"select", "advance", "lensing", "surfaces", "points", "draw"}
	if len(Phases) != len(want) {
		t.Fatalf("expected %d phases, got %d", len(want), len(Phases))
	}
	for i, p := range Phases {
		if p.String() != want[i] {
			t.Errorf("phase %d: expected %s, got %s", i, want[i], p)
		}
	}
	if Phase(200).String() != "unknown" {
		t.Errorf("expected unknown for out-of-range phase, got %s", Phase(200))
	}
}
