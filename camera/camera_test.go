package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNew(t *testing.T) {
	cam := New(1280, 720, 50, 22)

	if cam.Distance != 22 {
		t.Errorf("expected distance 22, got %f", cam.Distance)
	}
	if cam.Target != (mgl32.Vec3{}) {
		t.Errorf("expected target at origin, got %v", cam.Target)
	}
}

func TestPositionOnOrbit(t *testing.T) {
	cam := New(1280, 720, 50, 10)
	cam.Pitch = 0

	pos := cam.Position()
	if !pos.ApproxEqualThreshold(mgl32.Vec3{0, 0, 10}, 1e-5) {
		t.Errorf("expected (0, 0, 10), got %v", pos)
	}

	cam.Yaw = math.Pi / 2
	pos = cam.Position()
	if !pos.ApproxEqualThreshold(mgl32.Vec3{10, 0, 0}, 1e-4) {
		t.Errorf("expected (10, 0, 0), got %v", pos)
	}

	cam.Pitch = 0.7
	if d := cam.Position().Len(); math.Abs(float64(d-10)) > 1e-4 {
		t.Errorf("expected distance 10 from target, got %f", d)
	}
}

func TestCenterRayHitsTarget(t *testing.T) {
	cam := New(1280, 720, 50, 22)
	cam.Yaw = 0.8
	pose := cam.Pose()

	dir := pose.Ray(0.5, 0.5)
	want := cam.Target.Sub(pose.Position).Normalize()
	if !dir.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("expected center ray %v, got %v", want, dir)
	}
	if math.Abs(float64(dir.Len()-1)) > 1e-5 {
		t.Errorf("expected unit ray, got length %f", dir.Len())
	}
}

func TestRayOrientation(t *testing.T) {
	cam := New(1280, 720, 50, 10)
	cam.Pitch = 0
	pose := cam.Pose()

	// Looking down -Z: right of screen is +X, top is +Y.
	if r := pose.Ray(1, 0.5); r[0] <= 0 {
		t.Errorf("expected right edge ray toward +X, got %v", r)
	}
	if r := pose.Ray(0.5, 0); r[1] <= 0 {
		t.Errorf("expected top edge ray toward +Y, got %v", r)
	}
}

func TestProjectRoundtrip(t *testing.T) {
	cam := New(1280, 720, 50, 10)
	pose := cam.Pose()

	sx, sy, ok := pose.Project(cam.Target, 1280, 720)
	if !ok {
		t.Fatal("expected target in front of camera")
	}
	if math.Abs(float64(sx-640)) > 0.01 || math.Abs(float64(sy-360)) > 0.01 {
		t.Errorf("expected screen center (640, 360), got (%f, %f)", sx, sy)
	}

	testCases := []struct{ u, v float32 }{
		{0.1, 0.1},
		{0.9, 0.3},
		{0.4, 0.8},
	}
	for _, tc := range testCases {
		p := pose.Position.Add(pose.Ray(tc.u, tc.v).Mul(5))
		sx, sy, ok := pose.Project(p, 1280, 720)
		if !ok {
			t.Fatalf("expected point on ray (%f, %f) to be visible", tc.u, tc.v)
		}
		if math.Abs(float64(sx-tc.u*1280)) > 0.5 || math.Abs(float64(sy-tc.v*720)) > 0.5 {
			t.Errorf("roundtrip failed: (%f,%f) -> (%f,%f)", tc.u*1280, tc.v*720, sx, sy)
		}
	}

	behind := pose.Position.Add(pose.Position.Sub(cam.Target))
	if _, _, ok := pose.Project(behind, 1280, 720); ok {
		t.Error("expected point behind camera to be rejected")
	}
}

func TestDistanceClamp(t *testing.T) {
	cam := New(1280, 720, 50, 22)

	cam.SetDistance(0.1)
	if cam.Distance != cam.MinDistance {
		t.Errorf("expected distance clamped to %f, got %f", cam.MinDistance, cam.Distance)
	}

	cam.SetDistance(1000)
	if cam.Distance != cam.MaxDistance {
		t.Errorf("expected distance clamped to %f, got %f", cam.MaxDistance, cam.Distance)
	}

	cam.SetDistance(20)
	cam.ZoomBy(2)
	if cam.Distance != 10 {
		t.Errorf("expected zoom to halve distance, got %f", cam.Distance)
	}
	cam.ZoomBy(0)
	if cam.Distance != 10 {
		t.Errorf("expected non-positive zoom factor ignored, got %f", cam.Distance)
	}
}

func TestOrbitPitchClamp(t *testing.T) {
	cam := New(1280, 720, 50, 22)
	cam.Orbit(0, 10000)
	if cam.Pitch != 1.5 {
		t.Errorf("expected pitch clamped to 1.5, got %f", cam.Pitch)
	}
	cam.Orbit(0, -100000)
	if cam.Pitch != -1.5 {
		t.Errorf("expected pitch clamped to -1.5, got %f", cam.Pitch)
	}
}

func TestReset(t *testing.T) {
	cam := New(1280, 720, 50, 22)
	cam.Yaw = 2
	cam.Pitch = -1
	cam.Distance = 60

	cam.Reset()

	if cam.Yaw != 0 || cam.Pitch != 0.25 {
		t.Errorf("expected yaw 0 pitch 0.25, got (%f, %f)", cam.Yaw, cam.Pitch)
	}
	if cam.Distance != 22 {
		t.Errorf("expected distance 22, got %f", cam.Distance)
	}
}
