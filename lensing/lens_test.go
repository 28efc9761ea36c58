package lensing

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/cosmos/camera"
)

// rayAt returns a ray parallel to +Z whose closest approach to the origin is b.
func rayAt(b float64) (origin, dir r3.Vec) {
	return r3.Vec{X: b, Z: -20}, r3.Vec{Z: 1}
}

func testLens() LensParams {
	return NewLensParams(r3.Vec{}, 1.5)
}

type flatSky struct{ c mgl32.Vec3 }

func (f flatSky) Sample(r3.Vec) mgl32.Vec3 { return f.c }

func TestNewLensParams(t *testing.T) {
	l := testLens()
	if l.PhotonSphere != 2.25 {
		t.Errorf("expected photon sphere 2.25, got %f", l.PhotonSphere)
	}
	if l2 := NewLensParams(r3.Vec{}, -1); l2.Rs != 0 || l2.PhotonSphere != 0 {
		t.Errorf("expected negative rs clamped to 0, got %f/%f", l2.Rs, l2.PhotonSphere)
	}
}

func TestImpactParameter(t *testing.T) {
	o, d := rayAt(3.2)
	if b := ImpactParameter(o, d, r3.Vec{}); math.Abs(b-3.2) > 1e-12 {
		t.Errorf("expected b=3.2, got %f", b)
	}

	// Unnormalized direction gives the same answer.
	if b := ImpactParameter(o, r3.Scale(7, d), r3.Vec{}); math.Abs(b-3.2) > 1e-12 {
		t.Errorf("expected b independent of direction length, got %f", b)
	}

	// Heading away: closest approach is the origin itself.
	away := ImpactParameter(r3.Vec{Z: -20}, r3.Vec{Z: -1}, r3.Vec{})
	if away != 20 {
		t.Errorf("expected 20 for receding ray, got %f", away)
	}
}

func TestCaptureBoundaries(t *testing.T) {
	l := testLens()
	sky := flatSky{mgl32.Vec3{0.2, 0.2, 0.2}}

	// Just inside the horizon.
	o, d := rayAt(l.Rs * 0.99)
	res := Trace(o, d, l)
	if res.Kind != Captured {
		t.Fatalf("b=0.99rs: expected captured, got %v", res.Kind)
	}
	if c := Sample(o, d, l, sky); c != (mgl32.Vec4{0, 0, 0, 1}) {
		t.Errorf("b=0.99rs: expected opaque black, got %v", c)
	}

	// Just outside the horizon, inside the photon sphere.
	o, d = rayAt(l.Rs * 1.01)
	res = Trace(o, d, l)
	if res.Kind != PhotonRing {
		t.Fatalf("b=1.01rs: expected photon ring, got %v", res.Kind)
	}
	c := Sample(o, d, l, sky)
	if c[3] != 1 {
		t.Errorf("b=1.01rs: expected opaque, got alpha %f", c[3])
	}
	if c[0] <= 0 {
		t.Errorf("b=1.01rs: expected nonzero ring glow, got %v", c)
	}
	if c[0] > 0.05 {
		t.Errorf("b=1.01rs: expected near-black, got %v", c)
	}

	// Far field.
	o, d = rayAt(l.Rs * 10)
	res = Trace(o, d, l)
	if res.Kind != Deflected {
		t.Fatalf("b=10rs: expected deflected, got %v", res.Kind)
	}
	// gain*rs/b / (1 - (ps/b)^2 + eps) with gain 4 is about 0.409 rad here,
	// well above 0.1 rad; only a gain near 1 stays that weak at 10rs.
	q := l.PhotonSphere / res.B
	want := (l.DeflectionGain * l.Rs / res.B) / (1 - q*q + l.Epsilon)
	if math.Abs(res.Deflection-want) > 1e-12 {
		t.Errorf("b=10rs: expected deflection %f, got %f", want, res.Deflection)
	}
	if math.Abs(res.Deflection-0.4088) > 1e-3 {
		t.Errorf("b=10rs: expected about 0.409 rad with gain 4, got %f", res.Deflection)
	}
	c = Sample(o, d, l, sky)
	if c[3] != 1 || c[0] <= 0.2 {
		t.Errorf("b=10rs: expected magnified sky, got %v", c)
	}
}

func TestScenarioCapturedRay(t *testing.T) {
	l := testLens()
	o, d := rayAt(0.5)

	c := Sample(o, d, l, NewStarfield(400, 0, 1, 1))
	if c != (mgl32.Vec4{0, 0, 0, 1}) {
		t.Errorf("expected captured output (0,0,0,1), got %v", c)
	}
}

func TestBentTowardLens(t *testing.T) {
	l := testLens()
	o, d := rayAt(6)
	res := Trace(o, d, l)

	if math.Abs(r3.Norm(res.Bent)-1) > 1e-9 {
		t.Errorf("expected unit bent direction, got length %f", r3.Norm(res.Bent))
	}
	// Lens sits at -X relative to the ray.
	if res.Bent.X >= 0 {
		t.Errorf("expected ray bent toward lens, got %v", res.Bent)
	}
	if res.Bent.Y != 0 {
		t.Errorf("expected bending within the lens plane, got %v", res.Bent)
	}
	angle := math.Acos(math.Min(1, r3.Dot(res.Bent, d)))
	if math.Abs(angle-res.Deflection) > 1e-9 {
		t.Errorf("expected rotation by %f, got %f", res.Deflection, angle)
	}
}

func TestDeflectionFalloff(t *testing.T) {
	l := testLens()

	if got := l.Deflection(l.PhotonSphere * 1.0001); got != l.MaxDeflection {
		t.Errorf("expected clamp at %f near the photon sphere, got %f", l.MaxDeflection, got)
	}

	prev := math.Inf(1)
	for b := 3 * l.Rs; b < 100*l.Rs; b += 0.25 {
		d := l.Deflection(b)
		if d <= 0 || d >= prev {
			t.Fatalf("expected strictly decreasing positive deflection at b=%f: %f after %f", b, d, prev)
		}
		prev = d
	}

	if d := l.Deflection(0); math.IsNaN(d) || math.IsInf(d, 0) {
		t.Errorf("expected finite deflection at b=0, got %f", d)
	}
}

func TestRecedingRayUnbent(t *testing.T) {
	l := testLens()
	tests := []struct {
		name string
		dir  r3.Vec
	}{
		{"collinear", r3.Vec{Z: -1}},
		{"oblique", r3.Unit(r3.Vec{X: 1, Z: -1})},
		{"perpendicular", r3.Vec{Y: 1}},
	}
	for _, tt := range tests {
		res := Trace(r3.Vec{Z: -20}, tt.dir, l)
		if res.Kind != Deflected || res.Deflection != 0 {
			t.Errorf("%s: expected unbent escape, got %v with %f", tt.name, res.Kind, res.Deflection)
		}
		if r3.Norm(r3.Sub(res.Bent, tt.dir)) > 1e-12 {
			t.Errorf("%s: expected direction unchanged, got %v", tt.name, res.Bent)
		}
	}
}

func TestDegenerateInputs(t *testing.T) {
	l := testLens()
	if res := Trace(r3.Vec{X: 5}, r3.Vec{}, l); res.Kind != Captured {
		t.Errorf("expected zero direction treated as captured, got %v", res.Kind)
	}

	flat := NewLensParams(r3.Vec{}, 0)
	o, d := rayAt(0)
	c := Sample(o, d, flat, flatSky{mgl32.Vec3{1, 1, 1}})
	for i, v := range c {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			t.Fatalf("channel %d not finite with rs=0: %v", i, c)
		}
	}
}

func TestDiskGlowAndMagnification(t *testing.T) {
	l := testLens()
	b := 1.6 * l.Rs
	res := Result{Kind: Deflected, B: b}
	c := Shade(res, l, nil)

	want := float32(l.GlowStrength * (1 + 2*l.Rs/b))
	if math.Abs(float64(c[0]-want)) > 1e-5 {
		t.Errorf("expected red %f from full glow, got %f", want, c[0])
	}

	res.B = 4 * l.Rs
	if c := Shade(res, l, nil); c[0] != 0 {
		t.Errorf("expected no glow far from the photon sphere, got %v", c)
	}
}

func TestRingPeaksAtPhotonSphere(t *testing.T) {
	l := testLens()
	peak := l.RingIntensity(l.PhotonSphere)
	if peak != l.RingGain {
		t.Errorf("expected ring gain %f at photon sphere, got %f", l.RingGain, peak)
	}
	if inner := l.RingIntensity(l.Rs * 1.2); inner >= peak {
		t.Errorf("expected ring to fade inward, got %f >= %f", inner, peak)
	}
}

func TestStarfield(t *testing.T) {
	s := NewStarfield(400, 0.985, 1, 11)

	lit := 0
	for i := 0; i < 20000; i++ {
		a := float64(i) * 0.0137
		dir := r3.Vec{X: math.Cos(a) * math.Sin(a*0.31), Y: math.Cos(a * 0.31), Z: math.Sin(a) * math.Sin(a*0.31)}
		c := s.Sample(dir)
		if c != s.Sample(dir) {
			t.Fatalf("expected deterministic sample for %v", dir)
		}
		for _, v := range c {
			if v < 0 || v > 1 {
				t.Fatalf("expected channel in [0,1], got %v", c)
			}
		}
		if c[0] > 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Error("expected some stars")
	}
	if lit > 20000/10 {
		t.Errorf("expected sparse stars, got %d lit samples", lit)
	}

	empty := NewStarfield(0, 0.5, 1, 1)
	if c := empty.Sample(r3.Vec{X: 1}); c != (mgl32.Vec3{}) {
		t.Errorf("expected black sky for zero density, got %v", c)
	}
}

func TestRender(t *testing.T) {
	cam := camera.New(33, 33, 50, 22)
	pose := cam.Pose()
	l := testLens()

	px := Render(pose, l, NewStarfield(200, 0.9, 1, 3), 33, 33, nil)
	if len(px) != 33*33 {
		t.Fatalf("expected %d pixels, got %d", 33*33, len(px))
	}
	if c := px[16*33+16]; c.R != 0 || c.G != 0 || c.B != 0 || c.A != 255 {
		t.Errorf("expected black hole at frame center, got %v", c)
	}
	for i, c := range px {
		if c.A != 255 {
			t.Fatalf("pixel %d: expected opaque, got %v", i, c)
		}
	}
}

func TestRendererMatchesSequential(t *testing.T) {
	cam := camera.New(48, 40, 50, 12)
	pose := cam.Pose()
	l := testLens()
	sky := NewStarfield(200, 0.9, 1, 3)

	want := Render(pose, l, sky, 48, 40, nil)

	r := NewRenderer()
	r.Start()
	defer r.Stop()
	got := r.Render(pose, l, sky, 48, 40, nil)

	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pixel %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func BenchmarkSample(b *testing.B) {
	l := testLens()
	sky := NewStarfield(400, 0.985, 1, 1)
	o, d := rayAt(4)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		Sample(o, d, l, sky)
	}
}
