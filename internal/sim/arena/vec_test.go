package arena

import (
	"math"
	"testing"
)

func TestVecNormalized(t *testing.T) {
	v := Vec3{X: 3, Y: 0, Z: 4}.Normalized()
	if math.Abs(v.Len()-1) > 1e-9 {
		t.Fatalf("expected unit length, got %v", v.Len())
	}
	if z := (Vec3{}).Normalized(); z != (Vec3{}) {
		t.Fatalf("zero vector should normalize to zero, got %+v", z)
	}
}

func TestVecPerpXZ(t *testing.T) {
	v := Vec3{X: 2, Z: 5}
	p := v.PerpXZ()
	if math.Abs(v.Dot(p)) > 1e-9 {
		t.Fatalf("perpendicular not orthogonal: dot=%v", v.Dot(p))
	}
	if math.Abs(p.Len()-1) > 1e-9 {
		t.Fatalf("perpendicular not unit: len=%v", p.Len())
	}
	if (Vec3{Y: 3}).PerpXZ() != (Vec3{}) {
		t.Fatalf("vertical vector has no horizontal perpendicular")
	}
}

func TestWrapAngle(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi, math.Pi},
		{2 * math.Pi, 0},
	}
	for _, c := range cases {
		if got := wrapAngle(c.in); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("wrapAngle(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
