package arena

import "math"

// Vec3 is a world-space vector. The arena floor is the XZ plane; Y is up.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec3) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

func (v Vec3) LenXZ() float64 { return math.Hypot(v.X, v.Z) }

func (v Vec3) Dist(o Vec3) float64 { return v.Sub(o).Len() }

func (v Vec3) DistXZ(o Vec3) float64 { return v.Sub(o).LenXZ() }

// Normalized returns the unit vector, or the zero vector for near-zero input.
func (v Vec3) Normalized() Vec3 {
	l := v.Len()
	if l < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// PerpXZ returns the horizontal perpendicular (rotated 90 degrees on the XZ
// plane), unit length when the input has horizontal extent.
func (v Vec3) PerpXZ() Vec3 {
	p := Vec3{X: -v.Z, Z: v.X}
	return p.Normalized()
}

// wrapAngle maps an angle to (-pi, pi].
func wrapAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
