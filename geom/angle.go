// Package geom provides geometric predicates used to grow surfaces on point clouds.
package geom

import (
	"math"

	"github.com/seqsense/pcgol/mat"
)

// AngleBetweenUnitVectors returns the angle in radians between two unit vectors.
// The dot product is clipped to [-1, 1] before arccos, so rounding noise never
// produces NaN and a zero vector yields pi/2.
func AngleBetweenUnitVectors(a, b mat.Vec3) float32 {
	d := float64(a.Dot(b))
	switch {
	case d > 1:
		d = 1
	case d < -1:
		d = -1
	case math.IsNaN(d):
		d = 0
	}
	return float32(math.Acos(d))
}

// NormalizeOrZero returns v scaled to unit length. Zero length vectors are
// returned as zero instead of NaN.
func NormalizeOrZero(v mat.Vec3) mat.Vec3 {
	n := v.Norm()
	if n == 0 || math.IsNaN(float64(n)) || math.IsInf(float64(n), 0) {
		return mat.Vec3{}
	}
	return v.Mul(1 / n)
}
