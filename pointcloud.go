package main

import (
	"github.com/seqsense/pcgol/mat"
)

type rect struct {
	min, max mat.Vec3
}

func (r *rect) IsValid() bool {
	return !(r.min[0] > r.max[0] ||
		r.min[1] > r.max[1] ||
		r.min[2] > r.max[2])
}

func (r *rect) IsInside(v mat.Vec3) bool {
	return !(v[0] < r.min[0] ||
		v[1] < r.min[1] ||
		v[2] < r.min[2] ||
		r.max[0] < v[0] ||
		r.max[1] < v[1] ||
		r.max[2] < v[2])
}

// Padded returns the rect grown by d on each side.
func (r rect) Padded(d float32) rect {
	pad := mat.Vec3{d, d, d}
	return rect{min: r.min.Sub(pad), max: r.max.Add(pad)}
}
