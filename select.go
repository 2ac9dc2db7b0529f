package main

import (
	"github.com/seqsense/pcgol/mat"
)

// selectPoint returns the index of the cloud point nearest to p within r.
func (e *editor) selectPoint(p mat.Vec3, r float32) (int, bool) {
	if e.pp == nil || e.picker == nil {
		return -1, false
	}
	if bounds := e.ppRect.Padded(r); !bounds.IsInside(p) {
		return -1, false
	}
	id, _ := e.picker.Nearest(p, r)
	if id < 0 || id >= e.pp.Len() {
		return -1, false
	}
	return id, true
}
