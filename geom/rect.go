package geom

import (
	"github.com/seqsense/pcgol/mat"
)

// RectFrom3 returns the rectangle having p0-p1 as one edge and reaching the
// line through p2 parallel to it. Vertices are ordered around the boundary.
func RectFrom3(p0, p1, p2 mat.Vec3) [4]mat.Vec3 {
	base := p1.Sub(p0)
	proj := p0.Add(
		base.Mul(base.Dot(p2.Sub(p0)) / base.NormSq()))
	perp := p2.Sub(proj)
	return [4]mat.Vec3{p0, p1, p1.Add(perp), p0.Add(perp)}
}
