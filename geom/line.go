package geom

import (
	"github.com/pkg/errors"
	"github.com/seqsense/pcgol/mat"
)

// ErrDegenerateLine is returned when the two points defining a line coincide.
var ErrDegenerateLine = errors.New("line endpoints coincide")

// Line is an infinite 3D line through two distinct points.
type Line struct {
	a, b   mat.Vec3
	length float32
}

// NewLine returns the line through a and b.
func NewLine(a, b mat.Vec3) (Line, error) {
	l := b.Sub(a).Norm()
	if l == 0 {
		return Line{}, ErrDegenerateLine
	}
	return Line{a: a, b: b, length: l}, nil
}

// Points returns the two points the line was defined with.
func (l Line) Points() (mat.Vec3, mat.Vec3) {
	return l.a, l.b
}

// Distance returns the perpendicular distance from p to the line.
func (l Line) Distance(p mat.Vec3) float32 {
	return p.Sub(l.a).Cross(p.Sub(l.b)).Norm() / l.length
}

// PointToLineDistance returns the perpendicular distance from p to the infinite
// line through a and b.
func PointToLineDistance(p, a, b mat.Vec3) (float32, error) {
	l, err := NewLine(a, b)
	if err != nil {
		return 0, err
	}
	return l.Distance(p), nil
}
