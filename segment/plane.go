package segment

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/seqsense/pcgol/mat"
	gmat "gonum.org/v1/gonum/mat"

	"github.com/seqsense/pcdannotator/geom"
)

// ErrTooFewPoints is returned when a plane is fitted to less than 3 points.
var ErrTooFewPoints = errors.New("at least 3 points are required to fit a plane")

// FitPlane fits a least squares plane to ps. The normal is flipped to have
// a non-negative dot product with hint. The returned vertices are the
// corners of the bounding rectangle of ps projected on the plane, aligned
// with the direction of largest spread. Vertices are nil if all points
// coincide.
func FitPlane(ps []r3.Vector, hint r3.Vector) (*PlaneEquation, []Vertex, error) {
	if len(ps) < 3 {
		return nil, nil, ErrTooFewPoints
	}
	var c r3.Vector
	for _, p := range ps {
		c = c.Add(p)
	}
	c = c.Mul(1 / float64(len(ps)))

	var cov [9]float64
	for _, p := range ps {
		d := p.Sub(c)
		v := [3]float64{d.X, d.Y, d.Z}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				cov[i*3+j] += v[i] * v[j]
			}
		}
	}
	var eigen gmat.EigenSym
	if !eigen.Factorize(gmat.NewSymDense(3, cov[:]), true) {
		return nil, nil, errors.New("eigen decomposition failed")
	}
	var vecs gmat.Dense
	eigen.VectorsTo(&vecs)
	col := func(j int) r3.Vector {
		return r3.Vector{X: vecs.At(0, j), Y: vecs.At(1, j), Z: vecs.At(2, j)}.Normalize()
	}

	n := col(0)
	if n.Dot(hint) < 0 {
		n = n.Mul(-1)
	}
	u := col(2)
	v := n.Cross(u).Normalize()

	uMin, uMax := math.Inf(1), math.Inf(-1)
	vMin, vMax := math.Inf(1), math.Inf(-1)
	for _, p := range ps {
		d := p.Sub(c)
		du, dv := d.Dot(u), d.Dot(v)
		uMin, uMax = math.Min(uMin, du), math.Max(uMax, du)
		vMin, vMax = math.Min(vMin, dv), math.Max(vMax, dv)
	}
	plane := &PlaneEquation{
		Normal: [3]float64{n.X, n.Y, n.Z},
		Offset: -n.Dot(c),
	}
	if uMax <= uMin {
		return plane, nil, nil
	}
	corner := func(a, b float64) mat.Vec3 {
		p := c.Add(u.Mul(a)).Add(v.Mul(b))
		return mat.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}
	}
	rect := geom.RectFrom3(corner(uMin, vMin), corner(uMax, vMin), corner(uMin, vMax))
	vertices := make([]Vertex, len(rect))
	for i, p := range rect {
		vertices[i] = Vertex{float64(p[0]), float64(p[1]), float64(p[2])}
	}
	return plane, vertices, nil
}
