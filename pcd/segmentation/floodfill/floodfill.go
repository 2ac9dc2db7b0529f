// Package floodfill grows a planar surface patch from a seed point, bounded
// on one side by a line through two picked points.
package floodfill

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"

	"github.com/seqsense/pcdannotator/geom"
)

const (
	DefaultK              = 10
	DefaultAngleTolerance = 0.4
	DefaultBandHalfWidth  = 0.1

	// NumPicks is the number of picked points: two line ends and the seed.
	NumPicks = 3
)

// Searcher answers k-nearest-neighbor queries. The first returned neighbor
// of a point in the cloud is expected to be the point itself.
type Searcher interface {
	KNearestNeighbors(p mat.Vec3, k int) (int, []int, []float32)
}

// Floodfill holds the cloud and parameters for surface growing. It is not
// modified by Segment, so one instance may serve concurrent calls as long as
// the cloud and the searcher are not modified meanwhile.
type Floodfill struct {
	points  pc.Vec3RandomAccessor
	normals pc.Vec3RandomAccessor
	search  Searcher

	k              int
	angleTolerance float32
	bandHalfWidth  float32
}

// Option configures Floodfill.
type Option func(*Floodfill)

// WithK sets the number of neighbors queried per point, the point itself included.
func WithK(k int) Option {
	return func(f *Floodfill) { f.k = k }
}

// WithAngleTolerance sets the maximum angle in radians between a candidate
// normal and the seed normal.
func WithAngleTolerance(a float32) Option {
	return func(f *Floodfill) { f.angleTolerance = a }
}

// WithBandHalfWidth sets the distance from the bounding line within which
// points are never accepted.
func WithBandHalfWidth(d float32) Option {
	return func(f *Floodfill) { f.bandHalfWidth = d }
}

// New returns Floodfill over points and their unit normals.
func New(points, normals pc.Vec3RandomAccessor, s Searcher, opts ...Option) (*Floodfill, error) {
	f := &Floodfill{
		points:         points,
		normals:        normals,
		search:         s,
		k:              DefaultK,
		angleTolerance: DefaultAngleTolerance,
		bandHalfWidth:  DefaultBandHalfWidth,
	}
	for _, o := range opts {
		o(f)
	}
	switch {
	case points.Len() != normals.Len():
		return nil, errInvalidParameterf("%d points but %d normals", points.Len(), normals.Len())
	case f.k < 1:
		return nil, errInvalidParameterf("k must be >=1, got %d", f.k)
	case f.angleTolerance < 0:
		return nil, errInvalidParameterf("angle tolerance must be >=0, got %v", f.angleTolerance)
	case f.bandHalfWidth < 0:
		return nil, errInvalidParameterf("band half width must be >=0, got %v", f.bandHalfWidth)
	}
	return f, nil
}

// Segment grows the surface. picked[0] and picked[1] define the bounding
// line and picked[2] is the seed. Every accepted point has a normal within
// the angle tolerance of the seed normal and lies farther than the band half
// width from the bounding line. The seed itself is contained only if it is
// reached back from one of its neighbors.
// Order of the returned indices is unspecified.
func (f *Floodfill) Segment(picked []int) ([]int, error) {
	if len(picked) != NumPicks {
		return nil, &InvalidInputError{Count: len(picked)}
	}
	n := f.points.Len()
	for _, i := range picked {
		if i < 0 || i >= n {
			return nil, &IndexOutOfRangeError{Index: i, Len: n}
		}
	}
	line, err := geom.NewLine(f.points.Vec3At(picked[0]), f.points.Vec3At(picked[1]))
	if err != nil {
		return nil, err
	}
	seed := picked[2]
	seedNormal := f.normals.Vec3At(seed)

	accept := func(i int) bool {
		if geom.AngleBetweenUnitVectors(seedNormal, f.normals.Vec3At(i)) >= f.angleTolerance {
			return false
		}
		return line.Distance(f.points.Vec3At(i)) > f.bandHalfWidth
	}

	surface := mapset.NewThreadUnsafeSet[int]()
	frontier := []int{seed}
	for len(frontier) > 0 {
		var c int
		c, frontier = frontier[len(frontier)-1], frontier[:len(frontier)-1]

		cnt, ids, _ := f.search.KNearestNeighbors(f.points.Vec3At(c), f.k)
		if cnt <= 1 {
			continue
		}
		candidates := mapset.NewThreadUnsafeSetWithSize[int](cnt - 1)
		for _, id := range ids[1:cnt] {
			if id < 0 || id >= n {
				continue
			}
			candidates.Add(id)
		}
		candidates.Difference(surface).Each(func(id int) bool {
			if accept(id) {
				surface.Add(id)
				frontier = append(frontier, id)
			}
			return false
		})
	}
	return surface.ToSlice(), nil
}
