// Package knn provides a k-nearest-neighbor index over 3D points.
package knn

import (
	"sort"

	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// Searcher answers k-nearest-neighbor queries.
type Searcher interface {
	// KNearestNeighbors returns up to k points nearest to p ordered by
	// distance. Distances are squared.
	KNearestNeighbors(p mat.Vec3, k int) (int, []int, []float32)
}

// Tree is a kd-tree over a snapshot of the points. It is read only after
// construction and safe for concurrent queries.
type Tree struct {
	tree *kdtree.Tree
	n    int
}

// New builds a tree from the points of ra.
func New(ra pc.Vec3RandomAccessor) *Tree {
	ps := make(points, ra.Len())
	for i := range ps {
		ps[i] = point{id: i, p: ra.Vec3At(i)}
	}
	return &Tree{
		tree: kdtree.New(ps, false),
		n:    len(ps),
	}
}

func (t *Tree) Len() int {
	return t.n
}

// KNearestNeighbors implements Searcher. A query point present in the tree is
// returned as the first neighbor.
func (t *Tree) KNearestNeighbors(p mat.Vec3, k int) (int, []int, []float32) {
	if k <= 0 || t.n == 0 {
		return 0, nil, nil
	}
	if k > t.n {
		k = t.n
	}
	keep := kdtree.NewNKeeper(k)
	t.tree.NearestSet(keep, point{id: -1, p: p})

	found := make([]kdtree.ComparableDist, 0, keep.Len())
	for _, c := range keep.Heap {
		if c.Comparable == nil {
			continue
		}
		found = append(found, c)
	}
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].Dist == found[j].Dist {
			return found[i].Comparable.(point).id < found[j].Comparable.(point).id
		}
		return found[i].Dist < found[j].Dist
	})

	ids := make([]int, len(found))
	dists := make([]float32, len(found))
	for i, c := range found {
		ids[i] = c.Comparable.(point).id
		dists[i] = float32(c.Dist)
	}
	return len(ids), ids, dists
}

type point struct {
	id int
	p  mat.Vec3
}

func (a point) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return float64(a.p[d] - c.(point).p[d])
}

func (point) Dims() int { return 3 }

func (a point) Distance(c kdtree.Comparable) float64 {
	return float64(a.p.Sub(c.(point).p).NormSq())
}

type points []point

func (ps points) Index(i int) kdtree.Comparable         { return ps[i] }
func (ps points) Len() int                              { return len(ps) }
func (ps points) Pivot(d kdtree.Dim) int                { return plane{points: ps, dim: d}.Pivot() }
func (ps points) Slice(start, end int) kdtree.Interface { return ps[start:end] }

const medianSamples = 100

type plane struct {
	points
	dim kdtree.Dim
}

func (p plane) Less(i, j int) bool { return p.points[i].p[p.dim] < p.points[j].p[p.dim] }
func (p plane) Swap(i, j int)      { p.points[i], p.points[j] = p.points[j], p.points[i] }
func (p plane) Pivot() int         { return kdtree.Partition(p, kdtree.MedianOfRandoms(p, medianSamples)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.points = p.points[start:end]
	return p
}
