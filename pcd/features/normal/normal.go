// Package normal estimates per-point surface normals of a point cloud.
package normal

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
	"golang.org/x/sync/errgroup"
	gmat "gonum.org/v1/gonum/mat"

	"github.com/seqsense/pcdannotator/geom"
)

// DefaultK is the default number of neighbors used for a normal.
const DefaultK = 30

const batchSize = 4096

// Searcher answers k-nearest-neighbor queries.
type Searcher interface {
	KNearestNeighbors(p mat.Vec3, k int) (int, []int, []float32)
}

// Estimate returns one unit normal per point of ra, computed as the direction
// of least variance over the k nearest neighbors and flipped to face viewpoint.
// Points with fewer than three neighbors or a degenerate neighborhood get a
// zero normal.
func Estimate(ctx context.Context, ra pc.Vec3RandomAccessor, s Searcher, k int, viewpoint mat.Vec3) (pc.Vec3Slice, error) {
	if k < 3 {
		return nil, errors.Errorf("k must be >=3, got %d", k)
	}
	n := ra.Len()
	normals := make(pc.Vec3Slice, n)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for start := 0; start < n; start += batchSize {
		start, end := start, min(start+batchSize, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for i := start; i < end; i++ {
				p := ra.Vec3At(i)
				cnt, ids, _ := s.KNearestNeighbors(p, k)
				nv, ok := fit(ra, ids[:cnt])
				if !ok {
					continue
				}
				if viewpoint.Sub(p).Dot(nv) < 0 {
					nv = nv.Mul(-1)
				}
				normals[i] = nv
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "estimating normals")
	}
	return normals, nil
}

// fit returns the eigenvector of the smallest eigenvalue of the covariance
// of the given points.
func fit(ra pc.Vec3RandomAccessor, ids []int) (mat.Vec3, bool) {
	if len(ids) < 3 {
		return mat.Vec3{}, false
	}
	var c [3]float64
	for _, id := range ids {
		p := ra.Vec3At(id)
		for j := range c {
			c[j] += float64(p[j])
		}
	}
	for j := range c {
		c[j] /= float64(len(ids))
	}
	var cov [9]float64
	for _, id := range ids {
		p := ra.Vec3At(id)
		d := [3]float64{float64(p[0]) - c[0], float64(p[1]) - c[1], float64(p[2]) - c[2]}
		for r := 0; r < 3; r++ {
			for s := 0; s < 3; s++ {
				cov[r*3+s] += d[r] * d[s]
			}
		}
	}

	var eigen gmat.EigenSym
	if !eigen.Factorize(gmat.NewSymDense(3, cov[:]), true) {
		return mat.Vec3{}, false
	}
	var vecs gmat.Dense
	eigen.VectorsTo(&vecs)

	// Eigenvalues are ascending.
	nv := geom.NormalizeOrZero(mat.Vec3{
		float32(vecs.At(0, 0)),
		float32(vecs.At(1, 0)),
		float32(vecs.At(2, 0)),
	})
	if nv.NormSq() == 0 {
		return mat.Vec3{}, false
	}
	return nv, true
}
