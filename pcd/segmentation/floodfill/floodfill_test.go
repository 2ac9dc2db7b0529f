package floodfill

import (
	"errors"
	"math"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"

	"github.com/seqsense/pcdannotator/geom"
	"github.com/seqsense/pcdannotator/pcd/storage/knn"
)

// planeGrid returns 20x50 points on z=0. x runs from -4.5 to 5.0 by 0.5 and
// y from 0 to 12.25 by 0.25. Index of (x, y) is i*50+j.
func planeGrid() (pc.Vec3Slice, pc.Vec3Slice) {
	var ps, ns pc.Vec3Slice
	for i := 0; i < 20; i++ {
		for j := 0; j < 50; j++ {
			ps = append(ps, mat.Vec3{-4.5 + 0.5*float32(i), 0.25 * float32(j), 0})
			ns = append(ns, mat.Vec3{0, 0, 1})
		}
	}
	return ps, ns
}

const (
	gridOrigin = 9*50 + 0   // (0, 0, 0)
	gridOnLine = 9*50 + 20  // (0, 5, 0)
	gridSeed   = 19*50 + 20 // (5, 5, 0)
)

func sorted(a []int) []int {
	out := append([]int{}, a...)
	sort.Ints(out)
	return out
}

func TestFloodfill_Plane(t *testing.T) {
	ps, ns := planeGrid()

	testCases := map[string]struct {
		opts  []Option
		minX  float32
		count int
	}{
		"Default": {
			minX:  0.1,
			count: 500,
		},
		"WideBand": {
			opts:  []Option{WithBandHalfWidth(0.6)},
			minX:  0.6,
			count: 450,
		},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			f, err := New(ps, ns, knn.New(ps), tt.opts...)
			if err != nil {
				t.Fatal(err)
			}
			res, err := f.Segment([]int{gridOrigin, gridOnLine, gridSeed})
			if err != nil {
				t.Fatal(err)
			}
			var expected []int
			for i, p := range ps {
				if p[0] > tt.minX {
					expected = append(expected, i)
				}
			}
			if len(expected) != tt.count {
				t.Fatalf("Wrong test data: %d points expected to be selected", len(expected))
			}
			if got := sorted(res); !reflect.DeepEqual(expected, got) {
				t.Errorf("Expected %d points with x>%v, got %d points", len(expected), tt.minX, len(got))
			}
			for _, i := range res {
				if d, _ := geom.PointToLineDistance(ps[i], ps[gridOrigin], ps[gridOnLine]); d <= tt.minX {
					t.Errorf("Point %v in the band must not be selected", ps[i])
				}
			}
		})
	}
}

func TestFloodfill_OtherSide(t *testing.T) {
	ps, ns := planeGrid()
	f, err := New(ps, ns, knn.New(ps))
	if err != nil {
		t.Fatal(err)
	}
	res, err := f.Segment([]int{gridOrigin, gridOnLine, 0})
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 450 {
		t.Errorf("Expected 450 points, got %d", len(res))
	}
	for _, i := range res {
		if ps[i][0] >= -0.1 {
			t.Errorf("Point %v is on the other side", ps[i])
		}
	}
}

func TestFloodfill_NoDrift(t *testing.T) {
	// Normals rotate by 0.15 rad per point along the chain. Consecutive
	// points are similar, but only points within 0.4 rad of the seed are
	// accepted.
	var ps, ns pc.Vec3Slice
	for i := 0; i < 30; i++ {
		th := 0.15 * float64(i-15)
		ps = append(ps, mat.Vec3{float32(i), 0, 0})
		ns = append(ns, mat.Vec3{float32(math.Sin(th)), 0, float32(math.Cos(th))})
	}
	ps = append(ps, mat.Vec3{-100, 0, 0}, mat.Vec3{-100, 1, 0})
	ns = append(ns, mat.Vec3{0, 0, 1}, mat.Vec3{0, 0, 1})

	f, err := New(ps, ns, knn.New(ps))
	if err != nil {
		t.Fatal(err)
	}
	res, err := f.Segment([]int{30, 31, 15})
	if err != nil {
		t.Fatal(err)
	}
	expected := []int{13, 14, 15, 16, 17}
	if got := sorted(res); !reflect.DeepEqual(expected, got) {
		t.Errorf("Expected %v, got %v", expected, got)
	}
}

func TestFloodfill_InvalidInput(t *testing.T) {
	ps, ns := planeGrid()
	f, err := New(ps, ns, knn.New(ps))
	if err != nil {
		t.Fatal(err)
	}
	for name, picked := range map[string][]int{
		"0": nil,
		"2": {gridOrigin, gridOnLine},
		"4": {gridOrigin, gridOnLine, gridSeed, 0},
	} {
		picked := picked
		t.Run(name, func(t *testing.T) {
			res, err := f.Segment(picked)
			if res != nil {
				t.Errorf("Expected no result, got %v", res)
			}
			var errInput *InvalidInputError
			if !errors.As(err, &errInput) {
				t.Fatalf("Expected InvalidInputError, got %v", err)
			}
			if errInput.Count != len(picked) {
				t.Errorf("Expected count %d, got %d", len(picked), errInput.Count)
			}
			if !strings.HasPrefix(err.Error(), name+" points") {
				t.Errorf("Message must name the count, got %q", err.Error())
			}
		})
	}
}

func TestFloodfill_IndexOutOfRange(t *testing.T) {
	ps, ns := planeGrid()
	empty := pc.Vec3Slice{}

	testCases := map[string]struct {
		points, normals pc.Vec3Slice
		picked          []int
		index           int
	}{
		"Negative":   {points: ps, normals: ns, picked: []int{gridOrigin, gridOnLine, -1}, index: -1},
		"TooLarge":   {points: ps, normals: ns, picked: []int{1000, gridOnLine, gridSeed}, index: 1000},
		"EmptyCloud": {points: empty, normals: empty, picked: []int{0, 1, 2}, index: 0},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			f, err := New(tt.points, tt.normals, knn.New(tt.points))
			if err != nil {
				t.Fatal(err)
			}
			_, err = f.Segment(tt.picked)
			var errIdx *IndexOutOfRangeError
			if !errors.As(err, &errIdx) {
				t.Fatalf("Expected IndexOutOfRangeError, got %v", err)
			}
			if errIdx.Index != tt.index {
				t.Errorf("Expected index %d, got %d", tt.index, errIdx.Index)
			}
		})
	}
}

func TestFloodfill_DegenerateLine(t *testing.T) {
	ps, ns := planeGrid()
	ps = append(ps, ps[gridOrigin])
	ns = append(ns, ns[gridOrigin])
	f, err := New(ps, ns, knn.New(ps))
	if err != nil {
		t.Fatal(err)
	}
	for name, picked := range map[string][]int{
		"SameIndex":    {gridOrigin, gridOrigin, gridSeed},
		"SamePosition": {gridOrigin, len(ps) - 1, gridSeed},
	} {
		picked := picked
		t.Run(name, func(t *testing.T) {
			if _, err := f.Segment(picked); !errors.Is(err, geom.ErrDegenerateLine) {
				t.Errorf("Expected %v, got %v", geom.ErrDegenerateLine, err)
			}
		})
	}
}

func TestFloodfill_ZeroSeedNormal(t *testing.T) {
	ps, ns := planeGrid()
	ns[gridSeed] = mat.Vec3{}
	f, err := New(ps, ns, knn.New(ps))
	if err != nil {
		t.Fatal(err)
	}
	res, err := f.Segment([]int{gridOrigin, gridOnLine, gridSeed})
	if err != nil {
		t.Fatal(err)
	}
	if len(res) != 0 {
		t.Errorf("Expected empty result, got %d points", len(res))
	}
}

type reversedSearcher struct {
	Searcher
}

func (s reversedSearcher) KNearestNeighbors(p mat.Vec3, k int) (int, []int, []float32) {
	n, ids, dists := s.Searcher.KNearestNeighbors(p, k)
	for i, j := 1, n-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
		dists[i], dists[j] = dists[j], dists[i]
	}
	return n, ids, dists
}

type brokenSearcher struct {
	Searcher
}

func (s brokenSearcher) KNearestNeighbors(p mat.Vec3, k int) (int, []int, []float32) {
	n, ids, dists := s.Searcher.KNearestNeighbors(p, k)
	return n + 2, append(ids, -3, 1<<20), append(dists, 0, 0)
}

func TestFloodfill_Deterministic(t *testing.T) {
	ps, ns := planeGrid()
	tree := knn.New(ps)
	picked := []int{gridOrigin, gridOnLine, gridSeed}

	f, err := New(ps, ns, tree)
	if err != nil {
		t.Fatal(err)
	}
	first, err := f.Segment(picked)
	if err != nil {
		t.Fatal(err)
	}
	expected := sorted(first)

	searchers := map[string]Searcher{
		"Repeated": tree,
		"Reversed": reversedSearcher{tree},
		"Broken":   brokenSearcher{tree},
	}
	for name, s := range searchers {
		s := s
		t.Run(name, func(t *testing.T) {
			f, err := New(ps, ns, s)
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < 3; i++ {
				res, err := f.Segment(picked)
				if err != nil {
					t.Fatal(err)
				}
				if got := sorted(res); !reflect.DeepEqual(expected, got) {
					t.Fatalf("Result differs: expected %d points, got %d", len(expected), len(got))
				}
			}
		})
	}
}

func TestNew_InvalidParameter(t *testing.T) {
	ps, ns := planeGrid()
	tree := knn.New(ps)

	testCases := map[string]struct {
		normals pc.Vec3Slice
		opts    []Option
	}{
		"NormalCount":   {normals: ns[1:]},
		"ZeroK":         {normals: ns, opts: []Option{WithK(0)}},
		"NegativeAngle": {normals: ns, opts: []Option{WithAngleTolerance(-0.1)}},
		"NegativeBand":  {normals: ns, opts: []Option{WithBandHalfWidth(-1)}},
	}
	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			if _, err := New(ps, tt.normals, tree, tt.opts...); !errors.Is(err, ErrInvalidParameter) {
				t.Errorf("Expected %v, got %v", ErrInvalidParameter, err)
			}
		})
	}
}
