package main

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc/storage/kdtree"

	"github.com/seqsense/pcdannotator/pcd"
	"github.com/seqsense/pcdannotator/pcd/features/normal"
	"github.com/seqsense/pcdannotator/pcd/storage/knn"
)

type nearestSearcher interface {
	Nearest(p mat.Vec3, maxRange float32) (int, float32)
}

// editor holds the annotated cloud with its search structures and the cloud
// of the current floodfill result.
type editor struct {
	pp       *pcd.Cloud
	ppSub    *pcd.Cloud
	ppRect   rect
	fileName string

	tree   *knn.Tree
	picker nearestSearcher
}

type cloudID int

const (
	cloudMain cloudID = iota
	cloudSub
)

func newEditor() *editor {
	return &editor{}
}

func (e *editor) Reset() {
	e.pp = nil
	e.ppSub = nil
	e.ppRect = rect{}
	e.fileName = ""
	e.tree = nil
	e.picker = nil
	runtime.GC()
}

// SetPointCloud replaces the cloud of id. For the main cloud, search
// structures are rebuilt and normals are estimated unless already present.
func (e *editor) SetPointCloud(ctx context.Context, pp *pcd.Cloud, id cloudID, normalK int, viewpoint *mat.Vec3) error {
	if id == cloudSub {
		e.ppSub = pp
		runtime.GC()
		return nil
	}
	if pp == nil {
		e.Reset()
		return nil
	}
	if err := pp.Validate(); err != nil {
		return err
	}
	if pp.Len() == 0 {
		return errors.New("empty pointcloud")
	}
	min, max, err := pp.MinMax()
	if err != nil {
		return err
	}

	tree := knn.New(pp.Points)
	if !pp.HasNormals() {
		vp := pp.Viewpoint
		if viewpoint != nil {
			vp = *viewpoint
		}
		normals, err := normal.Estimate(ctx, pp.Points, tree, normalK, vp)
		if err != nil {
			return err
		}
		if err := pp.SetNormals(normals); err != nil {
			return err
		}
	}

	e.pp = pp
	e.ppSub = nil
	e.ppRect = rect{min: min, max: max}
	e.tree = tree
	e.picker = kdtree.New(pp.Points)
	runtime.GC()
	return nil
}
