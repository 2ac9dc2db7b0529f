package main

import (
	"context"
	"sync"
	"time"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/seqsense/pcgol/mat"
	"go.uber.org/zap"

	"github.com/seqsense/pcdannotator/pcd"
	"github.com/seqsense/pcdannotator/pcd/segmentation/floodfill"
	"github.com/seqsense/pcdannotator/segment"
)

var (
	errNoPointCloud = errors.New("no pointcloud")
	errNoResult     = errors.New("there are no points to save")
)

type cloudIO interface {
	importCloud(path string) (*pcd.Cloud, error)
	exportCloud(path string, c *pcd.Cloud) error
}

// commandContext is an annotation session over one loaded cloud.
type commandContext struct {
	*editor
	cloudIO cloudIO
	store   *segment.Store
	logger  *zap.SugaredLogger

	selectRange    float32
	highlightColor uint32

	k              int
	angleTolerance float32
	bandHalfWidth  float32

	normalK   int
	viewpoint *mat.Vec3

	picked  []int
	result  []int
	seed    int
	history *resultHistory

	mu       sync.Mutex
	segments []segment.Segment
}

func newCommandContext(cfg config, cio cloudIO, store *segment.Store, logger *zap.SugaredLogger) (*commandContext, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	color, err := pcd.ParseColor(cfg.HighlightColor)
	if err != nil {
		return nil, err
	}
	c := &commandContext{
		editor:         newEditor(),
		cloudIO:        cio,
		store:          store,
		logger:         logger,
		selectRange:    cfg.SelectRange,
		highlightColor: color,
		k:              cfg.Floodfill.K,
		angleTolerance: cfg.Floodfill.AngleTolerance,
		bandHalfWidth:  cfg.Floodfill.BandHalfWidth,
		normalK:        cfg.Normal.K,
		history:        newHistory(defaultMaxHistory),
	}
	if vp, ok := cfg.viewpoint(); ok {
		c.viewpoint = &vp
	}
	return c, nil
}

// Load reads a cloud file and makes it the annotated cloud.
func (c *commandContext) Load(ctx context.Context, path string) error {
	pp, err := c.cloudIO.importCloud(path)
	if err != nil {
		return err
	}
	ts := time.Now()
	if err := c.editor.SetPointCloud(ctx, pp, cloudMain, c.normalK, c.viewpoint); err != nil {
		return errors.Wrapf(err, "loading %s", path)
	}
	c.editor.fileName = path
	c.picked = nil
	c.result = nil
	c.history.reset()
	c.history.push(resultState{})
	c.logger.Infow("pointcloud loaded", "path", path, "points", pp.Len(), "elapsed", time.Since(ts))
	return nil
}

func (c *commandContext) PointCloud() (*pcd.Cloud, bool) {
	return c.editor.pp, c.editor.pp != nil
}

func (c *commandContext) SubPointCloud() (*pcd.Cloud, bool) {
	return c.editor.ppSub, c.editor.ppSub != nil
}

func (c *commandContext) FileName() string {
	return c.editor.fileName
}

func (c *commandContext) SelectRange() float32 {
	return c.selectRange
}

func (c *commandContext) SetSelectRange(r float32) error {
	if r <= 0 {
		return errors.New("select range must be >0")
	}
	c.selectRange = r
	return nil
}

func (c *commandContext) FloodfillParam() (int, float32, float32) {
	return c.k, c.angleTolerance, c.bandHalfWidth
}

func (c *commandContext) SetFloodfillParam(k int, angle, band float32) error {
	if k < 1 || angle < 0 || band < 0 {
		return errors.New("invalid floodfill param (k must be >=1, angle and band must be >=0)")
	}
	c.k, c.angleTolerance, c.bandHalfWidth = k, angle, band
	return nil
}

// Pick selects the cloud point nearest to p within the select range.
func (c *commandContext) Pick(p mat.Vec3) (int, error) {
	if c.editor.pp == nil {
		return -1, errNoPointCloud
	}
	id, ok := c.editor.selectPoint(p, c.selectRange)
	if !ok {
		return -1, errors.Errorf("no point within %v of %v", c.selectRange, p)
	}
	c.picked = append(c.picked, id)
	return id, nil
}

// PickIndex selects the point of index i.
func (c *commandContext) PickIndex(i int) error {
	if c.editor.pp == nil {
		return errNoPointCloud
	}
	if err := c.editor.pp.CheckIndex(i); err != nil {
		return err
	}
	c.picked = append(c.picked, i)
	return nil
}

func (c *commandContext) Picks() []int {
	return c.picked
}

func (c *commandContext) UnsetPicks() {
	c.picked = nil
}

// Floodfill grows a surface from the current picks and keeps it as the
// result. Picks are cleared whether or not it succeeds.
func (c *commandContext) Floodfill() ([]int, error) {
	picked := c.picked
	c.picked = nil
	if c.editor.pp == nil {
		return nil, errNoPointCloud
	}

	ts := time.Now()
	f, err := floodfill.New(
		c.editor.pp.Points, c.editor.pp.Normals, c.editor.tree,
		floodfill.WithK(c.k),
		floodfill.WithAngleTolerance(c.angleTolerance),
		floodfill.WithBandHalfWidth(c.bandHalfWidth),
	)
	if err != nil {
		return nil, err
	}
	res, err := f.Segment(picked)
	if err != nil {
		return nil, err
	}
	if err := c.setResult(c.history.push(resultState{result: res, seed: picked[2]})); err != nil {
		return nil, err
	}
	c.logger.Infow("floodfill finished", "picks", picked, "points", len(res), "elapsed", time.Since(ts))
	return res, nil
}

func (c *commandContext) Result() []int {
	return c.result
}

func (c *commandContext) setResult(s resultState) error {
	if len(s.result) == 0 {
		c.result = nil
		return c.editor.SetPointCloud(context.Background(), nil, cloudSub, c.normalK, nil)
	}
	sub, err := pcd.CropReserve(c.editor.pp, s.result)
	if err != nil {
		return err
	}
	if err := c.editor.SetPointCloud(context.Background(), sub, cloudSub, c.normalK, nil); err != nil {
		return err
	}
	c.result = s.result
	c.seed = s.seed
	return nil
}

// Cancel drops the picks and the current result.
func (c *commandContext) Cancel() {
	c.picked = nil
	if c.result == nil {
		return
	}
	_ = c.setResult(c.history.push(resultState{}))
}

// Undo brings back the result that was current before the last floodfill,
// cancel or save.
func (c *commandContext) Undo() ([]int, bool) {
	if c.editor.pp == nil {
		return nil, false
	}
	s, ok := c.history.undo()
	if !ok {
		return nil, false
	}
	if err := c.setResult(s); err != nil {
		c.logger.Warnw("failed to restore result", "error", err)
		return nil, false
	}
	return c.result, true
}

// Save stores the current result as a segment and drops it.
func (c *commandContext) Save(name string, label segment.ClassLabel) (segment.Segment, error) {
	if len(c.result) == 0 {
		return segment.Segment{}, errNoResult
	}
	seg := segment.New(c.editor.fileName, name, label, append([]int{}, c.result...))

	ps := make([]r3.Vector, len(c.result))
	for i, id := range c.result {
		p := c.editor.pp.Points[id]
		ps[i] = r3.Vector{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
	}
	n := c.editor.pp.Normals[c.seed]
	plane, vertices, err := segment.FitPlane(ps, r3.Vector{X: float64(n[0]), Y: float64(n[1]), Z: float64(n[2])})
	switch {
	case errors.Is(err, segment.ErrTooFewPoints):
		c.logger.Debugw("plane not fitted", "points", len(ps))
	case err != nil:
		return segment.Segment{}, err
	default:
		seg.PlaneEquation = plane
		seg.Vertices = vertices
	}

	seg, err = c.store.Append(seg)
	if err != nil {
		return segment.Segment{}, err
	}
	c.logger.Infow("segment saved", "id", seg.ID, "name", seg.SegmentName, "class", seg.TypeClass.Label, "points", len(seg.Indices))
	c.Cancel()
	if err := c.ReloadSegments(); err != nil {
		return seg, err
	}
	return seg, nil
}

// ReloadSegments refreshes the cached segment list from the store.
func (c *commandContext) ReloadSegments() error {
	segs, err := c.store.List()
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.segments = segs
	c.mu.Unlock()
	return nil
}

func (c *commandContext) Segments() []segment.Segment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]segment.Segment{}, c.segments...)
}

func (c *commandContext) DeleteSegment(id int) error {
	if err := c.store.Delete(id); err != nil {
		return err
	}
	c.logger.Infow("segment deleted", "id", id)
	return c.ReloadSegments()
}

// Highlight returns the source cloud of segment id with its points painted
// in the highlight color.
func (c *commandContext) Highlight(id int) (*pcd.Cloud, error) {
	seg, err := c.store.Get(id)
	if err != nil {
		return nil, err
	}
	src := c.editor.pp
	if src == nil || seg.DataFileName != c.editor.fileName {
		if src, err = c.cloudIO.importCloud(seg.DataFileName); err != nil {
			return nil, err
		}
	}
	return pcd.Highlight(src, seg.Indices, c.highlightColor)
}

// ExportResult writes the cloud of the current result.
func (c *commandContext) ExportResult(path string) error {
	if c.editor.ppSub == nil {
		return errNoResult
	}
	return c.cloudIO.exportCloud(path, c.editor.ppSub)
}

// ExportRest writes the loaded cloud without the points of the current result.
func (c *commandContext) ExportRest(path string) error {
	if c.editor.pp == nil {
		return errNoPointCloud
	}
	rest, err := pcd.CropRemove(c.editor.pp, c.result)
	if err != nil {
		return err
	}
	return c.cloudIO.exportCloud(path, rest)
}
