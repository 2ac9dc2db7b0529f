// Package pcd holds point clouds prepared for surface annotation: positions,
// colors and normals kept in lockstep by index.
package pcd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"

	"github.com/seqsense/pcdannotator/geom"
)

// Cloud is an ordered set of points. Index i refers to the same point in
// Points, Colors and Normals. Colors and Normals are nil when not available.
type Cloud struct {
	Points    pc.Vec3Slice
	Colors    []uint32
	Normals   pc.Vec3Slice
	Viewpoint mat.Vec3
}

// IndexOutOfRangeError is returned when an index does not address a point.
type IndexOutOfRangeError struct {
	Index, Len int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range (cloud has %d points)", e.Index, e.Len)
}

func (c *Cloud) Len() int {
	return len(c.Points)
}

func (c *Cloud) HasColors() bool {
	return c.Colors != nil
}

func (c *Cloud) HasNormals() bool {
	return c.Normals != nil
}

// Validate checks that all per-point attributes have the same length.
func (c *Cloud) Validate() error {
	if c.Colors != nil && len(c.Colors) != len(c.Points) {
		return errors.Errorf("color count %d does not match point count %d", len(c.Colors), len(c.Points))
	}
	if c.Normals != nil && len(c.Normals) != len(c.Points) {
		return errors.Errorf("normal count %d does not match point count %d", len(c.Normals), len(c.Points))
	}
	return nil
}

// SetNormals stores unit length copies of n. Zero normals stay zero.
func (c *Cloud) SetNormals(n pc.Vec3RandomAccessor) error {
	if n.Len() != len(c.Points) {
		return errors.Errorf("normal count %d does not match point count %d", n.Len(), len(c.Points))
	}
	normals := make(pc.Vec3Slice, n.Len())
	for i := range normals {
		normals[i] = geom.NormalizeOrZero(n.Vec3At(i))
	}
	c.Normals = normals
	return nil
}

// CheckIndex returns IndexOutOfRangeError if i does not address a point.
func (c *Cloud) CheckIndex(i int) error {
	if i < 0 || i >= len(c.Points) {
		return &IndexOutOfRangeError{Index: i, Len: len(c.Points)}
	}
	return nil
}

// Clone returns a deep copy.
func (c *Cloud) Clone() *Cloud {
	out := &Cloud{
		Points:    append(pc.Vec3Slice{}, c.Points...),
		Viewpoint: c.Viewpoint,
	}
	if c.Colors != nil {
		out.Colors = append([]uint32{}, c.Colors...)
	}
	if c.Normals != nil {
		out.Normals = append(pc.Vec3Slice{}, c.Normals...)
	}
	return out
}

// MinMax returns the axis aligned bounding box of the points.
func (c *Cloud) MinMax() (mat.Vec3, mat.Vec3, error) {
	return pc.MinMaxVec3(c.Points)
}
