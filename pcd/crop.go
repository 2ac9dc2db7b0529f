package pcd

import (
	"github.com/seqsense/pcgol/pc"
)

// CropRemove returns a new cloud without the points at the given indices.
// Remaining points keep their relative order. Duplicated indices are
// removed once.
func CropRemove(c *Cloud, indices []int) (*Cloud, error) {
	removed := make([]bool, c.Len())
	for _, i := range indices {
		if err := c.CheckIndex(i); err != nil {
			return nil, err
		}
		removed[i] = true
	}
	return passThrough(c, func(i int) bool { return !removed[i] }), nil
}

// CropReserve returns a new cloud containing only the points at the given
// indices, in the given order.
func CropReserve(c *Cloud, indices []int) (*Cloud, error) {
	for _, i := range indices {
		if err := c.CheckIndex(i); err != nil {
			return nil, err
		}
	}
	out := &Cloud{
		Points:    make(pc.Vec3Slice, len(indices)),
		Viewpoint: c.Viewpoint,
	}
	if c.Colors != nil {
		out.Colors = make([]uint32, len(indices))
	}
	if c.Normals != nil {
		out.Normals = make(pc.Vec3Slice, len(indices))
	}
	for j, i := range indices {
		out.Points[j] = c.Points[i]
		if out.Colors != nil {
			out.Colors[j] = c.Colors[i]
		}
		if out.Normals != nil {
			out.Normals[j] = c.Normals[i]
		}
	}
	return out, nil
}

// Highlight returns a copy of c with the points at the given indices painted
// with rgb. Points of a cloud without colors are painted white first.
func Highlight(c *Cloud, indices []int, rgb uint32) (*Cloud, error) {
	for _, i := range indices {
		if err := c.CheckIndex(i); err != nil {
			return nil, err
		}
	}
	out := c.Clone()
	if out.Colors == nil {
		out.Colors = make([]uint32, out.Len())
		for i := range out.Colors {
			out.Colors[i] = 0xFFFFFF
		}
	}
	for _, i := range indices {
		out.Colors[i] = rgb
	}
	return out, nil
}

// passThrough copies the points accepted by fn, one contiguous run at a time.
func passThrough(c *Cloud, fn func(int) bool) *Cloud {
	n := c.Len()
	out := &Cloud{
		Points:    make(pc.Vec3Slice, 0, n),
		Viewpoint: c.Viewpoint,
	}
	if c.Colors != nil {
		out.Colors = make([]uint32, 0, n)
	}
	if c.Normals != nil {
		out.Normals = make(pc.Vec3Slice, 0, n)
	}
	copyRun := func(is, ie int) {
		out.Points = append(out.Points, c.Points[is:ie]...)
		if c.Colors != nil {
			out.Colors = append(out.Colors, c.Colors[is:ie]...)
		}
		if c.Normals != nil {
			out.Normals = append(out.Normals, c.Normals[is:ie]...)
		}
	}
	is := -1
	for i := 0; i < n; i++ {
		if fn(i) {
			if is < 0 {
				is = i
			}
			continue
		}
		if is >= 0 {
			copyRun(is, i)
			is = -1
		}
	}
	if is >= 0 {
		copyRun(is, n)
	}
	return out
}
