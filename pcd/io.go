package pcd

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/edaniels/lidario"
	"github.com/pkg/errors"
	"github.com/seqsense/pcgol/mat"
	"github.com/seqsense/pcgol/pc"
	"go.uber.org/multierr"
)

// ErrUnsupportedFormat is returned for files which are neither PCD nor LAS.
var ErrUnsupportedFormat = errors.New("unsupported point cloud format")

// Load reads a point cloud file. The format is chosen by extension.
func Load(path string) (*Cloud, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pcd":
		return loadPCD(path)
	case ".las":
		return loadLAS(path)
	default:
		return nil, errors.Wrap(ErrUnsupportedFormat, path)
	}
}

// Save writes the cloud as a binary PCD file.
func Save(path string, c *Cloud) (err error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".pcd" {
		return errors.Wrap(ErrUnsupportedFormat, path)
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.WithStack(err)
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))
	w := bufio.NewWriter(f)
	if err := Encode(w, c); err != nil {
		return err
	}
	return errors.WithStack(w.Flush())
}

func loadPCD(path string) (_ *Cloud, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))
	return Decode(bufio.NewReader(f))
}

// Decode reads a PCD stream.
func Decode(r io.Reader) (*Cloud, error) {
	pp, err := pc.Unmarshal(r)
	if err != nil {
		return nil, errors.Wrap(err, "decoding pcd")
	}
	return FromPointCloud(pp)
}

// Encode writes the cloud as PCD with x, y, z and rgb fields.
func Encode(w io.Writer, c *Cloud) error {
	pp, err := ToPointCloud(c)
	if err != nil {
		return err
	}
	return errors.Wrap(pc.Marshal(pp, w), "encoding pcd")
}

// FromPointCloud copies positions and colors out of a decoded PCD.
// A missing rgb field leaves Colors nil.
func FromPointCloud(pp *pc.PointCloud) (*Cloud, error) {
	it, err := pp.Vec3Iterator()
	if err != nil {
		return nil, errors.Wrap(err, "reading positions")
	}
	c := &Cloud{
		Points: make(pc.Vec3Slice, pp.Points),
	}
	for i := range c.Points {
		c.Points[i] = it.Vec3At(i)
	}
	if len(pp.Viewpoint) >= 3 {
		c.Viewpoint = mat.Vec3{pp.Viewpoint[0], pp.Viewpoint[1], pp.Viewpoint[2]}
	}
	for _, field := range []string{"rgb", "rgba"} {
		iC, err := pp.Uint32Iterator(field)
		if err != nil {
			continue
		}
		c.Colors = make([]uint32, pp.Points)
		for i := range c.Colors {
			c.Colors[i] = iC.Uint32() & 0xFFFFFF
			iC.Incr()
		}
		break
	}
	return c, nil
}

// ToPointCloud builds a PCD point cloud with x, y, z and rgb fields.
func ToPointCloud(c *Cloud) (*pc.PointCloud, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	n := c.Len()
	pp := &pc.PointCloud{
		PointCloudHeader: pc.PointCloudHeader{
			Version:   0.7,
			Fields:    []string{"x", "y", "z", "rgb"},
			Size:      []int{4, 4, 4, 4},
			Type:      []string{"F", "F", "F", "U"},
			Count:     []int{1, 1, 1, 1},
			Viewpoint: []float32{c.Viewpoint[0], c.Viewpoint[1], c.Viewpoint[2], 1, 0, 0, 0},
			Width:     n,
			Height:    1,
		},
		Points: n,
	}
	pp.Data = make([]byte, n*pp.Stride())
	if n == 0 {
		return pp, nil
	}

	it, err := pp.Vec3Iterator()
	if err != nil {
		return nil, err
	}
	iC, err := pp.Uint32Iterator("rgb")
	if err != nil {
		return nil, err
	}
	for i, p := range c.Points {
		it.SetVec3(p)
		it.Incr()
		if c.Colors != nil {
			iC.SetUint32(c.Colors[i])
		}
		iC.Incr()
	}
	return pp, nil
}

func loadLAS(path string) (_ *Cloud, err error) {
	lf, err := lidario.NewLasFile(path, "r")
	if err != nil {
		return nil, errors.Wrap(err, "opening las")
	}
	defer multierr.AppendInvoke(&err, multierr.Invoke(lf.Close))

	n := lf.Header.NumberPoints
	c := &Cloud{
		Points: make(pc.Vec3Slice, n),
	}
	hasColor := lf.Header.PointFormatID == 2
	if hasColor {
		c.Colors = make([]uint32, n)
	}
	for i := 0; i < n; i++ {
		p, err := lf.LasPoint(i)
		if err != nil {
			return nil, errors.Wrapf(err, "reading las point %d", i)
		}
		data := p.PointData()
		c.Points[i] = mat.Vec3{float32(data.X), float32(data.Y), float32(data.Z)}
		if hasColor && p.RgbData() != nil {
			rgb := p.RgbData()
			c.Colors[i] = PackRGB(uint8(rgb.Red/256), uint8(rgb.Green/256), uint8(rgb.Blue/256))
		}
	}
	return c, nil
}
