// Package segment defines annotated surface segments and their JSON store.
package segment

import (
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// DefaultType is the type of segments created by the annotator.
const DefaultType = "Layout"

// ClassLabel is a surface class.
type ClassLabel string

const (
	Wall    ClassLabel = "Wall"
	Floor   ClassLabel = "Floor"
	Ceiling ClassLabel = "Ceiling"
)

// ClassLabels lists all known labels.
var ClassLabels = []ClassLabel{Wall, Floor, Ceiling}

// ParseClassLabel returns the label matching s, ignoring case.
func ParseClassLabel(s string) (ClassLabel, error) {
	for _, l := range ClassLabels {
		if strings.EqualFold(string(l), s) {
			return l, nil
		}
	}
	return "", errors.Errorf("unknown class label %q", s)
}

// Segment is one annotated surface. Indices refer to points of DataFileName.
type Segment struct {
	ID            int            `json:"id"`
	DataFileName  string         `json:"data_file_name"`
	SegmentName   string         `json:"segment_name"`
	Indices       []int          `json:"indices"`
	Type          string         `json:"type"`
	TypeClass     TypeClass      `json:"type_class"`
	Intersection  int            `json:"intersection"`
	PlaneEquation *PlaneEquation `json:"plane_equation"`
	Vertices      []Vertex       `json:"vertices"`
}

// New returns a segment of the given class. ID is assigned by Store.Append.
func New(dataFileName, name string, label ClassLabel, indices []int) Segment {
	return Segment{
		DataFileName: dataFileName,
		SegmentName:  name,
		Indices:      indices,
		Type:         DefaultType,
		TypeClass:    TypeClass{Label: label, Value: 1},
	}
}

// TypeClass is encoded as a [label, value] pair.
type TypeClass struct {
	Label ClassLabel
	Value int
}

func (t TypeClass) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{t.Label, t.Value})
}

func (t *TypeClass) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return errors.Wrap(err, "type_class")
	}
	if len(raw) != 2 {
		return errors.Errorf("type_class must have 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &t.Label); err != nil {
		return errors.Wrap(err, "type_class label")
	}
	return errors.Wrap(json.Unmarshal(raw[1], &t.Value), "type_class value")
}

// PlaneEquation is the plane Normal.p + Offset = 0, encoded as [[a, b, c], d].
type PlaneEquation struct {
	Normal [3]float64
	Offset float64
}

func (p PlaneEquation) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{p.Normal, p.Offset})
}

func (p *PlaneEquation) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return errors.Wrap(err, "plane_equation")
	}
	if len(raw) != 2 {
		return errors.Errorf("plane_equation must have 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.Normal); err != nil {
		return errors.Wrap(err, "plane_equation coefficients")
	}
	return errors.Wrap(json.Unmarshal(raw[1], &p.Offset), "plane_equation offset")
}

// Vertex is a 3D point encoded as [x, y, z].
type Vertex [3]float64
