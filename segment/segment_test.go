package segment

import (
	"encoding/json"
	"testing"

	"go.viam.com/test"
)

func TestSegment_JSON(t *testing.T) {
	seg := New("data/room.pcd", "north wall", Wall, []int{3, 1, 2})
	seg.ID = 4
	seg.PlaneEquation = &PlaneEquation{Normal: [3]float64{0, 0, 1}, Offset: -1.5}
	seg.Vertices = []Vertex{{0, 0, 1.5}, {1, 0, 1.5}}

	b, err := json.Marshal(seg)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(b), test.ShouldEqualJSON, `{
		"id": 4,
		"data_file_name": "data/room.pcd",
		"segment_name": "north wall",
		"indices": [3, 1, 2],
		"type": "Layout",
		"type_class": ["Wall", 1],
		"intersection": 0,
		"plane_equation": [[0, 0, 1], -1.5],
		"vertices": [[0, 0, 1.5], [1, 0, 1.5]]
	}`)

	var decoded Segment
	test.That(t, json.Unmarshal(b, &decoded), test.ShouldBeNil)
	test.That(t, decoded, test.ShouldResemble, seg)
}

func TestSegment_JSONOptional(t *testing.T) {
	b, err := json.Marshal(New("a.pcd", "floor", Floor, []int{0}))
	test.That(t, err, test.ShouldBeNil)

	var m map[string]interface{}
	test.That(t, json.Unmarshal(b, &m), test.ShouldBeNil)
	test.That(t, m["plane_equation"], test.ShouldBeNil)
	test.That(t, m["vertices"], test.ShouldBeNil)
	test.That(t, m["type_class"], test.ShouldResemble, []interface{}{"Floor", 1.0})
}

func TestSegment_JSONInvalid(t *testing.T) {
	for name, in := range map[string]string{
		"TypeClassLength": `{"type_class": ["Wall"]}`,
		"TypeClassType":   `{"type_class": "Wall"}`,
		"PlaneLength":     `{"type_class": ["Wall", 1], "plane_equation": [[0, 0, 1]]}`,
		"PlaneOffset":     `{"type_class": ["Wall", 1], "plane_equation": [[0, 0, 1], "a"]}`,
	} {
		in := in
		t.Run(name, func(t *testing.T) {
			var seg Segment
			test.That(t, json.Unmarshal([]byte(in), &seg), test.ShouldNotBeNil)
		})
	}
}

func TestParseClassLabel(t *testing.T) {
	l, err := ParseClassLabel("ceiling")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, l, test.ShouldEqual, Ceiling)

	_, err = ParseClassLabel("door")
	test.That(t, err, test.ShouldNotBeNil)
}
