package main

import (
	"testing"

	"github.com/seqsense/pcgol/mat"
)

func TestRect(t *testing.T) {
	type insideCheck struct {
		p      mat.Vec3
		inside bool
	}

	testCases := map[string]struct {
		r           rect
		valid       bool
		insideCheck map[string]insideCheck
	}{
		"Valid": {
			r:     rect{mat.Vec3{4, 5, 6}, mat.Vec3{5, 6, 7}},
			valid: true,
			insideCheck: map[string]insideCheck{
				"Inside": {
					p:      mat.Vec3{4.5, 5.6, 6.7},
					inside: true,
				},
				"Outside1": {
					p:      mat.Vec3{3.5, 5.6, 6.7},
					inside: false,
				},
				"Outside2": {
					p:      mat.Vec3{5.5, 5.6, 6.7},
					inside: false,
				},
				"Outside3": {
					p:      mat.Vec3{4.5, 6.6, 6.7},
					inside: false,
				},
				"Outside4": {
					p:      mat.Vec3{4.5, 5.6, 7.7},
					inside: false,
				},
			},
		},
		"InValid": {
			r:     rect{mat.Vec3{6, 7, 8}, mat.Vec3{3, 4, 5}},
			valid: false,
			insideCheck: map[string]insideCheck{
				"BetweenRects": {
					p:      mat.Vec3{4, 5, 6},
					inside: false,
				},
				"Outside": {
					p:      mat.Vec3{10, 10, 10},
					inside: false,
				},
			},
		},
	}

	for name, tt := range testCases {
		tt := tt
		t.Run(name, func(t *testing.T) {
			ok := tt.r.IsValid()
			if ok != tt.valid {
				if tt.valid {
					t.Error("Expected to be valid")
				} else {
					t.Error("Expected to be invalid")
				}
			}
			for name, ic := range tt.insideCheck {
				ic := ic
				t.Run(name, func(t *testing.T) {
					inside := tt.r.IsInside(ic.p)
					if inside != ic.inside {
						if ic.inside {
							t.Errorf("%v is expected to be inside", ic.p)
						} else {
							t.Errorf("%v is expected to be outside", ic.p)
						}
					}
				})
			}
		})
	}
}

func TestRect_Padded(t *testing.T) {
	r := rect{mat.Vec3{1, 2, 3}, mat.Vec3{4, 5, 6}}
	p := r.Padded(0.5)
	if !p.min.Equal(mat.Vec3{0.5, 1.5, 2.5}) || !p.max.Equal(mat.Vec3{4.5, 5.5, 6.5}) {
		t.Errorf("Unexpected padded rect: %v", p)
	}
	if !r.min.Equal(mat.Vec3{1, 2, 3}) {
		t.Error("Original rect must not be modified")
	}
	if !p.IsInside(mat.Vec3{0.6, 5.4, 3}) {
		t.Error("Point within padding must be inside")
	}
}
