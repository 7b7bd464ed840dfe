package section

import (
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// minFeature is the smallest distance between polygon vertices passed to
// sdf.Polygon2D.
const minFeature = 1e-9

// SDF returns a 2-D signed distance function of the profile outline
// (negative inside). Collapsed profiles have no interior and return an
// error.
func (p *Profile) SDF() (sdf.SDF2, error) {
	if p.Width <= 0 || p.Height <= 0 {
		return nil, fmt.Errorf("section: collapsed profile %gx%g has no interior", p.Width, p.Height)
	}
	pts := p.Outline()
	vertices := make([]v2.Vec, 0, len(pts))
	for _, v := range pts {
		if n := len(vertices); n > 0 && near(vertices[n-1], v) {
			continue
		}
		vertices = append(vertices, v)
	}
	if len(vertices) > 1 && near(vertices[0], vertices[len(vertices)-1]) {
		vertices = vertices[:len(vertices)-1]
	}
	s, err := sdf.Polygon2D(vertices)
	if err != nil {
		return nil, fmt.Errorf("section: polygon: %w", err)
	}
	return s, nil
}

// Contains reports whether point (y, z) lies inside or on the profile.
func (p *Profile) Contains(y, z float64) bool {
	s, err := p.SDF()
	if err != nil {
		return false
	}
	return s.Evaluate(v2.Vec{X: y, Y: z}) <= 0
}

// Bounds returns the bounding box of the outline.
func (p *Profile) Bounds() sdf.Box2 {
	pts := p.Outline()
	if len(pts) == 0 {
		return sdf.Box2{}
	}
	lo, hi := pts[0], pts[0]
	for _, v := range pts[1:] {
		lo = v2.Vec{X: math.Min(lo.X, v.X), Y: math.Min(lo.Y, v.Y)}
		hi = v2.Vec{X: math.Max(hi.X, v.X), Y: math.Max(hi.Y, v.Y)}
	}
	return sdf.Box2{Min: lo, Max: hi}
}

func near(a, b v2.Vec) bool {
	return math.Abs(a.X-b.X) < minFeature && math.Abs(a.Y-b.Y) < minFeature
}
