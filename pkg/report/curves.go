package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/chazu/airframe/pkg/curve"
	"github.com/chazu/airframe/pkg/fuselage"
)

// Curve is a named polyline in one of the three views. Points are (x, z)
// in the side view, (x, y) in the top view and (y, z) for sections.
type Curve struct {
	Name   string       `json:"name"`
	X      float64      `json:"x,omitempty"` // station position of a section
	Points [][2]float64 `json:"points"`
}

// Curves is the discretized outer mold line of one fuselage, the data a
// plotting or CAD tool needs to draw it.
type Curves struct {
	ID       string  `json:"id"`
	Side     []Curve `json:"side"`
	Top      []Curve `json:"top"`
	Sections []Curve `json:"sections"`
}

// CurvesFromGeometry collects the side and top views and the eight
// station sections. The height of the maximum-width line joins the side
// view as "side line" once the stations have filled it.
func CurvesFromGeometry(g *fuselage.Geometry) *Curves {
	o := g.Outlines
	c := &Curves{
		ID: g.Params.ID,
		Side: []Curve{
			{Name: "upper", Points: points(o.Upper)},
			{Name: "lower", Points: points(o.Lower)},
			{Name: "camber", Points: points(o.Camber)},
		},
		Top: []Curve{
			{Name: "right", Points: points(o.SideRight)},
			{Name: "left", Points: points(o.SideLeft)},
		},
	}
	if len(o.SideRightZ) == len(o.SideRight) {
		zs := make([][2]float64, len(o.SideRight))
		for i, v := range o.SideRight {
			zs[i] = [2]float64{v.X, o.SideRightZ[i]}
		}
		c.Side = append(c.Side, Curve{Name: "side line", Points: zs})
	}
	for i := 0; i < g.Stations.Len(); i++ {
		s := fuselage.StationIndex(i)
		c.Sections = append(c.Sections, Curve{
			Name:   s.String(),
			X:      g.Stations.X[i],
			Points: points(g.Stations.Station(s).Outline()),
		})
	}
	return c
}

func points(p curve.Polyline) [][2]float64 {
	out := make([][2]float64, len(p))
	for i, v := range p {
		out[i] = [2]float64{v.X, v.Y}
	}
	return out
}

// WriteJSON writes the curves as indented JSON.
func (c *Curves) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// WriteText writes every curve as a block of "a b" lines headed by a
// comment and separated by blank lines, the layout gnuplot reads as
// separate data sets.
func (c *Curves) WriteText(w io.Writer) error {
	groups := []struct {
		view   string
		curves []Curve
	}{
		{"side", c.Side},
		{"top", c.Top},
		{"section", c.Sections},
	}
	for _, g := range groups {
		for _, cv := range g.curves {
			if _, err := fmt.Fprintf(w, "# %s %s %s\n", c.ID, g.view, cv.Name); err != nil {
				return err
			}
			for _, p := range cv.Points {
				if _, err := fmt.Fprintf(w, "%.6f %.6f\n", p[0], p[1]); err != nil {
					return err
				}
			}
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
	}
	return nil
}

// Write renders the curves in format "json" or "text".
func (c *Curves) Write(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case "json":
		return c.WriteJSON(w)
	case "text", "":
		return c.WriteText(w)
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, format)
}
