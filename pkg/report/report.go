// Package report turns a computed fuselage into labelled records and
// renders them as JSON or aligned text.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/chazu/airframe/pkg/fuselage"
)

// ErrUnknownFormat is returned for an output format other than json or text.
var ErrUnknownFormat = errors.New("unknown output format")

// ContentType returns the MIME type of an output format. An empty format
// means text.
func ContentType(format string) (string, error) {
	switch strings.ToLower(format) {
	case "json":
		return "application/json", nil
	case "text", "":
		return "text/plain; charset=utf-8", nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, format)
}

// Record is one named output value.
type Record struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Unit  string  `json:"unit,omitempty"`
}

// Warning mirrors fuselage.ValidationWarning.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Station summarises one control cross-section.
type Station struct {
	Name     string  `json:"name"`
	X        float64 `json:"x"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	ZSide    float64 `json:"zSide"`
	A        float64 `json:"a"`
	RhoUpper float64 `json:"rhoUpper"`
	RhoLower float64 `json:"rhoLower"`
}

// Report is the serialisable summary of one computation.
type Report struct {
	ID            string    `json:"id"`
	Aircraft      string    `json:"aircraft,omitempty"`
	WetAreaMethod string    `json:"wetAreaMethod"`
	Records       []Record  `json:"records"`
	Stations      []Station `json:"stations,omitempty"`
	Warnings      []Warning `json:"warnings"`
}

// FromGeometry builds a report from g and its design-rule check.
func FromGeometry(g *fuselage.Geometry, check fuselage.CheckResult) *Report {
	p := g.Params
	d := g.Derived
	r := &Report{
		ID:            p.ID,
		Aircraft:      string(p.Aircraft),
		WetAreaMethod: string(d.WettedArea.Method),
		Warnings:      []Warning{},
	}

	r.Records = []Record{
		{"length", p.Length, "m"},
		{"nose length", g.NoseLength, "m"},
		{"cylinder length", g.CylinderLength, "m"},
		{"tail length", g.TailLength, "m"},
		{"cylinder width", p.CylinderWidth, "m"},
		{"cylinder height", p.CylinderHeight, "m"},
		{"equivalent diameter (GM)", d.DiameterGM, "m"},
		{"equivalent diameter (AM)", d.DiameterAM, "m"},
		{"mean equivalent diameter (GM)", d.DiameterMeanGM, "m"},
		{"fineness ratio", d.FinenessRatio, ""},
		{"nose fineness ratio", d.NoseFineness, ""},
		{"cylinder fineness ratio", d.CylinderFineness, ""},
		{"tail fineness ratio", d.TailFineness, ""},
		{"cylinder frontal area", d.CylinderArea, "m²"},
		{"windshield area", d.WindshieldArea, "m²"},
		{"nose slope angle", d.NoseSlopeAngle, "deg"},
		{"upsweep angle", d.UpsweepAngle, "deg"},
		{"windshield angle", d.WindshieldAngle, "deg"},
	}
	wa := d.WettedArea
	if wa.Method == fuselage.Torenbeek {
		r.Records = append(r.Records, Record{"frontal area", wa.Front, "m²"})
	} else {
		r.Records = append(r.Records,
			Record{"nose wetted area", wa.Nose, "m²"},
			Record{"cylinder wetted area", wa.Cylinder, "m²"},
			Record{"tail wetted area", wa.Tail, "m²"},
		)
	}
	r.Records = append(r.Records,
		Record{"wetted area", wa.Total, "m²"},
		Record{"form factor", d.FormFactor, ""},
	)

	for i := 0; i < g.Stations.Len(); i++ {
		s := fuselage.StationIndex(i)
		prof := g.Stations.Station(s)
		r.Stations = append(r.Stations, Station{
			Name:     s.String(),
			X:        g.Stations.X[i],
			Width:    prof.Width,
			Height:   prof.Height,
			ZSide:    prof.ZSide(),
			A:        prof.A,
			RhoUpper: prof.RhoUpper,
			RhoLower: prof.RhoLower,
		})
	}

	for _, w := range check.Warnings {
		r.Warnings = append(r.Warnings, Warning{Code: w.Code, Message: w.Message})
	}
	return r
}

// Record returns the record with the given name.
func (r *Report) Record(name string) (Record, bool) {
	for _, rec := range r.Records {
		if rec.Name == name {
			return rec, true
		}
	}
	return Record{}, false
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes the records, stations and warnings as aligned columns.
func (r *Report) WriteText(w io.Writer, withStations bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	title := r.ID
	if r.Aircraft != "" && r.Aircraft != r.ID {
		title = fmt.Sprintf("%s (%s)", r.ID, r.Aircraft)
	}
	fmt.Fprintf(tw, "fuselage %s, wetted area method %s\n\n", title, r.WetAreaMethod)
	for _, rec := range r.Records {
		fmt.Fprintf(tw, "%s\t%.4f\t%s\n", rec.Name, rec.Value, rec.Unit)
	}
	if withStations && len(r.Stations) > 0 {
		fmt.Fprintln(tw)
		fmt.Fprintln(tw, "station\tx\twidth\theight\tz side\ta\trho upper\trho lower")
		for _, s := range r.Stations {
			fmt.Fprintf(tw, "%s\t%.4f\t%.4f\t%.4f\t%.4f\t%.3f\t%.3f\t%.3f\n",
				s.Name, s.X, s.Width, s.Height, s.ZSide, s.A, s.RhoUpper, s.RhoLower)
		}
	}
	if len(r.Warnings) > 0 {
		fmt.Fprintln(tw)
		for _, wn := range r.Warnings {
			fmt.Fprintf(tw, "[warning] %s: %s\n", wn.Code, wn.Message)
		}
	}
	return tw.Flush()
}

// Write renders the report in format "json" or "text".
func (r *Report) Write(w io.Writer, format string, withStations bool) error {
	switch strings.ToLower(format) {
	case "json":
		return r.WriteJSON(w)
	case "text", "":
		return r.WriteText(w, withStations)
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, format)
}
