package outline

import (
	"fmt"

	"github.com/chazu/airframe/pkg/curve"
)

// Query answers height and width lookups along x. Its tables are built
// once from one Outlines version; a new version needs a new Query.
type Query struct {
	version uint64

	upper  *curve.Table
	lower  *curve.Table
	camber *curve.Table
	right  *curve.Table
	left   *curve.Table
}

// NewQuery precomputes the lookup tables for o.
func NewQuery(o *Outlines) (*Query, error) {
	if o == nil {
		return nil, fmt.Errorf("%w: nil outlines", curve.ErrPrecondition)
	}
	q := &Query{version: o.Version}
	for _, tb := range []struct {
		name string
		p    curve.Polyline
		dst  **curve.Table
	}{
		{"upper", o.Upper, &q.upper},
		{"lower", o.Lower, &q.lower},
		{"camber", o.Camber, &q.camber},
		{"side right", o.SideRight, &q.right},
		{"side left", o.SideLeft, &q.left},
	} {
		t, err := curve.TableFrom(tb.p)
		if err != nil {
			return nil, fmt.Errorf("outline %s: %w", tb.name, err)
		}
		*tb.dst = t
	}
	return q, nil
}

// Version is the Outlines version the tables were built from.
func (q *Query) Version() uint64 { return q.version }

// ZUpper is the side-view upper boundary at x.
func (q *Query) ZUpper(x float64) float64 { return q.upper.At(x) }

// ZLower is the side-view lower boundary at x.
func (q *Query) ZLower(x float64) float64 { return q.lower.At(x) }

// ZCamber is the mean of the upper and lower boundaries at x.
func (q *Query) ZCamber(x float64) float64 { return q.camber.At(x) }

// YSideRight is the top-view right half-width at x.
func (q *Query) YSideRight(x float64) float64 { return q.right.At(x) }

// YSideLeft is the top-view left boundary at x (non-positive).
func (q *Query) YSideLeft(x float64) float64 { return q.left.At(x) }

// Domain is the sampled x range of the side view.
func (q *Query) Domain() (lo, hi float64) { return q.upper.Domain() }
