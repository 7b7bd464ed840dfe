package fuselage

import (
	"fmt"
	"sort"
	"strings"
)

// AircraftID names a reference aircraft.
type AircraftID string

const (
	ATR72     AircraftID = "ATR72"
	B747_100B AircraftID = "B747_100B"
	AGILE_DC1 AircraftID = "AGILE_DC1"
)

// referenceTable holds the default parameter set of every reference
// aircraft. Adding an aircraft means adding a row.
var referenceTable = map[AircraftID]Parameters{
	ATR72: {
		Aircraft:            ATR72,
		Pressurized:         true,
		DeckNumber:          1,
		MassReference:       3340.6,
		Roughness:           0.405e-5,
		Length:              27.166,
		NoseLengthRatio:     0.1496,
		CylinderLengthRatio: 0.62,
		NoseFinenessRatio:   1.2,
		CylinderWidth:       2.865,
		CylinderHeight:      2.6514,
		HeightFromGround:    0.66,
		NoseTipOffset:       -0.15 * 2.6514,
		TailTipOffset:       0.8 * (2.6514 / 2),
		NoseCapPercent:      0.075,
		TailCapPercent:      0.020,
		Windshield:          Windshield{Type: WindshieldSingleRound, Width: 2.5, Height: 0.8},
		CylinderShape:       Shape{A: 0.4, RhoUpper: 0.2, RhoLower: 0.3},
		MidNoseShape:        Shape{A: 0.4, RhoUpper: 0.2, RhoLower: 0.3},
		MidTailShape:        Shape{A: 0.4, RhoUpper: 0.2, RhoLower: 0.3},
	},
	B747_100B: {
		Aircraft:            B747_100B,
		Pressurized:         true,
		DeckNumber:          1,
		MassReference:       32061,
		Roughness:           0.405e-5,
		Length:              68.63,
		NoseLengthRatio:     0.1635,
		CylinderLengthRatio: 0.4964,
		NoseFinenessRatio:   1.521,
		CylinderWidth:       6.5,
		CylinderHeight:      7.1,
		HeightFromGround:    2.1,
		NoseTipOffset:       -0.089 * 7.1,
		TailTipOffset:       0.457 * (7.1 / 2),
		NoseCapPercent:      0.075,
		TailCapPercent:      0.020,
		Windshield:          Windshield{Type: WindshieldSingleRound, Width: 2.6, Height: 0.5},
		CylinderShape:       Shape{A: 0.4, RhoUpper: 0.2, RhoLower: 0.3},
		MidNoseShape:        Shape{A: 0.4, RhoUpper: 0.2, RhoLower: 0.3},
		MidTailShape:        Shape{A: 0.4, RhoUpper: 0.2, RhoLower: 0.3},
	},
	AGILE_DC1: {
		Aircraft:            AGILE_DC1,
		Pressurized:         true,
		DeckNumber:          1,
		MassReference:       6106,
		Roughness:           0.405e-5,
		Length:              34,
		NoseLengthRatio:     0.1420,
		CylinderLengthRatio: 0.6148,
		NoseFinenessRatio:   1.4,
		CylinderWidth:       3.0,
		CylinderHeight:      3.0,
		HeightFromGround:    4.25,
		NoseTipOffset:       -0.1698 * 3.0,
		TailTipOffset:       0.262 * (3.0 / 2),
		NoseCapPercent:      0.075,
		TailCapPercent:      0.020,
		Windshield:          Windshield{Type: WindshieldSingleRound, Width: 3.0, Height: 0.5},
		CylinderShape:       Shape{A: 0.4, RhoUpper: 0.1, RhoLower: 0.1},
		MidNoseShape:        Shape{A: 0.4, RhoUpper: 0.1, RhoLower: 0.1},
		MidTailShape:        Shape{A: 0.4, RhoUpper: 0.1, RhoLower: 0.1},
	},
}

// ReferenceAircraft returns the default parameters of a reference
// aircraft, with default discretization and the Stanford wetted-area
// method. The lookup is case-insensitive.
func ReferenceAircraft(id AircraftID) (Parameters, error) {
	for k, p := range referenceTable {
		if strings.EqualFold(string(k), string(id)) {
			p.ID = string(k)
			p.Points = DefaultDiscretization
			p.WetAreaMethod = Stanford
			return p, nil
		}
	}
	return Parameters{}, fmt.Errorf("%w: unknown reference aircraft %q", ErrInvalidParameter, id)
}

// ReferenceAircraftIDs lists the table keys in sorted order.
func ReferenceAircraftIDs() []AircraftID {
	ids := make([]AircraftID, 0, len(referenceTable))
	for k := range referenceTable {
		ids = append(ids, k)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
