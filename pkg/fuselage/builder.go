package fuselage

// Builder assembles Parameters from a reference row plus overrides.
// Setters chain; the first lookup error is kept and reported by Build.
type Builder struct {
	p   Parameters
	err error
}

// NewBuilder seeds a builder from the named reference aircraft.
func NewBuilder(id string, aircraft AircraftID) *Builder {
	p, err := ReferenceAircraft(aircraft)
	if id != "" {
		p.ID = id
	}
	return &Builder{p: p, err: err}
}

// FromParameters starts a builder from an existing parameter set.
func FromParameters(p Parameters) *Builder {
	return &Builder{p: p}
}

func (b *Builder) Length(v float64) *Builder              { b.p.Length = v; return b }
func (b *Builder) NoseLengthRatio(v float64) *Builder     { b.p.NoseLengthRatio = v; return b }
func (b *Builder) CylinderLengthRatio(v float64) *Builder { b.p.CylinderLengthRatio = v; return b }
func (b *Builder) NoseFinenessRatio(v float64) *Builder   { b.p.NoseFinenessRatio = v; return b }
func (b *Builder) CylinderWidth(v float64) *Builder       { b.p.CylinderWidth = v; return b }
func (b *Builder) CylinderHeight(v float64) *Builder      { b.p.CylinderHeight = v; return b }
func (b *Builder) HeightFromGround(v float64) *Builder    { b.p.HeightFromGround = v; return b }
func (b *Builder) NoseTipOffset(v float64) *Builder       { b.p.NoseTipOffset = v; return b }
func (b *Builder) TailTipOffset(v float64) *Builder       { b.p.TailTipOffset = v; return b }
func (b *Builder) NoseCapPercent(v float64) *Builder      { b.p.NoseCapPercent = v; return b }
func (b *Builder) TailCapPercent(v float64) *Builder      { b.p.TailCapPercent = v; return b }
func (b *Builder) Pressurized(v bool) *Builder            { b.p.Pressurized = v; return b }
func (b *Builder) DeckNumber(v int) *Builder              { b.p.DeckNumber = v; return b }
func (b *Builder) MassReference(v float64) *Builder       { b.p.MassReference = v; return b }
func (b *Builder) Roughness(v float64) *Builder           { b.p.Roughness = v; return b }
func (b *Builder) Windshield(w Windshield) *Builder       { b.p.Windshield = w; return b }
func (b *Builder) CylinderShape(s Shape) *Builder         { b.p.CylinderShape = s; return b }
func (b *Builder) MidNoseShape(s Shape) *Builder          { b.p.MidNoseShape = s; return b }
func (b *Builder) MidTailShape(s Shape) *Builder          { b.p.MidTailShape = s; return b }
func (b *Builder) WetAreaMethod(m WetAreaMethod) *Builder { b.p.WetAreaMethod = m.canonical(); return b }
func (b *Builder) Points(d Discretization) *Builder       { b.p.Points = d; return b }

// Build validates and returns the parameters.
func (b *Builder) Build() (Parameters, error) {
	if b.err != nil {
		return Parameters{}, b.err
	}
	b.p.normalize()
	if b.p.Points == (Discretization{}) {
		b.p.Points = DefaultDiscretization
	}
	if err := b.p.Validate(); err != nil {
		return Parameters{}, err
	}
	return b.p, nil
}
