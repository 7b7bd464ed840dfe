package script

import (
	"fmt"
	"strings"

	"github.com/chazu/airframe/pkg/fuselage"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types
// ---------------------------------------------------------------------------

// sexpFuselage is returned by (fuselage ...) so that later forms can refer
// to it.
type sexpFuselage struct {
	def *Definition
}

func (f *sexpFuselage) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(fuselage %q)", f.def.Params.ID)
}
func (f *sexpFuselage) Type() *zygo.RegisteredType { return nil }

type sexpShape struct {
	shape fuselage.Shape
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(shape :a %g :rho-upper %g :rho-lower %g)", s.shape.A, s.shape.RhoUpper, s.shape.RhoLower)
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

type sexpWindshield struct {
	ws fuselage.Windshield
}

func (w *sexpWindshield) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(windshield :type %s :width %g :height %g)", w.ws.Type, w.ws.Width, w.ws.Height)
}
func (w *sexpWindshield) Type() *zygo.RegisteredType { return nil }

type sexpPoints struct {
	pts fuselage.Discretization
}

func (p *sexpPoints) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(points %+v)", p.pts)
}
func (p *sexpPoints) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		if name, ok := isKW(args[i]); ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				result.kw[name] = zygo.SexpNull
				i++
			}
			continue
		}
		result.positional = append(result.positional, args[i])
		i++
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toInt(s zygo.Sexp) (int, error) {
	if v, ok := s.(*zygo.SexpInt); ok {
		return int(v.Val), nil
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toBool(s zygo.Sexp) (bool, error) {
	if v, ok := s.(*zygo.SexpBool); ok {
		return v.Val, nil
	}
	return false, fmt.Errorf("expected boolean, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString accepts a keyword (:atr72) or a plain string ("ATR72").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	return strings.TrimPrefix(str.S, kwPrefix), nil
}

func toShape(s zygo.Sexp) (fuselage.Shape, error) {
	if v, ok := s.(*sexpShape); ok {
		return v.shape, nil
	}
	return fuselage.Shape{}, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// floatSetters maps numeric keywords of (fuselage ...) to builder setters.
var floatSetters = map[string]func(b *fuselage.Builder, v float64) *fuselage.Builder{
	"length":             (*fuselage.Builder).Length,
	"nose-ratio":         (*fuselage.Builder).NoseLengthRatio,
	"cylinder-ratio":     (*fuselage.Builder).CylinderLengthRatio,
	"nose-fineness":      (*fuselage.Builder).NoseFinenessRatio,
	"width":              (*fuselage.Builder).CylinderWidth,
	"height":             (*fuselage.Builder).CylinderHeight,
	"height-from-ground": (*fuselage.Builder).HeightFromGround,
	"nose-tip-offset":    (*fuselage.Builder).NoseTipOffset,
	"tail-tip-offset":    (*fuselage.Builder).TailTipOffset,
	"nose-cap":           (*fuselage.Builder).NoseCapPercent,
	"tail-cap":           (*fuselage.Builder).TailCapPercent,
	"mass":               (*fuselage.Builder).MassReference,
	"roughness":          (*fuselage.Builder).Roughness,
}

var shapeSetters = map[string]func(b *fuselage.Builder, s fuselage.Shape) *fuselage.Builder{
	"cylinder-shape": (*fuselage.Builder).CylinderShape,
	"mid-nose-shape": (*fuselage.Builder).MidNoseShape,
	"mid-tail-shape": (*fuselage.Builder).MidTailShape,
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the fuselage DSL into env. Defined fuselages are
// appended to res. Source must go through preprocessSource first.
func registerBuiltins(env *zygo.Zlisp, res *Result) {

	// -----------------------------------------------------------------------
	// (shape :a 0.4 :rho-upper 0.2 :rho-lower 0.3)
	// -----------------------------------------------------------------------
	env.AddFunction("shape", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var s fuselage.Shape
		for key, dst := range map[string]*float64{"a": &s.A, "rho-upper": &s.RhoUpper, "rho-lower": &s.RhoLower} {
			if v, ok := pa.kw[key]; ok {
				f, err := toFloat64(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("shape: %s: %w", key, err)
				}
				*dst = f
			}
		}
		return &sexpShape{shape: s}, nil
	})

	// -----------------------------------------------------------------------
	// (windshield :type :single-round :width 2.5 :height 0.8)
	// -----------------------------------------------------------------------
	env.AddFunction("windshield", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var ws fuselage.Windshield
		if v, ok := pa.kw["type"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("windshield: type: %w", err)
			}
			if ws.Type, err = fuselage.ParseWindshieldType(s); err != nil {
				return zygo.SexpNull, fmt.Errorf("windshield: %w", err)
			}
		}
		for key, dst := range map[string]*float64{"width": &ws.Width, "height": &ws.Height} {
			if v, ok := pa.kw[key]; ok {
				f, err := toFloat64(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("windshield: %s: %w", key, err)
				}
				*dst = f
			}
		}
		return &sexpWindshield{ws: ws}, nil
	})

	// -----------------------------------------------------------------------
	// (points :nose 10 :cylinder 4 :tail 10 :section-upper 10 :section-lower 10)
	// -----------------------------------------------------------------------
	env.AddFunction("points", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		d := fuselage.DefaultDiscretization
		for key, dst := range map[string]*int{
			"nose": &d.Nose, "cylinder": &d.Cylinder, "tail": &d.Tail,
			"section-upper": &d.SectionUpper, "section-lower": &d.SectionLower,
		} {
			if v, ok := pa.kw[key]; ok {
				n, err := toInt(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("points: %s: %w", key, err)
				}
				*dst = n
			}
		}
		return &sexpPoints{pts: d}, nil
	})

	// -----------------------------------------------------------------------
	// (fuselage :aircraft :atr72 :id "atr-stretch" :length 30 ...)
	// -----------------------------------------------------------------------
	env.AddFunction("fuselage", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)

		id := ""
		if v, ok := pa.kw["id"]; ok {
			s, err := toString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("fuselage: id: %w", err)
			}
			id = s
		}
		var b *fuselage.Builder
		if v, ok := pa.kw["aircraft"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("fuselage: aircraft: %w", err)
			}
			b = fuselage.NewBuilder(id, fuselage.AircraftID(strings.ReplaceAll(s, "-", "_")))
		} else {
			b = fuselage.FromParameters(fuselage.Parameters{ID: id})
		}

		for key, set := range floatSetters {
			if v, ok := pa.kw[key]; ok {
				f, err := toFloat64(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("fuselage: %s: %w", key, err)
				}
				set(b, f)
			}
		}
		for key, set := range shapeSetters {
			if v, ok := pa.kw[key]; ok {
				s, err := toShape(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("fuselage: %s: %w", key, err)
				}
				set(b, s)
			}
		}
		if v, ok := pa.kw["pressurized"]; ok {
			p, err := toBool(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("fuselage: pressurized: %w", err)
			}
			b.Pressurized(p)
		}
		if v, ok := pa.kw["decks"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("fuselage: decks: %w", err)
			}
			b.DeckNumber(n)
		}
		if v, ok := pa.kw["windshield"]; ok {
			w, ok := v.(*sexpWindshield)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("fuselage: windshield: expected windshield, got %T", v)
			}
			b.Windshield(w.ws)
		}
		if v, ok := pa.kw["points"]; ok {
			p, ok := v.(*sexpPoints)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("fuselage: points: expected points, got %T", v)
			}
			b.Points(p.pts)
		}
		if v, ok := pa.kw["method"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("fuselage: method: %w", err)
			}
			m, err := fuselage.ParseWetAreaMethod(s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("fuselage: %w", err)
			}
			b.WetAreaMethod(m)
		}

		p, err := b.Build()
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fuselage: %w", err)
		}
		if p.ID == "" {
			p.ID = fmt.Sprintf("fuselage-%d", len(res.Fuselages)+1)
		}
		if res.Lookup(p.ID) != nil {
			return zygo.SexpNull, fmt.Errorf("fuselage: duplicate id %q", p.ID)
		}
		def := &Definition{Params: p}
		res.Fuselages = append(res.Fuselages, def)
		return &sexpFuselage{def: def}, nil
	})

	// -----------------------------------------------------------------------
	// (adjust-station [f] :mid-nose :a 0.35 :rho-upper 0.2 :rho-lower 0.3)
	// Without f the most recent fuselage is adjusted.
	// -----------------------------------------------------------------------
	env.AddFunction("adjust_station", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		var def *Definition
		if len(args) > 0 {
			if f, ok := args[0].(*sexpFuselage); ok {
				def = f.def
				args = args[1:]
			}
		}
		if def == nil {
			if len(res.Fuselages) == 0 {
				return zygo.SexpNull, fmt.Errorf("adjust-station: no fuselage defined")
			}
			def = res.Fuselages[len(res.Fuselages)-1]
		}
		if len(args) == 0 {
			return zygo.SexpNull, fmt.Errorf("adjust-station requires a station name")
		}
		// the station keyword stands alone, so take it before pairing the rest
		stationName, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("adjust-station: station: %w", err)
		}
		station, err := fuselage.ParseStation(stationName)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("adjust-station: %w", err)
		}

		pa := parseArgs(args[1:])
		adj := Adjustment{Station: station}
		for _, kv := range []struct {
			key string
			dst *float64
		}{{"a", &adj.A}, {"rho-upper", &adj.RhoUpper}, {"rho-lower", &adj.RhoLower}} {
			key, dst := kv.key, kv.dst
			v, ok := pa.kw[key]
			if !ok {
				return zygo.SexpNull, fmt.Errorf("adjust-station: missing :%s", key)
			}
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("adjust-station: %s: %w", key, err)
			}
			*dst = f
		}
		def.Adjustments = append(def.Adjustments, adj)
		return &sexpFuselage{def: def}, nil
	})

	// -----------------------------------------------------------------------
	// (aircraft-list)
	// -----------------------------------------------------------------------
	env.AddFunction("aircraft_list", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ids := fuselage.ReferenceAircraftIDs()
		out := make([]zygo.Sexp, len(ids))
		for i, id := range ids {
			out[i] = &zygo.SexpStr{S: string(id)}
		}
		return zygo.MakeList(out), nil
	})
}
