// Package units parses unit strings such as "1/min", "nM" or "L/(mol*h)"
// into dimension vectors so the registry can check them for consistency.
//
// Only dimensions are tracked (time, amount, volume, mass); scale factors are
// kept for display but never used for conversion.
package units

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Dim is a dimension vector of base exponents.
type Dim struct {
	Time   int
	Amount int
	Volume int
	Mass   int
}

// Dimensionless is the zero dimension.
var Dimensionless = Dim{}

// Add returns the product dimension.
func (d Dim) Add(o Dim) Dim {
	return Dim{Time: d.Time + o.Time, Amount: d.Amount + o.Amount, Volume: d.Volume + o.Volume, Mass: d.Mass + o.Mass}
}

// Scale raises the dimension to an integer power.
func (d Dim) Scale(n int) Dim {
	return Dim{Time: d.Time * n, Amount: d.Amount * n, Volume: d.Volume * n, Mass: d.Mass * n}
}

// IsDimensionless reports whether all exponents are zero.
func (d Dim) IsDimensionless() bool {
	return d == Dimensionless
}

func (d Dim) String() string {
	if d.IsDimensionless() {
		return "dimensionless"
	}
	var parts []string
	for _, p := range []struct {
		sym string
		exp int
	}{{"time", d.Time}, {"amount", d.Amount}, {"volume", d.Volume}, {"mass", d.Mass}} {
		switch {
		case p.exp == 0:
		case p.exp == 1:
			parts = append(parts, p.sym)
		default:
			parts = append(parts, p.sym+"^"+strconv.Itoa(p.exp))
		}
	}
	return strings.Join(parts, "*")
}

var (
	timeDim   = Dim{Time: 1}
	amountDim = Dim{Amount: 1}
	volumeDim = Dim{Volume: 1}
	massDim   = Dim{Mass: 1}
	concDim   = Dim{Amount: 1, Volume: -1}
)

type symbol struct {
	dim   Dim
	scale float64
}

// symbols lists the recognised unit symbols.
var symbols = map[string]symbol{
	"s": {timeDim, 1}, "sec": {timeDim, 1}, "second": {timeDim, 1}, "seconds": {timeDim, 1},
	"min": {timeDim, 60}, "minute": {timeDim, 60}, "minutes": {timeDim, 60},
	"h": {timeDim, 3600}, "hr": {timeDim, 3600}, "hour": {timeDim, 3600}, "hours": {timeDim, 3600},
	"day": {timeDim, 86400}, "days": {timeDim, 86400}, "week": {timeDim, 604800}, "weeks": {timeDim, 604800},

	"mol": {amountDim, 1}, "mmol": {amountDim, 1e-3}, "umol": {amountDim, 1e-6}, "µmol": {amountDim, 1e-6},
	"nmol": {amountDim, 1e-9}, "pmol": {amountDim, 1e-12}, "fmol": {amountDim, 1e-15},
	"molecule": {amountDim, 1.0 / 6.02214076e23}, "molecules": {amountDim, 1.0 / 6.02214076e23},

	"L": {volumeDim, 1}, "l": {volumeDim, 1}, "dL": {volumeDim, 1e-1}, "mL": {volumeDim, 1e-3}, "ml": {volumeDim, 1e-3},
	"uL": {volumeDim, 1e-6}, "µL": {volumeDim, 1e-6}, "nL": {volumeDim, 1e-9}, "pL": {volumeDim, 1e-12}, "fL": {volumeDim, 1e-15},

	"g": {massDim, 1}, "kg": {massDim, 1e3}, "mg": {massDim, 1e-3}, "ug": {massDim, 1e-6}, "µg": {massDim, 1e-6},
	"ng": {massDim, 1e-9}, "pg": {massDim, 1e-12},

	"M": {concDim, 1}, "mM": {concDim, 1e-3}, "uM": {concDim, 1e-6}, "µM": {concDim, 1e-6},
	"nM": {concDim, 1e-9}, "pM": {concDim, 1e-12}, "fM": {concDim, 1e-15},

	"dimensionless": {Dimensionless, 1},
}

// Known returns the sorted list of recognised unit symbols.
func Known() []string {
	out := make([]string, 0, len(symbols))
	for k := range symbols {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Unit is a parsed unit expression.
type Unit struct {
	Source string
	Dim    Dim
	Scale  float64
}

// Parse parses a unit expression. Products use "*", quotients "/", powers "^"
// (or "**"), and "1" is the dimensionless unit: "1/(nM*min)", "mg/L", "h^-1".
func Parse(src string) (Unit, error) {
	p := &unitParser{src: src, toks: tokenize(src)}
	if len(p.toks) == 0 {
		return Unit{}, fmt.Errorf("empty unit")
	}
	dim, scale, err := p.expr()
	if err != nil {
		return Unit{}, fmt.Errorf("invalid unit %q: %w", src, err)
	}
	if p.pos != len(p.toks) {
		return Unit{}, fmt.Errorf("invalid unit %q: unexpected %q", src, p.toks[p.pos])
	}
	return Unit{Source: src, Dim: dim, Scale: scale}, nil
}

func tokenize(src string) []string {
	var toks []string
	runes := []rune(src)
	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case r == ' ' || r == '\t':
			i++
		case r == '*' && i+1 < len(runes) && runes[i+1] == '*':
			toks = append(toks, "^")
			i += 2
		case strings.ContainsRune("*/^()-", r):
			toks = append(toks, string(r))
			i++
		default:
			start := i
			for i < len(runes) && !strings.ContainsRune("*/^()- \t", runes[i]) {
				i++
			}
			toks = append(toks, string(runes[start:i]))
		}
	}
	return toks
}

type unitParser struct {
	src  string
	toks []string
	pos  int
}

func (p *unitParser) next() string {
	if p.pos >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos]
}

func (p *unitParser) expr() (Dim, float64, error) {
	dim, scale, err := p.term()
	if err != nil {
		return Dim{}, 0, err
	}
	for {
		op := p.next()
		if op != "*" && op != "/" {
			return dim, scale, nil
		}
		p.pos++
		d, s, err := p.term()
		if err != nil {
			return Dim{}, 0, err
		}
		if op == "*" {
			dim, scale = dim.Add(d), scale*s
		} else {
			dim, scale = dim.Add(d.Scale(-1)), scale/s
		}
	}
}

func (p *unitParser) term() (Dim, float64, error) {
	dim, scale, err := p.factor()
	if err != nil {
		return Dim{}, 0, err
	}
	if p.next() != "^" {
		return dim, scale, nil
	}
	p.pos++
	sign := 1
	if p.next() == "-" {
		sign = -1
		p.pos++
	}
	n, err := strconv.Atoi(p.next())
	if err != nil {
		return Dim{}, 0, fmt.Errorf("expected integer exponent, got %q", p.next())
	}
	p.pos++
	n *= sign
	factor := 1.0
	for i := 0; i < abs(n); i++ {
		factor *= scale
	}
	if n < 0 {
		factor = 1 / factor
	}
	return dim.Scale(n), factor, nil
}

func (p *unitParser) factor() (Dim, float64, error) {
	tok := p.next()
	switch tok {
	case "":
		return Dim{}, 0, fmt.Errorf("unexpected end of unit")
	case "(":
		p.pos++
		dim, scale, err := p.expr()
		if err != nil {
			return Dim{}, 0, err
		}
		if p.next() != ")" {
			return Dim{}, 0, fmt.Errorf("missing ')'")
		}
		p.pos++
		return dim, scale, nil
	case "1":
		p.pos++
		return Dimensionless, 1, nil
	}
	sym, ok := symbols[tok]
	if !ok {
		return Dim{}, 0, fmt.Errorf("unknown unit symbol %q", tok)
	}
	p.pos++
	return sym.dim, sym.scale, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
