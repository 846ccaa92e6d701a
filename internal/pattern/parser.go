package pattern

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseRule parses a rule expression such as "A(b) + B(a) <-> A(b!1).B(a!1)".
// Accepted arrows are "->" and ">>" (irreversible) and "<->" and "<>"
// (reversible). "0" or "None" denotes an empty side.
func ParseRule(src string) (*RuleExpression, error) {
	p := &parser{src: src}
	reactants, err := p.reaction()
	if err != nil {
		return nil, err
	}
	p.skipSpace()

	var reversible bool
	switch {
	case p.consume("<->"), p.consume("<>"):
		reversible = true
	case p.consume("->"), p.consume(">>"):
	default:
		return nil, p.errorf("expected rule arrow")
	}

	products, err := p.reaction()
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	if reactants.IsEmpty() && products.IsEmpty() {
		return nil, fmt.Errorf("invalid rule %q: both sides are empty", src)
	}
	return &RuleExpression{Reactants: reactants, Products: products, Reversible: reversible}, nil
}

// MustParseRule is like ParseRule but panics on error.
func MustParseRule(src string) *RuleExpression {
	r, err := ParseRule(src)
	if err != nil {
		panic(err)
	}
	return r
}

// ParseReaction parses one side of a rule, e.g. "A(b) + B(a)".
func ParseReaction(src string) (ReactionPattern, error) {
	p := &parser{src: src}
	r, err := p.reaction()
	if err != nil {
		return ReactionPattern{}, err
	}
	return r, p.end()
}

// ParseComplex parses a single complex pattern, e.g. "A(b!1).B(a!1)@cyto".
func ParseComplex(src string) (ComplexPattern, error) {
	p := &parser{src: src}
	c, err := p.complex()
	if err != nil {
		return ComplexPattern{}, err
	}
	return c, p.end()
}

// MustParseComplex is like ParseComplex but panics on error.
func MustParseComplex(src string) ComplexPattern {
	c, err := ParseComplex(src)
	if err != nil {
		panic(err)
	}
	return c
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("invalid pattern %q at offset %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) consume(tok string) bool {
	p.skipSpace()
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *parser) end() error {
	p.skipSpace()
	if p.pos != len(p.src) {
		return p.errorf("unexpected %q", p.src[p.pos:])
	}
	return nil
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// word reads a run of identifier characters. When ident is set the first
// character must not be a digit.
func (p *parser) word(ident bool, what string) (string, error) {
	p.skipSpace()
	start := p.pos
	if p.pos < len(p.src) && ident && !isIdentStart(p.src[p.pos]) {
		return "", p.errorf("expected %s", what)
	}
	for p.pos < len(p.src) && isIdentChar(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", p.errorf("expected %s", what)
	}
	return p.src[start:p.pos], nil
}

func (p *parser) reaction() (ReactionPattern, error) {
	p.skipSpace()
	rest := p.src[p.pos:]
	for _, empty := range []string{"None", "0"} {
		if strings.HasPrefix(rest, empty) && (len(rest) == len(empty) || !isIdentChar(rest[len(empty)])) {
			p.pos += len(empty)
			return ReactionPattern{}, nil
		}
	}

	var r ReactionPattern
	for {
		c, err := p.complex()
		if err != nil {
			return ReactionPattern{}, err
		}
		r.Complexes = append(r.Complexes, c)
		if !p.consume("+") {
			return r, nil
		}
	}
}

func (p *parser) complex() (ComplexPattern, error) {
	var c ComplexPattern
	if p.consume("@") {
		comp, err := p.word(true, "compartment name")
		if err != nil {
			return c, err
		}
		if !p.consume(":") {
			return c, p.errorf("expected ':' after compartment prefix")
		}
		c.Compartment = comp
	}
	for {
		m, err := p.monomer()
		if err != nil {
			return c, err
		}
		c.Monomers = append(c.Monomers, m)
		if !p.consume(".") {
			return c, nil
		}
	}
}

func (p *parser) monomer() (MonomerPattern, error) {
	name, err := p.word(true, "building block name")
	if err != nil {
		return MonomerPattern{}, err
	}
	m := MonomerPattern{Monomer: name}

	if p.consume("(") {
		if !p.consume(")") {
			for {
				s, err := p.site()
				if err != nil {
					return m, err
				}
				if _, dup := m.Site(s.Name); dup {
					return m, p.errorf("site %q listed twice on %s", s.Name, name)
				}
				m.Sites = append(m.Sites, s)
				if p.consume(")") {
					break
				}
				if !p.consume(",") {
					return m, p.errorf("expected ',' or ')'")
				}
			}
		}
	}

	if p.consume("@") {
		comp, err := p.word(true, "compartment name")
		if err != nil {
			return m, err
		}
		m.Compartment = comp
	}
	return m, nil
}

func (p *parser) site() (Site, error) {
	name, err := p.word(true, "site name")
	if err != nil {
		return Site{}, err
	}
	s := Site{Name: name}

	if p.consume("~") {
		state, err := p.word(false, "site state")
		if err != nil {
			return s, err
		}
		s.State = state
	}

	if p.consume("!") {
		p.skipSpace()
		switch p.peek() {
		case '+':
			p.pos++
			s.Bond = Bond{Kind: BondAny}
		case '?':
			p.pos++
			s.Bond = Bond{Kind: BondWild}
		default:
			start := p.pos
			for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
				p.pos++
			}
			n, err := strconv.Atoi(p.src[start:p.pos])
			if err != nil {
				return s, p.errorf("expected bond number, '+' or '?'")
			}
			s.Bond = Bond{Kind: BondNumbered, Num: n}
		}
	}
	return s, nil
}
