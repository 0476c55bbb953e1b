package smiles

import "fmt"

// ChiralClass enumerates the stereo classes of a bracket atom.
type ChiralClass uint8

const (
	ChiralNone ChiralClass = iota
	// ChiralAnticlockwise is `@`.
	ChiralAnticlockwise
	// ChiralClockwise is `@@`.
	ChiralClockwise
	// ChiralTetrahedral is `@TH1`, `@TH2`.
	ChiralTetrahedral
	// ChiralAllenal is `@AL1`, `@AL2`.
	ChiralAllenal
	// ChiralSquarePlanar is `@SP1` … `@SP3`.
	ChiralSquarePlanar
	// ChiralTrigonalBipyramidal is `@TB1` … `@TB20`.
	ChiralTrigonalBipyramidal
	// ChiralOctahedral is `@OH1` … `@OH30`.
	ChiralOctahedral
)

// chiralClasses maps the two-letter class tag to its class and maximum number.
var chiralClasses = map[string]struct {
	class ChiralClass
	max   int
}{
	"TH": {ChiralTetrahedral, 2},
	"AL": {ChiralAllenal, 2},
	"SP": {ChiralSquarePlanar, 3},
	"TB": {ChiralTrigonalBipyramidal, 20},
	"OH": {ChiralOctahedral, 30},
}

// Chirality is a chirality tag.  The zero value means unspecified.  Number is
// only meaningful for the extended classes.
type Chirality struct {
	Class  ChiralClass
	Number int
}

// IsSet reports whether a chirality tag was written.
func (c Chirality) IsSet() bool { return c.Class != ChiralNone }

func (c Chirality) String() string {
	switch c.Class {
	case ChiralNone:
		return ""
	case ChiralAnticlockwise:
		return "@"
	case ChiralClockwise:
		return "@@"
	}
	for tag, cs := range chiralClasses {
		if cs.class == c.Class {
			return fmt.Sprintf("@%s%d", tag, c.Number)
		}
	}
	return "?"
}

// MarshalText encodes the tag as written in SMILES.
func (c Chirality) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// parseChirality consumes an optional chirality tag inside a bracket atom.
func (s *scanner) parseChirality() (Chirality, error) {
	if s.peek() != '@' {
		return Chirality{}, nil
	}
	start := s.pos
	s.pos++
	if s.peek() == '@' {
		s.pos++
		return Chirality{Class: ChiralClockwise}, nil
	}
	if s.pos+2 > len(s.input) {
		return Chirality{Class: ChiralAnticlockwise}, nil
	}
	cs, ok := chiralClasses[s.input[s.pos:s.pos+2]]
	if !ok {
		return Chirality{Class: ChiralAnticlockwise}, nil
	}
	s.pos += 2
	digitsAt := s.pos
	n, ok := s.readNumber(2)
	if !ok {
		return Chirality{}, s.errorf(KindSyntax, digitsAt, "chirality class number", "malformed chirality tag %q", s.input[start:s.pos])
	}
	if n < 1 || n > cs.max {
		return Chirality{}, s.errorf(KindSyntax, start, "", "chirality tag %q out of range 1-%d", s.input[start:s.pos], cs.max)
	}
	return Chirality{Class: cs.class, Number: n}, nil
}
