package smiles

// BondOrder is the multiplicity of a bond.
type BondOrder uint8

const (
	// BondUnspecified is an implicit bond: single, or aromatic between two
	// aromatic atoms.  See Molecule.EffectiveOrder.
	BondUnspecified BondOrder = iota
	BondSingle
	BondDouble
	BondTriple
	BondQuadruple
	BondAromatic
)

func (o BondOrder) String() string {
	switch o {
	case BondUnspecified:
		return "unspecified"
	case BondSingle:
		return "single"
	case BondDouble:
		return "double"
	case BondTriple:
		return "triple"
	case BondQuadruple:
		return "quadruple"
	case BondAromatic:
		return "aromatic"
	}
	return "invalid"
}

// MarshalText encodes the order by name.
func (o BondOrder) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

// BondDirection is the cis/trans marker written as `/` or `\`.
type BondDirection uint8

const (
	DirectionNone BondDirection = iota
	DirectionUp
	DirectionDown
)

func (d BondDirection) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	}
	return "none"
}

// MarshalText encodes the direction by name.
func (d BondDirection) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// BondSymbol is the explicit symbol written before an atom or ring label.
// The zero value means no symbol was written.
type BondSymbol byte

const NoBond BondSymbol = 0

// isBondSymbol reports whether c is one of - = # $ : / \.
func isBondSymbol(c byte) bool {
	switch c {
	case '-', '=', '#', '$', ':', '/', '\\':
		return true
	}
	return false
}

// Order maps the symbol to a bond order.  Direction symbols and NoBond leave
// the order unspecified.
func (b BondSymbol) Order() BondOrder {
	switch b {
	case '-':
		return BondSingle
	case '=':
		return BondDouble
	case '#':
		return BondTriple
	case '$':
		return BondQuadruple
	case ':':
		return BondAromatic
	}
	return BondUnspecified
}

// Direction maps `/` and `\` to their stereo marker.
func (b BondSymbol) Direction() BondDirection {
	switch b {
	case '/':
		return DirectionUp
	case '\\':
		return DirectionDown
	}
	return DirectionNone
}

func (b BondSymbol) String() string {
	if b == NoBond {
		return ""
	}
	return string(rune(b))
}

// Bond joins two atoms by index.  It is undirected for order purposes; From is
// the atom that was current when the bond was written.
type Bond struct {
	From      int           `json:"from"`
	To        int           `json:"to"`
	Order     BondOrder     `json:"order"`
	Direction BondDirection `json:"direction"`
	// Ring marks bonds produced by a ring-closure label.
	Ring bool `json:"ring,omitempty"`
}

// Other returns the atom at the opposite end from i.
func (b Bond) Other(i int) int {
	if b.From == i {
		return b.To
	}
	return b.From
}

// parseBondSymbol consumes one optional bond symbol.  Two symbols in a row are
// rejected here so the caller sees a precise offset.
func (s *scanner) parseBondSymbol() (BondSymbol, error) {
	c := s.peek()
	if !isBondSymbol(c) {
		return NoBond, nil
	}
	s.pos++
	if isBondSymbol(s.peek()) {
		return NoBond, s.errorf(KindSyntax, s.pos, "atom or ring-closure label", "consecutive bond symbols")
	}
	return BondSymbol(c), nil
}
