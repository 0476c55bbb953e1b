package smiles

// maxCharge bounds the magnitude of a bracket-atom charge.
const maxCharge = 15

// Atom is one node of a molecule.  Its identity is its index in
// Molecule.Atoms.
type Atom struct {
	Element  Element `json:"element"`
	Aromatic bool    `json:"aromatic,omitempty"`
	// Isotope is the mass number; nil when not written.
	Isotope   *int      `json:"isotope,omitempty"`
	Chirality Chirality `json:"chirality,omitempty"`
	// HydrogenCount is nil for organic-subset atoms, whose hydrogens follow
	// the default valence rules.  Bracket atoms always carry a count.
	HydrogenCount *int `json:"hydrogen_count,omitempty"`
	Charge        int  `json:"charge,omitempty"`
	AtomClass     *int `json:"atom_class,omitempty"`
	// Bracket records that the atom was written in `[...]` form.
	Bracket bool `json:"bracket,omitempty"`
}

// IsWildcard reports whether the atom is `*`.
func (a Atom) IsWildcard() bool { return a.Element == Wildcard }

// Symbol returns the element symbol as written, lowercase when aromatic.
func (a Atom) Symbol() string {
	sym := a.Element.Symbol()
	if a.Aromatic && len(sym) > 0 && isUpper(sym[0]) {
		return string(sym[0]+('a'-'A')) + sym[1:]
	}
	return sym
}

func isAtomStart(c byte) bool {
	return c == '[' || c == '*' || isUpper(c) || isLower(c)
}

// parseAtom consumes one atom in organic-subset, wildcard or bracket form.
// The caller has checked isAtomStart.
func (s *scanner) parseAtom() (Atom, error) {
	switch c := s.peek(); {
	case c == '[':
		return s.parseBracketAtom()
	case c == '*':
		s.pos++
		return Atom{Element: Wildcard}, nil
	default:
		return s.parseOrganicAtom()
	}
}

func (s *scanner) parseOrganicAtom() (Atom, error) {
	start := s.pos
	c := s.peek()

	if isLower(c) {
		if e, ok := aromaticOrganic[c]; ok {
			s.pos++
			return Atom{Element: e, Aromatic: true}, nil
		}
		if s.pos+2 <= len(s.input) {
			if _, ok := aromaticBracket[s.input[s.pos:s.pos+2]]; ok {
				return Atom{}, s.unknownElement(start, 2, "aromatic %s must be written in brackets", s.input[start:start+2])
			}
		}
		return Atom{}, s.errorf(KindSyntax, start, "atom", "unexpected character %q", c)
	}

	// Two-letter symbols are tried first so that Cl is not read as C.
	if next := s.peekAt(1); (c == 'C' && next == 'l') || (c == 'B' && next == 'r') {
		e, _ := ElementFromSymbol(s.input[s.pos : s.pos+2])
		s.pos += 2
		return Atom{Element: e}, nil
	}
	if e, ok := ElementFromSymbol(string(c)); ok && e.IsOrganic() {
		s.pos++
		return Atom{Element: e}, nil
	}

	if isLower(s.peekAt(1)) {
		if _, ok := ElementFromSymbol(s.input[s.pos : s.pos+2]); ok {
			return Atom{}, s.unknownElement(start, 2, "element %s must be written in brackets", s.input[start:start+2])
		}
	}
	if _, ok := ElementFromSymbol(string(c)); ok {
		return Atom{}, s.unknownElement(start, 1, "element %c is not in the organic subset and must be written in brackets", c)
	}
	return Atom{}, s.unknownElement(start, 1, "unknown element symbol %q", string(c))
}

func (s *scanner) unknownElement(start, width int, format string, args ...interface{}) *ParseError {
	err := s.errorf(KindUnknownElement, start, "", format, args...)
	if start+width <= len(s.input) {
		err.Found = s.input[start : start+width]
	}
	return err
}

// parseBracketAtom reads `[` isotope? symbol chirality? hcount? charge? class? `]`.
func (s *scanner) parseBracketAtom() (Atom, error) {
	open := s.pos
	s.pos++
	atom := Atom{Bracket: true}

	if isDigit(s.peek()) {
		n, _ := s.readNumber(3)
		if isDigit(s.peek()) {
			return Atom{}, s.errorf(KindSyntax, s.pos, "element symbol", "isotope longer than 3 digits")
		}
		atom.Isotope = &n
	}

	if err := s.parseBracketSymbol(&atom); err != nil {
		return Atom{}, err
	}

	chirality, err := s.parseChirality()
	if err != nil {
		return Atom{}, err
	}
	atom.Chirality = chirality

	hcount := 0
	if s.peek() == 'H' {
		s.pos++
		hcount = 1
		if n, ok := s.readNumber(1); ok {
			hcount = n
		}
	}
	atom.HydrogenCount = &hcount

	if atom.Charge, err = s.parseCharge(); err != nil {
		return Atom{}, err
	}

	if s.peek() == ':' {
		s.pos++
		n, ok := s.readNumber(9)
		if !ok {
			return Atom{}, s.errorf(KindSyntax, s.pos, "atom class digits", "empty atom class")
		}
		atom.AtomClass = &n
	}

	switch {
	case s.eof():
		return Atom{}, s.errorf(KindSyntax, s.pos, "']'", "unterminated bracket atom opened at offset %d", open)
	case s.peek() != ']':
		return Atom{}, s.errorf(KindSyntax, s.pos, "']'",
			"unexpected %q in bracket atom; fields must appear as isotope, symbol, chirality, hydrogens, charge, class", s.peek())
	}
	s.pos++
	return atom, nil
}

func (s *scanner) parseBracketSymbol(atom *Atom) error {
	start := s.pos
	c := s.peek()
	switch {
	case c == '*':
		s.pos++
		atom.Element = Wildcard
		return nil

	case isUpper(c):
		if isLower(s.peekAt(1)) {
			if e, ok := ElementFromSymbol(s.input[s.pos : s.pos+2]); ok {
				s.pos += 2
				atom.Element = e
				return nil
			}
		}
		if e, ok := ElementFromSymbol(string(c)); ok {
			s.pos++
			atom.Element = e
			return nil
		}
		width := 1
		if isLower(s.peekAt(1)) {
			width = 2
		}
		return s.unknownElement(start, width, "unknown element symbol %q", s.input[start:start+width])

	case isLower(c):
		if s.pos+2 <= len(s.input) {
			if e, ok := aromaticBracket[s.input[s.pos:s.pos+2]]; ok {
				s.pos += 2
				atom.Element, atom.Aromatic = e, true
				return nil
			}
		}
		if e, ok := aromaticBracket[string(c)]; ok {
			s.pos++
			atom.Element, atom.Aromatic = e, true
			return nil
		}
		return s.unknownElement(start, 1, "%q is not an aromatic element symbol", string(c))

	case s.eof():
		return s.errorf(KindSyntax, start, "element symbol", "unterminated bracket atom")
	}
	return s.errorf(KindSyntax, start, "element symbol", "bracket atom requires an element symbol")
}

// parseCharge reads `+`, `++`, `+n` and the negative forms.
func (s *scanner) parseCharge() (int, error) {
	c := s.peek()
	if c != '+' && c != '-' {
		return 0, nil
	}
	start := s.pos
	sign := 1
	if c == '-' {
		sign = -1
	}
	s.pos++

	magnitude := 1
	if n, ok := s.readNumber(2); ok {
		magnitude = n
	} else {
		for s.peek() == c {
			magnitude++
			s.pos++
		}
	}
	if magnitude > maxCharge {
		return 0, s.errorf(KindSyntax, start, "", "charge %s out of range -%d..+%d", s.input[start:s.pos], maxCharge, maxCharge)
	}
	return sign * magnitude, nil
}
