package smiles

import (
	"strings"
	"unicode/utf8"
)

// noAtom marks the cursor as empty: before the first atom and after '.'.
const noAtom = -1

// assembler is the per-call state of one parse.  Nothing here outlives Parse.
type assembler struct {
	s        scanner
	mol      *Molecule
	rings    *ringTable
	branches branchStack
	// bonded holds every atom pair already joined, smaller index first.
	bonded  map[[2]int]struct{}
	current int
	// dotAt is the offset of the last '.' while no atom has followed it.
	dotAt int
}

// Parse reads one SMILES string.  On failure the returned error is a
// *ParseError and no partial molecule is returned.
func Parse(input string) (*Molecule, error) {
	a := &assembler{
		s:       scanner{input: input},
		mol:     &Molecule{Atoms: []Atom{}, Bonds: []Bond{}},
		rings:   newRingTable(),
		bonded:  make(map[[2]int]struct{}),
		current: noAtom,
		dotAt:   noAtom,
	}
	if err := a.run(); err != nil {
		return nil, err
	}
	a.mol.Components = connectedComponents(len(a.mol.Atoms), a.mol.Bonds)
	return a.mol, nil
}

// MustParse is like Parse but panics on error.  Intended for tests and
// package-level fixtures.
func MustParse(input string) *Molecule {
	m, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return m
}

func (a *assembler) run() error {
	s := &a.s
	for !s.eof() {
		c := s.peek()
		var err error
		switch {
		case c == '(':
			err = a.openBranch()
		case c == ')':
			err = a.closeBranch()
		case c == '.':
			err = a.disconnect()
		case isBondSymbol(c) || isRingLabelStart(c):
			err = a.bondedToken()
		case isAtomStart(c):
			err = a.addAtom(NoBond)
		default:
			r, width := utf8.DecodeRuneInString(s.input[s.pos:])
			pe := s.errorf(KindSyntax, s.pos, "", "unexpected character %q", r)
			pe.Found = s.input[s.pos : s.pos+width]
			err = pe
		}
		if err != nil {
			return err
		}
	}
	return a.finish()
}

func (a *assembler) openBranch() error {
	s := &a.s
	if a.current == noAtom {
		return s.errorf(KindSyntax, s.pos, "atom", "branch must follow an atom")
	}
	if s.peekAt(1) == '(' {
		return s.errorf(KindSyntax, s.pos+1, "atom or bond symbol", "branch cannot start with another branch")
	}
	a.branches.push(a.current, s.pos, len(a.mol.Atoms))
	s.pos++
	return nil
}

func (a *assembler) closeBranch() error {
	s := &a.s
	if a.dotAt != noAtom {
		return s.errorf(KindSyntax, s.pos, "atom", "'.' at offset %d must be followed by an atom", a.dotAt)
	}
	frame, ok := a.branches.pop()
	if !ok {
		return s.errorf(KindBranch, s.pos, "", "unmatched ')'")
	}
	if len(a.mol.Atoms) == frame.atoms {
		return s.errorf(KindBranch, frame.offset, "", "empty branch")
	}
	a.current = frame.atom
	s.pos++
	return nil
}

func (a *assembler) disconnect() error {
	s := &a.s
	if a.current == noAtom {
		return s.errorf(KindSyntax, s.pos, "atom", "'.' must follow an atom")
	}
	a.current, a.dotAt = noAtom, s.pos
	s.pos++
	return nil
}

// bondedToken handles an optional bond symbol followed by a ring label or an
// atom.
func (a *assembler) bondedToken() error {
	s := &a.s
	if a.current == noAtom {
		if a.dotAt != noAtom {
			return s.errorf(KindDisconnection, s.pos, "atom",
				"'.' at offset %d must be followed by an atom, not a bond or ring-closure label", a.dotAt)
		}
		return s.errorf(KindSyntax, s.pos, "atom", "SMILES must start with an atom")
	}

	symbol, err := s.parseBondSymbol()
	if err != nil {
		return err
	}

	switch next := s.peek(); {
	case isRingLabelStart(next):
		return a.ringClosure(symbol)
	case isAtomStart(next):
		return a.addAtom(symbol)
	case s.eof():
		return s.errorf(KindSyntax, s.pos, "atom or ring-closure label", "bond symbol %q at end of input", symbol.String())
	default:
		return s.errorf(KindSyntax, s.pos, "atom or ring-closure label", "bond symbol %q must be followed by an atom or ring-closure label", symbol.String())
	}
}

func (a *assembler) ringClosure(symbol BondSymbol) error {
	s := &a.s
	at := s.pos
	label, err := s.parseRingLabel()
	if err != nil {
		return err
	}
	bond, closed, err := a.rings.openOrClose(s, label, symbol, a.current, at)
	if err != nil || !closed {
		return err
	}
	if a.isBonded(bond.From, bond.To) {
		return s.errorf(KindRingClosure, at, "", "ring bond %s duplicates an existing bond between atoms %d and %d", labelString(label), bond.From, bond.To)
	}
	a.appendBond(bond)
	return nil
}

func (a *assembler) addAtom(symbol BondSymbol) error {
	atom, err := a.s.parseAtom()
	if err != nil {
		return err
	}
	idx := len(a.mol.Atoms)
	a.mol.Atoms = append(a.mol.Atoms, atom)
	if a.current != noAtom {
		a.appendBond(Bond{
			From:      a.current,
			To:        idx,
			Order:     symbol.Order(),
			Direction: symbol.Direction(),
		})
	}
	a.current, a.dotAt = idx, noAtom
	return nil
}

func (a *assembler) appendBond(b Bond) {
	a.mol.Bonds = append(a.mol.Bonds, b)
	a.bonded[pairKey(b.From, b.To)] = struct{}{}
}

func (a *assembler) isBonded(i, j int) bool {
	_, ok := a.bonded[pairKey(i, j)]
	return ok
}

func pairKey(i, j int) [2]int {
	if i > j {
		i, j = j, i
	}
	return [2]int{i, j}
}

// finish checks the end-of-input conditions.
func (a *assembler) finish() error {
	s := &a.s
	if a.dotAt != noAtom {
		return s.errorf(KindSyntax, s.pos, "atom", "'.' at offset %d must be followed by an atom", a.dotAt)
	}
	if a.branches.depth() > 0 {
		frame := a.branches.outermost()
		return s.errorf(KindBranch, frame.offset, "", "unclosed branch")
	}
	if open := a.rings.unclosed(); len(open) > 0 {
		labels := make([]string, len(open))
		for i, r := range open {
			labels[i] = labelString(r.label)
		}
		return s.errorf(KindRingClosure, open[0].offset, "", "unclosed ring bond %s", strings.Join(labels, ", "))
	}
	return nil
}
