package smiles

import "sort"

// ringOpen is a ring-closure label waiting for its partner.
type ringOpen struct {
	label  int
	atom   int
	symbol BondSymbol
	offset int
}

// ringTable tracks open ring-closure labels for one parse.  A label is in
// use only between its opening and its matching close, so it may be reused
// afterwards.
type ringTable struct {
	open map[int]ringOpen
}

func newRingTable() *ringTable {
	return &ringTable{open: make(map[int]ringOpen)}
}

// openOrClose records label on atom, or closes it if already open and returns
// the resulting ring bond.
func (t *ringTable) openOrClose(s *scanner, label int, symbol BondSymbol, atom, offset int) (Bond, bool, error) {
	prev, ok := t.open[label]
	if !ok {
		t.open[label] = ringOpen{label: label, atom: atom, symbol: symbol, offset: offset}
		return Bond{}, false, nil
	}
	delete(t.open, label)

	if prev.atom == atom {
		return Bond{}, false, s.errorf(KindRingClosure, offset, "", "ring bond %s closes on the atom that opened it", labelString(label))
	}

	resolved := prev.symbol
	switch {
	case symbol == NoBond:
	case prev.symbol == NoBond:
		resolved = symbol
	case symbol != prev.symbol:
		return Bond{}, false, s.errorf(KindRingClosure, offset, "",
			"ring bond %s opened with %q at offset %d but closed with %q", labelString(label), prev.symbol.String(), prev.offset, symbol.String())
	}

	return Bond{
		From:      prev.atom,
		To:        atom,
		Order:     resolved.Order(),
		Direction: resolved.Direction(),
		Ring:      true,
	}, true, nil
}

// unclosed returns the still-open entries ordered by the offset at which they
// were opened.
func (t *ringTable) unclosed() []ringOpen {
	out := make([]ringOpen, 0, len(t.open))
	for _, r := range t.open {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].offset < out[j].offset })
	return out
}

func labelString(label int) string {
	if label < 10 {
		return string(rune('0' + label))
	}
	return "%" + string(rune('0'+label/10)) + string(rune('0'+label%10))
}

// parseRingLabel consumes a ring-closure label: one digit, or '%' and two
// digits.
func (s *scanner) parseRingLabel() (int, error) {
	if isDigit(s.peek()) {
		n := int(s.peek() - '0')
		s.pos++
		return n, nil
	}
	// '%'
	s.pos++
	if !isDigit(s.peek()) || !isDigit(s.peekAt(1)) {
		return 0, s.errorf(KindSyntax, s.pos, "two digits after '%'", "malformed ring-closure label")
	}
	n := int(s.peek()-'0')*10 + int(s.peekAt(1)-'0')
	s.pos += 2
	return n, nil
}

func isRingLabelStart(c byte) bool { return isDigit(c) || c == '%' }
