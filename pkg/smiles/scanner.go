package smiles

import "fmt"

// scanner is a byte cursor over one input string.
type scanner struct {
	input string
	pos   int
}

func (s *scanner) eof() bool { return s.pos >= len(s.input) }

// peek returns the current byte, or 0 at end of input.
func (s *scanner) peek() byte {
	if s.pos < len(s.input) {
		return s.input[s.pos]
	}
	return 0
}

func (s *scanner) peekAt(off int) byte {
	if i := s.pos + off; i < len(s.input) {
		return s.input[i]
	}
	return 0
}

// readNumber consumes between 1 and max decimal digits.  It reports false
// without consuming anything when no digit is present.
func (s *scanner) readNumber(max int) (int, bool) {
	n, i := 0, 0
	for ; i < max && isDigit(s.peek()); i++ {
		n = n*10 + int(s.peek()-'0')
		s.pos++
	}
	return n, i > 0
}

func (s *scanner) errorf(kind ErrorKind, offset int, expected, format string, args ...interface{}) *ParseError {
	found := ""
	if offset >= 0 && offset < len(s.input) {
		found = s.input[offset : offset+1]
	}
	return &ParseError{
		Kind:     kind,
		Offset:   offset,
		Found:    found,
		Expected: expected,
		Message:  fmt.Sprintf(format, args...),
		Input:    s.input,
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
