package smiles

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a parse failure.
type ErrorKind int

const (
	// KindSyntax covers unrecognised characters, misordered bracket fields,
	// unterminated brackets and dangling bond symbols.
	KindSyntax ErrorKind = iota + 1
	// KindUnknownElement is an element symbol outside the recognised table.
	KindUnknownElement
	// KindRingClosure covers self-closing, duplicate, unclosed and
	// bond-incompatible ring labels.
	KindRingClosure
	// KindBranch covers unmatched parentheses.
	KindBranch
	// KindDisconnection is a bond or ring label directly after '.'.
	KindDisconnection
)

// Sentinel errors matched by errors.Is against a *ParseError of that kind.
var (
	ErrSyntax         = errors.New("smiles: syntax error")
	ErrUnknownElement = errors.New("smiles: unknown element")
	ErrRingClosure    = errors.New("smiles: ring closure error")
	ErrBranch         = errors.New("smiles: branch error")
	ErrDisconnection  = errors.New("smiles: disconnection error")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindSyntax:
		return ErrSyntax
	case KindUnknownElement:
		return ErrUnknownElement
	case KindRingClosure:
		return ErrRingClosure
	case KindBranch:
		return ErrBranch
	case KindDisconnection:
		return ErrDisconnection
	}
	return nil
}

func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindUnknownElement:
		return "unknown_element"
	case KindRingClosure:
		return "ring_closure"
	case KindBranch:
		return "branch"
	case KindDisconnection:
		return "disconnection"
	}
	return "unknown"
}

// ParseError reports where and why a SMILES string was rejected.
type ParseError struct {
	Kind ErrorKind
	// Offset is the byte offset into Input at which the grammar was violated.
	Offset int
	// Found is the offending text, empty at end of input.
	Found string
	// Expected describes what the grammar allowed at Offset, if known.
	Expected string
	Message  string
	Input    string
}

func (e *ParseError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "smiles: %s error at offset %d: %s", strings.ReplaceAll(e.Kind.String(), "_", " "), e.Offset, e.Message)
	if e.Expected != "" {
		found := e.Found
		if found == "" {
			found = "end of input"
		} else {
			found = fmt.Sprintf("%q", found)
		}
		fmt.Fprintf(&sb, " (expected %s, found %s)", e.Expected, found)
	}
	return sb.String()
}

// Unwrap exposes the kind sentinel so callers can use errors.Is.
func (e *ParseError) Unwrap() error { return e.Kind.sentinel() }

// Snippet renders the input with a caret under the failing offset:
//
//	C=1CCCCC#1
//	        ^
func (e *ParseError) Snippet() string {
	col := e.Offset
	if col < 0 {
		col = 0
	}
	if col > len(e.Input) {
		col = len(e.Input)
	}
	return e.Input + "\n" + strings.Repeat(" ", col) + "^"
}

// AsParseError extracts the *ParseError from err's chain.
func AsParseError(err error) (*ParseError, bool) {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
