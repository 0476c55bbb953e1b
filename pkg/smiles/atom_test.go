package smiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func parseOneAtom(t *testing.T, input string) (Atom, *scanner, error) {
	t.Helper()
	s := &scanner{input: input}
	atom, err := s.parseAtom()
	return atom, s, err
}

func TestParseAtom_OrganicSubset(t *testing.T) {
	cases := []struct {
		input    string
		element  Element
		aromatic bool
	}{
		{"B", Boron, false},
		{"C", Carbon, false},
		{"N", Nitrogen, false},
		{"O", Oxygen, false},
		{"P", Phosphorus, false},
		{"S", Sulfur, false},
		{"F", Fluorine, false},
		{"Cl", Chlorine, false},
		{"Br", Bromine, false},
		{"I", Iodine, false},
		{"b", Boron, true},
		{"c", Carbon, true},
		{"n", Nitrogen, true},
		{"o", Oxygen, true},
		{"p", Phosphorus, true},
		{"s", Sulfur, true},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			atom, s, err := parseOneAtom(t, tc.input)
			require.NoError(t, err)
			assert.Equal(t, len(tc.input), s.pos)
			assert.Equal(t, tc.element, atom.Element)
			assert.Equal(t, tc.aromatic, atom.Aromatic)
			assert.Nil(t, atom.Isotope)
			assert.Nil(t, atom.HydrogenCount)
			assert.Nil(t, atom.AtomClass)
			assert.Zero(t, atom.Charge)
			assert.False(t, atom.Chirality.IsSet())
			assert.False(t, atom.Bracket)
		})
	}
}

func TestParseAtom_TwoLetterGreedy(t *testing.T) {
	atom, s, err := parseOneAtom(t, "ClC")
	require.NoError(t, err)
	assert.Equal(t, Chlorine, atom.Element)
	assert.Equal(t, 2, s.pos)

	atom, s, err = parseOneAtom(t, "Brc")
	require.NoError(t, err)
	assert.Equal(t, Bromine, atom.Element)
	assert.Equal(t, 2, s.pos)
}

func TestParseAtom_Wildcard(t *testing.T) {
	atom, _, err := parseOneAtom(t, "*")
	require.NoError(t, err)
	assert.True(t, atom.IsWildcard())
	assert.False(t, atom.Bracket)

	atom, _, err = parseOneAtom(t, "[*]")
	require.NoError(t, err)
	assert.True(t, atom.IsWildcard())
	assert.True(t, atom.Bracket)
	assert.Equal(t, 0, *atom.HydrogenCount)
}

func TestParseAtom_Bracket(t *testing.T) {
	cases := []struct {
		input string
		want  Atom
	}{
		{"[CH4]", Atom{Element: Carbon, HydrogenCount: intPtr(4), Bracket: true}},
		{"[13CH4]", Atom{Element: Carbon, Isotope: intPtr(13), HydrogenCount: intPtr(4), Bracket: true}},
		{"[2H]", Atom{Element: Hydrogen, Isotope: intPtr(2), HydrogenCount: intPtr(0), Bracket: true}},
		{"[0C]", Atom{Element: Carbon, Isotope: intPtr(0), HydrogenCount: intPtr(0), Bracket: true}},
		{"[NH4+]", Atom{Element: Nitrogen, HydrogenCount: intPtr(4), Charge: 1, Bracket: true}},
		{"[OH-]", Atom{Element: Oxygen, HydrogenCount: intPtr(1), Charge: -1, Bracket: true}},
		{"[Fe++]", Atom{Element: 26, HydrogenCount: intPtr(0), Charge: 2, Bracket: true}},
		{"[Fe+3]", Atom{Element: 26, HydrogenCount: intPtr(0), Charge: 3, Bracket: true}},
		{"[N---]", Atom{Element: Nitrogen, HydrogenCount: intPtr(0), Charge: -3, Bracket: true}},
		{"[Ti+12]", Atom{Element: 22, HydrogenCount: intPtr(0), Charge: 12, Bracket: true}},
		{"[C@H]", Atom{Element: Carbon, Chirality: Chirality{Class: ChiralAnticlockwise}, HydrogenCount: intPtr(1), Bracket: true}},
		{"[C@@H]", Atom{Element: Carbon, Chirality: Chirality{Class: ChiralClockwise}, HydrogenCount: intPtr(1), Bracket: true}},
		{"[C@TH2]", Atom{Element: Carbon, Chirality: Chirality{Class: ChiralTetrahedral, Number: 2}, HydrogenCount: intPtr(0), Bracket: true}},
		{"[C@AL1]", Atom{Element: Carbon, Chirality: Chirality{Class: ChiralAllenal, Number: 1}, HydrogenCount: intPtr(0), Bracket: true}},
		{"[Pt@SP3]", Atom{Element: 78, Chirality: Chirality{Class: ChiralSquarePlanar, Number: 3}, HydrogenCount: intPtr(0), Bracket: true}},
		{"[As@TB15]", Atom{Element: Arsenic, Chirality: Chirality{Class: ChiralTrigonalBipyramidal, Number: 15}, HydrogenCount: intPtr(0), Bracket: true}},
		{"[Co@OH25]", Atom{Element: 27, Chirality: Chirality{Class: ChiralOctahedral, Number: 25}, HydrogenCount: intPtr(0), Bracket: true}},
		{"[CH3:12]", Atom{Element: Carbon, HydrogenCount: intPtr(3), AtomClass: intPtr(12), Bracket: true}},
		{"[Cl]", Atom{Element: Chlorine, HydrogenCount: intPtr(0), Bracket: true}},
		{"[Sc]", Atom{Element: 21, HydrogenCount: intPtr(0), Bracket: true}},
		{"[nH]", Atom{Element: Nitrogen, Aromatic: true, HydrogenCount: intPtr(1), Bracket: true}},
		{"[se]", Atom{Element: Selenium, Aromatic: true, HydrogenCount: intPtr(0), Bracket: true}},
		{"[as]", Atom{Element: Arsenic, Aromatic: true, HydrogenCount: intPtr(0), Bracket: true}},
		{"[Na+]", Atom{Element: Sodium, HydrogenCount: intPtr(0), Charge: 1, Bracket: true}},
		{
			"[15n@@H2+2:7]",
			Atom{
				Element:       Nitrogen,
				Aromatic:      true,
				Isotope:       intPtr(15),
				Chirality:     Chirality{Class: ChiralClockwise},
				HydrogenCount: intPtr(2),
				Charge:        2,
				AtomClass:     intPtr(7),
				Bracket:       true,
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			atom, s, err := parseOneAtom(t, tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.want, atom)
			assert.Equal(t, len(tc.input), s.pos)
		})
	}
}

func TestParseAtom_BracketFieldOrder(t *testing.T) {
	// Each input is a valid bracket atom with two fields swapped.
	cases := []struct {
		input  string
		offset int
	}{
		{"[C13]", 2},
		{"[H13C]", 2},
		{"[CH@]", 3},
		{"[C+H]", 3},
		{"[C:1H]", 4},
		{"[C:1+]", 4},
		{"[C-@]", 3},
		{"[@C]", 1},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			_, _, err := parseOneAtom(t, tc.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSyntax)
			pe, ok := AsParseError(err)
			require.True(t, ok)
			assert.Equal(t, tc.offset, pe.Offset)
		})
	}
}

func TestParseAtom_BracketErrors(t *testing.T) {
	cases := []struct {
		name   string
		input  string
		target error
		offset int
		found  string
	}{
		{"unterminated", "[CH4", ErrSyntax, 4, ""},
		{"empty open", "[", ErrSyntax, 1, ""},
		{"empty brackets", "[]", ErrSyntax, 1, "]"},
		{"isotope too long", "[1234C]", ErrSyntax, 4, "4"},
		{"unknown symbol", "[Xx]", ErrUnknownElement, 1, "Xx"},
		{"unknown single", "[X]", ErrUnknownElement, 1, "X"},
		{"not aromatic", "[f]", ErrUnknownElement, 1, "f"},
		{"charge too large", "[C+16]", ErrSyntax, 2, "+"},
		{"tb out of range", "[C@TB21]", ErrSyntax, 2, "@"},
		{"oh out of range", "[C@OH31]", ErrSyntax, 2, "@"},
		{"th zero", "[C@TH0]", ErrSyntax, 2, "@"},
		{"class without digits", "[C:]", ErrSyntax, 3, "]"},
		{"extended tag without number", "[C@SP]", ErrSyntax, 5, "]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := parseOneAtom(t, tc.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.target)
			pe, ok := AsParseError(err)
			require.True(t, ok)
			assert.Equal(t, tc.offset, pe.Offset)
			assert.Equal(t, tc.found, pe.Found)
		})
	}
}

func TestParseAtom_OutsideOrganicSubset(t *testing.T) {
	cases := []struct {
		input string
		found string
	}{
		{"K", "K"},
		{"H", "H"},
		{"Xe", "Xe"},
		{"X", "X"},
		{"as", "as"},
	}
	for _, tc := range cases {
		t.Run(tc.input, func(t *testing.T) {
			_, _, err := parseOneAtom(t, tc.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnknownElement)
			pe, _ := AsParseError(err)
			assert.Equal(t, 0, pe.Offset)
			assert.Equal(t, tc.found, pe.Found)
		})
	}

	_, _, err := parseOneAtom(t, "x")
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestAtom_Symbol(t *testing.T) {
	assert.Equal(t, "c", Atom{Element: Carbon, Aromatic: true}.Symbol())
	assert.Equal(t, "se", Atom{Element: Selenium, Aromatic: true}.Symbol())
	assert.Equal(t, "Cl", Atom{Element: Chlorine}.Symbol())
	assert.Equal(t, "*", Atom{}.Symbol())
}
