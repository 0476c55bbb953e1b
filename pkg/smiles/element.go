package smiles

// Element identifies a chemical element by atomic number.  The zero value is
// the wildcard atom `*`, whose element is unknown.
type Element uint8

// Wildcard is the `*` atom.
const Wildcard Element = 0

// Frequently referenced elements.
const (
	Hydrogen   Element = 1
	Boron      Element = 5
	Carbon     Element = 6
	Nitrogen   Element = 7
	Oxygen     Element = 8
	Fluorine   Element = 9
	Sodium     Element = 11
	Phosphorus Element = 15
	Sulfur     Element = 16
	Chlorine   Element = 17
	Arsenic    Element = 33
	Selenium   Element = 34
	Bromine    Element = 35
	Iodine     Element = 53
)

// symbols is indexed by atomic number.
var symbols = [...]string{
	"*",
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba",
	"La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu",
	"Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra",
	"Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm", "Md", "No", "Lr",
	"Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds", "Rg", "Cn",
	"Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

var bySymbol = func() map[string]Element {
	m := make(map[string]Element, len(symbols))
	for i, s := range symbols {
		m[s] = Element(i)
	}
	return m
}()

// ElementFromSymbol looks up an element by its case-sensitive symbol, e.g.
// "Cl".  "*" yields Wildcard.
func ElementFromSymbol(sym string) (Element, bool) {
	e, ok := bySymbol[sym]
	return e, ok
}

// Symbol returns the element symbol in its canonical capitalisation.
func (e Element) Symbol() string {
	if int(e) < len(symbols) {
		return symbols[e]
	}
	return "?"
}

// AtomicNumber returns the atomic number; 0 for the wildcard.
func (e Element) AtomicNumber() int { return int(e) }

func (e Element) String() string { return e.Symbol() }

// MarshalText encodes the element as its symbol.
func (e Element) MarshalText() ([]byte, error) {
	return []byte(e.Symbol()), nil
}

// organicSubset lists the elements writable without brackets, with their
// normal valences in ascending order.
var organicSubset = map[Element][]int{
	Boron:      {3},
	Carbon:     {4},
	Nitrogen:   {3, 5},
	Oxygen:     {2},
	Phosphorus: {3, 5},
	Sulfur:     {2, 4, 6},
	Fluorine:   {1},
	Chlorine:   {1},
	Bromine:    {1},
	Iodine:     {1},
}

// IsOrganic reports whether e belongs to the organic subset.
func (e Element) IsOrganic() bool {
	_, ok := organicSubset[e]
	return ok
}

// DefaultValences returns the normal valences used to derive implicit
// hydrogens for organic-subset atoms.  It is nil for every other element.
func (e Element) DefaultValences() []int {
	return organicSubset[e]
}

// aromaticBracket holds the lowercase symbols permitted inside brackets.
var aromaticBracket = map[string]Element{
	"b":  Boron,
	"c":  Carbon,
	"n":  Nitrogen,
	"o":  Oxygen,
	"p":  Phosphorus,
	"s":  Sulfur,
	"se": Selenium,
	"as": Arsenic,
}

// aromaticOrganic is the bracket-free subset of aromaticBracket.
var aromaticOrganic = map[byte]Element{
	'b': Boron,
	'c': Carbon,
	'n': Nitrogen,
	'o': Oxygen,
	'p': Phosphorus,
	's': Sulfur,
}
