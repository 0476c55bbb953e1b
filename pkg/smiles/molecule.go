package smiles

// Molecule is the result of a successful parse.  Atom indices are assigned in
// parse order and never renumbered, so Bonds can be turned into an adjacency
// structure in a single pass.
type Molecule struct {
	Atoms []Atom `json:"atoms"`
	Bonds []Bond `json:"bonds"`
	// Components partitions atom indices into connected components.  Each
	// component is sorted, and components are ordered by their lowest index.
	Components [][]int `json:"components"`
}

// EffectiveOrder resolves an unspecified bond: aromatic between two aromatic
// atoms, otherwise single.
func (m *Molecule) EffectiveOrder(b Bond) BondOrder {
	if b.Order != BondUnspecified {
		return b.Order
	}
	if m.Atoms[b.From].Aromatic && m.Atoms[b.To].Aromatic {
		return BondAromatic
	}
	return BondSingle
}

// RingBonds returns the bonds produced by ring-closure labels, in the order
// they were closed.
func (m *Molecule) RingBonds() []Bond {
	var out []Bond
	for _, b := range m.Bonds {
		if b.Ring {
			out = append(out, b)
		}
	}
	return out
}

// ComponentOf returns the index into Components holding atom i, or -1.
func (m *Molecule) ComponentOf(i int) int {
	for c, atoms := range m.Components {
		for _, a := range atoms {
			if a == i {
				return c
			}
		}
	}
	return -1
}

// HeavyAtomCount counts atoms other than explicit hydrogens and wildcards.
func (m *Molecule) HeavyAtomCount() int {
	n := 0
	for _, a := range m.Atoms {
		if a.Element != Hydrogen && a.Element != Wildcard {
			n++
		}
	}
	return n
}

// connectedComponents groups atoms joined by any bond.  A ring bond across
// '.' joins the two sides, as OpenSMILES allows.
func connectedComponents(n int, bonds []Bond) [][]int {
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	find := func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	for _, b := range bonds {
		ra, rb := find(b.From), find(b.To)
		if ra == rb {
			continue
		}
		if ra < rb {
			parent[rb] = ra
		} else {
			parent[ra] = rb
		}
	}

	components := [][]int{}
	slot := make(map[int]int)
	for i := 0; i < n; i++ {
		root := find(i)
		c, ok := slot[root]
		if !ok {
			c = len(components)
			slot[root] = c
			components = append(components, nil)
		}
		components[c] = append(components[c], i)
	}
	return components
}
