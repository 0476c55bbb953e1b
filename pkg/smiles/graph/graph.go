// Package graph builds an adjacency view over a parsed molecule.  Node keys are
// the molecule's atom indices; nothing is renumbered.
package graph

import (
	"sort"

	"github.com/turtacn/smiles-parser/pkg/smiles"
)

// Edge is one half of an undirected bond as seen from an atom.
type Edge struct {
	To int
	// Bond indexes Molecule.Bonds.
	Bond int
}

// Graph is an adjacency list built in one pass over Molecule.Bonds.
type Graph struct {
	mol *smiles.Molecule
	adj [][]Edge
}

// New builds the adjacency lists for m.
func New(m *smiles.Molecule) *Graph {
	adj := make([][]Edge, len(m.Atoms))
	for i, b := range m.Bonds {
		adj[b.From] = append(adj[b.From], Edge{To: b.To, Bond: i})
		adj[b.To] = append(adj[b.To], Edge{To: b.From, Bond: i})
	}
	return &Graph{mol: m, adj: adj}
}

// Molecule returns the molecule the graph was built from.
func (g *Graph) Molecule() *smiles.Molecule { return g.mol }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.adj) }

// Edges returns the edges incident to atom i in bond order.
func (g *Graph) Edges(i int) []Edge { return g.adj[i] }

// Neighbors returns the atoms bonded to atom i.
func (g *Graph) Neighbors(i int) []int {
	out := make([]int, len(g.adj[i]))
	for k, e := range g.adj[i] {
		out[k] = e.To
	}
	return out
}

// Degree returns the number of explicit bonds on atom i.
func (g *Graph) Degree(i int) int { return len(g.adj[i]) }

// Components returns the connected components, each sorted, ordered by their
// lowest atom index.
func (g *Graph) Components() [][]int {
	seen := make([]bool, len(g.adj))
	var out [][]int
	for start := range g.adj {
		if seen[start] {
			continue
		}
		seen[start] = true
		members := []int{}
		queue := []int{start}
		for len(queue) > 0 {
			n := queue[0]
			queue = queue[1:]
			members = append(members, n)
			for _, e := range g.adj[n] {
				if !seen[e.To] {
					seen[e.To] = true
					queue = append(queue, e.To)
				}
			}
		}
		sort.Ints(members)
		out = append(out, members)
	}
	return out
}

// bondValence is the contribution of a resolved bond order to an atom's
// valence.  Aromatic bonds count one; the aromatic atom itself adds one more.
func bondValence(o smiles.BondOrder) int {
	switch o {
	case smiles.BondDouble:
		return 2
	case smiles.BondTriple:
		return 3
	case smiles.BondQuadruple:
		return 4
	}
	return 1
}

// ImplicitHydrogens returns the hydrogens attached to atom i.  Bracket atoms
// report their explicit count; organic-subset atoms take the smallest
// default valence that covers their bonds.  Wildcards and atoms whose bonds
// exceed every default valence have none.
func (g *Graph) ImplicitHydrogens(i int) int {
	atom := g.mol.Atoms[i]
	if atom.HydrogenCount != nil {
		return *atom.HydrogenCount
	}
	valences := atom.Element.DefaultValences()
	if len(valences) == 0 {
		return 0
	}

	sum := 0
	for _, e := range g.adj[i] {
		sum += bondValence(g.mol.EffectiveOrder(g.mol.Bonds[e.Bond]))
	}
	if atom.Aromatic {
		sum++
	}
	for _, v := range valences {
		if v >= sum {
			return v - sum
		}
	}
	return 0
}

// TotalHydrogens sums ImplicitHydrogens over every atom.
func (g *Graph) TotalHydrogens() int {
	n := 0
	for i := range g.adj {
		n += g.ImplicitHydrogens(i)
	}
	return n
}

// LongestCarbonChain returns the longest shortest path through carbon atoms,
// as atom indices from one end to the other.  Ties keep the pair found first
// in index order.  It is nil when the molecule has no carbon.
func (g *Graph) LongestCarbonChain() []int {
	isCarbon := func(i int) bool { return g.mol.Atoms[i].Element == smiles.Carbon }

	var best []int
	for start := range g.adj {
		if !isCarbon(start) {
			continue
		}
		dist, prev := g.bfs(start, isCarbon)
		far := start
		for n := range g.adj {
			if dist[n] > dist[far] {
				far = n
			}
		}
		if best == nil || dist[far]+1 > len(best) {
			best = tracePath(prev, start, far)
		}
	}
	return best
}

// bfs computes hop distances from start over nodes accepted by keep.
// Unreached nodes have distance -1.
func (g *Graph) bfs(start int, keep func(int) bool) (dist, prev []int) {
	dist = make([]int, len(g.adj))
	prev = make([]int, len(g.adj))
	for i := range dist {
		dist[i], prev[i] = -1, -1
	}
	dist[start] = 0
	queue := []int{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, e := range g.adj[n] {
			if dist[e.To] >= 0 || !keep(e.To) {
				continue
			}
			dist[e.To], prev[e.To] = dist[n]+1, n
			queue = append(queue, e.To)
		}
	}
	return dist, prev
}

func tracePath(prev []int, start, end int) []int {
	var path []int
	for n := end; n != -1; n = prev[n] {
		path = append(path, n)
		if n == start {
			break
		}
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}
