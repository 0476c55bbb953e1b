// Package molecule defines the molecule Data Transfer Objects exchanged by the
// parse service, the HTTP API, the CLI and the batch worker.  No parsing
// logic lives here, only plain data types safe to import from any layer.
package molecule

import "fmt"

// ─────────────────────────────────────────────────────────────────────────────
// Structure DTOs
// ─────────────────────────────────────────────────────────────────────────────

// AtomDTO is one atom of a parsed molecule.  Optional bracket fields are nil
// when the input did not state them.
type AtomDTO struct {
	Index        int    `json:"index"`
	Element      string `json:"element"`
	AtomicNumber int    `json:"atomic_number"`
	Aromatic     bool   `json:"aromatic"`
	Bracket      bool   `json:"bracket"`
	Isotope      *int   `json:"isotope,omitempty"`
	Chirality    string `json:"chirality,omitempty"`

	// HydrogenCount is the explicit count written inside brackets.
	HydrogenCount *int `json:"hydrogen_count,omitempty"`

	// ImplicitHydrogens is derived from the organic-subset valence rule for
	// unbracketed atoms, and equals HydrogenCount for bracket atoms.
	ImplicitHydrogens int  `json:"implicit_hydrogens"`
	Charge            int  `json:"charge"`
	AtomClass         *int `json:"atom_class,omitempty"`
	Component         int  `json:"component"`
}

// BondDTO is one bond of a parsed molecule.  Order is the effective order:
// an unwritten bond between two aromatic atoms reads "aromatic", otherwise
// "single".
type BondDTO struct {
	From      int    `json:"from"`
	To        int    `json:"to"`
	Order     string `json:"order"`
	Direction string `json:"direction,omitempty"`
	Ring      bool   `json:"ring"`
}

// MoleculeDTO is the full parse result for one SMILES string.
type MoleculeDTO struct {
	SMILES         string    `json:"smiles"`
	AtomCount      int       `json:"atom_count"`
	HeavyAtomCount int       `json:"heavy_atom_count"`
	BondCount      int       `json:"bond_count"`
	RingBondCount  int       `json:"ring_bond_count"`
	ComponentCount int       `json:"component_count"`
	Atoms          []AtomDTO `json:"atoms"`
	Bonds          []BondDTO `json:"bonds"`
	Components     [][]int   `json:"components"`

	// LongestCarbonChain lists atom indices along the longest carbon-only
	// path, empty when the molecule has no carbon.
	LongestCarbonChain []int `json:"longest_carbon_chain,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Error DTO
// ─────────────────────────────────────────────────────────────────────────────

// ParseErrorDTO describes why an input was rejected.  Kind and Offset are
// empty for failures that are not syntax errors (for example an oversized
// input).
type ParseErrorDTO struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Kind     string `json:"kind,omitempty"`
	Offset   *int   `json:"offset,omitempty"`
	Found    string `json:"found,omitempty"`
	Expected string `json:"expected,omitempty"`
	Snippet  string `json:"snippet,omitempty"`
}

// Error implements error so DTOs can travel through error returns.
func (e *ParseErrorDTO) Error() string {
	if e.Offset != nil {
		return fmt.Sprintf("[%s] %s (offset %d)", e.Code, e.Message, *e.Offset)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// ─────────────────────────────────────────────────────────────────────────────
// Request / response types
// ─────────────────────────────────────────────────────────────────────────────

// ParseRequest is the body of POST /api/v1/smiles/parse.
type ParseRequest struct {
	SMILES string `json:"smiles"`
}

// BatchParseRequest is the body of POST /api/v1/smiles/batch.
type BatchParseRequest struct {
	Items []string `json:"items"`
}

// Validate rejects empty batches and batches larger than max.
func (r BatchParseRequest) Validate(max int) error {
	if len(r.Items) == 0 {
		return fmt.Errorf("items must contain at least one SMILES string")
	}
	if max > 0 && len(r.Items) > max {
		return fmt.Errorf("batch of %d items exceeds the limit of %d", len(r.Items), max)
	}
	return nil
}

// BatchItemResult is the outcome of one batch item.  Exactly one of Molecule
// and Error is set.
type BatchItemResult struct {
	Index    int            `json:"index"`
	Label    string         `json:"label,omitempty"`
	SMILES   string         `json:"smiles"`
	Molecule *MoleculeDTO   `json:"molecule,omitempty"`
	Error    *ParseErrorDTO `json:"error,omitempty"`
}

// OK reports whether the item parsed.
func (r BatchItemResult) OK() bool { return r.Error == nil }

// BatchParseResponse carries per-item results in input order.
type BatchParseResponse struct {
	Results   []BatchItemResult `json:"results"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// NewBatchParseResponse tallies results.
func NewBatchParseResponse(results []BatchItemResult) BatchParseResponse {
	resp := BatchParseResponse{Results: results}
	for _, r := range results {
		if r.OK() {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	return resp
}

//Personal.AI order the ending
