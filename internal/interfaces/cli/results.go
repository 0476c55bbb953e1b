package cli

import (
	"fmt"
	"strconv"
	"strings"

	moltypes "github.com/turtacn/smiles-parser/pkg/types/molecule"
)

// resultReport is the printable outcome of the parse and batch commands.
type resultReport struct {
	moltypes.BatchParseResponse
	showAtoms bool
}

func newResultReport(results []moltypes.BatchItemResult, showAtoms bool) resultReport {
	return resultReport{BatchParseResponse: moltypes.NewBatchParseResponse(results), showAtoms: showAtoms}
}

// TableHeaders implements tableProvider.
func (r resultReport) TableHeaders() []string {
	return []string{"#", "LABEL", "SMILES", "ATOMS", "BONDS", "RINGS", "COMPONENTS", "ERROR"}
}

// TableRows implements tableProvider.
func (r resultReport) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Results))
	for _, res := range r.Results {
		row := []string{strconv.Itoa(res.Index), res.Label, res.SMILES, "", "", "", "", ""}
		if m := res.Molecule; m != nil {
			row[3] = strconv.Itoa(m.AtomCount)
			row[4] = strconv.Itoa(m.BondCount)
			row[5] = strconv.Itoa(m.RingBondCount)
			row[6] = strconv.Itoa(m.ComponentCount)
		} else if res.Error != nil {
			row[7] = res.Error.Code + " " + res.Error.Message
		}
		rows = append(rows, row)
	}
	return rows
}

// RenderText implements textRenderer.
func (r resultReport) RenderText(sb *strings.Builder) {
	for _, res := range r.Results {
		name := res.SMILES
		if res.Label != "" {
			name = res.Label + " " + res.SMILES
		}

		if res.Error != nil {
			e := res.Error
			fmt.Fprintf(sb, "[%d] %s: %s %s", res.Index, name, e.Code, e.Message)
			if e.Offset != nil {
				fmt.Fprintf(sb, " at offset %d", *e.Offset)
			}
			sb.WriteString("\n")
			if e.Snippet != "" {
				for _, line := range strings.Split(e.Snippet, "\n") {
					sb.WriteString("    " + line + "\n")
				}
			}
			continue
		}

		m := res.Molecule
		fmt.Fprintf(sb, "[%d] %s: %d atoms, %d bonds, %d ring bonds, %d components\n",
			res.Index, name, m.AtomCount, m.BondCount, m.RingBondCount, m.ComponentCount)
		if r.showAtoms {
			renderAtoms(sb, m)
		}
	}
	if len(r.Results) > 1 {
		fmt.Fprintf(sb, "%d parsed, %d failed\n", r.Succeeded, r.Failed)
	}
}

func renderAtoms(sb *strings.Builder, m *moltypes.MoleculeDTO) {
	for _, a := range m.Atoms {
		symbol := a.Element
		if a.Aromatic {
			symbol = strings.ToLower(symbol)
		}
		fmt.Fprintf(sb, "    atom %d %s H%d", a.Index, symbol, a.ImplicitHydrogens)
		if a.Charge != 0 {
			fmt.Fprintf(sb, " charge %+d", a.Charge)
		}
		if a.Isotope != nil {
			fmt.Fprintf(sb, " isotope %d", *a.Isotope)
		}
		if a.Chirality != "" {
			fmt.Fprintf(sb, " %s", a.Chirality)
		}
		sb.WriteString("\n")
	}
	for _, b := range m.Bonds {
		fmt.Fprintf(sb, "    bond %d-%d %s", b.From, b.To, b.Order)
		if b.Direction != "" {
			fmt.Fprintf(sb, " %s", b.Direction)
		}
		if b.Ring {
			sb.WriteString(" ring")
		}
		sb.WriteString("\n")
	}
}

//Personal.AI order the ending
