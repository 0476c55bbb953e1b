package molecule

import (
	"fmt"

	"github.com/turtacn/smiles-parser/pkg/errors"
	"github.com/turtacn/smiles-parser/pkg/smiles"
	"github.com/turtacn/smiles-parser/pkg/smiles/graph"
	moltypes "github.com/turtacn/smiles-parser/pkg/types/molecule"
)

// kindCodes maps parser error kinds onto MOL error codes.
var kindCodes = map[smiles.ErrorKind]errors.ErrorCode{
	smiles.KindSyntax:         errors.ErrCodeInvalidSMILES,
	smiles.KindUnknownElement: errors.ErrCodeUnknownElement,
	smiles.KindRingClosure:    errors.ErrCodeRingClosure,
	smiles.KindBranch:         errors.ErrCodeUnbalancedBranch,
	smiles.KindDisconnection:  errors.ErrCodeInvalidDisconnect,
}

// CodeForKind returns the error code reported for a parse failure of kind k.
func CodeForKind(k smiles.ErrorKind) errors.ErrorCode {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return errors.ErrCodeParsingFailed
}

// parseFailure wraps a parser error in an AppError carrying the matching code.
func parseFailure(err error) *errors.AppError {
	pe, ok := smiles.AsParseError(err)
	if !ok {
		return errors.Wrap(err, errors.ErrCodeParsingFailed, "SMILES parsing failed")
	}
	return errors.Wrap(pe, CodeForKind(pe.Kind), pe.Message).
		WithDetail(fmt.Sprintf("offset %d", pe.Offset))
}

// ErrorDTO describes err for API and worker responses.  Parse failures carry
// kind, offset and snippet.
func ErrorDTO(err error) *moltypes.ParseErrorDTO {
	if err == nil {
		return nil
	}
	code := errors.GetCode(err)
	out := &moltypes.ParseErrorDTO{Code: string(code)}

	if pe, ok := smiles.AsParseError(err); ok {
		offset := pe.Offset
		out.Message = pe.Message
		out.Kind = pe.Kind.String()
		out.Offset = &offset
		out.Found = pe.Found
		out.Expected = pe.Expected
		out.Snippet = pe.Snippet()
		return out
	}

	var ae *errors.AppError
	if errors.As(err, &ae) {
		out.Message = ae.Message
		if ae.Detail != "" {
			out.Message += ": " + ae.Detail
		}
		return out
	}
	out.Message = errors.DefaultMessageForCode(code)
	return out
}

// ToDTO flattens a parsed molecule into its transfer representation.
func ToDTO(input string, mol *smiles.Molecule) *moltypes.MoleculeDTO {
	g := graph.New(mol)

	dto := &moltypes.MoleculeDTO{
		SMILES:         input,
		AtomCount:      len(mol.Atoms),
		HeavyAtomCount: mol.HeavyAtomCount(),
		BondCount:      len(mol.Bonds),
		ComponentCount: len(mol.Components),
		Atoms:          make([]moltypes.AtomDTO, len(mol.Atoms)),
		Bonds:          make([]moltypes.BondDTO, len(mol.Bonds)),
		Components:     mol.Components,
	}

	for i, a := range mol.Atoms {
		dto.Atoms[i] = moltypes.AtomDTO{
			Index:             i,
			Element:           a.Symbol(),
			AtomicNumber:      a.Element.AtomicNumber(),
			Aromatic:          a.Aromatic,
			Bracket:           a.Bracket,
			Isotope:           a.Isotope,
			Chirality:         a.Chirality.String(),
			HydrogenCount:     a.HydrogenCount,
			ImplicitHydrogens: g.ImplicitHydrogens(i),
			Charge:            a.Charge,
			AtomClass:         a.AtomClass,
			Component:         mol.ComponentOf(i),
		}
	}

	for i, b := range mol.Bonds {
		bd := moltypes.BondDTO{
			From:  b.From,
			To:    b.To,
			Order: mol.EffectiveOrder(b).String(),
			Ring:  b.Ring,
		}
		if b.Direction != smiles.DirectionNone {
			bd.Direction = b.Direction.String()
		}
		if b.Ring {
			dto.RingBondCount++
		}
		dto.Bonds[i] = bd
	}

	dto.LongestCarbonChain = g.LongestCarbonChain()
	return dto
}

//Personal.AI order the ending
