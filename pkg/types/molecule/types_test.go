package molecule

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestParseErrorDTO_Error(t *testing.T) {
	e := &ParseErrorDTO{Code: "MOL_003", Message: "unclosed ring bond 1", Offset: intPtr(1)}
	assert.Equal(t, "[MOL_003] unclosed ring bond 1 (offset 1)", e.Error())

	e = &ParseErrorDTO{Code: "MOL_007", Message: "input too long"}
	assert.Equal(t, "[MOL_007] input too long", e.Error())
}

func TestBatchParseRequest_Validate(t *testing.T) {
	assert.Error(t, BatchParseRequest{}.Validate(10))
	assert.NoError(t, BatchParseRequest{Items: []string{"C", "CC"}}.Validate(2))
	assert.NoError(t, BatchParseRequest{Items: []string{"C", "CC", "CCC"}}.Validate(0))

	err := BatchParseRequest{Items: []string{"C", "CC", "CCC"}}.Validate(2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds the limit of 2")
}

func TestNewBatchParseResponse(t *testing.T) {
	resp := NewBatchParseResponse([]BatchItemResult{
		{Index: 0, SMILES: "C", Molecule: &MoleculeDTO{SMILES: "C"}},
		{Index: 1, SMILES: "C1", Error: &ParseErrorDTO{Code: "MOL_003"}},
		{Index: 2, SMILES: "O", Molecule: &MoleculeDTO{SMILES: "O"}},
	})
	assert.Equal(t, 2, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	assert.Len(t, resp.Results, 3)
}

func TestAtomDTO_JSONOmitsUnsetBracketFields(t *testing.T) {
	data, err := json.Marshal(AtomDTO{Element: "C", AtomicNumber: 6})
	require.NoError(t, err)
	s := string(data)
	assert.NotContains(t, s, "isotope")
	assert.NotContains(t, s, "hydrogen_count")
	assert.NotContains(t, s, "atom_class")
	assert.NotContains(t, s, "chirality")
	assert.Contains(t, s, `"implicit_hydrogens":0`)

	data, err = json.Marshal(AtomDTO{Element: "C", Isotope: intPtr(13), HydrogenCount: intPtr(0)})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"isotope":13`)
	assert.Contains(t, string(data), `"hydrogen_count":0`)
}

func TestParseErrorDTO_ZeroOffsetIsKept(t *testing.T) {
	data, err := json.Marshal(ParseErrorDTO{Code: "MOL_001", Message: "x", Offset: intPtr(0)})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"offset":0`)
}

//Personal.AI order the ending
