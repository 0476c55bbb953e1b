package smiles

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMolecule_EffectiveOrder(t *testing.T) {
	m := MustParse("c1ccccc1C=O")
	assert.Equal(t, BondAromatic, m.EffectiveOrder(m.Bonds[0]))
	// c-C between an aromatic and an aliphatic atom.
	assert.Equal(t, BondSingle, m.EffectiveOrder(m.Bonds[6]))
	assert.Equal(t, BondDouble, m.EffectiveOrder(m.Bonds[7]))
}

func TestMolecule_HeavyAtomCount(t *testing.T) {
	m := MustParse("[2H]C([H])(*)O")
	assert.Equal(t, 2, m.HeavyAtomCount())
}

func TestMolecule_ComponentOrdering(t *testing.T) {
	m := MustParse("C1.O.C1")
	assert.Equal(t, [][]int{{0, 2}, {1}}, m.Components)
	assert.Equal(t, 0, m.ComponentOf(2))
	assert.Equal(t, -1, m.ComponentOf(9))
}

func TestMolecule_JSON(t *testing.T) {
	m := MustParse("[13CH3:1]/C=C/[O-]")
	data, err := json.Marshal(m)
	require.NoError(t, err)

	var decoded struct {
		Atoms []map[string]interface{} `json:"atoms"`
		Bonds []map[string]interface{} `json:"bonds"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Atoms, 4)
	assert.Equal(t, "C", decoded.Atoms[0]["element"])
	assert.EqualValues(t, 13, decoded.Atoms[0]["isotope"])
	assert.EqualValues(t, 3, decoded.Atoms[0]["hydrogen_count"])
	assert.EqualValues(t, 1, decoded.Atoms[0]["atom_class"])
	assert.Equal(t, "up", decoded.Bonds[0]["direction"])
	assert.Equal(t, "double", decoded.Bonds[1]["order"])
	assert.EqualValues(t, -1, decoded.Atoms[3]["charge"])
	_, hasCount := decoded.Atoms[1]["hydrogen_count"]
	assert.False(t, hasCount)
}
