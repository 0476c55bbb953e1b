package smiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingTable_OpenThenClose(t *testing.T) {
	s := &scanner{input: "C1CC1"}
	rt := newRingTable()

	_, closed, err := rt.openOrClose(s, 1, NoBond, 0, 1)
	require.NoError(t, err)
	assert.False(t, closed)
	assert.Len(t, rt.unclosed(), 1)

	bond, closed, err := rt.openOrClose(s, 1, NoBond, 2, 4)
	require.NoError(t, err)
	assert.True(t, closed)
	assert.Equal(t, Bond{From: 0, To: 2, Order: BondUnspecified, Ring: true}, bond)
	assert.Empty(t, rt.unclosed())
}

func TestRingTable_SymbolResolution(t *testing.T) {
	cases := []struct {
		name      string
		open      BondSymbol
		close     BondSymbol
		order     BondOrder
		direction BondDirection
		wantErr   bool
	}{
		{"neither", NoBond, NoBond, BondUnspecified, DirectionNone, false},
		{"opening only", '=', NoBond, BondDouble, DirectionNone, false},
		{"closing only", NoBond, '#', BondTriple, DirectionNone, false},
		{"both equal", '=', '=', BondDouble, DirectionNone, false},
		{"direction", '/', NoBond, BondUnspecified, DirectionUp, false},
		{"mismatch", '=', '#', 0, 0, true},
		{"direction mismatch", '/', '\\', 0, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &scanner{input: "C1CC1"}
			rt := newRingTable()
			_, _, err := rt.openOrClose(s, 1, tc.open, 0, 1)
			require.NoError(t, err)
			bond, closed, err := rt.openOrClose(s, 1, tc.close, 2, 4)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrRingClosure)
				assert.False(t, closed)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.order, bond.Order)
			assert.Equal(t, tc.direction, bond.Direction)
		})
	}
}

func TestRingTable_SelfClosure(t *testing.T) {
	s := &scanner{input: "C11"}
	rt := newRingTable()
	_, _, err := rt.openOrClose(s, 1, NoBond, 0, 1)
	require.NoError(t, err)
	_, _, err = rt.openOrClose(s, 1, NoBond, 0, 2)
	assert.ErrorIs(t, err, ErrRingClosure)
}

func TestRingTable_UnclosedOrder(t *testing.T) {
	s := &scanner{input: "C3CC1CC2"}
	rt := newRingTable()
	for _, o := range []struct{ label, atom, offset int }{{2, 4, 7}, {3, 0, 1}, {1, 2, 4}} {
		_, _, err := rt.openOrClose(s, o.label, NoBond, o.atom, o.offset)
		require.NoError(t, err)
	}
	open := rt.unclosed()
	require.Len(t, open, 3)
	assert.Equal(t, []int{3, 1, 2}, []int{open[0].label, open[1].label, open[2].label})
}

func TestLabelString(t *testing.T) {
	assert.Equal(t, "7", labelString(7))
	assert.Equal(t, "%42", labelString(42))
}

func TestBranchStack(t *testing.T) {
	var b branchStack
	_, ok := b.pop()
	assert.False(t, ok)

	b.push(1, 2, 2)
	b.push(3, 5, 4)
	assert.Equal(t, 2, b.depth())
	assert.Equal(t, 1, b.outermost().atom)

	frame, ok := b.pop()
	require.True(t, ok)
	assert.Equal(t, branchFrame{atom: 3, offset: 5, atoms: 4}, frame)
	frame, ok = b.pop()
	require.True(t, ok)
	assert.Equal(t, 1, frame.atom)
	assert.Zero(t, b.depth())
}
