package smiles

// branchFrame is one unmatched '('.
type branchFrame struct {
	atom   int // current atom when '(' was read
	offset int
	// atoms is the molecule's atom count at '(' so an empty branch is
	// detectable at ')'.
	atoms int
}

// branchStack holds the atoms to resume at when ')' closes a branch.
type branchStack []branchFrame

func (b *branchStack) push(atom, offset, atoms int) {
	*b = append(*b, branchFrame{atom: atom, offset: offset, atoms: atoms})
}

// pop removes the innermost frame.  ok is false on an empty stack.
func (b *branchStack) pop() (frame branchFrame, ok bool) {
	n := len(*b)
	if n == 0 {
		return branchFrame{}, false
	}
	frame = (*b)[n-1]
	*b = (*b)[:n-1]
	return frame, true
}

func (b branchStack) depth() int { return len(b) }

// outermost returns the earliest still-open frame.
func (b branchStack) outermost() branchFrame { return b[0] }
