package symbol

// An ID identifies an interned symbol within a Table.  The zero ID is never
// assigned to a symbol.
type ID uint32

// idGen hands out IDs in increasing order.  Callers synchronize access.
type idGen struct {
	last ID
}

func newIDGen(min ID) *idGen {
	return &idGen{last: min}
}

func (g *idGen) next() ID {
	if g.last == ^ID(0) {
		panic("symbol: too many ids generated")
	}
	g.last++
	return g.last
}
