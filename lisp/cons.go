package lisp

// Length returns the number of elements in the proper list v.  Length returns
// -1 if v is not a proper list.
func Length(v *LVal) int {
	n := 0
	for p := v; !p.IsNil(); p = p.CDR {
		if p.Type != LCons {
			return -1
		}
		n++
	}
	return n
}

// IsList returns true if v is a proper list (possibly LNil).
func IsList(v *LVal) bool {
	return Length(v) >= 0
}

// List returns a proper list containing the elements of v.
func List(v ...*LVal) *LVal {
	lis := Nil()
	for i := len(v) - 1; i >= 0; i-- {
		lis = Cons(v[i], lis)
	}
	return lis
}

// Slice collects the elements of list v into a slice.  Slice returns false if
// v is not a proper list.
func Slice(v *LVal) ([]*LVal, bool) {
	var s []*LVal
	p := v
	for ; p.Type == LCons; p = p.CDR {
		s = append(s, p.CAR)
	}
	return s, p.IsNil()
}

// ListBuilder constructs a list by appending elements to its end.
type ListBuilder struct {
	front *LVal
	back  *LVal
}

// List returns the list built so far.  The returned list is modified by
// subsequent calls to Append.
func (b *ListBuilder) List() *LVal {
	if b.front == nil {
		return Nil()
	}
	return b.front
}

// Append adds elements to the end of the list.
func (b *ListBuilder) Append(v ...*LVal) {
	for i := range v {
		cell := Cons(v[i], Nil())
		if b.front == nil {
			b.front = cell
		} else {
			b.back.CDR = cell
		}
		b.back = cell
	}
}
