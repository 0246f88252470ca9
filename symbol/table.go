// Package symbol maps symbol names to small integer IDs.  A Table guarantees
// that interning the same name twice yields the same ID, which lets callers
// keep one canonical value per name and compare symbols by identity.
package symbol

import "sync"

// Table maps symbol names to IDs.
type Table interface {
	// Intern inserts the given symbol into the table if it is not present and
	// returns its ID.
	Intern(symbol string) ID
	// Peek retrieves the ID of a symbol without automatically interning it.
	// Peek returns true iff the symbol has been interned into the table.
	Peek(symbol string) (ID, bool)
}

// NewTable returns an empty Table that is safe for concurrent use.
func NewTable() Table {
	return &table{
		g: newIDGen(0),
		s: make(map[string]ID),
	}
}

type table struct {
	sync sync.RWMutex
	g    *idGen
	s    map[string]ID
}

func (t *table) Intern(s string) ID {
	t.sync.Lock()
	defer t.sync.Unlock()
	if id, ok := t.s[s]; ok {
		return id
	}
	id := t.g.next()
	t.s[s] = id
	return id
}

func (t *table) Peek(s string) (ID, bool) {
	t.sync.RLock()
	defer t.sync.RUnlock()
	id, ok := t.s[s]
	return id, ok
}
