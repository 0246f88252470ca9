package symbol

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDGen(t *testing.T) {
	g := newIDGen(0)
	assert.Equal(t, ID(1), g.next())
	assert.Equal(t, ID(2), g.next())
	g = newIDGen(^ID(0) - 1)
	assert.Equal(t, ^ID(0), g.next())
	assert.Panics(t, func() { g.next() })
}

func TestTable(t *testing.T) {
	table := NewTable()
	assert.Equal(t, ID(1), table.Intern("testing"))
	assert.Equal(t, ID(2), table.Intern("hello"))
	assert.Equal(t, ID(1), table.Intern("testing"))
	id, ok := table.Peek("hello")
	assert.True(t, ok)
	assert.Equal(t, ID(2), id)
	_, ok = table.Peek("notfound")
	assert.False(t, ok)
}

func TestTable_concurrent(t *testing.T) {
	table := NewTable()
	names := []string{"a", "b", "c", "d"}
	ids := make([][]ID, 8)
	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for _, name := range names {
				ids[i] = append(ids[i], table.Intern(name))
			}
		}(i)
	}
	wg.Wait()
	for i := range ids {
		assert.Equal(t, ids[0], ids[i])
	}
}
