package rag

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type stubIndex struct{ n int }

func (s stubIndex) Search(context.Context, []float32, int) ([]Chunk, error) { return nil, nil }
func (s stubIndex) Len() int { return s.n }

func TestSingleSlotCacheKeepsOneEntry(t *testing.T) {
	c := NewSingleSlotCache()

	_, ok := c.Load("a")
	assert.False(t, ok)

	c.Store("a", stubIndex{n: 1})
	idx, ok := c.Load("a")
	assert.True(t, ok)
	assert.Equal(t, 1, idx.Len())

	c.Store("b", stubIndex{n: 2})
	_, ok = c.Load("a")
	assert.False(t, ok)
	idx, ok = c.Load("b")
	assert.True(t, ok)
	assert.Equal(t, 2, idx.Len())
}

func TestSingleSlotCacheConcurrentStores(t *testing.T) {
	c := NewSingleSlotCache()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Store(strconv.Itoa(i), stubIndex{n: i})
			c.Load(strconv.Itoa(i))
		}(i)
	}
	wg.Wait()

	// exactly one of the writers owns the slot
	hits := 0
	for i := 0; i < 16; i++ {
		if idx, ok := c.Load(strconv.Itoa(i)); ok {
			hits++
			assert.Equal(t, i, idx.Len())
		}
	}
	assert.Equal(t, 1, hits)
}
