package rag

import (
	"crypto/md5"
	"encoding/hex"
	"sync"
)

// VectorStoreCache holds built indexes keyed by document hash.
type VectorStoreCache interface {
	Load(hash string) (Index, bool)
	Store(hash string, index Index)
}

// SingleSlotCache keeps exactly one index. Store always replaces the slot, so
// concurrent rebuilds end with whichever stored last. The mutex only guards the
// slot itself and is never held while an index is being built.
type SingleSlotCache struct {
	mu    sync.Mutex
	hash  string
	index Index
}

func NewSingleSlotCache() *SingleSlotCache {
	return &SingleSlotCache{}
}

func (c *SingleSlotCache) Load(hash string) (Index, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index == nil || c.hash != hash {
		return nil, false
	}
	return c.index, true
}

func (c *SingleSlotCache) Store(hash string, index Index) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hash = hash
	c.index = index
}

// ContentHash is the hex MD5 of the exact document bytes.
func ContentHash(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

var _ VectorStoreCache = (*SingleSlotCache)(nil)
