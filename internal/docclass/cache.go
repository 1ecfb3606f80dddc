package docclass

import (
	"context"
	"sync"
)

// MemoryTemplateCache is an in-process TemplateCache. It is safe for
// concurrent use.
type MemoryTemplateCache struct {
	mu        sync.RWMutex
	templates map[string]TemplateMatch
}

// NewMemoryTemplateCache creates an empty cache.
func NewMemoryTemplateCache() *MemoryTemplateCache {
	return &MemoryTemplateCache{
		templates: make(map[string]TemplateMatch),
	}
}

// Register stores a template under the document's structural hash.
func (c *MemoryTemplateCache) Register(structuralHash string, match TemplateMatch) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.templates[structuralHash] = match
}

// Lookup returns the template for the hash, or nil if none is known.
func (c *MemoryTemplateCache) Lookup(_ context.Context, structuralHash string) (*TemplateMatch, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	match, ok := c.templates[structuralHash]
	if !ok {
		return nil, nil
	}
	return &match, nil
}

// Ensure interface is implemented at compile time.
var _ TemplateCache = (*MemoryTemplateCache)(nil)
