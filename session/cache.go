package session

import (
	"github.com/cayleygraph/quad"

	"github.com/oldman-go/oldman/internal/lru"
	"github.com/oldman-go/oldman/om"
)

// ResourceCache is an optional, pluggable LRU cache of loaded resources.
// Entries are invalidated explicitly on update and delete; there is no
// cross-session coherency, so a stale read after another session's commit
// is possible and must be handled by manual invalidation.
type ResourceCache struct {
	lru *lru.Cache
}

// NewResourceCache creates a cache holding up to size resources.
func NewResourceCache(size int) *ResourceCache {
	return &ResourceCache{lru: lru.New(size)}
}

// Get returns the cached resource for an IRI.
func (c *ResourceCache) Get(iri quad.IRI) (*om.Resource, bool) {
	v, ok := c.lru.Get(string(iri))
	if !ok {
		return nil, false
	}
	return v.(*om.Resource), true
}

// Put caches a resource under its IRI.
func (c *ResourceCache) Put(r *om.Resource) {
	c.lru.Put(string(r.ID().IRI()), r)
}

// Invalidate drops the entry for an IRI.
func (c *ResourceCache) Invalidate(iri quad.IRI) {
	c.lru.Del(string(iri))
}

// Len returns the number of cached resources.
func (c *ResourceCache) Len() int { return c.lru.Len() }
