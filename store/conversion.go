package store

import (
	"fmt"
	"sync"

	"github.com/oldman-go/oldman/om"
)

// AttributeMapping maps client attribute names to store attribute names.
// Names absent from the mapping keep their client name.
type AttributeMapping map[string]string

// ConversionManager translates resources between a client registry and a
// store registry. Changed entries are cloned across the boundary so the
// two sides keep independent diff baselines. Models without a registered
// mapping are treated as equivalent and the resource passes through
// unconverted.
type ConversionManager struct {
	mu       sync.RWMutex
	mappings map[string]AttributeMapping // keyed by client model name
}

// NewConversionManager returns an empty conversion manager.
func NewConversionManager() *ConversionManager {
	return &ConversionManager{mappings: make(map[string]AttributeMapping)}
}

// RegisterMapping declares an attribute-name mapping for a client model.
func (c *ConversionManager) RegisterMapping(modelName string, m AttributeMapping) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mappings[modelName] = m
}

func (c *ConversionManager) mappingFor(r *om.Resource) AttributeMapping {
	m := r.PrimaryModel()
	if m == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.mappings[m.Name()]
}

// ToStore produces the store-side resource for a client resource. With no
// registered mapping the client resource itself is returned.
func (c *ConversionManager) ToStore(src *om.Resource, storeReg *om.Registry) (*om.Resource, error) {
	mapping := c.mappingFor(src)
	if mapping == nil {
		return src, nil
	}
	dst, err := om.NewResourceWithID(storeReg, src.Types(), src.ID())
	if err != nil {
		return nil, err
	}
	dst.RestoreBaseline(src.FormerTypes(), src.IsPersisted())
	if err := c.copyEntries(src, dst, mapping); err != nil {
		return nil, err
	}
	return dst, nil
}

// AckFromStore folds the store-side resource's acknowledged state back
// into the client resource after a successful save. A pass-through
// conversion needs no folding.
func (c *ConversionManager) AckFromStore(client, stored *om.Resource) error {
	if client == stored {
		return nil
	}
	mapping := c.mappingFor(client)
	reverse := make(AttributeMapping, len(mapping))
	for from, to := range mapping {
		reverse[to] = from
	}
	if err := c.copyEntries(stored, client, reverse); err != nil {
		return err
	}
	client.RestoreBaseline(stored.FormerTypes(), stored.IsPersisted())
	if client.ID().IsTemporary() && !stored.ID().IsTemporary() {
		return client.PromoteID(stored.ID().IRI())
	}
	return nil
}

func (c *ConversionManager) copyEntries(src, dst *om.Resource, mapping AttributeMapping) error {
	for _, m := range src.Models() {
		for name, srcAttr := range m.Attributes() {
			dstName := name
			if mapped, ok := mapping[name]; ok {
				dstName = mapped
			}
			dstAttr, err := dst.Attribute(dstName)
			if err != nil {
				return fmt.Errorf("store: conversion of attribute %q: %w", name, err)
			}
			dst.RestoreEntry(dstAttr, src.EntrySnapshot(srcAttr))
		}
	}
	return nil
}
