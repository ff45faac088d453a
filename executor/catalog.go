// Package executor is the thin query-executor boundary described in
// the specification: just enough schema bookkeeping to give select,
// insert, and delete drivers something to resolve attribute names
// against before calling straight into the heap-file layer.
//
// A full catalog (persisted system tables, DDL, multi-attribute
// indexes) is explicitly out of scope; this exists only so the drivers
// below have a caller-facing surface.
package executor

import (
	"fmt"

	"github.com/relstore/heapdb/dberrors"
	"github.com/relstore/heapdb/heap"
	"github.com/relstore/heapdb/storage/buffer"
	"github.com/relstore/heapdb/storage/pagefile"
)

// Attr describes one fixed-offset, fixed-width attribute of a
// Relation's record layout.
type Attr struct {
	Name   string
	Offset int32
	Length int32
	Type   heap.AttrType
}

// Relation binds a schema (an ordered list of Attrs) to an open heap
// file holding its records.
type Relation struct {
	Name  string
	Attrs []Attr
	File  *heap.File
}

func (r *Relation) attr(name string) (Attr, error) {
	for _, a := range r.Attrs {
		if a.Name == name {
			return a, nil
		}
	}
	return Attr{}, dberrors.ErrAttrNotFound
}

// recordLength returns the width of one fixed-layout record for the
// relation's schema: the byte just past the furthest attribute.
func (r *Relation) recordLength() int32 {
	var n int32
	for _, a := range r.Attrs {
		if end := a.Offset + a.Length; end > n {
			n = end
		}
	}
	return n
}

// Catalog holds one in-memory Relation per name, each backed by its
// own open heap file. It takes its buffer pool and paged file store
// as constructor arguments — there is no package-level global state.
type Catalog struct {
	bpm   *buffer.BufferPoolManager
	store *pagefile.Store
	rels  map[string]*Relation
}

// NewCatalog returns an empty catalog bound to bpm and store.
func NewCatalog(bpm *buffer.BufferPoolManager, store *pagefile.Store) *Catalog {
	return &Catalog{bpm: bpm, store: store, rels: make(map[string]*Relation)}
}

// CreateRelation creates a new heap file named name and registers it
// in the catalog under the given schema.
func (c *Catalog) CreateRelation(name string, attrs []Attr) (*Relation, error) {
	f, err := heap.Create(c.bpm, c.store, name)
	if err != nil {
		return nil, err
	}
	rel := &Relation{Name: name, Attrs: attrs, File: f}
	c.rels[name] = rel
	return rel, nil
}

// OpenRelation opens an existing heap file named name and registers it
// in the catalog under the given schema.
func (c *Catalog) OpenRelation(name string, attrs []Attr) (*Relation, error) {
	f, err := heap.Open(c.bpm, c.store, name)
	if err != nil {
		return nil, err
	}
	rel := &Relation{Name: name, Attrs: attrs, File: f}
	c.rels[name] = rel
	return rel, nil
}

// Relation returns a previously created or opened relation by name.
func (c *Catalog) Relation(name string) (*Relation, error) {
	rel, ok := c.rels[name]
	if !ok {
		return nil, fmt.Errorf("%w: relation %q not registered in catalog", dberrors.ErrFileNotFound, name)
	}
	return rel, nil
}
