// Package pagetable implements the buffer pool's hash index: the
// mapping from (file identity, page number) to the frame currently
// caching that page. Grounded on the teacher's own use of
// github.com/spaolacci/murmur3 for hashing keys in
// container/hash/hash_util.go, applied here to a bucketed hash table
// instead of a page-backed extendible one, since the buffer pool's
// page table is a small in-memory structure with no persistence
// requirement of its own.
package pagetable

import (
	"encoding/binary"

	"github.com/relstore/heapdb/common"
	"github.com/relstore/heapdb/dberrors"
	"github.com/relstore/heapdb/dbtypes"
	"github.com/spaolacci/murmur3"
)

// FrameID identifies a slot in the buffer pool's frame array.
type FrameID int32

// Key identifies a cached page: the file it belongs to (compared by
// identity, since File values are never copied) and its page number
// within that file.
type Key struct {
	File   interface{}
	PageNo dbtypes.PageID
}

type entry struct {
	key   Key
	frame FrameID
	next  *entry
}

// Table is a bucketed hash table mapping Key to FrameID. Its bucket
// count is fixed at construction, sized as a multiple of the buffer
// pool's frame count per the specification's "table size ≈ 1.2 ×
// number of frames".
type Table struct {
	buckets []*entry
	count   int
}

// New sizes a Table for a buffer pool of the given number of frames.
func New(numFrames int) *Table {
	size := int(float64(numFrames)*common.DefaultHashTableLoadFactor) + 1
	if size < 1 {
		size = 1
	}
	return &Table{buckets: make([]*entry, size)}
}

func (t *Table) bucketFor(k Key) int {
	buf := make([]byte, 8+4)
	binary.LittleEndian.PutUint64(buf[0:8], uint64(pointerBits(k.File)))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(k.PageNo))
	h := murmur3.Sum32(buf)
	return int(h) % len(t.buckets)
}

// Insert records that key is cached in frame. It fails with
// ErrHashTblError if key is already present (invariant 5 in the
// specification forbids two frames from caching the same page, so a
// caller hitting this has a bug elsewhere in the buffer pool).
func (t *Table) Insert(key Key, frame FrameID) error {
	idx := t.bucketFor(key)
	for e := t.buckets[idx]; e != nil; e = e.next {
		if e.key == key {
			return dberrors.ErrHashTblError
		}
	}
	t.buckets[idx] = &entry{key: key, frame: frame, next: t.buckets[idx]}
	t.count++
	return nil
}

// Lookup returns the frame currently caching key.
func (t *Table) Lookup(key Key) (FrameID, error) {
	idx := t.bucketFor(key)
	for e := t.buckets[idx]; e != nil; e = e.next {
		if e.key == key {
			return e.frame, nil
		}
	}
	return 0, dberrors.ErrHashNotFound
}

// Remove drops key from the table.
func (t *Table) Remove(key Key) error {
	idx := t.bucketFor(key)
	var prev *entry
	for e := t.buckets[idx]; e != nil; e = e.next {
		if e.key == key {
			if prev == nil {
				t.buckets[idx] = e.next
			} else {
				prev.next = e.next
			}
			t.count--
			return nil
		}
		prev = e
	}
	return dberrors.ErrHashNotFound
}

// Len returns the number of entries currently tracked.
func (t *Table) Len() int { return t.count }
