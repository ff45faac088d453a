// Package page implements the binary layout of a single data page: a
// slot directory, packed variable-length record payloads, a next-page
// link, and free-space accounting.
//
// Layout, grounded on storage/access/table_page.go's slotted-page
// design (fixed header, slot directory growing forward, record bytes
// packed backward from the end of the page), simplified to a singly
// linked next-page pointer since this engine's heap files have no
// need for the teacher's doubly-linked previous-page pointer:
//
//	offset 0  : nextPageID    int32   (-1 = none)
//	offset 4  : slotCount     uint32  (slots ever allocated, occupied or free)
//	offset 8  : freeSpacePtr  uint32  (byte offset where packed record data begins)
//	offset 12 : padding to DPFixed (16)
//	offset 16 : slot directory, 8 bytes per slot: (uint32 offset, uint32 length);
//	            length == 0 marks an empty slot.
package page

import (
	"github.com/relstore/heapdb/common"
	"github.com/relstore/heapdb/dberrors"
	"github.com/relstore/heapdb/dbtypes"
)

const (
	offsetNextPage    = 0
	offsetSlotCount   = 4
	offsetFreeSpace   = 8
	headerSize        = common.DPFixed
	slotSize          = common.SlotSize
	slotOffsetInEntry = 0
	slotLengthInEntry = 4
)

// MaxRecordLength is the largest record payload that can ever fit on
// a page: the page size, minus the fixed header, minus room for the
// one slot-directory entry the record itself requires.
const MaxRecordLength = common.PageSize - common.DPFixed - common.SlotSize

// Page is a view over one PAGESIZE-byte slice, typically the storage
// backing a buffer pool frame. Page never allocates its own storage
// so that record bytes returned by GetRecord alias directly into
// whatever the caller pinned.
type Page struct {
	data []byte
}

// New wraps an existing PAGESIZE-byte slice as a Page. It does not
// initialize the header; call Init for a fresh page or rely on the
// bytes already being a previously initialized page read from disk.
func New(data []byte) *Page {
	common.Assert(len(data) == common.PageSize, "page.New: data must be PAGESIZE bytes")
	return &Page{data: data}
}

// Init zero-initializes the page header: no next page, no slots, and
// free space starting at the end of the page.
func (p *Page) Init() {
	for i := range p.data {
		p.data[i] = 0
	}
	p.setNextPageRaw(dbtypes.InvalidPageID)
	p.setSlotCount(0)
	p.setFreeSpacePtr(common.PageSize)
}

func (p *Page) getSlotCount() uint32 {
	return dbtypes.Uint32FromBytes(p.data[offsetSlotCount:])
}

func (p *Page) setSlotCount(n uint32) {
	dbtypes.PutUint32(p.data[offsetSlotCount:], n)
}

func (p *Page) getFreeSpacePtr() uint32 {
	return dbtypes.Uint32FromBytes(p.data[offsetFreeSpace:])
}

func (p *Page) setFreeSpacePtr(v uint32) {
	dbtypes.PutUint32(p.data[offsetFreeSpace:], v)
}

func (p *Page) setNextPageRaw(id dbtypes.PageID) {
	id.PutBytes(p.data[offsetNextPage:])
}

// GetNextPage returns the next-page link, or InvalidPageID if none.
func (p *Page) GetNextPage() dbtypes.PageID {
	return dbtypes.PageIDFromBytes(p.data[offsetNextPage:])
}

// SetNextPage sets the next-page link.
func (p *Page) SetNextPage(id dbtypes.PageID) {
	p.setNextPageRaw(id)
}

func (p *Page) slotEntryOffset(slot int32) int {
	return headerSize + int(slot)*slotSize
}

func (p *Page) getSlotOffset(slot int32) uint32 {
	e := p.slotEntryOffset(slot)
	return dbtypes.Uint32FromBytes(p.data[e+slotOffsetInEntry:])
}

func (p *Page) getSlotLength(slot int32) uint32 {
	e := p.slotEntryOffset(slot)
	return dbtypes.Uint32FromBytes(p.data[e+slotLengthInEntry:])
}

func (p *Page) setSlot(slot int32, recOffset, recLength uint32) {
	e := p.slotEntryOffset(slot)
	dbtypes.PutUint32(p.data[e+slotOffsetInEntry:], recOffset)
	dbtypes.PutUint32(p.data[e+slotLengthInEntry:], recLength)
}

// freeSpaceRemaining is the number of bytes between the end of the
// slot directory and the start of the packed record data. Whether a
// new record also needs a new slot entry is decided by InsertRecord.
func (p *Page) freeSpaceRemaining() uint32 {
	slotDirEnd := uint32(headerSize) + p.getSlotCount()*slotSize
	fsp := p.getFreeSpacePtr()
	if fsp < slotDirEnd {
		return 0
	}
	return fsp - slotDirEnd
}

// InsertRecord copies rec into the page and returns the slot number
// it was assigned. It fails with ErrNoSpace if the payload, plus any
// slot-directory growth it requires, does not fit.
func (p *Page) InsertRecord(rec []byte) (int32, error) {
	length := uint32(len(rec))

	var freeSlot int32 = -1
	slotCount := p.getSlotCount()
	for s := int32(0); uint32(s) < slotCount; s++ {
		if p.getSlotLength(s) == 0 {
			freeSlot = s
			break
		}
	}

	needsNewSlot := freeSlot < 0
	var needed uint32 = length
	if needsNewSlot {
		needed += slotSize
	}
	if needed > p.freeSpaceRemaining() {
		return 0, dberrors.ErrNoSpace
	}

	newFsp := p.getFreeSpacePtr() - length
	copy(p.data[newFsp:newFsp+length], rec)
	p.setFreeSpacePtr(newFsp)

	var slot int32
	if needsNewSlot {
		slot = int32(slotCount)
		p.setSlotCount(slotCount + 1)
	} else {
		slot = freeSlot
	}
	p.setSlot(slot, newFsp, length)
	return slot, nil
}

// DeleteRecord marks slot's record as free. The slot-directory entry
// itself is retained (so later slot numbers keep their identity);
// its offset and length are zeroed, and a length of 0 marks the slot
// empty.
func (p *Page) DeleteRecord(slot int32) error {
	if slot < 0 || uint32(slot) >= p.getSlotCount() {
		return dberrors.ErrBadRID
	}
	if p.getSlotLength(slot) == 0 {
		return dberrors.ErrBadRID
	}
	p.setSlot(slot, 0, 0)
	return nil
}

// GetRecord returns a slice aliasing the record bytes stored at slot.
// The slice is valid only as long as the page's backing storage
// remains pinned.
func (p *Page) GetRecord(slot int32) ([]byte, error) {
	if slot < 0 || uint32(slot) >= p.getSlotCount() {
		return nil, dberrors.ErrBadRID
	}
	length := p.getSlotLength(slot)
	if length == 0 {
		return nil, dberrors.ErrBadRID
	}
	off := p.getSlotOffset(slot)
	return p.data[off : off+length], nil
}

// FirstRecord returns the slot number of the first occupied slot,
// skipping empty ones, or ErrFileEOF if the page holds no records.
func (p *Page) FirstRecord() (int32, error) {
	slotCount := p.getSlotCount()
	for s := int32(0); uint32(s) < slotCount; s++ {
		if p.getSlotLength(s) != 0 {
			return s, nil
		}
	}
	return 0, dberrors.ErrFileEOF
}

// NextRecord returns the slot number of the first occupied slot after
// cur, skipping empty slots, or ErrFileEOF if there is none.
func (p *Page) NextRecord(cur int32) (int32, error) {
	slotCount := p.getSlotCount()
	for s := cur + 1; uint32(s) < slotCount; s++ {
		if p.getSlotLength(s) != 0 {
			return s, nil
		}
	}
	return 0, dberrors.ErrFileEOF
}

// Bytes returns the page's raw backing storage.
func (p *Page) Bytes() []byte {
	return p.data
}
