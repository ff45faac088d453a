// Package heap implements the heap-file access layer: a singly linked
// chain of fixed-size data pages fronted by a header page, plus the
// scan cursors built on top of it.
//
// Grounded on storage/access/table_heap.go and storage/access/table_page.go,
// restructured so that Scan and InsertScan each hold a *File rather than
// embedding one — a heap file's page-chain bookkeeping is shared state,
// not a base class two different cursor kinds specialize.
package heap

import (
	"fmt"

	"github.com/relstore/heapdb/common"
	"github.com/relstore/heapdb/dberrors"
	"github.com/relstore/heapdb/dbtypes"
	"github.com/relstore/heapdb/storage/buffer"
	"github.com/relstore/heapdb/storage/page"
	"github.com/relstore/heapdb/storage/pagefile"
)

// File is a handle onto an open heap file: its header page stays
// pinned for the handle's entire lifetime, and it tracks at most one
// other page pinned as the "current" page for record lookups.
type File struct {
	bpm   *buffer.BufferPoolManager
	store *pagefile.Store
	pf    *pagefile.File
	hdrH  *buffer.PageHandle

	curH      *buffer.PageHandle
	curPageNo dbtypes.PageID
	curDirty  bool

	hdrHeaderDirty bool
}

// Create initializes a brand new, empty heap file named name in store,
// then opens and returns a handle to it.
func Create(bpm *buffer.BufferPoolManager, store *pagefile.Store, name string) (*File, error) {
	if err := store.CreateFile(name); err != nil {
		return nil, err
	}
	pf, err := store.OpenFile(name)
	if err != nil {
		return nil, err
	}
	pageNo, h, err := bpm.AllocPage(pf)
	if err != nil {
		return nil, err
	}
	common.Assert(pageNo == 0, "heap.Create: header page must be the first page allocated")
	newHeader(h.Page().Bytes()).init(name)
	if err := h.Unpin(true); err != nil {
		return nil, err
	}
	return Open(bpm, store, name)
}

// Open opens an existing heap file, pinning its header page for the
// lifetime of the returned handle.
func Open(bpm *buffer.BufferPoolManager, store *pagefile.Store, name string) (*File, error) {
	pf, err := store.OpenFile(name)
	if err != nil {
		return nil, err
	}
	hdrPageNo, err := pf.GetFirstPage()
	if err != nil {
		return nil, err
	}
	hdrH, err := bpm.ReadPage(pf, hdrPageNo)
	if err != nil {
		return nil, err
	}
	return &File{
		bpm:       bpm,
		store:     store,
		pf:        pf,
		hdrH:      hdrH,
		curPageNo: dbtypes.InvalidPageID,
	}, nil
}

// Close unpins the current page (if any) and the header page, flushes
// every buffered page belonging to this file back to disk, and closes
// the underlying paged file. Flushing before closing matters: dirty
// pages sit in the buffer pool until evicted or explicitly flushed,
// and writing them back after the backing file is closed would fail.
func (f *File) Close() error {
	if err := f.unpinCurrent(); err != nil {
		return err
	}
	if err := f.hdrH.Unpin(f.hdrDirty()); err != nil {
		return err
	}
	if err := f.bpm.FlushFile(f.pf); err != nil {
		return err
	}
	return f.store.CloseFile(f.pf)
}

func (f *File) header() header {
	return newHeader(f.hdrH.Page().Bytes())
}

// hdrDirty reports whether the header page has been modified since it
// was pinned. Mutating operations update header fields in place and
// set a bool on this handle, rather than diffing bytes.
func (f *File) hdrDirty() bool {
	return f.hdrHeaderDirty
}

// Name returns the heap file's name as recorded in its header page.
func (f *File) Name() string {
	return f.header().name()
}

// RecCount returns the number of live records recorded in the header.
func (f *File) RecCount() uint32 {
	return f.header().recCount()
}

// unpinCurrent releases the pin (if any) held on the cursor's current
// page, propagating its dirty flag.
func (f *File) unpinCurrent() error {
	if f.curH == nil {
		return nil
	}
	err := f.curH.Unpin(f.curDirty)
	f.curH = nil
	f.curPageNo = dbtypes.InvalidPageID
	f.curDirty = false
	return err
}

// pinAsCurrent switches the cursor's current page to pageNo, unpinning
// whatever was pinned before. It is a no-op if pageNo is already the
// current page.
func (f *File) pinAsCurrent(pageNo dbtypes.PageID) (*page.Page, error) {
	if f.curH != nil && f.curPageNo == pageNo {
		return f.curH.Page(), nil
	}
	if err := f.unpinCurrent(); err != nil {
		return nil, err
	}
	h, err := f.bpm.ReadPage(f.pf, pageNo)
	if err != nil {
		return nil, err
	}
	f.curH = h
	f.curPageNo = pageNo
	f.curDirty = false
	return h.Page(), nil
}

// markCurrentDirty flags the pinned current page as modified so it is
// written back on unpin/eviction.
func (f *File) markCurrentDirty() {
	f.curDirty = true
}

// markHeaderDirty flags the header page as modified.
func (f *File) markHeaderDirty() {
	f.hdrHeaderDirty = true
}

// firstDataPage allocates the heap file's very first data page and
// links it in as both first and last page in the header.
func (f *File) firstDataPage() (dbtypes.PageID, *page.Page, error) {
	pageNo, h, err := f.bpm.AllocPage(f.pf)
	if err != nil {
		return 0, nil, err
	}
	hdr := f.header()
	hdr.setFirstPage(pageNo)
	hdr.setLastPage(pageNo)
	hdr.setPageCount(hdr.pageCount() + 1)
	f.markHeaderDirty()

	if err := f.unpinCurrent(); err != nil {
		return 0, nil, err
	}
	f.curH = h
	f.curPageNo = pageNo
	f.curDirty = false
	return pageNo, h.Page(), nil
}

// appendDataPage allocates a new data page, links it after the
// current last page, and updates the header's last-page pointer.
func (f *File) appendDataPage(afterPage dbtypes.PageID) (dbtypes.PageID, *page.Page, error) {
	pageNo, h, err := f.bpm.AllocPage(f.pf)
	if err != nil {
		return 0, nil, err
	}

	prev, err := f.pinAsCurrent(afterPage)
	if err != nil {
		return 0, nil, err
	}
	prev.SetNextPage(pageNo)
	f.markCurrentDirty()

	hdr := f.header()
	hdr.setLastPage(pageNo)
	hdr.setPageCount(hdr.pageCount() + 1)
	f.markHeaderDirty()

	if err := f.unpinCurrent(); err != nil {
		return 0, nil, err
	}
	f.curH = h
	f.curPageNo = pageNo
	f.curDirty = false
	return pageNo, h.Page(), nil
}

// FirstPage returns the heap file's first data page number, or
// InvalidPageID if the file has no data pages yet.
func (f *File) FirstPage() dbtypes.PageID {
	return f.header().firstPage()
}

// LastPage returns the heap file's last data page number, or
// InvalidPageID if the file has no data pages yet.
func (f *File) LastPage() dbtypes.PageID {
	return f.header().lastPage()
}

// NextPage returns the data page linked after pageNo, or
// InvalidPageID if pageNo is the last page in the chain.
func (f *File) NextPage(pageNo dbtypes.PageID) (dbtypes.PageID, error) {
	pg, err := f.pinAsCurrent(pageNo)
	if err != nil {
		return dbtypes.InvalidPageID, err
	}
	return pg.GetNextPage(), nil
}

// CurrentPage pins pageNo as the cursor's current page and returns a
// view onto it.
func (f *File) CurrentPage(pageNo dbtypes.PageID) (*page.Page, error) {
	return f.pinAsCurrent(pageNo)
}

// EnsureFirstPage returns the file's first data page, allocating one
// if the file is still empty.
func (f *File) EnsureFirstPage() (dbtypes.PageID, *page.Page, error) {
	if fp := f.FirstPage(); fp.IsValid() {
		pg, err := f.pinAsCurrent(fp)
		return fp, pg, err
	}
	return f.firstDataPage()
}

// AppendPage allocates a new data page linked after afterPage and
// makes it the cursor's current page.
func (f *File) AppendPage(afterPage dbtypes.PageID) (dbtypes.PageID, *page.Page, error) {
	return f.appendDataPage(afterPage)
}

// IncRecCount adjusts the header's live record count by delta.
func (f *File) IncRecCount(delta int32) {
	hdr := f.header()
	hdr.setRecCount(uint32(int32(hdr.recCount()) + delta))
	f.markHeaderDirty()
}

// GetRecord fetches the record identified by rid, returning
// ErrBadRID if the page or slot no longer holds a live record.
func (f *File) GetRecord(rid dbtypes.RID) ([]byte, error) {
	if rid.IsNull() || !rid.PageNo.IsValid() {
		return nil, dberrors.ErrBadRID
	}
	pg, err := f.pinAsCurrent(rid.PageNo)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dberrors.ErrBadRID, err)
	}
	rec, err := pg.GetRecord(rid.SlotNo)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(rec))
	copy(out, rec)
	return out, nil
}
