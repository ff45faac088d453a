package buffer

import (
	"github.com/relstore/heapdb/dbtypes"
	"github.com/relstore/heapdb/storage/page"
	"github.com/relstore/heapdb/storage/pagefile"
)

// PageHandle is a pin guard: the only way callers observe a page
// pinned in the buffer pool. Its scope bounds the pin's validity —
// bytes obtained through it must not be read after Unpin — matching
// the design note in the specification that record lifetime should be
// explicit rather than a bare pointer into pool memory.
type PageHandle struct {
	bpm    *BufferPoolManager
	file   *pagefile.File
	pageNo dbtypes.PageID
	frame  int
}

// Page returns a page.Page view over this handle's frame bytes.
func (h *PageHandle) Page() *page.Page {
	return page.New(h.bpm.data[h.frame])
}

// PageNo returns the page number this handle pins.
func (h *PageHandle) PageNo() dbtypes.PageID {
	return h.pageNo
}

// Unpin releases the pin held by this handle. dirty is OR'd into the
// frame's dirty flag exactly as UnpinPage specifies.
func (h *PageHandle) Unpin(dirty bool) error {
	return h.bpm.UnpinPage(h.file, h.pageNo, dirty)
}
