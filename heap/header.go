package heap

import (
	"github.com/relstore/heapdb/common"
	"github.com/relstore/heapdb/dbtypes"
)

// Header page layout (see SPEC_FULL.md §3): the fixed-layout struct
// every heap file's first page holds, giving the linked chain's
// endpoints and running counts.
const (
	hdrOffsetName      = 0
	hdrOffsetFirstPage = common.MaxFileNameLength
	hdrOffsetLastPage  = hdrOffsetFirstPage + 4
	hdrOffsetPageCount = hdrOffsetLastPage + 4
	hdrOffsetRecCount  = hdrOffsetPageCount + 4
)

// header is a thin struct overlay onto a header page's bytes, mirroring
// the way storage/access/table_page.go reads and writes fixed-offset
// fields directly out of a page's backing array.
type header struct {
	data []byte
}

func newHeader(data []byte) header {
	return header{data: data}
}

func (h header) init(name string) {
	for i := range h.data {
		h.data[i] = 0
	}
	nameBytes := []byte(name)
	if len(nameBytes) > common.MaxFileNameLength {
		nameBytes = nameBytes[:common.MaxFileNameLength]
	}
	copy(h.data[hdrOffsetName:hdrOffsetName+common.MaxFileNameLength], nameBytes)
	h.setFirstPage(dbtypes.InvalidPageID)
	h.setLastPage(dbtypes.InvalidPageID)
	h.setPageCount(1)
	h.setRecCount(0)
}

func (h header) name() string {
	raw := h.data[hdrOffsetName : hdrOffsetName+common.MaxFileNameLength]
	n := 0
	for n < len(raw) && raw[n] != 0 {
		n++
	}
	return string(raw[:n])
}

func (h header) firstPage() dbtypes.PageID {
	return dbtypes.PageIDFromBytes(h.data[hdrOffsetFirstPage:])
}

func (h header) setFirstPage(id dbtypes.PageID) {
	id.PutBytes(h.data[hdrOffsetFirstPage:])
}

func (h header) lastPage() dbtypes.PageID {
	return dbtypes.PageIDFromBytes(h.data[hdrOffsetLastPage:])
}

func (h header) setLastPage(id dbtypes.PageID) {
	id.PutBytes(h.data[hdrOffsetLastPage:])
}

func (h header) pageCount() uint32 {
	return dbtypes.Uint32FromBytes(h.data[hdrOffsetPageCount:])
}

func (h header) setPageCount(n uint32) {
	dbtypes.PutUint32(h.data[hdrOffsetPageCount:], n)
}

func (h header) recCount() uint32 {
	return dbtypes.Uint32FromBytes(h.data[hdrOffsetRecCount:])
}

func (h header) setRecCount(n uint32) {
	dbtypes.PutUint32(h.data[hdrOffsetRecCount:], n)
}
