package buffer

import (
	"github.com/relstore/heapdb/dbtypes"
	"github.com/relstore/heapdb/storage/pagefile"
)

// frameDescriptor is one entry of the buffer pool's fixed frame
// array, exactly as specified: which file and page it caches (if
// any), how many pins are outstanding, whether it needs writing back,
// whether it is bound to a page at all, and the clock reference bit.
type frameDescriptor struct {
	file   *pagefile.File
	pageNo dbtypes.PageID
	pinCnt int32
	dirty  bool
	valid  bool
	refbit bool
}

func (f *frameDescriptor) reset() {
	f.file = nil
	f.pageNo = dbtypes.InvalidPageID
	f.pinCnt = 0
	f.dirty = false
	f.valid = false
	f.refbit = false
}
