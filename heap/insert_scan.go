package heap

import (
	"github.com/relstore/heapdb/dberrors"
	"github.com/relstore/heapdb/dbtypes"
	"github.com/relstore/heapdb/storage/page"
)

// InsertScan appends records to a heap file. It always targets the
// file's last data page, falling back to allocating a fresh one when
// the last page has no room — matching the specification's scenario 6
// (page overflow triggers a new linked page, never in-place spill).
type InsertScan struct {
	file *File
}

// NewInsertScan returns an InsertScan appending to file.
func NewInsertScan(file *File) *InsertScan {
	return &InsertScan{file: file}
}

// InsertRecord appends rec to the heap file and returns its RID.
// Records must be non-empty and no larger than a page can ever hold.
func (s *InsertScan) InsertRecord(rec []byte) (dbtypes.RID, error) {
	if len(rec) <= 0 || int32(len(rec)) > page.MaxRecordLength {
		return dbtypes.NullRID, dberrors.ErrInvalidRecLen
	}

	pageNo, pg, err := s.currentTargetPage()
	if err != nil {
		return dbtypes.NullRID, err
	}

	slot, err := pg.InsertRecord(rec)
	if err == dberrors.ErrNoSpace {
		pageNo, pg, err = s.file.AppendPage(pageNo)
		if err != nil {
			return dbtypes.NullRID, err
		}
		slot, err = pg.InsertRecord(rec)
	}
	if err != nil {
		return dbtypes.NullRID, err
	}

	s.file.markCurrentDirty()
	s.file.IncRecCount(1)
	return dbtypes.RID{PageNo: pageNo, SlotNo: slot}, nil
}

// currentTargetPage returns the heap file's last data page, allocating
// the file's very first page if it has none yet.
func (s *InsertScan) currentTargetPage() (dbtypes.PageID, *page.Page, error) {
	if last := s.file.LastPage(); last.IsValid() {
		pg, err := s.file.CurrentPage(last)
		return last, pg, err
	}
	return s.file.EnsureFirstPage()
}
