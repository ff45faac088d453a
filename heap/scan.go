package heap

import (
	"github.com/relstore/heapdb/dberrors"
	"github.com/relstore/heapdb/dbtypes"
)

// Scan is a forward-only cursor over a heap file's live records,
// optionally restricted by a Filter. It holds a *File rather than
// embedding one: a scan borrows the file's page-chain machinery, it is
// not a specialization of the file itself.
type Scan struct {
	file   *File
	filter *Filter

	curPageNo dbtypes.PageID
	curSlot   int32
}

// StartScan begins a scan over file. A nil filter matches every
// record. An invalid filter shape is rejected with ErrBadScanParm.
func StartScan(file *File, filter *Filter) (*Scan, error) {
	if filter != nil && !filter.valid() {
		return nil, dberrors.ErrBadScanParm
	}
	return &Scan{
		file:      file,
		filter:    filter,
		curPageNo: dbtypes.InvalidPageID,
		curSlot:   -1,
	}, nil
}

// EndScan releases any page pinned by the scan's traversal.
func (s *Scan) EndScan() error {
	return s.file.unpinCurrent()
}

// MarkScan captures the scan's current position as an RID. Marking
// does not pin the page it names — the position is only revisited (and
// re-pinned) on ResetScan.
func (s *Scan) MarkScan() dbtypes.RID {
	if !s.curPageNo.IsValid() {
		return dbtypes.NullRID
	}
	return dbtypes.RID{PageNo: s.curPageNo, SlotNo: s.curSlot}
}

// ResetScan rewinds the scan to a previously marked position. The next
// ScanNext call resumes forward from exactly that slot again.
func (s *Scan) ResetScan(rid dbtypes.RID) error {
	if err := s.file.unpinCurrent(); err != nil {
		return err
	}
	s.curPageNo = rid.PageNo
	s.curSlot = rid.SlotNo
	return nil
}

// ScanNext advances to the next record satisfying the scan's filter
// and returns its RID, or ErrFileEOF once the chain is exhausted.
func (s *Scan) ScanNext() (dbtypes.RID, error) {
	if !s.curPageNo.IsValid() {
		first := s.file.FirstPage()
		if !first.IsValid() {
			return dbtypes.NullRID, dberrors.ErrFileEOF
		}
		s.curPageNo = first
		s.curSlot = -1
	}

	for {
		pg, err := s.file.pinAsCurrent(s.curPageNo)
		if err != nil {
			return dbtypes.NullRID, err
		}

		var slot int32
		if s.curSlot < 0 {
			slot, err = pg.FirstRecord()
		} else {
			slot, err = pg.NextRecord(s.curSlot)
		}

		if err == dberrors.ErrFileEOF {
			next := pg.GetNextPage()
			if !next.IsValid() {
				return dbtypes.NullRID, dberrors.ErrFileEOF
			}
			s.curPageNo = next
			s.curSlot = -1
			continue
		}
		if err != nil {
			return dbtypes.NullRID, err
		}

		s.curSlot = slot
		rec, err := pg.GetRecord(slot)
		if err != nil {
			// FirstRecord/NextRecord already skip empty slots, so this
			// should not happen in practice; if it does, advance past
			// the slot and keep scanning rather than aborting.
			continue
		}
		if s.filter != nil {
			ok, err := s.filter.matches(rec)
			if err != nil {
				return dbtypes.NullRID, err
			}
			if !ok {
				continue
			}
		}
		return dbtypes.RID{PageNo: s.curPageNo, SlotNo: s.curSlot}, nil
	}
}

// GetRecord returns the bytes of the record at the scan's current
// position. It fails with ErrBadPageNo if the scan has no current
// position (ScanNext has not yet returned a record). After ScanNext
// returns ErrFileEOF the position stays on the last record returned.
func (s *Scan) GetRecord() ([]byte, error) {
	if !s.curPageNo.IsValid() || s.curSlot < 0 {
		return nil, dberrors.ErrBadPageNo
	}
	return s.file.GetRecord(dbtypes.RID{PageNo: s.curPageNo, SlotNo: s.curSlot})
}

// DeleteRecord deletes the record at the scan's current position
// without moving the cursor — a subsequent ScanNext still resumes
// searching from this slot forward.
func (s *Scan) DeleteRecord() error {
	if !s.curPageNo.IsValid() || s.curSlot < 0 {
		return dberrors.ErrBadRID
	}
	pg, err := s.file.pinAsCurrent(s.curPageNo)
	if err != nil {
		return err
	}
	if err := pg.DeleteRecord(s.curSlot); err != nil {
		return err
	}
	s.file.markCurrentDirty()
	s.file.IncRecCount(-1)
	return nil
}
