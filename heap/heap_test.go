package heap

import (
	"bytes"
	"testing"

	"github.com/relstore/heapdb/dberrors"
	"github.com/relstore/heapdb/dbtypes"
	"github.com/relstore/heapdb/storage/buffer"
	"github.com/relstore/heapdb/storage/page"
	"github.com/relstore/heapdb/storage/pagefile"
)

func newTestHeap(t *testing.T, poolSize int) (*buffer.BufferPoolManager, *pagefile.Store, *File) {
	t.Helper()
	store := pagefile.NewMemStore()
	bpm := buffer.New(poolSize)
	f, err := Create(bpm, store, "rel")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return bpm, store, f
}

func rec(n int, fill byte) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = fill
	}
	return b
}

func TestCreateOpenEmptyFile(t *testing.T) {
	_, _, f := newTestHeap(t, 8)
	if f.Name() != "rel" {
		t.Fatalf("expected name 'rel', got %q", f.Name())
	}
	if f.RecCount() != 0 {
		t.Fatalf("expected 0 records, got %d", f.RecCount())
	}
	if f.FirstPage().IsValid() {
		t.Fatalf("expected no data pages yet")
	}
}

func TestInsertThenGetRecord(t *testing.T) {
	_, _, f := newTestHeap(t, 8)
	ins := NewInsertScan(f)

	rid, err := ins.InsertRecord([]byte("hello"))
	if err != nil {
		t.Fatalf("InsertRecord: %v", err)
	}
	got, err := f.GetRecord(rid)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if !bytes.Equal(got, []byte("hello")) {
		t.Fatalf("got %q, want %q", got, "hello")
	}
	if f.RecCount() != 1 {
		t.Fatalf("expected reccount 1, got %d", f.RecCount())
	}
}

func TestInsertZeroLengthRecordFails(t *testing.T) {
	_, _, f := newTestHeap(t, 8)
	ins := NewInsertScan(f)
	if _, err := ins.InsertRecord(nil); err != dberrors.ErrInvalidRecLen {
		t.Fatalf("expected ErrInvalidRecLen, got %v", err)
	}
}

// TestPageOverflowLinksNewPage is scenario 6: filling a page to
// capacity forces the next insert onto a freshly linked page.
func TestPageOverflowLinksNewPage(t *testing.T) {
	_, _, f := newTestHeap(t, 8)
	ins := NewInsertScan(f)

	recSize := 200
	perPage := int(page.MaxRecordLength) / (recSize + 8)
	var rids []dbtypes.RID
	for i := 0; i < perPage+2; i++ {
		rid, err := ins.InsertRecord(rec(recSize, byte(i)))
		if err != nil {
			t.Fatalf("InsertRecord %d: %v", i, err)
		}
		rids = append(rids, rid)
	}

	first := rids[0].PageNo
	last := rids[len(rids)-1].PageNo
	if first == last {
		t.Fatalf("expected overflow onto a second page, all records landed on page %d", first)
	}

	for i, rid := range rids {
		got, err := f.GetRecord(rid)
		if err != nil {
			t.Fatalf("GetRecord %d: %v", i, err)
		}
		if !bytes.Equal(got, rec(recSize, byte(i))) {
			t.Fatalf("record %d corrupted after overflow", i)
		}
	}
}

// TestThirdRecordOverflowsFirstPage reproduces the specification's
// scenario 6 literally: two records exactly fill the first page, a
// third of the same size forces a new linked page, and the
// header ends up with pageCnt=3 (header + 2 data pages).
func TestThirdRecordOverflowsFirstPage(t *testing.T) {
	_, _, f := newTestHeap(t, 8)
	ins := NewInsertScan(f)

	// Two records of this size, with their slot entries, use all of
	// a fresh page's free space.
	recSize := int(page.MaxRecordLength)/2 - 4

	rid0, err := ins.InsertRecord(rec(recSize, 0xA))
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}
	rid1, err := ins.InsertRecord(rec(recSize, 0xB))
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if rid0.PageNo != rid1.PageNo {
		t.Fatalf("expected first two records on the same page")
	}

	rid2, err := ins.InsertRecord(rec(recSize, 0xC))
	if err != nil {
		t.Fatalf("third insert: %v", err)
	}
	if rid2.PageNo == rid0.PageNo {
		t.Fatalf("expected the third record to overflow onto a new page")
	}

	if f.LastPage() != rid2.PageNo {
		t.Fatalf("expected header's last page to point at the new page")
	}
	pg, err := f.CurrentPage(rid0.PageNo)
	if err != nil {
		t.Fatal(err)
	}
	if pg.GetNextPage() != rid2.PageNo {
		t.Fatalf("expected the first page to link forward to the new page")
	}

	for i, rid := range []dbtypes.RID{rid0, rid1, rid2} {
		if _, err := f.GetRecord(rid); err != nil {
			t.Fatalf("record %d unreadable after overflow: %v", i, err)
		}
	}

	if got := f.header().pageCount(); got != 3 {
		t.Fatalf("expected pageCnt=3 (header + 2 data pages), got %d", got)
	}
}

// TestScanWithFilter is scenario 3.
func TestScanWithFilter(t *testing.T) {
	_, _, f := newTestHeap(t, 8)
	ins := NewInsertScan(f)

	for i := int32(0); i < 5; i++ {
		buf := make([]byte, 4)
		dbtypes.PutInt32(buf, i)
		if _, err := ins.InsertRecord(buf); err != nil {
			t.Fatal(err)
		}
	}

	filter := &Filter{Offset: 0, Length: 4, Type: Integer, Operator: GTE, Value: mustInt32Bytes(3)}
	sc, err := StartScan(f, filter)
	if err != nil {
		t.Fatal(err)
	}
	defer sc.EndScan()

	var got []int32
	for {
		rid, err := sc.ScanNext()
		if err == dberrors.ErrFileEOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		rec, err := sc.GetRecord()
		if err != nil {
			t.Fatal(err)
		}
		_ = rid
		got = append(got, dbtypes.Int32FromBytes(rec))
	}

	if len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Fatalf("expected [3 4], got %v", got)
	}
}

func mustInt32Bytes(v int32) []byte {
	b := make([]byte, 4)
	dbtypes.PutInt32(b, v)
	return b
}

// TestDeleteDuringScanDoesNotAdvance is scenario 4.
func TestDeleteDuringScanDoesNotAdvance(t *testing.T) {
	_, _, f := newTestHeap(t, 8)
	ins := NewInsertScan(f)
	for i := 0; i < 3; i++ {
		if _, err := ins.InsertRecord([]byte{byte(i)}); err != nil {
			t.Fatal(err)
		}
	}

	sc, err := StartScan(f, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer sc.EndScan()

	rid0, err := sc.ScanNext()
	if err != nil {
		t.Fatal(err)
	}
	if err := sc.DeleteRecord(); err != nil {
		t.Fatal(err)
	}
	if f.RecCount() != 2 {
		t.Fatalf("expected reccount 2 after delete, got %d", f.RecCount())
	}

	if _, err := f.GetRecord(rid0); err != dberrors.ErrBadRID {
		t.Fatalf("expected deleted record to be unreadable, got %v", err)
	}

	rid1, err := sc.ScanNext()
	if err != nil {
		t.Fatal(err)
	}
	if rid1.SlotNo != rid0.SlotNo+1 {
		t.Fatalf("expected scan to resume at the next slot after the deleted one")
	}
}

// TestMarkResetScan is scenario 5.
func TestMarkResetScan(t *testing.T) {
	_, _, f := newTestHeap(t, 8)
	ins := NewInsertScan(f)
	for i := 0; i < 3; i++ {
		if _, err := ins.InsertRecord([]byte{byte(i)}); err != nil {
			t.Fatal(err)
		}
	}

	sc, err := StartScan(f, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer sc.EndScan()

	if _, err := sc.ScanNext(); err != nil {
		t.Fatal(err)
	}
	mark := sc.MarkScan()

	// firstAfterMark is "the first scanNext after the mark" per the
	// specification's scenario 5 — reset must reproduce exactly this.
	firstAfterMark, err := sc.ScanNext()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sc.ScanNext(); err != nil {
		t.Fatal(err)
	}

	if err := sc.ResetScan(mark); err != nil {
		t.Fatal(err)
	}
	rid, err := sc.ScanNext()
	if err != nil {
		t.Fatal(err)
	}
	if rid != firstAfterMark {
		t.Fatalf("expected reset scan to reproduce %v, got %v", firstAfterMark, rid)
	}
}

func TestScanEmptyFileIsEOF(t *testing.T) {
	_, _, f := newTestHeap(t, 8)
	sc, err := StartScan(f, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer sc.EndScan()
	if _, err := sc.ScanNext(); err != dberrors.ErrFileEOF {
		t.Fatalf("expected ErrFileEOF on empty file, got %v", err)
	}
}

func TestBadScanParmOnNegativeOffset(t *testing.T) {
	_, _, f := newTestHeap(t, 8)
	_, err := StartScan(f, &Filter{Offset: -1, Length: 4, Type: Integer, Operator: EQ, Value: mustInt32Bytes(0)})
	if err != dberrors.ErrBadScanParm {
		t.Fatalf("expected ErrBadScanParm, got %v", err)
	}
}
