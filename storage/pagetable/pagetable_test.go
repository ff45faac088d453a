package pagetable

import (
	"testing"

	"github.com/relstore/heapdb/dberrors"
	"github.com/relstore/heapdb/dbtypes"
)

func TestInsertLookupRemove(t *testing.T) {
	fileA := new(int)
	fileB := new(int)
	tbl := New(4)

	kA0 := Key{File: fileA, PageNo: dbtypes.PageID(0)}
	kA1 := Key{File: fileA, PageNo: dbtypes.PageID(1)}
	kB0 := Key{File: fileB, PageNo: dbtypes.PageID(0)}

	if err := tbl.Insert(kA0, FrameID(3)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := tbl.Insert(kA1, FrameID(1)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := tbl.Insert(kB0, FrameID(2)); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	if err := tbl.Insert(kA0, FrameID(9)); err != dberrors.ErrHashTblError {
		t.Fatalf("expected ErrHashTblError on duplicate key, got %v", err)
	}

	if f, err := tbl.Lookup(kA0); err != nil || f != 3 {
		t.Fatalf("Lookup(kA0): got (%v, %v)", f, err)
	}
	if f, err := tbl.Lookup(kB0); err != nil || f != 2 {
		t.Fatalf("Lookup(kB0): got (%v, %v)", f, err)
	}

	if err := tbl.Remove(kA0); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := tbl.Lookup(kA0); err != dberrors.ErrHashNotFound {
		t.Fatalf("expected ErrHashNotFound after Remove, got %v", err)
	}
	if err := tbl.Remove(kA0); err != dberrors.ErrHashNotFound {
		t.Fatalf("expected ErrHashNotFound on double remove, got %v", err)
	}

	if tbl.Len() != 2 {
		t.Fatalf("expected 2 remaining entries, got %d", tbl.Len())
	}
}

func TestDistinctFilesDoNotCollide(t *testing.T) {
	fileA := new(int)
	fileB := new(int)
	tbl := New(8)

	for pn := 0; pn < 20; pn++ {
		if err := tbl.Insert(Key{File: fileA, PageNo: dbtypes.PageID(pn)}, FrameID(pn)); err != nil {
			t.Fatalf("Insert fileA/%d: %v", pn, err)
		}
	}
	if err := tbl.Insert(Key{File: fileB, PageNo: dbtypes.PageID(0)}, FrameID(100)); err != nil {
		t.Fatalf("Insert fileB/0: %v", err)
	}
	if f, err := tbl.Lookup(Key{File: fileB, PageNo: dbtypes.PageID(0)}); err != nil || f != 100 {
		t.Fatalf("Lookup(fileB/0): got (%v, %v)", f, err)
	}
}
