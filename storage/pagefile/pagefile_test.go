package pagefile

import (
	"bytes"
	"testing"

	"github.com/relstore/heapdb/common"
	"github.com/relstore/heapdb/dberrors"
	"github.com/relstore/heapdb/dbtypes"
)

func TestCreateOpenDestroy(t *testing.T) {
	s := NewMemStore()

	if err := s.CreateFile("rel1"); err != nil {
		t.Fatalf("CreateFile: %v", err)
	}
	if err := s.CreateFile("rel1"); err != dberrors.ErrFileExists {
		t.Fatalf("expected ErrFileExists, got %v", err)
	}

	f, err := s.OpenFile("rel1")
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}

	first, err := f.GetFirstPage()
	if err != nil || first != 0 {
		t.Fatalf("GetFirstPage: got (%v, %v)", first, err)
	}

	if err := s.CloseFile(f); err != nil {
		t.Fatalf("CloseFile: %v", err)
	}
	if err := s.DestroyFile("rel1"); err != nil {
		t.Fatalf("DestroyFile: %v", err)
	}
	if _, err := s.OpenFile("rel1"); err != dberrors.ErrFileNotFound {
		t.Fatalf("expected ErrFileNotFound, got %v", err)
	}
}

func TestAllocateReadWritePage(t *testing.T) {
	s := NewMemStore()
	if err := s.CreateFile("t"); err != nil {
		t.Fatal(err)
	}
	f, err := s.OpenFile("t")
	if err != nil {
		t.Fatal(err)
	}

	p0, err := f.AllocatePage()
	if err != nil || p0 != 0 {
		t.Fatalf("AllocatePage: got (%v, %v)", p0, err)
	}
	p1, err := f.AllocatePage()
	if err != nil || p1 != 1 {
		t.Fatalf("AllocatePage: got (%v, %v)", p1, err)
	}

	buf := make([]byte, common.PageSize)
	for i := range buf {
		buf[i] = byte(i % 251)
	}
	if err := f.WritePage(p1, buf); err != nil {
		t.Fatalf("WritePage: %v", err)
	}

	readBack := make([]byte, common.PageSize)
	if err := f.ReadPage(p1, readBack); err != nil {
		t.Fatalf("ReadPage: %v", err)
	}
	if !bytes.Equal(buf, readBack) {
		t.Fatalf("read back data does not match written data")
	}

	// A page that was never written reads back as all zero: the paged
	// file store zero-fills reads past the end of the file.
	zeroBuf := make([]byte, common.PageSize)
	unwritten := make([]byte, common.PageSize)
	if err := f.ReadPage(dbtypes.PageID(5), unwritten); err != nil {
		t.Fatalf("ReadPage of never-written page: %v", err)
	}
	if !bytes.Equal(zeroBuf, unwritten) {
		t.Fatalf("expected zero-filled page for unwritten page number")
	}
}
