// Command heapdemo wires a paged file store, a buffer pool manager,
// and the heap-file / executor layers together end to end: create a
// relation, insert a handful of records, scan them back with a
// filter, and delete a few — all against an on-disk file store rather
// than the in-memory one the test suite uses.
package main

import (
	"flag"
	"os"

	"github.com/relstore/heapdb/common"
	"github.com/relstore/heapdb/dberrors"
	"github.com/relstore/heapdb/dbtypes"
	"github.com/relstore/heapdb/executor"
	"github.com/relstore/heapdb/heap"
	"github.com/relstore/heapdb/storage/buffer"
	"github.com/relstore/heapdb/storage/pagefile"
)

const label = "heapdemo"

func main() {
	dir := flag.String("dir", "", "directory to hold the demo's data file (a temp dir is used if empty)")
	poolFrames := flag.Int("frames", 16, "buffer pool size in frames")
	flag.Parse()

	if err := run(*dir, *poolFrames); err != nil {
		common.Logf(label, "failed: %v", err)
		os.Exit(1)
	}
}

func run(dir string, poolFrames int) error {
	if dir == "" {
		tmp, err := os.MkdirTemp("", "heapdemo-*")
		if err != nil {
			return err
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}

	store := pagefile.NewStore(dir)
	bpm := buffer.New(poolFrames)
	defer bpm.Close()

	cat := executor.NewCatalog(bpm, store)
	rel, err := cat.CreateRelation("people", []executor.Attr{
		{Name: "id", Offset: 0, Length: 4, Type: heap.Integer},
		{Name: "name", Offset: 4, Length: 16, Type: heap.String},
	})
	if err != nil {
		return err
	}

	people := []struct {
		id   int32
		name string
	}{
		{1, "alice"}, {2, "bob"}, {3, "carol"}, {4, "dave"},
	}
	for _, p := range people {
		if _, err := executor.Insert(rel, personValues(p.id, p.name)); err != nil {
			return err
		}
	}
	common.Logf(label, "inserted %d records into %q", len(people), rel.Name)

	idBuf := make([]byte, 4)
	dbtypes.PutInt32(idBuf, 2)
	sc, err := executor.Select(rel, "id", heap.GT, idBuf)
	if err != nil {
		return err
	}
	defer sc.EndScan()

	matched := 0
	for {
		rid, err := sc.ScanNext()
		if err == dberrors.ErrFileEOF {
			break
		}
		if err != nil {
			return err
		}
		rec, err := rel.File.GetRecord(rid)
		if err != nil {
			return err
		}
		common.Logf(label, "scanned rid=%v id=%d name=%q", rid, dbtypes.Int32FromBytes(rec[:4]), trimNulls(rec[4:]))
		matched++
	}
	common.Logf(label, "%d records had id > 2", matched)

	n, err := executor.Delete(rel, "id", heap.LTE, idBuf)
	if err != nil {
		return err
	}
	common.Logf(label, "deleted %d records with id <= 2, %d remain", n, rel.File.RecCount())

	return rel.File.Close()
}

func personValues(id int32, name string) []executor.Value {
	idBuf := make([]byte, 4)
	dbtypes.PutInt32(idBuf, id)
	nameBuf := make([]byte, 16)
	copy(nameBuf, name)
	return []executor.Value{
		{Name: "id", Type: heap.Integer, Data: idBuf},
		{Name: "name", Type: heap.String, Data: nameBuf},
	}
}

func trimNulls(b []byte) string {
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return string(b[:n])
}
