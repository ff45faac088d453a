package executor

import (
	"github.com/relstore/heapdb/dberrors"
	"github.com/relstore/heapdb/dbtypes"
	"github.com/relstore/heapdb/heap"
)

// Select opens a scan over rel matching attrName op value. An empty
// attrName selects every record, matching the caller's predicate
// straight through to heap.StartScan without any hand-filtering layer
// in between.
func Select(rel *Relation, attrName string, op heap.Operator, value []byte) (*heap.Scan, error) {
	if attrName == "" {
		return heap.StartScan(rel.File, nil)
	}
	a, err := rel.attr(attrName)
	if err != nil {
		return nil, err
	}
	if (a.Type == heap.Integer || a.Type == heap.Float) && int32(len(value)) != a.Length {
		return nil, dberrors.ErrAttrTypeMismatch
	}
	filter := &heap.Filter{Offset: a.Offset, Length: a.Length, Type: a.Type, Operator: op, Value: value}
	return heap.StartScan(rel.File, filter)
}

// Value is one caller-supplied attribute value, named so Insert can
// resolve and validate it against the target relation's schema before
// encoding it into the record's fixed layout.
type Value struct {
	Name string
	Type heap.AttrType
	Data []byte
}

// Insert validates that values matches rel's schema by count, name,
// and type — failing ErrAttrNotFound or ErrAttrTypeMismatch
// respectively, per the query-executor contract — then encodes the
// values into the relation's fixed record layout and appends it.
func Insert(rel *Relation, values []Value) (dbtypes.RID, error) {
	if len(values) != len(rel.Attrs) {
		return dbtypes.NullRID, dberrors.ErrAttrNotFound
	}
	record := make([]byte, rel.recordLength())
	for _, v := range values {
		a, err := rel.attr(v.Name)
		if err != nil {
			return dbtypes.NullRID, err
		}
		if a.Type != v.Type || int32(len(v.Data)) != a.Length {
			return dbtypes.NullRID, dberrors.ErrAttrTypeMismatch
		}
		copy(record[a.Offset:a.Offset+a.Length], v.Data)
	}
	return heap.NewInsertScan(rel.File).InsertRecord(record)
}

// Delete removes every record in rel matching attrName op value,
// returning the number of records deleted.
func Delete(rel *Relation, attrName string, op heap.Operator, value []byte) (int, error) {
	sc, err := Select(rel, attrName, op, value)
	if err != nil {
		return 0, err
	}
	defer sc.EndScan()

	n := 0
	for {
		_, err := sc.ScanNext()
		if err == dberrors.ErrFileEOF {
			break
		}
		if err != nil {
			return n, err
		}
		if err := sc.DeleteRecord(); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
