package heap

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/relstore/heapdb/dberrors"
)

// AttrType names the interpretation applied to the bytes at a
// Filter's offset before comparison.
type AttrType int

const (
	Integer AttrType = iota
	Float
	String
)

// Operator names one of the six comparisons a Filter may apply.
type Operator int

const (
	LT Operator = iota
	LTE
	EQ
	GTE
	GT
	NE
)

// Filter selects records whose bytes at [Offset, Offset+Length)
// satisfy Operator against Value, interpreting both sides as Type.
type Filter struct {
	Offset   int32
	Length   int32
	Type     AttrType
	Operator Operator
	Value    []byte
}

// valid reports whether the filter's shape is usable at all: negative
// offsets/lengths, a mismatched value length for a fixed-width
// numeric type, or an operator outside the six, are caller errors.
func (f Filter) valid() bool {
	if f.Offset < 0 || f.Length <= 0 {
		return false
	}
	if f.Operator < LT || f.Operator > NE {
		return false
	}
	switch f.Type {
	case Integer, Float:
		return int32(len(f.Value)) == f.Length && (f.Length == 4 || f.Length == 8)
	case String:
		return true
	default:
		return false
	}
}

// matches evaluates the filter against a record's bytes. Heap files
// hold variable-length records, so a record too short to reach the
// filter's offset is not an error — it simply does not match, and the
// scan continues past it.
func (f Filter) matches(rec []byte) (bool, error) {
	if int32(len(rec)) < f.Offset+f.Length {
		return false, nil
	}
	field := rec[f.Offset : f.Offset+f.Length]

	switch f.Type {
	case Integer:
		return compareOrdered(decodeInt(field), decodeInt(f.Value), f.Operator), nil
	case Float:
		return compareOrdered(decodeFloat(field), decodeFloat(f.Value), f.Operator), nil
	case String:
		return compareBytes(field, f.Value, f.Operator), nil
	default:
		return false, dberrors.ErrBadScanParm
	}
}

func decodeInt(b []byte) int64 {
	if len(b) == 4 {
		return int64(int32(binary.LittleEndian.Uint32(b)))
	}
	return int64(binary.LittleEndian.Uint64(b))
}

func decodeFloat(b []byte) float64 {
	if len(b) == 4 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func compareOrdered[T int64 | float64](a, b T, op Operator) bool {
	switch op {
	case LT:
		return a < b
	case LTE:
		return a <= b
	case EQ:
		return a == b
	case GTE:
		return a >= b
	case GT:
		return a > b
	case NE:
		return a != b
	default:
		return false
	}
}

func compareBytes(a, b []byte, op Operator) bool {
	c := bytes.Compare(a, b)
	switch op {
	case LT:
		return c < 0
	case LTE:
		return c <= 0
	case EQ:
		return c == 0
	case GTE:
		return c >= 0
	case GT:
		return c > 0
	case NE:
		return c != 0
	default:
		return false
	}
}
