package dbtypes

import "encoding/binary"

// PutUint32 and Uint32FromBytes are the little-endian scalar codecs
// shared by page headers, slot directories, and file header pages —
// the same role types.UInt32.Serialize plays in the teacher codebase,
// collapsed to plain functions since this repo has no need for a
// distinct wrapper type per width.

func PutUint32(buf []byte, v uint32) {
	binary.LittleEndian.PutUint32(buf, v)
}

func Uint32FromBytes(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf)
}

func PutInt32(buf []byte, v int32) {
	binary.LittleEndian.PutUint32(buf, uint32(v))
}

func Int32FromBytes(buf []byte) int32 {
	return int32(binary.LittleEndian.Uint32(buf))
}
