// Package common holds the ambient constants and helpers shared across
// every layer of the storage engine: page geometry, assertions, and
// labeled logging.
package common

const (
	// PageSize is the fixed size, in bytes, of every page the paged file
	// store and buffer pool exchange.
	PageSize = 4096

	// DPFixed is the fixed per-page header size (see storage/page) that
	// bounds how large a single record payload can be.
	DPFixed = 16

	// SlotSize is the size in bytes of one slot-directory entry
	// (uint32 offset, uint32 length).
	SlotSize = 8

	// DefaultHashTableLoadFactor sizes the pagetable bucket array as a
	// multiple of the number of buffer pool frames.
	DefaultHashTableLoadFactor = 1.2

	// MaxFileNameLength bounds the file name stored in a heap file's
	// header page.
	MaxFileNameLength = 48
)

// EnableDebug toggles verbose Debugf output. Off by default, the way
// the teacher codebase gates its own RDB_OP_FUNC_CALL tracing behind a
// package-level flag rather than an environment variable.
var EnableDebug = false
