// Package dberrors carries the storage engine's error taxonomy as
// sentinel error values, the idiomatic-Go rendition of the status-code
// enum described by the specification: success is a nil error, and
// every distinguished failure mode (including scan exhaustion) is a
// package-level value comparable with errors.Is.
package dberrors

// Error is a constant string usable as an error value at compile
// time, the same pattern the teacher codebase uses for its own
// page-level sentinels (ErrEmptyTuple, ErrNotEnoughSpace, ...).
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrUnix reports a failure from the underlying paged file store
	// (open, read, write, or disk-full failures).
	ErrUnix = Error("heapdb: unix/disk I/O error")

	// ErrBufferExceeded reports that allocBuf swept every frame twice
	// without finding one to reuse: all frames are pinned.
	ErrBufferExceeded = Error("heapdb: buffer pool exhausted, no unpinned frame")

	// ErrBadBuffer reports a buffer pool descriptor found inconsistent
	// with the hash index during flushFile — a bug in bookkeeping, not
	// caller error.
	ErrBadBuffer = Error("heapdb: buffer descriptor inconsistent with page table")

	// ErrHashNotFound reports a pagetable lookup or remove for a key
	// that is not present.
	ErrHashNotFound = Error("heapdb: page table entry not found")

	// ErrHashTblError reports a pagetable insert conflicting with an
	// existing entry for the same key.
	ErrHashTblError = Error("heapdb: page table insert conflict")

	// ErrPageNotPinned reports UnpinPage called on a frame with a zero
	// pin count.
	ErrPageNotPinned = Error("heapdb: page is not pinned")

	// ErrPagePinned reports flushFile finding a pinned frame; every
	// pin must be balanced before a file can be flushed.
	ErrPagePinned = Error("heapdb: page is still pinned")

	// ErrNoSpace reports a page.InsertRecord call that does not fit in
	// the remaining free space of the target page.
	ErrNoSpace = Error("heapdb: page has no space for record")

	// ErrBadRID reports a negative page number or slot number passed
	// to a get/delete-by-RID operation.
	ErrBadRID = Error("heapdb: invalid record id")

	// ErrBadPageNo reports an operation attempted with no page
	// currently pinned as the cursor.
	ErrBadPageNo = Error("heapdb: no page pinned")

	// ErrInvalidRecLen reports an empty record, or one whose length
	// exceeds page.MaxRecordLength (PAGESIZE - DPFIXED minus one
	// slot-directory entry) and so can never fit on any page.
	ErrInvalidRecLen = Error("heapdb: record length exceeds page capacity")

	// ErrFileEOF is the distinguished scan-exhaustion status: not an
	// error condition, but returned like one so callers can propagate
	// it with a normal early return.
	ErrFileEOF = Error("heapdb: end of file")

	// ErrBadScanParm reports invalid arguments to StartScan (negative
	// offset/length, a length that does not match the value type, or
	// an unrecognized operator).
	ErrBadScanParm = Error("heapdb: invalid scan parameter")

	// ErrFileExists reports CreateFile called for a name that is
	// already present in the paged file store.
	ErrFileExists = Error("heapdb: file already exists")

	// ErrAttrNotFound reports a query-executor attribute lookup for a
	// name absent from the relation's schema.
	ErrAttrNotFound = Error("heapdb: attribute not found in relation")

	// ErrAttrTypeMismatch reports an insert whose supplied attribute
	// type does not match the schema's declared type.
	ErrAttrTypeMismatch = Error("heapdb: attribute type mismatch")

	// ErrInsufMem reports an allocation failure building an
	// in-memory structure. No operation in this module returns it.
	ErrInsufMem = Error("heapdb: insufficient memory")

	// ErrFileNotFound reports OpenFile for a name that does not exist.
	ErrFileNotFound = Error("heapdb: file not found")
)
