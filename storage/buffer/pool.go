// Package buffer implements the buffer pool manager: a fixed-size
// in-memory cache of disk pages with clock replacement, pin counts,
// dirty-bit write-back, and a page-identity hash index kept
// synchronized with frame state on every success and failure path.
//
// Grounded on storage/buffer/buffer_pool_manager.go, restructured
// around an explicit frame array with per-frame reference bits (see
// clock.go) and a pagetable.Table hash index instead of a Go map, per
// the specification's §4.1/§4.2.
package buffer

import (
	"fmt"

	"github.com/relstore/heapdb/common"
	"github.com/relstore/heapdb/dberrors"
	"github.com/relstore/heapdb/dbtypes"
	"github.com/relstore/heapdb/storage/page"
	"github.com/relstore/heapdb/storage/pagefile"
	"github.com/relstore/heapdb/storage/pagetable"
)

// BufferPoolManager owns a fixed array of frames and the page-sized
// byte storage backing each of them.
type BufferPoolManager struct {
	frames []frameDescriptor
	data   [][]byte
	table  *pagetable.Table
	hand   *clock
}

// New constructs a buffer pool with numFrames frames.
func New(numFrames int) *BufferPoolManager {
	common.Assert(numFrames > 0, "buffer.New: numFrames must be positive")
	data := make([][]byte, numFrames)
	for i := range data {
		data[i] = make([]byte, common.PageSize)
	}
	return &BufferPoolManager{
		frames: make([]frameDescriptor, numFrames),
		data:   data,
		table:  pagetable.New(numFrames),
		hand:   newClock(),
	}
}

func (b *BufferPoolManager) key(file *pagefile.File, pageNo dbtypes.PageID) pagetable.Key {
	return pagetable.Key{File: file, PageNo: pageNo}
}

// ReadPage fetches the requested page into the buffer pool, pinning
// it, and returns a handle to its bytes.
func (b *BufferPoolManager) ReadPage(file *pagefile.File, pageNo dbtypes.PageID) (*PageHandle, error) {
	k := b.key(file, pageNo)
	if frame, err := b.table.Lookup(k); err == nil {
		fd := &b.frames[frame]
		fd.pinCnt++
		fd.refbit = true
		return &PageHandle{bpm: b, file: file, pageNo: pageNo, frame: int(frame)}, nil
	}

	frame, err := b.allocBuf()
	if err != nil {
		return nil, err
	}

	if err := file.ReadPage(pageNo, b.data[frame]); err != nil {
		return nil, fmt.Errorf("%w: %v", dberrors.ErrUnix, err)
	}

	fd := &b.frames[frame]
	fd.file = file
	fd.pageNo = pageNo
	fd.pinCnt = 1
	fd.dirty = false
	fd.valid = true
	fd.refbit = true

	if err := b.table.Insert(k, pagetable.FrameID(frame)); err != nil {
		fd.reset()
		return nil, err
	}

	return &PageHandle{bpm: b, file: file, pageNo: pageNo, frame: frame}, nil
}

// UnpinPage releases one pin on (file, pageNo). If dirty is true the
// frame's dirty flag is OR'd in — it is never cleared here, only ever
// set, so an earlier dirtying is never lost by a later clean unpin.
func (b *BufferPoolManager) UnpinPage(file *pagefile.File, pageNo dbtypes.PageID, dirty bool) error {
	k := b.key(file, pageNo)
	frame, err := b.table.Lookup(k)
	if err != nil {
		return dberrors.ErrHashNotFound
	}
	fd := &b.frames[frame]
	if fd.pinCnt <= 0 {
		return dberrors.ErrPageNotPinned
	}
	fd.pinCnt--
	if dirty {
		fd.dirty = true
	}
	return nil
}

// AllocPage asks the paged file store for a new page number, binds it
// to a frame, zero-initializes it, and returns it pinned.
func (b *BufferPoolManager) AllocPage(file *pagefile.File) (dbtypes.PageID, *PageHandle, error) {
	pageNo, err := file.AllocatePage()
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", dberrors.ErrUnix, err)
	}

	frame, err := b.allocBuf()
	if err != nil {
		return 0, nil, err
	}

	pg := page.New(b.data[frame])
	pg.Init()

	fd := &b.frames[frame]
	fd.file = file
	fd.pageNo = pageNo
	fd.pinCnt = 1
	fd.dirty = false
	fd.valid = true
	fd.refbit = true

	if err := b.table.Insert(b.key(file, pageNo), pagetable.FrameID(frame)); err != nil {
		fd.reset()
		return 0, nil, err
	}

	return pageNo, &PageHandle{bpm: b, file: file, pageNo: pageNo, frame: frame}, nil
}

// DisposePage evicts (file, pageNo) from the cache if present and
// asks the paged file store to dispose of the underlying page.
func (b *BufferPoolManager) DisposePage(file *pagefile.File, pageNo dbtypes.PageID) error {
	k := b.key(file, pageNo)
	if frame, err := b.table.Lookup(k); err == nil {
		b.frames[frame].reset()
		if err := b.table.Remove(k); err != nil {
			return err
		}
	}
	if err := file.DisposePage(pageNo); err != nil {
		return fmt.Errorf("%w: %v", dberrors.ErrUnix, err)
	}
	return nil
}

// FlushFile writes back every dirty frame belonging to file and
// evicts them all from the cache. It fails with ErrPagePinned if any
// frame belonging to file is still pinned, and ErrBadBuffer if it
// finds a descriptor whose valid/hash-index bookkeeping has drifted
// out of sync (a bug, not caller error).
func (b *BufferPoolManager) FlushFile(file *pagefile.File) error {
	for i := range b.frames {
		fd := &b.frames[i]
		if fd.file != file {
			continue
		}
		if !fd.valid {
			return dberrors.ErrBadBuffer
		}
		if fd.pinCnt > 0 {
			return dberrors.ErrPagePinned
		}
		if fd.dirty {
			if err := file.WritePage(fd.pageNo, b.data[i]); err != nil {
				return fmt.Errorf("%w: %v", dberrors.ErrUnix, err)
			}
			fd.dirty = false
		}
		if err := b.table.Remove(b.key(file, fd.pageNo)); err != nil {
			return err
		}
		fd.reset()
	}
	return nil
}

// allocBuf finds a frame to (re)use via the clock replacement policy.
// A dirty victim is written back before being reused; a valid victim
// is removed from the hash index. If the write-back fails, the frame
// is left exactly as it was — still dirty, still valid, not reused —
// so no dirty write is ever silently lost.
func (b *BufferPoolManager) allocBuf() (int, error) {
	idx, ok := b.hand.victim(b.frames)
	if !ok {
		return 0, dberrors.ErrBufferExceeded
	}

	fd := &b.frames[idx]
	if fd.valid {
		if fd.dirty {
			if err := fd.file.WritePage(fd.pageNo, b.data[idx]); err != nil {
				return 0, fmt.Errorf("%w: %v", dberrors.ErrUnix, err)
			}
			fd.dirty = false
		}
		if err := b.table.Remove(b.key(fd.file, fd.pageNo)); err != nil {
			return 0, err
		}
	}
	fd.reset()
	return idx, nil
}

// Close flushes every valid dirty frame across every cached file and
// releases the pool's storage. Write-back failures during teardown
// are logged, not propagated, since a destructor cannot meaningfully
// report failure back to a caller.
func (b *BufferPoolManager) Close() {
	for i := range b.frames {
		fd := &b.frames[i]
		if fd.valid && fd.dirty {
			if err := fd.file.WritePage(fd.pageNo, b.data[i]); err != nil {
				common.Warnf("bufferpool", "flush on close failed for page %d: %v", fd.pageNo, err)
				continue
			}
			fd.dirty = false
		}
	}
	b.frames = nil
	b.data = nil
	b.table = nil
}
