// Package pagefile implements the paged file store collaborator: it
// opens, creates, and destroys named files, and allocates, reads,
// writes, and disposes fixed-size pages within them. It sits below
// everything else in the storage engine and knows nothing about
// records, slots, or buffering.
//
// Grounded on storage/disk/disk_manager_impl.go's single-file
// os.File handling, generalized to multiple named files behind one
// Store the way the specification's "paged file store" collaborator
// requires.
package pagefile

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	deadlock "github.com/sasha-s/go-deadlock"

	"github.com/relstore/heapdb/common"
	"github.com/relstore/heapdb/dberrors"
	"github.com/relstore/heapdb/dbtypes"
)

// File is a single open paged file. Its identity (the pointer itself)
// is what the buffer pool's page table keys on, per the specification's
// "address-equal ... value the buffer pool uses elsewhere". Its mutex
// guards nextPageNo only — AllocatePage is the one operation on an
// otherwise single-threaded File that a demo or future caller might
// reasonably invoke from more than one goroutine (e.g. a bulk loader
// racing an interactive session against the same open handle).
type File struct {
	name       string
	backing    backingFile
	nextPageNo dbtypes.PageID
	mu         deadlock.Mutex
}

// backingFile abstracts the raw byte-addressable storage under a File
// so the same File/Store logic serves both a real on-disk file
// (osBackingFile) and an in-memory one (memBackingFile, for tests).
type backingFile interface {
	ReadAt(buf []byte, off int64) (int, error)
	WriteAt(buf []byte, off int64) (int, error)
	Size() int64
	Close() error
}

// Store manages the set of named paged files rooted at a directory.
type Store struct {
	dir      string
	inMem    bool
	mu       deadlock.Mutex
	openMap  map[string]*File
	memFiles map[string]*memBackingFile
}

// NewStore returns a paged file store backed by real files under dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir, openMap: make(map[string]*File)}
}

// NewMemStore returns a paged file store backed entirely by in-memory
// files (github.com/dsnet/golib/memfile), grounded on
// storage/disk/virtual_disk_manager_impl.go's VirtualDiskManagerImpl.
// Intended for tests that should not touch the filesystem.
func NewMemStore() *Store {
	return &Store{
		inMem:    true,
		openMap:  make(map[string]*File),
		memFiles: make(map[string]*memBackingFile),
	}
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// CreateFile creates a new, empty named file. It fails with
// ErrFileExists if the name is already present.
func (s *Store) CreateFile(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inMem {
		if _, ok := s.memFiles[name]; ok {
			return dberrors.ErrFileExists
		}
		s.memFiles[name] = newMemBackingFile()
		return nil
	}

	p := s.path(name)
	if _, err := os.Stat(p); err == nil {
		return dberrors.ErrFileExists
	}
	f, err := os.OpenFile(p, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0666)
	if err != nil {
		return fmt.Errorf("%w: %v", dberrors.ErrUnix, err)
	}
	return f.Close()
}

// DestroyFile removes a named file entirely.
func (s *Store) DestroyFile(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.inMem {
		delete(s.memFiles, name)
		return nil
	}
	if err := os.Remove(s.path(name)); err != nil {
		return fmt.Errorf("%w: %v", dberrors.ErrUnix, err)
	}
	return nil
}

// OpenFile opens a named file for page-level I/O. If name is already
// open, the existing *File is returned rather than a second handle on
// the same bytes: the buffer pool keys cached pages on *File identity
// (pagetable.Key), so two distinct handles for the same name would let
// a page written through one go unseen by reads through the other.
func (s *Store) OpenFile(name string) (*File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.openMap[name]; ok {
		return f, nil
	}

	var backing backingFile
	var size int64

	if s.inMem {
		mb, ok := s.memFiles[name]
		if !ok {
			return nil, dberrors.ErrFileNotFound
		}
		backing = mb
		size = mb.Size()
	} else {
		p := s.path(name)
		osf, err := os.OpenFile(p, os.O_RDWR, 0666)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, dberrors.ErrFileNotFound
			}
			return nil, fmt.Errorf("%w: %v", dberrors.ErrUnix, err)
		}
		info, err := osf.Stat()
		if err != nil {
			osf.Close()
			return nil, fmt.Errorf("%w: %v", dberrors.ErrUnix, err)
		}
		backing = &osBackingFile{f: osf}
		size = info.Size()
	}

	nextPageNo := dbtypes.PageID(size / common.PageSize)
	f := &File{name: name, backing: backing, nextPageNo: nextPageNo}
	s.openMap[name] = f
	return f, nil
}

// CloseFile closes a previously opened file.
func (s *Store) CloseFile(f *File) error {
	s.mu.Lock()
	delete(s.openMap, f.name)
	s.mu.Unlock()
	return f.Close()
}

// Name returns the file's name, useful for logging.
func (f *File) Name() string { return f.name }

// Close releases the underlying backing storage.
func (f *File) Close() error {
	return f.backing.Close()
}

// AllocatePage reserves the next dense page number in the file. Page
// numbers are never reused within a Store's process lifetime; the
// bookkeeping needed to reclaim disposed page numbers belongs to a
// free-space map the heap-file layer above this one does not need,
// matching the teacher disk manager's "just keep an increasing
// counter" AllocatePage.
func (f *File) AllocatePage() (dbtypes.PageID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextPageNo
	f.nextPageNo++
	return id, nil
}

// DisposePage marks a page number as no longer in use. This
// implementation does not reclaim the underlying bytes; the paged
// file store never shrinks.
func (f *File) DisposePage(pageNo dbtypes.PageID) error {
	return nil
}

// ReadPage reads PAGESIZE bytes for pageNo into buf.
func (f *File) ReadPage(pageNo dbtypes.PageID, buf []byte) error {
	if len(buf) != common.PageSize {
		return fmt.Errorf("%w: read buffer must be PAGESIZE bytes", dberrors.ErrUnix)
	}
	off := int64(pageNo) * common.PageSize
	n, err := f.backing.ReadAt(buf, off)
	if err != nil && err != io.EOF {
		return fmt.Errorf("%w: %v", dberrors.ErrUnix, err)
	}
	for i := n; i < len(buf); i++ {
		buf[i] = 0
	}
	return nil
}

// WritePage writes PAGESIZE bytes from buf to pageNo.
func (f *File) WritePage(pageNo dbtypes.PageID, buf []byte) error {
	if len(buf) != common.PageSize {
		return fmt.Errorf("%w: write buffer must be PAGESIZE bytes", dberrors.ErrUnix)
	}
	off := int64(pageNo) * common.PageSize
	n, err := f.backing.WriteAt(buf, off)
	if err != nil {
		return fmt.Errorf("%w: %v", dberrors.ErrUnix, err)
	}
	if n != common.PageSize {
		return fmt.Errorf("%w: short write", dberrors.ErrUnix)
	}
	return nil
}

// GetFirstPage returns the page number of the file's header page,
// which is always page 0 by convention.
func (f *File) GetFirstPage() (dbtypes.PageID, error) {
	return 0, nil
}
