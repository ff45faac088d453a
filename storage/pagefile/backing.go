package pagefile

import (
	"os"

	"github.com/dsnet/golib/memfile"
)

// osBackingFile adapts *os.File to the backingFile interface used by
// File, grounded on storage/disk/disk_manager_impl.go's Seek+Read /
// Seek+Write pattern, expressed with the ReaderAt/WriterAt methods
// os.File already implements.
type osBackingFile struct {
	f *os.File
}

func (b *osBackingFile) ReadAt(buf []byte, off int64) (int, error) {
	return b.f.ReadAt(buf, off)
}

func (b *osBackingFile) WriteAt(buf []byte, off int64) (int, error) {
	n, err := b.f.WriteAt(buf, off)
	if err != nil {
		return n, err
	}
	return n, b.f.Sync()
}

func (b *osBackingFile) Size() int64 {
	info, err := b.f.Stat()
	if err != nil {
		return 0
	}
	return info.Size()
}

func (b *osBackingFile) Close() error {
	return b.f.Close()
}

// memBackingFile adapts *memfile.File to the backingFile interface,
// grounded on storage/disk/virtual_disk_manager_impl.go's use of
// github.com/dsnet/golib/memfile for a disk manager that never
// touches the filesystem.
type memBackingFile struct {
	f *memfile.File
}

func newMemBackingFile() *memBackingFile {
	return &memBackingFile{f: memfile.New(make([]byte, 0))}
}

func (b *memBackingFile) ReadAt(buf []byte, off int64) (int, error) {
	return b.f.ReadAt(buf, off)
}

func (b *memBackingFile) WriteAt(buf []byte, off int64) (int, error) {
	return b.f.WriteAt(buf, off)
}

func (b *memBackingFile) Size() int64 {
	return int64(len(b.f.Bytes()))
}

func (b *memBackingFile) Close() error {
	return nil
}
