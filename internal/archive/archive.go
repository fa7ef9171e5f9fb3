// Package archive gives the reader its view of a corpus ZIP file: open,
// enumerate entries, slurp one entry into memory.
package archive

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
)

// readChunk is the growth step used when slurping an entry.
const readChunk = 64 * 1024

// Archive is an open corpus ZIP file.
type Archive struct {
	rc *zip.ReadCloser
}

// Open opens the ZIP archive at path.
func Open(path string) (*Archive, error) {
	rc, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	return &Archive{rc: rc}, nil
}

// Close releases the archive handle.
func (a *Archive) Close() error { return a.rc.Close() }

// Len reports the number of entries, in archive order.
func (a *Archive) Len() int { return len(a.rc.File) }

// Name returns the name of entry i.
func (a *Archive) Name(i int) string { return a.rc.File[i].Name }

// ReadEntry reads the full content of entry i, growing the buffer 64 KiB
// at a time.
func (a *Archive) ReadEntry(i int) ([]byte, error) {
	if i < 0 || i >= len(a.rc.File) {
		return nil, fmt.Errorf("archive entry %d out of range", i)
	}
	f := a.rc.File[i]
	r, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open entry %s: %w", f.Name, err)
	}
	defer r.Close()

	buf := make([]byte, 0, readChunk)
	chunk := make([]byte, readChunk)
	for {
		n, err := r.Read(chunk)
		buf = append(buf, chunk[:n]...)
		if err == io.EOF {
			return buf, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read entry %s: %w", f.Name, err)
		}
	}
}
