// Package cache stores per-document parse summaries on disk so repeated
// inspections of unchanged ABI dumps skip the XML parse.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// Current schema version - increment when Summary format changes.
const schemaVersion uint16 = 1

// Digest is a SHA-256 content hash.
type Digest [sha256.Size]byte

// HashContent digests a document's raw bytes.
func HashContent(data []byte) Digest {
	return sha256.Sum256(data)
}

// Summary is the cached result of parsing one ABI document.
type Summary struct {
	// Schema version for safe invalidation when the format changes.
	Schema uint16

	Path        string
	AddressSize int

	// Declaration counts over the whole document.
	Units      int
	Namespaces int
	Types      int
	Functions  int
	Variables  int

	ContentHash Digest
}

// Valid reports whether the summary matches the current schema.
func (s *Summary) Valid() bool {
	return s != nil && s.Schema == schemaVersion
}

// Stamp fills in the schema version before storing.
func (s *Summary) Stamp() { s.Schema = schemaVersion }

// Disk stores summaries keyed by content digest. Thread-safe for
// concurrent access.
type Disk struct {
	mu  sync.RWMutex
	dir string
}

// Open initializes and returns a disk cache at the standard location.
func Open(app string) (*Disk, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Disk{dir: dir}, nil
}

func (c *Disk) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "summaries", hexKey+".mp")
}

// Put serializes and writes a summary to the disk cache.
func (c *Disk) Put(key Digest, s *Summary) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(s); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replacement.
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a summary from the disk cache. A missing or
// schema-stale entry reports (false, nil).
func (c *Disk) Get(key Digest, out *Summary) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, err
	}
	if !out.Valid() {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *Disk) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := fmt.Sprintf("%s.old-%s", c.dir, time.Now().Format("20060102150405"))
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	return os.RemoveAll(old)
}
