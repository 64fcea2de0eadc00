package repo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/mamba-vcs/mamba/pkg/object"
)

// IndexEntry records the staged state of a single file: its blob hash plus
// the filesystem fingerprint captured at staging time.
type IndexEntry struct {
	Ctime uint64
	Mtime uint64
	Dev   uint32
	Ino   uint32
	Mode  uint32
	Uid   uint32
	Gid   uint32
	Size  uint64
	Hash  object.Hash
	Path  string // repo-relative, forward slashes
}

// Index is the staging area: an ordered sequence of entries, at most one
// per path.
type Index struct {
	entries []IndexEntry
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{}
}

// Add inserts an entry, replacing any existing entry with the same path
// (last write wins).
func (idx *Index) Add(entry IndexEntry) {
	for i, e := range idx.entries {
		if e.Path == entry.Path {
			idx.entries = append(idx.entries[:i], idx.entries[i+1:]...)
			break
		}
	}
	idx.entries = append(idx.entries, entry)
}

// Get returns the entry for the given path, if staged.
func (idx *Index) Get(path string) (IndexEntry, bool) {
	for _, e := range idx.entries {
		if e.Path == path {
			return e, true
		}
	}
	return IndexEntry{}, false
}

// Remove drops the entry for the given path, reporting whether one existed.
func (idx *Index) Remove(path string) bool {
	for i, e := range idx.entries {
		if e.Path == path {
			idx.entries = append(idx.entries[:i], idx.entries[i+1:]...)
			return true
		}
	}
	return false
}

// Entries returns the staged entries in insertion order.
func (idx *Index) Entries() []IndexEntry {
	return idx.entries
}

// Len returns the number of staged entries.
func (idx *Index) Len() int {
	return len(idx.entries)
}

func (r *Repo) indexPath() string {
	return filepath.Join(r.MetaDir, "index")
}

// LoadIndex reads the staging index from .mamba/index. A missing file
// yields an empty index.
func (r *Repo) LoadIndex() (*Index, error) {
	data, err := os.ReadFile(r.indexPath())
	if err != nil {
		if os.IsNotExist(err) {
			return NewIndex(), nil
		}
		return nil, fmt.Errorf("load index: %w", err)
	}
	idx, err := decodeIndex(data)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	return idx, nil
}

// SaveIndex atomically writes the staging index to .mamba/index.
func (r *Repo) SaveIndex(idx *Index) error {
	if err := writeFileAtomic(r.indexPath(), encodeIndex(idx)); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	return nil
}

// encodeIndex serializes the index: a big-endian u32 entry count, then per
// entry the fixed-width numeric fields followed by two NUL-terminated
// strings (hash, path).
func encodeIndex(idx *Index) []byte {
	var buf bytes.Buffer

	var count [4]byte
	binary.BigEndian.PutUint32(count[:], uint32(len(idx.entries)))
	buf.Write(count[:])

	var u32 [4]byte
	var u64 [8]byte
	for _, e := range idx.entries {
		binary.BigEndian.PutUint64(u64[:], e.Ctime)
		buf.Write(u64[:])
		binary.BigEndian.PutUint64(u64[:], e.Mtime)
		buf.Write(u64[:])
		binary.BigEndian.PutUint32(u32[:], e.Dev)
		buf.Write(u32[:])
		binary.BigEndian.PutUint32(u32[:], e.Ino)
		buf.Write(u32[:])
		binary.BigEndian.PutUint32(u32[:], e.Mode)
		buf.Write(u32[:])
		binary.BigEndian.PutUint32(u32[:], e.Uid)
		buf.Write(u32[:])
		binary.BigEndian.PutUint32(u32[:], e.Gid)
		buf.Write(u32[:])
		binary.BigEndian.PutUint64(u64[:], e.Size)
		buf.Write(u64[:])

		buf.WriteString(string(e.Hash))
		buf.WriteByte(0)
		buf.WriteString(e.Path)
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func decodeIndex(data []byte) (*Index, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("truncated index header: %w", object.ErrDecode)
	}
	count := binary.BigEndian.Uint32(data[:4])
	pos := 4

	idx := NewIndex()
	for i := uint32(0); i < count; i++ {
		const fixed = 8 + 8 + 4 + 4 + 4 + 4 + 4 + 8
		if pos+fixed > len(data) {
			return nil, fmt.Errorf("truncated index entry %d: %w", i, object.ErrDecode)
		}

		var e IndexEntry
		e.Ctime = binary.BigEndian.Uint64(data[pos:])
		pos += 8
		e.Mtime = binary.BigEndian.Uint64(data[pos:])
		pos += 8
		e.Dev = binary.BigEndian.Uint32(data[pos:])
		pos += 4
		e.Ino = binary.BigEndian.Uint32(data[pos:])
		pos += 4
		e.Mode = binary.BigEndian.Uint32(data[pos:])
		pos += 4
		e.Uid = binary.BigEndian.Uint32(data[pos:])
		pos += 4
		e.Gid = binary.BigEndian.Uint32(data[pos:])
		pos += 4
		e.Size = binary.BigEndian.Uint64(data[pos:])
		pos += 8

		hash, next, err := readCString(data, pos, i)
		if err != nil {
			return nil, err
		}
		pos = next
		path, next, err := readCString(data, pos, i)
		if err != nil {
			return nil, err
		}
		pos = next

		e.Hash = object.Hash(hash)
		e.Path = path
		idx.entries = append(idx.entries, e)
	}
	return idx, nil
}

func readCString(data []byte, pos int, entry uint32) (string, int, error) {
	nul := bytes.IndexByte(data[pos:], 0)
	if nul < 0 {
		return "", 0, fmt.Errorf("unterminated string in index entry %d: %w", entry, object.ErrDecode)
	}
	raw := data[pos : pos+nul]
	if !utf8.Valid(raw) {
		return "", 0, fmt.Errorf("index entry %d holds invalid UTF-8: %w", entry, object.ErrDecode)
	}
	return string(raw), pos + nul + 1, nil
}
