package object

// Hash is a 40-character hex-encoded SHA-1 digest.
type Hash string

// Type identifies the kind of object stored.
type Type string

const (
	TypeBlob   Type = "blob"
	TypeTree   Type = "tree"
	TypeCommit Type = "commit"
)

const (
	// Tree entry modes, octal-significant like Git's.
	ModeDir  uint32 = 0o040000
	ModeFile uint32 = 0o100644
	ModeExec uint32 = 0o100755
)

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

// TreeEntry is one entry in a tree object. The hash references a blob for
// files and another tree for subdirectories.
type TreeEntry struct {
	Mode uint32
	Name string
	Hash Hash
}

// Tree holds an ordered list of tree entries. Serialization preserves entry
// order, so callers sort entries by name before hashing.
type Tree struct {
	Entries []TreeEntry
}

// IsDir reports whether the entry references a subtree.
func (e TreeEntry) IsDir() bool {
	return e.Mode == ModeDir
}

// Commit represents a snapshot pointing to a tree with metadata. Parents
// holds zero hashes for a root commit, one for an ordinary commit, and two
// for a merge commit.
type Commit struct {
	Tree      Hash
	Parents   []Hash
	Author    Signature
	Committer Signature
	Message   string
}
