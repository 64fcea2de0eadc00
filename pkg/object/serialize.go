package object

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrDecode reports that serialized object content could not be parsed back
// into its variant: missing separators, short hash fields, bad UTF-8.
var ErrDecode = errors.New("object decode")

// Marshal serializes an object variant to its canonical byte form.
// Marshal and Unmarshal are exact inverses for every variant.

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// MarshalTree serializes a Tree. Each entry is encoded as
//
//	"<mode-as-6-digit-octal> <name>\0<20 raw hash bytes>"
//
// in entry order. Tree hashing is order-sensitive, so callers sort entries
// by name before marshaling.
func MarshalTree(tr *Tree) []byte {
	var buf bytes.Buffer
	for _, e := range tr.Entries {
		fmt.Fprintf(&buf, "%06o %s\x00", e.Mode, e.Name)
		raw, err := hex.DecodeString(string(e.Hash))
		if err != nil || len(raw) != 20 {
			// Entries carry 40-hex hashes by construction; anything else
			// is encoded as a zero hash so marshaling stays total.
			raw = make([]byte, 20)
		}
		buf.Write(raw)
	}
	return buf.Bytes()
}

// UnmarshalTree parses a Tree from its serialized form.
func UnmarshalTree(data []byte) (*Tree, error) {
	tr := &Tree{}
	i := 0
	for i < len(data) {
		sp := bytes.IndexByte(data[i:], ' ')
		if sp < 0 {
			return nil, fmt.Errorf("unmarshal tree: missing space after mode: %w", ErrDecode)
		}
		mode, err := strconv.ParseUint(string(data[i:i+sp]), 8, 32)
		if err != nil {
			return nil, fmt.Errorf("unmarshal tree: bad mode %q: %w", data[i:i+sp], ErrDecode)
		}
		i += sp + 1

		nul := bytes.IndexByte(data[i:], 0)
		if nul < 0 {
			return nil, fmt.Errorf("unmarshal tree: missing NUL after name: %w", ErrDecode)
		}
		name := data[i : i+nul]
		if !utf8.Valid(name) {
			return nil, fmt.Errorf("unmarshal tree: entry name is not valid UTF-8: %w", ErrDecode)
		}
		i += nul + 1

		if i+20 > len(data) {
			return nil, fmt.Errorf("unmarshal tree: truncated hash: %w", ErrDecode)
		}
		h := Hash(hex.EncodeToString(data[i : i+20]))
		i += 20

		tr.Entries = append(tr.Entries, TreeEntry{
			Mode: uint32(mode),
			Name: string(name),
			Hash: h,
		})
	}
	return tr, nil
}

// MarshalCommit serializes a Commit:
//
//	tree H
//	parent H     (zero or more)
//	author SIG
//	committer SIG
//
//	message
//
// The message is written verbatim with no trailing normalization.
func MarshalCommit(c *Commit) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", string(c.Tree))
	for _, p := range c.Parents {
		fmt.Fprintf(&buf, "parent %s\n", string(p))
	}
	fmt.Fprintf(&buf, "author %s\n", c.Author)
	fmt.Fprintf(&buf, "committer %s\n", c.Committer)
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// UnmarshalCommit parses a Commit from its serialized form.
func UnmarshalCommit(data []byte) (*Commit, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("unmarshal commit: content is not valid UTF-8: %w", ErrDecode)
	}
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("unmarshal commit: missing header/message separator: %w", ErrDecode)
	}
	header := string(data[:idx])
	message := string(data[idx+2:])

	c := &Commit{Message: message}
	sawAuthor := false
	sawCommitter := false
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("unmarshal commit: malformed header line %q: %w", line, ErrDecode)
		}
		switch key {
		case "tree":
			c.Tree = Hash(val)
		case "parent":
			c.Parents = append(c.Parents, Hash(val))
		case "author":
			sig, err := ParseSignature(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: %w", err)
			}
			c.Author = sig
			sawAuthor = true
		case "committer":
			sig, err := ParseSignature(val)
			if err != nil {
				return nil, fmt.Errorf("unmarshal commit: %w", err)
			}
			c.Committer = sig
			sawCommitter = true
		default:
			return nil, fmt.Errorf("unmarshal commit: unknown header key %q: %w", key, ErrDecode)
		}
	}
	if c.Tree == "" {
		return nil, fmt.Errorf("unmarshal commit: missing tree header: %w", ErrDecode)
	}
	if !sawAuthor || !sawCommitter {
		return nil, fmt.Errorf("unmarshal commit: missing author or committer: %w", ErrDecode)
	}
	return c, nil
}
