package rfile

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// State tags which of the three RFile lifecycle stages an entry is in. The
// transitions are Lazy -> Cached -> Decoded, one-directional — once Decoded
// an RFile never returns to Lazy (spec §4.7).
type State int

const (
	StateLazy State = iota
	StateCached
	StateDecoded
)

// LazyRef is the reference into an on-disk container an RFile keeps instead
// of loading its bytes up front.
type LazyRef struct {
	ContainerPath string
	Offset        uint64
	Size          uint64
	Encrypted     bool
}

// RFile is a single inner-file handle, shared by Pack and AnimPack trees.
type RFile struct {
	Path          string
	Timestamp     *uint64 // nil unless the owning container's index carries timestamps
	ContainerName string
	FileType      FileType

	// Compressed marks a Cached/Lazy entry whose stored bytes are still in
	// their on-disk zstd form (the container decoded them compressed and
	// never decompressed them). Bytes decompresses transparently on
	// access; RawBytes returns the compressed form unchanged, so an
	// unedited entry can be written back out verbatim on re-encode instead
	// of being recompressed into a different (but equivalent) byte stream.
	Compressed bool

	state     State
	cache     []byte  // valid when state == StateCached
	lazy      LazyRef // valid when state == StateLazy
	lazyFetch func() ([]byte, error)
	value     any // valid when state == StateDecoded; one of the rfile/* package types
	dirty     bool
}

// NewCached constructs an already-loaded RFile.
func NewCached(path string, data []byte) *RFile {
	return &RFile{Path: path, FileType: Classify(path, data), state: StateCached, cache: data}
}

// NewLazy constructs an RFile that defers reading until Bytes is called.
func NewLazy(path string, ref LazyRef, fetch func() ([]byte, error)) *RFile {
	return &RFile{Path: path, state: StateLazy, lazy: ref, lazyFetch: fetch}
}

// Bytes returns the entry's logical content, decompressing transparently
// when Compressed is set. It materialises a Lazy entry on first access but
// never changes its State back from Decoded (invariant-safe: Bytes never
// transitions Decoded -> Cached).
func (f *RFile) Bytes() ([]byte, error) {
	raw, err := f.RawBytes()
	if err != nil {
		return nil, err
	}
	if !f.Compressed {
		return raw, nil
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("rfile %q: zstd reader: %w", f.Path, err)
	}
	defer dec.Close()
	out, err := dec.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("rfile %q: zstd decode: %w", f.Path, err)
	}
	return out, nil
}

// RawBytes returns the entry's bytes exactly as stored — still
// zstd-compressed when Compressed is set — materialising a Lazy entry on
// first access but never changing its State back from Decoded. The
// container encoder uses this to pass an untouched entry straight through
// without recompressing it into a different (if equivalent) byte stream.
func (f *RFile) RawBytes() ([]byte, error) {
	switch f.state {
	case StateCached:
		return f.cache, nil
	case StateLazy:
		if f.lazyFetch == nil {
			return nil, fmt.Errorf("rfile %q: lazy entry has no backing fetch function", f.Path)
		}
		data, err := f.lazyFetch()
		if err != nil {
			return nil, fmt.Errorf("rfile %q: %w", f.Path, err)
		}
		f.cache = data
		f.state = StateCached
		return data, nil
	case StateDecoded:
		return nil, fmt.Errorf("rfile %q: already decoded; call Encode to get bytes back", f.Path)
	default:
		return nil, fmt.Errorf("rfile %q: unknown state", f.Path)
	}
}

// State returns the current lifecycle stage.
func (f *RFile) State() State { return f.state }

// Value returns the decoded typed value, or nil if not yet Decoded.
func (f *RFile) Value() any { return f.value }

// SetDecoded transitions the RFile into the Decoded state holding value.
// Per the state machine this is one-directional: a Decoded RFile can never
// go back to Lazy.
func (f *RFile) SetDecoded(value any) {
	f.value = value
	f.state = StateDecoded
}

// MarkDirty re-tags a Decoded entry as edited, forcing re-encode on save.
func (f *RFile) MarkDirty() { f.dirty = true }

// Dirty reports whether the entry was edited since decode.
func (f *RFile) Dirty() bool { return f.dirty }

// IsCompressible defers to the classified FileType.
func (f *RFile) IsCompressible() bool { return f.FileType.IsCompressible() }
