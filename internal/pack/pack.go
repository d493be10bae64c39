package pack

import (
	"sort"
	"strings"
	"sync"

	"github.com/archivekit/packforge/internal/rfile"
)

// CompressionFormat selects the per-entry compressor applied on encode when
// an entry's FileType is compressible (rfile.FileType.IsCompressible).
type CompressionFormat int

const (
	CompressionNone CompressionFormat = iota
	CompressionZstd

	// CompressionLzma1 is spec §6's third compression_format value. rpfm
	// supports it on read, but no repo in this module's dependency corpus
	// carries a real LZMA1 codec (see DESIGN.md), so it is recognised here
	// only so the enum doesn't silently omit a documented format; selecting
	// it fails at Encode/config-load time instead of miscompressing.
	CompressionLzma1
)

// ConflictPolicy governs how Merge resolves a path present in both packs.
type ConflictPolicy int

const (
	ConflictKeepLocal ConflictPolicy = iota
	ConflictKeepIncoming
	ConflictRename
)

// InsertResult reports whether Insert added a new entry or replaced one.
type InsertResult int

const (
	Added InsertResult = iota
	Replaced
)

// Pack is the in-memory representation of a Total War Pack container: a
// header, an ordered dependency list, and a path -> RFile map. Insert,
// Remove and Merge take mu exclusively for the duration of the mutation;
// Files, FilesByType, Get, Len and Encode take it for reading. mu guards
// only the file map: Header, Dependencies and the other exported fields are
// not protected by it.
type Pack struct {
	mu sync.RWMutex

	Header            Header
	Dependencies      []string
	CompressionFormat CompressionFormat
	TestMode          bool // when set, Encode never refreshes InternalTimestamp

	files map[string]*rfile.RFile
}

// New creates an empty Pack of the given version.
func New(version Version) *Pack {
	return &Pack{
		Header: Header{
			Version:                version,
			HasIndexWithTimestamps: version.hasIndexTimestamps(),
		},
		files: make(map[string]*rfile.RFile),
	}
}

// Insert adds or replaces the entry at f.Path, returning whether a prior
// entry existed.
func (p *Pack) Insert(f *rfile.RFile) InsertResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, existed := p.files[f.Path]
	p.files[f.Path] = f
	if existed {
		return Replaced
	}
	return Added
}

// Remove deletes every entry matched by cp, returning the paths removed.
func (p *Pack) Remove(cp ContainerPath) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	var removed []string
	for path := range p.files {
		if cp.matches(path) {
			removed = append(removed, path)
		}
	}
	for _, path := range removed {
		delete(p.files, path)
	}
	sort.Strings(removed)
	return removed
}

// Files returns every entry matched by cp, in lower-cased-path sorted order.
func (p *Pack) Files(cp ContainerPath) []*rfile.RFile {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []*rfile.RFile
	for path, f := range p.files {
		if cp.matches(path) {
			out = append(out, f)
		}
	}
	sortRFiles(out)
	return out
}

// FilesByType returns every entry whose FileType is in types, in
// lower-cased-path sorted order.
func (p *Pack) FilesByType(types []rfile.FileType) []*rfile.RFile {
	want := make(map[rfile.FileType]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	var out []*rfile.RFile
	for _, f := range p.files {
		if want[f.FileType] {
			out = append(out, f)
		}
	}
	sortRFiles(out)
	return out
}

// Get returns the entry at path, if any.
func (p *Pack) Get(path string) (*rfile.RFile, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	f, ok := p.files[path]
	return f, ok
}

// Len returns the number of entries currently in the Pack.
func (p *Pack) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.files)
}

func sortRFiles(files []*rfile.RFile) {
	sort.Slice(files, func(i, j int) bool {
		return strings.ToLower(files[i].Path) < strings.ToLower(files[j].Path)
	})
}

// Merge folds other's entries into p according to policy, mutating p in
// place. KeepLocal drops incoming files whose path already exists in p;
// KeepIncoming overwrites; Rename keeps both by suffixing the incoming
// path with a numeric disambiguator.
func (p *Pack) Merge(other *Pack, policy ConflictPolicy) {
	other.mu.RLock()
	incoming := make([]*rfile.RFile, 0, len(other.files))
	for _, f := range other.files {
		incoming = append(incoming, f)
	}
	other.mu.RUnlock()
	sortRFiles(incoming)

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, f := range incoming {
		_, conflict := p.files[f.Path]
		if !conflict {
			p.files[f.Path] = f
			continue
		}
		switch policy {
		case ConflictKeepLocal:
			continue
		case ConflictKeepIncoming:
			p.files[f.Path] = f
		case ConflictRename:
			p.files[renamedPath(p.files, f.Path)] = f
		}
	}
}

func renamedPath(existing map[string]*rfile.RFile, path string) string {
	for i := 1; ; i++ {
		candidate := renameSuffix(path, i)
		if _, ok := existing[candidate]; !ok {
			return candidate
		}
	}
}

func renameSuffix(path string, n int) string {
	dot := strings.LastIndexByte(path, '.')
	slash := strings.LastIndexByte(path, '/')
	if dot <= slash {
		return path + suffixFor(n)
	}
	return path[:dot] + suffixFor(n) + path[dot:]
}

func suffixFor(n int) string {
	digits := []byte{'_'}
	s := []byte{}
	for n > 0 {
		s = append([]byte{byte('0' + n%10)}, s...)
		n /= 10
	}
	return string(append(digits, s...))
}
