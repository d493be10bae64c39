// Package animpack decodes and encodes ".animpack" containers: a nested
// file tree carried inside a Pack, structurally the same shape as the
// teacher's pk3 (zip) tree but with a flat length-prefixed wire format
// instead of the zip format, per spec §4.4.
package animpack

import (
	"fmt"
	"sort"

	"github.com/archivekit/packforge/internal/codec"
)

// AnimPack holds the decoded inner-file tree: path -> raw bytes. Like Pack,
// entries may in principle be lazy-loaded when the outer Pack itself is
// lazy; packforge always materialises AnimPack entries eagerly since they
// are typically small compared to Pack-level media entries.
type AnimPack struct {
	Files map[string][]byte
}

// Decode reads the 4-byte file count followed by, for each file, a
// length-prefixed UTF-8 path and a u32 byte count plus that many opaque
// bytes.
func Decode(data []byte) (*AnimPack, error) {
	r := codec.NewReader(data)
	count, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("animpack: read file count: %w", err)
	}

	ap := &AnimPack{Files: make(map[string][]byte, count)}
	for i := uint32(0); i < count; i++ {
		path, err := r.ReadSizedStringU8_32()
		if err != nil {
			return nil, fmt.Errorf("animpack: entry %d path: %w", i, err)
		}
		size, err := r.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("animpack: entry %d size: %w", i, err)
		}
		body, err := r.ReadBytes(int(size))
		if err != nil {
			return nil, fmt.Errorf("animpack: entry %d body: %w", i, err)
		}
		ap.Files[path] = body
	}
	if err := r.ExpectEnd(r.Len()); err != nil {
		return nil, err
	}
	return ap, nil
}

// Encode is the inverse of Decode. Entries are written in lower-cased-path
// sorted order for deterministic output, mirroring the Pack container's own
// ordering invariant.
func Encode(ap *AnimPack) []byte {
	paths := make([]string, 0, len(ap.Files))
	for p := range ap.Files {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return lower(paths[i]) < lower(paths[j]) })

	w := codec.NewWriter()
	w.WriteU32(uint32(len(paths)))
	for _, p := range paths {
		body := ap.Files[p]
		w.WriteSizedStringU8_32(p)
		w.WriteU32(uint32(len(body)))
		w.WriteBytes(body)
	}
	return w.Bytes()
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
