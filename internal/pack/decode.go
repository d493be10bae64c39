package pack

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/blowfish"

	"github.com/archivekit/packforge/internal/codec"
	"github.com/archivekit/packforge/internal/pack/encryption"
	"github.com/archivekit/packforge/internal/perr"
	"github.com/archivekit/packforge/internal/rfile"
)

// DecodeOptions controls how Decode materialises inner-file bodies.
type DecodeOptions struct {
	// UseLazyLoading defers reading an entry's body until first access.
	// Ignored (always eager) when the source is an in-memory buffer and
	// the entry is unencrypted, since there is no disk I/O to defer in
	// that case; honoured for encrypted entries regardless, which must
	// stay eager per spec §4.5 step 5(a).
	UseLazyLoading bool
}

type indexEntry struct {
	path      string
	size      uint32
	timestamp uint64
	hasTS     bool
	compressed bool
}

// Decode parses a full Pack from an in-memory buffer, following the
// six-step algorithm of spec §4.5: header, dependencies, buffered index
// (decrypted on the fly if flagged), per-file RFile construction against
// running data-section offsets, then a cursor/size consistency check.
func Decode(data []byte, opts DecodeOptions) (*Pack, error) {
	r := codec.NewReader(data)
	header, err := decodeHeader(r)
	if err != nil {
		return nil, fmt.Errorf("pack: header: %w", err)
	}

	deps, err := decodeDependencies(r, header.DependencyCount, header.DependencySectionSize)
	if err != nil {
		return nil, fmt.Errorf("pack: dependencies: %w", err)
	}

	indexStart := r.Pos()
	indexBytes, err := r.ReadBytes(int(header.FileIndexSize))
	if err != nil {
		return nil, fmt.Errorf("pack: file index: %w", err)
	}
	entries, err := decodeIndex(indexBytes, header)
	if err != nil {
		return nil, fmt.Errorf("pack: file index: %w", err)
	}

	p := New(header.Version)
	p.Header = header
	p.Dependencies = deps

	dataRegionStart := indexStart + int64(len(indexBytes))
	dataRegionSize := int64(len(data)) - dataRegionStart
	var sumSizes int64
	var anyCompressed bool
	cursor := dataRegionStart

	for _, e := range entries {
		sumSizes += int64(e.size)
		offset := cursor
		cursor += int64(e.size)

		ft := rfile.Classify(e.path, nil)
		compressed := e.compressed
		var f *rfile.RFile
		switch {
		case header.HasEncryptedData || compressed:
			if offset < 0 || offset+int64(e.size) > int64(len(data)) {
				return nil, fmt.Errorf("pack: entry %q: data range out of bounds", e.path)
			}
			body := data[offset : offset+int64(e.size)]
			if header.HasEncryptedData {
				dec, err := decryptDataBody(body, 0, int64(len(body)), header.Version)
				if err != nil {
					return nil, fmt.Errorf("pack: entry %q: decrypt data: %w", e.path, err)
				}
				body = dec
			}
			// The still-compressed bytes are kept as-is (not decompressed
			// here): Bytes() decompresses on demand, and an untouched entry
			// re-encodes from this exact verbatim body (spec §8 "universal
			// round-trip") instead of being recompressed into a different
			// byte stream.
			f = rfile.NewCached(e.path, body)
			if compressed {
				f.Compressed = true
				anyCompressed = true
			}
		case !opts.UseLazyLoading:
			if offset < 0 || offset+int64(e.size) > int64(len(data)) {
				return nil, fmt.Errorf("pack: entry %q: data range out of bounds", e.path)
			}
			f = rfile.NewCached(e.path, data[offset:offset+int64(e.size)])
		default:
			start, size := offset, int64(e.size)
			f = rfile.NewLazy(e.path, rfile.LazyRef{Offset: uint64(start), Size: uint64(size)}, func() ([]byte, error) {
				if start < 0 || start+size > int64(len(data)) {
					return nil, fmt.Errorf("entry %q: data range out of bounds", e.path)
				}
				return data[start : start+size], nil
			})
		}
		f.FileType = ft
		if e.hasTS {
			ts := e.timestamp
			f.Timestamp = &ts
		}
		p.Insert(f)
	}

	if cursor != int64(len(data)) && dataRegionSize < sumSizes {
		return nil, perr.IndexesNotComplete()
	}
	if sumSizes > dataRegionSize {
		return nil, perr.IndexesNotComplete()
	}
	if anyCompressed {
		p.CompressionFormat = CompressionZstd
	}
	return p, nil
}

func decodeDependencies(r *codec.Reader, count uint32, sectionSize uint32) ([]string, error) {
	start := r.Pos()
	deps := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		s, err := r.ReadStringU8_0Terminated()
		if err != nil {
			return nil, fmt.Errorf("dependency %d: %w", i, err)
		}
		deps = append(deps, s)
	}
	consumed := r.Pos() - start
	if uint32(consumed) != sectionSize {
		return nil, fmt.Errorf("dependency section size mismatch: header says %d, consumed %d", sectionSize, consumed)
	}
	return deps, nil
}

// decodeIndex reads h.FileCount entries from data. When the index is
// encrypted, sizes/timestamps go through encryption.DecryptU32 keyed by a
// counter that mirrors pfh6.rs's (0..files_count).rev() argument to
// decrypt_u32 — entries still decode in sequential buffer order, the
// counter is only ever used as the cipher's per-entry key — and paths go
// through encryption.DecryptPath, whose leading length byte is this
// package's own addition (see encryption.EncryptPath's doc comment).
func decodeIndex(data []byte, h Header) ([]indexEntry, error) {
	r := codec.NewReader(data)
	var indexCipher *blowfish.Cipher
	if h.HasEncryptedIndex {
		c, err := encryption.NewIndexCipher()
		if err != nil {
			return nil, err
		}
		indexCipher = c
	}

	entries := make([]indexEntry, 0, h.FileCount)
	for i := uint32(0); i < h.FileCount; i++ {
		counter := h.FileCount - 1 - i // mirrors pfh6.rs's (0..files_count).rev() counter
		var e indexEntry

		if indexCipher != nil {
			raw, err := r.ReadBytes(4)
			if err != nil {
				return nil, err
			}
			var arr [4]byte
			copy(arr[:], raw)
			e.size = encryption.DecryptU32(indexCipher, counter, arr)
		} else {
			v, err := r.ReadU32()
			if err != nil {
				return nil, err
			}
			e.size = v
		}

		if h.HasIndexWithTimestamps {
			e.hasTS = true
			if indexCipher != nil {
				raw, err := r.ReadBytes(4)
				if err != nil {
					return nil, err
				}
				var arr [4]byte
				copy(arr[:], raw)
				e.timestamp = uint64(encryption.DecryptU32(indexCipher, counter, arr))
			} else {
				v, err := r.ReadU32()
				if err != nil {
					return nil, err
				}
				e.timestamp = uint64(v)
			}
		}

		if h.Version.hasCompressedFlag() {
			v, err := r.ReadBool()
			if err != nil {
				return nil, err
			}
			e.compressed = v
		}

		var path string
		if indexCipher != nil {
			rest, err := r.ReadBytes(int(r.Remaining()))
			if err != nil {
				return nil, err
			}
			p, n, err := encryption.DecryptPath(indexCipher, rest, 0)
			if err != nil {
				return nil, err
			}
			path = p
			r.Seek(r.Pos() - int64(len(rest)) + int64(n))
		} else {
			p, err := r.ReadStringU8_0Terminated()
			if err != nil {
				return nil, err
			}
			path = p
		}
		e.path = strings.ReplaceAll(path, "\\", "/")
		entries = append(entries, e)
	}
	return entries, nil
}

// decryptDataBody decrypts a HAS_ENCRYPTED_DATA entry's bytes in 4-byte
// words via encryption.DecryptU32, each word keyed by its own index as the
// counter so identical plaintext words at different offsets don't produce
// identical ciphertext. The final partial word (len(raw)%4 != 0) is
// decrypted against a zero-padded copy and truncated back down.
func decryptDataBody(data []byte, offset, size int64, v Version) ([]byte, error) {
	if offset < 0 || offset+size > int64(len(data)) {
		return nil, fmt.Errorf("data range out of bounds")
	}
	c, err := encryption.NewDataCipher()
	if err != nil {
		return nil, err
	}
	raw := data[offset : offset+size]
	out := make([]byte, len(raw))
	for i := 0; i < len(raw); i += 4 {
		end := i + 4
		if end > len(raw) {
			end = len(raw)
		}
		var arr [4]byte
		copy(arr[:], raw[i:end])
		dec := encryption.DecryptU32(c, uint32(i/4), arr)
		var word [4]byte
		word[0] = byte(dec)
		word[1] = byte(dec >> 8)
		word[2] = byte(dec >> 16)
		word[3] = byte(dec >> 24)
		copy(out[i:end], word[:end-i])
	}
	return out, nil
}
