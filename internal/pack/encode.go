package pack

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/crypto/blowfish"

	"github.com/archivekit/packforge/internal/codec"
	"github.com/archivekit/packforge/internal/pack/encryption"
	"github.com/archivekit/packforge/internal/rfile"
)

// EncodeOptions controls Encode's output.
type EncodeOptions struct {
	// RefreshTimestamp stamps the header's InternalTimestamp with now
	// (passed in by the caller, since this package never reads the clock
	// per the no-live-clock-in-codec convention shared with the rest of
	// the module). Ignored when p.TestMode is set.
	RefreshTimestamp uint32
}

type encodedEntry struct {
	path       string
	body       []byte
	compressed bool
	timestamp  uint64
}

// Encode serialises p back into a Pack buffer, following spec §4.5's
// encode algorithm: concurrent per-file encode+compress (§5's "parallel
// across files, collected back into sorted order"), then a single-pass
// assembly of header, dependencies, index and data section.
func Encode(p *Pack, opts EncodeOptions) ([]byte, error) {
	p.mu.RLock()
	files := make([]*rfile.RFile, 0, len(p.files))
	for _, f := range p.files {
		files = append(files, f)
	}
	header := p.Header
	deps := append([]string{}, p.Dependencies...)
	compressionFormat := p.CompressionFormat
	testMode := p.TestMode
	p.mu.RUnlock()
	sortRFiles(files)

	if compressionFormat == CompressionLzma1 {
		return nil, fmt.Errorf("pack: lzma1 compression is not implemented by this build")
	}

	header.FileCount = uint32(len(files))
	if !testMode {
		header.InternalTimestamp = opts.RefreshTimestamp
	}

	var indexCipher, dataCipher *blowfish.Cipher
	if header.HasEncryptedIndex {
		c, err := encryption.NewIndexCipher()
		if err != nil {
			return nil, err
		}
		indexCipher = c
	}
	if header.HasEncryptedData {
		c, err := encryption.NewDataCipher()
		if err != nil {
			return nil, err
		}
		dataCipher = c
	}

	entries, err := encodeFilesConcurrently(files, compressionFormat, header.Version, dataCipher)
	if err != nil {
		return nil, err
	}

	depBuf := codec.NewWriter()
	for _, d := range deps {
		depBuf.WriteStringU8_0Terminated(d)
	}
	header.DependencyCount = uint32(len(deps))
	header.DependencySectionSize = uint32(len(depBuf.Bytes()))

	indexBuf, err := encodeIndex(entries, header, indexCipher)
	if err != nil {
		return nil, err
	}
	header.FileIndexSize = uint32(len(indexBuf))

	out := codec.NewWriter()
	encodeHeader(out, header)
	out.WriteBytes(depBuf.Bytes())
	out.WriteBytes(indexBuf)
	for _, e := range entries {
		out.WriteBytes(e.body)
	}
	return out.Bytes(), nil
}

// encodeFilesConcurrently runs a bounded worker pool over files (spec §5's
// "parallel across files"), writing each result into a pre-sized slice by
// index so the caller sees them back in files' sorted order regardless of
// completion order.
func encodeFilesConcurrently(files []*rfile.RFile, format CompressionFormat, v Version, dataCipher *blowfish.Cipher) ([]encodedEntry, error) {
	out := make([]encodedEntry, len(files))
	errs := make([]error, len(files))

	const maxWorkers = 8
	workers := maxWorkers
	if len(files) < workers {
		workers = len(files)
	}
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				e, err := encodeOneFile(files[i], format, dataCipher)
				out[i] = e
				errs[i] = err
			}
		}()
	}
	for i := range files {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("pack: entry %q: %w", files[i].Path, err)
		}
	}
	return out, nil
}

func encodeOneFile(f *rfile.RFile, format CompressionFormat, dataCipher *blowfish.Cipher) (encodedEntry, error) {
	body, err := rfileBytes(f)
	if err != nil {
		return encodedEntry{}, err
	}

	var compressed bool
	switch {
	case f.State() != rfile.StateDecoded && f.Compressed:
		// Untouched entry whose on-disk body was already zstd-compressed:
		// rfileBytes returned it verbatim via RawBytes, so it passes
		// through as-is instead of being decompressed and recompressed
		// into a different (if equivalent) byte stream.
		compressed = true
	case format == CompressionZstd && f.IsCompressible():
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return encodedEntry{}, fmt.Errorf("zstd writer: %w", err)
		}
		body = enc.EncodeAll(body, nil)
		enc.Close()
		compressed = true
	}

	if dataCipher != nil {
		body = encryptDataBody(dataCipher, body)
	}

	var ts uint64
	if f.Timestamp != nil {
		ts = *f.Timestamp
	}
	return encodedEntry{path: f.Path, body: body, compressed: compressed, timestamp: ts}, nil
}

// rfileBytes returns f's on-disk bytes regardless of lifecycle state: the
// verbatim stored body (still zstd-compressed if Compressed, per RawBytes)
// for Lazy/Cached, re-encoded through the dispatch layer for Decoded.
func rfileBytes(f *rfile.RFile) ([]byte, error) {
	if f.State() == rfile.StateDecoded {
		return rfile.Encode(f.FileType, f.Value())
	}
	return f.RawBytes()
}

func encodeIndex(entries []encodedEntry, h Header, indexCipher *blowfish.Cipher) ([]byte, error) {
	w := codec.NewWriter()
	n := uint32(len(entries))
	for i, e := range entries {
		counter := n - 1 - uint32(i)
		size := uint32(len(e.body))

		if indexCipher != nil {
			enc := encryption.EncryptU32(indexCipher, counter, size)
			w.WriteBytes(enc[:])
		} else {
			w.WriteU32(size)
		}

		if h.HasIndexWithTimestamps {
			if indexCipher != nil {
				enc := encryption.EncryptU32(indexCipher, counter, uint32(e.timestamp))
				w.WriteBytes(enc[:])
			} else {
				w.WriteU32(uint32(e.timestamp))
			}
		}

		if h.Version.hasCompressedFlag() {
			w.WriteBool(e.compressed)
		}

		if indexCipher != nil {
			w.WriteBytes(encryption.EncryptPath(indexCipher, e.path))
		} else {
			w.WriteStringU8_0Terminated(e.path)
		}
	}
	return w.Bytes(), nil
}

// encryptDataBody is decryptDataBody's inverse: the same 4-byte-word,
// index-keyed DecryptU32/EncryptU32 pairing used by decode.go's
// decryptDataBody, applied on the way out instead of the way in.
func encryptDataBody(c *blowfish.Cipher, raw []byte) []byte {
	out := make([]byte, len(raw))
	for i := 0; i < len(raw); i += 4 {
		end := i + 4
		if end > len(raw) {
			end = len(raw)
		}
		var arr [4]byte
		copy(arr[:], raw[i:end])
		var word uint32
		for j := 0; j < end-i; j++ {
			word |= uint32(arr[j]) << (8 * uint(j))
		}
		enc := encryption.EncryptU32(c, uint32(i/4), word)
		copy(out[i:end], enc[:end-i])
	}
	return out
}
