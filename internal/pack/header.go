// Package pack implements the Pack container (C5): the six on-disk
// PFH0..PFH6 wire variants, their shared header/index/data layout, and the
// mutation/query operations (insert, remove, files, files_by_type, merge)
// a Pack exposes. Grounded on pack_versions/pfh6.rs's read_pfh6/write_pfh6
// for the header/index byte layout that every variant shares a subset of.
package pack

import (
	"fmt"

	"github.com/archivekit/packforge/internal/codec"
	"github.com/archivekit/packforge/internal/perr"
)

// Version is the four-byte tag at the start of every Pack.
type Version string

const (
	VersionPFH0 Version = "PFH0"
	VersionPFH2 Version = "PFH2"
	VersionPFH3 Version = "PFH3"
	VersionPFH4 Version = "PFH4"
	VersionPFH5 Version = "PFH5"
	VersionPFH6 Version = "PFH6"
)

func (v Version) valid() bool {
	switch v {
	case VersionPFH0, VersionPFH2, VersionPFH3, VersionPFH4, VersionPFH5, VersionPFH6:
		return true
	}
	return false
}

// hasIndexTimestamps, hasCompressedFlag and hasSubheader implement the
// version matrix from spec §4.5.
func (v Version) hasIndexTimestamps() bool { return v != VersionPFH0 }
func (v Version) hasCompressedFlag() bool  { return v == VersionPFH5 || v == VersionPFH6 }
func (v Version) hasSubheader() bool       { return v == VersionPFH6 }
func (v Version) indexEncryptable() bool {
	return v == VersionPFH4 || v == VersionPFH5 || v == VersionPFH6
}
func (v Version) dataEncryptable() bool { return v == VersionPFH5 || v == VersionPFH6 }

// Bitmask flags, OR'd into the header's second u32 alongside the file-type
// value in its low bits.
const (
	flagExtendedHeader     uint32 = 0x01
	flagIndexWithTimestamp uint32 = 0x40
	flagEncryptedIndex     uint32 = 0x80
	flagEncryptedData      uint32 = 0x10000

	fileTypeMask uint32 = 0x0F
)

// FileKind is the Pack's own file-type enum (boot/release/patch/mod/movie),
// distinct from rfile.FileType which classifies an inner file's payload.
type FileKind uint32

const (
	FileKindBoot FileKind = iota
	FileKindRelease
	FileKindPatch
	FileKindMod
	FileKindMovie
	FileKindOther FileKind = 0xF
)

func (k FileKind) String() string {
	switch k {
	case FileKindBoot:
		return "Boot"
	case FileKindRelease:
		return "Release"
	case FileKindPatch:
		return "Patch"
	case FileKindMod:
		return "Mod"
	case FileKindMovie:
		return "Movie"
	default:
		return "Other"
	}
}

const subheaderMagic uint32 = 0x464C4544
const authoringToolSize = 8
const extraSubheaderDataSize = 256

// Subheader is the PFH6-only trailing header block.
type Subheader struct {
	SubheaderVersion uint32
	GameVersion      uint32
	BuildNumber      uint32
	AuthoringTool    string
	ExtraData        []byte
}

// Header is the Pack's fixed-layout leading section.
type Header struct {
	Version                Version
	FileKind               FileKind
	HasExtendedHeader      bool
	HasIndexWithTimestamps bool
	HasEncryptedIndex      bool
	HasEncryptedData       bool

	DependencyCount       uint32
	DependencySectionSize uint32
	FileCount             uint32
	FileIndexSize         uint32
	InternalTimestamp     uint32

	Subheader *Subheader // non-nil iff Version.hasSubheader()
}

func decodeHeader(r *codec.Reader) (Header, error) {
	tagBytes, err := r.ReadBytes(4)
	if err != nil {
		return Header{}, fmt.Errorf("pack: version tag: %w", err)
	}
	v := Version(tagBytes)
	if !v.valid() {
		return Header{}, perr.Wrap(perr.KindDecodingUnsupportedVersion, "pack: unrecognised version tag", fmt.Errorf("%q", tagBytes))
	}

	bits, err := r.ReadU32()
	if err != nil {
		return Header{}, fmt.Errorf("pack: bitmask: %w", err)
	}
	h := Header{
		Version:                v,
		FileKind:               FileKind(bits & fileTypeMask),
		HasExtendedHeader:      bits&flagExtendedHeader != 0,
		HasIndexWithTimestamps: bits&flagIndexWithTimestamp != 0,
		HasEncryptedIndex:      bits&flagEncryptedIndex != 0,
		HasEncryptedData:       bits&flagEncryptedData != 0,
	}

	if h.DependencyCount, err = r.ReadU32(); err != nil {
		return Header{}, err
	}
	if h.DependencySectionSize, err = r.ReadU32(); err != nil {
		return Header{}, err
	}
	if h.FileCount, err = r.ReadU32(); err != nil {
		return Header{}, err
	}
	if h.FileIndexSize, err = r.ReadU32(); err != nil {
		return Header{}, err
	}
	if h.InternalTimestamp, err = r.ReadU32(); err != nil {
		return Header{}, err
	}

	if v.hasSubheader() {
		sh, err := decodeSubheader(r)
		if err != nil {
			return Header{}, err
		}
		h.Subheader = &sh
	}
	return h, nil
}

func decodeSubheader(r *codec.Reader) (Subheader, error) {
	magic, err := r.ReadU32()
	if err != nil {
		return Subheader{}, err
	}
	if magic != subheaderMagic {
		return Subheader{}, perr.SubHeaderMissing()
	}
	var sh Subheader
	if sh.SubheaderVersion, err = r.ReadU32(); err != nil {
		return Subheader{}, err
	}
	if sh.GameVersion, err = r.ReadU32(); err != nil {
		return Subheader{}, err
	}
	if sh.BuildNumber, err = r.ReadU32(); err != nil {
		return Subheader{}, err
	}
	if sh.AuthoringTool, err = r.ReadStringU8_0Padded(authoringToolSize); err != nil {
		return Subheader{}, err
	}
	if sh.ExtraData, err = r.ReadBytes(extraSubheaderDataSize); err != nil {
		return Subheader{}, err
	}
	return sh, nil
}

func encodeHeader(w *codec.Writer, h Header) {
	w.WriteBytes([]byte(h.Version))

	bits := uint32(h.FileKind) & fileTypeMask
	if h.HasExtendedHeader {
		bits |= flagExtendedHeader
	}
	if h.HasIndexWithTimestamps {
		bits |= flagIndexWithTimestamp
	}
	if h.HasEncryptedIndex {
		bits |= flagEncryptedIndex
	}
	if h.HasEncryptedData {
		bits |= flagEncryptedData
	}
	w.WriteU32(bits)

	w.WriteU32(h.DependencyCount)
	w.WriteU32(h.DependencySectionSize)
	w.WriteU32(h.FileCount)
	w.WriteU32(h.FileIndexSize)
	w.WriteU32(h.InternalTimestamp)

	if h.Version.hasSubheader() && h.Subheader != nil {
		w.WriteU32(subheaderMagic)
		w.WriteU32(h.Subheader.SubheaderVersion)
		w.WriteU32(h.Subheader.GameVersion)
		w.WriteU32(h.Subheader.BuildNumber)
		w.WriteStringU8_0Padded(h.Subheader.AuthoringTool, authoringToolSize, true)
		padded := h.Subheader.ExtraData
		if len(padded) < extraSubheaderDataSize {
			padded = append(append([]byte{}, padded...), make([]byte, extraSubheaderDataSize-len(padded))...)
		}
		w.WriteBytes(padded[:extraSubheaderDataSize])
	}
}

// headerSize returns the byte length of the fixed header (plus subheader
// when present). Decode does not call it; header_test.go uses it to check
// that decodeHeader consumed exactly the header bytes.
func headerSize(h Header) int64 {
	size := int64(4 + 4 + 4*5)
	if h.Version.hasSubheader() && h.Subheader != nil {
		size += 4 + 4 + 4 + 4 + authoringToolSize + extraSubheaderDataSize
	}
	return size
}
