package codec

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Writer is an append-only little-endian byte sink, mirroring the teacher's
// pattern of building a []byte in place (see WritePk3ToWriter) but adding
// the full scalar/string shape set the codec needs.
type Writer struct {
	buf []byte
}

func NewWriter() *Writer { return &Writer{} }

// NewWriterCap preallocates cap bytes of backing storage.
func NewWriterCap(cap int) *Writer { return &Writer{buf: make([]byte, 0, cap)} }

func (w *Writer) Bytes() []byte { return w.buf }
func (w *Writer) Len() int      { return len(w.buf) }

func (w *Writer) WriteBool(b bool) int {
	if b {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
	return 1
}

func (w *Writer) WriteU8(v uint8) int {
	w.buf = append(w.buf, v)
	return 1
}

func (w *Writer) WriteI8(v int8) int { return w.WriteU8(uint8(v)) }

func (w *Writer) WriteU16(v uint16) int {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf = append(w.buf, b[:]...)
	return 2
}

func (w *Writer) WriteI16(v int16) int { return w.WriteU16(uint16(v)) }

// WriteU24 writes the low 3 bytes of a 4-byte little-endian write, dropping
// the high byte — matches encode_integer_u24's write-then-pop pattern.
func (w *Writer) WriteU24(v uint32) int {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[0], b[1], b[2])
	return 3
}

func (w *Writer) WriteI24(v int32) int { return w.WriteU24(uint32(v)) }

func (w *Writer) WriteU32(v uint32) int {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
	return 4
}

func (w *Writer) WriteI32(v int32) int { return w.WriteU32(uint32(v)) }

func (w *Writer) WriteU64(v uint64) int {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
	return 8
}

func (w *Writer) WriteI64(v int64) int { return w.WriteU64(uint64(v)) }

func (w *Writer) WriteF32(v float32) int { return w.WriteU32(math.Float32bits(v)) }
func (w *Writer) WriteF64(v float64) int { return w.WriteU64(math.Float64bits(v)) }

func (w *Writer) WriteF16(v float32) int { return w.WriteU16(float32ToHalf(v)) }

func (w *Writer) WriteColourRGB(v uint32) int { return w.WriteU32(v) }

// WriteCAULEB128 emits the most-significant 7-bit group first with the
// continuation bit (0x80) set, clearing it on the final (least-significant)
// byte — the mirror image of the reader's consume-until-no-continuation loop.
func (w *Writer) WriteCAULEB128(v uint32) int {
	var groups []byte
	groups = append(groups, byte(v&0x7F))
	v >>= 7
	for v != 0 {
		groups = append(groups, byte(v&0x7F)|0x80)
		v >>= 7
	}
	// groups is currently least-significant-first; reverse to MSB-first,
	// then set the continuation bit on every byte but the last emitted.
	n := len(groups)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = groups[n-1-i]
	}
	for i := 0; i < n-1; i++ {
		out[i] |= 0x80
	}
	out[n-1] &= 0x7F
	w.buf = append(w.buf, out...)
	return n
}

func (w *Writer) WriteBytes(b []byte) int {
	w.buf = append(w.buf, b...)
	return len(b)
}

func (w *Writer) WriteZeroes(n int) int {
	for i := 0; i < n; i++ {
		w.buf = append(w.buf, 0)
	}
	return n
}

// --- strings ---

func (w *Writer) WriteStringU8(s string) int { return w.WriteBytes([]byte(s)) }

// WriteStringU8ISO88591 encodes s as Latin-1, replacing any code point
// outside [0,255] with '?'.
func (w *Writer) WriteStringU8ISO88591(s string) int {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if r < 0 || r > 0xFF {
			out = append(out, '?')
		} else {
			out = append(out, byte(r))
		}
	}
	return w.WriteBytes(out)
}

func (w *Writer) WriteStringU16(s string) int {
	n := 0
	for _, r := range s {
		if r > 0xFFFF {
			r -= 0x10000
			hi := uint16(0xD800 + (r >> 10))
			lo := uint16(0xDC00 + (r & 0x3FF))
			n += w.WriteU16(hi)
			n += w.WriteU16(lo)
		} else {
			n += w.WriteU16(uint16(r))
		}
	}
	return n
}

// utf16Len returns the number of UTF-16 code units s encodes to.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if r > 0xFFFF {
			n += 2
		} else {
			n++
		}
	}
	return n
}

func (w *Writer) WriteSizedStringU8(s string) int {
	n := w.WriteU16(uint16(len(s)))
	n += w.WriteStringU8(s)
	return n
}

func (w *Writer) WriteSizedStringU8_32(s string) int {
	n := w.WriteU32(uint32(len(s)))
	n += w.WriteStringU8(s)
	return n
}

func (w *Writer) WriteSizedStringU16(s string) int {
	n := w.WriteU16(uint16(utf16Len(s)))
	n += w.WriteStringU16(s)
	return n
}

func (w *Writer) WriteSizedStringU16_32(s string) int {
	n := w.WriteU32(uint32(utf16Len(s)))
	n += w.WriteStringU16(s)
	return n
}

func (w *Writer) WriteStringU8_0Terminated(s string) int {
	n := w.WriteStringU8(s)
	n += w.WriteU8(0)
	return n
}

func (w *Writer) WriteStringU16_0Terminated(s string) int {
	n := w.WriteStringU16(s)
	n += w.WriteU16(0)
	return n
}

// WriteStringU8_0Padded writes s then pads with zero bytes up to size. It
// fails if s doesn't fit, unless cropped is true in which case s is
// truncated to fit.
func (w *Writer) WriteStringU8_0Padded(s string, size int, cropped bool) error {
	b := []byte(s)
	if len(b) > size {
		if !cropped {
			return fmt.Errorf("string %q (%d bytes) does not fit in %d-byte padded field", s, len(b), size)
		}
		b = b[:size]
	}
	w.WriteBytes(b)
	w.WriteZeroes(size - len(b))
	return nil
}

// WriteStringU16_0Padded writes s as UTF-16LE then pads with zero code
// units up to size (measured in code units, i.e. 2*size bytes total).
func (w *Writer) WriteStringU16_0Padded(s string, size int, cropped bool) error {
	units := utf16Units(s)
	if len(units) > size {
		if !cropped {
			return fmt.Errorf("string %q (%d code units) does not fit in %d-unit padded field", s, len(units), size)
		}
		units = units[:size]
	}
	for _, u := range units {
		w.WriteU16(u)
	}
	for i := len(units); i < size; i++ {
		w.WriteU16(0)
	}
	return nil
}

func utf16Units(s string) []uint16 {
	var out []uint16
	for _, r := range s {
		if r > 0xFFFF {
			r -= 0x10000
			out = append(out, uint16(0xD800+(r>>10)), uint16(0xDC00+(r&0x3FF)))
		} else {
			out = append(out, uint16(r))
		}
	}
	return out
}

// WriteOptionalStringU8 writes a leading bool and, only when s is non-empty,
// a sized UTF-8 body. An empty string encodes as a single zero byte.
func (w *Writer) WriteOptionalStringU8(s string) int {
	if s == "" {
		return w.WriteBool(false)
	}
	n := w.WriteBool(true)
	n += w.WriteSizedStringU8(s)
	return n
}

func (w *Writer) WriteOptionalStringU16(s string) int {
	if s == "" {
		return w.WriteBool(false)
	}
	n := w.WriteBool(true)
	n += w.WriteSizedStringU16(s)
	return n
}

// WriteStringColourRGB writes a "RRGGBB" hex string as a packed BGR-order
// 32-bit little-endian word (literal scenario: "0504FF" -> FF 04 05 00).
func (w *Writer) WriteStringColourRGB(hex string) (int, error) {
	if len(hex) != 6 {
		return 0, fmt.Errorf("colour string %q must be 6 hex chars", hex)
	}
	var rgb [3]byte
	for i := 0; i < 3; i++ {
		v, err := parseHexByte(hex[i*2 : i*2+2])
		if err != nil {
			return 0, fmt.Errorf("colour string %q: %w", hex, err)
		}
		rgb[i] = v
	}
	// RRGGBB -> word layout BB GG RR 00 (blue in the lowest byte).
	return w.WriteU32(uint32(rgb[2]) | uint32(rgb[1])<<8 | uint32(rgb[0])<<16), nil
}

func parseHexByte(s string) (byte, error) {
	var v uint8
	_, err := fmt.Sscanf(s, "%02x", &v)
	return v, err
}

func float32ToHalf(f float32) uint16 {
	bits := math.Float32bits(f)
	sign := uint16((bits >> 16) & 0x8000)
	exp := int32((bits>>23)&0xFF) - 127 + 15
	frac := bits & 0x7FFFFF
	switch {
	case exp <= 0:
		return sign
	case exp >= 0x1F:
		return sign | 0x7C00
	default:
		return sign | uint16(exp)<<10 | uint16(frac>>13)
	}
}
