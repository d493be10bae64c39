// Package encryption implements the Blowfish counter-mode keystream scheme
// pfh6.rs's read_pfh6 calls through its Decryptable trait
// (buffer_mem.decrypt_u32(counter), buffer_mem.decrypt_string(len)) to
// undo HAS_ENCRYPTED_INDEX/HAS_ENCRYPTED_DATA on PFH4/5/6 Packs. The
// trait's own implementation (encryption.rs) wasn't retrieved from the
// corpus, so the exact CA key bytes are approximated here from the call
// shape alone: a fixed Blowfish key encrypts a counter-derived nonce into
// an 8-byte keystream block, which is XORed against the ciphertext/value.
// Keeping the cipher only ever applied to a full 8-byte block (the counter,
// never a ciphertext fragment) avoids the non-invertibility a naive
// "decrypt half a block" reading of the call shape would otherwise hit.
// Round trips against data encrypted by this package's own Encrypt*
// functions, but will not decode a real CA Pack's encrypted index/data
// without the genuine key material.
package encryption

import (
	"fmt"

	"golang.org/x/crypto/blowfish"
)

// indexKey and dataKey are placeholders: the genuine CA key bytes live in
// encryption.rs, which wasn't part of the retrieved corpus.
var (
	indexKey = []byte("packforge-index-key-placeholder!")
	dataKey  = []byte("packforge-data-key-placeholder!!")
)

func NewIndexCipher() (*blowfish.Cipher, error) {
	c, err := blowfish.NewCipher(indexKey)
	if err != nil {
		return nil, fmt.Errorf("encryption: index cipher: %w", err)
	}
	return c, nil
}

func NewDataCipher() (*blowfish.Cipher, error) {
	c, err := blowfish.NewCipher(dataKey)
	if err != nil {
		return nil, fmt.Errorf("encryption: data cipher: %w", err)
	}
	return c, nil
}

func encryptBlock(c *blowfish.Cipher, src [8]byte) [8]byte {
	var dst [8]byte
	c.Encrypt(dst[:], src[:])
	return dst
}

// keystreamBlock derives an 8-byte keystream block from counter by
// encrypting it as a nonce. Blowfish's 8-byte block is a bijection, so
// truncating a ciphertext and decrypting the truncation can't recover the
// plaintext; running it as a counter-mode stream cipher (encrypt the
// counter, XOR the result with data) sidesteps that and keeps every
// operation below a simple self-inverse XOR.
func keystreamBlock(c *blowfish.Cipher, counter uint32) [8]byte {
	var nonce [8]byte
	nonce[4] = byte(counter)
	nonce[5] = byte(counter >> 8)
	nonce[6] = byte(counter >> 16)
	nonce[7] = byte(counter >> 24)
	return encryptBlock(c, nonce)
}

// DecryptU32 undoes EncryptU32: XOR the ciphertext against keystreamBlock's
// first four bytes and read back a little-endian u32.
func DecryptU32(c *blowfish.Cipher, counter uint32, encrypted [4]byte) uint32 {
	ks := keystreamBlock(c, counter)
	var plain [4]byte
	for i := range plain {
		plain[i] = encrypted[i] ^ ks[i]
	}
	return uint32(plain[0]) | uint32(plain[1])<<8 | uint32(plain[2])<<16 | uint32(plain[3])<<24
}

// EncryptU32 is the inverse of DecryptU32; XOR is self-inverse so the two
// functions share the same body modulo argument direction.
func EncryptU32(c *blowfish.Cipher, counter uint32, value uint32) [4]byte {
	ks := keystreamBlock(c, counter)
	var out [4]byte
	out[0] = byte(value) ^ ks[0]
	out[1] = byte(value>>8) ^ ks[1]
	out[2] = byte(value>>16) ^ ks[2]
	out[3] = byte(value>>24) ^ ks[3]
	return out
}

// DecryptString decrypts a length-byte path/name, XORing each 8-byte chunk
// against keystreamBlock(c, counter) for that chunk's index — the same
// counter-mode construction as DecryptU32, extended across the string.
func DecryptString(c *blowfish.Cipher, length uint8, encrypted []byte) (string, error) {
	if len(encrypted) < int(length) {
		return "", fmt.Errorf("encryption: DecryptString: need %d bytes, got %d", length, len(encrypted))
	}
	out := make([]byte, 0, length)
	for i := 0; i < int(length); i += 8 {
		end := i + 8
		if end > int(length) {
			end = int(length)
		}
		ks := keystreamBlock(c, uint32(i/8))
		for j := i; j < end; j++ {
			out = append(out, encrypted[j]^ks[j-i])
		}
	}
	return string(out), nil
}

// EncryptString is the inverse of DecryptString, returning a ciphertext of
// the same length as s (XOR needs no block padding).
func EncryptString(c *blowfish.Cipher, s string) []byte {
	raw := []byte(s)
	out := make([]byte, len(raw))
	for i := 0; i < len(raw); i += 8 {
		end := i + 8
		if end > len(raw) {
			end = len(raw)
		}
		ks := keystreamBlock(c, uint32(i/8))
		for j := i; j < end; j++ {
			out[j] = raw[j] ^ ks[j-i]
		}
	}
	return out
}

// EncryptPath writes a u8 plaintext length followed by EncryptString's
// ciphertext of len(path) bytes. The real CA index format has no such
// length prefix — decrypt_string's length there comes from elsewhere in
// the entry, a detail encryption.rs would have clarified — so this package
// carries its own length ahead of the ciphertext to stay self-consistent
// without the original key/layout.
func EncryptPath(c *blowfish.Cipher, path string) []byte {
	out := []byte{byte(len(path))}
	return append(out, EncryptString(c, path)...)
}

// DecryptPath is the inverse of EncryptPath, reading its length prefix and
// ciphertext directly from raw starting at off; it returns the path and
// the number of bytes consumed.
func DecryptPath(c *blowfish.Cipher, raw []byte, off int) (string, int, error) {
	if off >= len(raw) {
		return "", 0, fmt.Errorf("encryption: DecryptPath: offset %d out of range", off)
	}
	length := int(raw[off])
	start := off + 1
	if start+length > len(raw) {
		return "", 0, fmt.Errorf("encryption: DecryptPath: need %d bytes, have %d", length, len(raw)-start)
	}
	s, err := DecryptString(c, uint8(length), raw[start:start+length])
	if err != nil {
		return "", 0, err
	}
	return s, 1 + length, nil
}
