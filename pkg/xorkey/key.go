package xorkey

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Size is the width of a key in bytes.
const Size = 8

// ErrInvalidKey reports a key string that is not exactly 16 hex characters.
var ErrInvalidKey = errors.New("invalid key")

// Key is a repeating XOR mask. Byte 0 is the most significant byte of the
// 64-bit value the key was parsed from.
type Key [Size]byte

// Parse decodes a 16-character hexadecimal string (case-insensitive) into a
// Key. The input is taken as-is; any other length is ErrInvalidKey.
func Parse(s string) (Key, error) {
	var k Key

	if len(s) != 2*Size {
		return k, fmt.Errorf("%w: want %d hex characters, got %d", ErrInvalidKey, 2*Size, len(s))
	}

	var v uint64
	for i := 0; i < len(s); i++ {
		d, ok := hexDigit(s[i])
		if !ok {
			return k, fmt.Errorf("%w: non-hex character %q at position %d", ErrInvalidKey, s[i], i+1)
		}
		v = v<<4 | uint64(d)
	}

	return FromUint64(v), nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Key {
	k, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return k
}

// FromUint64 lays v out big-endian.
func FromUint64(v uint64) Key {
	var k Key
	binary.BigEndian.PutUint64(k[:], v)
	return k
}

// Uint64 returns the numeric value of the key.
func (k Key) Uint64() uint64 {
	return binary.BigEndian.Uint64(k[:])
}

// String returns the upper-case hexadecimal form.
func (k Key) String() string {
	return fmt.Sprintf("%016X", k.Uint64())
}

// Apply XORs buf in place. offset is the position of buf[0] within the whole
// stream, so consecutive chunks stay aligned to the key.
func (k Key) Apply(buf []byte, offset int64) {
	pos := int(offset % Size)
	for i := range buf {
		buf[i] ^= k[pos]
		pos++
		if pos == Size {
			pos = 0
		}
	}
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
