// Package codec reads and writes the legacy girouette file formats:
// DSW destination message sets, POL pixel fonts, and PAL color
// palettes. Field order, widths, and padding are a hard external
// contract with the legacy editor; every format round-trips exactly
// (decode(encode(x)) == x, and re-encoding a decoded file reproduces
// the original bytes).
package codec

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Error kinds surfaced by the decoders. Callers match with errors.Is.
var (
	ErrMalformedFormat    = errors.New("malformed format")
	ErrTruncatedData      = errors.New("truncated data")
	ErrUnsupportedVersion = errors.New("unsupported version")
)

// Kind selects a file format for the generic entry points.
type Kind int

const (
	KindDSW Kind = iota
	KindPOL
	KindPAL
)

func (k Kind) String() string {
	switch k {
	case KindDSW:
		return "dsw"
	case KindPOL:
		return "pol"
	case KindPAL:
		return "pal"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Decode parses data as the given kind. The concrete result is
// *model.MessageSet, *model.Font, or *model.Palette.
func Decode(data []byte, kind Kind) (any, error) {
	switch kind {
	case KindDSW:
		return DecodeDSW(data)
	case KindPOL:
		return DecodePOL(data)
	case KindPAL:
		return DecodePAL(data)
	}
	return nil, fmt.Errorf("%w: unknown kind %d", ErrMalformedFormat, int(kind))
}

// All text fields are Latin-1, matching the legacy editor. Runes the
// charset cannot represent encode as '?' so encoding stays total.
var (
	latin1Dec = charmap.ISO8859_1.NewDecoder()
	latin1Enc = encoding.ReplaceUnsupported(charmap.ISO8859_1.NewEncoder())
)

func decodeLatin1(b []byte) string {
	s, _ := latin1Dec.Bytes(b)
	return string(s)
}

func encodeLatin1(s string) []byte {
	b, _ := latin1Enc.Bytes([]byte(s))
	return b
}

// reader walks a byte buffer, tracking the offset for error context.
// All multi-byte integers in these formats are little-endian.
type reader struct {
	buf []byte
	off int
}

func (r *reader) remaining() int { return len(r.buf) - r.off }

func (r *reader) u8() (byte, error) {
	if r.remaining() < 1 {
		return 0, fmt.Errorf("%w at offset %d", ErrTruncatedData, r.off)
	}
	b := r.buf[r.off]
	r.off++
	return b, nil
}

func (r *reader) u16() (uint16, error) {
	if r.remaining() < 2 {
		return 0, fmt.Errorf("%w at offset %d", ErrTruncatedData, r.off)
	}
	v := uint16(r.buf[r.off]) | uint16(r.buf[r.off+1])<<8
	r.off += 2
	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d",
			ErrTruncatedData, n, r.off, r.remaining())
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *reader) magic(want string) error {
	if r.remaining() < len(want) {
		return fmt.Errorf("%w: file shorter than %q header", ErrMalformedFormat, want)
	}
	got := string(r.buf[r.off : r.off+len(want)])
	if got != want {
		return fmt.Errorf("%w: bad magic %q, want %q", ErrMalformedFormat, got, want)
	}
	r.off += len(want)
	return nil
}

func (r *reader) version(known byte) (byte, error) {
	v, err := r.u8()
	if err != nil {
		return 0, err
	}
	if v != known {
		return 0, fmt.Errorf("%w: version %d, supported %d", ErrUnsupportedVersion, v, known)
	}
	return v, nil
}

// writer mirrors reader for encoding. Appends never fail.
type writer struct {
	buf []byte
}

func (w *writer) u8(b byte)      { w.buf = append(w.buf, b) }
func (w *writer) u16(v uint16)   { w.buf = append(w.buf, byte(v), byte(v>>8)) }
func (w *writer) raw(b []byte)   { w.buf = append(w.buf, b...) }
func (w *writer) magic(m string) { w.buf = append(w.buf, m...) }
