package codec

import (
	"bytes"
	"fmt"

	"github.com/example/girouette/internal/model"
)

// PAL layout:
//
//	magic "EPAL", version byte (1), color count u8,
//	then count fixed 20-byte records:
//	  name 16 bytes (latin-1, space padded), R, G, B, LED value
//
// Record order is the palette index order messages reference, so it is
// preserved exactly on both decode and encode.
const (
	palMagic      = "EPAL"
	palVersion    = 1
	palNameLen    = 16
	palRecordSize = palNameLen + 4
)

// DecodePAL parses a color palette.
func DecodePAL(data []byte) (*model.Palette, error) {
	r := &reader{buf: data}
	if err := r.magic(palMagic); err != nil {
		return nil, err
	}
	if _, err := r.version(palVersion); err != nil {
		return nil, err
	}
	count, err := r.u8()
	if err != nil {
		return nil, err
	}

	pal := model.NewPalette()
	for i := 0; i < int(count); i++ {
		rec, err := r.bytes(palRecordSize)
		if err != nil {
			return nil, fmt.Errorf("color record %d: %w", i, err)
		}
		name := decodeLatin1(bytes.TrimRight(rec[:palNameLen], " "))
		pal.Colors = append(pal.Colors, model.ColorEntry{
			Name: name,
			RGB:  model.RGB{R: rec[16], G: rec[17], B: rec[18]},
			LED:  rec[19],
		})
	}
	return pal, nil
}

// EncodePAL serializes a palette. Names longer than the fixed field are
// truncated to keep records fixed-size, as the legacy editor does.
func EncodePAL(pal *model.Palette) []byte {
	w := &writer{}
	w.magic(palMagic)
	w.u8(palVersion)
	w.u8(uint8(len(pal.Colors)))
	for _, c := range pal.Colors {
		name := encodeLatin1(c.Name)
		if len(name) > palNameLen {
			name = name[:palNameLen]
		}
		rec := make([]byte, palRecordSize)
		copy(rec, name)
		for i := len(name); i < palNameLen; i++ {
			rec[i] = ' '
		}
		rec[16], rec[17], rec[18] = c.RGB.R, c.RGB.G, c.RGB.B
		rec[19] = c.LED
		w.raw(rec)
	}
	return w.buf
}
