package codec

import (
	"fmt"

	"github.com/example/girouette/internal/model"
)

// DSW layout:
//
//	magic "EDSW", version byte (1), message count u16
//	per message: number u16, header len u8 + latin-1 bytes,
//	             alternance count u8 (1..3)
//	per alternance: text len u16 + latin-1 bytes, mode u8,
//	                speed u8, duration u16 (tenths), color u8
//
// Color byte 0xFF marks "no palette reference".
const (
	dswMagic   = "EDSW"
	dswVersion = 1

	noColorByte = 0xFF
)

// DecodeDSW parses a destination message set. Duplicate message
// numbers are a validation error; neither message is dropped from the
// error report.
func DecodeDSW(data []byte) (*model.MessageSet, error) {
	r := &reader{buf: data}
	if err := r.magic(dswMagic); err != nil {
		return nil, err
	}
	if _, err := r.version(dswVersion); err != nil {
		return nil, err
	}
	count, err := r.u16()
	if err != nil {
		return nil, err
	}

	set := model.NewMessageSet()
	seen := make(map[int]int, count) // number -> record index
	for i := 0; i < int(count); i++ {
		msg, err := decodeMessage(r)
		if err != nil {
			return nil, fmt.Errorf("message record %d: %w", i, err)
		}
		if first, dup := seen[msg.Number]; dup {
			return nil, fmt.Errorf("records %d and %d: %w: %d",
				first, i, model.ErrDuplicateNumber, msg.Number)
		}
		seen[msg.Number] = i
		set.Messages = append(set.Messages, msg)
	}
	return set, nil
}

func decodeMessage(r *reader) (*model.Message, error) {
	number, err := r.u16()
	if err != nil {
		return nil, err
	}
	hlen, err := r.u8()
	if err != nil {
		return nil, err
	}
	hraw, err := r.bytes(int(hlen))
	if err != nil {
		return nil, err
	}
	altCount, err := r.u8()
	if err != nil {
		return nil, err
	}
	if altCount < 1 || altCount > 3 {
		return nil, fmt.Errorf("%w: alternance count %d at offset %d",
			ErrMalformedFormat, altCount, r.off-1)
	}

	msg := &model.Message{
		Number: int(number),
		Header: decodeLatin1(hraw),
	}
	for a := 0; a < int(altCount); a++ {
		alt, err := decodeAlternance(r)
		if err != nil {
			return nil, fmt.Errorf("alternance %d: %w", a, err)
		}
		msg.Alternances = append(msg.Alternances, alt)
	}
	return msg, nil
}

func decodeAlternance(r *reader) (model.Alternance, error) {
	var alt model.Alternance
	tlen, err := r.u16()
	if err != nil {
		return alt, err
	}
	traw, err := r.bytes(int(tlen))
	if err != nil {
		return alt, err
	}
	mode, err := r.u8()
	if err != nil {
		return alt, err
	}
	if !model.Mode(mode).Valid() {
		return alt, fmt.Errorf("%w: animation mode %d at offset %d",
			ErrMalformedFormat, mode, r.off-1)
	}
	speed, err := r.u8()
	if err != nil {
		return alt, err
	}
	duration, err := r.u16()
	if err != nil {
		return alt, err
	}
	colorB, err := r.u8()
	if err != nil {
		return alt, err
	}
	color := model.NoColor
	if colorB != noColorByte {
		color = int(colorB)
	}
	alt = model.Alternance{
		Text:     decodeLatin1(traw),
		Mode:     model.Mode(mode),
		Speed:    speed,
		Duration: duration,
		Color:    color,
	}
	return alt, nil
}

// EncodeDSW serializes a message set. It is total for any set that
// passes model validation; round-trips with DecodeDSW exactly.
func EncodeDSW(set *model.MessageSet) []byte {
	w := &writer{}
	w.magic(dswMagic)
	w.u8(dswVersion)
	w.u16(uint16(len(set.Messages)))
	for _, msg := range set.Messages {
		w.u16(uint16(msg.Number))
		header := encodeLatin1(msg.Header)
		w.u8(uint8(len(header)))
		w.raw(header)
		w.u8(uint8(len(msg.Alternances)))
		for _, alt := range msg.Alternances {
			text := encodeLatin1(alt.Text)
			w.u16(uint16(len(text)))
			w.raw(text)
			w.u8(byte(alt.Mode))
			w.u8(alt.Speed)
			w.u16(alt.Duration)
			if alt.Color == model.NoColor {
				w.u8(noColorByte)
			} else {
				w.u8(byte(alt.Color))
			}
		}
	}
	return w.buf
}
