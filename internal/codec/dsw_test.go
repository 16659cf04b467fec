package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/girouette/internal/model"
)

func sampleSet() *model.MessageSet {
	return &model.MessageSet{Messages: []*model.Message{
		{
			Number: 42,
			Header: "GARE SNCF",
			Alternances: []model.Alternance{
				{Text: "GARE", Mode: model.ModeStatic, Speed: 10, Duration: 30, Color: model.NoColor},
				{Text: "SNCF|CENTRE", Mode: model.ModeScrollLeft, Speed: 15, Duration: 50, Color: 2},
			},
		},
		{
			Number: 7,
			Header: "DÉPÔT",
			Alternances: []model.Alternance{
				{Text: "DÉPÔT²*", Mode: model.ModeBlink, Speed: 10, Duration: 20, Color: 0},
			},
		},
	}}
}

func TestDSWRoundTrip(t *testing.T) {
	set := sampleSet()
	data := EncodeDSW(set)

	got, err := DecodeDSW(data)
	require.NoError(t, err)
	assert.Equal(t, set, got)
}

func TestDSWReencodeIdempotent(t *testing.T) {
	data := EncodeDSW(sampleSet())

	set, err := DecodeDSW(data)
	require.NoError(t, err)
	assert.Equal(t, data, EncodeDSW(set))
}

func TestDSWPreservesListingOrder(t *testing.T) {
	set := sampleSet() // 42 before 7 on purpose
	got, err := DecodeDSW(EncodeDSW(set))
	require.NoError(t, err)
	assert.Equal(t, []int{42, 7}, got.Numbers())
}

func TestDSWBadMagic(t *testing.T) {
	_, err := DecodeDSW([]byte("XDSW\x01\x00\x00"))
	assert.ErrorIs(t, err, ErrMalformedFormat)

	_, err = DecodeDSW([]byte("ED"))
	assert.ErrorIs(t, err, ErrMalformedFormat)
}

func TestDSWUnsupportedVersion(t *testing.T) {
	_, err := DecodeDSW([]byte("EDSW\x09\x00\x00"))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)
}

func TestDSWTruncated(t *testing.T) {
	data := EncodeDSW(sampleSet())
	for _, cut := range []int{len(data) - 1, len(data) / 2, 7} {
		_, err := DecodeDSW(data[:cut])
		assert.ErrorIs(t, err, ErrTruncatedData, "cut at %d", cut)
	}
}

func TestDSWDuplicateNumbers(t *testing.T) {
	set := sampleSet()
	set.Messages[1].Number = 42 // collide with record 0
	data := EncodeDSW(set)

	_, err := DecodeDSW(data)
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrDuplicateNumber)
	// both record indexes are reported, nothing silently dropped
	assert.Contains(t, err.Error(), "records 0 and 1")
	assert.Contains(t, err.Error(), "42")
}

func TestDSWBadAlternanceCount(t *testing.T) {
	w := &writer{}
	w.magic(dswMagic)
	w.u8(dswVersion)
	w.u16(1)
	w.u16(5) // number
	w.u8(0)  // empty header
	w.u8(4)  // alternance count out of range

	_, err := DecodeDSW(w.buf)
	assert.ErrorIs(t, err, ErrMalformedFormat)
}

func TestDSWBadMode(t *testing.T) {
	w := &writer{}
	w.magic(dswMagic)
	w.u8(dswVersion)
	w.u16(1)
	w.u16(5)
	w.u8(0)
	w.u8(1)
	w.u16(1)
	w.raw([]byte("A"))
	w.u8(7) // unknown animation mode
	w.u8(10)
	w.u16(30)
	w.u8(noColorByte)

	_, err := DecodeDSW(w.buf)
	assert.ErrorIs(t, err, ErrMalformedFormat)
}

func TestDSWLatin1Text(t *testing.T) {
	set := &model.MessageSet{Messages: []*model.Message{{
		Number: 1,
		Header: "étoile",
		Alternances: []model.Alternance{
			{Text: "N°4 ²É", Mode: model.ModeStatic, Speed: 1, Duration: 1, Color: model.NoColor},
		},
	}}}

	got, err := DecodeDSW(EncodeDSW(set))
	require.NoError(t, err)
	assert.Equal(t, "étoile", got.Messages[0].Header)
	assert.Equal(t, "N°4 ²É", got.Messages[0].Alternances[0].Text)
}

func TestDecodeKindDispatch(t *testing.T) {
	data := EncodeDSW(sampleSet())
	v, err := Decode(data, KindDSW)
	require.NoError(t, err)
	_, ok := v.(*model.MessageSet)
	assert.True(t, ok)

	_, err = Decode(data, Kind(99))
	assert.ErrorIs(t, err, ErrMalformedFormat)
}
