package cartridge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHeaderRejectsBadMagic(t *testing.T) {
	_, err := parseHeader([]byte{0x00, 0x45, 0x53, 0x1A, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoader)
}

func TestParseHeaderRejectsTruncated(t *testing.T) {
	_, err := parseHeader([]byte{0x4E, 0x45, 0x53, 0x1A})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoader)
}

func TestMirrorMode(t *testing.T) {
	cases := []struct {
		name   string
		flags6 uint8
		want   Mirror
	}{
		{"horizontal", 0x00, MirrorHorizontal},
		{"vertical", 0x01, MirrorVertical},
		{"four-screen overrides bit 0", 0x09, MirrorFourScreen},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &Header{flags6: tc.flags6}
			assert.Equal(t, tc.want, h.MirrorMode())
		})
	}
}

func TestMapperID(t *testing.T) {
	cases := []struct {
		name           string
		flags6, flags7 uint8
		want           uint16
	}{
		{"NROM", 0x00, 0x00, 0},
		{"MMC1 low nibble only", 0x10, 0x00, 1},
		{"high and low nibbles combined", 0x40, 0x40, 0x44},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &Header{flags6: tc.flags6, flags7: tc.flags7}
			assert.Equal(t, tc.want, h.MapperID())
		})
	}
}

func TestMapperIDIgnoresRipperSignatureOutsideNES2(t *testing.T) {
	h := &Header{flags6: 0x40, flags7: 0x40, unused: [6]byte{'D', 'i', 's', 'k', 'D', '!'}}
	assert.Equal(t, uint16(4), h.MapperID(), "non-zero padding outside NES2 should mask off the high nibble, keeping only flags6's")
}

func TestHasTrainerAndBattery(t *testing.T) {
	h := &Header{flags6: flag6Trainer | flag6Battery}
	assert.True(t, h.HasTrainer())
	assert.True(t, h.HasBattery())

	h2 := &Header{}
	assert.False(t, h2.HasTrainer())
	assert.False(t, h2.HasBattery())
}
