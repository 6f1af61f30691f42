package cartridge

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildROM(prgBlocks, chrBlocks int, flags6, flags7 byte, trainer bool) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0x4E, 0x45, 0x53, 0x1A})
	buf.WriteByte(byte(prgBlocks))
	buf.WriteByte(byte(chrBlocks))
	buf.WriteByte(flags6)
	buf.WriteByte(flags7)
	buf.Write(make([]byte, 8)) // flags8-15
	if trainer {
		buf.Write(make([]byte, trainerSize))
	}
	buf.Write(make([]byte, prgBlocks*prgBlock))
	buf.Write(make([]byte, chrBlocks*chrBlock))
	return buf.Bytes()
}

func TestReadNROM32K(t *testing.T) {
	raw := buildROM(2, 1, 0x00, 0x00, false)
	c, err := Read(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Len(t, c.PRG, 2*prgBlock)
	assert.Len(t, c.CHR, chrBlock)
	assert.False(t, c.CHRIsRAM)
}

func TestReadCHRRAMFallback(t *testing.T) {
	raw := buildROM(1, 0, 0x00, 0x00, false)
	c, err := Read(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.True(t, c.CHRIsRAM)
	assert.Len(t, c.CHR, chrBlock)
}

func TestReadWithTrainer(t *testing.T) {
	raw := buildROM(1, 1, flag6Trainer, 0x00, true)
	c, err := Read(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Len(t, c.Trainer, trainerSize)
}

func TestReadTruncatedPRG(t *testing.T) {
	raw := buildROM(2, 1, 0x00, 0x00, false)
	raw = raw[:len(raw)-chrBlock-100] // drop all of CHR and the tail of PRG
	_, err := Read(bytes.NewReader(raw))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoader)
}

func TestPRGRAMRoundTrip(t *testing.T) {
	c := &Cartridge{Header: &Header{}}
	c.WritePRGRAM(0x0010, 0x42)
	assert.Equal(t, uint8(0x42), c.ReadPRGRAM(0x0010))
}
