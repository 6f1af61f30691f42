package ppu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// fakeBus is a minimal PPU bus backing CHR, nametable and palette RAM
// in flat byte slices, enough to drive scheduler and register tests
// without pulling in the mapper/bus packages.
type fakeBus struct {
	chr      [0x2000]byte
	nametbl  [0x1000]byte
	palette  [0x20]byte
}

func newFakeBus() *fakeBus { return &fakeBus{} }

func (b *fakeBus) Read(addr uint16) uint8 {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		return b.chr[addr]
	case addr < 0x3F00:
		return b.nametbl[addr&0x0FFF]
	default:
		return b.palette[paletteMirror(addr)]
	}
}

func (b *fakeBus) Write(addr uint16, v uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		b.chr[addr] = v
	case addr < 0x3F00:
		b.nametbl[addr&0x0FFF] = v
	default:
		b.palette[paletteMirror(addr)] = v
	}
}

func clockN(p *PPU, n int) {
	for i := 0; i < n; i++ {
		p.Clock()
	}
}

func dotsUntil(scanline, dot int) int {
	// dots elapsed from (scanline=-1, dot=0) to the given (scanline, dot).
	return (scanline+1)*341 + dot
}

func TestVBlankSetsStatusAndLatchesNMI(t *testing.T) {
	bus := newFakeBus()
	p := New(bus)
	p.Write(0, uint8(ctrlNMIEnable))

	clockN(p, dotsUntil(241, 1)+1)

	assert.True(t, p.status.has(statusVBlank))
	assert.True(t, p.PollNMI())
	assert.False(t, p.PollNMI(), "polling clears the latch")
}

func TestReadStatusClearsVBlankAndResetsLatch(t *testing.T) {
	bus := newFakeBus()
	p := New(bus)
	clockN(p, dotsUntil(241, 1)+1)

	p.latch.w = true
	v := p.Read(2)
	assert.NotZero(t, v&0x80)
	assert.False(t, p.status.has(statusVBlank))
	assert.False(t, p.latch.w)
}

func TestSprite0Hit(t *testing.T) {
	bus := newFakeBus()
	p := New(bus)
	p.Write(1, uint8(maskShowBG|maskShowSprites))

	// sprite 0 at (50, 60) with a nonzero tile.
	p.oam.writeByte(0, 60)
	p.oam.writeByte(1, 1)
	p.oam.writeByte(2, 0)
	p.oam.writeByte(3, 50)
	bus.chr[0x0010] = 0xFF // tile 1 low plane, all set

	// background tile 0 (every nametable entry) is nonzero on every row,
	// since scanline 60 fetches pattern row fineY = 60%8.
	for row := 0; row < 8; row++ {
		bus.chr[row] = 0xFF
	}

	clockN(p, dotsUntil(60, 51)+1)

	assert.True(t, p.status.has(statusSprite0Hit))
}

func TestPaletteMirrorRoundTrip(t *testing.T) {
	bus := newFakeBus()
	p := New(bus)

	p.Write(6, 0x3F)
	p.Write(6, 0x10)
	p.Write(7, 0x16)

	p.Write(6, 0x3F)
	p.Write(6, 0x00)
	assert.Equal(t, uint8(0x16), bus.palette[0], "every-4th-entry mirror: $3F10 aliases $3F00")
}

func TestFrameCounterIncrementsOncePerFrame(t *testing.T) {
	bus := newFakeBus()
	p := New(bus)
	clockN(p, 341*262)
	assert.Equal(t, uint64(1), p.FrameCount())
	assert.Equal(t, -1, p.scanline)
	assert.Equal(t, 0, p.dot)
}

func TestOddFrameSkipsDotZero(t *testing.T) {
	bus := newFakeBus()
	p := New(bus)
	p.Write(1, uint8(maskShowBG))
	p.oddFrame = true
	p.scanline, p.dot = -1, 340

	p.Clock()

	assert.Equal(t, 0, p.scanline)
	assert.Equal(t, 1, p.dot, "odd frame skips dot 0 of scanline 0 when rendering is enabled")
}
