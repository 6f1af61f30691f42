package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corenes/corenes/internal/cartridge"
	"github.com/corenes/corenes/internal/input"
	"github.com/corenes/corenes/internal/mappers"
)

func newTestBus(t *testing.T) *MainBus {
	t.Helper()
	c := &cartridge.Cartridge{Header: &cartridge.Header{PRGBlocks: 2}}
	c.PRG = make([]byte, 0x8000)
	c.CHR = make([]byte, 0x2000)
	m, err := mappers.New(c)
	require.NoError(t, err)
	return New(m, &input.Controller{}, &input.Controller{})
}

func TestWRAMMirrorsEvery0x800(t *testing.T) {
	b := newTestBus(t)
	b.Write(0x0000, 0x42)
	assert.Equal(t, uint8(0x42), b.Read(0x0800))
	assert.Equal(t, uint8(0x42), b.Read(0x1800))
}

func TestPPURegisterRoutingMirrorsEveryEight(t *testing.T) {
	b := newTestBus(t)
	b.Write(0x2003, 0x10) // OAMADDR = 0x10
	b.Write(0x200C, 0x7E) // $200C mirrors $2004 (OAMDATA), auto-increments OAMADDR
	b.Write(0x200B, 0x10) // $200B mirrors $2003, reset OAMADDR back to 0x10

	assert.Equal(t, uint8(0x7E), b.Read(0x2004))
}

func TestOAMDMACopiesPageAndStallsCPU(t *testing.T) {
	b := newTestBus(t)
	for i := 0; i < 256; i++ {
		b.wram[i] = byte(i)
	}
	b.Write(0x4014, 0x00)
	assert.Equal(t, 513, b.TakeStall())
	assert.Equal(t, 0, b.TakeStall(), "stall is consumed once")

	b.Write(0x2003, 0x10) // OAMADDR wrapped back to 0 after 256 bytes
	assert.Equal(t, uint8(0x10), b.Read(0x2004), "OAM holds the copied page")
}

func TestOAMDMACostsOneMoreCycleOnOddStart(t *testing.T) {
	b := newTestBus(t)
	b.totalCycles = 1
	b.Write(0x4014, 0x00)
	assert.Equal(t, 514, b.TakeStall())
}

func TestControllerStrobeSharedAcrossPorts(t *testing.T) {
	b := newTestBus(t)
	b.controllers[0].SetState(input.ButtonA)
	b.controllers[1].SetState(input.ButtonB)
	b.Write(0x4016, 1)
	b.Write(0x4016, 0)

	assert.Equal(t, uint8(1), b.Read(0x4016)&1)
	assert.Equal(t, uint8(1), b.Read(0x4017)&1)
}
