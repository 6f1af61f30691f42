package console

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corenes/corenes/internal/cartridge"
	"github.com/corenes/corenes/internal/input"
)

func newTestConsole(t *testing.T) *Console {
	t.Helper()
	c := &cartridge.Cartridge{Header: &cartridge.Header{PRGBlocks: 2}}
	c.PRG = make([]byte, 0x8000)
	c.CHR = make([]byte, 0x2000)

	// Reset vector -> $8000, which holds a tight JMP loop so RunFrame
	// has something to spin on without ever reaching KIL.
	c.PRG[0x7FFC] = 0x00
	c.PRG[0x7FFD] = 0x80
	c.PRG[0x0000] = 0x4C // JMP $8000
	c.PRG[0x0001] = 0x00
	c.PRG[0x0002] = 0x80

	console, err := FromCartridge(c)
	require.NoError(t, err)
	return console
}

func TestNewConsoleResetsCPUToResetVector(t *testing.T) {
	console := newTestConsole(t)
	assert.Equal(t, uint16(0x8000), console.CPU.PC)
}

func TestRunFrameAdvancesExactlyOneFrame(t *testing.T) {
	console := newTestConsole(t)
	before := console.Bus.PPU.FrameCount()
	console.RunFrame()
	assert.Equal(t, before+1, console.Bus.PPU.FrameCount())
}

func TestSetButtonsReachesControllerPort(t *testing.T) {
	console := newTestConsole(t)
	console.SetButtons(0, input.ButtonA|input.ButtonStart)

	console.Controllers[0].Write(1) // strobe high
	console.Controllers[0].Write(0) // strobe low, latch state
	assert.Equal(t, uint8(1), console.Controllers[0].Read()&1)
}

func TestResetClearsHaltedState(t *testing.T) {
	console := newTestConsole(t)
	console.Cart.PRG[0x0000] = 0x02 // KIL at the reset-vector target
	console.CPU.Execute()
	require.True(t, console.CPU.Halted())

	console.CPU.Reset()
	assert.False(t, console.CPU.Halted())
}

func TestFramebufferLengthMatchesNTSCResolution(t *testing.T) {
	console := newTestConsole(t)
	assert.Len(t, console.Framebuffer(), 256*240*3)
}
