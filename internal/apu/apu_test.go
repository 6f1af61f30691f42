package apu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteLatchesPulseRegisters(t *testing.T) {
	a := New()
	a.Write(0x4000, 0x3F)
	a.Write(0x4001, 0x80)
	assert.Equal(t, uint8(0x3F), a.pulse1.control)
	assert.Equal(t, uint8(0x80), a.pulse1.sweep)
}

func TestReadStatusMasksToFiveChannelBits(t *testing.T) {
	a := New()
	a.Write(0x4015, 0xFF)
	assert.Equal(t, uint8(0x1F), a.Read(0x4015))
}

func TestFrameCounterIRQInhibitClearsPending(t *testing.T) {
	a := New()
	a.irqPending = true
	a.Write(0x4017, 0x40) // set IRQ-inhibit bit
	assert.False(t, a.irqPending)
}

func TestReadNonStatusAddressReturnsZero(t *testing.T) {
	a := New()
	a.Write(0x4000, 0xFF)
	assert.Equal(t, uint8(0), a.Read(0x4000))
}

func TestPollIRQAlwaysFalse(t *testing.T) {
	a := New()
	a.irqPending = true
	assert.False(t, a.PollIRQ())
}

func TestResetClearsAllLatches(t *testing.T) {
	a := New()
	a.Write(0x4000, 0xFF)
	a.Write(0x4015, 0xFF)
	a.Reset()
	assert.Equal(t, uint8(0), a.pulse1.control)
	assert.Equal(t, uint8(0), a.Read(0x4015))
}
