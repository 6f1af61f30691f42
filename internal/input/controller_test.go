package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReadShiftsOutLatchedButtonsLSBFirst(t *testing.T) {
	c := &Controller{}
	c.SetState(ButtonA | ButtonStart)
	c.Write(1) // strobe high
	c.Write(0) // strobe low, latch snapshot

	assert.Equal(t, uint8(1), c.Read(), "A")
	assert.Equal(t, uint8(0), c.Read(), "B")
	assert.Equal(t, uint8(0), c.Read(), "Select")
	assert.Equal(t, uint8(1), c.Read(), "Start")
}

func TestReadAfterEighthBitReturnsOnes(t *testing.T) {
	c := &Controller{}
	c.SetState(0)
	c.Write(1)
	c.Write(0)
	for i := 0; i < 8; i++ {
		c.Read()
	}
	assert.Equal(t, uint8(1), c.Read())
	assert.Equal(t, uint8(1), c.Read())
}

func TestStrobeHighContinuouslyRereadsButtonA(t *testing.T) {
	c := &Controller{}
	c.SetState(ButtonA)
	c.Write(1) // strobe stays high
	assert.Equal(t, uint8(1), c.Read())
	c.SetState(0)
	assert.Equal(t, uint8(0), c.Read(), "live state change reflected while strobe is high")
}

func TestPressedChecksLiveStateRegardlessOfStrobe(t *testing.T) {
	c := &Controller{}
	c.SetState(ButtonLeft | ButtonRight)
	assert.True(t, c.Pressed(ButtonLeft))
	assert.False(t, c.Pressed(ButtonUp))
}
