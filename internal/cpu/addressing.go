package cpu

// Mode identifies one of the 6502's sixteen addressing-mode variants,
// per spec.md §4.1. The write variants exist purely to suppress the
// page-crossing cycle penalty that read variants incur.
type Mode uint8

const (
	ModeImplied Mode = iota
	ModeAccumulator
	ModeImmediate
	ModeZeroPage
	ModeZeroPageX
	ModeZeroPageY
	ModeRelative
	ModeAbsolute
	ModeAbsoluteX
	ModeAbsoluteXWrite
	ModeAbsoluteY
	ModeAbsoluteYWrite
	ModeIndirect
	ModeIndirectX
	ModeIndirectY
	ModeIndirectYWrite
)

// operandBytes is the number of bytes following the opcode byte that
// each mode consumes.
func operandBytes(m Mode) uint16 {
	switch m {
	case ModeImplied, ModeAccumulator:
		return 0
	case ModeAbsolute, ModeAbsoluteX, ModeAbsoluteXWrite, ModeAbsoluteY, ModeAbsoluteYWrite, ModeIndirect:
		return 2
	default:
		return 1
	}
}

func pagesDiffer(a, b uint16) bool { return a&0xFF00 != b&0xFF00 }

// resolve advances PC past the operand bytes of mode and returns the
// effective address (meaningless for Implied/Accumulator/Relative,
// which are handled specially by their opcode handlers) and whether
// a page boundary was crossed while forming it.
func (c *CPU) resolve(m Mode) (addr uint16, crossed bool) {
	switch m {
	case ModeImplied, ModeAccumulator:
		return 0, false

	case ModeImmediate:
		addr = c.PC
		c.PC++
		return addr, false

	case ModeRelative:
		addr = c.PC
		c.PC++
		return addr, false

	case ModeZeroPage:
		addr = uint16(c.bus.Read(c.PC))
		c.PC++
		return addr, false

	case ModeZeroPageX:
		addr = uint16(uint8(c.bus.Read(c.PC)) + c.X)
		c.PC++
		return addr, false

	case ModeZeroPageY:
		addr = uint16(uint8(c.bus.Read(c.PC)) + c.Y)
		c.PC++
		return addr, false

	case ModeAbsolute:
		addr = c.readWord(c.PC)
		c.PC += 2
		return addr, false

	case ModeAbsoluteX:
		base := c.readWord(c.PC)
		c.PC += 2
		addr = base + uint16(c.X)
		return addr, pagesDiffer(base, addr)

	case ModeAbsoluteXWrite:
		base := c.readWord(c.PC)
		c.PC += 2
		return base + uint16(c.X), false

	case ModeAbsoluteY:
		base := c.readWord(c.PC)
		c.PC += 2
		addr = base + uint16(c.Y)
		return addr, pagesDiffer(base, addr)

	case ModeAbsoluteYWrite:
		base := c.readWord(c.PC)
		c.PC += 2
		return base + uint16(c.Y), false

	case ModeIndirect:
		ptr := c.readWord(c.PC)
		c.PC += 2
		return c.readWordBug(ptr), false

	case ModeIndirectX:
		zp := uint8(c.bus.Read(c.PC)) + c.X
		c.PC++
		return c.readWordZP(zp), false

	case ModeIndirectY:
		zp := uint8(c.bus.Read(c.PC))
		c.PC++
		base := c.readWordZP(zp)
		addr = base + uint16(c.Y)
		return addr, pagesDiffer(base, addr)

	case ModeIndirectYWrite:
		zp := uint8(c.bus.Read(c.PC))
		c.PC++
		base := c.readWordZP(zp)
		return base + uint16(c.Y), false
	}
	return 0, false
}

func (c *CPU) readWord(addr uint16) uint16 {
	lo := uint16(c.bus.Read(addr))
	hi := uint16(c.bus.Read(addr + 1))
	return lo | hi<<8
}

// readWordZP reads a 16-bit pointer from the zero page, wrapping
// within page zero (the high byte fetch never crosses into page one).
func (c *CPU) readWordZP(zp uint8) uint16 {
	lo := uint16(c.bus.Read(uint16(zp)))
	hi := uint16(c.bus.Read(uint16(zp + 1)))
	return lo | hi<<8
}

// readWordBug replicates the indirect-JMP hardware bug: if the
// pointer's low byte is 0xFF, the high byte is fetched from the start
// of the same page rather than the next one.
func (c *CPU) readWordBug(ptr uint16) uint16 {
	lo := uint16(c.bus.Read(ptr))
	var hiAddr uint16
	if ptr&0x00FF == 0x00FF {
		hiAddr = ptr & 0xFF00
	} else {
		hiAddr = ptr + 1
	}
	hi := uint16(c.bus.Read(hiAddr))
	return lo | hi<<8
}
