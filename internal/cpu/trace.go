package cpu

import "fmt"

// Trace renders the instruction at PC in the disassembling trace
// format from spec.md §6 ("CPU trace line"): a 47-column
// address/bytes/operand field followed by the register dump, all
// uppercase. It does not mutate CPU state beyond the memory reads a
// real disassembler would perform (so PPU open-bus latch refreshes
// are a known, accepted side effect of tracing register-mapped
// addresses).
func (c *CPU) Trace() string {
	opcode := c.bus.Read(c.PC)
	entry := &opcodeTable[opcode]
	n := operandBytes(entry.mode)

	raw := make([]uint8, 1+n)
	raw[0] = opcode
	for i := uint16(0); i < n; i++ {
		raw[1+i] = c.bus.Read(c.PC + 1 + i)
	}

	bytesField := ""
	for i, b := range raw {
		if i > 0 {
			bytesField += " "
		}
		bytesField += fmt.Sprintf("%02X", b)
	}

	operand := c.traceOperand(entry, raw)
	disasm := entry.name
	if operand != "" {
		disasm += " " + operand
	}

	return fmt.Sprintf("%04X  %-8s  %-30s A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%d",
		c.PC, bytesField, disasm, c.A, c.X, c.Y, uint8(c.P)|uint8(FlagUnused), c.SP, c.Cycles)
}

func (c *CPU) traceOperand(entry *opcodeEntry, raw []uint8) string {
	word := func() uint16 { return uint16(raw[1]) | uint16(raw[2])<<8 }

	switch entry.mode {
	case ModeImplied:
		return ""
	case ModeAccumulator:
		return "A"
	case ModeImmediate:
		return fmt.Sprintf("#$%02X", raw[1])
	case ModeZeroPage:
		return fmt.Sprintf("$%02X = %02X", raw[1], c.bus.Read(uint16(raw[1])))
	case ModeZeroPageX:
		return fmt.Sprintf("$%02X,X", raw[1])
	case ModeZeroPageY:
		return fmt.Sprintf("$%02X,Y", raw[1])
	case ModeRelative:
		offset := int8(raw[1])
		target := uint16(int32(c.PC) + 2 + int32(offset))
		return fmt.Sprintf("$%04X", target)
	case ModeAbsolute:
		if entry.name == "JMP" || entry.name == "JSR" {
			return fmt.Sprintf("$%04X", word())
		}
		return fmt.Sprintf("$%04X = %02X", word(), c.bus.Read(word()))
	case ModeAbsoluteX, ModeAbsoluteXWrite:
		return fmt.Sprintf("$%04X,X", word())
	case ModeAbsoluteY, ModeAbsoluteYWrite:
		return fmt.Sprintf("$%04X,Y", word())
	case ModeIndirect:
		return fmt.Sprintf("($%04X)", word())
	case ModeIndirectX:
		return fmt.Sprintf("($%02X,X)", raw[1])
	case ModeIndirectY, ModeIndirectYWrite:
		return fmt.Sprintf("($%02X),Y", raw[1])
	}
	return ""
}
