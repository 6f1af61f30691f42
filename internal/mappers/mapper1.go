package mappers

import "github.com/corenes/corenes/internal/cartridge"

func init() {
	register(1, newMMC1)
}

// mmc1 implements mapper 1: a 5-bit serial shift register fed one D0
// bit per write to $8000-$FFFF. The fifth write dispatches the
// accumulated value to control/CHR-low/CHR-high/PRG, selected by bits
// 13-14 of the write address. A write with D7 set resets the shift
// register and forces control into PRG mode 3 (16K switchable at
// $8000, last bank fixed at $C000) (spec.md §4.3).
type mmc1 struct {
	cart *cartridge.Cartridge

	shift uint8
	count uint8

	control uint8 // CPPMM: chr-mode(1) prg-mode(2) mirror(2)
	chrBank0,
	chrBank1 uint8
	prgBank uint8

	mirror cartridge.Mirror
}

func newMMC1(c *cartridge.Cartridge) Mapper {
	m := &mmc1{cart: c}
	m.Reset()
	return m
}

func (m *mmc1) Reset() {
	m.shift = 0
	m.count = 0
	m.control = 0x0C
	m.chrBank0 = 0
	m.chrBank1 = 0
	m.prgBank = 0
	m.mirror = cartridge.MirrorVertical
}

func (m *mmc1) prgBankCount() int { return len(m.cart.PRG) / 0x4000 }

func (m *mmc1) ReadPRG(addr uint16) uint8 {
	if addr >= 0x6000 && addr < 0x8000 {
		return m.cart.ReadPRGRAM(addr - 0x6000)
	}
	if addr < 0x8000 {
		return 0
	}

	var idx int
	prgMode := (m.control >> 2) & 0x03
	switch prgMode {
	case 0, 1: // 32K mode, ignoring low bit of bank
		bank := int(m.prgBank>>1) * 0x8000
		idx = bank + int(addr&0x7FFF)
	case 2: // fixed first bank, switch $C000
		if addr < 0xC000 {
			idx = int(addr & 0x3FFF)
		} else {
			idx = int(m.prgBank)*0x4000 + int(addr&0x3FFF)
		}
	default: // 3: switch $8000, fixed last bank
		if addr < 0xC000 {
			idx = int(m.prgBank)*0x4000 + int(addr&0x3FFF)
		} else {
			last := m.prgBankCount() - 1
			idx = last*0x4000 + int(addr&0x3FFF)
		}
	}
	if idx < 0 || idx >= len(m.cart.PRG) {
		return 0
	}
	return m.cart.PRG[idx]
}

func (m *mmc1) WritePRG(addr uint16, v uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.cart.WritePRGRAM(addr-0x6000, v)
		return
	}
	if addr < 0x8000 {
		return
	}

	if v&0x80 != 0 {
		m.shift = 0
		m.count = 0
		m.control |= 0x0C
		return
	}

	m.shift |= (v & 0x01) << m.count
	m.count++
	if m.count < 5 {
		return
	}

	target := (addr >> 13) & 0x03
	switch target {
	case 0:
		m.control = m.shift & 0x1F
		switch m.control & 0x03 {
		case 0:
			m.mirror = cartridge.MirrorOneScreenLo
		case 1:
			m.mirror = cartridge.MirrorOneScreenHi
		case 2:
			m.mirror = cartridge.MirrorVertical
		default:
			m.mirror = cartridge.MirrorHorizontal
		}
	case 1:
		m.chrBank0 = m.shift & 0x1F
	case 2:
		m.chrBank1 = m.shift & 0x1F
	default:
		m.prgBank = m.shift & 0x1F
	}

	m.shift = 0
	m.count = 0
}

func (m *mmc1) chr4KMode() bool { return m.control&0x10 != 0 }

func (m *mmc1) ReadCHR(addr uint16) uint8 {
	if m.cart.CHRIsRAM && len(m.cart.CHR) <= 0x2000 {
		return m.cart.CHR[addr&0x1FFF]
	}

	var idx int
	if m.chr4KMode() {
		if addr < 0x1000 {
			idx = int(m.chrBank0)*0x1000 + int(addr&0x0FFF)
		} else {
			idx = int(m.chrBank1)*0x1000 + int(addr&0x0FFF)
		}
	} else {
		idx = int(m.chrBank0>>1)*0x2000 + int(addr&0x1FFF)
	}
	if idx >= len(m.cart.CHR) {
		return 0
	}
	return m.cart.CHR[idx]
}

func (m *mmc1) WriteCHR(addr uint16, v uint8) {
	if !m.cart.CHRIsRAM {
		return
	}
	if len(m.cart.CHR) <= 0x2000 {
		m.cart.CHR[addr&0x1FFF] = v
		return
	}

	var idx int
	if m.chr4KMode() {
		if addr < 0x1000 {
			idx = int(m.chrBank0)*0x1000 + int(addr&0x0FFF)
		} else {
			idx = int(m.chrBank1)*0x1000 + int(addr&0x0FFF)
		}
	} else {
		idx = int(m.chrBank0>>1)*0x2000 + int(addr&0x1FFF)
	}
	if idx < len(m.cart.CHR) {
		m.cart.CHR[idx] = v
	}
}

func (m *mmc1) MirrorMode() cartridge.Mirror { return m.mirror }
