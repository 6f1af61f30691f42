package mappers

import "github.com/corenes/corenes/internal/cartridge"

func init() {
	register(4, newMMC3)
}

// mmc3 implements mapper 4: eight bank registers selected by a target
// latch written to even $8000-$9FFF addresses, with bit 6 inverting PRG
// banking and bit 7 inverting CHR banking. It also asserts a
// scanline-counted IRQ (spec.md §4.3), consumed through the IRQSource
// interface.
type mmc3 struct {
	cart *cartridge.Cartridge

	target    uint8
	prgMode   bool
	chrInvert bool
	mirror    cartridge.Mirror

	registers [8]uint8
	prgBanks  [4]int
	chrBanks  [8]int

	irqReload  uint8
	irqCounter uint8
	irqEnable  bool
	pendingIRQ bool
}

func newMMC3(c *cartridge.Cartridge) Mapper {
	m := &mmc3{cart: c}
	m.Reset()
	return m
}

func (m *mmc3) prgBankCount() int { return len(m.cart.PRG) / 0x2000 }

func (m *mmc3) Reset() {
	m.target = 0
	m.prgMode = false
	m.chrInvert = false
	m.mirror = cartridge.MirrorHorizontal

	m.irqReload = 0
	m.irqCounter = 0
	m.irqEnable = false
	m.pendingIRQ = false

	for i := range m.registers {
		m.registers[i] = 0
	}
	for i := range m.chrBanks {
		m.chrBanks[i] = 0
	}

	last := m.prgBankCount() - 1
	if last < 1 {
		last = 1
	}
	m.prgBanks[0] = 0
	m.prgBanks[1] = 0x2000
	m.prgBanks[2] = (last - 1) * 0x2000
	m.prgBanks[3] = last * 0x2000
}

func (m *mmc3) ReadPRG(addr uint16) uint8 {
	if addr >= 0x6000 && addr < 0x8000 {
		return m.cart.ReadPRGRAM(addr - 0x6000)
	}
	if addr < 0x8000 {
		return 0
	}
	reg := (addr - 0x8000) / 0x2000
	idx := m.prgBanks[reg] + int(addr&0x1FFF)
	if idx < 0 || idx >= len(m.cart.PRG) {
		return 0
	}
	return m.cart.PRG[idx]
}

func (m *mmc3) WritePRG(addr uint16, v uint8) {
	even := addr&0x01 == 0

	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.cart.WritePRGRAM(addr-0x6000, v)
	case addr >= 0x8000 && addr < 0xA000 && even:
		m.target = v & 0x07
		m.prgMode = v&0x40 != 0
		m.chrInvert = v&0x80 != 0
	case addr >= 0x8000 && addr < 0xA000:
		m.registers[m.target] = v
		m.applyBanks()
	case addr >= 0xA000 && addr < 0xC000 && even:
		if v&0x01 != 0 {
			m.mirror = cartridge.MirrorHorizontal
		} else {
			m.mirror = cartridge.MirrorVertical
		}
	case addr >= 0xA000 && addr < 0xC000:
		// PRG-RAM protect register: not modeled, writes ignored.
	case addr >= 0xC000 && addr < 0xE000 && even:
		m.irqReload = v
	case addr >= 0xC000 && addr < 0xE000:
		m.irqCounter = 0
	case addr >= 0xE000 && even:
		m.irqEnable = false
		m.pendingIRQ = false
	case addr >= 0xE000:
		m.irqEnable = true
	}
}

func (m *mmc3) applyBanks() {
	if m.chrInvert {
		m.chrBanks[0] = int(m.registers[2]) * 0x400
		m.chrBanks[1] = int(m.registers[3]) * 0x400
		m.chrBanks[2] = int(m.registers[4]) * 0x400
		m.chrBanks[3] = int(m.registers[5]) * 0x400
		m.chrBanks[4] = int(m.registers[0]&0xFE) * 0x400
		m.chrBanks[5] = int(m.registers[0]&0xFE)*0x400 + 0x400
		m.chrBanks[6] = int(m.registers[1]&0xFE) * 0x400
		m.chrBanks[7] = int(m.registers[1]&0xFE)*0x400 + 0x400
	} else {
		m.chrBanks[0] = int(m.registers[0]&0xFE) * 0x400
		m.chrBanks[1] = int(m.registers[0]&0xFE)*0x400 + 0x400
		m.chrBanks[2] = int(m.registers[1]&0xFE) * 0x400
		m.chrBanks[3] = int(m.registers[1]&0xFE)*0x400 + 0x400
		m.chrBanks[4] = int(m.registers[2]) * 0x400
		m.chrBanks[5] = int(m.registers[3]) * 0x400
		m.chrBanks[6] = int(m.registers[4]) * 0x400
		m.chrBanks[7] = int(m.registers[5]) * 0x400
	}

	last := m.prgBankCount() - 1
	if last < 1 {
		last = 1
	}
	if m.prgMode {
		m.prgBanks[0] = (last - 1) * 0x2000
		m.prgBanks[2] = int(m.registers[6]&0x3F) * 0x2000
	} else {
		m.prgBanks[0] = int(m.registers[6]&0x3F) * 0x2000
		m.prgBanks[2] = (last - 1) * 0x2000
	}
	m.prgBanks[1] = int(m.registers[7]&0x3F) * 0x2000
	m.prgBanks[3] = last * 0x2000
}

func (m *mmc3) ReadCHR(addr uint16) uint8 {
	if m.cart.CHRIsRAM {
		if int(addr) >= len(m.cart.CHR) {
			return 0
		}
		return m.cart.CHR[addr]
	}
	reg := addr / 0x400
	idx := m.chrBanks[reg] + int(addr&0x3FF)
	if idx < 0 || idx >= len(m.cart.CHR) {
		return 0
	}
	return m.cart.CHR[idx]
}

func (m *mmc3) WriteCHR(addr uint16, v uint8) {
	if m.cart.CHRIsRAM && int(addr) < len(m.cart.CHR) {
		m.cart.CHR[addr] = v
	}
}

func (m *mmc3) MirrorMode() cartridge.Mirror { return m.mirror }

// IncScanline is called by the PPU at dot 260 of visible/pre-render
// scanlines (spec.md §4.3): the counter reloads when it hits zero, else
// decrements; a pending IRQ latches when it reaches zero with
// irq-enable set.
func (m *mmc3) IncScanline() {
	if m.irqCounter == 0 {
		m.irqCounter = m.irqReload
	} else {
		m.irqCounter--
	}

	if m.irqCounter == 0 && m.irqEnable {
		m.pendingIRQ = true
	}
}

// PollIRQ reports and clears any pending MMC3 IRQ.
func (m *mmc3) PollIRQ() bool {
	p := m.pendingIRQ
	m.pendingIRQ = false
	return p
}
