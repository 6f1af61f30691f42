package mappers

import "github.com/corenes/corenes/internal/cartridge"

func init() {
	register(7, newAxROM)
}

// axrom implements mapper 7: a single switchable 32KiB PRG bank, with a
// single-screen mirroring select driven by bit 4 of the bank-select
// write (one physical nametable is used for the whole screen).
type axrom struct {
	cart   *cartridge.Cartridge
	bank   int
	mirror cartridge.Mirror
}

func newAxROM(c *cartridge.Cartridge) Mapper {
	return &axrom{cart: c, mirror: cartridge.MirrorOneScreenLo}
}

func (m *axrom) ReadPRG(addr uint16) uint8 {
	if addr < 0x8000 {
		return 0
	}
	idx := m.bank*0x8000 + int(addr&0x7FFF)
	if idx >= len(m.cart.PRG) {
		return 0
	}
	return m.cart.PRG[idx]
}

func (m *axrom) WritePRG(addr uint16, v uint8) {
	if addr < 0x8000 {
		return
	}
	m.bank = int(v & 0x07)
	if v&0x10 != 0 {
		m.mirror = cartridge.MirrorOneScreenHi
	} else {
		m.mirror = cartridge.MirrorOneScreenLo
	}
}

func (m *axrom) ReadCHR(addr uint16) uint8 {
	if int(addr) >= len(m.cart.CHR) {
		return 0
	}
	return m.cart.CHR[addr]
}

func (m *axrom) WriteCHR(addr uint16, v uint8) {
	if m.cart.CHRIsRAM && int(addr) < len(m.cart.CHR) {
		m.cart.CHR[addr] = v
	}
}

func (m *axrom) MirrorMode() cartridge.Mirror { return m.mirror }

func (m *axrom) Reset() {
	m.bank = 0
	m.mirror = cartridge.MirrorOneScreenLo
}
