package mappers

import "github.com/corenes/corenes/internal/cartridge"

func init() {
	register(0, newNROM)
}

// nrom implements mapper 0: 16KiB or 32KiB PRG, with 16KiB cartridges
// mirroring $8000-$BFFF into $C000-$FFFF (spec.md §4.3).
type nrom struct {
	cart *cartridge.Cartridge
}

func newNROM(c *cartridge.Cartridge) Mapper {
	return &nrom{cart: c}
}

func (m *nrom) ReadPRG(addr uint16) uint8 {
	if addr >= 0x6000 && addr < 0x8000 {
		return m.cart.ReadPRGRAM(addr - 0x6000)
	}
	if addr < 0x8000 {
		return 0
	}
	mask := uint16(0x3FFF)
	if len(m.cart.PRG) > 0x4000 {
		mask = 0x7FFF
	}
	return m.cart.PRG[addr&mask]
}

func (m *nrom) WritePRG(addr uint16, v uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		m.cart.WritePRGRAM(addr-0x6000, v)
	}
}

func (m *nrom) ReadCHR(addr uint16) uint8 {
	if int(addr) >= len(m.cart.CHR) {
		return 0
	}
	return m.cart.CHR[addr]
}

func (m *nrom) WriteCHR(addr uint16, v uint8) {
	if m.cart.CHRIsRAM && int(addr) < len(m.cart.CHR) {
		m.cart.CHR[addr] = v
	}
}

func (m *nrom) MirrorMode() cartridge.Mirror { return m.cart.Header.MirrorMode() }
func (m *nrom) Reset()                       {}
