package mappers

import "github.com/corenes/corenes/internal/cartridge"

func init() {
	register(3, newCNROM)
}

// cnrom implements mapper 3: fixed PRG (16K mirrored or 32K), a single
// switchable 8KiB CHR bank selected by any $8000-$FFFF write.
type cnrom struct {
	cart *cartridge.Cartridge
	bank int
}

func newCNROM(c *cartridge.Cartridge) Mapper {
	return &cnrom{cart: c}
}

func (m *cnrom) ReadPRG(addr uint16) uint8 {
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

func (m *cnrom) WritePRG(addr uint16, v uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.cart.WritePRGRAM(addr-0x6000, v)
	case addr >= 0x8000:
		m.bank = int(v & 0x03)
	}
}

func (m *cnrom) ReadCHR(addr uint16) uint8 {
	if m.cart.CHRIsRAM {
		if int(addr) >= len(m.cart.CHR) {
			return 0
		}
		return m.cart.CHR[addr]
	}
	banks := len(m.cart.CHR) / 0x2000
	if banks == 0 {
		return 0
	}
	idx := (m.bank*0x2000 + int(addr)) % (banks * 0x2000)
	return m.cart.CHR[idx]
}

func (m *cnrom) WriteCHR(addr uint16, v uint8) {
	if m.cart.CHRIsRAM && int(addr) < len(m.cart.CHR) {
		m.cart.CHR[addr] = v
	}
}

func (m *cnrom) MirrorMode() cartridge.Mirror { return m.cart.Header.MirrorMode() }

func (m *cnrom) Reset() { m.bank = 0 }
