package mappers

import "github.com/corenes/corenes/internal/cartridge"

func init() {
	register(9, newMMC2)
}

// mmc2 implements mapper 9: 8KiB of switchable PRG at $8000-$9FFF with
// the remaining 24KiB fixed to the cartridge's last three 8KiB banks,
// and two independently-latched 4KiB CHR banks. Reading CHR in the
// $0FD8 or $0FE8 (low half) / $1FD8-$1FDF or $1FE8-$1FEF (high half)
// windows flips the corresponding latch for subsequent fetches
// (spec.md §4.3, MMC2/MMC4 latch note).
type mmc2 struct {
	cart *cartridge.Cartridge

	latch0, latch1 bool // false selects the "FD" bank, true the "FE" bank

	prgBank                           int
	prgFixed0, prgFixed1, prgFixed2   int
	chrLoFD, chrLoFE, chrHiFD, chrHiFE int

	mirror cartridge.Mirror
}

func newMMC2(c *cartridge.Cartridge) Mapper {
	m := &mmc2{cart: c}
	m.Reset()
	return m
}

func (m *mmc2) Reset() {
	banks := len(m.cart.PRG) / 0x2000
	m.prgFixed0 = banks - 3
	m.prgFixed1 = banks - 2
	m.prgFixed2 = banks - 1
	m.prgBank = 0
	m.latch0 = false
	m.latch1 = false
	m.mirror = cartridge.MirrorVertical
}

func (m *mmc2) ReadPRG(addr uint16) uint8 {
	if addr >= 0x6000 && addr < 0x8000 {
		return m.cart.ReadPRGRAM(addr - 0x6000)
	}
	if addr < 0x8000 {
		return 0
	}
	var bank int
	switch {
	case addr < 0xA000:
		bank = m.prgBank
	case addr < 0xC000:
		bank = m.prgFixed0
	case addr < 0xE000:
		bank = m.prgFixed1
	default:
		bank = m.prgFixed2
	}
	idx := bank*0x2000 + int(addr&0x1FFF)
	if idx < 0 || idx >= len(m.cart.PRG) {
		return 0
	}
	return m.cart.PRG[idx]
}

func (m *mmc2) WritePRG(addr uint16, v uint8) {
	switch {
	case addr >= 0x6000 && addr < 0x8000:
		m.cart.WritePRGRAM(addr-0x6000, v)
	case addr >= 0xA000 && addr < 0xB000:
		m.prgBank = int(v & 0x0F)
	case addr >= 0xB000 && addr < 0xC000:
		m.chrLoFD = int(v & 0x1F)
	case addr >= 0xC000 && addr < 0xD000:
		m.chrLoFE = int(v & 0x1F)
	case addr >= 0xD000 && addr < 0xE000:
		m.chrHiFD = int(v & 0x1F)
	case addr >= 0xE000 && addr < 0xF000:
		m.chrHiFE = int(v & 0x1F)
	case addr >= 0xF000:
		if v&0x01 != 0 {
			m.mirror = cartridge.MirrorHorizontal
		} else {
			m.mirror = cartridge.MirrorVertical
		}
	}
}

func (m *mmc2) ReadCHR(addr uint16) uint8 {
	lo, hi := m.latch0, m.latch1

	switch {
	case addr == 0x0FD8:
		m.latch0 = false
	case addr == 0x0FE8:
		m.latch0 = true
	case addr >= 0x1FD8 && addr <= 0x1FDF:
		m.latch1 = false
	case addr >= 0x1FE8 && addr <= 0x1FEF:
		m.latch1 = true
	}

	var bank int
	if addr < 0x1000 {
		if lo {
			bank = m.chrLoFE
		} else {
			bank = m.chrLoFD
		}
	} else {
		if hi {
			bank = m.chrHiFE
		} else {
			bank = m.chrHiFD
		}
	}
	idx := bank*0x1000 + int(addr&0x0FFF)
	if idx < 0 || idx >= len(m.cart.CHR) {
		return 0
	}
	return m.cart.CHR[idx]
}

func (m *mmc2) WriteCHR(uint16, uint8) {}

func (m *mmc2) MirrorMode() cartridge.Mirror { return m.mirror }
