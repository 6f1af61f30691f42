package mappers

import "github.com/corenes/corenes/internal/cartridge"

func init() {
	register(10, newMMC4)
}

// mmc4 implements mapper 10: MMC2's latch scheme with simpler PRG
// banking (16KiB switchable + 16KiB fixed instead of MMC2's 8K+24K) and
// whole 16K PRG banks instead of 8K.
type mmc4 struct {
	cart *cartridge.Cartridge

	latch0, latch1 bool

	prgBank, prgFixed int
	chrLoFD, chrLoFE,
	chrHiFD, chrHiFE int

	mirror cartridge.Mirror
}

func newMMC4(c *cartridge.Cartridge) Mapper {
	m := &mmc4{cart: c}
	m.Reset()
	return m
}

func (m *mmc4) Reset() {
	m.prgFixed = len(m.cart.PRG)/0x4000 - 1
	m.prgBank = 0
	m.latch0 = false
	m.latch1 = false
	m.mirror = cartridge.MirrorVertical
}

func (m *mmc4) ReadPRG(addr uint16) uint8 {
	if addr >= 0x6000 && addr < 0x8000 {
		return m.cart.ReadPRGRAM(addr - 0x6000)
	}
	if addr < 0x8000 {
		return 0
	}
	bank := m.prgFixed
	if addr < 0xC000 {
		bank = m.prgBank
	}
	idx := bank*0x4000 + int(addr&0x3FFF)
	if idx < 0 || idx >= len(m.cart.PRG) {
		return 0
	}
	return m.cart.PRG[idx]
}

func (m *mmc4) WritePRG(addr uint16, v uint8) {
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

func (m *mmc4) ReadCHR(addr uint16) uint8 {
	lo, hi := m.latch0, m.latch1

	switch {
	case addr >= 0x0FD8 && addr <= 0x0FDF:
		m.latch0 = false
	case addr >= 0x0FE8 && addr <= 0x0FEF:
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

func (m *mmc4) WriteCHR(uint16, uint8) {}

func (m *mmc4) MirrorMode() cartridge.Mirror { return m.mirror }
