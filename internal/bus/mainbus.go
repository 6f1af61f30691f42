// Package bus wires the CPU-side and PPU-side address spaces together:
// work RAM mirroring, PPU/APU/controller register routing, OAM DMA,
// and the PPU-bus CHR/nametable/palette routing in ppubus.go.
package bus

import (
	"github.com/golang/glog"

	"github.com/corenes/corenes/internal/apu"
	"github.com/corenes/corenes/internal/input"
	"github.com/corenes/corenes/internal/mappers"
	"github.com/corenes/corenes/internal/ppu"
)

// MainBus implements the CPU's view of the machine, per spec.md §4.4
// "Main bus".
type MainBus struct {
	wram [2048]byte

	PPU *ppu.PPU
	APU *apu.APU

	mapper      mappers.Mapper
	controllers [2]*input.Controller

	totalCycles uint64
	stallCycles int
}

// New wires a main bus to its owned PPU and the cartridge's mapper.
// The PPU itself is exclusively owned by the bus (per spec.md §4.4's
// "cyclic ownership" note); callers reach it only through MainBus.PPU.
func New(mapper mappers.Mapper, p1, p2 *input.Controller) *MainBus {
	b := &MainBus{
		mapper:      mapper,
		controllers: [2]*input.Controller{p1, p2},
		APU:         apu.New(),
	}
	ppuBus := NewPPUBus(mapper)
	b.PPU = ppu.New(ppuBus)
	if irqSrc, ok := mapper.(mappers.IRQSource); ok {
		b.PPU.OnScanlineEdge = irqSrc.IncScanline
	}
	return b
}

// Read services one CPU memory read.
func (b *MainBus) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return b.wram[addr&0x07FF]
	case addr < 0x4000:
		return b.PPU.Read(uint8(addr & 7))
	case addr == 0x4015:
		return b.APU.Read(addr)
	case addr == 0x4016:
		return b.controllers[0].Read()
	case addr == 0x4017:
		return b.controllers[1].Read()
	case addr < 0x4020:
		return 0 // remaining APU range is write-only
	default:
		return b.mapper.ReadPRG(addr)
	}
}

// Write services one CPU memory write.
func (b *MainBus) Write(addr uint16, v uint8) {
	switch {
	case addr < 0x2000:
		b.wram[addr&0x07FF] = v
	case addr < 0x4000:
		b.PPU.Write(uint8(addr&7), v)
	case addr == 0x4014:
		b.doOAMDMA(v)
	case addr == 0x4016:
		b.controllers[0].Write(v)
		b.controllers[1].Write(v)
	case addr < 0x4018:
		b.APU.Write(addr, v)
	case addr < 0x4020:
		// APU/IO test-mode range, unimplemented.
	default:
		b.mapper.WritePRG(addr, v)
	}
}

// doOAMDMA implements the $4014 OAM DMA transfer: 256 bytes copied
// from $N00-$NFF into OAM, costing the CPU 513 cycles (514 if the
// transfer starts on an odd CPU cycle), per spec.md §4.4.
func (b *MainBus) doOAMDMA(page uint8) {
	var buf [256]byte
	base := uint16(page) << 8
	for i := range buf {
		buf[i] = b.Read(base + uint16(i))
	}
	b.PPU.WriteOAMDMA(buf)

	cost := 513
	if b.totalCycles%2 == 1 {
		cost = 514
	}
	b.stallCycles += cost
	glog.V(3).Infof("bus: OAM DMA from page %02X, stall=%d", page, cost)
}

// TakeStall returns and clears any CPU cycles owed for OAM DMA.
func (b *MainBus) TakeStall() int {
	s := b.stallCycles
	b.stallCycles = 0
	return s
}

// Tick advances the PPU 3 dots (and the APU 1 step) per CPU cycle
// consumed, per spec.md §2's "for every CPU cycle the PPU advances
// three cycles".
func (b *MainBus) Tick(cpuCycles int) {
	for i := 0; i < cpuCycles; i++ {
		b.totalCycles++
		b.PPU.Clock()
		b.PPU.Clock()
		b.PPU.Clock()
		b.APU.Step()
	}
}

// PollIRQ reports whether the mapper or APU has a pending IRQ.
func (b *MainBus) PollIRQ() bool {
	if irqSrc, ok := b.mapper.(mappers.IRQSource); ok && irqSrc.PollIRQ() {
		return true
	}
	return b.APU.PollIRQ()
}

// PollNMI reports and clears a latched PPU NMI request.
func (b *MainBus) PollNMI() bool { return b.PPU.PollNMI() }
