// Package ppu implements the 2C02 picture processor: the background
// fetch pipeline, sprite evaluation on secondary OAM, sprite-zero-hit
// detection, VBlank/NMI signaling, and the Loopy internal address
// registers.
package ppu

import (
	"github.com/golang/glog"
)

const (
	screenWidth  = 256
	screenHeight = 240

	openBusDecayDots = 3750 // per spec.md §7, "Open-bus decay"
)

// Bus is the PPU's view of its 14-bit address space: pattern tables
// (via the mapper), nametable VRAM and palette RAM. A concrete
// implementation lives in internal/bus so this package never imports
// it back.
type Bus interface {
	Read(addr uint16) uint8
	Write(addr uint16, v uint8)
}

// PPU holds all 2C02 state: registers, Loopy address registers,
// rendering scratchpad, OAM, and the output framebuffer.
type PPU struct {
	bus Bus

	ctrl   ctrl
	mask   mask
	status status

	oamAddrReg uint8
	oam        oam

	v, t  loopy
	fineX uint8
	latch addrLatch

	readBuffer uint8

	openBus      uint8
	openBusTimer int

	// background scratchpad
	nextTileID, nextTileAttr, nextTileLo, nextTileHi uint8
	shiftPatternLo, shiftPatternHi                   uint16
	shiftAttrLo, shiftAttrHi                         uint16

	scanline int // -1..260
	dot      int // 0..340
	oddFrame bool
	frame    uint64

	nmiLatched bool

	framebuffer [screenWidth * screenHeight * 3]uint8

	// OnFrame is invoked with the current framebuffer when a frame
	// completes (scanline 241, dot 1), after the VBlank flag is set.
	OnFrame func(fb []uint8)

	// OnScanlineEdge is invoked at dot 260 of every visible and
	// pre-render scanline, regardless of rendering state, so mapper
	// IRQ counters (MMC3) can observe PPU A12 transitions.
	OnScanlineEdge func()
}

// New creates a PPU wired to the given bus abstraction.
func New(bus Bus) *PPU {
	p := &PPU{bus: bus}
	p.Reset()
	return p
}

// Reset returns the PPU to its post-power-on state.
func (p *PPU) Reset() {
	p.ctrl, p.mask, p.status = 0, 0, 0
	p.oamAddrReg = 0
	p.v, p.t = loopy{}, loopy{}
	p.fineX = 0
	p.latch.reset()
	p.readBuffer = 0
	p.scanline, p.dot = -1, 0
	p.oddFrame = false
	p.nmiLatched = false
}

// FrameCount returns the number of completed frames.
func (p *PPU) FrameCount() uint64 { return p.frame }

// PollNMI reports and clears a latched NMI request, mirroring the CPU
// interrupt line's edge-triggered behavior.
func (p *PPU) PollNMI() bool {
	n := p.nmiLatched
	p.nmiLatched = false
	return n
}

// Framebuffer returns the current frame's packed RGB pixel bytes.
func (p *PPU) Framebuffer() []uint8 { return p.framebuffer[:] }

// --- register interface ($2000-$2007, addr masked to 0..7) ---

// Read services a CPU read of PPU register reg (0..7).
func (p *PPU) Read(reg uint8) uint8 {
	var result uint8
	switch reg & 7 {
	case 2: // PPUSTATUS
		result = (uint8(p.status) & 0xE0) | (p.openBus & 0x1F)
		p.status.clear(statusVBlank)
		p.latch.reset()
	case 4: // OAMDATA
		if p.scanline >= 0 && p.scanline < 240 && p.dot >= 1 && p.dot <= 64 {
			result = 0xFF
		} else {
			result = p.oam.readByte(p.oamAddrReg)
		}
	case 7: // PPUDATA
		addr := p.v.data & 0x3FFF
		if addr >= 0x3F00 {
			result = p.bus.Read(addr)
			p.readBuffer = p.bus.Read(addr - 0x1000)
		} else {
			result = p.readBuffer
			p.readBuffer = p.bus.Read(addr)
		}
		p.v.data += p.ctrl.vramIncrement()
	default:
		result = p.openBus
	}
	p.refreshOpenBus(result)
	return result
}

// Write services a CPU write of PPU register reg (0..7).
func (p *PPU) Write(reg uint8, data uint8) {
	p.refreshOpenBus(data)
	switch reg & 7 {
	case 0: // PPUCTRL
		p.ctrl = ctrl(data)
		p.t.data = (p.t.data &^ 0x0C00) | (uint16(data&0x03) << 10)
	case 1: // PPUMASK
		p.mask = mask(data)
	case 3: // OAMADDR
		p.oamAddrReg = data
	case 4: // OAMDATA
		p.oam.writeByte(p.oamAddrReg, data)
		p.oamAddrReg++
	case 5: // PPUSCROLL
		if !p.latch.w {
			p.fineX = data & 0x07
			p.t.setCoarseX(uint16(data >> 3))
		} else {
			p.t.setCoarseY(uint16(data >> 3))
			p.t.setFineY(uint16(data & 0x07))
		}
		p.latch.toggle()
	case 6: // PPUADDR
		if !p.latch.w {
			p.t.data = (p.t.data & 0x00FF) | (uint16(data&0x3F) << 8)
		} else {
			p.t.data = (p.t.data &^ 0x00FF) | uint16(data)
			p.v = p.t
		}
		p.latch.toggle()
	case 7: // PPUDATA
		p.bus.Write(p.v.data&0x3FFF, data)
		p.v.data += p.ctrl.vramIncrement()
	}
}

func (p *PPU) refreshOpenBus(v uint8) {
	p.openBus = v
	p.openBusTimer = openBusDecayDots
}

// WriteOAMDMA copies 256 bytes into primary OAM starting at the
// current OAMADDR, as triggered by a $4014 write on the main bus.
func (p *PPU) WriteOAMDMA(page [256]byte) {
	for _, b := range page {
		p.oam.writeByte(p.oamAddrReg, b)
		p.oamAddrReg++
	}
}

// --- dot/scanline scheduler, per spec.md §4.2 ---

func (p *PPU) renderingEnabled() bool { return p.mask.renderingEnabled() }

// Clock advances the PPU by exactly one dot.
func (p *PPU) Clock() {
	p.tickOpenBus()

	if p.dot == 260 && p.scanline >= -1 && p.scanline <= 239 && p.OnScanlineEdge != nil {
		p.OnScanlineEdge()
	}

	switch {
	case p.scanline == -1:
		p.preRenderScanline()
	case p.scanline >= 0 && p.scanline <= 239:
		p.visibleScanline()
	case p.scanline == 241 && p.dot == 1:
		p.status.set(statusVBlank)
		if p.ctrl.has(ctrlNMIEnable) {
			p.nmiLatched = true
		}
		if p.OnFrame != nil {
			p.OnFrame(p.framebuffer[:])
		}
	}

	p.advanceDot()
}

func (p *PPU) tickOpenBus() {
	if p.openBusTimer > 0 {
		p.openBusTimer--
		if p.openBusTimer == 0 {
			p.openBus = 0
		}
	}
}

func (p *PPU) preRenderScanline() {
	if p.dot == 1 {
		p.status.clear(statusVBlank | statusSprite0Hit | statusSpriteOverflow)
	}
	if p.renderingEnabled() {
		p.backgroundFetch()
		if p.dot == 257 {
			p.v.copyHoriz(&p.t)
			p.oam.evaluate(0, p.ctrl.spriteHeight())
		}
		if p.dot == 321 {
			p.oam.loadUnits(0, p.ctrl.spriteHeight(), p.ctrl, p.fetchSpriteRow)
		}
		if p.dot >= 280 && p.dot <= 304 {
			p.v.copyVert(&p.t)
		}
	}
}

func (p *PPU) visibleScanline() {
	if p.renderingEnabled() {
		p.backgroundFetch()
		if p.dot == 257 {
			p.v.copyHoriz(&p.t)
			p.oam.evaluate(p.scanline+1, p.ctrl.spriteHeight())
			if p.oam.overflow {
				p.status.set(statusSpriteOverflow)
			}
		}
		if p.dot == 321 {
			p.oam.loadUnits(p.scanline+1, p.ctrl.spriteHeight(), p.ctrl, p.fetchSpriteRow)
		}
	}
	if p.dot >= 1 && p.dot <= 256 {
		p.renderPixel()
		p.shiftSprites()
	}
}

// backgroundFetch implements the 8-dot fetch sequence and vertical/
// horizontal scroll increments described in spec.md §4.2.
func (p *PPU) backgroundFetch() {
	inFetchWindow := (p.dot >= 2 && p.dot <= 258) || (p.dot >= 321 && p.dot <= 338)
	if inFetchWindow {
		p.shiftBackground()
		switch p.dot % 8 {
		case 1:
			p.loadShifters()
			p.nextTileID = p.bus.Read(p.v.tileAddr())
		case 3:
			attr := p.bus.Read(p.v.attrAddr())
			if p.v.coarseY()&2 != 0 {
				attr >>= 4
			}
			if p.v.coarseX()&2 != 0 {
				attr >>= 2
			}
			p.nextTileAttr = attr & 0x03
		case 5:
			base := p.ctrl.bgPatternBase()
			addr := base + uint16(p.nextTileID)<<4 + p.v.fineY()
			p.nextTileLo = p.bus.Read(addr)
		case 7:
			base := p.ctrl.bgPatternBase()
			addr := base + uint16(p.nextTileID)<<4 + p.v.fineY() + 8
			p.nextTileHi = p.bus.Read(addr)
		case 0:
			p.v.incCoarseX()
		}
	}
	if p.dot == 256 {
		p.v.incFineY()
	}
}

func (p *PPU) loadShifters() {
	p.shiftPatternLo = (p.shiftPatternLo &^ 0x00FF) | uint16(p.nextTileLo)
	p.shiftPatternHi = (p.shiftPatternHi &^ 0x00FF) | uint16(p.nextTileHi)
	lo, hi := uint16(0), uint16(0)
	if p.nextTileAttr&0x01 != 0 {
		lo = 0x00FF
	}
	if p.nextTileAttr&0x02 != 0 {
		hi = 0x00FF
	}
	p.shiftAttrLo = (p.shiftAttrLo &^ 0x00FF) | lo
	p.shiftAttrHi = (p.shiftAttrHi &^ 0x00FF) | hi
}

func (p *PPU) shiftBackground() {
	p.shiftPatternLo <<= 1
	p.shiftPatternHi <<= 1
	p.shiftAttrLo <<= 1
	p.shiftAttrHi <<= 1
}

func (p *PPU) shiftSprites() {
	for i := range p.oam.units {
		u := &p.oam.units[i]
		if u.counter > 0 {
			u.counter--
			continue
		}
		u.patternLo <<= 1
		u.patternHi <<= 1
	}
}

// fetchSpriteRow returns the two pattern-table planes for one row of
// a sprite tile, honoring 8x16 banking (tile ID LSB selects the bank).
func (p *PPU) fetchSpriteRow(tileID uint8, tall bool, row int, top bool) (lo, hi uint8) {
	var base uint16
	var id uint8
	if tall {
		base = uint16(tileID&0x01) * 0x1000
		id = tileID &^ 0x01
		if !top {
			id++
		}
	} else {
		base = p.ctrl.spritePatternBase()
		id = tileID
	}
	addr := base + uint16(id)<<4 + uint16(row)
	return p.bus.Read(addr), p.bus.Read(addr + 8)
}

func (p *PPU) bgPixel() (id uint8, pal uint8) {
	if !p.mask.has(maskShowBG) {
		return 0, 0
	}
	if p.dot < 9 && !p.mask.has(maskShowBGLeft) {
		return 0, 0
	}
	shift := uint(15 - p.fineX)
	lo := uint8((p.shiftPatternLo >> shift) & 1)
	hi := uint8((p.shiftPatternHi >> shift) & 1)
	id = (hi << 1) | lo
	alo := uint8((p.shiftAttrLo >> shift) & 1)
	ahi := uint8((p.shiftAttrHi >> shift) & 1)
	pal = (ahi << 1) | alo
	return id, pal
}

func (p *PPU) fgPixel() (id, pal uint8, prio priority, isSprite0, found bool) {
	if !p.mask.has(maskShowSprites) {
		return 0, 0, priorityFront, false, false
	}
	if p.dot < 9 && !p.mask.has(maskShowSpriteLeft) {
		return 0, 0, priorityFront, false, false
	}
	for i := 0; i < p.oam.secondaryN; i++ {
		u := &p.oam.units[i]
		if u.counter != 0 {
			continue
		}
		lo := (u.patternLo >> 7) & 1
		hi := (u.patternHi >> 7) & 1
		v := (hi << 1) | lo
		if v == 0 {
			continue
		}
		return v, u.palette(), u.prio(), u.isSprite0, true
	}
	return 0, 0, priorityFront, false, false
}

// renderPixel computes and writes one output pixel, per spec.md §4.2
// "Pixel priority" and "Sprite-0 hit".
func (p *PPU) renderPixel() {
	x, y := p.dot-1, p.scanline
	if x < 0 || x >= screenWidth || y < 0 || y >= screenHeight {
		return
	}

	bgID, bgPal := p.bgPixel()
	fgID, fgPal, fgPrio, isSprite0, fgFound := p.fgPixel()
	if !fgFound {
		fgID = 0
	}

	var paletteSel, pixel uint8
	switch {
	case bgID == 0 && fgID == 0:
		paletteSel, pixel = 0, 0
	case bgID == 0:
		paletteSel, pixel = fgPal+4, fgID
	case fgID == 0:
		paletteSel, pixel = bgPal, bgID
	case fgPrio == priorityFront:
		paletteSel, pixel = fgPal+4, fgID
	default:
		paletteSel, pixel = bgPal, bgID
	}

	if bgID != 0 && fgID != 0 && isSprite0 && p.mask.has(maskShowBG) && p.mask.has(maskShowSprites) {
		clipped := x < 8 && (!p.mask.has(maskShowBGLeft) || !p.mask.has(maskShowSpriteLeft))
		if x >= 1 && x <= 255 && !clipped {
			p.status.set(statusSprite0Hit)
		}
	}

	addr := 0x3F00 + uint16(paletteSel)<<2 + uint16(pixel)
	idx := p.bus.Read(paletteMirror(addr) | 0x3F00)
	if p.mask.has(maskGreyscale) {
		idx &= 0x30
	} else {
		idx &= 0x3F
	}
	c := emphasisScale(nesPalette[idx&0x3F], p.mask)

	off := (y*screenWidth + x) * 3
	p.framebuffer[off] = c.R
	p.framebuffer[off+1] = c.G
	p.framebuffer[off+2] = c.B
}

func (p *PPU) advanceDot() {
	p.dot++
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.frame++
			p.oddFrame = !p.oddFrame
			glog.V(3).Infof("ppu: frame %d complete", p.frame)
		}
	}
	if p.scanline == 0 && p.dot == 0 && p.oddFrame && p.renderingEnabled() {
		p.dot = 1
	}
}
