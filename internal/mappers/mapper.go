// Package mappers implements the cartridge bank-switching controllers
// named in spec.md §4.3: NROM, MMC1, UxROM, CNROM, MMC3, AxROM, MMC2 and
// MMC4. The mapper set is closed at compile time, so a registry of
// concrete constructors (rather than an open plugin interface) is the
// idiomatic fit per DESIGN NOTES §9.
package mappers

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/corenes/corenes/internal/cartridge"
)

// Mapper translates CPU/PPU addresses into cartridge PRG/CHR offsets and
// reports nametable mirroring. Reads never panic: an address outside any
// declared region returns 0, matching spec.md §4.3's "reads never panic"
// invariant.
type Mapper interface {
	ReadPRG(addr uint16) uint8
	WritePRG(addr uint16, v uint8)
	ReadCHR(addr uint16) uint8
	WriteCHR(addr uint16, v uint8)
	MirrorMode() cartridge.Mirror
	Reset()
}

// IRQSource is implemented by mappers that assert a scanline-counted
// IRQ (MMC3). The PPU calls IncScanline once per visible/pre-render
// scanline (spec.md §4.3); the CPU polls PollIRQ after each instruction.
type IRQSource interface {
	IncScanline()
	PollIRQ() bool
}

type ctor func(*cartridge.Cartridge) Mapper

var registry = map[uint16]ctor{}

func register(id uint16, c ctor) {
	if _, ok := registry[id]; ok {
		panic(fmt.Sprintf("mappers: mapper %d already registered", id))
	}
	registry[id] = c
}

// New constructs the mapper implied by the cartridge's header, or an
// error wrapping cartridge.ErrLoader if the mapper ID isn't one of the supported
// variants (spec.md §7, §4.3).
func New(c *cartridge.Cartridge) (Mapper, error) {
	id := c.Header.MapperID()
	ct, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported mapper %d", cartridge.ErrLoader, id)
	}
	glog.V(1).Infof("mappers: constructing mapper %d for %s", id, c.Header)
	return ct(c), nil
}
