package cartridge

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
)

const (
	trainerSize = 512
	prgBlock    = 16384
	chrBlock    = 8192
	prgRAMSize  = 8192 // $6000-$7FFF
)

// ErrLoader is the sentinel wrapped by every malformed-ROM condition:
// bad magic, truncated file, or an unsupported mapper ID. Per spec.md
// §7 this class of error propagates to the CLI and terminates before
// emulation starts; it never appears once a Cartridge is constructed.
var ErrLoader = errors.New("loader error")

// Cartridge holds the parsed iNES header plus the raw PRG/CHR/PRG-RAM
// byte stores a mapper indexes into. CPU (PRG) and PPU (CHR) access is
// strictly sequential within one CPU cycle (spec.md §5), so a single
// mutable Cartridge needs no locking even though both buses reach it.
type Cartridge struct {
	Header  *Header
	PRG     []byte
	CHR     []byte // CHR-RAM when Header.CHRBlocks == 0
	CHRIsRAM bool
	PRGRAM  [prgRAMSize]byte
	Trainer []byte
}

// Load reads and parses an iNES ROM image from path.
func Load(path string) (*Cartridge, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %q: %v", ErrLoader, path, err)
	}
	defer f.Close()
	return Read(f)
}

// Read parses an iNES ROM image from an arbitrary reader.
func Read(r io.Reader) (*Cartridge, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading ROM: %v", ErrLoader, err)
	}
	if len(raw) < 16 {
		return nil, fmt.Errorf("%w: file too short (%d bytes)", ErrLoader, len(raw))
	}

	h, err := parseHeader(raw[:16])
	if err != nil {
		return nil, err
	}

	off := 16
	c := &Cartridge{Header: h}

	if h.HasTrainer() {
		if off+trainerSize > len(raw) {
			return nil, fmt.Errorf("%w: truncated trainer", ErrLoader)
		}
		c.Trainer = append([]byte(nil), raw[off:off+trainerSize]...)
		off += trainerSize
	}

	prgLen := int(h.PRGBlocks) * prgBlock
	if off+prgLen > len(raw) {
		return nil, fmt.Errorf("%w: truncated PRG ROM (want %d, have %d)", ErrLoader, prgLen, len(raw)-off)
	}
	c.PRG = append([]byte(nil), raw[off:off+prgLen]...)
	off += prgLen

	chrLen := int(h.CHRBlocks) * chrBlock
	if chrLen == 0 {
		c.CHR = make([]byte, chrBlock)
		c.CHRIsRAM = true
	} else {
		if off+chrLen > len(raw) {
			return nil, fmt.Errorf("%w: truncated CHR ROM (want %d, have %d)", ErrLoader, chrLen, len(raw)-off)
		}
		c.CHR = append([]byte(nil), raw[off:off+chrLen]...)
	}

	glog.V(1).Infof("cartridge: loaded %s", h)
	return c, nil
}

// ReadPRGRAM reads from the cartridge's 8KiB PRG-RAM window ($6000-$7FFF).
func (c *Cartridge) ReadPRGRAM(addr uint16) uint8 {
	return c.PRGRAM[addr%prgRAMSize]
}

// WritePRGRAM writes to the cartridge's 8KiB PRG-RAM window.
func (c *Cartridge) WritePRGRAM(addr uint16, v uint8) {
	c.PRGRAM[addr%prgRAMSize] = v
}
