package ppu

// rgb is a single displayable color; the presenter (cmd/corenes) turns
// these into whatever pixel format ebiten wants.
type rgb struct {
	R, G, B uint8
}

// nesPalette is the standard 64-entry 2C02 RGB palette (2C02G
// reference values), indexed by the 6-bit palette-RAM color index.
var nesPalette = [64]rgb{
	{84, 84, 84}, {0, 30, 116}, {8, 16, 144}, {48, 0, 136},
	{68, 0, 100}, {92, 0, 48}, {84, 4, 0}, {60, 24, 0},
	{32, 42, 0}, {8, 58, 0}, {0, 64, 0}, {0, 60, 0},
	{0, 50, 60}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0},
	{152, 150, 152}, {8, 76, 196}, {48, 50, 236}, {92, 30, 228},
	{136, 20, 176}, {160, 20, 100}, {152, 34, 32}, {120, 60, 0},
	{84, 90, 0}, {40, 114, 0}, {8, 124, 0}, {0, 118, 40},
	{0, 102, 120}, {0, 0, 0}, {0, 0, 0}, {0, 0, 0},
	{236, 238, 236}, {76, 154, 236}, {120, 124, 236}, {176, 98, 236},
	{228, 84, 236}, {236, 88, 180}, {236, 106, 100}, {212, 136, 32},
	{160, 170, 0}, {116, 196, 0}, {76, 208, 32}, {56, 204, 108},
	{56, 180, 204}, {60, 60, 60}, {0, 0, 0}, {0, 0, 0},
	{236, 238, 236}, {168, 204, 236}, {188, 188, 236}, {212, 178, 236},
	{236, 174, 236}, {236, 174, 212}, {236, 180, 176}, {228, 196, 144},
	{204, 210, 120}, {180, 222, 120}, {168, 226, 144}, {152, 226, 180},
	{160, 214, 228}, {160, 162, 160}, {0, 0, 0}, {0, 0, 0},
}

// emphasisScale applies the 2C02's color-emphasis bits (PPUMASK D5-D7):
// the emphasized channels are boosted and the others attenuated,
// approximating the analog NTSC encoder behavior closely enough for a
// digital presenter per spec.md §4.2's "color emphasis" note.
func emphasisScale(c rgb, m mask) rgb {
	if !m.has(maskEmphasizeRed) && !m.has(maskEmphasizeGreen) && !m.has(maskEmphasizeBlue) {
		return c
	}
	scale := func(v uint8, boost bool) uint8 {
		f := 0.75
		if boost {
			f = 1.0
		}
		scaled := float64(v) * f
		if scaled > 255 {
			scaled = 255
		}
		return uint8(scaled)
	}
	return rgb{
		R: scale(c.R, m.has(maskEmphasizeRed)),
		G: scale(c.G, m.has(maskEmphasizeGreen)),
		B: scale(c.B, m.has(maskEmphasizeBlue)),
	}
}

// paletteMirror folds a palette-RAM address into its 32-entry range,
// applying the every-4th-entry backdrop mirror ($3F10/$3F14/$3F18/$3F1C
// alias $3F00/$3F04/$3F08/$3F0C) described in spec.md §4.4.
func paletteMirror(addr uint16) uint16 {
	a := addr & 0x1F
	if a >= 0x10 && a%4 == 0 {
		a -= 0x10
	}
	return a
}
