// Package console wires the CPU, bus, PPU, APU, mapper, and controller
// ports described in spec.md §2 into a runnable machine: it owns the
// cartridge and component lifecycle, and drives the CPU-as-master-clock
// loop that ticks everything else forward.
package console

import (
	"github.com/golang/glog"

	"github.com/corenes/corenes/internal/bus"
	"github.com/corenes/corenes/internal/cartridge"
	"github.com/corenes/corenes/internal/cpu"
	"github.com/corenes/corenes/internal/input"
	"github.com/corenes/corenes/internal/mappers"
)

// Console owns every component created at ROM load (per spec.md §3
// "Lifecycle") and exposes the frame-stepping and controller surface
// an external presenter drives.
type Console struct {
	Cart        *cartridge.Cartridge
	Mapper      mappers.Mapper
	Bus         *bus.MainBus
	CPU         *cpu.CPU
	Controllers [2]*input.Controller

	traceHook func(string)
}

// New loads a ROM file and assembles a Console ready to run.
func New(path string) (*Console, error) {
	cart, err := cartridge.Load(path)
	if err != nil {
		return nil, err
	}
	return FromCartridge(cart)
}

// FromCartridge assembles a Console from an already-loaded cartridge.
func FromCartridge(cart *cartridge.Cartridge) (*Console, error) {
	mapper, err := mappers.New(cart)
	if err != nil {
		return nil, err
	}

	p1, p2 := &input.Controller{}, &input.Controller{}
	b := bus.New(mapper, p1, p2)
	c := cpu.New(b)

	glog.V(1).Infof("console: booted %s", cart.Header)

	return &Console{
		Cart:        cart,
		Mapper:      mapper,
		Bus:         b,
		CPU:         c,
		Controllers: [2]*input.Controller{p1, p2},
	}, nil
}

// Reset runs every component's reset routine in sequence, per spec.md
// §5 "Cancellation / timeouts": immediate, pending NMI/IRQ cleared.
func (c *Console) Reset() {
	c.Mapper.Reset()
	c.Bus.PPU.Reset()
	c.Bus.APU.Reset()
	c.CPU.Reset()
}

// RunFrame executes CPU instructions until exactly one more PPU frame
// has completed.
func (c *Console) RunFrame() {
	target := c.Bus.PPU.FrameCount() + 1
	for c.Bus.PPU.FrameCount() < target {
		if c.traceHook != nil {
			c.traceHook(c.CPU.Trace())
		}
		c.CPU.Execute()
	}
}

// SetTraceHook registers a callback invoked with the CPU trace line
// (spec.md §6 format) immediately before each instruction executes.
// Pass nil to disable tracing.
func (c *Console) SetTraceHook(fn func(string)) { c.traceHook = fn }

// SetButtons updates the live button state for controller port 0 or 1.
func (c *Console) SetButtons(port int, buttons input.Button) {
	c.Controllers[port].SetState(buttons)
}

// Framebuffer returns the PPU's current packed RGB frame.
func (c *Console) Framebuffer() []uint8 { return c.Bus.PPU.Framebuffer() }

// OnFrame registers the presenter callback invoked at VBlank, per
// spec.md §6 "Presenter contract".
func (c *Console) OnFrame(fn func(fb []uint8)) { c.Bus.PPU.OnFrame = fn }
