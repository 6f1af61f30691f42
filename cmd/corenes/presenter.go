package main

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/corenes/corenes/internal/config"
	"github.com/corenes/corenes/internal/console"
)

const (
	nesWidth  = 256
	nesHeight = 240
)

// presenter implements ebiten.Game: it drives the console one frame
// per ebiten Update, double-buffers the PPU's framebuffer so Draw
// never races a frame still being rendered, and polls the keyboard
// into both controller ports.
type presenter struct {
	console *console.Console
	cfg     *config.Config

	port1, port2 portBinding

	mu      sync.Mutex
	pending []uint8 // latest completed frame, packed RGB
	image   *ebiten.Image
}

func newPresenter(c *console.Console, cfg *config.Config) *presenter {
	p := &presenter{
		console: c,
		cfg:     cfg,
		port1:   bindingFromMapping(cfg.Input.Port1),
		port2:   bindingFromMapping(cfg.Input.Port2),
		image:   ebiten.NewImage(nesWidth, nesHeight),
	}
	c.OnFrame(p.onFrame)
	return p
}

// onFrame runs at VBlank from inside RunFrame (called by Update); it
// copies the framebuffer so Draw never observes a half-written frame.
func (p *presenter) onFrame(fb []uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		p.pending = make([]uint8, len(fb))
	}
	copy(p.pending, fb)
}

// Update drives the emulator forward one frame and latches controller
// state, per the controller contract: poll once per Update.
func (p *presenter) Update() error {
	p.console.SetButtons(0, p.port1.poll())
	p.console.SetButtons(1, p.port2.poll())
	p.console.RunFrame()
	return nil
}

// Draw blits the most recently completed frame into the ebiten image.
func (p *presenter) Draw(screen *ebiten.Image) {
	p.mu.Lock()
	fb := p.pending
	p.mu.Unlock()

	if fb == nil {
		return
	}

	pix := make([]byte, nesWidth*nesHeight*4)
	for i := 0; i < nesWidth*nesHeight; i++ {
		pix[i*4+0] = fb[i*3+0]
		pix[i*4+1] = fb[i*3+1]
		pix[i*4+2] = fb[i*3+2]
		pix[i*4+3] = 0xFF
	}
	p.image.WritePixels(pix)

	screen.DrawImage(p.image, &ebiten.DrawImageOptions{})
}

// Layout returns the native NES resolution; ebiten scales the window
// around it rather than the presenter managing scaling itself.
func (p *presenter) Layout(outsideWidth, outsideHeight int) (int, int) {
	return nesWidth, nesHeight
}
