// Command corenes runs an NES ROM: an ebiten presenter by default, or
// an interactive bubbletea step-debugger with -debug.
package main

import (
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/corenes/corenes/internal/config"
	"github.com/corenes/corenes/internal/console"
	"github.com/corenes/corenes/internal/debugger"
)

var (
	pacing     = flag.String("pacing", "audio", "frame pacing source: audio or video")
	trace      = flag.Bool("trace", false, "log the CPU trace line for every instruction")
	debugFlag  = flag.Bool("debug", false, "launch the interactive step-debugger instead of the presenter")
	configPath = flag.String("config", "", "path to a JSON config file; defaults embedded if omitted")
	audio      = flag.String("audio", "none", "audio sink: none or portaudio")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if flag.NArg() != 1 {
		glog.Errorf("usage: corenes [flags] rom.nes")
		os.Exit(2)
	}

	cfg, err := loadConfig()
	if err != nil {
		glog.Errorf("corenes: %v", err)
		os.Exit(1)
	}
	applyFlags(cfg)

	c, err := console.New(flag.Arg(0))
	if err != nil {
		glog.Errorf("corenes: %v", err)
		os.Exit(1)
	}

	if cfg.Audio.Backend == "portaudio" {
		sink, err := newAudioSink(cfg.Audio.SampleRate)
		if err != nil {
			glog.Warningf("corenes: audio sink unavailable, continuing silently: %v", err)
		} else {
			defer sink.Close()
		}
	}

	if *debugFlag {
		if err := debugger.Run(c); err != nil {
			glog.Errorf("corenes: debugger: %v", err)
			os.Exit(1)
		}
		return
	}

	runPresenter(c, cfg)
}

func loadConfig() (*config.Config, error) {
	if *configPath == "" {
		return config.Default(), nil
	}
	return config.Load(*configPath)
}

func applyFlags(cfg *config.Config) {
	if *pacing == "video" {
		cfg.Emulation.Pacing = "video"
	}
	if *trace {
		cfg.Emulation.CPUTracing = true
	}
	if *audio == "portaudio" {
		cfg.Audio.Backend = "portaudio"
	}
}

func runPresenter(c *console.Console, cfg *config.Config) {
	p := newPresenter(c, cfg)

	w, h := cfg.WindowResolution()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("corenes")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(cfg.Window.VSync)

	if cfg.Emulation.CPUTracing {
		c.SetTraceHook(func(line string) { glog.Infof("%s", line) })
	}

	if err := ebiten.RunGame(p); err != nil {
		glog.Errorf("corenes: presenter exited: %v", err)
		os.Exit(1)
	}
}
