package main

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/corenes/corenes/internal/config"
	"github.com/corenes/corenes/internal/input"
)

// ebitenKeyNames maps the subset of key names a config.KeyMapping can
// name to ebiten's key constants.
var ebitenKeyNames = map[string]ebiten.Key{
	"ArrowUp": ebiten.KeyArrowUp, "ArrowDown": ebiten.KeyArrowDown,
	"ArrowLeft": ebiten.KeyArrowLeft, "ArrowRight": ebiten.KeyArrowRight,
	"Enter": ebiten.KeyEnter, "Space": ebiten.KeySpace,
	"ShiftRight": ebiten.KeyShiftRight, "ShiftLeft": ebiten.KeyShiftLeft,
	"KeyA": ebiten.KeyA, "KeyB": ebiten.KeyB, "KeyD": ebiten.KeyD,
	"KeyJ": ebiten.KeyJ, "KeyK": ebiten.KeyK, "KeyO": ebiten.KeyO,
	"KeyP": ebiten.KeyP, "KeyS": ebiten.KeyS, "KeyW": ebiten.KeyW,
	"KeyX": ebiten.KeyX, "KeyZ": ebiten.KeyZ,
}

// portBinding pairs each of the eight standard buttons with the
// ebiten key that drives it, in the bit order input.Button defines.
type portBinding [8]ebiten.Key

func bindingFromMapping(km config.KeyMapping) portBinding {
	lookup := func(name string) ebiten.Key {
		if k, ok := ebitenKeyNames[name]; ok {
			return k
		}
		return ebiten.KeyUp // config named a key this build doesn't know; degrade rather than panic
	}
	return portBinding{
		lookup(km.A), lookup(km.B), lookup(km.Select), lookup(km.Start),
		lookup(km.Up), lookup(km.Down), lookup(km.Left), lookup(km.Right),
	}
}

var buttonOrder = [8]input.Button{
	input.ButtonA, input.ButtonB, input.ButtonSelect, input.ButtonStart,
	input.ButtonUp, input.ButtonDown, input.ButtonLeft, input.ButtonRight,
}

// poll reads the live keyboard state and returns the latched button
// snapshot for one controller port.
func (b portBinding) poll() input.Button {
	var state input.Button
	for i, key := range b {
		if ebiten.IsKeyPressed(key) {
			state |= buttonOrder[i]
		}
	}
	return state
}
