// Package input maps user input devices (keyboard, game controllers) onto
// the buttons of the standard NES pads.
package input

import "github.com/veandco/go-sdl2/sdl"

// A PadButton identifies a button of a standard NES pad. Its value is the
// bit position of the button in the pad shift register.
type PadButton byte

const (
	PadA PadButton = iota
	PadB
	PadSelect
	PadStart
	PadUp
	PadDown
	PadLeft
	PadRight

	PadButtonCount
)

var buttonNames = [PadButtonCount]string{
	"A", "B", "Select", "Start", "Up", "Down", "Left", "Right",
}

func (b PadButton) String() string {
	if b >= PadButtonCount {
		return "unknown"
	}
	return buttonNames[b]
}

// A Preset maps each pad button to an input code.
type Preset struct {
	Buttons [PadButtonCount]Code `toml:"buttons"`
}

const NumPresets = 4

type PadConfig struct {
	Plugged bool `toml:"plugged"`
	Preset  uint `toml:"preset"`
}

type Config struct {
	Pads    [2]PadConfig       `toml:"pads"`
	Presets [NumPresets]Preset `toml:"presets"`
}

// DefaultConfig has pad 1 plugged and mapped on the keyboard. Pad 2 uses the
// second preset, on the game controller buttons, once set.
func DefaultConfig() Config {
	return Config{
		Pads: [2]PadConfig{
			{Plugged: true, Preset: 0},
			{Plugged: false, Preset: 1},
		},
		Presets: [NumPresets]Preset{
			{
				Buttons: [PadButtonCount]Code{
					Key(sdl.SCANCODE_X),
					Key(sdl.SCANCODE_Z),
					Key(sdl.SCANCODE_RSHIFT),
					Key(sdl.SCANCODE_RETURN),
					Key(sdl.SCANCODE_UP),
					Key(sdl.SCANCODE_DOWN),
					Key(sdl.SCANCODE_LEFT),
					Key(sdl.SCANCODE_RIGHT),
				},
			},
		},
	}
}

// Validate resets out of range preset indices to 0.
func (cfg *Config) Validate() {
	for i := range cfg.Pads {
		if cfg.Pads[i].Preset >= NumPresets {
			cfg.Pads[i].Preset = 0
		}
	}
}

// Provider provides the state of both pads, from the SDL keyboard state and
// the plugged game controllers. It implements hw.InputDevice.
type Provider struct {
	keystate []uint8
	joys     *Joypads
	cfg      Config
}

// NewProvider creates a Provider. joys may be nil when game controllers are
// not used. SDL must be running, see sdl.Main.
func NewProvider(cfg Config, joys *Joypads) *Provider {
	var keystate []uint8
	sdl.Do(func() { keystate = sdl.GetKeyboardState() })
	cfg.Validate()
	return &Provider{keystate: keystate, joys: joys, cfg: cfg}
}

func (p *Provider) padState(idx int) uint8 {
	pad := p.cfg.Pads[idx]
	if !pad.Plugged {
		return 0
	}

	var state uint8
	for i, code := range p.cfg.Presets[pad.Preset].Buttons {
		var pressed uint8
		switch code.Type {
		case KeyboardCtrl:
			if int(code.Scancode) < len(p.keystate) {
				pressed = p.keystate[code.Scancode]
			}
		case ButtonCtrl:
			pressed = p.joys.button(code.CtrlGUID, code.CtrlButton)
		}
		state |= (pressed & 1) << i
	}
	return state
}

// LoadState returns the state of both pads, one bit per button.
func (p *Provider) LoadState() (uint8, uint8) {
	return p.padState(0), p.padState(1)
}
