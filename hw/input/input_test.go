package input

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/veandco/go-sdl2/sdl"
)

func TestCodeText(t *testing.T) {
	tests := []struct {
		text string
		code *Code // nil for unmarshal errors
	}{
		{"", &Code{}},
		{"key W", &Code{Type: KeyboardCtrl, Scancode: sdl.SCANCODE_W}},
		{"key Return", &Code{Type: KeyboardCtrl, Scancode: sdl.SCANCODE_RETURN}},
		{"key Right Shift", &Code{Type: KeyboardCtrl, Scancode: sdl.SCANCODE_RSHIFT}},
		{"joybtn a 030000004c050000cc0900", &Code{Type: ButtonCtrl, CtrlButton: sdl.CONTROLLER_BUTTON_A, CtrlGUID: "030000004c050000cc0900"}},
		{"joybtn start 030000004c050000cc0900", &Code{Type: ButtonCtrl, CtrlButton: sdl.CONTROLLER_BUTTON_START, CtrlGUID: "030000004c050000cc0900"}},

		{"key   ", nil},
		{"key NotAKey", nil},
		{"joybtn foobar someguid", nil},
		{"joybtn a", nil},
		{"foocode Return", nil},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			var code Code
			err := code.UnmarshalText([]byte(tt.text))
			if tt.code == nil {
				if err == nil {
					t.Fatalf("UnmarshalText(%q) succeeded, want error", tt.text)
				}
				return
			}
			if err != nil {
				t.Fatalf("UnmarshalText(%q) error: %v", tt.text, err)
			}
			if diff := cmp.Diff(*tt.code, code); diff != "" {
				t.Fatalf("UnmarshalText(%q) mismatch (-want +got):\n%s", tt.text, diff)
			}

			text, err := code.MarshalText()
			if err != nil {
				t.Fatal(err)
			}
			if got := string(text); got != tt.text {
				t.Errorf("MarshalText() = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestProviderKeyboard(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pads[1].Plugged = true
	cfg.Presets[1].Buttons[PadStart] = Key(sdl.SCANCODE_S)

	p := &Provider{keystate: make([]uint8, sdl.NUM_SCANCODES), cfg: cfg}
	p.keystate[sdl.SCANCODE_X] = 1
	p.keystate[sdl.SCANCODE_LEFT] = 1
	p.keystate[sdl.SCANCODE_S] = 1

	pad1, pad2 := p.LoadState()
	if want := uint8(1<<PadA | 1<<PadLeft); pad1 != want {
		t.Errorf("pad1 = %08b, want %08b", pad1, want)
	}
	if want := uint8(1 << PadStart); pad2 != want {
		t.Errorf("pad2 = %08b, want %08b", pad2, want)
	}

	p.cfg.Pads[0].Plugged = false
	if pad1, _ := p.LoadState(); pad1 != 0 {
		t.Errorf("unplugged pad1 = %08b, want 0", pad1)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pads[1].Preset = NumPresets + 3
	cfg.Validate()
	if cfg.Pads[1].Preset != 0 {
		t.Errorf("preset = %d, want 0", cfg.Pads[1].Preset)
	}
}
