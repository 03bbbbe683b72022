package input

import (
	"fmt"
	"strings"

	"github.com/veandco/go-sdl2/sdl"
)

type ControlType uint8

const (
	ControlNotSet ControlType = iota
	KeyboardCtrl
	ButtonCtrl
)

func (t ControlType) String() string {
	switch t {
	case KeyboardCtrl:
		return "key"
	case ButtonCtrl:
		return "joy button"
	}
	return "not set"
}

// A Code is the user input bound to a pad button: a keyboard key or a game
// controller button. Type tells which fields are valid.
type Code struct {
	Type ControlType

	Scancode sdl.Scancode

	CtrlGUID   string
	CtrlButton sdl.GameControllerButton
}

func Key(sc sdl.Scancode) Code {
	return Code{Type: KeyboardCtrl, Scancode: sc}
}

// Name returns a user-friendly name for the input code.
func (c Code) Name() string {
	switch c.Type {
	case KeyboardCtrl:
		return sdl.GetScancodeName(c.Scancode)
	case ButtonCtrl:
		return sdl.GameControllerGetStringForButton(c.CtrlButton)
	}
	return ""
}

// MarshalText encodes the code as "key <name>" or "joybtn <name> <guid>".
func (c Code) MarshalText() ([]byte, error) {
	switch c.Type {
	case KeyboardCtrl:
		return fmt.Appendf(nil, "key %s", c.Name()), nil
	case ButtonCtrl:
		return fmt.Appendf(nil, "joybtn %s %s", c.Name(), c.CtrlGUID), nil
	}
	return nil, nil
}

func (c *Code) UnmarshalText(text []byte) error {
	s := string(text)
	*c = Code{}

	kind, rest, _ := strings.Cut(s, " ")
	switch kind {
	case "":
		return nil

	case "key":
		// Some key names contain spaces ("Left Shift").
		name := strings.TrimSpace(rest)
		if name == "" {
			return fmt.Errorf("malformed key code: %q", s)
		}
		c.Scancode = sdl.GetScancodeFromName(name)
		if c.Scancode == sdl.SCANCODE_UNKNOWN {
			return fmt.Errorf("unrecognized key %q", name)
		}
		c.Type = KeyboardCtrl

	case "joybtn":
		var name string
		if _, err := fmt.Sscanf(rest, "%s %s", &name, &c.CtrlGUID); err != nil {
			return fmt.Errorf("malformed joybtn code: %q", s)
		}
		c.CtrlButton = sdl.GameControllerGetButtonFromString(name)
		if c.CtrlButton == sdl.CONTROLLER_BUTTON_INVALID {
			return fmt.Errorf("unrecognized button %q", name)
		}
		c.Type = ButtonCtrl

	default:
		return fmt.Errorf("unrecognized input code: %q", s)
	}
	return nil
}
