package input

import (
	"cyclenes/emu/log"

	"github.com/veandco/go-sdl2/sdl"
)

// Joypads tracks the game controllers currently plugged, by GUID. It must be
// kept in sync with HandleEvent for each controller device event.
type Joypads struct {
	byGUID map[string]*sdl.GameController
	byID   map[sdl.JoystickID]*sdl.GameController
}

// OpenJoypads opens all game controllers connected at startup. SDL must have
// been initialized with INIT_GAMECONTROLLER.
func OpenJoypads() *Joypads {
	jp := &Joypads{
		byGUID: make(map[string]*sdl.GameController),
		byID:   make(map[sdl.JoystickID]*sdl.GameController),
	}
	for i := range sdl.NumJoysticks() {
		if sdl.IsGameController(i) {
			jp.open(i)
		}
	}
	return jp
}

func guidOf(c *sdl.GameController) string {
	return sdl.JoystickGetGUIDString(c.Joystick().GUID())
}

func (jp *Joypads) open(idx int) {
	c := sdl.GameControllerOpen(idx)
	if c == nil {
		log.ModInput.WarnZ("failed to open controller").Int("index", idx).End()
		return
	}
	guid := guidOf(c)
	jp.byGUID[guid] = c
	jp.byID[c.Joystick().InstanceID()] = c

	log.ModInput.InfoZ("controller plugged").
		String("name", c.Name()).
		String("guid", guid).
		End()
}

func (jp *Joypads) HandleEvent(e *sdl.ControllerDeviceEvent) {
	switch e.Type {
	case sdl.CONTROLLERDEVICEADDED:
		jp.open(int(e.Which))

	case sdl.CONTROLLERDEVICEREMOVED:
		c, ok := jp.byID[e.Which]
		if !ok {
			return
		}
		guid := guidOf(c)
		delete(jp.byGUID, guid)
		delete(jp.byID, e.Which)
		c.Close()

		log.ModInput.InfoZ("controller unplugged").String("guid", guid).End()
	}
}

func (jp *Joypads) button(guid string, btn sdl.GameControllerButton) uint8 {
	if jp == nil {
		return 0
	}
	c, ok := jp.byGUID[guid]
	if !ok {
		return 0
	}
	return c.Button(btn)
}

func (jp *Joypads) Close() {
	for _, c := range jp.byGUID {
		c.Close()
	}
	clear(jp.byGUID)
	clear(jp.byID)
}
