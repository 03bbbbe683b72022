package hw

// An InputDevice provides the state of both controllers, one bit per button
// from bit 0 to 7: A, B, Select, Start, Up, Down, Left, Right.
type InputDevice interface {
	LoadState() (uint8, uint8)
}

// InputPorts implements the standard controller ports, $4016 and $4017.
type InputPorts struct {
	dev InputDevice

	strobe bool
	state  [2]uint8 // shift registers
}

// SetDevice plugs dev into the ports. A nil device reports no button pressed.
func (ip *InputPorts) SetDevice(dev InputDevice) {
	ip.dev = dev
}

func (ip *InputPorts) loadstate() {
	if ip.dev == nil {
		ip.state = [2]uint8{}
		return
	}
	ip.state[0], ip.state[1] = ip.dev.LoadState()
}

// WriteStrobe handles writes to $4016. The controllers state is latched into
// the shift registers on the falling edge of bit 0.
func (ip *InputPorts) WriteStrobe(val uint8) {
	prev := ip.strobe
	ip.strobe = val&1 == 1
	if prev && !ip.strobe {
		ip.loadstate()
	}
}

// Read shifts out the next button of controller port (0 or 1). Only bit 0 is
// driven.
func (ip *InputPorts) Read(port int) uint8 {
	if ip.strobe {
		// While strobe is high, the register keeps reloading: reads return
		// the state of A.
		ip.loadstate()
	}
	ret := ip.state[port] & 1
	ip.state[port] >>= 1

	// Official controllers report 1 after the 8 buttons have been read.
	ip.state[port] |= 0x80
	return ret
}

// Peek returns the bit the next Read of port would return, without shifting.
func (ip *InputPorts) Peek(port int) uint8 {
	if ip.strobe {
		if ip.dev == nil {
			return 0
		}
		pad1, pad2 := ip.dev.LoadState()
		if port == 0 {
			return pad1 & 1
		}
		return pad2 & 1
	}
	return ip.state[port] & 1
}
