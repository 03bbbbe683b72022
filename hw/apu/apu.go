// Package apu implements the timing side of the NES audio processing unit:
// the frame sequencer, the frame IRQ and the channel length counters. No
// audio samples are produced.
package apu

import (
	"cyclenes/emu/log"
)

// Registers having a length counter load, and the halt flag location of each
// channel.
var (
	lengthRegs = [NumChannels]uint8{0x03, 0x07, 0x0B, 0x0F}
	haltRegs   = [NumChannels]uint8{0x00, 0x04, 0x08, 0x0C}
	haltBits   = [NumChannels]uint8{0x20, 0x20, 0x80, 0x20}
)

type APU struct {
	FrameCounter FrameCounter
	Length       [NumChannels]LengthCounter

	// Last values written to $4000-$4013.
	regs [0x14]uint8
}

func New() *APU {
	a := &APU{}
	a.FrameCounter.APU = a
	a.Reset()
	return a
}

// Reset puts the APU in its power-up state. The frame counter then acts as
// if $00 had been written to $4017 a few cycles before.
func (a *APU) Reset() {
	a.FrameCounter.Reset()
	for i := range a.Length {
		a.Length[i].Reset()
	}
	a.regs = [0x14]uint8{}

	a.WriteFrameCounter(0x00)
	for range 4 {
		a.Cycle()
	}
}

// Cycle runs the APU for one CPU cycle.
func (a *APU) Cycle() {
	a.FrameCounter.Tick()
}

// IRQWaiting reports whether the frame IRQ is asserted.
func (a *APU) IRQWaiting() bool {
	return a.FrameCounter.irq
}

// WriteRegister handles writes to the channel registers, $4000-$4013. reg is
// the offset from $4000.
func (a *APU) WriteRegister(reg uint8, val uint8) {
	if int(reg) >= len(a.regs) {
		return
	}
	a.regs[reg] = val

	for ch := range NumChannels {
		switch reg {
		case haltRegs[ch]:
			a.Length[ch].SetHalt(val&haltBits[ch] != 0)
		case lengthRegs[ch]:
			a.Length[ch].Load(val, a.FrameCounter.clockPending)
		}
	}
}

// WriteControl handles writes to $4015, enabling or disabling channels.
func (a *APU) WriteControl(val uint8) {
	log.ModSound.DebugZ("write control").Hex8("val", val).End()

	for ch := range NumChannels {
		a.Length[ch].SetEnabled(val&(1<<ch) != 0)
	}
}

// ReadStatus handles reads of $4015. Reading clears the frame IRQ flag.
func (a *APU) ReadStatus() uint8 {
	status := a.PeekStatus()
	a.FrameCounter.irq = false
	return status
}

// PeekStatus returns the value of $4015, without side effects.
func (a *APU) PeekStatus() uint8 {
	var status uint8
	for ch := range NumChannels {
		if a.Length[ch].Status() {
			status |= 1 << ch
		}
	}
	if a.FrameCounter.irq {
		status |= 0x40
	}
	return status
}

// WriteFrameCounter handles writes to $4017.
func (a *APU) WriteFrameCounter(val uint8) {
	a.FrameCounter.WriteFRAMECOUNTER(val)
}

func (a *APU) latchHalt() {
	for i := range a.Length {
		a.Length[i].latch()
	}
}

func (a *APU) clockLengthCounters() {
	for i := range a.Length {
		a.Length[i].Tick()
	}
}
