package apu

import (
	"cyclenes/emu/log"
)

// Number of sequencer cycles between steps.
const divider = 3728

// FrameCounter is the APU frame sequencer. It's clocked every CPU cycle and
// alternates between an active half, where the divider runs, and a delay
// half, where the length counter clocks scheduled by the active half happen.
type FrameCounter struct {
	APU apu

	fiveStep   bool
	inhibitIRQ bool
	step       int
	divider    int32

	active       bool // cycle switch
	clockPending bool // length counter clock on the next delay half
	resetDelay   int  // active halves until the sequencer resets

	irq       bool
	irqRepeat int // cycles the frame IRQ flag is re-asserted
}

func (fc *FrameCounter) Reset() {
	fc.fiveStep = false
	fc.inhibitIRQ = true
	fc.step = 0
	fc.divider = divider
	fc.active = false
	fc.clockPending = false
	fc.resetDelay = 0
	fc.irq = false
	fc.irqRepeat = 0
}

// WriteFRAMECOUNTER handles writes to $4017. The sequencer is reset 2
// sequencer cycles after the write.
func (fc *FrameCounter) WriteFRAMECOUNTER(val uint8) {
	log.ModSound.DebugZ("write framecounter").Hex8("val", val).End()

	fc.fiveStep = val&0x80 != 0
	fc.inhibitIRQ = val&0x40 != 0
	if fc.inhibitIRQ {
		fc.irq = false
	}
	fc.resetDelay = 2
}

func (fc *FrameCounter) Tick() {
	if fc.irqRepeat > 0 {
		fc.irqRepeat--
		if !fc.inhibitIRQ {
			fc.irq = true
		}
	}

	if fc.active {
		fc.runSequencer()
	} else if fc.clockPending {
		fc.APU.clockLengthCounters()
		fc.clockPending = false
	}
	fc.active = !fc.active
}

func (fc *FrameCounter) runSequencer() {
	if fc.resetDelay > 0 {
		fc.resetDelay--
		if fc.resetDelay == 0 {
			fc.divider = divider
			if fc.fiveStep {
				// Selecting 5-step mode clocks the counters right away.
				fc.APU.latchHalt()
				fc.APU.clockLengthCounters()
			}
			fc.step = 0
		}
	}

	if fc.divider == 0 {
		fc.step++
		switch {
		case fc.step < 2:
			fc.divider = divider
		case fc.step == 4 && fc.fiveStep:
			fc.divider = divider - 2
		default:
			fc.divider = divider + 1
		}
		fc.performStep()
	}
	fc.divider--
}

func (fc *FrameCounter) scheduleClock() {
	fc.clockPending = true
	fc.APU.latchHalt()
}

func (fc *FrameCounter) performStep() {
	switch {
	case fc.step == 2:
		fc.scheduleClock()
	case fc.step == 4 && !fc.fiveStep:
		fc.scheduleClock()
		if !fc.inhibitIRQ {
			fc.irq = true
			fc.irqRepeat = 2
		}
		fc.step = 0
	case fc.step == 5:
		fc.scheduleClock()
		fc.step = 0
	}
}
