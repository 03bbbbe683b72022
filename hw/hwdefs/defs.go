// Package hwdefs holds definitions shared by the console components.
package hwdefs

import "strings"

// An IRQSource is a device able to drive the CPU IRQ line. The line is high
// as long as one of the sources asserts it.
type IRQSource uint8

const (
	Cartridge    IRQSource = 1 << iota // mapper or expansion port
	FrameCounter                       // APU frame sequencer
)

var irqSources = []struct {
	src  IRQSource
	name string
}{
	{Cartridge, "cart"},
	{FrameCounter, "fcnt"},
}

func (irq IRQSource) String() string {
	if irq == 0 {
		return "none"
	}
	var sb strings.Builder
	for _, s := range irqSources {
		if irq&s.src == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(s.name)
	}
	return sb.String()
}

// Arguments of the Reset methods.
const (
	SoftReset = true
	HardReset = false
)

// NTSC timings.
const (
	CPUClock  = 1789773 // Hz
	FrameRate = 60.0988 // frames per second
)
