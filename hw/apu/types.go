package apu

// Channel identifies a sound channel having a length counter.
type Channel uint8

const (
	Square1 Channel = iota
	Square2
	Triangle
	Noise

	NumChannels = 4
)

var channelNames = [NumChannels]string{"square1", "square2", "triangle", "noise"}

func (ch Channel) String() string {
	if ch >= NumChannels {
		return "unknown"
	}
	return channelNames[ch]
}

// apu is the part of the APU driven by the frame counter.
type apu interface {
	// latchHalt copies the halt flags of the length counters into their
	// buffered copy, used by the next clock.
	latchHalt()
	clockLengthCounters()
}
