package apu

var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// LengthCounter silences a channel when it reaches 0. The halt flag is
// buffered: a clock uses the flag value at the time it was scheduled.
type LengthCounter struct {
	enabled bool
	halt    bool
	haltBuf bool
	counter uint8
}

// Load reloads the counter from the length table with the top 5 bits of val.
// clockPending is set when a frame counter clock is scheduled on the next
// cycle: a non-zero counter then ignores the reload, while a zero counter is
// reloaded and protected from that clock.
func (lc *LengthCounter) Load(val uint8, clockPending bool) {
	if clockPending && lc.counter == 0 {
		lc.haltBuf = true
	}
	if lc.enabled && !(clockPending && lc.counter > 0) {
		lc.counter = lengthTable[val>>3]
	}
}

func (lc *LengthCounter) Status() bool {
	return lc.counter > 0
}

func (lc *LengthCounter) Value() uint8 {
	return lc.counter
}

func (lc *LengthCounter) SetHalt(halt bool) {
	lc.halt = halt
}

func (lc *LengthCounter) latch() {
	lc.haltBuf = lc.halt
}

func (lc *LengthCounter) Tick() {
	if lc.counter > 0 && !lc.haltBuf {
		lc.counter--
	}
}

// SetEnabled enables the counter, disabling it clears it.
func (lc *LengthCounter) SetEnabled(enabled bool) {
	if !enabled {
		lc.counter = 0
	}
	lc.enabled = enabled
}

func (lc *LengthCounter) IsEnabled() bool {
	return lc.enabled
}

func (lc *LengthCounter) Reset() {
	*lc = LengthCounter{}
}
