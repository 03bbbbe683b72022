package apu

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// CPU cycles after reset at which the 4-step sequence reaches steps 2 and 4.
const (
	step2Cycle = 14912
	step4Cycle = 29828
)

func runCycles(a *APU, n int) {
	for range n {
		a.Cycle()
	}
}

func lengths(a *APU) [NumChannels]uint8 {
	var l [NumChannels]uint8
	for i := range a.Length {
		l[i] = a.Length[i].Value()
	}
	return l
}

func TestFrameIRQ(t *testing.T) {
	a := New()

	runCycles(a, step4Cycle-1)
	if a.IRQWaiting() {
		t.Fatalf("frame IRQ raised before cycle %d", step4Cycle)
	}
	runCycles(a, 1)
	if !a.IRQWaiting() {
		t.Fatalf("frame IRQ not raised at cycle %d", step4Cycle)
	}
}

func TestFrameIRQRepeat(t *testing.T) {
	a := New()
	runCycles(a, step4Cycle)

	// The flag is asserted again during the 2 cycles following step 4.
	if a.ReadStatus()&0x40 == 0 {
		t.Fatalf("status bit 6 not set")
	}
	if a.IRQWaiting() {
		t.Fatalf("status read did not clear the frame IRQ")
	}
	runCycles(a, 1)
	if !a.IRQWaiting() {
		t.Fatalf("frame IRQ not re-asserted")
	}
	runCycles(a, 1)
	a.ReadStatus()
	runCycles(a, 1)
	if a.IRQWaiting() {
		t.Fatalf("frame IRQ re-asserted more than twice")
	}
}

func TestFrameIRQInhibit(t *testing.T) {
	a := New()
	runCycles(a, step4Cycle)
	if !a.IRQWaiting() {
		t.Fatalf("frame IRQ not raised")
	}

	a.WriteFrameCounter(0x40)
	if a.IRQWaiting() {
		t.Fatalf("setting the inhibit flag did not clear the frame IRQ")
	}
	runCycles(a, 2*step4Cycle)
	if a.IRQWaiting() {
		t.Fatalf("frame IRQ raised while inhibited")
	}
}

func TestFiveStepMode(t *testing.T) {
	a := New()
	a.WriteControl(0x0F)
	a.WriteRegister(0x03, 0x08)
	a.WriteFrameCounter(0x80)

	// The sequencer resets, and clocks the counters, 2 active halves later.
	runCycles(a, 3)
	if got := a.Length[Square1].Value(); got != 254 {
		t.Fatalf("length = %d, want 254", got)
	}
	runCycles(a, 1)
	if got := a.Length[Square1].Value(); got != 253 {
		t.Fatalf("length = %d, want 253 after 5-step reset", got)
	}

	runCycles(a, 5*step4Cycle)
	if a.IRQWaiting() {
		t.Fatalf("5-step mode raised the frame IRQ")
	}
}

func TestLengthClocks(t *testing.T) {
	a := New()
	a.WriteControl(0x0F)
	a.WriteRegister(0x03, 0x08) // square1: 254
	a.WriteRegister(0x07, 0x00) // square2: 10
	a.WriteRegister(0x0B, 0xF8) // triangle: 30
	a.WriteRegister(0x0F, 0x18) // noise: 2

	want := [NumChannels]uint8{254, 10, 30, 2}
	if diff := cmp.Diff(want, lengths(a)); diff != "" {
		t.Fatalf("length loads mismatch (-want +got):\n%s", diff)
	}

	// Step 2 schedules a clock, performed on the next cycle.
	runCycles(a, step2Cycle)
	if diff := cmp.Diff(want, lengths(a)); diff != "" {
		t.Fatalf("lengths clocked too early (-want +got):\n%s", diff)
	}
	runCycles(a, 1)
	want = [NumChannels]uint8{253, 9, 29, 1}
	if diff := cmp.Diff(want, lengths(a)); diff != "" {
		t.Fatalf("step 2 clock mismatch (-want +got):\n%s", diff)
	}

	runCycles(a, step4Cycle-step2Cycle)
	want = [NumChannels]uint8{252, 8, 28, 0}
	if diff := cmp.Diff(want, lengths(a)); diff != "" {
		t.Fatalf("step 4 clock mismatch (-want +got):\n%s", diff)
	}
}

func TestLengthHalt(t *testing.T) {
	a := New()
	a.WriteControl(0x0F)
	for _, reg := range lengthRegs {
		a.WriteRegister(reg, 0x08)
	}
	a.WriteRegister(0x00, 0x20) // square1 halt
	a.WriteRegister(0x04, 0x80) // not a halt bit for square2
	a.WriteRegister(0x08, 0x80) // triangle halt
	a.WriteRegister(0x0C, 0x20) // noise halt

	runCycles(a, step2Cycle+1)
	want := [NumChannels]uint8{254, 253, 254, 254}
	if diff := cmp.Diff(want, lengths(a)); diff != "" {
		t.Fatalf("halt mismatch (-want +got):\n%s", diff)
	}
}

func TestLengthReloadDuringClock(t *testing.T) {
	tests := []struct {
		name    string
		initial uint8 // $4003 write before the clock, 0 for none
		want    uint8
	}{
		{name: "non-zero counter ignores reload", initial: 0x08, want: 253},
		{name: "zero counter reloads and skips clock", want: 254},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := New()
			a.WriteControl(0x01)
			if tt.initial != 0 {
				a.WriteRegister(0x03, tt.initial)
			}
			runCycles(a, step2Cycle)
			if !a.FrameCounter.clockPending {
				t.Fatalf("no clock pending after step 2")
			}
			a.WriteRegister(0x03, 0x08)
			runCycles(a, 1)
			if got := a.Length[Square1].Value(); got != tt.want {
				t.Errorf("length = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWriteControl(t *testing.T) {
	a := New()

	a.WriteRegister(0x03, 0x08)
	if got := a.Length[Square1].Value(); got != 0 {
		t.Fatalf("disabled channel loaded its counter: %d", got)
	}

	a.WriteControl(0x0F)
	for _, reg := range lengthRegs {
		a.WriteRegister(reg, 0x08)
	}
	if got := a.PeekStatus(); got != 0x0F {
		t.Fatalf("status = %02X, want 0F", got)
	}

	a.WriteControl(0x0A)
	want := [NumChannels]uint8{0, 254, 0, 254}
	if diff := cmp.Diff(want, lengths(a)); diff != "" {
		t.Fatalf("counters mismatch (-want +got):\n%s", diff)
	}
	if got := a.ReadStatus(); got != 0x0A {
		t.Fatalf("status = %02X, want 0A", got)
	}
}

func TestChannelString(t *testing.T) {
	if got := Triangle.String(); got != "triangle" {
		t.Errorf("Triangle.String() = %q", got)
	}
	if got := Channel(7).String(); got != "unknown" {
		t.Errorf("Channel(7).String() = %q", got)
	}
}
