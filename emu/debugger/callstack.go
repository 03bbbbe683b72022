package debugger

import (
	"fmt"
	"slices"
)

type frameKind uint8

const (
	callFrame frameKind = iota
	nmiFrame
	irqFrame
)

// A stackFrame records a subroutine call or an interrupt.
type stackFrame struct {
	src    uint16 // address of the calling instruction
	target uint16 // entry point
	kind   frameKind
}

// callStack tracks subroutine calls and interrupts as seen from the
// instruction flow. It's never exact (programs can manipulate the stack)
// but it's good enough for most.
type callStack []stackFrame

func (cs *callStack) push(src, target uint16, kind frameKind) {
	*cs = append(*cs, stackFrame{src: src, target: target, kind: kind})
}

func (cs *callStack) pop() {
	if len(*cs) > 0 {
		*cs = (*cs)[:len(*cs)-1]
	}
}

func (cs *callStack) reset() {
	*cs = (*cs)[:0]
}

// frameInfo is the entry point and the current location of a frame.
type frameInfo [2]string

// build returns the frames, innermost first. pc is the current location.
func (cs callStack) build(pc uint16) []frameInfo {
	nfos := make([]frameInfo, 0, len(cs)+1)
	var entry *stackFrame
	for i := range cs {
		if i > 0 {
			entry = &cs[i-1]
		}
		nfos = append(nfos, frameInfo{entryPoint(entry), fmt.Sprintf("$%04X", cs[i].src)})
	}
	if len(cs) > 0 {
		entry = &cs[len(cs)-1]
	}
	nfos = append(nfos, frameInfo{entryPoint(entry), fmt.Sprintf("$%04X", pc)})
	slices.Reverse(nfos)
	return nfos
}

func entryPoint(f *stackFrame) string {
	if f == nil {
		return "[bottom of stack]"
	}
	str := fmt.Sprintf("$%04X", f.target)
	switch f.kind {
	case nmiFrame:
		return "[nmi] " + str
	case irqFrame:
		return "[irq] " + str
	}
	return str
}
