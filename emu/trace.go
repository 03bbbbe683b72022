package emu

import (
	"bufio"
	"io"

	"github.com/go-faster/jx"

	"cyclenes/hw"
)

// A Tracer writes a JSON object for each instruction executed by the
// console CPU, one per line. Registers are those before execution.
type Tracer struct {
	c   *hw.Console
	w   *bufio.Writer
	enc jx.Encoder
	err error
}

// NewTracer starts tracing c into w. Close must be called to flush the
// trace.
func NewTracer(w io.Writer, c *hw.Console) *Tracer {
	t := &Tracer{c: c, w: bufio.NewWriterSize(w, 64*1024)}
	c.OnFetch(t.trace)
	return t
}

func (t *Tracer) trace(pc uint16, op hw.Operation) {
	if t.err != nil {
		return
	}

	c := t.c
	lo, hi := c.Peek8(pc+1), c.Peek8(pc+2)

	e := &t.enc
	e.Reset()
	e.ObjStart()
	e.FieldStart("cycle")
	e.Int64(c.Cycles)
	e.FieldStart("pc")
	e.UInt16(pc)
	e.FieldStart("opcode")
	e.UInt8(op.Opcode)
	e.FieldStart("mnemonic")
	e.Str(op.Mnemonic.String())
	e.FieldStart("asm")
	e.Str(op.Format(pc, lo, hi))
	e.FieldStart("a")
	e.UInt8(c.CPU.A)
	e.FieldStart("x")
	e.UInt8(c.CPU.X)
	e.FieldStart("y")
	e.UInt8(c.CPU.Y)
	e.FieldStart("p")
	e.UInt8(uint8(c.CPU.P))
	e.FieldStart("sp")
	e.UInt8(c.CPU.SP)
	e.FieldStart("line")
	e.Int(c.PPU.Scanline)
	e.FieldStart("dot")
	e.Int(c.PPU.Dot)
	e.ObjEnd()

	if _, err := t.w.Write(e.Bytes()); err != nil {
		t.err = err
		return
	}
	t.err = t.w.WriteByte('\n')
}

// Close stops tracing and flushes the trace. It returns the first write
// error encountered.
func (t *Tracer) Close() error {
	t.c.OnFetch(nil)
	if t.err != nil {
		return t.err
	}
	return t.w.Flush()
}
