package hw

import "fmt"

// IllegalOpcodeError is returned when the CPU fetches an opcode that is not
// part of the official 6502 instruction set. The CPU stays halted.
type IllegalOpcodeError struct {
	Opcode uint8
	PC     uint16 // address of the opcode
}

func (e *IllegalOpcodeError) Error() string {
	return fmt.Sprintf("illegal opcode $%02X at $%04X", e.Opcode, e.PC)
}
