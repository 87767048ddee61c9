package host

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/arch/x86/x86asm"
)

// jumpSize is the length of an absolute indirect jump: jmp qword ptr [rip+0]; dq target.
const jumpSize = 14

// ErrNotRelocatable is returned when the target prologue cannot be copied into a trampoline.
var ErrNotRelocatable = errors.New("prologue instruction is not relocatable")

// absoluteJump encodes a jump to target that works from any address.
func absoluteJump(target uintptr) []byte {
	b := make([]byte, jumpSize)
	b[0], b[1] = 0xFF, 0x25
	binary.LittleEndian.PutUint64(b[6:], uint64(target))
	return b
}

// prologueLength returns how many bytes of whole instructions at the start of
// code cover at least min bytes. Instructions that depend on their own
// address (relative branches, RIP-relative operands) and returns are rejected.
func prologueLength(code []byte, min int) (int, error) {
	n := 0
	for n < min {
		if n >= len(code) {
			return 0, fmt.Errorf("prologue shorter than %d bytes", min)
		}
		inst, err := x86asm.Decode(code[n:], 64)
		if err != nil {
			return 0, fmt.Errorf("decode at +%d: %w", n, err)
		}
		if err := relocatable(inst); err != nil {
			return 0, fmt.Errorf("%v at +%d: %w", inst, n, err)
		}
		n += inst.Len
	}
	return n, nil
}

func relocatable(inst x86asm.Inst) error {
	switch inst.Op {
	case x86asm.RET, x86asm.LRET, x86asm.JMP, x86asm.CALL:
		return ErrNotRelocatable
	}
	for _, arg := range inst.Args {
		switch a := arg.(type) {
		case x86asm.Rel:
			return ErrNotRelocatable
		case x86asm.Mem:
			if a.Base == x86asm.RIP {
				return ErrNotRelocatable
			}
		}
	}
	return nil
}
