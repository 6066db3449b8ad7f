// Package qproc emits assembly for QProc, a 32-bit target with thirteen
// general purpose registers r0..r12. Operands are separated by spaces,
// memory is reached only through lod/str, and functions return by popping
// the return address into ip.
package qproc

import (
	"fmt"
	"math"

	"github.com/iley/hcc/internal/asm"
	"github.com/iley/hcc/internal/codegen/common"
	"github.com/iley/hcc/internal/types"
)

const (
	FRAME_POINTER = "bp"
	STACK_POINTER = "sp"
	INSTR_POINTER = "ip"

	// Address computations clobber both of these.
	ADDR_REG   = "r0"
	OFFSET_REG = "r1"
)

var arch = &common.Arch{
	Name:          "qproc",
	RegPrefix:     "r",
	MaxRegIndex:   12,
	ReturnIndex:   0,
	FirstArgIndex: 2,
	LastArgIndex:  12,
	LongSize:      types.LONG_SIZE_32,
	WordBits:      32,
	FramePointer:  FRAME_POINTER,
	StackPointer:  STACK_POINTER,
	InstrPointer:  INSTR_POINTER,
	Scratch:       ADDR_REG,
	MovImm:        "movi",
	ElideSelfMove: false,
	Format:        formatLine,
}

type Backend struct {
	*common.Emitter
}

var _ common.Backend = (*Backend)(nil)

func New(options common.Options) *Backend {
	return &Backend{Emitter: common.NewEmitter(arch, options)}
}

func (b *Backend) EmitReserveStackSpace(size int) error {
	if size <= 0 || size > math.MaxInt32 {
		return fmt.Errorf("%w: cannot reserve %d bytes", common.ErrInvalidStackSize, size)
	}
	batch := b.Begin("emit_reserve_stack_space")
	batch.Add(
		asm.Op2("movi", asm.Reg(ADDR_REG), asm.Imm(uint64(size))),
		asm.Op2("sub", asm.Reg(STACK_POINTER), asm.Reg(ADDR_REG)),
	)
	b.Commit(batch)
	return nil
}

func (b *Backend) EmitLoadFromStack(align, size int, dest string) (string, error) {
	if dest != "" {
		if err := b.CheckRegisters(dest); err != nil {
			return "", fmt.Errorf("load: %w", err)
		}
	}
	if err := checkOffset(align); err != nil {
		return "", fmt.Errorf("load: %w", err)
	}
	width, err := widthKeyword(size)
	if err != nil {
		return "", fmt.Errorf("load: %w", err)
	}
	if dest == "" {
		dest = b.Allocate()
		for dest == ADDR_REG || dest == OFFSET_REG {
			dest = b.Allocate()
		}
	}

	batch := b.Begin("emit_load_from_stack")
	batch.Add(frameAddress(align)...)
	batch.Add(asm.Op3("lod", asm.Reg(dest), asm.Keyword(width), asm.Reg(ADDR_REG)))
	b.Commit(batch)
	return dest, nil
}

// EmitStoreToStack stores src into the frame slot at bp-align. A source in
// r0 or r1 is pushed before the address computation overwrites it and popped
// back right before the store; a source in r0 comes back in r1 since r0 then
// holds the address.
func (b *Backend) EmitStoreToStack(align, size int, src string) error {
	if err := b.CheckRegisters(src); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if err := checkOffset(align); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	width, err := widthKeyword(size)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}

	batch := b.Begin("emit_store_from_stack")
	clobbered := src == ADDR_REG || src == OFFSET_REG
	if clobbered {
		batch.Add(asm.Op1("push", asm.Reg(src)))
	}
	batch.Add(frameAddress(align)...)
	if clobbered {
		if src == ADDR_REG {
			src = OFFSET_REG
		}
		batch.Add(asm.Op1("pop", asm.Reg(src)))
	}
	batch.Add(asm.Op3("str", asm.Keyword(width), asm.Reg(ADDR_REG), asm.Reg(src)))
	b.Commit(batch)
	return nil
}

func (b *Backend) EmitLoadAddressFromStack(align int, dest string) (string, error) {
	if err := checkOffset(align); err != nil {
		return "", fmt.Errorf("loadaddr: %w", err)
	}
	if dest != "" {
		if err := b.CheckRegisters(dest); err != nil {
			return "", fmt.Errorf("loadaddr: %w", err)
		}
	}
	if dest == "" || dest == ADDR_REG {
		dest = b.Allocate()
	}
	if dest == ADDR_REG {
		dest = b.Allocate()
	}

	batch := b.Begin("emit_loadaddr_from_stack")
	batch.Add(
		asm.Op2("mov", asm.Reg(dest), asm.Reg(FRAME_POINTER)),
		asm.Op2("movi", asm.Reg(ADDR_REG), asm.Imm(uint64(align))),
		asm.Op2("sub", asm.Reg(dest), asm.Reg(ADDR_REG)),
	)
	b.Commit(batch)
	return dest, nil
}

// frameAddress leaves bp-align in r0, clobbering r1.
func frameAddress(align int) []asm.Line {
	return []asm.Line{
		asm.Op2("mov", asm.Reg(ADDR_REG), asm.Reg(FRAME_POINTER)),
		asm.Op2("movi", asm.Reg(OFFSET_REG), asm.Imm(uint64(align))),
		asm.Op2("sub", asm.Reg(ADDR_REG), asm.Reg(OFFSET_REG)),
	}
}

func checkOffset(align int) error {
	if align <= 0 || align > math.MaxInt32 {
		return fmt.Errorf("%w: offset %d", common.ErrInvalidStackSize, align)
	}
	return nil
}

// widthKeyword maps an access size to its lod/str keyword. Only one and two
// byte accesses are special; every other size is a full dword access.
func widthKeyword(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("%w: access of %d bytes", common.ErrInvalidStackSize, size)
	}
	switch size {
	case 1:
		return "byte", nil
	case 2:
		return "word", nil
	default:
		return "dword", nil
	}
}
