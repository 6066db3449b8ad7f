// Package hypercpu emits assembly for HyperCPU, a 64-bit target with eight
// general purpose registers x0..x7 and comma separated, semicolon terminated
// instructions.
package hypercpu

import (
	"fmt"

	"github.com/iley/hcc/internal/asm"
	"github.com/iley/hcc/internal/codegen/common"
	"github.com/iley/hcc/internal/types"
)

const (
	FRAME_POINTER = "xbp"
	STACK_POINTER = "xsp"

	// Frame slots are addressed with an 8-bit displacement that wraps
	// around, so xbp-align is spelled [xbp+0u(256-align)].
	FRAME_WRAP       = 256
	MAX_FRAME_OFFSET = FRAME_WRAP - 1
)

var arch = &common.Arch{
	Name:          "hypercpu",
	RegPrefix:     "x",
	MaxRegIndex:   7,
	ReturnIndex:   0,
	FirstArgIndex: 2,
	LastArgIndex:  7,
	LongSize:      types.LONG_SIZE_64,
	WordBits:      64,
	FramePointer:  FRAME_POINTER,
	StackPointer:  STACK_POINTER,
	Scratch:       "x0",
	MovImm:        "mov",
	ElideSelfMove: true,
	Division: common.Division{
		Fixed:     true,
		Dividend:  "x0",
		Divisor:   "x2",
		Preserved: "x1",
	},
	Format: formatLine,
}

type Backend struct {
	*common.Emitter
}

var _ common.Backend = (*Backend)(nil)

func New(options common.Options) *Backend {
	return &Backend{Emitter: common.NewEmitter(arch, options)}
}

func (b *Backend) EmitReserveStackSpace(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: cannot reserve %d bytes", common.ErrInvalidStackSize, size)
	}
	batch := b.Begin("emit_reserve_stack_space")
	batch.Add(asm.Op2("sub", asm.Reg(STACK_POINTER), asm.Imm(uint64(size))))
	b.Commit(batch)
	return nil
}

func (b *Backend) EmitLoadFromStack(align, size int, dest string) (string, error) {
	if dest != "" {
		if err := b.CheckRegisters(dest); err != nil {
			return "", fmt.Errorf("load: %w", err)
		}
	}
	slot, err := frameSlot(align, size)
	if err != nil {
		return "", fmt.Errorf("load: %w", err)
	}
	if dest == "" {
		dest = b.Allocate()
	}

	batch := b.Begin("emit_load_from_stack")
	batch.Add(asm.Op2("mov", asm.Reg(dest), slot))
	b.Commit(batch)
	return dest, nil
}

func (b *Backend) EmitStoreToStack(align, size int, src string) error {
	if err := b.CheckRegisters(src); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	slot, err := frameSlot(align, size)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}

	batch := b.Begin("emit_store_from_stack")
	batch.Add(asm.Op2("mov", slot, asm.Reg(src)))
	b.Commit(batch)
	return nil
}

func (b *Backend) EmitLoadAddressFromStack(align int, dest string) (string, error) {
	if align <= 0 {
		return "", fmt.Errorf("loadaddr: %w: offset %d", common.ErrInvalidStackSize, align)
	}
	if dest != "" {
		if err := b.CheckRegisters(dest); err != nil {
			return "", fmt.Errorf("loadaddr: %w", err)
		}
	}
	if dest == "" || dest == arch.Scratch {
		dest = b.Allocate()
	}
	if dest == arch.Scratch {
		dest = b.Allocate()
	}

	batch := b.Begin("emit_loadaddr_from_stack")
	batch.Add(
		asm.Op2("mov", asm.Reg(dest), asm.Reg(FRAME_POINTER)),
		asm.Op2("sub", asm.Reg(dest), asm.Imm(uint64(align))),
	)
	b.Commit(batch)
	return dest, nil
}

func frameSlot(align, size int) (asm.Arg, error) {
	if align <= 0 || align > MAX_FRAME_OFFSET {
		return asm.Arg{}, fmt.Errorf("%w: offset %d is outside the frame window", common.ErrInvalidStackSize, align)
	}
	bits, err := accessBits(size)
	if err != nil {
		return asm.Arg{}, err
	}
	return asm.Mem(FRAME_POINTER, FRAME_WRAP-align, bits), nil
}

// accessBits picks the memory access width for a value of size bytes.
// Anything that is not a byte, a halfword or a 64-bit value is accessed as a
// 32-bit word.
func accessBits(size int) (int, error) {
	switch {
	case size <= 0:
		return 0, fmt.Errorf("%w: access of %d bytes", common.ErrInvalidStackSize, size)
	case size == 1:
		return 8, nil
	case size == 2:
		return 16, nil
	case size == 8:
		return 64, nil
	case size < 8:
		return 32, nil
	}
	return 0, fmt.Errorf("%w: %d bytes", common.ErrUnsupportedWidth, size)
}
