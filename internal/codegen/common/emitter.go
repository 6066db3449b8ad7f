package common

import (
	"fmt"
	"io"
	"strings"

	"github.com/iley/hcc/internal/abi"
	"github.com/iley/hcc/internal/asm"
	"github.com/iley/hcc/internal/regalloc"
	"github.com/iley/hcc/internal/types"
)

// Emitter owns the state of one backend instance and implements the
// operations whose shape is the same on every target. Target packages embed
// it and add the stack access operations.
type Emitter struct {
	arch     *Arch
	options  Options
	types    *types.Registry
	abi      abi.Descriptor
	alloc    *regalloc.Allocator
	out      strings.Builder
	numLines int
}

func NewEmitter(arch *Arch, options Options) *Emitter {
	return &Emitter{
		arch:    arch,
		options: options,
		types:   types.NewRegistry(arch.LongSize),
		abi:     abi.New(arch.RegPrefix, arch.ReturnIndex, arch.FirstArgIndex, arch.LastArgIndex),
		alloc:   regalloc.New(arch.RegPrefix, arch.MaxRegIndex),
	}
}

// Batch collects the lines of one operation. Nothing reaches the output
// until the batch is committed, so a failing operation leaves no trace.
type Batch struct {
	lines []asm.Line
}

func (b *Batch) Add(lines ...asm.Line) {
	b.lines = append(b.lines, lines...)
}

func (e *Emitter) Begin(operation string) *Batch {
	b := &Batch{}
	if e.options.Comments {
		b.Add(asm.Comment(operation))
	}
	return b
}

func (e *Emitter) Commit(b *Batch) {
	for _, line := range b.lines {
		e.out.WriteString(e.arch.Format(line))
		e.out.WriteByte('\n')
		e.numLines++
	}
}

func (e *Emitter) Target() string {
	return e.arch.Name
}

func (e *Emitter) Types() *types.Registry {
	return e.types
}

func (e *Emitter) ABI() abi.Descriptor {
	return e.abi
}

func (e *Emitter) Allocate() string {
	return e.alloc.Allocate()
}

func (e *Emitter) Output() string {
	return e.out.String()
}

// NumLines is the number of lines emitted so far, comments included.
func (e *Emitter) NumLines() int {
	return e.numLines
}

func (e *Emitter) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, e.out.String())
	return int64(n), err
}

func (e *Emitter) CheckRegisters(regs ...string) error {
	for _, reg := range regs {
		if err := e.arch.CheckRegister(reg); err != nil {
			return err
		}
	}
	return nil
}

// Destination validates a caller supplied destination register or
// allocates one when it is empty.
func (e *Emitter) Destination(dest string) (string, error) {
	if dest == "" {
		return e.Allocate(), nil
	}
	if err := e.arch.CheckRegister(dest); err != nil {
		return "", err
	}
	return dest, nil
}

func (e *Emitter) EmitFunctionPrologue(name string) {
	b := e.Begin("emit_function_prologue")
	b.Add(
		asm.Label(name),
		asm.Op1("push", asm.Reg(e.arch.FramePointer)),
		asm.Op2("mov", asm.Reg(e.arch.FramePointer), asm.Reg(e.arch.StackPointer)),
	)
	e.Commit(b)
}

func (e *Emitter) EmitFunctionEpilogue() {
	b := e.Begin("emit_function_epilogue")
	b.Add(
		asm.Op2("mov", asm.Reg(e.arch.StackPointer), asm.Reg(e.arch.FramePointer)),
		asm.Op1("pop", asm.Reg(e.arch.FramePointer)),
	)
	if e.arch.InstrPointer != "" {
		b.Add(asm.Op1("pop", asm.Reg(e.arch.InstrPointer)))
	}
	e.Commit(b)
}

func (e *Emitter) EmitMovConst(value uint64, dest string) (string, error) {
	if err := e.arch.CheckImmediate(value); err != nil {
		return "", fmt.Errorf("movconst: %w", err)
	}
	dest, err := e.Destination(dest)
	if err != nil {
		return "", err
	}
	b := e.Begin("emit_mov_const")
	b.Add(asm.Op2(e.arch.MovImm, asm.Reg(dest), asm.Imm(value)))
	e.Commit(b)
	return dest, nil
}

func (e *Emitter) EmitAdd(out, lhs, rhs string) error {
	return e.emitBinary("emit_add", "add", out, lhs, rhs)
}

func (e *Emitter) EmitSub(out, lhs, rhs string) error {
	return e.emitBinary("emit_sub", "sub", out, lhs, rhs)
}

func (e *Emitter) EmitMul(out, lhs, rhs string) error {
	return e.emitBinary("emit_mul", "mul", out, lhs, rhs)
}

// emitBinary computes lhs op= rhs and then copies lhs into out unless they
// are the same register.
func (e *Emitter) emitBinary(operation, op, out, lhs, rhs string) error {
	if err := e.CheckRegisters(out, lhs, rhs); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	b := e.Begin(operation)
	b.Add(asm.Op2(op, asm.Reg(lhs), asm.Reg(rhs)))
	if out != lhs {
		b.Add(asm.Op2("mov", asm.Reg(out), asm.Reg(lhs)))
	}
	e.Commit(b)
	return nil
}

func (e *Emitter) EmitDiv(out, lhs, rhs string) error {
	d := e.arch.Division
	if !d.Fixed {
		return e.emitBinary("emit_div", "div", out, lhs, rhs)
	}
	if err := e.CheckRegisters(out, lhs, rhs); err != nil {
		return fmt.Errorf("div: %w", err)
	}
	if lhs != d.Dividend {
		return fmt.Errorf("div: %w: dividend must be in %s, got %s", ErrInvalidRegister, d.Dividend, lhs)
	}

	b := e.Begin("emit_div")
	b.Add(asm.Op1("push", asm.Reg(d.Preserved)))
	if rhs != d.Divisor {
		b.Add(asm.Op2("mov", asm.Reg(d.Divisor), asm.Reg(rhs)))
	}
	b.Add(
		asm.Op1("div", asm.Reg(lhs)),
		asm.Op1("pop", asm.Reg(d.Preserved)),
	)
	if out != lhs {
		b.Add(asm.Op2("mov", asm.Reg(out), asm.Reg(lhs)))
	}
	e.Commit(b)
	return nil
}

func (e *Emitter) EmitMove(dest, src string) error {
	if err := e.CheckRegisters(dest, src); err != nil {
		return fmt.Errorf("mov: %w", err)
	}
	if dest == src && e.arch.ElideSelfMove {
		return nil
	}
	b := e.Begin("emit_move")
	b.Add(asm.Op2("mov", asm.Reg(dest), asm.Reg(src)))
	e.Commit(b)
	return nil
}

func (e *Emitter) EmitCall(name string) {
	b := e.Begin("emit_call")
	b.Add(asm.Op1("call", asm.Ref(name)))
	e.Commit(b)
}

func (e *Emitter) EmitPush(reg string) error {
	return e.emitStackOp("emit_push", "push", reg)
}

func (e *Emitter) EmitPop(reg string) error {
	return e.emitStackOp("emit_pop", "pop", reg)
}

func (e *Emitter) emitStackOp(operation, op, reg string) error {
	if err := e.arch.CheckRegister(reg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	b := e.Begin(operation)
	b.Add(asm.Op1(op, asm.Reg(reg)))
	e.Commit(b)
	return nil
}

func (e *Emitter) EmitSingleRet() {
	b := e.Begin("emit_single_ret")
	if e.arch.InstrPointer != "" {
		b.Add(asm.Op1("pop", asm.Reg(e.arch.InstrPointer)))
	} else {
		b.Add(asm.Op0("ret"))
	}
	e.Commit(b)
}

func (e *Emitter) EmitLabel(name string) {
	b := e.Begin("emit_label")
	b.Add(asm.Label(name))
	e.Commit(b)
}
