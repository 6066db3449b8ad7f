package ir

import (
	"fmt"
	"log/slog"

	"github.com/iley/hcc/internal/codegen/common"
)

// Runner feeds the operations of a program to a backend, binding the
// registers returned by movconst, load and addr to temporaries.
type Runner struct {
	backend common.Backend
	logger  *slog.Logger
	temps   map[string]string
}

func NewRunner(backend common.Backend, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{
		backend: backend,
		logger:  logger,
		temps:   make(map[string]string),
	}
}

// Run stops at the first failing operation. Output of the operations before
// it stays in the backend.
func Run(backend common.Backend, p Program, logger *slog.Logger) error {
	return NewRunner(backend, logger).Run(p)
}

func (r *Runner) Run(p Program) error {
	for _, op := range p.Ops {
		if err := r.runOp(op); err != nil {
			return fmt.Errorf("line %d: %s: %w", op.Line, op.Name, err)
		}
	}
	return nil
}

// Temp returns the register bound to a temporary.
func (r *Runner) Temp(name string) (string, bool) {
	reg, ok := r.temps[name]
	return reg, ok
}

func (r *Runner) runOp(op Op) error {
	b := r.backend
	var result string
	var err error

	switch op.Name {
	case "prologue":
		b.EmitFunctionPrologue(op.Args[0].Name)
	case "epilogue":
		b.EmitFunctionEpilogue()
	case "ret":
		b.EmitSingleRet()
	case "label":
		b.EmitLabel(op.Args[0].Name)
	case "call":
		b.EmitCall(op.Args[0].Name)
	case "push", "pop":
		var reg string
		if reg, err = r.register(op.Args[0]); err != nil {
			return err
		}
		if op.Name == "push" {
			err = b.EmitPush(reg)
		} else {
			err = b.EmitPop(reg)
		}
	case "move":
		var regs []string
		if regs, err = r.registers(op.Args); err != nil {
			return err
		}
		err = b.EmitMove(regs[0], regs[1])
	case "movconst":
		var dest string
		if dest, err = r.optionalRegister(op.Args, 1); err != nil {
			return err
		}
		result, err = b.EmitMovConst(uint64(*op.Args[0].LiteralInt), dest)
	case "add", "sub", "mul", "div":
		var regs []string
		if regs, err = r.registers(op.Args); err != nil {
			return err
		}
		emit := map[string]func(out, lhs, rhs string) error{
			"add": b.EmitAdd,
			"sub": b.EmitSub,
			"mul": b.EmitMul,
			"div": b.EmitDiv,
		}[op.Name]
		err = emit(regs[0], regs[1], regs[2])
	case "reserve":
		var size int
		if size, err = r.size(op.Args[0]); err != nil {
			return err
		}
		err = b.EmitReserveStackSpace(size)
	case "load":
		var size int
		if size, err = r.size(op.Args[1]); err != nil {
			return err
		}
		var dest string
		if dest, err = r.optionalRegister(op.Args, 2); err != nil {
			return err
		}
		result, err = b.EmitLoadFromStack(int(*op.Args[0].LiteralInt), size, dest)
	case "store":
		var size int
		if size, err = r.size(op.Args[1]); err != nil {
			return err
		}
		var src string
		if src, err = r.register(op.Args[2]); err != nil {
			return err
		}
		err = b.EmitStoreToStack(int(*op.Args[0].LiteralInt), size, src)
	case "addr":
		var dest string
		if dest, err = r.optionalRegister(op.Args, 1); err != nil {
			return err
		}
		result, err = b.EmitLoadAddressFromStack(int(*op.Args[0].LiteralInt), dest)
	default:
		return fmt.Errorf("unknown operation %q", op.Name)
	}
	if err != nil {
		return err
	}

	if op.Result != "" {
		r.temps[op.Result] = result
	}
	r.logger.Debug("emitted", "target", b.Target(), "line", op.Line, "op", op.String(), "result", result)
	return nil
}

func (r *Runner) register(arg Arg) (string, error) {
	if arg.Temp == "" {
		return arg.Name, nil
	}
	reg, ok := r.temps[arg.Temp]
	if !ok {
		return "", fmt.Errorf("undefined temporary %%%s", arg.Temp)
	}
	return reg, nil
}

func (r *Runner) registers(args []Arg) ([]string, error) {
	var regs []string
	for _, arg := range args {
		reg, err := r.register(arg)
		if err != nil {
			return nil, err
		}
		regs = append(regs, reg)
	}
	return regs, nil
}

// optionalRegister resolves args[i], or returns "" when it was omitted so
// that the backend allocates a register.
func (r *Runner) optionalRegister(args []Arg, i int) (string, error) {
	if i >= len(args) {
		return "", nil
	}
	return r.register(args[i])
}

func (r *Runner) size(arg Arg) (int, error) {
	if arg.LiteralInt != nil {
		return int(*arg.LiteralInt), nil
	}
	return r.backend.Types().SizeOf(arg.Name)
}
