package hypercpu

import (
	"fmt"
	"strings"

	"github.com/iley/hcc/internal/asm"
)

func formatLine(line asm.Line) string {
	if line.Label != "" {
		return line.Label + ":"
	}
	if line.Comment != "" {
		return "// " + line.Comment
	}

	args := make([]string, len(line.Args))
	for i, arg := range line.Args {
		args[i] = argToString(arg)
	}
	if len(args) == 0 {
		return line.Op + ";"
	}
	return fmt.Sprintf("%s %s;", line.Op, strings.Join(args, ", "))
}

func argToString(arg asm.Arg) string {
	if arg.Deref {
		if arg.Reg == "" {
			panic(fmt.Errorf("invalid arg %#v. dereferencing only supported for registers", arg))
		}
		return fmt.Sprintf("b%d ptr [%s+0u%d]", arg.Bits, arg.Reg, arg.Offset)
	}

	switch {
	case arg.Reg != "":
		return arg.Reg
	case arg.Imm != nil:
		return fmt.Sprintf("0u%d", *arg.Imm)
	case arg.Label != "":
		return arg.Label
	case arg.Keyword != "":
		panic(fmt.Errorf("width keywords are not supported on hypercpu: %#v", arg))
	}
	panic(fmt.Errorf("invalid arg %#v", arg))
}
