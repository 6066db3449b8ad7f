package qproc

import (
	"fmt"
	"strings"

	"github.com/iley/hcc/internal/asm"
)

// Operations whose comment lines use "//" rather than ";".
var slashCommented = map[string]bool{
	"emit_single_ret": true,
	"emit_label":      true,
}

func formatLine(line asm.Line) string {
	if line.Label != "" {
		return line.Label + ":"
	}
	if line.Comment != "" {
		if slashCommented[line.Comment] {
			return "// " + line.Comment
		}
		return "; " + line.Comment
	}

	parts := []string{line.Op}
	for _, arg := range line.Args {
		parts = append(parts, argToString(arg))
	}
	return strings.Join(parts, " ")
}

func argToString(arg asm.Arg) string {
	if arg.Deref {
		panic(fmt.Errorf("memory operands are not supported on qproc, use lod/str: %#v", arg))
	}

	switch {
	case arg.Reg != "":
		return arg.Reg
	case arg.Imm != nil:
		// Immediates are 32-bit two's complement words.
		return fmt.Sprintf("%d", int32(uint32(*arg.Imm)))
	case arg.Keyword != "":
		return arg.Keyword
	case arg.Label != "":
		return arg.Label
	}
	panic(fmt.Errorf("invalid arg %#v", arg))
}
