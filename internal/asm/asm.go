package asm

import "github.com/iley/hcc/internal/util"

// Line is a single line of target assembly before formatting. Exactly one of
// Comment, Label or Op is expected to be set.
type Line struct {
	Comment string
	Label   string
	Op      string
	Args    []Arg
}

// Arg is an instruction operand. The formatter of each target decides how
// every kind is spelled.
type Arg struct {
	Reg     string
	Imm     *uint64
	Keyword string
	Label   string
	// Memory operand: Bits wide access at [Reg+Offset].
	Deref  bool
	Offset int
	Bits   int
}

func (a Arg) WithOffset(offset int) Arg {
	result := a
	result.Offset = offset
	return result
}

func (a Arg) AsDeref(bits int) Arg {
	result := a
	result.Deref = true
	result.Bits = bits
	return result
}

func Reg(reg string) Arg {
	return Arg{Reg: reg}
}

func Imm(value uint64) Arg {
	return Arg{Imm: util.Uint64Ptr(value)}
}

func Keyword(word string) Arg {
	return Arg{Keyword: word}
}

func Ref(label string) Arg {
	return Arg{Label: label}
}

func Mem(reg string, offset, bits int) Arg {
	return Reg(reg).WithOffset(offset).AsDeref(bits)
}

func Op0(op string) Line {
	return Line{Op: op}
}

func Op1(op string, arg Arg) Line {
	return Line{Op: op, Args: []Arg{arg}}
}

func Op2(op string, arg1, arg2 Arg) Line {
	return Line{Op: op, Args: []Arg{arg1, arg2}}
}

func Op3(op string, arg1, arg2, arg3 Arg) Line {
	return Line{Op: op, Args: []Arg{arg1, arg2, arg3}}
}

func Comment(text string) Line {
	return Line{Comment: text}
}

func Label(text string) Line {
	return Line{Label: text}
}
