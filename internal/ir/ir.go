package ir

import (
	"fmt"
	"io"
	"strings"
)

/*
Operation scripts drive a backend one operation at a time. A script is a
sequence of lines, each holding one operation and an optional binding of its
result register to a temporary:

	prologue main
	%a = movconst 42
	%b = movconst 7 r5
	add %a %a %b
	store 8 int %a
	epilogue
	ret

Everything after a '#' is a comment. Register operands are either
temporaries or literal register names. Sizes are either integers or names of
builtin types ("char", "int", ...).

Supported operations:
 * prologue NAME, epilogue, ret, label NAME, call NAME
 * push REG, pop REG, move DEST SRC
 * [%t =] movconst VALUE [DEST]
 * add|sub|mul|div OUT LHS RHS
 * reserve SIZE
 * [%t =] load ALIGN SIZE [DEST]
 * store ALIGN SIZE SRC
 * [%t =] addr ALIGN [DEST]
*/

type Program struct {
	Ops []Op
}

func (p Program) Print(writer io.Writer) {
	for i, op := range p.Ops {
		fmt.Fprintf(writer, "%4d  %s\n", i, op)
	}
}

type Op struct {
	Line   int
	Result string
	Name   string
	Args   []Arg
}

func (o Op) String() string {
	var sb strings.Builder
	if o.Result != "" {
		fmt.Fprintf(&sb, "%%%s = ", o.Result)
	}
	sb.WriteString(o.Name)
	for _, arg := range o.Args {
		sb.WriteString(" ")
		sb.WriteString(arg.String())
	}
	return sb.String()
}

type argKind int

const (
	KIND_NAME argKind = iota
	KIND_REG
	KIND_INT
	KIND_SIZE
)

func (k argKind) String() string {
	switch k {
	case KIND_NAME:
		return "name"
	case KIND_REG:
		return "register"
	case KIND_INT:
		return "integer"
	case KIND_SIZE:
		return "size"
	default:
		return "unknown"
	}
}

type opSpec struct {
	args []argKind
	// The last optional operands may be omitted.
	optional int
	result   bool
}

var opSpecs = map[string]opSpec{
	"prologue": {args: []argKind{KIND_NAME}},
	"epilogue": {},
	"ret":      {},
	"label":    {args: []argKind{KIND_NAME}},
	"call":     {args: []argKind{KIND_NAME}},
	"push":     {args: []argKind{KIND_REG}},
	"pop":      {args: []argKind{KIND_REG}},
	"move":     {args: []argKind{KIND_REG, KIND_REG}},
	"movconst": {args: []argKind{KIND_INT, KIND_REG}, optional: 1, result: true},
	"add":      {args: []argKind{KIND_REG, KIND_REG, KIND_REG}},
	"sub":      {args: []argKind{KIND_REG, KIND_REG, KIND_REG}},
	"mul":      {args: []argKind{KIND_REG, KIND_REG, KIND_REG}},
	"div":      {args: []argKind{KIND_REG, KIND_REG, KIND_REG}},
	"reserve":  {args: []argKind{KIND_SIZE}},
	"load":     {args: []argKind{KIND_INT, KIND_SIZE, KIND_REG}, optional: 1, result: true},
	"store":    {args: []argKind{KIND_INT, KIND_SIZE, KIND_REG}},
	"addr":     {args: []argKind{KIND_INT, KIND_REG}, optional: 1, result: true},
}

func (s opSpec) accepts(kind argKind, arg Arg) bool {
	switch kind {
	case KIND_NAME:
		return arg.Name != ""
	case KIND_REG:
		return arg.Temp != "" || arg.Name != ""
	case KIND_INT:
		return arg.LiteralInt != nil
	case KIND_SIZE:
		return arg.LiteralInt != nil || arg.Name != ""
	}
	return false
}
