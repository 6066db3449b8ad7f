package common

import (
	"github.com/iley/hcc/internal/abi"
	"github.com/iley/hcc/internal/types"
)

// Backend lowers architecture-neutral operations to assembly text for one
// target. Operations that return a register return the one holding the
// result; an empty destination asks the backend to allocate one.
//
// A Backend is not safe for concurrent use.
type Backend interface {
	Target() string
	Types() *types.Registry
	ABI() abi.Descriptor
	Allocate() string

	EmitFunctionPrologue(name string)
	EmitFunctionEpilogue()
	EmitMovConst(value uint64, dest string) (string, error)
	EmitAdd(out, lhs, rhs string) error
	EmitSub(out, lhs, rhs string) error
	EmitMul(out, lhs, rhs string) error
	EmitDiv(out, lhs, rhs string) error
	EmitMove(dest, src string) error
	EmitReserveStackSpace(size int) error
	EmitLoadFromStack(align, size int, dest string) (string, error)
	EmitStoreToStack(align, size int, src string) error
	EmitLoadAddressFromStack(align int, dest string) (string, error)
	EmitCall(name string)
	EmitPush(reg string) error
	EmitPop(reg string) error
	EmitSingleRet()
	EmitLabel(name string)

	Output() string
}

type Options struct {
	// Comments prefixes the output of every operation with a comment line
	// naming it.
	Comments bool
}
