package abi

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"

	"github.com/iley/hcc/internal/util"
)

// Descriptor is the register convention of one target: where a function
// leaves its result and which registers carry its arguments, in order.
type Descriptor struct {
	returnRegister string
	argsRegisters  []string
}

// New builds a descriptor for registers named prefix+index. Arguments are
// passed in registers firstArg..lastArg inclusive.
func New(prefix string, returnIndex, firstArg, lastArg int) Descriptor {
	indices := lo.RangeFrom(firstArg, lastArg-firstArg+1)
	return Descriptor{
		returnRegister: util.RegisterName(prefix, returnIndex),
		argsRegisters: lo.Map(indices, func(i int, _ int) string {
			return util.RegisterName(prefix, i)
		}),
	}
}

func (d Descriptor) ReturnRegister() string {
	return d.returnRegister
}

// ArgsRegisters returns a copy of the argument register pool.
func (d Descriptor) ArgsRegisters() []string {
	return slices.Clone(d.argsRegisters)
}

// ArgRegister returns the register carrying the n-th argument.
func (d Descriptor) ArgRegister(n int) (string, bool) {
	if n < 0 || n >= len(d.argsRegisters) {
		return "", false
	}
	return d.argsRegisters[n], true
}

func (d Descriptor) IsArgRegister(reg string) bool {
	return lo.Contains(d.argsRegisters, reg)
}

func (d Descriptor) String() string {
	return fmt.Sprintf("return=%s args=[%s]", d.returnRegister, strings.Join(d.argsRegisters, " "))
}
