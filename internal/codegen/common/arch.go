package common

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/iley/hcc/internal/asm"
	"github.com/iley/hcc/internal/util"
)

// Arch is everything the shared emitter needs to know about a target.
type Arch struct {
	Name string

	// General purpose registers are RegPrefix0..RegPrefixMaxRegIndex.
	RegPrefix   string
	MaxRegIndex int

	ReturnIndex   int
	FirstArgIndex int
	LastArgIndex  int

	LongSize int
	// WordBits bounds the immediates the target can materialise. Zero means
	// any 64-bit value.
	WordBits int

	FramePointer string
	StackPointer string
	// InstrPointer is set on targets without a link register; functions
	// return by popping the saved address into it.
	InstrPointer string
	// Scratch is clobbered by address computations.
	Scratch string

	MovImm        string
	ElideSelfMove bool
	Division      Division

	Format func(asm.Line) string
}

// Division describes the operand constraints of the target's div
// instruction. When Fixed is false div takes two arbitrary registers like
// add does. Otherwise the dividend must be in Dividend, the divisor in
// Divisor, and Preserved is clobbered by the instruction.
type Division struct {
	Fixed     bool
	Dividend  string
	Divisor   string
	Preserved string
}

func (a *Arch) Register(index int) string {
	return util.RegisterName(a.RegPrefix, index)
}

func (a *Arch) specialRegisters() []string {
	return lo.Compact([]string{a.FramePointer, a.StackPointer, a.InstrPointer})
}

// CheckImmediate fails with ErrUnsupportedWidth unless value fits in a
// machine word, read either as unsigned or as two's complement.
func (a *Arch) CheckImmediate(value uint64) error {
	if a.WordBits <= 0 || a.WordBits >= 64 {
		return nil
	}
	maxUnsigned := uint64(1)<<a.WordBits - 1
	minSigned := int64(-1) << (a.WordBits - 1)
	if value <= maxUnsigned || int64(value) >= minSigned {
		return nil
	}
	return fmt.Errorf("%w: %d does not fit in %d bits", ErrUnsupportedWidth, int64(value), a.WordBits)
}

// CheckRegister fails with ErrInvalidRegister unless reg names one of the
// target's registers.
func (a *Arch) CheckRegister(reg string) error {
	if reg == "" {
		return fmt.Errorf("%w: empty register name", ErrInvalidRegister)
	}
	if index, ok := util.ParseRegister(reg, a.RegPrefix); ok && index <= a.MaxRegIndex {
		return nil
	}
	if lo.Contains(a.specialRegisters(), reg) {
		return nil
	}
	return fmt.Errorf("%w: %q is not a %s register", ErrInvalidRegister, reg, a.Name)
}
