package regalloc

import "github.com/iley/hcc/internal/util"

// Allocator hands out scratch registers in a fixed rotation: prefix0,
// prefix1, ... prefixMax, then prefix0 again. It does not know which
// registers still hold live values; callers must not ask for a register
// while the one it would return is still in use.
type Allocator struct {
	prefix   string
	maxIndex int
	next     int
}

func New(prefix string, maxIndex int) *Allocator {
	return &Allocator{prefix: prefix, maxIndex: maxIndex}
}

func (a *Allocator) Allocate() string {
	return util.RegisterName(a.prefix, a.AllocateIndex())
}

func (a *Allocator) AllocateIndex() int {
	res := a.next
	a.next++
	if a.next > a.maxIndex {
		a.next = 0
	}
	return res
}

// Peek returns the register the next Allocate call would return.
func (a *Allocator) Peek() string {
	return util.RegisterName(a.prefix, a.next)
}

// Capacity is the length of one rotation.
func (a *Allocator) Capacity() int {
	return a.maxIndex + 1
}
