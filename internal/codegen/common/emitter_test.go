package common

import (
	"errors"
	"strings"
	"testing"

	"github.com/iley/hcc/internal/asm"
)

func testFormat(line asm.Line) string {
	if line.Label != "" {
		return line.Label + ":"
	}
	if line.Comment != "" {
		return "# " + line.Comment
	}
	parts := []string{line.Op}
	for _, arg := range line.Args {
		switch {
		case arg.Reg != "":
			parts = append(parts, arg.Reg)
		case arg.Label != "":
			parts = append(parts, arg.Label)
		default:
			parts = append(parts, "?")
		}
	}
	return strings.Join(parts, " ")
}

func testArch(fixedDiv bool) *Arch {
	return &Arch{
		Name:          "test",
		RegPrefix:     "t",
		MaxRegIndex:   3,
		ReturnIndex:   0,
		FirstArgIndex: 1,
		LastArgIndex:  3,
		LongSize:      8,
		FramePointer:  "fp",
		StackPointer:  "sp",
		Scratch:       "t0",
		MovImm:        "li",
		ElideSelfMove: true,
		Division: Division{
			Fixed:     fixedDiv,
			Dividend:  "t0",
			Divisor:   "t2",
			Preserved: "t1",
		},
		Format: testFormat,
	}
}

func TestCheckRegister(t *testing.T) {
	a := testArch(false)
	for _, reg := range []string{"t0", "t3", "fp", "sp"} {
		if err := a.CheckRegister(reg); err != nil {
			t.Errorf("CheckRegister(%q) = %v", reg, err)
		}
	}
	for _, reg := range []string{"", "t4", "t", "ip", "x0", "t00"} {
		if err := a.CheckRegister(reg); !errors.Is(err, ErrInvalidRegister) {
			t.Errorf("CheckRegister(%q) = %v, want ErrInvalidRegister", reg, err)
		}
	}
}

func TestBatchIsCommittedWhole(t *testing.T) {
	e := NewEmitter(testArch(false), Options{Comments: true})
	b := e.Begin("emit_test")
	b.Add(asm.Op1("push", asm.Reg("t1")), asm.Op1("pop", asm.Reg("t1")))
	if e.Output() != "" {
		t.Fatalf("uncommitted batch reached the output: %q", e.Output())
	}
	e.Commit(b)
	if e.Output() != "# emit_test\npush t1\npop t1\n" {
		t.Errorf("unexpected output %q", e.Output())
	}
	if e.NumLines() != 3 {
		t.Errorf("NumLines() = %d, want 3", e.NumLines())
	}
}

func TestDivisionCapability(t *testing.T) {
	tests := []struct {
		name     string
		fixed    bool
		out      string
		lhs      string
		rhs      string
		expected string
	}{
		{name: "free operands", fixed: false, out: "t3", lhs: "t1", rhs: "t2", expected: "div t1 t2\nmov t3 t1\n"},
		{name: "fixed operands in place", fixed: true, out: "t0", lhs: "t0", rhs: "t2", expected: "push t1\ndiv t0\npop t1\n"},
		{name: "fixed operands moved", fixed: true, out: "t3", lhs: "t0", rhs: "t3", expected: "push t1\nmov t2 t3\ndiv t0\npop t1\nmov t3 t0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEmitter(testArch(tt.fixed), Options{})
			if err := e.EmitDiv(tt.out, tt.lhs, tt.rhs); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if e.Output() != tt.expected {
				t.Errorf("got %q, want %q", e.Output(), tt.expected)
			}
		})
	}
}

func TestWithoutInstrPointer(t *testing.T) {
	e := NewEmitter(testArch(false), Options{})
	e.EmitFunctionEpilogue()
	e.EmitSingleRet()
	if e.Output() != "mov sp fp\npop fp\nret\n" {
		t.Errorf("unexpected output %q", e.Output())
	}
}

func TestWriteTo(t *testing.T) {
	e := NewEmitter(testArch(false), Options{})
	e.EmitCall("f")
	var sb strings.Builder
	n, err := e.WriteTo(&sb)
	if err != nil || n != int64(len("call f\n")) || sb.String() != "call f\n" {
		t.Errorf("WriteTo wrote %d bytes %q, err %v", n, sb.String(), err)
	}
}

func TestCheckImmediate(t *testing.T) {
	tests := []struct {
		name     string
		wordBits int
		value    int64
		ok       bool
	}{
		{name: "unbounded", wordBits: 0, value: -1 << 40, ok: true},
		{name: "64-bit word", wordBits: 64, value: 1 << 40, ok: true},
		{name: "32-bit minus one", wordBits: 32, value: -1, ok: true},
		{name: "32-bit unsigned maximum", wordBits: 32, value: 1<<32 - 1, ok: true},
		{name: "32-bit signed minimum", wordBits: 32, value: -1 << 31, ok: true},
		{name: "32-bit overflow", wordBits: 32, value: 1 << 32, ok: false},
		{name: "32-bit underflow", wordBits: 32, value: -1<<31 - 1, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arch := testArch(false)
			arch.WordBits = tt.wordBits
			err := arch.CheckImmediate(uint64(tt.value))
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrUnsupportedWidth) {
				t.Errorf("expected ErrUnsupportedWidth, got %v", err)
			}
		})
	}
}
