package ir

import (
	"reflect"
	"strings"
	"testing"
)

func int64Ptr(v int64) *int64 {
	return &v
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected Program
	}{
		{
			name:     "empty script",
			input:    "\n   \n# just a comment\n",
			expected: Program{},
		},
		{
			name:  "prologue and ret",
			input: "prologue main\nret # done\n",
			expected: Program{Ops: []Op{
				{Line: 1, Name: "prologue", Args: []Arg{{Name: "main"}}},
				{Line: 2, Name: "ret"},
			}},
		},
		{
			name:  "bound results",
			input: "%a = movconst 42\n%b = movconst -1 r5\nadd %a %a %b\n",
			expected: Program{Ops: []Op{
				{Line: 1, Result: "a", Name: "movconst", Args: []Arg{{LiteralInt: int64Ptr(42)}}},
				{Line: 2, Result: "b", Name: "movconst", Args: []Arg{{LiteralInt: int64Ptr(-1)}, {Name: "r5"}}},
				{Line: 3, Name: "add", Args: []Arg{{Temp: "a"}, {Temp: "a"}, {Temp: "b"}}},
			}},
		},
		{
			name:  "sizes by type name",
			input: "%v = load 8 char\nstore 8 0x4 %v\n",
			expected: Program{Ops: []Op{
				{Line: 1, Result: "v", Name: "load", Args: []Arg{{LiteralInt: int64Ptr(8)}, {Name: "char"}}},
				{Line: 2, Name: "store", Args: []Arg{{LiteralInt: int64Ptr(8)}, {LiteralInt: int64Ptr(4)}, {Temp: "v"}}},
			}},
		},
		{
			name:  "unsigned literal above int64",
			input: "movconst 18446744073709551615 x1\n",
			expected: Program{Ops: []Op{
				{Line: 1, Name: "movconst", Args: []Arg{{LiteralInt: int64Ptr(-1)}, {Name: "x1"}}},
			}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Parse() = %#v, want %#v", got, tc.expected)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		message string
	}{
		{name: "unknown operation", input: "jmp L1", message: "line 1: unknown operation \"jmp\""},
		{name: "too few operands", input: "ret\nadd r1 r2", message: "line 2: add takes 3 operands, got 2"},
		{name: "too many operands", input: "movconst 1 r1 r2", message: "movconst takes 1 to 2 operands, got 3"},
		{name: "result on void op", input: "%x = call f", message: "call does not produce a result"},
		{name: "bad result", input: "x = movconst 1", message: "result must be a temporary"},
		{name: "missing operation", input: "%x =", message: "missing operation"},
		{name: "name where integer expected", input: "load x int", message: "load operand 1: expected integer"},
		{name: "bad literal", input: "reserve 12abc", message: "invalid integer literal"},
		{name: "empty temporary", input: "push %", message: "empty temporary name"},
		{name: "integer where name expected", input: "label 12", message: "expected name"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tc.input))
			if err == nil {
				t.Fatalf("expected error containing %q", tc.message)
			}
			if !strings.Contains(err.Error(), tc.message) {
				t.Errorf("error %q does not contain %q", err, tc.message)
			}
		})
	}
}

func TestPrint(t *testing.T) {
	program, err := Parse(strings.NewReader("%a = movconst 42\nstore 8 int %a\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sb strings.Builder
	program.Print(&sb)
	expected := "   0  %a = movconst 42\n   1  store 8 int %a\n"
	if sb.String() != expected {
		t.Errorf("Print() = %q, want %q", sb.String(), expected)
	}
}
