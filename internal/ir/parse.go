package ir

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Parse reads an operation script. Errors carry the 1-based line number.
func Parse(r io.Reader) (Program, error) {
	var program Program
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		text := scanner.Text()
		if idx := strings.IndexByte(text, '#'); idx >= 0 {
			text = text[:idx]
		}
		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		op, err := parseOp(fields)
		if err != nil {
			return Program{}, fmt.Errorf("line %d: %w", lineNum, err)
		}
		op.Line = lineNum
		program.Ops = append(program.Ops, op)
	}
	if err := scanner.Err(); err != nil {
		return Program{}, err
	}
	return program, nil
}

func parseOp(fields []string) (Op, error) {
	var op Op
	if len(fields) >= 2 && fields[1] == "=" {
		if !IsTemp(fields[0]) || len(fields[0]) == 1 {
			return op, fmt.Errorf("result must be a temporary, got %q", fields[0])
		}
		op.Result = fields[0][1:]
		fields = fields[2:]
		if len(fields) == 0 {
			return op, fmt.Errorf("missing operation after %%%s =", op.Result)
		}
	}

	op.Name = fields[0]
	spec, ok := opSpecs[op.Name]
	if !ok {
		return op, fmt.Errorf("unknown operation %q", op.Name)
	}
	if op.Result != "" && !spec.result {
		return op, fmt.Errorf("%s does not produce a result", op.Name)
	}

	tokens := fields[1:]
	minArgs := len(spec.args) - spec.optional
	if len(tokens) < minArgs || len(tokens) > len(spec.args) {
		if spec.optional > 0 {
			return op, fmt.Errorf("%s takes %d to %d operands, got %d", op.Name, minArgs, len(spec.args), len(tokens))
		}
		return op, fmt.Errorf("%s takes %d operands, got %d", op.Name, len(spec.args), len(tokens))
	}

	for i, token := range tokens {
		arg, err := parseArg(token)
		if err != nil {
			return op, fmt.Errorf("%s operand %d: %w", op.Name, i+1, err)
		}
		if !spec.accepts(spec.args[i], arg) {
			return op, fmt.Errorf("%s operand %d: expected %s, got %q", op.Name, i+1, spec.args[i], token)
		}
		op.Args = append(op.Args, arg)
	}
	return op, nil
}
