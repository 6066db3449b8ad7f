package ir

import (
	"fmt"
	"strconv"
	"strings"
)

// Arg is one operand of a script operation. Exactly one field is set.
type Arg struct {
	// Temp names the result of an earlier operation, written as %name.
	Temp       string
	LiteralInt *int64
	// Name is a label, a function, a register or a type depending on where
	// the operand appears.
	Name string
}

func (a Arg) String() string {
	if a.Temp != "" {
		return "%" + a.Temp
	} else if a.LiteralInt != nil {
		return fmt.Sprintf("%d", *a.LiteralInt)
	} else if a.Name != "" {
		return a.Name
	}
	panic(fmt.Sprintf("invalid arg value: %#v", a))
}

func IsTemp(token string) bool {
	return strings.HasPrefix(token, "%")
}

func parseArg(token string) (Arg, error) {
	if IsTemp(token) {
		name := token[1:]
		if name == "" {
			return Arg{}, fmt.Errorf("empty temporary name")
		}
		return Arg{Temp: name}, nil
	}
	if c := token[0]; c == '-' || (c >= '0' && c <= '9') {
		if v, err := strconv.ParseInt(token, 0, 64); err == nil {
			return Arg{LiteralInt: &v}, nil
		}
		// Literals above MaxInt64 keep their bit pattern.
		u, err := strconv.ParseUint(token, 0, 64)
		if err != nil {
			return Arg{}, fmt.Errorf("invalid integer literal %q", token)
		}
		v := int64(u)
		return Arg{LiteralInt: &v}, nil
	}
	return Arg{Name: token}, nil
}
