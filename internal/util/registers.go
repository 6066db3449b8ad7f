package util

import (
	"fmt"
	"strconv"
	"strings"
)

// RegisterName builds a numbered register name such as "x3" or "r12".
func RegisterName(prefix string, index int) string {
	return fmt.Sprintf("%s%d", prefix, index)
}

// ParseRegister returns the index of a numbered register with the given prefix.
// Names without a decimal suffix, or with leading zeros in it, are rejected.
func ParseRegister(name, prefix string) (int, bool) {
	if prefix == "" || !strings.HasPrefix(name, prefix) {
		return 0, false
	}
	digits := name[len(prefix):]
	if digits == "" || (len(digits) > 1 && digits[0] == '0') {
		return 0, false
	}
	for _, c := range digits {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	index, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return index, true
}
