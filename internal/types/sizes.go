package types

const (
	VOID_SIZE  = 0
	CHAR_SIZE  = 1
	SHORT_SIZE = 2
	INT_SIZE   = 4
)

// Word widths a target can pick for "long".
const (
	LONG_SIZE_32 = 4
	LONG_SIZE_64 = 8
)
