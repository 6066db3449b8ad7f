package common

import (
	"errors"

	"github.com/iley/hcc/internal/types"
)

var (
	ErrUnknownType      = types.ErrUnknownType
	ErrInvalidRegister  = errors.New("invalid register")
	ErrInvalidStackSize = errors.New("invalid stack size")
	ErrUnsupportedWidth = errors.New("unsupported access width")
)
