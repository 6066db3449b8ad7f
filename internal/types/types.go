package types

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

var ErrUnknownType = errors.New("unknown type")

// TypeMetadata describes a primitive type known to a backend.
type TypeMetadata struct {
	Name string
	Size int
}

func (t TypeMetadata) String() string {
	return fmt.Sprintf("%s(%d)", t.Name, t.Size)
}

// Registry maps primitive type names to their sizes. It is filled once by
// NewRegistry and is read-only afterwards.
type Registry struct {
	types map[string]TypeMetadata
}

// NewRegistry returns the builtin types of a target whose "long" is longSize
// bytes wide.
func NewRegistry(longSize int) *Registry {
	r := &Registry{types: make(map[string]TypeMetadata)}
	for _, t := range []TypeMetadata{
		{"void", VOID_SIZE},
		{"char", CHAR_SIZE},
		{"short", SHORT_SIZE},
		{"int", INT_SIZE},
		{"long", longSize},
	} {
		r.types[t.Name] = t
	}
	return r
}

func (r *Registry) Lookup(name string) (TypeMetadata, error) {
	t, ok := r.types[name]
	if !ok {
		return TypeMetadata{}, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return t, nil
}

func (r *Registry) SizeOf(name string) (int, error) {
	t, err := r.Lookup(name)
	if err != nil {
		return 0, err
	}
	return t.Size, nil
}

// All returns the registered types ordered by size, then by name.
func (r *Registry) All() []TypeMetadata {
	result := lo.Values(r.types)
	slices.SortFunc(result, func(a, b TypeMetadata) int {
		if a.Size != b.Size {
			return a.Size - b.Size
		}
		return strings.Compare(a.Name, b.Name)
	})
	return result
}
