package codegen

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/iley/hcc/internal/codegen/common"
	"github.com/iley/hcc/internal/codegen/hypercpu"
	"github.com/iley/hcc/internal/codegen/qproc"
	"github.com/iley/hcc/internal/ir"
)

type Backend = common.Backend

type Target int

const (
	TargetHyperCPU Target = iota
	TargetQProc
)

var (
	ErrUnknownType      = common.ErrUnknownType
	ErrInvalidRegister  = common.ErrInvalidRegister
	ErrInvalidStackSize = common.ErrInvalidStackSize
	ErrUnsupportedWidth = common.ErrUnsupportedWidth
)

func TargetFromName(name string) (Target, error) {
	switch name {
	case "hypercpu":
		return TargetHyperCPU, nil
	case "qproc":
		return TargetQProc, nil
	}
	return 0, fmt.Errorf("unknown target: %s", name)
}

func (t Target) String() string {
	switch t {
	case TargetHyperCPU:
		return "hypercpu"
	case TargetQProc:
		return "qproc"
	}
	return fmt.Sprintf("Target(%d)", int(t))
}

func TargetNames() []string {
	return []string{TargetHyperCPU.String(), TargetQProc.String()}
}

type Options struct {
	Comments bool
	// Logger receives a debug record per emitted operation. May be nil.
	Logger *slog.Logger
}

// New returns a fresh backend. Backends share no state, so separate
// instances may be driven from separate goroutines.
func New(target Target, options Options) (Backend, error) {
	backendOptions := common.Options{Comments: options.Comments}
	switch target {
	case TargetHyperCPU:
		return hypercpu.New(backendOptions), nil
	case TargetQProc:
		return qproc.New(backendOptions), nil
	}
	return nil, fmt.Errorf("unknown target: %v", target)
}

// Generate drives a new backend through the program and writes the emitted
// assembly to out. Nothing is written when an operation fails.
func Generate(out io.Writer, target Target, program ir.Program, options Options) error {
	backend, err := New(target, options)
	if err != nil {
		return err
	}

	if err := ir.Run(backend, program, options.Logger); err != nil {
		return fmt.Errorf("error when generating code for %s: %w", target, err)
	}

	_, err = io.WriteString(out, backend.Output())
	return err
}

// GenerateAll generates the program for several targets concurrently, one
// backend per target. The outputs are returned in the order of targets.
func GenerateAll(targets []Target, program ir.Program, options Options) ([]string, error) {
	outputs := make([]strings.Builder, len(targets))
	var g errgroup.Group
	for i, target := range targets {
		g.Go(func() error {
			return Generate(&outputs[i], target, program, options)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]string, len(targets))
	for i := range outputs {
		result[i] = outputs[i].String()
	}
	return result, nil
}
