package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xyproto/env/v2"

	"github.com/iley/hcc/internal/codegen"
	"github.com/iley/hcc/internal/ir"
)

var (
	targetNames []string
	outputPath  string
	comments    bool
	verbose     bool
	printOps    bool
)

var rootCmd = &cobra.Command{
	Use:   "hcc",
	Short: "hcc code generation backends",
	Long:  "Lowers operation scripts to HyperCPU or QProc assembly.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

var genCmd = &cobra.Command{
	Use:   "gen <script.ops | ->",
	Short: "Generate assembly from an operation script",
	Long: "Generate assembly for one or more targets. With a single target the output goes to -o " +
		"(stdout when -o is - or the input is stdin). With several targets -o names a directory " +
		"and one <name>.<target>.s file is written per target.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFileName := args[0]
		program, err := readProgram(inputFileName)
		if err != nil {
			return err
		}

		if printOps {
			program.Print(cmd.OutOrStdout())
			return nil
		}

		targets, err := parseTargets(targetNames)
		if err != nil {
			return err
		}

		cmd.SilenceUsage = true
		options := codegen.Options{Comments: comments, Logger: slog.Default()}
		outputs, err := codegen.GenerateAll(targets, program, options)
		if err != nil {
			return err
		}

		if len(targets) == 1 {
			return writeSingle(cmd.OutOrStdout(), inputFileName, outputs[0])
		}
		return writeMany(inputFileName, targets, outputs)
	},
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Print the builtin types of each target",
	RunE: func(cmd *cobra.Command, args []string) error {
		return describeTargets(cmd.OutOrStdout(), func(out io.Writer, backend codegen.Backend) {
			for _, t := range backend.Types().All() {
				fmt.Fprintf(out, "  %-6s %d\n", t.Name, t.Size)
			}
		})
	},
}

var abiCmd = &cobra.Command{
	Use:   "abi",
	Short: "Print the register convention of each target",
	RunE: func(cmd *cobra.Command, args []string) error {
		return describeTargets(cmd.OutOrStdout(), func(out io.Writer, backend codegen.Backend) {
			fmt.Fprintf(out, "  return: %s\n", backend.ABI().ReturnRegister())
			fmt.Fprintf(out, "  args:   %s\n", strings.Join(backend.ABI().ArgsRegisters(), " "))
		})
	},
}

func init() {
	defaultTarget := env.Str("HCC_TARGET", codegen.TargetHyperCPU.String())

	rootCmd.PersistentFlags().StringSliceVarP(&targetNames, "target", "t", []string{defaultTarget},
		fmt.Sprintf("target architecture, one of %s (repeatable)", strings.Join(codegen.TargetNames(), ", ")))
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log every emitted operation")

	genCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file name, or directory for several targets")
	genCmd.Flags().BoolVarP(&comments, "comments", "c", env.Bool("HCC_CODEGEN_COMMENTS"), "emit a comment line before every operation")
	genCmd.Flags().BoolVar(&printOps, "print", false, "print the parsed script instead of generating code")

	rootCmd.AddCommand(genCmd, typesCmd, abiCmd, checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func readProgram(inputFileName string) (ir.Program, error) {
	if inputFileName == "-" {
		return ir.Parse(os.Stdin)
	}
	inputFile, err := os.Open(inputFileName)
	if err != nil {
		return ir.Program{}, fmt.Errorf("error opening input file: %w", err)
	}
	defer inputFile.Close()

	program, err := ir.Parse(inputFile)
	if err != nil {
		return ir.Program{}, fmt.Errorf("%s: %w", inputFileName, err)
	}
	return program, nil
}

func parseTargets(names []string) ([]codegen.Target, error) {
	var targets []codegen.Target
	for _, name := range names {
		target, err := codegen.TargetFromName(name)
		if err != nil {
			return nil, err
		}
		targets = append(targets, target)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no target given")
	}
	return targets, nil
}

func baseName(inputFileName string) string {
	if inputFileName == "-" {
		return "out"
	}
	return strings.TrimSuffix(filepath.Base(inputFileName), filepath.Ext(inputFileName))
}

func writeSingle(stdout io.Writer, inputFileName, text string) error {
	if outputPath == "-" || (outputPath == "" && inputFileName == "-") {
		_, err := io.WriteString(stdout, text)
		return err
	}
	name := outputPath
	if name == "" {
		name = strings.TrimSuffix(inputFileName, filepath.Ext(inputFileName)) + ".s"
	}
	if err := os.WriteFile(name, []byte(text), 0o644); err != nil {
		return fmt.Errorf("error writing output file: %w", err)
	}
	slog.Debug("wrote output", "file", name)
	return nil
}

func writeMany(inputFileName string, targets []codegen.Target, outputs []string) error {
	dir := outputPath
	if dir == "" {
		dir = filepath.Dir(inputFileName)
		if inputFileName == "-" {
			dir = "."
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	for i, target := range targets {
		name := filepath.Join(dir, fmt.Sprintf("%s.%s.s", baseName(inputFileName), target))
		if err := os.WriteFile(name, []byte(outputs[i]), 0o644); err != nil {
			return fmt.Errorf("error writing output file: %w", err)
		}
		slog.Debug("wrote output", "file", name, "target", target)
	}
	return nil
}

func describeTargets(out io.Writer, describe func(io.Writer, codegen.Backend)) error {
	targets, err := parseTargets(targetNames)
	if err != nil {
		return err
	}
	for _, target := range targets {
		backend, err := codegen.New(target, codegen.Options{})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s:\n", target)
		describe(out, backend)
	}
	return nil
}
