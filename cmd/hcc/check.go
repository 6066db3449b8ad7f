package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iley/hcc/internal/codegen"
)

// TestCase is one script paired with the expected output for one target.
type TestCase struct {
	Name         string
	ScriptFile   string
	Target       codegen.Target
	ExpectedFile string
}

var checkCmd = &cobra.Command{
	Use:   "check <directory>",
	Short: "Compare generated assembly against expected .s files",
	Long: "For every <name>.ops script in the directory and every target with a <name>.<target>.s " +
		"file next to it, generate the script and compare the output with the file.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tests, err := discoverTests(args[0])
		if err != nil {
			return fmt.Errorf("error discovering tests: %w", err)
		}
		if len(tests) == 0 {
			return fmt.Errorf("no tests found in %s", args[0])
		}
		cmd.SilenceUsage = true
		return runTests(cmd.OutOrStdout(), tests)
	},
}

// discoverTests finds all test cases in the tests directory
func discoverTests(testsDir string) ([]TestCase, error) {
	var tests []TestCase

	err := filepath.WalkDir(testsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".ops") {
			return nil
		}

		name := strings.TrimSuffix(filepath.Base(path), ".ops")
		for _, targetName := range codegen.TargetNames() {
			expectedFile := filepath.Join(filepath.Dir(path), name+"."+targetName+".s")
			if _, err := os.Stat(expectedFile); err != nil {
				continue
			}
			target, _ := codegen.TargetFromName(targetName)
			tests = append(tests, TestCase{
				Name:         name,
				ScriptFile:   path,
				Target:       target,
				ExpectedFile: expectedFile,
			})
		}
		return nil
	})

	sort.Slice(tests, func(i, j int) bool {
		if tests[i].Name != tests[j].Name {
			return tests[i].Name < tests[j].Name
		}
		return tests[i].Target < tests[j].Target
	})
	return tests, err
}

// runSingleTest generates one test case and returns pass/fail status
func runSingleTest(testCase TestCase) (bool, string) {
	program, err := readProgram(testCase.ScriptFile)
	if err != nil {
		return false, err.Error()
	}

	var actual strings.Builder
	if err := codegen.Generate(&actual, testCase.Target, program, codegen.Options{}); err != nil {
		return false, fmt.Sprintf("generation error: %v", err)
	}

	expected, err := os.ReadFile(testCase.ExpectedFile)
	if err != nil {
		return false, fmt.Sprintf("error reading expected output: %v", err)
	}

	if actual.String() == string(expected) {
		return true, ""
	}
	return false, fmt.Sprintf("output mismatch:\nExpected: %q\nActual:   %q", string(expected), actual.String())
}

func runTests(out io.Writer, tests []TestCase) error {
	failed := 0
	for _, testCase := range tests {
		fmt.Fprintf(out, "Running test %s [%s]... ", testCase.Name, testCase.Target)
		ok, message := runSingleTest(testCase)
		if ok {
			fmt.Fprintln(out, "PASS")
			continue
		}
		failed++
		fmt.Fprintf(out, "FAIL\n  %s\n", message)
	}

	fmt.Fprintf(out, "\n%d passed, %d failed\n", len(tests)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d tests failed", failed, len(tests))
	}
	return nil
}
