package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"craftwell-hq/vega/pkg/catalog"
	"craftwell-hq/vega/pkg/cli"
	"craftwell-hq/vega/pkg/dsl"
	"craftwell-hq/vega/pkg/dsl/diag"
)

var checkFlags struct {
	catalogPath string
	file        string
	strict      bool
	format      string
}

var checkCmd = &cobra.Command{
	Use:   "check [expression...]",
	Short: "Validate condition expressions",
	Long: `Validate condition expressions against a variable catalog.

Each expression is parsed and semantically validated:
  - Syntax validation with source ranges in diagnostics
  - Variable references checked against the catalog
  - Operator and operand types checked per variable definition

Examples:
  # Check a single expression
  vega check --catalog catalog.yaml 'facets.score > 0.5'

  # Check expressions from a file, one per line
  vega check --catalog catalog.yaml --file conditions.txt

  # Strict mode (warnings as errors)
  vega check --catalog catalog.yaml --strict 'true || facets.score > 1'

  # JSON output for CI/CD
  vega check --catalog catalog.yaml --format json 'facets.score > 0.5'`,
	RunE: checkExpressions,
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVar(&checkFlags.catalogPath, "catalog", "", "catalog YAML file (required)")
	checkCmd.Flags().StringVarP(&checkFlags.file, "file", "f", "", "file of expressions, one per line")
	checkCmd.Flags().BoolVar(&checkFlags.strict, "strict", false, "treat warnings as errors")
	checkCmd.Flags().StringVar(&checkFlags.format, "format", "text", "output format: text, json")
}

// CheckResult represents the validation result for a single expression.
type CheckResult struct {
	Expression string            `json:"expression"`
	Valid      bool              `json:"valid"`
	Canonical  string            `json:"canonical,omitempty"`
	Errors     []diag.Diagnostic `json:"errors,omitempty"`
	Warnings   []diag.Diagnostic `json:"warnings,omitempty"`
}

func checkExpressions(cmd *cobra.Command, args []string) error {
	if checkFlags.catalogPath == "" {
		return fmt.Errorf("--catalog must be specified")
	}
	if len(args) == 0 && checkFlags.file == "" {
		return fmt.Errorf("either expressions or --file must be specified")
	}

	cat, err := catalog.LoadFile(checkFlags.catalogPath)
	if err != nil {
		return cli.NewConfigError("catalog", err.Error())
	}

	expressions := append([]string{}, args...)
	if checkFlags.file != "" {
		fromFile, err := readExpressionLines(checkFlags.file)
		if err != nil {
			return fmt.Errorf("failed to read expression file: %w", err)
		}
		expressions = append(expressions, fromFile...)
	}

	if len(expressions) == 0 {
		return fmt.Errorf("no expressions found")
	}

	results := make([]CheckResult, 0, len(expressions))
	for _, expression := range expressions {
		results = append(results, checkExpression(expression, cat))
	}

	if checkFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, results)
	}
	return checkOutputText(results, checkFlags.strict)
}

func checkExpression(expression string, cat *catalog.Catalog) CheckResult {
	result := dsl.Parse(expression, cat)
	return CheckResult{
		Expression: expression,
		Valid:      result.OK,
		Canonical:  result.Canonical,
		Errors:     result.Errors,
		Warnings:   result.Warnings,
	}
}

// readExpressionLines reads expressions from a file, one per line. Blank
// lines and lines starting with # are skipped.
func readExpressionLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var expressions []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		expressions = append(expressions, line)
	}
	return expressions, nil
}

func checkOutputText(results []CheckResult, strict bool) error {
	totalErrors := 0
	totalWarnings := 0

	for _, result := range results {
		fmt.Printf("Checking %q...\n", result.Expression)

		if result.Valid {
			fmt.Printf("✓ Valid: %s\n", result.Canonical)
		}

		for _, e := range result.Errors {
			fmt.Printf("✗ Error: %s", e.Message)
			if e.Range != nil {
				fmt.Printf(" (offset %d-%d)", e.Range.Start, e.Range.End)
			}
			fmt.Printf(" [%s]\n", e.Code)
			totalErrors++
		}

		for _, w := range result.Warnings {
			fmt.Printf("⚠  Warning: %s [%s]\n", w.Message, w.Code)
			totalWarnings++
		}

		fmt.Println()
	}

	fmt.Println("Summary:")
	fmt.Printf("  %d error(s), %d warning(s)\n", totalErrors, totalWarnings)

	if strict && totalWarnings > 0 {
		fmt.Println("  Strict mode enabled: treating warnings as errors")
		return cli.NewCommandError("check", fmt.Errorf("validation failed"))
	}

	if totalErrors > 0 {
		return cli.NewCommandError("check", fmt.Errorf("validation failed"))
	}

	return nil
}
