package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"craftwell-hq/vega/pkg/catalog"
	"craftwell-hq/vega/pkg/cli"
	"craftwell-hq/vega/pkg/dsl"
	"craftwell-hq/vega/pkg/dsl/eval"
	"craftwell-hq/vega/pkg/dsl/jsonlogic"
)

var evalFlags struct {
	catalogPath string
	payloadPath string
	logicPath   string
	format      string
}

var evalCmd = &cobra.Command{
	Use:   "eval [expression]",
	Short: "Evaluate a condition against a payload",
	Long: `Evaluate a condition against a JSON payload.

The condition is given either as expression text (validated against the
catalog and compiled to JSON-Logic) or as a raw JSON-Logic file. The
result reports the boolean outcome and every variable the walk resolved.

Examples:
  # Evaluate expression text
  vega eval --catalog catalog.yaml --payload payload.json 'facets.score > 0.5'

  # Evaluate a stored JSON-Logic condition
  vega eval --payload payload.json --json-logic condition.json

  # JSON output
  vega eval --catalog catalog.yaml --payload payload.json --format json 'facets.score > 0.5'`,
	RunE: evalCondition,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVar(&evalFlags.catalogPath, "catalog", "", "catalog YAML file (required for expression text)")
	evalCmd.Flags().StringVarP(&evalFlags.payloadPath, "payload", "p", "", "payload JSON file (required)")
	evalCmd.Flags().StringVar(&evalFlags.logicPath, "json-logic", "", "JSON-Logic condition file")
	evalCmd.Flags().StringVar(&evalFlags.format, "format", "text", "output format: text, json")
}

func evalCondition(cmd *cobra.Command, args []string) error {
	if evalFlags.payloadPath == "" {
		return fmt.Errorf("--payload must be specified")
	}

	expr, err := loadCondition(args)
	if err != nil {
		return err
	}

	payloadData, err := os.ReadFile(evalFlags.payloadPath)
	if err != nil {
		return fmt.Errorf("failed to read payload file: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(payloadData, &payload); err != nil {
		return fmt.Errorf("payload must be a JSON object: %w", err)
	}

	result := dsl.Evaluate(expr, payload)

	if evalFlags.format == "json" {
		return cli.NewFormatter(cli.FormatJSON).FormatTo(os.Stdout, result)
	}
	return evalOutputText(result)
}

// loadCondition resolves the condition from either expression text or a
// JSON-Logic file. Expression text requires a catalog to validate against.
func loadCondition(args []string) (jsonlogic.Expression, error) {
	switch {
	case evalFlags.logicPath != "":
		data, err := os.ReadFile(evalFlags.logicPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read JSON-Logic file: %w", err)
		}
		expr, err := jsonlogic.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("invalid JSON-Logic: %w", err)
		}
		return expr, nil

	case len(args) == 1:
		if evalFlags.catalogPath == "" {
			return nil, fmt.Errorf("--catalog must be specified for expression text")
		}
		cat, err := catalog.LoadFile(evalFlags.catalogPath)
		if err != nil {
			return nil, cli.NewConfigError("catalog", err.Error())
		}
		parsed := dsl.Parse(args[0], cat)
		if !parsed.OK {
			for _, d := range parsed.Errors {
				fmt.Fprintf(os.Stderr, "✗ Error: %s [%s]\n", d.Message, d.Code)
			}
			return nil, cli.NewCommandError("eval", fmt.Errorf("invalid expression"))
		}
		return parsed.JSONLogic, nil

	default:
		return nil, fmt.Errorf("either an expression argument or --json-logic must be specified")
	}
}

func evalOutputText(result eval.Result) error {
	if !result.OK {
		fmt.Printf("✗ Evaluation failed: %s\n", result.Error)
		return cli.NewCommandError("eval", fmt.Errorf("evaluation failed"))
	}

	if result.Result {
		fmt.Println("✓ Condition matched")
	} else {
		fmt.Println("✗ Condition did not match")
	}

	if len(result.ResolvedVariables) > 0 {
		fmt.Println("\nResolved variables:")
		for path, value := range result.ResolvedVariables {
			fmt.Printf("  %s = %v\n", path, value)
		}
	}
	return nil
}
