package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"craftwell-hq/vega/pkg/catalog"
	"craftwell-hq/vega/pkg/cli"
	"craftwell-hq/vega/pkg/dsl"
	"craftwell-hq/vega/pkg/dsl/jsonlogic"
)

var renderFlags struct {
	catalogPath string
	file        string
}

var renderCmd = &cobra.Command{
	Use:   "render [json-logic]",
	Short: "Render JSON-Logic as canonical expression text",
	Long: `Render a JSON-Logic condition back to canonical expression text.

The JSON-Logic is validated against the catalog before rendering, so a
condition that references unknown variables or applies disallowed
operators is rejected with diagnostics.

Examples:
  # Render from an argument
  vega render --catalog catalog.yaml '{">": [{"var": "facets.score"}, 0.5]}'

  # Render from a file
  vega render --catalog catalog.yaml --file condition.json`,
	RunE: renderJSONLogic,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderFlags.catalogPath, "catalog", "", "catalog YAML file (required)")
	renderCmd.Flags().StringVarP(&renderFlags.file, "file", "f", "", "JSON-Logic file")
}

func renderJSONLogic(cmd *cobra.Command, args []string) error {
	if renderFlags.catalogPath == "" {
		return fmt.Errorf("--catalog must be specified")
	}

	var raw []byte
	switch {
	case renderFlags.file != "":
		data, err := os.ReadFile(renderFlags.file)
		if err != nil {
			return fmt.Errorf("failed to read JSON-Logic file: %w", err)
		}
		raw = data
	case len(args) == 1:
		raw = []byte(args[0])
	default:
		return fmt.Errorf("either a JSON-Logic argument or --file must be specified")
	}

	cat, err := catalog.LoadFile(renderFlags.catalogPath)
	if err != nil {
		return cli.NewConfigError("catalog", err.Error())
	}

	expr, err := jsonlogic.Decode(raw)
	if err != nil {
		return fmt.Errorf("invalid JSON-Logic: %w", err)
	}

	rendered, diags := dsl.ToDSL(expr, cat)
	if len(diags) > 0 {
		for _, d := range diags {
			fmt.Fprintf(os.Stderr, "✗ Error: %s [%s]\n", d.Message, d.Code)
		}
		return cli.NewCommandError("render", fmt.Errorf("rendering failed"))
	}

	fmt.Println(rendered)
	return nil
}
