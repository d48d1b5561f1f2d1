// Package cli provides shared helpers for the vega command-line interface.
//
// # Core Types
//
//   - Formatter: renders command output as text or JSON
//   - CommandError: wraps a failed subcommand with its name
//   - ConfigError: reports an invalid configuration field
//
// # Usage
//
//	f := cli.NewFormatter(cli.FormatJSON)
//	if err := f.FormatTo(os.Stdout, report); err != nil {
//		return cli.NewCommandError("check", err)
//	}
package cli
