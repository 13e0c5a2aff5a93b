// Package main provides the notionsql command line interface.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/notionsql/notionsql/pkg/config"
	"github.com/notionsql/notionsql/pkg/engine"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "notionsql",
		Short:         "Run SQL statements against Notion databases",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(execCmd(), tablesCmd())
	return root
}

func execCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <statement>",
		Short: "Execute one SQL statement and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}

			result, err := eng.Execute(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
}

func tablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables visible to the configured token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			eng, err := newEngine()
			if err != nil {
				return err
			}

			tables, err := eng.Tables(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, tables)
		},
	}
}

func newEngine() (*engine.Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return engine.NewFromConfig(cfg), nil
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
