package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"casestudy-mapper/internal/engine"
)

var (
	stateDiagram bool
	stateStart   bool
)

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the engine state, or its component tree as a Mermaid diagram",
	Example: `  casestudy-mapper state
  casestudy-mapper state --start --diagram > engine.mmd`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Shutdown(context.Background())

		if stateStart {
			if err := e.Start(cmd.Context()); err != nil {
				return err
			}
		}

		return writeState(cmd.OutOrStdout(), e, stateDiagram)
	},
}

func writeState(w io.Writer, e *engine.Engine, diagram bool) error {
	if diagram {
		_, err := io.WriteString(w, e.Diagram())
		return err
	}

	return printResult(w, e.State())
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.Flags().BoolVar(&stateDiagram, "diagram", false, "Render the component tree as a Mermaid flowchart")
	stateCmd.Flags().BoolVar(&stateStart, "start", false, "Load definition files before reporting")
}
