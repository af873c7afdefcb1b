package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var transformsJSON bool

var transformsCmd = &cobra.Command{
	Use:   "transforms",
	Short: "Inspect registered transformations",
}

var transformsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List builtin and loaded transformations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Shutdown(context.Background())

		if err := e.Start(cmd.Context()); err != nil {
			return err
		}

		defs := e.ListTransformations()

		if transformsJSON || debugDump {
			return printResult(cmd.OutOrStdout(), defs)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSOURCE\tTARGET\tORIGIN\tDESCRIPTION")

		for _, d := range defs {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.SourceType, d.TargetType, d.Origin, d.Description)
		}

		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(transformsCmd)
	transformsCmd.AddCommand(transformsListCmd)
	transformsListCmd.Flags().BoolVar(&transformsJSON, "json", false, "Output as JSON")
}
