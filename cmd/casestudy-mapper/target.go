package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"casestudy-mapper/internal/schema"
)

var targetJSON bool

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Print the case-study target schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		groups := schema.CaseStudyTarget()

		if targetJSON || debugDump {
			return printResult(cmd.OutOrStdout(), groups)
		}

		w := cmd.OutOrStdout()

		for _, g := range groups {
			fmt.Fprintf(w, "%s\n", g.Name)

			for _, f := range g.Fields {
				req := ""
				if f.Required {
					req = " (required)"
				}

				fmt.Fprintf(w, "  %-24s %s%s\n", f.ID, f.Type, req)
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(targetCmd)
	targetCmd.Flags().BoolVar(&targetJSON, "json", false, "Output as JSON")
}
