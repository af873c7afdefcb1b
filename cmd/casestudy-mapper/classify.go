package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var classifyCmd = &cobra.Command{
	Use:   "classify SOURCE_TYPE TARGET_TYPE",
	Short: "Classify how well a source type maps onto a target type",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Shutdown(context.Background())

		if err := e.Start(cmd.Context()); err != nil {
			return err
		}

		res := e.ClassifyCompatibility(args[0], args[1])

		if debugDump {
			return printResult(cmd.OutOrStdout(), res)
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s <- %s: %s (%s)\n", res.TargetType, res.SourceType, res.Level, res.Message)

		return err
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
