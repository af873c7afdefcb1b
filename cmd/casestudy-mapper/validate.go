package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"casestudy-mapper/internal/mapping"
	"casestudy-mapper/internal/schema"
)

var errInvalidMappings = errors.New("mappings are invalid")

var (
	validateSource string
	validateJSON   bool
)

var validateCmd = &cobra.Command{
	Use:   "validate MAPPING_FILE",
	Short: "Validate a mapping file against the source and target schemas",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mf, err := mapping.LoadFile(args[0])
		if err != nil {
			return err
		}

		sources, err := sourceFields(cmd.Context(), mf)
		if err != nil {
			return err
		}

		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Shutdown(context.Background())

		if err := e.Start(cmd.Context()); err != nil {
			return err
		}

		report := e.ValidateMappings(mf.Mappings, sources, nil)

		if validateJSON || debugDump {
			if err := printResult(cmd.OutOrStdout(), report); err != nil {
				return err
			}
		} else {
			for _, d := range report.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "%-7s %s\n", d.Severity, d)
			}

			d := report.Diagnostics()
			fmt.Fprintf(cmd.OutOrStdout(), "%d mappings: %d errors, %d warnings, %d infos\n",
				len(mf.Mappings), len(d.Errors()), len(d.Warnings()), len(d.Infos()))
		}

		if err := report.Diagnostics().Err(); err != nil {
			return fmt.Errorf("%w: %w", errInvalidMappings, err)
		}

		return nil
	},
}

// sourceFields prefers --source over the schema embedded in the mapping file.
func sourceFields(ctx context.Context, mf *mapping.File) ([]schema.FieldDescriptor, error) {
	if validateSource != "" {
		return schema.FileLoader{Path: validateSource}.FetchSourceFields(ctx)
	}

	if len(mf.Source) == 0 {
		return nil, errors.New("mapping file has no source schema; pass --source")
	}

	return mf.Source, nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&validateSource, "source", "s", "", "Source schema file (YAML or JSON)")
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output the report as JSON")
}
