package main

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"casestudy-mapper/internal/engine"
	"casestudy-mapper/internal/mapping"
	"casestudy-mapper/internal/match"
	"casestudy-mapper/internal/schema"
)

var (
	suggestSource    string
	suggestMinScore  float64
	suggestAmbiguity float64
	suggestWrite     string
	suggestJSON      bool
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest mappings from a source schema onto the target schema",
	Example: `  casestudy-mapper suggest --source portfolio.yaml
  casestudy-mapper suggest --source portfolio.yaml --write mappings.yaml`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine(engine.WithSourceLoader(schema.FileLoader{Path: suggestSource}))
		if err != nil {
			return err
		}
		defer e.Shutdown(context.Background())

		if err := e.Start(cmd.Context()); err != nil {
			return err
		}

		sources, err := e.FetchSourceFields(cmd.Context())
		if err != nil {
			return err
		}

		suggestions := e.SuggestMappings(sources, nil, match.SuggestOptions{
			MinScore:           suggestMinScore,
			AmbiguityThreshold: suggestAmbiguity,
		})

		if suggestWrite != "" {
			mf := &mapping.File{Source: sources}
			for _, s := range suggestions {
				mf.Mappings = append(mf.Mappings, mapping.NewFieldMapping(s.SourceFieldID, s.TargetFieldID))
			}

			if err := mapping.WriteFile(mf, suggestWrite); err != nil {
				return err
			}

			slog.Info("wrote mapping file", "path", suggestWrite, "mappings", len(mf.Mappings))
		}

		if suggestJSON || debugDump {
			return printResult(cmd.OutOrStdout(), suggestions)
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TARGET\tSOURCE\tSCORE\tLEVEL\tNOTE")

		for _, s := range suggestions {
			note := s.Message
			if s.Ambiguous {
				note = fmt.Sprintf("ambiguous, also %v", s.Alternatives)
			}

			fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%s\n", s.TargetFieldID, s.SourceFieldID, s.Score, s.Level, note)
		}

		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	f := suggestCmd.Flags()
	f.StringVarP(&suggestSource, "source", "s", "", "Source schema file (YAML or JSON)")
	f.Float64Var(&suggestMinScore, "min-score", 0, "Drop suggestions scoring below this (0 uses the default)")
	f.Float64Var(&suggestAmbiguity, "ambiguity", 0, "Score gap under which a suggestion is flagged ambiguous")
	f.StringVarP(&suggestWrite, "write", "w", "", "Write the suggestions as a mapping file")
	f.BoolVar(&suggestJSON, "json", false, "Output as JSON")

	_ = suggestCmd.MarkFlagRequired("source")
}
