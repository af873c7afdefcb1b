package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"casestudy-mapper/internal/engine"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the compatibility and transform caches",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print cache statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Shutdown(context.Background())

		return printResult(cmd.OutOrStdout(), e.CacheStats())
	},
}

var cacheClearCmd = &cobra.Command{
	Use:       "clear [all|compatibility|transform]",
	Short:     "Clear one or both caches, including persisted entries",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{engine.CacheAll, engine.CacheCompatibility, engine.CacheTransform},
	RunE: func(cmd *cobra.Command, args []string) error {
		name := engine.CacheAll
		if len(args) == 1 {
			name = args[0]
		}

		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Shutdown(context.Background())

		if err := e.ClearCache(name); err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "cleared %s\n", name)

		return err
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
}
