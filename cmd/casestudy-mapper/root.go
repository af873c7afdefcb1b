package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"casestudy-mapper/internal/config"
	"casestudy-mapper/internal/engine"
)

var (
	configPath string
	verbose    bool
	debugDump  bool
)

var rootCmd = &cobra.Command{
	Use:   "casestudy-mapper",
	Short: "Map content database properties onto the case-study schema",
	Long: `casestudy-mapper classifies type compatibility between content database
properties and case-study fields, validates mapping files and runs the
transformations that convert values between them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		level, err := cfg.Level()
		if err != nil {
			return err
		}

		if verbose {
			level = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&debugDump, "debug", false, "Dump results with their Go structure")
}

var loadedConfig *config.Config

// loadConfig reads --config once per process.
func loadConfig() (config.Config, error) {
	if loadedConfig != nil {
		return *loadedConfig, nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}

	loadedConfig = &cfg

	return cfg, nil
}

func newEngine(opts ...engine.Option) (*engine.Engine, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	opts = append([]engine.Option{engine.WithLogger(slog.Default())}, opts...)

	e, err := engine.New(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("create engine: %w", err)
	}

	return e, nil
}

// printResult writes v as indented JSON, or as a spew dump with --debug.
func printResult(w io.Writer, v any) error {
	if debugDump {
		spew.Fdump(w, v)
		return nil
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
