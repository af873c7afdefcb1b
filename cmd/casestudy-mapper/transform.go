package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"casestudy-mapper/internal/exec"
	"casestudy-mapper/internal/mapping"
	"casestudy-mapper/internal/transform"
	"casestudy-mapper/internal/value"
)

var (
	tfMappingFile    string
	tfRecordFile     string
	tfSourceType     string
	tfTargetType     string
	tfValue          string
	tfTransformation string
	tfPipeline       string
	tfOptions        []string
	tfNoCache        bool
)

var transformCmd = &cobra.Command{
	Use:   "transform",
	Short: "Transform a single value or a whole record",
	Long: `Transform runs in one of two modes.

With --mapping-file and --record every mapping in the file is applied to the
JSON record and the outputs are printed keyed by target field.

Otherwise a single --value (JSON) is converted from --source-type to
--target-type, optionally through --transformation or --pipeline.`,
	Example: `  casestudy-mapper transform --source-type multi_select --target-type text \
    --value '[{"name":"A"},{"name":"B"}]' --option separator=", "
  casestudy-mapper transform --mapping-file mappings.yaml --record page.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEngine()
		if err != nil {
			return err
		}
		defer e.Shutdown(context.Background())

		if err := e.Start(cmd.Context()); err != nil {
			return err
		}

		if tfMappingFile != "" {
			mf, err := mapping.LoadFile(tfMappingFile)
			if err != nil {
				return err
			}

			record, err := readRecord(tfRecordFile)
			if err != nil {
				return err
			}

			res := e.TransformRecord(cmd.Context(), record, mf.Mappings, mf.Source, nil)
			if err := printResult(cmd.OutOrStdout(), res); err != nil {
				return err
			}

			if res.Failed > 0 {
				return fmt.Errorf("%d of %d mappings failed", res.Failed, len(mf.Mappings))
			}

			return nil
		}

		if tfSourceType == "" || tfTargetType == "" {
			return errors.New("--source-type and --target-type are required without --mapping-file")
		}

		var v value.Value
		if err := json.Unmarshal([]byte(tfValue), &v); err != nil {
			return fmt.Errorf("parse --value: %w", err)
		}

		opts, err := parseOptions(tfOptions)
		if err != nil {
			return err
		}

		m := mapping.NewFieldMapping("cli_source", "cli_target")
		m.TransformationID = tfTransformation
		m.Pipeline = tfPipeline
		m.Options = opts

		res := e.Transform(cmd.Context(), v, m, exec.Context{
			SourceType:  tfSourceType,
			TargetType:  tfTargetType,
			BypassCache: tfNoCache,
		})
		if err := printResult(cmd.OutOrStdout(), res); err != nil {
			return err
		}

		if !res.Success {
			return errors.New(res.Error)
		}

		return nil
	},
}

// readRecord decodes a JSON object of source field id to value. "-" reads stdin.
func readRecord(path string) (map[string]value.Value, error) {
	if path == "" {
		return nil, errors.New("--record is required with --mapping-file")
	}

	var (
		data []byte
		err  error
	)

	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}

	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}

	var record map[string]value.Value
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("parse record: %w", err)
	}

	return record, nil
}

// parseOptions turns key=value pairs into options. Values that are valid
// JSON keep their type, anything else is a string.
func parseOptions(pairs []string) (transform.Options, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	opts := make(transform.Options, len(pairs))

	for _, p := range pairs {
		key, raw, ok := strings.Cut(p, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid option %q, expected key=value", p)
		}

		var v value.Value
		if json.Valid([]byte(raw)) {
			if err := json.Unmarshal([]byte(raw), &v); err != nil {
				return nil, fmt.Errorf("option %s: %w", key, err)
			}
		} else {
			v = value.String(raw)
		}

		opts[key] = v
	}

	return opts, nil
}

func init() {
	rootCmd.AddCommand(transformCmd)

	f := transformCmd.Flags()
	f.StringVarP(&tfMappingFile, "mapping-file", "m", "", "Mapping file to apply to --record")
	f.StringVarP(&tfRecordFile, "record", "r", "", "JSON record file keyed by source field id (- for stdin)")
	f.StringVar(&tfSourceType, "source-type", "", "Source property type")
	f.StringVar(&tfTargetType, "target-type", "", "Target field type")
	f.StringVar(&tfValue, "value", "null", "Source value as JSON")
	f.StringVarP(&tfTransformation, "transformation", "t", "", "Registered transformation id")
	f.StringVarP(&tfPipeline, "pipeline", "p", "", "Inline pipeline, e.g. 'extract_text | upper'")
	f.StringArrayVarP(&tfOptions, "option", "o", nil, "Transformation option as key=value (repeatable)")
	f.BoolVar(&tfNoCache, "no-cache", false, "Bypass the transform cache")
}
