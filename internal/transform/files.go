package transform

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// DefinitionFile is the YAML layout of a transformation definition file:
//
//	version: "1"
//	transformations:
//	  - id: tags_semicolon
//	    source_type: multi_select
//	    target_type: text
//	    tier: lossy
//	    pipeline: pluck("name") | join("; ")
type DefinitionFile struct {
	Version         string       `yaml:"version,omitempty"`
	Transformations []Definition `yaml:"transformations"`
}

// ParseDefinitions parses and compiles the definitions in a YAML document.
// origin is recorded on every definition.
func ParseDefinitions(data []byte, origin string) ([]Definition, error) {
	var df DefinitionFile

	err := yaml.Unmarshal(data, &df)
	if err != nil {
		return nil, fmt.Errorf("failed to parse definitions YAML: %w", err)
	}

	seen := make(map[string]bool, len(df.Transformations))
	out := make([]Definition, 0, len(df.Transformations))

	for i, def := range df.Transformations {
		if def.ID == "" {
			return nil, fmt.Errorf("%w: transformation #%d has no id", ErrInvalidDefinition, i+1)
		}

		if seen[def.ID] {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidDefinition, def.ID)
		}

		seen[def.ID] = true

		if def.SourceType == "" || def.TargetType == "" {
			return nil, fmt.Errorf("%w: %s: source_type and target_type are required", ErrInvalidDefinition, def.ID)
		}

		compiled, err := Compile(def)
		if err != nil {
			return nil, err
		}

		compiled.Origin = origin
		out = append(out, compiled)
	}

	return out, nil
}

// LoadDefinitionFile reads and compiles a definition file.
func LoadDefinitionFile(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file %s: %w", path, err)
	}

	defs, err := ParseDefinitions(data, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return defs, nil
}

// ExpandGlobs resolves doublestar patterns ("transforms/**/*.yaml") to a
// sorted, de-duplicated list of files.
func ExpandGlobs(patterns []string) ([]string, error) {
	var files []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad definition pattern %q: %w", pattern, err)
		}

		for _, m := range matches {
			files = append(files, filepath.Clean(m))
		}
	}

	slices.Sort(files)

	return slices.Compact(files), nil
}

// MatchesAny reports whether path matches one of the patterns.
func MatchesAny(patterns []string, path string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.PathMatch(filepath.Clean(pattern), filepath.Clean(path)); ok {
			return true
		}
	}

	return false
}
