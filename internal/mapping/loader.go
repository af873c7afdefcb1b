package mapping

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"casestudy-mapper/internal/common"
	"casestudy-mapper/internal/schema"
)

// File is the YAML mapping configuration for one source database.
type File struct {
	Version string `yaml:"version"`
	Name    string `yaml:"name,omitempty"`
	// Source optionally embeds the source schema the mappings were made for.
	Source []schema.FieldDescriptor `yaml:"source,omitempty"`
	// OneToOne is the "121" shorthand: source field id -> target field id.
	OneToOne map[string]string `yaml:"121,omitempty"`
	Mappings []FieldMapping    `yaml:"mappings"`
}

// LoadFile loads and parses a YAML mapping file from the given path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File, expanding the 121 shorthand and
// assigning ids to mappings without one.
func Parse(data []byte) (*File, error) {
	var mf File

	err := yaml.Unmarshal(data, &mf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}

	applyDefaults(&mf)

	return &mf, nil
}

func applyDefaults(mf *File) {
	if mf.Version == "" {
		mf.Version = "1"
	}

	// Shorthand entries go first, in source id order, so ids are stable
	// across loads of the same file.
	if len(mf.OneToOne) > 0 {
		expanded := make([]FieldMapping, 0, len(mf.OneToOne))
		for _, src := range common.SortedKeys(mf.OneToOne) {
			expanded = append(expanded, FieldMapping{SourceFieldID: src, TargetFieldID: mf.OneToOne[src]})
		}

		mf.Mappings = append(expanded, mf.Mappings...)
		mf.OneToOne = nil
	}

	for i := range mf.Mappings {
		if mf.Mappings[i].ID == "" {
			mf.Mappings[i].ID = uuid.NewString()
		}
	}

	for i := range mf.Source {
		f := &mf.Source[i]
		if f.ID == "" {
			f.ID = f.Name
		}

		if f.Name == "" {
			f.Name = f.ID
		}
	}
}

// Marshal serializes a File to YAML.
func Marshal(mf *File) ([]byte, error) {
	return yaml.Marshal(mf)
}

// WriteFile writes a File to the given path.
func WriteFile(mf *File, path string) error {
	data, err := Marshal(mf)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write mapping file %s: %w", path, err)
	}

	return nil
}
