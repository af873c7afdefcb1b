package schema

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNoFields is returned when a schema document declares no fields.
var ErrNoFields = errors.New("schema declares no fields")

// SourceLoader fetches the source schema from the content system.
// Failures are returned to the caller as-is; nothing is retried.
type SourceLoader interface {
	FetchSourceFields(ctx context.Context) ([]FieldDescriptor, error)
}

// Document is the on-disk form of a source schema export.
// JSON exports parse as well since YAML is a superset.
type Document struct {
	Database string            `yaml:"database,omitempty"`
	Fields   []FieldDescriptor `yaml:"fields"`
}

// FileLoader reads source fields from a YAML or JSON export.
type FileLoader struct {
	Path string
}

// FetchSourceFields implements SourceLoader.
func (l FileLoader) FetchSourceFields(ctx context.Context) ([]FieldDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return LoadFields(l.Path)
}

// StaticLoader serves a fixed field list.
type StaticLoader []FieldDescriptor

// FetchSourceFields implements SourceLoader.
func (s StaticLoader) FetchSourceFields(ctx context.Context) ([]FieldDescriptor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]FieldDescriptor, len(s))
	copy(out, s)

	return out, nil
}

// LoadFields reads and parses a schema document from path.
func LoadFields(path string) ([]FieldDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}

	return ParseFields(data)
}

// ParseFields parses a schema document. Fields without an id take their name as id.
func ParseFields(data []byte) ([]FieldDescriptor, error) {
	var doc Document

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema: %w", err)
	}

	if len(doc.Fields) == 0 {
		return nil, ErrNoFields
	}

	for i := range doc.Fields {
		f := &doc.Fields[i]
		if f.ID == "" {
			f.ID = f.Name
		}

		if f.Name == "" {
			f.Name = f.ID
		}
	}

	return doc.Fields, nil
}
