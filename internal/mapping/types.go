package mapping

import (
	"github.com/google/uuid"

	"casestudy-mapper/internal/schema"
	"casestudy-mapper/internal/transform"
	"casestudy-mapper/internal/value"
)

// FieldMapping links one source field to one target field, optionally
// through a registered transformation or an inline pipeline.
type FieldMapping struct {
	ID               string            `json:"id" yaml:"id,omitempty"`
	SourceFieldID    string            `json:"sourceFieldId" yaml:"source"`
	TargetFieldID    string            `json:"targetFieldId" yaml:"target"`
	TransformationID string            `json:"transformationId,omitempty" yaml:"transformation,omitempty"`
	Options          transform.Options `json:"transformationOptions,omitempty" yaml:"options,omitempty"`
	// Pipeline is an inline custom transformation, e.g. `extract_text | upper`.
	Pipeline string `json:"pipeline,omitempty" yaml:"pipeline,omitempty"`
	// Fallback is returned when the transformation fails or none applies.
	Fallback *value.Value `json:"fallback,omitempty" yaml:"fallback,omitempty"`
	// AllowFallback makes the fallback strategy a successful outcome.
	AllowFallback bool `json:"allowFallback,omitempty" yaml:"allow_fallback,omitempty"`
}

// NewFieldMapping creates a mapping with a fresh id.
func NewFieldMapping(sourceFieldID, targetFieldID string) FieldMapping {
	return FieldMapping{
		ID:            uuid.NewString(),
		SourceFieldID: sourceFieldID,
		TargetFieldID: targetFieldID,
	}
}

// HasTransformation reports whether a transformation or pipeline is attached.
func (m FieldMapping) HasTransformation() bool {
	return m.TransformationID != "" || m.Pipeline != ""
}

// FallbackValue returns the declared fallback, or null.
func (m FieldMapping) FallbackValue() value.Value {
	if m.Fallback == nil {
		return value.Null()
	}

	return *m.Fallback
}

// Label identifies the mapping in messages: its id, or "source->target".
func (m FieldMapping) Label() string {
	if m.ID != "" {
		return m.ID
	}

	return m.SourceFieldID + "->" + m.TargetFieldID
}

// Resolve looks up the mapping's source and target descriptors.
func (m FieldMapping) Resolve(sources, targets schema.Index) (src, dst schema.FieldDescriptor, ok bool) {
	src, okSrc := sources.Lookup(m.SourceFieldID)
	dst, okDst := targets.Lookup(m.TargetFieldID)

	return src, dst, okSrc && okDst
}
