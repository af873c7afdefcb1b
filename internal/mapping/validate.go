package mapping

import (
	"fmt"

	"casestudy-mapper/internal/common"
	"casestudy-mapper/internal/diagnostic"
	"casestudy-mapper/internal/match"
	"casestudy-mapper/internal/schema"
	"casestudy-mapper/internal/transform"
)

// Diagnostic codes emitted by the validator.
const (
	CodeRequiredTargetMissing     = "required_target_missing"
	CodeDuplicateTarget           = "duplicate_target"
	CodeInvalidMapping            = "invalid_mapping"
	CodeFieldNotFound             = "field_not_found"
	CodeEmptyType                 = "empty_type"
	CodeIncompatibleTypes         = "incompatible_types"
	CodeBridgedByTransformation   = "bridged_by_transformation"
	CodeTransformationRecommended = "transformation_recommended"
	CodeCompatibilityNote         = "compatibility_note"
	CodeUnknownTransformation     = "unknown_transformation"
	CodeTransformationMismatch    = "transformation_mismatch"
	CodeInvalidPipeline           = "invalid_pipeline"
)

// Classifier classifies type pairs.
type Classifier interface {
	Classify(sourceType, targetType string) match.Result
}

// Catalog is the registry view the validator needs.
type Catalog interface {
	Get(id string) (transform.Definition, bool)
	Find(sourceType, targetType string) (transform.Definition, bool)
}

// Report is the outcome of validating a set of mappings.
type Report struct {
	IsValid bool                    `json:"isValid"`
	Errors  []diagnostic.Diagnostic `json:"errors"`
}

// Diagnostics returns the report entries as a collector.
func (r Report) Diagnostics() *diagnostic.Diagnostics {
	return &diagnostic.Diagnostics{Items: r.Errors}
}

// Validator checks mappings against both schemas. It has no side effects
// beyond reading the (cached) compatibility classifier.
type Validator struct {
	classifier Classifier
	catalog    Catalog
}

// NewValidator creates a validator. catalog may be nil.
func NewValidator(classifier Classifier, catalog Catalog) *Validator {
	return &Validator{classifier: classifier, catalog: catalog}
}

// Validate runs, in order: required target checks, duplicate target checks
// and per-mapping checks. The report is valid iff it has no error entries.
func (v *Validator) Validate(mappings []FieldMapping, sourceFields, targetFields []schema.FieldDescriptor) Report {
	res := &diagnostic.Diagnostics{}

	counts, order := common.CountBy(mappings, func(m FieldMapping) string { return m.TargetFieldID })

	for _, f := range targetFields {
		if f.Required && counts[f.ID] == 0 {
			res.AddError(CodeRequiredTargetMissing,
				fmt.Sprintf("required target field %q (%s) is not mapped", f.ID, f.Name), "", f.ID).
				WithSuggestion(fmt.Sprintf("map a source field onto %q", f.ID))
		}
	}

	for _, id := range order {
		if n := counts[id]; n > 1 {
			res.AddWarning(CodeDuplicateTarget,
				fmt.Sprintf("target field %q is mapped %d times", id, n), "", id).
				WithSuggestion("keep one mapping per target field; the last one wins")
		}
	}

	sources := schema.NewIndex(sourceFields)
	targets := schema.NewIndex(targetFields)

	for i := range mappings {
		v.validateMapping(res, &mappings[i], sources, targets)
	}

	return Report{IsValid: res.IsValid(), Errors: res.Items}
}

func (v *Validator) validateMapping(res *diagnostic.Diagnostics, m *FieldMapping, sources, targets schema.Index) {
	label := m.Label()

	if m.SourceFieldID == "" || m.TargetFieldID == "" {
		res.AddError(CodeInvalidMapping, "mapping must reference one source and one target field", label, "")
		return
	}

	src, okSrc := sources.Lookup(m.SourceFieldID)
	if !okSrc {
		res.AddError(CodeFieldNotFound, fmt.Sprintf("source field %q not found", m.SourceFieldID), label, m.SourceFieldID)
	}

	dst, okDst := targets.Lookup(m.TargetFieldID)
	if !okDst {
		res.AddError(CodeFieldNotFound, fmt.Sprintf("target field %q not found", m.TargetFieldID), label, m.TargetFieldID)
	}

	if !okSrc || !okDst {
		return
	}

	if src.Type.IsEmpty() || dst.Type.IsEmpty() {
		res.AddError(CodeEmptyType,
			fmt.Sprintf("field type missing on %s", emptySide(src, dst)), label, "")

		return
	}

	bridged := v.checkTransformation(res, m, src, dst)

	compat := v.classifier.Classify(string(src.Type), string(dst.Type))

	switch compat.Level {
	case match.LevelError:
		if bridged {
			res.AddWarning(CodeBridgedByTransformation,
				fmt.Sprintf("%s; relying on the attached transformation", compat.Message), label, m.TargetFieldID)

			return
		}

		res.AddError(CodeIncompatibleTypes, compat.Message, label, m.TargetFieldID).
			WithSuggestion(fmt.Sprintf("choose a source field that %q accepts, or attach a custom pipeline", dst.ID))
	case match.LevelWarning:
		if m.HasTransformation() {
			return
		}

		d := res.AddInfo(CodeTransformationRecommended,
			fmt.Sprintf("apply a transformation: %s", compat.Message), label, m.TargetFieldID)

		if v.catalog != nil {
			if def, ok := v.catalog.Find(string(src.Type), string(dst.Type)); ok {
				d.WithSuggestion(fmt.Sprintf("attach transformation %q", def.ID))
			}
		}
	case match.LevelInfo:
		res.AddInfo(CodeCompatibilityNote, compat.Message, label, m.TargetFieldID)
	case match.LevelCompatible:
	}
}

// checkTransformation validates the attached transformation and reports
// whether it can bridge the pair: a parseable pipeline, or a definition
// registered for exactly the field types.
func (v *Validator) checkTransformation(res *diagnostic.Diagnostics, m *FieldMapping, src, dst schema.FieldDescriptor) bool {
	label := m.Label()

	if m.Pipeline != "" {
		if _, err := transform.Parse(m.Pipeline); err != nil {
			res.AddError(CodeInvalidPipeline, err.Error(), label, m.TargetFieldID)
			return false
		}

		return true
	}

	if m.TransformationID == "" {
		return false
	}

	if v.catalog == nil {
		return false
	}

	def, ok := v.catalog.Get(m.TransformationID)
	if !ok {
		res.AddError(CodeUnknownTransformation,
			fmt.Sprintf("transformation %q is not registered", m.TransformationID), label, m.TargetFieldID)

		return false
	}

	if !src.Type.Equal(schema.TypeTag(def.SourceType)) || !dst.Type.Equal(schema.TypeTag(def.TargetType)) {
		d := res.AddError(CodeTransformationMismatch,
			fmt.Sprintf("transformation %q converts %s to %s, fields are %s to %s",
				def.ID, def.SourceType, def.TargetType, src.Type.Normalize(), dst.Type.Normalize()),
			label, m.TargetFieldID)

		if alt, ok := v.catalog.Find(string(src.Type), string(dst.Type)); ok {
			d.WithSuggestion(fmt.Sprintf("attach transformation %q", alt.ID))
		}

		return false
	}

	return true
}

func emptySide(src, dst schema.FieldDescriptor) string {
	switch {
	case src.Type.IsEmpty() && dst.Type.IsEmpty():
		return fmt.Sprintf("source %q and target %q", src.ID, dst.ID)
	case src.Type.IsEmpty():
		return fmt.Sprintf("source %q", src.ID)
	default:
		return fmt.Sprintf("target %q", dst.ID)
	}
}
