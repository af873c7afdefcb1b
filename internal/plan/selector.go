package plan

import (
	"errors"
	"fmt"

	"casestudy-mapper/internal/mapping"
	"casestudy-mapper/internal/match"
	"casestudy-mapper/internal/schema"
	"casestudy-mapper/internal/transform"
)

// ErrUnknownTransformation is returned when a mapping names a transformation
// the registry does not hold.
var ErrUnknownTransformation = errors.New("unknown transformation")

// Decision is the selected strategy for one mapping and type pair.
type Decision struct {
	Strategy      Strategy             `json:"strategy"`
	Compatibility match.Result         `json:"compatibility"`
	Reason        string               `json:"reason"`
	Definition    transform.Definition `json:"definition,omitzero"`
	// Pipeline is set for the custom strategy.
	Pipeline *transform.Pipeline `json:"-"`
	// Primitive is the coercion target for the simple strategy.
	Primitive transform.Primitive `json:"-"`
}

// TransformationID names what will run: the definition id, the canonical
// pipeline text, or the strategy name.
func (d Decision) TransformationID() string {
	switch d.Strategy {
	case StrategyTemplate:
		return d.Definition.ID
	case StrategyCustom:
		return d.Pipeline.String()
	default:
		return d.Strategy.String()
	}
}

// Selector picks execution strategies. It holds no state of its own.
type Selector struct {
	classifier mapping.Classifier
	catalog    mapping.Catalog
}

// NewSelector creates a selector over a classifier and a definition catalog.
func NewSelector(classifier mapping.Classifier, catalog mapping.Catalog) *Selector {
	return &Selector{classifier: classifier, catalog: catalog}
}

// Select decides how m turns a sourceType value into a targetType value.
// An invalid pipeline or an unknown transformation id yields a fallback
// decision together with the error.
func (s *Selector) Select(m mapping.FieldMapping, sourceType, targetType string) (Decision, error) {
	d := Decision{Compatibility: s.classifier.Classify(sourceType, targetType)}

	if m.Pipeline != "" {
		p, err := transform.Parse(m.Pipeline)
		if err != nil {
			return fallback(d, "invalid pipeline"), err
		}

		d.Strategy = StrategyCustom
		d.Pipeline = p
		d.Reason = "mapping carries a custom pipeline"

		return d, nil
	}

	if m.TransformationID != "" {
		def, ok := s.catalog.Get(m.TransformationID)
		if !ok {
			return fallback(d, "transformation not registered"),
				fmt.Errorf("%w: %q", ErrUnknownTransformation, m.TransformationID)
		}

		d.Strategy = StrategyTemplate
		d.Definition = def
		d.Reason = "transformation attached to the mapping"

		return d, nil
	}

	if schema.TypeTag(sourceType).Equal(schema.TypeTag(targetType)) && !schema.TypeTag(sourceType).IsEmpty() {
		d.Strategy = StrategyDirect
		d.Reason = match.MsgIdentical

		return d, nil
	}

	if def, ok := s.catalog.Find(sourceType, targetType); ok {
		d.Strategy = StrategyTemplate
		d.Definition = def
		d.Reason = "registered transformation for the type pair"

		return d, nil
	}

	switch d.Compatibility.Level {
	case match.LevelCompatible, match.LevelInfo:
		d.Strategy = StrategyDirect
		d.Reason = "types are compatible"

		return d, nil
	case match.LevelWarning:
		if p, ok := transform.PrimitiveFor(targetType); ok {
			d.Strategy = StrategySimple
			d.Primitive = p
			d.Reason = fmt.Sprintf("coerce to %s", p)

			return d, nil
		}
	case match.LevelError:
	}

	return fallback(d, "no strategy applies"), nil
}

func fallback(d Decision, reason string) Decision {
	d.Strategy = StrategyFallback
	d.Reason = reason
	d.Pipeline = nil

	return d
}
