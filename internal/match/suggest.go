package match

import (
	"sort"

	"casestudy-mapper/internal/schema"
)

// Scoring weights and default thresholds for suggestions.
const (
	nameWeight = 0.6
	typeWeight = 0.4

	// DefaultMinScore is the minimum combined score for a suggestion.
	DefaultMinScore = 0.55
	// DefaultAmbiguityThreshold is the score gap under which the runner-up
	// makes a suggestion ambiguous.
	DefaultAmbiguityThreshold = 0.1
)

// Candidate is a potential source field for a target field.
type Candidate struct {
	Source        schema.FieldDescriptor `json:"source"`
	Target        schema.FieldDescriptor `json:"target"`
	NameScore     float64                `json:"nameScore"`
	Compatibility Result                 `json:"compatibility"`
	Score         float64                `json:"score"`
}

// CandidateList is sorted by score, best first.
type CandidateList []Candidate

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
// Sorts by score descending, then by target and source id for determinism.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	if c[i].Target.ID != c[j].Target.ID {
		return c[i].Target.ID < c[j].Target.ID
	}

	return c[i].Source.ID < c[j].Source.ID
}

// Best returns the best candidate, or nil if there are none.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// IsAmbiguous returns true if the top two candidates are within threshold.
func (c CandidateList) IsAmbiguous(threshold float64) bool {
	if len(c) < 2 {
		return false
	}

	return c[0].Score-c[1].Score < threshold
}

// Rank scores every source field against target. Sources whose type cannot
// be mapped onto the target are skipped.
func (c *Classifier) Rank(target schema.FieldDescriptor, sources []schema.FieldDescriptor) CandidateList {
	var out CandidateList

	for _, src := range sources {
		compat := c.Classify(string(src.Type), string(target.Type))
		if !compat.Level.Mappable() {
			continue
		}

		nameScore := max(NameSimilarity(src.Name, target.Name), NameSimilarity(src.ID, target.ID))

		out = append(out, Candidate{
			Source:        src,
			Target:        target,
			NameScore:     nameScore,
			Compatibility: compat,
			Score:         combinedScore(nameScore, compat.Level),
		})
	}

	sort.Sort(out)

	return out
}

// Suggestion proposes one source field for one target field.
type Suggestion struct {
	TargetFieldID string   `json:"targetFieldId"`
	SourceFieldID string   `json:"sourceFieldId"`
	Score         float64  `json:"score"`
	Level         Level    `json:"level"`
	Message       string   `json:"message"`
	Ambiguous     bool     `json:"ambiguous,omitempty"`
	Alternatives  []string `json:"alternatives,omitempty"`
}

// SuggestOptions tunes Suggest.
type SuggestOptions struct {
	MinScore           float64 `json:"minScore,omitempty" yaml:"min_score,omitempty"`
	AmbiguityThreshold float64 `json:"ambiguityThreshold,omitempty" yaml:"ambiguity_threshold,omitempty"`
}

// Suggest proposes at most one source field per target field and uses each
// source field at most once. Pairs are assigned greedily, best score first,
// so the result does not depend on target order.
func (c *Classifier) Suggest(sources, targets []schema.FieldDescriptor, opts SuggestOptions) []Suggestion {
	if opts.MinScore <= 0 {
		opts.MinScore = DefaultMinScore
	}

	if opts.AmbiguityThreshold <= 0 {
		opts.AmbiguityThreshold = DefaultAmbiguityThreshold
	}

	ranked := make(map[string]CandidateList, len(targets))

	var all CandidateList

	for _, t := range targets {
		list := c.Rank(t, sources)
		ranked[t.ID] = list

		for _, cand := range list {
			if cand.Score >= opts.MinScore {
				all = append(all, cand)
			}
		}
	}

	sort.Sort(all)

	usedTarget := make(map[string]bool)
	usedSource := make(map[string]bool)

	var out []Suggestion

	for _, cand := range all {
		if usedTarget[cand.Target.ID] || usedSource[cand.Source.ID] {
			continue
		}

		usedTarget[cand.Target.ID] = true
		usedSource[cand.Source.ID] = true

		list := ranked[cand.Target.ID]

		var alts []string

		for _, other := range list {
			if other.Source.ID != cand.Source.ID && other.Score >= opts.MinScore {
				alts = append(alts, other.Source.ID)
			}
		}

		out = append(out, Suggestion{
			TargetFieldID: cand.Target.ID,
			SourceFieldID: cand.Source.ID,
			Score:         cand.Score,
			Level:         cand.Compatibility.Level,
			Message:       cand.Compatibility.Message,
			Ambiguous:     list.IsAmbiguous(opts.AmbiguityThreshold),
			Alternatives:  alts,
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].TargetFieldID < out[j].TargetFieldID })

	return out
}

func combinedScore(nameScore float64, level Level) float64 {
	var typeScore float64

	switch level {
	case LevelCompatible:
		typeScore = 1.0
	case LevelInfo:
		typeScore = 0.8
	case LevelWarning:
		typeScore = 0.5
	case LevelError:
		typeScore = 0
	}

	return nameScore*nameWeight + typeScore*typeWeight
}
