// Package match classifies (source type, target type) pairs into
// compatibility levels and ranks source fields as mapping suggestions.
//
// Key functions:
//   - Classifier.Classify: equality fast path, matrix lookup, registry fallback
//   - DefaultMatrix: the content database to case-study compatibility table
//   - NormalizeName / Levenshtein: fuzzy field name comparison
//   - Classifier.Suggest: greedy one-to-one source field suggestions
package match
