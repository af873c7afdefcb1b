// Package transform holds the transformation registry and the logic that
// transformations are built from.
//
// Custom transformations are not arbitrary code: they are pipelines over a
// closed set of operations (extract_text, pluck, join, format_date, ...),
// parsed once and run against value.Value inputs. Built-in definitions and
// definition files use the same pipeline language.
//
// The primitive coercion table (Coerce, PrimitiveFor) backs the "simple"
// strategy and the output checks of the executor.
package transform
