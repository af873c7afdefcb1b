// Package value provides the closed dynamic value type that flows through
// transformations.
//
// A Value is one of:
//   - null
//   - string, number, boolean, date
//   - list of values
//   - record of named values
//
// Values are immutable. Hash and Fingerprint give a structural hash that is
// insensitive to record field order and is used to build cache keys.
// JSON and YAML codecs are provided; dates are encoded in JSON as
// {"$date": "<RFC3339>"} so they survive persistence.
package value
