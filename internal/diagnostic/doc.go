// Package diagnostic provides structured errors, warnings and notes produced
// while validating field mappings.
//
// Key capabilities:
//   - Missing required target reports
//   - Duplicate target assignment warnings
//   - Incompatible type pair errors with remediation suggestions
package diagnostic
