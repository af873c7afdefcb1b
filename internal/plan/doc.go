// Package plan decides how a single field mapping is executed.
//
// Strategy precedence, first match wins:
//  1. custom: the mapping carries an inline pipeline
//  2. template: the mapping names a registered transformation
//  3. direct: source and target types are equal
//  4. template: the registry has a definition for the type pair
//  5. direct: the pair classifies as COMPATIBLE or INFO
//  6. simple: the pair classifies as WARNING and the target has a primitive class
//  7. fallback
package plan
