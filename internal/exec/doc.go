// Package exec runs field mappings against source values.
//
// The Executor asks the plan.Selector for a strategy, runs registered or
// inline transformations in a time-boxed goroutine and memoizes results in
// a cache.Cache keyed by a structural fingerprint of every input. It never
// returns an error: failures come back as results with Success=false, a
// message, a remediation hint and the mapping's fallback value.
package exec
