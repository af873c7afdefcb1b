// Package main provides the CLI entrypoint for casestudy-mapper.
//
// casestudy-mapper maps content database properties onto the case-study
// target schema:
//   - classifies source/target type pairs
//   - validates and suggests field mappings
//   - runs transformations, builtin or loaded from definition files
//   - serves the same operations over HTTP
package main

func main() {
	Execute()
}
