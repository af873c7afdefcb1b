// Package mapping provides the field mapping model, its YAML file format
// and the mapping validator.
//
// # Mapping file
//
//	version: "1"
//	name: portfolio
//	source:
//	  - {id: p_title, name: Name, type: title}
//	  - {id: p_tags, name: Tags, type: multi_select}
//	  - {id: p_cover, name: Cover, type: files}
//	# Simplified 1:1 mappings, expanded before the explicit list
//	121:
//	  p_title: title
//	mappings:
//	  - source: p_tags
//	    target: tags
//	    transformation: multi_select_to_list
//	  - source: p_tags
//	    target: summary
//	    pipeline: pluck("name") | join(" / ")
//	  - source: p_cover
//	    target: hero_image
//	    fallback: "https://cdn.example.com/placeholder.png"
//	    allow_fallback: true
//
// # Validation
//
// Validator.Validate reports, in this order:
//  1. required target fields that no mapping fills (error)
//  2. target fields filled by more than one mapping (warning, with count)
//  3. per mapping: unresolved field ids, missing type tags, unknown or
//     mismatched transformations, invalid pipelines, and the compatibility
//     level of the (source type, target type) pair
//
// A report is valid iff it holds no error entries.
package mapping
