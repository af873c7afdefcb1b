// Package schema holds field descriptors and type tags for both sides of a
// mapping: the source content database and the fixed case-study target.
//
// Key types:
//   - TypeTag: open string enumeration, compared after Normalize
//   - FieldDescriptor: id, name, type and required flag of one field
//   - FieldGroup: named group of target fields (CaseStudyTarget)
//   - SourceLoader: external collaborator that fetches source fields
package schema
