package schema

import (
	"strings"
)

// TypeTag is an open enumeration of field type names such as "title",
// "richText", "multi_select" or "number". Compatibility between tags is
// decided by table lookup only.
type TypeTag string

// Well-known target-side tags.
const (
	TypeText     TypeTag = "text"
	TypeRichText TypeTag = "richText"
	TypeNumber   TypeTag = "number"
	TypeBoolean  TypeTag = "boolean"
	TypeDate     TypeTag = "date"
	TypeImage    TypeTag = "image"
	TypeFiles    TypeTag = "files"
	TypeList     TypeTag = "list"
	TypeRelation TypeTag = "relation"
	TypeURL      TypeTag = "url"
	TypeSelect   TypeTag = "select"
)

// Well-known source-side tags (content database property types).
const (
	SourceTitle          TypeTag = "title"
	SourceRichText       TypeTag = "rich_text"
	SourceNumber         TypeTag = "number"
	SourceSelect         TypeTag = "select"
	SourceMultiSelect    TypeTag = "multi_select"
	SourceStatus         TypeTag = "status"
	SourceDate           TypeTag = "date"
	SourcePeople         TypeTag = "people"
	SourceFiles          TypeTag = "files"
	SourceCheckbox       TypeTag = "checkbox"
	SourceURL            TypeTag = "url"
	SourceEmail          TypeTag = "email"
	SourcePhoneNumber    TypeTag = "phone_number"
	SourceFormula        TypeTag = "formula"
	SourceRelation       TypeTag = "relation"
	SourceRollup         TypeTag = "rollup"
	SourceCreatedTime    TypeTag = "created_time"
	SourceLastEditedTime TypeTag = "last_edited_time"
)

// Normalize returns the canonical form of t: trimmed and lower-cased.
func (t TypeTag) Normalize() TypeTag {
	return TypeTag(strings.ToLower(strings.TrimSpace(string(t))))
}

// IsEmpty reports whether t is blank after trimming.
func (t TypeTag) IsEmpty() bool {
	return strings.TrimSpace(string(t)) == ""
}

// Equal compares two tags after normalization.
func (t TypeTag) Equal(o TypeTag) bool {
	return t.Normalize() == o.Normalize()
}

// String returns the tag as written.
func (t TypeTag) String() string {
	return string(t)
}

// FieldDescriptor describes one addressable field of a source or target schema.
type FieldDescriptor struct {
	ID       string  `json:"id" yaml:"id"`
	Name     string  `json:"name" yaml:"name"`
	Type     TypeTag `json:"type" yaml:"type"`
	Required bool    `json:"required,omitempty" yaml:"required,omitempty"`
}

// FieldGroup is a named, ordered set of target fields.
type FieldGroup struct {
	Name   string            `json:"name" yaml:"name"`
	Fields []FieldDescriptor `json:"fields" yaml:"fields"`
}

// Index maps field ids to descriptors. Later duplicates are ignored.
type Index map[string]FieldDescriptor

// NewIndex builds an Index over fields.
func NewIndex(fields []FieldDescriptor) Index {
	idx := make(Index, len(fields))
	for _, f := range fields {
		if _, exists := idx[f.ID]; exists {
			continue
		}

		idx[f.ID] = f
	}

	return idx
}

// Lookup returns the field with the given id.
func (i Index) Lookup(id string) (FieldDescriptor, bool) {
	f, ok := i[id]
	return f, ok
}
