package transform

import (
	"fmt"
)

// OriginBuiltin marks definitions shipped with the engine.
const OriginBuiltin = "builtin"

var builtinTable = []Definition{
	{ID: "multi_select_to_text", SourceType: "multi_select", TargetType: "text", Tier: TierLossy, Cost: 1,
		Pipeline: `pluck("name") | join($separator)`, Description: "Joins option names with the separator option (default \", \")"},
	{ID: "multi_select_to_rich_text", SourceType: "multi_select", TargetType: "richText", Tier: TierLossy, Cost: 1,
		Pipeline: `pluck("name") | join($separator)`, Description: "Joins option names into one paragraph"},
	{ID: "multi_select_to_list", SourceType: "multi_select", TargetType: "list", Tier: TierExact, Cost: 1,
		Pipeline: `pluck("name")`, Description: "Uses option names as list items"},
	{ID: "multi_select_to_select", SourceType: "multi_select", TargetType: "select", Tier: TierLossy, Cost: 1,
		Pipeline: `pluck("name") | first`, Description: "Keeps the first option"},
	{ID: "select_to_text", SourceType: "select", TargetType: "text", Tier: TierExact, Cost: 1,
		Pipeline: `pluck("name") | to_string`, Description: "Uses the option name"},
	{ID: "select_to_list", SourceType: "select", TargetType: "list", Tier: TierExact, Cost: 1,
		Pipeline: `pluck("name") | to_list`, Description: "Wraps the option name in a list"},
	{ID: "status_to_text", SourceType: "status", TargetType: "text", Tier: TierExact, Cost: 1,
		Pipeline: `pluck("name") | to_string`, Description: "Uses the status name"},
	{ID: "status_to_select", SourceType: "status", TargetType: "select", Tier: TierExact, Cost: 1,
		Pipeline: `pluck("name")`, Description: "Uses the status name as the option"},
	{ID: "people_to_list", SourceType: "people", TargetType: "list", Tier: TierLossy, Cost: 1,
		Pipeline: `pluck("name")`, Description: "Uses people names as list items"},
	{ID: "people_to_text", SourceType: "people", TargetType: "text", Tier: TierLossy, Cost: 1,
		Pipeline: `pluck("name") | join($separator)`, Description: "Joins people names"},
	{ID: "title_to_text", SourceType: "title", TargetType: "text", Tier: TierLossy, Cost: 1,
		Pipeline: `extract_text`, Description: "Flattens the title runs into plain text"},
	{ID: "rich_text_to_text", SourceType: "rich_text", TargetType: "text", Tier: TierLossy, Cost: 1,
		Pipeline: `extract_text`, Description: "Drops formatting and keeps plain text"},
	{ID: "rich_text_to_list", SourceType: "rich_text", TargetType: "list", Tier: TierHeuristic, Cost: 2,
		Pipeline: `extract_text | split($separator)`, Description: "Splits text on the separator option (default \",\")"},
	{ID: "rich_text_to_date", SourceType: "rich_text", TargetType: "date", Tier: TierHeuristic, Cost: 2,
		Pipeline: `extract_text | to_date`, Description: "Parses the text as a date"},
	{ID: "rich_text_to_url", SourceType: "rich_text", TargetType: "url", Tier: TierHeuristic, Cost: 2,
		Pipeline: `extract_text | trim`, Description: "Uses the trimmed text as a url"},
	{ID: "files_to_image", SourceType: "files", TargetType: "image", Tier: TierLossy, Cost: 1,
		Pipeline: `url_of | first`, Description: "Uses the first file url as the image"},
	{ID: "files_to_files", SourceType: "files", TargetType: "files", Tier: TierExact, Cost: 1,
		Pipeline: `url_of`, Description: "Keeps file urls"},
	{ID: "files_to_url", SourceType: "files", TargetType: "url", Tier: TierLossy, Cost: 1,
		Pipeline: `url_of | first`, Description: "Uses the first file url"},
	{ID: "url_to_files", SourceType: "url", TargetType: "files", Tier: TierExact, Cost: 1,
		Pipeline: `to_list`, Description: "Wraps the url as a single file"},
	{ID: "date_to_text", SourceType: "date", TargetType: "text", Tier: TierLossy, Cost: 1,
		Pipeline: `format_date($layout)`, Description: "Formats the date with the layout option (default 2006-01-02)"},
	{ID: "date_to_date", SourceType: "date", TargetType: "date", Tier: TierExact, Cost: 1,
		Pipeline: `to_date`, Description: "Reads the start of a date range"},
	{ID: "created_time_to_date", SourceType: "created_time", TargetType: "date", Tier: TierExact, Cost: 1,
		Pipeline: `to_date`, Description: "Parses the creation timestamp"},
	{ID: "last_edited_time_to_date", SourceType: "last_edited_time", TargetType: "date", Tier: TierExact, Cost: 1,
		Pipeline: `to_date`, Description: "Parses the last edit timestamp"},
	{ID: "number_to_text", SourceType: "number", TargetType: "text", Tier: TierExact, Cost: 1,
		Pipeline: `to_string`, Description: "Formats the number"},
	{ID: "checkbox_to_number", SourceType: "checkbox", TargetType: "number", Tier: TierExact, Cost: 1,
		Pipeline: `to_number`, Description: "Maps checked to 1 and unchecked to 0"},
	{ID: "relation_to_list", SourceType: "relation", TargetType: "list", Tier: TierExact, Cost: 1,
		Pipeline: `pluck("id")`, Description: "Uses related page ids as list items"},
	{ID: "relation_to_relation", SourceType: "relation", TargetType: "relation", Tier: TierExact, Cost: 1,
		Pipeline: `pluck("id")`, Description: "Keeps related page ids"},
}

// Builtins returns the compiled built-in definitions.
func Builtins() ([]Definition, error) {
	out := make([]Definition, 0, len(builtinTable))

	for _, def := range builtinTable {
		compiled, err := Compile(def)
		if err != nil {
			return nil, fmt.Errorf("failed to compile builtin: %w", err)
		}

		compiled.Origin = OriginBuiltin
		out = append(out, compiled)
	}

	return out, nil
}

// RegisterBuiltins registers every built-in definition into r.
func RegisterBuiltins(r *Registry) error {
	defs, err := Builtins()
	if err != nil {
		return err
	}

	for _, def := range defs {
		if err := r.Register(def); err != nil {
			return err
		}
	}

	return nil
}
