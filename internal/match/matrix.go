package match

// DefaultMatrix returns the compatibility table between content database
// property types (sources) and case-study field types (targets).
// Each call returns a fresh matrix that callers may extend.
func DefaultMatrix() Matrix {
	m := Matrix{}

	// text
	m.Set("text", "title", LevelCompatible, "title is used as plain text")
	m.Set("text", "rich_text", LevelInfo, "formatting is dropped")
	m.Set("text", "url", LevelCompatible, "url is used as plain text")
	m.Set("text", "email", LevelCompatible, "email is used as plain text")
	m.Set("text", "phone_number", LevelCompatible, "phone number is used as plain text")
	m.Set("text", "select", LevelWarning, "the option name is used")
	m.Set("text", "status", LevelWarning, "the status name is used")
	m.Set("text", "multi_select", LevelWarning, "options must be joined into one string")
	m.Set("text", "number", LevelWarning, "number is formatted as text")
	m.Set("text", "date", LevelWarning, "date is formatted as text")
	m.Set("text", "formula", LevelInfo, "formula result is converted to text")
	m.Set("text", "people", LevelWarning, "people names must be joined into one string")
	m.Set("text", "files", LevelError, "files cannot be represented as text")
	m.Set("text", "checkbox", LevelError, "checkbox has no meaningful text form")

	// richText
	m.Set("richText", "rich_text", LevelCompatible, "rich text is preserved")
	m.Set("richText", "title", LevelCompatible, "title is used as rich text")
	m.Set("richText", "url", LevelInfo, "url becomes a plain paragraph")
	m.Set("richText", "formula", LevelInfo, "formula result is converted to text")
	m.Set("richText", "multi_select", LevelWarning, "options must be joined into one paragraph")

	// number
	m.Set("number", "formula", LevelWarning, "formula must evaluate to a number")
	m.Set("number", "rollup", LevelWarning, "rollup must aggregate to a number")
	m.Set("number", "rich_text", LevelError, "free text cannot be reliably read as a number")
	m.Set("number", "checkbox", LevelWarning, "checkbox becomes 0 or 1")

	// boolean
	m.Set("boolean", "checkbox", LevelCompatible, "checkbox is a boolean")
	m.Set("boolean", "formula", LevelWarning, "formula must evaluate to a boolean")
	m.Set("boolean", "status", LevelWarning, "status is compared against a value")
	m.Set("boolean", "select", LevelWarning, "option is compared against a value")

	// date
	m.Set("date", "created_time", LevelCompatible, "creation time is used as the date")
	m.Set("date", "last_edited_time", LevelCompatible, "last edit time is used as the date")
	m.Set("date", "rich_text", LevelWarning, "text must be parsed as a date")
	m.Set("date", "formula", LevelWarning, "formula must evaluate to a date")

	// image
	m.Set("image", "files", LevelWarning, "the first file is used as the image")
	m.Set("image", "url", LevelWarning, "url is treated as an image location")

	// files
	m.Set("files", "url", LevelWarning, "url is wrapped as a single file")

	// list
	m.Set("list", "multi_select", LevelWarning, "option names become list items")
	m.Set("list", "people", LevelWarning, "people names become list items")
	m.Set("list", "relation", LevelInfo, "related page ids become list items")
	m.Set("list", "rich_text", LevelWarning, "text must be split into items")
	m.Set("list", "select", LevelInfo, "the option becomes a one-item list")

	// relation
	m.Set("relation", "rollup", LevelWarning, "rollup must resolve to page references")

	// url
	m.Set("url", "rich_text", LevelWarning, "text must contain a valid url")
	m.Set("url", "email", LevelInfo, "email becomes a mailto link")
	m.Set("url", "files", LevelWarning, "the first file url is used")
	m.Set("url", "formula", LevelWarning, "formula must evaluate to a url")

	// select
	m.Set("select", "status", LevelCompatible, "status is a single option")
	m.Set("select", "multi_select", LevelWarning, "only the first option is kept")
	m.Set("select", "title", LevelInfo, "title is used as the option name")

	return m
}
