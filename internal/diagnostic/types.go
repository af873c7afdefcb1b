package diagnostic

import (
	"errors"
	"fmt"
	"strings"

	"casestudy-mapper/internal/common"
)

// Diagnostics collects validation findings in the order they were found.
type Diagnostics struct {
	Items []Diagnostic
}

// Diagnostic represents a single finding about a mapping.
type Diagnostic struct {
	// Severity of the diagnostic.
	Severity Severity `json:"level"`
	// Code is a unique identifier for this kind of finding.
	Code string `json:"code"`
	// Message is the human-readable description.
	Message string `json:"message"`
	// MappingID identifies the mapping this relates to (if any).
	MappingID string `json:"mappingId,omitempty"`
	// FieldID identifies the source or target field this relates to (if any).
	FieldID string `json:"fieldId,omitempty"`
	// Suggestions are remediation hints.
	Suggestions []string `json:"suggestions,omitempty"`
}

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns a human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return common.UnknownStr
	}
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "info":
		*s = SeverityInfo
	case "warning":
		*s = SeverityWarning
	case "error":
		*s = SeverityError
	default:
		return fmt.Errorf("unknown severity %q", text)
	}

	return nil
}

// Add appends a diagnostic and returns a pointer to it so callers can
// attach suggestions.
func (d *Diagnostics) Add(sev Severity, code, message, mappingID, fieldID string) *Diagnostic {
	d.Items = append(d.Items, Diagnostic{
		Severity:  sev,
		Code:      code,
		Message:   message,
		MappingID: mappingID,
		FieldID:   fieldID,
	})

	return &d.Items[len(d.Items)-1]
}

// AddError adds an error diagnostic.
func (d *Diagnostics) AddError(code, message, mappingID, fieldID string) *Diagnostic {
	return d.Add(SeverityError, code, message, mappingID, fieldID)
}

// AddWarning adds a warning diagnostic.
func (d *Diagnostics) AddWarning(code, message, mappingID, fieldID string) *Diagnostic {
	return d.Add(SeverityWarning, code, message, mappingID, fieldID)
}

// AddInfo adds an info diagnostic.
func (d *Diagnostics) AddInfo(code, message, mappingID, fieldID string) *Diagnostic {
	return d.Add(SeverityInfo, code, message, mappingID, fieldID)
}

// WithSuggestion appends a remediation hint.
func (d *Diagnostic) WithSuggestion(s string) *Diagnostic {
	d.Suggestions = append(d.Suggestions, s)
	return d
}

// Filter returns the diagnostics with the given severity.
func (d *Diagnostics) Filter(sev Severity) []Diagnostic {
	var out []Diagnostic

	for _, it := range d.Items {
		if it.Severity == sev {
			out = append(out, it)
		}
	}

	return out
}

// Errors returns error diagnostics.
func (d *Diagnostics) Errors() []Diagnostic { return d.Filter(SeverityError) }

// Warnings returns warning diagnostics.
func (d *Diagnostics) Warnings() []Diagnostic { return d.Filter(SeverityWarning) }

// Infos returns info diagnostics.
func (d *Diagnostics) Infos() []Diagnostic { return d.Filter(SeverityInfo) }

// HasErrors returns true if there are any error diagnostics.
func (d *Diagnostics) HasErrors() bool {
	for _, it := range d.Items {
		if it.Severity == SeverityError {
			return true
		}
	}

	return false
}

// IsValid returns true if there are no errors.
func (d *Diagnostics) IsValid() bool {
	return !d.HasErrors()
}

// Err returns a combined error from all error diagnostics, or nil if valid.
func (d *Diagnostics) Err() error {
	if d.IsValid() {
		return nil
	}

	var parts []string
	for _, e := range d.Errors() {
		parts = append(parts, e.String())
	}

	return errors.New(strings.Join(parts, "; "))
}

// String returns a formatted diagnostic string.
func (d Diagnostic) String() string {
	var prefix []string
	if d.MappingID != "" {
		prefix = append(prefix, "["+d.MappingID+"]")
	}

	if d.FieldID != "" {
		prefix = append(prefix, d.FieldID)
	}

	msg := d.Message
	if d.Code != "" {
		msg = fmt.Sprintf("[%s] %s", d.Code, msg)
	}

	if len(prefix) > 0 {
		return strings.Join(prefix, " ") + ": " + msg
	}

	return msg
}
