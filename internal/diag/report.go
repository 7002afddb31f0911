// Package diag carries the structured diagnostic shape the middle-end
// emits: a Report with a severity, one or more source labels, and
// optional machine-applicable suggestions. Rendering is external — the
// core only produces Reports (see spec.md §6).
package diag

import (
	"encoding/json"
	stderrors "errors"

	"github.com/orilang/oricore/internal/ast"
	"github.com/orilang/oricore/internal/schema"
)

// Severity ranks a Report the way a driver should surface it.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
	SeverityHelp
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	case SeverityHelp:
		return "help"
	default:
		return "unknown"
	}
}

func (s Severity) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// Applicability tiers a Suggestion's edits by how safe they are to apply
// without review.
type Applicability uint8

const (
	MachineApplicable Applicability = iota
	MaybeIncorrect
	HasPlaceholders
	Unspecified
)

func (a Applicability) String() string {
	switch a {
	case MachineApplicable:
		return "machine-applicable"
	case MaybeIncorrect:
		return "maybe-incorrect"
	case HasPlaceholders:
		return "has-placeholders"
	default:
		return "unspecified"
	}
}

func (a Applicability) MarshalJSON() ([]byte, error) { return json.Marshal(a.String()) }

// Label attaches a message to a span. Primary marks the label that
// identifies the Report's main location; a Report may carry any number
// of secondary labels pointing at related spans (e.g. the earlier arm
// that subsumes a later one).
type Label struct {
	Span    ast.Span `json:"span"`
	Message string   `json:"message"`
	Primary bool     `json:"primary"`
}

// Edit is one textual substitution within a Suggestion.
type Edit struct {
	Span        ast.Span `json:"span"`
	Replacement string   `json:"replacement"`
}

// Suggestion is a proposed fix: a list of edits plus how safe they are to
// apply automatically.
type Suggestion struct {
	Message       string        `json:"message"`
	Edits         []Edit        `json:"edits"`
	Applicability Applicability `json:"applicability"`
}

// Report is the structured diagnostic carried by the middle-end. It
// generalizes the teacher's single-Span, single-Fix errors.Report with
// the richer shape spec.md §6 requires: a severity, multiple labels, and
// applicability-tiered suggestions, while keeping the teacher's
// Schema/Code/Phase/Message/Data fields and deterministic JSON.
type Report struct {
	Schema      string         `json:"schema"`
	Code        string         `json:"code"`
	Phase       string         `json:"phase"`
	Severity    Severity       `json:"severity"`
	Message     string         `json:"message"`
	Labels      []Label        `json:"labels,omitempty"`
	Notes       []string       `json:"notes,omitempty"`
	Suggestions []Suggestion   `json:"suggestions,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
}

// Schema is the schema tag every Report produced by this package carries.
const Schema = schema.ErrorV1

// ReportError wraps a Report as an error so structured reports survive
// errors.As unwrapping through ordinary Go error-handling paths.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts a Report from an error chain, if one is present.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if stderrors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps r as an error. Call sites that want a Report to
// survive as an error return WrapReport(r).
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders r with sorted keys so two runs over identical input
// produce byte-identical output.
func (r *Report) ToJSON() (string, error) {
	data, err := schema.MarshalDeterministic(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// New builds a bare Report for code/phase/message, with no labels or
// suggestions — callers append those as needed before surfacing it.
func New(code, phase string, severity Severity, message string) *Report {
	return &Report{
		Schema:   Schema,
		Code:     code,
		Phase:    phase,
		Severity: severity,
		Message:  message,
	}
}

// WithPrimaryLabel appends a primary label at span and returns r for
// chaining.
func (r *Report) WithPrimaryLabel(span ast.Span, message string) *Report {
	r.Labels = append(r.Labels, Label{Span: span, Message: message, Primary: true})
	return r
}

// WithSecondaryLabel appends a secondary (related-location) label.
func (r *Report) WithSecondaryLabel(span ast.Span, message string) *Report {
	r.Labels = append(r.Labels, Label{Span: span, Message: message})
	return r
}

// WithSuggestion appends a suggested fix.
func (r *Report) WithSuggestion(message string, applicability Applicability, edits ...Edit) *Report {
	r.Suggestions = append(r.Suggestions, Suggestion{Message: message, Edits: edits, Applicability: applicability})
	return r
}

// WithData sets data[key] = value, initializing Data on first use.
func (r *Report) WithData(key string, value any) *Report {
	if r.Data == nil {
		r.Data = map[string]any{}
	}
	r.Data[key] = value
	return r
}
