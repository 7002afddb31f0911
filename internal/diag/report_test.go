package diag

import (
	stderrors "errors"
	"testing"

	"github.com/orilang/oricore/internal/ast"
	"github.com/stretchr/testify/require"
)

func span(line int) ast.Span {
	return ast.Span{
		Start: ast.Pos{Line: line, Column: 1, File: "t.ori", Offset: 0},
		End:   ast.Pos{Line: line, Column: 10, File: "t.ori", Offset: 9},
	}
}

func TestSeverityStringAndJSON(t *testing.T) {
	require.Equal(t, "error", SeverityError.String())
	require.Equal(t, "warning", SeverityWarning.String())
	require.Equal(t, "note", SeverityNote.String())
	require.Equal(t, "help", SeverityHelp.String())

	b, err := SeverityWarning.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `"warning"`, string(b))
}

func TestApplicabilityStringAndJSON(t *testing.T) {
	require.Equal(t, "machine-applicable", MachineApplicable.String())
	require.Equal(t, "maybe-incorrect", MaybeIncorrect.String())
	require.Equal(t, "has-placeholders", HasPlaceholders.String())
	require.Equal(t, "unspecified", Unspecified.String())

	b, err := MachineApplicable.MarshalJSON()
	require.NoError(t, err)
	require.Equal(t, `"machine-applicable"`, string(b))
}

func TestNewBuildsBareReport(t *testing.T) {
	r := New(MAT001, "match", SeverityError, "non-exhaustive match")
	require.Equal(t, Schema, r.Schema)
	require.Equal(t, MAT001, r.Code)
	require.Equal(t, "match", r.Phase)
	require.Equal(t, SeverityError, r.Severity)
	require.Empty(t, r.Labels)
	require.Empty(t, r.Suggestions)
}

func TestWithPrimaryAndSecondaryLabel(t *testing.T) {
	r := New(MAT001, "match", SeverityError, "non-exhaustive match").
		WithPrimaryLabel(span(1), "missing arm for None").
		WithSecondaryLabel(span(2), "first arm here")

	require.Len(t, r.Labels, 2)
	require.True(t, r.Labels[0].Primary)
	require.False(t, r.Labels[1].Primary)
}

func TestWithSuggestionAppendsEdits(t *testing.T) {
	r := New(MAT001, "match", SeverityError, "non-exhaustive match").
		WithSuggestion("add a wildcard arm", MachineApplicable, Edit{Span: span(3), Replacement: "_ => unreachable()"})

	require.Len(t, r.Suggestions, 1)
	require.Equal(t, MachineApplicable, r.Suggestions[0].Applicability)
	require.Len(t, r.Suggestions[0].Edits, 1)
}

func TestWithDataInitializesMap(t *testing.T) {
	r := New(ARC001, "arc", SeverityWarning, "function not expressible in ARC IR").
		WithData("function", "foo").
		WithData("reason", "recursive closure capture")

	require.Equal(t, "foo", r.Data["function"])
	require.Equal(t, "recursive closure capture", r.Data["reason"])
}

func TestWrapReportAndAsReportRoundTrip(t *testing.T) {
	r := New(QRY001, "query", SeverityNote, "artifact cache entry corrupt")
	err := WrapReport(r)
	require.Error(t, err)

	got, ok := AsReport(err)
	require.True(t, ok)
	require.Same(t, r, got)
}

func TestAsReportFalseForPlainError(t *testing.T) {
	_, ok := AsReport(stderrors.New("boom"))
	require.False(t, ok)
}

func TestWrapReportNilIsNilError(t *testing.T) {
	require.NoError(t, WrapReport(nil))
}

func TestReportErrorMessage(t *testing.T) {
	r := New(MAT002, "match", SeverityWarning, "unreachable arm")
	err := WrapReport(r)
	require.Equal(t, "MAT002: unreachable arm", err.Error())
}

func TestToJSONIsDeterministic(t *testing.T) {
	r := New(MAT001, "match", SeverityError, "non-exhaustive match").
		WithPrimaryLabel(span(1), "missing arm").
		WithData("z", 1).
		WithData("a", 2)

	j1, err := r.ToJSON()
	require.NoError(t, err)
	j2, err := r.ToJSON()
	require.NoError(t, err)
	require.Equal(t, j1, j2)
	require.Contains(t, j1, `"code":"MAT001"`)
}
