package diag

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"kratosc/internal/ir"
)

func TestSeverityString(t *testing.T) {
	if got := SeverityError.String(); got != "error" {
		t.Errorf("SeverityError.String() = %q, want %q", got, "error")
	}
	if got := SeverityWarning.String(); got != "warning" {
		t.Errorf("SeverityWarning.String() = %q, want %q", got, "warning")
	}
}

func TestLocationStringNoNode(t *testing.T) {
	var l Location
	if got := l.String(); got != "<no location>" {
		t.Errorf("String() = %q, want %q", got, "<no location>")
	}
}

func TestLocationStringVarNode(t *testing.T) {
	ctx := ir.NewContext()
	g := ctx.NewGenerator("top")
	a, err := g.Var("a", 8, false)
	if err != nil {
		t.Fatalf("Var: %v", err)
	}
	l := Location{Node: a}
	if got := l.String(); got != "a" {
		t.Errorf("String() = %q, want %q", got, "a")
	}
}

func TestReporterRecordsAndCounts(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, "text")

	r.Warningf("heads up: %d", 1)
	if r.HasErrors() {
		t.Fatalf("a warning alone should not set HasErrors")
	}
	r.Errorf("boom: %s", "oops")
	if !r.HasErrors() {
		t.Fatalf("after an Errorf, HasErrors should be true")
	}
	if got := r.Count(); got != 2 {
		t.Fatalf("Count() = %d, want 2", got)
	}
}

func TestReporterDiagnosticsIsACopy(t *testing.T) {
	r := NewReporter(nil, "text")
	r.Errorf("one")
	r.Errorf("two")

	snap := r.Diagnostics()
	if len(snap) != 2 {
		t.Fatalf("got %d diagnostics, want 2", len(snap))
	}
	snap[0].Message = "mutated"

	again := r.Diagnostics()
	if again[0].Message != "one" {
		t.Fatalf("mutating a Diagnostics() snapshot leaked into the reporter's internal state: got %q", again[0].Message)
	}
}

func TestReporterTextFormat(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, "text")
	r.Errorf("something broke")

	out := buf.String()
	if !strings.Contains(out, "error:") || !strings.Contains(out, "something broke") {
		t.Fatalf("unexpected text output: %q", out)
	}
}

func TestReporterJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, "json")
	r.Warning(nil, "careful")

	var got jsonDiagnostic
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("json output did not parse as a diagnostic line: %v\noutput: %s", err, buf.String())
	}
	if got.Severity != "warning" || got.Message != "careful" {
		t.Fatalf("got %+v, want severity=warning message=careful", got)
	}
}

func TestNewReporterFallsBackToTextForUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf, "xml")
	if r.format != "text" {
		t.Fatalf("format = %q, want fallback to %q", r.format, "text")
	}
	r.Errorf("plain")
	if strings.Contains(buf.String(), "{") {
		t.Fatalf("an unrecognized format should fall back to text rendering, got %q", buf.String())
	}
}

func TestReporterNilWriterDoesNotPanic(t *testing.T) {
	r := NewReporter(nil, "text")
	r.Errorf("swallowed")
	if r.Count() != 1 {
		t.Fatalf("a nil writer should still record diagnostics, just skip emission")
	}
}

func TestReportIRErrorAttachesFirstNode(t *testing.T) {
	ctx := ir.NewContext()
	g := ctx.NewGenerator("top")
	a, err := g.Var("a", 8, false)
	if err != nil {
		t.Fatalf("Var: %v", err)
	}

	var buf bytes.Buffer
	r := NewReporter(&buf, "text")
	irErr := &ir.Error{Kind: ir.KindWidthMismatch, Message: "widths disagree", Nodes: []ir.Node{a}}
	r.ReportIRError(irErr)

	diags := r.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if diags[0].Severity != SeverityError {
		t.Fatalf("ReportIRError should record an error-severity diagnostic")
	}
	if diags[0].Location.Node != ir.Node(a) {
		t.Fatalf("ReportIRError should attach the *ir.Error's first Node as the location")
	}
}

func TestReportIRErrorWithoutNodesFallsBackToErrorf(t *testing.T) {
	r := NewReporter(nil, "text")
	r.ReportIRError(errors.New("plain failure"))

	diags := r.Diagnostics()
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if diags[0].Location.Node != nil {
		t.Fatalf("a non-ir.Error should not carry a location")
	}
	if !strings.Contains(diags[0].Message, "plain failure") {
		t.Fatalf("message = %q, want it to contain the original error text", diags[0].Message)
	}
}
