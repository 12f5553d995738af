// Package diag collects and renders compiler diagnostics: errors and
// warnings attached to IR nodes rather than source positions, since designs
// built through the ir API have no backing source file.
package diag

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"kratosc/internal/ir"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Location pins a Diagnostic to the IR node (if any) it concerns.
type Location struct {
	Node ir.Node
}

func (l Location) String() string {
	if l.Node == nil {
		return "<no location>"
	}
	switch n := l.Node.(type) {
	case *ir.Var:
		return n.Name()
	case fmt.Stringer:
		return n.String()
	default:
		return fmt.Sprintf("%T", n)
	}
}

// Diagnostic is one reported warning or error.
type Diagnostic struct {
	Severity Severity
	Location Location
	Message  string
}

// jsonDiagnostic is Diagnostic's wire shape for the "json" format.
type jsonDiagnostic struct {
	Severity string `json:"severity"`
	Location string `json:"location"`
	Message  string `json:"message"`
}

// Reporter accumulates diagnostics and renders them to an io.Writer as they
// arrive, in either "text" or "json" format. A Reporter is safe for
// concurrent use by the parallel pass pipeline.
type Reporter struct {
	mu        sync.Mutex
	w         io.Writer
	format    string
	diags     []Diagnostic
	errCount  int
}

// NewReporter creates a Reporter writing to w in the given format ("text"
// or "json"; anything else falls back to "text").
func NewReporter(w io.Writer, format string) *Reporter {
	if format != "json" {
		format = "text"
	}
	return &Reporter{w: w, format: format}
}

// HasErrors reports whether any error-severity diagnostic has been
// recorded so far.
func (r *Reporter) HasErrors() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errCount > 0
}

// Count returns the total number of diagnostics recorded so far.
func (r *Reporter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.diags)
}

// Diagnostics returns a copy of every diagnostic recorded so far, in
// report order.
func (r *Reporter) Diagnostics() []Diagnostic {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Diagnostic(nil), r.diags...)
}

// Error records and emits an error-severity diagnostic attached to node.
func (r *Reporter) Error(node ir.Node, message string) {
	r.record(Diagnostic{Severity: SeverityError, Location: Location{Node: node}, Message: message})
}

// Errorf is Error with fmt.Sprintf-style formatting and no node location.
func (r *Reporter) Errorf(format string, args ...any) {
	r.record(Diagnostic{Severity: SeverityError, Message: fmt.Sprintf(format, args...)})
}

// Warning records and emits a warning-severity diagnostic attached to
// node.
func (r *Reporter) Warning(node ir.Node, message string) {
	r.record(Diagnostic{Severity: SeverityWarning, Location: Location{Node: node}, Message: message})
}

// Warningf is Warning with fmt.Sprintf-style formatting and no node
// location.
func (r *Reporter) Warningf(format string, args ...any) {
	r.record(Diagnostic{Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)})
}

// ReportIRError records err as an error diagnostic, attaching the first
// participating node if err is an *ir.Error.
func (r *Reporter) ReportIRError(err error) {
	var irErr *ir.Error
	if e, ok := err.(*ir.Error); ok {
		irErr = e
	}
	if irErr != nil && len(irErr.Nodes) > 0 {
		r.Error(irErr.Nodes[0], err.Error())
		return
	}
	r.Errorf("%s", err.Error())
}

func (r *Reporter) record(d Diagnostic) {
	r.mu.Lock()
	r.diags = append(r.diags, d)
	if d.Severity == SeverityError {
		r.errCount++
	}
	r.mu.Unlock()

	r.emit(d)
}

func (r *Reporter) emit(d Diagnostic) {
	if r.w == nil {
		return
	}
	switch r.format {
	case "json":
		b, err := json.Marshal(jsonDiagnostic{
			Severity: d.Severity.String(),
			Location: d.Location.String(),
			Message:  d.Message,
		})
		if err != nil {
			return
		}
		fmt.Fprintln(r.w, string(b))
	default:
		fmt.Fprintf(r.w, "%s: %s: %s\n", d.Severity, d.Location, d.Message)
	}
}
