package codegen

import (
	"fmt"
	"strings"

	"kratosc/internal/ir"
)

const indentWidth = 4

// lineWrapBudget is the column budget applied to a top-level or
// in-process assignment's right-hand side, matching the 80-column rule
// codegen.cc's Stream applies.
const lineWrapBudget = 80

// stream accumulates one generator's emitted SystemVerilog text. It
// tracks line number and indent depth the way codegen.cc's Stream type
// does, so that a Debug-enabled generator's statements can record the
// emitted line they landed on.
type stream struct {
	b          strings.Builder
	generator  *ir.Generator
	lineNo     int
	indentLvl  int
	skipIndent bool
}

func newStream(g *ir.Generator) *stream {
	return &stream{generator: g, lineNo: 1}
}

func (s *stream) String() string { return s.b.String() }

func (s *stream) lineNumber() int { return s.lineNo }

func (s *stream) write(str string) {
	s.b.WriteString(str)
	s.lineNo += strings.Count(str, "\n")
}

func (s *stream) writeIndent() {
	if s.skipIndent {
		s.skipIndent = false
		return
	}
	if s.indentLvl > 0 {
		s.write(strings.Repeat(" ", s.indentLvl*indentWidth))
	}
}

func (s *stream) newline() { s.write("\n") }

func (s *stream) pushIndent() { s.indentLvl++ }
func (s *stream) popIndent()  { s.indentLvl-- }

func (s *stream) debug() bool { return s.generator.Debug }

// writeComment emits a single "// text" line at the current indent, with
// any embedded newlines flattened, matching strip_newline's effect in
// codegen.cc.
func (s *stream) writeComment(text string) {
	s.writeIndent()
	s.write("// " + strings.ReplaceAll(text, "\n", " "))
	s.newline()
}

// writeAssign renders an AssignStmt, choosing the `assign`/`=`/`<=` form
// by whether stmt sits at the generator's top level or inside a process
// block, recording verilog_ln in debug mode, and wrapping the
// right-hand side at lineWrapBudget columns.
func (s *stream) writeAssign(stmt *ir.AssignStmt) error {
	left := stmt.Left().Name()
	right := stmt.Right().Name()

	if c := stmt.Comment(); c != "" {
		s.writeComment(c)
	}
	if s.debug() {
		stmt.SetVerilogLine(s.lineNo)
	}

	s.writeIndent()
	var prefix, eq string
	if stmt.Parent() == ir.StmtContainer(s.generator) {
		if stmt.Type() != ir.Blocking {
			return &ir.Error{Kind: ir.KindIllegalAssignForm,
				Message: fmt.Sprintf("top level assignment for %s <- %s has to be blocking", left, right),
				Nodes:   []ir.Node{stmt, stmt.Left(), stmt.Right()}}
		}
		prefix, eq = "assign ", "="
	} else {
		switch stmt.Type() {
		case ir.Blocking:
			eq = "="
		case ir.NonBlocking:
			eq = "<="
		default:
			return &ir.Error{Kind: ir.KindAssignTypeMismatch,
				Message: fmt.Sprintf("assignment for %s <- %s was never classified as blocking or non-blocking", left, right),
				Nodes:   []ir.Node{stmt}}
		}
	}

	s.write(prefix + left + " " + eq + " ")
	wrapped := lineWrap(right, lineWrapBudget)
	s.write(wrapped[0])
	for _, line := range wrapped[1:] {
		s.newline()
		s.write(strings.Repeat(" ", (s.indentLvl+1)*indentWidth) + line)
	}
	s.write(";")
	s.newline()
	return nil
}

// varWidthStr returns the "[width-1:0]" suffix for a multi-bit var, or ""
// for a single-bit one.
func varWidthStr(width uint) string {
	if width <= 1 {
		return ""
	}
	return fmt.Sprintf("[%d:0]", width-1)
}

// varDecl renders v's standalone declaration line content (without the
// trailing semicolon), mirroring Stream::get_var_decl.
func varDecl(v *ir.Var) string {
	parts := []string{"logic"}
	if v.IsSigned() {
		parts = append(parts, "signed")
	}
	if w := varWidthStr(v.Width()); w != "" {
		parts = append(parts, w)
	}
	parts = append(parts, v.Name())
	return strings.Join(parts, " ")
}

// writeVarDecl emits one internal var's full declaration line.
func (s *stream) writeVarDecl(v *ir.Var) {
	if c := v.Comment(); c != "" {
		s.writeComment(c)
	}
	if s.debug() {
		v.SetVerilogLine(s.lineNo)
	}
	s.writeIndent()
	s.write(varDecl(v) + ";")
	s.newline()
}

// portDirStr renders a port's direction keyword.
func portDirStr(dir ir.PortDirection) string {
	switch dir {
	case ir.In:
		return "input"
	case ir.Out:
		return "output"
	case ir.InOut:
		return "inout"
	default:
		return "?"
	}
}

// portStr renders a port's full declaration (without direction-implied
// indent or trailing punctuation), mirroring get_port_str.
func portStr(p *ir.Var) string {
	parts := []string{portDirStr(p.Direction()), "logic"}
	if p.IsSigned() {
		parts = append(parts, "signed")
	}
	if w := varWidthStr(p.Width()); w != "" {
		parts = append(parts, w)
	}
	parts = append(parts, p.Name())
	return strings.Join(parts, " ")
}

// writePort emits one port's declaration line, with trailing "end"
// (typically "," or "") appended, matching Stream::operator<<((Port,
// end)).
func (s *stream) writePort(p *ir.Var, end string) {
	if c := p.Comment(); c != "" {
		s.writeComment(c)
	}
	if s.debug() {
		p.SetVerilogLine(s.lineNo)
	}
	s.writeIndent()
	s.write(portStr(p) + end)
	s.newline()
}
