package codegen

import "strings"

// lineWrap splits a rendered right-hand-side expression into lines no
// wider than budget columns, breaking only at whitespace (the rendered
// form already has a space around every operator, so every break point
// is a legal continuation point). Mirrors the line-wrapping behavior
// `Stream::operator<<(AssignStmt*)` relies on from `util.hh`'s line_wrap,
// reimplemented fresh since util.cc's body wasn't part of the retrieval
// pack.
func lineWrap(s string, budget int) []string {
	if len(s) <= budget {
		return []string{s}
	}
	words := strings.Fields(s)
	if len(words) <= 1 {
		return []string{s}
	}

	var lines []string
	var cur strings.Builder
	for _, w := range words {
		switch {
		case cur.Len() == 0:
			cur.WriteString(w)
		case cur.Len()+1+len(w) > budget:
			lines = append(lines, cur.String())
			cur.Reset()
			cur.WriteString(w)
		default:
			cur.WriteByte(' ')
			cur.WriteString(w)
		}
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
