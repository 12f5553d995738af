package ir

// Visitor walks a Generator's statement tree in pre-order. Each callback is
// optional; returning false from VisitStmt stops descent into that
// statement's children without aborting the overall walk. Visit methods
// must not mutate the tree being walked; callers that need to remove or
// reorder statements should collect them during the walk and apply changes
// afterward.
type Visitor struct {
	// VisitStmt is called for every statement, including containers, before
	// their children are visited. Returning false skips descending into
	// this statement's children.
	VisitStmt func(Stmt) bool

	// VisitAssign is called for every AssignStmt encountered.
	VisitAssign func(*AssignStmt)

	// VisitVar is called for every *Var referenced by an AssignStmt, IfStmt
	// predicate, SwitchStmt target/case value, AssertStmt predicate,
	// ReturnStmt value, or FunctionCallStmt argument encountered during the
	// walk.
	VisitVar func(*Var)
}

// Walk visits every top-level statement of g, and recursively every nested
// statement, in pre-order.
func (vis *Visitor) Walk(g *Generator) {
	for _, s := range g.Stmts() {
		vis.walkStmt(s)
	}
}

// WalkBlock visits every statement within b, in pre-order.
func (vis *Visitor) WalkBlock(b *StmtBlock) {
	for _, s := range b.Children() {
		vis.walkStmt(s)
	}
}

func (vis *Visitor) walkStmt(s Stmt) {
	descend := true
	if vis.VisitStmt != nil {
		descend = vis.VisitStmt(s)
	}
	switch n := s.(type) {
	case *AssignStmt:
		if vis.VisitAssign != nil {
			vis.VisitAssign(n)
		}
		vis.visitVar(n.Left())
		vis.visitVar(n.Right())
	case *StmtBlock:
		if descend {
			for _, child := range n.Children() {
				vis.walkStmt(child)
			}
		}
	case *IfStmt:
		vis.visitVar(n.Predicate())
		if descend {
			vis.walkStmt(n.Then())
			vis.walkStmt(n.Else())
		}
	case *SwitchStmt:
		vis.visitVar(n.Target())
		if descend {
			for _, c := range n.Cases() {
				if c.Value != nil {
					vis.visitVar(c.Value)
				}
				vis.walkStmt(c.Body)
			}
		}
	case *AssertStmt:
		vis.visitVar(n.Predicate())
	case *ReturnStmt:
		if n.Value() != nil {
			vis.visitVar(n.Value())
		}
	case *FunctionCallStmt:
		for _, a := range n.Args() {
			vis.visitVar(a)
		}
	}
}

func (vis *Visitor) visitVar(v *Var) {
	if v != nil && vis.VisitVar != nil {
		vis.VisitVar(v)
	}
}
