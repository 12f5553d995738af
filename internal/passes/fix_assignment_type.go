package passes

import (
	"context"

	"kratosc/internal/ir"
)

// FixAssignmentType classifies every AssignStmt as Blocking or NonBlocking
// by inspecting the block that contains it: Sequential blocks want
// NonBlocking, Combinational/Scope/Function/Initial blocks and top-level
// statements want Blocking. A statement already carrying the other
// concrete type fails the pipeline with AssignTypeMismatch.
type FixAssignmentType struct{}

// Name returns the pass's name.
func (p *FixAssignmentType) Name() string { return "fix_assignment_type" }

// Run classifies every AssignStmt reachable from design.
func (p *FixAssignmentType) Run(ctx context.Context, design *ir.Design) error {
	for _, g := range design.Generators() {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, stmt := range g.Stmts() {
			if err := classifyStmt(stmt, ir.Blocking); err != nil {
				return err
			}
		}
	}
	return nil
}

// classifyBlock assigns wantType to every AssignStmt directly owned by
// block's children, recursing into nested blocks with the want-type
// implied by their own block kind.
func classifyBlock(block *ir.StmtBlock, wantType ir.AssignmentType) error {
	for _, stmt := range block.Children() {
		if err := classifyStmt(stmt, wantType); err != nil {
			return err
		}
	}
	return nil
}

func classifyStmt(stmt ir.Stmt, wantType ir.AssignmentType) error {
	switch s := stmt.(type) {
	case *ir.AssignStmt:
		return applyAssignType(s, wantType)
	case *ir.StmtBlock:
		childWant := ir.Blocking
		if s.BlockType() == ir.Sequential {
			childWant = ir.NonBlocking
		}
		return classifyBlock(s, childWant)
	case *ir.IfStmt:
		if err := classifyBlock(s.Then(), wantType); err != nil {
			return err
		}
		return classifyBlock(s.Else(), wantType)
	case *ir.SwitchStmt:
		for _, c := range s.Cases() {
			if err := classifyBlock(c.Body, wantType); err != nil {
				return err
			}
		}
	}
	return nil
}

func applyAssignType(stmt *ir.AssignStmt, wantType ir.AssignmentType) error {
	switch stmt.Type() {
	case ir.Undefined:
		stmt.SetType(wantType)
	case wantType:
		// already agrees
	default:
		return &ir.Error{
			Kind:    ir.KindAssignTypeMismatch,
			Message: "assignment already classified as " + stmt.Type().String() + " but its enclosing block requires " + wantType.String(),
			Nodes:   []ir.Node{stmt, stmt.Left(), stmt.Right()},
		}
	}
	return nil
}
