package ast

// Visitor is implemented by consumers that walk the AST via double
// dispatch (Expr.Accept / Stmt.Accept), the shape recovered from
// original_source/lykiadb-lang/src/ast/visitor.rs. The interpreter,
// resolver, and planner's expression walkers all implement this interface
// (or a thin subset-focused adapter over it).
type Visitor interface {
	VisitLiteralExpr(e *LiteralExpr) (interface{}, error)
	VisitObjectExpr(e *ObjectExpr) (interface{}, error)
	VisitArrayExpr(e *ArrayExpr) (interface{}, error)
	VisitVariableExpr(e *VariableExpr) (interface{}, error)
	VisitAssignmentExpr(e *AssignmentExpr) (interface{}, error)
	VisitGroupingExpr(e *GroupingExpr) (interface{}, error)
	VisitUnaryExpr(e *UnaryExpr) (interface{}, error)
	VisitBinaryExpr(e *BinaryExpr) (interface{}, error)
	VisitLogicalExpr(e *LogicalExpr) (interface{}, error)
	VisitFunctionExpr(e *FunctionExpr) (interface{}, error)
	VisitCallExpr(e *CallExpr) (interface{}, error)
	VisitGetExpr(e *GetExpr) (interface{}, error)
	VisitSetExpr(e *SetExpr) (interface{}, error)
	VisitFieldPathExpr(e *FieldPathExpr) (interface{}, error)
	VisitSelectExpr(e *SelectExpr) (interface{}, error)
	VisitInsertExpr(e *InsertExpr) (interface{}, error)
	VisitUpdateExpr(e *UpdateExpr) (interface{}, error)
	VisitDeleteExpr(e *DeleteExpr) (interface{}, error)

	VisitProgramStmt(s *ProgramStmt) (interface{}, error)
	VisitExpressionStmt(s *ExpressionStmt) (interface{}, error)
	VisitDeclarationStmt(s *DeclarationStmt) (interface{}, error)
	VisitBlockStmt(s *BlockStmt) (interface{}, error)
	VisitIfStmt(s *IfStmt) (interface{}, error)
	VisitLoopStmt(s *LoopStmt) (interface{}, error)
	VisitBreakStmt(s *BreakStmt) (interface{}, error)
	VisitContinueStmt(s *ContinueStmt) (interface{}, error)
	VisitReturnStmt(s *ReturnStmt) (interface{}, error)
}

// Walk calls fn on every expression reachable from root, depth-first,
// including root itself. pkg/planner's subtree checks (scanAggregates,
// containsSubquery) do their own traversal and do not call Walk.
func Walk(root Expr, fn func(Expr) bool) {
	if root == nil || !fn(root) {
		return
	}
	switch e := root.(type) {
	case *ObjectExpr:
		for _, v := range e.Values {
			Walk(v, fn)
		}
	case *ArrayExpr:
		for _, v := range e.Elements {
			Walk(v, fn)
		}
	case *AssignmentExpr:
		Walk(e.Value, fn)
	case *GroupingExpr:
		Walk(e.Inner, fn)
	case *UnaryExpr:
		Walk(e.Operand, fn)
	case *BinaryExpr:
		Walk(e.Left, fn)
		Walk(e.Right, fn)
	case *LogicalExpr:
		Walk(e.Left, fn)
		Walk(e.Right, fn)
	case *CallExpr:
		Walk(e.Callee, fn)
		for _, a := range e.Args {
			Walk(a, fn)
		}
	case *GetExpr:
		Walk(e.Object, fn)
	case *SetExpr:
		Walk(e.Object, fn)
		Walk(e.Value, fn)
	}
	// Literal, Variable, Function, FieldPath, and the SQL subtree
	// expressions (Select/Insert/Update/Delete) are leaves from Walk's
	// point of view: planner code walks into their SQL structure directly
	// via the ast.SqlSelect et al. fields, not through this generic Walk.
}
