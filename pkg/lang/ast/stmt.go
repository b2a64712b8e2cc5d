package ast

import "github.com/lykia-rs/lykiadb-sub002/pkg/token"

// Stmt is implemented by every statement node (§3).
type Stmt interface {
	token.Spanned
	stmtNode()
	Accept(v Visitor) (interface{}, error)
}

type BaseStmt struct {
	Span token.Span
}

func (b BaseStmt) GetSpan() token.Span { return b.Span }
func (BaseStmt) stmtNode()             {}

// ProgramStmt is the top-level sequence of statements, the root of every AST.
type ProgramStmt struct {
	BaseStmt
	Statements []Stmt
}

func (s *ProgramStmt) Accept(v Visitor) (interface{}, error) { return v.VisitProgramStmt(s) }

// ExpressionStmt evaluates an expression for its side effects.
type ExpressionStmt struct {
	BaseStmt
	Expression Expr
}

func (s *ExpressionStmt) Accept(v Visitor) (interface{}, error) { return v.VisitExpressionStmt(s) }

// DeclarationStmt is `var $name = expr;`.
type DeclarationStmt struct {
	BaseStmt
	Name        string
	Initializer Expr
}

func (s *DeclarationStmt) Accept(v Visitor) (interface{}, error) { return v.VisitDeclarationStmt(s) }

// BlockStmt introduces a nested lexical scope.
type BlockStmt struct {
	BaseStmt
	Statements []Stmt
}

func (s *BlockStmt) Accept(v Visitor) (interface{}, error) { return v.VisitBlockStmt(s) }

// IfStmt is `if (cond) then [else else_branch]`.
type IfStmt struct {
	BaseStmt
	Condition  Expr
	Then       Stmt
	ElseBranch Stmt // nil if absent
}

func (s *IfStmt) Accept(v Visitor) (interface{}, error) { return v.VisitIfStmt(s) }

// LoopStmt models both `while` and C-style `for`: Condition is nil for an
// infinite loop, Post is nil for a plain while loop (§3/§4.4).
type LoopStmt struct {
	BaseStmt
	Condition Expr // nil => always true
	Body      Stmt
	Post      Stmt // nil if absent
}

func (s *LoopStmt) Accept(v Visitor) (interface{}, error) { return v.VisitLoopStmt(s) }

// BreakStmt exits the nearest enclosing loop.
type BreakStmt struct{ BaseStmt }

func (s *BreakStmt) Accept(v Visitor) (interface{}, error) { return v.VisitBreakStmt(s) }

// ContinueStmt jumps to the nearest enclosing loop's post-step.
type ContinueStmt struct{ BaseStmt }

func (s *ContinueStmt) Accept(v Visitor) (interface{}, error) { return v.VisitContinueStmt(s) }

// ReturnStmt unwinds to the nearest enclosing function call boundary.
type ReturnStmt struct {
	BaseStmt
	Value Expr // nil => Undefined
}

func (s *ReturnStmt) Accept(v Visitor) (interface{}, error) { return v.VisitReturnStmt(s) }
