package planner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/ast"
)

// ExprString renders an expression as SQL-ish text for plan display and
// error messages. It is a debugging aid, not a parser round-trip target.
func ExprString(e ast.Expr) string {
	if e == nil {
		return ""
	}
	switch t := e.(type) {
	case *ast.LiteralExpr:
		return literalString(t)
	case *ast.VariableExpr:
		if t.Dollar {
			return "$" + t.Name
		}
		return t.Name
	case *ast.FieldPathExpr:
		parts := append([]string{t.Head}, t.Tail...)
		return strings.Join(parts, ".")
	case *ast.GroupingExpr:
		return "(" + ExprString(t.Inner) + ")"
	case *ast.UnaryExpr:
		return unaryOpString(t.Op) + ExprString(t.Operand)
	case *ast.BinaryExpr:
		return fmt.Sprintf("%s %s %s", ExprString(t.Left), binaryOpString(t.Op), ExprString(t.Right))
	case *ast.LogicalExpr:
		op := "AND"
		if t.Op == ast.OpOr {
			op = "OR"
		}
		return fmt.Sprintf("%s %s %s", ExprString(t.Left), op, ExprString(t.Right))
	case *ast.CallExpr:
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = ExprString(a)
		}
		return fmt.Sprintf("%s(%s)", ExprString(t.Callee), strings.Join(args, ", "))
	case *ast.GetExpr:
		return ExprString(t.Object) + "." + t.Name
	case *ast.ArrayExpr:
		parts := make([]string, len(t.Elements))
		for i, el := range t.Elements {
			parts[i] = ExprString(el)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *ast.SelectExpr:
		return "(SELECT ...)"
	default:
		return fmt.Sprintf("<%T>", e)
	}
}

func literalString(e *ast.LiteralExpr) string {
	switch v := e.Value.(type) {
	case string:
		return "'" + v + "'"
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case bool:
		if v {
			return "true"
		}
		return "false"
	case nil:
		return "null"
	default:
		return "undefined"
	}
}

func unaryOpString(op ast.Operation) string {
	if op == ast.OpNot {
		return "!"
	}
	return "-"
}

func binaryOpString(op ast.Operation) string {
	switch op {
	case ast.OpAdd:
		return "+"
	case ast.OpSubtract:
		return "-"
	case ast.OpMultiply:
		return "*"
	case ast.OpDivide:
		return "/"
	case ast.OpModulo:
		return "%"
	case ast.OpIsEqual:
		return "="
	case ast.OpIsNotEqual:
		return "!="
	case ast.OpGreater:
		return ">"
	case ast.OpGreaterEqual:
		return ">="
	case ast.OpLess:
		return "<"
	case ast.OpLessEqual:
		return "<="
	default:
		return "?"
	}
}
