package value

import "github.com/lykia-rs/lykiadb-sub002/pkg/lang/ast"

// Binary implements §4.4's binary coercion table. It never errors: every
// combination the table doesn't otherwise define yields Undefined (non-
// relational/arithmetic ops) per the table's catch-all row.
func Binary(left Value, op ast.Operation, right Value) Value {
	switch op {
	case ast.OpAdd:
		return add(left, right)
	case ast.OpSubtract, ast.OpMultiply, ast.OpDivide, ast.OpModulo:
		return arith(left, op, right)
	case ast.OpIsEqual:
		return Bool(equals(left, right))
	case ast.OpIsNotEqual:
		return Bool(!equals(left, right))
	case ast.OpGreater, ast.OpGreaterEqual, ast.OpLess, ast.OpLessEqual:
		return relational(left, op, right)
	default:
		return Undefined{}
	}
}

func isStr(v Value) (Str, bool) { s, ok := v.(Str); return s, ok }

func add(left, right Value) Value {
	if ls, ok := isStr(left); ok {
		return Str(string(ls) + Stringify(right))
	}
	if rs, ok := isStr(right); ok {
		return Str(Stringify(left) + string(rs))
	}
	return arith(left, ast.OpAdd, right)
}

func arith(left Value, op ast.Operation, right Value) Value {
	lf, lok := AsNumber(left)
	rf, rok := AsNumber(right)
	if !lok || !rok {
		if _, isNaN := left.(NaN); isNaN {
			return NaN{}
		}
		if _, isNaN := right.(NaN); isNaN {
			return NaN{}
		}
		return NaN{}
	}
	switch op {
	case ast.OpAdd:
		return Num(lf + rf)
	case ast.OpSubtract:
		return Num(lf - rf)
	case ast.OpMultiply:
		return Num(lf * rf)
	case ast.OpDivide:
		return Num(lf / rf)
	case ast.OpModulo:
		return Num(modFloat(lf, rf))
	default:
		return NaN{}
	}
}

func modFloat(a, b float64) float64 {
	if b == 0 {
		return NaN64()
	}
	m := a - b*float64(int64(a/b))
	return m
}

// NaN64 returns a float64 NaN without importing math solely for this.
func NaN64() float64 {
	var zero float64
	return zero / zero
}

func equals(left, right Value) bool {
	switch {
	case isNull(left) && isNull(right):
		return true
	case isNull(left) || isNull(right):
		return false
	}
	if ls, ok := isStr(left); ok {
		if rs, ok := isStr(right); ok {
			return ls == rs
		}
	}
	lf, lok := AsNumber(left)
	rf, rok := AsNumber(right)
	if lok && rok {
		return lf == rf
	}
	return false
}

func isNull(v Value) bool {
	_, ok := v.(Null)
	return ok
}

func relational(left Value, op ast.Operation, right Value) Value {
	if ls, lok := isStr(left); lok {
		if rs, rok := isStr(right); rok {
			return Bool(compareOrdered(string(ls) < string(rs), string(ls) == string(rs), op))
		}
	}
	lf, lok := AsNumber(left)
	rf, rok := AsNumber(right)
	if lok && rok {
		return Bool(compareOrdered(lf < rf, lf == rf, op))
	}
	return Bool(false)
}

func compareOrdered(less, equal bool, op ast.Operation) bool {
	switch op {
	case ast.OpLess:
		return less
	case ast.OpLessEqual:
		return less || equal
	case ast.OpGreater:
		return !less && !equal
	case ast.OpGreaterEqual:
		return !less
	default:
		return false
	}
}

// UnaryNegate implements §4.4's unary `-`: Bool promotes to 0/1, Num passes
// through negated, everything else yields NaN.
func UnaryNegate(v Value) Value {
	switch t := v.(type) {
	case Num:
		return Num(-float64(t))
	case Bool:
		if t {
			return Num(-1)
		}
		return Num(0)
	default:
		return NaN{}
	}
}

// UnaryNot implements §4.4's unary `!`: boolean negation of truthiness.
func UnaryNot(v Value) Value {
	return Bool(!Truthy(v))
}
