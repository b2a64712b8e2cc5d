package interpreter

import "github.com/lykia-rs/lykiadb-sub002/pkg/value"

// Control-flow signals (§4.4). They satisfy `error` so Expr/Stmt.Accept's
// uniform (interface{}, error) shape can carry them, but callers at a loop
// or call boundary type-assert and handle them distinctly from real errors;
// escaping one all the way to Run becomes an UnexpectedStatement.

type returnSignal struct{ Value value.Value }

func (*returnSignal) Error() string { return "return outside of a function call" }

type breakSignal struct{}

func (*breakSignal) Error() string { return "break outside of a loop" }

type continueSignal struct{}

func (*continueSignal) Error() string { return "continue outside of a loop" }

func isControlSignal(err error) bool {
	switch err.(type) {
	case *returnSignal, *breakSignal, *continueSignal:
		return true
	default:
		return false
	}
}
