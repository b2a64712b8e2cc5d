package interpreter

import (
	"github.com/lykia-rs/lykiadb-sub002/pkg/env"
	"github.com/lykia-rs/lykiadb-sub002/pkg/errs"
	"github.com/lykia-rs/lykiadb-sub002/pkg/lang/ast"
	"github.com/lykia-rs/lykiadb-sub002/pkg/value"
)

func (it *Interpreter) VisitCallExpr(e *ast.CallExpr) (interface{}, error) {
	callee, err := it.Eval(e.Callee)
	if err != nil {
		return nil, err
	}
	c, ok := callee.(*value.Callable)
	if !ok {
		return nil, errs.Spanned(errs.ErrNotCallable.New(), e.GetSpan())
	}
	args := make([]value.Value, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := it.Eval(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	if c.Arity != nil && len(args) != *c.Arity {
		return nil, errs.Spanned(errs.ErrArityMismatch.New(*c.Arity, len(args)), e.GetSpan())
	}
	return it.call(c, args, e)
}

// call dispatches to whichever of a Callable's three shapes is populated:
// native, stateful, or user-defined (closure + body). Aggregator callables
// are recognized and driven by pkg/executor, not invoked this way; a bare
// script call to one is rejected.
func (it *Interpreter) call(c *value.Callable, args []value.Value, e *ast.CallExpr) (value.Value, error) {
	switch {
	case c.Native != nil:
		v, err := c.Native(it, args)
		if err != nil {
			return nil, wrapCallErr(err, e)
		}
		return v, nil
	case c.Stateful != nil:
		v, err := c.Stateful.Call(it, args)
		if err != nil {
			return nil, wrapCallErr(err, e)
		}
		return v, nil
	case c.Closure != nil || c.Body != nil:
		return it.callUserDefined(c, args, e)
	default:
		return nil, errs.Spanned(errs.ErrNotCallable.New(), e.GetSpan())
	}
}

// wrapCallErr attaches the call-site span to an error surfaced by a native
// or stateful callable, unless it already carries one.
func wrapCallErr(err error, e *ast.CallExpr) error {
	if _, ok := err.(*errs.WithSpan); ok {
		return err
	}
	return errs.Spanned(err, e.GetSpan())
}

func (it *Interpreter) callUserDefined(c *value.Callable, args []value.Value, e *ast.CallExpr) (value.Value, error) {
	closure, _ := c.Closure.(*env.Environment)
	body, _ := c.Body.([]ast.Stmt)
	if closure == nil {
		closure = it.env
	}
	frame := closure.Child()
	for i, p := range c.Parameters {
		var v value.Value = value.Undefined{}
		if i < len(args) {
			v = args[i]
		}
		frame.Declare(p, v)
	}
	prev := it.env
	it.env = frame
	defer func() { it.env = prev }()
	for _, st := range body {
		if err := it.Exec(st); err != nil {
			if rs, ok := err.(*returnSignal); ok {
				return rs.Value, nil
			}
			if isControlSignal(err) {
				return nil, errs.Spanned(errs.ErrUnexpectedStatement.New(), st.GetSpan())
			}
			return nil, err
		}
	}
	return value.Undefined{}, nil
}
