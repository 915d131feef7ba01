package yulsmt

import (
	"fmt"
	"sort"
)

// Model represents an assignment of constant values to free variables.
type Model map[string]*ConstantExpr

// Names returns the variable names bound by the model in sorted order.
func (m Model) Names() []string {
	a := make([]string, 0, len(m))
	for name := range m {
		a = append(a, name)
	}
	sort.Strings(a)
	return a
}

// ExprEvaluator evaluates expressions using known variable values.
type ExprEvaluator struct {
	model Model
}

// NewExprEvaluator returns a new instance of ExprEvaluator for the given model.
func NewExprEvaluator(model Model) *ExprEvaluator {
	return &ExprEvaluator{model: model}
}

// Evaluate evaluates expr to a constant expression.
// Returns an error if an unbound variable is encountered or if the result
// is not fixed by the model (e.g. integer division by zero).
func (ee *ExprEvaluator) Evaluate(expr Expr) (*ConstantExpr, error) {
	switch expr := expr.(type) {
	case *ConstantExpr:
		return expr, nil
	case *VariableExpr:
		value, ok := ee.model[expr.Name]
		if !ok {
			return nil, fmt.Errorf("variable not bound: %s", expr.Name)
		} else if value.Sort != expr.Sort {
			return nil, fmt.Errorf("variable %s bound to %s value, expected %s", expr.Name, value.Sort, expr.Sort)
		}
		return value, nil
	case *BinaryExpr:
		lhs, err := ee.Evaluate(expr.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := ee.Evaluate(expr.RHS)
		if err != nil {
			return nil, err
		}
		return ee.constant(NewBinaryExpr(expr.Op, lhs, rhs))
	case *NotExpr:
		v, err := ee.Evaluate(expr.Expr)
		if err != nil {
			return nil, err
		}
		return ee.constant(NewNotExpr(v))
	case *IteExpr:
		cond, err := ee.Evaluate(expr.Cond)
		if err != nil {
			return nil, err
		} else if cond.IsTrue() {
			return ee.Evaluate(expr.Then)
		}
		return ee.Evaluate(expr.Else)
	case *Int2BVExpr:
		v, err := ee.Evaluate(expr.Expr)
		if err != nil {
			return nil, err
		}
		return ee.constant(NewInt2BVExpr(v, expr.Width))
	case *BV2IntExpr:
		v, err := ee.Evaluate(expr.Expr)
		if err != nil {
			return nil, err
		}
		return ee.constant(NewBV2IntExpr(v))
	default:
		return nil, fmt.Errorf("invalid expression type: %T", expr)
	}
}

// EvaluateBool evaluates a boolean expression.
func (ee *ExprEvaluator) EvaluateBool(expr Expr) (bool, error) {
	v, err := ee.Evaluate(expr)
	if err != nil {
		return false, err
	} else if v.Sort != BoolSort {
		return false, fmt.Errorf("expected boolean expression, got %s", v.Sort)
	}
	return v.IsTrue(), nil
}

func (ee *ExprEvaluator) constant(expr Expr) (*ConstantExpr, error) {
	if c, ok := expr.(*ConstantExpr); ok {
		return c, nil
	}
	return nil, fmt.Errorf("undefined result: %s", expr)
}
