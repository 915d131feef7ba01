package yulsmt

import (
	"errors"
	"strconv"

	"github.com/benbjohnson/yulsmt/ast"
	"go.uber.org/zap"
)

// VariableNameAtIndex returns the solver symbol for generation index of name.
func (e *Encoder) VariableNameAtIndex(name ast.YulName, index int) string {
	return string(name) + "_" + strconv.Itoa(index)
}

// Generation returns the current generation of name. Returns false if the
// variable has not been declared.
func (e *Encoder) Generation(name ast.YulName) (int, bool) {
	v, ok := e.versions.Get(name)
	if !ok {
		return 0, false
	}
	return v.(int), true
}

// VariableExpressionAtIndex returns the symbol for a specific generation of name.
// The variable must be declared and index must not exceed its current generation.
func (e *Encoder) VariableExpressionAtIndex(name ast.YulName, index int) Expr {
	gen, ok := e.Generation(name)
	assert(ok, "variable not declared: %s", name)
	assert(index >= 0 && index <= gen, "variable %s: index %d out of range [0, %d]", name, index, gen)
	return NewVariableExpr(e.VariableNameAtIndex(name, index), e.Sort())
}

// CurrentVariableExpression returns the symbol for the current generation of name.
func (e *Encoder) CurrentVariableExpression(name ast.YulName) Expr {
	gen, ok := e.Generation(name)
	assert(ok, "variable not declared: %s", name)
	return e.VariableExpressionAtIndex(name, gen)
}

// newGeneration advances name to its next generation and returns its symbol.
// A redeclared name continues its count so that no symbol is reused.
func (e *Encoder) newGeneration(name ast.YulName) *VariableExpr {
	next := 0
	if gen, ok := e.Generation(name); ok {
		next = gen + 1
	}
	e.versions = e.versions.Set(name, next)

	v := NewVariableExpr(e.VariableNameAtIndex(name, next), e.Sort())
	e.inRange[v.Name] = struct{}{}
	return v
}

// EncodeVariableDeclaration starts tracking the declared variables.
//
// A declaration without a value binds each variable to zero. A declaration of
// several variables from one value leaves them unconstrained.
func (e *Encoder) EncodeVariableDeclaration(decl *ast.VariableDeclaration) error {
	switch {
	case decl.Value == nil:
		for _, v := range decl.Variables {
			zero := e.toSort(NewInt64ConstantExpr(0))
			if err := e.bind(e.newGeneration(v.Name), zero); err != nil {
				return err
			}
		}
		return nil

	case len(decl.Variables) == 1:
		value, err := e.EncodeExpression(decl.Value)
		if errors.Is(err, ErrUnsupported) && e.UnknownOnUnsupported {
			return e.declareUnknown(decl.Variables[0].Name)
		} else if err != nil {
			return err
		}
		return e.bind(e.newGeneration(decl.Variables[0].Name), value)

	default:
		for _, v := range decl.Variables {
			if err := e.declareUnknown(v.Name); err != nil {
				return err
			}
		}
		return nil
	}
}

// EncodeVariableAssignment encodes an assignment to declared variables.
// Assigning several variables from one value leaves them unconstrained.
func (e *Encoder) EncodeVariableAssignment(a *ast.Assignment) error {
	if len(a.VariableNames) == 1 {
		return e.EncodeVariableUpdate(a.VariableNames[0].Name, a.Value)
	}
	for _, id := range a.VariableNames {
		if err := e.EncodeVariableUpdateUnknown(id.Name); err != nil {
			return err
		}
	}
	return nil
}

// EncodeVariableUpdate encodes value and binds it to a new generation of name.
// The value is encoded against the generations current before the update.
func (e *Encoder) EncodeVariableUpdate(name ast.YulName, value ast.Expression) error {
	_, ok := e.Generation(name)
	assert(ok, "update of undeclared variable: %s", name)

	v, err := e.EncodeExpression(value)
	if errors.Is(err, ErrUnsupported) && e.UnknownOnUnsupported {
		return e.EncodeVariableUpdateUnknown(name)
	} else if err != nil {
		return err
	}
	return e.bind(e.newGeneration(name), v)
}

// EncodeVariableUpdateUnknown advances name to a new generation constrained
// only to be a valid word.
func (e *Encoder) EncodeVariableUpdateUnknown(name ast.YulName) error {
	_, ok := e.Generation(name)
	assert(ok, "update of undeclared variable: %s", name)
	return e.declareUnknown(name)
}

func (e *Encoder) declareUnknown(name ast.YulName) error {
	v := e.newGeneration(name)
	e.Logger.Debug("unknown variable update", zap.String("name", string(name)), zap.String("symbol", v.Name))
	if v.Sort.Kind != SortInt {
		return nil
	}
	if err := e.AddAssertion(NewBinaryExpr(LE, NewInt64ConstantExpr(0), v)); err != nil {
		return err
	}
	return e.AddAssertion(NewBinaryExpr(LE, v, NewIntConstantExpr(maxWord)))
}

func (e *Encoder) bind(v *VariableExpr, value Expr) error {
	e.Logger.Debug("variable update", zap.String("symbol", v.Name), zap.Stringer("value", value))
	return e.AddAssertion(NewBinaryExpr(EQ, v, value))
}

// Variables returns the names of all tracked variables in sorted order.
func (e *Encoder) Variables() []ast.YulName {
	a := make([]ast.YulName, 0, e.versions.Len())
	for itr := e.versions.Iterator(); !itr.Done(); {
		k, _ := itr.Next()
		a = append(a, k.(ast.YulName))
	}
	return a
}
